package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prepdeck/brief/internal/api"
	"github.com/prepdeck/brief/internal/domain"
	"github.com/prepdeck/brief/internal/service"
)

type CompanyService interface {
	Lookup(ctx context.Context, name string) (*service.LookupResult, error)
	AddCompany(ctx context.Context, name, hint string) (*domain.Company, error)
}

type CompanyHandler struct {
	svc CompanyService
}

func NewCompanyHandler(svc CompanyService) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

type AddCompanyRequest struct {
	Name string `json:"name"`
	Hint string `json:"hint"`
}

type CompanyResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type LookupResponse struct {
	Exists  bool             `json:"exists"`
	Company *CompanyResponse `json:"company,omitempty"`
}

func companyToResponse(c *domain.Company) *CompanyResponse {
	return &CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// Get reports whether a company's knowledge base exists. It never triggers
// acquisition, so it is safe to poll.
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	result, err := h.svc.Lookup(r.Context(), name)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := LookupResponse{Exists: result.Exists}
	if result.Exists {
		resp.Company = companyToResponse(result.Company)
	}
	api.Success(w, http.StatusOK, resp)
}

// Create acquires and indexes a company explicitly.
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req AddCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		api.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	company, err := h.svc.AddCompany(r.Context(), req.Name, req.Hint)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, companyToResponse(company))
}
