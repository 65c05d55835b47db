package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prepdeck/brief/internal/api"
	"github.com/prepdeck/brief/internal/domain"
)

type AskService interface {
	Ask(ctx context.Context, name, hint, question string) (*domain.Answer, error)
}

type AskHandler struct {
	svc AskService
}

func NewAskHandler(svc AskService) *AskHandler {
	return &AskHandler{svc: svc}
}

type AskRequest struct {
	Company  string `json:"company"`
	Hint     string `json:"hint"`
	Question string `json:"question"`
}

type SourceResponse struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type AskResponse struct {
	Company  string           `json:"company"`
	Answer   string           `json:"answer"`
	Sources  []SourceResponse `json:"sources"`
	Question string           `json:"question"`
}

// Ask answers a question about a company's interview process, acquiring and
// indexing the company's knowledge base first when it does not exist yet.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Company == "" {
		api.Error(w, http.StatusBadRequest, "company is required")
		return
	}
	if req.Question == "" {
		api.Error(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := h.svc.Ask(r.Context(), req.Company, req.Hint, req.Question)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	sources := make([]SourceResponse, 0, len(answer.Sources))
	for _, src := range answer.Sources {
		sources = append(sources, SourceResponse{Title: src.Title, URL: src.URL})
	}

	api.Success(w, http.StatusOK, AskResponse{
		Company:  domain.NormalizeCompanyName(req.Company),
		Answer:   answer.Answer,
		Sources:  sources,
		Question: req.Question,
	})
}
