package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prepdeck/brief/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusOK, map[string]string{"name": "acme"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body SuccessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]interface{}{"name": "acme"}, body.Data)
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusBadRequest, "bad input")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bad input", body.Error)
}

func TestDomainErrorToHTTP(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"validation", domain.ErrMissingQuestion, http.StatusBadRequest},
		{"not found", domain.ErrCompanyNotFound, http.StatusNotFound},
		{"already exists", domain.ErrCompanyAlreadyExists, http.StatusConflict},
		{"unauthorized", domain.ErrInvalidAPIKey, http.StatusUnauthorized},
		{"invalid operation", domain.ErrAlreadyIndexed, http.StatusBadRequest},
		{"upstream", domain.ErrSearchFailed, http.StatusBadGateway},
		{"wrapped domain error", fmt.Errorf("lookup: %w", domain.ErrCompanyNotFound), http.StatusNotFound},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DomainErrorToHTTP(tt.err))
		})
	}
}

func TestHandleError(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, domain.ErrCompanyNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "company not found")
}
