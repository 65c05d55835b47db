package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyAuth_ValidToken(t *testing.T) {
	handler := APIKeyAuth("secret-key")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/companies/acme", nil)
	req.Header.Set("Authorization", "Bearer secret-key")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyAuth_MissingHeader(t *testing.T) {
	handler := APIKeyAuth("secret-key")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/companies/acme", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing authorization header")
}

func TestAPIKeyAuth_InvalidFormat(t *testing.T) {
	handler := APIKeyAuth("secret-key")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/companies/acme", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid authorization format")
}

func TestAPIKeyAuth_WrongToken(t *testing.T) {
	handler := APIKeyAuth("secret-key")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/companies/acme", nil)
	req.Header.Set("Authorization", "Bearer wrong-key")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid api key")
}

func TestAPIKeyAuth_EmptyKeyDisablesAuth(t *testing.T) {
	handler := APIKeyAuth("")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/companies/acme", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, captured)
	assert.Equal(t, captured, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_PreservesIncoming(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", captured)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}

func TestMaxBodyBytes_RejectsOversizedContentLength(t *testing.T) {
	handler := MaxBodyBytes(8)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/ask", nil)
	req.ContentLength = 100
	req.Body = http.NoBody
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
