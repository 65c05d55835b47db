package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
	ErrCodeUpstream         = "UPSTREAM_ERROR"
)

// Validation errors
var (
	ErrMissingCompanyName = NewDomainError(ErrCodeValidation, "company name is required")
	ErrMissingQuestion    = NewDomainError(ErrCodeValidation, "question is required")
)

// Not found errors
var (
	ErrCompanyNotFound = NewDomainError(ErrCodeNotFound, "company not found")
)

// Already exists errors
var (
	ErrCompanyAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "company already exists")
	ErrAlreadyIndexed       = NewDomainError(ErrCodeInvalidOperation, "company is already indexed")
)

// Authorization errors
var (
	ErrInvalidAPIKey = NewDomainError(ErrCodeUnauthorized, "invalid api key")
)

// Pipeline errors
var (
	ErrNoContent    = NewDomainError(ErrCodeNotFound, "no content available for company")
	ErrSearchFailed = NewDomainError(ErrCodeUpstream, "web search failed")
)
