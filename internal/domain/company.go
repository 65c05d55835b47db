package domain

import (
	"fmt"
	"strings"
	"time"
)

// Company represents a company knowledge record. It is created once per
// distinct company name on first query and never deleted.
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Document represents the cleaned text extracted from one acquisition source.
// Documents are ordered by Position within a company and are append-only:
// once a company has documents it is never re-scraped.
type Document struct {
	ID        string
	CompanyID string
	URL       string
	Title     string
	Content   string
	Snippet   string
	Position  int
	CreatedAt time.Time
}

// NewCompany creates a new Company instance.
func NewCompany(id, name string, createdAt time.Time) *Company {
	return &Company{
		ID:        id,
		Name:      name,
		CreatedAt: createdAt,
	}
}

// NormalizeCompanyName canonicalizes a company name for lookup.
func NormalizeCompanyName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateCompany validates a Company instance.
func ValidateCompany(c *Company) error {
	if c == nil {
		return fmt.Errorf("company cannot be nil")
	}

	if c.ID == "" {
		return fmt.Errorf("company ID is required")
	}

	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("company Name is required")
	}

	return nil
}

// ValidateDocument validates a Document instance.
func ValidateDocument(d *Document) error {
	if d == nil {
		return fmt.Errorf("document cannot be nil")
	}

	if d.ID == "" {
		return fmt.Errorf("document ID is required")
	}

	if d.CompanyID == "" {
		return fmt.Errorf("document CompanyID is required")
	}

	if d.Content == "" && d.Snippet == "" {
		return fmt.Errorf("document must have content or a snippet")
	}

	if d.Position < 0 {
		return fmt.Errorf("document Position cannot be negative")
	}

	return nil
}
