// Package documents declares the repository contract for document metadata.
package documents

import (
	"context"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/models"
)

// Filter narrows Select results. Zero-valued fields are ignored. All
// filters are structural; access-policy filtering happens in the service
// layer because it depends on the requesting actor.
type Filter struct {
	// Search matches a substring of the document name or extracted
	// content, case-insensitively.
	Search string
	// Type, AccessLevel and Status match exactly when non-empty.
	Type        string
	AccessLevel string
	Status      string
	// Encrypted matches exactly when non-nil.
	Encrypted *bool
	// Tags requires every listed tag to be present on the document.
	Tags []string
}

type Repository interface {
	Create(ctx context.Context, doc *models.Document) error

	// GetByID returns the document or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// Update persists all mutable fields of doc and refreshes updated_at.
	Update(ctx context.Context, doc *models.Document) error

	// Delete removes the metadata row. Audit history referring to the
	// document is untouched.
	Delete(ctx context.Context, id string) error

	// Select returns documents matching the structural filter.
	Select(ctx context.Context, f Filter) ([]*models.Document, error)

	// SelectRecent returns up to limit documents ordered by most recent
	// update.
	SelectRecent(ctx context.Context, limit int) ([]*models.Document, error)
}
