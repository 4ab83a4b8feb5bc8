// Package audit declares the repository contract for the append-only audit
// trail. There is deliberately no update or delete operation.
package audit

import (
	"context"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/models"
)

type Repository interface {
	// Create appends one audit entry. A storage failure propagates to the
	// caller; it is never swallowed.
	Create(ctx context.Context, entry *models.AuditEntry) error

	// SelectAll returns every audit entry in chronological order.
	SelectAll(ctx context.Context) ([]*models.AuditEntry, error)

	// SelectByActor returns the entries recorded for one acting user, in
	// chronological order.
	SelectByActor(ctx context.Context, userID string) ([]*models.AuditEntry, error)
}
