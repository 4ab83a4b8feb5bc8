// Package services contains server-side business logic: document lifecycle,
// workflow management, user accounts, and the audit trail. Every
// state-changing operation appends exactly one audit entry in the same
// database transaction as the mutation; denied or failed operations append
// nothing.
package services

import (
	"context"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/common"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/models"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/repositories/audit"
	"github.com/google/uuid"
)

// requireAdmin gates administrative operations on the actor's role.
func requireAdmin(actor *models.User) error {
	if actor.Role != models.RoleAdmin {
		return common.ErrorForbidden
	}
	return nil
}

// appendAudit writes one audit entry through the given repository, which the
// caller binds to the mutation's transaction. documentID is empty for
// non-document actions.
func appendAudit(ctx context.Context, repo audit.Repository, actor *models.User, action models.AuditAction, documentID, details string) error {
	return repo.Create(ctx, &models.AuditEntry{
		ID:         uuid.New().String(),
		DocumentID: documentID,
		UserID:     actor.ID,
		Action:     action,
		Details:    details,
	})
}
