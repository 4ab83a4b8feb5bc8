package services

import (
	"context"
	"database/sql"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/models"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/repositories/repomanager"
)

// AuditService exposes the read side of the audit trail. Writing happens
// inside the mutating services' transactions; nothing ever updates or
// deletes an entry.
type AuditService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewAuditService constructs an AuditService.
func NewAuditService(db *sql.DB, m repomanager.RepositoryManager) *AuditService {
	return &AuditService{db: db, repomanager: m}
}

// Trail returns audit entries scoped to the actor: admins see everything,
// everyone else sees only actions they performed themselves.
func (s *AuditService) Trail(ctx context.Context, actor *models.User) ([]*models.AuditEntry, error) {
	repo := s.repomanager.Audit(s.db)
	if actor.Role == models.RoleAdmin {
		return repo.SelectAll(ctx)
	}
	return repo.SelectByActor(ctx, actor.ID)
}
