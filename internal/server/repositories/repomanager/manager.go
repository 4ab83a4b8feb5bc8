package repomanager

import (
	"context"
	"database/sql"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/dbx"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/repositories/audit"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/repositories/documents"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/repositories/refreshtokens"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/repositories/users"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/repositories/workflows"
)

// RepositoryManager vends per-entity repositories bound to a DBTX, which
// lets services run several repositories inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Documents(db dbx.DBTX) documents.Repository
	Workflows(db dbx.DBTX) workflows.Repository
	Audit(db dbx.DBTX) audit.Repository
}
