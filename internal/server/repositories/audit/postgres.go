package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/dbx"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/models"
)

// PostgresRepository implements audit storage over dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	query := `
		INSERT INTO audit_trail (id, document_id, user_id, action, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	var docID any
	if entry.DocumentID != "" {
		docID = entry.DocumentID
	}
	err := r.db.QueryRowContext(ctx, query,
		entry.ID, docID, entry.UserID, string(entry.Action), entry.Details).Scan(&entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SelectAll(ctx context.Context) ([]*models.AuditEntry, error) {
	query := `
		SELECT id, COALESCE(document_id::text, ''), user_id, action, details, created_at
		FROM audit_trail
		ORDER BY created_at
	`
	return r.selectMany(ctx, query)
}

func (r *PostgresRepository) SelectByActor(ctx context.Context, userID string) ([]*models.AuditEntry, error) {
	query := `
		SELECT id, COALESCE(document_id::text, ''), user_id, action, details, created_at
		FROM audit_trail
		WHERE user_id = $1
		ORDER BY created_at
	`
	return r.selectMany(ctx, query, userID)
}

func (r *PostgresRepository) selectMany(ctx context.Context, query string, args ...any) ([]*models.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select audit entries: %w", err)
	}
	defer rows.Close()

	var result []*models.AuditEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanEntry(rows *sql.Rows) (*models.AuditEntry, error) {
	entry := &models.AuditEntry{}
	var action string
	err := rows.Scan(&entry.ID, &entry.DocumentID, &entry.UserID, &action, &entry.Details, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	entry.Action = models.AuditAction(action)
	return entry, nil
}
