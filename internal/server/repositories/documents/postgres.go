package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/common"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/dbx"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/models"
)

const documentColumns = `id, name, type, size, tags, encrypted, access_level, status, required_privilege, owner_id, COALESCE(content, ''), storage_key, created_at, updated_at`

// PostgresRepository implements document storage over dbx.DBTX
// (*sql.DB or *sql.Tx). Tags are persisted as a jsonb array.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, doc *models.Document) error {
	tags, err := marshalTags(doc.Tags)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO documents (id, name, type, size, tags, encrypted, access_level, status, required_privilege, owner_id, content, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		doc.ID, doc.Name, doc.Type, doc.Size, tags, doc.Encrypted,
		string(doc.AccessLevel), string(doc.Status), string(doc.RequiredPrivilege),
		doc.OwnerID, nullIfEmpty(doc.Content), doc.StorageKey,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	doc, err := scanDocument(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc, nil
}

func (r *PostgresRepository) Update(ctx context.Context, doc *models.Document) error {
	tags, err := marshalTags(doc.Tags)
	if err != nil {
		return err
	}
	query := `
		UPDATE documents
		SET name = $2, tags = $3, encrypted = $4, access_level = $5, status = $6, required_privilege = $7, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.Name, tags, doc.Encrypted,
		string(doc.AccessLevel), string(doc.Status), string(doc.RequiredPrivilege))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

// Select applies the structural filters in SQL. Policy filtering is the
// caller's job.
func (r *PostgresRepository) Select(ctx context.Context, f Filter) ([]*models.Document, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR content ILIKE %s)", p, p))
	}
	if f.Type != "" {
		conds = append(conds, "type = "+arg(f.Type))
	}
	if f.AccessLevel != "" {
		conds = append(conds, "access_level = "+arg(f.AccessLevel))
	}
	if f.Status != "" {
		conds = append(conds, "status = "+arg(f.Status))
	}
	if f.Encrypted != nil {
		conds = append(conds, "encrypted = "+arg(*f.Encrypted))
	}
	if len(f.Tags) > 0 {
		tags, err := marshalTags(f.Tags)
		if err != nil {
			return nil, err
		}
		// jsonb containment: every requested tag must be present
		conds = append(conds, "tags @> "+arg(tags))
	}

	query := `SELECT ` + documentColumns + ` FROM documents`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at"

	return r.selectMany(ctx, query, args...)
}

func (r *PostgresRepository) SelectRecent(ctx context.Context, limit int) ([]*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY updated_at DESC LIMIT $1`
	return r.selectMany(ctx, query, limit)
}

func (r *PostgresRepository) selectMany(ctx context.Context, query string, args ...any) ([]*models.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	doc := &models.Document{}
	var (
		tags                     []byte
		level, status, privilege string
	)
	err := row.Scan(
		&doc.ID, &doc.Name, &doc.Type, &doc.Size, &tags, &doc.Encrypted,
		&level, &status, &privilege, &doc.OwnerID, &doc.Content, &doc.StorageKey,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.AccessLevel = models.AccessLevel(level)
	doc.Status = models.DocumentStatus(status)
	doc.RequiredPrivilege = models.Role(privilege)
	if err := json.Unmarshal(tags, &doc.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return doc, nil
}

func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return b, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
