package workflows

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/common"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/dbx"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/models"
)

// PostgresRepository implements workflow and step storage over dbx.DBTX
// (*sql.DB or *sql.Tx). Assignees are persisted as a jsonb array.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, w *models.Workflow) error {
	assignees, err := marshalAssignees(w.Assignees)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO workflows (id, name, description, status, assignees)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		w.ID, w.Name, w.Description, string(w.Status), assignees).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateStep(ctx context.Context, step *models.WorkflowStep) error {
	query := `
		INSERT INTO workflow_steps (id, workflow_id, position, name, description, status, assignee, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		step.ID, step.WorkflowID, step.Position, step.Name, step.Description,
		string(step.Status), nullIfEmpty(step.Assignee), step.DueDate,
	).Scan(&step.CreatedAt, &step.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	query := `
		SELECT id, name, description, status, assignees, created_at, updated_at FROM workflows
		WHERE id = $1
	`
	w, err := scanWorkflow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return w, nil
}

func (r *PostgresRepository) SelectSteps(ctx context.Context, workflowID string) ([]*models.WorkflowStep, error) {
	query := `
		SELECT id, workflow_id, position, name, description, status, COALESCE(assignee, ''), due_date, created_at, updated_at
		FROM workflow_steps
		WHERE workflow_id = $1
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to select steps: %w", err)
	}
	defer rows.Close()

	var result []*models.WorkflowStep
	for rows.Next() {
		step, err := scanStep(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, step)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Select(ctx context.Context, status string) ([]*models.Workflow, error) {
	query := `
		SELECT id, name, description, status, assignees, created_at, updated_at FROM workflows
	`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select workflows: %w", err)
	}
	defer rows.Close()

	var result []*models.Workflow
	for rows.Next() {
		w, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, w *models.Workflow) error {
	assignees, err := marshalAssignees(w.Assignees)
	if err != nil {
		return err
	}
	query := `
		UPDATE workflows
		SET name = $2, description = $3, status = $4, assignees = $5, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, w.ID, w.Name, w.Description, string(w.Status), assignees)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) DeleteSteps(ctx context.Context, workflowID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM workflow_steps WHERE workflow_id = $1`, workflowID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetStep(ctx context.Context, workflowID, stepID string) (*models.WorkflowStep, error) {
	query := `
		SELECT id, workflow_id, position, name, description, status, COALESCE(assignee, ''), due_date, created_at, updated_at
		FROM workflow_steps
		WHERE id = $1 AND workflow_id = $2
	`
	step, err := scanStep(r.db.QueryRowContext(ctx, query, stepID, workflowID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return step, nil
}

func (r *PostgresRepository) UpdateStep(ctx context.Context, step *models.WorkflowStep) error {
	query := `
		UPDATE workflow_steps
		SET name = $2, description = $3, status = $4, assignee = $5, due_date = $6, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		step.ID, step.Name, step.Description, string(step.Status), nullIfEmpty(step.Assignee), step.DueDate)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workflows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*models.Workflow, error) {
	w := &models.Workflow{}
	var (
		assignees []byte
		status    string
	)
	err := row.Scan(&w.ID, &w.Name, &w.Description, &status, &assignees, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	w.Status = models.WorkflowStatus(status)
	if err := json.Unmarshal(assignees, &w.Assignees); err != nil {
		return nil, fmt.Errorf("decode assignees: %w", err)
	}
	return w, nil
}

func scanStep(row rowScanner) (*models.WorkflowStep, error) {
	step := &models.WorkflowStep{}
	var status string
	err := row.Scan(&step.ID, &step.WorkflowID, &step.Position, &step.Name, &step.Description,
		&status, &step.Assignee, &step.DueDate, &step.CreatedAt, &step.UpdatedAt)
	if err != nil {
		return nil, err
	}
	step.Status = models.StepStatus(status)
	return step, nil
}

func marshalAssignees(assignees []string) ([]byte, error) {
	if assignees == nil {
		assignees = []string{}
	}
	b, err := json.Marshal(assignees)
	if err != nil {
		return nil, fmt.Errorf("encode assignees: %w", err)
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
