package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/common"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/dbx"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/logging"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/models"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// WorkflowService owns workflow and step lifecycles. All mutations are
// admin-gated; reads are open to any authenticated actor. Mutations share
// the document audit contract, recorded without a document reference.
type WorkflowService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

// NewWorkflowService constructs a WorkflowService.
func NewWorkflowService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *WorkflowService {
	return &WorkflowService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "workflows"),
	}
}

// StepRequest describes one step supplied on workflow creation or wholesale
// step replacement.
type StepRequest struct {
	Name        string
	Description string
	Status      models.StepStatus
	Assignee    string
	DueDate     *time.Time
}

// CreateWorkflowRequest carries a new workflow and its initial ordered
// step sequence.
type CreateWorkflowRequest struct {
	Name        string
	Description string
	Status      models.WorkflowStatus
	Assignees   []string
	Steps       []StepRequest
}

// Create persists a workflow with its steps. Admin only.
func (s *WorkflowService) Create(ctx context.Context, actor *models.User, req CreateWorkflowRequest) (*models.Workflow, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if req.Name == "" || req.Description == "" || req.Status == "" {
		return nil, common.ErrorValidation
	}

	w := &models.Workflow{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Assignees:   req.Assignees,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Workflows(tx)
		if err := repo.Create(ctx, w); err != nil {
			return err
		}
		steps, err := insertSteps(ctx, repo, w.ID, req.Steps)
		if err != nil {
			return err
		}
		w.Steps = steps
		return appendAudit(ctx, s.repomanager.Audit(tx), actor, models.AuditCreate, "",
			fmt.Sprintf("Workflow %q created.", w.Name))
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Get returns one workflow with its steps in order. Open to any actor.
func (s *WorkflowService) Get(ctx context.Context, actor *models.User, id string) (*models.Workflow, error) {
	repo := s.repomanager.Workflows(s.db)
	w, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	steps, err := repo.SelectSteps(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Steps = steps
	return w, nil
}

// List returns workflows with their steps, optionally filtered by status.
// Open to any actor.
func (s *WorkflowService) List(ctx context.Context, actor *models.User, status string) ([]*models.Workflow, error) {
	repo := s.repomanager.Workflows(s.db)
	workflows, err := repo.Select(ctx, status)
	if err != nil {
		return nil, err
	}
	for _, w := range workflows {
		steps, err := repo.SelectSteps(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		w.Steps = steps
	}
	return workflows, nil
}

// WorkflowPatch mutates only the fields that are non-nil. A non-nil Steps
// slice replaces the entire step sequence; prior step identities are gone
// even when the new steps are semantically identical.
type WorkflowPatch struct {
	Name        *string
	Description *string
	Status      *models.WorkflowStatus
	Assignees   *[]string
	Steps       *[]StepRequest
}

// Update applies a partial patch. Admin only.
func (s *WorkflowService) Update(ctx context.Context, actor *models.User, id string, patch WorkflowPatch) (*models.Workflow, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	w, err := s.repomanager.Workflows(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		w.Name = *patch.Name
	}
	if patch.Description != nil {
		w.Description = *patch.Description
	}
	if patch.Status != nil {
		w.Status = *patch.Status
	}
	if patch.Assignees != nil {
		w.Assignees = *patch.Assignees
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Workflows(tx)
		if err := repo.Update(ctx, w); err != nil {
			return err
		}
		if patch.Steps != nil {
			// wholesale replacement, not a merge
			if err := repo.DeleteSteps(ctx, w.ID); err != nil {
				return err
			}
			steps, err := insertSteps(ctx, repo, w.ID, *patch.Steps)
			if err != nil {
				return err
			}
			w.Steps = steps
		} else {
			steps, err := repo.SelectSteps(ctx, w.ID)
			if err != nil {
				return err
			}
			w.Steps = steps
		}
		return appendAudit(ctx, s.repomanager.Audit(tx), actor, models.AuditUpdate, "",
			fmt.Sprintf("Workflow %q updated.", w.Name))
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// StepPatch mutates only the fields that are present. DueDateSet marks the
// due date as part of the patch; a nil DueDate with DueDateSet clears it.
type StepPatch struct {
	Name        *string
	Description *string
	Status      *models.StepStatus
	Assignee    *string
	DueDate     *time.Time
	DueDateSet  bool
}

// UpdateStep patches one step addressed by (workflowID, stepID). A step
// that does not belong to the workflow is NotFound. Admin only.
func (s *WorkflowService) UpdateStep(ctx context.Context, actor *models.User, workflowID, stepID string, patch StepPatch) (*models.WorkflowStep, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	step, err := s.repomanager.Workflows(s.db).GetStep(ctx, workflowID, stepID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		step.Name = *patch.Name
	}
	if patch.Description != nil {
		step.Description = *patch.Description
	}
	if patch.Status != nil {
		step.Status = *patch.Status
	}
	if patch.Assignee != nil {
		step.Assignee = *patch.Assignee
	}
	if patch.DueDateSet {
		step.DueDate = patch.DueDate
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Workflows(tx).UpdateStep(ctx, step); err != nil {
			return err
		}
		return appendAudit(ctx, s.repomanager.Audit(tx), actor, models.AuditUpdate, "",
			fmt.Sprintf("Workflow step %q updated.", step.Name))
	})
	if err != nil {
		return nil, err
	}
	return step, nil
}

// Delete removes a workflow and all of its steps. Admin only.
func (s *WorkflowService) Delete(ctx context.Context, actor *models.User, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	w, err := s.repomanager.Workflows(s.db).GetByID(ctx, id)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Workflows(tx)
		if err := repo.DeleteSteps(ctx, w.ID); err != nil {
			return err
		}
		if err := repo.Delete(ctx, w.ID); err != nil {
			return err
		}
		return appendAudit(ctx, s.repomanager.Audit(tx), actor, models.AuditDelete, "",
			fmt.Sprintf("Workflow %q deleted.", w.Name))
	})
}

func insertSteps(ctx context.Context, repo interface {
	CreateStep(ctx context.Context, step *models.WorkflowStep) error
}, workflowID string, reqs []StepRequest) ([]*models.WorkflowStep, error) {
	steps := make([]*models.WorkflowStep, 0, len(reqs))
	for i, r := range reqs {
		step := &models.WorkflowStep{
			ID:          uuid.New().String(),
			WorkflowID:  workflowID,
			Position:    i,
			Name:        r.Name,
			Description: r.Description,
			Status:      r.Status,
			Assignee:    r.Assignee,
			DueDate:     r.DueDate,
		}
		if err := repo.CreateStep(ctx, step); err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}
