// Package workflows declares the repository contract for workflows and
// their steps.
package workflows

import (
	"context"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/models"
)

type Repository interface {
	// Create inserts the workflow row only; steps are inserted via CreateStep.
	Create(ctx context.Context, w *models.Workflow) error

	// CreateStep inserts one step belonging to an existing workflow.
	CreateStep(ctx context.Context, step *models.WorkflowStep) error

	// GetByID returns the workflow row without steps, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Workflow, error)

	// SelectSteps returns all steps of a workflow in position order.
	SelectSteps(ctx context.Context, workflowID string) ([]*models.WorkflowStep, error)

	// Select returns workflows, optionally filtered by exact status.
	Select(ctx context.Context, status string) ([]*models.Workflow, error)

	// Update persists the workflow's mutable attributes.
	Update(ctx context.Context, w *models.Workflow) error

	// DeleteSteps removes every step of a workflow.
	DeleteSteps(ctx context.Context, workflowID string) error

	// GetStep returns the step identified by (workflowID, stepID) or
	// common.ErrorNotFound when the step does not belong to that workflow.
	GetStep(ctx context.Context, workflowID, stepID string) (*models.WorkflowStep, error)

	// UpdateStep persists a step's mutable attributes.
	UpdateStep(ctx context.Context, step *models.WorkflowStep) error

	// Delete removes the workflow; owned steps cascade.
	Delete(ctx context.Context, id string) error
}
