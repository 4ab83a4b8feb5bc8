package models

import "time"

type WorkflowStatus string

const (
	WorkflowDraft     WorkflowStatus = "draft"
	WorkflowActive    WorkflowStatus = "active"
	WorkflowCompleted WorkflowStatus = "completed"
)

type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepRejected   StepStatus = "rejected"
)

// Workflow is a flat, ordered task list. Steps are owned by the workflow
// and share its lifetime.
type Workflow struct {
	ID          string
	Name        string
	Description string
	Status      WorkflowStatus
	Assignees   []string
	Steps       []*WorkflowStep
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WorkflowStep is one entry of a workflow's task list. Steps are independent
// records; no cross-step ordering or dependency is enforced.
type WorkflowStep struct {
	ID          string
	WorkflowID  string
	Position    int
	Name        string
	Description string
	Status      StepStatus
	Assignee    string
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
