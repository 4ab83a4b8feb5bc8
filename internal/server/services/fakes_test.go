package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/common"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/dbx"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/logging"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/models"
	auditrepo "github.com/ShrinivasInamdar/Hackathon-2025/internal/server/repositories/audit"
	documentsrepo "github.com/ShrinivasInamdar/Hackathon-2025/internal/server/repositories/documents"
	refreshtokensrepo "github.com/ShrinivasInamdar/Hackathon-2025/internal/server/repositories/refreshtokens"
	usersrepo "github.com/ShrinivasInamdar/Hackathon-2025/internal/server/repositories/users"
	workflowsrepo "github.com/ShrinivasInamdar/Hackathon-2025/internal/server/repositories/workflows"
)

// --- shared test doubles ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) With(...any) logging.Logger            { return nopLogger{} }

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User

	created   []*models.User
	createErr error

	deleted   []string
	deleteErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeRefreshRepo struct {
	createErr    error
	createdFor   []string
	createdToken string

	findOut *models.RefreshToken
	findErr error

	deleted []string
	delErr  error
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.createdFor = append(f.createdFor, userID)
	f.createdToken = token
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, token)
	return nil
}

type fakeDocumentsRepo struct {
	created   []*models.Document
	createErr error

	getOut *models.Document
	getErr error

	updated   []*models.Document
	updateErr error

	deleted   []string
	deleteErr error

	selectOut  []*models.Document
	selectErr  error
	lastFilter documentsrepo.Filter

	recentOut []*models.Document
	lastLimit int
}

func (f *fakeDocumentsRepo) Create(ctx context.Context, doc *models.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, doc)
	return nil
}

func (f *fakeDocumentsRepo) GetByID(ctx context.Context, id string) (*models.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeDocumentsRepo) Update(ctx context.Context, doc *models.Document) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, doc)
	return nil
}

func (f *fakeDocumentsRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDocumentsRepo) Select(ctx context.Context, filter documentsrepo.Filter) ([]*models.Document, error) {
	f.lastFilter = filter
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return f.selectOut, nil
}

func (f *fakeDocumentsRepo) SelectRecent(ctx context.Context, limit int) ([]*models.Document, error) {
	f.lastLimit = limit
	return f.recentOut, nil
}

type fakeWorkflowsRepo struct {
	created   []*models.Workflow
	createErr error

	createdSteps []*models.WorkflowStep
	stepErr      error

	getOut *models.Workflow
	getErr error

	stepsOut []*models.WorkflowStep

	selectOut  []*models.Workflow
	lastStatus string

	updated   []*models.Workflow
	updateErr error

	stepsDeleted []string

	getStepOut *models.WorkflowStep
	getStepErr error

	updatedSteps []*models.WorkflowStep

	deleted []string
}

func (f *fakeWorkflowsRepo) Create(ctx context.Context, w *models.Workflow) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, w)
	return nil
}

func (f *fakeWorkflowsRepo) CreateStep(ctx context.Context, step *models.WorkflowStep) error {
	if f.stepErr != nil {
		return f.stepErr
	}
	f.createdSteps = append(f.createdSteps, step)
	return nil
}

func (f *fakeWorkflowsRepo) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeWorkflowsRepo) SelectSteps(ctx context.Context, workflowID string) ([]*models.WorkflowStep, error) {
	return f.stepsOut, nil
}

func (f *fakeWorkflowsRepo) Select(ctx context.Context, status string) ([]*models.Workflow, error) {
	f.lastStatus = status
	return f.selectOut, nil
}

func (f *fakeWorkflowsRepo) Update(ctx context.Context, w *models.Workflow) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, w)
	return nil
}

func (f *fakeWorkflowsRepo) DeleteSteps(ctx context.Context, workflowID string) error {
	f.stepsDeleted = append(f.stepsDeleted, workflowID)
	return nil
}

func (f *fakeWorkflowsRepo) GetStep(ctx context.Context, workflowID, stepID string) (*models.WorkflowStep, error) {
	if f.getStepErr != nil {
		return nil, f.getStepErr
	}
	return f.getStepOut, nil
}

func (f *fakeWorkflowsRepo) UpdateStep(ctx context.Context, step *models.WorkflowStep) error {
	f.updatedSteps = append(f.updatedSteps, step)
	return nil
}

func (f *fakeWorkflowsRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeAuditRepo struct {
	entries   []*models.AuditEntry
	createErr error

	allOut     []*models.AuditEntry
	byActorOut []*models.AuditEntry
	lastActor  string
}

func (f *fakeAuditRepo) Create(ctx context.Context, entry *models.AuditEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) SelectAll(ctx context.Context) ([]*models.AuditEntry, error) {
	return f.allOut, nil
}

func (f *fakeAuditRepo) SelectByActor(ctx context.Context, userID string) ([]*models.AuditEntry, error) {
	f.lastActor = userID
	return f.byActorOut, nil
}

type fakeRepoManager struct {
	users     *fakeUsersRepo
	refresh   *fakeRefreshRepo
	documents *fakeDocumentsRepo
	workflows *fakeWorkflowsRepo
	audit     *fakeAuditRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.users }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.refresh }
func (m *fakeRepoManager) Documents(db dbx.DBTX) documentsrepo.Repository         { return m.documents }
func (m *fakeRepoManager) Workflows(db dbx.DBTX) workflowsrepo.Repository         { return m.workflows }
func (m *fakeRepoManager) Audit(db dbx.DBTX) auditrepo.Repository                 { return m.audit }
