package audit

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_WithDocument(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)INSERT\s+INTO\s+audit_trail\s*\(id,\s*document_id,\s*user_id,\s*action,\s*details\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+created_at`

	mock.ExpectQuery(q).
		WithArgs("e-1", "d-1", "u-1", "download", "Document downloaded.").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	entry := &models.AuditEntry{ID: "e-1", DocumentID: "d-1", UserID: "u-1", Action: models.AuditDownload, Details: "Document downloaded."}
	if err := repo.Create(context.Background(), entry); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if entry.CreatedAt.IsZero() {
		t.Fatalf("created_at not populated")
	}
}

func TestCreate_WithoutDocumentStoresNull(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+audit_trail`).
		WithArgs("e-1", nil, "u-1", "create", "Workflow \"w\" created.").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	entry := &models.AuditEntry{ID: "e-1", UserID: "u-1", Action: models.AuditCreate, Details: "Workflow \"w\" created."}
	if err := repo.Create(context.Background(), entry); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+audit_trail`).
		WithArgs("e-1", "d-1", "u-1", "create", "x").
		WillReturnError(errors.New("db down"))

	entry := &models.AuditEntry{ID: "e-1", DocumentID: "d-1", UserID: "u-1", Action: models.AuditCreate, Details: "x"}
	err := repo.Create(context.Background(), entry)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("a storage failure must propagate, got %v", err)
	}
}

func auditRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "coalesce", "user_id", "action", "details", "created_at"}).
		AddRow("e-1", "d-1", "u-1", "create", "Document created.", time.Now()).
		AddRow("e-2", "", "u-1", "delete", "Workflow \"w\" deleted.", time.Now())
}

func TestSelectAll(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)SELECT\s+id,\s*COALESCE\(document_id::text,\s*''\),\s*user_id,\s*action,\s*details,\s*created_at\s+FROM\s+audit_trail\s+ORDER\s+BY\s+created_at`

	mock.ExpectQuery(q).WillReturnRows(auditRows())

	entries, err := repo.SelectAll(context.Background())
	if err != nil {
		t.Fatalf("SelectAll error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Action != models.AuditCreate || entries[1].DocumentID != "" {
		t.Fatalf("unexpected entries: %+v %+v", entries[0], entries[1])
	}
}

func TestSelectByActor(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)FROM\s+audit_trail\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at`

	mock.ExpectQuery(q).WithArgs("u-1").WillReturnRows(auditRows())

	entries, err := repo.SelectByActor(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("SelectByActor error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
}
