package documents

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/common"
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

func documentRow(id string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "type", "size", "tags", "encrypted", "access_level",
		"status", "required_privilege", "owner_id", "content", "storage_key",
		"created_at", "updated_at",
	}).AddRow(id, "report.pdf", "pdf", 7, []byte(`["finance"]`), false,
		"private", "pending", "manager", "u-1", "some text", "documents/k", now, now)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)INSERT\s+INTO\s+documents\s*\(id,\s*name,\s*type,\s*size,\s*tags,\s*encrypted,\s*access_level,\s*status,\s*required_privilege,\s*owner_id,\s*content,\s*storage_key\)`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("d-1", "report.pdf", "pdf", int64(7), []byte(`["finance"]`), false,
			"private", "pending", "manager", "u-1", "some text", "documents/k").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	doc := &models.Document{
		ID: "d-1", Name: "report.pdf", Type: "pdf", Size: 7,
		Tags: []string{"finance"}, AccessLevel: models.AccessPrivate,
		Status: models.StatusPending, RequiredPrivilege: models.RoleManager,
		OwnerID: "u-1", Content: "some text", StorageKey: "documents/k",
	}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if doc.CreatedAt.IsZero() || doc.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not populated: %+v", doc)
	}
}

func TestCreate_NilTagsStoredAsEmptyArray(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT\s+INTO\s+documents`).
		WithArgs("d-1", "a.txt", "txt", int64(1), []byte(`[]`), false,
			"private", "pending", "user", "u-1", nil, "k").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	doc := &models.Document{
		ID: "d-1", Name: "a.txt", Type: "txt", Size: 1,
		AccessLevel: models.AccessPrivate, Status: models.StatusPending,
		RequiredPrivilege: models.RoleUser, OwnerID: "u-1", StorageKey: "k",
	}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+.*\s+FROM\s+documents\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("d-1").
		WillReturnRows(documentRow("d-1"))

	doc, err := repo.GetByID(context.Background(), "d-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if doc.ID != "d-1" || doc.RequiredPrivilege != models.RoleManager || len(doc.Tags) != 1 {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+documents\s+WHERE\s+id`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdate_NoRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE\s+documents\s+SET\s+name\s*=\s*\$2.*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("ghost", "a", []byte(`[]`), false, "private", "draft", "user").
		WillReturnResult(sqlmock.NewResult(0, 0))

	doc := &models.Document{ID: "ghost", Name: "a", AccessLevel: models.AccessPrivate, Status: models.StatusDraft, RequiredPrivilege: models.RoleUser}
	if err := repo.Update(context.Background(), doc); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+documents\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("d-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "d-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestSelect_NoFilter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+.*\s+FROM\s+documents\s+ORDER\s+BY\s+created_at`).
		WillReturnRows(documentRow("d-1"))

	docs, err := repo.Select(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("docs = %d, want 1", len(docs))
	}
}

func TestSelect_CombinedFilters(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	encrypted := true
	q := `(?s)FROM\s+documents\s+WHERE\s+\(name\s+ILIKE\s+\$1\s+OR\s+content\s+ILIKE\s+\$1\)\s+AND\s+type\s*=\s*\$2\s+AND\s+access_level\s*=\s*\$3\s+AND\s+status\s*=\s*\$4\s+AND\s+encrypted\s*=\s*\$5\s+AND\s+tags\s+@>\s+\$6\s+ORDER\s+BY\s+created_at`

	mock.ExpectQuery(q).
		WithArgs("%report%", "pdf", "shared", "approved", true, []byte(`["finance","q3"]`)).
		WillReturnRows(documentRow("d-1"))

	docs, err := repo.Select(context.Background(), Filter{
		Search:      "report",
		Type:        "pdf",
		AccessLevel: "shared",
		Status:      "approved",
		Encrypted:   &encrypted,
		Tags:        []string{"finance", "q3"},
	})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("docs = %d, want 1", len(docs))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestSelectRecent_PassesLimit(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM\s+documents\s+ORDER\s+BY\s+updated_at\s+DESC\s+LIMIT\s+\$1`).
		WithArgs(5).
		WillReturnRows(documentRow("d-1"))

	docs, err := repo.SelectRecent(context.Background(), 5)
	if err != nil {
		t.Fatalf("SelectRecent error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("docs = %d, want 1", len(docs))
	}
}
