package resumes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoInsert(t *testing.T) {
	repo, mock := newMockRepo(t)

	rec := Resume{
		ID:          "resume-1",
		OwnerEmail:  "ada@example.com",
		FileName:    "resume.pdf",
		Fingerprint: "deadbeef",
		MimeType:    "application/pdf",
		SizeBytes:   1024,
		StorageKey:  "abc123/resume.pdf",
		CreatedAt:   time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO resumes").
		WithArgs(
			rec.ID,
			rec.OwnerEmail,
			rec.FileName,
			rec.Fingerprint,
			rec.MimeType,
			rec.SizeBytes,
			rec.StorageKey,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Insert(context.Background(), rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoInsertUniqueViolationMapsToDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO resumes").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "resumes_owner_email_fingerprint_key"})

	err := repo.Insert(context.Background(), Resume{ID: "resume-1", OwnerEmail: "ada@example.com"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestPGRepoExistsByFingerprint(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT 1 FROM resumes").
		WithArgs("ada@example.com", "deadbeef").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	seen, err := repo.ExistsByFingerprint(context.Background(), "ada@example.com", "deadbeef")
	if err != nil {
		t.Fatalf("ExistsByFingerprint: %v", err)
	}
	if !seen {
		t.Fatal("expected fingerprint to exist")
	}

	mock.ExpectQuery("SELECT 1 FROM resumes").
		WithArgs("ada@example.com", "cafef00d").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	seen, err = repo.ExistsByFingerprint(context.Background(), "ada@example.com", "cafef00d")
	if err != nil {
		t.Fatalf("ExistsByFingerprint: %v", err)
	}
	if seen {
		t.Fatal("expected fingerprint to be absent")
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM resumes").
		WithArgs("ada@example.com", "missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "owner_email", "file_name", "fingerprint", "mime_type", "size_bytes", "storage_key", "created_at",
		}))

	_, err := repo.GetByID(context.Background(), "ada@example.com", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoListByOwner(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "owner_email", "file_name", "fingerprint", "mime_type", "size_bytes", "storage_key", "created_at",
	}).
		AddRow("resume-2", "ada@example.com", "new.pdf", "fp2", "application/pdf", 2048, "abc/new.pdf", now).
		AddRow("resume-1", "ada@example.com", "old.pdf", "fp1", "application/pdf", 1024, "abc/old.pdf", now.Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM resumes").
		WithArgs("ada@example.com").
		WillReturnRows(rows)

	records, err := repo.ListByOwner(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[0].ID != "resume-2" {
		t.Fatalf("first record = %s, want resume-2", records[0].ID)
	}
}

func TestPGRepoDeleteByNameMissingIsNoError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM resumes").
		WithArgs("ada@example.com", "ghost.pdf").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteByName(context.Background(), "ada@example.com", "ghost.pdf"); err != nil {
		t.Fatalf("DeleteByName: %v", err)
	}
}
