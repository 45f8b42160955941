package resumes

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = "id, owner_email, file_name, fingerprint, mime_type, size_bytes, storage_key, created_at"

// Insert stores a new fingerprint record. A unique-constraint violation on
// (owner, fingerprint) maps to ErrDuplicate; this backstops the
// check-then-insert race between concurrent uploads of the same content.
func (r *PGRepo) Insert(ctx context.Context, rec Resume) error {
	const query = `
INSERT INTO resumes (id, owner_email, file_name, fingerprint, mime_type, size_bytes, storage_key, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.OwnerEmail,
		rec.FileName,
		rec.Fingerprint,
		rec.MimeType,
		rec.SizeBytes,
		rec.StorageKey,
		rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ExistsByFingerprint reports whether the owner already has a record with
// this fingerprint.
func (r *PGRepo) ExistsByFingerprint(ctx context.Context, owner, fingerprint string) (bool, error) {
	const query = `
SELECT 1 FROM resumes WHERE owner_email = $1 AND fingerprint = $2 LIMIT 1`
	var one int
	err := r.DB.QueryRowContext(ctx, query, owner, fingerprint).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetByID fetches an owner's record by ID.
func (r *PGRepo) GetByID(ctx context.Context, owner, id string) (Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE owner_email = $1 AND id = $2
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, owner, id))
}

// GetByName fetches an owner's record by display name.
func (r *PGRepo) GetByName(ctx context.Context, owner, fileName string) (Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE owner_email = $1 AND file_name = $2
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, owner, fileName))
}

// ListByOwner lists records newest-first.
func (r *PGRepo) ListByOwner(ctx context.Context, owner string) ([]Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE owner_email = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		var rec Resume
		if err := rows.Scan(
			&rec.ID,
			&rec.OwnerEmail,
			&rec.FileName,
			&rec.Fingerprint,
			&rec.MimeType,
			&rec.SizeBytes,
			&rec.StorageKey,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteByName removes an owner's record. Deleting a missing record is not
// an error.
func (r *PGRepo) DeleteByName(ctx context.Context, owner, fileName string) error {
	const query = `DELETE FROM resumes WHERE owner_email = $1 AND file_name = $2`
	_, err := r.DB.ExecContext(ctx, query, owner, fileName)
	return err
}

func (r *PGRepo) scanOne(row *sql.Row) (Resume, error) {
	var rec Resume
	err := row.Scan(
		&rec.ID,
		&rec.OwnerEmail,
		&rec.FileName,
		&rec.Fingerprint,
		&rec.MimeType,
		&rec.SizeBytes,
		&rec.StorageKey,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return rec, nil
}

var _ Repo = (*PGRepo)(nil)
