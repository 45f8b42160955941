package resumes

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo for dev and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Resume // owner -> records
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Resume),
	}
}

// Insert stores a record, enforcing the per-owner fingerprint invariant.
func (r *MemoryRepo) Insert(ctx context.Context, rec Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.data[rec.OwnerEmail] {
		if existing.Fingerprint == rec.Fingerprint {
			return ErrDuplicate
		}
	}
	r.data[rec.OwnerEmail] = append(r.data[rec.OwnerEmail], rec)
	return nil
}

// ExistsByFingerprint reports whether the owner has a record with this fingerprint.
func (r *MemoryRepo) ExistsByFingerprint(ctx context.Context, owner, fingerprint string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.data[owner] {
		if rec.Fingerprint == fingerprint {
			return true, nil
		}
	}
	return false, nil
}

// GetByID fetches an owner's record by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, owner, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.data[owner] {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Resume{}, ErrNotFound
}

// GetByName fetches an owner's record by display name.
func (r *MemoryRepo) GetByName(ctx context.Context, owner, fileName string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.data[owner] {
		if rec.FileName == fileName {
			return rec, nil
		}
	}
	return Resume{}, ErrNotFound
}

// ListByOwner returns the owner's records, newest first.
func (r *MemoryRepo) ListByOwner(ctx context.Context, owner string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	records := append([]Resume(nil), r.data[owner]...)
	r.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// DeleteByName removes an owner's record; missing records are not an error.
func (r *MemoryRepo) DeleteByName(ctx context.Context, owner, fileName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	records := r.data[owner]
	for i, rec := range records {
		if rec.FileName == fileName {
			r.data[owner] = append(records[:i], records[i+1:]...)
			return nil
		}
	}
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
