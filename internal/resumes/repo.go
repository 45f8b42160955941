package resumes

import "context"

// Repo persists fingerprint records. One record per successfully ingested
// document; fingerprint unique per owner.
type Repo interface {
	Insert(ctx context.Context, rec Resume) error
	ExistsByFingerprint(ctx context.Context, owner, fingerprint string) (bool, error)
	GetByID(ctx context.Context, owner, id string) (Resume, error)
	GetByName(ctx context.Context, owner, fileName string) (Resume, error)
	ListByOwner(ctx context.Context, owner string) ([]Resume, error)
	DeleteByName(ctx context.Context, owner, fileName string) error
}
