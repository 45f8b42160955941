package resumes

import "time"

// Resume is an uploaded document owned by a user, paired with the
// fingerprint record that backs deduplication.
type Resume struct {
	ID          string
	OwnerEmail  string
	FileName    string
	Fingerprint string
	MimeType    string
	SizeBytes   int64
	StorageKey  string
	CreatedAt   time.Time
}
