package resumes

import "errors"

var (
	ErrNotFound     = errors.New("resume not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrTooLarge     = errors.New("file exceeds size limit")

	// ErrDuplicate means the owner already ingested a file with this content.
	ErrDuplicate = errors.New("duplicate resume content")

	// ErrMetadataInsert means the blob was stored but the fingerprint record
	// could not be written; the blob has been removed again.
	ErrMetadataInsert = errors.New("metadata record write failed after upload")
)
