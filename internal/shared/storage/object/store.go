package object

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrExists is returned by Put when the owner already stored an object
	// under the same name. Callers decide whether that is fatal; overwriting
	// is never an option.
	ErrExists = errors.New("object already exists")

	// ErrNotFound is returned by Open when no object matches.
	ErrNotFound = errors.New("object not found")
)

// Object describes a stored blob.
type Object struct {
	Name       string
	StorageKey string
	SizeBytes  int64
	MimeType   string
}

// ObjectStore is the gateway to the blob collaborator. Every operation is
// namespaced by the owner identity; storage keys are derived from it and
// never taken from callers.
type ObjectStore interface {
	Put(ctx context.Context, owner string, name string, r io.Reader) (Object, error)
	Open(ctx context.Context, owner string, name string) (io.ReadCloser, error)
	List(ctx context.Context, owner string) ([]Object, error)
	Delete(ctx context.Context, owner string, name string) error
}
