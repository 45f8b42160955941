package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"resume-analyzer/internal/shared/storage/object"
	"resume-analyzer/internal/shared/util"
)

// Store implements ObjectStore using the local filesystem. Objects live at
// baseDir/<ownerKey>/<name>.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) object.ObjectStore {
	return &Store{baseDir: baseDir}
}

// Put writes the reader to disk under the owner's namespace. An existing
// object with the same name is never overwritten.
func (s *Store) Put(ctx context.Context, owner string, name string, r io.Reader) (object.Object, error) {
	if err := ctx.Err(); err != nil {
		return object.Object{}, err
	}

	sanitized, err := util.SanitizeFileName(name)
	if err != nil {
		return object.Object{}, fmt.Errorf("sanitize file name: %w", err)
	}

	dirPath := filepath.Join(s.baseDir, util.OwnerKey(owner))
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return object.Object{}, fmt.Errorf("mkdir: %w", err)
	}

	fullPath := filepath.Join(dirPath, sanitized)
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return object.Object{}, object.ErrExists
		}
		return object.Object{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	// A partial file must not survive a failed write: it would make every
	// retry of this name fail the exists check.
	fail := func(err error) (object.Object, error) {
		_ = f.Close()
		_ = os.Remove(fullPath)
		return object.Object{}, err
	}

	var sniff [512]byte
	n, readErr := io.ReadFull(r, sniff[:])
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		return fail(fmt.Errorf("read sniff: %w", readErr))
	}
	mimeType := http.DetectContentType(sniff[:n])

	size := int64(0)
	if n > 0 {
		if _, err := f.Write(sniff[:n]); err != nil {
			return fail(fmt.Errorf("write sniff: %w", err))
		}
		size += int64(n)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		return fail(fmt.Errorf("write body: %w", err))
	}
	size += written

	return object.Object{
		Name:       sanitized,
		StorageKey: filepath.Join(util.OwnerKey(owner), sanitized),
		SizeBytes:  size,
		MimeType:   mimeType,
	}, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, owner string, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sanitized, err := util.SanitizeFileName(name)
	if err != nil {
		return nil, fmt.Errorf("sanitize file name: %w", err)
	}

	fullPath := filepath.Join(s.baseDir, util.OwnerKey(owner), sanitized)
	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, object.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// List returns the objects stored under the owner's namespace.
func (s *Store) List(ctx context.Context, owner string) ([]object.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirPath := filepath.Join(s.baseDir, util.OwnerKey(owner))
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []object.Object{}, nil
		}
		return nil, fmt.Errorf("read dir: %w", err)
	}

	out := make([]object.Object, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, object.Object{
			Name:       entry.Name(),
			StorageKey: filepath.Join(util.OwnerKey(owner), entry.Name()),
			SizeBytes:  info.Size(),
		})
	}
	return out, nil
}

// Delete removes a stored object. Deleting a missing object is not an error.
func (s *Store) Delete(ctx context.Context, owner string, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sanitized, err := util.SanitizeFileName(name)
	if err != nil {
		return fmt.Errorf("sanitize file name: %w", err)
	}

	fullPath := filepath.Join(s.baseDir, util.OwnerKey(owner), sanitized)
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

var _ object.ObjectStore = (*Store)(nil)
