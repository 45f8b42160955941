package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/storage/object"
	"resume-analyzer/internal/shared/telemetry"
	"resume-analyzer/internal/shared/util"
)

// MaxUploadBytes is the size ceiling for a single upload, enforced before
// any collaborator call.
const MaxUploadBytes = 10 << 20 // 10 MiB

// Service contains the upload/dedup/storage workflow.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
}

// UploadResult carries the stored record plus what the caller needs to
// render: the extracted text and whether this upload was skipped because the
// name was already stored.
type UploadResult struct {
	Resume        Resume
	ExtractedText string
	AlreadySaved  bool
}

// Upload ingests a document for an owner: fingerprint, per-owner duplicate
// check, blob put, fingerprint record insert, then text extraction. A failed
// record insert after a successful blob write removes the blob again and
// surfaces ErrMetadataInsert.
func (s *Service) Upload(ctx context.Context, owner, fileName string, content []byte) (UploadResult, error) {
	if strings.TrimSpace(owner) == "" {
		return UploadResult{}, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		metrics.IncUploadRejected()
		return UploadResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(content) == 0 {
		metrics.IncUploadRejected()
		return UploadResult{}, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}
	if len(content) > MaxUploadBytes {
		metrics.IncUploadRejected()
		return UploadResult{}, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(content), MaxUploadBytes)
	}

	fingerprint := util.Fingerprint(content)

	// Same name already stored: skip with a warning instead of clobbering.
	// Everything in the result, text included, describes the stored file,
	// not the discarded upload.
	if existing, err := s.Repo.GetByName(ctx, owner, sanitized); err == nil {
		telemetry.Warn("resume.upload.name_exists", map[string]any{
			"owner": owner, "file_name": sanitized,
		})
		return UploadResult{
			Resume:        existing,
			ExtractedText: s.extractStored(ctx, owner, existing),
			AlreadySaved:  true,
		}, nil
	} else if !errors.Is(err, ErrNotFound) {
		return UploadResult{}, fmt.Errorf("check name: %w", err)
	}

	seen, err := s.Repo.ExistsByFingerprint(ctx, owner, fingerprint)
	if err != nil {
		return UploadResult{}, fmt.Errorf("check fingerprint: %w", err)
	}
	if seen {
		metrics.IncUploadDuplicate()
		return UploadResult{}, ErrDuplicate
	}

	obj, err := s.Store.Put(ctx, owner, sanitized, bytes.NewReader(content))
	if err != nil {
		if errors.Is(err, object.ErrExists) {
			// Blob present without a record; keep the no-overwrite policy
			// and surface the inconsistency instead of clobbering.
			telemetry.Warn("resume.upload.blob_exists_without_record", map[string]any{
				"owner": owner, "file_name": sanitized,
			})
			return UploadResult{}, fmt.Errorf("%w: blob already stored", ErrInvalidInput)
		}
		return UploadResult{}, fmt.Errorf("store blob: %w", err)
	}

	rec := Resume{
		ID:          uuid.NewString(),
		OwnerEmail:  owner,
		FileName:    obj.Name,
		Fingerprint: fingerprint,
		MimeType:    obj.MimeType,
		SizeBytes:   obj.SizeBytes,
		StorageKey:  obj.StorageKey,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Repo.Insert(ctx, rec); err != nil {
		// The blob must not outlive a failed record write; remove it again
		// and be loud about the failure.
		if delErr := s.Store.Delete(ctx, owner, obj.Name); delErr != nil {
			telemetry.Error("resume.upload.compensation_failed", map[string]any{
				"owner": owner, "file_name": obj.Name, "error": delErr.Error(),
			})
		}
		if errors.Is(err, ErrDuplicate) {
			metrics.IncUploadDuplicate()
			return UploadResult{}, ErrDuplicate
		}
		return UploadResult{}, fmt.Errorf("%w: %v", ErrMetadataInsert, err)
	}

	metrics.IncUploadAccepted()
	telemetry.Info("resume.upload.stored", map[string]any{
		"owner": owner, "file_name": rec.FileName, "size_bytes": rec.SizeBytes, "fingerprint": fingerprint,
	})

	return UploadResult{
		Resume:        rec,
		ExtractedText: s.extractText(ctx, content, rec.MimeType, rec.FileName),
	}, nil
}

// extractText is best-effort: a resume that stored fine but has no
// extractable text is still uploaded.
func (s *Service) extractText(ctx context.Context, content []byte, mimeType, fileName string) string {
	text, err := extract.Text(ctx, content, mimeType, fileName)
	if err != nil {
		telemetry.Warn("resume.extract.failed", map[string]any{
			"file_name": fileName, "error": err.Error(),
		})
		return ""
	}
	return text
}

// extractStored reads a stored blob back and extracts its text, best-effort.
func (s *Service) extractStored(ctx context.Context, owner string, rec Resume) string {
	rc, err := s.Store.Open(ctx, owner, rec.FileName)
	if err != nil {
		telemetry.Warn("resume.extract.open_failed", map[string]any{
			"file_name": rec.FileName, "error": err.Error(),
		})
		return ""
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		telemetry.Warn("resume.extract.read_failed", map[string]any{
			"file_name": rec.FileName, "error": err.Error(),
		})
		return ""
	}
	return s.extractText(ctx, content, rec.MimeType, rec.FileName)
}

// Get returns an owner's resume record by ID.
func (s *Service) Get(ctx context.Context, owner, id string) (Resume, error) {
	if strings.TrimSpace(owner) == "" || strings.TrimSpace(id) == "" {
		return Resume{}, fmt.Errorf("%w: owner and id are required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, owner, id)
}

// Text returns the extracted plain text of a stored resume.
func (s *Service) Text(ctx context.Context, owner, id string) (Resume, string, error) {
	rec, err := s.Get(ctx, owner, id)
	if err != nil {
		return Resume{}, "", err
	}
	rc, err := s.Store.Open(ctx, owner, rec.FileName)
	if err != nil {
		return Resume{}, "", fmt.Errorf("open blob: %w", err)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		return Resume{}, "", fmt.Errorf("read blob: %w", err)
	}
	text, err := extract.Text(ctx, content, rec.MimeType, rec.FileName)
	if err != nil {
		return Resume{}, "", fmt.Errorf("extract text: %w", err)
	}
	return rec, text, nil
}

// Open returns the raw stored blob for download.
func (s *Service) Open(ctx context.Context, owner, id string) (Resume, io.ReadCloser, error) {
	rec, err := s.Get(ctx, owner, id)
	if err != nil {
		return Resume{}, nil, err
	}
	rc, err := s.Store.Open(ctx, owner, rec.FileName)
	if err != nil {
		return Resume{}, nil, fmt.Errorf("open blob: %w", err)
	}
	return rec, rc, nil
}

// List returns the owner's resumes, newest first.
func (s *Service) List(ctx context.Context, owner string) ([]Resume, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	return s.Repo.ListByOwner(ctx, owner)
}

// Delete removes the blob and its record. Deleting a resume that does not
// exist is a success, not an error.
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	if strings.TrimSpace(owner) == "" || strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: owner and id are required", ErrInvalidInput)
	}

	rec, err := s.Repo.GetByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.Store.Delete(ctx, owner, rec.FileName); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	if err := s.Repo.DeleteByName(ctx, owner, rec.FileName); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	metrics.IncResumeDeleted()
	telemetry.Info("resume.deleted", map[string]any{
		"owner": owner, "file_name": rec.FileName,
	})
	return nil
}
