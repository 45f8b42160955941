package resumes

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.upload)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.GET("/resumes/:id/download", h.download)
	rg.DELETE("/resumes/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	owner := middleware.OwnerFromContext(c)
	// Slack over the ceiling covers multipart framing; the service enforces
	// the exact file-size limit.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds size limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		if isBodyTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds size limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	res, err := h.Svc.Upload(c.Request.Context(), owner, fileHeader.Filename, content)
	if err != nil {
		switch {
		case errors.Is(err, ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", err.Error(), nil)
		case errors.Is(err, ErrDuplicate):
			respond.Error(c, http.StatusConflict, "duplicate_resume", "this file was already uploaded", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrMetadataInsert):
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record upload", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload resume", nil)
		}
		return
	}

	body := UploadResponse{
		Resume:        toResponse(res.Resume),
		ExtractedText: res.ExtractedText,
	}
	if res.AlreadySaved {
		body.Warning = "a file with this name is already saved; upload skipped"
		respond.JSON(c, http.StatusOK, body)
		return
	}
	respond.JSON(c, http.StatusCreated, body)
}

// isBodyTooLarge reports whether err came from the request-body cap. Form
// parsing surfaces it wrapped, so unwrap rather than string-match.
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func (h *Handler) list(c *gin.Context) {
	owner := middleware.OwnerFromContext(c)

	records, err := h.Svc.List(c.Request.Context(), owner)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list resumes", nil)
		return
	}
	respond.OK(c, gin.H{"resumes": toResponses(records)})
}

func (h *Handler) get(c *gin.Context) {
	owner := middleware.OwnerFromContext(c)

	rec, err := h.Svc.Get(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch resume", nil)
		}
		return
	}

	// Extraction is best-effort on reads; metadata is still useful for a
	// document that yields no text.
	text := ""
	if _, extracted, err := h.Svc.Text(c.Request.Context(), owner, rec.ID); err == nil {
		text = extracted
	}
	respond.OK(c, DetailResponse{Resume: toResponse(rec), ExtractedText: text})
}

func (h *Handler) download(c *gin.Context) {
	owner := middleware.OwnerFromContext(c)

	rec, rc, err := h.Svc.Open(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open resume", nil)
		}
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", `attachment; filename="`+rec.FileName+`"`)
	c.DataFromReader(http.StatusOK, rec.SizeBytes, rec.MimeType, rc, nil)
}

func (h *Handler) remove(c *gin.Context) {
	owner := middleware.OwnerFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), owner, c.Param("id")); err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete resume", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
