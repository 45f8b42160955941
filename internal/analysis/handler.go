package analysis

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/resumes"
	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/server/respond"
)

// Handler wires the analysis endpoint to the service.
type Handler struct {
	Svc     *Service
	Resumes *resumes.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, resumeSvc *resumes.Service) *Handler {
	return &Handler{Svc: svc, Resumes: resumeSvc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.create)
}

type createRequest struct {
	ResumeID       string `json:"resumeId"`
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

type createResponse struct {
	Analysis string `json:"analysis"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

func (h *Handler) create(c *gin.Context) {
	owner := middleware.OwnerFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.ResumeID = strings.TrimSpace(req.ResumeID)

	resumeText := req.ResumeText
	if req.ResumeID != "" {
		_, text, err := h.Resumes.Text(c.Request.Context(), owner, req.ResumeID)
		if err != nil {
			if errors.Is(err, resumes.ErrNotFound) {
				respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load resume text", nil)
			return
		}
		resumeText = text
	}

	res, err := h.Svc.Analyze(c.Request.Context(), owner, resumeText, req.JobDescription)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyResume):
			respond.Error(c, http.StatusBadRequest, "validation_error", "resume text is required", nil)
		case errors.Is(err, ErrEmptyJobDescription):
			respond.Error(c, http.StatusBadRequest, "validation_error", "job description is required", nil)
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusServiceUnavailable, "llm_unavailable", "analysis model is not configured", nil)
		default:
			respond.Error(c, http.StatusBadGateway, "llm_error", "analysis call failed", nil)
		}
		return
	}

	respond.OK(c, createResponse{
		Analysis: res.Text,
		Provider: res.Provider,
		Model:    res.Model,
	})
}
