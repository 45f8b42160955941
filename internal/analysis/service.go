package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/telemetry"
)

var (
	// ErrEmptyResume means no resume text was available to analyze.
	ErrEmptyResume = errors.New("resume text is empty")

	// ErrEmptyJobDescription means no job description was provided.
	ErrEmptyJobDescription = errors.New("job description is empty")
)

// Service runs a single-shot analysis call against the configured model.
type Service struct {
	LLM      llm.Client
	Provider string
	Model    string
}

// Result is the outcome of one analysis call.
type Result struct {
	Text     string
	Provider string
	Model    string
}

// Analyze compares a resume against a job description. Empty inputs are
// refused before any model call is made.
func (s *Service) Analyze(ctx context.Context, owner, resumeText, jobDescription string) (Result, error) {
	if strings.TrimSpace(resumeText) == "" {
		return Result{}, ErrEmptyResume
	}
	if strings.TrimSpace(jobDescription) == "" {
		return Result{}, ErrEmptyJobDescription
	}

	prompt := BuildPrompt(resumeText, jobDescription)

	start := time.Now()
	text, err := s.LLM.Generate(ctx, prompt)
	elapsed := time.Since(start)
	metrics.ObserveAnalysisDurationMs(float64(elapsed.Milliseconds()))

	if err != nil {
		metrics.IncAnalysisFailed()
		telemetry.Error("analysis.failed", map[string]any{
			"owner":    owner,
			"provider": s.Provider,
			"model":    s.Model,
			"error":    err.Error(),
		})
		return Result{}, fmt.Errorf("analysis call: %w", err)
	}

	metrics.IncAnalysis()
	telemetry.Info("analysis.completed", map[string]any{
		"owner":       owner,
		"provider":    s.Provider,
		"model":       s.Model,
		"duration_ms": elapsed.Milliseconds(),
	})

	return Result{Text: text, Provider: s.Provider, Model: s.Model}, nil
}
