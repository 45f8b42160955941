package resumes

import "time"

// ResumeResponse is the outward-facing representation of a stored resume.
type ResumeResponse struct {
	ResumeID    string    `json:"resumeId"`
	FileName    string    `json:"fileName"`
	Fingerprint string    `json:"fingerprint"`
	MimeType    string    `json:"mimeType"`
	SizeBytes   int64     `json:"sizeBytes"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// UploadResponse is returned from the upload endpoint. Warning is set when
// the upload was skipped because the name was already stored.
type UploadResponse struct {
	Resume        ResumeResponse `json:"resume"`
	ExtractedText string         `json:"extractedText,omitempty"`
	Warning       string         `json:"warning,omitempty"`
}

// DetailResponse pairs a resume record with its extracted text.
type DetailResponse struct {
	Resume        ResumeResponse `json:"resume"`
	ExtractedText string         `json:"extractedText,omitempty"`
}

func toResponse(rec Resume) ResumeResponse {
	return ResumeResponse{
		ResumeID:    rec.ID,
		FileName:    rec.FileName,
		Fingerprint: rec.Fingerprint,
		MimeType:    rec.MimeType,
		SizeBytes:   rec.SizeBytes,
		UploadedAt:  rec.CreatedAt,
	}
}

func toResponses(records []Resume) []ResumeResponse {
	out := make([]ResumeResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toResponse(rec))
	}
	return out
}
