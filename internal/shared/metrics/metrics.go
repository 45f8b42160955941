package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	uploadAcceptedTotal  atomic.Uint64
	uploadDuplicateTotal atomic.Uint64
	uploadRejectedTotal  atomic.Uint64
	resumeDeletedTotal   atomic.Uint64
	analysisTotal        atomic.Uint64
	analysisFailedTotal  atomic.Uint64

	analysisDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncUploadAccepted increments the accepted-upload counter.
func IncUploadAccepted() { uploadAcceptedTotal.Add(1) }

// IncUploadDuplicate increments the duplicate-rejection counter.
func IncUploadDuplicate() { uploadDuplicateTotal.Add(1) }

// IncUploadRejected increments the validation-rejection counter.
func IncUploadRejected() { uploadRejectedTotal.Add(1) }

// IncResumeDeleted increments the delete counter.
func IncResumeDeleted() { resumeDeletedTotal.Add(1) }

// IncAnalysis increments the analysis counter.
func IncAnalysis() { analysisTotal.Add(1) }

// IncAnalysisFailed increments the failed-analysis counter.
func IncAnalysisFailed() { analysisFailedTotal.Add(1) }

// ObserveAnalysisDurationMs records a completion-call duration in milliseconds.
func ObserveAnalysisDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	analysisDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "resume_upload_accepted_total", "Total resumes accepted and stored", uploadAcceptedTotal.Load())
	writeCounter(&buf, "resume_upload_duplicate_total", "Total uploads rejected as duplicates", uploadDuplicateTotal.Load())
	writeCounter(&buf, "resume_upload_rejected_total", "Total uploads rejected by validation", uploadRejectedTotal.Load())
	writeCounter(&buf, "resume_deleted_total", "Total resumes deleted", resumeDeletedTotal.Load())
	writeCounter(&buf, "analysis_total", "Total analysis requests forwarded", analysisTotal.Load())
	writeCounter(&buf, "analysis_failed_total", "Total analysis requests that failed", analysisFailedTotal.Load())
	writeHistogram(&buf, "analysis_duration_ms", "Completion call duration in milliseconds", analysisDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
