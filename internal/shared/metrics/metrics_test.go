package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderContainsAllSeries(t *testing.T) {
	out := Render()
	for _, name := range []string{
		"resume_upload_accepted_total",
		"resume_upload_duplicate_total",
		"resume_upload_rejected_total",
		"resume_deleted_total",
		"analysis_total",
		"analysis_failed_total",
		"analysis_duration_ms_bucket",
		"analysis_duration_ms_sum",
		"analysis_duration_ms_count",
	} {
		if !strings.Contains(out, name) {
			t.Errorf("render output missing %s", name)
		}
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100, 1000})
	h.Observe(5)
	h.Observe(50)
	h.Observe(50)
	h.Observe(5000) // beyond the last bound, lands only in +Inf

	snap := h.Snapshot()
	if snap.count != 4 {
		t.Fatalf("count = %d, want 4", snap.count)
	}

	var buf bytes.Buffer
	writeHistogram(&buf, "h", "test histogram", snap)
	out := buf.String()

	for _, want := range []string{
		`h_bucket{le="10"} 1`,
		`h_bucket{le="100"} 3`,
		`h_bucket{le="1000"} 3`,
		`h_bucket{le="+Inf"} 4`,
		`h_count 4`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered histogram missing %q:\n%s", want, out)
		}
	}
}
