// Package intake implements the patient-intake record pipeline: submission
// of a raw symptom narrative, analysis via the external clinical service,
// append-only persistence, and the read-only dashboard queries over the
// stored records.
package intake

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinexa/intake/internal/platform/analysis"
)

// TimestampLayout is the human-readable capture timestamp shown on the
// dashboard, e.g. "Jan 2, 2006, 3:04 PM".
const TimestampLayout = "Jan 2, 2006, 3:04 PM"

// Record is one patient intake: the submitted narrative plus its derived
// clinical analysis. Records are created exactly once per successful
// submission and never updated or deleted.
type Record struct {
	ID          string            `json:"id"`
	Timestamp   string            `json:"timestamp"`
	RawSymptoms string            `json:"raw_symptoms"`
	Summary     analysis.Analysis `json:"summary"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewRecord builds a record for a successful submission. The id is a fresh
// UUID and the timestamp is captured at call time.
func NewRecord(rawSymptoms string, summary analysis.Analysis) *Record {
	now := time.Now()
	return &Record{
		ID:          uuid.NewString(),
		Timestamp:   now.Format(TimestampLayout),
		RawSymptoms: rawSymptoms,
		Summary:     summary,
		CreatedAt:   now,
	}
}
