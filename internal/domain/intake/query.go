package intake

import (
	"strings"

	"github.com/clinexa/intake/internal/platform/analysis"
)

// The dashboard query view: pure, read-only transformations over a store
// snapshot. Aggregates are always computed over the full sequence, never a
// filtered subset.

// Filter returns the records whose id or brief summary contains term,
// case-insensitively. An empty term returns all records. Relative order is
// preserved, so Filter is idempotent.
func Filter(records []*Record, term string) []*Record {
	if term == "" {
		return records
	}
	needle := strings.ToLower(term)
	out := make([]*Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.ID), needle) ||
			strings.Contains(strings.ToLower(r.Summary.BriefSummary), needle) {
			out = append(out, r)
		}
	}
	return out
}

// NewestFirst returns the records in reverse insertion order for display.
func NewestFirst(records []*Record) []*Record {
	out := make([]*Record, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out
}

// CountByUrgency counts the records whose analysis carries the given level.
func CountByUrgency(records []*Record, level analysis.Urgency) int {
	n := 0
	for _, r := range records {
		if r.Summary.Urgency == level {
			n++
		}
	}
	return n
}

// DashboardStats are the aggregate counters shown above the record list.
type DashboardStats struct {
	Total        int                      `json:"total"`
	Critical     int                      `json:"critical"`
	HighPriority int                      `json:"high_priority"`
	ByUrgency    map[analysis.Urgency]int `json:"by_urgency"`
}

// Stats computes the dashboard aggregates over the full record sequence.
// Critical counts Emergency records; HighPriority counts High.
func Stats(records []*Record) DashboardStats {
	by := make(map[analysis.Urgency]int, 4)
	for _, level := range analysis.Levels() {
		by[level] = CountByUrgency(records, level)
	}
	return DashboardStats{
		Total:        len(records),
		Critical:     by[analysis.UrgencyEmergency],
		HighPriority: by[analysis.UrgencyHigh],
		ByUrgency:    by,
	}
}

// SelectDetail looks up a single record by id. A missing id yields nil: the
// detail pane shows a placeholder, not an error.
func SelectDetail(records []*Record, id string) *Record {
	for _, r := range records {
		if r.ID == id {
			return r
		}
	}
	return nil
}
