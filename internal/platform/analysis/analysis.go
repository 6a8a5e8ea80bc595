// Package analysis provides the client for the external clinical analysis
// service. The service converts a raw patient narrative into a structured
// intake report with a fixed six-field shape. The client performs no
// semantic validation of the payload: risk score, urgency and list content
// are trusted as returned, and downstream code must not assume they are
// mutually consistent.
package analysis

import (
	"context"
	"errors"
)

// Urgency is the closed set of clinical priority labels.
type Urgency string

const (
	UrgencyLow       Urgency = "Low"
	UrgencyMedium    Urgency = "Medium"
	UrgencyHigh      Urgency = "High"
	UrgencyEmergency Urgency = "Emergency"
)

// Levels returns every urgency level in ascending priority order.
func Levels() []Urgency {
	return []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyEmergency}
}

// Valid reports whether u is one of the known urgency levels.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyEmergency:
		return true
	}
	return false
}

// Analysis is the structured clinical report produced by the external
// service. It is immutable once created; an empty red_flags list means
// "no red flags were found", not "red flags were not assessed".
type Analysis struct {
	BriefSummary      string   `json:"brief_summary"`
	ExtractedSymptoms []string `json:"extracted_symptoms"`
	PossibleCauses    []string `json:"possible_causes"`
	RedFlags          []string `json:"red_flags"`
	RiskScore         int      `json:"risk_score"`
	Urgency           Urgency  `json:"urgency"`
}

// ErrUnavailable is the single failure surfaced for any analysis problem:
// transport errors, an empty response body, or an unparseable payload.
// Provider-specific detail is logged internally and never shown to users.
var ErrUnavailable = errors.New("unable to synthesize clinical data; check your input and try again")

// Client analyzes a raw patient narrative into a structured clinical report.
type Client interface {
	Analyze(ctx context.Context, rawText string) (*Analysis, error)
}
