package intake

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clinexa/intake/internal/platform/analysis"
)

// ErrSubmissionInFlight is returned when a submit arrives while the flow is
// still Submitting. The new submission is rejected, not queued.
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// Service orchestrates the submission flow: guard the input, call the
// analysis client, construct the record, append it to the store, and expose
// the result through the flow.
type Service struct {
	repo     Repository
	analyzer analysis.Client
	logger   zerolog.Logger
}

func NewService(repo Repository, analyzer analysis.Client, logger zerolog.Logger) *Service {
	return &Service{repo: repo, analyzer: analyzer, logger: logger}
}

// Submit runs one submission attempt on the given flow and returns the flow
// snapshot after the attempt resolves.
//
// Empty or whitespace-only input is a no-op: the flow stays Idle and the
// store is untouched. A result that resolves after the flow was reset, or
// after a newer attempt superseded it, is silently discarded and no record
// is stored.
func (s *Service) Submit(ctx context.Context, flow *Flow, rawText string) (FlowSnapshot, error) {
	trimmed := strings.TrimSpace(rawText)
	if trimmed == "" {
		return flow.Snapshot(), nil
	}

	token, ok := flow.begin()
	if !ok {
		return flow.Snapshot(), ErrSubmissionInFlight
	}

	result, err := s.analyzer.Analyze(ctx, trimmed)
	if err != nil {
		if !flow.resolveFailure(token, analysis.ErrUnavailable.Error()) {
			s.logger.Debug().Uint64("attempt", token).Msg("stale analysis failure discarded")
		}
		return flow.Snapshot(), nil
	}

	// The record keeps the patient's text exactly as entered; trimming is
	// for the guard and the analyzer call only.
	rec := NewRecord(rawText, *result)
	if !flow.resolveSuccess(token, rec) {
		s.logger.Debug().Uint64("attempt", token).Msg("stale analysis result discarded")
		return flow.Snapshot(), nil
	}
	if err := s.repo.Append(ctx, rec); err != nil {
		// The analysis already succeeded and is displayed; the missed write
		// is an accepted durability gap, reported to operators only.
		s.logger.Error().Err(err).Str("record_id", rec.ID).Msg("failed to persist intake record")
	}
	return flow.Snapshot(), nil
}

// Records returns the full store sequence in submission order.
func (s *Service) Records(ctx context.Context) ([]*Record, error) {
	return s.repo.List(ctx)
}
