package intake

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clinexa/intake/internal/platform/analysis"
)

// mockRepo is an in-memory Repository with an optional scripted append error.
type mockRepo struct {
	mu        sync.Mutex
	records   []*Record
	appendErr error
}

func (m *mockRepo) Append(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *mockRepo) List(_ context.Context) ([]*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *mockRepo) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// mockAnalyzer returns a scripted result or error, optionally calling a hook
// before resolving so tests can interleave flow operations mid-analysis.
type mockAnalyzer struct {
	result    *analysis.Analysis
	err       error
	beforeFn  func()
	callCount int
}

func (m *mockAnalyzer) Analyze(_ context.Context, _ string) (*analysis.Analysis, error) {
	m.callCount++
	if m.beforeFn != nil {
		m.beforeFn()
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func chestPainAnalysis() *analysis.Analysis {
	return &analysis.Analysis{
		BriefSummary:      "Acute chest pain radiating to the left arm with shortness of breath.",
		ExtractedSymptoms: []string{"chest pain", "shortness of breath"},
		PossibleCauses:    []string{"cardiac event"},
		RedFlags:          []string{"radiating pain"},
		RiskScore:         92,
		Urgency:           analysis.UrgencyEmergency,
	}
}

func newTestService(repo Repository, a analysis.Client) *Service {
	return NewService(repo, a, zerolog.Nop())
}

func TestSubmit_Success(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo, &mockAnalyzer{result: chestPainAnalysis()})
	flow := NewFlow()

	input := "Crushing chest pain for 20 minutes, radiating to my left arm."
	snap, err := svc.Submit(context.Background(), flow, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.State != FlowSucceeded {
		t.Fatalf("expected state %q, got %q", FlowSucceeded, snap.State)
	}
	if snap.Record == nil {
		t.Fatal("expected a record in the snapshot")
	}
	if snap.Record.RawSymptoms != input {
		t.Errorf("raw symptoms not stored verbatim: %q", snap.Record.RawSymptoms)
	}
	if snap.Record.ID == "" {
		t.Error("expected record id to be set")
	}
	if snap.Record.Timestamp == "" {
		t.Error("expected display timestamp to be set")
	}
	if snap.Record.Summary.RiskScore != 92 {
		t.Errorf("expected risk score 92, got %d", snap.Record.Summary.RiskScore)
	}
	if repo.len() != 1 {
		t.Errorf("expected exactly one stored record, got %d", repo.len())
	}
}

func TestSubmit_StoresUntrimmedInputVerbatim(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo, &mockAnalyzer{result: chestPainAnalysis()})
	flow := NewFlow()

	input := "  severe chest pain radiating to left arm  \n"
	snap, err := svc.Submit(context.Background(), flow, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Surrounding whitespace is stripped for the guard and the analyzer,
	// never from the stored text.
	if snap.Record.RawSymptoms != input {
		t.Errorf("raw symptoms not stored verbatim: got %q want %q", snap.Record.RawSymptoms, input)
	}
}

func TestSubmit_EmptyInputIsNoOp(t *testing.T) {
	repo := &mockRepo{}
	az := &mockAnalyzer{result: chestPainAnalysis()}
	svc := newTestService(repo, az)
	flow := NewFlow()

	for _, input := range []string{"", "   ", "\n\t  "} {
		snap, err := svc.Submit(context.Background(), flow, input)
		if err != nil {
			t.Fatalf("unexpected error for input %q: %v", input, err)
		}
		if snap.State != FlowIdle {
			t.Errorf("expected flow to stay idle for input %q, got %q", input, snap.State)
		}
	}
	if az.callCount != 0 {
		t.Errorf("expected no analysis calls, got %d", az.callCount)
	}
	if repo.len() != 0 {
		t.Errorf("expected empty store, got %d records", repo.len())
	}
}

func TestSubmit_AnalysisFailure(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo, &mockAnalyzer{err: analysis.ErrUnavailable})
	flow := NewFlow()

	snap, err := svc.Submit(context.Background(), flow, "persistent headache")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.State != FlowFailed {
		t.Fatalf("expected state %q, got %q", FlowFailed, snap.State)
	}
	if snap.Error == "" {
		t.Error("expected a user-facing error message")
	}
	if snap.Error != analysis.ErrUnavailable.Error() {
		t.Errorf("unexpected error message: %q", snap.Error)
	}
	if snap.Record != nil {
		t.Error("expected no record on failure")
	}
	if repo.len() != 0 {
		t.Errorf("failed submission must not touch the store, got %d records", repo.len())
	}
}

func TestSubmit_FailureThenRetrySucceeds(t *testing.T) {
	repo := &mockRepo{}
	az := &mockAnalyzer{err: analysis.ErrUnavailable}
	svc := newTestService(repo, az)
	flow := NewFlow()

	if snap, _ := svc.Submit(context.Background(), flow, "dizzy spells"); snap.State != FlowFailed {
		t.Fatalf("expected first attempt to fail, got %q", snap.State)
	}

	az.err = nil
	az.result = chestPainAnalysis()
	snap, err := svc.Submit(context.Background(), flow, "dizzy spells")
	if err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if snap.State != FlowSucceeded {
		t.Fatalf("expected retry to succeed, got %q", snap.State)
	}
	if snap.Error != "" {
		t.Errorf("expected error to be cleared on retry, got %q", snap.Error)
	}
	if repo.len() != 1 {
		t.Errorf("expected one stored record after retry, got %d", repo.len())
	}
}

func TestSubmit_ResetDuringAnalysisDiscardsResult(t *testing.T) {
	repo := &mockRepo{}
	flow := NewFlow()
	az := &mockAnalyzer{result: chestPainAnalysis()}
	// Reset the flow while the analysis call is still outstanding.
	az.beforeFn = func() { flow.Reset() }
	svc := newTestService(repo, az)

	snap, err := svc.Submit(context.Background(), flow, "sudden vision loss")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.State != FlowIdle {
		t.Errorf("expected flow to remain idle after reset, got %q", snap.State)
	}
	if snap.Record != nil {
		t.Error("stale result must not surface in the flow")
	}
	if repo.len() != 0 {
		t.Errorf("stale result must not be stored, got %d records", repo.len())
	}
}

func TestSubmit_ResetDuringAnalysisDiscardsFailure(t *testing.T) {
	repo := &mockRepo{}
	flow := NewFlow()
	az := &mockAnalyzer{err: errors.New("upstream timeout")}
	az.beforeFn = func() { flow.Reset() }
	svc := newTestService(repo, az)

	snap, err := svc.Submit(context.Background(), flow, "sudden vision loss")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.State != FlowIdle {
		t.Errorf("expected flow to remain idle after reset, got %q", snap.State)
	}
	if snap.Error != "" {
		t.Errorf("stale failure must not surface, got %q", snap.Error)
	}
}

func TestSubmit_RejectsConcurrentSubmission(t *testing.T) {
	repo := &mockRepo{}
	flow := NewFlow()
	svc := newTestService(repo, &mockAnalyzer{result: chestPainAnalysis()})

	inFlight := &mockAnalyzer{result: chestPainAnalysis()}
	inFlight.beforeFn = func() {
		// A second submit while the first is still Submitting is rejected.
		_, err := svc.Submit(context.Background(), flow, "also nauseous")
		if !errors.Is(err, ErrSubmissionInFlight) {
			t.Errorf("expected ErrSubmissionInFlight, got %v", err)
		}
	}
	svc2 := newTestService(repo, inFlight)

	snap, err := svc2.Submit(context.Background(), flow, "chest pain")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.State != FlowSucceeded {
		t.Fatalf("first submission should still succeed, got %q", snap.State)
	}
	if repo.len() != 1 {
		t.Errorf("expected exactly one stored record, got %d", repo.len())
	}
}

func TestSubmit_AppendFailureStillSucceeds(t *testing.T) {
	repo := &mockRepo{appendErr: errors.New("disk full")}
	svc := newTestService(repo, &mockAnalyzer{result: chestPainAnalysis()})
	flow := NewFlow()

	snap, err := svc.Submit(context.Background(), flow, "chest pain")
	if err != nil {
		t.Fatalf("persistence failure must not surface: %v", err)
	}
	if snap.State != FlowSucceeded {
		t.Fatalf("expected state %q, got %q", FlowSucceeded, snap.State)
	}
	if snap.Record == nil {
		t.Fatal("expected the analyzed record to be displayed anyway")
	}
}

func TestSubmit_ChestPainScenario(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo, &mockAnalyzer{result: chestPainAnalysis()})
	flow := NewFlow()

	snap, err := svc.Submit(context.Background(), flow, "Crushing chest pain radiating to my left arm.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.State != FlowSucceeded {
		t.Fatalf("expected state %q, got %q", FlowSucceeded, snap.State)
	}

	records, err := svc.Records(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}

	stats := Stats(records)
	if stats.Critical != 1 {
		t.Errorf("expected critical count 1, got %d", stats.Critical)
	}

	detail := SelectDetail(records, snap.Record.ID)
	if detail == nil {
		t.Fatal("expected the record to be selectable by id")
	}
	if detail.Summary.RiskScore != 92 {
		t.Errorf("expected risk score 92, got %d", detail.Summary.RiskScore)
	}
	if detail.Summary.Urgency != analysis.UrgencyEmergency {
		t.Errorf("expected urgency %q, got %q", analysis.UrgencyEmergency, detail.Summary.Urgency)
	}
}
