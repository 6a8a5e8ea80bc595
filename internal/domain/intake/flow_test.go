package intake

import (
	"testing"

	"github.com/clinexa/intake/internal/platform/analysis"
)

func TestFlow_StartsIdle(t *testing.T) {
	f := NewFlow()
	snap := f.Snapshot()
	if snap.State != FlowIdle {
		t.Errorf("expected %q, got %q", FlowIdle, snap.State)
	}
	if snap.Record != nil || snap.Error != "" {
		t.Error("expected empty snapshot")
	}
}

func TestFlow_BeginRejectsWhileSubmitting(t *testing.T) {
	f := NewFlow()
	if _, ok := f.begin(); !ok {
		t.Fatal("first begin should succeed")
	}
	if _, ok := f.begin(); ok {
		t.Error("second begin while submitting should be rejected")
	}
}

func TestFlow_SuccessRoundTrip(t *testing.T) {
	f := NewFlow()
	token, _ := f.begin()
	rec := NewRecord("chest pain", analysis.Analysis{RiskScore: 92, Urgency: analysis.UrgencyEmergency})
	if !f.resolveSuccess(token, rec) {
		t.Fatal("resolveSuccess with the current token should apply")
	}
	snap := f.Snapshot()
	if snap.State != FlowSucceeded {
		t.Errorf("expected %q, got %q", FlowSucceeded, snap.State)
	}
	if snap.Record != rec {
		t.Error("expected the resolved record in the snapshot")
	}
}

func TestFlow_FailureRoundTrip(t *testing.T) {
	f := NewFlow()
	token, _ := f.begin()
	if !f.resolveFailure(token, "unable to synthesize clinical data") {
		t.Fatal("resolveFailure with the current token should apply")
	}
	snap := f.Snapshot()
	if snap.State != FlowFailed {
		t.Errorf("expected %q, got %q", FlowFailed, snap.State)
	}
	if snap.Error == "" {
		t.Error("expected an error message")
	}
}

func TestFlow_StaleTokenIsDiscarded(t *testing.T) {
	f := NewFlow()
	token, _ := f.begin()
	f.Reset()

	rec := NewRecord("x", analysis.Analysis{})
	if f.resolveSuccess(token, rec) {
		t.Error("success for a reset attempt must be discarded")
	}
	if f.resolveFailure(token, "boom") {
		t.Error("failure for a reset attempt must be discarded")
	}
	snap := f.Snapshot()
	if snap.State != FlowIdle || snap.Record != nil || snap.Error != "" {
		t.Errorf("flow should remain idle and empty, got %+v", snap)
	}
}

func TestFlow_SupersededAttemptIsDiscarded(t *testing.T) {
	f := NewFlow()
	old, _ := f.begin()
	f.Reset()
	current, _ := f.begin()

	if f.resolveSuccess(old, NewRecord("old", analysis.Analysis{})) {
		t.Error("superseded attempt must not resolve")
	}
	rec := NewRecord("new", analysis.Analysis{})
	if !f.resolveSuccess(current, rec) {
		t.Fatal("current attempt should resolve")
	}
	if got := f.Snapshot().Record; got != rec {
		t.Errorf("expected the newer attempt's record, got %+v", got)
	}
}

func TestFlow_ResetClearsResult(t *testing.T) {
	f := NewFlow()
	token, _ := f.begin()
	f.resolveSuccess(token, NewRecord("x", analysis.Analysis{}))

	f.Reset()
	snap := f.Snapshot()
	if snap.State != FlowIdle {
		t.Errorf("expected %q after reset, got %q", FlowIdle, snap.State)
	}
	if snap.Record != nil {
		t.Error("reset should clear the displayed record")
	}
}

func TestFlow_BeginAfterFailureClearsError(t *testing.T) {
	f := NewFlow()
	token, _ := f.begin()
	f.resolveFailure(token, "boom")

	if _, ok := f.begin(); !ok {
		t.Fatal("begin after a failed attempt should succeed")
	}
	if snap := f.Snapshot(); snap.Error != "" {
		t.Errorf("expected error cleared on new attempt, got %q", snap.Error)
	}
}

func TestFlowRegistry_OneFlowPerSession(t *testing.T) {
	reg := NewFlowRegistry()
	a := reg.Get("session-a")
	b := reg.Get("session-b")
	if a == b {
		t.Error("distinct sessions must get distinct flows")
	}
	if reg.Get("session-a") != a {
		t.Error("same session must get the same flow back")
	}
}
