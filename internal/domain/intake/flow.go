package intake

import "sync"

// FlowState is the submission flow's current position in its state machine:
// Idle -> Submitting -> Succeeded | Failed, and back to Idle on reset.
type FlowState string

const (
	FlowIdle       FlowState = "idle"
	FlowSubmitting FlowState = "submitting"
	FlowSucceeded  FlowState = "succeeded"
	FlowFailed     FlowState = "failed"
)

// Flow is one patient session's submission state machine. At most one
// submission is in flight per flow; a second submit while Submitting is
// rejected rather than queued. Each attempt carries a monotonically
// increasing token so that a result arriving after a reset, or after a newer
// attempt has started, is detected as stale and silently discarded.
type Flow struct {
	mu      sync.Mutex
	state   FlowState
	attempt uint64
	record  *Record
	errMsg  string
}

func NewFlow() *Flow { return &Flow{state: FlowIdle} }

// begin moves Idle/Succeeded/Failed to Submitting and returns the attempt
// token. It reports false when a submission is already in flight.
func (f *Flow) begin() (uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FlowSubmitting {
		return 0, false
	}
	f.attempt++
	f.state = FlowSubmitting
	f.record = nil
	f.errMsg = ""
	return f.attempt, true
}

// resolveSuccess applies a successful result for the given attempt. It
// reports false when the attempt is stale, in which case nothing changes.
func (f *Flow) resolveSuccess(token uint64, rec *Record) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attempt != token || f.state != FlowSubmitting {
		return false
	}
	f.state = FlowSucceeded
	f.record = rec
	return true
}

// resolveFailure applies a failed result for the given attempt. It reports
// false when the attempt is stale.
func (f *Flow) resolveFailure(token uint64, msg string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attempt != token || f.state != FlowSubmitting {
		return false
	}
	f.state = FlowFailed
	f.errMsg = msg
	return true
}

// Reset returns the flow to Idle, discarding any displayed result or error.
// An in-flight call is not aborted; bumping the attempt counter makes its
// eventual result stale.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempt++
	f.state = FlowIdle
	f.record = nil
	f.errMsg = ""
}

// FlowSnapshot is a point-in-time view of a flow for display.
type FlowSnapshot struct {
	State  FlowState `json:"state"`
	Record *Record   `json:"record,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// Snapshot returns the flow's current state, result and error message.
func (f *Flow) Snapshot() FlowSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FlowSnapshot{State: f.state, Record: f.record, Error: f.errMsg}
}

// FlowRegistry hands out one Flow per patient session.
type FlowRegistry struct {
	mu    sync.Mutex
	flows map[string]*Flow
}

func NewFlowRegistry() *FlowRegistry {
	return &FlowRegistry{flows: make(map[string]*Flow)}
}

// Get returns the session's flow, creating it on first use.
func (r *FlowRegistry) Get(sessionID string) *Flow {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flows[sessionID]
	if !ok {
		f = NewFlow()
		r.flows[sessionID] = f
	}
	return f
}
