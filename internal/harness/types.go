package harness

import (
	"github.com/roach88/ministore/internal/engine"
	"github.com/roach88/ministore/internal/ir"
)

// Trace event types.
const (
	EventAction  = "action"
	EventOutcome = "outcome"
)

// TraceEvent is one journaled action or outcome, in seq order.
type TraceEvent struct {
	Type   string      `json:"type"` // "action" or "outcome"
	Action string      `json:"action,omitempty"`
	Args   ir.IRObject `json:"args,omitempty"`
	Case   string      `json:"case,omitempty"`
	Result ir.IRObject `json:"result,omitempty"`
	Seq    int64       `json:"seq"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses and assertions match.
	Pass bool `json:"pass"`

	// Trace contains all journaled actions and outcomes in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the observable state after the last step.
	Final engine.Snapshot `json:"final"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddActionTrace adds an action to the trace.
func (r *Result) AddActionTrace(action ir.ActionType, args ir.IRObject, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:   EventAction,
		Action: string(action),
		Args:   args,
		Seq:    seq,
	})
}

// AddOutcomeTrace adds an outcome to the trace.
func (r *Result) AddOutcomeTrace(outcomeCase string, result ir.IRObject, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:   EventOutcome,
		Case:   outcomeCase,
		Result: result,
		Seq:    seq,
	})
}

// addJournal appends journal entries to the trace.
func (r *Result) addJournal(entries []ir.JournalEntry) {
	for _, e := range entries {
		r.AddActionTrace(e.Action.Type, e.Action.Args, e.Action.Seq)
		if e.Outcome != nil {
			r.AddOutcomeTrace(e.Outcome.Case, e.Outcome.Result, e.Outcome.Seq)
		}
	}
}
