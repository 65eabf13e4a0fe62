package engine

import (
	"bytes"
	"fmt"

	"github.com/roach88/ministore/internal/catalog"
	"github.com/roach88/ministore/internal/ir"
)

// Mismatch is one divergence between a recorded and a replayed outcome.
type Mismatch struct {
	Seq      int64         `json:"seq"`
	Action   ir.ActionType `json:"action"`
	Field    string        `json:"field"`
	Recorded string        `json:"recorded"`
	Replayed string        `json:"replayed"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("seq %d %s: %s recorded %s, replayed %s", m.Seq, m.Action, m.Field, m.Recorded, m.Replayed)
}

// ReplayReport summarizes a replay.
type ReplayReport struct {
	Session    string     `json:"session"`
	Actions    int        `json:"actions"`
	Mismatches []Mismatch `json:"mismatches"`
	Final      Snapshot   `json:"final"`
}

// OK reports whether every outcome matched.
func (r ReplayReport) OK() bool {
	return len(r.Mismatches) == 0
}

// Replay re-applies journaled actions, in the given order, to a fresh
// State over cat and compares each outcome with the recorded one. Entries
// must belong to one session and be sorted by seq.
//
// Completions are applied where they were journaled rather than after a
// delay, so replay is synchronous and deterministic.
func Replay(cat *catalog.Catalog, entries []ir.JournalEntry) ReplayReport {
	report := ReplayReport{Mismatches: []Mismatch{}}
	st := NewState()
	var lastSeq int64

	for _, entry := range entries {
		act := entry.Action
		report.Session = act.Session
		report.Actions++
		lastSeq = act.Seq

		mismatch := func(field, recorded, replayed string) {
			report.Mismatches = append(report.Mismatches, Mismatch{
				Seq:      act.Seq,
				Action:   act.Type,
				Field:    field,
				Recorded: recorded,
				Replayed: replayed,
			})
		}

		if id, err := ir.ActionID(act.Session, act.Type, act.Args, act.Seq); err != nil || id != act.ID {
			mismatch("action_id", act.ID, id)
		}

		tr := Reduce(cat, st, act.Type, act.Args)
		st = tr.State

		if entry.Outcome == nil {
			mismatch("outcome", "<missing>", tr.Case)
			continue
		}
		out := entry.Outcome
		lastSeq = out.Seq

		if out.Case != tr.Case {
			mismatch("case", out.Case, tr.Case)
		}
		recorded, _ := ir.MarshalCanonical(out.Result)
		replayed, _ := ir.MarshalCanonical(tr.Result)
		if !bytes.Equal(recorded, replayed) {
			mismatch("result", string(recorded), string(replayed))
		}
	}

	report.Final = renderPlain(cat, st)
	report.Final.Session = report.Session
	report.Final.Seq = lastSeq
	return report
}
