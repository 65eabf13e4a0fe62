package store

import (
	"context"
	"fmt"

	"github.com/roach88/ministore/internal/ir"
)

// WriteAction appends an action record to the journal.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate ids are silently ignored.
// Other constraint violations (e.g., NOT NULL) still return errors.
func (s *Store) WriteAction(ctx context.Context, act ir.Action) error {
	argsJSON, err := marshalObject(act.Args)
	if err != nil {
		return fmt.Errorf("write action: marshal args: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO actions
		(id, session, type, args, seq, engine_version, journal_version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		act.ID,
		act.Session,
		string(act.Type),
		argsJSON,
		act.Seq,
		act.EngineVersion,
		ir.JournalVersion,
	)
	if err != nil {
		return fmt.Errorf("write action: %w", err)
	}

	return nil
}

// WriteOutcome appends an outcome record to the journal.
// Each action has exactly one outcome; a second outcome for the same action
// is silently ignored, as is a duplicate outcome id.
//
// The action referenced by ActionID must already be journaled (foreign key).
func (s *Store) WriteOutcome(ctx context.Context, out ir.Outcome) error {
	resultJSON, err := marshalObject(out.Result)
	if err != nil {
		return fmt.Errorf("write outcome: marshal result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO outcomes
		(id, action_id, "case", result, seq)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		out.ID,
		out.ActionID,
		out.Case,
		resultJSON,
		out.Seq,
	)
	if err != nil {
		return fmt.Errorf("write outcome: %w", err)
	}

	return nil
}
