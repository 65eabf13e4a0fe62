package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/ministore/internal/ir"
)

// ReadSession returns the journal of one session: every action with its
// outcome, if one was recorded. Results are ordered deterministically:
// ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the session has no records.
func (s *Store) ReadSession(ctx context.Context, session string) ([]ir.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.session, a.type, a.args, a.seq, a.engine_version,
		       o.id, o."case", o.result, o.seq
		FROM actions a
		LEFT JOIN outcomes o ON o.action_id = a.id
		WHERE a.session = ?
		ORDER BY a.seq ASC, a.id COLLATE BINARY ASC
	`, session)
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	defer rows.Close()

	entries := []ir.JournalEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session: %w", err)
	}

	return entries, nil
}

// ReadAction retrieves a single action by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadAction(ctx context.Context, id string) (ir.Action, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session, type, args, seq, engine_version
		FROM actions
		WHERE id = ?
	`, id)

	var act ir.Action
	var typ, argsJSON string
	if err := row.Scan(&act.ID, &act.Session, &typ, &argsJSON, &act.Seq, &act.EngineVersion); err != nil {
		return ir.Action{}, err
	}
	act.Type = ir.ActionType(typ)

	args, err := unmarshalObject(argsJSON)
	if err != nil {
		return ir.Action{}, fmt.Errorf("read action %s: %w", id, err)
	}
	act.Args = args
	return act, nil
}

// ReadOutcomeFor retrieves the outcome recorded for an action.
// Returns sql.ErrNoRows if the action has no outcome.
func (s *Store) ReadOutcomeFor(ctx context.Context, actionID string) (ir.Outcome, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, action_id, "case", result, seq
		FROM outcomes
		WHERE action_id = ?
	`, actionID)

	var out ir.Outcome
	var resultJSON string
	if err := row.Scan(&out.ID, &out.ActionID, &out.Case, &resultJSON, &out.Seq); err != nil {
		return ir.Outcome{}, err
	}

	result, err := unmarshalObject(resultJSON)
	if err != nil {
		return ir.Outcome{}, fmt.Errorf("read outcome for %s: %w", actionID, err)
	}
	out.Result = result
	return out, nil
}

// scanEntry scans a joined action/outcome row. The outcome columns are
// NULL when the action has no outcome.
func scanEntry(rows *sql.Rows) (ir.JournalEntry, error) {
	var act ir.Action
	var typ, argsJSON string
	var outID, outCase, outResult sql.NullString
	var outSeq sql.NullInt64

	if err := rows.Scan(
		&act.ID, &act.Session, &typ, &argsJSON, &act.Seq, &act.EngineVersion,
		&outID, &outCase, &outResult, &outSeq,
	); err != nil {
		return ir.JournalEntry{}, fmt.Errorf("scan entry: %w", err)
	}
	act.Type = ir.ActionType(typ)

	args, err := unmarshalObject(argsJSON)
	if err != nil {
		return ir.JournalEntry{}, fmt.Errorf("scan entry %s: %w", act.ID, err)
	}
	act.Args = args

	entry := ir.JournalEntry{Action: act}
	if !outID.Valid {
		return entry, nil
	}

	result, err := unmarshalObject(outResult.String)
	if err != nil {
		return ir.JournalEntry{}, fmt.Errorf("scan entry %s: %w", act.ID, err)
	}
	entry.Outcome = &ir.Outcome{
		ID:       outID.String,
		ActionID: act.ID,
		Case:     outCase.String,
		Result:   result,
		Seq:      outSeq.Int64,
	}
	return entry, nil
}
