package store

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/roach88/ministore/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testAction builds an action with a real content-addressed id.
func testAction(session string, typ ir.ActionType, args ir.IRObject, seq int64) ir.Action {
	return ir.Action{
		ID:            ir.MustActionID(session, typ, args, seq),
		Session:       session,
		Type:          typ,
		Args:          args,
		Seq:           seq,
		EngineVersion: ir.EngineVersion,
	}
}

// testOutcome builds the outcome of act with a real content-addressed id.
func testOutcome(act ir.Action, outcomeCase string, result ir.IRObject) ir.Outcome {
	seq := act.Seq + 1
	return ir.Outcome{
		ID:       ir.MustOutcomeID(act.ID, outcomeCase, result, seq),
		ActionID: act.ID,
		Case:     outcomeCase,
		Result:   result,
		Seq:      seq,
	}
}

// verifyPragma checks that a pragma is set to the expected value.
func verifyPragma(s *Store, name, expected string) error {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
