package engine

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/ministore/internal/catalog"
	"github.com/roach88/ministore/internal/ir"
	"github.com/roach88/ministore/internal/testutil"
)

func newManualTimer() *testutil.ManualTimer {
	return testutil.NewManualTimer()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memJournal is an in-memory Journal.
type memJournal struct {
	mu      sync.Mutex
	entries []ir.JournalEntry
	failOn  ir.ActionType
}

func (j *memJournal) WriteAction(_ context.Context, a ir.Action) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if a.Type == j.failOn {
		return errJournalDown
	}
	j.entries = append(j.entries, ir.JournalEntry{Action: a})
	return nil
}

func (j *memJournal) WriteOutcome(_ context.Context, o ir.Outcome) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := range j.entries {
		if j.entries[i].Action.ID == o.ActionID {
			out := o
			j.entries[i].Outcome = &out
			return nil
		}
	}
	return errJournalDown
}

func (j *memJournal) setFailOn(typ ir.ActionType) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.failOn = typ
}

func (j *memJournal) Entries() []ir.JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]ir.JournalEntry(nil), j.entries...)
}

type journalError string

func (e journalError) Error() string { return string(e) }

const errJournalDown = journalError("journal unavailable")

// startEngine runs an engine over the default catalog until the test ends.
func startEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	base := []Option{
		WithLogger(discardLogger()),
		WithSessionGenerator(NewFixedGenerator("test-session")),
	}
	e := New(catalog.Default(), append(base, opts...)...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = e.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return e
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func dispatch(t *testing.T, e *Engine, typ ir.ActionType, args ir.IRObject) Result {
	t.Helper()
	res, err := e.Dispatch(testContext(t), typ, args)
	require.NoError(t, err)
	return res
}

func fillValidForm(t *testing.T, e *Engine) {
	t.Helper()
	for field, value := range map[string]string{
		"name":    "Ada Lovelace",
		"email":   "ada@example.com",
		"address": "12 St James's Square",
		"city":    "London",
		"zip":     "12345",
	} {
		dispatch(t, e, ir.ActionFieldChanged, ir.IRObject{
			"field": ir.IRString(field),
			"value": ir.IRString(value),
		})
	}
}

func add(id string) ir.IRObject {
	return ir.IRObject{"product_id": ir.IRString(id)}
}
