package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/ministore/internal/catalog"
	"github.com/roach88/ministore/internal/checkout"
	"github.com/roach88/ministore/internal/engine"
	"github.com/roach88/ministore/internal/ir"
	"github.com/roach88/ministore/internal/store"
	"github.com/roach88/ministore/internal/testutil"
)

// Harness is the scenario execution engine.
// It drives a real storefront engine with a fixed session token, a manual
// submission timer, and a fresh in-memory journal.
type Harness struct {
	engine  *engine.Engine
	store   *store.Store
	timer   *testutil.ManualTimer
	session string
	logger  *slog.Logger
}

// Run executes a test scenario and returns the result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory journal for isolation.
//
// Execution flow:
// 1. Load the catalog and open the journal
// 2. Start the engine with deterministic session and timer
// 3. Execute steps, validating expect clauses
// 4. Read the trace back from the journal
// 5. Evaluate assertions against the trace and final snapshot
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	cat := catalog.Default()
	if scenario.Catalog != "" {
		loaded, err := catalog.Load(scenario.Catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		cat = loaded
	}

	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	session := scenario.Session
	if session == "" {
		session = DefaultSession
	}

	h := &Harness{
		store:   st,
		timer:   testutil.NewManualTimer(),
		session: session,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	h.engine = engine.New(cat,
		engine.WithJournal(st),
		engine.WithSessionGenerator(testutil.NewFixedSession(session)),
		engine.WithTimer(h.timer.After),
		engine.WithLogger(h.logger),
	)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.engine.Run(runCtx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	result := NewResult()
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, err
	}

	entries, err := st.ReadSession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	result.addJournal(entries)
	result.Final = h.engine.Snapshot()

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeSteps applies each step and validates its expect clause.
// Rejections are outcomes, not errors; only engine or journal failures
// abort the run.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		if step.Await != "" {
			if err := h.awaitCheckout(ctx); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			continue
		}

		args, err := convertArgsToIRObject(step.Args)
		if err != nil {
			return fmt.Errorf("step %d: failed to convert args: %w", i, err)
		}

		res, err := h.engine.Dispatch(ctx, ir.ActionType(step.Action), args)
		if err != nil && !engine.IsActionError(err) {
			return fmt.Errorf("step %d: %s: %w", i, step.Action, err)
		}

		if step.Expect != nil {
			if msg := checkExpect(step.Expect, res.Outcome); msg != "" {
				result.AddError(fmt.Sprintf("step %d (%s): %s", i, step.Action, msg))
			}
		}

		h.logger.Info("step completed",
			"step", i,
			"action", step.Action,
			"action_id", res.Action.ID,
			"case", res.Outcome.Case,
		)
	}
	return nil
}

// awaitCheckout releases the submission delay, if one is running, and
// waits for the engine to go idle.
func (h *Harness) awaitCheckout(ctx context.Context) error {
	if h.engine.Snapshot().Phase == checkout.Processing {
		h.timer.Fire()
	}
	if _, err := h.engine.AwaitIdle(ctx); err != nil {
		if errors.Is(err, engine.ErrEngineStopped) {
			return fmt.Errorf("await checkout: engine stopped")
		}
		return fmt.Errorf("await checkout: %w", err)
	}
	return nil
}

// checkExpect compares an outcome with an expect clause and describes the
// first difference.
func checkExpect(expect *ExpectClause, out ir.Outcome) string {
	if out.Case != expect.Case {
		return fmt.Sprintf("expected case %s, got %s (result %v)", expect.Case, out.Case, out.Result)
	}
	if len(expect.Result) == 0 {
		return ""
	}
	want, err := convertArgsToIRObject(expect.Result)
	if err != nil {
		return fmt.Sprintf("invalid expected result: %v", err)
	}
	if !matchArgs(out.Result, want) {
		return fmt.Sprintf("expected result ⊇ %v, got %v", want, out.Result)
	}
	return ""
}

// convertArgsToIRObject converts YAML-parsed values to an ir.IRObject.
// Nulls and floats are rejected.
func convertArgsToIRObject(args map[string]interface{}) (ir.IRObject, error) {
	if args == nil {
		return ir.IRObject{}, nil
	}

	result := make(ir.IRObject, len(args))
	for key, val := range args {
		irVal, err := ir.FromGo(val)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		result[key] = irVal
	}
	return result, nil
}
