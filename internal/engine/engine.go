package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/roach88/ministore/internal/catalog"
	"github.com/roach88/ministore/internal/ir"
)

// DefaultSubmitDelay is the simulated order submission latency.
const DefaultSubmitDelay = 2 * time.Second

// Journal records every applied action and its outcome.
// Implemented by store.Store.
type Journal interface {
	WriteAction(ctx context.Context, a ir.Action) error
	WriteOutcome(ctx context.Context, o ir.Outcome) error
}

// Result describes one processed action.
type Result struct {
	Action   ir.Action
	Outcome  ir.Outcome
	Snapshot Snapshot
}

// Engine is the single-writer storefront controller.
//
// All state transitions happen in the Run goroutine. Callers submit user
// actions through Dispatch and read the latest observable outputs through
// Snapshot; both are safe from any goroutine.
//
// The only suspension point is the submission delay. It runs on a timer
// goroutine that enqueues a completion event; the Run loop applies it like
// any other action.
type Engine struct {
	catalog     *catalog.Catalog
	view        *catalog.View // Run goroutine only
	journal     Journal
	clock       *Clock
	session     string
	queue       *eventQueue
	logger      *slog.Logger
	submitDelay time.Duration
	after       func(time.Duration) <-chan time.Time

	state         State               // Run goroutine only
	waiters       []chan<- awaitReply // Run goroutine only
	completionErr error               // Run goroutine only
	snapshot      atomic.Pointer[Snapshot]
}

// Option configures an Engine.
type Option func(*Engine)

// WithJournal records actions and outcomes to j.
func WithJournal(j Journal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithSessionGenerator sets the session token source.
// Default: UUIDv7Generator.
func WithSessionGenerator(g SessionGenerator) Option {
	return func(e *Engine) {
		e.session = g.Generate()
	}
}

// WithSubmitDelay sets the simulated submission latency.
// Default: DefaultSubmitDelay.
func WithSubmitDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.submitDelay = d
	}
}

// WithTimer replaces time.After for the submission delay.
// Tests use it to release the delay by hand.
func WithTimer(after func(time.Duration) <-chan time.Time) Option {
	return func(e *Engine) {
		e.after = after
	}
}

// WithClock sets the logical clock.
// Used to resume seq numbering after journaled history.
func WithClock(c *Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithHistory rebuilds the session state from journaled entries, oldest
// first, so a session resumes where it left off. Pair it with WithClock
// so new seq numbers follow the history.
func WithHistory(entries []ir.JournalEntry) Option {
	return func(e *Engine) {
		for _, entry := range entries {
			e.state = Reduce(e.catalog, e.state, entry.Action.Type, entry.Action.Args).State
		}
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine over cat in the initial session state.
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:     cat,
		view:        catalog.NewView(cat),
		clock:       NewClock(),
		queue:       newEventQueue(),
		logger:      slog.Default(),
		submitDelay: DefaultSubmitDelay,
		after:       time.After,
		state:       NewState(),
	}

	for _, opt := range opts {
		opt(e)
	}
	if e.session == "" {
		e.session = UUIDv7Generator{}.Generate()
	}

	e.publish()
	return e
}

// Session returns the session token.
func (e *Engine) Session() string {
	return e.session
}

// Catalog returns the catalog the engine serves.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Snapshot returns the most recently published observable outputs.
func (e *Engine) Snapshot() Snapshot {
	return *e.snapshot.Load()
}

// Dispatch submits a user action and waits for it to be applied.
//
// A rejected action returns its journaled Result together with an
// *ActionError. Action types callers may not dispatch are refused with
// ErrCodeUnknownAction before reaching the journal.
func (e *Engine) Dispatch(ctx context.Context, typ ir.ActionType, args ir.IRObject) (Result, error) {
	if !ir.IsUserAction(typ) {
		return Result{Snapshot: e.Snapshot()}, reject(typ, ErrCodeUnknownAction, "unknown action type %q", typ)
	}
	if args == nil {
		args = ir.IRObject{}
	}

	reply := make(chan dispatchReply, 1)
	if !e.queue.Enqueue(Event{Type: EventTypeAction, Kind: typ, Args: args, reply: reply}) {
		return Result{}, ErrEngineStopped
	}

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case r := <-reply:
		return r.result, r.err
	}
}

// AwaitIdle waits until no submission is in flight and returns the
// snapshot at that point. If journaling the completion failed, it returns
// an error wrapping ErrCompletionFailed while the retry is pending.
func (e *Engine) AwaitIdle(ctx context.Context) (Snapshot, error) {
	ch := make(chan awaitReply, 1)
	if !e.queue.Enqueue(Event{Type: EventTypeAwait, await: ch}) {
		return Snapshot{}, ErrEngineStopped
	}

	select {
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case r, ok := <-ch:
		if !ok {
			return Snapshot{}, ErrEngineStopped
		}
		return r.snapshot, r.err
	}
}

// Run starts the single-writer event loop.
// Blocks until ctx is cancelled or Stop is called.
//
// Cancelling ctx while a submission is in flight abandons it: the
// completion is never applied. A session resumed with a submission in
// flight restarts the delay.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Debug("engine starting", "session", e.session)
	defer e.drain()

	if e.state.Submission.Processing() {
		e.logger.Info("order submission resumed", "session", e.session, "delay", e.submitDelay)
		e.startDelay(ctx)
	}

	for {
		event, ok := e.queue.TryDequeue()
		if ok {
			e.processEvent(ctx, event)
			continue
		}

		select {
		case <-ctx.Done():
			e.logger.Debug("engine stopping: context cancelled", "session", e.session)
			e.queue.Close()
			return ctx.Err()

		case <-e.queue.Wait():
			// A signal can outlive the event that raised it, so an empty
			// queue alone does not mean the loop is done.
			if e.queue.Closed() && e.queue.Len() == 0 {
				e.logger.Debug("engine stopping: queue closed", "session", e.session)
				return nil
			}
		}
	}
}

// Stop closes the event queue, which makes Run return.
func (e *Engine) Stop() {
	e.queue.Close()
}

func (e *Engine) processEvent(ctx context.Context, event Event) {
	switch event.Type {
	case EventTypeAction:
		result, err := e.apply(ctx, event.Kind, event.Args)
		event.reply <- dispatchReply{result: result, err: err}

	case EventTypeCompletion:
		_, err := e.apply(ctx, ir.ActionCheckoutCompleted, ir.IRObject{})
		if err != nil && !IsActionError(err) {
			// The order stays in flight; the delay is re-armed and the
			// completion retried.
			e.logger.Error("checkout completion failed", "session", e.session, "error", err)
			e.completionErr = fmt.Errorf("%w: %w", ErrCompletionFailed, err)
			e.failWaiters(e.completionErr)
			e.startDelay(ctx)
			return
		}
		e.completionErr = nil
		e.flushWaiters()

	case EventTypeAwait:
		switch {
		case e.completionErr != nil:
			event.await <- awaitReply{snapshot: e.Snapshot(), err: e.completionErr}
		case e.state.Submission.Processing():
			e.waiters = append(e.waiters, event.await)
		default:
			event.await <- awaitReply{snapshot: e.Snapshot()}
		}
	}
}

// apply runs one action through Reduce, journals it, and commits the new
// state. A journal failure leaves the state unchanged.
func (e *Engine) apply(ctx context.Context, typ ir.ActionType, args ir.IRObject) (Result, error) {
	act := ir.Action{
		Session:       e.session,
		Type:          typ,
		Args:          args,
		Seq:           e.clock.Next(),
		EngineVersion: ir.EngineVersion,
	}
	id, err := ir.ActionID(act.Session, act.Type, act.Args, act.Seq)
	if err != nil {
		return Result{}, fmt.Errorf("action id: %w", err)
	}
	act.ID = id

	tr := Reduce(e.catalog, e.state, typ, args)

	out := ir.Outcome{
		ActionID: act.ID,
		Case:     tr.Case,
		Result:   tr.Result,
		Seq:      e.clock.Next(),
	}
	out.ID, err = ir.OutcomeID(out.ActionID, out.Case, out.Result, out.Seq)
	if err != nil {
		return Result{}, fmt.Errorf("outcome id: %w", err)
	}

	if e.journal != nil {
		if err := e.writeJournal(ctx, act, out); err != nil {
			e.logger.Error("journal write failed",
				"session", e.session,
				"action", typ,
				"seq", act.Seq,
				"error", err,
			)
			return Result{}, err
		}
	}

	e.state = tr.State
	snap := e.publish()
	result := Result{Action: act, Outcome: out, Snapshot: snap}

	if tr.Err != nil {
		e.logger.Warn("action rejected",
			"session", e.session,
			"action", typ,
			"seq", act.Seq,
			"code", tr.Err.Code,
			"message", tr.Err.Message,
		)
		return result, tr.Err
	}

	e.logger.Debug("action applied",
		"session", e.session,
		"action", typ,
		"seq", act.Seq,
		"case", out.Case,
	)

	switch {
	case tr.StartDelay:
		e.logger.Info("order submission started", "session", e.session, "delay", e.submitDelay)
		e.startDelay(ctx)
	case out.Case == ir.CaseOrderPlaced:
		e.logger.Info("order placed", "session", e.session)
	}

	return result, nil
}

func (e *Engine) writeJournal(ctx context.Context, act ir.Action, out ir.Outcome) error {
	if err := e.journal.WriteAction(ctx, act); err != nil {
		return fmt.Errorf("journal action %s: %w", act.ID, err)
	}
	if err := e.journal.WriteOutcome(ctx, out); err != nil {
		return fmt.Errorf("journal outcome %s: %w", out.ID, err)
	}
	return nil
}

// startDelay arms the single-shot submission timer.
func (e *Engine) startDelay(ctx context.Context) {
	timer := e.after(e.submitDelay)
	go func() {
		select {
		case <-timer:
			e.queue.Enqueue(Event{Type: EventTypeCompletion})
		case <-ctx.Done():
			e.logger.Warn("order submission abandoned", "session", e.session)
		}
	}()
}

// publish renders the current state and makes it visible to Snapshot.
func (e *Engine) publish() Snapshot {
	snap, dangling := Render(e.catalog, e.view.Filter, e.state)
	for _, id := range dangling {
		e.logger.Warn("cart line references unknown product", "session", e.session, "product_id", id)
	}
	snap.Session = e.session
	snap.Seq = e.clock.Current()
	e.snapshot.Store(&snap)
	return snap
}

func (e *Engine) flushWaiters() {
	if e.state.Submission.Processing() {
		return
	}
	snap := e.Snapshot()
	for _, w := range e.waiters {
		w <- awaitReply{snapshot: snap}
	}
	e.waiters = nil
}

func (e *Engine) failWaiters(err error) {
	snap := e.Snapshot()
	for _, w := range e.waiters {
		w <- awaitReply{snapshot: snap, err: err}
	}
	e.waiters = nil
}

// drain answers everything still queued once the loop has exited.
// The queue is already closed, so nothing new can arrive.
func (e *Engine) drain() {
	for {
		ev, ok := e.queue.TryDequeue()
		if !ok {
			break
		}
		switch ev.Type {
		case EventTypeAction:
			ev.reply <- dispatchReply{err: ErrEngineStopped}
		case EventTypeAwait:
			close(ev.await)
		}
	}
	for _, w := range e.waiters {
		close(w)
	}
	e.waiters = nil
}
