package engine

import (
	"sync"

	"github.com/roach88/ministore/internal/ir"
)

// EventType distinguishes between event kinds.
type EventType int

const (
	// EventTypeAction is a caller-dispatched user action.
	EventTypeAction EventType = iota + 1
	// EventTypeCompletion is raised when the submission delay elapses.
	EventTypeCompletion
	// EventTypeAwait asks for a snapshot once no submission is in flight.
	EventTypeAwait
)

// Event is one unit of work for the Run loop.
type Event struct {
	Type  EventType
	Kind  ir.ActionType
	Args  ir.IRObject
	reply chan<- dispatchReply
	await chan<- awaitReply
}

type dispatchReply struct {
	result Result
	err    error
}

type awaitReply struct {
	snapshot Snapshot
	err      error
}

// eventQueue is a thread-safe FIFO queue for events.
//
// Callers and the submission timer enqueue from their own goroutines; the
// Run loop is the only consumer. The signal channel lets Run wait on the
// queue and a context at the same time.
type eventQueue struct {
	mu     sync.Mutex
	events []Event
	closed bool
	signal chan struct{} // buffered, size 1
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]Event, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds an event to the back of the queue.
// Returns false if the queue is closed.
func (q *eventQueue) Enqueue(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.events = append(q.events, e)

	// Non-blocking: the size-1 buffer coalesces signals.
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue removes the front event without blocking.
func (q *eventQueue) TryDequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return Event{}, false
	}

	e := q.events[0]
	q.events[0] = Event{} // release reply channels and args
	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}

	return e, true
}

// Wait returns a channel that signals when events may be available.
// It is closed when the queue is closed.
func (q *eventQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Closed reports whether Close has been called.
func (q *eventQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close stops further enqueues and wakes the consumer.
func (q *eventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
