// Package engine implements the ministore storefront controller.
//
// # Architecture
//
// Single-writer event loop: one goroutine (Run) owns the application State
// and applies user actions one at a time, in arrival order. Each action is
// passed to Reduce, a pure function from (State, action) to the next State
// and an outcome. The engine then:
//
//  1. stamps the action and outcome with logical seq numbers from Clock
//  2. writes both to the session Journal (if configured)
//  3. commits the new State and publishes a Snapshot of observable outputs
//
// Submitting a valid checkout form moves the submission to Processing and
// arms a single-shot timer. When it fires, the timer goroutine enqueues a
// completion event; the loop applies it as ActionCheckoutCompleted, which
// clears the cart, resets the form, and sets the success status. Further
// submissions are rejected while Processing.
//
// Derived values (filtered products, cart total, navigation) are recomputed
// from State on publish. Filtering is memoized on (query, category).
//
// # Replay
//
// Because Reduce is pure and seq numbers are logical, a journaled session
// can be re-applied to a fresh State and must yield the same outcomes.
// See Replay.
package engine
