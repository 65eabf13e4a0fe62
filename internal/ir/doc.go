// Package ir provides the canonical record types for ministore sessions.
//
// Every user action dispatched to the storefront engine, and the outcome it
// produced, is described by the types in this package. ir imports nothing
// internal so that the engine, store, and harness can all depend on it.
//
// Key constraints:
//   - NO float types anywhere; prices travel as decimal strings
//   - All JSON tags use snake_case
//   - Logical clocks (seq) only, never wall-clock timestamps
package ir
