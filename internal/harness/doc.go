// Package harness runs storefront scenarios as executable contract tests.
//
// A scenario applies a sequence of user actions to a fresh session and then
// checks the journaled trace and the final observable outputs.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: invalid_email
//	description: "A malformed email blocks the order"
//	catalog: ../catalogs/outdoor.cue   # optional; built-in catalog otherwise
//	session: email                     # optional fixed session token
//	steps:
//	  - action: add_to_cart
//	    args: { product_id: "2" }
//	  - action: field_changed
//	    args: { field: email, value: "a@b" }
//	  - action: submit_checkout
//	    expect:
//	      case: ValidationFailed
//	  - await: checkout                # release the submission delay
//	assertions:
//	  - type: errors
//	    errors: { email: "Email is invalid." }
//	  - type: cart_total
//	    total: "$149.99"
//
// # Assertion Types
//
// Trace assertions:
//
//   - trace_contains: an action appears with matching args (subset match)
//   - trace_order: actions appear in the given order
//   - trace_count: an action appears exactly N times
//
// State assertions, checked against the final snapshot:
//
//   - view, products, cart_lines, cart_total, errors, status, form
//
// # Deterministic Testing
//
// Every scenario gets its own in-memory SQLite journal, a fixed session
// token, and a manual submission timer. The trace is read back from the
// journal, so seq numbers and content-addressed ids are reproducible and
// the trace can be compared against golden files with goldie.
package harness
