// Package pagination computes display windows over an in-memory record sequence.
//
// This package contains:
//   - State: the page index and page size over a fixed sequence, with the
//     Previous, Next and ChangePageSize transitions
//   - Menu: the fixed set of operator-selectable page sizes
//   - Meta: response metadata for paginated output
//   - Params: page flags as parsed from the command line or a query string
//
// State is a value. Transitions return a new State and never modify the
// receiver, so each controller owns its own copy and no locking is needed.
// Boundary conditions such as Next on the last page are no-ops, not errors.
package pagination
