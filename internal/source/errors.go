// Package source retrieves CVE records from the external CVE HTTP API.
//
// Each call issues exactly one GET request. Nothing is cached between calls
// and failures are never retried; callers decide how to surface them.
// Failures are classified with the sentinel errors below and can be matched
// with errors.Is:
//   - ErrFetch: transport failure, cancellation, or a non-2xx response
//   - ErrParse: the response body could not be decoded into records
//   - ErrNotFound: the single-record endpoint reported no such identifier
package source

import "errors"

// Error taxonomy for record retrieval.
var (
	ErrFetch    = errors.New("fetch failed")
	ErrParse    = errors.New("malformed response")
	ErrNotFound = errors.New("CVE not found")
)
