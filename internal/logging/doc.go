// Package logging builds the zerolog loggers used across cvefocus and carries
// request-scoped trace IDs through context.Context.
//
// A logger is constructed once per command from Config and stored in the
// command context with zerolog's WithContext. Packages retrieve it with
// FromContext and pass ctx to each event so the trace hook can attach the
// trace_id field.
package logging
