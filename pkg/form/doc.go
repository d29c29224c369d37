// Package form implements the REA record store: field edits, derived
// enablement and visibility, the export projection, save validation and the
// CSV/JSON serializations.
//
// A Store models a single logical thread of control and is not safe for
// concurrent use; callers that share one across goroutines must serialize
// access themselves.
package form
