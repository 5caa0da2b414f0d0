// Package registry matches incoming URIs against a registered set of
// URI templates and extracts parameter values.
//
// A Registry is built once from (template, handler) pairs and is
// immutable afterwards, so Match may be called concurrently from any
// number of goroutines without locking:
//
//	reg, err := registry.New(
//	    registry.Entry{Template: "myapp://gallery/photos/{photo_id}", Handler: "gallery"},
//	    registry.Entry{Template: "myapp://settings/about", Handler: "about"},
//	)
//	if err != nil {
//	    // a *uritemplate.SyntaxError identifying the bad template
//	}
//
//	m, err := reg.Match("myapp://gallery/photos/42?from=push")
//	if err != nil {
//	    // errors.Is(err, registry.ErrNotFound) for a plain miss,
//	    // *registry.URIError for an undecodable URI
//	}
//	_ = m.Handler            // "gallery"
//	_ = m.Params["photo_id"] // "42"
//	_ = m.Params["from"]     // "push"
//
// # Precedence
//
// Templates are organized in a trie keyed by scheme, then host, then
// successive path segments. At every level the most specific edge
// wins: an exact scheme or host beats the "*" wildcard, and a literal
// path segment beats a {name} parameter. When a branch cannot
// complete the full path the matcher backtracks and retries the less
// specific edge, so a parameter match is still found when no literal
// alternative reaches a terminal node. Structurally identical
// templates resolve to the first one registered.
//
// # Parameters
//
// Path parameters and query key/value pairs merge into one map, both
// percent-decoded per RFC 3986 Section 2.1. A query key that collides
// with a path parameter name never overrides the path value, and a
// duplicated query key keeps its last value. Matching tolerates query
// keys the template did not declare.
//
// A URI that fails to match is not an error condition in the usual
// sense: ErrNotFound is a first-class outcome callers are expected to
// branch on, typically to a fallback route.
package registry
