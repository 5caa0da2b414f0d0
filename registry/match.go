package registry

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/vitalvas/deeplink/uritemplate"
)

// ErrNotFound is returned by Match when no registered template
// applies to the URI. It is a first-class outcome, not a failure;
// check it with errors.Is and branch to a fallback route.
var ErrNotFound = errors.New("no matching template")

// URIError reports an incoming URI that could not be decomposed into
// scheme, host, path, and query, for example because of invalid
// percent-encoding (RFC 3986 Section 2.1).
type URIError struct {
	URI string
	Err error
}

func (e *URIError) Error() string {
	return fmt.Sprintf("registry: parse uri %q: %v", e.URI, e.Err)
}

func (e *URIError) Unwrap() error {
	return e.Err
}

// Match holds the outcome of a successful match.
type Match struct {
	// Handler is the opaque handler reference from the matched Entry.
	Handler any

	// Template is the template that matched.
	Template *uritemplate.Template

	// Params maps parameter names to percent-decoded values: path
	// parameters plus query key/value pairs. A query key colliding
	// with a path parameter name never overrides the path value.
	Params map[string]string
}

// Match resolves a URI against the registry. It returns the single
// best match per the precedence rules (exact over wildcard, literal
// over parameter, first-registered among structural ties), an error
// wrapping ErrNotFound when nothing applies, or a *URIError when the
// URI cannot be parsed at all. Match never returns partial results.
//
// Match is a read-only traversal and is safe for concurrent use.
func (r *Registry) Match(uri string) (*Match, error) {
	in, err := parseURI(uri)
	if err != nil {
		return nil, &URIError{URI: uri, Err: err}
	}

	// Exact scheme before wildcard scheme; within each, exact host
	// before wildcard host. Backtracks across levels the same way
	// path descent backtracks from literal to parameter edges.
	for _, level := range []*hostLevel{r.schemes[in.scheme], r.wildcard} {
		if level == nil {
			continue
		}
		if b := descend(level.hosts[in.host], in.segments); b != nil {
			return newMatch(b, in), nil
		}
		if b := descend(level.wildcard, in.segments); b != nil {
			return newMatch(b, in), nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, uri)
}

// descend walks the path trie. Literal edges are tried first; if the
// literal branch has no terminal match for the remaining segments,
// the parameter edge at the same depth is retried before the whole
// branch fails. Parameter edges never consume an empty segment.
func descend(n *node, segments []string) *binding {
	if n == nil {
		return nil
	}
	if len(segments) == 0 {
		if len(n.entries) > 0 {
			return n.entries[0]
		}
		return nil
	}

	seg := segments[0]
	if child, ok := n.literals[seg]; ok {
		if b := descend(child, segments[1:]); b != nil {
			return b
		}
	}
	if seg != "" && n.param != nil {
		if b := descend(n.param, segments[1:]); b != nil {
			return b
		}
	}
	return nil
}

// newMatch binds the winning template's parameter segments to the
// decoded incoming segments by position, then merges query pairs.
// Path parameters are written first, so the existence check gives
// them precedence over colliding query keys.
func newMatch(b *binding, in *parsedURI) *Match {
	params := make(map[string]string, len(in.query)+len(b.tpl.Segments))
	for i, seg := range b.tpl.Segments {
		if seg.Kind == uritemplate.SegmentParam {
			params[seg.Value] = in.segments[i]
		}
	}
	for key, value := range in.query {
		if _, taken := params[key]; !taken {
			params[key] = value
		}
	}
	return &Match{Handler: b.handler, Template: b.tpl, Params: params}
}

// parsedURI is an incoming URI decomposed for matching: lowercased
// scheme, normalized host, per-segment decoded path, and a decoded
// query map with last-value-wins duplicate handling.
type parsedURI struct {
	scheme   string
	host     string
	segments []string
	query    map[string]string
}

func parseURI(raw string) (*parsedURI, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		return nil, errors.New("missing scheme")
	}
	if u.Opaque != "" {
		return nil, errors.New("uri is not hierarchical")
	}
	if u.Host == "" {
		return nil, errors.New("missing host")
	}

	in := &parsedURI{
		scheme: strings.ToLower(u.Scheme),
		host:   uritemplate.NormalizeHost(u.Host),
	}

	// Split the escaped path so an encoded slash (%2F) stays inside
	// its segment, then decode each segment independently.
	escaped := strings.TrimPrefix(u.EscapedPath(), "/")
	if escaped != "" {
		parts := strings.Split(escaped, "/")
		if parts[len(parts)-1] == "" {
			parts = parts[:len(parts)-1]
		}
		in.segments = make([]string, len(parts))
		for i, part := range parts {
			decoded, err := url.PathUnescape(part)
			if err != nil {
				return nil, err
			}
			in.segments[i] = decoded
		}
	}

	if u.RawQuery != "" {
		values, err := url.ParseQuery(u.RawQuery)
		if err != nil {
			return nil, err
		}
		in.query = make(map[string]string, len(values))
		for key, vals := range values {
			if len(vals) > 0 {
				// Last value wins on duplicate keys.
				in.query[key] = vals[len(vals)-1]
			}
		}
	}

	return in, nil
}
