package uritemplate

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// Wildcard is the sentinel accepted in place of a literal scheme or
// host, matching any value for that component.
const Wildcard = "*"

// SegmentKind distinguishes literal path segments from named
// parameter placeholders.
type SegmentKind int

const (
	// SegmentLiteral is a path segment holding verbatim text.
	SegmentLiteral SegmentKind = iota
	// SegmentParam is a {name} placeholder capturing one segment.
	SegmentParam
)

// Segment is one /-delimited unit of a template path. Value holds the
// literal text for SegmentLiteral, or the parameter name for
// SegmentParam.
type Segment struct {
	Kind  SegmentKind
	Value string
}

// Template is the parsed form of a URI template. It is immutable
// once returned by Parse; callers must not modify the Segments or
// QueryParams slices.
type Template struct {
	// Scheme is the lowercased scheme, or Wildcard.
	Scheme string

	// Host is the normalized host (see NormalizeHost), or Wildcard.
	Host string

	// Segments are the path segments in order.
	Segments []Segment

	// QueryParams are the declared query parameter names, in
	// declaration order. Informational only.
	QueryParams []string

	raw string
}

// SyntaxError reports a malformed template. It identifies the
// template source so registration failures point at the offending
// entry.
type SyntaxError struct {
	Template string
	Reason   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("uritemplate: parse %q: %s", e.Template, e.Reason)
}

// Parse parses a template string into a Template. It returns a
// *SyntaxError for any grammar violation: missing scheme or host,
// empty path segments, braces outside the exact {name} form, empty,
// invalid, or duplicated parameter names.
func Parse(template string) (*Template, error) {
	rest, ok := cutScheme(template)
	if !ok {
		return nil, &SyntaxError{Template: template, Reason: `missing "://" scheme separator`}
	}
	scheme := strings.ToLower(template[:len(template)-len(rest)-3])
	if scheme != Wildcard && !isAlpha(scheme) {
		return nil, &SyntaxError{Template: template, Reason: fmt.Sprintf("invalid scheme %q", scheme)}
	}

	var decl string
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		decl = rest[i+1:]
		rest = rest[:i]
	}

	hostPart := rest
	var pathPart string
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		hostPart = rest[:i]
		pathPart = rest[i+1:]
	}

	host, err := parseHost(template, hostPart)
	if err != nil {
		return nil, err
	}

	segments, err := parseSegments(template, pathPart)
	if err != nil {
		return nil, err
	}

	queryParams, err := parseQueryDecl(template, decl)
	if err != nil {
		return nil, err
	}

	return &Template{
		Scheme:      scheme,
		Host:        host,
		Segments:    segments,
		QueryParams: queryParams,
		raw:         template,
	}, nil
}

// String returns the original template source string.
func (t *Template) String() string {
	return t.raw
}

// ParamNames returns the path parameter names in path order.
func (t *Template) ParamNames() []string {
	var names []string
	for _, s := range t.Segments {
		if s.Kind == SegmentParam {
			names = append(names, s.Value)
		}
	}
	return names
}

// Expand builds a concrete URI from the template and the given
// parameter values. Path parameter values are percent-escaped per
// RFC 3986 Section 2.1. Declared query parameters present in params
// are appended to the query string; undeclared keys are ignored.
// Expand fails on a wildcard scheme or host and on missing or empty
// parameter values.
func (t *Template) Expand(params map[string]string) (string, error) {
	if t.Scheme == Wildcard {
		return "", fmt.Errorf("uritemplate: cannot expand %q: wildcard scheme", t.raw)
	}
	if t.Host == Wildcard {
		return "", fmt.Errorf("uritemplate: cannot expand %q: wildcard host", t.raw)
	}

	var b strings.Builder
	b.WriteString(t.Scheme)
	b.WriteString("://")
	b.WriteString(t.Host)

	for _, s := range t.Segments {
		b.WriteByte('/')
		if s.Kind == SegmentLiteral {
			b.WriteString(url.PathEscape(s.Value))
			continue
		}
		v, ok := params[s.Value]
		if !ok || v == "" {
			return "", fmt.Errorf("uritemplate: expand %q: missing value for parameter %q", t.raw, s.Value)
		}
		b.WriteString(url.PathEscape(v))
	}

	sep := byte('?')
	for _, name := range t.QueryParams {
		v, ok := params[name]
		if !ok {
			continue
		}
		b.WriteByte(sep)
		sep = '&'
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}

	return b.String(), nil
}

// NormalizeHost lowercases a host per RFC 3986 Section 3.2.2, strips
// an optional port, and maps it to its ASCII form per RFC 5891 (IDNA
// lookup). Hosts that fail IDNA mapping are returned lowercased, so
// match-time comparison stays tolerant.
func NormalizeHost(host string) string {
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	host = strings.ToLower(host)
	if ascii, err := idna.Lookup.ToASCII(host); err == nil && ascii != "" {
		return ascii
	}
	return host
}

// cutScheme splits template after the "://" separator, returning the
// remainder. A separator at position zero (empty scheme) is rejected.
func cutScheme(template string) (rest string, ok bool) {
	i := strings.Index(template, "://")
	if i <= 0 {
		return "", false
	}
	return template[i+3:], true
}

func parseHost(template, hostPart string) (string, error) {
	if hostPart == "" {
		return "", &SyntaxError{Template: template, Reason: "missing host"}
	}
	if hostPart == Wildcard {
		return Wildcard, nil
	}
	host := NormalizeHost(hostPart)
	if !isHost(host) {
		return "", &SyntaxError{Template: template, Reason: fmt.Sprintf("invalid host %q", hostPart)}
	}
	return host, nil
}

func parseSegments(template, pathPart string) ([]Segment, error) {
	if pathPart == "" {
		return nil, nil
	}

	parts := strings.Split(pathPart, "/")
	// Trailing-slash equivalence: a trailing empty segment is
	// normalized away (RFC 3986 Section 6.2.3 scheme-based
	// normalization in spirit).
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	segments := make([]Segment, 0, len(parts))
	seen := make(map[string]bool, len(parts))

	for _, part := range parts {
		switch {
		case part == "":
			return nil, &SyntaxError{Template: template, Reason: "empty path segment"}

		case isPlaceholder(part):
			name := part[1 : len(part)-1]
			if name == "" {
				return nil, &SyntaxError{Template: template, Reason: "empty parameter name"}
			}
			if !isName(name) {
				return nil, &SyntaxError{Template: template, Reason: fmt.Sprintf("invalid parameter name %q", name)}
			}
			if seen[name] {
				return nil, &SyntaxError{Template: template, Reason: fmt.Sprintf("duplicated parameter %q", name)}
			}
			seen[name] = true
			segments = append(segments, Segment{Kind: SegmentParam, Value: name})

		case strings.ContainsAny(part, "{}"):
			return nil, &SyntaxError{
				Template: template,
				Reason:   fmt.Sprintf("segment %q: braces are only valid in the {name} form", part),
			}

		default:
			// Literal segments are stored decoded so comparison
			// against decoded incoming segments is byte-exact.
			decoded, err := url.PathUnescape(part)
			if err != nil {
				return nil, &SyntaxError{Template: template, Reason: fmt.Sprintf("segment %q: %v", part, err)}
			}
			segments = append(segments, Segment{Kind: SegmentLiteral, Value: decoded})
		}
	}

	return segments, nil
}

func parseQueryDecl(template, decl string) ([]string, error) {
	if decl == "" {
		return nil, nil
	}

	items := strings.Split(decl, "&")
	names := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))

	for _, item := range items {
		if item == "" {
			return nil, &SyntaxError{Template: template, Reason: "empty query declaration"}
		}
		name := item
		if key, value, found := strings.Cut(item, "="); found {
			// The key={name} form declares the key; the value must
			// be a placeholder.
			if !isPlaceholder(value) {
				return nil, &SyntaxError{
					Template: template,
					Reason:   fmt.Sprintf("query declaration %q: value must be a {name} placeholder", item),
				}
			}
			name = key
		} else if isPlaceholder(item) {
			name = item[1 : len(item)-1]
		}
		if !isName(name) {
			return nil, &SyntaxError{Template: template, Reason: fmt.Sprintf("invalid query parameter name %q", name)}
		}
		if seen[name] {
			return nil, &SyntaxError{Template: template, Reason: fmt.Sprintf("duplicated query parameter %q", name)}
		}
		seen[name] = true
		names = append(names, name)
	}

	return names, nil
}

// isPlaceholder reports whether s has the {...} shape with no nested
// braces. The inner name may still be empty or invalid; callers
// validate it separately to report a precise reason.
func isPlaceholder(s string) bool {
	return len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' &&
		!strings.ContainsAny(s[1:len(s)-1], "{}")
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

// isName validates a parameter name: 1*(ALPHA / DIGIT / "_").
func isName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}

// isHost validates a normalized host: 1*(ALPHA / DIGIT / "." / "-").
func isHost(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '-':
		default:
			return false
		}
	}
	return true
}
