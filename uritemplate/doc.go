// Package uritemplate parses URI templates used for deep-link routing.
//
// A template describes the shape of a URI per RFC 3986: a scheme, a
// host, an ordered list of path segments, and an optional declaration
// of expected query parameter names. Path segments are either literal
// text or named parameters enclosed in curly braces:
//
//	myapp://gallery/photos/{photo_id}
//	https://example.com/users/{user_id}/albums/{album_id}
//	*://example.com/settings?tab&{section}
//
// # Grammar
//
//	template   = scheme "://" host [ "/" path ] [ "?" query-decl ]
//	scheme     = 1*ALPHA / "*"
//	host       = reg-name / "*"
//	path       = segment *( "/" segment )
//	segment    = literal / "{" name "}"
//	query-decl = decl *( "&" decl )
//	decl       = name / "{" name "}" / name "=" "{" name "}"
//	name       = 1*( ALPHA / DIGIT / "_" )
//
// "*" is a wildcard sentinel matching any scheme or any host. The
// parser is strict: a path segment containing a curly brace must be
// exactly the {name} form, parameter names must be unique within a
// template, and empty segments (from a doubled separator) are
// rejected. All violations are reported as a *SyntaxError naming the
// offending template, so broken templates fail at registration time
// rather than at match time.
//
// The query declaration is informational: it records which query keys
// the handler expects, but matching tolerates undeclared keys.
//
// # Host normalization
//
// Hosts are lowercased per RFC 3986 Section 3.2.2 and mapped to their
// ASCII (punycode) form per RFC 5891 via IDNA lookup, so a template
// registered with an internationalized hostname matches the encoded
// form found in incoming URIs, and vice versa.
//
// # Expansion
//
// Expand performs the reverse operation, substituting parameter
// values into the template to build a concrete URI:
//
//	tpl, _ := uritemplate.Parse("myapp://gallery/photos/{photo_id}")
//	uri, _ := tpl.Expand(map[string]string{"photo_id": "42"})
//	// myapp://gallery/photos/42
package uritemplate
