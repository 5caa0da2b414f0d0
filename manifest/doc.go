// Package manifest loads deep-link route registrations from a YAML
// document, for deployments that declare their routes in a
// configuration file rather than registering them in code.
//
// Manifest shape:
//
//	routes:
//	  - template: myapp://gallery/photos/{photo_id}
//	    handler: gallery
//	    id: 7d444840-9dc0-11d1-b245-5ffdce74fad2
//	    metadata:
//	      screen: gallery
//	  - template: myapp://settings/about
//	    handler: about
//
// Each route needs a template and a handler name. The id is optional;
// routes without one get a generated UUIDv4 (RFC 9562 Section 5.4) at
// load time. Unknown fields and duplicated explicit ids fail loading,
// and every error names the offending route, so a broken manifest is
// caught at startup rather than at match time.
//
// Build is the one-call path from a manifest to a ready registry:
//
//	reg, err := manifest.Build(file)
//	if err != nil {
//	    return err
//	}
//	m, err := reg.Match(uri)
//
// Matched routes surface as a Handler value in Match.Handler,
// carrying the id, handler name, and metadata for the caller's
// dispatch layer.
package manifest
