package registry

import (
	"strings"

	"github.com/vitalvas/deeplink/uritemplate"
)

// Entry pairs a template source string with an opaque handler
// reference returned to the caller on a successful match.
type Entry struct {
	Template string
	Handler  any
}

// binding is one registered template with its handler and
// registration order, used for declaration-order tie-breaks.
type binding struct {
	tpl     *uritemplate.Template
	handler any
	order   int
}

// node is one path-depth level of the trie. Literal edges are keyed
// by decoded segment value; the single param edge is structurally
// anonymous, parameter names bind only at extraction time. entries
// holds the templates terminating at this depth in registration
// order.
type node struct {
	literals map[string]*node
	param    *node
	entries  []*binding
}

func (n *node) literal(value string) *node {
	if n.literals == nil {
		n.literals = make(map[string]*node)
	}
	child, ok := n.literals[value]
	if !ok {
		child = &node{}
		n.literals[value] = child
	}
	return child
}

func (n *node) parameter() *node {
	if n.param == nil {
		n.param = &node{}
	}
	return n.param
}

// hostLevel is the second trie level: exact hosts plus an optional
// wildcard branch.
type hostLevel struct {
	hosts    map[string]*node
	wildcard *node
}

func (h *hostLevel) host(value string) *node {
	if value == uritemplate.Wildcard {
		if h.wildcard == nil {
			h.wildcard = &node{}
		}
		return h.wildcard
	}
	if h.hosts == nil {
		h.hosts = make(map[string]*node)
	}
	n, ok := h.hosts[value]
	if !ok {
		n = &node{}
		h.hosts[value] = n
	}
	return n
}

// Registry is an immutable set of registered templates organized for
// matching. Build it with New; it must not be modified afterwards.
type Registry struct {
	schemes  map[string]*hostLevel
	wildcard *hostLevel
	bindings []*binding
}

// New parses and registers the given entries, returning the built
// Registry. It fails fast on the first malformed template with a
// *uritemplate.SyntaxError; no partial registry is returned on error,
// so a broken entry poisons its whole batch.
func New(entries ...Entry) (*Registry, error) {
	r := &Registry{
		schemes:  make(map[string]*hostLevel),
		bindings: make([]*binding, 0, len(entries)),
	}

	for i, e := range entries {
		tpl, err := uritemplate.Parse(e.Template)
		if err != nil {
			return nil, err
		}
		b := &binding{tpl: tpl, handler: e.Handler, order: i}
		r.insert(b)
		r.bindings = append(r.bindings, b)
	}

	return r, nil
}

func (r *Registry) insert(b *binding) {
	var level *hostLevel
	if b.tpl.Scheme == uritemplate.Wildcard {
		if r.wildcard == nil {
			r.wildcard = &hostLevel{}
		}
		level = r.wildcard
	} else {
		level = r.schemes[b.tpl.Scheme]
		if level == nil {
			level = &hostLevel{}
			r.schemes[b.tpl.Scheme] = level
		}
	}

	n := level.host(b.tpl.Host)
	for _, seg := range b.tpl.Segments {
		if seg.Kind == uritemplate.SegmentLiteral {
			n = n.literal(seg.Value)
		} else {
			n = n.parameter()
		}
	}
	n.entries = append(n.entries, b)
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	return len(r.bindings)
}

// Templates returns the registered templates in registration order.
func (r *Registry) Templates() []*uritemplate.Template {
	tpls := make([]*uritemplate.Template, len(r.bindings))
	for i, b := range r.bindings {
		tpls[i] = b.tpl
	}
	return tpls
}

// Ambiguity reports two registrations with identical scheme, host,
// and path shape. Matching resolves such pairs deterministically to
// First (the earlier registration); the diagnostic lets callers warn
// or abort at startup.
type Ambiguity struct {
	First  string
	Second string
}

// Ambiguities returns every registration that shadows an earlier,
// structurally identical one, in registration order.
func (r *Registry) Ambiguities() []Ambiguity {
	var out []Ambiguity
	first := make(map[string]*binding, len(r.bindings))
	for _, b := range r.bindings {
		key := shapeKey(b.tpl)
		if prev, ok := first[key]; ok {
			out = append(out, Ambiguity{First: prev.tpl.String(), Second: b.tpl.String()})
			continue
		}
		first[key] = b
	}
	return out
}

// shapeKey builds a signature of a template's scheme, host, and path
// shape. Parameter segments collapse to one token regardless of name:
// two templates differing only in parameter names occupy the same
// trie node.
func shapeKey(tpl *uritemplate.Template) string {
	var b strings.Builder
	b.WriteString(tpl.Scheme)
	b.WriteByte('\x00')
	b.WriteString(tpl.Host)
	for _, seg := range tpl.Segments {
		b.WriteByte('\x00')
		if seg.Kind == uritemplate.SegmentParam {
			b.WriteByte('{')
		} else {
			b.WriteString(seg.Value)
		}
	}
	return b.String()
}
