package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/deeplink/registry"
)

// Handler identifies the destination of a matched route. It is the
// handler reference the registry hands back on a match; the caller's
// dispatch layer interprets it.
type Handler struct {
	// ID uniquely identifies the route: the manifest's explicit id,
	// or a UUIDv4 generated at load time.
	ID string

	// Name is the handler name from the manifest.
	Name string

	// Metadata carries free-form key/value annotations.
	Metadata map[string]string
}

// Route is one manifest entry.
type Route struct {
	Template string            `yaml:"template"`
	Handler  string            `yaml:"handler"`
	ID       string            `yaml:"id,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// File is a loaded, validated manifest. Every route has a non-empty
// ID after loading.
type File struct {
	Routes []Route `yaml:"routes"`
}

// Load reads a YAML manifest, validates it, and assigns generated ids
// to routes that declare none. Unknown YAML fields are rejected.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("manifest: empty document")
		}
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}

	ids := make(map[string]int, len(f.Routes))
	for i := range f.Routes {
		rt := &f.Routes[i]
		if rt.Template == "" {
			return nil, fmt.Errorf("manifest: route %d: missing template", i)
		}
		if rt.Handler == "" {
			return nil, fmt.Errorf("manifest: route %d (%q): missing handler", i, rt.Template)
		}
		if rt.ID == "" {
			rt.ID = uuid.New().String()
		}
		if prev, dup := ids[rt.ID]; dup {
			return nil, fmt.Errorf("manifest: route %d (%q): id %q already used by route %d", i, rt.Template, rt.ID, prev)
		}
		ids[rt.ID] = i
	}

	return &f, nil
}

// LoadFile loads a manifest from the file at path.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Entries converts the manifest routes to registry entries in
// declaration order, preserving the registry's first-registered-wins
// tie-break for routes listed earlier in the file.
func (f *File) Entries() []registry.Entry {
	entries := make([]registry.Entry, len(f.Routes))
	for i, rt := range f.Routes {
		entries[i] = registry.Entry{
			Template: rt.Template,
			Handler: Handler{
				ID:       rt.ID,
				Name:     rt.Handler,
				Metadata: rt.Metadata,
			},
		}
	}
	return entries
}

// Build loads a manifest and registers its routes, returning the
// ready registry. Template syntax errors surface as
// *uritemplate.SyntaxError naming the offending template.
func Build(r io.Reader) (*registry.Registry, error) {
	f, err := Load(r)
	if err != nil {
		return nil, err
	}
	return registry.New(f.Entries()...)
}

// BuildFile loads the manifest at path and registers its routes.
func BuildFile(path string) (*registry.Registry, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return registry.New(f.Entries()...)
}
