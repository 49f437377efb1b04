package compose

import (
	"bytes"
	"errors"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultIndent is the YAML indentation used by Marshal.
const DefaultIndent = 4

// =============================================================================
// Compose File
// =============================================================================

// ComposeFile is a whole compose file: a format version and its services.
// The top-level networks and volumes sections are derived from the services
// whenever the document is built.
type ComposeFile struct {
	version  Version
	services []*Service
}

// NewComposeFile creates an empty compose file for the given format version.
// Returns ErrInvalidVersion if version cannot be parsed.
func NewComposeFile(version string) (*ComposeFile, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return nil, err
	}
	return &ComposeFile{version: v}, nil
}

// Version returns the format version.
func (f *ComposeFile) Version() Version { return f.version }

// SetVersion changes the format version. Volume syntax follows the new
// version the next time the document is built.
func (f *ComposeFile) SetVersion(v Version) { f.version = v }

// AddService appends a service. Names are not checked for uniqueness: when
// two services share a name, the one added last wins in the document.
func (f *ComposeFile) AddService(s *Service) {
	f.services = append(f.services, s)
}

// Services returns the services in insertion order.
func (f *ComposeFile) Services() []*Service {
	return append([]*Service(nil), f.services...)
}

// Service returns the last added service with the given name.
func (f *ComposeFile) Service(name string) (*Service, bool) {
	for i := len(f.services) - 1; i >= 0; i-- {
		if f.services[i].name == name {
			return f.services[i], true
		}
	}
	return nil, false
}

// Document builds the document tree.
//
// The networks section holds every network referenced by a service, keyed by
// name; the first network seen for a name wins. The volumes section holds
// every named volume referenced by a service, keyed by source. Bind volumes
// need no declaration and are left out.
func (f *ComposeFile) Document() *Document {
	doc := &Document{
		Version:  f.version.String(),
		Services: make(map[string]ServiceFragment, len(f.services)),
		Networks: make(map[string]NetworkDefinition),
		Volumes:  make(map[string]VolumeDefinition),
	}

	for _, svc := range f.services {
		for name, frag := range svc.Fragment(f.version) {
			doc.Services[name] = frag
		}

		for _, n := range svc.networks {
			if _, seen := doc.Networks[n.Name()]; seen {
				continue
			}
			for name, def := range n.Definition() {
				doc.Networks[name] = def
			}
		}

		for _, a := range svc.volumes {
			if a.Volume.Type() == VolumeTypeBind {
				continue
			}
			if _, seen := doc.Volumes[a.Volume.Source]; seen {
				continue
			}
			for name, def := range a.Volume.Declaration() {
				doc.Volumes[name] = def
			}
		}
	}

	return doc
}

// FromDocument rebuilds a compose file from its document tree.
//
// Each depends_on name is linked to the loaded service of that name.
// Returns ErrUnknownService if a name matches no service in the document.
func FromDocument(doc *Document) (*ComposeFile, error) {
	if doc == nil {
		return nil, NewParseError("", "document is empty", ErrInvalidYAML)
	}

	f, err := NewComposeFile(doc.Version)
	if err != nil {
		return nil, err
	}

	names := slices.Sorted(maps.Keys(doc.Services))
	byName := make(map[string]*Service, len(names))
	for _, name := range names {
		svc, err := ServiceFromFragment(name, doc.Services[name], doc.Volumes, doc.Networks)
		if err != nil {
			return nil, err
		}
		byName[name] = svc
		f.AddService(svc)
	}

	for _, name := range names {
		for _, depName := range doc.Services[name].DependsOn {
			dep, ok := byName[depName]
			if !ok {
				return nil, NewParseError("services."+name+".depends_on", "no service named "+depName, ErrUnknownService)
			}
			byName[name].DependOn(dep)
		}
	}

	return f, nil
}

// =============================================================================
// YAML Codec
// =============================================================================

// Marshal encodes f as YAML with the given indentation. An indent below one
// uses DefaultIndent.
func Marshal(f *ComposeFile, indent int) ([]byte, error) {
	if indent < 1 {
		indent = DefaultIndent
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(f.Document()); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes YAML into a compose file.
func Unmarshal(data []byte) (*ComposeFile, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, NewParseError("", "compose file is empty", ErrInvalidYAML)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, NewParseError("", err.Error(), ErrInvalidYAML)
	}

	var doc Document
	if err := root.Decode(&doc); err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, labelNodeError(&root, err)
		}
		return nil, NewParseError("", err.Error(), ErrInvalidYAML)
	}
	return FromDocument(&doc)
}
