package compose

// =============================================================================
// Network
// =============================================================================

// Network is a named network services attach to. Networks are shared by
// pointer between services; the top-level networks section is keyed by name.
// A Network is immutable once created.
type Network struct {
	name     string
	internal bool
}

// NetworkDefinition is the body of an entry in the top-level networks section.
type NetworkDefinition struct {
	Internal bool `yaml:"internal"`
}

// NewNetwork creates a network.
// Returns ErrInvalidName if name is empty or contains whitespace.
func NewNetwork(name string, internal bool) (*Network, error) {
	if err := validateName("networks", name); err != nil {
		return nil, err
	}
	return &Network{name: name, internal: internal}, nil
}

// NetworkFromDefinition creates a network from its top-level definition.
func NetworkFromDefinition(name string, def NetworkDefinition) (*Network, error) {
	return NewNetwork(name, def.Internal)
}

// Name returns the network name.
func (n *Network) Name() string { return n.name }

// Internal reports whether the network is isolated from the outside.
func (n *Network) Internal() bool { return n.internal }

// Definition returns the top-level networks entry for n.
func (n *Network) Definition() map[string]NetworkDefinition {
	return map[string]NetworkDefinition{
		n.name: {Internal: n.internal},
	}
}
