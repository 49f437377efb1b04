package compose

import "strings"

// =============================================================================
// Port
// =============================================================================

// Port is a host/container port mapping. Both endpoints are kept as strings
// so ranges ("8000-8010") and protocols ("53/udp") pass through untouched.
type Port struct {
	host      string
	container string
}

// NewPort creates a port mapping.
// Returns ErrInvalidArgument if either endpoint is empty.
func NewPort(host, container string) (Port, error) {
	if host == "" || container == "" {
		return Port{}, NewParseError("ports", "ports must not be empty", ErrInvalidArgument)
	}
	return Port{host: host, container: container}, nil
}

// ParsePort parses the short port syntax "host:container".
//
// Example:
//
//	p, _ := ParsePort("8080:80")
//	p.Compile() // "8080:80"
func ParsePort(s string) (Port, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Port{}, NewParseError("ports", "expected host:container, got "+s, ErrInvalidArgument)
	}
	return NewPort(parts[0], parts[1])
}

// Host returns the host endpoint.
func (p Port) Host() string { return p.host }

// Container returns the container endpoint.
func (p Port) Container() string { return p.container }

// Compile returns the short port syntax "host:container".
func (p Port) Compile() string {
	return p.host + ":" + p.container
}
