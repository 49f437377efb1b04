package compose

// =============================================================================
// Document - Serialized Form
// =============================================================================

// Document is the tree form of a compose file. It is what the YAML codec
// reads and writes; the object model never touches raw text.
type Document struct {
	Version  string                       `yaml:"version"`
	Services map[string]ServiceFragment   `yaml:"services"`
	Networks map[string]NetworkDefinition `yaml:"networks,omitempty"`
	Volumes  map[string]VolumeDefinition  `yaml:"volumes,omitempty"`
}

// ServiceFragment is the body of one entry in the services section.
// Every field except Image is omitted when unset.
type ServiceFragment struct {
	Image         string            `yaml:"image"`
	ContainerName string            `yaml:"container_name,omitempty"`
	Ports         []string          `yaml:"ports,omitempty"`
	Environment   map[string]string `yaml:"environment,omitempty"`
	DependsOn     []string          `yaml:"depends_on,omitempty"`
	Command       Command           `yaml:"command,omitempty"`
	Entrypoint    Command           `yaml:"entrypoint,omitempty"`
	Restart       RestartPolicy     `yaml:"restart,omitempty"`
	Networks      []string          `yaml:"networks,omitempty"`
	Volumes       []VolumeSpec      `yaml:"volumes,omitempty"`
}

// =============================================================================
// Restart Policy
// =============================================================================

// RestartPolicy represents the restart policy. The zero value means unset.
type RestartPolicy string

const (
	RestartNo            RestartPolicy = "no"
	RestartAlways        RestartPolicy = "always"
	RestartOnFailure     RestartPolicy = "on-failure"
	RestartUnlessStopped RestartPolicy = "unless-stopped"
)

// Valid reports whether r is unset or one of the known policies.
// Parsing does not call Valid; unknown policies are carried through.
func (r RestartPolicy) Valid() bool {
	switch r {
	case "", RestartNo, RestartAlways, RestartOnFailure, RestartUnlessStopped:
		return true
	default:
		return false
	}
}
