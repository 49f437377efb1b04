package compose

import (
	"maps"
	"strconv"
)

// =============================================================================
// Service
// =============================================================================

// Service is a container definition. Networks, volumes and dependencies are
// shared pointers; the same Network or Volume may be used by many services.
//
// Service is not safe for concurrent mutation.
type Service struct {
	name          string
	image         string
	environment   map[string]string
	ports         []Port
	networks      []*Network
	volumes       []VolumeAttachment
	dependsOn     []*Service
	restart       RestartPolicy
	command       Command
	entrypoint    Command
	containerName string
}

// NewService creates a service running image.
func NewService(name, image string) *Service {
	return &Service{
		name:        name,
		image:       image,
		environment: make(map[string]string),
	}
}

// Name returns the service name, the key in the services section.
func (s *Service) Name() string { return s.name }

// Image returns the service image.
func (s *Service) Image() string { return s.image }

// AddPort appends a port mapping.
func (s *Service) AddPort(p Port) {
	s.ports = append(s.ports, p)
}

// SetPorts replaces all port mappings.
func (s *Service) SetPorts(ports []Port) {
	s.ports = append([]Port(nil), ports...)
}

// Ports returns the port mappings.
func (s *Service) Ports() []Port {
	return append([]Port(nil), s.ports...)
}

// SetEnv sets an environment variable.
func (s *Service) SetEnv(name, value string) {
	s.environment[name] = value
}

// Env returns an environment variable and whether it is set.
func (s *Service) Env(name string) (string, bool) {
	v, ok := s.environment[name]
	return v, ok
}

// Environment returns a copy of all environment variables.
func (s *Service) Environment() map[string]string {
	return maps.Clone(s.environment)
}

// AddVolume mounts vol at target. options may be nil.
func (s *Service) AddVolume(vol *Volume, target string, options *VolumeOptions) {
	s.volumes = append(s.volumes, VolumeAttachment{
		Volume:  vol,
		Target:  target,
		Options: options,
	})
}

// Volumes returns the volume attachments.
func (s *Service) Volumes() []VolumeAttachment {
	return append([]VolumeAttachment(nil), s.volumes...)
}

// AddNetwork attaches the service to n.
func (s *Service) AddNetwork(n *Network) {
	s.networks = append(s.networks, n)
}

// SetNetworks replaces all networks.
func (s *Service) SetNetworks(networks []*Network) {
	s.networks = append([]*Network(nil), networks...)
}

// Networks returns the attached networks.
func (s *Service) Networks() []*Network {
	return append([]*Network(nil), s.networks...)
}

// DependOn appends dependencies. Cycles are not detected.
func (s *Service) DependOn(deps ...*Service) {
	s.dependsOn = append(s.dependsOn, deps...)
}

// DependsOn returns the services s depends on.
func (s *Service) DependsOn() []*Service {
	return append([]*Service(nil), s.dependsOn...)
}

// SetRestart sets the restart policy. Unknown policies are accepted.
func (s *Service) SetRestart(r RestartPolicy) { s.restart = r }

// Restart returns the restart policy.
func (s *Service) Restart() RestartPolicy { return s.restart }

// SetCommand overrides the image command.
func (s *Service) SetCommand(c Command) { s.command = c }

// Command returns the command override.
func (s *Service) Command() Command { return s.command }

// SetEntrypoint overrides the image entrypoint.
func (s *Service) SetEntrypoint(c Command) { s.entrypoint = c }

// Entrypoint returns the entrypoint override.
func (s *Service) Entrypoint() Command { return s.entrypoint }

// SetContainerName sets an explicit container name.
func (s *Service) SetContainerName(name string) { s.containerName = name }

// ContainerName returns the explicit container name.
func (s *Service) ContainerName() string { return s.containerName }

// =============================================================================
// Fragment Conversion
// =============================================================================

// Fragment returns the services entry for s in the given format version.
// Fields holding no value are left empty and are omitted on encoding.
func (s *Service) Fragment(version Version) map[string]ServiceFragment {
	frag := ServiceFragment{
		Image:         s.image,
		ContainerName: s.containerName,
		Command:       s.command,
		Entrypoint:    s.entrypoint,
		Restart:       s.restart,
	}

	if len(s.environment) > 0 {
		frag.Environment = maps.Clone(s.environment)
	}
	for _, p := range s.ports {
		frag.Ports = append(frag.Ports, p.Compile())
	}
	for _, dep := range s.dependsOn {
		frag.DependsOn = append(frag.DependsOn, dep.name)
	}
	for _, n := range s.networks {
		frag.Networks = append(frag.Networks, n.Name())
	}
	for _, a := range s.volumes {
		frag.Volumes = append(frag.Volumes, a.Spec(version))
	}

	return map[string]ServiceFragment{s.name: frag}
}

// ServiceFromFragment rebuilds a service from its services entry. Networks
// are looked up by name in networkDefs; a network without a definition is
// created with default settings. volumeDefs is accepted for symmetry with
// networkDefs: volume definitions carry no settings.
//
// depends_on is not resolved here because the referenced services may not
// exist yet; ComposeFile.FromDocument links them.
func ServiceFromFragment(name string, frag ServiceFragment, volumeDefs map[string]VolumeDefinition, networkDefs map[string]NetworkDefinition) (*Service, error) {
	field := "services." + name
	svc := NewService(name, frag.Image)
	svc.containerName = frag.ContainerName
	svc.command = frag.Command
	svc.entrypoint = frag.Entrypoint
	svc.restart = frag.Restart

	for k, v := range frag.Environment {
		svc.SetEnv(k, v)
	}

	for i, raw := range frag.Ports {
		p, err := ParsePort(raw)
		if err != nil {
			return nil, withField(field+".ports["+strconv.Itoa(i)+"]", err)
		}
		svc.AddPort(p)
	}

	for i, netName := range frag.Networks {
		n, err := NetworkFromDefinition(netName, networkDefs[netName])
		if err != nil {
			return nil, withField(field+".networks["+strconv.Itoa(i)+"]", err)
		}
		svc.AddNetwork(n)
	}

	for i, spec := range frag.Volumes {
		vol, target, opts, err := ParseVolume(spec)
		if err != nil {
			return nil, withField(field+".volumes["+strconv.Itoa(i)+"]", err)
		}
		svc.AddVolume(vol, target, opts)
	}

	return svc, nil
}
