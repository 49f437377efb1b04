package compose

import (
	"strings"

	"github.com/compose-spec/compose-go/v2/types"
	"github.com/docker/go-connections/nat"
)

// =============================================================================
// compose-go Interop
// =============================================================================

// ProjectName normalizes name into a valid project name.
//
// The transformation rules are:
//   - Lowercase letters, digits, hyphens and underscores are kept as-is
//   - Uppercase letters are converted to lowercase
//   - Spaces are converted to hyphens
//   - All other characters are removed
//
// Example:
//
//	ProjectName("My Shop 2.0!") // returns "my-shop-20"
func ProjectName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Project converts f into a compose-go project so the model can be handed to
// compose-go based tooling. Volume attachments are converted from their
// options, not from their serialized syntax, so nothing is lost to the short
// syntax.
//
// The name is normalized with ProjectName; a name with nothing left after
// normalization is rejected.
func (f *ComposeFile) Project(name string) (*types.Project, error) {
	normalized := ProjectName(name)
	if normalized == "" {
		return nil, NewParseError("name", "project name is empty after normalization", ErrInvalidName)
	}

	project := &types.Project{
		Name:     normalized,
		Services: types.Services{},
		Networks: types.Networks{},
		Volumes:  types.Volumes{},
	}

	doc := f.Document()
	for netName, def := range doc.Networks {
		project.Networks[netName] = types.NetworkConfig{
			Name:     netName,
			Internal: def.Internal,
		}
	}
	for volName := range doc.Volumes {
		project.Volumes[volName] = types.VolumeConfig{Name: volName}
	}

	for _, svc := range f.services {
		converted, err := convertService(svc)
		if err != nil {
			return nil, err
		}
		project.Services[svc.name] = converted
	}

	return project, nil
}

// convertService converts our Service to a compose-go service
func convertService(svc *Service) (types.ServiceConfig, error) {
	field := "services." + svc.name
	config := types.ServiceConfig{
		Name:          svc.name,
		Image:         svc.image,
		ContainerName: svc.containerName,
		Command:       types.ShellCommand(svc.command.Args()),
		Entrypoint:    types.ShellCommand(svc.entrypoint.Args()),
		Restart:       string(svc.restart),
	}

	// Environment
	if len(svc.environment) > 0 {
		config.Environment = types.MappingWithEquals{}
		for k, v := range svc.environment {
			value := v
			config.Environment[k] = &value
		}
	}

	// Ports
	for _, p := range svc.ports {
		port, err := convertPort(p)
		if err != nil {
			return types.ServiceConfig{}, withField(field+".ports", err)
		}
		config.Ports = append(config.Ports, port)
	}

	// Networks
	if len(svc.networks) > 0 {
		config.Networks = make(map[string]*types.ServiceNetworkConfig, len(svc.networks))
		for _, n := range svc.networks {
			config.Networks[n.Name()] = nil
		}
	}

	// DependsOn
	if len(svc.dependsOn) > 0 {
		config.DependsOn = types.DependsOnConfig{}
		for _, dep := range svc.dependsOn {
			config.DependsOn[dep.name] = types.ServiceDependency{
				Condition: types.ServiceConditionStarted,
				Required:  true,
			}
		}
	}

	// Volumes
	for _, a := range svc.volumes {
		config.Volumes = append(config.Volumes, convertVolume(a))
	}

	return config, nil
}

// convertPort parses the container endpoint ("80", "53/udp") into a target
// port and protocol. The host endpoint is passed through as the published
// port, which compose-go keeps as a string to allow ranges. A container
// range ("8000-8010") has no single target and is rejected.
func convertPort(p Port) (types.ServicePortConfig, error) {
	proto, port := nat.SplitProtoPort(p.container)
	natPort, err := nat.NewPort(proto, port)
	if err != nil {
		return types.ServicePortConfig{}, NewParseError("", "invalid container port "+p.container+": "+err.Error(), ErrInvalidArgument)
	}
	start, end, err := natPort.Range()
	if err != nil {
		return types.ServicePortConfig{}, NewParseError("", "invalid container port "+p.container+": "+err.Error(), ErrInvalidArgument)
	}
	if start != end {
		return types.ServicePortConfig{}, NewParseError("", "container port range "+p.container+" is not supported", ErrInvalidArgument)
	}
	return types.ServicePortConfig{
		Target:    uint32(start),
		Published: p.host,
		Protocol:  natPort.Proto(),
		Mode:      "ingress",
	}, nil
}

// convertVolume converts an attachment to a compose-go volume mount
func convertVolume(a VolumeAttachment) types.ServiceVolumeConfig {
	mount := types.ServiceVolumeConfig{
		Type:   string(a.Volume.Type()),
		Source: a.Volume.Source,
		Target: a.Target,
	}

	opts := a.Options
	if opts == nil {
		return mount
	}
	if opts.ReadOnly != nil {
		mount.ReadOnly = *opts.ReadOnly
	}
	mount.Consistency = string(opts.Consistency)
	if opts.Bind != nil {
		mount.Bind = &types.ServiceVolumeBind{Propagation: string(opts.Bind.Propagation)}
	}
	if opts.Volume != nil {
		mount.Volume = &types.ServiceVolumeVolume{}
		if opts.Volume.NoCopy != nil {
			mount.Volume.NoCopy = *opts.Volume.NoCopy
		}
	}
	if opts.Tmpfs != nil {
		mount.Tmpfs = &types.ServiceVolumeTmpfs{}
		if opts.Tmpfs.Size != nil {
			mount.Tmpfs.Size = types.UnitBytes(*opts.Tmpfs.Size)
		}
	}
	return mount
}
