package compose

import (
	"maps"
	"strings"

	"github.com/docker/docker/api/types/mount"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Volume
// =============================================================================

// Volume is a mount source: either a host path (bind volume) or the name of
// a named volume. A Volume may be attached to several services, each with its
// own target and options.
type Volume struct {
	Source string
}

// Mount types a Volume can classify as.
const (
	VolumeTypeBind   = mount.TypeBind
	VolumeTypeVolume = mount.TypeVolume
)

// VolumeDefinition is the body of an entry in the top-level volumes section.
// It is always empty.
type VolumeDefinition struct{}

// NewVolume creates a volume for source.
// Returns ErrInvalidArgument if source is empty and ErrInvalidName if a named
// volume contains whitespace. Host paths may contain whitespace.
func NewVolume(source string) (*Volume, error) {
	if source == "" {
		return nil, NewParseError("volumes", "source must not be empty", ErrInvalidArgument)
	}
	if Classify(source) == VolumeTypeVolume {
		if err := validateName("volumes", source); err != nil {
			return nil, err
		}
	}
	return &Volume{Source: source}, nil
}

// Classify derives the mount type from a source. Sources starting with "."
// or "/" are host paths and yield mount.TypeBind; anything else is a named
// volume and yields mount.TypeVolume.
func Classify(source string) mount.Type {
	if strings.HasPrefix(source, ".") || strings.HasPrefix(source, "/") {
		return VolumeTypeBind
	}
	return VolumeTypeVolume
}

// Type returns the mount type of v. It is recomputed from Source on every call.
func (v *Volume) Type() mount.Type {
	return Classify(v.Source)
}

// Declaration returns the top-level volumes entry for v.
func (v *Volume) Declaration() map[string]VolumeDefinition {
	return map[string]VolumeDefinition{
		v.Source: {},
	}
}

// =============================================================================
// Volume Options
// =============================================================================

// VolumeOptions are the per-attachment options of a volume. A nil field is
// unset and is never written.
type VolumeOptions struct {
	ReadOnly    *bool
	Bind        *BindOptions
	Volume      *NamedVolumeOptions
	Tmpfs       *TmpfsOptions
	Consistency mount.Consistency

	// Extra holds long syntax keys that have no dedicated field.
	Extra map[string]any
}

// BindOptions are the bind-specific long syntax options.
type BindOptions struct {
	Propagation mount.Propagation `yaml:"propagation,omitempty"`
}

// NamedVolumeOptions are the volume-specific long syntax options.
type NamedVolumeOptions struct {
	NoCopy *bool `yaml:"nocopy,omitempty"`
}

// TmpfsOptions are the tmpfs-specific long syntax options.
type TmpfsOptions struct {
	Size *int64 `yaml:"size,omitempty"`
}

// clone returns a deep copy of o. Values inside Extra are shared.
func (o *VolumeOptions) clone() *VolumeOptions {
	if o == nil {
		return nil
	}
	return &VolumeOptions{
		ReadOnly:    clonePtr(o.ReadOnly),
		Bind:        clonePtr(o.Bind),
		Volume:      o.Volume.clone(),
		Tmpfs:       o.Tmpfs.clone(),
		Consistency: o.Consistency,
		Extra:       maps.Clone(o.Extra),
	}
}

func (o *NamedVolumeOptions) clone() *NamedVolumeOptions {
	if o == nil {
		return nil
	}
	return &NamedVolumeOptions{NoCopy: clonePtr(o.NoCopy)}
}

func (o *TmpfsOptions) clone() *TmpfsOptions {
	if o == nil {
		return nil
	}
	return &TmpfsOptions{Size: clonePtr(o.Size)}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// onlyReadOnly reports whether ReadOnly is the single populated option.
func (o *VolumeOptions) onlyReadOnly() bool {
	return o.ReadOnly != nil &&
		o.Bind == nil &&
		o.Volume == nil &&
		o.Tmpfs == nil &&
		o.Consistency == "" &&
		len(o.Extra) == 0
}

// =============================================================================
// Service Attachment Syntax
// =============================================================================

// VolumeSpec is one entry of a service's volumes list. Exactly one of Short
// or Long is meaningful: Long when it is non-nil, Short otherwise.
type VolumeSpec struct {
	Short string
	Long  *LongVolume
}

// LongVolume is the long volume syntax, available from format version 3.2.
//
// ReadOnly is written under the compose file reference key read_only, not
// under the option name; the camel-case readOnly is accepted when parsing.
type LongVolume struct {
	Type        mount.Type          `yaml:"type"`
	Source      string              `yaml:"source"`
	Target      string              `yaml:"target"`
	ReadOnly    *bool               `yaml:"read_only,omitempty"`
	Bind        *BindOptions        `yaml:"bind,omitempty"`
	Volume      *NamedVolumeOptions `yaml:"volume,omitempty"`
	Tmpfs       *TmpfsOptions       `yaml:"tmpfs,omitempty"`
	Consistency mount.Consistency   `yaml:"consistency,omitempty"`
	Extra       map[string]any      `yaml:",inline"`
}

// readOnlyAlias is the camel-case spelling of read_only accepted on input.
const readOnlyAlias = "readOnly"

// longVolumeKeys are the keys owned by LongVolume fields. Extra must not
// repeat them.
var longVolumeKeys = []string{
	"type", "source", "target", "read_only",
	"bind", "volume", "tmpfs", "consistency",
}

// validate reports Extra keys that collide with a dedicated field.
func (l *LongVolume) validate() error {
	for _, key := range longVolumeKeys {
		if _, ok := l.Extra[key]; ok {
			return NewParseError("volumes", "extra option "+key+" duplicates a long syntax field", ErrInvalidArgument)
		}
	}
	return nil
}

// IsLong reports whether s uses the long syntax.
func (s VolumeSpec) IsLong() bool {
	return s.Long != nil
}

// MarshalYAML writes the short syntax as a plain string and the long syntax
// as a mapping. Returns ErrInvalidArgument if Long.Extra repeats a key that
// has a dedicated field.
func (s VolumeSpec) MarshalYAML() (interface{}, error) {
	if s.Long != nil {
		if err := s.Long.validate(); err != nil {
			return nil, err
		}
		return s.Long, nil
	}
	return s.Short, nil
}

// UnmarshalYAML accepts either a string or a mapping.
func (s *VolumeSpec) UnmarshalYAML(node *yaml.Node) error {
	switch {
	case node.Kind == yaml.ScalarNode && node.Tag != "!!null":
		*s = VolumeSpec{Short: node.Value}
		return nil
	case node.Kind == yaml.MappingNode:
		var long LongVolume
		if err := node.Decode(&long); err != nil {
			return nodeError(node, "cannot decode long volume syntax: "+err.Error(), ErrMalformedVolumeSpec)
		}
		*s = VolumeSpec{Long: &long}
		return nil
	default:
		return nodeError(node, "volume must be a string or a mapping", ErrMalformedVolumeSpec)
	}
}

// Attachment returns the service volumes entry mounting v at target.
//
// The long syntax is used only when version is at least 3.2 and options carry
// something besides ReadOnly. Otherwise the short syntax is used, with a
// ":ro" or ":rw" mode suffix when ReadOnly is set. Every other option is
// dropped from the short syntax.
//
// Example:
//
//	vol, _ := NewVolume("db_data")
//	vol.Attachment("/data/db", MustParseVersion("2.3"), nil).Short // "db_data:/data/db"
func (v *Volume) Attachment(target string, version Version, options *VolumeOptions) VolumeSpec {
	useLong := version.supportsLongVolumeSyntax() && options != nil && !options.onlyReadOnly()

	if useLong {
		opts := options.clone()
		return VolumeSpec{Long: &LongVolume{
			Type:        v.Type(),
			Source:      v.Source,
			Target:      target,
			ReadOnly:    opts.ReadOnly,
			Bind:        opts.Bind,
			Volume:      opts.Volume,
			Tmpfs:       opts.Tmpfs,
			Consistency: opts.Consistency,
			Extra:       opts.Extra,
		}}
	}

	if options != nil && options.ReadOnly != nil {
		mode := "rw"
		if *options.ReadOnly {
			mode = "ro"
		}
		return VolumeSpec{Short: v.Source + ":" + target + ":" + mode}
	}
	return VolumeSpec{Short: v.Source + ":" + target}
}

// ParseVolume parses a service volumes entry into the volume, its target and
// its options. Options are nil for the short syntax without a mode.
//
// The short syntax only carries ReadOnly, so a short entry never reproduces
// the other options of the attachment it was written from.
func ParseVolume(spec VolumeSpec) (*Volume, string, *VolumeOptions, error) {
	if spec.Long != nil {
		return parseLongVolume(spec.Long)
	}
	return parseShortVolume(spec.Short)
}

func parseShortVolume(value string) (*Volume, string, *VolumeOptions, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return nil, "", nil, NewParseError("volumes", "expected source:target[:mode], got "+value, ErrMalformedVolumeSpec)
	}
	if parts[0] == "" || parts[1] == "" {
		return nil, "", nil, NewParseError("volumes", "source and target must not be empty: "+value, ErrMalformedVolumeSpec)
	}

	vol, err := NewVolume(parts[0])
	if err != nil {
		return nil, "", nil, err
	}

	if len(parts) == 2 {
		return vol, parts[1], nil, nil
	}
	readOnly := parts[2] == "ro"
	return vol, parts[1], &VolumeOptions{ReadOnly: &readOnly}, nil
}

func parseLongVolume(long *LongVolume) (*Volume, string, *VolumeOptions, error) {
	if long.Source == "" || long.Target == "" {
		return nil, "", nil, NewParseError("volumes", "long syntax requires source and target", ErrMalformedVolumeSpec)
	}

	vol, err := NewVolume(long.Source)
	if err != nil {
		return nil, "", nil, err
	}

	opts := (&VolumeOptions{
		ReadOnly:    long.ReadOnly,
		Bind:        long.Bind,
		Volume:      long.Volume,
		Tmpfs:       long.Tmpfs,
		Consistency: long.Consistency,
		Extra:       long.Extra,
	}).clone()
	if alias, ok := opts.Extra[readOnlyAlias].(bool); ok && opts.ReadOnly == nil {
		opts.ReadOnly = &alias
		delete(opts.Extra, readOnlyAlias)
	}
	if len(opts.Extra) == 0 {
		opts.Extra = nil
	}
	return vol, long.Target, opts, nil
}

// =============================================================================
// Volume Attachments
// =============================================================================

// VolumeAttachment mounts a shared Volume into one service.
type VolumeAttachment struct {
	Volume  *Volume
	Target  string
	Options *VolumeOptions
}

// Spec returns the service volumes entry for a in the given format version.
func (a VolumeAttachment) Spec(version Version) VolumeSpec {
	return a.Volume.Attachment(a.Target, version, a.Options)
}
