package compose

import (
	"testing"

	"github.com/docker/docker/api/types/mount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Test Helpers
// =============================================================================

func boolPtr(b bool) *bool { return &b }

func int64Ptr(i int64) *int64 { return &i }

// richOptions carries options beyond ReadOnly so the long syntax is eligible.
func richOptions() *VolumeOptions {
	return &VolumeOptions{
		ReadOnly:    boolPtr(true),
		Volume:      &NamedVolumeOptions{NoCopy: boolPtr(true)},
		Bind:        &BindOptions{Propagation: "propagation_value"},
		Tmpfs:       &TmpfsOptions{Size: int64Ptr(1234)},
		Consistency: mount.ConsistencyCached,
	}
}

func mustVolume(t *testing.T, source string) *Volume {
	t.Helper()
	v, err := NewVolume(source)
	require.NoError(t, err)
	return v
}

// =============================================================================
// Classification Tests
// =============================================================================

func TestClassify(t *testing.T) {
	tests := []struct {
		source string
		want   mount.Type
	}{
		{"./source/on/host", mount.TypeBind},
		{"../relative", mount.TypeBind},
		{".hidden", mount.TypeBind},
		{"/absolute/path", mount.TypeBind},
		{"db_data", mount.TypeVolume},
		{"my-volume", mount.TypeVolume},
		{"~/home", mount.TypeVolume},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.source))
			assert.Equal(t, tt.want, mustVolume(t, tt.source).Type())
		})
	}
}

func TestVolume_TypeFollowsSource(t *testing.T) {
	vol := mustVolume(t, "db_data")
	assert.Equal(t, VolumeTypeVolume, vol.Type())

	vol.Source = "./data"
	assert.Equal(t, VolumeTypeBind, vol.Type())
}

func TestNewVolume_Errors(t *testing.T) {
	_, err := NewVolume("")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewVolume("name with space")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = NewVolume("first\nsecond")
	assert.ErrorIs(t, err, ErrInvalidName)

	// Host paths may contain whitespace.
	vol, err := NewVolume("./my dir")
	require.NoError(t, err)
	assert.Equal(t, VolumeTypeBind, vol.Type())
}

func TestVolume_Declaration(t *testing.T) {
	vol := mustVolume(t, "myVolumeName")
	assert.Equal(t, map[string]VolumeDefinition{"myVolumeName": {}}, vol.Declaration())
}

// =============================================================================
// Short Syntax Tests
// =============================================================================

func TestAttachment_ShortWithoutOptions(t *testing.T) {
	for _, version := range []string{"2.3", "3.1", "3.2", "3.10"} {
		t.Run(version, func(t *testing.T) {
			spec := mustVolume(t, "db_data").Attachment("/data/db", MustParseVersion(version), nil)
			assert.False(t, spec.IsLong())
			assert.Equal(t, "db_data:/data/db", spec.Short)
		})
	}
}

func TestAttachment_ShortWithMode(t *testing.T) {
	vol := mustVolume(t, "./source/on/host")
	v := MustParseVersion("2.3")

	ro := vol.Attachment("/target/in/container", v, &VolumeOptions{ReadOnly: boolPtr(true)})
	rw := vol.Attachment("/target/in/container", v, &VolumeOptions{ReadOnly: boolPtr(false)})

	assert.Equal(t, "./source/on/host:/target/in/container:ro", ro.Short)
	assert.Equal(t, "./source/on/host:/target/in/container:rw", rw.Short)
}

func TestAttachment_ReadOnlyOnlyStaysShortOnNewVersions(t *testing.T) {
	spec := mustVolume(t, "db_data").Attachment("/data", MustParseVersion("3.8"), &VolumeOptions{ReadOnly: boolPtr(true)})
	assert.False(t, spec.IsLong())
	assert.Equal(t, "db_data:/data:ro", spec.Short)
}

func TestAttachment_OldVersionAlwaysShort(t *testing.T) {
	for _, version := range []string{"2", "2.3", "3", "3.0", "3.1"} {
		t.Run(version, func(t *testing.T) {
			spec := mustVolume(t, "./conf/").Attachment("/etc/conf", MustParseVersion(version), richOptions())
			assert.False(t, spec.IsLong())
			assert.Equal(t, "./conf/:/etc/conf:ro", spec.Short)
		})
	}
}

func TestAttachment_OldVersionRichOptionsWithoutReadOnly(t *testing.T) {
	opts := richOptions()
	opts.ReadOnly = nil

	spec := mustVolume(t, "./conf/").Attachment("/etc/conf", MustParseVersion("3.1"), opts)
	assert.Equal(t, "./conf/:/etc/conf", spec.Short)
}

// Scenario: version 2.3 forces the short syntax even with rich options.
func TestAttachment_NginxConfOnVersion2(t *testing.T) {
	spec := mustVolume(t, "./conf/").Attachment("/var/nginx/conf", MustParseVersion("2.3"), richOptions())
	assert.Equal(t, VolumeSpec{Short: "./conf/:/var/nginx/conf:ro"}, spec)
}

// =============================================================================
// Long Syntax Tests
// =============================================================================

// Scenario: version 3.3 with rich options yields the long syntax.
func TestAttachment_NginxConfOnVersion3(t *testing.T) {
	spec := mustVolume(t, "./conf/").Attachment("/var/nginx/conf", MustParseVersion("3.3"), richOptions())
	require.True(t, spec.IsLong())

	assert.Equal(t, &LongVolume{
		Type:        mount.TypeBind,
		Source:      "./conf/",
		Target:      "/var/nginx/conf",
		ReadOnly:    boolPtr(true),
		Volume:      &NamedVolumeOptions{NoCopy: boolPtr(true)},
		Bind:        &BindOptions{Propagation: "propagation_value"},
		Tmpfs:       &TmpfsOptions{Size: int64Ptr(1234)},
		Consistency: mount.ConsistencyCached,
	}, spec.Long)
}

func TestAttachment_LongTypeMatchesClassify(t *testing.T) {
	opts := &VolumeOptions{Consistency: mount.ConsistencyDelegated}
	for _, source := range []string{"./bound", "/abs", "named"} {
		spec := mustVolume(t, source).Attachment("/target", MustParseVersion("3.2"), opts)
		require.True(t, spec.IsLong(), source)
		assert.Equal(t, Classify(source), spec.Long.Type, source)
	}
}

func TestAttachment_VersionComparedNumerically(t *testing.T) {
	// "3.10" sorts before "3.2" as a string but is newer.
	spec := mustVolume(t, "named").Attachment("/target", MustParseVersion("3.10"), richOptions())
	assert.True(t, spec.IsLong())
}

func TestAttachment_EmptyOptionsUseLongSyntax(t *testing.T) {
	spec := mustVolume(t, "named").Attachment("/target", MustParseVersion("3.2"), &VolumeOptions{})
	require.True(t, spec.IsLong())
	assert.Nil(t, spec.Long.ReadOnly)
}

func TestAttachment_ExtraOptionsKept(t *testing.T) {
	opts := &VolumeOptions{Extra: map[string]any{"bind_selinux": "z"}}
	spec := mustVolume(t, "./data").Attachment("/data", MustParseVersion("3.4"), opts)
	require.True(t, spec.IsLong())
	assert.Equal(t, "z", spec.Long.Extra["bind_selinux"])
}

func TestAttachment_LongSyntaxDoesNotShareOptions(t *testing.T) {
	opts := richOptions()
	spec := mustVolume(t, "./conf/").Attachment("/conf", MustParseVersion("3.3"), opts)
	require.True(t, spec.IsLong())

	spec.Long.Bind.Propagation = "rshared"
	*spec.Long.ReadOnly = false
	*spec.Long.Volume.NoCopy = false
	*spec.Long.Tmpfs.Size = 1

	assert.Equal(t, richOptions(), opts)
}

func TestParseVolume_LongDoesNotShareSpec(t *testing.T) {
	long := &LongVolume{
		Type:   VolumeTypeBind,
		Source: "./conf",
		Target: "/conf",
		Bind:   &BindOptions{Propagation: "rprivate"},
		Tmpfs:  &TmpfsOptions{Size: int64Ptr(10)},
	}

	_, _, opts, err := ParseVolume(VolumeSpec{Long: long})
	require.NoError(t, err)
	opts.Bind.Propagation = "rshared"
	*opts.Tmpfs.Size = 20

	assert.Equal(t, mount.Propagation("rprivate"), long.Bind.Propagation)
	assert.Equal(t, int64(10), *long.Tmpfs.Size)
}

// =============================================================================
// Parsing Tests
// =============================================================================

func TestParseVolume_ShortWithoutMode(t *testing.T) {
	vol, target, opts, err := ParseVolume(VolumeSpec{Short: "./source/on/host:/target/in/container"})
	require.NoError(t, err)

	assert.Equal(t, "./source/on/host", vol.Source)
	assert.Equal(t, "/target/in/container", target)
	assert.Nil(t, opts)
}

func TestParseVolume_ShortWithMode(t *testing.T) {
	for _, mode := range []string{"rw", "ro"} {
		t.Run(mode, func(t *testing.T) {
			vol, target, opts, err := ParseVolume(VolumeSpec{Short: "./src:/dst:" + mode})
			require.NoError(t, err)

			assert.Equal(t, "./src", vol.Source)
			assert.Equal(t, "/dst", target)
			require.NotNil(t, opts)
			require.NotNil(t, opts.ReadOnly)
			assert.Equal(t, mode == "ro", *opts.ReadOnly)
		})
	}
}

func TestParseVolume_ShortMalformed(t *testing.T) {
	tests := []string{
		"",
		"only-source",
		"a:b:c:d",
		":/target",
		"source:",
	}

	for _, value := range tests {
		t.Run(value, func(t *testing.T) {
			_, _, _, err := ParseVolume(VolumeSpec{Short: value})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedVolumeSpec)
		})
	}
}

func TestParseVolume_ShortInvalidName(t *testing.T) {
	_, _, _, err := ParseVolume(VolumeSpec{Short: "bad name:/data"})
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestParseVolume_Long(t *testing.T) {
	consistencies := []mount.Consistency{mount.ConsistencyDelegated, mount.ConsistencyFull, mount.ConsistencyCached}
	types := []mount.Type{mount.TypeBind, mount.TypeVolume}

	for _, consistency := range consistencies {
		for _, readOnly := range []bool{true, false} {
			for _, nocopy := range []bool{true, false} {
				for _, typ := range types {
					long := &LongVolume{
						Type:        typ,
						Source:      "./source/on/host",
						Target:      "/target/in/container",
						ReadOnly:    boolPtr(readOnly),
						Bind:        &BindOptions{Propagation: "some_string_value"},
						Volume:      &NamedVolumeOptions{NoCopy: boolPtr(nocopy)},
						Tmpfs:       &TmpfsOptions{Size: int64Ptr(1234)},
						Consistency: consistency,
					}

					vol, target, opts, err := ParseVolume(VolumeSpec{Long: long})
					require.NoError(t, err)
					assert.Equal(t, "./source/on/host", vol.Source)
					assert.Equal(t, "/target/in/container", target)
					assert.Equal(t, &VolumeOptions{
						ReadOnly:    boolPtr(readOnly),
						Bind:        &BindOptions{Propagation: "some_string_value"},
						Volume:      &NamedVolumeOptions{NoCopy: boolPtr(nocopy)},
						Tmpfs:       &TmpfsOptions{Size: int64Ptr(1234)},
						Consistency: consistency,
					}, opts)
				}
			}
		}
	}
}

func TestParseVolume_LongMissingFields(t *testing.T) {
	_, _, _, err := ParseVolume(VolumeSpec{Long: &LongVolume{Type: mount.TypeVolume, Target: "/data"}})
	assert.ErrorIs(t, err, ErrMalformedVolumeSpec)

	_, _, _, err = ParseVolume(VolumeSpec{Long: &LongVolume{Type: mount.TypeVolume, Source: "data"}})
	assert.ErrorIs(t, err, ErrMalformedVolumeSpec)
}

// =============================================================================
// YAML Tests
// =============================================================================

func TestVolumeSpec_UnmarshalYAML(t *testing.T) {
	input := `
- db_data:/data/db
- ./conf:/etc/conf:ro
- type: bind
  source: ./conf/
  target: /var/nginx/conf
  readOnly: true
  consistency: cached
  bind:
    propagation: rshared
  x-note: kept
`
	var specs []VolumeSpec
	require.NoError(t, yaml.Unmarshal([]byte(input), &specs))
	require.Len(t, specs, 3)

	assert.Equal(t, "db_data:/data/db", specs[0].Short)
	assert.Equal(t, "./conf:/etc/conf:ro", specs[1].Short)
	require.True(t, specs[2].IsLong())

	vol, target, opts, err := ParseVolume(specs[2])
	require.NoError(t, err)
	assert.Equal(t, "./conf/", vol.Source)
	assert.Equal(t, "/var/nginx/conf", target)
	require.NotNil(t, opts.ReadOnly)
	assert.True(t, *opts.ReadOnly)
	assert.Equal(t, mount.ConsistencyCached, opts.Consistency)
	assert.Equal(t, mount.PropagationRShared, opts.Bind.Propagation)
	assert.Equal(t, map[string]any{"x-note": "kept"}, opts.Extra)
}

func TestVolumeSpec_UnmarshalYAMLRejectsSequence(t *testing.T) {
	var specs []VolumeSpec
	err := yaml.Unmarshal([]byte("- [a, b]\n"), &specs)
	assert.ErrorIs(t, err, ErrMalformedVolumeSpec)
}

func TestVolumeSpec_MarshalYAMLWritesReadOnlyKey(t *testing.T) {
	spec := mustVolume(t, "./conf/").Attachment("/conf", MustParseVersion("3.3"), richOptions())
	out, err := yaml.Marshal(spec)
	require.NoError(t, err)
	assert.Contains(t, string(out), "read_only: true\n")
	assert.NotContains(t, string(out), "readOnly")
}

func TestVolumeSpec_MarshalYAMLRejectsExtraFieldKeys(t *testing.T) {
	for _, key := range []string{"read_only", "type", "source", "target", "bind", "volume", "tmpfs", "consistency"} {
		t.Run(key, func(t *testing.T) {
			opts := &VolumeOptions{Extra: map[string]any{key: true}}
			spec := mustVolume(t, "db_data").Attachment("/data", MustParseVersion("3.8"), opts)

			var out []byte
			var err error
			require.NotPanics(t, func() { out, err = yaml.Marshal(spec) })
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Empty(t, out)
		})
	}
}

func TestVolumeSpec_MarshalYAML(t *testing.T) {
	out, err := yaml.Marshal([]VolumeSpec{{Short: "db_data:/data/db"}})
	require.NoError(t, err)
	assert.Equal(t, "- db_data:/data/db\n", string(out))

	long := mustVolume(t, "named").Attachment("/data", MustParseVersion("3.2"), &VolumeOptions{
		Volume: &NamedVolumeOptions{NoCopy: boolPtr(true)},
	})
	out, err = yaml.Marshal(long)
	require.NoError(t, err)
	assert.Equal(t, "type: volume\nsource: named\ntarget: /data\nvolume:\n    nocopy: true\n", string(out))
}

// =============================================================================
// Round Trip Tests
// =============================================================================

func TestRoundTrip_ReadOnlyAnyVersion(t *testing.T) {
	for _, version := range []string{"2.3", "3.1", "3.2", "3.9"} {
		for _, readOnly := range []bool{true, false} {
			vol := mustVolume(t, "./src")
			spec := vol.Attachment("/dst", MustParseVersion(version), &VolumeOptions{ReadOnly: boolPtr(readOnly)})

			parsed, target, opts, err := ParseVolume(spec)
			require.NoError(t, err)
			assert.Equal(t, vol.Source, parsed.Source)
			assert.Equal(t, "/dst", target)
			assert.Equal(t, &VolumeOptions{ReadOnly: boolPtr(readOnly)}, opts)
		}
	}
}

func TestRoundTrip_LongSyntaxLossless(t *testing.T) {
	vol := mustVolume(t, "./conf/")
	spec := vol.Attachment("/var/nginx/conf", MustParseVersion("3.3"), richOptions())

	out, err := yaml.Marshal(spec)
	require.NoError(t, err)

	var decoded VolumeSpec
	require.NoError(t, yaml.Unmarshal(out, &decoded))

	parsed, target, opts, err := ParseVolume(decoded)
	require.NoError(t, err)
	assert.Equal(t, "./conf/", parsed.Source)
	assert.Equal(t, "/var/nginx/conf", target)
	assert.Equal(t, richOptions(), opts)
}

func TestRoundTrip_ShortSyntaxDropsRichOptions(t *testing.T) {
	spec := mustVolume(t, "./conf/").Attachment("/var/nginx/conf", MustParseVersion("2.3"), richOptions())

	_, _, opts, err := ParseVolume(spec)
	require.NoError(t, err)
	assert.Equal(t, &VolumeOptions{ReadOnly: boolPtr(true)}, opts)
}
