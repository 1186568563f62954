package pack

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/symreg/errors"
	"github.com/teranos/symreg/opset"
	"github.com/teranos/symreg/registry"
)

// =============================================================================
// Mock Pack Implementation
// =============================================================================

type mockPack struct {
	metadata    Metadata
	registerErr error
	registered  bool
}

func newMockPack(name string) *mockPack {
	return &mockPack{
		metadata: Metadata{
			Name:        name,
			Version:     "1.0.0",
			HostVersion: "",
			Description: fmt.Sprintf("Mock %s pack", name),
		},
	}
}

func (m *mockPack) Metadata() Metadata {
	return m.metadata
}

func (m *mockPack) Register(r *registry.Registry[string]) error {
	if m.registerErr != nil {
		return m.registerErr
	}
	m.registered = true
	return r.Register("mock::"+m.metadata.Name, opset.Base, m.metadata.Name+"-handler", false)
}

// Verify mockPack implements Pack
var _ Pack[string] = (*mockPack)(nil)

func newTestInstaller(hostVersion string) (*Installer[string], *registry.Registry[string]) {
	r := registry.New[string](nil)
	return NewInstaller(r, hostVersion), r
}

// =============================================================================
// Installer Tests
// =============================================================================

func TestNewInstaller(t *testing.T) {
	in, _ := newTestInstaller("1.0.0")
	assert.NotNil(t, in)
	assert.Equal(t, "1.0.0", in.hostVersion)
	assert.Empty(t, in.packs)
}

func TestInstaller_Install(t *testing.T) {
	t.Run("successful install", func(t *testing.T) {
		in, r := newTestInstaller("1.0.0")
		p := newMockPack("test")

		err := in.Install(p)
		require.NoError(t, err)
		assert.True(t, p.registered)

		// The pack's registrations are resolvable.
		fn, err := r.Resolve("mock::test", opset.Base)
		require.NoError(t, err)
		assert.Equal(t, "test-handler", fn)

		got, ok := in.Get("test")
		assert.True(t, ok)
		assert.Equal(t, p, got)
	})

	t.Run("name conflict", func(t *testing.T) {
		in, _ := newTestInstaller("1.0.0")

		require.NoError(t, in.Install(newMockPack("test")))

		err := in.Install(newMockPack("test"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already installed")
	})

	t.Run("version compatibility - no constraint", func(t *testing.T) {
		in, _ := newTestInstaller("2.5.3")
		p := newMockPack("test")
		p.metadata.HostVersion = "" // No constraint

		assert.NoError(t, in.Install(p))
	})

	t.Run("version compatibility - valid constraint", func(t *testing.T) {
		in, _ := newTestInstaller("1.5.0")
		p := newMockPack("test")
		p.metadata.HostVersion = "^1.0.0" // 1.x.x compatible

		assert.NoError(t, in.Install(p))
	})

	t.Run("version compatibility - invalid constraint", func(t *testing.T) {
		in, _ := newTestInstaller("2.0.0")
		p := newMockPack("test")
		p.metadata.HostVersion = "^1.0.0" // Requires 1.x.x

		err := in.Install(p)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "version incompatible")
		assert.False(t, p.registered)
	})

	t.Run("registration failure is not recorded", func(t *testing.T) {
		in, _ := newTestInstaller("1.0.0")
		p := newMockPack("broken")
		p.registerErr = errors.New("bad handler table")

		err := in.Install(p)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to install handler pack broken")

		_, ok := in.Get("broken")
		assert.False(t, ok)
		assert.Empty(t, in.List())
	})
}

func TestInstaller_InstallAll(t *testing.T) {
	t.Run("installs in given order", func(t *testing.T) {
		in, _ := newTestInstaller("1.0.0")

		err := in.InstallAll(newMockPack("zebra"), newMockPack("alpha"))
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "zebra"}, in.List())
	})

	t.Run("stops at first failure", func(t *testing.T) {
		in, _ := newTestInstaller("1.0.0")
		bad := newMockPack("bad")
		bad.registerErr = errors.New("boom")
		after := newMockPack("after")

		err := in.InstallAll(newMockPack("first"), bad, after)
		assert.Error(t, err)
		assert.Equal(t, []string{"first"}, in.List())
		assert.False(t, after.registered)
	})
}

func TestInstaller_List(t *testing.T) {
	in, _ := newTestInstaller("1.0.0")
	assert.Empty(t, in.List())

	require.NoError(t, in.Install(newMockPack("zebra")))
	require.NoError(t, in.Install(newMockPack("alpha")))
	require.NoError(t, in.Install(newMockPack("beta")))

	list := in.List()
	assert.Equal(t, []string{"alpha", "beta", "zebra"}, list)
	assert.True(t, sort.StringsAreSorted(list), "List should be sorted")
}

func TestInstaller_Installed(t *testing.T) {
	in, _ := newTestInstaller("1.0.0")
	require.NoError(t, in.Install(newMockPack("beta")))
	require.NoError(t, in.Install(newMockPack("alpha")))

	installed := in.Installed()
	require.Len(t, installed, 2)
	assert.Equal(t, "alpha", installed[0].Name)
	assert.Equal(t, "beta", installed[1].Name)
	assert.Equal(t, "Mock alpha pack", installed[0].Description)
}

// =============================================================================
// Host Version Validation Tests
// =============================================================================

func TestInstaller_validateHostVersion(t *testing.T) {
	tests := []struct {
		name        string
		hostVersion string
		constraint  string
		wantErr     bool
	}{
		{
			name:        "no constraint",
			hostVersion: "1.0.0",
			constraint:  "",
			wantErr:     false,
		},
		{
			name:        "exact match",
			hostVersion: "1.0.0",
			constraint:  "1.0.0",
			wantErr:     false,
		},
		{
			name:        "caret constraint - compatible",
			hostVersion: "1.5.2",
			constraint:  "^1.0.0",
			wantErr:     false,
		},
		{
			name:        "caret constraint - incompatible",
			hostVersion: "2.0.0",
			constraint:  "^1.0.0",
			wantErr:     true,
		},
		{
			name:        "tilde constraint - compatible",
			hostVersion: "1.2.5",
			constraint:  "~1.2.0",
			wantErr:     false,
		},
		{
			name:        "tilde constraint - incompatible",
			hostVersion: "1.3.0",
			constraint:  "~1.2.0",
			wantErr:     true,
		},
		{
			name:        "range constraint - compatible",
			hostVersion: "1.5.0",
			constraint:  ">=1.0.0 <2.0.0",
			wantErr:     false,
		},
		{
			name:        "invalid host version",
			hostVersion: "invalid",
			constraint:  "^1.0.0",
			wantErr:     true,
		},
		{
			name:        "invalid constraint syntax",
			hostVersion: "1.0.0",
			constraint:  "not-a-version",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, _ := newTestInstaller(tt.hostVersion)
			metadata := Metadata{
				Name:        "test",
				HostVersion: tt.constraint,
			}

			err := in.validateHostVersion(metadata)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// =============================================================================
// End-to-End Pack
// =============================================================================

// baselinePack registers a small family of operators the way a real opset
// baseline would.
type baselinePack struct{}

func (baselinePack) Metadata() Metadata {
	return Metadata{
		Name:        "aten-baseline",
		Version:     "1.0.0",
		Description: "Baseline aten operator handlers",
	}
}

func (baselinePack) Register(r *registry.Registry[string]) error {
	if err := r.RegisterSymbolic("aten::relu", opset.Span(9, 13), "relu"); err != nil {
		return err
	}
	if err := r.RegisterSymbolic("aten::gelu", []opset.Version{14}, "gelu"); err != nil {
		return err
	}
	return r.RegisterSymbolic("prim::loop", []opset.Version{opset.Base}, "loop")
}

// overridePack layers custom handlers on the baseline.
type overridePack struct{}

func (overridePack) Metadata() Metadata {
	return Metadata{
		Name:        "site-overrides",
		Version:     "0.2.0",
		Description: "Site-local custom handlers",
	}
}

func (overridePack) Register(r *registry.Registry[string]) error {
	return r.RegisterCustomSymbolic("aten::relu", []opset.Version{12}, "relu-tuned")
}

func TestPackLayering(t *testing.T) {
	r := registry.New[string](nil)
	in := NewInstaller(r, "1.0.0")

	require.NoError(t, in.InstallAll(baselinePack{}, overridePack{}))
	assert.Equal(t, []string{"aten-baseline", "site-overrides"}, in.List())

	// Baseline resolution below the override point.
	fn, err := r.Resolve("aten::relu", 11)
	require.NoError(t, err)
	assert.Equal(t, "relu", fn)

	// At and past the override, the site handler wins.
	fn, err = r.Resolve("aten::relu", 12)
	require.NoError(t, err)
	assert.Equal(t, "relu-tuned", fn)

	// gelu only exists from 14 on; below that the error names the
	// minimum.
	_, err = r.Resolve("aten::gelu", 9)
	require.Error(t, err)
	var unsupported *errors.UnsupportedOperatorError
	require.True(t, errors.As(err, &unsupported))
	require.NotNil(t, unsupported.MinSupported)
	assert.Equal(t, opset.Version(14), *unsupported.MinSupported)

	// Withdrawing the site handler restores baseline resolution.
	r.Unregister("aten::relu", 12)
	fn, err = r.Resolve("aten::relu", 12)
	require.NoError(t, err)
	assert.Equal(t, "relu", fn)
}
