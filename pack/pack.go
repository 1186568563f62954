// Package pack installs bundles of symbolic handler registrations.
//
// A pack is how built-in handlers ship: an opset baseline, a vendor
// extension, a quantized-operator set. Packs carry metadata and an optional
// semver constraint on the host library version, checked before any of the
// pack's registrations run.
package pack

import (
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/symreg/errors"
	"github.com/teranos/symreg/registry"
	"github.com/teranos/symreg/version"
)

// Metadata describes a handler pack.
type Metadata struct {
	// Name is the unique pack identifier (e.g. "aten-baseline")
	Name string `json:"name"`

	// Version is the pack's own semantic version
	Version string `json:"version"`

	// HostVersion optionally constrains the symreg version the pack
	// supports (semver constraint, e.g. "^1.0.0"); empty means any
	HostVersion string `json:"host_version,omitempty"`

	// Description is a human-readable summary
	Description string `json:"description,omitempty"`
}

// Pack bundles handler registrations that install as a unit.
type Pack[H any] interface {
	// Metadata returns information about this pack
	Metadata() Metadata

	// Register records the pack's handlers against the registry
	Register(r *registry.Registry[H]) error
}

// Installer installs packs into one registry, enforcing name uniqueness and
// host-version constraints. Like the registry it feeds, an Installer expects
// a single-writer setup phase and carries no locking.
type Installer[H any] struct {
	reg         *registry.Registry[H]
	hostVersion string
	packs       map[string]Pack[H]
}

// NewInstaller creates an installer for reg. hostVersion is what pack
// constraints are checked against; empty falls back to the build's
// version.Version.
func NewInstaller[H any](reg *registry.Registry[H], hostVersion string) *Installer[H] {
	if hostVersion == "" {
		hostVersion = version.Version
	}
	return &Installer[H]{
		reg:         reg,
		hostVersion: hostVersion,
		packs:       make(map[string]Pack[H]),
	}
}

// Install validates p and runs its registrations. It fails on duplicate pack
// names, host-version constraint violations, and registration errors; a pack
// that fails mid-registration is not recorded, though registrations that
// already ran stay in place.
func (in *Installer[H]) Install(p Pack[H]) error {
	metadata := p.Metadata()

	if _, exists := in.packs[metadata.Name]; exists {
		return errors.Newf("handler pack already installed: %s", metadata.Name)
	}

	if err := in.validateHostVersion(metadata); err != nil {
		return errors.Wrapf(err, "version incompatible for %s", metadata.Name)
	}

	if err := p.Register(in.reg); err != nil {
		return errors.Wrapf(err, "failed to install handler pack %s", metadata.Name)
	}

	in.packs[metadata.Name] = p
	return nil
}

// InstallAll installs packs in the order given. Order is the caller's
// contract: a pack may deliberately layer custom overrides on a baseline
// installed before it. The first failure stops the sequence.
func (in *Installer[H]) InstallAll(packs ...Pack[H]) error {
	for _, p := range packs {
		if err := in.Install(p); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves an installed pack by name.
func (in *Installer[H]) Get(name string) (Pack[H], bool) {
	p, ok := in.packs[name]
	return p, ok
}

// List returns all installed pack names in sorted order.
func (in *Installer[H]) List() []string {
	names := make([]string, 0, len(in.packs))
	for name := range in.packs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Installed returns metadata for every installed pack, sorted by name.
func (in *Installer[H]) Installed() []Metadata {
	result := make([]Metadata, 0, len(in.packs))
	for _, name := range in.List() {
		result = append(result, in.packs[name].Metadata())
	}
	return result
}

// validateHostVersion checks the pack's constraint against the host version.
func (in *Installer[H]) validateHostVersion(metadata Metadata) error {
	if metadata.HostVersion == "" {
		// No version constraint specified
		return nil
	}

	host, err := semver.NewVersion(in.hostVersion)
	if err != nil {
		return errors.Wrapf(err, "invalid host version %s", in.hostVersion)
	}

	constraint, err := semver.NewConstraint(metadata.HostVersion)
	if err != nil {
		return errors.Wrapf(err, "invalid version constraint %s", metadata.HostVersion)
	}

	if !constraint.Check(host) {
		return errors.Newf("pack requires symreg %s, but running %s", metadata.HostVersion, in.hostVersion)
	}

	return nil
}
