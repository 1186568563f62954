package registry

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/symreg/errors"
	"github.com/teranos/symreg/internal/util"
	"github.com/teranos/symreg/opset"
)

// NameSeparator splits the domain from the operator in a qualified name,
// e.g. "aten::relu".
const NameSeparator = "::"

// SplitQualifiedName splits "domain::operator" into its parts, cutting at
// the first separator. ok is false when the separator is missing.
func SplitQualifiedName(name string) (domain, op string, ok bool) {
	return strings.Cut(name, NameSeparator)
}

// Registry maps qualified operator names to their function groups. It is not
// safe for concurrent use; see the package documentation for the write/read
// phase model.
type Registry[H any] struct {
	groups map[string]*FunctionGroup[H]
	log    *zap.SugaredLogger
}

// New creates an empty registry. log receives non-fatal advisories
// (overwritten built-in registrations, redundant removals); nil falls back
// to the process logger, which drops output unless logger.Initialize ran.
func New[H any](log *zap.SugaredLogger) *Registry[H] {
	return &Registry[H]{
		groups: make(map[string]*FunctionGroup[H]),
		log:    log,
	}
}

// Register records a handler for a qualified name at a version. Custom
// registrations shadow built-in ones at the same version until Unregister.
// A name without the "domain::operator" form fails with ErrInvalidName and
// leaves the registry untouched.
func (r *Registry[H]) Register(name string, version opset.Version, fn H, custom bool) error {
	if _, _, ok := SplitQualifiedName(name); !ok {
		return errors.Wrapf(errors.ErrInvalidName,
			"name %q must be in the form of domain%sop", name, NameSeparator)
	}

	group, ok := r.groups[name]
	if !ok {
		group = newFunctionGroup[H](name, r.log)
		r.groups[name] = group
	}

	if custom {
		group.AddCustom(fn, version)
	} else {
		group.Add(fn, version)
	}
	return nil
}

// Unregister withdraws a custom handler for name at version. Built-in
// registrations are permanent for the life of the registry; only custom ones
// can be withdrawn. Unknown names are ignored.
func (r *Registry[H]) Unregister(name string, version opset.Version) {
	group, ok := r.groups[name]
	if !ok {
		return
	}
	group.RemoveCustom(version)
}

// Group returns the function group registered under name.
func (r *Registry[H]) Group(name string) (*FunctionGroup[H], bool) {
	group, ok := r.groups[name]
	return group, ok
}

// IsRegisteredOp reports whether a handler resolves for name at the given
// version.
func (r *Registry[H]) IsRegisteredOp(name string, version opset.Version) bool {
	group, ok := r.groups[name]
	if !ok {
		return false
	}
	_, ok = group.Get(version)
	return ok
}

// Names returns every registered qualified name in sorted order.
func (r *Registry[H]) Names() []string {
	names := make([]string, 0, len(r.groups))
	for name := range r.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the handler serving name at version, or an
// UnsupportedOperatorError: carrying the group's minimum supported version
// when the operator is known but cannot serve the request, and nothing when
// the name is unknown entirely.
func (r *Registry[H]) Resolve(name string, version opset.Version) (H, error) {
	var zero H

	group, ok := r.groups[name]
	if !ok {
		return zero, errors.NewUnsupportedOperator(name, version, nil)
	}

	fn, ok := group.Get(version)
	if !ok {
		var minSupported *opset.Version
		if min, err := group.MinSupported(); err == nil {
			minSupported = util.Ptr(min)
		}
		return zero, errors.NewUnsupportedOperator(name, version, minSupported)
	}
	return fn, nil
}
