package registry

import (
	"github.com/teranos/symreg/errors"
	"github.com/teranos/symreg/opset"
)

// Decorator transforms a handler before it is stored. Decorators come from
// the embedding system (argument unpacking, quantization wrappers) and apply
// to the stored handler only; the value the caller holds is untouched.
type Decorator[H any] func(H) H

// RegisterSymbolic registers fn as the built-in handler for name at every
// listed version. Decorators apply in declared order, the first innermost,
// before storage.
//
// At least one version is required. The name is validated up front, so a
// failed call leaves the registry unchanged.
func (r *Registry[H]) RegisterSymbolic(name string, versions []opset.Version, fn H, decorate ...Decorator[H]) error {
	return r.registerSymbolic(name, versions, fn, decorate, false)
}

// RegisterCustomSymbolic registers fn as the custom handler for name at
// every listed version, shadowing built-ins there until Unregister. It
// decorates like RegisterSymbolic.
func (r *Registry[H]) RegisterCustomSymbolic(name string, versions []opset.Version, fn H, decorate ...Decorator[H]) error {
	return r.registerSymbolic(name, versions, fn, decorate, true)
}

func (r *Registry[H]) registerSymbolic(name string, versions []opset.Version, fn H, decorate []Decorator[H], custom bool) error {
	if _, _, ok := SplitQualifiedName(name); !ok {
		return errors.Wrapf(errors.ErrInvalidName,
			"name %q must be in the form of domain%sop", name, NameSeparator)
	}
	if len(versions) == 0 {
		return errors.Newf("registering %q: at least one version is required", name)
	}

	decorated := fn
	for _, d := range decorate {
		decorated = d(decorated)
	}

	for _, version := range versions {
		if err := r.Register(name, version, decorated, custom); err != nil {
			return err
		}
	}
	return nil
}
