package registry

import (
	"sort"

	"go.uber.org/zap"

	"github.com/teranos/symreg/errors"
	"github.com/teranos/symreg/internal/util"
	"github.com/teranos/symreg/logger"
	"github.com/teranos/symreg/opset"
	"github.com/teranos/symreg/overlay"
)

// result is a memoized resolution outcome. Misses are memoized too: repeated
// lookups of versions nothing can serve are as common as hits.
type result[H any] struct {
	fn H
	ok bool
}

// FunctionGroup holds every handler registered under one qualified operator
// name and resolves version queries against them. Built-in handlers live in
// the base layer; custom handlers override them per version until removed.
//
// Groups are created by Registry the first time a name is registered. Like
// the registry, a group is not safe for concurrent use.
type FunctionGroup[H any] struct {
	name string
	fns  *overlay.Map[opset.Version, H]
	memo map[opset.Version]result[H]
	log  *zap.SugaredLogger
}

func newFunctionGroup[H any](name string, log *zap.SugaredLogger) *FunctionGroup[H] {
	return &FunctionGroup[H]{
		name: name,
		fns:  overlay.New[opset.Version, H](),
		memo: make(map[opset.Version]result[H]),
		log:  log,
	}
}

// Name returns the qualified operator name this group serves.
func (g *FunctionGroup[H]) Name() string {
	return g.name
}

// Get resolves the handler serving the requested version, rounding toward
// opset.Base per opset.Nearest. The requested version itself need not be
// registered. ok is false when no registered version can serve the request.
//
// Outcomes are memoized per requested version; every mutation drops the memo
// before returning, so a lookup after a registration change always resolves
// against the current version set.
func (g *FunctionGroup[H]) Get(version opset.Version) (H, bool) {
	if r, ok := g.memo[version]; ok {
		return r.fn, r.ok
	}

	var r result[H]
	if v, ok := opset.Nearest(version, g.fns.Keys()); ok {
		r.fn, r.ok = g.fns.Get(v)
	}
	g.memo[version] = r
	return r.fn, r.ok
}

// Add registers a built-in handler for a version. Built-in registrations are
// expected to be unique per version, so re-adding one replaces the handler
// and emits an advisory warning pointing at the caller bug.
func (g *FunctionGroup[H]) Add(fn H, version opset.Version) {
	if g.fns.InBase(version) {
		g.warnw("symbolic function already registered, overwriting",
			"name", g.name,
			"version", version,
		)
	}
	g.fns.SetBase(version, fn)
	g.invalidate()
}

// AddCustom registers a custom handler for a version. It shadows any
// built-in handler at the same version until RemoveCustom.
func (g *FunctionGroup[H]) AddCustom(fn H, version opset.Version) {
	g.fns.Override(version, fn)
	g.invalidate()
}

// RemoveCustom withdraws a custom handler, restoring the built-in one at the
// same version if present. Removing a version that was never overridden is a
// warned no-op.
func (g *FunctionGroup[H]) RemoveCustom(version opset.Version) {
	if !g.fns.RemoveOverride(version) {
		g.warnw("no custom symbolic function registered, nothing to remove",
			"name", g.name,
			"version", version,
		)
		return
	}
	g.invalidate()
}

// Versions returns every registered version, base and custom, in ascending
// order.
func (g *FunctionGroup[H]) Versions() []opset.Version {
	vs := g.fns.Keys()
	sort.Slice(vs, func(i, j int) bool { return vs[i] < vs[j] })
	return vs
}

// MinSupported returns the lowest registered version. It fails with
// ErrEmptyGroup when nothing is registered, which can only happen to a group
// whose custom registrations were all removed before any built-in landed.
func (g *FunctionGroup[H]) MinSupported() (opset.Version, error) {
	vs := g.fns.Keys()
	if len(vs) == 0 {
		return 0, errors.Wrapf(errors.ErrEmptyGroup, "operator %q", g.name)
	}
	return util.MinOf(vs[0], vs[1:]...), nil
}

// invalidate drops every memoized outcome. Runs on every mutation, before
// the group can serve another lookup.
func (g *FunctionGroup[H]) invalidate() {
	g.memo = make(map[opset.Version]result[H])
}

// warnw emits a non-fatal advisory through the group's logger, falling back
// to the process logger. Advisories never fail the operation.
func (g *FunctionGroup[H]) warnw(msg string, keysAndValues ...interface{}) {
	log := g.log
	if log == nil {
		log = logger.Logger
	}
	if log == nil {
		return
	}
	log.Warnw(msg, keysAndValues...)
}
