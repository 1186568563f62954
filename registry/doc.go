// Package registry implements a versioned registry for symbolic operator
// handlers.
//
// Handlers are registered under a qualified "domain::operator" name for one
// or more schema versions, either as built-ins or as custom overrides that
// shadow built-ins at the same version until removed. Lookups resolve a
// requested version to the nearest registered one, rounding toward
// opset.Base, and are memoized per group with the memo invalidated on every
// registration change.
//
// The registry is handler-agnostic: the type parameter H is whatever
// callable shape the embedding system dispatches, and the registry never
// invokes it.
//
// Registration is expected to happen in a single-writer setup phase with
// queries afterward, so neither Registry nor FunctionGroup carries internal
// locking. Embedders that interleave writers wrap the registry in their own
// mutex.
package registry
