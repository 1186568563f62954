// Package overlay provides a two-layer map that keeps built-in entries and
// caller overrides separate while reads see only the merged view.
package overlay

// Map layers override entries on top of base entries. An override always
// shadows the base entry at the same key; removing the override falls back
// to the base entry if one exists. The merged view is recomputed
// synchronously on every mutation, so reads never observe a stale merge.
//
// A Map is not safe for concurrent use.
type Map[K comparable, V any] struct {
	base      map[K]V
	overrides map[K]V
	merged    map[K]V
}

// New returns an empty Map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		base:      make(map[K]V),
		overrides: make(map[K]V),
		merged:    make(map[K]V),
	}
}

// SetBase inserts or replaces a base-layer entry. The merged entry changes
// only if key is not overridden.
func (m *Map[K, V]) SetBase(key K, value V) {
	m.base[key] = value
	m.remerge()
}

// Override inserts or replaces an override-layer entry. The merged entry for
// key becomes value immediately.
func (m *Map[K, V]) Override(key K, value V) {
	m.overrides[key] = value
	m.merged[key] = value
}

// RemoveOverride deletes key from the override layer. Removing a key that
// was never overridden is a no-op; the base layer is untouched either way.
// It reports whether an override was actually removed.
func (m *Map[K, V]) RemoveOverride(key K) bool {
	if _, ok := m.overrides[key]; !ok {
		return false
	}
	delete(m.overrides, key)
	m.remerge()
	return true
}

// Get returns the merged entry for key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.merged[key]
	return v, ok
}

// Contains reports whether key is present in the merged view.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.merged[key]
	return ok
}

// Len returns the number of merged entries.
func (m *Map[K, V]) Len() int {
	return len(m.merged)
}

// Keys returns the merged keys in unspecified order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, len(m.merged))
	for k := range m.merged {
		keys = append(keys, k)
	}
	return keys
}

// InBase reports whether key is present in the base layer, shadowed or not.
func (m *Map[K, V]) InBase(key K) bool {
	_, ok := m.base[key]
	return ok
}

// Overridden reports whether key is present in the override layer.
func (m *Map[K, V]) Overridden(key K) bool {
	_, ok := m.overrides[key]
	return ok
}

// OverriddenKeys returns the override-layer keys in unspecified order.
func (m *Map[K, V]) OverriddenKeys() []K {
	keys := make([]K, 0, len(m.overrides))
	for k := range m.overrides {
		keys = append(keys, k)
	}
	return keys
}

// remerge rebuilds the merged view from both layers.
func (m *Map[K, V]) remerge() {
	merged := make(map[K]V, len(m.base)+len(m.overrides))
	for k, v := range m.base {
		merged[k] = v
	}
	for k, v := range m.overrides {
		merged[k] = v
	}
	m.merged = merged
}
