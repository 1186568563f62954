// Package opset defines the schema version space handlers are registered
// against, and the directional nearest-match rule used to resolve a requested
// version to a registered one.
package opset

import (
	"sort"
	"strconv"
)

// Version identifies a target schema revision a handler was authored for.
type Version int

// String returns the decimal form of the version.
func (v Version) String() string {
	return strconv.Itoa(int(v))
}

// Version space anchors.
const (
	// Base is the anchor version. Registrations cluster around it, and
	// nearest-match resolution rounds toward it without ever crossing it.
	Base Version = 9

	// Min is the lowest schema version handlers may target.
	Min Version = 7

	// Max is the highest schema version handlers may target.
	Max Version = 20

	// Default is the version embedders export with when none is requested.
	Default Version = 17
)

// Supported reports whether v falls inside the supported version window.
func Supported(v Version) bool {
	return Min <= v && v <= Max
}

// Span returns the inclusive ascending range [lo, hi], or nil when lo > hi.
// Convenient for registering one handler across contiguous versions.
func Span(lo, hi Version) []Version {
	if lo > hi {
		return nil
	}
	vs := make([]Version, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		vs = append(vs, v)
	}
	return vs
}

// Nearest finds the registered version that should serve a request for
// target, given the versions actually available. The target itself need not
// be present.
//
// Resolution always rounds toward Base: prefer the greatest available
// version in [Base, target], then the smallest in [target, Base]. When every
// available version lies strictly on the far side of Base relative to the
// target, no version can sensibly serve the request and Nearest reports
// false.
//
// The linear scan is fine here: version sets stay small.
func Nearest(target Version, available []Version) (Version, bool) {
	if len(available) == 0 {
		return 0, false
	}
	sorted := make([]Version, len(available))
	copy(sorted, available)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	// Count down until Base is reached.
	for i := len(sorted) - 1; i >= 0; i-- {
		if v := sorted[i]; Base <= v && v <= target {
			return v, true
		}
	}

	// Count back up until Base is reached.
	for _, v := range sorted {
		if target <= v && v <= Base {
			return v, true
		}
	}

	return 0, false
}
