// Package match implements the shared option-matching algorithm used for
// category selection, location selection, and the radio rule engine's value
// comparisons: a deterministic two-phase search over a finite choice list.
//
// Phase 1 prefers an option whose trimmed text equals the target, then one
// containing the target as a substring. Phase 2 falls back to a
// case-insensitive bidirectional substring test. First match in list order
// wins within each step; no match leaves the control untouched.
package match

import "strings"

// Mode controls the case sensitivity of phase 1.
type Mode int

const (
	// ModeStrict runs phase 1 case-sensitively. Category flows use this;
	// the case-insensitive fallback only happens in phase 2.
	ModeStrict Mode = iota
	// ModeLoose runs phase 1 case-insensitively from the start. Location
	// and radio flows use this.
	ModeLoose
)

// Select returns the index of the best option text for target, or -1, false
// when neither phase finds a match. Option texts are trimmed before
// comparison; the target is trimmed once up front.
func Select(options []string, target string, mode Mode) (int, bool) {
	target = strings.TrimSpace(target)
	if target == "" || len(options) == 0 {
		return -1, false
	}

	eq := func(a, b string) bool { return a == b }
	contains := strings.Contains
	if mode == ModeLoose {
		eq = strings.EqualFold
		contains = containsFold
	}

	// Phase 1: exact equality beats substring containment; each step scans
	// the whole list before the next weaker step runs.
	for i, opt := range options {
		if eq(strings.TrimSpace(opt), target) {
			return i, true
		}
	}
	for i, opt := range options {
		if contains(strings.TrimSpace(opt), target) {
			return i, true
		}
	}

	// Phase 2: case-insensitive bidirectional substring.
	lt := strings.ToLower(target)
	for i, opt := range options {
		lo := strings.ToLower(strings.TrimSpace(opt))
		if lo == "" {
			continue
		}
		if strings.Contains(lo, lt) || strings.Contains(lt, lo) {
			return i, true
		}
	}

	return -1, false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Texts extracts the display texts from a generic option slice. It keeps
// callers from building throwaway string slices by hand at every call site.
func Texts[T any](opts []T, text func(T) string) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = text(o)
	}
	return out
}
