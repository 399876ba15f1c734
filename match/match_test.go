package match

import "testing"

var categories = []string{"Select category", "Plumbing", "Plumbing Services", "Electrical"}

func TestSelect_ExactBeatsSubstring(t *testing.T) {
	idx, ok := Select(categories, "Plumbing", ModeStrict)
	if !ok || idx != 1 {
		t.Fatalf("got %d, %v; want 1 (exact match, not Plumbing Services)", idx, ok)
	}
}

func TestSelect_FuzzyFirstInListOrder(t *testing.T) {
	idx, ok := Select(categories, "Plumb", ModeStrict)
	if !ok || idx != 1 {
		t.Fatalf("got %d, %v; want 1 (first substring match)", idx, ok)
	}
}

func TestSelect_NoMatch(t *testing.T) {
	if idx, ok := Select(categories, "Roofing", ModeStrict); ok {
		t.Fatalf("expected no match, got %d", idx)
	}
}

func TestSelect_StrictIsCaseSensitiveInPhase1(t *testing.T) {
	opts := []string{"plumbing supplies", "Plumbing"}

	// Strict: "PLUMBING" matches nothing case-sensitively, so phase 2's
	// case-insensitive scan picks the first bidirectional hit in list order.
	idx, ok := Select(opts, "PLUMBING", ModeStrict)
	if !ok || idx != 0 {
		t.Fatalf("strict: got %d, %v; want 0 via fuzzy phase", idx, ok)
	}

	// Loose: phase 1 equality is case-insensitive, so the exact (folded)
	// match wins over the earlier substring option.
	idx, ok = Select(opts, "PLUMBING", ModeLoose)
	if !ok || idx != 1 {
		t.Fatalf("loose: got %d, %v; want 1 via folded equality", idx, ok)
	}
}

func TestSelect_BidirectionalFuzzy(t *testing.T) {
	// Option text contained inside the target.
	opts := []string{"Select country", "United States"}
	idx, ok := Select(opts, "united states of america", ModeLoose)
	if !ok || idx != 1 {
		t.Fatalf("got %d, %v; want 1", idx, ok)
	}
}

func TestSelect_TrimsWhitespace(t *testing.T) {
	opts := []string{"  Plumbing  ", "Electrical"}
	idx, ok := Select(opts, " Plumbing ", ModeStrict)
	if !ok || idx != 0 {
		t.Fatalf("got %d, %v; want 0", idx, ok)
	}
}

func TestSelect_EmptyInputs(t *testing.T) {
	if _, ok := Select(nil, "x", ModeStrict); ok {
		t.Fatal("match on empty option list")
	}
	if _, ok := Select(categories, "  ", ModeStrict); ok {
		t.Fatal("match on blank target")
	}
}

func TestSelect_EmptyOptionNeverFuzzyMatches(t *testing.T) {
	// A placeholder option with empty text must not win the bidirectional
	// phase just because "" is a substring of everything.
	opts := []string{"", "Electrical"}
	idx, ok := Select(opts, "Electric", ModeStrict)
	if !ok || idx != 1 {
		t.Fatalf("got %d, %v; want 1", idx, ok)
	}
}

func TestTexts(t *testing.T) {
	type opt struct{ label string }
	got := Texts([]opt{{"a"}, {"b"}}, func(o opt) string { return o.label })
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v", got)
	}
}
