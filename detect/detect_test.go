package detect

import (
	"testing"

	"github.com/jawadgarzaldeen1/filling-sub001/dom/htmldoc"
	"github.com/jawadgarzaldeen1/filling-sub001/fieldmap"
)

const page = `<html><body><form>
  <input type="email" name="email" id="main-email" placeholder="Email">
  <input type="text" name="contact-email">
  <input type="text" name="ema-field">
  <input type="hidden" name="secret" value="abc">
  <input type="text" name="email" id="main-email">
  <input type="email" name="email2" disabled>
</form></body></html>`

func testDoc(t *testing.T) *htmldoc.Doc {
	t.Helper()
	d, err := htmldoc.ParseString(page)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestFindCandidates_ScoresNonNegativeAndOrdered(t *testing.T) {
	doc := testDoc(t)
	det := New(nil)
	set := fieldmap.SelectorSet{fieldmap.Email: {`input`}}

	cands := det.FindCandidates(doc, set, fieldmap.Email)
	if len(cands) == 0 {
		t.Fatal("no candidates")
	}
	for i, c := range cands {
		if c.Score < 0 {
			t.Errorf("candidate %d has negative score %d", i, c.Score)
		}
		if i > 0 && cands[i-1].Score < c.Score {
			t.Errorf("candidates not in descending score order at %d", i)
		}
	}
}

func TestFindCandidates_DedupByIdentity(t *testing.T) {
	doc := testDoc(t)
	det := New(nil)
	// Both selectors match the same physical email input.
	set := fieldmap.SelectorSet{fieldmap.Email: {`input[type=email]`, `input[name=email]`, `input`}}

	cands := det.FindCandidates(doc, set, fieldmap.Email)
	seen := make(map[[3]string]bool)
	for _, c := range cands {
		key := [3]string{c.Identity.Tag, c.Identity.Name, c.Identity.ID}
		if seen[key] {
			t.Fatalf("duplicate identity %v", key)
		}
		seen[key] = true
	}
}

func TestFindCandidates_FirstOccurrenceWins(t *testing.T) {
	doc := testDoc(t)
	det := New(nil)
	// The first selector discovers the control as input[type=email]; the
	// later bare selector must not re-add or re-rank it.
	set := fieldmap.SelectorSet{fieldmap.Email: {`input[type=email]`, `input[name=email]`}}

	cands := det.FindCandidates(doc, set, fieldmap.Email)
	for _, c := range cands {
		if c.Identity.ID == "main-email" && c.Selector != `input[type=email]` {
			t.Fatalf("first-occurrence selector lost: %q", c.Selector)
		}
	}
}

func TestFindCandidates_MalformedSelectorIsolated(t *testing.T) {
	doc := testDoc(t)
	det := New(nil)
	set := fieldmap.SelectorSet{fieldmap.Email: {`input[`, `input[type=email]`}}

	cands := det.FindCandidates(doc, set, fieldmap.Email)
	if len(cands) == 0 {
		t.Fatal("malformed selector aborted the remaining patterns")
	}
}

func TestFindCandidates_CachedUntilClear(t *testing.T) {
	doc := testDoc(t)
	det := New(nil)
	set := fieldmap.SelectorSet{fieldmap.Email: {`input[type=email]`}}

	first := det.FindCandidates(doc, set, fieldmap.Email)
	if _, err := doc.AppendHTML("form", `<input type="email" name="added-email">`); err != nil {
		t.Fatal(err)
	}

	second := det.FindCandidates(doc, set, fieldmap.Email)
	if len(second) != len(first) {
		t.Fatal("cache missed without an intervening Clear")
	}

	det.Cache().Clear()
	third := det.FindCandidates(doc, set, fieldmap.Email)
	if len(third) != len(first)+1 {
		t.Fatalf("after clear: got %d candidates, want %d", len(third), len(first)+1)
	}
}

func TestCache_DistinctSelectorListsDoNotCollide(t *testing.T) {
	a := CacheKey(fieldmap.Email, []string{"input", "select"})
	b := CacheKey(fieldmap.Email, []string{"input"})
	c := CacheKey(fieldmap.Phone, []string{"input", "select"})
	if a == b || a == c {
		t.Fatalf("cache keys collide: %v %v %v", a, b, c)
	}
}

func TestScore_Weights(t *testing.T) {
	doc := testDoc(t)

	score := func(sel string) int {
		els, err := doc.Query(sel)
		if err != nil || len(els) == 0 {
			t.Fatalf("query %q: %v (%d)", sel, err, len(els))
		}
		return Score(els[0], fieldmap.Email)
	}

	cases := []struct {
		sel  string
		want int
	}{
		// structural + exact name + usable + empty
		{`input[id=main-email]`, 40},
		// "contact-email" also carries the full token
		{`input[name=contact-email]`, 40},
		// "ema-field" matches only the 3-char prefix
		{`input[name=ema-field]`, 30},
		// hidden, pre-filled, no semantic match: 10 - 20 clamped to 0
		{`input[name=secret]`, 0},
		// disabled but semantically named: 10 + 20 + 5(empty) - 20
		{`input[name=email2]`, 15},
	}
	for _, c := range cases {
		if got := score(c.sel); got != c.want {
			t.Errorf("score(%s) = %d, want %d", c.sel, got, c.want)
		}
	}
}
