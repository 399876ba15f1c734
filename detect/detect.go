// Package detect finds, scores, deduplicates, and caches candidate controls
// for a semantic field type. It works against pages it has never seen: each
// selector is evaluated independently, a malformed pattern is skipped with a
// log line, and the survivors are ranked by an additive relevance score.
package detect

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/jawadgarzaldeen1/filling-sub001/dom"
	"github.com/jawadgarzaldeen1/filling-sub001/fieldmap"
)

// Candidate is a detected, scored reference to a page control.
type Candidate struct {
	El       dom.Element
	Identity dom.Identity
	Score    int
	Selector string
	Field    fieldmap.FieldType
}

// Detector enumerates candidates for field types against one document.
type Detector struct {
	cache  *Cache
	logger *slog.Logger
}

// New creates a Detector with its own cache.
func New(logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{cache: NewCache(), logger: logger}
}

// Cache exposes the detector's cache for explicit invalidation.
func (d *Detector) Cache() *Cache { return d.cache }

// FindCandidates evaluates the selector list for ft against doc and returns
// candidates ordered by descending score. Equal scores keep discovery order.
// At most one candidate is returned per (tag, name, id) identity; the first
// occurrence wins regardless of later scores. Repeat calls with the same
// (field type, selector list) return the cached result until the cache is
// cleared.
func (d *Detector) FindCandidates(doc dom.Document, set fieldmap.SelectorSet, ft fieldmap.FieldType) []Candidate {
	selectors := set.Selectors(ft)
	key := CacheKey(ft, selectors)
	if cached, ok := d.cache.Get(key); ok {
		return cached
	}

	var out []Candidate
	seen := make(map[dom.Identity]bool)

	for _, sel := range selectors {
		els, err := doc.Query(sel)
		if err != nil {
			// Fault isolation per pattern: a bad selector never aborts
			// the remaining ones.
			d.logger.Warn("detect: selector skipped", "field", ft, "selector", sel, "error", err)
			continue
		}
		for _, el := range els {
			id := dom.IdentityOf(el)
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, Candidate{
				El:       el,
				Identity: id,
				Score:    Score(el, ft),
				Selector: sel,
				Field:    ft,
			})
		}
	}

	// Stable: equal scores keep the discovery order of their first
	// occurrence.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	d.cache.Set(key, out)
	return out
}

// Scoring weights. The net score is clamped at zero.
const (
	scoreStructural   = 10 // any structural selector match
	scoreNameExact    = 20 // semantic name appears in name/id/placeholder
	scoreNamePrefix   = 10 // only the 3-char prefix appears
	scoreUsable       = 5  // visible, enabled, writable
	scoreEmpty        = 5  // empty or placeholder-only value
	penaltyUnfillable = 20 // hidden kind, disabled, or read-only
)

// Score computes the relevance of el for ft.
func Score(el dom.Element, ft fieldmap.FieldType) int {
	score := scoreStructural

	attrs := strings.ToLower(el.Attr("name") + " " + el.Attr("id") + " " + el.Attr("placeholder"))
	if strings.Contains(attrs, ft.Token()) {
		score += scoreNameExact
	} else if strings.Contains(attrs, ft.Prefix()) {
		score += scoreNamePrefix
	}

	if el.Visible() && !el.Disabled() && !el.ReadOnly() {
		score += scoreUsable
	}

	if v := el.Value(); v == "" || v == el.Attr("placeholder") {
		score += scoreEmpty
	}

	if el.Type() == "hidden" || el.Disabled() || el.ReadOnly() {
		score -= penaltyUnfillable
	}

	if score < 0 {
		score = 0
	}
	return score
}
