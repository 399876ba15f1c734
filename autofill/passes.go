package autofill

import (
	"context"
	"time"

	"github.com/jawadgarzaldeen1/filling-sub001/dom"
	"github.com/jawadgarzaldeen1/filling-sub001/fieldmap"
	"github.com/jawadgarzaldeen1/filling-sub001/match"
	"github.com/jawadgarzaldeen1/filling-sub001/profile"
)

// snapshot is the profile state one pass runs against. Taken under the lock
// once so a signal arriving mid-pass cannot produce a half-updated fill.
type snapshot struct {
	selectors fieldmap.SelectorSet
	category  string
	location  profile.Location
	social    []profile.SocialLink
	universal map[string]string
	password  string
}

func (e *Engine) snapshot() snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot{
		selectors: e.selectors,
		category:  e.category,
		location:  e.location,
		social:    e.social,
		universal: e.universal,
		password:  e.password,
	}
}

func (e *Engine) runPasses(ctx context.Context, doc dom.Document) int {
	snap := e.snapshot()
	n := 0
	for _, pass := range []func(context.Context, dom.Document, snapshot) int{
		e.fillUniversal,
		e.fillSocial,
		e.fillPassword,
		e.selectCategory,
		e.fillLocation,
	} {
		if e.stopped(ctx) {
			return n
		}
		n += pass(ctx, doc, snap)
	}
	e.runRadioPass(ctx)
	return n
}

// fillUniversal writes the universal form data in registry order. Controls
// keep the newest profile value: a control filled by an earlier pass is
// written again, so data updates land on the page.
func (e *Engine) fillUniversal(ctx context.Context, doc dom.Document, snap snapshot) int {
	n := 0
	for _, ft := range fieldmap.UniversalFields {
		value := snap.universal[string(ft)]
		if value == "" {
			continue
		}
		if e.fillField(ctx, doc, snap, ft, value) {
			n++
			if !e.pause(ctx) {
				return n
			}
		}
		if e.stopped(ctx) {
			return n
		}
	}
	return n
}

func (e *Engine) fillSocial(ctx context.Context, doc dom.Document, snap snapshot) int {
	n := 0
	for _, link := range snap.social {
		if !link.IsActive || link.URL == "" {
			continue
		}
		ft, ok := fieldmap.SocialField(link.Platform)
		if !ok {
			e.logger.Debug("autofill: unknown social platform", "platform", link.Platform)
			continue
		}
		if e.fillField(ctx, doc, snap, ft, link.URL) {
			n++
			if !e.pause(ctx) {
				return n
			}
		}
		if e.stopped(ctx) {
			return n
		}
	}
	return n
}

func (e *Engine) fillPassword(ctx context.Context, doc dom.Document, snap snapshot) int {
	if snap.password == "" {
		return 0
	}
	if e.fillField(ctx, doc, snap, fieldmap.Password, snap.password) {
		return 1
	}
	return 0
}

// selectCategory resolves the selected category against the first category
// dropdown whose options match it. Category names are matched strictly:
// case-sensitive first, fuzzy fallback second.
func (e *Engine) selectCategory(ctx context.Context, doc dom.Document, snap snapshot) int {
	if snap.category == "" {
		return 0
	}
	for _, c := range e.detector.FindCandidates(doc, snap.selectors, fieldmap.Category) {
		if c.El.Tag() != "select" {
			continue
		}
		if e.filler.SelectOption(ctx, c.El, snap.category, match.ModeStrict) {
			return 1
		}
	}
	return 0
}

// fillLocation applies the stored location: country and region resolve
// against dropdowns with loose matching, city and street address are plain
// text fills (with a dropdown fallback when the page offers one).
func (e *Engine) fillLocation(ctx context.Context, doc dom.Document, snap snapshot) int {
	n := 0
	parts := []struct {
		ft    fieldmap.FieldType
		value string
	}{
		{fieldmap.Country, snap.location.Country},
		{fieldmap.Region, snap.location.Region},
		{fieldmap.Locality, snap.location.City},
		{fieldmap.Street, snap.location.Address},
	}
	for _, p := range parts {
		if p.value == "" {
			continue
		}
		if e.fillField(ctx, doc, snap, p.ft, p.value) {
			n++
			if !e.pause(ctx) {
				return n
			}
		}
		if e.stopped(ctx) {
			return n
		}
	}
	return n
}

// fillField writes value into the best candidate for ft. Dropdown candidates
// resolve via loose option matching; everything else is a plain fill. At
// most one control is written per call.
func (e *Engine) fillField(ctx context.Context, doc dom.Document, snap snapshot, ft fieldmap.FieldType, value string) bool {
	if e.cfg.Validate != nil && !e.cfg.Validate(string(ft), value) {
		e.logger.Debug("autofill: value rejected by validator", "field", ft)
		return false
	}

	for _, c := range e.detector.FindCandidates(doc, snap.selectors, ft) {
		if !dom.Fillable(c.El) {
			continue
		}
		if c.El.Tag() == "select" {
			if e.filler.SelectOption(ctx, c.El, value, match.ModeLoose) {
				return true
			}
			continue
		}
		if e.filler.Fill(ctx, c.El, value) {
			return true
		}
	}
	return false
}

// pause waits the inter-fill delay between successive writes of one pass.
// It returns false when ctx ended or the engine was invalidated during the
// wait; a pass sleeping here must not outlive invalidation.
func (e *Engine) pause(ctx context.Context) bool {
	t := time.NewTimer(e.cfg.InterFillDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-e.done:
		return false
	case <-t.C:
		return true
	}
}

// stopped reports whether a running pass should give up between items.
func (e *Engine) stopped(ctx context.Context) bool {
	return ctx.Err() != nil || e.State() == StateInvalidated
}
