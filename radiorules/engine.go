// Package radiorules decides which radio inputs to check on a page. Three
// rule sources combine: a static per-origin table, generic consent
// heuristics applied everywhere, and user rules persisted in the profile
// store. Checking a radio emits the same notifications and transient
// highlight as any other fill; a radio that is already checked is left
// untouched.
package radiorules

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jawadgarzaldeen1/filling-sub001/dom"
	"github.com/jawadgarzaldeen1/filling-sub001/fill"
)

// ErrNoStore is returned by rule mutations on an engine built without a
// persistence store.
var ErrNoStore = errors.New("radiorules: no store configured")

// Store is the persistence surface the engine needs from the profile store.
type Store interface {
	RadioRules(ctx context.Context) (map[string]bool, error)
	PutRadioRule(ctx context.Context, pattern string, apply bool) error
	DeleteRadioRule(ctx context.Context, pattern string) error
}

// Engine applies radio rules to a document.
type Engine struct {
	store  Store
	filler *fill.Filler
	logger *slog.Logger

	mu      sync.Mutex
	enabled bool
	rules   map[string]bool
}

// New creates an Engine. The persisted rules are loaded lazily on the first
// Apply (or explicitly via Reload).
func New(store Store, filler *fill.Filler, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:   store,
		filler:  filler,
		logger:  logger,
		enabled: true,
	}
}

// SetEnabled toggles the engine. A disabled engine's Apply is a no-op.
func (e *Engine) SetEnabled(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = v
}

// Enabled reports the toggle state.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// Reload refreshes the in-memory rule map from the store. A storage failure
// keeps the previous map and is logged. Without a store the map stays empty.
func (e *Engine) Reload(ctx context.Context) {
	if e.store == nil {
		e.mu.Lock()
		if e.rules == nil {
			e.rules = make(map[string]bool)
		}
		e.mu.Unlock()
		return
	}
	rules, err := e.store.RadioRules(ctx)
	if err != nil {
		e.logger.Warn("radiorules: load failed, keeping previous rules", "error", err)
		return
	}
	e.mu.Lock()
	e.rules = rules
	e.mu.Unlock()
}

// Rules returns a copy of the in-memory rule map.
func (e *Engine) Rules(ctx context.Context) map[string]bool {
	e.mu.Lock()
	if e.rules == nil {
		e.mu.Unlock()
		e.Reload(ctx)
		e.mu.Lock()
	}
	out := make(map[string]bool, len(e.rules))
	for p, a := range e.rules {
		out[p] = a
	}
	e.mu.Unlock()
	return out
}

// AddRule persists a rule and updates the in-memory map. It does not
// re-apply selections; callers re-invoke Apply when they want the new rule
// to take effect.
func (e *Engine) AddRule(ctx context.Context, pattern string, apply bool) error {
	if e.store == nil {
		return ErrNoStore
	}
	if err := e.store.PutRadioRule(ctx, pattern, apply); err != nil {
		return err
	}
	e.mu.Lock()
	if e.rules == nil {
		e.rules = make(map[string]bool)
	}
	e.rules[pattern] = apply
	e.mu.Unlock()
	return nil
}

// RemoveRule deletes a rule from the store and the in-memory map. Like
// AddRule it never re-applies selections.
func (e *Engine) RemoveRule(ctx context.Context, pattern string) error {
	if e.store == nil {
		return ErrNoStore
	}
	if err := e.store.DeleteRadioRule(ctx, pattern); err != nil {
		return err
	}
	e.mu.Lock()
	delete(e.rules, pattern)
	e.mu.Unlock()
	return nil
}

// Apply runs one selection pass over doc and returns the number of radios
// newly checked. Already-checked radios are no-ops and do not count. A
// malformed pattern is logged and skipped, never aborting the remaining
// rules.
func (e *Engine) Apply(ctx context.Context, doc dom.Document) int {
	e.mu.Lock()
	enabled := e.enabled
	needLoad := e.rules == nil
	e.mu.Unlock()
	if !enabled {
		return 0
	}
	if needLoad {
		e.Reload(ctx)
	}

	checked := 0
	for _, r := range OriginRules(doc.Origin()) {
		if !r.ShouldApply {
			continue
		}
		checked += e.applyPattern(ctx, doc, r.Pattern)
	}

	checked += e.applyGeneric(ctx, doc)

	for pattern, apply := range e.Rules(ctx) {
		if !apply {
			continue
		}
		checked += e.applyPattern(ctx, doc, pattern)
	}
	return checked
}

func (e *Engine) applyPattern(ctx context.Context, doc dom.Document, pattern string) int {
	els, err := doc.Query(pattern)
	if err != nil {
		e.logger.Warn("radiorules: pattern skipped", "pattern", pattern, "error", err)
		return 0
	}
	checked := 0
	for _, el := range els {
		if e.check(ctx, el) {
			checked++
		}
	}
	return checked
}

func (e *Engine) applyGeneric(ctx context.Context, doc dom.Document) int {
	els, err := doc.Query(`input[type=radio]`)
	if err != nil {
		e.logger.Warn("radiorules: generic scan failed", "error", err)
		return 0
	}
	checked := 0
	for _, el := range els {
		nameID := el.Attr("name") + " " + el.Attr("id")
		if !GenericConsent(nameID, el.Attr("value")) {
			continue
		}
		if e.check(ctx, el) {
			checked++
		}
	}
	return checked
}

// check sets one radio through the shared filler. Idempotent: an
// already-checked radio is a no-op.
func (e *Engine) check(ctx context.Context, el dom.Element) bool {
	if el.Tag() != "input" || el.Type() != "radio" {
		return false
	}
	if !e.filler.Check(ctx, el) {
		return false
	}
	e.logger.Debug("radiorules: checked radio", "control", dom.IdentityOf(el))
	return true
}
