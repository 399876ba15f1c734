// Package fill writes values into detected controls. Every successful write
// emits the fixed notification sequence (input, change, blur) so the host
// page observes the change as if a user typed it, then applies a transient
// highlight. Batch fills pace themselves with a fixed inter-item delay.
//
// The filler makes no durability promise: the host page's own scripts may
// overwrite a value right after the call returns.
package fill

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jawadgarzaldeen1/filling-sub001/dom"
	"github.com/jawadgarzaldeen1/filling-sub001/match"
)

// Default pacing constants. Both are empirical and configurable; see
// Options.
const (
	DefaultHighlightColor    = "#c8e6c9"
	DefaultHighlightDuration = 2 * time.Second
	DefaultInterFillDelay    = 100 * time.Millisecond
)

// Options tunes highlight and pacing behaviour.
type Options struct {
	HighlightColor    string
	HighlightDuration time.Duration
	InterFillDelay    time.Duration
	Logger            *slog.Logger
}

func (o *Options) defaults() {
	if o.HighlightColor == "" {
		o.HighlightColor = DefaultHighlightColor
	}
	if o.HighlightDuration <= 0 {
		o.HighlightDuration = DefaultHighlightDuration
	}
	if o.InterFillDelay <= 0 {
		o.InterFillDelay = DefaultInterFillDelay
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Filler writes values into controls and tracks what it has written.
type Filler struct {
	opts Options

	mu     sync.Mutex
	filled map[dom.Identity]struct{}
}

// New creates a Filler.
func New(opts Options) *Filler {
	opts.defaults()
	return &Filler{opts: opts, filled: make(map[dom.Identity]struct{})}
}

// Fill writes value into el. It returns false without touching the control
// when el is nil, value is empty, or the control is disabled or read-only;
// write and notification failures are logged and also yield false. Re-filling
// an already-filled control is allowed and idempotent in effect.
func (f *Filler) Fill(ctx context.Context, el dom.Element, value string) bool {
	if el == nil || value == "" {
		return false
	}
	if ctx != nil && ctx.Err() != nil {
		return false
	}
	if el.Disabled() || el.ReadOnly() {
		return false
	}

	id := dom.IdentityOf(el)
	if err := el.SetValue(value); err != nil {
		f.opts.Logger.Warn("fill: write failed", "control", id, "error", err)
		return false
	}
	if err := el.Dispatch(dom.FillEvents...); err != nil {
		f.opts.Logger.Warn("fill: notify failed", "control", id, "error", err)
		return false
	}
	if err := el.Highlight(f.opts.HighlightColor, f.opts.HighlightDuration); err != nil {
		f.opts.Logger.Debug("fill: highlight failed", "control", id, "error", err)
	}

	f.mu.Lock()
	f.filled[id] = struct{}{}
	f.mu.Unlock()

	f.opts.Logger.Debug("fill: wrote value", "control", id)
	return true
}

// FillMany fills els strictly in order, sleeping the inter-fill delay
// between items. A failed item is logged inside Fill and skipped; the batch
// continues. It returns the number of successful fills. Context cancellation
// (including orchestrator invalidation) stops the batch between items.
func (f *Filler) FillMany(ctx context.Context, els []dom.Element, value string) int {
	count := 0
	for i, el := range els {
		if ctx != nil && ctx.Err() != nil {
			f.opts.Logger.Info("fill: batch stopped early", "done", i, "total", len(els))
			break
		}
		if f.Fill(ctx, el, value) {
			count++
		}
		if i < len(els)-1 {
			if !sleep(ctx, f.opts.InterFillDelay) {
				break
			}
		}
	}
	return count
}

// SelectOption matches target against el's option list and, on a match, sets
// the selection to the matched option's underlying value followed by the
// same notification and highlight behaviour as Fill. No match leaves the
// current selection untouched and returns false.
func (f *Filler) SelectOption(ctx context.Context, el dom.Element, target string, mode match.Mode) bool {
	if el == nil || target == "" {
		return false
	}
	if ctx != nil && ctx.Err() != nil {
		return false
	}
	if el.Disabled() || el.ReadOnly() {
		return false
	}

	id := dom.IdentityOf(el)
	opts, err := el.Options()
	if err != nil {
		f.opts.Logger.Warn("fill: options unavailable", "control", id, "error", err)
		return false
	}
	idx, ok := match.Select(match.Texts(opts, func(o dom.Option) string { return o.Text }), target, mode)
	if !ok {
		return false
	}

	if err := el.SelectValue(opts[idx].Value); err != nil {
		f.opts.Logger.Warn("fill: select failed", "control", id, "error", err)
		return false
	}
	if err := el.Dispatch(dom.FillEvents...); err != nil {
		f.opts.Logger.Warn("fill: notify failed", "control", id, "error", err)
		return false
	}
	if err := el.Highlight(f.opts.HighlightColor, f.opts.HighlightDuration); err != nil {
		f.opts.Logger.Debug("fill: highlight failed", "control", id, "error", err)
	}

	f.mu.Lock()
	f.filled[id] = struct{}{}
	f.mu.Unlock()

	f.opts.Logger.Debug("fill: selected option", "control", id, "option", opts[idx].Text)
	return true
}

// Check sets a radio/checkbox control to checked with the same notification
// and highlight behaviour as Fill. An already-checked control is left
// untouched and reported as false (no-op, not success).
func (f *Filler) Check(ctx context.Context, el dom.Element) bool {
	if el == nil {
		return false
	}
	if ctx != nil && ctx.Err() != nil {
		return false
	}
	if el.Disabled() || el.Checked() {
		return false
	}

	id := dom.IdentityOf(el)
	if err := el.SetChecked(true); err != nil {
		f.opts.Logger.Warn("fill: check failed", "control", id, "error", err)
		return false
	}
	if err := el.Dispatch(dom.FillEvents...); err != nil {
		f.opts.Logger.Warn("fill: notify failed", "control", id, "error", err)
		return false
	}
	if err := el.Highlight(f.opts.HighlightColor, f.opts.HighlightDuration); err != nil {
		f.opts.Logger.Debug("fill: highlight failed", "control", id, "error", err)
	}

	f.mu.Lock()
	f.filled[id] = struct{}{}
	f.mu.Unlock()
	return true
}

// FilledCount returns how many distinct controls have been written during
// this page lifetime. Bookkeeping only: it never gates a re-fill.
func (f *Filler) FilledCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.filled)
}

// sleep waits d or until ctx is done; it reports whether the full delay
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if ctx == nil {
		time.Sleep(d)
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
