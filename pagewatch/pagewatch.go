// Package pagewatch turns document insertion notifications into debounced
// re-run triggers. The first qualifying insertion arms a fixed-delay timer;
// further qualifying insertions inside that window are absorbed, so one
// window produces exactly one trigger. The timer deliberately does not reset
// on later events: a single fixed delay after the first qualifying event is
// the observed, sufficient behaviour.
package pagewatch

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jawadgarzaldeen1/filling-sub001/dom"
)

// DefaultDebounce is the fixed delay between the first qualifying insertion
// and the scheduled re-run.
const DefaultDebounce = 500 * time.Millisecond

// Predicate decides whether an insertion is interesting.
type Predicate func(dom.Insertion) bool

// FormControls qualifies insertions that carry at least one
// input/select/textarea descendant (or are one themselves).
func FormControls(ins dom.Insertion) bool { return ins.HasFormControls }

// RadioInputs qualifies insertions that carry a radio input. Used by the
// radio rule engine's watcher instance.
func RadioInputs(ins dom.Insertion) bool { return ins.HasRadio }

// Options tunes a watcher.
type Options struct {
	Predicate Predicate
	Debounce  time.Duration
	Logger    *slog.Logger
}

func (o *Options) defaults() {
	if o.Predicate == nil {
		o.Predicate = FormControls
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Watch subscribes to src and calls onTrigger once per debounce window in
// which at least one qualifying insertion occurred. onTrigger runs on a
// timer goroutine; it is never called after ctx is done. The returned stop
// function detaches from src.
func Watch(ctx context.Context, src dom.Notifier, opts Options, onTrigger func()) (func(), error) {
	opts.defaults()

	var armed atomic.Bool
	stop, err := src.OnInsert(ctx, func(ins dom.Insertion) {
		if !opts.Predicate(ins) {
			return
		}
		// First qualifying event in the window schedules the run; the
		// rest collapse into it.
		if !armed.CompareAndSwap(false, true) {
			return
		}
		opts.Logger.Debug("pagewatch: re-run scheduled", "delay", opts.Debounce)
		time.AfterFunc(opts.Debounce, func() {
			armed.Store(false)
			if ctx != nil && ctx.Err() != nil {
				return
			}
			onTrigger()
		})
	})
	if err != nil {
		return nil, err
	}
	return stop, nil
}
