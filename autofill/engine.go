// Package autofill orchestrates detection and filling over one page: it
// loads the profile, runs fill passes, re-runs them when the page mutates,
// and applies profile updates delivered as signals. The engine is a state
// machine; once invalidated it never operates on the page again.
package autofill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jawadgarzaldeen1/filling-sub001/detect"
	"github.com/jawadgarzaldeen1/filling-sub001/dom"
	"github.com/jawadgarzaldeen1/filling-sub001/fieldmap"
	"github.com/jawadgarzaldeen1/filling-sub001/fill"
	"github.com/jawadgarzaldeen1/filling-sub001/pagewatch"
	"github.com/jawadgarzaldeen1/filling-sub001/profile"
	"github.com/jawadgarzaldeen1/filling-sub001/radiorules"
)

// State is the engine lifecycle state.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateInvalidated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateInvalidated:
		return "invalidated"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// ErrStarted is returned by Start on an engine that already left
// StateUninitialized.
var ErrStarted = errors.New("autofill: engine already started")

// Engine drives autofill over one document.
type Engine struct {
	cfg    *Config
	store  *profile.Store
	logger *slog.Logger

	detector *detect.Detector
	filler   *fill.Filler
	radio    *radiorules.Engine

	// baseLevel is restored when settings turn debug mode off.
	baseLevel slog.Level

	state   atomic.Int32
	signals chan Signal
	done    chan struct{}

	mu        sync.Mutex
	doc       dom.Document
	selectors fieldmap.SelectorSet
	category  string
	location  profile.Location
	social    []profile.SocialLink
	universal map[string]string
	settings  profile.Settings
	password  string
	stops     []func()
}

// New creates an engine. Start must be called before it does anything.
func New(cfg *Config, store *profile.Store, logger *slog.Logger) *Engine {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	filler := fill.New(fill.Options{
		HighlightColor:    cfg.HighlightColor,
		HighlightDuration: cfg.HighlightDuration,
		InterFillDelay:    cfg.InterFillDelay,
		Logger:            logger,
	})

	// A typed nil would defeat the engine's own nil checks.
	var rules radiorules.Store
	if store != nil {
		rules = store
	}

	var baseLevel slog.Level
	if cfg.LogLevel != nil {
		baseLevel = cfg.LogLevel.Level()
	}

	return &Engine{
		cfg:       cfg,
		store:     store,
		logger:    logger,
		detector:  detect.New(logger),
		filler:    filler,
		radio:     radiorules.New(rules, filler, logger),
		signals:   make(chan Signal, 16),
		done:      make(chan struct{}),
		settings:  profile.DefaultSettings(),
		baseLevel: baseLevel,
	}
}

// State returns the current lifecycle state.
func (e *Engine) State() State { return State(e.state.Load()) }

// Filler exposes the engine's filler for status reporting.
func (e *Engine) Filler() *fill.Filler { return e.filler }

// RadioRules exposes the engine's radio rule engine.
func (e *Engine) RadioRules() *radiorules.Engine { return e.radio }

// Start initialises the engine against doc: loads the selector registry and
// profile, runs the first fill pass, and arms the mutation watchers. Profile
// load failures are logged and degrade to an empty profile; only watcher
// setup failures abort the start. Start may be called once.
func (e *Engine) Start(ctx context.Context, doc dom.Document) error {
	if !e.state.CompareAndSwap(int32(StateUninitialized), int32(StateInitializing)) {
		return ErrStarted
	}

	e.mu.Lock()
	e.doc = doc
	e.selectors = e.loadSelectors()
	e.loadProfile(ctx)
	e.radio.SetEnabled(e.settings.RadioRules)
	e.mu.Unlock()

	if n, ok := doc.(dom.Notifier); ok {
		if err := e.armWatchers(ctx, n); err != nil {
			e.state.Store(int32(StateInvalidated))
			return fmt.Errorf("autofill: arm watchers: %w", err)
		}
	} else {
		e.logger.Debug("autofill: document does not notify insertions, mutation re-runs disabled")
	}

	go e.loop(ctx)

	// The initial pass runs while still Initializing; Ready means it is done.
	e.RunFillPass(ctx)

	if !e.state.CompareAndSwap(int32(StateInitializing), int32(StateReady)) {
		return nil // invalidated during the initial pass
	}
	e.logger.Info("autofill: ready", "origin", doc.Origin())
	return nil
}

func (e *Engine) loadSelectors() fieldmap.SelectorSet {
	set := fieldmap.Defaults()
	if e.cfg.SelectorsFile == "" {
		return set
	}
	over, err := fieldmap.LoadFile(e.cfg.SelectorsFile)
	if err != nil {
		e.logger.Warn("autofill: selectors file ignored", "path", e.cfg.SelectorsFile, "error", err)
		return set
	}
	return set.Merge(over)
}

// loadProfile reads every profile section, degrading to zero values on
// storage errors so a broken store still yields a Ready engine.
func (e *Engine) loadProfile(ctx context.Context) {
	e.universal = map[string]string{}
	e.settings = profile.DefaultSettings()
	if e.store == nil {
		return
	}
	defer func() { e.applyLogLevel(e.settings) }()

	var err error
	if e.category, err = e.store.Category(ctx); err != nil {
		e.logger.Warn("autofill: category load failed", "error", err)
		e.category = ""
	}
	if e.location, err = e.store.Location(ctx); err != nil {
		e.logger.Warn("autofill: location load failed", "error", err)
		e.location = profile.Location{}
	}
	if e.social, err = e.store.SocialLinks(ctx); err != nil {
		e.logger.Warn("autofill: social links load failed", "error", err)
		e.social = nil
	}
	if e.universal, err = e.store.UniversalFormData(ctx); err != nil {
		e.logger.Warn("autofill: universal data load failed", "error", err)
		e.universal = map[string]string{}
	}
	if e.settings, err = e.store.Settings(ctx); err != nil {
		e.logger.Warn("autofill: settings load failed", "error", err)
		e.settings = profile.DefaultSettings()
	}

	if e.cfg.Passphrase != "" {
		if e.password, err = e.store.FillPassword(ctx, e.cfg.Passphrase); err != nil {
			e.logger.Warn("autofill: fill password unavailable", "error", err)
			e.password = ""
		}
	}
}

func (e *Engine) armWatchers(ctx context.Context, n dom.Notifier) error {
	stopFill, err := pagewatch.Watch(ctx, n, pagewatch.Options{
		Predicate: pagewatch.FormControls,
		Debounce:  e.cfg.Debounce,
		Logger:    e.logger,
	}, func() {
		e.detector.Cache().Clear()
		e.RunFillPass(ctx)
	})
	if err != nil {
		return err
	}

	stopRadio, err := pagewatch.Watch(ctx, n, pagewatch.Options{
		Predicate: pagewatch.RadioInputs,
		Debounce:  e.cfg.Debounce,
		Logger:    e.logger,
	}, func() {
		e.runRadioPass(ctx)
	})
	if err != nil {
		stopFill()
		return err
	}

	e.mu.Lock()
	e.stops = append(e.stops, stopFill, stopRadio)
	e.mu.Unlock()
	return nil
}

// Dispatch delivers a signal to the engine. Signals sent to an invalidated
// engine are dropped. Dispatch never blocks: when the queue is full the
// signal is dropped with a log line.
func (e *Engine) Dispatch(sig Signal) {
	if e.State() == StateInvalidated {
		return
	}
	select {
	case e.signals <- sig:
	default:
		e.logger.Warn("autofill: signal queue full, dropped", "signal", fmt.Sprintf("%T", sig))
	}
}

func (e *Engine) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			e.Invalidate()
			return
		case <-e.done:
			return
		case sig := <-e.signals:
			if e.State() == StateInvalidated {
				return
			}
			e.apply(ctx, sig)
		}
	}
}

func (e *Engine) apply(ctx context.Context, sig Signal) {
	switch s := sig.(type) {
	case ContextInvalid:
		e.logger.Info("autofill: context invalid")
		e.Invalidate()
		return

	case ServicesUpdated:
		e.mu.Lock()
		e.selectors = fieldmap.Defaults().Merge(s.Selectors)
		e.mu.Unlock()
		e.detector.Cache().Clear()

	case UniversalFormDataUpdated:
		e.mu.Lock()
		e.universal = s.Data
		e.mu.Unlock()

	case CategoryUpdated:
		e.mu.Lock()
		e.category = s.Category
		e.mu.Unlock()

	case LocationUpdated:
		e.mu.Lock()
		e.location = s.Location
		e.mu.Unlock()

	case SettingsUpdated:
		e.mu.Lock()
		e.settings = s.Settings
		e.mu.Unlock()
		e.radio.SetEnabled(s.Settings.RadioRules)
		e.applyLogLevel(s.Settings)
		return // settings alone do not warrant a re-fill

	default:
		e.logger.Warn("autofill: unknown signal", "signal", fmt.Sprintf("%T", sig))
		return
	}

	e.RunFillPass(ctx)
}

// applyLogLevel raises the process log level to debug while the stored
// debug toggle is on, and restores the startup level when it is off.
func (e *Engine) applyLogLevel(st profile.Settings) {
	if e.cfg.LogLevel == nil {
		return
	}
	if st.DebugMode {
		e.cfg.LogLevel.Set(slog.LevelDebug)
	} else {
		e.cfg.LogLevel.Set(e.baseLevel)
	}
}

// Invalidate moves the engine to StateInvalidated, detaches the watchers,
// and stops the signal loop. Safe to call more than once.
func (e *Engine) Invalidate() {
	prev := State(e.state.Swap(int32(StateInvalidated)))
	if prev == StateInvalidated {
		return
	}

	e.mu.Lock()
	stops := e.stops
	e.stops = nil
	e.mu.Unlock()
	for _, stop := range stops {
		stop()
	}

	close(e.done)
	e.logger.Info("autofill: invalidated", "previous", prev.String())
}

// RunFillPass executes one full fill pass: universal fields, social links,
// password, category, location, then radio rules. It returns the number of
// controls written and is a no-op unless the engine is initializing or ready
// and autofill is enabled in settings.
func (e *Engine) RunFillPass(ctx context.Context) int {
	if st := e.State(); st != StateInitializing && st != StateReady {
		return 0
	}

	e.mu.Lock()
	doc := e.doc
	enabled := e.settings.AutofillEnabled
	e.mu.Unlock()
	if doc == nil || !enabled {
		return 0
	}

	n := e.runPasses(ctx, doc)
	e.logger.Info("autofill: pass complete", "filled", n, "total", e.filler.FilledCount())
	return n
}

func (e *Engine) runRadioPass(ctx context.Context) {
	if st := e.State(); st != StateInitializing && st != StateReady {
		return
	}
	e.mu.Lock()
	doc := e.doc
	e.mu.Unlock()
	if doc == nil {
		return
	}
	if n := e.radio.Apply(ctx, doc); n > 0 {
		e.logger.Info("autofill: radio pass complete", "checked", n)
	}
}

// Refresh re-reads the whole profile from the store and runs a fill pass.
// The store watcher calls this when another process edits the database.
func (e *Engine) Refresh(ctx context.Context) int {
	if e.State() != StateReady {
		return 0
	}
	e.mu.Lock()
	e.loadProfile(ctx)
	e.radio.SetEnabled(e.settings.RadioRules)
	e.mu.Unlock()
	e.radio.Reload(ctx)
	return e.RunFillPass(ctx)
}

// Status is a point-in-time snapshot for the control surfaces.
type Status struct {
	State           string `json:"state"`
	Origin          string `json:"origin,omitempty"`
	FilledCount     int    `json:"filledCount"`
	AutofillEnabled bool   `json:"autofillEnabled"`
	RadioRules      bool   `json:"radioRules"`
}

// Status reports the engine's current state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := Status{
		State:           e.State().String(),
		FilledCount:     e.filler.FilledCount(),
		AutofillEnabled: e.settings.AutofillEnabled,
		RadioRules:      e.settings.RadioRules,
	}
	if e.doc != nil {
		st.Origin = e.doc.Origin()
	}
	return st
}
