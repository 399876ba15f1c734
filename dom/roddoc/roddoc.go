// Package roddoc implements dom.Document against a live Chrome page over
// CDP. The browser is launched headless with automation fingerprints
// suppressed; insertion notifications come from an injected MutationObserver
// that classifies added subtrees in-page and reports flags over a runtime
// binding, so no element handles are resolved on the notification path.
package roddoc

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/jawadgarzaldeen1/filling-sub001/dom"
)

//go:embed insertwatch.js
var insertWatchJS string

const bindingName = "__formfill_binding"

// Browser owns the Chrome process and its Rod handle.
type Browser struct {
	rod    *rod.Browser
	lnch   *launcher.Launcher
	logger *slog.Logger
}

// Launch starts a local headless Chrome, or connects to remoteURL when it is
// not empty.
func Launch(remoteURL string, logger *slog.Logger) (*Browser, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var wsURL string
	var lnch *launcher.Launcher
	if remoteURL != "" {
		wsURL = remoteURL
		logger.Info("roddoc: connecting to remote chrome", "url", wsURL)
	} else {
		l := launcher.New().
			Headless(true).
			Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("roddoc: launch: %w", err)
		}
		wsURL = u
		lnch = l
		logger.Info("roddoc: launched local chrome")
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("roddoc: connect: %w", err)
	}
	return &Browser{rod: b, lnch: lnch, logger: logger}, nil
}

// Close shuts down Chrome.
func (b *Browser) Close() error {
	var err error
	if b.rod != nil {
		err = b.rod.Close()
	}
	if b.lnch != nil {
		b.lnch.Cleanup()
	}
	return err
}

// Doc is a live page implementing dom.Document and dom.Notifier.
type Doc struct {
	page   *rod.Page
	origin string
	logger *slog.Logger

	mu      sync.Mutex
	subs    map[int]func(dom.Insertion)
	nextID  int
	watchOn bool
}

// Open creates a stealth tab, navigates to pageURL, and waits for load.
func (b *Browser) Open(ctx context.Context, pageURL string) (*Doc, error) {
	page, err := stealth.Page(b.rod)
	if err != nil {
		return nil, fmt.Errorf("roddoc: create tab: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		page.Close()
		return nil, fmt.Errorf("roddoc: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		b.logger.Warn("roddoc: wait load timeout", "url", pageURL, "error", err)
	}

	d := &Doc{page: page, logger: b.logger, subs: make(map[int]func(dom.Insertion))}
	if res, err := page.Eval(`() => location.origin`); err == nil {
		d.origin = res.Value.Str()
	}
	return d, nil
}

// Close closes the tab.
func (d *Doc) Close() error {
	if d.page != nil {
		return d.page.Close()
	}
	return nil
}

// Origin implements dom.Document.
func (d *Doc) Origin() string { return d.origin }

// Query implements dom.Document. Rod reports malformed selectors as
// evaluation errors, which we surface as-is.
func (d *Doc) Query(selector string) ([]dom.Element, error) {
	els, err := d.page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("roddoc: query %q: %w", selector, err)
	}
	out := make([]dom.Element, len(els))
	for i, el := range els {
		out[i] = &El{el: el, logger: d.logger}
	}
	return out, nil
}

// OnInsert implements dom.Notifier. The first subscriber injects the
// in-page observer and starts the binding listener; later subscribers share
// them.
func (d *Doc) OnInsert(ctx context.Context, fn func(dom.Insertion)) (func(), error) {
	d.mu.Lock()
	if !d.watchOn {
		if err := d.startWatch(ctx); err != nil {
			d.mu.Unlock()
			return nil, err
		}
		d.watchOn = true
	}
	id := d.nextID
	d.nextID++
	d.subs[id] = fn
	d.mu.Unlock()

	stop := func() {
		d.mu.Lock()
		delete(d.subs, id)
		d.mu.Unlock()
	}
	if ctx != nil {
		go func() {
			<-ctx.Done()
			stop()
		}()
	}
	return stop, nil
}

// startWatch is called with d.mu held.
func (d *Doc) startWatch(ctx context.Context) error {
	if err := (proto.RuntimeAddBinding{Name: bindingName}).Call(d.page); err != nil {
		d.logger.Warn("roddoc: add binding failed (may already exist)", "error", err)
	}

	go d.listenBinding(ctx)

	if _, err := d.page.Eval(insertWatchJS); err != nil {
		return fmt.Errorf("roddoc: inject insert watcher: %w", err)
	}
	return nil
}

// listenBinding receives insertion flag batches from the in-page observer.
func (d *Doc) listenBinding(ctx context.Context) {
	page := d.page
	if ctx != nil {
		page = page.Context(ctx)
	}
	page.EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name != bindingName {
			return
		}
		var records []struct {
			Form  bool `json:"form"`
			Radio bool `json:"radio"`
		}
		if err := json.Unmarshal([]byte(e.Payload), &records); err != nil {
			d.logger.Warn("roddoc: parse binding payload", "error", err)
			return
		}

		d.mu.Lock()
		subs := make([]func(dom.Insertion), 0, len(d.subs))
		for _, fn := range d.subs {
			subs = append(subs, fn)
		}
		d.mu.Unlock()

		for _, rec := range records {
			ins := dom.Insertion{HasFormControls: rec.Form, HasRadio: rec.Radio}
			for _, fn := range subs {
				fn(ins)
			}
		}
	})()
}
