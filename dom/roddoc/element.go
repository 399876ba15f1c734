package roddoc

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/jawadgarzaldeen1/filling-sub001/dom"
)

// El wraps a Rod element handle. Readers swallow CDP errors into zero
// values; writers return them.
type El struct {
	el     *rod.Element
	logger *slog.Logger
}

// Tag implements dom.Element.
func (e *El) Tag() string {
	res, err := e.el.Eval(`() => this.tagName.toLowerCase()`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// Attr implements dom.Element.
func (e *El) Attr(name string) string {
	v, err := e.el.Attribute(name)
	if err != nil || v == nil {
		return ""
	}
	return *v
}

// Type implements dom.Element.
func (e *El) Type() string {
	if e.Tag() != "input" {
		return ""
	}
	t := strings.ToLower(e.Attr("type"))
	if t == "" {
		t = "text"
	}
	return t
}

// Value implements dom.Element, reading the live property rather than the
// parsed attribute.
func (e *El) Value() string {
	res, err := e.el.Eval(`() => String(this.value ?? "")`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// SetValue implements dom.Element.
func (e *El) SetValue(v string) error {
	if _, err := e.el.Eval(`(v) => { this.value = v }`, v); err != nil {
		return fmt.Errorf("roddoc: set value: %w", err)
	}
	return nil
}

// Visible implements dom.Element via Rod's layout-based check.
func (e *El) Visible() bool {
	v, err := e.el.Visible()
	if err != nil {
		return false
	}
	return v
}

// Disabled implements dom.Element.
func (e *El) Disabled() bool { return e.boolProp("disabled") }

// ReadOnly implements dom.Element.
func (e *El) ReadOnly() bool { return e.boolProp("readOnly") }

// Checked implements dom.Element.
func (e *El) Checked() bool { return e.boolProp("checked") }

func (e *El) boolProp(name string) bool {
	res, err := e.el.Eval(`(p) => this[p] === true`, name)
	if err != nil {
		return false
	}
	return res.Value.Bool()
}

// SetChecked implements dom.Element.
func (e *El) SetChecked(v bool) error {
	if _, err := e.el.Eval(`(v) => { this.checked = v }`, v); err != nil {
		return fmt.Errorf("roddoc: set checked: %w", err)
	}
	return nil
}

// Options implements dom.Element.
func (e *El) Options() ([]dom.Option, error) {
	res, err := e.el.Eval(`() => Array.from(this.options || []).map(o => ({
		text: (o.textContent || "").trim(),
		value: o.value,
	}))`)
	if err != nil {
		return nil, fmt.Errorf("roddoc: options: %w", err)
	}
	var opts []dom.Option
	for _, item := range res.Value.Arr() {
		m := item.Map()
		opts = append(opts, dom.Option{Text: m["text"].Str(), Value: m["value"].Str()})
	}
	return opts, nil
}

// SelectValue implements dom.Element.
func (e *El) SelectValue(value string) error {
	if _, err := e.el.Eval(`(v) => { this.value = v }`, value); err != nil {
		return fmt.Errorf("roddoc: select value: %w", err)
	}
	return nil
}

// Dispatch implements dom.Element with bubbling synthetic events, matching
// what framework listeners (delegated handlers included) expect.
func (e *El) Dispatch(kinds ...dom.EventKind) error {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	_, err := e.el.Eval(`(names) => {
		for (const name of names) {
			this.dispatchEvent(new Event(name, { bubbles: true }));
		}
	}`, names)
	if err != nil {
		return fmt.Errorf("roddoc: dispatch: %w", err)
	}
	return nil
}

// Highlight implements dom.Element. The revert runs in-page so it survives
// even if the Go side moves on immediately.
func (e *El) Highlight(color string, d time.Duration) error {
	_, err := e.el.Eval(`(color, ms) => {
		const prev = this.style.backgroundColor;
		this.style.backgroundColor = color;
		setTimeout(() => { this.style.backgroundColor = prev; }, ms);
	}`, color, d.Milliseconds())
	if err != nil {
		return fmt.Errorf("roddoc: highlight: %w", err)
	}
	return nil
}

// Find implements dom.Element.
func (e *El) Find(selector string) ([]dom.Element, error) {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("roddoc: find %q: %w", selector, err)
	}
	out := make([]dom.Element, len(els))
	for i, el := range els {
		out[i] = &El{el: el, logger: e.logger}
	}
	return out, nil
}

// HTML implements dom.Element.
func (e *El) HTML() (string, error) {
	h, err := e.el.HTML()
	if err != nil {
		return "", fmt.Errorf("roddoc: outer html: %w", err)
	}
	return h, nil
}
