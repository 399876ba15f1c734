// Package dom abstracts the live, queryable page tree the engine operates
// on. The page is externally owned: the host's own scripts may mutate it at
// any time, and no implementation guarantees a written value survives beyond
// the call that wrote it.
//
// Two implementations exist: htmldoc (in-memory parsed HTML, used by tests
// and one-shot audits) and roddoc (a live Chrome page over CDP).
package dom

import (
	"context"
	"time"
)

// EventKind names a synthetic interaction notification dispatched after a
// write so the host page's listeners observe the change as if a user typed
// it. FillEvents is the fixed dispatch order.
type EventKind string

const (
	EventInput  EventKind = "input"  // value changed
	EventChange EventKind = "change" // value committed
	EventBlur   EventKind = "blur"   // focus left the control
)

// FillEvents is the fixed notification order emitted after every write.
var FillEvents = []EventKind{EventInput, EventChange, EventBlur}

// Identity keys a physical control within one page: tag name, name
// attribute, id attribute. Two elements with equal Identity are treated as
// the same control by deduplication and fill bookkeeping.
type Identity struct {
	Tag  string
	Name string
	ID   string
}

// Option is one entry of a finite choice list (a <select> option).
type Option struct {
	Text  string
	Value string
}

// Element is a handle to one control in the page.
type Element interface {
	// Tag returns the lowercase tag name.
	Tag() string
	// Attr returns the value of an attribute, or "" if absent.
	Attr(name string) string
	// Type returns the control type ("text", "hidden", "radio", ...).
	// For non-input tags it returns "".
	Type() string
	// Value returns the control's current value. Read failures yield "".
	Value() string
	// SetValue writes the control's value without emitting notifications.
	SetValue(v string) error
	// Visible reports whether the control is rendered.
	Visible() bool
	// Disabled reports the disabled state.
	Disabled() bool
	// ReadOnly reports the readOnly state.
	ReadOnly() bool
	// Checked reports the checked state of a radio/checkbox.
	Checked() bool
	// SetChecked sets the checked state of a radio/checkbox.
	SetChecked(v bool) error
	// Options lists the choice entries of a <select>.
	Options() ([]Option, error)
	// SelectValue sets a <select>'s selection by option value.
	SelectValue(value string) error
	// Dispatch emits synthetic notifications on the element, in order.
	Dispatch(kinds ...EventKind) error
	// Highlight applies a transient background color that auto-reverts
	// after d. It never blocks.
	Highlight(color string, d time.Duration) error
	// Find queries descendants of this element.
	Find(selector string) ([]Element, error)
	// HTML returns the element's outer HTML.
	HTML() (string, error)
}

// Document is the queryable page tree.
type Document interface {
	// Query evaluates one selector against the whole document. A malformed
	// or unsupported selector returns an error; callers isolate such
	// failures per selector.
	Query(selector string) ([]Element, error)
	// Origin returns the page origin (scheme://host), used by the radio
	// rule engine's per-origin tables. May be "" when unknown.
	Origin() string
}

// Insertion describes a subtree newly inserted into the document.
// Element may be nil when the provider reports flags only (the live-page
// provider classifies insertions in-page and does not resolve handles).
type Insertion struct {
	Element         Element
	HasFormControls bool
	HasRadio        bool
}

// Notifier is implemented by documents that can report subtree insertions.
type Notifier interface {
	// OnInsert registers fn to be called for every insertion until stop is
	// called or ctx is done. fn runs on the provider's notification
	// goroutine and must not block.
	OnInsert(ctx context.Context, fn func(Insertion)) (stop func(), err error)
}

// IdentityOf derives the dedup identity of an element.
func IdentityOf(el Element) Identity {
	return Identity{
		Tag:  el.Tag(),
		Name: el.Attr("name"),
		ID:   el.Attr("id"),
	}
}

// Fillable reports whether a control accepts a programmatic write right now:
// not disabled, not read-only, and not of a hidden kind.
func Fillable(el Element) bool {
	return !el.Disabled() && !el.ReadOnly() && el.Type() != "hidden"
}
