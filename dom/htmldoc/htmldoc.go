// Package htmldoc implements dom.Document over a parsed in-memory HTML tree
// (golang.org/x/net/html). It backs one-shot page audits of fetched HTML and
// every engine test: fills, synthetic notifications, highlights, and subtree
// insertions are all observable without a browser.
package htmldoc

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jawadgarzaldeen1/filling-sub001/dom"
)

// DispatchedEvent records one synthetic notification for inspection.
type DispatchedEvent struct {
	Target dom.Identity
	Kind   dom.EventKind
}

// Doc is an in-memory document.
type Doc struct {
	mu     sync.Mutex
	root   *html.Node
	origin string

	// Runtime control values, distinct from the value attribute the page
	// was parsed with (mirrors the DOM property/attribute split).
	values  map[*html.Node]string
	checked map[*html.Node]bool

	events []DispatchedEvent

	subs   map[int]func(dom.Insertion)
	nextID int
}

// Parse reads and parses a full HTML document.
func Parse(r io.Reader) (*Doc, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: parse: %w", err)
	}
	return &Doc{
		root:    root,
		values:  make(map[*html.Node]string),
		checked: make(map[*html.Node]bool),
		subs:    make(map[int]func(dom.Insertion)),
	}, nil
}

// ParseString parses a full HTML document from a string.
func ParseString(s string) (*Doc, error) {
	return Parse(strings.NewReader(s))
}

// SetOrigin sets the origin reported to the radio rule engine.
func (d *Doc) SetOrigin(origin string) { d.origin = origin }

// Origin implements dom.Document.
func (d *Doc) Origin() string { return d.origin }

// Query implements dom.Document.
func (d *Doc) Query(selector string) ([]dom.Element, error) {
	groups, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	nodes := queryAll(d.root, groups)
	els := make([]dom.Element, len(nodes))
	for i, n := range nodes {
		els[i] = &El{doc: d, node: n}
	}
	return els, nil
}

// Events returns a copy of the synthetic notification log in dispatch order.
func (d *Doc) Events() []DispatchedEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DispatchedEvent, len(d.events))
	copy(out, d.events)
	return out
}

// ClearEvents resets the notification log.
func (d *Doc) ClearEvents() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = nil
}

// OnInsert implements dom.Notifier.
func (d *Doc) OnInsert(ctx context.Context, fn func(dom.Insertion)) (func(), error) {
	d.mu.Lock()
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

// AppendHTML parses fragment and appends its top-level elements under the
// first node matching parentSelector, then notifies insertion subscribers
// once per appended element. It returns the appended elements.
func (d *Doc) AppendHTML(parentSelector, fragment string) ([]dom.Element, error) {
	groups, err := parseSelector(parentSelector)
	if err != nil {
		return nil, err
	}

	ctxNode := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	children, err := html.ParseFragment(strings.NewReader(fragment), ctxNode)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: parse fragment: %w", err)
	}

	d.mu.Lock()
	parents := queryAll(d.root, groups)
	if len(parents) == 0 {
		d.mu.Unlock()
		return nil, fmt.Errorf("htmldoc: no node matches %q", parentSelector)
	}
	parent := parents[0]

	var inserted []dom.Insertion
	var els []dom.Element
	for _, c := range children {
		if c.Type != html.ElementNode {
			continue
		}
		parent.AppendChild(c)
		el := &El{doc: d, node: c}
		els = append(els, el)
		inserted = append(inserted, dom.Insertion{
			Element:         el,
			HasFormControls: hasFormControls(c),
			HasRadio:        hasRadio(c),
		})
	}
	subs := make([]func(dom.Insertion), 0, len(d.subs))
	for _, fn := range d.subs {
		subs = append(subs, fn)
	}
	d.mu.Unlock()

	for _, ins := range inserted {
		for _, fn := range subs {
			fn(ins)
		}
	}
	return els, nil
}

var controlTags = map[string]bool{"input": true, "select": true, "textarea": true}

func hasFormControls(n *html.Node) bool {
	found := false
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && controlTags[n.Data] {
			found = true
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

func hasRadio(n *html.Node) bool {
	found := false
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && n.Data == "input" &&
			strings.EqualFold(getAttr(n, "type"), "radio") {
			found = true
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

// El is one control in the parsed tree.
type El struct {
	doc  *Doc
	node *html.Node
}

// Tag implements dom.Element.
func (e *El) Tag() string { return e.node.Data }

// Attr implements dom.Element.
func (e *El) Attr(name string) string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return getAttr(e.node, name)
}

// Type implements dom.Element.
func (e *El) Type() string {
	if e.node.Data != "input" {
		return ""
	}
	return strings.ToLower(e.Attr("type"))
}

// Value implements dom.Element. The runtime value shadows the parsed value
// attribute; textareas fall back to their text content.
func (e *El) Value() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if v, ok := e.doc.values[e.node]; ok {
		return v
	}
	if e.node.Data == "textarea" {
		return textContent(e.node)
	}
	return getAttr(e.node, "value")
}

// SetValue implements dom.Element.
func (e *El) SetValue(v string) error {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.doc.values[e.node] = v
	return nil
}

// Visible implements dom.Element. Hidden inputs, [hidden] and inline
// display:none / visibility:hidden styles count as not rendered.
func (e *El) Visible() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if e.node.Data == "input" && strings.EqualFold(getAttr(e.node, "type"), "hidden") {
		return false
	}
	if _, hidden := lookupAttr(e.node, "hidden"); hidden {
		return false
	}
	style := strings.ReplaceAll(getAttr(e.node, "style"), " ", "")
	if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
		return false
	}
	return true
}

// Disabled implements dom.Element.
func (e *El) Disabled() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	_, ok := lookupAttr(e.node, "disabled")
	return ok
}

// ReadOnly implements dom.Element.
func (e *El) ReadOnly() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	_, ok := lookupAttr(e.node, "readonly")
	return ok
}

// Checked implements dom.Element.
func (e *El) Checked() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if v, ok := e.doc.checked[e.node]; ok {
		return v
	}
	_, ok := lookupAttr(e.node, "checked")
	return ok
}

// SetChecked implements dom.Element.
func (e *El) SetChecked(v bool) error {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.doc.checked[e.node] = v
	return nil
}

// Options implements dom.Element.
func (e *El) Options() ([]dom.Option, error) {
	if e.node.Data != "select" {
		return nil, fmt.Errorf("htmldoc: options on <%s>", e.node.Data)
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	var opts []dom.Option
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "option" {
			text := strings.TrimSpace(textContent(n))
			val, ok := lookupAttr(n, "value")
			if !ok {
				val = text
			}
			opts = append(opts, dom.Option{Text: text, Value: val})
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return opts, nil
}

// SelectValue implements dom.Element.
func (e *El) SelectValue(value string) error {
	if e.node.Data != "select" {
		return fmt.Errorf("htmldoc: select value on <%s>", e.node.Data)
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.doc.values[e.node] = value
	return nil
}

// Dispatch implements dom.Element by appending to the document's
// notification log.
func (e *El) Dispatch(kinds ...dom.EventKind) error {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	id := dom.Identity{Tag: e.node.Data, Name: getAttr(e.node, "name"), ID: getAttr(e.node, "id")}
	for _, k := range kinds {
		e.doc.events = append(e.doc.events, DispatchedEvent{Target: id, Kind: k})
	}
	return nil
}

// Highlight implements dom.Element: sets an inline background color and
// reverts it after d.
func (e *El) Highlight(color string, d time.Duration) error {
	e.doc.mu.Lock()
	prev := getAttr(e.node, "style")
	setAttr(e.node, "style", joinStyle(prev, "background-color: "+color))
	e.doc.mu.Unlock()

	time.AfterFunc(d, func() {
		e.doc.mu.Lock()
		if prev == "" {
			removeAttr(e.node, "style")
		} else {
			setAttr(e.node, "style", prev)
		}
		e.doc.mu.Unlock()
	})
	return nil
}

func joinStyle(prev, add string) string {
	if prev == "" {
		return add
	}
	return strings.TrimRight(prev, "; ") + "; " + add
}

// Find implements dom.Element.
func (e *El) Find(selector string) ([]dom.Element, error) {
	groups, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	var els []dom.Element
	for _, n := range queryAll(e.node, groups) {
		if n != e.node {
			els = append(els, &El{doc: e.doc, node: n})
		}
	}
	return els, nil
}

// HTML implements dom.Element.
func (e *El) HTML() (string, error) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	var sb strings.Builder
	if err := html.Render(&sb, e.node); err != nil {
		return "", fmt.Errorf("htmldoc: render: %w", err)
	}
	return sb.String(), nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
