package fill

import (
	"context"
	"testing"
	"time"

	"github.com/jawadgarzaldeen1/filling-sub001/dom"
	"github.com/jawadgarzaldeen1/filling-sub001/dom/htmldoc"
	"github.com/jawadgarzaldeen1/filling-sub001/match"
)

const page = `<html><body><form>
  <input type="text" name="a">
  <input type="text" name="b">
  <input type="text" name="c">
  <input type="text" name="locked" disabled>
  <input type="text" name="frozen" readonly>
  <select name="category">
    <option value="">Select category</option>
    <option value="12">Plumbing</option>
    <option value="13">Plumbing Services</option>
  </select>
</form></body></html>`

func testDoc(t *testing.T) *htmldoc.Doc {
	t.Helper()
	d, err := htmldoc.ParseString(page)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func one(t *testing.T, d *htmldoc.Doc, sel string) dom.Element {
	t.Helper()
	els, err := d.Query(sel)
	if err != nil || len(els) == 0 {
		t.Fatalf("query %q: %v", sel, err)
	}
	return els[0]
}

func fastFiller() *Filler {
	return New(Options{
		InterFillDelay:    5 * time.Millisecond,
		HighlightDuration: 10 * time.Millisecond,
	})
}

func TestFill_WritesValueAndNotifies(t *testing.T) {
	d := testDoc(t)
	f := fastFiller()
	el := one(t, d, `input[name=a]`)

	if !f.Fill(context.Background(), el, "hello") {
		t.Fatal("fill failed")
	}
	if el.Value() != "hello" {
		t.Fatalf("value = %q", el.Value())
	}

	evs := d.Events()
	if len(evs) != 3 {
		t.Fatalf("got %d events, want 3", len(evs))
	}
	want := []dom.EventKind{dom.EventInput, dom.EventChange, dom.EventBlur}
	for i, k := range want {
		if evs[i].Kind != k {
			t.Errorf("event %d = %s, want %s", i, evs[i].Kind, k)
		}
	}
	if f.FilledCount() != 1 {
		t.Fatalf("filled count = %d", f.FilledCount())
	}
}

func TestFill_Preconditions(t *testing.T) {
	d := testDoc(t)
	f := fastFiller()
	ctx := context.Background()

	if f.Fill(ctx, nil, "x") {
		t.Error("nil element filled")
	}
	if f.Fill(ctx, one(t, d, `input[name=a]`), "") {
		t.Error("empty value filled")
	}

	locked := one(t, d, `input[name=locked]`)
	if f.Fill(ctx, locked, "x") {
		t.Error("disabled control filled")
	}
	if locked.Value() != "" {
		t.Error("disabled control mutated")
	}

	frozen := one(t, d, `input[name=frozen]`)
	if f.Fill(ctx, frozen, "x") {
		t.Error("readonly control filled")
	}
	if frozen.Value() != "" {
		t.Error("readonly control mutated")
	}

	if len(d.Events()) != 0 {
		t.Error("precondition failures emitted notifications")
	}
}

func TestFillMany_OrderDelayAndSkip(t *testing.T) {
	d := testDoc(t)
	f := New(Options{InterFillDelay: 20 * time.Millisecond, HighlightDuration: time.Millisecond})

	els := []dom.Element{
		one(t, d, `input[name=a]`),
		one(t, d, `input[name=locked]`), // skipped, batch continues
		one(t, d, `input[name=b]`),
		one(t, d, `input[name=c]`),
	}

	start := time.Now()
	n := f.FillMany(context.Background(), els, "v")
	elapsed := time.Since(start)

	if n != 3 {
		t.Fatalf("filled %d, want 3", n)
	}
	if minimum := time.Duration(len(els)-1) * 20 * time.Millisecond; elapsed < minimum {
		t.Fatalf("elapsed %v < %v", elapsed, minimum)
	}
	if one(t, d, `input[name=c]`).Value() != "v" {
		t.Fatal("last element not filled")
	}
}

func TestFillMany_StopsOnCancel(t *testing.T) {
	d := testDoc(t)
	f := New(Options{InterFillDelay: 30 * time.Millisecond, HighlightDuration: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	els := []dom.Element{
		one(t, d, `input[name=a]`),
		one(t, d, `input[name=b]`),
		one(t, d, `input[name=c]`),
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	n := f.FillMany(ctx, els, "v")

	if n >= 3 {
		t.Fatalf("batch did not stop early: filled %d", n)
	}
	if one(t, d, `input[name=c]`).Value() == "v" {
		t.Fatal("item filled after cancellation")
	}
}

func TestSelectOption_MatchAndMiss(t *testing.T) {
	d := testDoc(t)
	f := fastFiller()
	sel := one(t, d, `select`)
	ctx := context.Background()

	if !f.SelectOption(ctx, sel, "Plumbing", match.ModeStrict) {
		t.Fatal("expected match")
	}
	// Underlying value, not display text.
	if sel.Value() != "12" {
		t.Fatalf("selected value = %q", sel.Value())
	}
	if len(d.Events()) != 3 {
		t.Fatalf("got %d events", len(d.Events()))
	}

	d.ClearEvents()
	if f.SelectOption(ctx, sel, "Roofing", match.ModeStrict) {
		t.Fatal("unexpected match")
	}
	// Selection untouched on miss.
	if sel.Value() != "12" {
		t.Fatalf("selection changed on miss: %q", sel.Value())
	}
	if len(d.Events()) != 0 {
		t.Fatal("miss emitted notifications")
	}
}

func TestFill_HighlightTransient(t *testing.T) {
	d := testDoc(t)
	f := New(Options{HighlightDuration: 20 * time.Millisecond, InterFillDelay: time.Millisecond})
	el := one(t, d, `input[name=a]`)

	if !f.Fill(context.Background(), el, "x") {
		t.Fatal("fill failed")
	}
	if el.Attr("style") == "" {
		t.Fatal("no highlight applied")
	}
	time.Sleep(60 * time.Millisecond)
	if el.Attr("style") != "" {
		t.Fatalf("highlight not reverted: %q", el.Attr("style"))
	}
}
