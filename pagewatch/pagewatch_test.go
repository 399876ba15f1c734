package pagewatch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jawadgarzaldeen1/filling-sub001/dom/htmldoc"
)

const page = `<html><body><div id="root"></div></body></html>`

func testDoc(t *testing.T) *htmldoc.Doc {
	t.Helper()
	d, err := htmldoc.ParseString(page)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestWatch_CollapsesWindowIntoOneTrigger(t *testing.T) {
	d := testDoc(t)
	var runs atomic.Int32

	stop, err := Watch(context.Background(), d, Options{Debounce: 40 * time.Millisecond}, func() {
		runs.Add(1)
	})
	if err != nil {
		t.Fatal(err)
	}
	defer stop()

	for range 5 {
		if _, err := d.AppendHTML("#root", `<div><input type="text" name="x"></div>`); err != nil {
			t.Fatal(err)
		}
	}

	time.Sleep(100 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Fatalf("got %d triggers, want 1", got)
	}
}

func TestWatch_SeparateWindowsTriggerSeparately(t *testing.T) {
	d := testDoc(t)
	var runs atomic.Int32

	stop, err := Watch(context.Background(), d, Options{Debounce: 20 * time.Millisecond}, func() {
		runs.Add(1)
	})
	if err != nil {
		t.Fatal(err)
	}
	defer stop()

	if _, err := d.AppendHTML("#root", `<div><input name="a"></div>`); err != nil {
		t.Fatal(err)
	}
	time.Sleep(60 * time.Millisecond)
	if _, err := d.AppendHTML("#root", `<div><input name="b"></div>`); err != nil {
		t.Fatal(err)
	}
	time.Sleep(60 * time.Millisecond)

	if got := runs.Load(); got != 2 {
		t.Fatalf("got %d triggers, want 2", got)
	}
}

func TestWatch_IgnoresNonQualifyingInsertions(t *testing.T) {
	d := testDoc(t)
	var runs atomic.Int32

	stop, err := Watch(context.Background(), d, Options{Debounce: 20 * time.Millisecond}, func() {
		runs.Add(1)
	})
	if err != nil {
		t.Fatal(err)
	}
	defer stop()

	if _, err := d.AppendHTML("#root", `<p>just text</p>`); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if got := runs.Load(); got != 0 {
		t.Fatalf("got %d triggers, want 0", got)
	}
}

func TestWatch_RadioPredicate(t *testing.T) {
	d := testDoc(t)
	var runs atomic.Int32

	stop, err := Watch(context.Background(), d, Options{
		Predicate: RadioInputs,
		Debounce:  20 * time.Millisecond,
	}, func() {
		runs.Add(1)
	})
	if err != nil {
		t.Fatal(err)
	}
	defer stop()

	// Text input does not qualify for the radio watcher.
	if _, err := d.AppendHTML("#root", `<div><input type="text" name="t"></div>`); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if runs.Load() != 0 {
		t.Fatal("text insertion triggered radio watcher")
	}

	if _, err := d.AppendHTML("#root", `<div><input type="radio" name="r"></div>`); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if runs.Load() != 1 {
		t.Fatal("radio insertion did not trigger")
	}
}

func TestWatch_NoTriggerAfterContextDone(t *testing.T) {
	d := testDoc(t)
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	_, err := Watch(ctx, d, Options{Debounce: 30 * time.Millisecond}, func() {
		runs.Add(1)
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := d.AppendHTML("#root", `<div><input name="a"></div>`); err != nil {
		t.Fatal(err)
	}
	cancel() // before the debounce window expires

	time.Sleep(60 * time.Millisecond)
	if got := runs.Load(); got != 0 {
		t.Fatalf("trigger fired after cancellation: %d", got)
	}
}
