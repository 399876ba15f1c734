package profile

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jawadgarzaldeen1/filling-sub001/dbopen"
)

func watchStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenDB(dbopen.OpenMemory(t))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatchChangesFires(t *testing.T) {
	s := watchStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fired atomic.Int32
	go s.WatchChanges(ctx, WatchOptions{
		Interval: 20 * time.Millisecond,
		Logger:   quietLogger(),
	}, func() error {
		fired.Add(1)
		return nil
	})

	time.Sleep(50 * time.Millisecond)

	if err := s.SetCategory(ctx, "Plumbing"); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if fired.Load() == 0 {
		t.Fatal("category write never detected")
	}

	// A rule table write is detected too.
	before := fired.Load()
	if err := s.PutRadioRule(ctx, "input[type=radio][name=terms]", true); err != nil {
		t.Fatal(err)
	}
	deadline = time.Now().Add(2 * time.Second)
	for fired.Load() == before && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if fired.Load() == before {
		t.Fatal("radio rule write never detected")
	}
}

func TestWatchChangesQuietWithoutWrites(t *testing.T) {
	s := watchStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fired atomic.Int32
	go s.WatchChanges(ctx, WatchOptions{
		Interval: 20 * time.Millisecond,
		Logger:   quietLogger(),
	}, func() error {
		fired.Add(1)
		return nil
	})

	time.Sleep(150 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Fatalf("fired %d times without writes", got)
	}
}

func TestWatchChangesRetriesOnError(t *testing.T) {
	s := watchStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	go s.WatchChanges(ctx, WatchOptions{
		Interval: 20 * time.Millisecond,
		Logger:   quietLogger(),
	}, func() error {
		if calls.Add(1) == 1 {
			return context.DeadlineExceeded
		}
		return nil
	})

	time.Sleep(50 * time.Millisecond)
	if err := s.SetCategory(ctx, "Roofing"); err != nil {
		t.Fatal(err)
	}

	// First attempt fails; the unchanged token forces a retry next cycle.
	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if calls.Load() < 2 {
		t.Fatalf("calls = %d, want at least 2", calls.Load())
	}
}
