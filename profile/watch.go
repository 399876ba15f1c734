package profile

import (
	"context"
	"log/slog"
	"time"
)

// WatchOptions tunes the store watcher.
type WatchOptions struct {
	// Interval is the polling frequency. Default: 1s.
	Interval time.Duration
	// Debounce is the quiet period after a change is detected before the
	// action fires. Further changes inside the window reset the timer.
	// 0 fires immediately. Default: 0.
	Debounce time.Duration
	Logger   *slog.Logger
}

func (o *WatchOptions) defaults() {
	if o.Interval <= 0 {
		o.Interval = time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// changeToken derives a version token covering every table of the profile
// schema. Row counts are folded in so deletes are visible, not only the
// newest updated_at.
func (s *Store) changeToken(ctx context.Context) (int64, error) {
	const q = `SELECT
		(SELECT COALESCE(MAX(updated_at), 0) + COUNT(*) FROM profile_values) +
		(SELECT COALESCE(MAX(updated_at), 0) + COUNT(*) FROM radio_rules) +
		(SELECT COALESCE(MAX(updated_at), 0) + COUNT(*) FROM vault)`
	var v int64
	err := s.DB.QueryRowContext(ctx, q).Scan(&v)
	return v, err
}

// WatchChanges blocks until ctx is cancelled, polling the database and
// calling action after edits made through any connection, this process or
// another. If action returns an error the token is not advanced and the
// action is retried on the next poll cycle.
func (s *Store) WatchChanges(ctx context.Context, opts WatchOptions, action func() error) {
	opts.defaults()
	log := opts.Logger

	last, err := s.changeToken(ctx)
	if err != nil {
		log.Warn("profile: initial change token failed", "error", err)
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time
	pending := int64(-1)

	fire := func(token int64) {
		if err := action(); err != nil {
			log.Warn("profile: change action failed, will retry", "error", err)
			return
		}
		last = token
		log.Debug("profile: change applied", "token", token)
	}

	log.Info("profile: store watch started", "interval", opts.Interval, "debounce", opts.Debounce)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			log.Info("profile: store watch stopped")
			return

		case <-ticker.C:
			cur, err := s.changeToken(ctx)
			if err != nil {
				log.Warn("profile: change token failed", "error", err)
				continue
			}
			if cur == last || cur == pending {
				continue
			}
			pending = cur
			if opts.Debounce <= 0 {
				fire(pending)
				pending = -1
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(opts.Debounce)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			debounceCh = nil
			if pending >= 0 {
				fire(pending)
				pending = -1
			}
		}
	}
}
