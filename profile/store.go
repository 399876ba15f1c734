// Package profile is the engine's storage collaborator: a SQLite-backed
// key-value store for the user profile (contact data, social links, selected
// category and location, settings), the persisted radio rules, and the
// sealed fill password.
package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jawadgarzaldeen1/filling-sub001/dbopen"
)

const schema = `
CREATE TABLE IF NOT EXISTS profile_values (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS radio_rules (
	pattern    TEXT PRIMARY KEY,
	apply      INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS vault (
	name       TEXT PRIMARY KEY,
	salt       BLOB NOT NULL,
	nonce      BLOB NOT NULL,
	box        BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("profile: not found")

// Store is the SQLite-backed profile store.
type Store struct {
	DB *sql.DB
}

// Open opens (and if needed creates) the profile database at path.
func Open(path string) (*Store, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(schema))
	if err != nil {
		return nil, fmt.Errorf("profile: open: %w", err)
	}
	return &Store{DB: db}, nil
}

// OpenDB wraps an already-open database (tests use dbopen.OpenMemory).
func OpenDB(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("profile: schema: %w", err)
	}
	return &Store{DB: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.DB.Close() }

// Get unmarshals the stored JSON value for key into out.
func (s *Store) Get(ctx context.Context, key string, out any) error {
	var raw string
	err := s.DB.QueryRowContext(ctx,
		`SELECT value FROM profile_values WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("profile: get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("profile: decode %s: %w", key, err)
	}
	return nil
}

// Set marshals v as JSON and stores it under key. Writes run through
// dbopen.RunTx: the database is shared with settings UIs and sync jobs, so
// SQLITE_BUSY is expected and retried.
func (s *Store) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("profile: encode %s: %w", key, err)
	}
	err = dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profile_values (key, value, updated_at) VALUES (?,?,?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, string(raw), time.Now().Unix())
		return err
	})
	if err != nil {
		return fmt.Errorf("profile: set %s: %w", key, err)
	}
	return nil
}

// Category returns the selected category, or "" when unset.
func (s *Store) Category(ctx context.Context) (string, error) {
	var v string
	err := s.Get(ctx, KeyCategory, &v)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}

// SetCategory stores the selected category.
func (s *Store) SetCategory(ctx context.Context, category string) error {
	return s.Set(ctx, KeyCategory, category)
}

// Location returns the selected location, or the zero Location when unset.
func (s *Store) Location(ctx context.Context) (Location, error) {
	var v Location
	err := s.Get(ctx, KeyLocation, &v)
	if errors.Is(err, ErrNotFound) {
		return Location{}, nil
	}
	return v, err
}

// SetLocation stores the selected location.
func (s *Store) SetLocation(ctx context.Context, loc Location) error {
	return s.Set(ctx, KeyLocation, loc)
}

// SocialLinks returns the stored social links in order. Both stored shapes
// are accepted: an ordered list of {platform, url, isActive} objects, or the
// legacy platform→url map (normalised to an active, platform-sorted list).
func (s *Store) SocialLinks(ctx context.Context) ([]SocialLink, error) {
	var links []SocialLink
	err := s.Get(ctx, KeySocialLinks, &links)
	if err == nil {
		return links, nil
	}
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}

	var legacy map[string]string
	if mapErr := s.Get(ctx, KeySocialLinks, &legacy); mapErr == nil {
		platforms := make([]string, 0, len(legacy))
		for p := range legacy {
			platforms = append(platforms, p)
		}
		sort.Strings(platforms)
		links = make([]SocialLink, 0, len(legacy))
		for _, p := range platforms {
			links = append(links, SocialLink{Platform: p, URL: legacy[p], IsActive: true})
		}
		return links, nil
	}
	return nil, err
}

// SetSocialLinks stores the social links as an ordered list.
func (s *Store) SetSocialLinks(ctx context.Context, links []SocialLink) error {
	return s.Set(ctx, KeySocialLinks, links)
}

// UniversalFormData returns the stored field→value map, or an empty map.
func (s *Store) UniversalFormData(ctx context.Context) (map[string]string, error) {
	data := map[string]string{}
	err := s.Get(ctx, KeyUniversalData, &data)
	if errors.Is(err, ErrNotFound) {
		return map[string]string{}, nil
	}
	return data, err
}

// SetUniversalFormData replaces the stored field→value map.
func (s *Store) SetUniversalFormData(ctx context.Context, data map[string]string) error {
	return s.Set(ctx, KeyUniversalData, data)
}

// Settings returns the stored settings, or defaults when unset.
func (s *Store) Settings(ctx context.Context) (Settings, error) {
	var v Settings
	err := s.Get(ctx, KeySettings, &v)
	if errors.Is(err, ErrNotFound) {
		return DefaultSettings(), nil
	}
	return v, err
}

// SetSettings stores the settings.
func (s *Store) SetSettings(ctx context.Context, st Settings) error {
	return s.Set(ctx, KeySettings, st)
}

// RadioRules returns the persisted selectorPattern→shouldApply map.
func (s *Store) RadioRules(ctx context.Context) (map[string]bool, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT pattern, apply FROM radio_rules ORDER BY pattern`)
	if err != nil {
		return nil, fmt.Errorf("profile: radio rules: %w", err)
	}
	defer rows.Close()

	rules := make(map[string]bool)
	for rows.Next() {
		var pattern string
		var apply int
		if err := rows.Scan(&pattern, &apply); err != nil {
			return nil, fmt.Errorf("profile: radio rules scan: %w", err)
		}
		rules[pattern] = apply != 0
	}
	return rules, rows.Err()
}

// PutRadioRule inserts or updates one rule.
func (s *Store) PutRadioRule(ctx context.Context, pattern string, apply bool) error {
	now := time.Now().Unix()
	a := 0
	if apply {
		a = 1
	}
	err := dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO radio_rules (pattern, apply, created_at, updated_at) VALUES (?,?,?,?)
			ON CONFLICT(pattern) DO UPDATE SET apply = excluded.apply, updated_at = excluded.updated_at`,
			pattern, a, now, now)
		return err
	})
	if err != nil {
		return fmt.Errorf("profile: put radio rule: %w", err)
	}
	return nil
}

// DeleteRadioRule removes one rule. Deleting an absent pattern is a no-op.
func (s *Store) DeleteRadioRule(ctx context.Context, pattern string) error {
	err := dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM radio_rules WHERE pattern = ?`, pattern)
		return err
	})
	if err != nil {
		return fmt.Errorf("profile: delete radio rule: %w", err)
	}
	return nil
}
