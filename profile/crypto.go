package profile

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/jawadgarzaldeen1/filling-sub001/dbopen"
)

// The fill password is the one profile value that never touches the
// profile_values table in the clear. It is sealed with secretbox under an
// argon2id key derived from the caller-held passphrase; salt and nonce are
// persisted next to the box.

const vaultFillPassword = "fillPassword"

// ErrBadPassphrase is returned when the vault cannot be opened with the
// given passphrase.
var ErrBadPassphrase = errors.New("profile: wrong passphrase")

// argon2id parameters: one pass over 64 MB with 4 lanes, 32-byte key.
const (
	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 4
	kdfKeyLen  = 32
)

func deriveKey(passphrase string, salt []byte) *[32]byte {
	var key [32]byte
	copy(key[:], argon2.IDKey([]byte(passphrase), salt, kdfTime, kdfMemory, kdfThreads, kdfKeyLen))
	return &key
}

// SetFillPassword seals password under passphrase and stores it.
func (s *Store) SetFillPassword(ctx context.Context, passphrase, password string) error {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("profile: salt: %w", err)
	}
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("profile: nonce: %w", err)
	}

	box := secretbox.Seal(nil, []byte(password), &nonce, deriveKey(passphrase, salt))

	err := dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO vault (name, salt, nonce, box, updated_at) VALUES (?,?,?,?,?)
			ON CONFLICT(name) DO UPDATE SET
				salt = excluded.salt, nonce = excluded.nonce,
				box = excluded.box, updated_at = excluded.updated_at`,
			vaultFillPassword, salt, nonce[:], box, time.Now().Unix())
		return err
	})
	if err != nil {
		return fmt.Errorf("profile: store vault: %w", err)
	}
	return nil
}

// FillPassword opens the sealed fill password with passphrase. An empty
// string with nil error means no password is stored.
func (s *Store) FillPassword(ctx context.Context, passphrase string) (string, error) {
	var salt, nonceRaw, box []byte
	err := s.DB.QueryRowContext(ctx,
		`SELECT salt, nonce, box FROM vault WHERE name = ?`, vaultFillPassword).
		Scan(&salt, &nonceRaw, &box)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("profile: read vault: %w", err)
	}

	var nonce [24]byte
	copy(nonce[:], nonceRaw)
	plain, ok := secretbox.Open(nil, box, &nonce, deriveKey(passphrase, salt))
	if !ok {
		return "", ErrBadPassphrase
	}
	return string(plain), nil
}
