// Package accounts persists full account snapshots keyed by identity.
// Storage is opaque-blob style: one JSON document per account, no schema
// versioning.
package accounts

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/akashsuryawanshi04/invest-simulator/internal/domain"
)

// ErrPersistenceUnavailable marks save/load/delete failures. The session
// surfaces it as a warning and never rolls back an applied transition.
var ErrPersistenceUnavailable = errors.New("persistence unavailable")

// Key identifies the account an identity owns.
type Key string

// String returns the raw identity string.
func (k Key) String() string {
	return string(k)
}

// storageName normalizes a key into a safe file or cache name.
func (k Key) storageName() string {
	name := strings.ToLower(strings.TrimSpace(string(k)))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Repository is the persistence collaborator for account state. Load returns
// (nil, nil) when no state exists for the key.
type Repository interface {
	Load(ctx context.Context, key Key) (*domain.AccountState, error)
	Save(ctx context.Context, key Key, state domain.AccountState) error
	Delete(ctx context.Context, key Key) error
}
