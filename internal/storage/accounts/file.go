package accounts

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/akashsuryawanshi04/invest-simulator/internal/domain"
)

// FileStore keeps one JSON document per account under a state directory.
// Writes go through a temp file and rename so a crash mid-write never leaves
// a torn snapshot behind.
type FileStore struct {
	dir string
}

// NewFileStore creates the state directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create account state dir")
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key Key) string {
	return filepath.Join(s.dir, key.storageName()+".json")
}

// Load reads the persisted state for the key, (nil, nil) when absent.
func (s *FileStore) Load(_ context.Context, key Key) (*domain.AccountState, error) {
	payload, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(ErrPersistenceUnavailable, "read account state: %v", err)
	}
	if len(payload) == 0 {
		return nil, nil
	}

	var state domain.AccountState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, errors.Wrapf(ErrPersistenceUnavailable, "decode account state: %v", err)
	}

	return &state, nil
}

// Save writes a full snapshot atomically via temp file.
func (s *FileStore) Save(_ context.Context, key Key, state domain.AccountState) error {
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.Wrapf(ErrPersistenceUnavailable, "encode account state: %v", err)
	}

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return errors.Wrapf(ErrPersistenceUnavailable, "write account state temp file: %v", err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return errors.Wrapf(ErrPersistenceUnavailable, "persist account state: %v", err)
	}

	return nil
}

// Delete removes the persisted snapshot. Deleting an absent key is not an
// error.
func (s *FileStore) Delete(_ context.Context, key Key) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(ErrPersistenceUnavailable, "delete account state: %v", err)
	}
	return nil
}
