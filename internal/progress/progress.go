// Package progress persists the player's current level index.
//
// The saved form is a JSON object with one field, {"levelIndex": N}, kept
// under a fixed key in a key-value Store. A missing key means level 0.
package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// DefaultKey is the storage key of a single-player save.
	DefaultKey = "bq-progress"

	// ExportFileName is the download name of an exported save.
	ExportFileName = "blockquest-save.json"
)

var (
	// ErrStorageUnavailable wraps read and write failures of the backing store.
	ErrStorageUnavailable = errors.New("progress storage unavailable")

	// ErrInvalidSave is returned for saves that are not a valid progress object.
	ErrInvalidSave = errors.New("invalid save")
)

// Progress is the persisted game state.
type Progress struct {
	LevelIndex int `json:"levelIndex"`
}

// KeyFor namespaces the save key per player. The empty name is the
// single-player key.
func KeyFor(player string) string {
	if player == "" {
		return DefaultKey
	}
	return DefaultKey + "/" + player
}

// Load reads progress from the store. An absent key yields the zero value.
// On a storage failure or an unreadable save it also returns the zero value,
// together with an error the caller may log.
func Load(ctx context.Context, s Store, key string) (Progress, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return Progress{}, fmt.Errorf("%w: get %s: %w", ErrStorageUnavailable, key, err)
	}
	if !ok {
		return Progress{}, nil
	}
	var p Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		return Progress{}, fmt.Errorf("%w: %w", ErrInvalidSave, err)
	}
	if p.LevelIndex < 0 {
		p.LevelIndex = 0
	}
	return p, nil
}

// Save writes progress to the store.
func Save(ctx context.Context, s Store, key string, p Progress) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := s.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("%w: put %s: %w", ErrStorageUnavailable, key, err)
	}
	return nil
}

// Export returns the stored save verbatim, or "{}" when nothing is stored.
func Export(ctx context.Context, s Store, key string) ([]byte, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", ErrStorageUnavailable, key, err)
	}
	if !ok {
		return []byte("{}"), nil
	}
	return raw, nil
}

// Import validates an exported save and stores it verbatim, so the next
// Load starts from the exported level.
func Import(ctx context.Context, s Store, key string, data []byte) error {
	if err := Validate(data); err != nil {
		return err
	}
	if err := s.Put(ctx, key, bytes.TrimSpace(data)); err != nil {
		return fmt.Errorf("%w: put %s: %w", ErrStorageUnavailable, key, err)
	}
	return nil
}
