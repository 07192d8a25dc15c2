package history

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"

	"github.com/klexam/portal/internal/quiz"
)

// FSStore persists each identity's ledgers as JSON files under a base
// directory: <base>/sets/<user>.json and <base>/results/<user>.json. This is
// the default backend; it mirrors the original deployment where history lived
// in per-user browser storage.
type FSStore struct{ base string }

func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		base = "./data/history"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base}, nil
}

func (s *FSStore) path(kind, userID string) string {
	// Escape the identity so it cannot traverse out of the base dir.
	return filepath.Join(s.base, kind, url.PathEscape(userID)+".json")
}

func readLedger(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil // absent identity loads as an empty ledger
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeLedger(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *FSStore) LoadSets(_ context.Context, userID string) ([]SetEntry, error) {
	var entries []SetEntry
	if err := readLedger(s.path("sets", userID), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *FSStore) SaveSets(_ context.Context, userID string, entries []SetEntry) error {
	return writeLedger(s.path("sets", userID), entries)
}

func (s *FSStore) LoadResults(_ context.Context, userID string) ([]quiz.Result, error) {
	var entries []quiz.Result
	if err := readLedger(s.path("results", userID), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *FSStore) SaveResults(_ context.Context, userID string, entries []quiz.Result) error {
	return writeLedger(s.path("results", userID), entries)
}
