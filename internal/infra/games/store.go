// Package games persists one JSON file per trivia round.
package games

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"hqtrivia-bot/internal/domain"
)

// Store writes each game record to <dir>/<round-id>.json. Writes replace
// the whole record; a temp-file rename keeps a crash mid-write from
// truncating the previous state.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Get(_ context.Context, roundID string) (*domain.GameRecord, error) {
	data, err := os.ReadFile(s.path(roundID))
	if os.IsNotExist(err) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read game record: %w", err)
	}
	var record domain.GameRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode game record %s: %w", roundID, err)
	}
	return &record, nil
}

func (s *Store) Put(_ context.Context, record *domain.GameRecord) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create games dir: %w", err)
	}
	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return fmt.Errorf("encode game record %s: %w", record.ID, err)
	}
	tmp := s.path(record.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write game record: %w", err)
	}
	if err := os.Rename(tmp, s.path(record.ID)); err != nil {
		return fmt.Errorf("replace game record: %w", err)
	}
	return nil
}

func (s *Store) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list games dir: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) path(roundID string) string {
	return filepath.Join(s.dir, roundID+".json")
}
