package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// JSONStore keeps all records in memory and rewrites the whole file on every Put.
type JSONStore struct {
	mu   sync.RWMutex
	path string
	data map[string]Record
}

func OpenJSON(path string) (*JSONStore, error) {
	if path == "" {
		return nil, errors.New("json store: empty path")
	}

	s := &JSONStore{path: path, data: make(map[string]Record)}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	} else if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for k, v := range s.data {
		if v == nil {
			s.data[k] = Record{}
		}
	}
	return s, nil
}

func (s *JSONStore) Get(_ context.Context, guildID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data[guildID].Clone(), nil
}

func (s *JSONStore) Put(_ context.Context, guildID string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.data[guildID]
	s.data[guildID] = rec.Clone()
	if err := s.saveLocked(); err != nil {
		if had {
			s.data[guildID] = prev
		} else {
			delete(s.data, guildID)
		}
		return err
	}
	return nil
}

func (s *JSONStore) All(_ context.Context) (map[string]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make(map[string]Record, len(s.data))
	for k, v := range s.data {
		all[k] = v.Clone()
	}
	return all, nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) saveLocked() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	return writeAtomic(s.path, data, 0o644)
}

func writeAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d", filepath.Base(path), time.Now().UnixNano()))

	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
