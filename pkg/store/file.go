package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists entries as a single JSON object on disk. Every
// operation reloads and rewrites the file; adequate for the small entry
// counts preference data implies.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{path: filepath.Join(dir, "prefs.json")}, nil
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return map[string]string{}, nil
	}
	if entries == nil {
		entries = map[string]string{}
	}
	return entries, nil
}

func (s *FileStore) save(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *FileStore) GetItem(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := entries[key]
	return value, ok, nil
}

func (s *FileStore) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return err
	}
	entries[key] = value
	return s.save(entries)
}

func (s *FileStore) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return s.save(entries)
}
