// Package fs provides the file-backed implementation of the session
// key/value store.
package fs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const sessionFileName = "session.json"

// KVFile implements ports.KeyValueStore as a single JSON object file in the
// data directory. Writes are atomic (temp file + rename). The file is
// re-read on every Get so that the store stays the single source of truth
// across polling cycles.
type KVFile struct {
	mu   sync.Mutex
	path string
}

// NewKVFile creates a store rooted at dir. The directory is created on the
// first Set.
func NewKVFile(dir string) *KVFile {
	return &KVFile{path: filepath.Join(dir, sessionFileName)}
}

// Path returns the full path to the backing file.
func (s *KVFile) Path() string { return s.path }

// Get decodes the value under key into out. Missing file, missing key, and
// undecodable values all report found == false; Get never fails.
func (s *KVFile) Get(key string, out any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return false
	}
	raw, ok := m[key]
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

// Set stores v under key atomically.
func (s *KVFile) Set(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m, err := s.read()
	if err != nil {
		m = map[string]json.RawMessage{}
	}
	m[key] = raw
	return s.write(m)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *KVFile) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return nil
	}
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return s.write(m)
}

func (s *KVFile) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]json.RawMessage{}
	}
	return m, nil
}

func (s *KVFile) write(m map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
