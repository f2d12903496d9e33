// Package memory provides an in-process key/value store. It backs tests and
// serves as the degraded-mode store when the data directory is unusable.
package memory

import (
	"encoding/json"
	"errors"
	"sync"
)

// ErrUnavailable is returned by a store put into failing mode.
var ErrUnavailable = errors.New("memory store unavailable")

// KV implements ports.KeyValueStore in memory. The zero value is ready to
// use. Values round-trip through JSON so type behavior matches the file
// adapter.
type KV struct {
	mu      sync.Mutex
	m       map[string]json.RawMessage
	failing bool
}

// NewKV creates an empty store.
func NewKV() *KV {
	return &KV{m: map[string]json.RawMessage{}}
}

// SetFailing makes subsequent Set/Delete calls fail, simulating unavailable
// storage.
func (s *KV) SetFailing(failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = failing
}

// Get decodes the value under key into out.
func (s *KV) Get(key string, out any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.m[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// Set stores v under key.
func (s *KV) Set(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return ErrUnavailable
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if s.m == nil {
		s.m = map[string]json.RawMessage{}
	}
	s.m[key] = raw
	return nil
}

// Delete removes key.
func (s *KV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return ErrUnavailable
	}
	delete(s.m, key)
	return nil
}

// Len returns the number of stored keys.
func (s *KV) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
