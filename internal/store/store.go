// Package store is the key-value persistence collaborator: favorites,
// custom phrases, phrase history and the font-size preset live here as
// UTF-8 blobs. Reads fall back to documented defaults on any failure;
// writes are best-effort and never crash the session.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Keys for the persisted values.
const (
	KeyFavorites     = "favorites"
	KeyCustomPhrases = "custom_phrases"
	KeyPhraseHistory = "phrase_history"
	KeyFontSize      = "font_size"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("key not found")

// Store is a string-keyed blob store.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// GetStringList reads a JSON string array from the store. A missing or
// malformed value yields an empty list, never an error.
func GetStringList(s Store, key string) []string {
	raw, err := s.Get(key)
	if err != nil {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil
	}
	return list
}

// SetStringList writes a JSON string array to the store.
func SetStringList(s Store, key string, list []string) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(key, string(raw)); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

// Memory is an in-process Store used in tests and as the fallback when no
// database path is configured.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }
