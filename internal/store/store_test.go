package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMemory_RoundTrip(t *testing.T) {
	m := NewMemory()

	if _, err := m.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := m.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, err := m.Get("k"); err != nil || v != "v" {
		t.Errorf("Get = %q, %v", v, err)
	}

	if err := m.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := m.Get("k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestStringList_RoundTrip(t *testing.T) {
	m := NewMemory()

	if got := GetStringList(m, KeyFavorites); got != nil {
		t.Errorf("Expected nil for missing list, got %v", got)
	}

	want := []string{"Thank you", "I need help"}
	if err := SetStringList(m, KeyFavorites, want); err != nil {
		t.Fatalf("SetStringList failed: %v", err)
	}
	if got := GetStringList(m, KeyFavorites); !reflect.DeepEqual(got, want) {
		t.Errorf("GetStringList = %v, want %v", got, want)
	}
}

func TestStringList_MalformedFallsBack(t *testing.T) {
	m := NewMemory()
	m.Set(KeyPhraseHistory, "{definitely not an array")

	if got := GetStringList(m, KeyPhraseHistory); got != nil {
		t.Errorf("Expected nil for malformed value, got %v", got)
	}
}

func TestSQLite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aac.sqlite")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer s.Close()

	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := s.Set(KeyFontSize, "large"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(KeyFontSize, "small"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if v, err := s.Get(KeyFontSize); err != nil || v != "small" {
		t.Errorf("Get = %q, %v", v, err)
	}

	if err := s.Delete(KeyFontSize); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(KeyFontSize); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}
