package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const manifestFile = "manifest.json"

// Artifact kinds
const (
	KindPrices  = "prices"
	KindNews    = "news"
	KindDataset = "final_dataset"
)

// Entry records the latest artifact of one kind for one subject
type Entry struct {
	Kind      string    `json:"kind"`
	Subject   string    `json:"subject"`
	Path      string    `json:"path"`
	RunID     string    `json:"run_id"`
	Records   int       `json:"records"`
	CreatedAt time.Time `json:"created_at"`
}

// Manifest indexes the latest artifact per kind and subject
type Manifest struct {
	Entries map[string]Entry `json:"entries"`
}

func manifestKey(kind, subject string) string {
	return kind + ":" + subject
}

func (s *Store) readManifest() (*Manifest, error) {
	m := &Manifest{Entries: map[string]Entry{}}

	data, err := os.ReadFile(filepath.Join(s.dir, manifestFile))
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	if m.Entries == nil {
		m.Entries = map[string]Entry{}
	}
	return m, nil
}

// record stores entry as the latest artifact of its kind and subject
func (s *Store) record(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.readManifest()
	if err != nil {
		return err
	}
	m.Entries[manifestKey(entry.Kind, entry.Subject)] = entry

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	tmp := filepath.Join(s.dir, manifestFile+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, manifestFile)); err != nil {
		return fmt.Errorf("failed to replace manifest: %w", err)
	}
	return nil
}

// lookup returns the manifest entry for kind and subject if there is one
func (s *Store) lookup(kind, subject string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.readManifest()
	if err != nil {
		return Entry{}, false, err
	}
	e, ok := m.Entries[manifestKey(kind, subject)]
	return e, ok, nil
}
