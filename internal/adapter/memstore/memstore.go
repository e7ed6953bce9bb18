// Package memstore is an in-process key-value backend, used for local runs,
// demos, and offline processing of database exports.
package memstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/store"
)

// Store keeps collections in memory. The zero value is not usable; call New.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

// New creates an empty Store.
func New() *Store {
	return &Store{collections: make(map[string]map[string][]byte)}
}

// LoadExport creates a Store from a JSON export of the database root, where
// each top-level key is a collection and each child is a record:
//
//	{"reports": {"1700000000000": {...}, "1700000000001": {...}}}
//
// Collections may also be arrays with null holes, the way the database
// exports small integer keys. Null and scalar top-level values hold no
// records and are skipped.
func LoadExport(r io.Reader) (*Store, error) {
	var root map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	s := New()
	for collection, raw := range root {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || (raw[0] != '{' && raw[0] != '[') {
			continue
		}
		entries, found, err := store.DecodeCollection(raw)
		if err != nil {
			return nil, fmt.Errorf("decode export %s: %w", collection, err)
		}
		if !found {
			continue
		}
		records := make(map[string][]byte, len(entries))
		for _, e := range entries {
			records[e.Key] = e.Value
		}
		s.collections[collection] = records
	}
	return s, nil
}

// Export writes the database root in the shape LoadExport reads.
func (s *Store) Export(w io.Writer) error {
	s.mu.RLock()
	root := make(map[string]map[string]json.RawMessage, len(s.collections))
	for collection, records := range s.collections {
		children := make(map[string]json.RawMessage, len(records))
		for key, value := range records {
			children[key] = json.RawMessage(value)
		}
		root[collection] = children
	}
	s.mu.RUnlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

func (s *Store) Read(_ context.Context, collection string) ([]store.Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.collections[collection]
	if !ok {
		return nil, false, nil
	}
	entries := make([]store.Entry, 0, len(records))
	for key, value := range records {
		v := make([]byte, len(value))
		copy(v, value)
		entries = append(entries, store.Entry{Key: key, Value: v})
	}
	return entries, true, nil
}

// Write creates the record at recordPath, or returns store.ErrRecordExists.
func (s *Store) Write(_ context.Context, recordPath string, value []byte) error {
	collection, key, ok := store.SplitRecordPath(recordPath)
	if !ok {
		return fmt.Errorf("invalid record path %q", recordPath)
	}
	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.collections[collection]
	if records == nil {
		records = make(map[string][]byte)
		s.collections[collection] = records
	}
	if _, taken := records[key]; taken {
		return fmt.Errorf("write %s: %w", recordPath, store.ErrRecordExists)
	}
	records[key] = v
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }
