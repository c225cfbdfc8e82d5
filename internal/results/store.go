package results

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"fundview/internal/rawdoc"
	"fundview/internal/viewmodel"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// FileName is the JSONL file Save and Load use inside a directory.
const FileName = "results.jsonl"

// maxLineBytes bounds one persisted document; histograms with many bins get large.
const maxLineBytes = 16 << 20

// Entry is one stored view model and when it was last replaced.
type Entry struct {
	Store     viewmodel.SimulationStore
	UpdatedAt time.Time

	// assigned is set when the id came from the caller rather than the document.
	assigned bool
}

// storedLine is the persisted form of a document stored under a caller-assigned id.
// Documents carrying their own id are written bare.
type storedLine struct {
	StoredID string       `json:"stored_id"`
	Document rawdoc.Value `json:"document"`
}

// Store keeps the latest view model per simulation id. View models are replaced
// on every Put, never modified in place.
type Store struct {
	opts viewmodel.Options

	mu      sync.RWMutex
	entries map[string]Entry
}

func NewStore(opts viewmodel.Options) *Store {
	return &Store{
		opts:    opts,
		entries: make(map[string]Entry),
	}
}

// Put normalizes raw and stores it under its id. Documents without an id are
// normalized and returned but not stored.
func (s *Store) Put(raw rawdoc.Value) (viewmodel.SimulationStore, bool) {
	vm := viewmodel.NormalizeWith(raw, s.opts)
	if vm.ID == viewmodel.Unknown {
		return vm, false
	}

	s.mu.Lock()
	s.entries[vm.ID] = Entry{Store: vm, UpdatedAt: time.Now()}
	s.mu.Unlock()
	return vm, true
}

// PutAs stores raw under id even when the document does not name itself, as
// status and result endpoints often omit it. A document that carries an id keeps
// it. An empty id behaves like Put.
func (s *Store) PutAs(id string, raw rawdoc.Value) (viewmodel.SimulationStore, bool) {
	if id == "" || id == viewmodel.Unknown {
		return s.Put(raw)
	}
	vm := viewmodel.NormalizeWith(raw, s.opts)
	assigned := vm.ID == viewmodel.Unknown
	if assigned {
		vm.ID = id
	}

	s.mu.Lock()
	s.entries[vm.ID] = Entry{Store: vm, UpdatedAt: time.Now(), assigned: assigned}
	s.mu.Unlock()
	return vm, true
}

func (s *Store) Get(id string) (viewmodel.SimulationStore, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e.Store, ok
}

// Entry returns the stored entry for id including its timestamp.
func (s *Store) Entry(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// List returns every stored view model ordered by id.
func (s *Store) List() []viewmodel.SimulationStore {
	s.mu.RLock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]viewmodel.SimulationStore, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.entries[id].Store)
	}
	s.mu.RUnlock()
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// Load reads dir/results.jsonl and stores every line, either a bare document or a
// stored_id/document pair written by Save. A missing file is not an error; lines
// that do not parse are skipped with a warning.
func (s *Store) Load(dir string) error {
	path := filepath.Join(dir, FileName)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open results cache: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	loaded, line := 0, 0
	for scanner.Scan() {
		line++
		raw, err := rawdoc.Parse(scanner.Bytes())
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("Skipping invalid JSON line in results cache")
			continue
		}
		id, doc := unwrapLine(raw)
		if _, ok := s.PutAs(id, doc); ok {
			loaded++
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading results cache: %w", err)
	}

	log.Info().Str("path", path).Int("count", loaded).Msg("Loaded simulation results from cache")
	return nil
}

// unwrapLine splits a persisted line into its assigned id and document. Bare
// documents have no assigned id.
func unwrapLine(raw rawdoc.Value) (string, rawdoc.Value) {
	keys := raw.Keys()
	if len(keys) != 2 || keys[0] != "document" || keys[1] != "stored_id" {
		return "", raw
	}
	idVal, _ := raw.Get("stored_id")
	id, ok := idVal.AsString()
	if !ok {
		return "", raw
	}
	doc, _ := raw.Get("document")
	return id, doc
}

// lines snapshots what Save writes, ordered by id.
func (s *Store) lines() []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		e := s.entries[id]
		if e.assigned {
			out = append(out, storedLine{StoredID: id, Document: e.Store.Raw})
			continue
		}
		out = append(out, e.Store.Raw)
	}
	return out
}

// Save writes the raw document behind every stored view model to dir/results.jsonl,
// replacing the previous file atomically. An empty store removes the file so
// deleted entries do not come back on the next Load.
func (s *Store) Save(dir string) error {
	path := filepath.Join(dir, FileName)
	docs := s.lines()
	if len(docs) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove empty results cache: %w", err)
		}
		return nil
	}

	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp results file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for i, doc := range docs {
		if err := encoder.Encode(doc); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode line %d: %w", i+1, err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename results file: %w", err)
	}

	log.Info().Str("path", path).Int("count", len(docs)).Msg("Simulation results saved to cache")
	return nil
}
