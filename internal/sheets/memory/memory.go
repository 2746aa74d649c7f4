package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"budget/internal/core"
	ports "budget/internal/sheets"
)

var (
	_ ports.EntryWriter    = (*Store)(nil)
	_ ports.CategorySeeder = (*Store)(nil)
)

// SeedFile is the file NewFromFiles reads category names from.
const SeedFile = "seed_categories.txt"

type Store struct {
	mu    sync.Mutex
	cats  []string
	items []core.Record
	refs  map[string]string
}

func New(cats []string) *Store {
	return &Store{cats: dedupe(cats), refs: map[string]string{}}
}

// NewFromFiles seeds categories from base/seed_categories.txt, falling back
// to Food, Clothing and Auto when the file is missing or empty.
func NewFromFiles(base string) *Store {
	cats := readLines(filepath.Join(base, SeedFile))
	if len(cats) == 0 {
		cats = []string{"Food", "Clothing", "Auto"}
	}
	return New(cats)
}

// Record stores the entry and returns a synthetic row reference. A repeated
// id returns the reference of the first copy.
func (s *Store) Record(_ context.Context, r core.Record) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref, ok := s.refs[r.ID]; ok {
		return ref, nil
	}
	s.items = append(s.items, r)
	ref := fmt.Sprintf("mem:%d", len(s.items))
	s.refs[r.ID] = ref
	return ref, nil
}

// Records returns a snapshot of stored entries in arrival order.
func (s *Store) Records() []core.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Record(nil), s.items...)
}

// Categories returns the seeded category names.
func (s *Store) Categories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cats...), nil
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

// dedupe drops blanks and repeats, keeping first-seen order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
