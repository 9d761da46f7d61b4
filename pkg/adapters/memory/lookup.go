package memory

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Entry is one question/answer pair in the lookup corpus.
type Entry struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// Lookup implements ports.LookupStore over an in-memory corpus using
// case-insensitive substring matching on the stored questions.
// Safe for concurrent use.
type Lookup struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewLookup creates a lookup store seeded with the given entries.
func NewLookup(entries ...Entry) *Lookup {
	return &Lookup{entries: entries}
}

// NewLookupFromYAML reads a corpus from YAML: a sequence of
// {question, answer} mappings.
func NewLookupFromYAML(r io.Reader) (*Lookup, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse corpus: %w", err)
	}
	for i, entry := range entries {
		if entry.Question == "" {
			return nil, fmt.Errorf("corpus entry %d: missing question", i)
		}
	}

	return NewLookup(entries...), nil
}

// LoadCorpus reads a corpus file from disk.
func LoadCorpus(path string) (*Lookup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus %s: %w", path, err)
	}
	defer f.Close()
	return NewLookupFromYAML(f)
}

// Add appends entries to the corpus.
func (l *Lookup) Add(entries ...Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entries...)
}

// Len returns the corpus size.
func (l *Lookup) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Lookup returns the answer of the first entry whose question contains
// the query as a substring, case-insensitively. An empty query never
// matches.
func (l *Lookup) Lookup(ctx context.Context, query string) (string, bool, error) {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return "", false, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, entry := range l.entries {
		if strings.Contains(strings.ToLower(entry.Question), query) {
			return entry.Answer, true, nil
		}
	}
	return "", false, nil
}
