package memory

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EntryKind classifies a remembered interaction.
type EntryKind string

const (
	KindApp     EntryKind = "app"
	KindWebsite EntryKind = "website"
	KindWindow  EntryKind = "window"
)

// ErrNoRecentEntry is the first-class absence result of Resolve: the
// caller turns it into an "I don't know what you mean" response.
var ErrNoRecentEntry = errors.New("no recent context entry")

// ContextEntry is one remembered interaction. Entries are never mutated
// in place; a new reference to the same identifier is a new entry.
type ContextEntry struct {
	ID         string            `json:"id"`
	Kind       EntryKind         `json:"kind"`
	Identifier string            `json:"identifier"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	At         time.Time         `json:"at"`
}

// Store is the bounded conversational context ring. Capacity is fixed
// at construction; the oldest entry is evicted first. Mutations arrive
// through the router's sequential dispatch, but the HTTP inspection
// endpoint reads concurrently, hence the mutex.
type Store struct {
	mu       sync.RWMutex
	capacity int
	entries  []ContextEntry
	now      func() time.Time
}

const defaultCapacity = 10

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Store{
		capacity: capacity,
		entries:  make([]ContextEntry, 0, capacity),
		now:      time.Now,
	}
}

// Remember appends an entry, evicting the oldest when over capacity.
func (s *Store) Remember(kind EntryKind, identifier string, metadata map[string]string) ContextEntry {
	var meta map[string]string
	if len(metadata) > 0 {
		meta = make(map[string]string, len(metadata))
		for k, v := range metadata {
			meta[k] = v
		}
	}
	e := ContextEntry{
		ID:         uuid.NewString(),
		Kind:       kind,
		Identifier: identifier,
		Metadata:   meta,
		At:         s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	if len(s.entries) > s.capacity {
		s.entries = s.entries[len(s.entries)-s.capacity:]
	}
	return e
}

// Resolve returns the most recent entry of the given kind, strictly by
// timestamp. Absence is ErrNoRecentEntry, never a panic or nil deref.
func (s *Store) Resolve(kind EntryKind) (ContextEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mostRecent(s.entries, func(e ContextEntry) bool { return e.Kind == kind })
}

// ResolveAny returns the most recent entry of any kind.
func (s *Store) ResolveAny() (ContextEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mostRecent(s.entries, func(ContextEntry) bool { return true })
}

// ResolvePreferring returns the most recent entry of the preferred
// kind, falling back to any kind when none exists. "Close it" after
// visiting a website should not silently skip over the website entry.
func (s *Store) ResolvePreferring(kind EntryKind) (ContextEntry, error) {
	if e, err := s.Resolve(kind); err == nil {
		return e, nil
	}
	return s.ResolveAny()
}

// Clear resets the store. Used by an explicit "forget" command.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.entries[:0]
}

// Entries returns a snapshot in chronological order.
func (s *Store) Entries() []ContextEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ContextEntry, len(s.entries))
	copy(out, s.entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

// Len reports the current number of retained entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func mostRecent(entries []ContextEntry, match func(ContextEntry) bool) (ContextEntry, error) {
	best := -1
	for i, e := range entries {
		if !match(e) {
			continue
		}
		// Tie-break by recency, not insertion index: a later timestamp
		// always wins even if entries were reordered.
		if best < 0 || !e.At.Before(entries[best].At) {
			best = i
		}
	}
	if best < 0 {
		return ContextEntry{}, ErrNoRecentEntry
	}
	return entries[best], nil
}
