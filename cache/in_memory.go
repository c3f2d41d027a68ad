package cache

import (
	"container/list"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/triagemesh/core"
)

// Defaults for the in-memory store.
const (
	DefaultTTL      = 24 * time.Hour
	DefaultCapacity = 4096
)

// Options configure an InMemoryStore.
type Options struct {
	// TTL bounds entry lifetime; 0 disables expiry.
	TTL time.Duration
	// Capacity caps entry count, evicting the oldest first; 0 disables
	// the cap.
	Capacity int
}

type entry struct {
	id       string
	data     []byte
	storedAt time.Time
}

// InMemoryStore is a process-local core.ResultCache. Entries are stored as
// marshaled JSON, so readers can never observe a partially written
// recommendation and cached results replay bit-identically.
//
// Concurrency: protected by a single mutex; last write wins for concurrent
// writers of the same identifier.
type InMemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = oldest
}

// NewInMemoryStore creates a bounded in-memory store.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{TTL: DefaultTTL, Capacity: DefaultCapacity}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryStore{
		ttl:      opts.TTL,
		capacity: opts.Capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get implements core.ResultCache.
func (s *InMemoryStore) Get(_ context.Context, id string) (*core.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	e := el.Value.(*entry)
	if s.expired(e) {
		s.remove(el)
		return nil, core.ErrNotFound
	}

	var rec core.Recommendation
	if err := json.Unmarshal(e.data, &rec); err != nil {
		return nil, fmt.Errorf("cache: corrupt entry for %q: %w", id, err)
	}
	return &rec, nil
}

// Put implements core.ResultCache.
func (s *InMemoryStore) Put(_ context.Context, id string, rec *core.Recommendation) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cache: marshal recommendation for %q: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[id]; ok {
		s.remove(el)
	}
	el := s.order.PushBack(&entry{id: id, data: data, storedAt: time.Now()})
	s.entries[id] = el

	s.evictLocked()
	return nil
}

// Delete implements core.ResultCache.
func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.entries[id]; ok {
		s.remove(el)
	}
	return nil
}

// Clear implements core.ResultCache.
func (s *InMemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*list.Element)
	s.order.Init()
	return nil
}

// Len returns the current entry count, including not-yet-pruned expired
// entries.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *InMemoryStore) expired(e *entry) bool {
	return s.ttl > 0 && time.Since(e.storedAt) > s.ttl
}

// evictLocked drops expired entries, then the oldest entries beyond
// capacity. Caller holds the mutex.
func (s *InMemoryStore) evictLocked() {
	for el := s.order.Front(); el != nil; {
		next := el.Next()
		if s.expired(el.Value.(*entry)) {
			s.remove(el)
		}
		el = next
	}
	if s.capacity <= 0 {
		return
	}
	for len(s.entries) > s.capacity {
		s.remove(s.order.Front())
	}
}

func (s *InMemoryStore) remove(el *list.Element) {
	delete(s.entries, el.Value.(*entry).id)
	s.order.Remove(el)
}
