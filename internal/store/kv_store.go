package store

import (
	"sync"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

// LoadState tags the outcome of reading a typed value out of the store.
// Corrupt payloads are reported, not swallowed, so callers decide whether
// corruption is user-visible.
type LoadState int

const (
	LoadOk LoadState = iota
	LoadEmpty
	LoadCorrupt
)

type LoadResult struct {
	State LoadState
	Raw   string
}

// StoreInterface is the injected abstraction over the persistent key-value
// store. All values are JSON-encoded strings. Set overwrites
// unconditionally; Remove is a no-op for absent keys.
type StoreInterface interface {
	Get(key string) (string, bool)
	Set(key string, value string)
	Remove(key string)
	Keys() []string
	Snapshot() map[string]string
	Replace(entries map[string]string)
	Subscribe(fn func(key string)) (unsubscribe func())
	Dirty() bool
	MarkClean()
}

// MemStore is the in-process implementation. Mutations mark the store
// dirty; the scheduler snapshots it to disk. Observers registered via
// Subscribe are invoked synchronously after each Set/Remove, outside the
// store lock.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]string
	subs    map[int]func(key string)
	nextSub int
	dirty   atomic.Bool
}

func NewMemStore() *MemStore {
	return &MemStore{
		entries: make(map[string]string),
		subs:    make(map[int]func(key string)),
	}
}

func (s *MemStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.entries[key]
	return val, ok
}

func (s *MemStore) Set(key string, value string) {
	s.mu.Lock()
	s.entries[key] = value
	s.mu.Unlock()
	s.dirty.Store(true)
	s.notify(key)
}

func (s *MemStore) Remove(key string) {
	s.mu.Lock()
	_, existed := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()
	if !existed {
		return
	}
	s.dirty.Store(true)
	s.notify(key)
}

func (s *MemStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}

func (s *MemStore) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		snap[k] = v
	}
	return snap
}

// Replace swaps the whole contents, used when restoring from disk.
// It does not notify observers and does not mark the store dirty.
func (s *MemStore) Replace(entries map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]string, len(entries))
	for k, v := range entries {
		s.entries[k] = v
	}
}

func (s *MemStore) Subscribe(fn func(key string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *MemStore) Dirty() bool {
	return s.dirty.Load()
}

func (s *MemStore) MarkClean() {
	s.dirty.Store(false)
}

func (s *MemStore) notify(key string) {
	s.mu.RLock()
	fns := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(key)
	}
}

// DecodeJSON reads key and unmarshals it into v. Absent keys yield
// LoadEmpty, unparsable payloads LoadCorrupt with the raw value preserved.
func DecodeJSON(s StoreInterface, key string, v any) LoadResult {
	raw, ok := s.Get(key)
	if !ok {
		return LoadResult{State: LoadEmpty}
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return LoadResult{State: LoadCorrupt, Raw: raw}
	}
	return LoadResult{State: LoadOk, Raw: raw}
}

// EncodeJSON marshals v and stores it under key.
func EncodeJSON(s StoreInterface, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.Set(key, string(data))
	return nil
}
