// Package store holds the name-keyed instance map a container exposes.
package store

import "sync"

// Store maps alias and contract names to shared instances. Writers only exist
// while a container is being built; readers may be concurrent afterwards.
type Store struct {
	mu      sync.RWMutex
	entries map[string]any
	keys    []string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		entries: make(map[string]any),
	}
}

// PutAlias stores instance under alias unless the key is taken. The first
// registration wins; it reports whether the instance was stored.
func (s *Store) PutAlias(alias string, instance any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[alias]; ok {
		return false
	}

	s.put(alias, instance)
	return true
}

// PutContract stores instance under a contract name, replacing any previous
// holder. The last registration wins.
func (s *Store) PutContract(name string, instance any) (replaced any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced = s.entries[name]
	s.put(name, instance)
	return replaced
}

func (s *Store) put(key string, instance any) {
	if _, ok := s.entries[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.entries[key] = instance
}

// Get returns the instance stored under name.
func (s *Store) Get(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	instance, ok := s.entries[name]
	return instance, ok
}

// Keys returns every key in first-insertion order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
