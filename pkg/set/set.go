package set

import (
	"sync"

	"github.com/emirpasic/gods/sets/hashset"
)

// StringSet is a concurrency-safe set of strings. Reads take a shared lock so
// hot-path membership checks from request handlers do not serialize.
type StringSet struct {
	set     *hashset.Set
	rwMutex sync.RWMutex
}

func NewStringSet(items ...string) *StringSet {
	hashSet := hashset.New()
	for _, item := range items {
		hashSet.Add(item)
	}
	return &StringSet{set: hashSet}
}

func (s *StringSet) Contains(item string) bool {
	s.rwMutex.RLock()
	defer s.rwMutex.RUnlock()
	return s.set.Contains(item)
}

func (s *StringSet) Add(items ...string) {
	s.rwMutex.Lock()
	defer s.rwMutex.Unlock()
	for _, item := range items {
		s.set.Add(item)
	}
}

func (s *StringSet) Remove(items ...string) {
	s.rwMutex.Lock()
	defer s.rwMutex.Unlock()
	for _, item := range items {
		s.set.Remove(item)
	}
}

func (s *StringSet) Size() int {
	s.rwMutex.RLock()
	defer s.rwMutex.RUnlock()
	return s.set.Size()
}
