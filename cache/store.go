// Package cache provides a sorted-slice object store for long-lived GPU
// objects such as shader modules and render pipelines.
//
// The key spaces this store serves are tiny (a handful of shader and
// pipeline identifiers), so entries live in one slice kept sorted by key
// and lookups are a binary search. Objects are created lazily on first use
// or eagerly in bulk with [Fill], and are released only in bulk by
// [Store.Destroy].
//
// A Store is not safe for concurrent use. Callers that share one across
// goroutines must serialize access.
package cache

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrDestroyed is returned by GetOrCreate after the store has been destroyed.
var ErrDestroyed = errors.New("cache: store destroyed")

// CreateError reports a constructor failure for a single key.
type CreateError[K any] struct {
	Key K
	Err error
}

func (e *CreateError[K]) Error() string {
	return fmt.Sprintf("cache: create %v: %v", e.Key, e.Err)
}

func (e *CreateError[K]) Unwrap() error { return e.Err }

// entry is a single key/object pair.
type entry[K, T any] struct {
	key K
	obj T
}

// Stats is a point-in-time snapshot of store usage.
type Stats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// Store maps keys to lazily created objects.
//
// Invariant: entries is strictly sorted by compare at every observation
// point, and each key appears at most once.
type Store[K, T any] struct {
	compare   func(a, b K) int
	entries   []entry[K, T]
	hits      uint64
	misses    uint64
	destroyed bool
}

// New creates an empty store ordered by compare.
// compare must define a total order (negative, zero, positive as cmp.Compare).
func New[K, T any](compare func(a, b K) int) *Store[K, T] {
	return &Store[K, T]{compare: compare}
}

// NewOrdered creates an empty store for naturally ordered keys.
func NewOrdered[K cmp.Ordered, T any]() *Store[K, T] {
	return New[K, T](cmp.Compare[K])
}

// search returns the position of key and whether it is present.
func (s *Store[K, T]) search(key K) (int, bool) {
	return slices.BinarySearchFunc(s.entries, key, func(e entry[K, T], k K) int {
		return s.compare(e.key, k)
	})
}

// GetOrCreate returns the object stored under key, creating it with create
// on a miss. create runs at most once per key over the store's lifetime.
// On failure the store is left unchanged.
func (s *Store[K, T]) GetOrCreate(key K, create func(K) (T, error)) (T, error) {
	var zero T
	if s.destroyed {
		return zero, ErrDestroyed
	}

	i, found := s.search(key)
	if found {
		s.hits++
		return s.entries[i].obj, nil
	}
	s.misses++

	obj, err := create(key)
	if err != nil {
		return zero, &CreateError[K]{Key: key, Err: err}
	}
	s.entries = slices.Insert(s.entries, i, entry[K, T]{key: key, obj: obj})
	return obj, nil
}

// Get returns the object stored under key without creating it.
func (s *Store[K, T]) Get(key K) (T, bool) {
	i, found := s.search(key)
	if !found {
		var zero T
		return zero, false
	}
	return s.entries[i].obj, true
}

// Len returns the number of stored objects.
func (s *Store[K, T]) Len() int { return len(s.entries) }

// Keys returns the stored keys in ascending order.
func (s *Store[K, T]) Keys() []K {
	keys := make([]K, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.key
	}
	return keys
}

// All iterates over the stored pairs in ascending key order.
func (s *Store[K, T]) All() iter.Seq2[K, T] {
	return func(yield func(K, T) bool) {
		for _, e := range s.entries {
			if !yield(e.key, e.obj) {
				return
			}
		}
	}
}

// Stats returns usage counters.
func (s *Store[K, T]) Stats() Stats {
	return Stats{Entries: len(s.entries), Hits: s.hits, Misses: s.misses}
}

// Destroyed reports whether Destroy has run.
func (s *Store[K, T]) Destroyed() bool { return s.destroyed }

// Destroy releases every stored object exactly once and empties the store.
// Subsequent calls do nothing, so an object is never released twice.
func (s *Store[K, T]) Destroy(destroy func(T)) {
	if s.destroyed {
		return
	}
	s.destroyed = true
	entries := s.entries
	s.entries = nil
	for _, e := range entries {
		destroy(e.obj)
	}
}

// Fill builds a store holding one object per distinct key, created eagerly.
//
// Entries are sorted once after all objects exist. If any create call
// fails, every object created so far is passed to destroy and the error is
// returned; no store is produced.
func Fill[K, T any](compare func(a, b K) int, keys []K, create func(K) (T, error), destroy func(T)) (*Store[K, T], error) {
	s := New[K, T](compare)
	s.entries = make([]entry[K, T], 0, len(keys))

	seen := func(k K) bool {
		return slices.ContainsFunc(s.entries, func(e entry[K, T]) bool {
			return compare(e.key, k) == 0
		})
	}

	for _, k := range keys {
		if seen(k) {
			continue
		}
		obj, err := create(k)
		if err != nil {
			for _, e := range s.entries {
				destroy(e.obj)
			}
			return nil, &CreateError[K]{Key: k, Err: err}
		}
		s.entries = append(s.entries, entry[K, T]{key: k, obj: obj})
	}

	slices.SortFunc(s.entries, func(a, b entry[K, T]) int {
		return compare(a.key, b.key)
	})
	s.misses = uint64(len(s.entries))
	return s, nil
}

// FillOrdered is Fill for naturally ordered keys.
func FillOrdered[K cmp.Ordered, T any](keys []K, create func(K) (T, error), destroy func(T)) (*Store[K, T], error) {
	return Fill(cmp.Compare[K], keys, create, destroy)
}
