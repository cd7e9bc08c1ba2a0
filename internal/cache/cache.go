// Package cache holds the per-session collection cache.
//
// The cache exposes only atomic lookup, insert-if-absent, insert, and evict
// operations; the underlying map is never handed out, so the at-most-one
// entry per name invariant is enforced at a single choke point.
package cache

import (
	gocache "github.com/patrickmn/go-cache"

	"github.com/blueberrycongee/chromago/pkg/types"
)

// Store is a name-keyed cache of resolved collection models, safe for
// concurrent use. Entries never expire; a session trusts a name it has
// already resolved for its own lifetime.
type Store struct {
	entries *gocache.Cache
}

// New creates an empty store.
func New() *Store {
	return &Store{
		entries: gocache.New(gocache.NoExpiration, 0),
	}
}

// Lookup returns the cached model for name, if present.
func (s *Store) Lookup(name string) (types.CollectionModel, bool) {
	v, ok := s.entries.Get(name)
	if !ok {
		return types.CollectionModel{}, false
	}
	return v.(types.CollectionModel), true
}

// InsertIfAbsent inserts model under name unless an entry already exists,
// and returns the resident entry. First writer wins: a concurrent creator
// that raced ahead keeps priority.
func (s *Store) InsertIfAbsent(name string, model types.CollectionModel) types.CollectionModel {
	for {
		if err := s.entries.Add(name, model, gocache.NoExpiration); err == nil {
			return model
		}
		// Lost the race to another writer; return its entry. A concurrent
		// evict between Add and Get retries the insert.
		if v, ok := s.entries.Get(name); ok {
			return v.(types.CollectionModel)
		}
	}
}

// Insert stores model under name, replacing any existing entry.
func (s *Store) Insert(name string, model types.CollectionModel) {
	s.entries.Set(name, model, gocache.NoExpiration)
}

// Evict removes the entry for name, if present.
func (s *Store) Evict(name string) {
	s.entries.Delete(name)
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	return s.entries.ItemCount()
}
