// Package memstore is an in-memory storage.Storage, suitable for tests
// and single-process demos. Grounded on the teacher's MemoryStore
// (session/memory_store.go): a sync.RWMutex-guarded map, clone-on-write
// so callers never observe a half-written entry.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hollowmere/kernel/storage"
)

// Store is an in-memory storage.Storage. Data is lost when the process
// exits. Begin/Commit/Rollback are no-ops beyond bookkeeping: every
// Save/Delete/Queue/Cancel call takes effect immediately, matching the
// teacher's MemoryStore (which shares data directly with its Session
// rather than staging a separate transaction buffer) — acceptable here
// because the store has exactly one writer at a time per spec §5.
type Store struct {
	mu        sync.RWMutex
	entities  map[string]*storage.PersistedEntity
	futures   map[string]*storage.PersistedFuture
	inTx      bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		entities: make(map[string]*storage.PersistedEntity),
		futures:  make(map[string]*storage.PersistedFuture),
	}
}

func (s *Store) Begin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inTx = true
	return nil
}

func (s *Store) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inTx = false
	return nil
}

func (s *Store) Rollback(ctx context.Context, benign bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inTx = false
	return nil
}

func (s *Store) Load(ctx context.Context, by storage.LookupBy) (*storage.PersistedEntity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if by.Gid != nil {
		for _, e := range s.entities {
			if e.Gid == uint64(*by.Gid) {
				cp := *e
				return &cp, nil
			}
		}
		return nil, storage.ErrNotFound
	}
	e, ok := s.entities[string(by.Key)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *Store) Save(ctx context.Context, e *storage.PersistedEntity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.entities[e.Key]
	if e.Version == 1 {
		if ok {
			return &storage.VersionConflictError{Key: e.Key, ExpectedVersion: e.Version}
		}
	} else {
		if !ok || existing.Version != e.Version-1 {
			return &storage.VersionConflictError{Key: e.Key, ExpectedVersion: e.Version}
		}
	}
	cp := *e
	s.entities[e.Key] = &cp
	return nil
}

func (s *Store) Delete(ctx context.Context, e *storage.PersistedEntity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entities, e.Key)
	return nil
}

func (s *Store) QueryAll(ctx context.Context) ([]*storage.PersistedEntity, error) {
	return s.QueryAllEntities(ctx)
}

func (s *Store) QueryAllEntities(ctx context.Context) ([]*storage.PersistedEntity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*storage.PersistedEntity, 0, len(s.entities))
	for _, e := range s.entities {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *Store) Queue(ctx context.Context, f *storage.PersistedFuture) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.futures[f.Key]; ok {
		return nil // no-op on duplicate key, per spec §4.2 errors
	}
	cp := *f
	s.futures[f.Key] = &cp
	return nil
}

func (s *Store) Cancel(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.futures, key)
	return nil
}

func (s *Store) QueryFuturesBefore(ctx context.Context, when time.Time) ([]*storage.PersistedFuture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type indexed struct {
		f   *storage.PersistedFuture
		idx int
	}
	var due []indexed
	i := 0
	for _, f := range s.futures {
		if !f.Time.After(when) {
			due = append(due, indexed{f, i})
		}
		i++
	}
	sort.Slice(due, func(a, b int) bool {
		if !due[a].f.Time.Equal(due[b].f.Time) {
			return due[a].f.Time.Before(due[b].f.Time)
		}
		return due[a].idx < due[b].idx
	})

	out := make([]*storage.PersistedFuture, 0, len(due))
	for _, d := range due {
		out = append(out, d.f)
		delete(s.futures, d.f.Key)
	}
	return out, nil
}

func (s *Store) PeekNextFutureTime(ctx context.Context) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var earliest *time.Time
	for _, f := range s.futures {
		if earliest == nil || f.Time.Before(*earliest) {
			t := f.Time
			earliest = &t
		}
	}
	return earliest, nil
}
