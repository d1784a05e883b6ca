// Package filestore is a durable storage.Storage backed by one JSON file
// per entity and per queued future. Grounded on the teacher's FileStore
// (session/file_store.go): the same validated-path-confined-to-root
// technique and atomic directory layout, generalized from "one JSONL
// file per session" to "one JSON file per persisted row," since entities
// are replaced wholesale on save rather than appended to.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hollowmere/kernel/storage"
)

// ErrInvalidKey is returned when an entity or future key contains path
// separators or other characters that could escape the store directory.
var ErrInvalidKey = fmt.Errorf("filestore: invalid key")

// Store is a file-backed storage.Storage rooted at a directory, with an
// entities/ and futures/ subdirectory. A single process-wide mutex
// serializes all store operations; spec §4.2 assumes one active
// transaction per session, so this is not a throughput bottleneck for
// the core's intended single-writer-per-world usage.
type Store struct {
	mu   sync.RWMutex
	dir  string
	inTx bool
}

// New creates (if necessary) dir/entities and dir/futures and returns a
// Store rooted there.
func New(dir string) (*Store, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, dir[2:])
	}
	for _, sub := range []string{"entities", "futures"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, err
		}
	}
	return &Store{dir: dir}, nil
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, "/\\") ||
		strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

func (s *Store) entityPath(key string) (string, error) {
	return s.confine("entities", key)
}

func (s *Store) futurePath(key string) (string, error) {
	return s.confine("futures", key)
}

func (s *Store) confine(sub, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	root := filepath.Join(s.dir, sub)
	p := filepath.Clean(filepath.Join(root, key+".json"))
	if !strings.HasPrefix(p, root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q resolves outside store directory", ErrInvalidKey, key)
	}
	return p, nil
}

// writeFileAtomic writes data to path via a temp file in the same
// directory followed by rename, so a crash mid-write never leaves a
// half-written row behind — stronger than the teacher's direct
// os.Create, needed here because unlike an append-only JSONL event log,
// every save rewrites an entity's entire row.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
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
		entries, err := os.ReadDir(filepath.Join(s.dir, "entities"))
		if err != nil {
			return nil, err
		}
		for _, ent := range entries {
			if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".json") {
				continue
			}
			e, err := s.readEntityFile(filepath.Join(s.dir, "entities", ent.Name()))
			if err != nil {
				continue
			}
			if e.Gid == uint64(*by.Gid) {
				return e, nil
			}
		}
		return nil, storage.ErrNotFound
	}

	p, err := s.entityPath(string(by.Key))
	if err != nil {
		return nil, err
	}
	return s.readEntityFileChecked(p)
}

func (s *Store) readEntityFileChecked(p string) (*storage.PersistedEntity, error) {
	e, err := s.readEntityFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *Store) readEntityFile(p string) (*storage.PersistedEntity, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var e storage.PersistedEntity
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) Save(ctx context.Context, e *storage.PersistedEntity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.entityPath(e.Key)
	if err != nil {
		return err
	}

	existing, err := s.readEntityFile(p)
	switch {
	case err == nil:
		if existing.Version != e.Version-1 {
			return &storage.VersionConflictError{Key: e.Key, ExpectedVersion: e.Version}
		}
	case os.IsNotExist(err):
		if e.Version != 1 {
			return &storage.VersionConflictError{Key: e.Key, ExpectedVersion: e.Version}
		}
	default:
		return err
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return writeFileAtomic(p, data)
}

func (s *Store) Delete(ctx context.Context, e *storage.PersistedEntity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.entityPath(e.Key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) QueryAll(ctx context.Context) ([]*storage.PersistedEntity, error) {
	return s.QueryAllEntities(ctx)
}

func (s *Store) QueryAllEntities(ctx context.Context) ([]*storage.PersistedEntity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(s.dir, "entities"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]*storage.PersistedEntity, 0, len(entries))
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".json") {
			continue
		}
		e, err := s.readEntityFile(filepath.Join(s.dir, "entities", ent.Name()))
		if err != nil {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *Store) Queue(ctx context.Context, f *storage.PersistedFuture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.futurePath(f.Key)
	if err != nil {
		return err
	}
	if _, err := os.Stat(p); err == nil {
		return nil // no-op on duplicate key, per spec §4.2 errors
	}
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return writeFileAtomic(p, data)
}

func (s *Store) Cancel(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.futurePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) QueryFuturesBefore(ctx context.Context, when time.Time) ([]*storage.PersistedFuture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.dir, "futures")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	type indexed struct {
		f    *storage.PersistedFuture
		path string
		mod  int64
	}
	var due []indexed
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".json") {
			continue
		}
		p := filepath.Join(dir, ent.Name())
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		var f storage.PersistedFuture
		if err := json.Unmarshal(data, &f); err != nil {
			continue
		}
		if !f.Time.After(when) {
			info, err := ent.Info()
			var mod int64
			if err == nil {
				mod = info.ModTime().UnixNano()
			}
			due = append(due, indexed{&f, p, mod})
		}
	}
	sort.Slice(due, func(a, b int) bool {
		if !due[a].f.Time.Equal(due[b].f.Time) {
			return due[a].f.Time.Before(due[b].f.Time)
		}
		return due[a].mod < due[b].mod
	})

	out := make([]*storage.PersistedFuture, 0, len(due))
	for _, d := range due {
		out = append(out, d.f)
		os.Remove(d.path)
	}
	return out, nil
}

func (s *Store) PeekNextFutureTime(ctx context.Context) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir := filepath.Join(s.dir, "futures")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var earliest *time.Time
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, ent.Name()))
		if err != nil {
			continue
		}
		var f storage.PersistedFuture
		if err := json.Unmarshal(data, &f); err != nil {
			continue
		}
		if earliest == nil || f.Time.Before(*earliest) {
			t := f.Time
			earliest = &t
		}
	}
	return earliest, nil
}
