// Package storage defines the persistence contract described in spec
// §4.2: a transactional store for serialized entities and scheduled
// futures. Two concrete backends live in the memstore and filestore
// subpackages; either satisfies Storage, so a Domain is backend-agnostic
// in the same way the teacher's Agent is agnostic to which
// SessionRepository backs it (session.go's SessionRepository interface).
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Load when no entity matches the lookup.
var ErrNotFound = errors.New("storage: not found")

// LookupBy selects how Load finds an entity: by key or by gid, never
// both (spec §4.4's LookupBy). Key and Gid are the storage layer's
// primitive encodings of hollowmere.EntityKey/EntityGid; this package
// stays free of any import on the root package so Session can import
// Storage without a cycle.
type LookupBy struct {
	Key string
	Gid *uint64
}

// ByKey builds a LookupBy that searches by key.
func ByKey(key string) LookupBy { return LookupBy{Key: key} }

// ByGid builds a LookupBy that searches by gid.
func ByGid(gid uint64) LookupBy { return LookupBy{Gid: &gid} }

// PersistedEntity is the on-disk/in-store representation of one entity,
// as named in spec §4.2.
type PersistedEntity struct {
	Key        string `json:"key"`
	Gid        uint64 `json:"gid"`
	Version    uint64 `json:"version"`
	Serialized string `json:"serialized"`
}

// PersistedFuture is the on-disk/in-store representation of one
// scheduled future, as named in spec §4.2 and §6.2.
type PersistedFuture struct {
	Key        string    `json:"key"`
	Time       time.Time `json:"time"`
	Serialized string    `json:"serialized"`
}

// Storage is the transactional persistence contract consumed by
// Session. A single active transaction is assumed per session (spec
// §4.2 "the core assumes one active transaction per session").
type Storage interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context, benign bool) error

	// Load fetches one entity by key or gid. Returns ErrNotFound if
	// absent; never returns a nil, nil-error pair.
	Load(ctx context.Context, by LookupBy) (*PersistedEntity, error)

	// Save writes e. Version 1 inserts; version > 1 updates
	// conditional on the stored version equalling e.Version-1. Fails
	// with a VersionConflictError-compatible error if zero rows match
	// (spec §4.2 errors).
	Save(ctx context.Context, e *PersistedEntity) error

	// Delete removes e's row entirely (used for destroyed entities).
	Delete(ctx context.Context, e *PersistedEntity) error

	// QueryAll returns every persisted entity, an O(all entities) scan
	// (spec §9). Everybody audience resolution calls QueryAllEntities,
	// the same listing under its other name.
	QueryAll(ctx context.Context) ([]*PersistedEntity, error)

	// QueryAllEntities is an alias kept distinct from QueryAll per the
	// two named operations in spec §4.2; backends may implement both
	// identically.
	QueryAllEntities(ctx context.Context) ([]*PersistedEntity, error)

	// Queue persists a future. A no-op if a future with the same key
	// already exists (spec §4.2 errors).
	Queue(ctx context.Context, f *PersistedFuture) error

	// Cancel removes an unsent future by key. Idempotent.
	Cancel(ctx context.Context, key string) error

	// QueryFuturesBefore atomically removes and returns every queued
	// future with Time <= when, ties broken by insertion order (spec
	// §4.2, §5 ordering guarantee 2).
	QueryFuturesBefore(ctx context.Context, when time.Time) ([]*PersistedFuture, error)

	// PeekNextFutureTime returns the earliest Time among all queued
	// futures without removing any of them, or (nil, nil) if none are
	// queued. Used by Session.Tick to report AfterTick's Deadline case
	// when nothing is due yet.
	PeekNextFutureTime(ctx context.Context) (*time.Time, error)
}

// VersionConflictError mirrors hollowmere.VersionConflictError so
// storage backends do not need to import the root package just to
// signal this one condition; Session unwraps either shape.
type VersionConflictError struct {
	Key             string
	ExpectedVersion uint64
}

func (e *VersionConflictError) Error() string {
	return "storage: version conflict saving " + e.Key
}
