package hollowmere

import (
	"encoding/json"
	"strings"
	"sync"
)

// EntityKey is an opaque string, unique per entity, stable across
// sessions. It is user-supplied only for the singleton "world" entity;
// every other key is generated by the identifiers package.
type EntityKey string

// WorldKey is the one user-supplied EntityKey in the system: the
// singleton world entity, gid 0.
const WorldKey EntityKey = "world"

// EntityGid is a monotonically increasing 64-bit integer, assigned the
// first time an entity is persisted. The world entity is always gid 0.
type EntityGid uint64

// EntityClass is a string tag from a closed set used for type routing.
// It is not a hierarchy: two entities of the same class may carry
// entirely different scope sets.
type EntityClass string

const (
	ClassWorld         EntityClass = "world"
	ClassArea          EntityClass = "area"
	ClassLiving        EntityClass = "living"
	ClassExit          EntityClass = "exit"
	ClassItem          EntityClass = "item"
	ClassEncyclopedia  EntityClass = "encyclopedia"
)

// Identity is a (public, private) key pair attached to an entity for
// ownership-proof use by higher layers. The core treats both halves as
// opaque base64 strings; see identifiers.NewIdentity for how they are
// produced.
type Identity struct {
	Public  string `json:"public"`
	Private string `json:"private,omitempty"`
}

// Permission is an access level granted to a set of keys by an Acl rule.
type Permission string

const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
	PermissionAll   Permission = "all"
)

// Acl is one rule in an entity's or property's ordered access list: the
// named keys (holder entity keys, or "*" for everyone) are granted the
// given permission.
type Acl struct {
	Keys       []string   `json:"keys"`
	Permission Permission `json:"perm"`
}

// Acls is an ordered list of rules; evaluation order matters, first
// matching rule for a given holder key wins.
type Acls []Acl

// Allows reports whether holderKey has at least the given permission
// under these rules. An empty Acls list means unrestricted (everyone
// gets PermissionAll), matching the common case of world-readable,
// session-writable scaffolding content.
func (a Acls) Allows(holderKey string, want Permission) bool {
	if len(a) == 0 {
		return true
	}
	rank := map[Permission]int{PermissionRead: 1, PermissionWrite: 2, PermissionAll: 3}
	for _, rule := range a {
		for _, k := range rule.Keys {
			if k == "*" || k == holderKey {
				return rank[rule.Permission] >= rank[want]
			}
		}
	}
	return false
}

// Property is a named, ACL-guarded value attached directly to an entity
// (as opposed to the richer, typed Scope mechanism). Reserved names
// include "name", "desc", "gid", and "destroyed"; PropertiesOf projects
// them into a Properties value for convenience accessors.
type Property struct {
	Acls  Acls            `json:"acls,omitempty"`
	Value json.RawMessage `json:"value"`
}

// EntityRef is a resolvable reference to an entity: enough information
// to re-find it (key, and optionally gid/class/name for display and
// fast-path comparisons) without holding a live handle. References are
// data, never owning pointers; a Session upgrades a ref to a live
// Entity on demand via Session.Entity.
type EntityRef struct {
	Key   EntityKey   `json:"key"`
	Class EntityClass `json:"class,omitempty"`
	Name  string      `json:"name,omitempty"`
	Gid   *EntityGid  `json:"gid,omitempty"`
}

// IsZero reports whether this ref points at nothing.
func (r EntityRef) IsZero() bool { return r.Key == "" }

// RefOf builds an EntityRef describing e, suitable for storing inside
// another entity's scope.
func RefOf(e *Entity) EntityRef {
	if e == nil {
		return EntityRef{}
	}
	ref := EntityRef{Key: e.Key, Class: e.Class, Name: e.Name()}
	if e.Gid != 0 || e.gidAssigned {
		g := e.Gid
		ref.Gid = &g
	}
	return ref
}

// Entity is the uniform unit of the world model: a bag of scopes with a
// key, gid, and class. A Session owns every Entity it loads or creates;
// entities never hold pointers to one another, only EntityRef values
// resolved lazily back through the owning Session.
type Entity struct {
	Key     EntityKey   `json:"key"`
	Gid     EntityGid   `json:"gid"`
	Version uint64      `json:"version"`
	Class   EntityClass `json:"class"`

	Identity Identity    `json:"identity"`
	Creator  *EntityRef  `json:"creator,omitempty"`
	Parent   *EntityRef  `json:"parent,omitempty"`

	Acls   Acls                       `json:"acls,omitempty"`
	Props  map[string]Property        `json:"props,omitempty"`
	Scopes map[string]json.RawMessage `json:"scopes,omitempty"`

	mu          sync.Mutex
	gidAssigned bool
	destroyed   bool
	session     sessionHandle
	openScopes  map[string]bool // (scope key) -> locked, guards one mutable handle per scope
}

// sessionHandle is the minimal surface Entity needs from *Session,
// expressed as an interface to avoid an import cycle while still letting
// scope_mut handles notify the owning session that an entity became
// dirty. Session implements this directly.
type sessionHandle interface {
	markDirty(key EntityKey)
	lockScope(key EntityKey, scopeKey string) error
	unlockScope(key EntityKey, scopeKey string)
}

// bind associates this entity with the session that loaded or created
// it. Called by Session when it caches the entity.
func (e *Entity) bind(s sessionHandle) { e.session = s }

// Name returns the canonical display name, stored in the reserved
// "name" property and projected by PropertiesOf.
func (e *Entity) Name() string {
	return e.propString("name")
}

// SetName sets the reserved "name" property and marks the entity dirty.
func (e *Entity) SetName(name string) {
	e.setPropString("name", name)
}

// Desc returns the optional reserved "desc" property.
func (e *Entity) Desc() string {
	return e.propString("desc")
}

// SetDesc sets the reserved "desc" property.
func (e *Entity) SetDesc(desc string) {
	e.setPropString("desc", desc)
}

func (e *Entity) propString(name string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Props == nil {
		return ""
	}
	p, ok := e.Props[name]
	if !ok {
		return ""
	}
	var s string
	_ = json.Unmarshal(p.Value, &s)
	return s
}

func (e *Entity) setPropString(name, value string) {
	e.mu.Lock()
	raw, _ := json.Marshal(value)
	if e.Props == nil {
		e.Props = map[string]Property{}
	}
	prop := e.Props[name]
	prop.Value = raw
	e.Props[name] = prop
	e.mu.Unlock()
	if e.session != nil {
		e.session.markDirty(e.Key)
	}
}

// SetGid assigns the entity's global id. Session.AddEntity calls it
// when an entity is added to a session (invariant 1 in spec §3).
func (e *Entity) SetGid(gid EntityGid) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Gid = gid
	e.gidAssigned = true
}

// Destroy marks the entity for deletion on the next commit (spec §3
// invariant 8, Lifecycle "Destroyed").
func (e *Entity) Destroy() {
	e.mu.Lock()
	e.destroyed = true
	e.mu.Unlock()
	e.setPropString("destroyed", "true")
}

// Destroyed reports whether Destroy has been called on this handle.
func (e *Entity) Destroyed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

// HasScope reports whether raw scope data is present under key. Per
// spec §4.3, a scope either is absent (HasScope is false, Scope[T]
// returns the type's zero value) or deserializes cleanly.
func (e *Entity) HasScope(scopeKey string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.Scopes[scopeKey]
	return ok
}

// rawScope returns the raw JSON for scopeKey, or nil if absent.
func (e *Entity) rawScope(scopeKey string) json.RawMessage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Scopes[scopeKey]
}

// replaceScope serializes and stores v under scopeKey, marking the
// entity dirty. Used by the generic ReplaceScope (and through it
// MutHandle.Save) in scope.go.
func (e *Entity) replaceScope(scopeKey string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e.mu.Lock()
	if e.Scopes == nil {
		e.Scopes = map[string]json.RawMessage{}
	}
	e.Scopes[scopeKey] = raw
	e.mu.Unlock()
	if e.session != nil {
		e.session.markDirty(e.Key)
	}
	return nil
}

// snapshot returns a deep-enough copy of the entity's serializable
// surface, used by Session to diff pre- and post-session state at
// commit time (spec §4.4 commit algorithm step 3).
func (e *Entity) snapshot() []byte {
	data, _ := json.Marshal(e)
	return data
}

// MarshalJSON implements the persisted-entity wire format from spec §6.1.
func (e *Entity) MarshalJSON() ([]byte, error) {
	type wire struct {
		Key      EntityKey                  `json:"key"`
		Gid      *EntityGid                 `json:"gid,omitempty"`
		Version  uint64                     `json:"version"`
		Class    EntityClass                `json:"class"`
		Identity Identity                   `json:"identity"`
		Creator  *EntityRef                 `json:"creator,omitempty"`
		Parent   *EntityRef                 `json:"parent,omitempty"`
		Acls     Acls                       `json:"acls,omitempty"`
		Props    map[string]Property        `json:"props,omitempty"`
		Scopes   map[string]json.RawMessage `json:"scopes,omitempty"`
	}
	w := wire{
		Key: e.Key, Version: e.Version, Class: e.Class,
		Identity: e.Identity, Creator: e.Creator, Parent: e.Parent,
		Acls: e.Acls, Props: e.Props, Scopes: e.Scopes,
	}
	if e.gidAssigned || e.Gid != 0 {
		g := e.Gid
		w.Gid = &g
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses the persisted-entity wire format. Gid is
// optional at v1 (a freshly built, not-yet-persisted entity has none).
func (e *Entity) UnmarshalJSON(data []byte) error {
	type wire struct {
		Key      EntityKey                  `json:"key"`
		Gid      *EntityGid                 `json:"gid"`
		Version  uint64                     `json:"version"`
		Class    EntityClass                `json:"class"`
		Identity Identity                   `json:"identity"`
		Creator  *EntityRef                 `json:"creator,omitempty"`
		Parent   *EntityRef                 `json:"parent,omitempty"`
		Acls     Acls                       `json:"acls,omitempty"`
		Props    map[string]Property        `json:"props,omitempty"`
		Scopes   map[string]json.RawMessage `json:"scopes,omitempty"`
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	e.Key = w.Key
	e.Version = w.Version
	e.Class = w.Class
	e.Identity = w.Identity
	e.Creator = w.Creator
	e.Parent = w.Parent
	e.Acls = w.Acls
	e.Props = w.Props
	e.Scopes = w.Scopes
	if w.Gid != nil {
		e.Gid = *w.Gid
		e.gidAssigned = true
	}
	return nil
}

// allRefs collects every EntityRef reachable from e's known ref-bearing
// scopes, used by Session.RecursiveEntity to warm the cache outward.
// Absent scopes contribute nothing; malformed scope data is skipped
// rather than propagated, since a failed warm should never fail the
// surrounding load.
func (e *Entity) allRefs() []EntityRef {
	var refs []EntityRef

	if c, err := ScopeOf[Containing](e); err == nil {
		refs = append(refs, c.Holding...)
	}
	if l, err := ScopeOf[Location](e); err == nil && l.Container != nil {
		refs = append(refs, *l.Container)
	}
	if o, err := ScopeOf[Occupying](e); err == nil && !o.Area.IsZero() {
		refs = append(refs, o.Area)
	}
	if o, err := ScopeOf[Occupyable](e); err == nil {
		refs = append(refs, o.Occupied...)
	}
	if ex, err := ScopeOf[Exit](e); err == nil && !ex.Area.IsZero() {
		refs = append(refs, ex.Area)
	}
	if m, err := ScopeOf[Movement](e); err == nil {
		for _, r := range m.Routes {
			refs = append(refs, r.Area)
		}
	}
	if w, err := ScopeOf[Wearing](e); err == nil {
		refs = append(refs, w.Wearing...)
	}

	return refs
}

// ValidKey reports whether s is usable as an EntityKey: non-empty and
// free of path-like or whitespace-only content (storage backends such
// as filestore use the key directly as a filename component).
func ValidKey(s string) bool {
	if s == "" || strings.TrimSpace(s) == "" {
		return false
	}
	if strings.ContainsAny(s, "/\\") || s == "." || s == ".." {
		return false
	}
	return true
}
