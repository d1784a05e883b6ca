package hollowmere

// LookupBy selects how Session.Entity finds an entity: by key or by
// gid, never both (spec.md §4.4's entity(LookupBy)). Distinct from
// storage.LookupBy, which is the analogous selector at the persistence
// layer; Session translates between the two at the storage boundary.
type LookupBy struct {
	key EntityKey
	gid *EntityGid
}

// ByKey builds a LookupBy that searches by key.
func ByKey(key EntityKey) LookupBy { return LookupBy{key: key} }

// ByGid builds a LookupBy that searches by gid.
func ByGid(gid EntityGid) LookupBy { return LookupBy{gid: &gid} }

// Resolve reports which selector was used.
func (l LookupBy) Resolve() (key EntityKey, gid *EntityGid) { return l.key, l.gid }
