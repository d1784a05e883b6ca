package hollowmere

// Properties is a read-only projection of an entity's canonical
// identity fields (name, desc, gid, destroyed), exposed as an ordinary
// Scope so code that enumerates or renders scopes uniformly (editor
// replies, debug dumps) does not need a special case for these four
// fields. The fields themselves are still stored the way entity.go
// defines: inside the entity's ACL-guarded Props bag and its dedicated
// Gid field, not duplicated into persisted scope JSON — PropertiesOf
// builds this value on demand rather than ScopeOf loading it from
// storage. Calling ReplaceScope on a Properties value is a programming
// error; there is nothing to write back to.
type Properties struct {
	Core CoreProps `json:"core"`
}

func (Properties) ScopeKey() string { return "properties" }

// CoreProps mirrors the four reserved fields spec.md calls out by name.
type CoreProps struct {
	Name      string             `json:"name"`
	Desc      string             `json:"desc"`
	Gid       EntityGid `json:"gid"`
	Destroyed bool               `json:"destroyed"`
}

// PropertiesOf builds a snapshot view of e's canonical properties.
func PropertiesOf(e *Entity) Properties {
	return Properties{Core: CoreProps{
		Name:      e.Name(),
		Desc:      e.Desc(),
		Gid:       e.Gid,
		Destroyed: e.Destroyed(),
	}}
}

// Encyclopedia is a read-only knowledge article, attached to entities
// of class ClassEncyclopedia. It participates in Named(s) lookups the
// same as any other entity (spec.md's Item::Named resolves by scanning
// display names, unaware of class) — this is the scope that supplements
// the otherwise-undefined "encyclopedia" entity class from the closed
// EntityClass set (SPEC_FULL.md §4.3.1).
type Encyclopedia struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (Encyclopedia) ScopeKey() string { return "encyclopedia" }
