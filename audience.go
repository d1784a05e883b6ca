package hollowmere

// Audience selects who receives a raised event (spec.md §4.5). Exactly
// one constructor below should be used; resolveAudience (implemented on
// Session, since resolving Area/Everybody needs entity lookups) walks
// the variant to a set of recipient keys.
type Audience struct {
	kind         audienceKind
	individuals  []EntityKey
	area         EntityKey
}

type audienceKind int

const (
	audienceNobody audienceKind = iota
	audienceIndividuals
	audienceArea
	audienceEverybody
)

// AudienceNobody resolves to the empty set.
func AudienceNobody() Audience { return Audience{kind: audienceNobody} }

// AudienceIndividuals resolves to exactly the given keys.
func AudienceIndividuals(keys ...EntityKey) Audience {
	return Audience{kind: audienceIndividuals, individuals: keys}
}

// AudienceArea resolves to the given area's current occupants.
func AudienceArea(area EntityKey) Audience { return Audience{kind: audienceArea, area: area} }

// AudienceEverybody resolves to every living entity currently occupying
// any area (SPEC_FULL.md §9's decided interpretation of the spec's
// "Everybody" open question).
func AudienceEverybody() Audience { return Audience{kind: audienceEverybody} }
