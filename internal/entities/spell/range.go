package spell

// RangeKind is the discriminant of a Range
type RangeKind string

// Range kinds
const (
	RangeKindPersonal         RangeKind = "personal"
	RangeKindTouch            RangeKind = "touch"
	RangeKindDistance         RangeKind = "distance"
	RangeKindDistanceLOS      RangeKind = "distance_los"
	RangeKindDistanceLOE      RangeKind = "distance_loe"
	RangeKindLOS              RangeKind = "los"
	RangeKindLOE              RangeKind = "loe"
	RangeKindSight            RangeKind = "sight"
	RangeKindHearing          RangeKind = "hearing"
	RangeKindVoice            RangeKind = "voice"
	RangeKindSenses           RangeKind = "senses"
	RangeKindSameRoom         RangeKind = "same_room"
	RangeKindSameStructure    RangeKind = "same_structure"
	RangeKindSameDungeonLevel RangeKind = "same_dungeon_level"
	RangeKindWilderness       RangeKind = "wilderness"
	RangeKindSamePlane        RangeKind = "same_plane"
	RangeKindInterplanar      RangeKind = "interplanar"
	RangeKindAnywhereOnPlane  RangeKind = "anywhere_on_plane"
	RangeKindDomain           RangeKind = "domain"
	RangeKindUnlimited        RangeKind = "unlimited"
	RangeKindSpecial          RangeKind = "special"
)

// DefaultRangeKind is used when a structured range carries no kind
const DefaultRangeKind = RangeKindSpecial

// RangeKinds returns the closed set of range kinds
func RangeKinds() []RangeKind {
	return []RangeKind{
		RangeKindPersonal, RangeKindTouch, RangeKindDistance, RangeKindDistanceLOS,
		RangeKindDistanceLOE, RangeKindLOS, RangeKindLOE, RangeKindSight, RangeKindHearing,
		RangeKindVoice, RangeKindSenses, RangeKindSameRoom, RangeKindSameStructure,
		RangeKindSameDungeonLevel, RangeKindWilderness, RangeKindSamePlane,
		RangeKindInterplanar, RangeKindAnywhereOnPlane, RangeKindDomain,
		RangeKindUnlimited, RangeKindSpecial,
	}
}

// RangeUnit is a linear distance unit
type RangeUnit string

// Range units
const (
	RangeUnitFeet   RangeUnit = "ft"
	RangeUnitYards  RangeUnit = "yd"
	RangeUnitMiles  RangeUnit = "mi"
	RangeUnitInches RangeUnit = "inch"
)

// RangeContext is a sight requirement attached to a distance range
type RangeContext string

// Range contexts
const (
	RangeContextLOS RangeContext = "los"
	RangeContextLOE RangeContext = "loe"
)

// RangeAnchor is the point a distance is measured from
type RangeAnchor string

// Range anchors
const (
	RangeAnchorCaster RangeAnchor = "caster"
	RangeAnchorTarget RangeAnchor = "target"
	RangeAnchorObject RangeAnchor = "object"
	RangeAnchorFixed  RangeAnchor = "fixed"
)

// Range is the structured form of a spell's range.
//
// Distance, Unit, Requires and Anchor belong to the distance kinds only.
// Text belongs to the special kind.
type Range struct {
	Kind           RangeKind      `json:"kind"`
	Distance       *Scalar        `json:"distance,omitempty"`
	Unit           RangeUnit      `json:"unit,omitempty"`
	Requires       []RangeContext `json:"requires,omitempty"`
	Anchor         RangeAnchor    `json:"anchor,omitempty"`
	Text           string         `json:"text,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	RawLegacyValue string         `json:"raw_legacy_value,omitempty"`
}

// Field implements FieldValue
func (Range) Field() Field { return FieldRange }

// LegacyText implements FieldValue
func (r Range) LegacyText() string { return r.RawLegacyValue }

// IsDistance reports whether the kind measures a distance
func (k RangeKind) IsDistance() bool {
	switch k {
	case RangeKindDistance, RangeKindDistanceLOS, RangeKindDistanceLOE:
		return true
	default:
		return false
	}
}
