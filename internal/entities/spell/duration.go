package spell

// DurationKind is the discriminant of a Duration
type DurationKind string

// Duration kinds
const (
	DurationKindInstant        DurationKind = "instant"
	DurationKindTime           DurationKind = "time"
	DurationKindConcentration  DurationKind = "concentration"
	DurationKindConditional    DurationKind = "conditional"
	DurationKindPermanent      DurationKind = "permanent"
	DurationKindUntilDispelled DurationKind = "until_dispelled"
	DurationKindUntilTriggered DurationKind = "until_triggered"
	DurationKindUsageLimited   DurationKind = "usage_limited"
	DurationKindPlanar         DurationKind = "planar"
	DurationKindSpecial        DurationKind = "special"
)

// DefaultDurationKind is used when a structured duration carries no kind
const DefaultDurationKind = DurationKindSpecial

// DurationKinds returns the closed set of duration kinds
func DurationKinds() []DurationKind {
	return []DurationKind{
		DurationKindInstant, DurationKindTime, DurationKindConcentration,
		DurationKindConditional, DurationKindPermanent, DurationKindUntilDispelled,
		DurationKindUntilTriggered, DurationKindUsageLimited, DurationKindPlanar,
		DurationKindSpecial,
	}
}

// TimeUnit is a unit of game time
type TimeUnit string

// Time units
const (
	TimeUnitSegment TimeUnit = "segment"
	TimeUnitRound   TimeUnit = "round"
	TimeUnitTurn    TimeUnit = "turn"
	TimeUnitMinute  TimeUnit = "minute"
	TimeUnitHour    TimeUnit = "hour"
	TimeUnitDay     TimeUnit = "day"
	TimeUnitWeek    TimeUnit = "week"
	TimeUnitMonth   TimeUnit = "month"
	TimeUnitYear    TimeUnit = "year"
)

// Duration is the structured form of a spell's duration.
//
// Unit and Duration belong to the time kind, Uses to usage_limited.
// Condition is the free text of the condition-bearing kinds.
type Duration struct {
	Kind           DurationKind `json:"kind"`
	Unit           TimeUnit     `json:"unit,omitempty"`
	Duration       *Scalar      `json:"duration,omitempty"`
	Uses           *Scalar      `json:"uses,omitempty"`
	Condition      string       `json:"condition,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	RawLegacyValue string       `json:"raw_legacy_value,omitempty"`
}

// Field implements FieldValue
func (Duration) Field() Field { return FieldDuration }

// LegacyText implements FieldValue
func (d Duration) LegacyText() string { return d.RawLegacyValue }
