package spell

// CastingTimeUnit is the discriminant of a CastingTime
type CastingTimeUnit string

// Casting time units
const (
	CastingUnitSegment     CastingTimeUnit = "segment"
	CastingUnitRound       CastingTimeUnit = "round"
	CastingUnitTurn        CastingTimeUnit = "turn"
	CastingUnitMinute      CastingTimeUnit = "minute"
	CastingUnitHour        CastingTimeUnit = "hour"
	CastingUnitDay         CastingTimeUnit = "day"
	CastingUnitAction      CastingTimeUnit = "action"
	CastingUnitBonusAction CastingTimeUnit = "bonus_action"
	CastingUnitReaction    CastingTimeUnit = "reaction"
	CastingUnitSpecial     CastingTimeUnit = "special"
)

// DefaultCastingTimeUnit is used when a structured casting time carries no unit
const DefaultCastingTimeUnit = CastingUnitSegment

// CastingTimeUnits returns the closed set of casting time units
func CastingTimeUnits() []CastingTimeUnit {
	return []CastingTimeUnit{
		CastingUnitSegment, CastingUnitRound, CastingUnitTurn, CastingUnitMinute,
		CastingUnitHour, CastingUnitDay, CastingUnitAction, CastingUnitBonusAction,
		CastingUnitReaction, CastingUnitSpecial,
	}
}

// CastingTime is the structured form of a spell's casting time: BaseValue
// plus PerLevel units for every LevelDivisor caster levels.
//
// The numbers are absent for the special unit, which carries Text instead.
type CastingTime struct {
	Unit           CastingTimeUnit `json:"unit"`
	BaseValue      *float64        `json:"base_value,omitempty"`
	PerLevel       *float64        `json:"per_level,omitempty"`
	LevelDivisor   *float64        `json:"level_divisor,omitempty"`
	Text           string          `json:"text,omitempty"`
	RawLegacyValue string          `json:"raw_legacy_value,omitempty"`
}

// Field implements FieldValue
func (CastingTime) Field() Field { return FieldCastingTime }

// LegacyText implements FieldValue
func (c CastingTime) LegacyText() string { return c.RawLegacyValue }

// Base returns the base value, zero when unset
func (c CastingTime) Base() float64 { return deref(c.BaseValue) }

// Scaling returns the per-level increment, zero when unset
func (c CastingTime) Scaling() float64 { return deref(c.PerLevel) }

// Divisor returns the level divisor, one when unset or below one
func (c CastingTime) Divisor() float64 {
	if c.LevelDivisor == nil || *c.LevelDivisor < 1 {
		return 1
	}
	return *c.LevelDivisor
}
