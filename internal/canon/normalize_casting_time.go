package canon

import (
	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
)

var castingTimeUnits = map[spell.CastingTimeUnit]kindSpec[spell.CastingTime]{
	spell.CastingUnitSegment:     {fill: fillCastingNumbers, text: castingNumbersText},
	spell.CastingUnitRound:       {fill: fillCastingNumbers, text: castingNumbersText},
	spell.CastingUnitTurn:        {fill: fillCastingNumbers, text: castingNumbersText},
	spell.CastingUnitMinute:      {fill: fillCastingNumbers, text: castingNumbersText},
	spell.CastingUnitHour:        {fill: fillCastingNumbers, text: castingNumbersText},
	spell.CastingUnitDay:         {fill: fillCastingNumbers, text: castingNumbersText},
	spell.CastingUnitAction:      {fill: fillCastingNumbers, text: castingNumbersText},
	spell.CastingUnitBonusAction: {fill: fillCastingNumbers, text: castingNumbersText},
	spell.CastingUnitReaction:    {fill: fillCastingNumbers, text: castingNumbersText},
	spell.CastingUnitSpecial:     {fill: fillCastingSpecial, text: castingSpecialText},
}

var castingUnitAliases = map[string]spell.CastingTimeUnit{
	"segments":      spell.CastingUnitSegment,
	"seg":           spell.CastingUnitSegment,
	"rounds":        spell.CastingUnitRound,
	"rd":            spell.CastingUnitRound,
	"turns":         spell.CastingUnitTurn,
	"minutes":       spell.CastingUnitMinute,
	"min":           spell.CastingUnitMinute,
	"hours":         spell.CastingUnitHour,
	"hr":            spell.CastingUnitHour,
	"days":          spell.CastingUnitDay,
	"actions":       spell.CastingUnitAction,
	"bonus":         spell.CastingUnitBonusAction,
	"bonus_actions": spell.CastingUnitBonusAction,
	"reactions":     spell.CastingUnitReaction,
}

// NormalizeCastingTime converts a loosely typed casting time object into a
// CastingTime. The unit is the discriminant.
func NormalizeCastingTime(m map[string]any) (spell.CastingTime, error) {
	c, _, err := normalizeCastingTime(m)
	return c, err
}

func normalizeCastingTime(m map[string]any) (spell.CastingTime, []Warning, error) {
	a := newAttrs(spell.FieldCastingTime, m)
	unit, spec, err := resolveKind(a, "unit", spell.DefaultCastingTimeUnit, castingTimeUnits, castingUnitAliases)
	if err != nil {
		return spell.CastingTime{}, nil, err
	}

	out := spell.CastingTime{
		Unit:           unit,
		RawLegacyValue: a.text("raw_legacy_value"),
	}
	if err := spec.fill(a, &out); err != nil {
		return spell.CastingTime{}, nil, err
	}
	return out, a.warnings(), nil
}

func fillCastingNumbers(a attrs, c *spell.CastingTime) error {
	base, hasBase, err := a.number("base_value")
	if err != nil {
		return err
	}
	if !hasBase {
		base = 1
	}
	perLevel, _, err := a.number("per_level")
	if err != nil {
		return err
	}
	divisor, hasDivisor, err := a.number("level_divisor")
	if err != nil {
		return err
	}
	if !hasDivisor || divisor < 1 {
		divisor = 1
	}

	base = spell.ClampScalar(base)
	perLevel = spell.ClampScalar(perLevel)
	divisor = spell.ClampScalar(divisor)
	c.BaseValue = &base
	c.PerLevel = &perLevel
	c.LevelDivisor = &divisor
	return nil
}

func fillCastingSpecial(a attrs, c *spell.CastingTime) error {
	c.Text = a.text("text")
	return nil
}

// castingNumbersText renders one of "<base> <unit>",
// "<base> + <per>/level <unit>" or "<base> + <per>/<divisor>/level <unit>".
// A divisor of one is no divisor.
func castingNumbersText(c spell.CastingTime) string {
	unit := castingUnitLabel(c.Unit)
	base := formatNumber(c.Base())
	if c.Scaling() == 0 {
		if c.Base() != 1 {
			unit += "s"
		}
		return base + " " + unit
	}
	perLevel := formatNumber(c.Scaling())
	if c.Divisor() == 1 {
		return base + " + " + perLevel + "/level " + unit
	}
	return base + " + " + perLevel + "/" + formatNumber(c.Divisor()) + "/level " + unit
}

func castingSpecialText(c spell.CastingTime) string {
	if c.Text != "" {
		return c.Text
	}
	return "Special"
}

func castingUnitLabel(u spell.CastingTimeUnit) string {
	if u == spell.CastingUnitBonusAction {
		return "bonus action"
	}
	if u == "" {
		return string(spell.DefaultCastingTimeUnit)
	}
	return string(u)
}

func projectCastingTime(c spell.CastingTime) string {
	spec, ok := castingTimeUnits[c.Unit]
	if !ok {
		if c.Unit == "" {
			return castingNumbersText(c)
		}
		return humanize(string(c.Unit))
	}
	return spec.text(c)
}

// ValidateCastingTime checks a casting time against the closed taxonomy
func ValidateCastingTime(c spell.CastingTime) error {
	vb := errors.NewValidationBuilder()
	if _, ok := castingTimeUnits[c.Unit]; !ok {
		vb.InvalidField("unit", "unknown casting time unit "+string(c.Unit))
	}
	if c.BaseValue != nil {
		errors.ValidateNonNegative("base_value", *c.BaseValue, vb)
	}
	if c.PerLevel != nil {
		errors.ValidateNonNegative("per_level", *c.PerLevel, vb)
	}
	if c.LevelDivisor != nil && *c.LevelDivisor < 1 {
		vb.Fieldf("level_divisor", "must be at least 1, got %g", *c.LevelDivisor)
	}
	return vb.Build()
}
