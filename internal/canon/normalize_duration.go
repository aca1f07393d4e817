package canon

import (
	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
)

var durationKinds = map[spell.DurationKind]kindSpec[spell.Duration]{
	spell.DurationKindInstant:        {fill: noCompanions[spell.Duration], text: label[spell.Duration]("Instant")},
	spell.DurationKindTime:           {fill: fillDurationTime, text: durationTimeText},
	spell.DurationKindConcentration:  {fill: noCompanions[spell.Duration], text: label[spell.Duration]("Concentration")},
	spell.DurationKindConditional:    {fill: fillDurationCondition, text: durationConditionText},
	spell.DurationKindPermanent:      {fill: noCompanions[spell.Duration], text: label[spell.Duration]("Permanent")},
	spell.DurationKindUntilDispelled: {fill: noCompanions[spell.Duration], text: label[spell.Duration]("Until dispelled")},
	spell.DurationKindUntilTriggered: {fill: fillDurationCondition, text: durationConditionText},
	spell.DurationKindUsageLimited:   {fill: fillDurationUsage, text: durationUsageText},
	spell.DurationKindPlanar:         {fill: fillDurationCondition, text: durationConditionText},
	spell.DurationKindSpecial:        {fill: fillDurationCondition, text: durationConditionText},
}

var timeUnits = []spell.TimeUnit{
	spell.TimeUnitSegment, spell.TimeUnitRound, spell.TimeUnitTurn, spell.TimeUnitMinute,
	spell.TimeUnitHour, spell.TimeUnitDay, spell.TimeUnitWeek, spell.TimeUnitMonth, spell.TimeUnitYear,
}

var timeUnitAliases = map[string]spell.TimeUnit{
	"segments": spell.TimeUnitSegment,
	"seg":      spell.TimeUnitSegment,
	"segs":     spell.TimeUnitSegment,
	"rounds":   spell.TimeUnitRound,
	"rd":       spell.TimeUnitRound,
	"rds":      spell.TimeUnitRound,
	"turns":    spell.TimeUnitTurn,
	"minutes":  spell.TimeUnitMinute,
	"min":      spell.TimeUnitMinute,
	"mins":     spell.TimeUnitMinute,
	"hours":    spell.TimeUnitHour,
	"hr":       spell.TimeUnitHour,
	"hrs":      spell.TimeUnitHour,
	"days":     spell.TimeUnitDay,
	"weeks":    spell.TimeUnitWeek,
	"months":   spell.TimeUnitMonth,
	"years":    spell.TimeUnitYear,
}

// NormalizeDuration converts a loosely typed duration object into a Duration
func NormalizeDuration(m map[string]any) (spell.Duration, error) {
	d, _, err := normalizeDuration(m)
	return d, err
}

func normalizeDuration(m map[string]any) (spell.Duration, []Warning, error) {
	a := newAttrs(spell.FieldDuration, m)
	kind, spec, err := resolveKind(a, "kind", spell.DefaultDurationKind, durationKinds, nil)
	if err != nil {
		return spell.Duration{}, nil, err
	}

	out := spell.Duration{
		Kind:           kind,
		Notes:          a.text("notes"),
		RawLegacyValue: a.text("raw_legacy_value"),
	}
	if err := spec.fill(a, &out); err != nil {
		return spell.Duration{}, nil, err
	}
	return out, a.warnings(), nil
}

func fillDurationTime(a attrs, d *spell.Duration) error {
	unit, err := enumOr(a, "unit", spell.TimeUnitRound, timeUnits, timeUnitAliases)
	if err != nil {
		return err
	}
	duration, err := a.scalarOr("duration", spell.Fixed(1))
	if err != nil {
		return err
	}
	d.Unit = unit
	d.Duration = duration
	return nil
}

func fillDurationUsage(a attrs, d *spell.Duration) error {
	uses, err := a.scalarOr("uses", spell.Fixed(1))
	if err != nil {
		return err
	}
	d.Uses = uses
	d.Condition = a.text("condition")
	return nil
}

func fillDurationCondition(a attrs, d *spell.Duration) error {
	d.Condition = a.text("condition")
	return nil
}

// durationTimeText renders "3 round" for fixed durations and "2 round/level"
// for per-level ones.
func durationTimeText(d spell.Duration) string {
	unit := string(d.Unit)
	if unit == "" {
		unit = string(spell.TimeUnitRound)
	}
	if d.Duration != nil && d.Duration.IsPerLevel() {
		return formatNumber(d.Duration.EffectiveValue()) + " " + unit + "/level"
	}
	if d.Duration == nil {
		return "1 " + unit
	}
	return scalarWithUnit(d.Duration, unit)
}

func durationUsageText(d spell.Duration) string {
	var text string
	switch {
	case d.Uses == nil:
		text = "1 use"
	case d.Uses.IsPerLevel():
		text = formatNumber(d.Uses.EffectiveValue()) + " uses/level"
	case d.Uses.EffectiveValue() == 1:
		text = "1 use"
	default:
		text = formatNumber(d.Uses.EffectiveValue()) + " uses"
	}
	if d.Condition != "" {
		text += " (" + d.Condition + ")"
	}
	return text
}

func durationConditionText(d spell.Duration) string {
	if d.Condition != "" {
		return d.Condition
	}
	return humanize(string(d.Kind))
}

func projectDuration(d spell.Duration) string {
	spec, ok := durationKinds[d.Kind]
	if !ok {
		return humanize(string(d.Kind))
	}
	return spec.text(d)
}

// ValidateDuration checks a duration against the closed taxonomy
func ValidateDuration(d spell.Duration) error {
	vb := errors.NewValidationBuilder()
	if _, ok := durationKinds[d.Kind]; !ok {
		vb.InvalidField("kind", "unknown duration kind "+string(d.Kind))
	}
	switch d.Kind {
	case spell.DurationKindTime:
		errors.ValidateEnum("unit", string(d.Unit), enumStrings(timeUnits), vb)
		if d.Duration == nil {
			vb.RequiredField("duration")
		}
	case spell.DurationKindUsageLimited:
		if d.Uses == nil {
			vb.RequiredField("uses")
		}
	}
	return vb.Build()
}
