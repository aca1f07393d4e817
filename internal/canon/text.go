package canon

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
)

// kindSpec is one entry of a closed kind table. Every kind carries both its
// companion filler and its text projector.
type kindSpec[T any] struct {
	fill func(a attrs, v *T) error
	text func(v T) string
}

func noCompanions[T any](attrs, *T) error { return nil }

func label[T any](text string) func(T) string {
	return func(T) string { return text }
}

// resolveKind reads a discriminant and finds its table entry, falling back to
// def when the discriminant is absent or blank.
func resolveKind[K ~string, T any](a attrs, key string, def K, table map[K]kindSpec[T], aliases map[string]K) (K, kindSpec[T], error) {
	v, ok := a.get(key)
	if !ok {
		return def, table[def], nil
	}
	s, isString := v.(string)
	if !isString {
		return "", kindSpec[T]{}, structuralError(a.at(key), "expected a string, got %T", v)
	}
	token := enumToken(s)
	if token == "" {
		return def, table[def], nil
	}
	kind := K(token)
	if alias, isAlias := aliases[token]; isAlias {
		kind = alias
	}
	spec, found := table[kind]
	if !found {
		return "", kindSpec[T]{}, structuralError(a.at(key), "unknown %s %q", key, s)
	}
	return kind, spec, nil
}

// FieldToText projects a normalized structured value to display text. A
// non-empty raw legacy value is returned verbatim; otherwise the text is
// derived from the structured data. FieldToText never fails and accepts
// both values and pointers.
func FieldToText(v spell.FieldValue) string {
	v = derefFieldValue(v)
	if v == nil {
		return ""
	}
	if legacy := v.LegacyText(); strings.TrimSpace(legacy) != "" {
		return legacy
	}

	switch t := v.(type) {
	case spell.Range:
		return projectRange(t)
	case spell.Duration:
		return projectDuration(t)
	case spell.CastingTime:
		return projectCastingTime(t)
	case spell.Area:
		return projectArea(t)
	case spell.Damage:
		return projectDamage(t)
	case spell.SavingThrow:
		return projectSavingThrow(t)
	case spell.MagicResistance:
		return projectMagicResistance(t)
	case spell.Components:
		return t.String()
	case spell.Materials:
		return projectMaterials(t)
	case spell.ExperienceCost:
		return projectExperience(t)
	default:
		return ""
	}
}

func derefFieldValue(v spell.FieldValue) spell.FieldValue {
	switch p := v.(type) {
	case *spell.Range:
		if p != nil {
			return *p
		}
	case *spell.Duration:
		if p != nil {
			return *p
		}
	case *spell.CastingTime:
		if p != nil {
			return *p
		}
	case *spell.Area:
		if p != nil {
			return *p
		}
	case *spell.Damage:
		if p != nil {
			return *p
		}
	case *spell.SavingThrow:
		if p != nil {
			return *p
		}
	case *spell.MagicResistance:
		if p != nil {
			return *p
		}
	case *spell.Components:
		if p != nil {
			return *p
		}
	case *spell.ExperienceCost:
		if p != nil {
			return *p
		}
	default:
		return v
	}
	return nil
}

// RangeToText projects a range to text
func RangeToText(r spell.Range) string { return FieldToText(r) }

// DurationToText projects a duration to text
func DurationToText(d spell.Duration) string { return FieldToText(d) }

// CastingTimeToText projects a casting time to text
func CastingTimeToText(c spell.CastingTime) string { return FieldToText(c) }

// AreaToText projects an area to text
func AreaToText(a spell.Area) string { return FieldToText(a) }

// DamageToText projects damage to text
func DamageToText(d spell.Damage) string { return FieldToText(d) }

// SavingThrowToText projects a saving throw to text
func SavingThrowToText(s spell.SavingThrow) string { return FieldToText(s) }

// MagicResistanceToText projects magic resistance to text
func MagicResistanceToText(m spell.MagicResistance) string { return FieldToText(m) }

// ComponentsToText projects components to text
func ComponentsToText(c spell.Components) string { return FieldToText(c) }

// MaterialsToText projects a material list to text
func MaterialsToText(m spell.Materials) string { return FieldToText(m) }

// ExperienceToText projects an experience cost to text
func ExperienceToText(e spell.ExperienceCost) string { return FieldToText(e) }

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// humanize turns a snake_case token into a sentence-case label
func humanize(token string) string {
	s := strings.ReplaceAll(token, "_", " ")
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// scalarWithUnit renders the active number of a scalar followed by a unit
func scalarWithUnit(s *spell.Scalar, unit string) string {
	if s == nil {
		return ""
	}
	v := formatNumber(s.EffectiveValue())
	if unit == "" {
		return v
	}
	return v + " " + unit
}
