package canon

import (
	"strings"

	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
)

//go:generate mockgen -destination=mock/mock_legacy_parser.go -package=canonmock github.com/KirkDiggler/rpg-spellcanon/internal/canon LegacyParser

// LegacyParser supplies a structured value from a field's legacy text when
// the record's structured value is not authoritative. The returned value must
// belong to the requested field.
type LegacyParser interface {
	ParseLegacy(field spell.Field, text string) (spell.FieldValue, error)
}

// LegacyParserFunc adapts a function to the LegacyParser interface
type LegacyParserFunc func(field spell.Field, text string) (spell.FieldValue, error)

// ParseLegacy implements LegacyParser
func (f LegacyParserFunc) ParseLegacy(field spell.Field, text string) (spell.FieldValue, error) {
	return f(field, text)
}

// RawTextParser keeps legacy text as-is inside the field's escape-hatch
// kind, so display falls back to the original string. Components are the
// exception: their letters are simple enough to read directly.
type RawTextParser struct{}

// ParseLegacy implements LegacyParser
func (RawTextParser) ParseLegacy(field spell.Field, text string) (spell.FieldValue, error) {
	switch field {
	case spell.FieldRange:
		return spell.Range{Kind: spell.RangeKindSpecial, RawLegacyValue: text}, nil
	case spell.FieldDuration:
		return spell.Duration{Kind: spell.DurationKindSpecial, RawLegacyValue: text}, nil
	case spell.FieldCastingTime:
		return spell.CastingTime{Unit: spell.CastingUnitSpecial, RawLegacyValue: text}, nil
	case spell.FieldArea:
		return spell.Area{Kind: spell.AreaKindSpecial, RawLegacyValue: text}, nil
	case spell.FieldDamage:
		return spell.Damage{Kind: spell.DamageKindDMAdjudicated, RawLegacyValue: text}, nil
	case spell.FieldSavingThrow:
		return spell.SavingThrow{Kind: spell.SavingThrowDMAdjudicated, RawLegacyValue: text}, nil
	case spell.FieldMagicResistance:
		return spell.MagicResistance{
			Kind:           spell.MRKindUnknown,
			AppliesTo:      spell.MRAppliesWholeSpell,
			RawLegacyValue: text,
		}, nil
	case spell.FieldComponents:
		return ParseComponentLetters(text), nil
	default:
		return nil, structuralError(string(field), "no legacy form")
	}
}

// ParseComponentLetters reads component text such as "V, S, M (a pinch of
// sulfur)". Parenthesized material descriptions are ignored.
func ParseComponentLetters(text string) spell.Components {
	c := spell.Components{RawLegacyValue: text}
	depth := 0
	var b strings.Builder
	for _, r := range text {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	tokens := strings.FieldsFunc(strings.ToUpper(b.String()), func(r rune) bool {
		return r == ',' || r == ' ' || r == ';' || r == '/'
	})
	for _, token := range tokens {
		switch token {
		case "V":
			c.Verbal = true
		case "S":
			c.Somatic = true
		case "M":
			c.Material = true
		case "F":
			c.Focus = true
		case "DF":
			c.DivineFocus = true
		case "XP":
			c.Experience = true
		}
	}
	return c
}
