package canon

import (
	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
)

// NormalizeField normalizes a structured value for the named field. A
// material_components value is a single material object.
func NormalizeField(field spell.Field, m map[string]any) (spell.FieldValue, error) {
	switch field {
	case spell.FieldRange:
		return wrapValue(NormalizeRange(m))
	case spell.FieldDuration:
		return wrapValue(NormalizeDuration(m))
	case spell.FieldCastingTime:
		return wrapValue(NormalizeCastingTime(m))
	case spell.FieldArea:
		return wrapValue(NormalizeArea(m))
	case spell.FieldDamage:
		return wrapValue(NormalizeDamage(m))
	case spell.FieldSavingThrow:
		return wrapValue(NormalizeSavingThrow(m))
	case spell.FieldMagicResistance:
		return wrapValue(NormalizeMagicResistance(m))
	case spell.FieldComponents:
		return wrapValue(NormalizeComponents(m))
	case spell.FieldMaterialComponents:
		mats, _, err := normalizeMaterial(m)
		return wrapValue(mats, err)
	case spell.FieldExperienceCost:
		return wrapValue(NormalizeExperience(m))
	}
	return nil, errors.InvalidArgumentf("unknown field %q", field)
}

func wrapValue[T spell.FieldValue](v T, err error) (spell.FieldValue, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}
