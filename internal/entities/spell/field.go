// Package spell holds the typed spell model: the scalar value type, the
// closed kind taxonomies for each structured field and the canonical spell
// record built from them.
package spell

// Field identifies one structured attribute of a spell record. The value is
// also the record key that carries the field's legacy text.
type Field string

// Structured fields
const (
	FieldRange           Field = "range"
	FieldDuration        Field = "duration"
	FieldCastingTime     Field = "casting_time"
	FieldArea            Field = "area"
	FieldDamage          Field = "damage"
	FieldSavingThrow     Field = "saving_throw"
	FieldMagicResistance Field = "magic_resistance"
	FieldComponents      Field = "components"
)

// List-valued and optional component fields. They have no legacy text
// parser and are not part of Fields.
const (
	FieldMaterialComponents Field = "material_components"
	FieldExperienceCost     Field = "experience_cost"
	FieldSourceRefs         Field = "source_refs"
)

// Fields returns every structured field with a legacy text form, in
// canonical order.
func Fields() []Field {
	return []Field{
		FieldRange,
		FieldDuration,
		FieldCastingTime,
		FieldArea,
		FieldDamage,
		FieldSavingThrow,
		FieldMagicResistance,
		FieldComponents,
	}
}

// String returns the record key of the field
func (f Field) String() string {
	return string(f)
}

// FieldValue is implemented by every normalized structured value.
type FieldValue interface {
	// Field reports which structured field the value belongs to.
	Field() Field
	// LegacyText returns the raw legacy text carried by the value, if any.
	LegacyText() string
}
