package canon

import (
	"fmt"

	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
)

// Decision is the outcome of deciding one structured field.
//
// When SuppressLegacyParse is true Value is authoritative and the legacy
// text must not be parsed again. Otherwise Value is the zero value and
// Issue explains a present value that was rejected, if there was one.
type Decision[T any] struct {
	SuppressLegacyParse bool
	Value               T
	Issue               *FieldIssue
}

// Decide reports whether the record's structured value for field is
// authoritative. Absent, null and non-object values, and values that fail
// normalize or validate, all leave legacy parsing enabled. Decide never
// mutates the record.
func Decide[T any](
	record RawRecord,
	field string,
	normalize func(map[string]any) (T, error),
	validate func(T) error,
) Decision[T] {
	var decision Decision[T]
	raw, key, ok := record.structuredValue(field)
	if !ok {
		return decision
	}

	m, isMap := raw.(map[string]any)
	if !isMap {
		if _, isText := raw.(string); isText {
			// A string under the spec key is legacy text, not a malformed value
			return decision
		}
		decision.Issue = &FieldIssue{
			Field:   spell.Field(field),
			Key:     key,
			Message: fmt.Sprintf("expected an object, got %T", raw),
		}
		return decision
	}

	value, err := normalize(m)
	if err != nil {
		decision.Issue = &FieldIssue{Field: spell.Field(field), Key: key, Message: err.Error()}
		return decision
	}
	if validate != nil {
		if err := validate(value); err != nil {
			decision.Issue = &FieldIssue{Field: spell.Field(field), Key: key, Message: err.Error()}
			return decision
		}
	}

	decision.SuppressLegacyParse = true
	decision.Value = value
	return decision
}
