package canon

import (
	"strings"

	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
)

// RawRecord is a spell record as it arrives from an editor or an import
// file. Any key may be absent, null or malformed.
type RawRecord map[string]any

// structuredValue finds the structured value for a field. The lookup order is
// "<field>_spec", "<field>Spec", then "<field>" itself when it holds an
// object. The returned key is the one that matched.
func (r RawRecord) structuredValue(field string) (any, string, bool) {
	for _, key := range []string{field + "_spec", camelKey(field) + "Spec"} {
		if v, ok := r[key]; ok && v != nil {
			return v, key, true
		}
	}
	if v, ok := r[field]; ok {
		if _, isMap := v.(map[string]any); isMap {
			return v, field, true
		}
	}
	return nil, "", false
}

// legacyText returns the free text stored under the field's own key
func (r RawRecord) legacyText(field string) string {
	if s, ok := r[field].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// present reports whether a top-level key holds a non-null, non-blank value
func (r RawRecord) present(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString {
		return strings.TrimSpace(s) != ""
	}
	return true
}

func (r RawRecord) clone() RawRecord {
	out := make(RawRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// fieldKey returns the record key for a structured field
func fieldKey(f spell.Field) string {
	return string(f)
}

// camelKey converts snake_case to camelCase, e.g. casting_time to castingTime
func camelKey(key string) string {
	parts := strings.Split(key, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}

// snakeKey converts camelCase and PascalCase keys to snake_case. Keys that
// are already snake_case come back unchanged.
func snakeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	var prev rune
	for i, r := range key {
		isUpper := r >= 'A' && r <= 'Z'
		if isUpper {
			if i > 0 && ((prev >= 'a' && prev <= 'z') || (prev >= '0' && prev <= '9')) {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
		prev = r
		if isUpper {
			prev = 'A'
		}
	}
	return b.String()
}
