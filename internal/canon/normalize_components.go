package canon

import (
	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
)

var componentFlags = []struct {
	key   string
	short string
	set   func(*spell.Components, bool)
}{
	{"verbal", "v", func(c *spell.Components, v bool) { c.Verbal = v }},
	{"somatic", "s", func(c *spell.Components, v bool) { c.Somatic = v }},
	{"material", "m", func(c *spell.Components, v bool) { c.Material = v }},
	{"focus", "f", func(c *spell.Components, v bool) { c.Focus = v }},
	{"divine_focus", "df", func(c *spell.Components, v bool) { c.DivineFocus = v }},
	{"experience", "xp", func(c *spell.Components, v bool) { c.Experience = v }},
}

// NormalizeComponents converts a loosely typed components object into
// Components. The short letters v, s, m, f, df and xp are accepted as keys.
func NormalizeComponents(m map[string]any) (spell.Components, error) {
	c, _, err := normalizeComponents(m)
	return c, err
}

func normalizeComponents(m map[string]any) (spell.Components, []Warning, error) {
	a := newAttrs(spell.FieldComponents, m)
	out := spell.Components{RawLegacyValue: a.text("raw_legacy_value")}
	for _, flag := range componentFlags {
		v, ok, err := a.boolean(flag.key)
		if err != nil {
			return spell.Components{}, nil, err
		}
		if !ok {
			if v, ok, err = a.boolean(flag.short); err != nil {
				return spell.Components{}, nil, err
			}
		}
		flag.set(&out, v)
	}
	return out, a.warnings(), nil
}

// ValidateComponents accepts every combination of flags
func ValidateComponents(spell.Components) error {
	return nil
}
