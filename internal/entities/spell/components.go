package spell

import "strings"

// Components is the structured form of a spell's components
type Components struct {
	Verbal         bool   `json:"verbal"`
	Somatic        bool   `json:"somatic"`
	Material       bool   `json:"material"`
	Focus          bool   `json:"focus"`
	DivineFocus    bool   `json:"divine_focus"`
	Experience     bool   `json:"experience"`
	RawLegacyValue string `json:"raw_legacy_value,omitempty"`
}

// Field implements FieldValue
func (Components) Field() Field { return FieldComponents }

// LegacyText implements FieldValue
func (c Components) LegacyText() string { return c.RawLegacyValue }

// Abbreviations returns the conventional component letters in order, e.g.
// ["V", "S", "M"].
func (c Components) Abbreviations() []string {
	var out []string
	for _, flag := range []struct {
		set  bool
		abbr string
	}{
		{c.Verbal, "V"},
		{c.Somatic, "S"},
		{c.Material, "M"},
		{c.Focus, "F"},
		{c.DivineFocus, "DF"},
		{c.Experience, "XP"},
	} {
		if flag.set {
			out = append(out, flag.abbr)
		}
	}
	return out
}

// String joins the component letters, e.g. "V, S, M"
func (c Components) String() string {
	return strings.Join(c.Abbreviations(), ", ")
}
