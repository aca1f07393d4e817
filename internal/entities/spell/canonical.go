package spell

// SchemaVersion is written into every canonical spell and is part of its hash
const SchemaVersion = 2

// Level bounds for a canonical spell
const (
	MinLevel         = 0
	MaxLevel         = 12
	MaxStandardLevel = 9
	QuestSpellLevel  = 8
)

// Tradition is the magical tradition of a spell
type Tradition string

// Traditions
const (
	TraditionArcane Tradition = "ARCANE"
	TraditionDivine Tradition = "DIVINE"
)

// CanonicalSpell is an assembled spell record. Exactly one of School and
// Sphere is set, matching Tradition.
//
// Its canonical JSON is the hashing input, so it holds nothing that varies
// between equivalent source records.
type CanonicalSpell struct {
	SchemaVersion      int              `json:"schema_version"`
	Name               string           `json:"name"`
	Level              int              `json:"level"`
	Tradition          Tradition        `json:"tradition"`
	School             string           `json:"school,omitempty"`
	Subschools         []string         `json:"subschools,omitempty"`
	Descriptors        []string         `json:"descriptors,omitempty"`
	Sphere             string           `json:"sphere,omitempty"`
	ClassList          []string         `json:"class_list,omitempty"`
	Tags               []string         `json:"tags,omitempty"`
	Description        string           `json:"description,omitempty"`
	Reversible         bool             `json:"reversible"`
	IsQuestSpell       bool             `json:"is_quest_spell"`
	IsCantrip          bool             `json:"is_cantrip"`
	Range              *Range           `json:"range,omitempty"`
	Duration           *Duration        `json:"duration,omitempty"`
	CastingTime        *CastingTime     `json:"casting_time,omitempty"`
	Area               *Area            `json:"area,omitempty"`
	Damage             *Damage          `json:"damage,omitempty"`
	SavingThrow        *SavingThrow     `json:"saving_throw,omitempty"`
	MagicResistance    *MagicResistance `json:"magic_resistance,omitempty"`
	Components         *Components      `json:"components,omitempty"`
	MaterialComponents Materials        `json:"material_components,omitempty"`
	ExperienceCost     *ExperienceCost  `json:"experience_cost,omitempty"`
}

// FieldValue returns the structured value stored for a field, or nil
func (s *CanonicalSpell) FieldValue(field Field) FieldValue {
	switch field {
	case FieldRange:
		if s.Range != nil {
			return *s.Range
		}
	case FieldDuration:
		if s.Duration != nil {
			return *s.Duration
		}
	case FieldCastingTime:
		if s.CastingTime != nil {
			return *s.CastingTime
		}
	case FieldArea:
		if s.Area != nil {
			return *s.Area
		}
	case FieldDamage:
		if s.Damage != nil {
			return *s.Damage
		}
	case FieldSavingThrow:
		if s.SavingThrow != nil {
			return *s.SavingThrow
		}
	case FieldMagicResistance:
		if s.MagicResistance != nil {
			return *s.MagicResistance
		}
	case FieldComponents:
		if s.Components != nil {
			return *s.Components
		}
	case FieldMaterialComponents:
		if len(s.MaterialComponents) > 0 {
			return s.MaterialComponents
		}
	case FieldExperienceCost:
		if s.ExperienceCost != nil {
			return *s.ExperienceCost
		}
	}
	return nil
}

// Metadata is provenance that travels with a canonical spell but is not
// hashed.
type Metadata struct {
	Source     string           `json:"source,omitempty"`
	Edition    string           `json:"edition,omitempty"`
	Author     string           `json:"author,omitempty"`
	License    string           `json:"license,omitempty"`
	SourceRefs []SourceRef      `json:"source_refs,omitempty"`
	LegacyText map[Field]string `json:"legacy_text,omitempty"`
}

// SourceRef cites a printed source for a spell. Page is kept as text since
// sources number pages like "112" or "xii".
type SourceRef struct {
	System string `json:"system,omitempty"`
	Book   string `json:"book"`
	Page   string `json:"page,omitempty"`
	Note   string `json:"note,omitempty"`
}
