package spell

// MagicResistanceKind is the discriminant of a MagicResistance
type MagicResistanceKind string

// Magic resistance kinds
const (
	MRKindUnknown   MagicResistanceKind = "unknown"
	MRKindNormal    MagicResistanceKind = "normal"
	MRKindIgnoresMR MagicResistanceKind = "ignores_mr"
	MRKindPartial   MagicResistanceKind = "partial"
	MRKindSpecial   MagicResistanceKind = "special"
)

// DefaultMagicResistanceKind is used when a structured value carries no kind
const DefaultMagicResistanceKind = MRKindUnknown

// MagicResistanceKinds returns the closed set of magic resistance kinds
func MagicResistanceKinds() []MagicResistanceKind {
	return []MagicResistanceKind{MRKindUnknown, MRKindNormal, MRKindIgnoresMR, MRKindPartial, MRKindSpecial}
}

// MRAppliesTo is which effects of the spell resistance checks against
type MRAppliesTo string

// Magic resistance targets
const (
	MRAppliesWholeSpell            MRAppliesTo = "whole_spell"
	MRAppliesHarmfulEffectsOnly    MRAppliesTo = "harmful_effects_only"
	MRAppliesBeneficialEffectsOnly MRAppliesTo = "beneficial_effects_only"
	MRAppliesDM                    MRAppliesTo = "dm"
)

// MRAppliesTargets returns the closed set of magic resistance targets
func MRAppliesTargets() []MRAppliesTo {
	return []MRAppliesTo{MRAppliesWholeSpell, MRAppliesHarmfulEffectsOnly, MRAppliesBeneficialEffectsOnly, MRAppliesDM}
}

// MRPartialScope is the part of a spell partial resistance covers
type MRPartialScope string

// Partial resistance scopes
const (
	MRScopeDamageOnly           MRPartialScope = "damage_only"
	MRScopeNonDamageOnly        MRPartialScope = "non_damage_only"
	MRScopePrimaryEffectOnly    MRPartialScope = "primary_effect_only"
	MRScopeSecondaryEffectsOnly MRPartialScope = "secondary_effects_only"
	MRScopeByPartID             MRPartialScope = "by_part_id"
)

// MRPartialScopes returns the closed set of partial resistance scopes
func MRPartialScopes() []MRPartialScope {
	return []MRPartialScope{
		MRScopeDamageOnly, MRScopeNonDamageOnly, MRScopePrimaryEffectOnly,
		MRScopeSecondaryEffectsOnly, MRScopeByPartID,
	}
}

// MRPartial narrows resistance to part of a spell. PartIDs reference damage
// part ids and are only meaningful for the by_part_id scope.
type MRPartial struct {
	Scope   MRPartialScope `json:"scope"`
	PartIDs []string       `json:"part_ids,omitempty"`
}

// MagicResistance is the structured form of a spell's interaction with
// magic resistance.
//
// Partial belongs to the partial kind, SpecialRule to special.
type MagicResistance struct {
	Kind           MagicResistanceKind `json:"kind"`
	AppliesTo      MRAppliesTo         `json:"applies_to"`
	Partial        *MRPartial          `json:"partial,omitempty"`
	SpecialRule    string              `json:"special_rule,omitempty"`
	Notes          string              `json:"notes,omitempty"`
	RawLegacyValue string              `json:"raw_legacy_value,omitempty"`
}

// Field implements FieldValue
func (MagicResistance) Field() Field { return FieldMagicResistance }

// LegacyText implements FieldValue
func (m MagicResistance) LegacyText() string { return m.RawLegacyValue }
