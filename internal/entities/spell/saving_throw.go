package spell

// SavingThrowKind is the discriminant of a SavingThrow
type SavingThrowKind string

// Saving throw kinds
const (
	SavingThrowNone          SavingThrowKind = "none"
	SavingThrowSingle        SavingThrowKind = "single"
	SavingThrowMultiple      SavingThrowKind = "multiple"
	SavingThrowDMAdjudicated SavingThrowKind = "dm_adjudicated"
)

// DefaultSavingThrowKind is used when a structured saving throw carries no kind
const DefaultSavingThrowKind = SavingThrowNone

// SavingThrowKinds returns the closed set of saving throw kinds
func SavingThrowKinds() []SavingThrowKind {
	return []SavingThrowKind{SavingThrowNone, SavingThrowSingle, SavingThrowMultiple, SavingThrowDMAdjudicated}
}

// SaveType is a saving throw category
type SaveType string

// Save types
const (
	SaveParalyzationPoisonDeath SaveType = "paralyzation_poison_death"
	SaveRodStaffWand            SaveType = "rod_staff_wand"
	SavePetrificationPolymorph  SaveType = "petrification_polymorph"
	SaveBreathWeapon            SaveType = "breath_weapon"
	SaveSpell                   SaveType = "spell"
	SaveSpecial                 SaveType = "special"
)

// SaveTypes returns the closed set of save types
func SaveTypes() []SaveType {
	return []SaveType{
		SaveParalyzationPoisonDeath, SaveRodStaffWand, SavePetrificationPolymorph,
		SaveBreathWeapon, SaveSpell, SaveSpecial,
	}
}

// SaveAppliesTo is who rolls the save
type SaveAppliesTo string

// Save targets
const (
	SaveAppliesEachTarget      SaveAppliesTo = "each_target"
	SaveAppliesEachAreaTarget  SaveAppliesTo = "each_area_target"
	SaveAppliesSelectedTargets SaveAppliesTo = "selected_targets"
	SaveAppliesCasterOnly      SaveAppliesTo = "caster_only"
	SaveAppliesSpecial         SaveAppliesTo = "special"
)

// SaveAppliesTargets returns the closed set of save targets
func SaveAppliesTargets() []SaveAppliesTo {
	return []SaveAppliesTo{
		SaveAppliesEachTarget, SaveAppliesEachAreaTarget, SaveAppliesSelectedTargets,
		SaveAppliesCasterOnly, SaveAppliesSpecial,
	}
}

// SaveTiming is when the save is rolled
type SaveTiming string

// Save timings
const (
	SaveTimingOnEffect   SaveTiming = "on_effect"
	SaveTimingOnContact  SaveTiming = "on_contact"
	SaveTimingEachRound  SaveTiming = "each_round"
	SaveTimingOnEntering SaveTiming = "on_entering"
	SaveTimingSpecial    SaveTiming = "special"
)

// SaveTimings returns the closed set of save timings
func SaveTimings() []SaveTiming {
	return []SaveTiming{SaveTimingOnEffect, SaveTimingOnContact, SaveTimingEachRound, SaveTimingOnEntering, SaveTimingSpecial}
}

// SaveResult is what happens on a save outcome
type SaveResult string

// Save results
const (
	SaveResultNoEffect             SaveResult = "no_effect"
	SaveResultReducedEffect        SaveResult = "reduced_effect"
	SaveResultFullEffect           SaveResult = "full_effect"
	SaveResultPartialDamageOnly    SaveResult = "partial_damage_only"
	SaveResultPartialNonDamageOnly SaveResult = "partial_non_damage_only"
	SaveResultSpecial              SaveResult = "special"
)

// SaveResults returns the closed set of save results
func SaveResults() []SaveResult {
	return []SaveResult{
		SaveResultNoEffect, SaveResultReducedEffect, SaveResultFullEffect,
		SaveResultPartialDamageOnly, SaveResultPartialNonDamageOnly, SaveResultSpecial,
	}
}

// SaveOutcome is the result of one side of a save
type SaveOutcome struct {
	Result SaveResult `json:"result"`
	Notes  string     `json:"notes,omitempty"`
}

// SingleSave is one saving throw a spell calls for
type SingleSave struct {
	ID        string        `json:"id,omitempty"`
	SaveType  SaveType      `json:"save_type"`
	SaveVs    string        `json:"save_vs,omitempty"`
	Modifier  int           `json:"modifier,omitempty"`
	AppliesTo SaveAppliesTo `json:"applies_to"`
	Timing    SaveTiming    `json:"timing"`
	OnSuccess SaveOutcome   `json:"on_success"`
	OnFailure SaveOutcome   `json:"on_failure"`
}

// SavingThrow is the structured form of a spell's saving throw.
//
// Single belongs to the single kind, Multiple to multiple (in list order)
// and DMGuidance to dm_adjudicated.
type SavingThrow struct {
	Kind           SavingThrowKind `json:"kind"`
	Single         *SingleSave     `json:"single,omitempty"`
	Multiple       []SingleSave    `json:"multiple,omitempty"`
	DMGuidance     string          `json:"dm_guidance,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	RawLegacyValue string          `json:"raw_legacy_value,omitempty"`
}

// Field implements FieldValue
func (SavingThrow) Field() Field { return FieldSavingThrow }

// LegacyText implements FieldValue
func (s SavingThrow) LegacyText() string { return s.RawLegacyValue }
