package spell

import (
	"fmt"
	"math"
	"strings"
)

// DamageKind is the discriminant of a Damage
type DamageKind string

// Damage kinds
const (
	DamageKindNone          DamageKind = "none"
	DamageKindModeled       DamageKind = "modeled"
	DamageKindDMAdjudicated DamageKind = "dm_adjudicated"
)

// DefaultDamageKind is used when a structured damage value carries no kind
const DefaultDamageKind = DamageKindNone

// DamageKinds returns the closed set of damage kinds
func DamageKinds() []DamageKind {
	return []DamageKind{DamageKindNone, DamageKindModeled, DamageKindDMAdjudicated}
}

// CombineMode decides how the totals of several damage parts combine
type CombineMode string

// Combine modes
const (
	CombineSum       CombineMode = "sum"
	CombineMax       CombineMode = "max"
	CombineChooseOne CombineMode = "choose_one"
	CombineSequence  CombineMode = "sequence"
)

// CombineModes returns the closed set of combine modes
func CombineModes() []CombineMode {
	return []CombineMode{CombineSum, CombineMax, CombineChooseOne, CombineSequence}
}

// DamageType is the energy or physical type of a damage part
type DamageType string

// Damage types
const (
	DamageTypeAcid                DamageType = "acid"
	DamageTypeCold                DamageType = "cold"
	DamageTypeElectricity         DamageType = "electricity"
	DamageTypeFire                DamageType = "fire"
	DamageTypeSonic               DamageType = "sonic"
	DamageTypeForce               DamageType = "force"
	DamageTypeMagic               DamageType = "magic"
	DamageTypeNegativeEnergy      DamageType = "negative_energy"
	DamageTypePositiveEnergy      DamageType = "positive_energy"
	DamageTypePoison              DamageType = "poison"
	DamageTypePsychic             DamageType = "psychic"
	DamageTypePhysicalBludgeoning DamageType = "physical_bludgeoning"
	DamageTypePhysicalPiercing    DamageType = "physical_piercing"
	DamageTypePhysicalSlashing    DamageType = "physical_slashing"
	DamageTypeUntyped             DamageType = "untyped"
	DamageTypeSpecial             DamageType = "special"
)

// DamageTypes returns the closed set of damage types
func DamageTypes() []DamageType {
	return []DamageType{
		DamageTypeAcid, DamageTypeCold, DamageTypeElectricity, DamageTypeFire,
		DamageTypeSonic, DamageTypeForce, DamageTypeMagic, DamageTypeNegativeEnergy,
		DamageTypePositiveEnergy, DamageTypePoison, DamageTypePsychic,
		DamageTypePhysicalBludgeoning, DamageTypePhysicalPiercing,
		DamageTypePhysicalSlashing, DamageTypeUntyped, DamageTypeSpecial,
	}
}

// ScalingKind is how a scaling rule changes a part's dice pool
type ScalingKind string

// Scaling kinds
const (
	ScalingAddDicePerStep     ScalingKind = "add_dice_per_step"
	ScalingAddFlatPerStep     ScalingKind = "add_flat_per_step"
	ScalingSetBaseByLevelBand ScalingKind = "set_base_by_level_band"
)

// ScalingKinds returns the closed set of scaling kinds
func ScalingKinds() []ScalingKind {
	return []ScalingKind{ScalingAddDicePerStep, ScalingAddFlatPerStep, ScalingSetBaseByLevelBand}
}

// ScalingDriver is the quantity a scaling rule steps over
type ScalingDriver string

// Scaling drivers
const (
	DriverCasterLevel ScalingDriver = "caster_level"
	DriverSpellLevel  ScalingDriver = "spell_level"
	DriverTargetHD    ScalingDriver = "target_hd"
	DriverTargetLevel ScalingDriver = "target_level"
	DriverChoice      ScalingDriver = "choice"
	DriverOther       ScalingDriver = "other"
)

// ScalingDrivers returns the closed set of scaling drivers
func ScalingDrivers() []ScalingDriver {
	return []ScalingDriver{
		DriverCasterLevel, DriverSpellLevel, DriverTargetHD,
		DriverTargetLevel, DriverChoice, DriverOther,
	}
}

// ApplicationScope is what one application of a damage part hits
type ApplicationScope string

// Application scopes
const (
	ScopePerTarget     ApplicationScope = "per_target"
	ScopePerAreaTarget ApplicationScope = "per_area_target"
	ScopePerMissile    ApplicationScope = "per_missile"
	ScopePerRay        ApplicationScope = "per_ray"
	ScopePerRound      ApplicationScope = "per_round"
	ScopePerTurn       ApplicationScope = "per_turn"
	ScopePerHit        ApplicationScope = "per_hit"
	ScopeSpecial       ApplicationScope = "special"
)

// ApplicationScopes returns the closed set of application scopes
func ApplicationScopes() []ApplicationScope {
	return []ApplicationScope{
		ScopePerTarget, ScopePerAreaTarget, ScopePerMissile, ScopePerRay,
		ScopePerRound, ScopePerTurn, ScopePerHit, ScopeSpecial,
	}
}

// TickDriver is what decides how many times a part applies
type TickDriver string

// Tick drivers
const (
	TickFixed       TickDriver = "fixed"
	TickCasterLevel TickDriver = "caster_level"
	TickSpellLevel  TickDriver = "spell_level"
	TickDuration    TickDriver = "duration"
	TickChoice      TickDriver = "choice"
	TickDM          TickDriver = "dm"
)

// TickDrivers returns the closed set of tick drivers
func TickDrivers() []TickDriver {
	return []TickDriver{TickFixed, TickCasterLevel, TickSpellLevel, TickDuration, TickChoice, TickDM}
}

// DamageSaveKind is how a successful save changes a damage part
type DamageSaveKind string

// Damage save kinds
const (
	DamageSaveNone    DamageSaveKind = "none"
	DamageSaveHalf    DamageSaveKind = "half"
	DamageSaveNegates DamageSaveKind = "negates"
	DamageSavePartial DamageSaveKind = "partial"
	DamageSaveSpecial DamageSaveKind = "special"
)

// DamageSaveKinds returns the closed set of damage save kinds
func DamageSaveKinds() []DamageSaveKind {
	return []DamageSaveKind{DamageSaveNone, DamageSaveHalf, DamageSaveNegates, DamageSavePartial, DamageSaveSpecial}
}

// MRInteraction is how magic resistance treats a damage part
type MRInteraction string

// Magic resistance interactions
const (
	MRInteractionNormal    MRInteraction = "normal"
	MRInteractionIgnoresMR MRInteraction = "ignores_mr"
	MRInteractionSpecial   MRInteraction = "special"
	MRInteractionUnknown   MRInteraction = "unknown"
)

// MRInteractions returns the closed set of magic resistance interactions
func MRInteractions() []MRInteraction {
	return []MRInteraction{MRInteractionNormal, MRInteractionIgnoresMR, MRInteractionSpecial, MRInteractionUnknown}
}

// MaxDiceCount bounds the count and sides of a dice term in every input
// form, and the scaled count produced by damage resolution.
const MaxDiceCount = math.MaxInt32

// DiceTerm is Count dice of Sides faces, each adjusted by PerDieModifier
type DiceTerm struct {
	Count          int `json:"count"`
	Sides          int `json:"sides"`
	PerDieModifier int `json:"per_die_modifier,omitempty"`
}

// String renders the term in dice notation, e.g. "3d6" or "2d4+1/die"
func (t DiceTerm) String() string {
	s := fmt.Sprintf("%dd%d", t.Count, t.Sides)
	switch {
	case t.PerDieModifier > 0:
		s += fmt.Sprintf("+%d/die", t.PerDieModifier)
	case t.PerDieModifier < 0:
		s += fmt.Sprintf("%d/die", t.PerDieModifier)
	}
	return s
}

// DicePool is a set of dice terms plus a flat modifier
type DicePool struct {
	Terms        []DiceTerm `json:"terms,omitempty"`
	FlatModifier int        `json:"flat_modifier,omitempty"`
}

// String renders the pool in dice notation, e.g. "1d4+1"
func (p DicePool) String() string {
	parts := make([]string, 0, len(p.Terms))
	for _, t := range p.Terms {
		parts = append(parts, t.String())
	}
	s := strings.Join(parts, "+")
	switch {
	case s == "":
		s = fmt.Sprintf("%d", p.FlatModifier)
	case p.FlatModifier > 0:
		s += fmt.Sprintf("+%d", p.FlatModifier)
	case p.FlatModifier < 0:
		s += fmt.Sprintf("%d", p.FlatModifier)
	}
	return s
}

// LevelBand replaces a part's base pool while the driver is within [Min, Max]
type LevelBand struct {
	Min  int      `json:"min"`
	Max  int      `json:"max"`
	Base DicePool `json:"base"`
}

// Contains reports whether the driver value falls inside the band
func (b LevelBand) Contains(value int) bool {
	return value >= b.Min && value <= b.Max
}

// Overlaps reports whether two bands share at least one driver value
func (b LevelBand) Overlaps(other LevelBand) bool {
	return b.Min <= other.Max && other.Min <= b.Max
}

// ScalingRule grows a damage part with its driver
type ScalingRule struct {
	Kind          ScalingKind   `json:"kind"`
	Driver        ScalingDriver `json:"driver"`
	Step          int           `json:"step"`
	MaxSteps      *int          `json:"max_steps,omitempty"`
	DiceIncrement *DiceTerm     `json:"dice_increment,omitempty"`
	FlatIncrement *int          `json:"flat_increment,omitempty"`
	LevelBands    []LevelBand   `json:"level_bands,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}

// ClampSpec bounds a part's computed total
type ClampSpec struct {
	MinTotal *int `json:"min_total,omitempty"`
	MaxTotal *int `json:"max_total,omitempty"`
}

// Apply bounds a total by the clamp
func (c ClampSpec) Apply(total int) int {
	if c.MinTotal != nil && total < *c.MinTotal {
		total = *c.MinTotal
	}
	if c.MaxTotal != nil && total > *c.MaxTotal {
		total = *c.MaxTotal
	}
	return total
}

// Application describes how often a part applies
type Application struct {
	Scope      ApplicationScope `json:"scope"`
	Ticks      int              `json:"ticks"`
	TickDriver TickDriver       `json:"tick_driver"`
}

// PartialSave is the fraction of damage kept after a partial save
type PartialSave struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// DamageSave is a damage part's interaction with saving throws
type DamageSave struct {
	Kind    DamageSaveKind `json:"kind"`
	Partial *PartialSave   `json:"partial,omitempty"`
}

// DamagePart is one modeled component of a spell's damage. ID is stable and
// unique within the spell and is the target of magic resistance part ids.
type DamagePart struct {
	ID            string        `json:"id"`
	DamageType    DamageType    `json:"damage_type"`
	Base          DicePool      `json:"base"`
	Application   Application   `json:"application"`
	Save          DamageSave    `json:"save"`
	MRInteraction MRInteraction `json:"mr_interaction"`
	Scaling       []ScalingRule `json:"scaling,omitempty"`
	Clamp         *ClampSpec    `json:"clamp,omitempty"`
	Label         string        `json:"label,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}

// Damage is the structured form of a spell's damage.
//
// CombineMode and Parts belong to the modeled kind, DMGuidance to
// dm_adjudicated.
type Damage struct {
	Kind           DamageKind   `json:"kind"`
	CombineMode    CombineMode  `json:"combine_mode,omitempty"`
	Parts          []DamagePart `json:"parts,omitempty"`
	DMGuidance     string       `json:"dm_guidance,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	RawLegacyValue string       `json:"raw_legacy_value,omitempty"`
}

// Field implements FieldValue
func (Damage) Field() Field { return FieldDamage }

// LegacyText implements FieldValue
func (d Damage) LegacyText() string { return d.RawLegacyValue }

// PartIDs returns the ids of every part in list order
func (d Damage) PartIDs() []string {
	ids := make([]string, len(d.Parts))
	for i, p := range d.Parts {
		ids[i] = p.ID
	}
	return ids
}
