package spell

// ExperienceKind is the discriminant of an ExperienceCost
type ExperienceKind string

// Experience cost kinds
const (
	ExperienceNone          ExperienceKind = "none"
	ExperienceFixed         ExperienceKind = "fixed"
	ExperiencePerUnit       ExperienceKind = "per_unit"
	ExperienceFormula       ExperienceKind = "formula"
	ExperienceTiered        ExperienceKind = "tiered"
	ExperienceDMAdjudicated ExperienceKind = "dm_adjudicated"
)

// ExperienceKinds returns the closed set of experience cost kinds
func ExperienceKinds() []ExperienceKind {
	return []ExperienceKind{
		ExperienceNone, ExperienceFixed, ExperiencePerUnit,
		ExperienceFormula, ExperienceTiered, ExperienceDMAdjudicated,
	}
}

// ExperiencePayer is who loses the experience
type ExperiencePayer string

// Payers
const (
	PayerCaster        ExperiencePayer = "caster"
	PayerPrimaryCaster ExperiencePayer = "primary_caster"
	PayerParticipant   ExperiencePayer = "participant"
	PayerRecipient     ExperiencePayer = "recipient"
	PayerItem          ExperiencePayer = "item"
	PayerOther         ExperiencePayer = "other"
)

// ExperiencePayers returns the closed set of payers
func ExperiencePayers() []ExperiencePayer {
	return []ExperiencePayer{PayerCaster, PayerPrimaryCaster, PayerParticipant, PayerRecipient, PayerItem, PayerOther}
}

// PaymentTiming is when the experience is paid
type PaymentTiming string

// Payment timings
const (
	PayOnStart      PaymentTiming = "on_start"
	PayOnCompletion PaymentTiming = "on_completion"
	PayOnEffect     PaymentTiming = "on_effect"
	PayOnSuccess    PaymentTiming = "on_success"
	PayOnFailure    PaymentTiming = "on_failure"
	PayOnBoth       PaymentTiming = "on_both"
	PayDM           PaymentTiming = "dm"
)

// PaymentTimings returns the closed set of payment timings
func PaymentTimings() []PaymentTiming {
	return []PaymentTiming{PayOnStart, PayOnCompletion, PayOnEffect, PayOnSuccess, PayOnFailure, PayOnBoth, PayDM}
}

// PaymentSemantics is how the experience leaves the payer
type PaymentSemantics string

// Payment semantics
const (
	PaymentSpend     PaymentSemantics = "spend"
	PaymentLoss      PaymentSemantics = "loss"
	PaymentDrain     PaymentSemantics = "drain"
	PaymentSacrifice PaymentSemantics = "sacrifice"
)

// PaymentSemanticsValues returns the closed set of payment semantics
func PaymentSemanticsValues() []PaymentSemantics {
	return []PaymentSemantics{PaymentSpend, PaymentLoss, PaymentDrain, PaymentSacrifice}
}

// Recoverability is how paid experience can be regained
type Recoverability string

// Recoverability values
const (
	RecoverNormalEarning  Recoverability = "normal_earning"
	RecoverNotRecoverable Recoverability = "not_recoverable"
	RecoverSpecialOnly    Recoverability = "special_only"
	RecoverDM             Recoverability = "dm"
)

// Recoverabilities returns the closed set of recoverability values
func Recoverabilities() []Recoverability {
	return []Recoverability{RecoverNormalEarning, RecoverNotRecoverable, RecoverSpecialOnly, RecoverDM}
}

// XPUnitKind is what a per-unit cost counts
type XPUnitKind string

// Per-unit kinds
const (
	XPUnitGPValue1000    XPUnitKind = "gp_value_1000"
	XPUnitSpellLevel     XPUnitKind = "spell_level"
	XPUnitRecipientLevel XPUnitKind = "recipient_level"
	XPUnitHitDie         XPUnitKind = "hit_die"
	XPUnitCreature       XPUnitKind = "creature"
	XPUnitDay            XPUnitKind = "day"
	XPUnitCharge         XPUnitKind = "charge"
	XPUnitOther          XPUnitKind = "other"
)

// XPUnitKinds returns the closed set of per-unit kinds
func XPUnitKinds() []XPUnitKind {
	return []XPUnitKind{
		XPUnitGPValue1000, XPUnitSpellLevel, XPUnitRecipientLevel, XPUnitHitDie,
		XPUnitCreature, XPUnitDay, XPUnitCharge, XPUnitOther,
	}
}

// XPRounding is how a computed cost is rounded
type XPRounding string

// Rounding modes
const (
	RoundNone    XPRounding = "none"
	RoundFloor   XPRounding = "floor"
	RoundCeil    XPRounding = "ceil"
	RoundNearest XPRounding = "nearest"
)

// XPRoundings returns the closed set of rounding modes
func XPRoundings() []XPRounding {
	return []XPRounding{RoundNone, RoundFloor, RoundCeil, RoundNearest}
}

// FormulaVarKind is what a formula variable stands for
type FormulaVarKind string

// Formula variable kinds
const (
	VarGPValue        FormulaVarKind = "gp_value"
	VarSpellLevel     FormulaVarKind = "spell_level"
	VarCasterLevel    FormulaVarKind = "caster_level"
	VarRecipientLevel FormulaVarKind = "recipient_level"
	VarHitDice        FormulaVarKind = "hit_dice"
	VarCount          FormulaVarKind = "count"
	VarOther          FormulaVarKind = "other"
)

// FormulaVarKinds returns the closed set of formula variable kinds
func FormulaVarKinds() []FormulaVarKind {
	return []FormulaVarKind{VarGPValue, VarSpellLevel, VarCasterLevel, VarRecipientLevel, VarHitDice, VarCount, VarOther}
}

// MaxFormulaVarName is the longest allowed formula variable name
const MaxFormulaVarName = 32

// PerUnitXP charges XPPerUnit for every unit counted
type PerUnitXP struct {
	XPPerUnit int        `json:"xp_per_unit"`
	UnitKind  XPUnitKind `json:"unit_kind"`
	UnitLabel string     `json:"unit_label,omitempty"`
	Rounding  XPRounding `json:"rounding"`
	MinXP     *int       `json:"min_xp,omitempty"`
	MaxXP     *int       `json:"max_xp,omitempty"`
}

// FormulaVar binds a name used in a formula expression
type FormulaVar struct {
	Name    string         `json:"name"`
	VarKind FormulaVarKind `json:"var_kind"`
	Label   string         `json:"label,omitempty"`
}

// XPFormula is a cost computed from an expression. Vars are sorted
// by name.
type XPFormula struct {
	Expr     string       `json:"expr"`
	Vars     []FormulaVar `json:"vars,omitempty"`
	Rounding XPRounding   `json:"rounding"`
	MinXP    *int         `json:"min_xp,omitempty"`
	MaxXP    *int         `json:"max_xp,omitempty"`
}

// TieredXP is a fixed amount charged when a condition holds
type TieredXP struct {
	When     string `json:"when"`
	AmountXP int    `json:"amount_xp"`
	Notes    string `json:"notes,omitempty"`
}

// ExperienceCost is the structured experience component of a spell
type ExperienceCost struct {
	Kind             ExperienceKind   `json:"kind"`
	Payer            ExperiencePayer  `json:"payer"`
	PaymentTiming    PaymentTiming    `json:"payment_timing"`
	PaymentSemantics PaymentSemantics `json:"payment_semantics"`
	CanReduceLevel   bool             `json:"can_reduce_level"`
	Recoverability   Recoverability   `json:"recoverability"`
	AmountXP         *int             `json:"amount_xp,omitempty"`
	PerUnit          *PerUnitXP       `json:"per_unit,omitempty"`
	Formula          *XPFormula       `json:"formula,omitempty"`
	Tiered           []TieredXP       `json:"tiered,omitempty"`
	DMGuidance       string           `json:"dm_guidance,omitempty"`
	Notes            string           `json:"notes,omitempty"`
}

// DefaultExperienceCost is the cost every omitted attribute falls back to
func DefaultExperienceCost() ExperienceCost {
	return ExperienceCost{
		Kind:             ExperienceNone,
		Payer:            PayerCaster,
		PaymentTiming:    PayOnCompletion,
		PaymentSemantics: PaymentSpend,
		CanReduceLevel:   true,
		Recoverability:   RecoverNormalEarning,
	}
}

// Field implements FieldValue
func (ExperienceCost) Field() Field { return FieldExperienceCost }

// LegacyText implements FieldValue. Free experience text is metadata.
func (ExperienceCost) LegacyText() string { return "" }

// IsDefault reports whether the cost says nothing beyond the defaults
func (e ExperienceCost) IsDefault() bool {
	d := DefaultExperienceCost()
	return e.Kind == d.Kind &&
		e.Payer == d.Payer &&
		e.PaymentTiming == d.PaymentTiming &&
		e.PaymentSemantics == d.PaymentSemantics &&
		e.CanReduceLevel == d.CanReduceLevel &&
		e.Recoverability == d.Recoverability &&
		e.AmountXP == nil &&
		e.PerUnit == nil &&
		e.Formula == nil &&
		len(e.Tiered) == 0 &&
		e.DMGuidance == "" &&
		e.Notes == ""
}

// Charges reports whether the cost actually takes experience
func (e ExperienceCost) Charges() bool {
	return e.Kind != ExperienceNone
}
