package canon

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
)

var experienceKinds = map[spell.ExperienceKind]kindSpec[spell.ExperienceCost]{
	spell.ExperienceNone:          {fill: noCompanions[spell.ExperienceCost], text: label[spell.ExperienceCost]("None")},
	spell.ExperienceFixed:         {fill: fillXPFixed, text: xpFixedText},
	spell.ExperiencePerUnit:       {fill: fillXPPerUnit, text: xpPerUnitText},
	spell.ExperienceFormula:       {fill: fillXPFormula, text: xpFormulaText},
	spell.ExperienceTiered:        {fill: fillXPTiered, text: xpTieredText},
	spell.ExperienceDMAdjudicated: {fill: noCompanions[spell.ExperienceCost], text: xpGuidanceText},
}

var experienceKindAliases = map[string]spell.ExperienceKind{
	"perunit": spell.ExperiencePerUnit,
	"dm":      spell.ExperienceDMAdjudicated,
}

var xpUnitAliases = map[string]spell.XPUnitKind{
	"gpvalue1000":  spell.XPUnitGPValue1000,
	"gp_value1000": spell.XPUnitGPValue1000,
	"hd":           spell.XPUnitHitDie,
	"hit_dice":     spell.XPUnitHitDie,
}

var formulaVarName = regexp.MustCompile(`^[a-z][a-z0-9_]{0,31}$`)

// NormalizeExperience converts a loosely typed experience cost into an
// ExperienceCost. Formula variables are sorted by name and tiers by
// condition then amount.
func NormalizeExperience(m map[string]any) (spell.ExperienceCost, error) {
	e, _, err := normalizeExperience(m)
	return e, err
}

func normalizeExperience(m map[string]any) (spell.ExperienceCost, []Warning, error) {
	a := newAttrs(spell.FieldExperienceCost, m)
	kind, spec, err := resolveKind(a, "kind", spell.ExperienceNone, experienceKinds, experienceKindAliases)
	if err != nil {
		return spell.ExperienceCost{}, nil, err
	}

	out := spell.DefaultExperienceCost()
	out.Kind = kind
	out.DMGuidance = description(a.values["dm_guidance"])
	out.Notes = description(a.values["notes"])
	if out.Payer, err = enumOr(a, "payer", out.Payer, spell.ExperiencePayers(), nil); err != nil {
		return spell.ExperienceCost{}, nil, err
	}
	if out.PaymentTiming, err = enumOr(a, "payment_timing", out.PaymentTiming, spell.PaymentTimings(), nil); err != nil {
		return spell.ExperienceCost{}, nil, err
	}
	if out.PaymentSemantics, err = enumOr(a, "payment_semantics", out.PaymentSemantics, spell.PaymentSemanticsValues(), nil); err != nil {
		return spell.ExperienceCost{}, nil, err
	}
	if out.Recoverability, err = enumOr(a, "recoverability", out.Recoverability, spell.Recoverabilities(), nil); err != nil {
		return spell.ExperienceCost{}, nil, err
	}
	reduce, hasReduce, err := a.boolean("can_reduce_level")
	if err != nil {
		return spell.ExperienceCost{}, nil, err
	}
	if hasReduce {
		out.CanReduceLevel = reduce
	}
	if err := spec.fill(a, &out); err != nil {
		return spell.ExperienceCost{}, nil, err
	}
	return out, a.warnings(), nil
}

func fillXPFixed(a attrs, e *spell.ExperienceCost) error {
	amount, ok, err := a.integer("amount_xp")
	if err != nil || !ok {
		return err
	}
	e.AmountXP = &amount
	return nil
}

func fillXPPerUnit(a attrs, e *spell.ExperienceCost) error {
	pa, ok, err := a.obj("per_unit")
	if err != nil || !ok {
		return err
	}
	pu := spell.PerUnitXP{UnitLabel: pa.text("unit_label")}
	if pu.XPPerUnit, _, err = pa.integer("xp_per_unit"); err != nil {
		return err
	}
	if pu.UnitKind, err = enumOr(pa, "unit_kind", spell.XPUnitOther, spell.XPUnitKinds(), xpUnitAliases); err != nil {
		return err
	}
	if pu.Rounding, err = enumOr(pa, "rounding", spell.RoundNone, spell.XPRoundings(), nil); err != nil {
		return err
	}
	if pu.MinXP, pu.MaxXP, err = xpBounds(pa); err != nil {
		return err
	}
	e.PerUnit = &pu
	return nil
}

func fillXPFormula(a attrs, e *spell.ExperienceCost) error {
	fa, ok, err := a.obj("formula")
	if err != nil || !ok {
		return err
	}
	f := spell.XPFormula{}
	if expr, isString := fa.values["expr"].(string); isString {
		f.Expr = strings.TrimSpace(expr)
	}
	if f.Rounding, err = enumOr(fa, "rounding", spell.RoundNone, spell.XPRoundings(), nil); err != nil {
		return err
	}
	if f.MinXP, f.MaxXP, err = xpBounds(fa); err != nil {
		return err
	}
	vars, err := fa.objects("vars")
	if err != nil {
		return err
	}
	for _, va := range vars {
		v := spell.FormulaVar{Name: formulaVarToken(va.text("name")), Label: va.text("label")}
		if v.VarKind, err = enumOr(va, "var_kind", spell.VarOther, spell.FormulaVarKinds(), nil); err != nil {
			return err
		}
		f.Vars = append(f.Vars, v)
	}
	sort.SliceStable(f.Vars, func(i, j int) bool { return f.Vars[i].Name < f.Vars[j].Name })
	e.Formula = &f
	return nil
}

func fillXPTiered(a attrs, e *spell.ExperienceCost) error {
	tiers, err := a.objects("tiered")
	if err != nil {
		return err
	}
	for _, ta := range tiers {
		t := spell.TieredXP{When: ta.text("when"), Notes: description(ta.values["notes"])}
		if t.AmountXP, _, err = ta.integer("amount_xp"); err != nil {
			return err
		}
		e.Tiered = append(e.Tiered, t)
	}
	sort.SliceStable(e.Tiered, func(i, j int) bool {
		if e.Tiered[i].When != e.Tiered[j].When {
			return e.Tiered[i].When < e.Tiered[j].When
		}
		return e.Tiered[i].AmountXP < e.Tiered[j].AmountXP
	})
	return nil
}

func xpBounds(a attrs) (*int, *int, error) {
	var bounds [2]*int
	for i, key := range []string{"min_xp", "max_xp"} {
		v, ok, err := a.integer(key)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			bounds[i] = &v
		}
	}
	return bounds[0], bounds[1], nil
}

// formulaVarToken lower-cases a variable name, joins words with
// underscores and truncates it to MaxFormulaVarName bytes.
func formulaVarToken(name string) string {
	name = strings.ReplaceAll(strings.ToLower(collapseSpace(name)), " ", "_")
	if len(name) > spell.MaxFormulaVarName {
		name = name[:spell.MaxFormulaVarName]
	}
	return name
}

func xpFixedText(e spell.ExperienceCost) string {
	if e.AmountXP == nil {
		return "Fixed XP"
	}
	return fmt.Sprintf("%d XP", *e.AmountXP)
}

func xpPerUnitText(e spell.ExperienceCost) string {
	if e.PerUnit == nil {
		return "XP per unit"
	}
	unit := e.PerUnit.UnitLabel
	if unit == "" {
		unit = strings.ToLower(humanize(string(e.PerUnit.UnitKind)))
	}
	return fmt.Sprintf("%d XP per %s", e.PerUnit.XPPerUnit, unit)
}

func xpFormulaText(e spell.ExperienceCost) string {
	if e.Formula == nil || e.Formula.Expr == "" {
		return "XP by formula"
	}
	return "XP = " + e.Formula.Expr
}

func xpTieredText(e spell.ExperienceCost) string {
	if len(e.Tiered) == 0 {
		return "Tiered XP"
	}
	parts := make([]string, len(e.Tiered))
	for i, t := range e.Tiered {
		parts[i] = fmt.Sprintf("%d XP (%s)", t.AmountXP, t.When)
	}
	return strings.Join(parts, "; ")
}

func xpGuidanceText(e spell.ExperienceCost) string {
	if e.DMGuidance != "" {
		return e.DMGuidance
	}
	return "DM adjudicated"
}

func projectExperience(e spell.ExperienceCost) string {
	spec, ok := experienceKinds[e.Kind]
	if !ok {
		return humanize(string(e.Kind))
	}
	return spec.text(e)
}

// ValidateExperience checks an experience cost against the closed taxonomy
// and requires the companion data each kind charges by.
func ValidateExperience(e spell.ExperienceCost) error {
	vb := errors.NewValidationBuilder()
	if _, ok := experienceKinds[e.Kind]; !ok {
		vb.InvalidField("kind", "unknown experience kind "+string(e.Kind))
	}
	errors.ValidateEnum("payer", string(e.Payer), enumStrings(spell.ExperiencePayers()), vb)
	errors.ValidateEnum("payment_timing", string(e.PaymentTiming), enumStrings(spell.PaymentTimings()), vb)
	errors.ValidateEnum("payment_semantics", string(e.PaymentSemantics), enumStrings(spell.PaymentSemanticsValues()), vb)
	errors.ValidateEnum("recoverability", string(e.Recoverability), enumStrings(spell.Recoverabilities()), vb)

	switch e.Kind {
	case spell.ExperienceFixed:
		if e.AmountXP == nil {
			vb.RequiredField("amount_xp")
		} else {
			errors.ValidateNonNegative("amount_xp", float64(*e.AmountXP), vb)
		}
	case spell.ExperiencePerUnit:
		if e.PerUnit == nil {
			vb.RequiredField("per_unit")
			break
		}
		errors.ValidateNonNegative("per_unit.xp_per_unit", float64(e.PerUnit.XPPerUnit), vb)
		validateXPBounds("per_unit", e.PerUnit.MinXP, e.PerUnit.MaxXP, vb)
	case spell.ExperienceFormula:
		if e.Formula == nil {
			vb.RequiredField("formula")
			break
		}
		errors.ValidateRequired("formula.expr", e.Formula.Expr, vb)
		validateXPBounds("formula", e.Formula.MinXP, e.Formula.MaxXP, vb)
		for i, v := range e.Formula.Vars {
			if !formulaVarName.MatchString(v.Name) {
				vb.Fieldf(fmt.Sprintf("formula.vars[%d].name", i), "%q must match %s", v.Name, formulaVarName)
			}
			if i > 0 && e.Formula.Vars[i-1].Name == v.Name {
				vb.Fieldf(fmt.Sprintf("formula.vars[%d].name", i), "duplicate variable %q", v.Name)
			}
		}
	case spell.ExperienceTiered:
		if len(e.Tiered) == 0 {
			vb.RequiredField("tiered")
		}
		for i, t := range e.Tiered {
			errors.ValidateRequired(fmt.Sprintf("tiered[%d].when", i), t.When, vb)
			errors.ValidateNonNegative(fmt.Sprintf("tiered[%d].amount_xp", i), float64(t.AmountXP), vb)
		}
	}
	return vb.Build()
}

func validateXPBounds(path string, minXP, maxXP *int, vb *errors.ValidationBuilder) {
	if minXP != nil {
		errors.ValidateNonNegative(path+".min_xp", float64(*minXP), vb)
	}
	if minXP != nil && maxXP != nil && *minXP > *maxXP {
		vb.Fieldf(path+".max_xp", "must be at least min_xp %d, got %d", *minXP, *maxXP)
	}
}
