package canon

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
)

var savingThrowKinds = map[spell.SavingThrowKind]kindSpec[spell.SavingThrow]{
	spell.SavingThrowNone:          {fill: noCompanions[spell.SavingThrow], text: label[spell.SavingThrow]("None")},
	spell.SavingThrowSingle:        {fill: fillSaveSingle, text: saveSingleText},
	spell.SavingThrowMultiple:      {fill: fillSaveMultiple, text: saveMultipleText},
	spell.SavingThrowDMAdjudicated: {fill: fillSaveGuidance, text: saveGuidanceText},
}

var saveTypeAliases = map[string]spell.SaveType{
	"ppd":           spell.SaveParalyzationPoisonDeath,
	"paralyzation":  spell.SaveParalyzationPoisonDeath,
	"poison":        spell.SaveParalyzationPoisonDeath,
	"death":         spell.SaveParalyzationPoisonDeath,
	"death_magic":   spell.SaveParalyzationPoisonDeath,
	"rsw":           spell.SaveRodStaffWand,
	"wand":          spell.SaveRodStaffWand,
	"petrification": spell.SavePetrificationPolymorph,
	"polymorph":     spell.SavePetrificationPolymorph,
	"breath":        spell.SaveBreathWeapon,
	"spells":        spell.SaveSpell,
}

var saveResultLabels = map[spell.SaveResult]string{
	spell.SaveResultNoEffect:             "Negates",
	spell.SaveResultReducedEffect:        "Half",
	spell.SaveResultFullEffect:           "None",
	spell.SaveResultPartialDamageOnly:    "Partial (damage only)",
	spell.SaveResultPartialNonDamageOnly: "Partial (non-damage only)",
	spell.SaveResultSpecial:              "Special",
}

// NormalizeSavingThrow converts a loosely typed saving throw object into a
// SavingThrow. Multiple saves keep their list order.
func NormalizeSavingThrow(m map[string]any) (spell.SavingThrow, error) {
	s, _, err := normalizeSavingThrow(m)
	return s, err
}

func normalizeSavingThrow(m map[string]any) (spell.SavingThrow, []Warning, error) {
	a := newAttrs(spell.FieldSavingThrow, m)
	kind, spec, err := resolveKind(a, "kind", spell.DefaultSavingThrowKind, savingThrowKinds, nil)
	if err != nil {
		return spell.SavingThrow{}, nil, err
	}

	out := spell.SavingThrow{
		Kind:           kind,
		Notes:          a.text("notes"),
		RawLegacyValue: a.text("raw_legacy_value"),
	}
	if err := spec.fill(a, &out); err != nil {
		return spell.SavingThrow{}, nil, err
	}
	return out, a.warnings(), nil
}

func fillSaveSingle(a attrs, s *spell.SavingThrow) error {
	sa, ok, err := a.obj("single")
	if err != nil {
		return err
	}
	if !ok {
		sa = a.child("single", map[string]any{})
	}
	save, err := parseSingleSave(sa)
	if err != nil {
		return err
	}
	s.Single = &save
	return nil
}

func fillSaveMultiple(a attrs, s *spell.SavingThrow) error {
	items, err := a.objects("multiple")
	if err != nil {
		return err
	}
	for _, item := range items {
		save, err := parseSingleSave(item)
		if err != nil {
			return err
		}
		s.Multiple = append(s.Multiple, save)
	}
	return nil
}

func fillSaveGuidance(a attrs, s *spell.SavingThrow) error {
	s.DMGuidance = a.text("dm_guidance")
	return nil
}

func parseSingleSave(a attrs) (spell.SingleSave, error) {
	save := spell.SingleSave{
		ID:     strings.ToLower(a.text("id")),
		SaveVs: a.text("save_vs"),
	}
	var err error
	if save.SaveType, err = enumOr(a, "save_type", spell.SaveSpell, spell.SaveTypes(), saveTypeAliases); err != nil {
		return save, err
	}
	if save.Modifier, _, err = a.integer("modifier"); err != nil {
		return save, err
	}
	if save.AppliesTo, err = enumOr(a, "applies_to", spell.SaveAppliesEachTarget, spell.SaveAppliesTargets(), nil); err != nil {
		return save, err
	}
	if save.Timing, err = enumOr(a, "timing", spell.SaveTimingOnEffect, spell.SaveTimings(), nil); err != nil {
		return save, err
	}
	if save.OnSuccess, err = parseSaveOutcome(a, "on_success", spell.SaveResultNoEffect); err != nil {
		return save, err
	}
	if save.OnFailure, err = parseSaveOutcome(a, "on_failure", spell.SaveResultFullEffect); err != nil {
		return save, err
	}
	return save, nil
}

func parseSaveOutcome(a attrs, key string, def spell.SaveResult) (spell.SaveOutcome, error) {
	outcome := spell.SaveOutcome{Result: def}
	oa, ok, err := a.obj(key)
	if err != nil || !ok {
		return outcome, err
	}
	if outcome.Result, err = enumOr(oa, "result", def, spell.SaveResults(), nil); err != nil {
		return outcome, err
	}
	outcome.Notes = oa.text("notes")
	return outcome, nil
}

func singleSaveLabel(s spell.SingleSave) string {
	text, ok := saveResultLabels[s.OnSuccess.Result]
	if !ok {
		text = humanize(string(s.OnSuccess.Result))
	}
	if s.Modifier != 0 {
		text += fmt.Sprintf(" (%+d)", s.Modifier)
	}
	return text
}

func saveSingleText(s spell.SavingThrow) string {
	if s.Single == nil {
		return "None"
	}
	return singleSaveLabel(*s.Single)
}

func saveMultipleText(s spell.SavingThrow) string {
	if len(s.Multiple) == 0 {
		return "None"
	}
	labels := make([]string, len(s.Multiple))
	for i, save := range s.Multiple {
		labels[i] = singleSaveLabel(save)
	}
	return strings.Join(labels, "; ")
}

func saveGuidanceText(s spell.SavingThrow) string {
	if s.DMGuidance != "" {
		return s.DMGuidance
	}
	return "DM adjudicated"
}

func projectSavingThrow(s spell.SavingThrow) string {
	spec, ok := savingThrowKinds[s.Kind]
	if !ok {
		return humanize(string(s.Kind))
	}
	return spec.text(s)
}

// ValidateSavingThrow checks a saving throw against the closed taxonomy
func ValidateSavingThrow(s spell.SavingThrow) error {
	vb := errors.NewValidationBuilder()
	if _, ok := savingThrowKinds[s.Kind]; !ok {
		vb.InvalidField("kind", "unknown saving throw kind "+string(s.Kind))
	}
	saves := s.Multiple
	if s.Kind == spell.SavingThrowSingle {
		if s.Single == nil {
			vb.RequiredField("single")
		} else {
			saves = []spell.SingleSave{*s.Single}
		}
	}
	for i, save := range saves {
		path := fmt.Sprintf("saves[%d]", i)
		errors.ValidateEnum(path+".save_type", string(save.SaveType), enumStrings(spell.SaveTypes()), vb)
		errors.ValidateEnum(path+".applies_to", string(save.AppliesTo), enumStrings(spell.SaveAppliesTargets()), vb)
		errors.ValidateEnum(path+".timing", string(save.Timing), enumStrings(spell.SaveTimings()), vb)
		errors.ValidateEnum(path+".on_success.result", string(save.OnSuccess.Result), enumStrings(spell.SaveResults()), vb)
		errors.ValidateEnum(path+".on_failure.result", string(save.OnFailure.Result), enumStrings(spell.SaveResults()), vb)
	}
	return vb.Build()
}
