package canon

import (
	"strings"

	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
)

var magicResistanceKinds = map[spell.MagicResistanceKind]kindSpec[spell.MagicResistance]{
	spell.MRKindUnknown:   {fill: noCompanions[spell.MagicResistance], text: label[spell.MagicResistance]("Unknown")},
	spell.MRKindNormal:    {fill: noCompanions[spell.MagicResistance], text: label[spell.MagicResistance]("Yes")},
	spell.MRKindIgnoresMR: {fill: noCompanions[spell.MagicResistance], text: label[spell.MagicResistance]("No")},
	spell.MRKindPartial:   {fill: fillMRPartial, text: mrPartialText},
	spell.MRKindSpecial:   {fill: fillMRSpecial, text: mrSpecialText},
}

var magicResistanceAliases = map[string]spell.MagicResistanceKind{
	"yes":     spell.MRKindNormal,
	"no":      spell.MRKindIgnoresMR,
	"ignores": spell.MRKindIgnoresMR,
}

// NormalizeMagicResistance converts a loosely typed magic resistance object
// into a MagicResistance. Partial part ids are lower-cased, sorted and
// deduped.
func NormalizeMagicResistance(m map[string]any) (spell.MagicResistance, error) {
	mr, _, err := normalizeMagicResistance(m)
	return mr, err
}

func normalizeMagicResistance(m map[string]any) (spell.MagicResistance, []Warning, error) {
	a := newAttrs(spell.FieldMagicResistance, m)
	kind, spec, err := resolveKind(a, "kind", spell.DefaultMagicResistanceKind, magicResistanceKinds, magicResistanceAliases)
	if err != nil {
		return spell.MagicResistance{}, nil, err
	}
	appliesTo, err := enumOr(a, "applies_to", spell.MRAppliesWholeSpell, spell.MRAppliesTargets(), nil)
	if err != nil {
		return spell.MagicResistance{}, nil, err
	}

	out := spell.MagicResistance{
		Kind:           kind,
		AppliesTo:      appliesTo,
		Notes:          a.text("notes"),
		RawLegacyValue: a.text("raw_legacy_value"),
	}
	if err := spec.fill(a, &out); err != nil {
		return spell.MagicResistance{}, nil, err
	}
	return out, a.warnings(), nil
}

func fillMRPartial(a attrs, mr *spell.MagicResistance) error {
	pa, ok, err := a.obj("partial")
	if err != nil {
		return err
	}
	if !ok {
		pa = a.child("partial", map[string]any{})
	}
	scope, err := enumOr(pa, "scope", spell.MRScopeDamageOnly, spell.MRPartialScopes(), nil)
	if err != nil {
		return err
	}
	partial := spell.MRPartial{Scope: scope}
	if scope == spell.MRScopeByPartID {
		items, _, err := pa.list("part_ids")
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(items))
		for _, item := range items {
			id, isString := item.(string)
			if !isString {
				return structuralError(pa.at("part_ids"), "expected a string, got %T", item)
			}
			ids = append(ids, id)
		}
		partial.PartIDs = sortedUnique(ids)
	}
	mr.Partial = &partial
	return nil
}

func fillMRSpecial(a attrs, mr *spell.MagicResistance) error {
	mr.SpecialRule = a.text("special_rule")
	return nil
}

func mrPartialText(mr spell.MagicResistance) string {
	if mr.Partial == nil {
		return "Partial"
	}
	if mr.Partial.Scope == spell.MRScopeByPartID {
		if len(mr.Partial.PartIDs) == 0 {
			return "Partial"
		}
		return "Partial (" + strings.Join(mr.Partial.PartIDs, ", ") + ")"
	}
	return "Partial (" + strings.ReplaceAll(string(mr.Partial.Scope), "_", " ") + ")"
}

func mrSpecialText(mr spell.MagicResistance) string {
	if mr.SpecialRule != "" {
		return mr.SpecialRule
	}
	return "Special"
}

func projectMagicResistance(mr spell.MagicResistance) string {
	spec, ok := magicResistanceKinds[mr.Kind]
	if !ok {
		return humanize(string(mr.Kind))
	}
	return spec.text(mr)
}

// ValidateMagicResistance checks magic resistance against the closed taxonomy
func ValidateMagicResistance(mr spell.MagicResistance) error {
	vb := errors.NewValidationBuilder()
	if _, ok := magicResistanceKinds[mr.Kind]; !ok {
		vb.InvalidField("kind", "unknown magic resistance kind "+string(mr.Kind))
	}
	errors.ValidateEnum("applies_to", string(mr.AppliesTo), enumStrings(spell.MRAppliesTargets()), vb)
	if mr.Kind == spell.MRKindPartial {
		if mr.Partial == nil {
			vb.RequiredField("partial")
		} else {
			errors.ValidateEnum("partial.scope", string(mr.Partial.Scope), enumStrings(spell.MRPartialScopes()), vb)
		}
	}
	return vb.Build()
}
