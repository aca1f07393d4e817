package canon

import (
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
)

var rangeKinds = map[spell.RangeKind]kindSpec[spell.Range]{
	spell.RangeKindPersonal:         {fill: noCompanions[spell.Range], text: label[spell.Range]("Personal")},
	spell.RangeKindTouch:            {fill: noCompanions[spell.Range], text: label[spell.Range]("Touch")},
	spell.RangeKindDistance:         {fill: fillRangeDistance, text: rangeDistanceText},
	spell.RangeKindDistanceLOS:      {fill: fillRangeDistance, text: rangeDistanceText},
	spell.RangeKindDistanceLOE:      {fill: fillRangeDistance, text: rangeDistanceText},
	spell.RangeKindLOS:              {fill: noCompanions[spell.Range], text: label[spell.Range]("Line of sight")},
	spell.RangeKindLOE:              {fill: noCompanions[spell.Range], text: label[spell.Range]("Line of effect")},
	spell.RangeKindSight:            {fill: noCompanions[spell.Range], text: label[spell.Range]("Sight")},
	spell.RangeKindHearing:          {fill: noCompanions[spell.Range], text: label[spell.Range]("Hearing")},
	spell.RangeKindVoice:            {fill: noCompanions[spell.Range], text: label[spell.Range]("Voice")},
	spell.RangeKindSenses:           {fill: noCompanions[spell.Range], text: label[spell.Range]("Senses")},
	spell.RangeKindSameRoom:         {fill: noCompanions[spell.Range], text: label[spell.Range]("Same room")},
	spell.RangeKindSameStructure:    {fill: noCompanions[spell.Range], text: label[spell.Range]("Same structure")},
	spell.RangeKindSameDungeonLevel: {fill: noCompanions[spell.Range], text: label[spell.Range]("Same dungeon level")},
	spell.RangeKindWilderness:       {fill: noCompanions[spell.Range], text: label[spell.Range]("Wilderness")},
	spell.RangeKindSamePlane:        {fill: noCompanions[spell.Range], text: label[spell.Range]("Same plane")},
	spell.RangeKindInterplanar:      {fill: noCompanions[spell.Range], text: label[spell.Range]("Interplanar")},
	spell.RangeKindAnywhereOnPlane:  {fill: noCompanions[spell.Range], text: label[spell.Range]("Anywhere on plane")},
	spell.RangeKindDomain:           {fill: noCompanions[spell.Range], text: label[spell.Range]("Domain")},
	spell.RangeKindUnlimited:        {fill: noCompanions[spell.Range], text: label[spell.Range]("Unlimited")},
	spell.RangeKindSpecial:          {fill: fillRangeSpecial, text: rangeSpecialText},
}

var rangeUnits = []spell.RangeUnit{spell.RangeUnitFeet, spell.RangeUnitYards, spell.RangeUnitMiles, spell.RangeUnitInches}

var rangeUnitAliases = map[string]spell.RangeUnit{
	"feet":   spell.RangeUnitFeet,
	"foot":   spell.RangeUnitFeet,
	"ft.":    spell.RangeUnitFeet,
	"'":      spell.RangeUnitFeet,
	"yards":  spell.RangeUnitYards,
	"yard":   spell.RangeUnitYards,
	"yd.":    spell.RangeUnitYards,
	"miles":  spell.RangeUnitMiles,
	"mile":   spell.RangeUnitMiles,
	"mi.":    spell.RangeUnitMiles,
	"inches": spell.RangeUnitInches,
	"in":     spell.RangeUnitInches,
	"in.":    spell.RangeUnitInches,
	`"`:      spell.RangeUnitInches,
}

var rangeAnchors = []spell.RangeAnchor{
	spell.RangeAnchorCaster, spell.RangeAnchorTarget, spell.RangeAnchorObject, spell.RangeAnchorFixed,
}

// NormalizeRange converts a loosely typed range object into a Range. Missing
// companions take their defaults and attributes foreign to the kind are
// dropped.
func NormalizeRange(m map[string]any) (spell.Range, error) {
	r, _, err := normalizeRange(m)
	return r, err
}

func normalizeRange(m map[string]any) (spell.Range, []Warning, error) {
	a := newAttrs(spell.FieldRange, m)
	kind, spec, err := resolveKind(a, "kind", spell.DefaultRangeKind, rangeKinds, nil)
	if err != nil {
		return spell.Range{}, nil, err
	}

	out := spell.Range{
		Kind:           kind,
		Notes:          a.text("notes"),
		RawLegacyValue: a.text("raw_legacy_value"),
	}
	if err := spec.fill(a, &out); err != nil {
		return spell.Range{}, nil, err
	}
	return out, a.warnings(), nil
}

func fillRangeDistance(a attrs, r *spell.Range) error {
	distance, err := a.scalarOr("distance", spell.Fixed(0))
	if err != nil {
		return err
	}
	unit, err := enumOr(a, "unit", spell.RangeUnitFeet, rangeUnits, rangeUnitAliases)
	if err != nil {
		return err
	}
	anchor, _, err := enumValue(a, "anchor", rangeAnchors, nil)
	if err != nil {
		return err
	}
	requires, err := rangeContexts(a)
	if err != nil {
		return err
	}

	r.Distance = distance
	r.Unit = unit
	r.Anchor = anchor
	r.Requires = requires
	return nil
}

func rangeContexts(a attrs) ([]spell.RangeContext, error) {
	items, _, err := a.list("requires")
	if err != nil {
		return nil, err
	}
	seen := map[spell.RangeContext]bool{}
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, structuralError(a.at("requires"), "expected a string, got %T", item)
		}
		switch ctx := spell.RangeContext(enumToken(s)); ctx {
		case spell.RangeContextLOS, spell.RangeContextLOE:
			seen[ctx] = true
		default:
			return nil, structuralError(a.at("requires"), "%q is not one of los, loe", s)
		}
	}
	var out []spell.RangeContext
	for _, ctx := range []spell.RangeContext{spell.RangeContextLOS, spell.RangeContextLOE} {
		if seen[ctx] {
			out = append(out, ctx)
		}
	}
	return out, nil
}

func fillRangeSpecial(a attrs, r *spell.Range) error {
	r.Text = a.text("text")
	return nil
}

// rangeDistanceText renders "30 ft" for fixed distances and "10/ft/level"
// for per-level ones.
func rangeDistanceText(r spell.Range) string {
	unit := string(r.Unit)
	if unit == "" {
		unit = string(spell.RangeUnitFeet)
	}
	var text string
	switch {
	case r.Distance == nil:
		text = "0 " + unit
	case r.Distance.IsPerLevel():
		text = formatNumber(r.Distance.EffectiveValue()) + "/" + unit + "/level"
	default:
		text = scalarWithUnit(r.Distance, unit)
	}

	contexts := map[spell.RangeContext]bool{}
	for _, ctx := range r.Requires {
		contexts[ctx] = true
	}
	switch r.Kind {
	case spell.RangeKindDistanceLOS:
		contexts[spell.RangeContextLOS] = true
	case spell.RangeKindDistanceLOE:
		contexts[spell.RangeContextLOE] = true
	}
	var labels []string
	for _, ctx := range []spell.RangeContext{spell.RangeContextLOS, spell.RangeContextLOE} {
		if contexts[ctx] {
			labels = append(labels, strings.ToUpper(string(ctx)))
		}
	}
	if len(labels) > 0 {
		text += " (" + strings.Join(labels, ", ") + ")"
	}
	return text
}

func rangeSpecialText(r spell.Range) string {
	if r.Text != "" {
		return r.Text
	}
	return "Special"
}

func projectRange(r spell.Range) string {
	spec, ok := rangeKinds[r.Kind]
	if !ok {
		return humanize(string(r.Kind))
	}
	return spec.text(r)
}

// ValidateRange checks a range against the closed taxonomy
func ValidateRange(r spell.Range) error {
	vb := errors.NewValidationBuilder()
	if _, ok := rangeKinds[r.Kind]; !ok {
		vb.InvalidField("kind", "unknown range kind "+string(r.Kind))
	}
	if r.Kind.IsDistance() {
		if r.Distance == nil {
			vb.RequiredField("distance")
		}
		errors.ValidateEnum("unit", string(r.Unit), enumStrings(rangeUnits), vb)
		if r.Anchor != "" {
			errors.ValidateEnum("anchor", string(r.Anchor), enumStrings(rangeAnchors), vb)
		}
	}
	return vb.Build()
}

func enumStrings[K ~string](values []K) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	sort.Strings(out)
	return out
}
