package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
)

var damageKinds = map[spell.DamageKind]kindSpec[spell.Damage]{
	spell.DamageKindNone:          {fill: noCompanions[spell.Damage], text: label[spell.Damage]("None")},
	spell.DamageKindModeled:       {fill: fillDamageModeled, text: damageModeledText},
	spell.DamageKindDMAdjudicated: {fill: fillDamageGuidance, text: damageGuidanceText},
}

var damageTypeAliases = map[string]spell.DamageType{
	"bludgeoning": spell.DamageTypePhysicalBludgeoning,
	"piercing":    spell.DamageTypePhysicalPiercing,
	"slashing":    spell.DamageTypePhysicalSlashing,
	"lightning":   spell.DamageTypeElectricity,
	"thunder":     spell.DamageTypeSonic,
	"necrotic":    spell.DamageTypeNegativeEnergy,
	"radiant":     spell.DamageTypePositiveEnergy,
}

const partIDPrefix = "part_"

// NormalizeDamage converts a loosely typed damage object into a Damage.
// Parts without an id get one derived from their content, colliding ids are
// suffixed, and parts are sorted by id unless the combine mode is sequence.
func NormalizeDamage(m map[string]any) (spell.Damage, error) {
	d, _, err := normalizeDamage(m)
	return d, err
}

func normalizeDamage(m map[string]any) (spell.Damage, []Warning, error) {
	a := newAttrs(spell.FieldDamage, m)
	kind, spec, err := resolveKind(a, "kind", spell.DefaultDamageKind, damageKinds, nil)
	if err != nil {
		return spell.Damage{}, nil, err
	}

	out := spell.Damage{
		Kind:           kind,
		Notes:          a.text("notes"),
		RawLegacyValue: a.text("raw_legacy_value"),
	}
	if err := spec.fill(a, &out); err != nil {
		return spell.Damage{}, nil, err
	}
	return out, a.warnings(), nil
}

func fillDamageGuidance(a attrs, d *spell.Damage) error {
	d.DMGuidance = a.text("dm_guidance")
	return nil
}

func fillDamageModeled(a attrs, d *spell.Damage) error {
	mode, err := enumOr(a, "combine_mode", spell.CombineSum, spell.CombineModes(), nil)
	if err != nil {
		return err
	}
	items, err := a.objects("parts")
	if err != nil {
		return err
	}

	parts := make([]spell.DamagePart, 0, len(items))
	for _, item := range items {
		part, err := parseDamagePart(item)
		if err != nil {
			return err
		}
		parts = append(parts, part)
	}
	if err := assignPartIDs(parts, a.audit); err != nil {
		return err
	}
	if mode != spell.CombineSequence {
		sort.SliceStable(parts, func(i, j int) bool { return parts[i].ID < parts[j].ID })
	}

	d.CombineMode = mode
	if len(parts) > 0 {
		d.Parts = parts
	}
	return nil
}

func parseDamagePart(a attrs) (spell.DamagePart, error) {
	var part spell.DamagePart
	var err error

	part.ID = strings.ToLower(a.text("id"))
	part.Label = a.text("label")
	part.Notes = a.text("notes")

	if part.DamageType, err = enumOr(a, "damage_type", spell.DamageTypeUntyped, spell.DamageTypes(), damageTypeAliases); err != nil {
		return part, err
	}
	if part.MRInteraction, err = enumOr(a, "mr_interaction", spell.MRInteractionNormal, spell.MRInteractions(), nil); err != nil {
		return part, err
	}
	if part.Base, err = dicePoolAt(a, "base"); err != nil {
		return part, err
	}
	if part.Application, err = parseApplication(a); err != nil {
		return part, err
	}
	if part.Save, err = parseDamageSave(a); err != nil {
		return part, err
	}
	if part.Clamp, err = parseClamp(a); err != nil {
		return part, err
	}

	rules, err := a.objects("scaling")
	if err != nil {
		return part, err
	}
	for _, ra := range rules {
		rule, err := parseScalingRule(ra)
		if err != nil {
			return part, err
		}
		part.Scaling = append(part.Scaling, rule)
	}
	sortScalingRules(part.Scaling)
	return part, nil
}

func parseApplication(a attrs) (spell.Application, error) {
	app := spell.Application{Scope: spell.ScopePerTarget, Ticks: 1, TickDriver: spell.TickFixed}
	aa, ok, err := a.obj("application")
	if err != nil || !ok {
		return app, err
	}
	if app.Scope, err = enumOr(aa, "scope", spell.ScopePerTarget, spell.ApplicationScopes(), nil); err != nil {
		return app, err
	}
	if app.TickDriver, err = enumOr(aa, "tick_driver", spell.TickFixed, spell.TickDrivers(), nil); err != nil {
		return app, err
	}
	ticks, hasTicks, err := aa.integer("ticks")
	if err != nil {
		return app, err
	}
	if hasTicks && ticks > 1 {
		app.Ticks = ticks
	}
	return app, nil
}

func parseDamageSave(a attrs) (spell.DamageSave, error) {
	save := spell.DamageSave{Kind: spell.DamageSaveNone}
	sa, ok, err := a.obj("save")
	if err != nil || !ok {
		return save, err
	}
	if save.Kind, err = enumOr(sa, "kind", spell.DamageSaveNone, spell.DamageSaveKinds(), nil); err != nil {
		return save, err
	}
	if save.Kind != spell.DamageSavePartial {
		return save, nil
	}

	partial := spell.PartialSave{Numerator: 1, Denominator: 2}
	pa, hasPartial, err := sa.obj("partial")
	if err != nil {
		return save, err
	}
	if hasPartial {
		if n, ok, err := pa.integer("numerator"); err != nil {
			return save, err
		} else if ok {
			partial.Numerator = n
		}
		if d, ok, err := pa.integer("denominator"); err != nil {
			return save, err
		} else if ok {
			partial.Denominator = d
		}
	}
	if partial.Numerator < 0 || partial.Denominator < 1 {
		return save, structuralError(sa.at("partial"), "invalid fraction %d/%d", partial.Numerator, partial.Denominator)
	}
	save.Partial = &partial
	return save, nil
}

func parseClamp(a attrs) (*spell.ClampSpec, error) {
	ca, ok, err := a.obj("clamp")
	if err != nil || !ok {
		return nil, err
	}
	var clamp spell.ClampSpec
	if v, ok, err := ca.integer("min_total"); err != nil {
		return nil, err
	} else if ok {
		clamp.MinTotal = &v
	}
	if v, ok, err := ca.integer("max_total"); err != nil {
		return nil, err
	} else if ok {
		clamp.MaxTotal = &v
	}
	if clamp.MinTotal == nil && clamp.MaxTotal == nil {
		return nil, nil
	}
	if clamp.MinTotal != nil && clamp.MaxTotal != nil && *clamp.MinTotal > *clamp.MaxTotal {
		return nil, structuralError(a.at("clamp"), "min_total %d is above max_total %d", *clamp.MinTotal, *clamp.MaxTotal)
	}
	return &clamp, nil
}

func parseScalingRule(a attrs) (spell.ScalingRule, error) {
	var rule spell.ScalingRule
	kind, ok, err := enumValue(a, "kind", spell.ScalingKinds(), nil)
	if err != nil {
		return rule, err
	}
	if !ok {
		return rule, structuralError(a.at("kind"), "scaling kind is required")
	}
	rule.Kind = kind
	if rule.Driver, err = enumOr(a, "driver", spell.DriverCasterLevel, spell.ScalingDrivers(), nil); err != nil {
		return rule, err
	}

	step, _, err := a.integer("step")
	if err != nil {
		return rule, err
	}
	rule.Step = max(step, 1)
	if maxSteps, ok, err := a.integer("max_steps"); err != nil {
		return rule, err
	} else if ok {
		maxSteps = max(maxSteps, 0)
		rule.MaxSteps = &maxSteps
	}
	rule.Notes = a.text("notes")

	switch rule.Kind {
	case spell.ScalingAddDicePerStep:
		ta, ok, err := a.obj("dice_increment")
		if err != nil {
			return rule, err
		}
		if !ok {
			return rule, structuralError(a.at("dice_increment"), "required for %s", rule.Kind)
		}
		term, err := parseDiceTerm(ta)
		if err != nil {
			return rule, err
		}
		rule.DiceIncrement = &term
	case spell.ScalingAddFlatPerStep:
		flat, ok, err := a.integer("flat_increment")
		if err != nil {
			return rule, err
		}
		if !ok {
			flat = 1
		}
		rule.FlatIncrement = &flat
	case spell.ScalingSetBaseByLevelBand:
		bands, err := a.objects("level_bands")
		if err != nil {
			return rule, err
		}
		for _, ba := range bands {
			band, err := parseLevelBand(ba)
			if err != nil {
				return rule, err
			}
			rule.LevelBands = append(rule.LevelBands, band)
		}
		for i := range rule.LevelBands {
			for j := i + 1; j < len(rule.LevelBands); j++ {
				if rule.LevelBands[i].Overlaps(rule.LevelBands[j]) {
					a.audit.warn(WarningOverlappingLevelBands, "%s: bands %d-%d and %d-%d overlap, the first listed wins",
						a.path, rule.LevelBands[i].Min, rule.LevelBands[i].Max, rule.LevelBands[j].Min, rule.LevelBands[j].Max)
				}
			}
		}
	}
	return rule, nil
}

func parseLevelBand(a attrs) (spell.LevelBand, error) {
	var band spell.LevelBand
	var err error
	if band.Min, _, err = a.integer("min"); err != nil {
		return band, err
	}
	if band.Max, _, err = a.integer("max"); err != nil {
		return band, err
	}
	if band.Min > band.Max {
		return band, structuralError(a.path, "band min %d is above max %d", band.Min, band.Max)
	}
	if band.Base, err = dicePoolAt(a, "base"); err != nil {
		return band, err
	}
	return band, nil
}

// dicePoolAt reads a dice pool given either as an object or in dice notation
func dicePoolAt(a attrs, key string) (spell.DicePool, error) {
	v, ok := a.get(key)
	if !ok {
		return spell.DicePool{}, nil
	}
	if s, isString := v.(string); isString {
		pool, err := ParseDiceNotation(s)
		if err != nil {
			return spell.DicePool{}, structuralError(a.at(key), "%v", err)
		}
		return pool, nil
	}
	pa, _, err := a.obj(key)
	if err != nil {
		return spell.DicePool{}, err
	}

	var pool spell.DicePool
	terms, err := pa.objects("terms")
	if err != nil {
		return pool, err
	}
	for _, ta := range terms {
		term, err := parseDiceTerm(ta)
		if err != nil {
			return pool, err
		}
		pool.Terms = append(pool.Terms, term)
	}
	if pool.FlatModifier, _, err = pa.integer("flat_modifier"); err != nil {
		return pool, err
	}
	return pool, nil
}

func parseDiceTerm(a attrs) (spell.DiceTerm, error) {
	var term spell.DiceTerm
	var err error
	if term.Count, _, err = a.integer("count"); err != nil {
		return term, err
	}
	if term.Sides, _, err = a.integer("sides"); err != nil {
		return term, err
	}
	if term.PerDieModifier, _, err = a.integer("per_die_modifier"); err != nil {
		return term, err
	}
	if term.Count < 0 {
		return term, structuralError(a.at("count"), "must not be negative, got %d", term.Count)
	}
	if term.Sides < 1 {
		return term, structuralError(a.at("sides"), "must be at least 1, got %d", term.Sides)
	}
	return term, nil
}

// ParseDiceNotation parses pools such as "3d6", "1d4+1", "2d6+1d4-1" and
// "2d4+1/die".
func ParseDiceNotation(s string) (spell.DicePool, error) {
	var pool spell.DicePool
	expr := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if expr == "" {
		return pool, fmt.Errorf("empty dice expression")
	}

	sign := 1
	start := 0
	for i := 0; i <= len(expr); i++ {
		if i < len(expr) && expr[i] != '+' && expr[i] != '-' {
			continue
		}
		token := expr[start:i]
		if token == "" && i < len(expr) && i == 0 {
			if expr[i] == '-' {
				sign = -1
			}
			start = i + 1
			continue
		}
		if err := addDiceToken(&pool, token, sign, s); err != nil {
			return spell.DicePool{}, err
		}
		if i < len(expr) {
			sign = 1
			if expr[i] == '-' {
				sign = -1
			}
		}
		start = i + 1
	}
	return pool, nil
}

func addDiceToken(pool *spell.DicePool, token string, sign int, original string) error {
	if token == "" {
		return fmt.Errorf("malformed dice expression %q", original)
	}
	if per, ok := strings.CutSuffix(token, "/die"); ok {
		n, err := diceNumber(per)
		if err != nil || len(pool.Terms) == 0 {
			return fmt.Errorf("malformed per-die modifier in %q", original)
		}
		pool.Terms[len(pool.Terms)-1].PerDieModifier += sign * n
		return nil
	}
	countText, sidesText, isDice := strings.Cut(token, "d")
	if !isDice {
		n, err := diceNumber(token)
		if err != nil {
			return fmt.Errorf("malformed dice expression %q", original)
		}
		pool.FlatModifier += sign * n
		return nil
	}
	if sign < 0 {
		return fmt.Errorf("negative dice in %q", original)
	}
	count := 1
	if countText != "" {
		n, err := diceNumber(countText)
		if err != nil {
			return fmt.Errorf("malformed dice count in %q: %v", original, err)
		}
		count = n
	}
	sides, err := diceNumber(sidesText)
	if err != nil || sides < 1 {
		return fmt.Errorf("malformed dice sides in %q", original)
	}
	pool.Terms = append(pool.Terms, spell.DiceTerm{Count: count, Sides: sides})
	return nil
}

// diceNumber parses one number of dice notation, bounded like the object form
func diceNumber(text string) (int, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, err
	}
	if n > spell.MaxDiceCount {
		return 0, fmt.Errorf("%d exceeds %d", n, spell.MaxDiceCount)
	}
	return n, nil
}

// assignPartIDs derives ids for parts that have none and suffixes ids that
// collide, in list order.
func assignPartIDs(parts []spell.DamagePart, au *audit) error {
	explicit := make([]bool, len(parts))
	for i := range parts {
		if parts[i].ID != "" {
			explicit[i] = true
			continue
		}
		id, err := contentPartID(parts[i])
		if err != nil {
			return err
		}
		parts[i].ID = id
	}

	used := make(map[string]bool, len(parts))
	for i := range parts {
		if !used[parts[i].ID] {
			used[parts[i].ID] = true
			continue
		}
		original := parts[i].ID
		for n := 2; ; n++ {
			candidate := fmt.Sprintf("%s-%d", original, n)
			if !used[candidate] {
				parts[i].ID = candidate
				break
			}
		}
		used[parts[i].ID] = true
		if explicit[i] {
			au.warn(WarningDamagePartIDRegenerated, "part id %q is used more than once, renamed to %q", original, parts[i].ID)
		}
	}
	return nil
}

func contentPartID(part spell.DamagePart) (string, error) {
	part.ID = ""
	data, err := CanonicalJSON(part)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return partIDPrefix + hex.EncodeToString(sum[:4]), nil
}

func sortScalingRules(rules []spell.ScalingRule) {
	kindRank := rank(spell.ScalingKinds())
	driverRank := rank(spell.ScalingDrivers())
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if kindRank[a.Kind] != kindRank[b.Kind] {
			return kindRank[a.Kind] < kindRank[b.Kind]
		}
		if driverRank[a.Driver] != driverRank[b.Driver] {
			return driverRank[a.Driver] < driverRank[b.Driver]
		}
		return a.Step < b.Step
	})
}

func rank[K comparable](values []K) map[K]int {
	out := make(map[K]int, len(values))
	for i, v := range values {
		out[v] = i
	}
	return out
}

func damageGuidanceText(d spell.Damage) string {
	if d.DMGuidance != "" {
		return d.DMGuidance
	}
	return "DM adjudicated"
}

// damageModeledText renders each part as "<pool> <type>" joined by the
// combine mode, e.g. "3d6 fire + 1d4+1 cold".
func damageModeledText(d spell.Damage) string {
	if len(d.Parts) == 0 {
		return "None"
	}
	texts := make([]string, len(d.Parts))
	for i, part := range d.Parts {
		texts[i] = damagePartText(part)
	}
	switch d.CombineMode {
	case spell.CombineMax:
		return "max(" + strings.Join(texts, ", ") + ")"
	case spell.CombineChooseOne:
		return strings.Join(texts, " or ")
	case spell.CombineSequence:
		return strings.Join(texts, ", then ")
	default:
		return strings.Join(texts, " + ")
	}
}

func damagePartText(p spell.DamagePart) string {
	text := p.Base.String() + " " + damageTypeLabel(p.DamageType)
	switch p.Application.Scope {
	case "", spell.ScopePerTarget, spell.ScopeSpecial:
	default:
		text += " " + strings.ReplaceAll(string(p.Application.Scope), "_", " ")
	}
	if p.Application.Ticks > 1 {
		text += " x" + strconv.Itoa(p.Application.Ticks)
	}
	return text
}

func damageTypeLabel(t spell.DamageType) string {
	s := strings.TrimPrefix(string(t), "physical_")
	return strings.ReplaceAll(s, "_", " ")
}

func projectDamage(d spell.Damage) string {
	spec, ok := damageKinds[d.Kind]
	if !ok {
		return humanize(string(d.Kind))
	}
	return spec.text(d)
}

// ValidateDamage checks dice pools, part ids and every enumeration
func ValidateDamage(d spell.Damage) error {
	vb := errors.NewValidationBuilder()
	if _, ok := damageKinds[d.Kind]; !ok {
		vb.InvalidField("kind", "unknown damage kind "+string(d.Kind))
	}
	if d.Kind != spell.DamageKindModeled {
		return vb.Build()
	}
	errors.ValidateEnum("combine_mode", string(d.CombineMode), enumStrings(spell.CombineModes()), vb)

	seen := map[string]bool{}
	for i, part := range d.Parts {
		path := fmt.Sprintf("parts[%d]", i)
		if part.ID == "" {
			vb.RequiredField(path + ".id")
		} else if seen[part.ID] {
			vb.Fieldf(path+".id", "duplicate id %q", part.ID)
		}
		seen[part.ID] = true

		errors.ValidateEnum(path+".damage_type", string(part.DamageType), enumStrings(spell.DamageTypes()), vb)
		errors.ValidateEnum(path+".mr_interaction", string(part.MRInteraction), enumStrings(spell.MRInteractions()), vb)
		errors.ValidateEnum(path+".save.kind", string(part.Save.Kind), enumStrings(spell.DamageSaveKinds()), vb)
		validatePool(path+".base", part.Base, vb)
		for j, rule := range part.Scaling {
			rulePath := fmt.Sprintf("%s.scaling[%d]", path, j)
			errors.ValidateEnum(rulePath+".kind", string(rule.Kind), enumStrings(spell.ScalingKinds()), vb)
			errors.ValidateEnum(rulePath+".driver", string(rule.Driver), enumStrings(spell.ScalingDrivers()), vb)
			errors.ValidatePositive(rulePath+".step", rule.Step, vb)
			if rule.DiceIncrement != nil {
				validateTerm(rulePath+".dice_increment", *rule.DiceIncrement, vb)
			}
			for k, band := range rule.LevelBands {
				validatePool(fmt.Sprintf("%s.level_bands[%d].base", rulePath, k), band.Base, vb)
			}
		}
	}
	return vb.Build()
}

func validatePool(path string, pool spell.DicePool, vb *errors.ValidationBuilder) {
	for i, term := range pool.Terms {
		validateTerm(fmt.Sprintf("%s.terms[%d]", path, i), term, vb)
	}
}

func validateTerm(path string, term spell.DiceTerm, vb *errors.ValidationBuilder) {
	if term.Count < 0 || term.Count > spell.MaxDiceCount {
		vb.Fieldf(path+".count", "must be from 0 to %d, got %d", spell.MaxDiceCount, term.Count)
	}
	if term.Sides < 1 || term.Sides > spell.MaxDiceCount {
		vb.Fieldf(path+".sides", "must be from 1 to %d, got %d", spell.MaxDiceCount, term.Sides)
	}
}
