package canon

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
)

// Source reports where a field's value came from
type Source string

// Field sources
const (
	SourceStructured Source = "structured"
	SourceLegacy     Source = "legacy"
	SourceAbsent     Source = "absent"
)

// Result is a successfully assembled spell
type Result struct {
	Spell         *spell.CanonicalSpell
	Metadata      spell.Metadata
	Warnings      []Warning
	FieldIssues   []FieldIssue
	Sources       map[spell.Field]Source
	CanonicalJSON []byte
	Hash          string
}

type options struct {
	parser      LegacyParser
	advisoryMax float64
}

// Option configures Assemble
type Option func(*options)

// WithLegacyParser replaces the default RawTextParser
func WithLegacyParser(p LegacyParser) Option {
	return func(o *options) {
		if p != nil {
			o.parser = p
		}
	}
}

// WithAdvisoryMax sets the scalar value above which a warning is raised. Zero
// disables the check.
func WithAdvisoryMax(v float64) Option {
	return func(o *options) {
		o.advisoryMax = v
	}
}

// Assemble builds a canonical spell from a raw record. It fails only for
// tradition problems and an unusable name or level; every other problem is
// reported as a warning or field issue beside the result. On failure the
// result is nil.
func Assemble(raw RawRecord, opts ...Option) (*Result, error) {
	o := options{parser: RawTextParser{}, advisoryMax: spell.DefaultAdvisoryMax}
	for _, opt := range opts {
		opt(&o)
	}
	record := raw.clone()

	rawName, _ := record["name"].(string)
	rawName = collapseSpace(rawName)
	tradition, err := inferTradition(record, rawName)
	if err != nil {
		return nil, err
	}
	name, level, err := identity(record, rawName)
	if err != nil {
		return nil, err
	}

	a := &assembly{
		record:  record,
		opts:    o,
		sources: make(map[spell.Field]Source, len(spell.Fields())),
		meta: spell.Metadata{
			Source:  textValue(record["source"]),
			Edition: textValue(record["edition"]),
			Author:  textValue(record["author"]),
			License: textValue(record["license"]),
		},
	}

	s := &spell.CanonicalSpell{
		SchemaVersion: spell.SchemaVersion,
		Name:          name,
		Level:         level,
		Tradition:     tradition,
		ClassList:     a.tokenList("class_list"),
		Tags:          a.tokenList("tags"),
		Descriptors:   a.tokenList("descriptors"),
		Description:   description(record["description"]),
		Reversible:    a.flag("reversible"),
		IsQuestSpell:  a.flag("is_quest_spell"),
		IsCantrip:     a.flag("is_cantrip"),
	}
	// Only the field matching the tradition is read; a stray opposite field
	// never reaches the canonical form.
	if tradition == spell.TraditionArcane {
		s.School = textValue(record["school"])
		s.Subschools = a.tokenList("subschools")
	} else {
		s.Sphere = textValue(record["sphere"])
	}

	s.Range = decideField(a, spell.FieldRange, normalizeRange, ValidateRange)
	s.Duration = decideField(a, spell.FieldDuration, normalizeDuration, ValidateDuration)
	s.CastingTime = decideField(a, spell.FieldCastingTime, normalizeCastingTime, ValidateCastingTime)
	s.Area = decideField(a, spell.FieldArea, normalizeArea, ValidateArea)
	s.Damage = decideField(a, spell.FieldDamage, normalizeDamage, ValidateDamage)
	s.SavingThrow = decideField(a, spell.FieldSavingThrow, normalizeSavingThrow, ValidateSavingThrow)
	s.MagicResistance = decideField(a, spell.FieldMagicResistance, normalizeMagicResistance, ValidateMagicResistance)
	s.Components = decideField(a, spell.FieldComponents, normalizeComponents, ValidateComponents)
	s.MaterialComponents = a.materials()
	s.ExperienceCost = a.experience()
	a.meta.SourceRefs = a.sourceRefs()

	a.syncComponentFlags(s)

	a.businessRules(s)
	a.checkMRPartIDs(s)
	a.advisoryScalars(s)

	canonical, err := CanonicalJSON(s)
	if err != nil {
		return nil, fmt.Errorf("encode canonical spell %q: %w", name, err)
	}

	sortWarnings(a.warnings)
	return &Result{
		Spell:         s,
		Metadata:      a.meta,
		Warnings:      a.warnings,
		FieldIssues:   a.issues,
		Sources:       a.sources,
		CanonicalJSON: canonical,
		Hash:          Hash(canonical),
	}, nil
}

func inferTradition(record RawRecord, name string) (spell.Tradition, error) {
	hasSchool := record.present("school")
	hasSphere := record.present("sphere")
	switch {
	case hasSchool && hasSphere:
		return "", newAssemblyError(ConflictingTraditionFields, name,
			"spell %q has both school and sphere; they are mutually exclusive", name)
	case hasSchool:
		return spell.TraditionArcane, nil
	case hasSphere:
		return spell.TraditionDivine, nil
	default:
		return "", newAssemblyError(MissingTraditionField, name,
			"spell %q has neither school nor sphere", name)
	}
}

func identity(record RawRecord, name string) (string, int, error) {
	if name == "" {
		return "", 0, newAssemblyError(InvalidIdentityField, name, "name is required")
	}
	v, ok := record["level"]
	if !ok || v == nil {
		return "", 0, newAssemblyError(InvalidIdentityField, name, "level is required")
	}
	f, err := toNumber(v)
	if err != nil || f < spell.MinLevel || f > spell.MaxLevel || f != math.Trunc(f) {
		return "", 0, newAssemblyError(InvalidIdentityField, name,
			"level must be an integer from %d to %d, got %v", spell.MinLevel, spell.MaxLevel, v)
	}
	return name, int(f), nil
}

// assembly carries the per-record state of one Assemble call
type assembly struct {
	record   RawRecord
	opts     options
	meta     spell.Metadata
	sources  map[spell.Field]Source
	warnings []Warning
	issues   []FieldIssue
}

func (a *assembly) warn(field spell.Field, code WarningCode, format string, args ...any) {
	a.warnings = append(a.warnings, Warning{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
}

// decideField resolves one structured field: the structured value when it
// is authoritative, otherwise the legacy parser's reading of the legacy text,
// otherwise nothing.
func decideField[T spell.FieldValue](
	a *assembly,
	field spell.Field,
	normalize func(map[string]any) (T, []Warning, error),
	validate func(T) error,
) *T {
	key := fieldKey(field)
	legacy := a.record.legacyText(key)
	if legacy != "" {
		if a.meta.LegacyText == nil {
			a.meta.LegacyText = make(map[spell.Field]string)
		}
		a.meta.LegacyText[field] = legacy
	}

	var fieldWarnings []Warning
	decision := Decide(a.record, key, func(m map[string]any) (T, error) {
		v, w, err := normalize(m)
		fieldWarnings = w
		return v, err
	}, validate)

	if decision.Issue != nil {
		a.issues = append(a.issues, *decision.Issue)
	}
	if decision.SuppressLegacyParse {
		a.sources[field] = SourceStructured
		a.warnings = append(a.warnings, fieldWarnings...)
		v := decision.Value
		return &v
	}

	if legacy == "" {
		a.sources[field] = SourceAbsent
		return nil
	}
	parsed, err := a.opts.parser.ParseLegacy(field, legacy)
	if err != nil {
		a.warn(field, WarningLegacyParseFailed, "legacy text %q could not be parsed: %v", legacy, err)
		a.sources[field] = SourceAbsent
		return nil
	}
	v, ok := asFieldValue[T](parsed)
	if !ok {
		a.warn(field, WarningLegacyParseFailed, "legacy parser returned %T", parsed)
		a.sources[field] = SourceAbsent
		return nil
	}
	a.sources[field] = SourceLegacy
	return &v
}

func asFieldValue[T spell.FieldValue](v spell.FieldValue) (T, bool) {
	var zero T
	switch t := any(v).(type) {
	case T:
		return t, true
	case *T:
		if t != nil {
			return *t, true
		}
	}
	return zero, false
}

// tokenList reads an array or comma-separated string, sorted and deduped
func (a *assembly) tokenList(key string) []string {
	switch v := a.record[key].(type) {
	case string:
		return sortedUnique(strings.Split(v, ","))
	case []string:
		return sortedUnique(v)
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
		return sortedUnique(values)
	default:
		return nil
	}
}

// keepLegacy records free text that has no parser as unhashed metadata
func (a *assembly) keepLegacy(field spell.Field, text string) {
	if text == "" {
		return
	}
	if a.meta.LegacyText == nil {
		a.meta.LegacyText = make(map[spell.Field]string)
	}
	a.meta.LegacyText[field] = text
}

func (a *assembly) issue(field spell.Field, key string, err error) {
	a.issues = append(a.issues, FieldIssue{Field: field, Key: key, Message: err.Error()})
}

// materials reads the material list from "material_components_spec",
// "materialComponentsSpec" or a list under "material_components". Text under
// "material_components" is kept as legacy metadata.
func (a *assembly) materials() spell.Materials {
	field := spell.FieldMaterialComponents
	key := fieldKey(field)
	a.keepLegacy(field, a.record.legacyText(key))

	raw, at, ok := a.record.structuredValue(key)
	if !ok {
		if list, isList := a.record[key].([]any); isList {
			raw, at, ok = list, key, true
		}
	}
	if !ok {
		return nil
	}

	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		items = []any{v}
	case string:
		a.keepLegacy(field, strings.TrimSpace(v))
		return nil
	default:
		a.issue(field, at, fmt.Errorf("expected a list, got %T", raw))
		return nil
	}

	mats, w, err := normalizeMaterials(items)
	if err == nil {
		err = ValidateMaterials(mats)
	}
	if err != nil {
		a.issue(field, at, err)
		return nil
	}
	a.warnings = append(a.warnings, w...)
	return mats
}

// experience returns nil for a missing, rejected or all-default cost so that
// such records hash alike.
func (a *assembly) experience() *spell.ExperienceCost {
	field := spell.FieldExperienceCost
	key := fieldKey(field)
	a.keepLegacy(field, a.record.legacyText(key))

	var fieldWarnings []Warning
	decision := Decide(a.record, key, func(m map[string]any) (spell.ExperienceCost, error) {
		if text, ok := m["source_text"].(string); ok {
			a.keepLegacy(field, strings.TrimSpace(text))
		}
		v, w, err := normalizeExperience(m)
		fieldWarnings = w
		return v, err
	}, ValidateExperience)

	if decision.Issue != nil {
		a.issues = append(a.issues, *decision.Issue)
	}
	if !decision.SuppressLegacyParse || decision.Value.IsDefault() {
		return nil
	}
	a.warnings = append(a.warnings, fieldWarnings...)
	v := decision.Value
	return &v
}

// sourceRefs reads citations. Entries without a book are reported and
// skipped.
func (a *assembly) sourceRefs() []spell.SourceRef {
	field := spell.FieldSourceRefs
	key := fieldKey(field)
	v, ok := a.record[key]
	if !ok || v == nil {
		return nil
	}
	list, isList := v.([]any)
	if !isList {
		a.issue(field, key, fmt.Errorf("expected a list, got %T", v))
		return nil
	}

	var out []spell.SourceRef
	for i, item := range list {
		path := fmt.Sprintf("%s[%d]", key, i)
		m, isMap := item.(map[string]any)
		if !isMap {
			a.issue(field, key, fmt.Errorf("%s: expected an object, got %T", path, item))
			continue
		}
		ra := foldAttrs(m, path, &audit{field: field})
		ref := spell.SourceRef{
			System: ra.text("system"),
			Book:   ra.text("book"),
			Page:   ra.text("page"),
			Note:   ra.text("note"),
		}
		if ref.Book == "" {
			a.issue(field, key, fmt.Errorf("%s: book is required", path))
			continue
		}
		out = append(out, ref)
	}
	return out
}

// syncComponentFlags sets the M and XP flags implied by a material list or a
// charging experience cost.
func (a *assembly) syncComponentFlags(s *spell.CanonicalSpell) {
	needMaterial := len(s.MaterialComponents) > 0
	needXP := s.ExperienceCost != nil && s.ExperienceCost.Charges()
	if !needMaterial && !needXP {
		return
	}
	if s.Components == nil {
		s.Components = &spell.Components{}
	}
	s.Components.Material = s.Components.Material || needMaterial
	s.Components.Experience = s.Components.Experience || needXP
}

func (a *assembly) flag(key string) bool {
	v, ok := a.record[key]
	if !ok || v == nil {
		return false
	}
	at := attrs{values: map[string]any{key: v}, path: key, audit: &audit{}}
	b, _, err := at.boolean(key)
	if err != nil {
		a.issues = append(a.issues, FieldIssue{Field: spell.Field(key), Key: key, Message: err.Error()})
		return false
	}
	return b
}

func (a *assembly) businessRules(s *spell.CanonicalSpell) {
	if s.IsCantrip && s.Level != 0 {
		a.warn("", WarningCantripLevel, "cantrip %q is level %d, expected 0", s.Name, s.Level)
	}
	if s.IsQuestSpell {
		if s.Level != spell.QuestSpellLevel {
			a.warn("", WarningQuestSpellLevel, "quest spell %q is level %d, expected %d", s.Name, s.Level, spell.QuestSpellLevel)
		}
		if s.Tradition != spell.TraditionDivine {
			a.warn("", WarningQuestSpellTradition, "quest spell %q is %s, expected DIVINE", s.Name, s.Tradition)
		}
	}
	if s.Level > spell.MaxStandardLevel && s.Tradition != spell.TraditionArcane {
		a.warn("", WarningHighLevelTradition, "spell %q is level %d, only ARCANE spells go above %d", s.Name, s.Level, spell.MaxStandardLevel)
	}
}

func (a *assembly) checkMRPartIDs(s *spell.CanonicalSpell) {
	mr := s.MagicResistance
	if mr == nil || mr.Partial == nil || len(mr.Partial.PartIDs) == 0 {
		return
	}
	known := map[string]bool{}
	if s.Damage != nil {
		for _, id := range s.Damage.PartIDs() {
			known[id] = true
		}
	}
	for _, id := range mr.Partial.PartIDs {
		if !known[id] {
			a.warn(spell.FieldMagicResistance, WarningUnknownMRPartID, "part id %q does not match any damage part", id)
		}
	}
}

func (a *assembly) advisoryScalars(s *spell.CanonicalSpell) {
	if a.opts.advisoryMax <= 0 {
		return
	}
	for _, field := range spell.Fields() {
		scalars := scalarsOf(s.FieldValue(field))
		names := make([]string, 0, len(scalars))
		for name := range scalars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if scalars[name].AboveAdvisory(a.opts.advisoryMax) {
				a.warn(field, WarningScalarAboveAdvisoryMax, "%s is %s, above the advisory maximum %s",
					name, formatNumber(scalars[name].EffectiveValue()), formatNumber(a.opts.advisoryMax))
			}
		}
	}
}

// scalarsOf lists the scalar companions a value carries
func scalarsOf(v spell.FieldValue) map[string]*spell.Scalar {
	out := map[string]*spell.Scalar{}
	add := func(name string, s *spell.Scalar) {
		if s != nil {
			out[name] = s
		}
	}
	switch t := v.(type) {
	case spell.Range:
		add("distance", t.Distance)
	case spell.Duration:
		add("duration", t.Duration)
		add("uses", t.Uses)
	case spell.Area:
		add("radius", t.Radius)
		add("length", t.Length)
		add("width", t.Width)
		add("height", t.Height)
		add("thickness", t.Thickness)
		add("edge", t.Edge)
		add("surface_area", t.SurfaceArea)
		add("volume", t.Volume)
		add("tile_count", t.TileCount)
		add("count", t.Count)
	}
	return out
}

func sortWarnings(ws []Warning) {
	sort.SliceStable(ws, func(i, j int) bool {
		if ws[i].Field != ws[j].Field {
			return ws[i].Field < ws[j].Field
		}
		if ws[i].Code != ws[j].Code {
			return ws[i].Code < ws[j].Code
		}
		return ws[i].Message < ws[j].Message
	})
}

func textValue(v any) string {
	s, _ := v.(string)
	return collapseSpace(s)
}

func description(v any) string {
	s, _ := v.(string)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSpace(s)
}
