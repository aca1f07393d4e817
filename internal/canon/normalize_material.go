package canon

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
)

var materialKeys = []string{"name", "quantity", "unit", "gp_value", "is_consumed", "description"}

// NormalizeMaterials converts a loosely typed material list into Materials.
// Items are objects or bare names. Order is kept; a quantity of one and
// is_consumed false are dropped.
func NormalizeMaterials(items []any) (spell.Materials, error) {
	m, _, err := normalizeMaterials(items)
	return m, err
}

func normalizeMaterials(items []any) (spell.Materials, []Warning, error) {
	root := newAttrs(spell.FieldMaterialComponents, map[string]any{})
	out := make(spell.Materials, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("%s[%d]", spell.FieldMaterialComponents, i)
		switch v := item.(type) {
		case string:
			if name := collapseSpace(v); name != "" {
				out = append(out, spell.MaterialComponent{Name: name})
			}
		case map[string]any:
			mc, err := parseMaterial(foldAttrs(v, path, root.audit))
			if err != nil {
				return nil, nil, err
			}
			out = append(out, mc)
		default:
			return nil, nil, structuralError(path, "expected an object or a name, got %T", item)
		}
	}
	if len(out) == 0 {
		return nil, root.warnings(), nil
	}
	return out, root.warnings(), nil
}

// normalizeMaterial reads a single material object as a one-item list
func normalizeMaterial(m map[string]any) (spell.Materials, []Warning, error) {
	return normalizeMaterials([]any{m})
}

func parseMaterial(a attrs) (spell.MaterialComponent, error) {
	if err := a.onlyKeys(materialKeys...); err != nil {
		return spell.MaterialComponent{}, err
	}
	mc := spell.MaterialComponent{
		Name:        a.text("name"),
		Unit:        a.text("unit"),
		Description: description(a.values["description"]),
	}

	q, ok, err := a.number("quantity")
	if err != nil {
		return mc, err
	}
	if ok {
		if q = spell.ClampScalar(q); q != spell.DefaultMaterialQuantity {
			mc.Quantity = &q
		}
	}

	gp, ok, err := a.number("gp_value")
	if err != nil {
		return mc, err
	}
	if ok {
		gp = spell.ClampScalar(gp)
		mc.GPValue = &gp
	}

	if mc.IsConsumed, _, err = a.boolean("is_consumed"); err != nil {
		return mc, err
	}
	return mc, nil
}

// ValidateMaterials requires a name on every material and a positive
// quantity where one is given.
func ValidateMaterials(m spell.Materials) error {
	vb := errors.NewValidationBuilder()
	for i, item := range m {
		path := fmt.Sprintf("material_components[%d]", i)
		errors.ValidateRequired(path+".name", item.Name, vb)
		if item.Quantity != nil && *item.Quantity <= 0 {
			vb.Fieldf(path+".quantity", "must be positive, got %s", formatNumber(*item.Quantity))
		}
		if item.GPValue != nil {
			errors.ValidateNonNegative(path+".gp_value", *item.GPValue, vb)
		}
	}
	return vb.Build()
}

func projectMaterials(m spell.Materials) string {
	parts := make([]string, 0, len(m))
	for _, item := range m {
		parts = append(parts, materialText(item))
	}
	return strings.Join(parts, "; ")
}

// materialText renders e.g. "ruby dust (2 oz, 50 gp, consumed)"
func materialText(m spell.MaterialComponent) string {
	var details []string
	if m.Quantity != nil || m.Unit != "" {
		details = append(details, strings.TrimSpace(formatNumber(m.EffectiveQuantity())+" "+m.Unit))
	}
	if m.GPValue != nil {
		details = append(details, formatNumber(*m.GPValue)+" gp")
	}
	if m.IsConsumed {
		details = append(details, "consumed")
	}
	if len(details) == 0 {
		return m.Name
	}
	return m.Name + " (" + strings.Join(details, ", ") + ")"
}

// onlyKeys rejects keys outside allowed
func (a attrs) onlyKeys(allowed ...string) error {
	known := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		known[k] = true
	}
	var unknown []string
	for k := range a.values {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return structuralError(a.path, "unknown keys %s", strings.Join(unknown, ", "))
}
