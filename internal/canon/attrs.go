package canon

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
)

// audit collects the warnings raised while normalizing one field
type audit struct {
	field    spell.Field
	warnings []Warning
}

func (a *audit) warn(code WarningCode, format string, args ...any) {
	a.warnings = append(a.warnings, Warning{
		Field:   a.field,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

// attrs is a folded copy of one structured object. camelCase keys are
// folded to snake_case; the snake_case key wins when both are present.
type attrs struct {
	values map[string]any
	path   string
	audit  *audit
}

func newAttrs(field spell.Field, m map[string]any) attrs {
	return foldAttrs(m, string(field), &audit{field: field})
}

func foldAttrs(m map[string]any, path string, au *audit) attrs {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make(map[string]any, len(m))
	for _, k := range keys {
		if snakeKey(k) == k {
			values[k] = m[k]
		}
	}
	for _, k := range keys {
		canonical := snakeKey(k)
		if canonical == k {
			continue
		}
		existing, ok := values[canonical]
		if !ok {
			values[canonical] = m[k]
			continue
		}
		if !reflect.DeepEqual(existing, m[k]) {
			au.warn(WarningLegacyAliasConflict, "%s: %q and %q disagree, keeping %q",
				path, canonical, k, canonical)
		}
	}
	return attrs{values: values, path: path, audit: au}
}

func (a attrs) at(key string) string {
	return a.path + "." + key
}

func (a attrs) child(key string, m map[string]any) attrs {
	return foldAttrs(m, a.at(key), a.audit)
}

func (a attrs) warnings() []Warning {
	return a.audit.warnings
}

// get returns a value, treating null as absent
func (a attrs) get(key string) (any, bool) {
	v, ok := a.values[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// text returns a trimmed string with inner whitespace collapsed
func (a attrs) text(key string) string {
	v, ok := a.get(key)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return collapseSpace(s)
	case float64, int, int64, json.Number, bool:
		return fmt.Sprint(s)
	default:
		return ""
	}
}

func (a attrs) number(key string) (float64, bool, error) {
	v, ok := a.get(key)
	if !ok {
		return 0, false, nil
	}
	f, err := toNumber(v)
	if err != nil {
		return 0, true, structuralError(a.at(key), "%v", err)
	}
	return f, true, nil
}

func (a attrs) integer(key string) (int, bool, error) {
	f, ok, err := a.number(key)
	if err != nil || !ok {
		return 0, ok, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, true, structuralError(a.at(key), "expected an integer, got %v", f)
	}
	return int(f), true, nil
}

func (a attrs) boolean(key string) (bool, bool, error) {
	v, ok := a.get(key)
	if !ok {
		return false, false, nil
	}
	switch b := v.(type) {
	case bool:
		return b, true, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "y", "1":
			return true, true, nil
		case "false", "no", "n", "0", "":
			return false, true, nil
		}
	default:
		if f, err := toNumber(v); err == nil && (f == 0 || f == 1) {
			return f == 1, true, nil
		}
	}
	return false, true, structuralError(a.at(key), "expected a boolean, got %v", v)
}

func (a attrs) obj(key string) (attrs, bool, error) {
	v, ok := a.get(key)
	if !ok {
		return attrs{}, false, nil
	}
	m, isMap := v.(map[string]any)
	if !isMap {
		return attrs{}, true, structuralError(a.at(key), "expected an object, got %T", v)
	}
	return a.child(key, m), true, nil
}

func (a attrs) list(key string) ([]any, bool, error) {
	v, ok := a.get(key)
	if !ok {
		return nil, false, nil
	}
	switch l := v.(type) {
	case []any:
		return l, true, nil
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true, nil
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true, nil
	default:
		return nil, true, structuralError(a.at(key), "expected a list, got %T", v)
	}
}

// objects returns each element of a list of objects
func (a attrs) objects(key string) ([]attrs, error) {
	items, _, err := a.list(key)
	if err != nil {
		return nil, err
	}
	out := make([]attrs, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, structuralError(fmt.Sprintf("%s[%d]", a.at(key), i), "expected an object, got %T", item)
		}
		out = append(out, foldAttrs(m, fmt.Sprintf("%s[%d]", a.at(key), i), a.audit))
	}
	return out, nil
}

// scalar reads a Scalar. A bare number is a fixed scalar.
func (a attrs) scalar(key string) (spell.Scalar, bool, error) {
	v, ok := a.get(key)
	if !ok {
		return spell.Scalar{}, false, nil
	}
	if m, isMap := v.(map[string]any); isMap {
		s, err := parseScalar(a.child(key, m))
		return s, true, err
	}
	f, err := toNumber(v)
	if err != nil {
		return spell.Scalar{}, true, structuralError(a.at(key), "expected a scalar, got %v", v)
	}
	return spell.Fixed(f), true, nil
}

// scalarOr reads a Scalar, falling back to def when absent
func (a attrs) scalarOr(key string, def spell.Scalar) (*spell.Scalar, error) {
	s, ok, err := a.scalar(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		s = def
	}
	s = s.Canonical()
	return &s, nil
}

// scalarOpt reads a Scalar that stays absent when not given
func (a attrs) scalarOpt(key string) (*spell.Scalar, error) {
	s, ok, err := a.scalar(key)
	if err != nil || !ok {
		return nil, err
	}
	s = s.Canonical()
	return &s, nil
}

var scalarModeAliases = map[string]spell.ScalarMode{
	"perlevel": spell.ScalarPerLevel,
	"level":    spell.ScalarPerLevel,
}

func parseScalar(a attrs) (spell.Scalar, error) {
	mode, hasMode, err := enumValue(a, "mode", []spell.ScalarMode{spell.ScalarFixed, spell.ScalarPerLevel}, scalarModeAliases)
	if err != nil {
		return spell.Scalar{}, err
	}
	value, hasValue, err := a.number("value")
	if err != nil {
		return spell.Scalar{}, err
	}
	perLevel, hasPerLevel, err := a.number("per_level")
	if err != nil {
		return spell.Scalar{}, err
	}
	capValue, hasCapValue, err := a.number("cap_value")
	if err != nil {
		return spell.Scalar{}, err
	}
	capLevel, hasCapLevel, err := a.integer("cap_level")
	if err != nil {
		return spell.Scalar{}, err
	}

	if !hasMode {
		mode = spell.ScalarFixed
		if hasPerLevel && !hasValue {
			mode = spell.ScalarPerLevel
		}
	}
	s := spell.Scalar{Mode: mode}
	if hasValue {
		s.Value = &value
	}
	if hasPerLevel {
		s.PerLevel = &perLevel
	}
	if hasCapValue {
		s.CapValue = &capValue
	}
	if hasCapLevel {
		s.CapLevel = &capLevel
	}
	return s.Canonical(), nil
}

// enumValue reads a string from a closed set. Tokens are compared after
// folding case, spaces and hyphens; aliases map extra spellings.
func enumValue[K ~string](a attrs, key string, allowed []K, aliases map[string]K) (K, bool, error) {
	v, ok := a.get(key)
	if !ok {
		return "", false, nil
	}
	s, isString := v.(string)
	if !isString {
		return "", true, structuralError(a.at(key), "expected a string, got %T", v)
	}
	token := enumToken(s)
	if token == "" {
		return "", false, nil
	}
	if k, found := aliases[token]; found {
		return k, true, nil
	}
	for _, k := range allowed {
		if string(k) == token {
			return k, true, nil
		}
	}
	return "", true, structuralError(a.at(key), "%q is not one of %s", s, joinEnum(allowed))
}

// enumOr reads an enum value, falling back to def when absent
func enumOr[K ~string](a attrs, key string, def K, allowed []K, aliases map[string]K) (K, error) {
	k, ok, err := enumValue(a, key, allowed, aliases)
	if err != nil {
		return "", err
	}
	if !ok {
		return def, nil
	}
	return k, nil
}

func enumToken(s string) string {
	s = strings.TrimSpace(s)
	if strings.ToUpper(s) != s {
		s = snakeKey(s)
	}
	s = strings.ToLower(s)
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

func joinEnum[K ~string](allowed []K) string {
	parts := make([]string, len(allowed))
	for i, k := range allowed {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

func toNumber(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("expected a number, got %q", n.String())
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("expected a number, got %q", n)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("expected a finite number, got %v", v)
	}
	return f, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// sortedUnique lower-cases, sorts and dedupes a list of tokens
func sortedUnique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(collapseSpace(v))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
