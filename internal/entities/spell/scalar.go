package spell

import "math"

// ScalarMode selects which number of a Scalar is active
type ScalarMode string

// Scalar modes
const (
	ScalarFixed    ScalarMode = "fixed"
	ScalarPerLevel ScalarMode = "per_level"
)

const (
	// ScalarFloor is the hard minimum for every scalar number.
	ScalarFloor = 0.0

	// DefaultAdvisoryMax is the value above which a scalar is flagged as suspicious.
	DefaultAdvisoryMax = 10000.0

	scalarPrecision = 1e6

	// values above this have no fractional noise left to round away
	scalarRoundingLimit = 1e15
)

// Scalar is a numeric value that is either a fixed constant or scales with
// caster level. Scalars are values: every operation returns a new Scalar.
//
// Only the number selected by Mode is meaningful. The other one may still be
// set by an editor that wants to switch back without losing input, but
// Canonical drops it.
type Scalar struct {
	Mode     ScalarMode `json:"mode"`
	Value    *float64   `json:"value,omitempty"`
	PerLevel *float64   `json:"per_level,omitempty"`
	CapValue *float64   `json:"cap_value,omitempty"`
	CapLevel *int       `json:"cap_level,omitempty"`
}

// Fixed returns a fixed scalar clamped to the floor.
func Fixed(value float64) Scalar {
	v := ClampScalar(value)
	return Scalar{Mode: ScalarFixed, Value: &v}
}

// PerLevel returns a per-level scalar clamped to the floor.
func PerLevel(perLevel float64) Scalar {
	v := ClampScalar(perLevel)
	return Scalar{Mode: ScalarPerLevel, PerLevel: &v}
}

// ClampScalar applies the hard floor and rounds away float noise so equal
// inputs always serialize identically.
func ClampScalar(v float64) float64 {
	if math.IsNaN(v) || v < ScalarFloor {
		return ScalarFloor
	}
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	if v > scalarRoundingLimit {
		return v
	}
	return math.Round(v*scalarPrecision) / scalarPrecision
}

// IsFixed reports whether the scalar is a constant. The zero Scalar is fixed.
func (s Scalar) IsFixed() bool {
	return s.Mode != ScalarPerLevel
}

// IsPerLevel reports whether the scalar scales with level.
func (s Scalar) IsPerLevel() bool {
	return s.Mode == ScalarPerLevel
}

// EffectiveValue returns the active number for the scalar's mode.
func (s Scalar) EffectiveValue() float64 {
	if s.IsPerLevel() {
		return deref(s.PerLevel)
	}
	return deref(s.Value)
}

// EffectiveValueAt resolves the scalar for a caster level, honoring the cap
// level and cap value when present.
func (s Scalar) EffectiveValueAt(level int) float64 {
	if s.IsFixed() {
		return deref(s.Value)
	}
	if level < 0 {
		level = 0
	}
	if s.CapLevel != nil && level > *s.CapLevel {
		level = *s.CapLevel
	}
	v := deref(s.PerLevel) * float64(level)
	if s.CapValue != nil && v > *s.CapValue {
		v = *s.CapValue
	}
	return v
}

// WithMode returns a copy of the scalar in the new mode. The number carried
// into the new mode is the previous number of that mode when one exists,
// otherwise the number of the old mode.
func (s Scalar) WithMode(mode ScalarMode) Scalar {
	out := s.clone()
	switch mode {
	case ScalarPerLevel:
		out.Mode = ScalarPerLevel
		if out.PerLevel == nil {
			out.PerLevel = copyFloat(s.Value)
		}
		if out.PerLevel == nil {
			out.PerLevel = floatPtr(ScalarFloor)
		}
	default:
		out.Mode = ScalarFixed
		if out.Value == nil {
			out.Value = copyFloat(s.PerLevel)
		}
		if out.Value == nil {
			out.Value = floatPtr(ScalarFloor)
		}
	}
	return out
}

// Canonical drops the inactive number and the per-level caps of a fixed
// scalar, fills a missing active number with the floor and clamps every
// number that remains.
func (s Scalar) Canonical() Scalar {
	if s.IsPerLevel() {
		out := Scalar{Mode: ScalarPerLevel, PerLevel: floatPtr(ClampScalar(deref(s.PerLevel)))}
		if s.CapValue != nil {
			out.CapValue = floatPtr(ClampScalar(*s.CapValue))
		}
		if s.CapLevel != nil {
			capLevel := *s.CapLevel
			if capLevel < 0 {
				capLevel = 0
			}
			out.CapLevel = &capLevel
		}
		return out
	}
	return Scalar{Mode: ScalarFixed, Value: floatPtr(ClampScalar(deref(s.Value)))}
}

// AboveAdvisory reports whether any active number exceeds the advisory max.
func (s Scalar) AboveAdvisory(advisoryMax float64) bool {
	if advisoryMax <= 0 {
		return false
	}
	if s.EffectiveValue() > advisoryMax {
		return true
	}
	return s.IsPerLevel() && s.CapValue != nil && *s.CapValue > advisoryMax
}

func (s Scalar) clone() Scalar {
	out := Scalar{
		Mode:     s.Mode,
		Value:    copyFloat(s.Value),
		PerLevel: copyFloat(s.PerLevel),
		CapValue: copyFloat(s.CapValue),
	}
	if s.CapLevel != nil {
		capLevel := *s.CapLevel
		out.CapLevel = &capLevel
	}
	return out
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func floatPtr(v float64) *float64 {
	return &v
}
