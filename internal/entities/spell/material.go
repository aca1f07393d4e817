package spell

// DefaultMaterialQuantity is the quantity a material has when none is given
const DefaultMaterialQuantity = 1.0

// MaterialComponent is one material a spell requires. The defaults, a
// quantity of one and not consumed, are stored as absent so that spelling
// them out does not change the hash.
type MaterialComponent struct {
	Name        string   `json:"name"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	GPValue     *float64 `json:"gp_value,omitempty"`
	IsConsumed  bool     `json:"is_consumed,omitempty"`
	Description string   `json:"description,omitempty"`
}

// EffectiveQuantity returns the quantity, defaulting to one
func (m MaterialComponent) EffectiveQuantity() float64 {
	if m.Quantity == nil {
		return DefaultMaterialQuantity
	}
	return *m.Quantity
}

// Materials is a spell's material list in source order
type Materials []MaterialComponent

// Field implements FieldValue
func (Materials) Field() Field { return FieldMaterialComponents }

// LegacyText implements FieldValue. Legacy material text lives in the
// record metadata, never on the list.
func (Materials) LegacyText() string { return "" }

// TotalGPValue sums quantity times value over the priced materials
func (m Materials) TotalGPValue() float64 {
	var total float64
	for _, item := range m {
		if item.GPValue != nil {
			total += item.EffectiveQuantity() * *item.GPValue
		}
	}
	return total
}
