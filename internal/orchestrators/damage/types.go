package damage

import (
	"github.com/KirkDiggler/rpg-spellcanon/internal/canon"
	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
)

// RollInput defines the request for rolling a spell's damage
type RollInput struct {
	Damage  *spell.Damage
	Drivers canon.DriverValues
	// ChosenPartID selects the part to roll for choose_one damage
	ChosenPartID string
}

// TermRoll is the dice rolled for one term of a pool
type TermRoll struct {
	Term  spell.DiceTerm
	Rolls []int
}

// PartRoll is the rolled result for one damage part
type PartRoll struct {
	PartID     string
	DamageType spell.DamageType
	// Pool is the part's base after scaling for the given drivers
	Pool  spell.DicePool
	Terms []TermRoll
	// Raw is the unclamped total, Total the clamped one
	Raw   int
	Total int
}

// RollOutput defines the response for rolling damage
type RollOutput struct {
	CombineMode spell.CombineMode
	Parts       []*PartRoll
	// Total is the combined result: the sum for sum and sequence, the
	// highest part for max and the chosen part for choose_one
	Total int
	// Sequence holds per-part totals in part order for sequence damage
	Sequence []int
	Warnings []canon.Warning
}
