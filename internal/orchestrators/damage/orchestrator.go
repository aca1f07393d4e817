// Package damage rolls modeled spell damage
package damage

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-spellcanon/internal/canon"
	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
)

// Service defines the interface for damage rolling
type Service interface {
	// Roll resolves scaling for each part, rolls it, clamps each part total
	// and combines the totals by the damage's combine mode
	Roll(ctx context.Context, input *RollInput) (*RollOutput, error)
}

// DefaultMaxDice bounds the dice thrown by one Roll call
const DefaultMaxDice = 1000

// Config holds the dependencies for the damage orchestrator
type Config struct {
	// Roller defaults to dice.DefaultRoller
	Roller dice.Roller
	// MaxDice defaults to DefaultMaxDice
	MaxDice int
}

type orchestrator struct {
	roller  dice.Roller
	maxDice int
}

// NewOrchestrator creates a new damage orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.DefaultRoller
	}

	maxDice := cfg.MaxDice
	if maxDice < 0 {
		return nil, errors.InvalidArgumentf("max dice must not be negative, got %d", maxDice)
	}
	if maxDice == 0 {
		maxDice = DefaultMaxDice
	}

	return &orchestrator{roller: roller, maxDice: maxDice}, nil
}

func (o *orchestrator) Roll(ctx context.Context, input *RollInput) (*RollOutput, error) {
	if input == nil || input.Damage == nil {
		return nil, errors.InvalidArgument("damage is required")
	}
	d := input.Damage
	if d.Kind != spell.DamageKindModeled {
		return nil, errors.FailedPreconditionf("damage of kind %s cannot be rolled", d.Kind)
	}
	if len(d.Parts) == 0 {
		return nil, errors.FailedPrecondition("modeled damage has no parts")
	}

	mode := d.CombineMode
	if mode == "" {
		mode = spell.CombineSum
	}

	parts := d.Parts
	if mode == spell.CombineChooseOne {
		part, err := choosePart(d.Parts, input.ChosenPartID)
		if err != nil {
			return nil, err
		}
		parts = []spell.DamagePart{part}
	}

	output := &RollOutput{CombineMode: mode}
	diceLeft := o.maxDice
	for _, part := range parts {
		rolled, warnings, err := o.rollPart(part, input.Drivers, &diceLeft)
		if err != nil {
			return nil, err
		}
		output.Parts = append(output.Parts, rolled)
		output.Warnings = append(output.Warnings, warnings...)
	}

	switch mode {
	case spell.CombineMax:
		output.Total = output.Parts[0].Total
		for _, p := range output.Parts[1:] {
			output.Total = max(output.Total, p.Total)
		}
	case spell.CombineSequence:
		for _, p := range output.Parts {
			output.Sequence = append(output.Sequence, p.Total)
			output.Total += p.Total
		}
	default:
		for _, p := range output.Parts {
			output.Total += p.Total
		}
	}

	slog.DebugContext(ctx, "rolled spell damage",
		"combine_mode", mode,
		"parts", len(output.Parts),
		"total", output.Total)

	return output, nil
}

func choosePart(parts []spell.DamagePart, id string) (spell.DamagePart, error) {
	if id == "" {
		return spell.DamagePart{}, errors.InvalidArgument("choose_one damage requires a chosen part id").
			WithMeta("part_ids", spell.Damage{Parts: parts}.PartIDs())
	}
	for _, p := range parts {
		if p.ID == id {
			return p, nil
		}
	}
	return spell.DamagePart{}, errors.InvalidArgumentf("unknown damage part %s", id)
}

func (o *orchestrator) rollPart(
	part spell.DamagePart,
	drivers canon.DriverValues,
	diceLeft *int,
) (*PartRoll, []canon.Warning, error) {
	pool, warnings := canon.ResolvePart(part, drivers)

	rolled := &PartRoll{
		PartID:     part.ID,
		DamageType: part.DamageType,
		Pool:       pool,
		Raw:        pool.FlatModifier,
	}
	for _, term := range pool.Terms {
		if term.Count <= 0 {
			continue
		}
		if term.Count > *diceLeft {
			return nil, nil, errors.InvalidArgumentf("part %s needs %s, more than the %d dice allowed per roll",
				part.ID, term, o.maxDice).
				WithMeta("max_dice", o.maxDice)
		}
		*diceLeft -= term.Count
		rolls, err := o.roller.RollN(term.Count, term.Sides)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to roll %s for part %s", term, part.ID)
		}
		for _, r := range rolls {
			rolled.Raw += r + term.PerDieModifier
		}
		rolled.Terms = append(rolled.Terms, TermRoll{Term: term, Rolls: rolls})
	}

	rolled.Total = rolled.Raw
	if part.Clamp != nil {
		rolled.Total = part.Clamp.Apply(rolled.Raw)
	}

	return rolled, warnings, nil
}
