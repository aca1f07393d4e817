package canon

import (
	"fmt"

	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
)

// DriverValues holds the current value of each scaling driver, e.g. the
// caster level. Rules whose driver has no value are skipped.
type DriverValues map[spell.ScalingDriver]int

// ResolvePart applies a part's scaling rules to its base pool. Level bands
// replace the base first, with the first matching band in list order
// winning; dice and flat increments are added after. The clamp is not
// applied here because it bounds the rolled total.
func ResolvePart(part spell.DamagePart, drivers DriverValues) (spell.DicePool, []Warning) {
	pool := clonePool(part.Base)
	var warnings []Warning

	for _, rule := range part.Scaling {
		if rule.Kind != spell.ScalingSetBaseByLevelBand {
			continue
		}
		for i := range rule.LevelBands {
			for j := i + 1; j < len(rule.LevelBands); j++ {
				if rule.LevelBands[i].Overlaps(rule.LevelBands[j]) {
					warnings = append(warnings, Warning{
						Field:   spell.FieldDamage,
						Code:    WarningOverlappingLevelBands,
						Message: "part " + part.ID + " has overlapping level bands, the first listed wins",
					})
				}
			}
		}
		value, ok := drivers[rule.Driver]
		if !ok {
			continue
		}
		for _, band := range rule.LevelBands {
			if band.Contains(value) {
				pool = clonePool(band.Base)
				break
			}
		}
	}

	for _, rule := range part.Scaling {
		value, ok := drivers[rule.Driver]
		if !ok {
			continue
		}
		steps := scalingSteps(rule, value)
		if steps == 0 {
			continue
		}
		capped := false
		switch rule.Kind {
		case spell.ScalingAddDicePerStep:
			if rule.DiceIncrement != nil {
				count, c := boundedProduct(rule.DiceIncrement.Count, steps)
				capped = addDice(&pool, spell.DiceTerm{
					Count:          count,
					Sides:          rule.DiceIncrement.Sides,
					PerDieModifier: rule.DiceIncrement.PerDieModifier,
				}) || c
			}
		case spell.ScalingAddFlatPerStep:
			if rule.FlatIncrement != nil {
				flat, c := boundedProduct(*rule.FlatIncrement, steps)
				pool.FlatModifier, capped = boundedSum(pool.FlatModifier, flat)
				capped = capped || c
			}
		}
		if capped {
			warnings = append(warnings, Warning{
				Field:   spell.FieldDamage,
				Code:    WarningDiceCountCapped,
				Message: fmt.Sprintf("part %s scaling was capped at %d", part.ID, spell.MaxDiceCount),
			})
		}
	}
	return pool, warnings
}

// boundedProduct multiplies a by a non-negative step count, saturating at
// MaxDiceCount in either direction.
func boundedProduct(a, steps int) (int, bool) {
	if a == 0 || steps == 0 {
		return 0, false
	}
	limit := spell.MaxDiceCount / steps
	switch {
	case a > limit:
		return spell.MaxDiceCount, true
	case a < -limit:
		return -spell.MaxDiceCount, true
	}
	return a * steps, false
}

// boundedSum adds two values already within MaxDiceCount, saturating the result
func boundedSum(a, b int) (int, bool) {
	sum := a + b
	switch {
	case sum > spell.MaxDiceCount:
		return spell.MaxDiceCount, true
	case sum < -spell.MaxDiceCount:
		return -spell.MaxDiceCount, true
	}
	return sum, false
}

func scalingSteps(rule spell.ScalingRule, value int) int {
	step := rule.Step
	if step < 1 {
		step = 1
	}
	if value < 0 {
		return 0
	}
	steps := value / step
	if rule.MaxSteps != nil && steps > *rule.MaxSteps {
		steps = *rule.MaxSteps
	}
	return steps
}

// addDice merges a term into the pool, joining terms of the same die. It
// reports whether the joined count had to be capped.
func addDice(pool *spell.DicePool, term spell.DiceTerm) bool {
	for i, t := range pool.Terms {
		if t.Sides == term.Sides && t.PerDieModifier == term.PerDieModifier {
			count, capped := boundedSum(t.Count, term.Count)
			pool.Terms[i].Count = count
			return capped
		}
	}
	pool.Terms = append(pool.Terms, term)
	return false
}

func clonePool(p spell.DicePool) spell.DicePool {
	out := spell.DicePool{FlatModifier: p.FlatModifier}
	if len(p.Terms) > 0 {
		out.Terms = append([]spell.DiceTerm(nil), p.Terms...)
	}
	return out
}
