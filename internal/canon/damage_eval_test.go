package canon_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-spellcanon/internal/canon"
	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
)

type DamageEvalTestSuite struct {
	suite.Suite
}

func TestDamageEvalSuite(t *testing.T) {
	suite.Run(t, new(DamageEvalTestSuite))
}

func (s *DamageEvalTestSuite) part(input map[string]any) spell.DamagePart {
	d, err := canon.NormalizeDamage(map[string]any{"kind": "modeled", "parts": []any{input}})
	s.Require().NoError(err)
	s.Require().Len(d.Parts, 1)
	return d.Parts[0]
}

func (s *DamageEvalTestSuite) TestAddDicePerStep() {
	part := s.part(map[string]any{
		"id":   "blast",
		"base": "1d6",
		"scaling": []any{map[string]any{
			"kind":           "add_dice_per_step",
			"driver":         "caster_level",
			"max_steps":      9,
			"dice_increment": map[string]any{"count": 1, "sides": 6},
		}},
	})

	testCases := []struct {
		level    int
		expected string
	}{
		{level: 0, expected: "1d6"},
		{level: 5, expected: "6d6"},
		{level: 9, expected: "10d6"},
		{level: 15, expected: "10d6"},
	}
	for _, tc := range testCases {
		pool, warnings := canon.ResolvePart(part, canon.DriverValues{spell.DriverCasterLevel: tc.level})
		s.Assert().Empty(warnings)
		s.Assert().Equal(tc.expected, pool.String(), "level %d", tc.level)
	}
}

func (s *DamageEvalTestSuite) TestStepAndFlat() {
	part := s.part(map[string]any{
		"id":   "missile",
		"base": "1d4+1",
		"scaling": []any{
			map[string]any{"kind": "add_flat_per_step", "step": 2, "flat_increment": 1},
			map[string]any{"kind": "add_dice_per_step", "step": 2, "dice_increment": map[string]any{"count": 1, "sides": 8}},
		},
	})
	pool, _ := canon.ResolvePart(part, canon.DriverValues{spell.DriverCasterLevel: 5})
	s.Assert().Equal("1d4+2d8+3", pool.String())
}

func (s *DamageEvalTestSuite) TestMissingDriverSkipsRule() {
	part := s.part(map[string]any{
		"id":   "p",
		"base": "2d4",
		"scaling": []any{map[string]any{
			"kind":           "add_dice_per_step",
			"driver":         "target_hd",
			"dice_increment": map[string]any{"count": 1, "sides": 4},
		}},
	})
	pool, _ := canon.ResolvePart(part, canon.DriverValues{spell.DriverCasterLevel: 10})
	s.Assert().Equal("2d4", pool.String())
}

func (s *DamageEvalTestSuite) TestLevelBands() {
	part := s.part(map[string]any{
		"id":   "p",
		"base": "1d4",
		"scaling": []any{map[string]any{
			"kind": "set_base_by_level_band",
			"level_bands": []any{
				map[string]any{"min": 1, "max": 4, "base": "1d6"},
				map[string]any{"min": 5, "max": 10, "base": "2d6"},
			},
		}},
	})

	pool, warnings := canon.ResolvePart(part, canon.DriverValues{spell.DriverCasterLevel: 7})
	s.Assert().Empty(warnings)
	s.Assert().Equal("2d6", pool.String())

	pool, _ = canon.ResolvePart(part, canon.DriverValues{spell.DriverCasterLevel: 12})
	s.Assert().Equal("1d4", pool.String())
}

func (s *DamageEvalTestSuite) TestOverlappingBandsFirstListedWins() {
	part := s.part(map[string]any{
		"id": "p",
		"scaling": []any{map[string]any{
			"kind": "set_base_by_level_band",
			"level_bands": []any{
				map[string]any{"min": 5, "max": 10, "base": "3d6"},
				map[string]any{"min": 1, "max": 6, "base": "1d6"},
			},
		}},
	})

	pool, warnings := canon.ResolvePart(part, canon.DriverValues{spell.DriverCasterLevel: 6})
	s.Assert().Equal("3d6", pool.String())
	s.Require().Len(warnings, 1)
	s.Assert().Equal(canon.WarningOverlappingLevelBands, warnings[0].Code)
}

func (s *DamageEvalTestSuite) TestDoesNotMutatePart() {
	part := s.part(map[string]any{
		"id":   "p",
		"base": "1d6",
		"scaling": []any{map[string]any{
			"kind":           "add_dice_per_step",
			"dice_increment": map[string]any{"count": 1, "sides": 6},
		}},
	})
	_, _ = canon.ResolvePart(part, canon.DriverValues{spell.DriverCasterLevel: 4})
	s.Assert().Equal("1d6", part.Base.String())
}

func (s *DamageEvalTestSuite) TestScaledCountSaturates() {
	part := s.part(map[string]any{
		"id":   "huge",
		"base": "1d6+1",
		"scaling": []any{
			map[string]any{"kind": "add_dice_per_step", "dice_increment": map[string]any{"count": 2147483647, "sides": 6}},
			map[string]any{"kind": "add_flat_per_step", "flat_increment": -2147483647},
		},
	})

	pool, warnings := canon.ResolvePart(part, canon.DriverValues{spell.DriverCasterLevel: 1 << 40})
	s.Require().Len(pool.Terms, 1)
	s.Assert().Equal(spell.MaxDiceCount, pool.Terms[0].Count)
	s.Assert().Equal(1-spell.MaxDiceCount, pool.FlatModifier)

	s.Require().Len(warnings, 2)
	for _, w := range warnings {
		s.Assert().Equal(canon.WarningDiceCountCapped, w.Code)
	}
}
