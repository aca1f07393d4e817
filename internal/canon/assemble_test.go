package canon_test

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-spellcanon/internal/canon"
	canonmock "github.com/KirkDiggler/rpg-spellcanon/internal/canon/mock"
	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
)

type AssembleTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockParser *canonmock.MockLegacyParser
}

func TestAssembleSuite(t *testing.T) {
	suite.Run(t, new(AssembleTestSuite))
}

func (s *AssembleTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockParser = canonmock.NewMockLegacyParser(s.ctrl)
}

func (s *AssembleTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func fireball() canon.RawRecord {
	return canon.RawRecord{
		"name":        "Fireball",
		"level":       3,
		"school":      "Evocation",
		"class_list":  []any{"Wizard", "sorcerer"},
		"description": "  A bright streak flashes from your pointing finger.\r\n",
		"range_spec": map[string]any{
			"kind":     "distance",
			"distance": map[string]any{"mode": "per_level", "per_level": 10, "value": 100},
			"unit":     "yards",
		},
		"duration":     "Instantaneous",
		"casting_time": map[string]any{"unit": "segment", "base_value": 3},
		"area_spec":    map[string]any{"kind": "radius_sphere", "radius": 20},
		"damage_spec": map[string]any{
			"kind": "modeled",
			"parts": []any{map[string]any{
				"id":          "blast",
				"damage_type": "fire",
				"base":        "1d6",
				"save":        map[string]any{"kind": "half"},
				"scaling": []any{map[string]any{
					"kind":           "add_dice_per_step",
					"max_steps":      9,
					"dice_increment": map[string]any{"count": 1, "sides": 6},
				}},
			}},
		},
		"saving_throw": "1/2",
		"components":   "V, S, M (a ball of bat guano and sulfur)",
		"source":       "PHB",
	}
}

func (s *AssembleTestSuite) TestAssemblesStructuredAndLegacyFields() {
	result, err := canon.Assemble(fireball())
	s.Require().NoError(err)
	s.Require().NotNil(result)

	sp := result.Spell
	s.Assert().Equal(spell.SchemaVersion, sp.SchemaVersion)
	s.Assert().Equal("Fireball", sp.Name)
	s.Assert().Equal(3, sp.Level)
	s.Assert().Equal(spell.TraditionArcane, sp.Tradition)
	s.Assert().Equal("Evocation", sp.School)
	s.Assert().Empty(sp.Sphere)
	s.Assert().Equal([]string{"sorcerer", "wizard"}, sp.ClassList)
	s.Assert().Equal("A bright streak flashes from your pointing finger.", sp.Description)

	s.Require().NotNil(sp.Range)
	s.Assert().Equal("10/yd/level", canon.RangeToText(*sp.Range))
	s.Require().NotNil(sp.Area)
	s.Assert().Equal("20 ft radius sphere", canon.AreaToText(*sp.Area))
	s.Require().NotNil(sp.Damage)
	s.Assert().Equal([]string{"blast"}, sp.Damage.PartIDs())

	s.Require().NotNil(sp.Duration)
	s.Assert().Equal(spell.DurationKindSpecial, sp.Duration.Kind)
	s.Assert().Equal("Instantaneous", canon.DurationToText(*sp.Duration))
	s.Require().NotNil(sp.Components)
	s.Assert().Equal("V, S, M (a ball of bat guano and sulfur)", canon.ComponentsToText(*sp.Components))
	s.Assert().True(sp.Components.Material)
	s.Assert().Nil(sp.MagicResistance)

	s.Assert().Equal(map[spell.Field]canon.Source{
		spell.FieldRange:           canon.SourceStructured,
		spell.FieldDuration:        canon.SourceLegacy,
		spell.FieldCastingTime:     canon.SourceStructured,
		spell.FieldArea:            canon.SourceStructured,
		spell.FieldDamage:          canon.SourceStructured,
		spell.FieldSavingThrow:     canon.SourceLegacy,
		spell.FieldMagicResistance: canon.SourceAbsent,
		spell.FieldComponents:      canon.SourceLegacy,
	}, result.Sources)

	s.Assert().Equal("PHB", result.Metadata.Source)
	s.Assert().Equal("Instantaneous", result.Metadata.LegacyText[spell.FieldDuration])
	s.Assert().Empty(result.Warnings)
	s.Assert().Empty(result.FieldIssues)
	s.Assert().Len(result.Hash, 64)
}

func (s *AssembleTestSuite) TestNonFiniteScalarIsAFieldIssue() {
	result, err := canon.Assemble(canon.RawRecord{
		"name":   "Big",
		"level":  1,
		"school": "Evocation",
		"range_spec": map[string]any{
			"kind":     "distance",
			"distance": map[string]any{"mode": "fixed", "value": "Inf"},
		},
	})
	s.Require().NoError(err)
	s.Require().NotNil(result)
	s.Assert().Nil(result.Spell.Range)
	s.Assert().Equal(canon.SourceAbsent, result.Sources[spell.FieldRange])
	s.Require().Len(result.FieldIssues, 1)
	s.Assert().Equal(spell.FieldRange, result.FieldIssues[0].Field)
	s.Assert().Len(result.Hash, 64)
}

func (s *AssembleTestSuite) TestHugeScalarIsOnlyAdvisory() {
	record := canon.RawRecord{
		"name":   "Big",
		"level":  1,
		"school": "Evocation",
		"range_spec": map[string]any{
			"kind":     "distance",
			"distance": map[string]any{"mode": "fixed", "value": 1e303},
		},
	}
	result, err := canon.Assemble(record)
	s.Require().NoError(err)
	s.Require().NotNil(result.Spell.Range)
	s.Assert().Equal(1e303, result.Spell.Range.Distance.EffectiveValue())
	s.Assert().Empty(result.FieldIssues)

	codes := make([]canon.WarningCode, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		codes = append(codes, w.Code)
	}
	s.Assert().Contains(codes, canon.WarningScalarAboveAdvisoryMax)

	again, err := canon.Assemble(record)
	s.Require().NoError(err)
	s.Assert().Equal(result.Hash, again.Hash)
}

func (s *AssembleTestSuite) TestConcurrentAssembleOfSharedRecord() {
	record := fireball()
	expected, err := canon.Assemble(fireball())
	s.Require().NoError(err)

	const workers = 32
	hashes := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := canon.Assemble(record)
			if err != nil {
				errs[i] = err
				return
			}
			hashes[i] = result.Hash
		}()
	}
	wg.Wait()

	for i := range workers {
		s.Require().NoError(errs[i])
		s.Assert().Equal(expected.Hash, hashes[i])
	}
	s.Assert().Equal(fireball(), record)
}

func (s *AssembleTestSuite) TestHashIsStable() {
	first, err := canon.Assemble(fireball())
	s.Require().NoError(err)
	second, err := canon.Assemble(fireball())
	s.Require().NoError(err)
	s.Assert().Equal(first.Hash, second.Hash)
	s.Assert().Equal(first.CanonicalJSON, second.CanonicalJSON)
	s.Assert().Equal(canon.Hash(first.CanonicalJSON), first.Hash)
}

func (s *AssembleTestSuite) TestReassemblingCanonicalOutputIsStable() {
	first, err := canon.Assemble(fireball())
	s.Require().NoError(err)

	var record canon.RawRecord
	s.Require().NoError(json.Unmarshal(first.CanonicalJSON, &record))

	second, err := canon.Assemble(record)
	s.Require().NoError(err)
	s.Assert().Equal(string(first.CanonicalJSON), string(second.CanonicalJSON))
	s.Assert().Equal(first.Hash, second.Hash)
}

func wish() canon.RawRecord {
	return canon.RawRecord{
		"name":        "Wish",
		"level":       9,
		"school":      "Conjuration",
		"subschools":  []any{"Summoning", "  creation "},
		"descriptors": "Fire, evil, fire",
		"components_spec": map[string]any{
			"verbal": true,
		},
		"material_components_spec": []any{
			map[string]any{"name": "Diamond", "gp_value": 5000, "is_consumed": true},
		},
		"experience_cost": map[string]any{
			"kind":        "fixed",
			"amount_xp":   5000,
			"source_text": "  5,000 XP  ",
		},
		"source_refs": []any{
			map[string]any{"book": "Player's Handbook", "page": 302},
		},
	}
}

func (s *AssembleTestSuite) hashOf(record canon.RawRecord) string {
	result, err := canon.Assemble(record)
	s.Require().NoError(err)
	return result.Hash
}

func (s *AssembleTestSuite) TestMaterialAndExperienceComponents() {
	result, err := canon.Assemble(wish())
	s.Require().NoError(err)
	s.Require().Empty(result.FieldIssues)

	sp := result.Spell
	s.Assert().Equal([]string{"creation", "summoning"}, sp.Subschools)
	s.Assert().Equal([]string{"evil", "fire"}, sp.Descriptors)
	s.Require().Len(sp.MaterialComponents, 1)
	s.Assert().Equal("Diamond (5000 gp, consumed)", canon.MaterialsToText(sp.MaterialComponents))
	s.Require().NotNil(sp.ExperienceCost)
	s.Assert().Equal("5000 XP", canon.ExperienceToText(*sp.ExperienceCost))

	s.Require().NotNil(sp.Components)
	s.Assert().Equal("V, M, XP", canon.ComponentsToText(*sp.Components))

	s.Assert().Equal([]spell.SourceRef{{Book: "Player's Handbook", Page: "302"}}, result.Metadata.SourceRefs)
	s.Assert().Equal("5,000 XP", result.Metadata.LegacyText[spell.FieldExperienceCost])

	canonical := string(result.CanonicalJSON)
	s.Assert().Contains(canonical, `"material_components":[{"gp_value":5000,"is_consumed":true,"name":"Diamond"}]`)
	s.Assert().Contains(canonical, `"experience_cost":{`)
	s.Assert().NotContains(canonical, "source_refs")
	s.Assert().NotContains(canonical, "5,000 XP")

	var record canon.RawRecord
	s.Require().NoError(json.Unmarshal(result.CanonicalJSON, &record))
	again, err := canon.Assemble(record)
	s.Require().NoError(err)
	s.Assert().Equal(canonical, string(again.CanonicalJSON))
}

func (s *AssembleTestSuite) TestLeanMaterialDefaultsHashAlike() {
	base := func() canon.RawRecord {
		return canon.RawRecord{"name": "Stinking Cloud", "level": 2, "school": "Evocation"}
	}
	explicit := base()
	explicit["material_components_spec"] = []any{
		map[string]any{"name": "rotten  egg", "quantity": 1, "is_consumed": false},
	}
	bare := base()
	bare["material_components"] = []any{"rotten egg"}
	s.Assert().Equal(s.hashOf(explicit), s.hashOf(bare))

	consumed := base()
	consumed["material_components"] = []any{map[string]any{"name": "rotten egg", "is_consumed": true}}
	s.Assert().NotEqual(s.hashOf(bare), s.hashOf(consumed))

	legacy := base()
	legacy["material_components"] = "a rotten egg"
	result, err := canon.Assemble(legacy)
	s.Require().NoError(err)
	s.Assert().Nil(result.Spell.MaterialComponents)
	s.Assert().Equal("a rotten egg", result.Metadata.LegacyText[spell.FieldMaterialComponents])
	s.Assert().Equal(s.hashOf(base()), result.Hash)
}

func (s *AssembleTestSuite) TestDefaultExperienceHashesLikeAbsent() {
	without := wish()
	delete(without, "experience_cost")
	withDefault := wish()
	withDefault["experience_cost"] = map[string]any{"kind": "NONE", "payer": "Caster", "can_reduce_level": true}

	result, err := canon.Assemble(withDefault)
	s.Require().NoError(err)
	s.Assert().Nil(result.Spell.ExperienceCost)
	s.Assert().False(result.Spell.Components.Experience)
	s.Assert().Equal(s.hashOf(without), result.Hash)

	changed := wish()
	changed["experience_cost"] = map[string]any{"kind": "fixed", "amount_xp": 4000}
	s.Assert().NotEqual(s.hashOf(wish()), s.hashOf(changed))
}

func (s *AssembleTestSuite) TestSourceRefsAreNotHashed() {
	other := wish()
	other["source_refs"] = []any{
		map[string]any{"system": "3e", "book": "SRD", "page": "xii", "note": "reprint"},
		map[string]any{"page": 12},
	}

	result, err := canon.Assemble(other)
	s.Require().NoError(err)
	s.Assert().Equal(s.hashOf(wish()), result.Hash)
	s.Assert().Equal([]spell.SourceRef{{System: "3e", Book: "SRD", Page: "xii", Note: "reprint"}}, result.Metadata.SourceRefs)
	s.Require().Len(result.FieldIssues, 1)
	s.Assert().Equal(spell.FieldSourceRefs, result.FieldIssues[0].Field)
	s.Assert().Contains(result.FieldIssues[0].Message, "source_refs[1]: book is required")
}

func (s *AssembleTestSuite) TestRejectedComponentSpecsAreIssues() {
	record := wish()
	record["material_components_spec"] = []any{map[string]any{"name": "Diamond", "carats": 3}}
	record["experience_cost"] = map[string]any{"kind": "fixed"}

	result, err := canon.Assemble(record)
	s.Require().NoError(err)
	s.Assert().Nil(result.Spell.MaterialComponents)
	s.Assert().Nil(result.Spell.ExperienceCost)
	s.Assert().Equal("V", canon.ComponentsToText(*result.Spell.Components))

	issues := map[spell.Field]canon.FieldIssue{}
	for _, issue := range result.FieldIssues {
		issues[issue.Field] = issue
	}
	s.Require().Len(issues, 2)
	s.Assert().Equal("material_components_spec", issues[spell.FieldMaterialComponents].Key)
	s.Assert().Contains(issues[spell.FieldMaterialComponents].Message, "carats")
	s.Assert().Equal("experience_cost", issues[spell.FieldExperienceCost].Key)
	s.Assert().Contains(issues[spell.FieldExperienceCost].Message, "amount_xp")
}

func (s *AssembleTestSuite) TestDoesNotMutateInput() {
	record := fireball()
	record["sphere"] = nil
	before := fmt.Sprintf("%v", record)

	_, err := canon.Assemble(record)
	s.Require().NoError(err)
	s.Assert().Equal(before, fmt.Sprintf("%v", record))
}

func (s *AssembleTestSuite) TestConflictingTraditionFields() {
	result, err := canon.Assemble(canon.RawRecord{
		"name":   "Detect Magic",
		"level":  1,
		"school": "Divination",
		"sphere": "Divination",
	})
	s.Assert().Nil(result)
	s.Require().Error(err)
	s.Assert().True(canon.IsConflictingTraditionFields(err))
	s.Assert().Contains(err.Error(), "Detect Magic")
	s.Assert().True(errors.IsInvalidArgument(err))

	ae, ok := canon.AsAssemblyError(err)
	s.Require().True(ok)
	s.Assert().Equal("Detect Magic", ae.SpellName)
	s.Assert().Equal("Detect Magic", errors.GetMeta(err)["spell_name"])
}

func (s *AssembleTestSuite) TestNullAndAbsentOppositeFieldHashTheSame() {
	base := canon.RawRecord{"name": "Bless", "level": 1, "sphere": "All"}
	withNull := canon.RawRecord{"name": "Bless", "level": 1, "sphere": "All", "school": nil}
	withBlank := canon.RawRecord{"name": "Bless", "level": 1, "sphere": "All", "school": "  "}

	a, err := canon.Assemble(base)
	s.Require().NoError(err)
	b, err := canon.Assemble(withNull)
	s.Require().NoError(err)
	c, err := canon.Assemble(withBlank)
	s.Require().NoError(err)

	s.Assert().Equal(spell.TraditionDivine, a.Spell.Tradition)
	s.Assert().Equal("All", a.Spell.Sphere)
	s.Assert().Equal(a.Hash, b.Hash)
	s.Assert().Equal(a.Hash, c.Hash)
}

func (s *AssembleTestSuite) TestMissingTraditionField() {
	result, err := canon.Assemble(canon.RawRecord{"name": "Mystery", "level": 1, "school": nil})
	s.Assert().Nil(result)
	s.Assert().True(canon.IsMissingTraditionField(err))
	s.Assert().False(canon.IsConflictingTraditionFields(err))
}

func (s *AssembleTestSuite) TestInvalidIdentityField() {
	testCases := []struct {
		name   string
		record canon.RawRecord
	}{
		{name: "missing name", record: canon.RawRecord{"level": 1, "school": "Abjuration"}},
		{name: "blank name", record: canon.RawRecord{"name": "   ", "level": 1, "school": "Abjuration"}},
		{name: "missing level", record: canon.RawRecord{"name": "Shield", "school": "Abjuration"}},
		{name: "level too high", record: canon.RawRecord{"name": "Shield", "level": 13, "school": "Abjuration"}},
		{name: "negative level", record: canon.RawRecord{"name": "Shield", "level": -1, "school": "Abjuration"}},
		{name: "fractional level", record: canon.RawRecord{"name": "Shield", "level": 1.5, "school": "Abjuration"}},
		{name: "non numeric level", record: canon.RawRecord{"name": "Shield", "level": "first", "school": "Abjuration"}},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			result, err := canon.Assemble(tc.record)
			s.Assert().Nil(result)
			s.Assert().True(canon.IsInvalidIdentityField(err), "got %v", err)
		})
	}
}

func (s *AssembleTestSuite) TestNumericStringLevelIsAccepted() {
	result, err := canon.Assemble(canon.RawRecord{"name": "Shield", "level": "1", "school": "Abjuration"})
	s.Require().NoError(err)
	s.Assert().Equal(1, result.Spell.Level)
}

func (s *AssembleTestSuite) TestClassListForms() {
	fromString, err := canon.Assemble(canon.RawRecord{
		"name": "Cure Light Wounds", "level": 1, "sphere": "Healing", "class_list": "Druid, cleric,  cleric",
	})
	s.Require().NoError(err)
	fromList, err := canon.Assemble(canon.RawRecord{
		"name": "Cure Light Wounds", "level": 1, "sphere": "Healing", "class_list": []any{"cleric", "druid"},
	})
	s.Require().NoError(err)

	s.Assert().Equal([]string{"cleric", "druid"}, fromString.Spell.ClassList)
	s.Assert().Equal(fromString.Hash, fromList.Hash)
}

func (s *AssembleTestSuite) TestMalformedStructuredFallsBackToLegacy() {
	result, err := canon.Assemble(canon.RawRecord{
		"name":       "Shocking Grasp",
		"level":      1,
		"school":     "Alteration",
		"range":      "Touch",
		"range_spec": map[string]any{"kind": "warp"},
	})
	s.Require().NoError(err)

	s.Require().Len(result.FieldIssues, 1)
	s.Assert().Equal(spell.FieldRange, result.FieldIssues[0].Field)
	s.Assert().Equal("range_spec", result.FieldIssues[0].Key)
	s.Assert().Equal(canon.SourceLegacy, result.Sources[spell.FieldRange])
	s.Require().NotNil(result.Spell.Range)
	s.Assert().Equal("Touch", canon.RangeToText(*result.Spell.Range))
}

func (s *AssembleTestSuite) TestStructuredWinsOverLegacy() {
	result, err := canon.Assemble(canon.RawRecord{
		"name":       "Magic Missile",
		"level":      1,
		"school":     "Evocation",
		"range":      "60 yards + 10 yards/level",
		"range_spec": map[string]any{"kind": "distance", "distance": 60, "unit": "yd"},
	})
	s.Require().NoError(err)

	s.Assert().Equal(canon.SourceStructured, result.Sources[spell.FieldRange])
	s.Assert().Equal("60 yd", canon.RangeToText(*result.Spell.Range))
	s.Assert().Equal("60 yards + 10 yards/level", result.Metadata.LegacyText[spell.FieldRange])
}

func (s *AssembleTestSuite) TestCustomLegacyParser() {
	s.mockParser.EXPECT().
		ParseLegacy(spell.FieldRange, "30 yards").
		Return(&spell.Range{
			Kind:           spell.RangeKindDistance,
			Distance:       ptr(spell.Fixed(30)),
			Unit:           spell.RangeUnitYards,
			RawLegacyValue: "30 yards",
		}, nil)

	result, err := canon.Assemble(canon.RawRecord{
		"name":   "Light",
		"level":  1,
		"school": "Alteration",
		"range":  "30 yards",
	}, canon.WithLegacyParser(s.mockParser))
	s.Require().NoError(err)

	s.Assert().Equal(canon.SourceLegacy, result.Sources[spell.FieldRange])
	s.Require().NotNil(result.Spell.Range)
	s.Assert().Equal(spell.RangeKindDistance, result.Spell.Range.Kind)
	s.Assert().Equal("30 yards", canon.RangeToText(*result.Spell.Range))
}

func (s *AssembleTestSuite) TestLegacyParserFailures() {
	s.Run("parser error", func() {
		parser := canon.LegacyParserFunc(func(spell.Field, string) (spell.FieldValue, error) {
			return nil, errors.InvalidArgument("unreadable")
		})
		result, err := canon.Assemble(canon.RawRecord{
			"name": "Light", "level": 1, "school": "Alteration", "duration": "a while",
		}, canon.WithLegacyParser(parser))
		s.Require().NoError(err)
		s.Assert().Nil(result.Spell.Duration)
		s.Assert().Equal(canon.SourceAbsent, result.Sources[spell.FieldDuration])
		s.Require().Len(result.Warnings, 1)
		s.Assert().Equal(canon.WarningLegacyParseFailed, result.Warnings[0].Code)
	})

	s.Run("wrong field type", func() {
		parser := canon.LegacyParserFunc(func(spell.Field, string) (spell.FieldValue, error) {
			return spell.Components{Verbal: true}, nil
		})
		result, err := canon.Assemble(canon.RawRecord{
			"name": "Light", "level": 1, "school": "Alteration", "duration": "a while",
		}, canon.WithLegacyParser(parser))
		s.Require().NoError(err)
		s.Assert().Nil(result.Spell.Duration)
		s.Require().Len(result.Warnings, 1)
		s.Assert().Equal(canon.WarningLegacyParseFailed, result.Warnings[0].Code)
	})
}

func (s *AssembleTestSuite) TestBusinessRuleWarnings() {
	testCases := []struct {
		name     string
		record   canon.RawRecord
		expected []canon.WarningCode
	}{
		{
			name:     "cantrip above level zero",
			record:   canon.RawRecord{"name": "Spark", "level": 1, "school": "Evocation", "is_cantrip": true},
			expected: []canon.WarningCode{canon.WarningCantripLevel},
		},
		{
			name:     "arcane quest spell at the wrong level",
			record:   canon.RawRecord{"name": "Odd Quest", "level": 7, "school": "Evocation", "is_quest_spell": "yes"},
			expected: []canon.WarningCode{canon.WarningQuestSpellTradition, canon.WarningQuestSpellLevel},
		},
		{
			name:     "divine spell above ninth level",
			record:   canon.RawRecord{"name": "Overreach", "level": 10, "sphere": "All"},
			expected: []canon.WarningCode{canon.WarningHighLevelTradition},
		},
		{
			name:   "proper quest spell",
			record: canon.RawRecord{"name": "Quest", "level": 8, "sphere": "All", "is_quest_spell": true},
		},
		{
			name:   "arcane tenth level",
			record: canon.RawRecord{"name": "True Wish", "level": 10, "school": "Conjuration"},
		},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			result, err := canon.Assemble(tc.record)
			s.Require().NoError(err)
			var codes []canon.WarningCode
			for _, w := range result.Warnings {
				codes = append(codes, w.Code)
			}
			s.Assert().Equal(tc.expected, codes)
		})
	}
}

func (s *AssembleTestSuite) TestInvalidFlagIsAnIssue() {
	result, err := canon.Assemble(canon.RawRecord{
		"name": "Enlarge", "level": 1, "school": "Alteration", "reversible": "sometimes",
	})
	s.Require().NoError(err)
	s.Assert().False(result.Spell.Reversible)
	s.Require().Len(result.FieldIssues, 1)
	s.Assert().Equal("reversible", result.FieldIssues[0].Key)
}

func (s *AssembleTestSuite) TestUnknownMRPartID() {
	result, err := canon.Assemble(canon.RawRecord{
		"name":   "Ice Storm",
		"level":  4,
		"school": "Evocation",
		"damage_spec": map[string]any{
			"kind":  "modeled",
			"parts": []any{map[string]any{"id": "hail", "damage_type": "bludgeoning", "base": "3d10"}},
		},
		"magic_resistance_spec": map[string]any{
			"kind":    "partial",
			"partial": map[string]any{"scope": "by_part_id", "part_ids": []any{"hail", "sleet"}},
		},
	})
	s.Require().NoError(err)
	s.Require().Len(result.Warnings, 1)
	s.Assert().Equal(canon.WarningUnknownMRPartID, result.Warnings[0].Code)
	s.Assert().Equal(spell.FieldMagicResistance, result.Warnings[0].Field)
	s.Assert().Contains(result.Warnings[0].Message, "sleet")
}

func (s *AssembleTestSuite) TestAdvisoryMaximum() {
	record := canon.RawRecord{
		"name":       "Far Sight",
		"level":      5,
		"school":     "Divination",
		"range_spec": map[string]any{"kind": "distance", "distance": 20000},
	}

	result, err := canon.Assemble(record)
	s.Require().NoError(err)
	s.Require().Len(result.Warnings, 1)
	s.Assert().Equal(canon.WarningScalarAboveAdvisoryMax, result.Warnings[0].Code)
	s.Assert().Equal(spell.FieldRange, result.Warnings[0].Field)
	s.Assert().Equal(20000.0, result.Spell.Range.Distance.EffectiveValue())

	result, err = canon.Assemble(record, canon.WithAdvisoryMax(0))
	s.Require().NoError(err)
	s.Assert().Empty(result.Warnings)
}

func (s *AssembleTestSuite) TestAliasConflictWarns() {
	result, err := canon.Assemble(canon.RawRecord{
		"name":   "Haste",
		"level":  3,
		"school": "Alteration",
		"duration_spec": map[string]any{
			"kind":     "time",
			"unit":     "round",
			"duration": map[string]any{"mode": "per_level", "per_level": 1, "perLevel": 2},
		},
	})
	s.Require().NoError(err)
	s.Require().Len(result.Warnings, 1)
	s.Assert().Equal(canon.WarningLegacyAliasConflict, result.Warnings[0].Code)
	s.Assert().Equal("1 round/level", canon.DurationToText(*result.Spell.Duration))
}
