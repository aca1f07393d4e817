package importer_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-spellcanon/internal/canon"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
	"github.com/KirkDiggler/rpg-spellcanon/internal/orchestrators/importer"
	"github.com/KirkDiggler/rpg-spellcanon/internal/pkg/idgen"
	canonicalspell "github.com/KirkDiggler/rpg-spellcanon/internal/repositories/canonical_spell"
	canonicalspellmock "github.com/KirkDiggler/rpg-spellcanon/internal/repositories/canonical_spell/mock"
)

type publishedEvent struct {
	eventType string
	sourceID  string
	status    any
}

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockRepo  *canonicalspellmock.MockRepository
	bus       *events.Bus
	published []publishedEvent
	service   importer.Service
	ctx       context.Context
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = canonicalspellmock.NewMockRepository(s.ctrl)
	s.bus = events.NewBus()
	s.published = nil
	for _, eventType := range []string{
		importer.EventSpellImported,
		importer.EventSpellConflict,
		importer.EventSpellRejected,
	} {
		s.bus.SubscribeFunc(eventType, 100, func(_ context.Context, e events.Event) error {
			status, _ := e.Context().Get("status")
			s.published = append(s.published, publishedEvent{
				eventType: e.Type(),
				sourceID:  e.Source().GetID(),
				status:    status,
			})
			return nil
		})
	}

	svc, err := importer.NewOrchestrator(&importer.Config{
		Repository:  s.mockRepo,
		IDGenerator: idgen.NewSequential("batch"),
		EventBus:    s.bus,
		Concurrency: 2,
	})
	s.Require().NoError(err)
	s.service = svc
	s.ctx = context.Background()
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func magicMissile() canon.RawRecord {
	return canon.RawRecord{"name": "Magic Missile", "level": 1, "school": "Evocation"}
}

func (s *OrchestratorTestSuite) assemble(record canon.RawRecord) *canon.Result {
	res, err := canon.Assemble(record)
	s.Require().NoError(err)
	return res
}

func (s *OrchestratorTestSuite) expectNoneStored(name string, level int) {
	s.mockRepo.EXPECT().
		ListByIdentity(s.ctx, canonicalspell.ListByIdentityInput{Name: name, Level: level}).
		Return(&canonicalspell.ListByIdentityOutput{Spells: []*canonicalspell.StoredSpell{}}, nil)
}

func (s *OrchestratorTestSuite) TestNewOrchestratorValidation() {
	_, err := importer.NewOrchestrator(&importer.Config{})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = importer.NewOrchestrator(&importer.Config{
		Repository:  s.mockRepo,
		IDGenerator: idgen.NewSequential(""),
		Concurrency: -1,
	})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestImportNewSpell() {
	expected := s.assemble(magicMissile())
	s.expectNoneStored("Magic Missile", 1)

	var stored *canonicalspell.StoredSpell
	s.mockRepo.EXPECT().
		Put(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input canonicalspell.PutInput) (*canonicalspell.PutOutput, error) {
			stored = input.Spell
			return &canonicalspell.PutOutput{Spell: input.Spell}, nil
		})

	out, err := s.service.ImportSpells(s.ctx, &importer.ImportSpellsInput{
		Records: []canon.RawRecord{magicMissile()},
		Source:  "PHB",
	})
	s.Require().NoError(err)

	s.Assert().Equal("batch_1", out.BatchID)
	s.Assert().Equal(1, out.Imported)
	s.Require().Len(out.Results, 1)
	s.Assert().Equal(importer.StatusImported, out.Results[0].Status)
	s.Assert().Equal(expected.Hash, out.Results[0].Hash)

	s.Require().NotNil(stored)
	s.Assert().Equal(expected.Hash, stored.Hash)
	s.Assert().Equal("Magic Missile", stored.Name)
	s.Assert().Equal("PHB", stored.Metadata.Source)
	s.Assert().Equal("batch_1", stored.BatchID)
	s.Assert().JSONEq(string(expected.CanonicalJSON), string(stored.CanonicalJSON))

	s.Require().Len(s.published, 1)
	s.Assert().Equal(importer.EventSpellImported, s.published[0].eventType)
	s.Assert().Equal(expected.Hash, s.published[0].sourceID)
	s.Assert().Equal("imported", s.published[0].status)
}

func (s *OrchestratorTestSuite) TestSourceDoesNotOverrideRecordSource() {
	record := magicMissile()
	record["source"] = "Greyhawk"
	s.expectNoneStored("Magic Missile", 1)
	s.mockRepo.EXPECT().
		Put(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input canonicalspell.PutInput) (*canonicalspell.PutOutput, error) {
			s.Assert().Equal("Greyhawk", input.Spell.Metadata.Source)
			return &canonicalspell.PutOutput{Spell: input.Spell}, nil
		})

	_, err := s.service.ImportSpells(s.ctx, &importer.ImportSpellsInput{
		Records: []canon.RawRecord{record},
		Source:  "PHB",
	})
	s.Require().NoError(err)
	s.Assert().Equal("Greyhawk", record["source"])
}

func (s *OrchestratorTestSuite) TestDuplicateHash() {
	expected := s.assemble(magicMissile())
	s.mockRepo.EXPECT().
		ListByIdentity(s.ctx, gomock.Any()).
		Return(&canonicalspell.ListByIdentityOutput{Spells: []*canonicalspell.StoredSpell{
			{Hash: expected.Hash, Name: "Magic Missile", Level: 1, CanonicalJSON: expected.CanonicalJSON},
		}}, nil)

	out, err := s.service.ImportSpells(s.ctx, &importer.ImportSpellsInput{
		Records: []canon.RawRecord{magicMissile()},
	})
	s.Require().NoError(err)
	s.Assert().Equal(1, out.Duplicates)
	s.Assert().Equal(importer.StatusDuplicate, out.Results[0].Status)
	s.Assert().Empty(s.published)
}

func (s *OrchestratorTestSuite) TestDuplicateOnPutRace() {
	s.expectNoneStored("Magic Missile", 1)
	s.mockRepo.EXPECT().
		Put(s.ctx, gomock.Any()).
		Return(nil, errors.AlreadyExists("spell already exists"))

	out, err := s.service.ImportSpells(s.ctx, &importer.ImportSpellsInput{
		Records: []canon.RawRecord{magicMissile()},
	})
	s.Require().NoError(err)
	s.Assert().Equal(importer.StatusDuplicate, out.Results[0].Status)
}

func (s *OrchestratorTestSuite) TestConflictingVersion() {
	variant := magicMissile()
	variant["school"] = "Conjuration"
	existing := s.assemble(variant)

	s.mockRepo.EXPECT().
		ListByIdentity(s.ctx, gomock.Any()).
		Return(&canonicalspell.ListByIdentityOutput{Spells: []*canonicalspell.StoredSpell{
			{Hash: existing.Hash, Name: "Magic Missile", Level: 1, CanonicalJSON: existing.CanonicalJSON},
		}}, nil)

	out, err := s.service.ImportSpells(s.ctx, &importer.ImportSpellsInput{
		Records: []canon.RawRecord{magicMissile()},
	})
	s.Require().NoError(err)
	s.Assert().Equal(1, out.Conflicts)

	result := out.Results[0]
	s.Assert().Equal(importer.StatusConflict, result.Status)
	s.Assert().Equal([]string{existing.Hash}, result.ConflictsWith)
	s.Assert().Equal([]string{"school"}, result.ConflictFields)

	s.Require().Len(s.published, 1)
	s.Assert().Equal(importer.EventSpellConflict, s.published[0].eventType)
}

func (s *OrchestratorTestSuite) TestRejectedRecord() {
	out, err := s.service.ImportSpells(s.ctx, &importer.ImportSpellsInput{
		Records: []canon.RawRecord{{
			"name":   "  Detect   Magic ",
			"level":  1,
			"school": "Divination",
			"sphere": "Divination",
		}},
	})
	s.Require().NoError(err)
	s.Assert().Equal(1, out.Rejected)

	result := out.Results[0]
	s.Assert().Equal(importer.StatusRejected, result.Status)
	s.Assert().Equal("Detect Magic", result.Name)
	s.Assert().Equal(canon.ConflictingTraditionFields, result.ErrorKind)
	s.Assert().Contains(result.Error, "Detect Magic")

	s.Require().Len(s.published, 1)
	s.Assert().Equal(importer.EventSpellRejected, s.published[0].eventType)
	s.Assert().Equal("record-0", s.published[0].sourceID)
}

func (s *OrchestratorTestSuite) TestResultsKeepInputOrder() {
	records := []canon.RawRecord{
		{"name": "Sleep", "level": 1, "school": "Enchantment"},
		{"name": "Broken"},
		{"name": "Bless", "level": 1, "sphere": "All"},
	}
	gomock.InOrder(
		s.mockRepo.EXPECT().
			ListByIdentity(s.ctx, canonicalspell.ListByIdentityInput{Name: "Sleep", Level: 1}).
			Return(&canonicalspell.ListByIdentityOutput{}, nil),
		s.mockRepo.EXPECT().
			Put(s.ctx, gomock.Any()).
			Return(&canonicalspell.PutOutput{}, nil),
		s.mockRepo.EXPECT().
			ListByIdentity(s.ctx, canonicalspell.ListByIdentityInput{Name: "Bless", Level: 1}).
			Return(&canonicalspell.ListByIdentityOutput{}, nil),
		s.mockRepo.EXPECT().
			Put(s.ctx, gomock.Any()).
			Return(&canonicalspell.PutOutput{}, nil),
	)

	out, err := s.service.ImportSpells(s.ctx, &importer.ImportSpellsInput{Records: records})
	s.Require().NoError(err)
	s.Require().Len(out.Results, 3)
	for i, result := range out.Results {
		s.Assert().Equal(i, result.Index)
	}
	s.Assert().Equal("Sleep", out.Results[0].Name)
	s.Assert().Equal(importer.StatusRejected, out.Results[1].Status)
	s.Assert().Equal("Bless", out.Results[2].Name)
	s.Assert().Equal(2, out.Imported)
	s.Assert().Equal(1, out.Rejected)
}

func (s *OrchestratorTestSuite) TestStorageFailureAbortsBatch() {
	s.mockRepo.EXPECT().
		ListByIdentity(s.ctx, gomock.Any()).
		Return(nil, errors.Unavailable("redis down"))

	out, err := s.service.ImportSpells(s.ctx, &importer.ImportSpellsInput{
		Records: []canon.RawRecord{magicMissile()},
	})
	s.Assert().Nil(out)
	s.Assert().True(errors.IsUnavailable(err))
}

func (s *OrchestratorTestSuite) TestImportCanceled() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	out, err := s.service.ImportSpells(ctx, &importer.ImportSpellsInput{
		Records: []canon.RawRecord{magicMissile()},
	})
	s.Assert().Nil(out)
	s.Assert().True(errors.IsCanceled(err))
}

func (s *OrchestratorTestSuite) TestNilInput() {
	_, err := s.service.ImportSpells(s.ctx, nil)
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestGetSpell() {
	s.mockRepo.EXPECT().
		Get(s.ctx, canonicalspell.GetInput{Hash: "missing"}).
		Return(nil, errors.NotFound("spell not found"))

	_, err := s.service.GetSpell(s.ctx, &importer.GetSpellInput{Hash: "missing"})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestVerifySpell() {
	expected := s.assemble(magicMissile())
	s.mockRepo.EXPECT().
		Get(s.ctx, canonicalspell.GetInput{Hash: expected.Hash}).
		Return(&canonicalspell.GetOutput{Spell: &canonicalspell.StoredSpell{
			Hash:          expected.Hash,
			CanonicalJSON: expected.CanonicalJSON,
		}}, nil)

	out, err := s.service.VerifySpell(s.ctx, &importer.VerifySpellInput{Hash: expected.Hash})
	s.Require().NoError(err)
	s.Assert().True(out.Valid)
	s.Assert().True(out.Canonical)
	s.Assert().Equal(expected.Hash, out.ComputedHash)
}

func (s *OrchestratorTestSuite) TestVerifySpellDetectsTampering() {
	expected := s.assemble(magicMissile())

	var decoded map[string]any
	s.Require().NoError(json.Unmarshal(expected.CanonicalJSON, &decoded))
	indented, err := json.MarshalIndent(decoded, "", "  ")
	s.Require().NoError(err)

	s.mockRepo.EXPECT().
		Get(s.ctx, gomock.Any()).
		Return(&canonicalspell.GetOutput{Spell: &canonicalspell.StoredSpell{
			Hash:          expected.Hash,
			CanonicalJSON: indented,
		}}, nil)

	out, err := s.service.VerifySpell(s.ctx, &importer.VerifySpellInput{Hash: expected.Hash})
	s.Require().NoError(err)
	s.Assert().False(out.Valid)
	s.Assert().False(out.Canonical)
	s.Assert().NotEqual(expected.Hash, out.ComputedHash)
}

func (s *OrchestratorTestSuite) TestVerifySpellUnreadable() {
	s.mockRepo.EXPECT().
		Get(s.ctx, gomock.Any()).
		Return(&canonicalspell.GetOutput{Spell: &canonicalspell.StoredSpell{
			Hash:          "abc",
			CanonicalJSON: json.RawMessage(`{broken`),
		}}, nil)

	_, err := s.service.VerifySpell(s.ctx, &importer.VerifySpellInput{Hash: "abc"})
	s.Assert().True(errors.IsDataLoss(err))
}
