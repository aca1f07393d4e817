package canonicalspell_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
	"github.com/KirkDiggler/rpg-spellcanon/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-spellcanon/internal/redis"
	canonicalspell "github.com/KirkDiggler/rpg-spellcanon/internal/repositories/canonical_spell"
	"github.com/KirkDiggler/rpg-spellcanon/internal/testutils"
)

var testNow = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

type RedisRepositoryTestSuite struct {
	suite.Suite
	client  redis.Client
	mr      *miniredis.Miniredis
	cleanup func()
	repo    canonicalspell.Repository
	ctx     context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.client, s.mr, s.cleanup = testutils.CreateTestRedis(s.T())
	repo, err := canonicalspell.NewRedis(&canonicalspell.RedisConfig{
		Client: s.client,
		Clock:  clock.Fixed{At: testNow},
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func storedSpell(hash, name string, level int) *canonicalspell.StoredSpell {
	return &canonicalspell.StoredSpell{
		Hash:          hash,
		Name:          name,
		Level:         level,
		Tradition:     spell.TraditionArcane,
		CanonicalJSON: json.RawMessage(fmt.Sprintf(`{"level":%d,"name":%q}`, level, name)),
		Metadata:      spell.Metadata{Source: "PHB"},
		BatchID:       "batch_1",
	}
}

func (s *RedisRepositoryTestSuite) TestNewRedisValidatesConfig() {
	_, err := canonicalspell.NewRedis(nil)
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = canonicalspell.NewRedis(&canonicalspell.RedisConfig{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestPutAndGet() {
	out, err := s.repo.Put(s.ctx, canonicalspell.PutInput{Spell: storedSpell("abc", "Fireball", 3)})
	s.Require().NoError(err)
	s.Assert().Equal(testNow, out.Spell.StoredAt)

	got, err := s.repo.Get(s.ctx, canonicalspell.GetInput{Hash: "abc"})
	s.Require().NoError(err)
	s.Assert().Equal("Fireball", got.Spell.Name)
	s.Assert().Equal(3, got.Spell.Level)
	s.Assert().Equal("PHB", got.Spell.Metadata.Source)
	s.Assert().JSONEq(`{"level":3,"name":"Fireball"}`, string(got.Spell.CanonicalJSON))
	s.Assert().True(testNow.Equal(got.Spell.StoredAt))

	s.Assert().True(s.mr.Exists("canonical_spell:abc"))
	members, err := s.mr.Members("canonical_spell:identity:fireball:3")
	s.Require().NoError(err)
	s.Assert().Equal([]string{"abc"}, members)
}

func (s *RedisRepositoryTestSuite) TestPutDuplicateHash() {
	_, err := s.repo.Put(s.ctx, canonicalspell.PutInput{Spell: storedSpell("abc", "Fireball", 3)})
	s.Require().NoError(err)

	_, err = s.repo.Put(s.ctx, canonicalspell.PutInput{Spell: storedSpell("abc", "Fireball", 3)})
	s.Assert().True(errors.IsAlreadyExists(err))
}

func (s *RedisRepositoryTestSuite) TestPutValidation() {
	_, err := s.repo.Put(s.ctx, canonicalspell.PutInput{})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.repo.Put(s.ctx, canonicalspell.PutInput{Spell: &canonicalspell.StoredSpell{Name: "Fireball"}})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(s.ctx, canonicalspell.GetInput{Hash: "missing"})
	s.Assert().True(errors.IsNotFound(err))

	_, err = s.repo.Get(s.ctx, canonicalspell.GetInput{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestGetCorruptRecord() {
	s.Require().NoError(s.mr.Set("canonical_spell:bad", "{not json"))
	_, err := s.repo.Get(s.ctx, canonicalspell.GetInput{Hash: "bad"})
	s.Assert().True(errors.IsDataLoss(err))
}

func (s *RedisRepositoryTestSuite) TestListByIdentity() {
	for _, sp := range []*canonicalspell.StoredSpell{
		storedSpell("bbb", "Fireball", 3),
		storedSpell("aaa", "Fireball", 3),
		storedSpell("ccc", "Fireball", 4),
	} {
		_, err := s.repo.Put(s.ctx, canonicalspell.PutInput{Spell: sp})
		s.Require().NoError(err)
	}

	out, err := s.repo.ListByIdentity(s.ctx, canonicalspell.ListByIdentityInput{Name: "  FIREBALL ", Level: 3})
	s.Require().NoError(err)
	s.Require().Len(out.Spells, 2)
	s.Assert().Equal("aaa", out.Spells[0].Hash)
	s.Assert().Equal("bbb", out.Spells[1].Hash)

	_, err = s.repo.ListByIdentity(s.ctx, canonicalspell.ListByIdentityInput{Name: " "})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestListByIdentityCleansStaleEntries() {
	_, err := s.repo.Put(s.ctx, canonicalspell.PutInput{Spell: storedSpell("aaa", "Sleep", 1)})
	s.Require().NoError(err)
	_, err = s.mr.SetAdd("canonical_spell:identity:sleep:1", "gone")
	s.Require().NoError(err)

	out, err := s.repo.ListByIdentity(s.ctx, canonicalspell.ListByIdentityInput{Name: "Sleep", Level: 1})
	s.Require().NoError(err)
	s.Require().Len(out.Spells, 1)

	members, err := s.mr.Members("canonical_spell:identity:sleep:1")
	s.Require().NoError(err)
	s.Assert().Equal([]string{"aaa"}, members)
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	_, err := s.repo.Put(s.ctx, canonicalspell.PutInput{Spell: storedSpell("abc", "Sleep", 1)})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, canonicalspell.DeleteInput{Hash: "abc"})
	s.Require().NoError(err)

	s.Assert().False(s.mr.Exists("canonical_spell:abc"))
	s.Assert().False(s.mr.Exists("canonical_spell:identity:sleep:1"))

	_, err = s.repo.Delete(s.ctx, canonicalspell.DeleteInput{Hash: "abc"})
	s.Assert().True(errors.IsNotFound(err))
}
