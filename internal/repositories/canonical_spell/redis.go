package canonicalspell

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
	"github.com/KirkDiggler/rpg-spellcanon/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-spellcanon/internal/redis"
)

const (
	spellKeyPrefix    = "canonical_spell:"
	identityKeyPrefix = "canonical_spell:identity:"

	errSpellNil  = "spell cannot be nil"
	errHashEmpty = "hash cannot be empty"
	errNameEmpty = "name cannot be empty"
	errJSONEmpty = "canonical JSON cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis canonical spell repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed canonical spell repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if input.Spell == nil {
		return nil, errors.InvalidArgument(errSpellNil)
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("hash", input.Spell.Hash, vb)
	errors.ValidateRequired("name", input.Spell.Name, vb)
	if len(input.Spell.CanonicalJSON) == 0 {
		vb.Field("canonical_json", errJSONEmpty)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	stored := *input.Spell
	stored.StoredAt = r.clock.Now()

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal spell %s", stored.Hash)
	}

	created, err := r.client.SetNX(ctx, spellKey(stored.Hash), data, 0).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store spell %s", stored.Hash)
	}
	if !created {
		return nil, errors.AlreadyExistsf("spell with hash %s already exists", stored.Hash)
	}

	if err := r.client.SAdd(ctx, identityKey(stored.Name, stored.Level), stored.Hash).Err(); err != nil {
		// Roll back so a retry is not mistaken for a duplicate.
		r.client.Del(ctx, spellKey(stored.Hash))
		return nil, errors.Wrapf(err, "failed to index spell %s", stored.Hash)
	}

	slog.DebugContext(ctx, "stored canonical spell",
		"hash", stored.Hash,
		"name", stored.Name,
		"level", stored.Level)

	return &PutOutput{Spell: &stored}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.Hash == "" {
		return nil, errors.InvalidArgument(errHashEmpty)
	}

	result, err := r.client.Get(ctx, spellKey(input.Hash)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("spell with hash %s not found", input.Hash)
		}
		return nil, errors.Wrapf(err, "failed to get spell %s", input.Hash)
	}

	var stored StoredSpell
	if err := json.Unmarshal([]byte(result), &stored); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to unmarshal stored spell")
	}

	return &GetOutput{Spell: &stored}, nil
}

func (r *redisRepository) ListByIdentity(
	ctx context.Context,
	input ListByIdentityInput,
) (*ListByIdentityOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.InvalidArgument(errNameEmpty)
	}

	indexKey := identityKey(input.Name, input.Level)
	hashes, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read identity index %s", indexKey)
	}
	sort.Strings(hashes)

	spells := make([]*StoredSpell, 0, len(hashes))
	for _, hash := range hashes {
		out, err := r.Get(ctx, GetInput{Hash: hash})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "stale identity index entry, cleaning up",
					"hash", hash,
					"index_key", indexKey)
				r.client.SRem(ctx, indexKey, hash)
				continue
			}
			return nil, err
		}
		spells = append(spells, out.Spell)
	}

	return &ListByIdentityOutput{Spells: spells}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	out, err := r.Get(ctx, GetInput(input))
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, spellKey(input.Hash))
	pipe.SRem(ctx, identityKey(out.Spell.Name, out.Spell.Level), input.Hash)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete spell %s", input.Hash)
	}

	return &DeleteOutput{}, nil
}

func spellKey(hash string) string {
	return spellKeyPrefix + hash
}

// identityKey groups versions of a spell, e.g. canonical_spell:identity:fireball:3
func identityKey(name string, level int) string {
	return fmt.Sprintf("%s%s:%d", identityKeyPrefix, strings.ToLower(strings.Join(strings.Fields(name), " ")), level)
}
