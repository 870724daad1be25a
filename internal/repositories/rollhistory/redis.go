package rollhistory

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/tabletopforge/encounter-api/internal/errors"
	"github.com/tabletopforge/encounter-api/internal/pkg/clock"
	redisclient "github.com/tabletopforge/encounter-api/internal/redis"
)

const (
	historyKeyPrefix    = "roll:history:"
	macroKeyPrefix      = "roll:macro:"
	macroIndexPrefix    = "roll:macro:user:"
	defaultHistoryTTL   = 30 * 24 * time.Hour
	defaultHistoryLimit = 50
	maxHistoryLength    = 200

	// Error messages
	errRollNil      = "roll cannot be nil"
	errMacroNil     = "macro cannot be nil"
	errMacroIDEmpty = "macro ID cannot be empty"
	errUserIDEmpty  = "user ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis roll history repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed roll history repository
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

func (r *redisRepository) AddRoll(ctx context.Context, input AddRollInput) (*AddRollOutput, error) {
	if input.Roll == nil {
		return nil, errors.InvalidArgument(errRollNil)
	}
	if input.Roll.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	input.Roll.CreatedAt = r.clock.Now()

	data, err := json.Marshal(input.Roll)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal roll")
	}

	key := historyKeyPrefix + input.Roll.UserID

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, maxHistoryLength-1)
	pipe.Expire(ctx, key, defaultHistoryTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to record roll")
	}

	return &AddRollOutput{Roll: input.Roll}, nil
}

func (r *redisRepository) ListRolls(ctx context.Context, input ListRollsInput) (*ListRollsOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	raw, err := r.client.LRange(ctx, historyKeyPrefix+input.UserID, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list rolls")
	}

	rolls := make([]*Roll, 0, len(raw))
	for _, item := range raw {
		var roll Roll
		if err := json.Unmarshal([]byte(item), &roll); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal roll")
		}
		rolls = append(rolls, &roll)
	}

	return &ListRollsOutput{Rolls: rolls}, nil
}

func (r *redisRepository) ClearRolls(ctx context.Context, input ClearRollsInput) (*ClearRollsOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	if err := r.client.Del(ctx, historyKeyPrefix+input.UserID).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to clear rolls")
	}

	return &ClearRollsOutput{}, nil
}

func (r *redisRepository) CreateMacro(ctx context.Context, input CreateMacroInput) (*CreateMacroOutput, error) {
	if input.Macro == nil {
		return nil, errors.InvalidArgument(errMacroNil)
	}
	if input.Macro.ID == "" {
		return nil, errors.InvalidArgument(errMacroIDEmpty)
	}
	if input.Macro.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	key := macroKeyPrefix + input.Macro.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("macro with ID %s already exists", input.Macro.ID)
	}

	input.Macro.CreatedAt = r.clock.Now()

	data, err := json.Marshal(input.Macro)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal macro")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, macroIndexPrefix+input.Macro.UserID, input.Macro.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create macro")
	}

	return &CreateMacroOutput{Macro: input.Macro}, nil
}

func (r *redisRepository) GetMacro(ctx context.Context, input GetMacroInput) (*GetMacroOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errMacroIDEmpty)
	}

	result, err := r.client.Get(ctx, macroKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("macro with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get macro")
	}

	var macro Macro
	if err := json.Unmarshal([]byte(result), &macro); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal macro")
	}

	return &GetMacroOutput{Macro: &macro}, nil
}

func (r *redisRepository) ListMacros(ctx context.Context, input ListMacrosInput) (*ListMacrosOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	ids, err := r.client.SMembers(ctx, macroIndexPrefix+input.UserID).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list macros")
	}

	macros := make([]*Macro, 0, len(ids))
	for _, id := range ids {
		out, err := r.GetMacro(ctx, GetMacroInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				r.client.SRem(ctx, macroIndexPrefix+input.UserID, id)
				continue
			}
			return nil, err
		}
		macros = append(macros, out.Macro)
	}

	return &ListMacrosOutput{Macros: macros}, nil
}

func (r *redisRepository) UpdateMacro(ctx context.Context, input UpdateMacroInput) (*UpdateMacroOutput, error) {
	if input.Macro == nil {
		return nil, errors.InvalidArgument(errMacroNil)
	}
	if input.Macro.ID == "" {
		return nil, errors.InvalidArgument(errMacroIDEmpty)
	}

	existing, err := r.GetMacro(ctx, GetMacroInput{ID: input.Macro.ID})
	if err != nil {
		return nil, err
	}

	input.Macro.UserID = existing.Macro.UserID
	input.Macro.CreatedAt = existing.Macro.CreatedAt

	data, err := json.Marshal(input.Macro)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal macro")
	}

	if err := r.client.Set(ctx, macroKeyPrefix+input.Macro.ID, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update macro")
	}

	return &UpdateMacroOutput{Macro: input.Macro}, nil
}

func (r *redisRepository) DeleteMacro(ctx context.Context, input DeleteMacroInput) (*DeleteMacroOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errMacroIDEmpty)
	}

	existing, err := r.GetMacro(ctx, GetMacroInput{ID: input.ID})
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, macroKeyPrefix+input.ID)
	pipe.SRem(ctx, macroIndexPrefix+existing.Macro.UserID, input.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete macro")
	}

	return &DeleteMacroOutput{}, nil
}
