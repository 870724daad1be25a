package encounter

import (
	"context"
	"encoding/json"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/tabletopforge/encounter-api/internal/entities/dnd5e"
	"github.com/tabletopforge/encounter-api/internal/errors"
	"github.com/tabletopforge/encounter-api/internal/pkg/clock"
	redisclient "github.com/tabletopforge/encounter-api/internal/redis"
)

const (
	encounterKeyPrefix = "encounter:"
	userIndexPrefix    = "encounter:user:"
	currentKeyPrefix   = "encounter:current:"

	// Error messages
	errEncounterNil     = "encounter cannot be nil"
	errEncounterIDEmpty = "encounter ID cannot be empty"
	errUserIDEmpty      = "user ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis encounter repository.
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

// NewRedis creates a new Redis-backed encounter repository
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

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Encounter == nil {
		return nil, errors.InvalidArgument(errEncounterNil)
	}
	if input.Encounter.ID == "" {
		return nil, errors.InvalidArgument(errEncounterIDEmpty)
	}

	key := encounterKeyPrefix + input.Encounter.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("encounter with ID %s already exists", input.Encounter.ID)
	}

	now := r.clock.Now().Unix()
	input.Encounter.CreatedAt = now
	input.Encounter.UpdatedAt = now

	data, err := json.Marshal(input.Encounter)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal encounter")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	if input.Encounter.UserID != "" {
		pipe.SAdd(ctx, userIndexPrefix+input.Encounter.UserID, input.Encounter.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create encounter")
	}

	return &CreateOutput{Encounter: input.Encounter}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errEncounterIDEmpty)
	}

	result, err := r.client.Get(ctx, encounterKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("encounter with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get encounter")
	}

	var enc dnd5e.Encounter
	if err := json.Unmarshal([]byte(result), &enc); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal encounter")
	}

	return &GetOutput{Encounter: &enc}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Encounter == nil {
		return nil, errors.InvalidArgument(errEncounterNil)
	}
	if input.Encounter.ID == "" {
		return nil, errors.InvalidArgument(errEncounterIDEmpty)
	}

	key := encounterKeyPrefix + input.Encounter.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("encounter with ID %s not found", input.Encounter.ID)
	}

	input.Encounter.UpdatedAt = r.clock.Now().Unix()

	data, err := json.Marshal(input.Encounter)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal encounter")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update encounter")
	}

	return &UpdateOutput{Encounter: input.Encounter}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errEncounterIDEmpty)
	}

	getOutput, err := r.Get(ctx, GetInput(input))
	if err != nil {
		return nil, err
	}
	enc := getOutput.Encounter

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, encounterKeyPrefix+input.ID)
	if enc.UserID != "" {
		pipe.SRem(ctx, userIndexPrefix+enc.UserID, input.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete encounter")
	}

	// Clear the current pointer if it referenced this encounter.
	// Done after the delete so a failure leaves a dangling pointer,
	// not a deleted-but-current encounter.
	if enc.UserID != "" {
		currentKey := currentKeyPrefix + enc.UserID
		current, err := r.client.Get(ctx, currentKey).Result()
		if err == nil && current == input.ID {
			if err := r.client.Del(ctx, currentKey).Err(); err != nil {
				slog.WarnContext(ctx, "failed to clear current encounter pointer",
					"encounter_id", input.ID,
					"user_id", enc.UserID,
					"error", err.Error())
			}
		}
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) ListByUserID(
	ctx context.Context,
	input ListByUserIDInput,
) (*ListByUserIDOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	indexKey := userIndexPrefix + input.UserID

	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get encounters from index %s", indexKey)
	}

	encounters := make([]*dnd5e.Encounter, 0, len(ids))
	for _, id := range ids {
		out, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "encounter not found, cleaning up index",
					"encounter_id", id,
					"index_key", indexKey)
				r.client.SRem(ctx, indexKey, id)
				continue
			}
			return nil, errors.Wrapf(err, "failed to get encounter %s", id)
		}
		encounters = append(encounters, out.Encounter)
	}

	return &ListByUserIDOutput{Encounters: encounters}, nil
}

func (r *redisRepository) GetCurrent(ctx context.Context, input GetCurrentInput) (*GetCurrentOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	id, err := r.client.Get(ctx, currentKeyPrefix+input.UserID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFound("no current encounter")
		}
		return nil, errors.Wrapf(err, "failed to get current encounter pointer")
	}

	out, err := r.Get(ctx, GetInput{ID: id})
	if err != nil {
		return nil, err
	}

	return &GetCurrentOutput{Encounter: out.Encounter}, nil
}

func (r *redisRepository) SetCurrent(ctx context.Context, input SetCurrentInput) (*SetCurrentOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if input.EncounterID == "" {
		return nil, errors.InvalidArgument(errEncounterIDEmpty)
	}

	if _, err := r.Get(ctx, GetInput{ID: input.EncounterID}); err != nil {
		return nil, err
	}

	if err := r.client.Set(ctx, currentKeyPrefix+input.UserID, input.EncounterID, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to set current encounter")
	}

	return &SetCurrentOutput{}, nil
}

func (r *redisRepository) ClearCurrent(ctx context.Context, input ClearCurrentInput) (*ClearCurrentOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	if err := r.client.Del(ctx, currentKeyPrefix+input.UserID).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to clear current encounter")
	}

	return &ClearCurrentOutput{}, nil
}
