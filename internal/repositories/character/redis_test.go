package character_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tabletopforge/encounter-api/internal/entities/dnd5e"
	"github.com/tabletopforge/encounter-api/internal/errors"
	"github.com/tabletopforge/encounter-api/internal/pkg/clock"
	character "github.com/tabletopforge/encounter-api/internal/repositories/character"
	"github.com/tabletopforge/encounter-api/internal/testutils"
)

const (
	testCharID = "char_123"
	testUserID = "user_456"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	repo    character.Repository
	cleanup func()
	ctx     context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	repo, err := character.NewRedis(&character.RedisConfig{
		Client: client,
		Clock:  clock.NewFixed(time.Unix(1700000000, 0)),
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) testCharacter() *dnd5e.Character {
	return &dnd5e.Character{
		ID:         testCharID,
		UserID:     testUserID,
		Name:       "Test Hero",
		Type:       dnd5e.CharacterTypePC,
		Class:      "Fighter",
		Level:      3,
		ArmorClass: 16,
		HitPoints:  dnd5e.HitPoints{Current: 28, Max: 28},
		Abilities: dnd5e.AbilityScores{
			Strength: 16, Dexterity: 14, Constitution: 15,
			Intelligence: 10, Wisdom: 12, Charisma: 8,
		},
		InitiativeBonus: 2,
	}
}

func (s *RedisRepositoryTestSuite) TestCreate() {
	s.Run("successful create", func() {
		output, err := s.repo.Create(s.ctx, character.CreateInput{Character: s.testCharacter()})

		s.NoError(err)
		s.NotNil(output)
		s.Equal(int64(1700000000), output.Character.CreatedAt)
	})

	s.Run("error when character already exists", func() {
		output, err := s.repo.Create(s.ctx, character.CreateInput{Character: s.testCharacter()})

		s.Error(err)
		s.Nil(output)
		s.True(errors.IsAlreadyExists(err))
	})

	s.Run("error when character is nil", func() {
		output, err := s.repo.Create(s.ctx, character.CreateInput{Character: nil})

		s.Error(err)
		s.Nil(output)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("error when ID is empty", func() {
		char := s.testCharacter()
		char.ID = ""
		output, err := s.repo.Create(s.ctx, character.CreateInput{Character: char})

		s.Error(err)
		s.Nil(output)
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *RedisRepositoryTestSuite) TestGet() {
	_, err := s.repo.Create(s.ctx, character.CreateInput{Character: s.testCharacter()})
	s.Require().NoError(err)

	s.Run("successful get", func() {
		output, err := s.repo.Get(s.ctx, character.GetInput{ID: testCharID})

		s.NoError(err)
		s.Require().NotNil(output)
		s.Equal("Test Hero", output.Character.Name)
		s.Equal(dnd5e.CharacterTypePC, output.Character.Type)
		s.Equal(28, output.Character.HitPoints.Max)
	})

	s.Run("not found", func() {
		output, err := s.repo.Get(s.ctx, character.GetInput{ID: "char_missing"})

		s.Error(err)
		s.Nil(output)
		s.True(errors.IsNotFound(err))
	})

	s.Run("empty ID", func() {
		_, err := s.repo.Get(s.ctx, character.GetInput{})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *RedisRepositoryTestSuite) TestGetByIDs() {
	first := s.testCharacter()
	second := s.testCharacter()
	second.ID = "char_789"
	second.Name = "Test Wizard"

	_, err := s.repo.Create(s.ctx, character.CreateInput{Character: first})
	s.Require().NoError(err)
	_, err = s.repo.Create(s.ctx, character.CreateInput{Character: second})
	s.Require().NoError(err)

	s.Run("preserves order", func() {
		output, err := s.repo.GetByIDs(s.ctx, character.GetByIDsInput{IDs: []string{"char_789", testCharID}})

		s.NoError(err)
		s.Require().Len(output.Characters, 2)
		s.Equal("Test Wizard", output.Characters[0].Name)
		s.Equal("Test Hero", output.Characters[1].Name)
	})

	s.Run("any missing ID fails", func() {
		output, err := s.repo.GetByIDs(s.ctx, character.GetByIDsInput{IDs: []string{testCharID, "char_missing"}})

		s.Error(err)
		s.Nil(output)
		s.True(errors.IsNotFound(err))
	})
}

func (s *RedisRepositoryTestSuite) TestUpdate() {
	_, err := s.repo.Create(s.ctx, character.CreateInput{Character: s.testCharacter()})
	s.Require().NoError(err)

	s.Run("successful update", func() {
		char := s.testCharacter()
		char.Name = "Renamed Hero"
		char.HitPoints.Current = 10

		output, err := s.repo.Update(s.ctx, character.UpdateInput{Character: char})
		s.NoError(err)
		s.NotNil(output)

		got, err := s.repo.Get(s.ctx, character.GetInput{ID: testCharID})
		s.Require().NoError(err)
		s.Equal("Renamed Hero", got.Character.Name)
		s.Equal(10, got.Character.HitPoints.Current)
	})

	s.Run("not found", func() {
		char := s.testCharacter()
		char.ID = "char_missing"

		_, err := s.repo.Update(s.ctx, character.UpdateInput{Character: char})
		s.True(errors.IsNotFound(err))
	})
}

func (s *RedisRepositoryTestSuite) TestUpdateHitPoints() {
	_, err := s.repo.Create(s.ctx, character.CreateInput{Character: s.testCharacter()})
	s.Require().NoError(err)

	s.Run("writes back only hit points", func() {
		output, err := s.repo.UpdateHitPoints(s.ctx, character.UpdateHitPointsInput{
			ID:        testCharID,
			HitPoints: dnd5e.HitPoints{Current: 5, Max: 28, Temporary: 3},
		})

		s.NoError(err)
		s.Require().NotNil(output)

		got, err := s.repo.Get(s.ctx, character.GetInput{ID: testCharID})
		s.Require().NoError(err)
		s.Equal(5, got.Character.HitPoints.Current)
		s.Equal(3, got.Character.HitPoints.Temporary)
		s.Equal("Test Hero", got.Character.Name)
	})

	s.Run("not found", func() {
		_, err := s.repo.UpdateHitPoints(s.ctx, character.UpdateHitPointsInput{
			ID:        "char_missing",
			HitPoints: dnd5e.HitPoints{Current: 1, Max: 1},
		})
		s.True(errors.IsNotFound(err))
	})
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	_, err := s.repo.Create(s.ctx, character.CreateInput{Character: s.testCharacter()})
	s.Require().NoError(err)

	s.Run("successful delete", func() {
		_, err := s.repo.Delete(s.ctx, character.DeleteInput{ID: testCharID})
		s.NoError(err)

		_, err = s.repo.Get(s.ctx, character.GetInput{ID: testCharID})
		s.True(errors.IsNotFound(err))

		// Removed from the user index too
		list, err := s.repo.ListByUserID(s.ctx, character.ListByUserIDInput{UserID: testUserID})
		s.Require().NoError(err)
		s.Empty(list.Characters)
	})

	s.Run("not found", func() {
		_, err := s.repo.Delete(s.ctx, character.DeleteInput{ID: testCharID})
		s.True(errors.IsNotFound(err))
	})
}

func (s *RedisRepositoryTestSuite) TestListByUserID() {
	first := s.testCharacter()
	second := s.testCharacter()
	second.ID = "char_789"
	other := s.testCharacter()
	other.ID = "char_other"
	other.UserID = "user_other"

	for _, c := range []*dnd5e.Character{first, second, other} {
		_, err := s.repo.Create(s.ctx, character.CreateInput{Character: c})
		s.Require().NoError(err)
	}

	s.Run("lists only the user's characters", func() {
		output, err := s.repo.ListByUserID(s.ctx, character.ListByUserIDInput{UserID: testUserID})

		s.NoError(err)
		s.Len(output.Characters, 2)
		for _, c := range output.Characters {
			s.Equal(testUserID, c.UserID)
		}
	})

	s.Run("empty user ID", func() {
		_, err := s.repo.ListByUserID(s.ctx, character.ListByUserIDInput{})
		s.True(errors.IsInvalidArgument(err))
	})
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}
