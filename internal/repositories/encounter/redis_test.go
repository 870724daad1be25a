package encounter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tabletopforge/encounter-api/internal/entities/dnd5e"
	"github.com/tabletopforge/encounter-api/internal/errors"
	encounter "github.com/tabletopforge/encounter-api/internal/repositories/encounter"
	"github.com/tabletopforge/encounter-api/internal/testutils"
)

const (
	testEncounterID = "enc_123"
	testUserID      = "user_456"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	repo    encounter.Repository
	cleanup func()
	ctx     context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	repo, err := encounter.NewRedis(&encounter.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) testEncounter() *dnd5e.Encounter {
	return &dnd5e.Encounter{
		ID:     testEncounterID,
		UserID: testUserID,
		Name:   "Goblin Ambush",
		Participants: []*dnd5e.Participant{
			{Character: dnd5e.Character{ID: "char_1", Name: "Thorin",
				HitPoints: dnd5e.HitPoints{Current: 20, Max: 20}}},
			{Character: dnd5e.Character{ID: "char_2", Name: "Goblin",
				HitPoints: dnd5e.HitPoints{Current: 7, Max: 7}}},
		},
		CurrentRound:     1,
		CurrentTurnIndex: 0,
	}
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	_, err := s.repo.Create(s.ctx, encounter.CreateInput{Encounter: s.testEncounter()})
	s.Require().NoError(err)

	s.Run("round trips participants", func() {
		out, err := s.repo.Get(s.ctx, encounter.GetInput{ID: testEncounterID})

		s.Require().NoError(err)
		s.Equal("Goblin Ambush", out.Encounter.Name)
		s.Require().Len(out.Encounter.Participants, 2)
		s.Equal("Thorin", out.Encounter.Participants[0].Name)
		s.False(out.Encounter.IsActive)
	})

	s.Run("duplicate create fails", func() {
		_, err := s.repo.Create(s.ctx, encounter.CreateInput{Encounter: s.testEncounter()})
		s.True(errors.IsAlreadyExists(err))
	})

	s.Run("get missing fails", func() {
		_, err := s.repo.Get(s.ctx, encounter.GetInput{ID: "enc_missing"})
		s.True(errors.IsNotFound(err))
	})
}

func (s *RedisRepositoryTestSuite) TestUpdate() {
	_, err := s.repo.Create(s.ctx, encounter.CreateInput{Encounter: s.testEncounter()})
	s.Require().NoError(err)

	s.Run("persists combat state", func() {
		enc := s.testEncounter()
		enc.IsActive = true
		enc.CurrentRound = 3
		enc.CurrentTurnIndex = 1
		enc.Participants[1].IsDead = true

		_, err := s.repo.Update(s.ctx, encounter.UpdateInput{Encounter: enc})
		s.Require().NoError(err)

		out, err := s.repo.Get(s.ctx, encounter.GetInput{ID: testEncounterID})
		s.Require().NoError(err)
		s.True(out.Encounter.IsActive)
		s.Equal(3, out.Encounter.CurrentRound)
		s.True(out.Encounter.Participants[1].IsDead)
	})

	s.Run("missing encounter fails", func() {
		enc := s.testEncounter()
		enc.ID = "enc_missing"

		_, err := s.repo.Update(s.ctx, encounter.UpdateInput{Encounter: enc})
		s.True(errors.IsNotFound(err))
	})
}

func (s *RedisRepositoryTestSuite) TestCurrentPointer() {
	_, err := s.repo.Create(s.ctx, encounter.CreateInput{Encounter: s.testEncounter()})
	s.Require().NoError(err)

	s.Run("no current encounter initially", func() {
		_, err := s.repo.GetCurrent(s.ctx, encounter.GetCurrentInput{UserID: testUserID})
		s.True(errors.IsNotFound(err))
	})

	s.Run("set and get current", func() {
		_, err := s.repo.SetCurrent(s.ctx, encounter.SetCurrentInput{
			UserID:      testUserID,
			EncounterID: testEncounterID,
		})
		s.Require().NoError(err)

		out, err := s.repo.GetCurrent(s.ctx, encounter.GetCurrentInput{UserID: testUserID})
		s.Require().NoError(err)
		s.Equal(testEncounterID, out.Encounter.ID)
	})

	s.Run("set current to missing encounter fails", func() {
		_, err := s.repo.SetCurrent(s.ctx, encounter.SetCurrentInput{
			UserID:      testUserID,
			EncounterID: "enc_missing",
		})
		s.True(errors.IsNotFound(err))
	})

	s.Run("clear current", func() {
		_, err := s.repo.ClearCurrent(s.ctx, encounter.ClearCurrentInput{UserID: testUserID})
		s.Require().NoError(err)

		_, err = s.repo.GetCurrent(s.ctx, encounter.GetCurrentInput{UserID: testUserID})
		s.True(errors.IsNotFound(err))
	})

	s.Run("clearing again is a no-op", func() {
		_, err := s.repo.ClearCurrent(s.ctx, encounter.ClearCurrentInput{UserID: testUserID})
		s.NoError(err)
	})
}

func (s *RedisRepositoryTestSuite) TestDeleteClearsCurrent() {
	_, err := s.repo.Create(s.ctx, encounter.CreateInput{Encounter: s.testEncounter()})
	s.Require().NoError(err)
	_, err = s.repo.SetCurrent(s.ctx, encounter.SetCurrentInput{
		UserID:      testUserID,
		EncounterID: testEncounterID,
	})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, encounter.DeleteInput{ID: testEncounterID})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, encounter.GetInput{ID: testEncounterID})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.GetCurrent(s.ctx, encounter.GetCurrentInput{UserID: testUserID})
	s.True(errors.IsNotFound(err))

	list, err := s.repo.ListByUserID(s.ctx, encounter.ListByUserIDInput{UserID: testUserID})
	s.Require().NoError(err)
	s.Empty(list.Encounters)
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}
