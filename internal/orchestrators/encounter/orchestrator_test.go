package encounter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/tabletopforge/encounter-api/internal/entities/dnd5e"
	"github.com/tabletopforge/encounter-api/internal/errors"
	"github.com/tabletopforge/encounter-api/internal/orchestrators/encounter"
	"github.com/tabletopforge/encounter-api/internal/pkg/idgen"
	characterrepo "github.com/tabletopforge/encounter-api/internal/repositories/character"
	charactermock "github.com/tabletopforge/encounter-api/internal/repositories/character/mock"
	encounterrepo "github.com/tabletopforge/encounter-api/internal/repositories/encounter"
	"github.com/tabletopforge/encounter-api/internal/testutils"
)

const testUserID = "user_1"

// scriptedRoller returns queued d20 values in order, then 10s
type scriptedRoller struct {
	rolls []int
	next  int
}

func (r *scriptedRoller) Roll(_ int) int {
	if r.next >= len(r.rolls) {
		return 10
	}
	v := r.rolls[r.next]
	r.next++
	return v
}

type OrchestratorTestSuite struct {
	suite.Suite
	orc           encounter.Service
	characterRepo characterrepo.Repository
	encounterRepo encounterrepo.Repository
	roller        *scriptedRoller
	cleanup       func()
	ctx           context.Context
}

func (s *OrchestratorTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.ctx = context.Background()

	charRepo, err := characterrepo.NewRedis(&characterrepo.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.characterRepo = charRepo

	encRepo, err := encounterrepo.NewRedis(&encounterrepo.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.encounterRepo = encRepo

	s.roller = &scriptedRoller{}

	orc, err := encounter.NewOrchestrator(&encounter.Config{
		CharacterRepo: charRepo,
		EncounterRepo: encRepo,
		IDGenerator:   idgen.NewSequential("enc"),
		Roller:        s.roller,
	})
	s.Require().NoError(err)
	s.orc = orc
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.cleanup()
}

// seedCharacter stores a roster character with the given id, name,
// initiative bonus, and hit points.
func (s *OrchestratorTestSuite) seedCharacter(id, name string, bonus, maxHP int) {
	_, err := s.characterRepo.Create(s.ctx, characterrepo.CreateInput{Character: &dnd5e.Character{
		ID:              id,
		UserID:          testUserID,
		Name:            name,
		Type:            dnd5e.CharacterTypePC,
		ArmorClass:      15,
		HitPoints:       dnd5e.HitPoints{Current: maxHP, Max: maxHP},
		InitiativeBonus: bonus,
	}})
	s.Require().NoError(err)
}

// createParty seeds three characters and an encounter containing them,
// returning the encounter id.
func (s *OrchestratorTestSuite) createParty() string {
	s.seedCharacter("char_a", "Astrid", 3, 20)
	s.seedCharacter("char_b", "Bram", 1, 15)
	s.seedCharacter("char_c", "Cora", 0, 12)

	out, err := s.orc.CreateEncounter(s.ctx, &encounter.CreateEncounterInput{
		UserID:       testUserID,
		Name:         "Bandit Camp",
		CharacterIDs: []string{"char_a", "char_b", "char_c"},
	})
	s.Require().NoError(err)
	return out.Encounter.ID
}

func (s *OrchestratorTestSuite) TestCreateEncounter() {
	encID := s.createParty()

	out, err := s.orc.GetEncounter(s.ctx, &encounter.GetEncounterInput{EncounterID: encID})
	s.Require().NoError(err)

	enc := out.Encounter
	s.False(enc.IsActive)
	s.Equal(1, enc.CurrentRound)
	s.Equal(0, enc.CurrentTurnIndex)
	s.Require().Len(enc.Participants, 3)
	s.Equal("Astrid", enc.Participants[0].Name)
	for _, p := range enc.Participants {
		s.Zero(p.Initiative)
		s.False(p.IsDead)
		s.Equal(dnd5e.DeathSaves{}, p.DeathSaves)
	}
}

func (s *OrchestratorTestSuite) TestCreateEncounterMissingCharacter() {
	s.seedCharacter("char_a", "Astrid", 3, 20)

	_, err := s.orc.CreateEncounter(s.ctx, &encounter.CreateEncounterInput{
		UserID:       testUserID,
		Name:         "Bandit Camp",
		CharacterIDs: []string{"char_a", "char_missing"},
	})
	s.True(errors.IsNotFound(err))

	list, err := s.orc.ListEncounters(s.ctx, &encounter.ListEncountersInput{UserID: testUserID})
	s.Require().NoError(err)
	s.Empty(list.Encounters)
}

func (s *OrchestratorTestSuite) TestParticipantsAreSnapshots() {
	encID := s.createParty()

	_, err := s.characterRepo.UpdateHitPoints(s.ctx, characterrepo.UpdateHitPointsInput{
		ID:        "char_a",
		HitPoints: dnd5e.HitPoints{Current: 1, Max: 20},
	})
	s.Require().NoError(err)

	out, err := s.orc.GetEncounter(s.ctx, &encounter.GetEncounterInput{EncounterID: encID})
	s.Require().NoError(err)
	s.Equal(20, out.Encounter.FindParticipant("char_a").HitPoints.Current)
}

func (s *OrchestratorTestSuite) TestStartEncounter() {
	encID := s.createParty()

	out, err := s.orc.StartEncounter(s.ctx, &encounter.StartEncounterInput{EncounterID: encID})
	s.Require().NoError(err)
	s.True(out.Encounter.IsActive)
	s.Equal(1, out.Encounter.CurrentRound)
	s.Equal(0, out.Encounter.CurrentTurnIndex)

	current, err := s.orc.GetCurrentEncounter(s.ctx, &encounter.GetCurrentEncounterInput{UserID: testUserID})
	s.Require().NoError(err)
	s.Equal(encID, current.Encounter.ID)
}

func (s *OrchestratorTestSuite) TestStartResetsPreviousRun() {
	encID := s.createParty()

	_, err := s.orc.StartEncounter(s.ctx, &encounter.StartEncounterInput{EncounterID: encID})
	s.Require().NoError(err)

	_, err = s.orc.ApplyHitPointDelta(s.ctx, &encounter.ApplyHitPointDeltaInput{
		EncounterID: encID, ParticipantID: "char_c", Amount: -50,
	})
	s.Require().NoError(err)

	_, err = s.orc.EndEncounter(s.ctx, &encounter.EndEncounterInput{EncounterID: encID})
	s.Require().NoError(err)

	out, err := s.orc.StartEncounter(s.ctx, &encounter.StartEncounterInput{EncounterID: encID})
	s.Require().NoError(err)

	p := out.Encounter.FindParticipant("char_c")
	s.False(p.IsDead)
	s.Zero(p.Initiative)
	s.Equal(dnd5e.DeathSaves{}, p.DeathSaves)
}

func (s *OrchestratorTestSuite) TestRollAllInitiative() {
	encID := s.createParty()
	// Astrid 5+3=8, Bram 18+1=19, Cora 12+0=12
	s.roller.rolls = []int{5, 18, 12}

	out, err := s.orc.RollAllInitiative(s.ctx, &encounter.RollAllInitiativeInput{EncounterID: encID})
	s.Require().NoError(err)

	enc := out.Encounter
	s.Equal(0, enc.CurrentTurnIndex)
	s.Equal("Bram", enc.Participants[0].Name)
	s.Equal(19, enc.Participants[0].Initiative)
	s.Equal("Cora", enc.Participants[1].Name)
	s.Equal("Astrid", enc.Participants[2].Name)
	for i := 1; i < len(enc.Participants); i++ {
		s.GreaterOrEqual(enc.Participants[i-1].Initiative, enc.Participants[i].Initiative)
	}
}

func (s *OrchestratorTestSuite) TestSetInitiativeKeepsCurrentActor() {
	encID := s.createParty()
	s.roller.rolls = []int{17, 14, 10} // Astrid 20, Bram 15, Cora 10

	_, err := s.orc.RollAllInitiative(s.ctx, &encounter.RollAllInitiativeInput{EncounterID: encID})
	s.Require().NoError(err)

	_, err = s.orc.NextTurn(s.ctx, &encounter.NextTurnInput{EncounterID: encID})
	s.Require().NoError(err)

	// Bram holds the turn; moving Cora above him must not steal it
	out, err := s.orc.SetInitiative(s.ctx, &encounter.SetInitiativeInput{
		EncounterID: encID, ParticipantID: "char_c", Initiative: 18,
	})
	s.Require().NoError(err)

	enc := out.Encounter
	s.Equal("Cora", enc.Participants[1].Name)
	s.Equal(2, enc.CurrentTurnIndex)
	s.Equal("Bram", enc.CurrentParticipant().Name)
}

func (s *OrchestratorTestSuite) TestRollSingleResorts() {
	encID := s.createParty()
	s.roller.rolls = []int{17, 14, 10} // Astrid 20, Bram 15, Cora 10

	_, err := s.orc.RollAllInitiative(s.ctx, &encounter.RollAllInitiativeInput{EncounterID: encID})
	s.Require().NoError(err)

	s.roller.rolls = append(s.roller.rolls, 19) // Cora re-rolls to 19
	out, err := s.orc.RollParticipantInitiative(s.ctx, &encounter.RollParticipantInitiativeInput{
		EncounterID: encID, ParticipantID: "char_c",
	})
	s.Require().NoError(err)

	s.Equal(19, out.Participant.Initiative)
	s.Equal("Cora", out.Encounter.Participants[1].Name)
	s.Equal("Astrid", out.Encounter.CurrentParticipant().Name)
}

func (s *OrchestratorTestSuite) TestNextTurnWrapsRound() {
	encID := s.createParty()

	for i := 0; i < 2; i++ {
		out, err := s.orc.NextTurn(s.ctx, &encounter.NextTurnInput{EncounterID: encID})
		s.Require().NoError(err)
		s.Equal(i+1, out.Encounter.CurrentTurnIndex)
		s.Equal(1, out.Encounter.CurrentRound)
	}

	out, err := s.orc.NextTurn(s.ctx, &encounter.NextTurnInput{EncounterID: encID})
	s.Require().NoError(err)
	s.Equal(0, out.Encounter.CurrentTurnIndex)
	s.Equal(2, out.Encounter.CurrentRound)
}

func (s *OrchestratorTestSuite) TestApplyHitPointDelta() {
	encID := s.createParty()

	s.Run("damage clamps at zero", func() {
		out, err := s.orc.ApplyHitPointDelta(s.ctx, &encounter.ApplyHitPointDeltaInput{
			EncounterID: encID, ParticipantID: "char_c", Amount: -15,
		})
		s.Require().NoError(err)
		s.Equal(0, out.Participant.HitPoints.Current)
		s.False(out.Participant.IsDead)
		s.Equal(dnd5e.StatusUnconscious, out.Participant.Status())
		s.False(out.MassiveDamage)
	})

	s.Run("healing revives and resets death saves", func() {
		_, err := s.orc.UpdateDeathSaves(s.ctx, &encounter.UpdateDeathSavesInput{
			EncounterID: encID, ParticipantID: "char_c", Kind: encounter.DeathSaveFailure, Value: 2,
		})
		s.Require().NoError(err)

		out, err := s.orc.ApplyHitPointDelta(s.ctx, &encounter.ApplyHitPointDeltaInput{
			EncounterID: encID, ParticipantID: "char_c", Amount: 5,
		})
		s.Require().NoError(err)
		s.Equal(5, out.Participant.HitPoints.Current)
		s.Equal(dnd5e.DeathSaves{}, out.Participant.DeathSaves)
		s.False(out.Participant.IsStable)
		s.Equal(dnd5e.StatusNormal, out.Participant.Status())
	})

	s.Run("healing clamps at max", func() {
		out, err := s.orc.ApplyHitPointDelta(s.ctx, &encounter.ApplyHitPointDeltaInput{
			EncounterID: encID, ParticipantID: "char_c", Amount: 100,
		})
		s.Require().NoError(err)
		s.Equal(12, out.Participant.HitPoints.Current)
	})
}

func (s *OrchestratorTestSuite) TestMassiveDamage() {
	encID := s.createParty()

	// Astrid at 20 max: drop to 5, then take 30
	_, err := s.orc.ApplyHitPointDelta(s.ctx, &encounter.ApplyHitPointDeltaInput{
		EncounterID: encID, ParticipantID: "char_a", Amount: -15,
	})
	s.Require().NoError(err)

	out, err := s.orc.ApplyHitPointDelta(s.ctx, &encounter.ApplyHitPointDeltaInput{
		EncounterID: encID, ParticipantID: "char_a", Amount: -30,
	})
	s.Require().NoError(err)

	p := out.Participant
	s.True(out.MassiveDamage)
	s.True(p.IsDead)
	s.False(p.IsStable)
	s.Equal(0, p.HitPoints.Current)
	s.Equal(dnd5e.DeathSaves{}, p.DeathSaves)
	s.Equal(dnd5e.StatusDead, p.Status())

	s.Run("healing a corpse revives", func() {
		out, err := s.orc.ApplyHitPointDelta(s.ctx, &encounter.ApplyHitPointDeltaInput{
			EncounterID: encID, ParticipantID: "char_a", Amount: 8,
		})
		s.Require().NoError(err)
		s.False(out.Participant.IsDead)
		s.Equal(8, out.Participant.HitPoints.Current)
	})
}

func (s *OrchestratorTestSuite) TestConcentrationCheck() {
	encID := s.createParty()

	_, err := s.orc.SetConcentration(s.ctx, &encounter.SetConcentrationInput{
		EncounterID: encID, ParticipantID: "char_a", Concentrating: true,
	})
	s.Require().NoError(err)

	s.Run("small hits use the floor DC", func() {
		out, err := s.orc.ApplyHitPointDelta(s.ctx, &encounter.ApplyHitPointDeltaInput{
			EncounterID: encID, ParticipantID: "char_a", Amount: -6,
		})
		s.Require().NoError(err)
		s.True(out.ConcentrationCheck)
		s.Equal(10, out.ConcentrationDC)
		s.True(out.Participant.IsConcentrating)
	})

	s.Run("large hits use half damage", func() {
		out, err := s.orc.ApplyHitPointDelta(s.ctx, &encounter.ApplyHitPointDeltaInput{
			EncounterID: encID, ParticipantID: "char_a", Amount: -26,
		})
		s.Require().NoError(err)
		s.Equal(13, out.ConcentrationDC)
		s.Equal(0, out.Participant.HitPoints.Current)
	})

	s.Run("healing never triggers a check", func() {
		out, err := s.orc.ApplyHitPointDelta(s.ctx, &encounter.ApplyHitPointDeltaInput{
			EncounterID: encID, ParticipantID: "char_a", Amount: 4,
		})
		s.Require().NoError(err)
		s.False(out.ConcentrationCheck)
	})
}

func (s *OrchestratorTestSuite) TestDeathSaves() {
	encID := s.createParty()

	s.Run("three successes stabilize", func() {
		var out *encounter.UpdateDeathSavesOutput
		var err error
		for v := 1; v <= 3; v++ {
			out, err = s.orc.UpdateDeathSaves(s.ctx, &encounter.UpdateDeathSavesInput{
				EncounterID: encID, ParticipantID: "char_a", Kind: encounter.DeathSaveSuccess, Value: v,
			})
			s.Require().NoError(err)
		}
		s.True(out.Participant.IsStable)
		s.Equal(dnd5e.DeathSaves{}, out.Participant.DeathSaves)
	})

	s.Run("three failures kill", func() {
		out, err := s.orc.UpdateDeathSaves(s.ctx, &encounter.UpdateDeathSavesInput{
			EncounterID: encID, ParticipantID: "char_b", Kind: encounter.DeathSaveFailure, Value: 3,
		})
		s.Require().NoError(err)
		s.True(out.Participant.IsDead)
		s.Equal(dnd5e.DeathSaves{}, out.Participant.DeathSaves)
	})

	s.Run("values clamp into range", func() {
		out, err := s.orc.UpdateDeathSaves(s.ctx, &encounter.UpdateDeathSavesInput{
			EncounterID: encID, ParticipantID: "char_c", Kind: encounter.DeathSaveSuccess, Value: -5,
		})
		s.Require().NoError(err)
		s.Equal(0, out.Participant.DeathSaves.Successes)

		out, err = s.orc.UpdateDeathSaves(s.ctx, &encounter.UpdateDeathSavesInput{
			EncounterID: encID, ParticipantID: "char_c", Kind: encounter.DeathSaveFailure, Value: 99,
		})
		s.Require().NoError(err)
		s.True(out.Participant.IsDead)
	})

	s.Run("invalid kind rejected", func() {
		_, err := s.orc.UpdateDeathSaves(s.ctx, &encounter.UpdateDeathSavesInput{
			EncounterID: encID, ParticipantID: "char_c", Kind: "fumble", Value: 1,
		})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *OrchestratorTestSuite) TestConditions() {
	encID := s.createParty()

	dur := 3
	out, err := s.orc.AddCondition(s.ctx, &encounter.AddConditionInput{
		EncounterID: encID, ParticipantID: "char_a", ConditionID: "poisoned", Duration: &dur,
	})
	s.Require().NoError(err)
	s.Require().Len(out.Participant.Conditions, 1)
	s.Equal("Poisoned", out.Participant.Conditions[0].Name)
	s.Require().NotNil(out.Participant.Conditions[0].Duration)
	s.Equal(3, *out.Participant.Conditions[0].Duration)

	s.Run("duplicate add is a no-op", func() {
		out, err := s.orc.AddCondition(s.ctx, &encounter.AddConditionInput{
			EncounterID: encID, ParticipantID: "char_a", ConditionID: "poisoned",
		})
		s.Require().NoError(err)
		s.Len(out.Participant.Conditions, 1)
	})

	s.Run("instances are independent per participant", func() {
		out, err := s.orc.AddCondition(s.ctx, &encounter.AddConditionInput{
			EncounterID: encID, ParticipantID: "char_b", ConditionID: "poisoned",
		})
		s.Require().NoError(err)
		s.Nil(out.Participant.Conditions[0].Duration)
	})

	s.Run("unknown condition rejected", func() {
		_, err := s.orc.AddCondition(s.ctx, &encounter.AddConditionInput{
			EncounterID: encID, ParticipantID: "char_a", ConditionID: "sleepy",
		})
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("remove and remove-missing", func() {
		out, err := s.orc.RemoveCondition(s.ctx, &encounter.RemoveConditionInput{
			EncounterID: encID, ParticipantID: "char_a", ConditionID: "poisoned",
		})
		s.Require().NoError(err)
		s.Empty(out.Participant.Conditions)

		out, err = s.orc.RemoveCondition(s.ctx, &encounter.RemoveConditionInput{
			EncounterID: encID, ParticipantID: "char_a", ConditionID: "poisoned",
		})
		s.Require().NoError(err)
		s.Empty(out.Participant.Conditions)
	})
}

func (s *OrchestratorTestSuite) TestAddParticipant() {
	encID := s.createParty()
	s.seedCharacter("char_d", "Dünyar", 2, 30)

	s.roller.rolls = []int{17, 14, 10} // Astrid 20, Bram 15, Cora 10
	_, err := s.orc.RollAllInitiative(s.ctx, &encounter.RollAllInitiativeInput{EncounterID: encID})
	s.Require().NoError(err)

	s.roller.rolls = append(s.roller.rolls, 14) // Dünyar 16, between Astrid and Bram
	out, err := s.orc.AddParticipant(s.ctx, &encounter.AddParticipantInput{
		EncounterID: encID, CharacterID: "char_d",
	})
	s.Require().NoError(err)

	s.Equal(16, out.Participant.Initiative)
	s.Equal("Dünyar", out.Encounter.Participants[1].Name)
	s.Equal("Astrid", out.Encounter.CurrentParticipant().Name)

	s.Run("duplicate add rejected", func() {
		_, err := s.orc.AddParticipant(s.ctx, &encounter.AddParticipantInput{
			EncounterID: encID, CharacterID: "char_d",
		})
		s.True(errors.IsAlreadyExists(err))
	})
}

func (s *OrchestratorTestSuite) TestRemoveParticipant() {
	encID := s.createParty()
	s.roller.rolls = []int{17, 14, 10} // Astrid 20, Bram 15, Cora 10
	_, err := s.orc.RollAllInitiative(s.ctx, &encounter.RollAllInitiativeInput{EncounterID: encID})
	s.Require().NoError(err)

	_, err = s.orc.NextTurn(s.ctx, &encounter.NextTurnInput{EncounterID: encID})
	s.Require().NoError(err)

	s.Run("removing an earlier slot keeps the actor", func() {
		out, err := s.orc.RemoveParticipant(s.ctx, &encounter.RemoveParticipantInput{
			EncounterID: encID, ParticipantID: "char_a",
		})
		s.Require().NoError(err)
		s.Equal(0, out.Encounter.CurrentTurnIndex)
		s.Equal("Bram", out.Encounter.CurrentParticipant().Name)
	})

	s.Run("removing the last slot clamps to the top", func() {
		_, err := s.orc.NextTurn(s.ctx, &encounter.NextTurnInput{EncounterID: encID})
		s.Require().NoError(err)

		out, err := s.orc.RemoveParticipant(s.ctx, &encounter.RemoveParticipantInput{
			EncounterID: encID, ParticipantID: "char_c",
		})
		s.Require().NoError(err)
		s.Equal(0, out.Encounter.CurrentTurnIndex)
		s.Equal("Bram", out.Encounter.CurrentParticipant().Name)
	})

	s.Run("missing participant rejected", func() {
		_, err := s.orc.RemoveParticipant(s.ctx, &encounter.RemoveParticipantInput{
			EncounterID: encID, ParticipantID: "char_missing",
		})
		s.True(errors.IsNotFound(err))
	})
}

func (s *OrchestratorTestSuite) TestEndEncounter() {
	encID := s.createParty()
	_, err := s.orc.StartEncounter(s.ctx, &encounter.StartEncounterInput{EncounterID: encID})
	s.Require().NoError(err)

	_, err = s.orc.ApplyHitPointDelta(s.ctx, &encounter.ApplyHitPointDeltaInput{
		EncounterID: encID, ParticipantID: "char_a", Amount: -12,
	})
	s.Require().NoError(err)

	out, err := s.orc.EndEncounter(s.ctx, &encounter.EndEncounterInput{EncounterID: encID})
	s.Require().NoError(err)
	s.False(out.Encounter.IsActive)

	_, err = s.orc.GetCurrentEncounter(s.ctx, &encounter.GetCurrentEncounterInput{UserID: testUserID})
	s.True(errors.IsNotFound(err))

	// No write-back on plain end
	char, err := s.characterRepo.Get(s.ctx, characterrepo.GetInput{ID: "char_a"})
	s.Require().NoError(err)
	s.Equal(20, char.Character.HitPoints.Current)
}

func (s *OrchestratorTestSuite) TestEndAndSaveEncounter() {
	encID := s.createParty()
	_, err := s.orc.StartEncounter(s.ctx, &encounter.StartEncounterInput{EncounterID: encID})
	s.Require().NoError(err)

	_, err = s.orc.ApplyHitPointDelta(s.ctx, &encounter.ApplyHitPointDeltaInput{
		EncounterID: encID, ParticipantID: "char_a", Amount: -12,
	})
	s.Require().NoError(err)

	out, err := s.orc.EndAndSaveEncounter(s.ctx, &encounter.EndAndSaveEncounterInput{EncounterID: encID})
	s.Require().NoError(err)
	s.False(out.Encounter.IsActive)
	s.Empty(out.Failures)

	char, err := s.characterRepo.Get(s.ctx, characterrepo.GetInput{ID: "char_a"})
	s.Require().NoError(err)
	s.Equal(8, char.Character.HitPoints.Current)
}

func (s *OrchestratorTestSuite) TestDeleteEncounterClearsCurrent() {
	encID := s.createParty()
	_, err := s.orc.StartEncounter(s.ctx, &encounter.StartEncounterInput{EncounterID: encID})
	s.Require().NoError(err)

	_, err = s.orc.DeleteEncounter(s.ctx, &encounter.DeleteEncounterInput{EncounterID: encID})
	s.Require().NoError(err)

	_, err = s.orc.GetEncounter(s.ctx, &encounter.GetEncounterInput{EncounterID: encID})
	s.True(errors.IsNotFound(err))

	_, err = s.orc.GetCurrentEncounter(s.ctx, &encounter.GetCurrentEncounterInput{UserID: testUserID})
	s.True(errors.IsNotFound(err))
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

// End-and-save write-back failures are reported, not hidden, and the
// encounter still closes.
func TestEndAndSavePartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	client, cleanup := testutils.CreateTestRedisClient(t)
	defer cleanup()

	encRepo, err := encounterrepo.NewRedis(&encounterrepo.RedisConfig{Client: client})
	if err != nil {
		t.Fatal(err)
	}

	charRepo := charactermock.NewMockRepository(ctrl)

	orc, err := encounter.NewOrchestrator(&encounter.Config{
		CharacterRepo: charRepo,
		EncounterRepo: encRepo,
		IDGenerator:   idgen.NewSequential("enc"),
		Roller:        &scriptedRoller{},
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = encRepo.Create(ctx, encounterrepo.CreateInput{Encounter: &dnd5e.Encounter{
		ID:     "enc_1",
		UserID: testUserID,
		Name:   "Bandit Camp",
		Participants: []*dnd5e.Participant{
			{Character: dnd5e.Character{ID: "char_a", Name: "Astrid",
				HitPoints: dnd5e.HitPoints{Current: 8, Max: 20}}},
			{Character: dnd5e.Character{ID: "char_b", Name: "Bram",
				HitPoints: dnd5e.HitPoints{Current: 15, Max: 15}}},
		},
		CurrentRound: 1,
		IsActive:     true,
	}})
	if err != nil {
		t.Fatal(err)
	}

	charRepo.EXPECT().
		UpdateHitPoints(gomock.Any(), characterrepo.UpdateHitPointsInput{
			ID: "char_a", HitPoints: dnd5e.HitPoints{Current: 8, Max: 20},
		}).
		Return(nil, errors.Unavailable("connection refused"))
	charRepo.EXPECT().
		UpdateHitPoints(gomock.Any(), characterrepo.UpdateHitPointsInput{
			ID: "char_b", HitPoints: dnd5e.HitPoints{Current: 15, Max: 15},
		}).
		Return(&characterrepo.UpdateHitPointsOutput{}, nil)

	out, err := orc.EndAndSaveEncounter(ctx, &encounter.EndAndSaveEncounterInput{EncounterID: "enc_1"})
	if err != nil {
		t.Fatalf("EndAndSaveEncounter returned error: %v", err)
	}

	if out.Encounter.IsActive {
		t.Error("encounter should be closed despite write-back failure")
	}
	if len(out.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(out.Failures))
	}
	if out.Failures[0].CharacterID != "char_a" {
		t.Errorf("expected failure for char_a, got %s", out.Failures[0].CharacterID)
	}
}
