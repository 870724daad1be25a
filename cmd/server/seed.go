package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tabletopforge/encounter-api/internal/entities/dnd5e"
	characterorc "github.com/tabletopforge/encounter-api/internal/orchestrators/character"
	encounterorc "github.com/tabletopforge/encounter-api/internal/orchestrators/encounter"
	"github.com/tabletopforge/encounter-api/internal/pkg/idgen"
	"github.com/tabletopforge/encounter-api/internal/redis"
	characterrepo "github.com/tabletopforge/encounter-api/internal/repositories/character"
	encounterrepo "github.com/tabletopforge/encounter-api/internal/repositories/encounter"
)

var seedUserID string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a sample roster for local development",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&flagRedisAddr, "redis-addr", "", "Redis address (overrides REDIS_ADDR)")
	seedCmd.Flags().StringVar(&seedUserID, "user", "dev", "user ID to own the seeded data")
}

func sampleRoster() []*dnd5e.Character {
	goblinCR := 0.25
	return []*dnd5e.Character{
		{
			Name:       "Astrid Ironoak",
			Type:       dnd5e.CharacterTypePC,
			Class:      "Fighter",
			Level:      3,
			ArmorClass: 17,
			HitPoints:  dnd5e.HitPoints{Current: 28, Max: 28},
			Abilities: dnd5e.AbilityScores{
				Strength: 16, Dexterity: 13, Constitution: 15,
				Intelligence: 10, Wisdom: 12, Charisma: 8,
			},
			Speed: 30,
		},
		{
			Name:       "Brother Aldric",
			Type:       dnd5e.CharacterTypeNPC,
			Class:      "Cleric",
			Level:      2,
			ArmorClass: 14,
			HitPoints:  dnd5e.HitPoints{Current: 15, Max: 15},
			Abilities: dnd5e.AbilityScores{
				Strength: 12, Dexterity: 10, Constitution: 13,
				Intelligence: 11, Wisdom: 16, Charisma: 14,
			},
			Speed: 30,
		},
		{
			Name:       "Goblin Skirmisher",
			Type:       dnd5e.CharacterTypeMonster,
			ArmorClass: 15,
			HitPoints:  dnd5e.HitPoints{Current: 7, Max: 7},
			Abilities: dnd5e.AbilityScores{
				Strength: 8, Dexterity: 14, Constitution: 10,
				Intelligence: 10, Wisdom: 8, Charisma: 8,
			},
			Speed: 30,
			MonsterStats: &dnd5e.MonsterStats{
				Size:             "Small",
				CreatureType:     "humanoid (goblinoid)",
				Alignment:        "neutral evil",
				ChallengeRating:  goblinCR,
				ExperiencePoints: dnd5e.XPForCR(goblinCR),
				Senses:           "darkvision 60 ft., passive Perception 9",
				Languages:        "Common, Goblin",
				Skills: map[string]dnd5e.ProficiencyLevel{
					"stealth": dnd5e.ProficiencyExpert,
				},
				SpecialTraits: []dnd5e.NamedBlock{
					{Name: "Nimble Escape", Description: "The goblin can take the Disengage or Hide action as a bonus action on each of its turns."},
				},
				Actions: []dnd5e.NamedBlock{
					{Name: "Scimitar", Description: "Melee Weapon Attack: +4 to hit, reach 5 ft., one target. Hit: 5 (1d6+2) slashing damage."},
				},
			},
		},
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg.LogLevel)

	client, err := redis.NewClient(cfg.RedisAddr, nil)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}

	charRepo, err := characterrepo.NewRedis(&characterrepo.RedisConfig{Client: client})
	if err != nil {
		return fmt.Errorf("failed to create character repository: %w", err)
	}
	encRepo, err := encounterrepo.NewRedis(&encounterrepo.RedisConfig{Client: client})
	if err != nil {
		return fmt.Errorf("failed to create encounter repository: %w", err)
	}

	charOrc, err := characterorc.NewOrchestrator(&characterorc.Config{
		CharacterRepo: charRepo,
		EncounterRepo: encRepo,
		IDGenerator:   idgen.NewUUID("char"),
	})
	if err != nil {
		return fmt.Errorf("failed to create character orchestrator: %w", err)
	}

	encOrc, err := encounterorc.NewOrchestrator(&encounterorc.Config{
		CharacterRepo: charRepo,
		EncounterRepo: encRepo,
		IDGenerator:   idgen.NewUUID("enc"),
	})
	if err != nil {
		return fmt.Errorf("failed to create encounter orchestrator: %w", err)
	}

	ctx := context.Background()
	ids := make([]string, 0, 3)
	for _, c := range sampleRoster() {
		out, err := charOrc.CreateCharacter(ctx, &characterorc.CreateCharacterInput{
			UserID:    seedUserID,
			Character: c,
		})
		if err != nil {
			return fmt.Errorf("failed to seed character %q: %w", c.Name, err)
		}
		ids = append(ids, out.Character.ID)
		slog.Info("seeded character", "id", out.Character.ID, "name", c.Name)
	}

	enc, err := encOrc.CreateEncounter(ctx, &encounterorc.CreateEncounterInput{
		UserID:       seedUserID,
		Name:         "Roadside Ambush",
		CharacterIDs: ids,
		DMNotes:      "Goblins attack from the treeline at dusk.",
	})
	if err != nil {
		return fmt.Errorf("failed to seed encounter: %w", err)
	}
	slog.Info("seeded encounter", "id", enc.Encounter.ID, "user", seedUserID)

	return nil
}
