package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/tabletopforge/encounter-api/internal/handlers/api"
	characterorc "github.com/tabletopforge/encounter-api/internal/orchestrators/character"
	diceorc "github.com/tabletopforge/encounter-api/internal/orchestrators/dice"
	encounterorc "github.com/tabletopforge/encounter-api/internal/orchestrators/encounter"
	"github.com/tabletopforge/encounter-api/internal/pkg/idgen"
	"github.com/tabletopforge/encounter-api/internal/redis"
	characterrepo "github.com/tabletopforge/encounter-api/internal/repositories/character"
	encounterrepo "github.com/tabletopforge/encounter-api/internal/repositories/encounter"
	"github.com/tabletopforge/encounter-api/internal/repositories/rollhistory"
)

// serverConfig is populated from the environment; flags override
type serverConfig struct {
	Port          int    `env:"PORT" envDefault:"8080"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisUseTLS   bool   `env:"REDIS_USE_TLS" envDefault:"false"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
}

var (
	flagPort      int
	flagRedisAddr string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API server",
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&flagPort, "port", 0, "HTTP server port (overrides PORT)")
	serverCmd.Flags().StringVar(&flagRedisAddr, "redis-addr", "", "Redis address (overrides REDIS_ADDR)")
}

func loadConfig(cmd *cobra.Command) (*serverConfig, error) {
	cfg := &serverConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cmd.Flags().Changed("port") {
		cfg.Port = flagPort
	}
	if cmd.Flags().Changed("redis-addr") {
		cfg.RedisAddr = flagRedisAddr
	}

	return cfg, nil
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}

// buildHandler wires repositories, orchestrators, and the API handler
// over one Redis client.
func buildHandler(client redis.Client) (*api.Handler, error) {
	charRepo, err := characterrepo.NewRedis(&characterrepo.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create character repository: %w", err)
	}
	encRepo, err := encounterrepo.NewRedis(&encounterrepo.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create encounter repository: %w", err)
	}
	historyRepo, err := rollhistory.NewRedis(&rollhistory.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create roll history repository: %w", err)
	}

	charOrc, err := characterorc.NewOrchestrator(&characterorc.Config{
		CharacterRepo: charRepo,
		EncounterRepo: encRepo,
		IDGenerator:   idgen.NewUUID("char"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create character orchestrator: %w", err)
	}

	encOrc, err := encounterorc.NewOrchestrator(&encounterorc.Config{
		CharacterRepo: charRepo,
		EncounterRepo: encRepo,
		IDGenerator:   idgen.NewUUID("enc"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create encounter orchestrator: %w", err)
	}

	diceOrc, err := diceorc.NewOrchestrator(&diceorc.Config{
		RollHistoryRepo: historyRepo,
		IDGenerator:     idgen.NewUUID("roll"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dice orchestrator: %w", err)
	}

	return api.NewHandler(&api.Config{
		CharacterService: charOrc,
		EncounterService: encOrc,
		DiceService:      diceOrc,
	})
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg.LogLevel)

	client, err := redis.NewClient(cfg.RedisAddr, &redis.Options{
		PoolSize: cfg.RedisPoolSize,
		UseTLS:   cfg.RedisUseTLS,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}

	handler, err := buildHandler(client)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "redis", cfg.RedisAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		slog.Info("received shutdown signal, stopping")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed", "error", err.Error())
			return srv.Close()
		}
		slog.Info("server stopped")
		return nil
	case err := <-errChan:
		return err
	}
}
