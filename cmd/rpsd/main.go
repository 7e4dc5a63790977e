// Command rpsd serves prediction sessions to the host application over
// HTTP and WebSocket.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/John-N-Weaver/rps-predictor-sub000/internal/config"
	"github.com/John-N-Weaver/rps-predictor-sub000/internal/engine"
	"github.com/John-N-Weaver/rps-predictor-sub000/internal/handler"
	"github.com/John-N-Weaver/rps-predictor-sub000/internal/logger"
	"github.com/John-N-Weaver/rps-predictor-sub000/internal/store/memory"
	"github.com/John-N-Weaver/rps-predictor-sub000/internal/store/postgres"
	redisstore "github.com/John-N-Weaver/rps-predictor-sub000/internal/store/redis"
)

func main() {
	_ = godotenv.Load()
	logger.Init()
	cfg := config.Load()

	difficulty, err := engine.ParseDifficulty(cfg.Difficulty)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid DEFAULT_DIFFICULTY")
	}

	store, cleanup, err := buildStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store).Msg("Model store init failed")
	}
	defer cleanup()
	log.Info().Str("store", cfg.Store).Str("difficulty", string(difficulty)).Msg("Config loaded")

	sessions := handler.NewSessionHandler(engine.DefaultConfig(), store, difficulty, logger.Get())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	sessions.Register(mux)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("rpsd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Server shutdown failed")
	}
	// Flush every session's pending model snapshot before the store closes.
	sessions.CloseAll()
	log.Info().Msg("Shutdown complete")
}

// buildStore constructs the configured ModelStore. The memory store keeps
// models for the daemon's lifetime only.
func buildStore(cfg *config.Config) (engine.ModelStore, func(), error) {
	switch cfg.Store {
	case "redis":
		s, err := redisstore.NewStore(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "postgres":
		db, err := postgres.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewStore(db), func() { db.Close() }, nil
	default:
		return memory.NewStore(), func() {}, nil
	}
}
