package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/breadlab/breadquiz/internal/config"
	"github.com/breadlab/breadquiz/internal/database"
	"github.com/breadlab/breadquiz/internal/handler"
	"github.com/breadlab/breadquiz/internal/llm"
	"github.com/breadlab/breadquiz/internal/logger"
	"github.com/breadlab/breadquiz/internal/model"
	"github.com/breadlab/breadquiz/internal/repository"
	"github.com/breadlab/breadquiz/internal/router"
	"github.com/breadlab/breadquiz/internal/service"
	"github.com/breadlab/breadquiz/internal/validator"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.MustLoad()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting bread quiz server")

	// ─── Quiz Content ──────────────────────────────────────────────────
	questions := model.BakeryQuestions()
	catalog := model.DefaultBreadCatalog()

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup(questions)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize LLM Client ─────────────────────────────────────────
	// A missing key keeps the quiz usable; only results are refused.
	var streamer llm.Streamer
	gemini, err := llm.NewGeminiStreamer(ctx, cfg, log)
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		log.Warn().Msg("GEMINI_API_KEY is not set, result generation is disabled")
	case err != nil:
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	default:
		streamer = gemini
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	sessionRepo := repository.NewQuizSessionRepository(rdb, cfg.SessionTTL, cfg.StreamLockTTL)

	// ─── Initialize Services ──────────────────────────────────────────
	quizService := service.NewQuizService(sessionRepo, streamer, catalog, questions, cfg.StreamTimeout, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Quiz:   handler.NewQuizHandler(quizService, log),
		WS:     handler.NewWSHandler(quizService, log, cfg.AllowedOrigins),
		Health: handler.NewHealthHandler(rdb, streamer != nil, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(quizService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// In-flight result streams get the same window as regular requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
