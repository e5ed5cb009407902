// Package main implements the entry point for the ankibot Telegram bot,
// which translates short text requests through an LLM and materializes the
// results as Anki flashcards on a sync server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/phrazzld/ankibot/internal/anki"
	"github.com/phrazzld/ankibot/internal/bot"
	"github.com/phrazzld/ankibot/internal/cache"
	"github.com/phrazzld/ankibot/internal/config"
	"github.com/phrazzld/ankibot/internal/platform/gemini"
	"github.com/phrazzld/ankibot/internal/platform/logger"
	"github.com/phrazzld/ankibot/internal/platform/telegram"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start ankibot: %v", err)
	}
}

// run wires every component together and blocks until shutdown.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)
	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"model", cfg.LLM.ModelName,
		"users", len(cfg.Users))

	translator, err := gemini.NewTranslator(ctx, appLogger, cfg.LLM, cfg.Translation)
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	appLogger.Info("telegram bot authorized", "username", api.Self.UserName)

	messenger, err := telegram.NewMessenger(api)
	if err != nil {
		return fmt.Errorf("failed to create messenger: %w", err)
	}

	syncClient := anki.NewHTTPSyncClient(appLogger, nil)
	openSession := func(ctx context.Context, creds anki.Credentials) (bot.Session, error) {
		return anki.OpenSession(ctx, appLogger, syncClient, creds)
	}

	orchestrator, err := bot.New(
		appLogger,
		messenger,
		translator,
		cache.New(cache.DefaultCapacity, cache.DefaultTTL),
		openSession,
		cfg.Profiles(),
		cfg.Translation.SourceLanguage,
	)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	dispatcher, err := telegram.NewDispatcher(appLogger, api, orchestrator, cfg.Telegram.PollTimeoutSeconds)
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	healthSrv := startHealthServer(appLogger, cfg.Server.Port)

	dispatcher.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("health server shutdown failed", "error", err)
	}

	appLogger.Info("ankibot stopped")
	return nil
}

// startHealthServer exposes a liveness endpoint so deployments can probe the
// bot even though all real traffic flows through Telegram long polling.
func startHealthServer(appLogger *slog.Logger, port int) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		appLogger.Info("health server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("health server failed", "error", err)
		}
	}()

	return srv
}
