// Command chatsapp runs the streaming LLM chat gateway.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/minhuy206/chatsapp/core/chat"
	"github.com/minhuy206/chatsapp/core/llmerr"
	"github.com/minhuy206/chatsapp/core/registry"
	"github.com/minhuy206/chatsapp/core/retry"
	"github.com/minhuy206/chatsapp/internal/config"
	"github.com/minhuy206/chatsapp/internal/tokenizer"
	"github.com/minhuy206/chatsapp/internal/utils"
	"github.com/minhuy206/chatsapp/providers/ai"
	"github.com/minhuy206/chatsapp/providers/ai/anthropic"
	"github.com/minhuy206/chatsapp/providers/ai/gemini"
	"github.com/minhuy206/chatsapp/providers/ai/openai"
	"github.com/minhuy206/chatsapp/providers/memory/pgstore"
	"github.com/minhuy206/chatsapp/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := pgstore.New(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	httpClient := utils.NewHTTPClient(cfg.ConnectTimeout, cfg.RequestTimeout)
	mapper := llmerr.NewMapper(logger)

	adapters := map[registry.ProviderName]ai.StreamProvider{
		registry.ProviderOpenAI: openai.New(openai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}).WithHTTPClient(httpClient).WithMapper(mapper).WithLogger(logger),

		registry.ProviderAnthropic: anthropic.New(anthropic.Config{
			APIKey:      cfg.AnthropicAPIKey,
			BaseURL:     cfg.AnthropicBaseURL,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}).WithHTTPClient(httpClient).WithMapper(mapper).WithLogger(logger),

		registry.ProviderGemini: gemini.New(gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			BaseURL:     cfg.GeminiBaseURL,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}).WithHTTPClient(httpClient).WithMapper(mapper).WithLogger(logger),
	}

	entries, err := registry.LoadEntries(cfg.ModelsFile)
	if err != nil {
		return err
	}
	modelRegistry := registry.New(adapters, entries, logger)

	estimator, err := tokenizer.NewEstimator()
	if err != nil {
		return err
	}

	orchestrator := chat.NewOrchestrator(modelRegistry, store, retry.NewDriver(logger), estimator, logger)

	handler := server.New(orchestrator, store, cfg.APITokens, logger)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("gateway listening", "addr", cfg.Addr, "models", len(entries))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
