// Package main is the entry point for the chatbot API server. Run with
// "token" as the first argument to print an admin JWT instead.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hankyong/campus-chatbot/internal/classifier"
	"github.com/hankyong/campus-chatbot/internal/config"
	"github.com/hankyong/campus-chatbot/internal/handler"
	"github.com/hankyong/campus-chatbot/internal/llm"
	mcpserver "github.com/hankyong/campus-chatbot/internal/mcp"
	"github.com/hankyong/campus-chatbot/internal/middleware"
	natsclient "github.com/hankyong/campus-chatbot/internal/nats"
	"github.com/hankyong/campus-chatbot/internal/service"
	"github.com/hankyong/campus-chatbot/internal/session"
	"github.com/hankyong/campus-chatbot/internal/store"
	"github.com/hankyong/campus-chatbot/pkg/logger"
	"github.com/hankyong/campus-chatbot/pkg/tracing"
)

const (
	serviceName = "campus-chatbot"
	version     = "1.0.0"
)

func main() {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := config.Load()

	if len(os.Args) > 1 && os.Args[1] == "token" {
		if err := runToken(os.Args[2:], cfg.JWTSecret, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "token: %v\n", err)
			os.Exit(1)
		}
		return
	}

	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	if cfg.IsDevelopment() {
		return logger.NewDevelopment()
	}
	return logger.New(cfg.LogLevel)
}

func run(cfg *config.Config, log *logger.Logger) error {
	log.Info("starting chatbot server", zap.String("version", version))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Enabled:     cfg.TracingEnabled,
		ServiceName: serviceName,
		Endpoint:    cfg.TracingEndpoint,
		Insecure:    true,
		SampleRatio: cfg.TracingSampleRatio,
	})
	if err != nil {
		log.Warn("failed to initialize tracing", zap.Error(err))
	} else {
		defer shutdownTracing(context.Background())
	}

	prompts, err := config.LoadPrompts(cfg.PromptsFile)
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}

	if dir := filepath.Dir(cfg.DuckDBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}
	records, err := store.NewStore(cfg.DuckDBPath)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer records.Close()

	llmClient, err := llm.NewClient(llm.Provider(cfg.LLMProvider), llm.Options{
		APIKey:  cfg.LLMAPIKey(),
		BaseURL: cfg.OpenAIBaseURL,
	})
	if err != nil {
		return fmt.Errorf("create llm client: %w", err)
	}
	intents := classifier.New(llmClient, prompts.Prompts, log, classifier.WithModel(cfg.LLMModel))

	checks := map[string]handler.Check{"duckdb": records.Ping}

	var (
		sessions   service.SessionStore
		streams    *natsclient.StreamManager
		chatOpts   = []service.ChatOption{service.WithSynonyms(service.Synonyms(prompts.Synonyms))}
		needsNATS  = cfg.SessionBackend == config.SessionBackendNATS || cfg.TurnEventsEnabled
		natsClient *natsclient.Client
	)

	if needsNATS {
		natsClient, err = natsclient.Connect(ctx, natsclient.Config{
			Name:     serviceName,
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			return err
		}
		defer natsClient.Close()
		checks["nats"] = natsClient.Ping
	}

	switch cfg.SessionBackend {
	case config.SessionBackendNATS:
		kv, err := natsClient.EnsureBucket(ctx, cfg.SessionBucket, cfg.SessionTTL)
		if err != nil {
			return err
		}
		sessions = session.NewNATSStore(kv)
	case config.SessionBackendMemory:
		sessions = session.NewMemoryStore(cfg.SessionTTL)
	default:
		return fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}

	if cfg.TurnEventsEnabled {
		streams = natsclient.NewStreamManager(natsClient)
		if err := streams.EnsureStream(ctx); err != nil {
			return err
		}
		chatOpts = append(chatOpts, service.WithTurnPublisher(streams))
	}

	chatSvc := service.NewChatService(intents, records, sessions, log, chatOpts...)
	formatter := service.NewMenuFormatter(records, intents, cfg.MenuFormatHour, log)
	if cfg.MenuFormatEnabled {
		go formatter.Run(ctx)
	}

	healthHandler := handler.NewHealthHandler(checks)
	chatHandler := handler.NewChatHandler(chatSvc, log)
	searchHandler := handler.NewSearchHandler(records, log)
	var turns handler.TurnLister
	if streams != nil {
		turns = streams
	}
	adminHandler := handler.NewAdminHandler(formatter, turns, records, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

		r.Post("/chat/intent", chatHandler.Ask)
		r.Get("/chat/intent", chatHandler.Session)

		searchHandler.Routes(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))
			r.Use(middleware.RequireScope(middleware.ScopeAdmin))

			r.Post("/records", adminHandler.ImportRecords)
			r.Post("/format-dorm-meal", adminHandler.FormatDormMeals)
			r.Get("/turns", adminHandler.RecentTurns)
		})
	})

	if cfg.MCPEnabled {
		r.Mount(mcpserver.BasePath, mcpserver.NewServer(chatSvc, version, log).SSEHandler())
	}

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
	return nil
}
