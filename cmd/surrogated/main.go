package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/maliksaad1/ai-surrogate/internal/adapter/calendar"
	"github.com/maliksaad1/ai-surrogate/internal/adapter/llm"
	"github.com/maliksaad1/ai-surrogate/internal/adapter/mailer"
	"github.com/maliksaad1/ai-surrogate/internal/agent"
	"github.com/maliksaad1/ai-surrogate/internal/config"
	"github.com/maliksaad1/ai-surrogate/internal/domain"
	"github.com/maliksaad1/ai-surrogate/internal/jobs"
	"github.com/maliksaad1/ai-surrogate/internal/orchestrator"
	"github.com/maliksaad1/ai-surrogate/internal/router"
	"github.com/maliksaad1/ai-surrogate/internal/service"
	"github.com/maliksaad1/ai-surrogate/internal/store"
	"github.com/maliksaad1/ai-surrogate/internal/tools"
	surrogatehttp "github.com/maliksaad1/ai-surrogate/internal/transport/http"
	"github.com/maliksaad1/ai-surrogate/internal/transport/ws"
	"github.com/maliksaad1/ai-surrogate/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	log.Info().
		Int("http_port", cfg.HTTPPort).
		Int("ws_port", cfg.WSPort).
		Str("db", cfg.SQLitePath).
		Str("mode", cfg.Mode).
		Msg("starting surrogate")

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.SQLitePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer db.Close()

	// Initialize LLM client
	llmClient := llm.NewClient(cfg.Mode, llm.Options{
		BaseURL:     cfg.GeminiBaseURL,
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.GeminiModel,
		Temperature: cfg.ModelTemperature,
		MaxTokens:   cfg.MaxResponseTokens,
		Timeout:     cfg.LLMTimeout,
	})

	// Initialize policy engine
	policyEngine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize policy engine")
	}

	// Initialize tool registry
	registry := tools.NewRegistry(policyEngine, db)
	registry.MustRegister(tools.NewEmailTool(mailer.NewSimulator()), domain.ToolCategoryCommunication)
	registry.MustRegister(tools.NewCalendarTool(calendar.NewSimulator()), domain.ToolCategoryScheduling)

	// Initialize agent pipeline
	orc := orchestrator.New(router.NewKeywordRouter(), orchestrator.Agents{
		Chat:          agent.NewChatAgent(llmClient),
		Emotion:       agent.NewEmotionAgent(llmClient),
		Memory:        agent.NewMemoryAgent(llmClient, db),
		Scheduler:     agent.NewSchedulerAgent(llmClient, registry),
		Communication: agent.NewCommunicationAgent(llmClient, registry),
		Docs:          agent.NewDocsAgent(llmClient),
	})

	// Initialize service
	svc := service.New(db, orc, llmClient, registry)

	// Initialize background jobs
	scheduler, err := jobs.NewScheduler(db, svc, cfg.ConsolidationSchedule,
		time.Duration(cfg.ToolLogRetentionDays)*24*time.Hour)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize job scheduler")
	}
	scheduler.Start()

	// Initialize WebSocket hub and server
	hub := ws.NewHub()
	go hub.Run()
	wsServer := ws.NewServer(cfg, hub, svc)

	wsEcho := echo.New()
	wsEcho.HideBanner = true
	wsEcho.HidePort = true
	wsEcho.Use(middleware.Logger())
	wsEcho.Use(middleware.Recover())
	wsEcho.GET("/ws", wsServer.HandleWebSocket)

	// Initialize REST server
	restEcho := surrogatehttp.NewServer(svc)

	// Start REST server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := restEcho.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start REST server")
		}
	}()

	// Start WebSocket server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.WSPort)
		if err := wsEcho.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start WebSocket server")
		}
	}()

	log.Info().Int("port", cfg.HTTPPort).Msg("REST API started")
	log.Info().Int("port", cfg.WSPort).Msg("WebSocket server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down surrogate")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := restEcho.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("REST server shutdown failed")
	}
	hub.Shutdown()
	if err := wsEcho.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("WebSocket server shutdown failed")
	}
	scheduler.Stop()

	log.Info().Msg("surrogate stopped")
}

func setupLogging(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}
