package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"google.golang.org/genai"

	"github.com/orderchat-poc/server/internal/catalog"
	"github.com/orderchat-poc/server/internal/core"
	"github.com/orderchat-poc/server/internal/engine/intent"
	"github.com/orderchat-poc/server/internal/engine/llm"
	"github.com/orderchat-poc/server/internal/engine/model"
	"github.com/orderchat-poc/server/internal/engine/repo"
	"github.com/orderchat-poc/server/internal/engine/rules"
	"github.com/orderchat-poc/server/internal/engine/session"
	"github.com/orderchat-poc/server/internal/transport/httpapi"
	"github.com/orderchat-poc/server/internal/transport/whatsapp"
	logx "github.com/orderchat-poc/server/pkg/logger"
	pkgpostgres "github.com/orderchat-poc/server/pkg/postgres"
	pkgredis "github.com/orderchat-poc/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the service, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`

	// Infrastructure
	Redis    pkgredis.Config
	Postgres pkgpostgres.Config

	// Channel
	WhatsApp whatsapp.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Engine configs
	Extractor    model.ExtractorModelConfig
	Gate         model.GateConfig
	Conversation model.ConversationConfig
	Catalog      model.CatalogConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load catalog")
	}

	rdb, err := cfg.Redis.New()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise redis client")
	}
	defer rdb.Close()

	if err := cfg.Postgres.Migrate(); err != nil {
		logx.Fatal().Err(err).Msg("failed to apply migrations")
	}
	pool, err := cfg.Postgres.New(ctx)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to create gemini client")
	}

	completer, err := llm.NewGeminiCompleter(ctx, client, &cfg.Extractor)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to create completer")
	}
	extractor, err := llm.NewExtractor(completer, cat, &cfg.Extractor)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to create extractor")
	}

	var confidence session.ConfidenceGate
	if cfg.Gate.Enabled {
		embedder := intent.NewGenaiEmbedder(client, cfg.Gate.EmbeddingModel)
		scorer := intent.NewPrototypeScorer(embedder, splitPrototypes(cfg.Gate.Prototypes))
		confidence = intent.NewGate(scorer, cfg.Gate.Threshold)
	}

	ttl, err := time.ParseDuration(cfg.Conversation.TTL)
	if err != nil {
		logx.Fatal().Str("ttl", cfg.Conversation.TTL).Err(err).Msg("invalid CONVERSATION_TTL")
	}

	assembler, err := session.NewAssembler(session.Config{
		Catalog:     cat,
		Heuristics:  rules.NewHeuristicGate(cat),
		Confidence:  confidence,
		Extractor:   extractor,
		Drafts:      repo.NewRedisDraftRepository(rdb, ttl),
		Orders:      repo.NewPostgresOrderRepository(pool),
		Transcripts: repo.NewRedisConversationRepository(rdb, ttl, cfg.Conversation.MaxMessages),
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build draft assembler")
	}

	sender, err := whatsapp.NewCloudAPISender(cfg.WhatsApp)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build whatsapp sender")
	}
	webhook := whatsapp.NewHandler(cfg.WhatsApp.VerifyToken, assembler, sender)

	router := httpapi.NewRouter(repo.NewPostgresOrderRepository(pool), webhook)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logx.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("http server shutdown failed")
	}
	logx.Info().Msg("server stopped")
}

func loadCatalog(cfg model.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.Path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(cfg.Path)
}

func splitPrototypes(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
