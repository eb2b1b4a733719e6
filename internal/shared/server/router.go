package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"match-engine/internal/lexicon"
	"match-engine/internal/match"
	"match-engine/internal/matching"
	"match-engine/internal/profile"
	"match-engine/internal/provider"
	"match-engine/internal/provider/chatcompat"
	"match-engine/internal/provider/gemini"
	"match-engine/internal/shared/config"
	"match-engine/internal/shared/metrics"
	"match-engine/internal/shared/server/middleware"
	"match-engine/internal/shared/server/respond"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Dependencies
	lex := lexicon.Default()
	extractor := profile.NewExtractor(lex)
	aggregator := match.NewAggregator(lex)
	offline := provider.NewOffline(extractor, aggregator)

	chain := provider.NewChain(offline, buildRemoteTiers(cfg)...)
	if cfg.ProviderMaxAttempts > 0 {
		chain = chain.WithRetryPolicy(cfg.ProviderMaxAttempts, 0)
	}

	svc := matching.NewService(extractor, chain, offline, cfg.ProviderTimeout)
	handler := matching.NewHandler(svc)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	handler.RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())

	return r
}

// buildRemoteTiers assembles remote provider tiers from configuration.
// Tiers without credentials are skipped; with none configured the chain
// runs on the offline tier alone.
func buildRemoteTiers(cfg config.Config) []provider.Tier {
	var tiers []provider.Tier

	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("gemini client init failed, tier skipped: %v", err)
		} else {
			tiers = append(tiers, provider.NewRemote("gemini", client))
		}
	}

	if cfg.OpenAIAPIKey != "" {
		client, err := chatcompat.NewClient(chatcompat.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, 0)
		if err != nil {
			log.Printf("openai client init failed, tier skipped: %v", err)
		} else {
			tiers = append(tiers, provider.NewRemote("openai", client))
		}
	}

	if cfg.DeepSeekAPIKey != "" {
		client, err := chatcompat.NewClient(chatcompat.DeepSeekBaseURL, cfg.DeepSeekAPIKey, cfg.DeepSeekModel, 0)
		if err != nil {
			log.Printf("deepseek client init failed, tier skipped: %v", err)
		} else {
			tiers = append(tiers, provider.NewRemote("deepseek", client))
		}
	}

	return tiers
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
