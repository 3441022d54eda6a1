package bootstrap

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"ai-stylist-be/internal/config"
	"ai-stylist-be/internal/controller"
	"ai-stylist-be/internal/pkg/logger"
	"ai-stylist-be/internal/service"
	"ai-stylist-be/pkg/advisor"
	"ai-stylist-be/pkg/catalog"
	"ai-stylist-be/pkg/database"
	"ai-stylist-be/pkg/embedding"
	"ai-stylist-be/pkg/events"
	"ai-stylist-be/pkg/llm/factory"
	"ai-stylist-be/pkg/lookbook"
	"ai-stylist-be/pkg/reco/retrieval"
	"ai-stylist-be/pkg/reco/session"
	"ai-stylist-be/pkg/vecindex"
	"ai-stylist-be/pkg/vecindex/memory"
	"ai-stylist-be/pkg/vecindex/pgstore"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	SessionController   controller.ISessionController
	RecommendController controller.IRecommendController
	LookbookController  controller.ILookbookController
	AdminController     controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ActivityService service.IActivityService
	SessionManager  *session.Manager

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := log.New(os.Stdout, "", log.LstdFlags)

	// 2. Catalog & Indexes
	cat, err := catalog.Load(cfg.Catalog.DataRoot, catalog.CategoryOrder)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load catalog: %v", err)
	}
	registry := buildIndexes(cfg, stdLogger)

	// 3. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)
	bus := events.NewBus(pubSub, cfg.App.ActivityTopic)

	// 4. AI Collaborators
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GoogleGeminiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	llmAdvisor := advisor.NewLLMAdvisor(llmProvider, stdLogger)

	// 5. Recommendation Core
	retriever := retrieval.NewRetriever(embeddingProvider, registry, cat, stdLogger)
	engine := session.NewEngine(retriever, llmAdvisor, stdLogger)
	manager := session.NewManager(
		catalog.CategoryOrder,
		cfg.Session.MaxSessions,
		time.Duration(cfg.Session.IdleTTLMinutes)*time.Minute,
		stdLogger,
	)

	// 6. Lookbook Store
	lookbookTTL := time.Duration(cfg.Lookbook.TTLDays) * 24 * time.Hour
	var lookbookStore lookbook.Store
	if cfg.Lookbook.Backend == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		lookbookStore = lookbook.NewRedisStore(rdb)
	} else {
		lookbookStore = lookbook.NewMemoryStore()
	}

	// 7. Services
	sessionService := service.NewSessionService(manager, engine, bus, sysLogger)
	recommendService := service.NewRecommendService(manager, engine, bus, sysLogger)
	lookbookService := service.NewLookbookService(manager, engine, lookbookStore, cfg.App.BaseURL, lookbookTTL, sysLogger)
	adminService := service.NewAdminService(manager, sysLogger)
	activityService := service.NewActivityService(bus, sysLogger)

	// 8. Controllers
	return &Container{
		SessionController:   controller.NewSessionController(sessionService),
		RecommendController: controller.NewRecommendController(recommendService),
		LookbookController:  controller.NewLookbookController(lookbookService),
		AdminController:     controller.NewAdminController(adminService),

		ActivityService: activityService,
		SessionManager:  manager,
		Logger:          sysLogger,
	}
}

// buildIndexes registers one index per (channel, category). The style channel
// is optional per category; the situation channel is required.
func buildIndexes(cfg *config.Config, stdLogger *log.Logger) *vecindex.Registry {
	registry := vecindex.NewRegistry()

	if cfg.Catalog.IndexBackend == "postgres" {
		db, err := database.NewGormDB(database.GormConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.Name,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			log.Fatalf("[FATAL] Unable to connect to GORM DB: %v", err)
		}
		for _, category := range catalog.CategoryOrder {
			for _, channel := range []string{vecindex.ChannelStyle, vecindex.ChannelSituation} {
				store, err := pgstore.NewStore(db, channel, category)
				if err != nil {
					log.Fatalf("[FATAL] Failed to open %s/%s index: %v", channel, category, err)
				}
				if store.Size() == 0 && channel == vecindex.ChannelStyle {
					stdLogger.Printf("[INFO] No style embeddings for %s, channel disabled", category)
					continue
				}
				registry.Register(channel, category, store)
			}
		}
		return registry
	}

	for _, category := range catalog.CategoryOrder {
		situationPath := filepath.Join(cfg.Catalog.DataRoot, category, "situation_vectors.jsonl")
		situationIdx, err := memory.LoadJSONL(situationPath)
		if err != nil {
			log.Fatalf("[FATAL] Failed to load situation index for %s: %v", category, err)
		}
		registry.Register(vecindex.ChannelSituation, category, situationIdx)

		stylePath := filepath.Join(cfg.Catalog.DataRoot, category, "style_vectors.jsonl")
		if _, err := os.Stat(stylePath); os.IsNotExist(err) {
			stdLogger.Printf("[INFO] No style vectors for %s, channel disabled", category)
			continue
		}
		styleIdx, err := memory.LoadJSONL(stylePath)
		if err != nil {
			log.Fatalf("[FATAL] Failed to load style index for %s: %v", category, err)
		}
		registry.Register(vecindex.ChannelStyle, category, styleIdx)
	}
	return registry
}
