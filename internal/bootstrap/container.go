package bootstrap

import (
	"context"
	"log"

	"product-advisor-be/internal/config"
	"product-advisor-be/internal/controller"
	"product-advisor-be/internal/pkg/logger"
	"product-advisor-be/internal/repository/contract"
	"product-advisor-be/internal/repository/implementation"
	"product-advisor-be/internal/repository/memory"
	"product-advisor-be/internal/repository/redisstore"
	"product-advisor-be/internal/service"
	"product-advisor-be/pkg/advisor/compose"
	"product-advisor-be/pkg/advisor/dialogue"
	"product-advisor-be/pkg/advisor/ranking"
	"product-advisor-be/pkg/advisor/response"
	advisorsession "product-advisor-be/pkg/advisor/session"
	"product-advisor-be/pkg/analytics"
	"product-advisor-be/pkg/catalog"
	"product-advisor-be/pkg/embedding"
	"product-advisor-be/pkg/intent"
	"product-advisor-be/pkg/llm"
	llmfactory "product-advisor-be/pkg/llm/factory"
	natsbus "product-advisor-be/pkg/nats"
	"product-advisor-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	EventRepository   contract.AdvisorEventRepository
	ProductRepository contract.ProductRepository
	SessionRepository contract.SessionRepository

	CatalogIndex catalog.Index
	Pipeline     *analytics.Pipeline
	PubSub       *gochannel.GoChannel
	NatsMirror   *natsbus.Publisher
	Machine      *dialogue.Machine

	AdvisorService       service.IAdvisorService
	RetryConsumerService service.IRetryConsumerService

	AdvisorController controller.IAdvisorController
	HealthController  controller.IHealthController
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	appLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	eventRepo := implementation.NewAdvisorEventRepository(db)
	productRepo := implementation.NewProductRepository(db)

	catalogIndex := loadCatalog(db, productRepo, appLogger)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))

	// The NATS mirror is best effort: without a broker the advisor still
	// runs, events just stay local.
	var mirror analytics.Mirror
	natsPublisher, err := natsbus.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		appLogger.Warn("bootstrap", "NATS unavailable, event mirror disabled", map[string]interface{}{
			"url":   cfg.App.NatsURL,
			"error": err.Error(),
		})
	} else {
		mirror = natsPublisher
	}

	pipeline := analytics.NewPipeline(eventRepo, pubSub, mirror, appLogger)

	llmProvider := buildLLMProvider(cfg, appLogger)
	embedder := buildEmbedder(cfg)

	var classifier dialogue.IntentClassifier
	if llmProvider != nil {
		classifier = intent.NewClassifier(llmProvider)
	}

	engine := ranking.NewEngine(ranking.Weights{
		Similarity: cfg.Advisor.SimilarityWeight,
		Attribute:  cfg.Advisor.AttributeWeight,
	})
	machine := dialogue.NewMachine(
		catalogIndex,
		engine,
		compose.NewComposer(),
		classifier,
		embedder,
		pipeline,
		response.NewGenerator(llmProvider, appLogger),
		dialogue.Config{
			QuestionOrder:      cfg.Advisor.QuestionOrder,
			DominanceThreshold: cfg.Advisor.DominanceThreshold,
			TopK:               cfg.Advisor.TopK,
		},
		appLogger,
	)

	registry := advisorsession.NewRegistry()
	sessionRepo := buildSessionRepository(cfg, machine, registry, appLogger)

	advisorService := service.NewAdvisorService(sessionRepo, registry, machine, pipeline, appLogger)
	retryConsumer := service.NewRetryConsumerService(pubSub, eventRepo, appLogger)

	return &Container{
		Logger:               appLogger,
		EventRepository:      eventRepo,
		ProductRepository:    productRepo,
		SessionRepository:    sessionRepo,
		CatalogIndex:         catalogIndex,
		Pipeline:             pipeline,
		PubSub:               pubSub,
		NatsMirror:           natsPublisher,
		Machine:              machine,
		AdvisorService:       advisorService,
		RetryConsumerService: retryConsumer,
		AdvisorController:    controller.NewAdvisorController(advisorService),
		HealthController:     controller.NewHealthController(db, catalogIndex),
	}
}

func loadCatalog(db *gorm.DB, productRepo contract.ProductRepository, appLogger logger.ILogger) catalog.Index {
	products, err := productRepo.FindAll(context.Background())
	if err != nil {
		log.Panicf("Unable to load product catalog: %v", err)
	}

	dimension := 0
	for _, p := range products {
		if len(p.Embedding) > 0 {
			dimension = len(p.Embedding)
			break
		}
	}

	appLogger.Info("bootstrap", "catalog loaded", map[string]interface{}{
		"products":  len(products),
		"dimension": dimension,
	})
	return catalog.NewStaticIndex(catalog.NewSnapshot(products, dimension))
}

func buildLLMProvider(cfg *config.Config, appLogger logger.ILogger) llm.LLMProvider {
	apiKey := cfg.Ai.OpenAIAPIKey
	provider, err := llmfactory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.LLMBaseURL, apiKey)
	if err != nil {
		appLogger.Warn("bootstrap", "LLM provider unavailable, dialogue runs degraded", map[string]interface{}{
			"provider": cfg.Ai.LLMProvider,
			"error":    err.Error(),
		})
		return nil
	}
	return provider
}

func buildEmbedder(cfg *config.Config) embedding.Provider {
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	default:
		if cfg.Ai.GeminiAPIKey == "" {
			return nil
		}
		return embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
	}
}

func buildSessionRepository(cfg *config.Config, machine *dialogue.Machine, registry *advisorsession.Registry, appLogger logger.ILogger) contract.SessionRepository {
	if cfg.App.SessionStore == "redis" {
		opts, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Panicf("Invalid REDIS_URL: %v", err)
		}
		appLogger.Warn("bootstrap", "redis session store selected, idle-timeout events rely on TTL expiry", nil)
		return redisstore.NewSessionRepository(redis.NewClient(opts), cfg.Advisor.IdleTimeout)
	}

	return memory.NewSessionRepository(cfg.Advisor.IdleTimeout, expireIdleSession(machine, registry, appLogger))
}

// expireIdleSession builds the TTL eviction callback. The go-cache
// janitor runs it on its own goroutine, so the callback must take the
// session's registry lock before the machine touches any session state.
// A busy session is left alone: the turn that holds the lock saves it
// back into the store when it finishes.
func expireIdleSession(machine *dialogue.Machine, registry *advisorsession.Registry, appLogger logger.ILogger) func(*store.Session) {
	return func(sess *store.Session) {
		if err := registry.Acquire(sess.ID); err != nil {
			return
		}
		defer registry.Release(sess.ID)

		if err := machine.ForceEnd(context.Background(), sess, "idle_timeout"); err != nil {
			appLogger.Error("bootstrap", "failed to close idle session", map[string]interface{}{
				"session_id": sess.ID,
				"error":      err.Error(),
			})
		}
	}
}
