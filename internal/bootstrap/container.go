package bootstrap

import (
	"context"
	"log"

	"bookapp-ai-be/internal/config"
	"bookapp-ai-be/internal/controller"
	"bookapp-ai-be/internal/pkg/logger"
	"bookapp-ai-be/internal/repository/contract"
	"bookapp-ai-be/internal/repository/implementation"
	"bookapp-ai-be/internal/repository/memory"
	"bookapp-ai-be/internal/repository/unitofwork"
	"bookapp-ai-be/internal/service"
	"bookapp-ai-be/pkg/bookai/intent"
	"bookapp-ai-be/pkg/bookai/keyword"
	"bookapp-ai-be/pkg/bookai/prompt"
	"bookapp-ai-be/pkg/bookai/search"
	"bookapp-ai-be/pkg/bookai/tagger"
	"bookapp-ai-be/pkg/booksearch/kakao"
	embfactory "bookapp-ai-be/pkg/embedding/factory"
	"bookapp-ai-be/pkg/events"
	"bookapp-ai-be/pkg/llm"
	llmfactory "bookapp-ai-be/pkg/llm/factory"

	pktNats "bookapp-ai-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AISearchController       controller.IAISearchController
	BookController           controller.IBookController
	RecommendationController controller.IRecommendationController
	TaggingController        controller.ITaggingController

	// Background Services (Exposed for main.go to run)
	ConsumerService  service.IConsumerService
	BookAIService    service.IBookAIService
	BookEventHandler *service.BookEventHandler
	Coordinator      *tagger.RetryCoordinator
	UowFactory       unitofwork.RepositoryFactory

	// Optional infrastructure; nil when unreachable at startup.
	NatsPublisher  *pktNats.Publisher
	NatsSubscriber *pktNats.Subscriber
	Redis          *redis.Client

	Logger logger.ILogger

	pubSub *gochannel.GoChannel
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)

	// 3. Providers
	embeddingProvider, err := embfactory.NewEmbeddingProvider(embfactory.ProviderConfig{
		Provider:   cfg.Ai.EmbeddingProvider,
		Model:      cfg.Ai.EmbeddingModel,
		BaseURL:    embeddingBaseURL(cfg),
		APIKey:     embeddingAPIKey(cfg),
		Dimensions: cfg.Ai.EmbeddingDimensions,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s", cfg.Ai.EmbeddingProvider)

	llmProvider := newLLMProvider(cfg)

	bookProvider := kakao.NewClient(cfg.Keys.Kakao, "", cfg.Ingest.KakaoRequestsPerSec)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		natsSub = nil
	}

	rdb := newRedisClient(cfg.App.RedisURL)

	// 5. Search pipeline
	var augmenter intent.Augmenter = intent.NopAugmenter{}
	if cfg.Ai.IntentAugmentation && llmProvider != nil {
		augmenter = intent.NewLLMAugmenter(llmProvider, cfg.Ai.LLMModel)
	}
	var suggester keyword.Suggester = keyword.NopSuggester{}
	if cfg.Ai.KeywordSuggestions && llmProvider != nil {
		suggester = keyword.NewLLMSuggester(llmProvider, cfg.Ai.LLMModel)
	}

	searchAnalyzer := intent.NewAnalyzer(augmenter, sysLogger)
	orchestrator := search.NewOrchestrator(
		searchAnalyzer,
		keyword.NewExpander(suggester, sysLogger),
		prompt.NewBuilder(),
		embeddingProvider,
		service.NewCorpusVectorStore(uowFactory),
		search.Config{
			ResultLimit:      cfg.Search.ResultLimit,
			FetchLimit:       cfg.Search.FetchLimit,
			MaxKeywords:      cfg.Search.MaxKeywords,
			DefaultThreshold: cfg.Search.DefaultThreshold,
			AuthorThreshold:  cfg.Search.AuthorThreshold,
		},
		sysLogger,
	)

	var localCache, sharedCache contract.SearchCacheRepository
	if cfg.Cache.Enabled {
		localCache = memory.NewSearchCacheRepository(cfg.Cache.TTL)
		if rdb != nil {
			sharedCache = implementation.NewRedisSearchCacheRepository(rdb, sysLogger)
		}
	}
	searchService := service.NewSearchService(orchestrator, localCache, sharedCache, cfg.Cache.TTL, sysLogger)

	// 6. Tagging
	// Classification reuses the rule analyzer only; one LLM call per book is enough.
	classifierAnalyzer := intent.NewAnalyzer(intent.NopAugmenter{}, sysLogger)
	var llmTagger *tagger.ProviderTagger
	if cfg.Tagger.Enabled {
		llmTagger = tagger.NewProviderTagger(llmProvider, taggerModel(cfg, cfg.Tagger.Model), sysLogger)
	} else {
		llmTagger = tagger.NewProviderTagger(nil, "", sysLogger)
	}
	classifier := tagger.NewClassifier(classifierAnalyzer, llmTagger, sysLogger)
	retryClassifier := tagger.NewClassifier(classifierAnalyzer, llmTagger.WithModel(taggerModel(cfg, cfg.Tagger.RetryModel)), sysLogger)

	retryLogger := logger.NewIsolatedLogger("logs/tagging_retry.log")

	var eventPublisher service.IEventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}

	coordinator, err := tagger.NewRetryCoordinator(tagger.RetryConfig{
		TriggerThreshold: cfg.Tagger.RetryThreshold,
		Concurrency:      cfg.Tagger.RetryConcurrency,
		OnBatchComplete: func(report tagger.BatchReport) {
			if eventPublisher == nil {
				return
			}
			event := events.TaggingRetryCompleted(report.Attempted, report.Succeeded, report.Failed)
			if err := eventPublisher.Publish(context.Background(), event); err != nil {
				retryLogger.Warn("TAGGER", "Failed to publish retry report", map[string]interface{}{"error": err.Error()})
			}
		},
	}, service.NewRetagService(uowFactory, retryClassifier, retryLogger), retryLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize tagging retry coordinator: %v", err)
	}

	// 7. Services
	bookAIService := service.NewBookAIService(
		uowFactory,
		bookProvider,
		embeddingProvider,
		classifier,
		coordinator,
		eventPublisher,
		service.IngestOptions{
			SimilarityThreshold: cfg.Ingest.SimilarityThreshold,
			MaxPages:            cfg.Ingest.MaxPages,
		},
		sysLogger,
	)

	publisherService := service.NewPublisherService(cfg.App.IngestTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.App.IngestTopic, bookAIService, sysLogger)

	recommendationService := service.NewRecommendationService(
		service.NewLibraryClient(cfg.App.LibraryServiceURL),
		sysLogger,
	)
	taggingService := service.NewTaggingService(coordinator)

	return &Container{
		AISearchController:       controller.NewAISearchController(searchService),
		BookController:           controller.NewBookController(bookAIService, publisherService),
		RecommendationController: controller.NewRecommendationController(recommendationService),
		TaggingController:        controller.NewTaggingController(taggingService),

		ConsumerService:  consumerService,
		BookAIService:    bookAIService,
		BookEventHandler: service.NewBookEventHandler(bookAIService, sysLogger),
		Coordinator:      coordinator,
		UowFactory:       uowFactory,

		NatsPublisher:  natsPub,
		NatsSubscriber: natsSub,
		Redis:          rdb,
		Logger:         sysLogger,

		pubSub: pubSub,
	}
}

// Close flushes pending retries and releases connections.
func (c *Container) Close(ctx context.Context) {
	if c.Coordinator != nil {
		report := c.Coordinator.Flush(ctx)
		if report.Attempted > 0 {
			c.Logger.Info("TAGGER", "Flushed pending retries on shutdown", map[string]interface{}{
				"attempted": report.Attempted,
				"succeeded": report.Succeeded,
				"failed":    report.Failed,
			})
		}
		c.Coordinator.Close()
	}
	if c.NatsSubscriber != nil {
		c.NatsSubscriber.Close()
	}
	if c.NatsPublisher != nil {
		c.NatsPublisher.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.pubSub != nil {
		_ = c.pubSub.Close()
	}
}

func newLLMProvider(cfg *config.Config) llm.LLMProvider {
	var apiKey string
	switch cfg.Ai.LLMProvider {
	case "gemini":
		apiKey = cfg.Keys.GoogleGemini
	case "huggingface":
		apiKey = cfg.Keys.HuggingFace
	case "openai":
		apiKey = cfg.Keys.OpenAI
	}

	baseURL := cfg.Ai.LLMBaseURL
	if baseURL == "" && cfg.Ai.LLMProvider == "ollama" {
		baseURL = cfg.Ai.OllamaBaseURL
	}

	provider, err := llmfactory.NewLLMProvider(llmfactory.ProviderConfig{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Timeout:  cfg.Ai.LLMTimeout,
	})
	if err != nil {
		// Every LLM consumer degrades to rules when the provider is missing.
		log.Printf("[WARN] LLM Provider unavailable, using rule-based fallbacks: %v", err)
		return nil
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	return provider
}

// taggerModel keeps the Gemini model names only for the Gemini backend.
func taggerModel(cfg *config.Config, geminiModel string) string {
	if cfg.Ai.LLMProvider == "gemini" {
		return geminiModel
	}
	return cfg.Ai.LLMModel
}

func embeddingBaseURL(cfg *config.Config) string {
	if cfg.Ai.EmbeddingProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return ""
}

func embeddingAPIKey(cfg *config.Config) string {
	switch cfg.Ai.EmbeddingProvider {
	case "gemini":
		return cfg.Keys.GoogleGemini
	case "jina":
		return cfg.Keys.Jina
	}
	return ""
}

func newRedisClient(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: url,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v (shared search cache disabled)", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}
