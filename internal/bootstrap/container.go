package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-consultant-bot/internal/config"
	"ai-consultant-bot/internal/constant"
	"ai-consultant-bot/internal/controller"
	"ai-consultant-bot/internal/handler"
	"ai-consultant-bot/internal/pkg/logger"
	"ai-consultant-bot/internal/repository/memory"
	"ai-consultant-bot/internal/repository/unitofwork"
	"ai-consultant-bot/internal/service"
	"ai-consultant-bot/internal/telegram"
	"ai-consultant-bot/pkg/corpus"
	"ai-consultant-bot/pkg/embedding"
	"ai-consultant-bot/pkg/events"
	"ai-consultant-bot/pkg/knowledge"
	"ai-consultant-bot/pkg/llm/factory"
	"ai-consultant-bot/pkg/rag/access"
	ragcontext "ai-consultant-bot/pkg/rag/context"
	"ai-consultant-bot/pkg/rag/dedup"
	"ai-consultant-bot/pkg/rag/delivery"
	"ai-consultant-bot/pkg/rag/response"
	"ai-consultant-bot/pkg/rag/session"
	"ai-consultant-bot/pkg/rag/state"

	pktNats "ai-consultant-bot/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	// Transport
	Telegram      *telegram.Client
	UpdateHandler *handler.UpdateHandler
	BotController controller.IBotController

	// Background Services (Exposed for main.go to run)
	ChatbotService service.IChatbotService
	AuditService   service.IAuditService

	pubSub  *gochannel.GoChannel
	natsPub *pktNats.Publisher
	rdb     *redis.Client
}

// NewContainer wires the bot. Anything the bot cannot answer without is fatal.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	llmLogger := logger.NewIsolatedLogger(cfg.App.LLMLogPath)

	tg, err := telegram.NewClient(cfg.Telegram.BotToken, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Telegram client: %v", err)
	}

	// 2. AI Providers
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	embeddingProvider, err := embedding.NewEmbeddingProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s (%s)", cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel)

	// 3. Corpus & Knowledge Index
	loader := corpus.NewLoader()
	systemPrompt, err := loader.Load(ctx, cfg.Corpus.SystemPromptSource)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load system prompt: %v", err)
	}
	chunks, err := loader.LoadChunks(ctx, cfg.Corpus.KnowledgeBaseSource, cfg.Corpus.ChunkSize)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load knowledge base: %v", err)
	}

	var backend knowledge.Backend = knowledge.NewMemoryBackend()
	if cfg.Corpus.IndexBackend == "pgvector" {
		backend = knowledge.NewPgvectorBackend(uowFactory)
	}

	started := time.Now()
	index, err := knowledge.Build(ctx, embeddingProvider, chunks, backend)
	if err != nil {
		log.Fatalf("[FATAL] Failed to build knowledge index: %v", err)
	}
	sysLogger.Info("BOOTSTRAP", "Knowledge index ready", map[string]interface{}{
		"chunks":   len(chunks),
		"backend":  cfg.Corpus.IndexBackend,
		"duration": time.Since(started).String(),
	})

	// 4. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	auditService := service.NewAuditService(pubSub, uowFactory, sysLogger)

	// 5. Optional Infrastructure
	var publisher events.Publisher = events.NoopPublisher{}
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			publisher = natsPub
		}
	}

	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v. Using in-process duplicate guard", err)
			_ = rdb.Close()
			rdb = nil
		}
	}

	// 6. Engine
	verifier := access.NewVerifier(cfg.Telegram.AdminUsernames, uowFactory, sysLogger)
	deliverer := delivery.NewDeliverer(tg, delivery.LinkPolicy{}, delivery.NewFollowUpScheduler(), delivery.Celebration{
		StickerID: constant.StickerCelebration,
		Text:      constant.MessageCelebration,
		Delay:     cfg.Dialog.FollowUpDelay,
	}, sysLogger)

	chatbotService := service.NewChatbotService(service.ChatbotDependencies{
		Messenger: tg,
		Verifier:  verifier,
		Sessions:  session.NewManager(memory.NewSessionRepository()),
		States:    state.NewManager(constant.ConfirmPhrase, constant.ReadyPhrase, sysLogger),
		Assembler: ragcontext.NewAssembler(index, cfg.Dialog.TopK, cfg.Dialog.SummaryMaxSize),
		Generator: response.NewGenerator(llmProvider, response.Sampling{
			Temperature:      cfg.Ai.Temperature,
			FrequencyPenalty: cfg.Ai.FrequencyPenalty,
			Timeout:          cfg.Ai.Timeout,
		}, llmLogger),
		Deliverer:    deliverer,
		Audit:        auditService,
		Events:       publisher,
		Guard:        dedup.New(rdb, cfg.Dialog.DedupWindow, sysLogger),
		SystemPrompt: systemPrompt,
		Logger:       sysLogger,
	})
	adminService := service.NewAdminService(uowFactory, verifier, tg, deliverer, sysLogger)

	updateHandler := handler.NewUpdateHandler(chatbotService, adminService, sysLogger)

	return &Container{
		Logger:         sysLogger,
		Telegram:       tg,
		UpdateHandler:  updateHandler,
		BotController:  controller.NewBotController(updateHandler, chatbotService),
		ChatbotService: chatbotService,
		AuditService:   auditService,
		pubSub:         pubSub,
		natsPub:        natsPub,
		rdb:            rdb,
	}
}

// Close drains queued updates and releases connections.
func (c *Container) Close(ctx context.Context) {
	if err := c.UpdateHandler.Shutdown(ctx); err != nil {
		c.Logger.Warn("BOOTSTRAP", "Update queue not drained", map[string]interface{}{"error": err.Error()})
	}
	c.ChatbotService.Shutdown()

	if err := c.pubSub.Close(); err != nil {
		c.Logger.Warn("BOOTSTRAP", "Failed to close event bus", map[string]interface{}{"error": err.Error()})
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	_ = c.Logger.Sync()
}
