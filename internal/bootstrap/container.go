package bootstrap

import (
	"context"
	"log"
	"strings"

	"pkv-backend/internal/config"
	"pkv-backend/internal/controller"
	"pkv-backend/internal/handler"
	"pkv-backend/internal/pkg/logger"
	"pkv-backend/internal/pkg/mailer"
	"pkv-backend/internal/pkg/serverutils"
	"pkv-backend/internal/pkg/storage"
	"pkv-backend/internal/repository/implementation"
	"pkv-backend/internal/repository/memory"
	"pkv-backend/internal/repository/unitofwork"
	"pkv-backend/internal/service"
	"pkv-backend/internal/websocket"
	"pkv-backend/pkg/contractqa"
	"pkv-backend/pkg/embedding"
	"pkv-backend/pkg/events"
	"pkv-backend/pkg/voiceflow"

	pktNats "pkv-backend/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	UserController      controller.IUserController
	InsuranceController controller.IInsuranceController
	ContractController  controller.IContractController
	ContactController   controller.IContactController
	VoiceflowController controller.IVoiceflowController

	// Background services, run by main.go
	ConsumerService     service.IConsumerService
	NotificationService *service.NotificationService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
		sysLogger,
	)

	// 2. Job queue
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)

	// 3. Encoder, one per process
	encoder, err := embedding.NewProvider(embedding.Options{
		Provider: cfg.Ai.EmbeddingProvider,
		Model:    cfg.Ai.EmbeddingModel,
		BaseURL:  cfg.Ai.EmbeddingBaseURL,
		APIKey:   embeddingKey(cfg),
		Timeout:  cfg.Ai.EmbeddingTimeout,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize embedding provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s (%s)", cfg.Ai.EmbeddingProvider, encoder.Model())

	// 4. Infrastructure
	// NATS
	var eventPublisher events.Publisher = events.NopPublisher{}
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
	}
	var eventSubscriber service.EventSubscriber
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		eventSubscriber = natsSub
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	revocations := memory.NewRevocationStore(rdb, sysLogger)
	jwtMiddleware := serverutils.NewJwtMiddleware(cfg.App.JwtSecret, revocations)

	// Contract storage and the question pipeline
	contractStore := storage.NewContractStore(cfg.Storage.ContractBaseURL)
	corpusCache := service.NewContractCorpusCache(
		memory.NewCorpusCache(cfg.Ai.CorpusCacheTTL),
		uowFactory,
		cfg.Ai.PersistEmbeddings,
		sysLogger,
	)
	extractor := contractqa.NewPDFExtractor(contractStore)
	pipeline := contractqa.NewPipeline(
		service.NewContractDocumentStore(uowFactory),
		extractor,
		encoder,
		sysLogger,
		contractqa.WithCache(corpusCache),
		contractqa.WithMaxQuestionLength(cfg.Ai.MaxQuestionLength),
	)

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Ai.ContractTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ai.ContractTopic,
		uowFactory,
		extractor,
		encoder,
		corpusCache,
		eventPublisher,
		sysLogger,
	)

	authService := service.NewAuthService(uowFactory, emailService, eventPublisher, revocations, service.AuthSettings{
		JwtSecret:      cfg.App.JwtSecret,
		JwtTTL:         cfg.App.JwtTTL,
		VerifyTokenTTL: cfg.App.VerifyTokenTTL,
		ResetTokenTTL:  cfg.App.ResetTokenTTL,
	}, sysLogger)
	userService := service.NewUserService(uowFactory)
	insuranceService := service.NewInsuranceService(uowFactory)
	contractService := service.NewContractService(
		uowFactory,
		contractStore,
		publisherService,
		corpusCache,
		int64(cfg.Storage.MaxUploadBytes),
		sysLogger,
	)
	chatbotService := service.NewContractChatbotService(pipeline, sysLogger)
	contactService := service.NewContactService(uowFactory, emailService, eventPublisher, cfg.App.ContactRecipients, sysLogger)

	mappings, err := voiceflow.LoadMappings(cfg.Voiceflow.MappingFile)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load voiceflow mappings: %v", err)
	}
	voiceflowClient := voiceflow.NewClient(voiceflow.Config{
		APIKey:            cfg.Voiceflow.APIKey,
		VersionID:         cfg.Voiceflow.VersionID,
		BaseURL:           cfg.Voiceflow.BaseURL,
		Timeout:           cfg.Voiceflow.Timeout,
		RequestsPerSecond: cfg.Voiceflow.RequestsPerSecond,
		Burst:             cfg.Voiceflow.Burst,
	})
	voiceflowService := service.NewVoiceflowService(uowFactory, voiceflowClient, mappings, sysLogger)

	// 6. Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, eventSubscriber, eventPublisher, wsHub, wsLogger) // Hub implements NotificationDelivery
	notifHandler := handler.NewNotificationHandler(notifService, wsHub, cfg.App.JwtSecret, jwtMiddleware, wsLogger)

	c := &Container{
		AuthController:      controller.NewAuthController(authService, jwtMiddleware),
		UserController:      controller.NewUserController(userService, jwtMiddleware),
		InsuranceController: controller.NewInsuranceController(insuranceService, jwtMiddleware),
		ContractController:  controller.NewContractController(contractService, chatbotService, jwtMiddleware),
		ContactController:   controller.NewContactController(contactService, jwtMiddleware),
		VoiceflowController: controller.NewVoiceflowController(voiceflowService, jwtMiddleware),

		ConsumerService:     consumerService,
		NotificationService: notifService,
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
		Logger:              sysLogger,
	}

	c.closers = append(c.closers, func() { _ = pubSub.Close() })
	if natsPub != nil {
		c.closers = append(c.closers, natsPub.Close)
	}
	if natsSub != nil {
		c.closers = append(c.closers, natsSub.Close)
	}
	c.closers = append(c.closers,
		func() { _ = encoder.Close() },
		func() { _ = rdb.Close() },
		func() { _ = wsLogger.Sync() },
		func() { _ = sysLogger.Sync() },
	)

	return c
}

// Close releases connections in the order they were opened.
func (c *Container) Close() {
	for _, closeFn := range c.closers {
		closeFn()
	}
}

func embeddingKey(cfg *config.Config) string {
	if strings.EqualFold(strings.TrimSpace(cfg.Ai.EmbeddingProvider), "jina") {
		return cfg.Keys.Jina
	}
	return cfg.Keys.HuggingFace
}
