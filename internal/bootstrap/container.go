package bootstrap

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/config"
	"github.com/ProbablyAY/SparkCo/internal/controller"
	"github.com/ProbablyAY/SparkCo/internal/handler"
	"github.com/ProbablyAY/SparkCo/internal/pkg/logger"
	"github.com/ProbablyAY/SparkCo/internal/repository/memory"
	"github.com/ProbablyAY/SparkCo/internal/repository/unitofwork"
	"github.com/ProbablyAY/SparkCo/internal/service"
	"github.com/ProbablyAY/SparkCo/internal/websocket"
	"github.com/ProbablyAY/SparkCo/pkg/curation"
	"github.com/ProbablyAY/SparkCo/pkg/database"
	journalEvents "github.com/ProbablyAY/SparkCo/pkg/journal/events"
	"github.com/ProbablyAY/SparkCo/pkg/llm/factory"
	"github.com/ProbablyAY/SparkCo/pkg/lock"
	pktNats "github.com/ProbablyAY/SparkCo/pkg/nats"
	"github.com/ProbablyAY/SparkCo/pkg/realtime"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	SessionController controller.ISessionController
	MemoryController  controller.IMemoryController
	WsHandler         *handler.WsHandler

	AuthService service.IAuthService

	// Background services, started by the binaries
	WebSocketHub        *websocket.Hub
	SessionEventService *service.SessionEventService // nil without NATS
	DispatcherService   service.IDispatcherService
	ConsumerService     service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c.Logger = sysLogger

	uowFactory, err := newRepositoryFactory(cfg)
	if err != nil {
		return nil, err
	}

	// 2. Infrastructure
	// NATS is optional: without it events are dropped and clients poll.
	var sink journalEvents.EventSink
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		sink = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	eventPublisher := journalEvents.NewNatsPublisher(sink, sysLogger)

	rdb := connectRedis(cfg.App.RedisURL)
	var locker lock.Locker = lock.NewLocalLocker()
	if rdb != nil {
		locker = lock.NewRedisLocker(rdb, "journal:lock:")
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)

	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		c.SessionEventService = service.NewSessionEventService(natsSub, c.WebSocketHub, wsLogger)
		c.closers = append(c.closers, natsSub.Close)
	}

	// 3. AI providers
	llmProvider, err := factory.NewLLMProvider(cfg.Ai)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	pipeline := curation.NewPipeline(
		llmProvider,
		curation.Schema{StrictTimeline: cfg.Curation.StrictTimeline},
		cfg.Curation.CallTimeout,
	)
	minter := realtime.NewClient(cfg.Realtime.BaseURL, cfg.Ai.OpenAIKey, cfg.Realtime.Model, cfg.Realtime.Voice)

	// 4. Curation bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 5. Services
	authService := service.NewAuthService(uowFactory, cfg.Auth.JwtSecret, cfg.Auth.TokenTTL)
	sessionService := service.NewSessionService(uowFactory, eventPublisher, sysLogger)
	memoryService := service.NewMemoryService(uowFactory, eventPublisher)
	realtimeService := service.NewRealtimeService(uowFactory, minter, cfg.Realtime.TokenTTL, sysLogger)
	curatorService := service.NewCuratorService(uowFactory, pipeline, eventPublisher, sysLogger)

	c.DispatcherService = service.NewDispatcherService(
		uowFactory,
		service.NewPublisherService(pubSub, cfg.Curation.Topic),
		curatorService,
		service.DispatcherConfig{
			WorkerID:      workerID(),
			PollInterval:  cfg.Curation.PollInterval,
			Lease:         cfg.Curation.JobLease,
			MaxDeliveries: cfg.Curation.MaxDeliveries,
		},
		sysLogger,
	)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Curation.Topic,
		uowFactory,
		curatorService,
		locker,
		service.ConsumerConfig{
			MaxAttempts: cfg.Curation.MaxAttempts,
			RetryDelay:  cfg.Curation.RetryDelay,
			LockTTL:     cfg.Curation.LockTTL,
		},
		sysLogger,
	)

	// 6. Controllers
	c.AuthService = authService
	c.AuthController = controller.NewAuthController(authService, cfg.IsProduction())
	c.SessionController = controller.NewSessionController(sessionService, realtimeService)
	c.MemoryController = controller.NewMemoryController(memoryService)
	c.WsHandler = handler.NewWsHandler(authService, c.WebSocketHub, wsLogger)

	return c, nil
}

// StartPush runs the websocket hub and the session event subscription.
func (c *Container) StartPush(ctx context.Context) {
	go c.WebSocketHub.Run(ctx)

	if c.SessionEventService != nil {
		if err := c.SessionEventService.Start(ctx); err != nil {
			c.Logger.Error("BOOTSTRAP", "Failed to start session event subscriber", map[string]interface{}{"error": err.Error()})
		}
	}
}

// RunWorker runs the curation consumer and the outbox dispatcher until ctx is done.
// The dispatcher waits for the consumer to subscribe so no message is published
// into an empty topic.
func (c *Container) RunWorker(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.ConsumerService.Consume(ctx)
	}()

	select {
	case <-c.ConsumerService.Running():
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}

	c.DispatcherService.Run(ctx)
	return <-errCh
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func newRepositoryFactory(cfg *config.Config) (unitofwork.RepositoryFactory, error) {
	if cfg.Database.Driver == "memory" {
		log.Printf("[INFO] Using in-memory store")
		return memory.NewStore(), nil
	}

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return unitofwork.NewRepositoryFactory(gormDB), nil
}

// connectRedis returns nil when Redis is unreachable; callers fall back to
// process-local behaviour.
func connectRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func workerID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "worker"
	}
	return fmt.Sprintf("%s-%s", host, uuid.NewString()[:8])
}
