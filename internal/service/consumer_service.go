// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/dto"
	"github.com/ProbablyAY/SparkCo/internal/pkg/logger"
	"github.com/ProbablyAY/SparkCo/internal/repository/unitofwork"
	"github.com/ProbablyAY/SparkCo/pkg/lock"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

type IConsumerService interface {
	// Consume blocks until ctx is cancelled or the router fails.
	Consume(ctx context.Context) error

	// Running is closed once the handler is subscribed.
	Running() <-chan struct{}
}

type ConsumerConfig struct {
	MaxAttempts int
	RetryDelay  time.Duration
	LockTTL     time.Duration
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	curator    ICuratorService
	locker     lock.Locker
	cfg        ConsumerConfig
	logger     logger.ILogger
	wmLogger   watermill.LoggerAdapter
	running    chan struct{}
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	curator ICuratorService,
	locker lock.Locker,
	cfg ConsumerConfig,
	logger logger.ILogger,
) IConsumerService {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		curator:    curator,
		locker:     locker,
		cfg:        cfg,
		logger:     logger,
		wmLogger:   watermill.NopLogger{},
		running:    make(chan struct{}),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	router, err := message.NewRouter(message.RouterConfig{}, cs.wmLogger)
	if err != nil {
		return err
	}

	// First middleware is outermost: exhaustion sees the error left after all retries.
	router.AddMiddleware(
		cs.exhaustion,
		middleware.Retry{
			MaxRetries:      cs.cfg.MaxAttempts - 1,
			InitialInterval: cs.cfg.RetryDelay,
			MaxInterval:     cs.cfg.RetryDelay,
			Multiplier:      1,
			Logger:          cs.wmLogger,
		}.Middleware,
		middleware.Recoverer,
	)

	router.AddNoPublisherHandler("session_curator", cs.topicName, cs.subscriber, cs.processMessage)

	go func() {
		<-router.Running()
		close(cs.running)
	}()

	return router.Run(ctx)
}

func (cs *consumerService) Running() <-chan struct{} {
	return cs.running
}

func (cs *consumerService) processMessage(msg *message.Message) error {
	payload, err := decodeCurationMessage(msg)
	if err != nil {
		cs.logger.Error("CONSUMER", "Dropping malformed curation message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return nil
	}

	ctx := msg.Context()
	release, ok, err := cs.locker.TryAcquire(ctx, "curate:"+payload.SessionId.String(), cs.cfg.LockTTL)
	if err != nil {
		return err
	}
	if !ok {
		// another worker is on this session; its outcome settles the job
		cs.logger.Debug("CONSUMER", "Session locked elsewhere, skipping", map[string]interface{}{
			"session_id": payload.SessionId,
		})
		return nil
	}
	defer release(context.Background())

	if err := cs.curator.Curate(ctx, payload.SessionId); err != nil {
		cs.logger.Warn("CONSUMER", "Curation attempt failed", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		return err
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	return uow.CurationJobRepository().MarkDone(ctx, payload.JobId)
}

// exhaustion acks a message whose retries ran out and fails its session.
// A shutdown is not exhaustion: the job stays DISPATCHED and lease reclaim
// hands it out again.
func (cs *consumerService) exhaustion(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		produced, err := h(msg)
		if err == nil {
			return produced, nil
		}
		if errors.Is(err, context.Canceled) || msg.Context().Err() != nil {
			cs.logger.Info("CONSUMER", "Curation interrupted by shutdown, leaving job for redelivery", map[string]interface{}{
				"message_id": msg.UUID,
			})
			return nil, err
		}

		payload, decodeErr := decodeCurationMessage(msg)
		if decodeErr != nil {
			return nil, nil
		}

		reason := fmt.Sprintf("retries exhausted after %d attempts: %v", cs.cfg.MaxAttempts, err)
		if abandonErr := cs.curator.Abandon(context.Background(), payload.JobId, payload.SessionId, reason); abandonErr != nil {
			cs.logger.Error("CONSUMER", "Failed to abandon exhausted job", map[string]interface{}{
				"job_id": payload.JobId,
				"error":  abandonErr.Error(),
			})
		}
		return nil, nil
	}
}

func decodeCurationMessage(msg *message.Message) (dto.CurationMessage, error) {
	var payload dto.CurationMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
