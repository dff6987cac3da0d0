package events

import (
	"context"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/internal/pkg/logger"
	pkgEvents "github.com/ProbablyAY/SparkCo/pkg/events"

	"github.com/google/uuid"
)

const (
	TypeSessionEnded   = "session.ended"
	TypeSessionReady   = "session.ready"
	TypeSessionFailed  = "session.failed"
	TypeMemoryApproved = "memory.approved"
	TypeMemoryRejected = "memory.rejected"
)

// EventSink is satisfied by *nats.Publisher.
type EventSink interface {
	Publish(ctx context.Context, event pkgEvents.Event) error
}

// Publisher emits journal domain events. Publishing is best effort: failures are
// logged, never returned, because the database is the source of truth.
type Publisher interface {
	PublishSessionEnded(ctx context.Context, userId, sessionId uuid.UUID)
	PublishSessionCurated(ctx context.Context, userId, sessionId uuid.UUID, status entity.SessionStatus, title string)
	PublishMemoryReviewed(ctx context.Context, userId uuid.UUID, candidate *entity.MemoryCandidate)
}

// NatsPublisher implements Publisher on top of an EventSink. A nil sink makes it a no-op.
type NatsPublisher struct {
	sink   EventSink
	logger logger.ILogger
}

func NewNatsPublisher(sink EventSink, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		sink:   sink,
		logger: logger,
	}
}

func (p *NatsPublisher) PublishSessionEnded(ctx context.Context, userId, sessionId uuid.UUID) {
	p.publish(ctx, TypeSessionEnded, map[string]interface{}{
		"user_id":    userId,
		"session_id": sessionId,
		"status":     entity.SessionStatusProcessing,
	})
}

func (p *NatsPublisher) PublishSessionCurated(ctx context.Context, userId, sessionId uuid.UUID, status entity.SessionStatus, title string) {
	eventType := TypeSessionFailed
	if status == entity.SessionStatusReady {
		eventType = TypeSessionReady
	}
	p.publish(ctx, eventType, map[string]interface{}{
		"user_id":    userId,
		"session_id": sessionId,
		"status":     status,
		"title":      title,
	})
}

func (p *NatsPublisher) PublishMemoryReviewed(ctx context.Context, userId uuid.UUID, candidate *entity.MemoryCandidate) {
	eventType := TypeMemoryRejected
	if candidate.Review.Kind == entity.ReviewApproved {
		eventType = TypeMemoryApproved
	}
	p.publish(ctx, eventType, map[string]interface{}{
		"user_id":      userId,
		"candidate_id": candidate.Id,
		"session_id":   candidate.SessionId,
		"reviewed_at":  candidate.Review.At,
	})
}

func (p *NatsPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.sink == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}

	if err := p.sink.Publish(ctx, evt); err != nil {
		p.logger.Error("EVENTS", "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}
