// FILE: internal/service/session_event_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ProbablyAY/SparkCo/internal/pkg/logger"
	"github.com/ProbablyAY/SparkCo/pkg/events"
	pktNats "github.com/ProbablyAY/SparkCo/pkg/nats"

	"github.com/google/uuid"
)

const sessionPushDurable = "session-push"

// SessionDelivery pushes a frame to every connection of a user. Implemented by
// the websocket hub.
type SessionDelivery interface {
	Send(userID uuid.UUID, frame []byte)
}

// EventSubscriber is satisfied by *nats.Subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject string, durableName string, handler pktNats.EventHandler) error
}

type sessionStatusFrame struct {
	Type string            `json:"type"`
	Data sessionStatusData `json:"data"`
}

type sessionStatusData struct {
	SessionId string  `json:"session_id"`
	Status    string  `json:"status"`
	Title     *string `json:"title"`
}

// SessionEventService forwards session lifecycle events from the bus to
// connected browsers.
type SessionEventService struct {
	subscriber EventSubscriber
	delivery   SessionDelivery
	logger     logger.ILogger
}

func NewSessionEventService(sub EventSubscriber, delivery SessionDelivery, log logger.ILogger) *SessionEventService {
	return &SessionEventService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

func (s *SessionEventService) Start(ctx context.Context) error {
	subject := events.Subject("session.>")
	if err := s.subscriber.Subscribe(ctx, subject, sessionPushDurable, s.HandleEvent); err != nil {
		return err
	}
	s.logger.Info("SessionEventService", "Listening for session events", map[string]interface{}{"subject": subject})
	return nil
}

// HandleEvent never asks for redelivery: a push that cannot be built will not get
// better on retry, and clients can always poll.
func (s *SessionEventService) HandleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	userID, err := uuid.Parse(fmt.Sprint(payload["user_id"]))
	if err != nil {
		s.logger.Warn("SessionEventService", "Event without user_id", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	data := sessionStatusData{
		SessionId: fmt.Sprint(payload["session_id"]),
		Status:    fmt.Sprint(payload["status"]),
	}
	if title, ok := payload["title"].(string); ok {
		data.Title = &title
	}

	frame, err := json.Marshal(sessionStatusFrame{Type: "session_status", Data: data})
	if err != nil {
		return nil
	}

	s.delivery.Send(userID, frame)
	s.logger.Info("SessionEventService", "Session status pushed", map[string]interface{}{
		"user_id":    userID,
		"session_id": data.SessionId,
		"status":     data.Status,
	})
	return nil
}
