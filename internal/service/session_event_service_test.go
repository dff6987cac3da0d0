package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ProbablyAY/SparkCo/pkg/events"
	pktNats "github.com/ProbablyAY/SparkCo/pkg/nats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentFrame struct {
	userID uuid.UUID
	frame  []byte
}

type recordingDelivery struct {
	sent []sentFrame
}

func (d *recordingDelivery) Send(userID uuid.UUID, frame []byte) {
	d.sent = append(d.sent, sentFrame{userID: userID, frame: frame})
}

type recordingSubscriber struct {
	subject string
	durable string
}

func (s *recordingSubscriber) Subscribe(ctx context.Context, subject string, durableName string, handler pktNats.EventHandler) error {
	s.subject, s.durable = subject, durableName
	return nil
}

func TestSessionEventService_Start(t *testing.T) {
	sub := &recordingSubscriber{}
	svc := NewSessionEventService(sub, &recordingDelivery{}, newFixture(t).logger)

	require.NoError(t, svc.Start(context.Background()))
	assert.Equal(t, "events.session.>", sub.subject)
	assert.Equal(t, "session-push", sub.durable)
}

func TestSessionEventService_PushesStatusFrame(t *testing.T) {
	delivery := &recordingDelivery{}
	svc := NewSessionEventService(&recordingSubscriber{}, delivery, newFixture(t).logger)

	userID, sessionID := uuid.New(), uuid.New()
	err := svc.HandleEvent(context.Background(), events.BaseEvent{
		Type: "session.ready",
		Data: map[string]interface{}{
			"user_id":    userID.String(),
			"session_id": sessionID.String(),
			"status":     "ready",
			"title":      "A steadier afternoon",
		},
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)

	require.Len(t, delivery.sent, 1)
	assert.Equal(t, userID, delivery.sent[0].userID)

	var frame struct {
		Type string `json:"type"`
		Data struct {
			SessionID string  `json:"session_id"`
			Status    string  `json:"status"`
			Title     *string `json:"title"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(delivery.sent[0].frame, &frame))
	assert.Equal(t, "session_status", frame.Type)
	assert.Equal(t, sessionID.String(), frame.Data.SessionID)
	assert.Equal(t, "ready", frame.Data.Status)
	require.NotNil(t, frame.Data.Title)
	assert.Equal(t, "A steadier afternoon", *frame.Data.Title)
}

func TestSessionEventService_IgnoresEventWithoutUser(t *testing.T) {
	delivery := &recordingDelivery{}
	svc := NewSessionEventService(&recordingSubscriber{}, delivery, newFixture(t).logger)

	err := svc.HandleEvent(context.Background(), events.BaseEvent{
		Type: "session.ended",
		Data: map[string]interface{}{"session_id": uuid.NewString()},
	})
	require.NoError(t, err)
	assert.Empty(t, delivery.sent)
}
