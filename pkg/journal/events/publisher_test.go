package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/internal/pkg/logger"
	pkgEvents "github.com/ProbablyAY/SparkCo/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	events []pkgEvents.Event
	err    error
}

func (s *recordingSink) Publish(ctx context.Context, event pkgEvents.Event) error {
	s.events = append(s.events, event)
	return s.err
}

func TestNatsPublisher_SessionEvents(t *testing.T) {
	sink := &recordingSink{}
	p := NewNatsPublisher(sink, logger.NewNopLogger())
	userID, sessionID := uuid.New(), uuid.New()

	p.PublishSessionEnded(context.Background(), userID, sessionID)
	p.PublishSessionCurated(context.Background(), userID, sessionID, entity.SessionStatusReady, "Good day")
	p.PublishSessionCurated(context.Background(), userID, sessionID, entity.SessionStatusFailed, entity.TitleProcessingFailed)

	require.Len(t, sink.events, 3)
	assert.Equal(t, TypeSessionEnded, sink.events[0].EventType())
	assert.Equal(t, TypeSessionReady, sink.events[1].EventType())
	assert.Equal(t, "Good day", sink.events[1].Payload()["title"])
	assert.Equal(t, TypeSessionFailed, sink.events[2].EventType())
	assert.Equal(t, sessionID, sink.events[2].Payload()["session_id"])
}

func TestNatsPublisher_MemoryReviewed(t *testing.T) {
	sink := &recordingSink{}
	p := NewNatsPublisher(sink, logger.NewNopLogger())
	c := &entity.MemoryCandidate{Id: uuid.New(), Review: entity.Approved(time.Now())}

	p.PublishMemoryReviewed(context.Background(), uuid.New(), c)
	c.Review = entity.Rejected(time.Now())
	p.PublishMemoryReviewed(context.Background(), uuid.New(), c)

	require.Len(t, sink.events, 2)
	assert.Equal(t, TypeMemoryApproved, sink.events[0].EventType())
	assert.Equal(t, TypeMemoryRejected, sink.events[1].EventType())
}

func TestNatsPublisher_SwallowsErrorsAndNilSink(t *testing.T) {
	sink := &recordingSink{err: errors.New("nats down")}
	p := NewNatsPublisher(sink, logger.NewNopLogger())
	assert.NotPanics(t, func() {
		p.PublishSessionEnded(context.Background(), uuid.New(), uuid.New())
	})

	nilSink := NewNatsPublisher(nil, logger.NewNopLogger())
	assert.NotPanics(t, func() {
		nilSink.PublishSessionEnded(context.Background(), uuid.New(), uuid.New())
	})
}
