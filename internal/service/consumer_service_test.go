package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/dto"
	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/pkg/lock"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "session.curate.test"

// stubCurator fails every Curate call and records Abandon.
type stubCurator struct {
	mu        sync.Mutex
	curations int
	abandoned []uuid.UUID
	err       error
}

func (s *stubCurator) Curate(ctx context.Context, sessionId uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.curations++
	return s.err
}

func (s *stubCurator) Abandon(ctx context.Context, jobId uuid.UUID, sessionId uuid.UUID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abandoned = append(s.abandoned, jobId)
	return nil
}

// blockingCurator holds Curate until its context ends.
type blockingCurator struct {
	stubCurator
	started chan struct{}
}

func (b *blockingCurator) Curate(ctx context.Context, sessionId uuid.UUID) error {
	b.mu.Lock()
	b.curations++
	first := b.curations == 1
	b.mu.Unlock()
	if first {
		close(b.started)
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *stubCurator) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curations, len(s.abandoned)
}

// startConsumer runs a consumer until the returned stop func or test cleanup.
// stop returns once the router has shut down.
func startConsumer(t *testing.T, f *fixture, pubSub *gochannel.GoChannel, curator ICuratorService, locker lock.Locker) func() {
	t.Helper()
	consumer := NewConsumerService(pubSub, testTopic, f.store, curator, locker, ConsumerConfig{
		MaxAttempts: 2,
		RetryDelay:  10 * time.Millisecond,
		LockTTL:     time.Minute,
	}, f.logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = consumer.Consume(ctx)
	}()
	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
	t.Cleanup(stop)

	select {
	case <-consumer.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not start")
	}
	return stop
}

func publishJob(t *testing.T, pubSub *gochannel.GoChannel, jobId, sessionId uuid.UUID) {
	t.Helper()
	payload, err := json.Marshal(dto.CurationMessage{JobId: jobId, SessionId: sessionId})
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish(testTopic, message.NewMessage(watermill.NewUUID(), payload)))
}

func newPubSub(t *testing.T) *gochannel.GoChannel {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })
	return pubSub
}

func TestConsumer_EndToEnd(t *testing.T) {
	f := newFixture(t)
	pubSub := newPubSub(t)
	provider := &scriptedLLM{replies: []string{validCuration}}
	curator := newTestCurator(f, provider)
	startConsumer(t, f, pubSub, curator, lock.NewLocalLocker())

	dispatcher := NewDispatcherService(f.store, NewPublisherService(pubSub, testTopic), curator, DispatcherConfig{
		WorkerID:      "test",
		PollInterval:  10 * time.Millisecond,
		Lease:         time.Minute,
		MaxDeliveries: 3,
	}, f.logger)

	ctx := context.Background()
	sessions := newTestSessionService(f)
	session := f.createSession(t, entity.SessionStatusLive)
	f.addUtterances(t, session.Id, "today was fine")
	_, err := sessions.End(ctx, f.user.Id, session.Id)
	require.NoError(t, err)

	published, err := dispatcher.DispatchOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, published)

	require.Eventually(t, func() bool {
		return f.session(t, session.Id).Status == entity.SessionStatusReady
	}, 5*time.Second, 10*time.Millisecond)

	// nothing left to hand out
	published, err = dispatcher.DispatchOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, published)
}

func TestConsumer_RetriesThenAbandons(t *testing.T) {
	f := newFixture(t)
	pubSub := newPubSub(t)
	curator := &stubCurator{err: errors.New("db down")}
	startConsumer(t, f, pubSub, curator, lock.NewLocalLocker())

	jobId := uuid.New()
	publishJob(t, pubSub, jobId, uuid.New())

	require.Eventually(t, func() bool {
		_, abandoned := curator.counts()
		return abandoned == 1
	}, 5*time.Second, 10*time.Millisecond)

	curations, _ := curator.counts()
	assert.Equal(t, 2, curations, "one attempt plus one retry")
	curator.mu.Lock()
	defer curator.mu.Unlock()
	assert.Equal(t, jobId, curator.abandoned[0])
}

func TestConsumer_SkipsLockedSession(t *testing.T) {
	f := newFixture(t)
	pubSub := newPubSub(t)
	curator := &stubCurator{}
	locker := lock.NewLocalLocker()
	startConsumer(t, f, pubSub, curator, locker)

	sessionId := uuid.New()
	release, ok, err := locker.TryAcquire(context.Background(), "curate:"+sessionId.String(), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	defer release(context.Background())

	publishJob(t, pubSub, uuid.New(), sessionId)
	// a second message proves the first was acked and processing moved on
	other := uuid.New()
	publishJob(t, pubSub, uuid.New(), other)

	require.Eventually(t, func() bool {
		curations, _ := curator.counts()
		return curations == 1
	}, 5*time.Second, 10*time.Millisecond)

	_, abandoned := curator.counts()
	assert.Zero(t, abandoned)
}

func TestConsumer_DropsMalformedMessage(t *testing.T) {
	f := newFixture(t)
	pubSub := newPubSub(t)
	curator := &stubCurator{}
	startConsumer(t, f, pubSub, curator, lock.NewLocalLocker())

	require.NoError(t, pubSub.Publish(testTopic, message.NewMessage(watermill.NewUUID(), []byte("{broken"))))
	publishJob(t, pubSub, uuid.New(), uuid.New())

	require.Eventually(t, func() bool {
		curations, _ := curator.counts()
		return curations == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestConsumer_ShutdownDoesNotAbandon(t *testing.T) {
	f := newFixture(t)
	pubSub := newPubSub(t)
	curator := &blockingCurator{started: make(chan struct{})}
	stop := startConsumer(t, f, pubSub, curator, lock.NewLocalLocker())

	publishJob(t, pubSub, uuid.New(), uuid.New())

	select {
	case <-curator.started:
	case <-time.After(5 * time.Second):
		t.Fatal("curation never started")
	}
	stop()

	_, abandoned := curator.counts()
	assert.Zero(t, abandoned, "shutdown must leave the job for redelivery")
}
