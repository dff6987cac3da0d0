package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/internal/pkg/logger"
	"github.com/ProbablyAY/SparkCo/internal/repository/memory"
	"github.com/ProbablyAY/SparkCo/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const validCuration = `{
  "title": "A steadier afternoon",
  "curated_entry_md": "The morning was tense, the walk helped.",
  "summary_bullets": ["meeting stress", "walk break"],
  "themes": ["work", "rest", "planning"],
  "emotional_timeline": [
    {"t": "start", "label": "tense", "evidence": "meeting stress"},
    {"t": "mid", "label": "calmer", "evidence": "walk break"},
    {"t": "end", "label": "hopeful", "evidence": "planned tomorrow"}
  ],
  "key_moments": [{"timestamp_ms": 12000, "moment": "Walk", "why_it_matters": "reset"}],
  "followup_questions": ["What helped most?"],
  "memory_candidates": [
    {"category": "goal", "text": "Walk after lunch", "confidence": 0.8},
    {"category": "value", "text": "Values quiet time", "confidence": 0.6}
  ]
}`

type publishedEvent struct {
	kind      string
	userId    uuid.UUID
	sessionId uuid.UUID
	status    entity.SessionStatus
	title     string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) record(e publishedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) PublishSessionEnded(ctx context.Context, userId, sessionId uuid.UUID) {
	p.record(publishedEvent{kind: "ended", userId: userId, sessionId: sessionId, status: entity.SessionStatusProcessing})
}

func (p *recordingPublisher) PublishSessionCurated(ctx context.Context, userId, sessionId uuid.UUID, status entity.SessionStatus, title string) {
	p.record(publishedEvent{kind: "curated", userId: userId, sessionId: sessionId, status: status, title: title})
}

func (p *recordingPublisher) PublishMemoryReviewed(ctx context.Context, userId uuid.UUID, candidate *entity.MemoryCandidate) {
	p.record(publishedEvent{kind: "reviewed", userId: userId, sessionId: candidate.SessionId})
}

func (p *recordingPublisher) snapshot() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

// scriptedLLM answers calls in order; once the script runs out it repeats the
// last entry.
type scriptedLLM struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	calls   int
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	if i < 0 {
		return "", errors.New("no script")
	}
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return s.replies[i], err
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (s *scriptedLLM) ModelName() string { return "test-model" }

func (s *scriptedLLM) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fixture struct {
	store     *memory.Store
	publisher *recordingPublisher
	logger    logger.ILogger
	user      *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:     memory.NewStore(),
		publisher: &recordingPublisher{},
		logger:    logger.NewNopLogger(),
	}
	f.user = f.createUser(t, "owner@example.com")
	return f
}

func (f *fixture) createUser(t *testing.T, email string) *entity.User {
	t.Helper()
	u := &entity.User{Id: uuid.New(), Email: email, PasswordHash: "x"}
	require.NoError(t, f.store.NewUnitOfWork(context.Background()).UserRepository().Create(context.Background(), u))
	return u
}

func (f *fixture) createSession(t *testing.T, status entity.SessionStatus) *entity.Session {
	t.Helper()
	s := &entity.Session{
		Id:        uuid.New(),
		UserId:    f.user.Id,
		Status:    status,
		StartedAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, f.store.NewUnitOfWork(context.Background()).SessionRepository().Create(context.Background(), s))
	return s
}

func (f *fixture) addUtterances(t *testing.T, sessionId uuid.UUID, texts ...string) {
	t.Helper()
	items := make([]*entity.Utterance, len(texts))
	for i, text := range texts {
		speaker := entity.SpeakerUser
		if i%2 == 1 {
			speaker = entity.SpeakerAI
		}
		items[i] = &entity.Utterance{SessionId: sessionId, Speaker: speaker, Text: text}
	}
	require.NoError(t, f.store.NewUnitOfWork(context.Background()).UtteranceRepository().CreateBulk(context.Background(), items))
}

func (f *fixture) session(t *testing.T, id uuid.UUID) *entity.Session {
	t.Helper()
	s, err := f.store.NewUnitOfWork(context.Background()).SessionRepository().FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

func (f *fixture) logs(t *testing.T, sessionId uuid.UUID) []*entity.AIRequestLog {
	t.Helper()
	logs, err := f.store.NewUnitOfWork(context.Background()).AIRequestLogRepository().FindBySession(context.Background(), sessionId)
	require.NoError(t, err)
	return logs
}
