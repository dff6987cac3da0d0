package service

import (
	"context"
	"testing"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/dto"
	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionService(f *fixture) *sessionService {
	return NewSessionService(f.store, f.publisher, f.logger).(*sessionService)
}

func int64Ptr(v int64) *int64 { return &v }

func TestSessionService_CreateAndList(t *testing.T) {
	f := newFixture(t)
	svc := newTestSessionService(f)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	older, err := svc.Create(ctx, f.user.Id)
	require.NoError(t, err)
	svc.now = func() time.Time { return base.Add(time.Hour) }
	newer, err := svc.Create(ctx, f.user.Id)
	require.NoError(t, err)

	assert.Equal(t, "live", older.Status)
	assert.Nil(t, older.Title)
	assert.Nil(t, older.EndedAt)

	other := f.createUser(t, "other@example.com")
	_, err = svc.Create(ctx, other.Id)
	require.NoError(t, err)

	list, err := svc.List(ctx, f.user.Id)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.Id, list[0].Id)
	assert.Equal(t, older.Id, list[1].Id)
}

func TestSessionService_ShowNotOwned(t *testing.T) {
	f := newFixture(t)
	svc := newTestSessionService(f)
	session := f.createSession(t, entity.SessionStatusLive)

	other := f.createUser(t, "other@example.com")
	_, err := svc.Show(context.Background(), other.Id, session.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSessionService_AppendUtterances(t *testing.T) {
	f := newFixture(t)
	svc := newTestSessionService(f)
	ctx := context.Background()
	session := f.createSession(t, entity.SessionStatusLive)

	res, err := svc.AppendUtterances(ctx, f.user.Id, session.Id, &dto.AppendUtterancesRequest{
		Items: []dto.UtteranceItem{
			{Speaker: "user", Text: "I had a long day", StartMs: int64Ptr(0), EndMs: int64Ptr(1500)},
			{Speaker: "ai", Text: "What made it long?"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Accepted)

	_, err = svc.AppendUtterances(ctx, f.user.Id, session.Id, &dto.AppendUtterancesRequest{
		Items: []dto.UtteranceItem{{Speaker: "user", Text: "Meetings, mostly"}},
	})
	require.NoError(t, err)

	show, err := svc.Show(ctx, f.user.Id, session.Id)
	require.NoError(t, err)
	require.Len(t, show.Utterances, 3)
	assert.Equal(t, "I had a long day", show.Utterances[0].Text)
	assert.Equal(t, "Meetings, mostly", show.Utterances[2].Text)
	assert.Less(t, show.Utterances[0].Seq, show.Utterances[1].Seq)
	assert.Less(t, show.Utterances[1].Seq, show.Utterances[2].Seq)
	assert.Nil(t, show.Artifact)
	assert.Empty(t, show.MemoryCandidates)
}

func TestSessionService_AppendUtterancesValidation(t *testing.T) {
	f := newFixture(t)
	svc := newTestSessionService(f)
	ctx := context.Background()
	session := f.createSession(t, entity.SessionStatusLive)

	tooMany := make([]dto.UtteranceItem, 101)
	for i := range tooMany {
		tooMany[i] = dto.UtteranceItem{Speaker: "user", Text: "x"}
	}

	cases := map[string][]dto.UtteranceItem{
		"empty batch":     {},
		"oversized batch": tooMany,
		"empty text":      {{Speaker: "user", Text: ""}},
		"bad speaker":     {{Speaker: "narrator", Text: "hi"}},
		"negative start":  {{Speaker: "user", Text: "hi", StartMs: int64Ptr(-1)}},
		"start after end": {{Speaker: "user", Text: "hi", StartMs: int64Ptr(2000), EndMs: int64Ptr(1000)}},
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.AppendUtterances(ctx, f.user.Id, session.Id, &dto.AppendUtterancesRequest{Items: items})
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}

	show, err := svc.Show(ctx, f.user.Id, session.Id)
	require.NoError(t, err)
	assert.Empty(t, show.Utterances)
}

func TestSessionService_AppendUtterancesAfterEnd(t *testing.T) {
	f := newFixture(t)
	svc := newTestSessionService(f)
	session := f.createSession(t, entity.SessionStatusReady)

	res, err := svc.AppendUtterances(context.Background(), f.user.Id, session.Id, &dto.AppendUtterancesRequest{
		Items: []dto.UtteranceItem{{Speaker: "user", Text: "late tail"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Accepted)
}

func TestSessionService_AppendUtterancesUnknownSession(t *testing.T) {
	f := newFixture(t)
	svc := newTestSessionService(f)

	_, err := svc.AppendUtterances(context.Background(), f.user.Id, uuid.New(), &dto.AppendUtterancesRequest{
		Items: []dto.UtteranceItem{{Speaker: "user", Text: "hello"}},
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSessionService_End(t *testing.T) {
	f := newFixture(t)
	svc := newTestSessionService(f)
	ctx := context.Background()

	session := f.createSession(t, entity.SessionStatusLive)
	endedAt := session.StartedAt.Add(90500 * time.Millisecond)
	svc.now = func() time.Time { return endedAt }

	res, err := svc.End(ctx, f.user.Id, session.Id)
	require.NoError(t, err)
	assert.Equal(t, "processing", res.Status)
	assert.Equal(t, 91, res.DurationSeconds)

	stored := f.session(t, session.Id)
	assert.Equal(t, entity.SessionStatusProcessing, stored.Status)
	require.NotNil(t, stored.EndedAt)
	assert.True(t, stored.EndedAt.Equal(endedAt))
	require.NotNil(t, stored.DurationSeconds)
	assert.Equal(t, 91, *stored.DurationSeconds)

	claimed, _, err := f.store.NewUnitOfWork(ctx).CurationJobRepository().Claim(ctx, "w", 10, time.Minute, 3)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, session.Id, claimed[0].SessionId)

	events := f.publisher.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "ended", events[0].kind)

	_, err = svc.End(ctx, f.user.Id, session.Id)
	assert.ErrorIs(t, err, apperror.ErrInvalidState)

	claimed, _, err = f.store.NewUnitOfWork(ctx).CurationJobRepository().Claim(ctx, "w", 10, time.Minute, 3)
	require.NoError(t, err)
	assert.Empty(t, claimed, "a rejected End must not enqueue another job")
}

func TestSessionService_EndNotOwned(t *testing.T) {
	f := newFixture(t)
	svc := newTestSessionService(f)
	session := f.createSession(t, entity.SessionStatusLive)
	other := f.createUser(t, "other@example.com")

	_, err := svc.End(context.Background(), other.Id, session.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, entity.SessionStatusLive, f.session(t, session.Id).Status)
}

func TestSessionService_EndConcurrent(t *testing.T) {
	f := newFixture(t)
	svc := newTestSessionService(f)
	ctx := context.Background()
	session := f.createSession(t, entity.SessionStatusLive)

	const callers = 8
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			_, err := svc.End(ctx, f.user.Id, session.Id)
			errs <- err
		}()
	}

	succeeded := 0
	for i := 0; i < callers; i++ {
		if err := <-errs; err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, apperror.ErrInvalidState)
		}
	}
	assert.Equal(t, 1, succeeded)

	claimed, _, err := f.store.NewUnitOfWork(ctx).CurationJobRepository().Claim(ctx, "w", 10, time.Minute, 3)
	require.NoError(t, err)
	assert.Len(t, claimed, 1)
}
