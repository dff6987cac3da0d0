package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/pkg/curation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCurator(f *fixture, provider *scriptedLLM) ICuratorService {
	pipeline := curation.NewPipeline(provider, curation.Schema{StrictTimeline: true}, time.Second)
	return NewCuratorService(f.store, pipeline, f.publisher, f.logger)
}

func TestCurator_Success(t *testing.T) {
	f := newFixture(t)
	provider := &scriptedLLM{replies: []string{validCuration}}
	curator := newTestCurator(f, provider)
	ctx := context.Background()

	session := f.createSession(t, entity.SessionStatusProcessing)
	f.addUtterances(t, session.Id, "rough morning", "what helped?", "a walk")

	require.NoError(t, curator.Curate(ctx, session.Id))

	stored := f.session(t, session.Id)
	assert.Equal(t, entity.SessionStatusReady, stored.Status)
	require.NotNil(t, stored.Title)
	assert.Equal(t, "A steadier afternoon", *stored.Title)

	uow := f.store.NewUnitOfWork(ctx)
	artifact, err := uow.ArtifactRepository().FindBySession(ctx, session.Id)
	require.NoError(t, err)
	require.NotNil(t, artifact)
	assert.Equal(t, []string{"work", "rest", "planning"}, artifact.Themes)
	assert.Len(t, artifact.EmotionalTimeline, 3)

	candidates, err := uow.MemoryCandidateRepository().FindBySession(ctx, session.Id)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	for _, c := range candidates {
		assert.Equal(t, f.user.Id, c.UserId)
		assert.Equal(t, entity.ReviewPending, c.Review.Kind)
	}

	logs := f.logs(t, session.Id)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AIRequestKindCurate, logs[0].Kind)
	assert.Equal(t, entity.AIRequestStatusOk, logs[0].Status)
	assert.Equal(t, "test-model", logs[0].Model)
	assert.NotNil(t, logs[0].LatencyMs)

	events := f.publisher.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, entity.SessionStatusReady, events[0].status)
}

func TestCurator_EmptyTranscript(t *testing.T) {
	f := newFixture(t)
	provider := &scriptedLLM{replies: []string{validCuration}}
	curator := newTestCurator(f, provider)

	session := f.createSession(t, entity.SessionStatusProcessing)
	require.NoError(t, curator.Curate(context.Background(), session.Id))

	stored := f.session(t, session.Id)
	assert.Equal(t, entity.SessionStatusFailed, stored.Status)
	assert.Equal(t, entity.TitleEmptyTranscript, *stored.Title)
	assert.Zero(t, provider.Calls(), "no model call for an empty transcript")

	logs := f.logs(t, session.Id)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AIRequestStatusError, logs[0].Status)
	require.NotNil(t, logs[0].Error)
	assert.Contains(t, *logs[0].Error, "No utterances available")
}

func TestCurator_RepairSucceeds(t *testing.T) {
	f := newFixture(t)
	provider := &scriptedLLM{replies: []string{"not json at all", validCuration}}
	curator := newTestCurator(f, provider)

	session := f.createSession(t, entity.SessionStatusProcessing)
	f.addUtterances(t, session.Id, "hello")

	require.NoError(t, curator.Curate(context.Background(), session.Id))

	assert.Equal(t, 2, provider.Calls())
	assert.Equal(t, entity.SessionStatusReady, f.session(t, session.Id).Status)

	logs := f.logs(t, session.Id)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AIRequestStatusOk, logs[0].Status)
}

func TestCurator_InvalidTwiceFails(t *testing.T) {
	f := newFixture(t)
	provider := &scriptedLLM{replies: []string{`{"title": "only"}`, `{"title": "still only"}`}}
	curator := newTestCurator(f, provider)

	session := f.createSession(t, entity.SessionStatusProcessing)
	f.addUtterances(t, session.Id, "hello")

	require.NoError(t, curator.Curate(context.Background(), session.Id))

	assert.Equal(t, 2, provider.Calls(), "at most one repair call")
	stored := f.session(t, session.Id)
	assert.Equal(t, entity.SessionStatusFailed, stored.Status)
	assert.Equal(t, entity.TitleProcessingFailed, *stored.Title)

	artifact, err := f.store.NewUnitOfWork(context.Background()).ArtifactRepository().FindBySession(context.Background(), session.Id)
	require.NoError(t, err)
	assert.Nil(t, artifact)

	logs := f.logs(t, session.Id)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AIRequestStatusError, logs[0].Status)
}

func TestCurator_ProviderErrorFailsWithoutRepair(t *testing.T) {
	f := newFixture(t)
	provider := &scriptedLLM{replies: []string{""}, errs: []error{errors.New("503 upstream")}}
	curator := newTestCurator(f, provider)

	session := f.createSession(t, entity.SessionStatusProcessing)
	f.addUtterances(t, session.Id, "hello")

	require.NoError(t, curator.Curate(context.Background(), session.Id))
	assert.Equal(t, 1, provider.Calls())
	assert.Equal(t, entity.SessionStatusFailed, f.session(t, session.Id).Status)

	logs := f.logs(t, session.Id)
	require.Len(t, logs, 1)
	assert.Contains(t, *logs[0].Error, "503 upstream")
}

func TestCurator_RedeliveryIsNoop(t *testing.T) {
	f := newFixture(t)
	provider := &scriptedLLM{replies: []string{validCuration}}
	curator := newTestCurator(f, provider)
	ctx := context.Background()

	session := f.createSession(t, entity.SessionStatusProcessing)
	f.addUtterances(t, session.Id, "hello")

	require.NoError(t, curator.Curate(ctx, session.Id))
	require.NoError(t, curator.Curate(ctx, session.Id))

	assert.Equal(t, 1, provider.Calls())
	assert.Len(t, f.logs(t, session.Id), 1)

	candidates, err := f.store.NewUnitOfWork(ctx).MemoryCandidateRepository().FindBySession(ctx, session.Id)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestCurator_SkipsLiveAndMissingSessions(t *testing.T) {
	f := newFixture(t)
	provider := &scriptedLLM{replies: []string{validCuration}}
	curator := newTestCurator(f, provider)

	live := f.createSession(t, entity.SessionStatusLive)
	require.NoError(t, curator.Curate(context.Background(), live.Id))
	require.NoError(t, curator.Curate(context.Background(), uuid.New()))

	assert.Zero(t, provider.Calls())
	assert.Equal(t, entity.SessionStatusLive, f.session(t, live.Id).Status)
}

func TestCurator_CancelledContextAsksForRedelivery(t *testing.T) {
	f := newFixture(t)
	provider := &scriptedLLM{replies: []string{validCuration}}
	curator := newTestCurator(f, provider)

	session := f.createSession(t, entity.SessionStatusProcessing)
	f.addUtterances(t, session.Id, "hello")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// the scripted provider ignores ctx, so the pipeline only notices on the reply
	provider.errs = []error{context.Canceled}
	err := curator.Curate(ctx, session.Id)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, entity.SessionStatusProcessing, f.session(t, session.Id).Status)
}

func TestCurator_Abandon(t *testing.T) {
	f := newFixture(t)
	curator := newTestCurator(f, &scriptedLLM{replies: []string{validCuration}})
	ctx := context.Background()

	session := f.createSession(t, entity.SessionStatusProcessing)
	job, err := f.store.NewUnitOfWork(ctx).CurationJobRepository().Enqueue(ctx, session.Id)
	require.NoError(t, err)

	require.NoError(t, curator.Abandon(ctx, job.Id, session.Id, "boom"))

	stored := f.session(t, session.Id)
	assert.Equal(t, entity.SessionStatusFailed, stored.Status)
	assert.Equal(t, entity.TitleRetriesExhausted, *stored.Title)

	storedJob, err := f.store.NewUnitOfWork(ctx).CurationJobRepository().FindByID(ctx, job.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.CurationJobFailed, storedJob.Status)

	logs := f.logs(t, session.Id)
	require.Len(t, logs, 1)
	assert.Equal(t, "boom", *logs[0].Error)
}

func TestCurator_AbandonFinishedSession(t *testing.T) {
	f := newFixture(t)
	curator := newTestCurator(f, &scriptedLLM{replies: []string{validCuration}})
	ctx := context.Background()

	session := f.createSession(t, entity.SessionStatusReady)
	job, err := f.store.NewUnitOfWork(ctx).CurationJobRepository().Enqueue(ctx, session.Id)
	require.NoError(t, err)

	require.NoError(t, curator.Abandon(ctx, job.Id, session.Id, "late"))

	assert.Equal(t, entity.SessionStatusReady, f.session(t, session.Id).Status)
	storedJob, err := f.store.NewUnitOfWork(ctx).CurationJobRepository().FindByID(ctx, job.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.CurationJobDone, storedJob.Status)
	assert.Empty(t, f.logs(t, session.Id))
}
