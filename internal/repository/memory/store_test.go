package memory

import (
	"context"
	"testing"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollbackDiscardsWrites(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	session := &entity.Session{Id: uuid.New(), UserId: uuid.New(), Status: entity.SessionStatusLive, StartedAt: time.Now()}
	require.NoError(t, store.NewUnitOfWork(ctx).SessionRepository().Create(ctx, session))

	uow := store.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	moved, err := uow.SessionRepository().MarkProcessing(ctx, session.Id, time.Now(), 12)
	require.NoError(t, err)
	require.True(t, moved)
	_, err = uow.CurationJobRepository().Enqueue(ctx, session.Id)
	require.NoError(t, err)
	require.NoError(t, uow.Rollback())

	found, err := store.NewUnitOfWork(ctx).SessionRepository().FindByID(ctx, session.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusLive, found.Status)

	claimed, _, err := store.NewUnitOfWork(ctx).CurationJobRepository().Claim(ctx, "w", 10, time.Minute, 3)
	require.NoError(t, err)
	assert.Empty(t, claimed)
}

func TestConditionalTransitions(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	repo := store.NewUnitOfWork(ctx).SessionRepository()

	session := &entity.Session{Id: uuid.New(), UserId: uuid.New(), Status: entity.SessionStatusLive, StartedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, session))

	moved, err := repo.Finalize(ctx, session.Id, entity.SessionStatusReady, "too early")
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = repo.MarkProcessing(ctx, session.Id, time.Now(), 3)
	require.NoError(t, err)
	assert.True(t, moved)
	moved, err = repo.MarkProcessing(ctx, session.Id, time.Now(), 3)
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = repo.Finalize(ctx, session.Id, entity.SessionStatusReady, "done")
	require.NoError(t, err)
	assert.True(t, moved)
	moved, err = repo.Finalize(ctx, session.Id, entity.SessionStatusFailed, "late")
	require.NoError(t, err)
	assert.False(t, moved)

	_, err = repo.Finalize(ctx, session.Id, entity.SessionStatusLive, "nope")
	assert.Error(t, err)
}

func TestClaimLeaseAndExhaustion(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	jobs := store.NewUnitOfWork(ctx).CurationJobRepository()

	first, err := jobs.Enqueue(ctx, uuid.New())
	require.NoError(t, err)
	second, err := jobs.Enqueue(ctx, uuid.New())
	require.NoError(t, err)

	claimed, exhausted, err := jobs.Claim(ctx, "w1", 1, time.Hour, 2)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Empty(t, exhausted)
	assert.Equal(t, first.Id, claimed[0].Id, "oldest first")
	assert.Equal(t, 1, claimed[0].Deliveries)

	claimed, _, err = jobs.Claim(ctx, "w1", 10, time.Hour, 2)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, second.Id, claimed[0].Id)

	require.NoError(t, jobs.MarkDone(ctx, second.Id))

	// lease expiry hands the first job out again, then exhausts it
	time.Sleep(2 * time.Millisecond)
	claimed, exhausted, err = jobs.Claim(ctx, "w2", 10, time.Millisecond, 2)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Empty(t, exhausted)
	assert.Equal(t, 2, claimed[0].Deliveries)

	time.Sleep(2 * time.Millisecond)
	claimed, exhausted, err = jobs.Claim(ctx, "w2", 10, time.Millisecond, 2)
	require.NoError(t, err)
	assert.Empty(t, claimed)
	require.Len(t, exhausted, 1)
	assert.Equal(t, first.Id, exhausted[0].Id)

	// not reported again within the lease
	claimed, exhausted, err = jobs.Claim(ctx, "w2", 10, time.Hour, 2)
	require.NoError(t, err)
	assert.Empty(t, claimed)
	assert.Empty(t, exhausted)
}

func TestWriteOutsideTransactionWaitsForCommit(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	uow := store.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))

	done := make(chan error, 1)
	go func() {
		done <- store.NewUnitOfWork(ctx).UserRepository().Create(ctx, &entity.User{Email: "late@example.com"})
	}()

	select {
	case <-done:
		t.Fatal("write ran inside another transaction")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, uow.UserRepository().Create(ctx, &entity.User{Email: "first@example.com"}))
	require.NoError(t, uow.Commit())
	require.NoError(t, <-done)

	for _, email := range []string{"first@example.com", "late@example.com"} {
		u, err := store.NewUnitOfWork(ctx).UserRepository().FindByEmail(ctx, email)
		require.NoError(t, err)
		assert.NotNil(t, u, email)
	}
}


func TestArtifactUpsertKeepsOneRowPerSession(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	repo := store.NewUnitOfWork(ctx).ArtifactRepository()
	sessionID := uuid.New()

	first := &entity.Artifact{SessionId: sessionID, CuratedEntryMd: "v1", Themes: []string{"a", "b", "c"}}
	require.NoError(t, repo.Upsert(ctx, first))
	firstID, createdAt := first.Id, first.CreatedAt

	second := &entity.Artifact{SessionId: sessionID, CuratedEntryMd: "v2", Themes: []string{"d", "e", "f"}}
	require.NoError(t, repo.Upsert(ctx, second))

	assert.Equal(t, firstID, second.Id)
	assert.Equal(t, createdAt, second.CreatedAt)

	found, err := repo.FindBySession(ctx, sessionID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, firstID, found.Id)
	assert.Equal(t, "v2", found.CuratedEntryMd)

	store.mu.RLock()
	defer store.mu.RUnlock()
	assert.Len(t, store.data.artifacts, 1)
}
