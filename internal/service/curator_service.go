// FILE: internal/service/curator_service.go
package service

import (
	"context"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/internal/pkg/logger"
	"github.com/ProbablyAY/SparkCo/internal/repository/unitofwork"
	"github.com/ProbablyAY/SparkCo/pkg/curation"
	journalEvents "github.com/ProbablyAY/SparkCo/pkg/journal/events"

	"github.com/google/uuid"
)

// ICuratorService turns a processing session into a ready or failed one.
type ICuratorService interface {
	// Curate returns an error only when the job should be delivered again.
	Curate(ctx context.Context, sessionId uuid.UUID) error

	// Abandon fails a session whose job ran out of deliveries.
	Abandon(ctx context.Context, jobId uuid.UUID, sessionId uuid.UUID, reason string) error
}

type curatorService struct {
	uowFactory unitofwork.RepositoryFactory
	pipeline   *curation.Pipeline
	publisher  journalEvents.Publisher
	logger     logger.ILogger
}

func NewCuratorService(
	uowFactory unitofwork.RepositoryFactory,
	pipeline *curation.Pipeline,
	publisher journalEvents.Publisher,
	logger logger.ILogger,
) ICuratorService {
	return &curatorService{
		uowFactory: uowFactory,
		pipeline:   pipeline,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *curatorService) Curate(ctx context.Context, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindByID(ctx, sessionId)
	if err != nil {
		return err
	}
	if session == nil || session.Status != entity.SessionStatusProcessing {
		// already finalized by an earlier delivery
		return nil
	}

	utterances, err := uow.UtteranceRepository().FindBySession(ctx, sessionId)
	if err != nil {
		return err
	}
	if len(utterances) == 0 {
		return s.fail(ctx, session, entity.TitleEmptyTranscript, "No utterances available", 0)
	}

	result := s.pipeline.Run(ctx, curation.RenderTranscript(utterances))
	if result.Err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return s.fail(ctx, session, entity.TitleProcessingFailed, result.Err.Error(), result.Latency)
	}

	out := result.Output
	latency := result.Latency.Milliseconds()

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ArtifactRepository().Upsert(ctx, out.Artifact(sessionId)); err != nil {
		return err
	}
	if err := uow.MemoryCandidateRepository().CreateBulk(ctx, out.Candidates(session.UserId, sessionId)); err != nil {
		return err
	}
	ok, err := uow.SessionRepository().Finalize(ctx, sessionId, entity.SessionStatusReady, *out.Title)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	err = uow.AIRequestLogRepository().Create(ctx, &entity.AIRequestLog{
		Id:        uuid.New(),
		SessionId: sessionId,
		Kind:      entity.AIRequestKindCurate,
		Model:     s.pipeline.Model(),
		LatencyMs: &latency,
		Status:    entity.AIRequestStatusOk,
	})
	if err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("CURATOR", "Session curated", map[string]interface{}{
		"session_id": sessionId,
		"calls":      result.Calls,
		"latency_ms": latency,
	})
	s.publisher.PublishSessionCurated(ctx, session.UserId, sessionId, entity.SessionStatusReady, *out.Title)
	return nil
}

// fail finalizes the session as failed and records the reason. The log row is only
// written when this call performed the transition.
func (s *curatorService) fail(ctx context.Context, session *entity.Session, title, reason string, latency time.Duration) error {
	moved, err := s.finalizeFailed(ctx, session.Id, title, reason, latency)
	if err != nil || !moved {
		return err
	}

	s.logger.Warn("CURATOR", "Session curation failed", map[string]interface{}{
		"session_id": session.Id,
		"title":      title,
		"reason":     reason,
	})
	s.publisher.PublishSessionCurated(ctx, session.UserId, session.Id, entity.SessionStatusFailed, title)
	return nil
}

func (s *curatorService) finalizeFailed(ctx context.Context, sessionId uuid.UUID, title, reason string, latency time.Duration) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	moved, err := uow.SessionRepository().Finalize(ctx, sessionId, entity.SessionStatusFailed, title)
	if err != nil || !moved {
		return false, err
	}

	ms := latency.Milliseconds()
	err = uow.AIRequestLogRepository().Create(ctx, &entity.AIRequestLog{
		Id:        uuid.New(),
		SessionId: sessionId,
		Kind:      entity.AIRequestKindCurate,
		Model:     s.pipeline.Model(),
		LatencyMs: &ms,
		Status:    entity.AIRequestStatusError,
		Error:     &reason,
	})
	if err != nil {
		return false, err
	}

	return true, uow.Commit()
}

func (s *curatorService) Abandon(ctx context.Context, jobId uuid.UUID, sessionId uuid.UUID, reason string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindByID(ctx, sessionId)
	if err != nil {
		return err
	}

	if session != nil {
		moved, err := s.finalizeFailed(ctx, sessionId, entity.TitleRetriesExhausted, reason, 0)
		if err != nil {
			return err
		}
		if moved {
			s.logger.Error("CURATOR", "Curation retries exhausted", map[string]interface{}{
				"session_id": sessionId,
				"job_id":     jobId,
				"error":      reason,
			})
			s.publisher.PublishSessionCurated(ctx, session.UserId, sessionId, entity.SessionStatusFailed, entity.TitleRetriesExhausted)
			return uow.CurationJobRepository().MarkFailed(ctx, jobId, reason)
		}
	}

	return uow.CurationJobRepository().MarkDone(ctx, jobId)
}
