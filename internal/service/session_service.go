// FILE: internal/service/session_service.go
package service

import (
	"context"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/dto"
	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/internal/pkg/apperror"
	"github.com/ProbablyAY/SparkCo/internal/pkg/logger"
	"github.com/ProbablyAY/SparkCo/internal/pkg/validation"
	"github.com/ProbablyAY/SparkCo/internal/repository/unitofwork"
	journalEvents "github.com/ProbablyAY/SparkCo/pkg/journal/events"

	"github.com/google/uuid"
)

type ISessionService interface {
	Create(ctx context.Context, userId uuid.UUID) (*dto.SessionResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowSessionResponse, error)
	AppendUtterances(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.AppendUtterancesRequest) (*dto.AppendUtterancesResponse, error)
	End(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.EndSessionResponse, error)
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  journalEvents.Publisher
	logger     logger.ILogger
	now        func() time.Time
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	publisher journalEvents.Publisher,
	logger logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *sessionService) Create(ctx context.Context, userId uuid.UUID) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session := &entity.Session{
		Id:        uuid.New(),
		UserId:    userId,
		Status:    entity.SessionStatusLive,
		StartedAt: s.now(),
	}
	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	return toSessionResponse(session), nil
}

func (s *sessionService) List(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.SessionRepository().FindAllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, toSessionResponse(session))
	}
	return result, nil
}

func (s *sessionService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOwned(ctx, id, userId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NotFound("session not found")
	}

	utterances, err := uow.UtteranceRepository().FindBySession(ctx, id)
	if err != nil {
		return nil, err
	}
	artifact, err := uow.ArtifactRepository().FindBySession(ctx, id)
	if err != nil {
		return nil, err
	}
	candidates, err := uow.MemoryCandidateRepository().FindBySession(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &dto.ShowSessionResponse{
		SessionResponse:  *toSessionResponse(session),
		Utterances:       make([]*dto.UtteranceResponse, 0, len(utterances)),
		Artifact:         toArtifactResponse(artifact),
		MemoryCandidates: make([]*dto.MemoryCandidateResponse, 0, len(candidates)),
	}
	for _, u := range utterances {
		res.Utterances = append(res.Utterances, toUtteranceResponse(u))
	}
	for _, c := range candidates {
		res.MemoryCandidates = append(res.MemoryCandidates, toMemoryCandidateResponse(c))
	}
	return res, nil
}

// AppendUtterances stores a batch in arrival order. Any session status is
// accepted so a client can flush its tail buffer after ending.
func (s *sessionService) AppendUtterances(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.AppendUtterancesRequest) (*dto.AppendUtterancesResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	for i, item := range req.Items {
		if item.StartMs != nil && item.EndMs != nil && *item.StartMs > *item.EndMs {
			return nil, apperror.Validation("items[%d]: start_ms must not exceed end_ms", i)
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOwned(ctx, id, userId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NotFound("session not found")
	}

	utterances := make([]*entity.Utterance, len(req.Items))
	for i, item := range req.Items {
		utterances[i] = &entity.Utterance{
			SessionId: id,
			Speaker:   entity.Speaker(item.Speaker),
			Text:      item.Text,
			StartMs:   item.StartMs,
			EndMs:     item.EndMs,
		}
	}
	if err := uow.UtteranceRepository().CreateBulk(ctx, utterances); err != nil {
		return nil, err
	}

	return &dto.AppendUtterancesResponse{Accepted: len(utterances)}, nil
}

// End moves a live session to processing and enqueues its curation job in the
// same transaction, so the job exists iff the transition committed.
func (s *sessionService) End(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.EndSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOwned(ctx, id, userId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NotFound("session not found")
	}
	if !session.Status.CanTransitionTo(entity.SessionStatusProcessing) {
		return nil, apperror.InvalidState("session is not live")
	}

	endedAt := s.now()
	duration := entity.DurationSeconds(session.StartedAt, endedAt)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	moved, err := uow.SessionRepository().MarkProcessing(ctx, id, endedAt, duration)
	if err != nil {
		return nil, err
	}
	if !moved {
		// lost a race with a concurrent End
		return nil, apperror.InvalidState("session is not live")
	}

	job, err := uow.CurationJobRepository().Enqueue(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("SESSION", "Session ended, curation queued", map[string]interface{}{
		"session_id":       id,
		"job_id":           job.Id,
		"duration_seconds": duration,
	})
	s.publisher.PublishSessionEnded(ctx, userId, id)

	return &dto.EndSessionResponse{
		Id:              id,
		Status:          string(entity.SessionStatusProcessing),
		EndedAt:         endedAt,
		DurationSeconds: duration,
	}, nil
}
