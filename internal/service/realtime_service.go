// FILE: internal/service/realtime_service.go
package service

import (
	"context"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/dto"
	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/internal/pkg/apperror"
	"github.com/ProbablyAY/SparkCo/internal/pkg/logger"
	"github.com/ProbablyAY/SparkCo/internal/repository/unitofwork"
	"github.com/ProbablyAY/SparkCo/pkg/realtime"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// expirySlack keeps a cached token from being handed out right before it dies.
const expirySlack = 5 * time.Second

type IRealtimeService interface {
	IssueToken(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.RealtimeTokenResponse, error)
}

type realtimeService struct {
	uowFactory  unitofwork.RepositoryFactory
	minter      realtime.Minter
	cache       *cache.Cache
	ttl         time.Duration
	mintTimeout time.Duration
	logger      logger.ILogger
	now         func() time.Time
}

func NewRealtimeService(
	uowFactory unitofwork.RepositoryFactory,
	minter realtime.Minter,
	ttl time.Duration,
	logger logger.ILogger,
) IRealtimeService {
	return &realtimeService{
		uowFactory:  uowFactory,
		minter:      minter,
		cache:       cache.New(ttl, 10*time.Minute),
		ttl:         ttl,
		mintTimeout: 15 * time.Second,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *realtimeService) IssueToken(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.RealtimeTokenResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOwned(ctx, sessionId, userId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NotFound("session not found")
	}
	if session.Status != entity.SessionStatusLive {
		return nil, apperror.InvalidState("session is not live")
	}

	key := sessionId.String()
	if cached, found := s.cache.Get(key); found {
		return cached.(*dto.RealtimeTokenResponse), nil
	}

	mintCtx, cancel := context.WithTimeout(ctx, s.mintTimeout)
	defer cancel()

	start := s.now()
	token, mintErr := s.minter.Mint(mintCtx)
	latency := s.now().Sub(start).Milliseconds()

	logEntry := &entity.AIRequestLog{
		Id:        uuid.New(),
		SessionId: sessionId,
		Kind:      entity.AIRequestKindRealtime,
		Model:     s.minter.Model(),
		LatencyMs: &latency,
		Status:    entity.AIRequestStatusOk,
	}
	if mintErr != nil {
		msg := mintErr.Error()
		logEntry.Status = entity.AIRequestStatusError
		logEntry.Error = &msg
	}
	if err := uow.AIRequestLogRepository().Create(ctx, logEntry); err != nil {
		s.logger.Error("REALTIME", "Failed to write request log", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}

	if mintErr != nil {
		s.logger.Warn("REALTIME", "Token mint failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      mintErr.Error(),
		})
		return nil, apperror.Provider("realtime provider unavailable")
	}

	res := &dto.RealtimeTokenResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		Model:     s.minter.Model(),
	}

	ttl := s.ttl
	if remaining := token.ExpiresAt.Sub(s.now()) - expirySlack; remaining < ttl {
		ttl = remaining
	}
	if ttl > 0 {
		s.cache.Set(key, res, ttl)
	}

	return res, nil
}
