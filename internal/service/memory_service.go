// FILE: internal/service/memory_service.go
package service

import (
	"context"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/dto"
	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/internal/pkg/apperror"
	"github.com/ProbablyAY/SparkCo/internal/repository/unitofwork"
	journalEvents "github.com/ProbablyAY/SparkCo/pkg/journal/events"

	"github.com/google/uuid"
)

type IMemoryService interface {
	Approve(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.MemoryCandidateResponse, error)
	Reject(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.MemoryCandidateResponse, error)
	ListApproved(ctx context.Context, userId uuid.UUID) ([]*dto.MemoryCandidateResponse, error)
}

type memoryService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  journalEvents.Publisher
	now        func() time.Time
}

func NewMemoryService(uowFactory unitofwork.RepositoryFactory, publisher journalEvents.Publisher) IMemoryService {
	return &memoryService{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        time.Now,
	}
}

func (s *memoryService) Approve(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.MemoryCandidateResponse, error) {
	return s.review(ctx, userId, id, entity.ReviewApproved)
}

func (s *memoryService) Reject(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.MemoryCandidateResponse, error) {
	return s.review(ctx, userId, id, entity.ReviewRejected)
}

// review is idempotent: repeating the current decision refreshes its timestamp.
func (s *memoryService) review(ctx context.Context, userId uuid.UUID, id uuid.UUID, kind entity.ReviewKind) (*dto.MemoryCandidateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	candidate, err := uow.MemoryCandidateRepository().FindOwned(ctx, id, userId)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, apperror.NotFound("memory candidate not found")
	}
	review := entity.Approved(s.now())
	if kind == entity.ReviewRejected {
		review = entity.Rejected(s.now())
	}
	if err := uow.MemoryCandidateRepository().UpdateReview(ctx, id, review); err != nil {
		return nil, err
	}
	candidate.Review = review

	s.publisher.PublishMemoryReviewed(ctx, userId, candidate)
	return toMemoryCandidateResponse(candidate), nil
}

func (s *memoryService) ListApproved(ctx context.Context, userId uuid.UUID) ([]*dto.MemoryCandidateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	candidates, err := uow.MemoryCandidateRepository().FindApprovedByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.MemoryCandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, toMemoryCandidateResponse(c))
	}
	return result, nil
}
