package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/internal/mapper"
	"github.com/ProbablyAY/SparkCo/internal/model"
	"github.com/ProbablyAY/SparkCo/internal/repository/contract"
	"github.com/ProbablyAY/SparkCo/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CurationJobRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewCurationJobRepository(db *gorm.DB) contract.CurationJobRepository {
	return &CurationJobRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *CurationJobRepositoryImpl) Enqueue(ctx context.Context, sessionID uuid.UUID) (*entity.CurationJob, error) {
	job := &model.CurationJob{
		SessionId: sessionID,
		Status:    string(entity.CurationJobPending),
	}
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return r.mapper.CurationJobToEntity(job), nil
}

// Claim uses SKIP LOCKED so concurrent dispatchers never hand out the same row.
func (r *CurationJobRepositoryImpl) Claim(ctx context.Context, workerID string, limit int, lease time.Duration, maxDeliveries int) ([]*entity.CurationJob, []*entity.CurationJob, error) {
	var claimed, exhausted []*model.CurationJob
	cutoff := time.Now().Add(-lease)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// stale and out of deliveries: touch locked_at so the next poll skips them
		// while the caller finalizes
		if err := tx.Raw(`
update curation_jobs
set locked_at=now(), updated_at=now()
where status='DISPATCHED' and locked_at < ? and deliveries >= ?
returning *;
`, cutoff, maxDeliveries).Scan(&exhausted).Error; err != nil {
			return err
		}

		// requeue stuck DISPATCHED jobs (worker died mid-flight)
		if err := tx.Exec(`
update curation_jobs
set status='PENDING', locked_by=null, locked_at=null, updated_at=now()
where status='DISPATCHED' and locked_at < ? and deliveries < ?
`, cutoff, maxDeliveries).Error; err != nil {
			return err
		}

		return tx.Raw(`
with cte as (
  select id
  from curation_jobs
  where status='PENDING'
  order by created_at asc
  for update skip locked
  limit ?
)
update curation_jobs
set status='DISPATCHED', deliveries=deliveries+1, locked_by=?, locked_at=now(), updated_at=now()
where id in (select id from cte)
returning *;
`, limit, workerID).Scan(&claimed).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return r.toEntities(claimed), r.toEntities(exhausted), nil
}

func (r *CurationJobRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.CurationJob, error) {
	var m model.CurationJob
	if err := applySpecifications(r.db.WithContext(ctx), specification.ByID{ID: id}).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.CurationJobToEntity(&m), nil
}

func (r *CurationJobRepositoryImpl) MarkDone(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`update curation_jobs set status='DONE', updated_at=now() where id=?`, id).Error
}

func (r *CurationJobRepositoryImpl) MarkFailed(ctx context.Context, id uuid.UUID, lastErr string) error {
	return r.db.WithContext(ctx).Exec(`update curation_jobs set status='FAILED', last_error=?, updated_at=now() where id=?`, lastErr, id).Error
}

func (r *CurationJobRepositoryImpl) toEntities(models []*model.CurationJob) []*entity.CurationJob {
	jobs := make([]*entity.CurationJob, len(models))
	for i, m := range models {
		jobs[i] = r.mapper.CurationJobToEntity(m)
	}
	return jobs
}
