package memory

import (
	"context"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/entity"

	"github.com/google/uuid"
)

type curationJobRepository struct {
	u *unitOfWork
}

func (r *curationJobRepository) Enqueue(ctx context.Context, sessionID uuid.UUID) (*entity.CurationJob, error) {
	job := entity.CurationJob{
		Id:        uuid.New(),
		SessionId: sessionID,
		Status:    entity.CurationJobPending,
	}
	err := r.u.write(func(d *dataset) error {
		now := time.Now()
		job.CreatedAt, job.UpdatedAt = now, now
		d.jobs = append(d.jobs, job)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *curationJobRepository) Claim(ctx context.Context, workerID string, limit int, lease time.Duration, maxDeliveries int) ([]*entity.CurationJob, []*entity.CurationJob, error) {
	var claimed, exhausted []*entity.CurationJob
	err := r.u.write(func(d *dataset) error {
		now := time.Now()
		cutoff := now.Add(-lease)
		for i := range d.jobs {
			j := &d.jobs[i]
			if j.Status != entity.CurationJobDispatched || j.LockedAt == nil || !j.LockedAt.Before(cutoff) {
				continue
			}
			if j.Deliveries >= maxDeliveries {
				j.LockedAt = &now
				j.UpdatedAt = now
				cp := *j
				exhausted = append(exhausted, &cp)
				continue
			}
			j.Status = entity.CurationJobPending
			j.LockedBy, j.LockedAt = nil, nil
			j.UpdatedAt = now
		}

		// d.jobs is in creation order
		for i := range d.jobs {
			if len(claimed) >= limit {
				break
			}
			j := &d.jobs[i]
			if j.Status != entity.CurationJobPending {
				continue
			}
			worker := workerID
			j.Status = entity.CurationJobDispatched
			j.Deliveries++
			j.LockedBy = &worker
			j.LockedAt = &now
			j.UpdatedAt = now
			cp := *j
			claimed = append(claimed, &cp)
		}
		return nil
	})
	return claimed, exhausted, err
}

func (r *curationJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CurationJob, error) {
	var found *entity.CurationJob
	err := r.u.read(func(d *dataset) error {
		for _, j := range d.jobs {
			if j.Id == id {
				j := j
				found = &j
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *curationJobRepository) MarkDone(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(id, entity.CurationJobDone, nil)
}

func (r *curationJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastErr string) error {
	return r.setStatus(id, entity.CurationJobFailed, &lastErr)
}

func (r *curationJobRepository) setStatus(id uuid.UUID, status entity.CurationJobStatus, lastErr *string) error {
	return r.u.write(func(d *dataset) error {
		for i := range d.jobs {
			if d.jobs[i].Id == id {
				d.jobs[i].Status = status
				if lastErr != nil {
					d.jobs[i].LastError = lastErr
				}
				d.jobs[i].UpdatedAt = time.Now()
				return nil
			}
		}
		return nil
	})
}
