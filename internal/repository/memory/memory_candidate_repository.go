package memory

import (
	"context"
	"sort"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/entity"

	"github.com/google/uuid"
)

type memoryCandidateRepository struct {
	u *unitOfWork
}

func (r *memoryCandidateRepository) CreateBulk(ctx context.Context, candidates []*entity.MemoryCandidate) error {
	return r.u.write(func(d *dataset) error {
		now := time.Now()
		for _, c := range candidates {
			if c.Id == uuid.Nil {
				c.Id = uuid.New()
			}
			c.CreatedAt = now
			d.candidates = append(d.candidates, *c)
		}
		return nil
	})
}

func (r *memoryCandidateRepository) FindOwned(ctx context.Context, id, userID uuid.UUID) (*entity.MemoryCandidate, error) {
	var found *entity.MemoryCandidate
	err := r.u.read(func(d *dataset) error {
		for _, c := range d.candidates {
			if c.Id != id {
				continue
			}
			if s, ok := d.sessions[c.SessionId]; ok && s.UserId == userID {
				c := c
				found = &c
			}
			return nil
		}
		return nil
	})
	return found, err
}

func (r *memoryCandidateRepository) UpdateReview(ctx context.Context, id uuid.UUID, review entity.ReviewState) error {
	return r.u.write(func(d *dataset) error {
		for i := range d.candidates {
			if d.candidates[i].Id == id {
				d.candidates[i].Review = review
				return nil
			}
		}
		return nil
	})
}

func (r *memoryCandidateRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*entity.MemoryCandidate, error) {
	candidates := []*entity.MemoryCandidate{}
	err := r.u.read(func(d *dataset) error {
		for _, c := range d.candidates {
			if c.SessionId == sessionID {
				c := c
				candidates = append(candidates, &c)
			}
		}
		return nil
	})
	return candidates, err
}

func (r *memoryCandidateRepository) FindApprovedByUser(ctx context.Context, userID uuid.UUID) ([]*entity.MemoryCandidate, error) {
	candidates := []*entity.MemoryCandidate{}
	err := r.u.read(func(d *dataset) error {
		for i := len(d.candidates) - 1; i >= 0; i-- {
			c := d.candidates[i]
			if c.UserId == userID && c.Review.Kind == entity.ReviewApproved {
				candidates = append(candidates, &c)
			}
		}
		return nil
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	return candidates, err
}
