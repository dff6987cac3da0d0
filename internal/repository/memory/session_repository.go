package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/entity"

	"github.com/google/uuid"
)

type sessionRepository struct {
	u *unitOfWork
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	return r.u.write(func(d *dataset) error {
		if session.Id == uuid.Nil {
			session.Id = uuid.New()
		}
		if session.Status == "" {
			session.Status = entity.SessionStatusLive
		}
		now := time.Now()
		session.CreatedAt, session.UpdatedAt = now, now
		d.sessions[session.Id] = *session
		return nil
	})
}

func (r *sessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	var found *entity.Session
	err := r.u.read(func(d *dataset) error {
		if s, ok := d.sessions[id]; ok {
			found = &s
		}
		return nil
	})
	return found, err
}

func (r *sessionRepository) FindOwned(ctx context.Context, id, userID uuid.UUID) (*entity.Session, error) {
	s, err := r.FindByID(ctx, id)
	if err != nil || s == nil || s.UserId != userID {
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Session, error) {
	var sessions []*entity.Session
	err := r.u.read(func(d *dataset) error {
		for _, s := range d.sessions {
			if s.UserId == userID {
				s := s
				sessions = append(sessions, &s)
			}
		}
		return nil
	})
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	return sessions, err
}

func (r *sessionRepository) MarkProcessing(ctx context.Context, id uuid.UUID, endedAt time.Time, durationSeconds int) (bool, error) {
	var updated bool
	err := r.u.write(func(d *dataset) error {
		s, ok := d.sessions[id]
		if !ok || s.Status != entity.SessionStatusLive {
			return nil
		}
		s.Status = entity.SessionStatusProcessing
		s.EndedAt = &endedAt
		s.DurationSeconds = &durationSeconds
		s.UpdatedAt = time.Now()
		d.sessions[id] = s
		updated = true
		return nil
	})
	return updated, err
}

func (r *sessionRepository) Finalize(ctx context.Context, id uuid.UUID, status entity.SessionStatus, title string) (bool, error) {
	if !entity.SessionStatusProcessing.CanTransitionTo(status) {
		return false, fmt.Errorf("finalize: not a terminal status: %s", status)
	}
	var updated bool
	err := r.u.write(func(d *dataset) error {
		s, ok := d.sessions[id]
		if !ok || s.Status != entity.SessionStatusProcessing {
			return nil
		}
		s.Status = status
		s.Title = &title
		s.UpdatedAt = time.Now()
		d.sessions[id] = s
		updated = true
		return nil
	})
	return updated, err
}

type utteranceRepository struct {
	u *unitOfWork
}

func (r *utteranceRepository) CreateBulk(ctx context.Context, utterances []*entity.Utterance) error {
	return r.u.write(func(d *dataset) error {
		now := time.Now()
		for _, u := range utterances {
			d.seq++
			u.Seq = d.seq
			u.CreatedAt = now
			d.utterances = append(d.utterances, *u)
		}
		return nil
	})
}

func (r *utteranceRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*entity.Utterance, error) {
	utterances := []*entity.Utterance{}
	err := r.u.read(func(d *dataset) error {
		// d.utterances is append-only, so slice order is seq order
		for _, u := range d.utterances {
			if u.SessionId == sessionID {
				u := u
				utterances = append(utterances, &u)
			}
		}
		return nil
	})
	return utterances, err
}

type aiRequestLogRepository struct {
	u *unitOfWork
}

func (r *aiRequestLogRepository) Create(ctx context.Context, log *entity.AIRequestLog) error {
	return r.u.write(func(d *dataset) error {
		if log.Id == uuid.Nil {
			log.Id = uuid.New()
		}
		log.CreatedAt = time.Now()
		d.logs = append(d.logs, *log)
		return nil
	})
}

func (r *aiRequestLogRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*entity.AIRequestLog, error) {
	logs := []*entity.AIRequestLog{}
	err := r.u.read(func(d *dataset) error {
		for _, l := range d.logs {
			if l.SessionId == sessionID {
				l := l
				logs = append(logs, &l)
			}
		}
		return nil
	})
	return logs, err
}
