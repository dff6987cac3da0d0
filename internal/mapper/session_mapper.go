package mapper

import (
	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

// Session Mappers

func (m *SessionMapper) SessionToEntity(s *model.JournalSession) *entity.Session {
	if s == nil {
		return nil
	}
	return &entity.Session{
		Id:              s.Id,
		UserId:          s.UserId,
		Status:          entity.SessionStatus(s.Status),
		Title:           s.Title,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		DurationSeconds: s.DurationSeconds,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (m *SessionMapper) SessionToModel(s *entity.Session) *model.JournalSession {
	if s == nil {
		return nil
	}
	return &model.JournalSession{
		Id:              s.Id,
		UserId:          s.UserId,
		Status:          string(s.Status),
		Title:           s.Title,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		DurationSeconds: s.DurationSeconds,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (m *SessionMapper) SessionsToEntities(models []*model.JournalSession) []*entity.Session {
	entities := make([]*entity.Session, len(models))
	for i, s := range models {
		entities[i] = m.SessionToEntity(s)
	}
	return entities
}

// Utterance Mappers

func (m *SessionMapper) UtteranceToEntity(u *model.Utterance) *entity.Utterance {
	if u == nil {
		return nil
	}
	return &entity.Utterance{
		Seq:       u.Seq,
		SessionId: u.SessionId,
		Speaker:   entity.Speaker(u.Speaker),
		Text:      u.Text,
		StartMs:   u.StartMs,
		EndMs:     u.EndMs,
		CreatedAt: u.CreatedAt,
	}
}

func (m *SessionMapper) UtteranceToModel(u *entity.Utterance) *model.Utterance {
	if u == nil {
		return nil
	}
	return &model.Utterance{
		Seq:       u.Seq,
		SessionId: u.SessionId,
		Speaker:   string(u.Speaker),
		Text:      u.Text,
		StartMs:   u.StartMs,
		EndMs:     u.EndMs,
		CreatedAt: u.CreatedAt,
	}
}

// AI Request Log Mappers

func (m *SessionMapper) AIRequestLogToEntity(l *model.AIRequestLog) *entity.AIRequestLog {
	if l == nil {
		return nil
	}
	return &entity.AIRequestLog{
		Id:        l.Id,
		SessionId: l.SessionId,
		Kind:      entity.AIRequestKind(l.Kind),
		Model:     l.Model,
		LatencyMs: l.LatencyMs,
		Status:    entity.AIRequestStatus(l.Status),
		Error:     l.Error,
		CreatedAt: l.CreatedAt,
	}
}

func (m *SessionMapper) AIRequestLogToModel(l *entity.AIRequestLog) *model.AIRequestLog {
	if l == nil {
		return nil
	}
	return &model.AIRequestLog{
		Id:        l.Id,
		SessionId: l.SessionId,
		Kind:      string(l.Kind),
		Model:     l.Model,
		LatencyMs: l.LatencyMs,
		Status:    string(l.Status),
		Error:     l.Error,
		CreatedAt: l.CreatedAt,
	}
}

// Curation Job Mappers

func (m *SessionMapper) CurationJobToEntity(j *model.CurationJob) *entity.CurationJob {
	if j == nil {
		return nil
	}
	return &entity.CurationJob{
		Id:         j.Id,
		SessionId:  j.SessionId,
		Status:     entity.CurationJobStatus(j.Status),
		Deliveries: j.Deliveries,
		LockedBy:   j.LockedBy,
		LockedAt:   j.LockedAt,
		LastError:  j.LastError,
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}
}

func (m *SessionMapper) CurationJobToModel(j *entity.CurationJob) *model.CurationJob {
	if j == nil {
		return nil
	}
	return &model.CurationJob{
		Id:         j.Id,
		SessionId:  j.SessionId,
		Status:     string(j.Status),
		Deliveries: j.Deliveries,
		LockedBy:   j.LockedBy,
		LockedAt:   j.LockedAt,
		LastError:  j.LastError,
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}
}
