package unitofwork

import (
	"context"

	"github.com/ProbablyAY/SparkCo/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SessionRepository() contract.SessionRepository
	UtteranceRepository() contract.UtteranceRepository
	ArtifactRepository() contract.ArtifactRepository
	MemoryCandidateRepository() contract.MemoryCandidateRepository
	AIRequestLogRepository() contract.AIRequestLogRepository
	CurationJobRepository() contract.CurationJobRepository
}
