// Package memory is a process-local implementation of the unit of work. It backs
// STORE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/internal/repository/contract"
	"github.com/ProbablyAY/SparkCo/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type dataset struct {
	users      map[uuid.UUID]entity.User
	sessions   map[uuid.UUID]entity.Session
	utterances []entity.Utterance
	seq        int64
	artifacts  map[uuid.UUID]entity.Artifact // keyed by session id
	candidates []entity.MemoryCandidate
	logs       []entity.AIRequestLog
	jobs       []entity.CurationJob
}

func newDataset() *dataset {
	return &dataset{
		users:     make(map[uuid.UUID]entity.User),
		sessions:  make(map[uuid.UUID]entity.Session),
		artifacts: make(map[uuid.UUID]entity.Artifact),
	}
}

// clone copies every container. Rows are values and are replaced, never mutated
// through a shared pointer, so a shallow copy per row is enough.
func (d *dataset) clone() *dataset {
	c := &dataset{
		users:      make(map[uuid.UUID]entity.User, len(d.users)),
		sessions:   make(map[uuid.UUID]entity.Session, len(d.sessions)),
		utterances: append([]entity.Utterance(nil), d.utterances...),
		seq:        d.seq,
		artifacts:  make(map[uuid.UUID]entity.Artifact, len(d.artifacts)),
		candidates: append([]entity.MemoryCandidate(nil), d.candidates...),
		logs:       append([]entity.AIRequestLog(nil), d.logs...),
		jobs:       append([]entity.CurationJob(nil), d.jobs...),
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.sessions {
		c.sessions[k] = v
	}
	for k, v := range d.artifacts {
		c.artifacts[k] = v
	}
	return c
}

// Store holds committed state. Transactions are serialized: Begin takes txMu
// and works on a private copy which Commit swaps in.
type Store struct {
	mu   sync.RWMutex
	data *dataset
	txMu sync.Mutex
}

func NewStore() *Store {
	return &Store{data: newDataset()}
}

func (s *Store) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: s}
}

type unitOfWork struct {
	store *Store
	tx    *dataset
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.store.txMu.Lock()
	u.store.mu.RLock()
	u.tx = u.store.data.clone()
	u.store.mu.RUnlock()
	return nil
}

func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	u.store.mu.Lock()
	u.store.data = u.tx
	u.store.mu.Unlock()
	u.tx = nil
	u.store.txMu.Unlock()
	return nil
}

func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	u.tx = nil
	u.store.txMu.Unlock()
	return nil
}

func (u *unitOfWork) read(fn func(d *dataset) error) error {
	if u.tx != nil {
		return fn(u.tx)
	}
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()
	return fn(u.store.data)
}

// write outside a transaction still queues behind open transactions so a
// commit never overwrites it.
func (u *unitOfWork) write(fn func(d *dataset) error) error {
	if u.tx != nil {
		return fn(u.tx)
	}
	u.store.txMu.Lock()
	defer u.store.txMu.Unlock()
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return fn(u.store.data)
}

// Repository Accessors

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return &userRepository{u: u}
}

func (u *unitOfWork) SessionRepository() contract.SessionRepository {
	return &sessionRepository{u: u}
}

func (u *unitOfWork) UtteranceRepository() contract.UtteranceRepository {
	return &utteranceRepository{u: u}
}

func (u *unitOfWork) ArtifactRepository() contract.ArtifactRepository {
	return &artifactRepository{u: u}
}

func (u *unitOfWork) MemoryCandidateRepository() contract.MemoryCandidateRepository {
	return &memoryCandidateRepository{u: u}
}

func (u *unitOfWork) AIRequestLogRepository() contract.AIRequestLogRepository {
	return &aiRequestLogRepository{u: u}
}

func (u *unitOfWork) CurationJobRepository() contract.CurationJobRepository {
	return &curationJobRepository{u: u}
}
