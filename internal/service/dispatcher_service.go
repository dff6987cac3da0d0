// FILE: internal/service/dispatcher_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/dto"
	"github.com/ProbablyAY/SparkCo/internal/pkg/logger"
	"github.com/ProbablyAY/SparkCo/internal/repository/unitofwork"
)

const dispatchBatchSize = 20

// IDispatcherService relays committed curation jobs from the outbox table to the
// message bus.
type IDispatcherService interface {
	Run(ctx context.Context)
	DispatchOnce(ctx context.Context) (int, error)
}

type DispatcherConfig struct {
	WorkerID      string
	PollInterval  time.Duration
	Lease         time.Duration
	MaxDeliveries int
}

type dispatcherService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  IPublisherService
	curator    ICuratorService
	cfg        DispatcherConfig
	logger     logger.ILogger
}

func NewDispatcherService(
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	curator ICuratorService,
	cfg DispatcherConfig,
	logger logger.ILogger,
) IDispatcherService {
	return &dispatcherService{
		uowFactory: uowFactory,
		publisher:  publisher,
		curator:    curator,
		cfg:        cfg,
		logger:     logger,
	}
}

func (d *dispatcherService) Run(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	d.logger.Info("DISPATCHER", "Outbox dispatcher started", map[string]interface{}{
		"worker_id": d.cfg.WorkerID,
	})

	for {
		if _, err := d.DispatchOnce(ctx); err != nil && ctx.Err() == nil {
			d.logger.Error("DISPATCHER", "Dispatch cycle failed", map[string]interface{}{
				"error": err.Error(),
			})
		}

		select {
		case <-ctx.Done():
			d.logger.Info("DISPATCHER", "Outbox dispatcher stopped", nil)
			return
		case <-ticker.C:
		}
	}
}

// DispatchOnce claims one batch and publishes it. Jobs that have been handed out
// too many times are failed instead.
func (d *dispatcherService) DispatchOnce(ctx context.Context) (int, error) {
	uow := d.uowFactory.NewUnitOfWork(ctx)

	claimed, exhausted, err := uow.CurationJobRepository().Claim(ctx, d.cfg.WorkerID, dispatchBatchSize, d.cfg.Lease, d.cfg.MaxDeliveries)
	if err != nil {
		return 0, err
	}

	for _, job := range exhausted {
		reason := fmt.Sprintf("job not acknowledged after %d deliveries", job.Deliveries)
		if err := d.curator.Abandon(ctx, job.Id, job.SessionId, reason); err != nil {
			d.logger.Error("DISPATCHER", "Failed to abandon job", map[string]interface{}{
				"job_id": job.Id,
				"error":  err.Error(),
			})
		}
	}

	published := 0
	for _, job := range claimed {
		payload, err := json.Marshal(dto.CurationMessage{JobId: job.Id, SessionId: job.SessionId})
		if err != nil {
			return published, err
		}
		// an unpublished job stays DISPATCHED and is reclaimed after the lease
		if err := d.publisher.Publish(ctx, payload); err != nil {
			d.logger.Error("DISPATCHER", "Failed to publish job", map[string]interface{}{
				"job_id": job.Id,
				"error":  err.Error(),
			})
			continue
		}
		published++
	}

	return published, nil
}
