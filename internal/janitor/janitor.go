// Package janitor runs scheduled maintenance jobs.
package janitor

import (
	"context"
	"time"

	"reelcorps/internal/middleware"
	"reelcorps/internal/service"

	"github.com/robfig/cron/v3"
)

const (
	// Jobs pending longer than this are considered abandoned by the provider.
	staleJobMaxAge = time.Hour
	// Cap per sweep so one huge backlog cannot stall a tick.
	staleJobBatch = 500
)

// Janitor owns the cron scheduler. Currently its only duty is expiring stale
// generation jobs and refunding their credit holds.
type Janitor struct {
	cron       *cron.Cron
	generation *service.GenerationService
}

// New creates a Janitor around the generation service.
func New(generation *service.GenerationService) *Janitor {
	return &Janitor{
		cron:       cron.New(),
		generation: generation,
	}
}

// Start registers the schedules and launches the scheduler goroutine.
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc("@every 10m", j.sweepStaleGenerationJobs); err != nil {
		return err
	}
	j.cron.Start()
	middleware.Logger.Info("janitor started", "stale_job_max_age", staleJobMaxAge.String())
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

func (j *Janitor) sweepStaleGenerationJobs() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	expired, err := j.generation.ExpireStale(ctx, staleJobMaxAge, staleJobBatch)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "stale generation sweep failed", "error", err)
		return
	}
	if expired > 0 {
		middleware.Logger.InfoContext(ctx, "stale generation sweep complete", "expired", expired)
	}
}
