package service

import (
	"context"
	"fmt"
	"time"

	"reelcorps/internal/middleware"
	"reelcorps/internal/models"
	"reelcorps/internal/observability"
	"reelcorps/internal/repository"

	"github.com/google/uuid"
)

// Per-kind credit prices. Trailer cuts run the heaviest external pipeline.
var generationCosts = map[models.GenerationKind]int64{
	models.GenerationKindScriptCoverage: 5,
	models.GenerationKindStoryboard:     15,
	models.GenerationKindTrailerCut:     40,
}

// GenerationCost returns the credit price for a kind, or 0 for unknown kinds.
func GenerationCost(kind models.GenerationKind) int64 {
	return generationCosts[kind]
}

// GenerationService tracks AI generation jobs and their credit accounting.
// The actual processing happens in an external provider; this service only
// debits, records and reconciles.
type GenerationService struct {
	jobs    repository.GenerationRepository
	credits repository.CreditRepository
}

// NewGenerationService returns a new GenerationService.
func NewGenerationService(jobs repository.GenerationRepository, credits repository.CreditRepository) *GenerationService {
	return &GenerationService{jobs: jobs, credits: credits}
}

// StartInput describes a generation request.
type StartInput struct {
	UserID    uint
	Kind      models.GenerationKind
	ScriptID  *uint
	ProjectID *uint
}

// Start debits the caller and records a pending job. The debit happens before
// the job row exists, so a failed insert refunds immediately.
func (s *GenerationService) Start(ctx context.Context, in StartInput) (*models.GenerationJob, error) {
	if !models.ValidGenerationKind(in.Kind) {
		return nil, models.NewValidationError("Unknown generation kind")
	}
	cost := generationCosts[in.Kind]

	providerRef := uuid.NewString()
	if _, err := s.credits.Debit(ctx, in.UserID, cost, models.CreditTypeDebit,
		fmt.Sprintf("generation:%s", providerRef)); err != nil {
		return nil, err
	}

	job := &models.GenerationJob{
		UserID:      in.UserID,
		Kind:        in.Kind,
		Status:      models.GenerationStatusPending,
		CostCredits: cost,
		ScriptID:    in.ScriptID,
		ProjectID:   in.ProjectID,
		ProviderRef: providerRef,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		if _, refundErr := s.credits.Credit(ctx, in.UserID, cost, models.CreditTypeRefund,
			fmt.Sprintf("generation:%s", providerRef)); refundErr != nil {
			middleware.Logger.ErrorContext(ctx, "refund after failed job insert failed",
				"user_id", in.UserID, "provider_ref", providerRef, "error", refundErr)
		}
		return nil, err
	}

	observability.CreditsSpent.WithLabelValues(string(in.Kind)).Add(float64(cost))
	middleware.Logger.InfoContext(ctx, "generation job started",
		"job_id", job.ID, "kind", in.Kind, "cost", cost, "user_id", in.UserID)
	return job, nil
}

// Complete records a successful provider callback.
func (s *GenerationService) Complete(ctx context.Context, jobID uint, resultURL string) (*models.GenerationJob, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.GenerationStatusPending {
		return nil, models.NewValidationError("Generation job is not pending")
	}

	now := time.Now().UTC()
	job.Status = models.GenerationStatusCompleted
	job.ResultURL = resultURL
	job.CompletedAt = &now
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, err
	}

	observability.GenerationJobs.WithLabelValues(string(job.Kind), string(job.Status)).Inc()
	return job, nil
}

// Fail records a failed provider callback and refunds the debit.
func (s *GenerationService) Fail(ctx context.Context, jobID uint, reason string) (*models.GenerationJob, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.GenerationStatusPending {
		return nil, models.NewValidationError("Generation job is not pending")
	}

	now := time.Now().UTC()
	job.Status = models.GenerationStatusFailed
	job.Error = reason
	job.CompletedAt = &now
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, err
	}

	if _, err := s.credits.Credit(ctx, job.UserID, job.CostCredits, models.CreditTypeRefund,
		fmt.Sprintf("generation:%s", job.ProviderRef)); err != nil {
		middleware.Logger.ErrorContext(ctx, "refund for failed generation job failed",
			"job_id", job.ID, "user_id", job.UserID, "error", err)
	}

	observability.GenerationJobs.WithLabelValues(string(job.Kind), string(job.Status)).Inc()
	return job, nil
}

// ExpireStale fails and refunds jobs that have sat pending past maxAge.
// Called by the cron janitor; returns how many jobs were expired.
func (s *GenerationService) ExpireStale(ctx context.Context, maxAge time.Duration, batch int) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	stale, err := s.jobs.ListStalePending(ctx, cutoff, batch)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		if _, err := s.Fail(ctx, stale[i].ID, "expired: no provider result"); err != nil {
			middleware.Logger.ErrorContext(ctx, "failed to expire stale generation job",
				"job_id", stale[i].ID, "error", err)
			continue
		}
		expired++
	}
	if expired > 0 {
		middleware.Logger.InfoContext(ctx, "expired stale generation jobs", "count", expired)
	}
	return expired, nil
}

// Get returns a single job.
func (s *GenerationService) Get(ctx context.Context, jobID uint) (*models.GenerationJob, error) {
	return s.jobs.GetByID(ctx, jobID)
}

// ListForUser returns the user's jobs, newest first.
func (s *GenerationService) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.GenerationJob, error) {
	return s.jobs.ListByUser(ctx, userID, limit, offset)
}
