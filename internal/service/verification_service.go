package service

import (
	"context"
	"strings"
	"time"

	"reelcorps/internal/middleware"
	"reelcorps/internal/models"
	"reelcorps/internal/observability"
	"reelcorps/internal/repository"
	"reelcorps/internal/validation"
)

// VerificationService drives the membership state machine. Submitting a
// service record moves a user public -> pending; an admin review moves them
// pending -> verified (approve) or pending -> public (reject).
type VerificationService struct {
	requests repository.VerificationRepository
	users    repository.UserRepository
}

// NewVerificationService returns a new VerificationService.
func NewVerificationService(requests repository.VerificationRepository, users repository.UserRepository) *VerificationService {
	return &VerificationService{requests: requests, users: users}
}

// SubmitInput is the self-reported service record attached to a request.
type SubmitInput struct {
	UserID         uint
	ServiceBranch  string
	YearsOfService int
	DocumentRef    string
}

// Submit files a verification request and moves the user to pending.
// A second submit while a request is open returns the open request unchanged.
func (s *VerificationService) Submit(ctx context.Context, in SubmitInput) (*models.VerificationRequest, error) {
	if err := validation.ValidateServiceBranch(in.ServiceBranch); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.YearsOfService < 0 || in.YearsOfService > 50 {
		return nil, models.NewValidationError("Years of service out of range")
	}
	if strings.TrimSpace(in.DocumentRef) == "" {
		return nil, models.NewValidationError("A document reference is required")
	}

	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleVerified {
		return nil, models.NewValidationError("Membership is already verified")
	}

	if open, err := s.requests.GetPendingByUser(ctx, in.UserID); err != nil {
		return nil, err
	} else if open != nil {
		return open, nil
	}

	req := &models.VerificationRequest{
		UserID:         in.UserID,
		ServiceBranch:  strings.TrimSpace(in.ServiceBranch),
		YearsOfService: in.YearsOfService,
		DocumentRef:    strings.TrimSpace(in.DocumentRef),
		Status:         models.VerificationStatusPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	if models.CanTransitionRole(user.Role, models.RolePending) && user.Role != models.RolePending {
		user.Role = models.RolePending
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	middleware.Logger.InfoContext(ctx, "verification request submitted",
		"user_id", in.UserID, "branch", req.ServiceBranch)
	return req, nil
}

// Approve marks the request approved and promotes the member to verified.
// Approving an already-decided request is rejected; the role write is guarded
// by the state machine so a concurrent decision cannot double-promote.
func (s *VerificationService) Approve(ctx context.Context, requestID, reviewerID uint) (*models.VerificationRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.VerificationStatusPending {
		return nil, models.NewValidationError("Verification request already decided")
	}

	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionRole(user.Role, models.RoleVerified) {
		return nil, models.NewValidationError("Member cannot be promoted from role " + string(user.Role))
	}

	now := time.Now().UTC()
	req.Status = models.VerificationStatusApproved
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, err
	}

	user.Role = models.RoleVerified
	user.IsVerified = true
	user.ServiceBranch = req.ServiceBranch
	user.YearsOfService = req.YearsOfService
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	observability.VerificationDecisions.WithLabelValues("approved").Inc()
	middleware.Logger.InfoContext(ctx, "verification approved",
		"request_id", requestID, "user_id", req.UserID, "reviewer_id", reviewerID)
	return req, nil
}

// Reject marks the request rejected and returns the member to public so they
// can re-apply later.
func (s *VerificationService) Reject(ctx context.Context, requestID, reviewerID uint, reason string) (*models.VerificationRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.VerificationStatusPending {
		return nil, models.NewValidationError("Verification request already decided")
	}

	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	req.Status = models.VerificationStatusRejected
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	req.Reason = strings.TrimSpace(reason)
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, err
	}

	if models.CanTransitionRole(user.Role, models.RolePublic) {
		user.Role = models.RolePublic
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	observability.VerificationDecisions.WithLabelValues("rejected").Inc()
	middleware.Logger.InfoContext(ctx, "verification rejected",
		"request_id", requestID, "user_id", req.UserID, "reviewer_id", reviewerID)
	return req, nil
}

// ListPending returns the admin review queue, oldest first.
func (s *VerificationService) ListPending(ctx context.Context, limit, offset int) ([]models.VerificationRequest, error) {
	return s.requests.ListByStatus(ctx, models.VerificationStatusPending, limit, offset)
}

// HistoryForUser returns the member's own requests, newest first.
func (s *VerificationService) HistoryForUser(ctx context.Context, userID uint) ([]models.VerificationRequest, error) {
	return s.requests.ListByUser(ctx, userID)
}
