// Package service contains the business logic between handlers and repositories.
package service

import (
	"context"
	"fmt"

	"reelcorps/internal/models"
	"reelcorps/internal/observability"
	"reelcorps/internal/repository"
)

// CreditService wraps the credit ledger with the platform's grant policies.
type CreditService struct {
	credits repository.CreditRepository
	users   repository.UserRepository

	signupBonus   int64
	referralBonus int64
}

// NewCreditService returns a new CreditService.
func NewCreditService(credits repository.CreditRepository, users repository.UserRepository, signupBonus, referralBonus int64) *CreditService {
	return &CreditService{
		credits:       credits,
		users:         users,
		signupBonus:   signupBonus,
		referralBonus: referralBonus,
	}
}

// GrantSignupBonus issues the welcome credits to a fresh account.
func (s *CreditService) GrantSignupBonus(ctx context.Context, userID uint) error {
	if s.signupBonus <= 0 {
		return nil
	}
	_, err := s.credits.Credit(ctx, userID, s.signupBonus, models.CreditTypeGrant, "signup bonus")
	if err != nil {
		return err
	}
	observability.CreditTransactions.WithLabelValues(string(models.CreditTypeGrant)).Inc()
	return nil
}

// GrantReferralBonus credits both sides of a redeemed referral code.
func (s *CreditService) GrantReferralBonus(ctx context.Context, newUserID, referrerID uint) error {
	if s.referralBonus <= 0 {
		return nil
	}
	if _, err := s.credits.Credit(ctx, newUserID, s.referralBonus, models.CreditTypeReferral,
		fmt.Sprintf("referred by user %d", referrerID)); err != nil {
		return err
	}
	if _, err := s.credits.Credit(ctx, referrerID, s.referralBonus, models.CreditTypeReferral,
		fmt.Sprintf("referral of user %d", newUserID)); err != nil {
		return err
	}
	observability.CreditTransactions.WithLabelValues(string(models.CreditTypeReferral)).Add(2)
	return nil
}

// AdminGrant is the operator top-up path used by the admin CLI and endpoint.
func (s *CreditService) AdminGrant(ctx context.Context, userID uint, amount int64, note string) (*models.CreditTransaction, error) {
	if note == "" {
		note = "operator grant"
	}
	entry, err := s.credits.Credit(ctx, userID, amount, models.CreditTypeGrant, note)
	if err != nil {
		return nil, err
	}
	observability.CreditTransactions.WithLabelValues(string(models.CreditTypeGrant)).Inc()
	return entry, nil
}

// Balance returns the user's current credit balance.
func (s *CreditService) Balance(ctx context.Context, userID uint) (int64, error) {
	return s.credits.Balance(ctx, userID)
}

// History returns the user's ledger entries, newest first.
func (s *CreditService) History(ctx context.Context, userID uint, limit, offset int) ([]models.CreditTransaction, error) {
	return s.credits.ListByUser(ctx, userID, limit, offset)
}
