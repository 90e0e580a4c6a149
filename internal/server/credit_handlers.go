package server

import (
	"reelcorps/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCreditBalance handles GET /api/credits
// @Summary Get own credit balance
// @Tags credits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{balance=int}
// @Router /credits [get]
func (s *Server) GetCreditBalance(c *fiber.Ctx) error {
	userID := currentUserID(c)

	balance, err := s.creditService.Balance(c.UserContext(), userID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"balance": balance})
}

// GetCreditHistory handles GET /api/credits/history
// @Summary List own credit ledger entries, newest first
// @Tags credits
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(50)
// @Success 200 {array} models.CreditTransaction
// @Router /credits/history [get]
func (s *Server) GetCreditHistory(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, 50)

	history, err := s.creditService.History(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(history)
}

// GrantCredits handles POST /api/admin/credits/:userId/grant
// @Summary Grant credits to a member
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param request body object{amount=int,note=string} true "Grant"
// @Success 200 {object} models.CreditTransaction
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/credits/{userId}/grant [post]
func (s *Server) GrantCredits(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	var req struct {
		Amount int64  `json:"amount"`
		Note   string `json:"note"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Amount <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Amount must be positive"))
	}

	tx, svcErr := s.creditService.AdminGrant(c.UserContext(), userID, req.Amount, req.Note)
	if svcErr != nil {
		return respondAppError(c, svcErr)
	}

	s.publishUserEvent(userID, EventCreditsGranted, map[string]interface{}{
		"amount":        tx.Amount,
		"balance_after": tx.BalanceAfter,
	})

	return c.JSON(tx)
}
