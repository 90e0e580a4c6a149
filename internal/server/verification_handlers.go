package server

import (
	"reelcorps/internal/models"
	"reelcorps/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SubmitVerification handles POST /api/verification
// @Summary Submit a service verification request
// @Description Moves the member from public to pending review. Re-submitting while a request is open returns the open request.
// @Tags verification
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{service_branch=string,years_of_service=int,document_ref=string} true "Service record"
// @Success 201 {object} models.VerificationRequest
// @Failure 400 {object} models.ErrorResponse
// @Router /verification [post]
func (s *Server) SubmitVerification(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		ServiceBranch  string `json:"service_branch"`
		YearsOfService int    `json:"years_of_service"`
		DocumentRef    string `json:"document_ref"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	request, err := s.verificationService.Submit(c.UserContext(), service.SubmitInput{
		UserID:         userID,
		ServiceBranch:  req.ServiceBranch,
		YearsOfService: req.YearsOfService,
		DocumentRef:    req.DocumentRef,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

// GetMyVerificationHistory handles GET /api/verification/me
// @Summary List own verification requests, newest first
// @Tags verification
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.VerificationRequest
// @Router /verification/me [get]
func (s *Server) GetMyVerificationHistory(c *fiber.Ctx) error {
	userID := currentUserID(c)

	requests, err := s.verificationService.HistoryForUser(c.UserContext(), userID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(requests)
}

// GetPendingVerifications handles GET /api/admin/verification
// @Summary List pending verification requests, oldest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.VerificationRequest
// @Router /admin/verification [get]
func (s *Server) GetPendingVerifications(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	requests, err := s.verificationService.ListPending(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(requests)
}

// ApproveVerification handles POST /api/admin/verification/:id/approve
// @Summary Approve a verification request, promoting the member to verified
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} models.VerificationRequest
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/verification/{id}/approve [post]
func (s *Server) ApproveVerification(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	reviewerID := currentUserID(c)

	request, svcErr := s.verificationService.Approve(c.UserContext(), id, reviewerID)
	if svcErr != nil {
		return respondAppError(c, svcErr)
	}

	s.publishUserEvent(request.UserID, EventVerificationApproved, map[string]interface{}{
		"request_id": request.ID,
	})

	return c.JSON(request)
}

// RejectVerification handles POST /api/admin/verification/:id/reject
// @Summary Reject a verification request, returning the member to public
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body object{reason=string} true "Rejection reason"
// @Success 200 {object} models.VerificationRequest
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/verification/{id}/reject [post]
func (s *Server) RejectVerification(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	reviewerID := currentUserID(c)

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	request, svcErr := s.verificationService.Reject(c.UserContext(), id, reviewerID, req.Reason)
	if svcErr != nil {
		return respondAppError(c, svcErr)
	}

	s.publishUserEvent(request.UserID, EventVerificationRejected, map[string]interface{}{
		"request_id": request.ID,
		"reason":     request.Reason,
	})

	return c.JSON(request)
}
