package server

import (
	"reelcorps/internal/models"
	"reelcorps/internal/service"

	"github.com/gofiber/fiber/v2"
)

// StartGeneration handles POST /api/generate
// @Summary Start an AI generation job, debiting its credit cost
// @Tags generation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{kind=string,script_id=int,project_id=int} true "Job request"
// @Success 201 {object} models.GenerationJob
// @Failure 400 {object} models.ErrorResponse
// @Router /generate [post]
func (s *Server) StartGeneration(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Kind      models.GenerationKind `json:"kind"`
		ScriptID  *uint                 `json:"script_id"`
		ProjectID *uint                 `json:"project_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	// Generation kinds roll out behind feature flags.
	if !s.featureFlags.Enabled(string(req.Kind), userID) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("This generation kind is not available for your account"))
	}

	// Inputs must belong to the caller; private material never feeds a job
	// the caller could not read.
	if req.ScriptID != nil {
		script, repoErr := s.scriptRepo.GetByID(c.UserContext(), *req.ScriptID)
		if repoErr != nil {
			return respondAppError(c, repoErr)
		}
		if script.AuthorID != userID {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Script", *req.ScriptID))
		}
	}
	if req.ProjectID != nil {
		project, repoErr := s.projectRepo.GetByID(c.UserContext(), *req.ProjectID)
		if repoErr != nil {
			return respondAppError(c, repoErr)
		}
		if project.CreatorID != userID {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Project", *req.ProjectID))
		}
	}

	job, svcErr := s.generationService.Start(c.UserContext(), service.StartInput{
		UserID:    userID,
		Kind:      req.Kind,
		ScriptID:  req.ScriptID,
		ProjectID: req.ProjectID,
	})
	if svcErr != nil {
		return respondAppError(c, svcErr)
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

// GetGenerationJob handles GET /api/generate/:id
// @Summary Get an owned generation job
// @Tags generation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} models.GenerationJob
// @Failure 404 {object} models.ErrorResponse
// @Router /generate/{id} [get]
func (s *Server) GetGenerationJob(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	job, svcErr := s.generationService.Get(c.UserContext(), id)
	if svcErr != nil {
		return respondAppError(c, svcErr)
	}
	if job.UserID != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Generation job", id))
	}

	return c.JSON(job)
}

// GetMyGenerations handles GET /api/generate
// @Summary List own generation jobs, newest first
// @Tags generation
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.GenerationJob
// @Router /generate [get]
func (s *Server) GetMyGenerations(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, 20)

	jobs, err := s.generationService.ListForUser(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(jobs)
}

// CompleteGeneration handles POST /api/admin/generation/:id/complete
// @Summary Record a provider success for a pending job
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param request body object{result_url=string} true "Provider result"
// @Success 200 {object} models.GenerationJob
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/generation/{id}/complete [post]
func (s *Server) CompleteGeneration(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		ResultURL string `json:"result_url"`
	}
	if err := c.BodyParser(&req); err != nil || req.ResultURL == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("result_url is required"))
	}

	job, svcErr := s.generationService.Complete(c.UserContext(), id, req.ResultURL)
	if svcErr != nil {
		return respondAppError(c, svcErr)
	}

	s.publishUserEvent(job.UserID, EventGenerationCompleted, map[string]interface{}{
		"job_id":     job.ID,
		"kind":       job.Kind,
		"result_url": job.ResultURL,
	})

	return c.JSON(job)
}

// FailGeneration handles POST /api/admin/generation/:id/fail
// @Summary Record a provider failure for a pending job, refunding its cost
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param request body object{reason=string} true "Failure reason"
// @Success 200 {object} models.GenerationJob
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/generation/{id}/fail [post]
func (s *Server) FailGeneration(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Reason == "" {
		req.Reason = "provider failure"
	}

	job, svcErr := s.generationService.Fail(c.UserContext(), id, req.Reason)
	if svcErr != nil {
		return respondAppError(c, svcErr)
	}

	s.publishUserEvent(job.UserID, EventGenerationFailed, map[string]interface{}{
		"job_id": job.ID,
		"kind":   job.Kind,
		"error":  job.Error,
	})

	return c.JSON(job)
}
