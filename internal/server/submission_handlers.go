package server

import (
	"time"

	"reelcorps/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFestivals handles GET /api/festivals
// @Summary List the festival catalog
// @Tags festivals
// @Produce json
// @Success 200 {array} festivals.Festival
// @Router /festivals [get]
func (s *Server) GetFestivals(c *fiber.Ctx) error {
	return c.JSON(s.festivals.All())
}

// GetFestival handles GET /api/festivals/:slug
// @Summary Get a catalog festival by slug
// @Tags festivals
// @Produce json
// @Param slug path string true "Festival slug"
// @Success 200 {object} festivals.Festival
// @Failure 404 {object} models.ErrorResponse
// @Router /festivals/{slug} [get]
func (s *Server) GetFestival(c *fiber.Ctx) error {
	slug := c.Params("slug")

	festival, ok := s.festivals.Get(slug)
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Festival", slug))
	}

	return c.JSON(festival)
}

// CreateSubmission handles POST /api/submissions
// @Summary Track a festival submission for an owned script or project
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{festival_slug=string,script_id=int,project_id=int,notes=string} true "Submission"
// @Success 201 {object} models.FestivalSubmission
// @Failure 400 {object} models.ErrorResponse
// @Router /submissions [post]
func (s *Server) CreateSubmission(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		FestivalSlug string `json:"festival_slug"`
		ScriptID     *uint  `json:"script_id"`
		ProjectID    *uint  `json:"project_id"`
		Notes        string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	festival, ok := s.festivals.Get(req.FestivalSlug)
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown festival"))
	}
	if req.ScriptID == nil && req.ProjectID == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A script or project is required"))
	}

	if req.ScriptID != nil {
		if !festival.AcceptsScripts {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("This festival does not accept script entries"))
		}
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
		if !festival.AcceptsProjects {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("This festival does not accept project entries"))
		}
		project, repoErr := s.projectRepo.GetByID(c.UserContext(), *req.ProjectID)
		if repoErr != nil {
			return respondAppError(c, repoErr)
		}
		if project.CreatorID != userID {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Project", *req.ProjectID))
		}
	}

	submission := &models.FestivalSubmission{
		SubmitterID:  userID,
		FestivalSlug: festival.Slug,
		ScriptID:     req.ScriptID,
		ProjectID:    req.ProjectID,
		Status:       models.SubmissionStatusDraft,
		Notes:        req.Notes,
	}
	if err := s.submissionRepo.Create(c.UserContext(), submission); err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(submission)
}

// GetSubmission handles GET /api/submissions/:id
// @Summary Get an owned submission
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} models.FestivalSubmission
// @Failure 404 {object} models.ErrorResponse
// @Router /submissions/{id} [get]
func (s *Server) GetSubmission(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	submission, repoErr := s.submissionRepo.GetByID(c.UserContext(), id)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}
	if submission.SubmitterID != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Submission", id))
	}

	return c.JSON(submission)
}

// GetMySubmissions handles GET /api/submissions
// @Summary List own submissions, newest first
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.FestivalSubmission
// @Router /submissions [get]
func (s *Server) GetMySubmissions(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, 20)

	submissions, err := s.submissionRepo.ListBySubmitter(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(submissions)
}

// UpdateSubmissionStatus handles PUT /api/submissions/:id/status
// @Summary Set the tracking status of an owned submission
// @Description Any valid status may be set at any time; there is no enforced transition graph.
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body object{status=string,notes=string} true "New status"
// @Success 200 {object} models.FestivalSubmission
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /submissions/{id}/status [put]
func (s *Server) UpdateSubmissionStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req struct {
		Status models.SubmissionStatus `json:"status"`
		Notes  *string                 `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if !models.ValidSubmissionStatus(req.Status) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown submission status"))
	}

	submission, repoErr := s.submissionRepo.GetByID(c.UserContext(), id)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}
	if submission.SubmitterID != userID {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Submission", id))
	}

	// Stamp the first transition into submitted.
	if req.Status == models.SubmissionStatusSubmitted && submission.SubmittedAt == nil {
		now := time.Now()
		submission.SubmittedAt = &now
	}
	submission.Status = req.Status
	if req.Notes != nil {
		submission.Notes = *req.Notes
	}

	if updErr := s.submissionRepo.Update(c.UserContext(), submission); updErr != nil {
		return respondAppError(c, updErr)
	}

	return c.JSON(submission)
}

// DeleteSubmission handles DELETE /api/submissions/:id
// @Summary Delete an owned submission record
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /submissions/{id} [delete]
func (s *Server) DeleteSubmission(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	submission, repoErr := s.submissionRepo.GetByID(c.UserContext(), id)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}
	if submission.SubmitterID != userID {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Submission", id))
	}

	if delErr := s.submissionRepo.Delete(c.UserContext(), id); delErr != nil {
		return respondAppError(c, delErr)
	}

	return c.JSON(fiber.Map{"message": "Submission deleted"})
}
