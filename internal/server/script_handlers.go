package server

import (
	"reelcorps/internal/models"
	"reelcorps/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateScript handles POST /api/scripts
// @Summary Create a screenplay
// @Tags scripts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,logline=string,content=string,format=string,is_public=bool} true "Script"
// @Success 201 {object} models.Script
// @Failure 400 {object} models.ErrorResponse
// @Router /scripts [post]
func (s *Server) CreateScript(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Title    string              `json:"title"`
		Logline  string              `json:"logline"`
		Content  string              `json:"content"`
		Format   models.ScriptFormat `json:"format"`
		IsPublic bool                `json:"is_public"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateTitle(req.Title); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if req.Format == "" {
		req.Format = models.ScriptFormatFeature
	}
	if !models.ValidScriptFormat(req.Format) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown script format"))
	}

	script := &models.Script{
		AuthorID: userID,
		Title:    req.Title,
		Logline:  req.Logline,
		Content:  req.Content,
		Format:   req.Format,
		IsPublic: req.IsPublic,
	}
	if err := s.scriptRepo.Create(c.UserContext(), script); err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(script)
}

// GetScript handles GET /api/scripts/:id
// @Summary Get a script. Private scripts 404 for anyone but the author.
// @Tags scripts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Script ID"
// @Success 200 {object} models.Script
// @Failure 404 {object} models.ErrorResponse
// @Router /scripts/{id} [get]
func (s *Server) GetScript(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	script, repoErr := s.scriptRepo.GetByID(c.UserContext(), id)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}

	// 404, not 403: existence of a private script must not leak.
	if !script.IsPublic && script.AuthorID != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Script", id))
	}

	return c.JSON(script)
}

// GetMyScripts handles GET /api/scripts/me
// @Summary List own scripts, newest first
// @Tags scripts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Script
// @Router /scripts/me [get]
func (s *Server) GetMyScripts(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, 20)

	scripts, err := s.scriptRepo.ListByAuthor(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(scripts)
}

// GetPublicScripts handles GET /api/scripts
// @Summary Browse public scripts
// @Tags scripts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Script
// @Router /scripts [get]
func (s *Server) GetPublicScripts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	scripts, err := s.scriptRepo.ListPublic(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(scripts)
}

// UpdateScript handles PUT /api/scripts/:id
// @Summary Update an owned script
// @Tags scripts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Script ID"
// @Success 200 {object} models.Script
// @Failure 404 {object} models.ErrorResponse
// @Router /scripts/{id} [put]
func (s *Server) UpdateScript(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	script, repoErr := s.scriptRepo.GetByID(c.UserContext(), id)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}
	if script.AuthorID != userID {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Script", id))
	}

	var req struct {
		Title    *string              `json:"title"`
		Logline  *string              `json:"logline"`
		Content  *string              `json:"content"`
		Format   *models.ScriptFormat `json:"format"`
		IsPublic *bool                `json:"is_public"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title != nil {
		if err := validation.ValidateTitle(*req.Title); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		script.Title = *req.Title
	}
	if req.Logline != nil {
		script.Logline = *req.Logline
	}
	if req.Content != nil {
		script.Content = *req.Content
	}
	if req.Format != nil {
		if !models.ValidScriptFormat(*req.Format) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Unknown script format"))
		}
		script.Format = *req.Format
	}
	if req.IsPublic != nil {
		script.IsPublic = *req.IsPublic
	}

	if updErr := s.scriptRepo.Update(c.UserContext(), script); updErr != nil {
		return respondAppError(c, updErr)
	}

	return c.JSON(script)
}

// DeleteScript handles DELETE /api/scripts/:id
// @Summary Delete an owned script
// @Tags scripts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Script ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /scripts/{id} [delete]
func (s *Server) DeleteScript(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	script, repoErr := s.scriptRepo.GetByID(c.UserContext(), id)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}
	if script.AuthorID != userID {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Script", id))
	}

	if delErr := s.scriptRepo.Delete(c.UserContext(), id); delErr != nil {
		return respondAppError(c, delErr)
	}

	return c.JSON(fiber.Map{"message": "Script deleted"})
}
