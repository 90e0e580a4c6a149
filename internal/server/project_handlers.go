package server

import (
	"reelcorps/internal/models"
	"reelcorps/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateProject handles POST /api/projects
// @Summary Create a production project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,synopsis=string,stage=string,is_public=bool,script_id=int} true "Project"
// @Success 201 {object} models.Project
// @Failure 400 {object} models.ErrorResponse
// @Router /projects [post]
func (s *Server) CreateProject(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Title    string              `json:"title"`
		Synopsis string              `json:"synopsis"`
		Stage    models.ProjectStage `json:"stage"`
		IsPublic bool                `json:"is_public"`
		ScriptID *uint               `json:"script_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateTitle(req.Title); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if req.Stage == "" {
		req.Stage = models.ProjectStageDevelopment
	}
	if !models.ValidProjectStage(req.Stage) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown project stage"))
	}

	// A linked script must be one of the creator's own.
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

	project := &models.Project{
		CreatorID: userID,
		Title:     req.Title,
		Synopsis:  req.Synopsis,
		Stage:     req.Stage,
		IsPublic:  req.IsPublic,
		ScriptID:  req.ScriptID,
	}
	if err := s.projectRepo.Create(c.UserContext(), project); err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

// GetProject handles GET /api/projects/:id
// @Summary Get a project. Private projects 404 for anyone but the creator.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{id} [get]
func (s *Server) GetProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	project, repoErr := s.projectRepo.GetByID(c.UserContext(), id)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}

	if !project.IsPublic && project.CreatorID != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Project", id))
	}

	return c.JSON(project)
}

// GetMyProjects handles GET /api/projects/me
// @Summary List own projects, newest first
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Project
// @Router /projects/me [get]
func (s *Server) GetMyProjects(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, 20)

	projects, err := s.projectRepo.ListByCreator(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(projects)
}

// GetPublicProjects handles GET /api/projects
// @Summary Browse public projects, optionally filtered by stage
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param stage query string false "Production stage filter"
// @Success 200 {array} models.Project
// @Failure 400 {object} models.ErrorResponse
// @Router /projects [get]
func (s *Server) GetPublicProjects(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	stage := models.ProjectStage(c.Query("stage"))
	if stage != "" && !models.ValidProjectStage(stage) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown project stage"))
	}

	projects, err := s.projectRepo.ListPublic(c.UserContext(), stage, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(projects)
}

// UpdateProject handles PUT /api/projects/:id
// @Summary Update an owned project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{id} [put]
func (s *Server) UpdateProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	project, repoErr := s.projectRepo.GetByID(c.UserContext(), id)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}
	if project.CreatorID != userID {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Project", id))
	}

	var req struct {
		Title    *string              `json:"title"`
		Synopsis *string              `json:"synopsis"`
		Stage    *models.ProjectStage `json:"stage"`
		IsPublic *bool                `json:"is_public"`
		ScriptID *uint                `json:"script_id"`
		PosterID *uint                `json:"poster_id"`
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
		project.Title = *req.Title
	}
	if req.Synopsis != nil {
		project.Synopsis = *req.Synopsis
	}
	if req.Stage != nil {
		if !models.ValidProjectStage(*req.Stage) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Unknown project stage"))
		}
		project.Stage = *req.Stage
	}
	if req.IsPublic != nil {
		project.IsPublic = *req.IsPublic
	}
	if req.ScriptID != nil {
		script, repoErr := s.scriptRepo.GetByID(c.UserContext(), *req.ScriptID)
		if repoErr != nil {
			return respondAppError(c, repoErr)
		}
		if script.AuthorID != userID {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Script", *req.ScriptID))
		}
		project.ScriptID = req.ScriptID
	}
	if req.PosterID != nil {
		poster, svcErr := s.posterService.Get(c.UserContext(), *req.PosterID)
		if svcErr != nil {
			return respondAppError(c, svcErr)
		}
		if poster.OwnerID != userID {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Poster", *req.PosterID))
		}
		project.PosterID = req.PosterID
	}

	if updErr := s.projectRepo.Update(c.UserContext(), project); updErr != nil {
		return respondAppError(c, updErr)
	}

	return c.JSON(project)
}

// DeleteProject handles DELETE /api/projects/:id
// @Summary Delete an owned project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{id} [delete]
func (s *Server) DeleteProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	project, repoErr := s.projectRepo.GetByID(c.UserContext(), id)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}
	if project.CreatorID != userID {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Project", id))
	}

	if delErr := s.projectRepo.Delete(c.UserContext(), id); delErr != nil {
		return respondAppError(c, delErr)
	}

	return c.JSON(fiber.Map{"message": "Project deleted"})
}
