package server

import (
	"io"
	"strconv"

	"reelcorps/internal/models"
	"reelcorps/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadPoster handles POST /api/posters
// @Summary Upload project key art (multipart field "poster")
// @Tags posters
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param poster formData file true "Image file (jpeg/png/gif/webp)"
// @Param project_id formData int false "Project to attach the poster to"
// @Success 201 {object} models.Poster
// @Failure 400 {object} models.ErrorResponse
// @Router /posters [post]
func (s *Server) UploadPoster(c *fiber.Ctx) error {
	userID := currentUserID(c)

	fileHeader, err := c.FormFile("poster")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A poster file is required"))
	}

	var projectID *uint
	if raw := c.FormValue("project_id"); raw != "" {
		parsed, parseErr := strconv.ParseUint(raw, 10, 32)
		if parseErr != nil || parsed == 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid project ID"))
		}
		id := uint(parsed)
		project, repoErr := s.projectRepo.GetByID(c.UserContext(), id)
		if repoErr != nil {
			return respondAppError(c, repoErr)
		}
		if project.CreatorID != userID {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Project", id))
		}
		projectID = &id
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	poster, svcErr := s.posterService.Upload(c.UserContext(), service.UploadPosterInput{
		OwnerID:     userID,
		ProjectID:   projectID,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if svcErr != nil {
		return respondAppError(c, svcErr)
	}

	// Attach to the project when requested.
	if projectID != nil {
		project, repoErr := s.projectRepo.GetByID(c.UserContext(), *projectID)
		if repoErr == nil {
			project.PosterID = &poster.ID
			_ = s.projectRepo.Update(c.UserContext(), project)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(poster)
}

// GetPoster handles GET /api/posters/:id
// @Summary Get poster metadata
// @Tags posters
// @Produce json
// @Security BearerAuth
// @Param id path int true "Poster ID"
// @Success 200 {object} models.Poster
// @Failure 404 {object} models.ErrorResponse
// @Router /posters/{id} [get]
func (s *Server) GetPoster(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	poster, svcErr := s.posterService.Get(c.UserContext(), id)
	if svcErr != nil {
		return respondAppError(c, svcErr)
	}

	return c.JSON(poster)
}

// GetPosterFile handles GET /api/posters/:id/file
// @Summary Serve the processed webp rendition
// @Tags posters
// @Produce image/webp
// @Security BearerAuth
// @Param id path int true "Poster ID"
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse
// @Router /posters/{id}/file [get]
func (s *Server) GetPosterFile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	_, path, svcErr := s.posterService.ResolveFile(c.UserContext(), id)
	if svcErr != nil {
		return respondAppError(c, svcErr)
	}

	c.Set(fiber.HeaderContentType, "image/webp")
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.SendFile(path)
}

// GetMyPosters handles GET /api/posters
// @Summary List own posters, newest first
// @Tags posters
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Poster
// @Router /posters [get]
func (s *Server) GetMyPosters(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, 20)

	posters, err := s.posterService.ListForOwner(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(posters)
}

// DeletePoster handles DELETE /api/posters/:id
// @Summary Delete an owned poster and its files
// @Tags posters
// @Produce json
// @Security BearerAuth
// @Param id path int true "Poster ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /posters/{id} [delete]
func (s *Server) DeletePoster(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	poster, svcErr := s.posterService.Get(c.UserContext(), id)
	if svcErr != nil {
		return respondAppError(c, svcErr)
	}
	if poster.OwnerID != userID {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Poster", id))
	}

	if delErr := s.posterService.Delete(c.UserContext(), id); delErr != nil {
		return respondAppError(c, delErr)
	}

	return c.JSON(fiber.Map{"message": "Poster deleted"})
}
