package server

import (
	"strings"

	"reelcorps/internal/models"
	"reelcorps/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateForumPost handles POST /api/forum/posts
// @Summary Start a forum thread
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{category=string,title=string,body=string} true "Thread"
// @Success 201 {object} models.ForumPost
// @Failure 400 {object} models.ErrorResponse
// @Router /forum/posts [post]
func (s *Server) CreateForumPost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Category models.ForumCategory `json:"category"`
		Title    string               `json:"title"`
		Body     string               `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateTitle(req.Title); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if strings.TrimSpace(req.Body) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Body is required"))
	}
	if req.Category == "" {
		req.Category = models.ForumCategoryGeneral
	}
	if !models.ValidForumCategory(req.Category) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown forum category"))
	}

	post := &models.ForumPost{
		AuthorID: userID,
		Category: req.Category,
		Title:    req.Title,
		Body:     req.Body,
	}
	if err := s.forumRepo.CreatePost(c.UserContext(), post); err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetForumPosts handles GET /api/forum/posts
// @Summary List forum threads, newest first, optionally filtered by board
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param category query string false "Board filter"
// @Success 200 {array} models.ForumPost
// @Failure 400 {object} models.ErrorResponse
// @Router /forum/posts [get]
func (s *Server) GetForumPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	category := models.ForumCategory(c.Query("category"))
	if category != "" && !models.ValidForumCategory(category) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown forum category"))
	}

	posts, err := s.forumRepo.ListPosts(c.UserContext(), category, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(posts)
}

// GetForumPost handles GET /api/forum/posts/:id
// @Summary Get a forum thread
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.ForumPost
// @Failure 404 {object} models.ErrorResponse
// @Router /forum/posts/{id} [get]
func (s *Server) GetForumPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, repoErr := s.forumRepo.GetPostByID(c.UserContext(), id)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}

	return c.JSON(post)
}

// UpdateForumPost handles PUT /api/forum/posts/:id
// @Summary Edit an owned forum thread
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.ForumPost
// @Failure 404 {object} models.ErrorResponse
// @Router /forum/posts/{id} [put]
func (s *Server) UpdateForumPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	post, repoErr := s.forumRepo.GetPostByID(c.UserContext(), id)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}
	if post.AuthorID != userID {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Forum post", id))
	}

	var req struct {
		Title *string `json:"title"`
		Body  *string `json:"body"`
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
		post.Title = *req.Title
	}
	if req.Body != nil {
		if strings.TrimSpace(*req.Body) == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Body is required"))
		}
		post.Body = *req.Body
	}

	if updErr := s.forumRepo.UpdatePost(c.UserContext(), post); updErr != nil {
		return respondAppError(c, updErr)
	}

	return c.JSON(post)
}

// DeleteForumPost handles DELETE /api/forum/posts/:id
// @Summary Delete a forum thread (author or admin)
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /forum/posts/{id} [delete]
func (s *Server) DeleteForumPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	post, repoErr := s.forumRepo.GetPostByID(c.UserContext(), id)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}

	if post.AuthorID != userID {
		admin, admErr := s.isAdmin(c, userID)
		if admErr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, admErr)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Forum post", id))
		}
	}

	if delErr := s.forumRepo.DeletePost(c.UserContext(), id); delErr != nil {
		return respondAppError(c, delErr)
	}

	return c.JSON(fiber.Map{"message": "Forum post deleted"})
}

// CreateForumComment handles POST /api/forum/posts/:id/comments
// @Summary Reply to a forum thread
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{body=string} true "Comment"
// @Success 201 {object} models.ForumComment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /forum/posts/{id}/comments [post]
func (s *Server) CreateForumComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if strings.TrimSpace(req.Body) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Body is required"))
	}

	post, repoErr := s.forumRepo.GetPostByID(c.UserContext(), postID)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}

	comment := &models.ForumComment{
		PostID:   postID,
		AuthorID: userID,
		Body:     req.Body,
	}
	if createErr := s.forumRepo.CreateComment(c.UserContext(), comment); createErr != nil {
		return respondAppError(c, createErr)
	}

	// Tell the thread author someone replied, unless they replied themselves.
	if post.AuthorID != userID {
		s.publishUserEvent(post.AuthorID, EventForumReply, map[string]interface{}{
			"post_id":    postID,
			"comment_id": comment.ID,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetForumComments handles GET /api/forum/posts/:id/comments
// @Summary List replies in a thread, oldest first
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {array} models.ForumComment
// @Failure 404 {object} models.ErrorResponse
// @Router /forum/posts/{id}/comments [get]
func (s *Server) GetForumComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	if _, repoErr := s.forumRepo.GetPostByID(c.UserContext(), postID); repoErr != nil {
		return respondAppError(c, repoErr)
	}

	comments, repoErr := s.forumRepo.ListComments(c.UserContext(), postID, page.Limit, page.Offset)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}

	return c.JSON(comments)
}

// DeleteForumComment handles DELETE /api/forum/posts/:id/comments/:commentId
// @Summary Delete a reply (author or admin)
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param commentId path int true "Comment ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /forum/posts/{id}/comments/{commentId} [delete]
func (s *Server) DeleteForumComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	comment, repoErr := s.forumRepo.GetCommentByID(c.UserContext(), commentID)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}
	if comment.PostID != postID {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Comment", commentID))
	}

	if comment.AuthorID != userID {
		admin, admErr := s.isAdmin(c, userID)
		if admErr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, admErr)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Comment", commentID))
		}
	}

	if delErr := s.forumRepo.DeleteComment(c.UserContext(), commentID); delErr != nil {
		return respondAppError(c, delErr)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
