package server

import (
	"strings"

	"reelcorps/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateConversation handles POST /api/conversations
// @Summary Open (or return) a direct conversation with a friend
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{user_id=int} true "Other participant"
// @Success 201 {object} models.Conversation
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /conversations [post]
func (s *Server) CreateConversation(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}
	if req.UserID == userID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cannot open a conversation with yourself"))
	}

	// Direct messages are friends-only.
	friends, err := s.areFriends(c.UserContext(), userID, req.UserID)
	if err != nil {
		return respondAppError(c, err)
	}
	if !friends {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("You can only message accepted friends"))
	}

	// Reuse the existing thread if one exists.
	existing, err := s.messageRepo.GetDirectConversation(c.UserContext(), userID, req.UserID)
	if err != nil {
		return respondAppError(c, err)
	}
	if existing != nil {
		return c.JSON(existing)
	}

	conv := &models.Conversation{CreatedBy: userID}
	if createErr := s.messageRepo.CreateConversation(c.UserContext(), conv, []uint{userID, req.UserID}); createErr != nil {
		return respondAppError(c, createErr)
	}

	created, err := s.messageRepo.GetConversation(c.UserContext(), conv.ID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetConversations handles GET /api/conversations
// @Summary List own conversations, most recently active first
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Conversation
// @Router /conversations [get]
func (s *Server) GetConversations(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, 20)

	conversations, err := s.messageRepo.ListConversations(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(conversations)
}

// GetConversation handles GET /api/conversations/:id
// @Summary Get a conversation the caller participates in
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversation ID"
// @Success 200 {object} models.Conversation
// @Failure 404 {object} models.ErrorResponse
// @Router /conversations/{id} [get]
func (s *Server) GetConversation(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	// Non-participants get 404, never 403.
	member, repoErr := s.messageRepo.IsParticipant(c.UserContext(), id, userID)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}
	if !member {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Conversation", id))
	}

	conv, repoErr := s.messageRepo.GetConversation(c.UserContext(), id)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}

	return c.JSON(conv)
}

// GetMessages handles GET /api/conversations/:id/messages
// @Summary List messages in a conversation, newest first
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversation ID"
// @Success 200 {array} models.Message
// @Failure 404 {object} models.ErrorResponse
// @Router /conversations/{id}/messages [get]
func (s *Server) GetMessages(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)
	page := parsePagination(c, 50)

	member, repoErr := s.messageRepo.IsParticipant(c.UserContext(), id, userID)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}
	if !member {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Conversation", id))
	}

	messages, repoErr := s.messageRepo.ListMessages(c.UserContext(), id, page.Limit, page.Offset)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}

	return c.JSON(messages)
}

// SendMessage handles POST /api/conversations/:id/messages
// @Summary Send a direct message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversation ID"
// @Param request body object{body=string} true "Message"
// @Success 201 {object} models.Message
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /conversations/{id}/messages [post]
func (s *Server) SendMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
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
			models.NewValidationError("Message body is required"))
	}
	if len(req.Body) > 4000 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Message too long (max 4000 characters)"))
	}

	member, repoErr := s.messageRepo.IsParticipant(c.UserContext(), id, userID)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}
	if !member {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Conversation", id))
	}

	message := &models.Message{
		ConversationID: id,
		SenderID:       userID,
		Body:           req.Body,
	}
	if createErr := s.messageRepo.CreateMessage(c.UserContext(), message); createErr != nil {
		return respondAppError(c, createErr)
	}

	// Fan out to the other participants' event streams.
	conv, repoErr := s.messageRepo.GetConversation(c.UserContext(), id)
	if repoErr == nil {
		for _, participant := range conv.Participants {
			if participant.UserID == userID {
				continue
			}
			s.publishUserEvent(participant.UserID, EventMessageReceived, map[string]interface{}{
				"conversation_id": id,
				"message_id":      message.ID,
				"sender_id":       userID,
				"body":            message.Body,
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}
