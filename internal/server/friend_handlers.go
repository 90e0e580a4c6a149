package server

import (
	"reelcorps/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendFriendRequest handles POST /api/friends/requests/:userId
// @Summary Send a friend request to another verified member
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Addressee user ID"
// @Success 201 {object} models.Friendship
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /friends/requests/{userId} [post]
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	addresseeID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	requesterID := currentUserID(c)

	if addresseeID == requesterID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cannot send a friend request to yourself"))
	}

	addressee, repoErr := s.userRepo.GetByID(c.UserContext(), addresseeID)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}

	// Any order: an existing row in either direction blocks a duplicate.
	existing, repoErr := s.friendRepo.GetBetweenUsers(c.UserContext(), requesterID, addresseeID)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Friend request already exists"))
	}

	friendship := &models.Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      models.FriendshipStatusPending,
	}
	if createErr := s.friendRepo.Create(c.UserContext(), friendship); createErr != nil {
		return respondAppError(c, createErr)
	}

	requester, repoErr := s.userRepo.GetByID(c.UserContext(), requesterID)
	if repoErr == nil {
		s.publishUserEvent(addresseeID, EventFriendRequestReceived, map[string]interface{}{
			"request_id": friendship.ID,
			"requester":  userSummary(*requester),
		})
		s.publishUserEvent(requesterID, EventFriendRequestSent, map[string]interface{}{
			"request_id": friendship.ID,
			"addressee":  userSummary(*addressee),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(friendship)
}

// GetFriends handles GET /api/friends
// @Summary List accepted friends
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(50)
// @Success 200 {array} models.User
// @Router /friends [get]
func (s *Server) GetFriends(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, 50)

	friends, err := s.friendRepo.GetFriends(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(friends)
}

// GetOnlineFriends handles GET /api/friends/online
// @Summary List accepted friends currently connected to the event stream
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Router /friends/online [get]
func (s *Server) GetOnlineFriends(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, 50)

	friends, err := s.friendRepo.GetFriends(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	online := make([]models.User, 0, len(friends))
	if s.hub != nil {
		for _, friend := range friends {
			if s.hub.IsOnline(friend.ID) {
				online = append(online, friend)
			}
		}
	}

	return c.JSON(online)
}

// GetPendingRequests handles GET /api/friends/requests
// @Summary List received pending friend requests
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Friendship
// @Router /friends/requests [get]
func (s *Server) GetPendingRequests(c *fiber.Ctx) error {
	userID := currentUserID(c)

	requests, err := s.friendRepo.GetPendingRequests(c.UserContext(), userID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(requests)
}

// GetSentRequests handles GET /api/friends/requests/sent
// @Summary List sent pending friend requests
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Friendship
// @Router /friends/requests/sent [get]
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	userID := currentUserID(c)

	requests, err := s.friendRepo.GetSentRequests(c.UserContext(), userID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(requests)
}

// AcceptFriendRequest handles POST /api/friends/requests/:requestId/accept
// @Summary Accept a received friend request
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param requestId path int true "Friendship ID"
// @Success 200 {object} models.Friendship
// @Failure 404 {object} models.ErrorResponse
// @Router /friends/requests/{requestId}/accept [post]
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	friendship, repoErr := s.friendRepo.GetByID(c.UserContext(), requestID)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}

	// Only the addressee may accept; requesters and bystanders get 404 so the
	// request's existence never leaks.
	if friendship.AddresseeID != userID || friendship.Status != models.FriendshipStatusPending {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Friend request", requestID))
	}

	if updErr := s.friendRepo.UpdateStatus(c.UserContext(), requestID, models.FriendshipStatusAccepted); updErr != nil {
		return respondAppError(c, updErr)
	}
	friendship.Status = models.FriendshipStatusAccepted

	if accepter, repoErr := s.userRepo.GetByID(c.UserContext(), userID); repoErr == nil {
		s.publishUserEvent(friendship.RequesterID, EventFriendRequestAccepted, map[string]interface{}{
			"request_id": friendship.ID,
			"friend":     userSummary(*accepter),
		})
	}

	return c.JSON(friendship)
}

// RejectFriendRequest handles POST /api/friends/requests/:requestId/reject
// @Summary Reject a received friend request, deleting the row
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param requestId path int true "Friendship ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /friends/requests/{requestId}/reject [post]
func (s *Server) RejectFriendRequest(c *fiber.Ctx) error {
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	friendship, repoErr := s.friendRepo.GetByID(c.UserContext(), requestID)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}

	if friendship.AddresseeID != userID || friendship.Status != models.FriendshipStatusPending {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Friend request", requestID))
	}

	if delErr := s.friendRepo.Delete(c.UserContext(), requestID); delErr != nil {
		return respondAppError(c, delErr)
	}

	s.publishUserEvent(friendship.RequesterID, EventFriendRequestRejected, map[string]interface{}{
		"request_id": friendship.ID,
	})

	return c.JSON(fiber.Map{"message": "Friend request rejected"})
}

// GetFriendshipStatus handles GET /api/friends/status/:userId
// @Summary Get the friendship state between the caller and another member
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Other user ID"
// @Success 200 {object} object{status=string}
// @Router /friends/status/{userId} [get]
func (s *Server) GetFriendshipStatus(c *fiber.Ctx) error {
	otherID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	friendship, repoErr := s.friendRepo.GetBetweenUsers(c.UserContext(), userID, otherID)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}
	if friendship == nil {
		return c.JSON(fiber.Map{"status": "none"})
	}

	return c.JSON(fiber.Map{
		"status":       friendship.Status,
		"requester_id": friendship.RequesterID,
	})
}

// RemoveFriend handles DELETE /api/friends/:userId
// @Summary Remove an accepted friend
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Friend user ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /friends/{userId} [delete]
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	otherID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	friendship, repoErr := s.friendRepo.GetBetweenUsers(c.UserContext(), userID, otherID)
	if repoErr != nil {
		return respondAppError(c, repoErr)
	}
	if friendship == nil || friendship.Status != models.FriendshipStatusAccepted {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Friendship", otherID))
	}

	if delErr := s.friendRepo.Delete(c.UserContext(), friendship.ID); delErr != nil {
		return respondAppError(c, delErr)
	}

	s.publishUserEvent(otherID, EventFriendRemoved, map[string]interface{}{
		"user_id": userID,
	})

	return c.JSON(fiber.Map{"message": "Friend removed"})
}
