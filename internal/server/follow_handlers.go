package server

import (
	"socialite/internal/middleware"
	"socialite/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/users/follow/:followerId/:followingId
func (s *Server) FollowUser(c *fiber.Ctx) error {
	followerID, err := paramID(c, "followerId")
	if err != nil {
		return nil
	}
	followingID, err := paramID(c, "followingId")
	if err != nil {
		return nil
	}

	if err := s.relationships.FollowUser(c.Context(), followerID, followingID); err != nil {
		middleware.FollowMutations.WithLabelValues("follow", models.ErrorCode(err)).Inc()
		return models.RespondWithAppError(c, err)
	}

	middleware.FollowMutations.WithLabelValues("follow", "ok").Inc()
	return c.SendStatus(fiber.StatusOK)
}

// UnfollowUser handles POST /api/users/unfollow/:followerId/:followingId
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	followerID, err := paramID(c, "followerId")
	if err != nil {
		return nil
	}
	followingID, err := paramID(c, "followingId")
	if err != nil {
		return nil
	}

	if err := s.relationships.UnfollowUser(c.Context(), followerID, followingID); err != nil {
		middleware.FollowMutations.WithLabelValues("unfollow", models.ErrorCode(err)).Inc()
		return models.RespondWithAppError(c, err)
	}

	middleware.FollowMutations.WithLabelValues("unfollow", "ok").Inc()
	return c.SendStatus(fiber.StatusOK)
}

// GetFollowers handles GET /api/users/followers/:userId
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return nil
	}

	followers, err := s.relationships.GetFollowers(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(sanitizeUsers(followers))
}

// GetFollowing handles GET /api/users/following/:userId
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return nil
	}

	following, err := s.relationships.GetFollowing(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(sanitizeUsers(following))
}
