package server

import (
	"socialite/internal/models"
	"socialite/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/users/profile/:userId
func (s *Server) GetProfile(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return nil
	}

	user, err := s.accounts.GetProfile(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(user.Sanitize())
}

// GetProfileByUsername handles GET /api/users/profile/username/:username
func (s *Server) GetProfileByUsername(c *fiber.Ctx) error {
	username, err := paramID(c, "username")
	if err != nil {
		return nil
	}

	user, err := s.accounts.GetProfileByUsername(c.Context(), username)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(user.Sanitize())
}

// UpdateProfile handles PUT /api/users/profile/:userId
//
// Omitted (null) fields are left unchanged; isPrivate is always applied from
// the request. Credentials cannot be changed through this route.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return nil
	}

	var req struct {
		Name            *string `json:"name"`
		Bio             *string `json:"bio"`
		AvatarURL       *string `json:"avatarUrl"`
		ProfileImageURL *string `json:"profileImageUrl"`
		IsPrivate       bool    `json:"isPrivate"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.accounts.UpdateProfile(c.Context(), userID, service.ProfilePatch{
		Name:            req.Name,
		Bio:             req.Bio,
		AvatarURL:       req.AvatarURL,
		ProfileImageURL: req.ProfileImageURL,
		IsPrivate:       req.IsPrivate,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(user.Sanitize())
}

// GetAllUsers handles GET /api/users/all
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", maxListLimit)
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := c.QueryInt("offset", 0)

	users, err := s.accounts.ListUsers(c.Context(), limit, offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(sanitizeUsers(users))
}

// SearchUsers handles GET /api/users/search?query=
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Query parameter is required"))
	}

	users, err := s.accounts.SearchUsers(c.Context(), query)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(sanitizeUsers(users))
}
