package server

import (
	"errors"
	"strings"

	"socialite/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// the error handler overwriting the response.
var errResponseWritten = errors.New("response already written")

const maxListLimit = 100

// paramID extracts a non-empty route parameter. On failure it writes a 400
// JSON response and returns errResponseWritten.
func paramID(c *fiber.Ctx, name string) (string, error) {
	v := strings.TrimSpace(c.Params(name))
	if v == "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+name))
		return "", errResponseWritten
	}
	return v, nil
}

// sanitizeUsers strips credentials from a slice of users in place and
// returns it for convenience.
func sanitizeUsers(users []models.User) []models.User {
	for i := range users {
		users[i].Password = ""
	}
	return users
}
