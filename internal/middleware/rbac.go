package middleware

import (
	"slices"

	"hobbyhub/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// Authorize restricts a route to the listed roles. Must run after Protect.
func Authorize(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		usr := CurrentUser(c)
		if usr == nil {
			return apperror.New("Unauthorized to access this resource, check your credentials and try again", fiber.StatusUnauthorized)
		}

		if !slices.Contains(roles, usr.Role) {
			return apperror.Newf(fiber.StatusForbidden, "User role '%s' is not authorized to access this resource", usr.Role)
		}

		return c.Next()
	}
}
