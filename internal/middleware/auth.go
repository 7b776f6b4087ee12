package middleware

import (
	"context"
	"errors"
	"strings"

	"hobbyhub/internal/apperror"
	"hobbyhub/internal/common/models"
	"hobbyhub/internal/config"
	"hobbyhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CurrentUserKey is the request-locals key the authenticated user is stored
// under.
const CurrentUserKey = "currentUser"

// UserLoader is the slice of the user repository the auth middleware needs.
// Declared here so feature packages can depend on middleware without a cycle.
type UserLoader interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Protect validates the bearer token, loads the acting user and attaches it
// to the request. Expired tokens get their own message so clients can tell
// re-login from a bad token.
func Protect(users UserLoader, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return apperror.New("Unauthorized to access this resource, check your credentials and try again", fiber.StatusUnauthorized)
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(token, cfg.JWTSecret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return apperror.New("Your session has expired, please log in again", fiber.StatusUnauthorized)
			}
			return apperror.New("Invalid authentication token", fiber.StatusUnauthorized)
		}

		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return apperror.New("Invalid authentication token", fiber.StatusUnauthorized)
		}

		usr, err := users.FindByID(c.UserContext(), id)
		if err != nil {
			return apperror.New("Unauthorized to access this resource, check your credentials and try again", fiber.StatusUnauthorized)
		}

		c.Locals(CurrentUserKey, usr)
		return c.Next()
	}
}

// CurrentUser returns the user attached by Protect, or nil on public routes.
func CurrentUser(c *fiber.Ctx) *models.User {
	usr, _ := c.Locals(CurrentUserKey).(*models.User)
	return usr
}
