package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"hobbyhub/internal/apperror"
	"hobbyhub/internal/common/models"
	"hobbyhub/internal/config"
	"hobbyhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fakeUserLoader struct {
	users map[primitive.ObjectID]*models.User
}

func (f *fakeUserLoader) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if usr, ok := f.users[id]; ok {
		return usr, nil
	}
	return nil, mongo.ErrNoDocuments
}

func protectedApp(loader UserLoader, cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apperror.Handler(zap.NewNop())})
	app.Get("/me", Protect(loader, cfg), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "data": CurrentUser(c)})
	})
	return app
}

func decodeError(t *testing.T, body io.Reader) string {
	t.Helper()
	var env struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&env))
	return env.Error
}

func TestProtect(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret", JWTExpire: time.Hour}
	usr := &models.User{ID: primitive.NewObjectID(), Name: "Ada", Role: models.RolePublisher}
	loader := &fakeUserLoader{users: map[primitive.ObjectID]*models.User{usr.ID: usr}}
	app := protectedApp(loader, cfg)

	t.Run("Missing Header", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t,
			"Unauthorized to access this resource, check your credentials and try again",
			decodeError(t, resp.Body))
	})

	t.Run("Garbage Token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid authentication token", decodeError(t, resp.Body))
	})

	t.Run("Expired Token", func(t *testing.T) {
		token, err := utils.GenerateToken(usr.ID, usr.Role, cfg.JWTSecret, -time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, reqErr := app.Test(req)
		require.NoError(t, reqErr)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Your session has expired, please log in again", decodeError(t, resp.Body))
	})

	t.Run("Unknown User", func(t *testing.T) {
		token, err := utils.GenerateToken(primitive.NewObjectID(), "user", cfg.JWTSecret, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, reqErr := app.Test(req)
		require.NoError(t, reqErr)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Valid Token Loads User", func(t *testing.T) {
		token, err := utils.GenerateToken(usr.ID, usr.Role, cfg.JWTSecret, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, reqErr := app.Test(req)
		require.NoError(t, reqErr)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var env struct {
			Data models.User `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
		assert.Equal(t, "Ada", env.Data.Name)
	})
}

func TestAuthorize(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apperror.Handler(zap.NewNop())})
	app.Get("/admin",
		func(c *fiber.Ctx) error {
			if role := c.Get("X-Test-Role"); role != "" {
				c.Locals(CurrentUserKey, &models.User{ID: primitive.NewObjectID(), Role: role})
			}
			return c.Next()
		},
		Authorize(models.RoleAdmin),
		func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"success": true}) },
	)

	t.Run("No User", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Wrong Role", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("X-Test-Role", models.RolePublisher)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		assert.Equal(t,
			"User role 'publisher' is not authorized to access this resource",
			decodeError(t, resp.Body))
	})

	t.Run("Admin Allowed", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("X-Test-Role", models.RoleAdmin)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
