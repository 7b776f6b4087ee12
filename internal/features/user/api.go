package user

import (
	"hobbyhub/internal/common/models"
	"hobbyhub/internal/config"
	"hobbyhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	config     *config.Config
	users      middleware.UserLoader
}

func NewUserApi(controller *UserController, cfg *config.Config, users middleware.UserLoader) *UserApi {
	return &UserApi{
		controller: controller,
		config:     cfg,
		users:      users,
	}
}

// Setup registers the admin-only user management routes.
func (h *UserApi) Setup(app *fiber.App) {
	group := app.Group("/api/v1/users",
		middleware.Protect(h.users, h.config),
		middleware.Authorize(models.RoleAdmin),
	)

	group.Get("/", h.controller.GetUsers)
	group.Post("/", h.controller.CreateUser)
	group.Get("/:id", h.controller.GetUser)
	group.Put("/:id", h.controller.UpdateUser)
	group.Delete("/:id", h.controller.DeleteUser)
}
