package group

import (
	"hobbyhub/internal/common/models"
	"hobbyhub/internal/config"
	"hobbyhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type GroupApi struct {
	controller *GroupController
	config     *config.Config
	users      middleware.UserLoader
}

func NewGroupApi(controller *GroupController, cfg *config.Config, users middleware.UserLoader) *GroupApi {
	return &GroupApi{
		controller: controller,
		config:     cfg,
		users:      users,
	}
}

// Setup registers all group routes
func (h *GroupApi) Setup(app *fiber.App) {
	protect := middleware.Protect(h.users, h.config)
	publish := middleware.Authorize(models.RolePublisher, models.RoleAdmin)

	groups := app.Group("/api/v1/groups")

	groups.Get("/", h.controller.GetGroups)
	groups.Post("/", protect, publish, h.controller.CreateGroup)
	groups.Get("/radius/:zipcode/:distance", h.controller.GetGroupsInRadius)
	groups.Get("/:id", h.controller.GetGroup)
	groups.Put("/:id", protect, publish, h.controller.UpdateGroup)
	groups.Delete("/:id", protect, publish, h.controller.DeleteGroup)
	groups.Put("/:id/photo", protect, publish, h.controller.UploadGroupPhoto)
}
