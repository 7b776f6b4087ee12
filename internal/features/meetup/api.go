package meetup

import (
	"hobbyhub/internal/common/models"
	"hobbyhub/internal/config"
	"hobbyhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type MeetupApi struct {
	controller *MeetupController
	config     *config.Config
	users      middleware.UserLoader
}

func NewMeetupApi(controller *MeetupController, cfg *config.Config, users middleware.UserLoader) *MeetupApi {
	return &MeetupApi{
		controller: controller,
		config:     cfg,
		users:      users,
	}
}

// Setup registers meetup routes, including the nested group routes
func (h *MeetupApi) Setup(app *fiber.App) {
	protect := middleware.Protect(h.users, h.config)
	publish := middleware.Authorize(models.RolePublisher, models.RoleAdmin)

	meetups := app.Group("/api/v1/meetups")
	meetups.Get("/", h.controller.GetMeetups)
	meetups.Get("/:id", h.controller.GetMeetup)
	meetups.Put("/:id", protect, publish, h.controller.UpdateMeetup)
	meetups.Delete("/:id", protect, publish, h.controller.DeleteMeetup)

	nested := app.Group("/api/v1/groups/:groupId/meetups")
	nested.Get("/", h.controller.GetMeetups)
	nested.Post("/", protect, publish, h.controller.CreateMeetup)
}
