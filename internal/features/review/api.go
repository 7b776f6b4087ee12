package review

import (
	"hobbyhub/internal/common/models"
	"hobbyhub/internal/config"
	"hobbyhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReviewApi struct {
	controller *ReviewController
	config     *config.Config
	users      middleware.UserLoader
}

func NewReviewApi(controller *ReviewController, cfg *config.Config, users middleware.UserLoader) *ReviewApi {
	return &ReviewApi{
		controller: controller,
		config:     cfg,
		users:      users,
	}
}

// Setup registers review routes, including the nested group routes
func (h *ReviewApi) Setup(app *fiber.App) {
	protect := middleware.Protect(h.users, h.config)
	member := middleware.Authorize(models.RoleUser, models.RoleAdmin)

	reviews := app.Group("/api/v1/reviews")
	reviews.Get("/", h.controller.GetReviews)
	reviews.Get("/:id", h.controller.GetReview)
	reviews.Put("/:id", protect, member, h.controller.UpdateReview)
	reviews.Delete("/:id", protect, member, h.controller.DeleteReview)

	nested := app.Group("/api/v1/groups/:groupId/reviews")
	nested.Get("/", h.controller.GetReviews)
	nested.Post("/", protect, member, h.controller.CreateReview)
}
