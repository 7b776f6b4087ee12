package review

import (
	"hobbyhub/internal/apperror"
	"hobbyhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReviewController struct {
	Service ReviewService
}

func NewReviewController(service ReviewService) *ReviewController {
	return &ReviewController{Service: service}
}

// GetReviews handles GET /api/v1/reviews and GET /api/v1/groups/:groupId/reviews
func (ctrl *ReviewController) GetReviews(c *fiber.Ctx) error {
	result, err := ctrl.Service.List(c.UserContext(), c.Queries(), c.Params("groupId"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"count":      result.Count,
		"pagination": result.Pagination,
		"data":       result.Data,
	})
}

// GetReview handles GET /api/v1/reviews/:id
func (ctrl *ReviewController) GetReview(c *fiber.Ctx) error {
	review, err := ctrl.Service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": review})
}

// CreateReview handles POST /api/v1/groups/:groupId/reviews
func (ctrl *ReviewController) CreateReview(c *fiber.Ctx) error {
	var review Review
	if err := c.BodyParser(&review); err != nil {
		return apperror.New("Invalid request body", fiber.StatusBadRequest)
	}

	actor := middleware.CurrentUser(c)
	if err := ctrl.Service.Create(c.UserContext(), actor, c.Params("groupId"), &review); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": review})
}

// UpdateReview handles PUT /api/v1/reviews/:id
func (ctrl *ReviewController) UpdateReview(c *fiber.Ctx) error {
	var in UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return apperror.New("Invalid request body", fiber.StatusBadRequest)
	}

	actor := middleware.CurrentUser(c)
	review, err := ctrl.Service.Update(c.UserContext(), actor, c.Params("id"), &in)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": review})
}

// DeleteReview handles DELETE /api/v1/reviews/:id
func (ctrl *ReviewController) DeleteReview(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	if err := ctrl.Service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}
