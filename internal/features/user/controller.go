package user

import (
	"hobbyhub/internal/apperror"
	"hobbyhub/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Service UserService
}

func NewUserController(service UserService) *UserController {
	return &UserController{Service: service}
}

// GetUsers handles GET /api/v1/users
func (ctrl *UserController) GetUsers(c *fiber.Ctx) error {
	result, err := ctrl.Service.List(c.UserContext(), c.Queries())
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

// GetUser handles GET /api/v1/users/:id
func (ctrl *UserController) GetUser(c *fiber.Ctx) error {
	usr, err := ctrl.Service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": usr})
}

// CreateUser handles POST /api/v1/users
func (ctrl *UserController) CreateUser(c *fiber.Ctx) error {
	var usr models.User
	if err := c.BodyParser(&usr); err != nil {
		return apperror.New("Invalid request body", fiber.StatusBadRequest)
	}

	if err := ctrl.Service.Create(c.UserContext(), &usr); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": usr})
}

// UpdateUser handles PUT /api/v1/users/:id
func (ctrl *UserController) UpdateUser(c *fiber.Ctx) error {
	var in UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return apperror.New("Invalid request body", fiber.StatusBadRequest)
	}

	usr, err := ctrl.Service.Update(c.UserContext(), c.Params("id"), &in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": usr})
}

// DeleteUser handles DELETE /api/v1/users/:id
func (ctrl *UserController) DeleteUser(c *fiber.Ctx) error {
	if err := ctrl.Service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}
