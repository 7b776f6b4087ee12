package meetup

import (
	"hobbyhub/internal/apperror"
	"hobbyhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type MeetupController struct {
	Service MeetupService
}

func NewMeetupController(service MeetupService) *MeetupController {
	return &MeetupController{Service: service}
}

// GetMeetups handles GET /api/v1/meetups and GET /api/v1/groups/:groupId/meetups
func (ctrl *MeetupController) GetMeetups(c *fiber.Ctx) error {
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

// GetMeetup handles GET /api/v1/meetups/:id
func (ctrl *MeetupController) GetMeetup(c *fiber.Ctx) error {
	meetup, err := ctrl.Service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": meetup})
}

// CreateMeetup handles POST /api/v1/groups/:groupId/meetups
func (ctrl *MeetupController) CreateMeetup(c *fiber.Ctx) error {
	var meetup Meetup
	if err := c.BodyParser(&meetup); err != nil {
		return apperror.New("Invalid request body", fiber.StatusBadRequest)
	}

	actor := middleware.CurrentUser(c)
	if err := ctrl.Service.Create(c.UserContext(), actor, c.Params("groupId"), &meetup); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": meetup})
}

// UpdateMeetup handles PUT /api/v1/meetups/:id
func (ctrl *MeetupController) UpdateMeetup(c *fiber.Ctx) error {
	var in UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return apperror.New("Invalid request body", fiber.StatusBadRequest)
	}

	actor := middleware.CurrentUser(c)
	meetup, err := ctrl.Service.Update(c.UserContext(), actor, c.Params("id"), &in)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": meetup})
}

// DeleteMeetup handles DELETE /api/v1/meetups/:id
func (ctrl *MeetupController) DeleteMeetup(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	if err := ctrl.Service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}
