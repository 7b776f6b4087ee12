package group

import (
	"fmt"
	"path/filepath"
	"strings"

	"hobbyhub/internal/apperror"
	"hobbyhub/internal/config"
	"hobbyhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type GroupController struct {
	Service GroupService
	Config  *config.Config
}

func NewGroupController(service GroupService, cfg *config.Config) *GroupController {
	return &GroupController{Service: service, Config: cfg}
}

// GetGroups handles GET /api/v1/groups
func (ctrl *GroupController) GetGroups(c *fiber.Ctx) error {
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

// GetGroup handles GET /api/v1/groups/:id
func (ctrl *GroupController) GetGroup(c *fiber.Ctx) error {
	group, err := ctrl.Service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": group})
}

// CreateGroup handles POST /api/v1/groups
func (ctrl *GroupController) CreateGroup(c *fiber.Ctx) error {
	var group Group
	if err := c.BodyParser(&group); err != nil {
		return apperror.New("Invalid request body", fiber.StatusBadRequest)
	}

	actor := middleware.CurrentUser(c)
	if err := ctrl.Service.Create(c.UserContext(), actor, &group); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": group})
}

// UpdateGroup handles PUT /api/v1/groups/:id
func (ctrl *GroupController) UpdateGroup(c *fiber.Ctx) error {
	var in UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return apperror.New("Invalid request body", fiber.StatusBadRequest)
	}

	actor := middleware.CurrentUser(c)
	group, err := ctrl.Service.Update(c.UserContext(), actor, c.Params("id"), &in)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": group})
}

// DeleteGroup handles DELETE /api/v1/groups/:id
func (ctrl *GroupController) DeleteGroup(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	if err := ctrl.Service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

// GetGroupsInRadius handles GET /api/v1/groups/radius/:zipcode/:distance
func (ctrl *GroupController) GetGroupsInRadius(c *fiber.Ctx) error {
	groups, err := ctrl.Service.InRadius(c.UserContext(), c.Params("zipcode"), c.Params("distance"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(groups),
		"data":    groups,
	})
}

// UploadGroupPhoto handles PUT /api/v1/groups/:id/photo
func (ctrl *GroupController) UploadGroupPhoto(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	group, err := ctrl.Service.GetOwned(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return apperror.New("Please upload a file", fiber.StatusBadRequest)
	}

	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image") {
		return apperror.New("Please upload an image file", fiber.StatusBadRequest)
	}
	if file.Size > ctrl.Config.MaxFileUpload {
		return apperror.Newf(fiber.StatusBadRequest, "Please upload an image less than %d bytes", ctrl.Config.MaxFileUpload)
	}

	// Filename keyed by group id: uploads for the same group overwrite.
	filename := fmt.Sprintf("photo_%s%s", group.ID.Hex(), filepath.Ext(file.Filename))
	if err := c.SaveFile(file, filepath.Join(ctrl.Config.FileUploadPath, filename)); err != nil {
		return apperror.New("Problem with file upload", fiber.StatusInternalServerError)
	}

	if err := ctrl.Service.SetPhoto(c.UserContext(), group.ID, filename); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": filename})
}
