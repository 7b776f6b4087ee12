package auth

import (
	"fmt"
	"time"

	"hobbyhub/internal/apperror"
	"hobbyhub/internal/common/models"
	"hobbyhub/internal/config"
	"hobbyhub/internal/middleware"
	"hobbyhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Service AuthService
	Config  *config.Config
}

func NewAuthController(service AuthService, cfg *config.Config) *AuthController {
	return &AuthController{Service: service, Config: cfg}
}

// Register handles POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *fiber.Ctx) error {
	var in RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return apperror.New("Invalid request body", fiber.StatusBadRequest)
	}

	usr, err := ctrl.Service.Register(c.UserContext(), &in)
	if err != nil {
		return err
	}
	return ctrl.sendTokenResponse(c, usr, fiber.StatusCreated)
}

// Login handles POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return apperror.New("Invalid request body", fiber.StatusBadRequest)
	}

	usr, err := ctrl.Service.Login(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return err
	}
	return ctrl.sendTokenResponse(c, usr, fiber.StatusOK)
}

// Logout handles GET /api/v1/auth/logout by expiring the token cookie.
func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "none",
		Expires:  time.Now().Add(10 * time.Second),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

// GetMe handles GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": middleware.CurrentUser(c)})
}

// UpdateDetails handles PUT /api/v1/auth/updatedetails
func (ctrl *AuthController) UpdateDetails(c *fiber.Ctx) error {
	var in DetailsInput
	if err := c.BodyParser(&in); err != nil {
		return apperror.New("Invalid request body", fiber.StatusBadRequest)
	}

	usr, err := ctrl.Service.UpdateDetails(c.UserContext(), middleware.CurrentUser(c), &in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": usr})
}

// UpdatePassword handles PUT /api/v1/auth/updatepassword
func (ctrl *AuthController) UpdatePassword(c *fiber.Ctx) error {
	var in struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.BodyParser(&in); err != nil {
		return apperror.New("Invalid request body", fiber.StatusBadRequest)
	}

	usr := middleware.CurrentUser(c)
	if err := ctrl.Service.UpdatePassword(c.UserContext(), usr, in.CurrentPassword, in.NewPassword); err != nil {
		return err
	}
	return ctrl.sendTokenResponse(c, usr, fiber.StatusOK)
}

// ForgotPassword handles POST /api/v1/auth/forgotpassword
func (ctrl *AuthController) ForgotPassword(c *fiber.Ctx) error {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&in); err != nil {
		return apperror.New("Invalid request body", fiber.StatusBadRequest)
	}

	resetURL := fmt.Sprintf("%s://%s/api/v1/auth/resetpassword", c.Protocol(), c.Hostname())
	if err := ctrl.Service.ForgotPassword(c.UserContext(), in.Email, resetURL); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": "Email sent"})
}

// ResetPassword handles PUT /api/v1/auth/resetpassword/:resettoken
func (ctrl *AuthController) ResetPassword(c *fiber.Ctx) error {
	var in struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return apperror.New("Invalid request body", fiber.StatusBadRequest)
	}

	usr, err := ctrl.Service.ResetPassword(c.UserContext(), c.Params("resettoken"), in.Password)
	if err != nil {
		return err
	}
	return ctrl.sendTokenResponse(c, usr, fiber.StatusOK)
}

// sendTokenResponse signs a JWT for the user, mirrors it into an http-only
// cookie and returns it in the body.
func (ctrl *AuthController) sendTokenResponse(c *fiber.Ctx, usr *models.User, status int) error {
	token, err := utils.GenerateToken(usr.ID, usr.Role, ctrl.Config.JWTSecret, ctrl.Config.JWTExpire)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(ctrl.Config.JWTCookieExpire),
		HTTPOnly: true,
		Secure:   ctrl.Config.Environment == "production",
	})

	return c.Status(status).JSON(fiber.Map{"success": true, "token": token})
}
