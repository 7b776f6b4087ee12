package auth

import (
	"hobbyhub/internal/config"
	"hobbyhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
	config     *config.Config
	users      middleware.UserLoader
}

func NewAuthApi(controller *AuthController, cfg *config.Config, users middleware.UserLoader) *AuthApi {
	return &AuthApi{
		controller: controller,
		config:     cfg,
		users:      users,
	}
}

func (h *AuthApi) Setup(app *fiber.App) {
	protect := middleware.Protect(h.users, h.config)

	group := app.Group("/api/v1/auth")
	group.Post("/register", h.controller.Register)
	group.Post("/login", h.controller.Login)
	group.Get("/logout", h.controller.Logout)
	group.Get("/me", protect, h.controller.GetMe)
	group.Put("/updatedetails", protect, h.controller.UpdateDetails)
	group.Put("/updatepassword", protect, h.controller.UpdatePassword)
	group.Post("/forgotpassword", h.controller.ForgotPassword)
	group.Put("/resetpassword/:resettoken", h.controller.ResetPassword)
}
