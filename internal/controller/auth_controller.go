// FILE: internal/controller/auth_controller.go
package controller

import (
	"pkv-backend/internal/dto"
	"pkv-backend/internal/pkg/serverutils"
	"pkv-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	VerifyEmail(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	ChangePassword(ctx *fiber.Ctx) error
	RequestPasswordReset(ctx *fiber.Ctx) error
	ConfirmPasswordReset(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
	auth    fiber.Handler
}

func NewAuthController(service service.IAuthService, auth fiber.Handler) IAuthController {
	return &authController{service: service, auth: auth}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Get("/verify-email/:uid/:token", c.VerifyEmail)
	h.Post("/login", c.Login)
	h.Post("/password-reset", c.RequestPasswordReset)
	h.Post("/reset-password/:uid/:token", c.ConfirmPasswordReset)

	h.Post("/logout", c.auth, c.Logout)
	h.Post("/change-password", c.auth, c.ChangePassword)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.UserContext(), &req)
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.BaseResponse[*dto.RegisterResponse]{
		Success: true,
		Code:    fiber.StatusCreated,
		Message: "Registration successful. Please check your inbox to verify your email.",
		Data:    res,
	})
}

func (c *authController) VerifyEmail(ctx *fiber.Ctx) error {
	if err := c.service.VerifyEmail(ctx.UserContext(), ctx.Params("uid"), ctx.Params("token")); err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Email verified successfully", nil))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	if err := c.service.Logout(ctx.UserContext(), serverutils.CurrentClaims(ctx)); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Logout successful", nil))
}

func (c *authController) ChangePassword(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.ChangePasswordRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	if err := c.service.ChangePassword(ctx.UserContext(), userId, &req); err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Password changed", nil))
}

func (c *authController) RequestPasswordReset(ctx *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	if err := c.service.RequestPasswordReset(ctx.UserContext(), &req); err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Password reset link sent", nil))
}

func (c *authController) ConfirmPasswordReset(ctx *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	if err := c.service.ConfirmPasswordReset(ctx.UserContext(), ctx.Params("uid"), ctx.Params("token"), &req); err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Password has been reset", nil))
}
