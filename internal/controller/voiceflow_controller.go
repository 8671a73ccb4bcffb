package controller

import (
	"errors"

	"pkv-backend/internal/dto"
	"pkv-backend/internal/pkg/serverutils"
	"pkv-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IVoiceflowController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type voiceflowController struct {
	service service.IVoiceflowService
	auth    fiber.Handler
}

func NewVoiceflowController(service service.IVoiceflowService, auth fiber.Handler) IVoiceflowController {
	return &voiceflowController{service: service, auth: auth}
}

func (c *voiceflowController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/voiceflow", c.auth)
	h.Post("/chat", c.Chat)
}

// Chat proxies one dialog turn. The reply is sent unwrapped, as the chat
// widget expects.
func (c *voiceflowController) Chat(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.VoiceflowChatRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Chat(ctx.UserContext(), userId, &req)
	if errors.Is(err, service.ErrUpstream) {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
