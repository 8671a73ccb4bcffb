package controller

import (
	"pkv-backend/internal/dto"
	"pkv-backend/internal/pkg/serverutils"
	"pkv-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IContactController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	ListMine(ctx *fiber.Ctx) error
}

type contactController struct {
	service service.IContactService
	auth    fiber.Handler
}

func NewContactController(service service.IContactService, auth fiber.Handler) IContactController {
	return &contactController{service: service, auth: auth}
}

func (c *contactController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/contact", c.auth)
	h.Post("/", c.Create)
	h.Get("/messages", c.ListMine)
}

func (c *contactController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.ContactMessageRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.BaseResponse[*dto.ContactMessageResponse]{
		Success: true,
		Code:    fiber.StatusCreated,
		Message: "Message sent",
		Data:    res,
	})
}

func (c *contactController) ListMine(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListMine(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Contact messages", res))
}
