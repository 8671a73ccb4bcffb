package controller

import (
	"pkv-backend/internal/dto"
	"pkv-backend/internal/entity"
	"pkv-backend/internal/pkg/serverutils"
	"pkv-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IInsuranceController interface {
	RegisterRoutes(r fiber.Router)
	ListCompanies(ctx *fiber.Ctx) error
	ListTariffs(ctx *fiber.Ctx) error
	CompleteProfile(ctx *fiber.Ctx) error
	SelectInsurance(ctx *fiber.Ctx) error
	GetMyTariff(ctx *fiber.Ctx) error
	UpdateMyTariff(ctx *fiber.Ctx) error
}

type insuranceController struct {
	service service.IInsuranceService
	auth    fiber.Handler
}

func NewInsuranceController(service service.IInsuranceService, auth fiber.Handler) IInsuranceController {
	return &insuranceController{service: service, auth: auth}
}

func (c *insuranceController) RegisterRoutes(r fiber.Router) {
	r.Get("/insurance-companies", c.ListCompanies)
	r.Get("/tariffs", c.ListTariffs)

	r.Put("/user/complete-profile", c.auth, c.CompleteProfile)
	r.Post("/user/insurance-selection", c.auth, c.SelectInsurance)
	r.Get("/user/my-tariff", c.auth, c.GetMyTariff)
	r.Put("/user/my-tariff", c.auth, c.UpdateMyTariff)
}

func (c *insuranceController) ListCompanies(ctx *fiber.Ctx) error {
	res, err := c.service.ListCompanies(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Insurance companies", res))
}

func (c *insuranceController) ListTariffs(ctx *fiber.Ctx) error {
	var filter dto.TariffFilter
	if raw := ctx.Query("company"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid company id")
		}
		filter.CompanyId = &id
	}
	if t := ctx.Query("type"); t != "" {
		if !entity.TariffType(t).Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Tariff type must be main or additional")
		}
		filter.Type = t
	}

	res, err := c.service.ListTariffs(ctx.UserContext(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Tariffs", res))
}

func (c *insuranceController) CompleteProfile(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CompleteProfileRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CompleteProfile(ctx.UserContext(), userId, &req)
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile completed", res))
}

func (c *insuranceController) SelectInsurance(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.InsuranceSelectionRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SelectInsurance(ctx.UserContext(), userId, &req)
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Insurance selection saved", res))
}

func (c *insuranceController) GetMyTariff(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetMyTariff(ctx.UserContext(), userId)
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("My tariff", res))
}

func (c *insuranceController) UpdateMyTariff(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateMyTariffRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.UpdateMyTariff(ctx.UserContext(), userId, &req)
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Tariff updated", res))
}
