package controller

import (
	"io"

	"pkv-backend/internal/dto"
	"pkv-backend/internal/pkg/serverutils"
	"pkv-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IContractController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	GetForUser(ctx *fiber.Ctx) error
	DeleteForUser(ctx *fiber.Ctx) error
	GetMine(ctx *fiber.Ctx) error
	GetMyText(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
}

type contractController struct {
	contracts service.IContractService
	chatbot   service.IContractChatbotService
	auth      fiber.Handler
}

func NewContractController(contracts service.IContractService, chatbot service.IContractChatbotService, auth fiber.Handler) IContractController {
	return &contractController{contracts: contracts, chatbot: chatbot, auth: auth}
}

func (c *contractController) RegisterRoutes(r fiber.Router) {
	admin := r.Group("/admin/contracts", c.auth, serverutils.AdminOnly)
	admin.Post("/", c.Upload)
	admin.Get("/:userId", c.GetForUser)
	admin.Delete("/:userId", c.DeleteForUser)

	h := r.Group("/contracts", c.auth)
	h.Get("/me", c.GetMine)
	h.Get("/me/text", c.GetMyText)
	h.Post("/chatbot", c.Ask)
}

// Upload accepts multipart form fields user_id and pdf_file.
func (c *contractController) Upload(ctx *fiber.Ctx) error {
	adminId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	userId, err := uuid.Parse(ctx.FormValue("user_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "user_id is required")
	}
	fh, err := ctx.FormFile("pdf_file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "pdf_file is required")
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	res, err := c.contracts.Upload(ctx.UserContext(), adminId, &dto.UploadContractRequest{
		UserId:   userId,
		FileName: fh.Filename,
		Data:     data,
	})
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.BaseResponse[*dto.ContractResponse]{
		Success: true,
		Code:    fiber.StatusCreated,
		Message: "Contract uploaded",
		Data:    res,
	})
}

func (c *contractController) GetForUser(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(ctx.Params("userId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid user id")
	}

	res, err := c.contracts.GetForUser(ctx.UserContext(), userId)
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Contract", res))
}

func (c *contractController) DeleteForUser(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(ctx.Params("userId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid user id")
	}

	if err := c.contracts.Delete(ctx.UserContext(), userId); err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Contract deleted", nil))
}

func (c *contractController) GetMine(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.contracts.GetForUser(ctx.UserContext(), userId)
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Contract", res))
}

func (c *contractController) GetMyText(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.contracts.GetText(ctx.UserContext(), userId)
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Contract text", res))
}

// Ask answers a question with the best matching paragraph of the user's contract.
func (c *contractController) Ask(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.ContractQuestionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := c.chatbot.Ask(ctx.UserContext(), userId, &req)
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Answer", res))
}
