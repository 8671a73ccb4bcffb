package controller

import (
	"errors"

	"pkv-backend/internal/pkg/serverutils"
	"pkv-backend/internal/service"
	"pkv-backend/pkg/contractqa"

	"github.com/gofiber/fiber/v2"
)

var errorStatus = []struct {
	err  error
	code int
}{
	{service.ErrUserExists, fiber.StatusBadRequest},
	{service.ErrInvalidLink, fiber.StatusBadRequest},
	{service.ErrWrongPassword, fiber.StatusBadRequest},
	{service.ErrTariffMismatch, fiber.StatusBadRequest},
	{service.ErrInvalidFile, fiber.StatusBadRequest},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{service.ErrEmailNotVerified, fiber.StatusForbidden},
	{service.ErrAccountBlocked, fiber.StatusForbidden},
	{service.ErrUserNotFound, fiber.StatusNotFound},
	{service.ErrCompanyNotFound, fiber.StatusNotFound},
	{service.ErrTariffNotFound, fiber.StatusNotFound},
	{service.ErrContractNotFound, fiber.StatusNotFound},
	{service.ErrFileTooLarge, fiber.StatusRequestEntityTooLarge},

	{contractqa.ErrValidation, fiber.StatusBadRequest},
	{contractqa.ErrNoContract, fiber.StatusNotFound},
	{contractqa.ErrEmptyCorpus, fiber.StatusUnprocessableEntity},
}

// handleError renders known domain errors in the envelope. Anything else is
// returned to ErrorHandlerMiddleware, which answers 500 without details.
func handleError(ctx *fiber.Ctx, err error) error {
	if errors.Is(err, contractqa.ErrEncoderUnavailable) {
		return ctx.Status(fiber.StatusServiceUnavailable).
			JSON(serverutils.ErrorResponse(fiber.StatusServiceUnavailable, "Embedding service unavailable"))
	}
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return ctx.Status(e.code).JSON(serverutils.ErrorResponse(e.code, err.Error()))
		}
	}
	return err
}

// parseBody decodes and validates the JSON body into req.
func parseBody(ctx *fiber.Ctx, req any) error {
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return serverutils.ValidateRequest(req)
}
