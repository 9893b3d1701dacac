package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"product-advisor-be/pkg/advisor"
)

// ErrorHandlerMiddleware maps the advisor sentinel errors to HTTP
// statuses. Anything unrecognized stays a 500 with a generic body.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(validationErr.Error()))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		switch {
		case errors.Is(err, advisor.ErrEmptyInput):
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, advisor.ErrSessionBusy):
			return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, advisor.ErrSessionEnded):
			return ctx.Status(fiber.StatusGone).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, advisor.ErrSessionNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, advisor.ErrDimensionMismatch):
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, advisor.ErrStoreUnavailable):
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse(err.Error()))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
		}
	}
}
