package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ai-stylist-be/pkg/lookbook"
	"ai-stylist-be/pkg/reco"
	"ai-stylist-be/pkg/reco/constraint"
)

// ErrorHandlerMiddleware maps domain errors to HTTP statuses so controllers
// just return them.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return writeError(ctx, err)
	}
}

func writeError(ctx *fiber.Ctx, err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "validation failed",
			Details: verr.Fields,
		})
	}

	if collab, ok := reco.AsCollaborator(err); ok {
		status := fiber.StatusBadGateway
		if collab.Timeout {
			status = fiber.StatusServiceUnavailable
		}
		return ctx.Status(status).JSON(ErrorResponse{Message: collab.Error()})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse{Message: fiberErr.Message})
	}

	switch {
	case errors.Is(err, reco.ErrInvalidPersona),
		errors.Is(err, reco.ErrCategoryMismatch),
		errors.Is(err, constraint.ErrUnknownIntent):
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: err.Error()})

	case errors.Is(err, reco.ErrPreconditionFailed),
		errors.Is(err, reco.ErrNoActiveCategory):
		return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse{Message: err.Error()})

	case errors.Is(err, reco.ErrSessionNotFound),
		errors.Is(err, reco.ErrProductNotFound),
		errors.Is(err, lookbook.ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse{Message: err.Error()})

	case errors.Is(err, reco.ErrCapacityExceeded):
		return ctx.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{Message: err.Error()})
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Message: "internal server error"})
}
