package server

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"timestrap/internal/errors"
)

// errorHandler renders every error as an ErrorResponse with the status of its type
func errorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if stderrors.As(err, &fe) {
			return c.Status(fe.Code).JSON(ErrorResponse{
				Message: fe.Message,
				Code:    "HTTP_ERROR",
			})
		}

		status := errors.HTTPStatus(err)
		resp := ErrorResponse{
			Message: errors.GetUserMessage(err),
			Code:    errors.GetErrorCode(err),
		}
		if appErr, ok := errors.AsAppError(err); ok {
			if fields, ok := appErr.GetContext("fields"); ok {
				resp.Fields, _ = fields.(map[string]string)
			}
		} else {
			resp.Message = "An unexpected error occurred. Please try again."
		}

		if errors.ShouldLogError(err) {
			logger.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Int("status", status).
				Msg("request failed")
		}
		return c.Status(status).JSON(resp)
	}
}
