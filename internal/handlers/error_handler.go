package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"resumerank/internal/apierror"
)

// NewErrorHandler maps errors escaping a handler to the JSON error
// contract. Structured *apierror.Error values keep their status code;
// anything unrecognized becomes a 500 carrying the underlying message.
func NewErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var apiErr *apierror.Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &apiErr):
			code = apiErr.Code
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("path", c.Path()),
				zap.Int("code", code),
				zap.Error(err))
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
			"code":  code,
		})
	}
}
