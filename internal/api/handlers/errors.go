package handlers

import (
	"errors"

	"fintrack/internal/service"
	"fintrack/internal/settings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps service errors onto HTTP statuses. Anything unrecognised
// is logged and hidden behind a generic 500 message.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error, fallback string) error {
	var (
		validationErr *service.ValidationError
		rowErr        *service.RowValidationError
		parseErr      *service.ParseError
		settingsErr   *settings.ValidationError
	)

	switch {
	case errors.As(err, &rowErr):
		body := fiber.Map{
			"error": rowErr.Error(),
			"row":   rowErr.Row,
		}
		if rowErr.Field != "" {
			body["field"] = rowErr.Field
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.As(err, &parseErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": parseErr.Error(),
		})
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
	case errors.As(err, &settingsErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": settingsErr.Error(),
			"field": settingsErr.Field,
		})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Transaction not found",
		})
	}

	logger.Error(fallback, zap.Error(err), zap.String("path", c.Path()))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fallback,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}
