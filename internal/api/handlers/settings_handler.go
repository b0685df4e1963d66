package handlers

import (
	"fintrack/internal/dto"
	"fintrack/internal/settings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	manager *settings.Manager
	logger  *zap.Logger
}

func NewSettingsHandler(manager *settings.Manager, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		manager: manager,
		logger:  logger,
	}
}

// GetSettings godoc
// @Summary Get display settings
// @Tags settings
// @Produce json
// @Success 200 {object} dto.SettingsResponse
// @Router /api/settings [get]
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	return c.JSON(dto.NewSettingsResponse(h.manager.Get()))
}

// UpdateSettings godoc
// @Summary Replace display settings
// @Tags settings
// @Accept json
// @Produce json
// @Param request body dto.SettingsRequest true "Settings"
// @Success 200 {object} dto.SettingsResponse
// @Failure 400 {object} map[string]string
// @Router /api/settings [put]
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var req dto.SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	saved, err := h.manager.Save(c.UserContext(), req.ToSettings())
	if err != nil {
		return respondError(c, h.logger, err, "Failed to save settings")
	}

	return c.JSON(dto.NewSettingsResponse(saved))
}

// ResetSettings godoc
// @Summary Reset display settings to defaults
// @Tags settings
// @Produce json
// @Success 200 {object} dto.SettingsResponse
// @Router /api/settings [delete]
func (h *SettingsHandler) ResetSettings(c *fiber.Ctx) error {
	saved, err := h.manager.Reset(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "Failed to reset settings")
	}

	return c.JSON(dto.NewSettingsResponse(saved))
}
