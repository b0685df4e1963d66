package handlers

import (
	"fmt"
	"strings"

	"fintrack/internal/dto"
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ImportHandler struct {
	importService *service.ImportService
	logger        *zap.Logger
}

func NewImportHandler(importService *service.ImportService, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		logger:        logger,
	}
}

// UploadCSV godoc
// @Summary Import transactions from a CSV file
// @Description Columns date, description and amount are required. Negative amounts become expenses; categories are detected from the description. The file is not retained.
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/imports/upload [post]
func (h *ImportHandler) UploadCSV(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "No file uploaded")
	}

	if !isCSV(file.Header.Get(fiber.HeaderContentType), file.Filename) {
		return badRequest(c, "Only CSV files are allowed")
	}

	src, err := file.Open()
	if err != nil {
		return badRequest(c, "Failed to open file")
	}
	defer src.Close()

	result, err := h.importService.ImportCSV(c.UserContext(), src)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to import transactions")
	}

	h.logger.Info("CSV uploaded",
		zap.String("file_name", file.Filename),
		zap.Int64("file_size", file.Size),
		zap.Int("count", result.Count),
	)

	return c.JSON(dto.NewImportResponse(
		fmt.Sprintf("Successfully imported %d transactions", result.Count),
		result.IDs,
	))
}

func isCSV(contentType, filename string) bool {
	return strings.Contains(strings.ToLower(contentType), "csv") ||
		strings.HasSuffix(strings.ToLower(filename), ".csv")
}
