package handlers

import (
	"strings"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	logger    *zap.Logger
}

func NewAnalyticsHandler(analytics *service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		logger:    logger,
	}
}

// TotalByType godoc
// @Summary Total amount for one transaction type
// @Tags analytics
// @Produce json
// @Param type query string true "income, expense or transfer"
// @Param startDate query string false "Inclusive lower date bound (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive upper date bound (YYYY-MM-DD)"
// @Success 200 {object} dto.TypeTotalResponse
// @Failure 400 {object} map[string]string
// @Router /api/transactions/analytics/by-type [get]
func (h *AnalyticsHandler) TotalByType(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Query("type"))
	if raw == "" {
		return badRequest(c, "Query parameter type is required")
	}
	txType := models.TransactionType(strings.ToLower(raw))

	dates, err := parseDateRange(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	total, err := h.analytics.TotalByType(c.UserContext(), txType, dates)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to compute total")
	}

	return c.JSON(dto.NewTypeTotalResponse(txType, total))
}

// TotalsByCategory godoc
// @Summary Expense totals per category
// @Description Expenses grouped by category, largest first, with each category's share in percent
// @Tags analytics
// @Produce json
// @Param startDate query string false "Inclusive lower date bound (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive upper date bound (YYYY-MM-DD)"
// @Success 200 {array} dto.CategoryTotalResponse
// @Failure 400 {object} map[string]string
// @Router /api/transactions/analytics/by-category [get]
func (h *AnalyticsHandler) TotalsByCategory(c *fiber.Ctx) error {
	dates, err := parseDateRange(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	totals, err := h.analytics.TotalsByCategory(c.UserContext(), dates)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to compute category totals")
	}

	return c.JSON(dto.NewCategoryTotalsResponse(totals))
}

// Summary godoc
// @Summary Income, expense and balance of a filtered working set
// @Tags analytics
// @Produce json
// @Param startDate query string false "Inclusive lower date bound (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive upper date bound (YYYY-MM-DD)"
// @Param type query string false "income, expense or transfer"
// @Param category query string false "Exact category"
// @Param minAmount query number false "Inclusive minimum amount"
// @Param maxAmount query number false "Inclusive maximum amount"
// @Param searchTerm query string false "Case-insensitive description search"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} map[string]string
// @Router /api/transactions/summary [get]
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	summary, err := h.analytics.Summary(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to compute summary")
	}

	return c.JSON(dto.NewSummaryResponse(summary))
}
