package handlers

import (
	"fmt"
	"strings"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// parseFilter reads transaction filter fields from the query string.
// Blank parameters are treated as absent.
func parseFilter(c *fiber.Ctx) (models.TransactionFilter, error) {
	var filter models.TransactionFilter

	dates, err := parseDateRange(c)
	if err != nil {
		return filter, err
	}
	filter.StartDate = dates.Start
	filter.EndDate = dates.End

	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		txType := models.TransactionType(strings.ToLower(raw))
		filter.Type = &txType
	}
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		filter.Category = &raw
	}
	if filter.MinAmount, err = queryDecimal(c, "minAmount"); err != nil {
		return filter, err
	}
	if filter.MaxAmount, err = queryDecimal(c, "maxAmount"); err != nil {
		return filter, err
	}
	filter.SearchTerm = strings.TrimSpace(c.Query("searchTerm"))

	return filter, nil
}

func parseDateRange(c *fiber.Ctx) (models.DateRange, error) {
	var (
		dates models.DateRange
		err   error
	)
	if dates.Start, err = queryDate(c, "startDate"); err != nil {
		return dates, err
	}
	if dates.End, err = queryDate(c, "endDate"); err != nil {
		return dates, err
	}
	return dates, nil
}

func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	t, err := dto.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &t, nil
}

func queryDecimal(c *fiber.Ctx, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: must be a number", key)
	}
	return &d, nil
}
