package dto

import (
	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

type TypeTotalResponse struct {
	Type  string  `json:"type" example:"expense"`
	Total float64 `json:"total" example:"936.49"`
}

func NewTypeTotalResponse(txType models.TransactionType, total decimal.Decimal) TypeTotalResponse {
	return TypeTotalResponse{Type: string(txType), Total: total.InexactFloat64()}
}

type CategoryTotalResponse struct {
	Category   string  `json:"category" example:"Housing"`
	Total      float64 `json:"total" example:"800"`
	Percentage float64 `json:"percentage" example:"85.43"`
}

func NewCategoryTotalsResponse(totals []models.CategoryTotal) []CategoryTotalResponse {
	result := make([]CategoryTotalResponse, len(totals))
	for i, t := range totals {
		result[i] = CategoryTotalResponse{
			Category:   t.Category,
			Total:      t.Total.InexactFloat64(),
			Percentage: t.Percentage.InexactFloat64(),
		}
	}
	return result
}

type SummaryResponse struct {
	TotalIncome  float64                 `json:"totalIncome"`
	TotalExpense float64                 `json:"totalExpense"`
	Balance      float64                 `json:"balance"`
	Count        int                     `json:"count"`
	Categories   []CategoryTotalResponse `json:"categories"`
}

func NewSummaryResponse(s models.Summary) SummaryResponse {
	return SummaryResponse{
		TotalIncome:  s.TotalIncome.InexactFloat64(),
		TotalExpense: s.TotalExpense.InexactFloat64(),
		Balance:      s.Balance.InexactFloat64(),
		Count:        s.Count,
		Categories:   NewCategoryTotalsResponse(s.Categories),
	}
}
