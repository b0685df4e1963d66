package settings

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"JPY": "¥",
}

// Formatter renders amounts and dates according to a fixed Settings value.
type Formatter struct {
	settings Settings
}

func NewFormatter(s Settings) Formatter {
	return Formatter{settings: s}
}

// CurrencySymbol falls back to the ISO code when no symbol is known.
func (f Formatter) CurrencySymbol() string {
	if symbol, ok := currencySymbols[f.settings.Currency]; ok {
		return symbol
	}
	return f.settings.Currency
}

func (f Formatter) Amount(amount decimal.Decimal) string {
	return f.CurrencySymbol() + amount.StringFixed(2)
}

func (f Formatter) Date(t time.Time) string {
	day, month, year := t.Day(), int(t.Month()), t.Year()
	switch f.settings.DateFormat {
	case DateFormatMDY:
		return fmt.Sprintf("%02d/%02d/%04d", month, day, year)
	case DateFormatDMY:
		return fmt.Sprintf("%02d/%02d/%04d", day, month, year)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	}
}
