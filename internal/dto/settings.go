package dto

import "fintrack/internal/settings"

type SettingsRequest struct {
	Currency   string `json:"currency" example:"EUR"`
	DateFormat string `json:"dateFormat" example:"DD/MM/YYYY"`
	DarkMode   bool   `json:"darkMode" example:"true"`
	Language   string `json:"language" example:"en"`
}

func (r SettingsRequest) ToSettings() settings.Settings {
	return settings.Settings{
		Currency:   r.Currency,
		DateFormat: r.DateFormat,
		DarkMode:   r.DarkMode,
		Language:   r.Language,
	}
}

type SettingsResponse struct {
	Currency       string `json:"currency"`
	CurrencySymbol string `json:"currencySymbol"`
	DateFormat     string `json:"dateFormat"`
	DarkMode       bool   `json:"darkMode"`
	Language       string `json:"language"`
}

func NewSettingsResponse(s settings.Settings) SettingsResponse {
	return SettingsResponse{
		Currency:       s.Currency,
		CurrencySymbol: settings.NewFormatter(s).CurrencySymbol(),
		DateFormat:     s.DateFormat,
		DarkMode:       s.DarkMode,
		Language:       s.Language,
	}
}
