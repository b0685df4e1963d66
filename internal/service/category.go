package service

import "strings"

const DefaultImportCategory = "Miscellaneous"

type categoryRule struct {
	category string
	keywords []string
}

// Checked in order; the first rule with a matching keyword wins.
var categoryRules = []categoryRule{
	{category: "Income", keywords: []string{"salary", "payroll"}},
	{category: "Food & Dining", keywords: []string{"restaurant", "cafe", "food"}},
	{category: "Transportation", keywords: []string{"uber", "taxi", "transport"}},
	{category: "Shopping", keywords: []string{"amazon", "walmart", "target"}},
	{category: "Subscriptions", keywords: []string{"netflix", "spotify", "subscription"}},
}

// DetectCategory infers a category from keywords in a transaction description.
func DetectCategory(description string) string {
	lower := strings.ToLower(description)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.category
			}
		}
	}
	return DefaultImportCategory
}
