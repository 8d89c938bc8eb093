package domain

import "github.com/shopspring/decimal"

const (
	currencyUSD = "USD"
	currencyRUB = "RUB"
)

// DefaultPricingTable returns the built-in pricing table, keyed by canonical
// provider-qualified model id. Most providers publish per-1K-token rates;
// Databricks rates are per 1M tokens and YandexGPT rates are per single token.
func DefaultPricingTable() map[string]PricingRecord {
	return map[string]PricingRecord{
		"openai.o1":                per1K("0.015", "0.060", currencyUSD),
		"openai.o1-preview":        per1K("0.015", "0.060", currencyUSD),
		"openai.o1-mini":           per1K("0.0011", "0.0044", currencyUSD),
		"openai.o3-mini":           per1K("0.0011", "0.0044", currencyUSD),
		"openai.chatgpt-4o-latest": per1K("0.005", "0.015", currencyUSD),
		"openai.gpt-4o":            per1K("0.0025", "0.0100", currencyUSD),
		"openai.gpt-4o-2024-11-20": per1K("0.0025", "0.0100", currencyUSD),
		"openai.gpt-4o-2024-08-06": per1K("0.0025", "0.0100", currencyUSD),
		"openai.gpt-4o-2024-05-13": per1K("0.0050", "0.0150", currencyUSD),
		"openai.gpt-4o-mini":       per1K("0.00015", "0.00060", currencyUSD),
		"openai.gpt-4.5-preview":   per1K("0.075", "0.150", currencyUSD),
		"openai.gpt-4-turbo":       per1K("0.01", "0.03", currencyUSD),
		"openai.gpt-4":             per1K("0.03", "0.06", currencyUSD),

		"anthropic.claude-3-opus":     per1K("0.015", "0.075", currencyUSD),
		"anthropic.claude-3-sonnet":   per1K("0.003", "0.015", currencyUSD),
		"anthropic.claude-3-5-sonnet": per1K("0.003", "0.015", currencyUSD),
		"anthropic.claude-3-7-sonnet": per1K("0.003", "0.015", currencyUSD),
		"anthropic.claude-3-haiku":    per1K("0.00025", "0.00125", currencyUSD),
		"anthropic.claude-3-5-haiku":  per1K("0.001", "0.005", currencyUSD),

		"databricks.databricks-meta-llama-3-1-70b-instruct":  per1M("1.00", "3.00", currencyUSD),
		"databricks.databricks-meta-llama-3-1-405b-instruct": per1M("5.00", "15.00", currencyUSD),

		"yandexgpt.yandexgpt":      perToken("0.00120", "0.00120", currencyRUB),
		"yandexgpt.yandexgpt-lite": perToken("0.00020", "0.00020", currencyRUB),
	}
}

func per1K(inputCost, outputCost, currency string) PricingRecord {
	return pricingEntry(inputCost, outputCost, 1000, currency)
}

func per1M(inputCost, outputCost, currency string) PricingRecord {
	return pricingEntry(inputCost, outputCost, 1_000_000, currency)
}

func perToken(inputCost, outputCost, currency string) PricingRecord {
	return pricingEntry(inputCost, outputCost, 1, currency)
}

func pricingEntry(inputCost, outputCost string, unitSize int64, currency string) PricingRecord {
	return PricingRecord{
		InputCostPerUnit:  decimal.RequireFromString(inputCost),
		OutputCostPerUnit: decimal.RequireFromString(outputCost),
		Currency:          currency,
		UnitSize:          unitSize,
	}
}
