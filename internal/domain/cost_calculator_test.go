package domain_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/tokentoll/internal/domain"
)

// fakeEncoder counts one token per byte, making counts predictable.
type fakeEncoder struct{}

func (fakeEncoder) Count(text string) int {
	return len(text)
}

type fakeEncoderProvider struct{}

func (fakeEncoderProvider) EncoderFor(context.Context, string) domain.TokenEncoder {
	return fakeEncoder{}
}

func testResolver(t *testing.T) *domain.PricingResolver {
	t.Helper()
	return domain.NewPricingResolver(map[string]domain.PricingRecord{
		"test.model": {
			InputCostPerUnit:  decimal.RequireFromString("0.003"),
			OutputCostPerUnit: decimal.RequireFromString("0.015"),
			Currency:          "USD",
			UnitSize:          1,
		},
		"test.per-1k": {
			InputCostPerUnit:  decimal.RequireFromString("0.003"),
			OutputCostPerUnit: decimal.RequireFromString("0.015"),
			Currency:          "USD",
			UnitSize:          1000,
		},
		"test.tiny-rate": {
			InputCostPerUnit:  decimal.RequireFromString("0.000000015"),
			OutputCostPerUnit: decimal.Zero,
			Currency:          "USD",
			UnitSize:          1,
		},
		"test.rub-model": {
			InputCostPerUnit:  decimal.RequireFromString("0.0012"),
			OutputCostPerUnit: decimal.RequireFromString("0.0012"),
			Currency:          "RUB",
			UnitSize:          1000,
		},
	})
}

func TestCostCalculator_Cost(t *testing.T) {
	ctx := context.Background()
	resolver := testResolver(t)

	tests := []struct {
		name             string
		model            string
		inputTokens      int64
		outputTokens     int64
		expectedCost     string
		expectedCurrency string
		expectedKey      string
	}{
		{
			name:             "per-token rates",
			model:            "test.model",
			inputTokens:      1000,
			outputTokens:     500,
			expectedCost:     "10.50000000",
			expectedCurrency: "USD",
			expectedKey:      "test.model",
		},
		{
			name:             "per-1k unit size divides the total",
			model:            "test.per-1k",
			inputTokens:      1000,
			outputTokens:     500,
			expectedCost:     "0.01050000",
			expectedCurrency: "USD",
			expectedKey:      "test.per-1k",
		},
		{
			name:             "half-up rounding at the eighth digit",
			model:            "test.tiny-rate",
			inputTokens:      1,
			outputTokens:     0,
			expectedCost:     "0.00000002",
			expectedCurrency: "USD",
			expectedKey:      "test.tiny-rate",
		},
		{
			name:             "zero tokens cost zero",
			model:            "test.model",
			inputTokens:      0,
			outputTokens:     0,
			expectedCost:     "0.00000000",
			expectedCurrency: "USD",
			expectedKey:      "test.model",
		},
		{
			name:             "unknown model prices at zero with empty currency",
			model:            "no-such-model",
			inputTokens:      1000,
			outputTokens:     500,
			expectedCost:     "0.00000000",
			expectedCurrency: "",
			expectedKey:      domain.UnknownModelKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := domain.NewCostCalculator(ctx, tt.model, resolver, fakeEncoderProvider{})

			cost, currency, key := calc.Cost(tt.inputTokens, tt.outputTokens)

			require.Equal(t, tt.expectedCost, cost.StringFixed(domain.CostScale))
			require.Equal(t, tt.expectedCurrency, currency)
			require.Equal(t, tt.expectedKey, key)
		})
	}
}

func TestCostCalculator_BuiltInUnitSizes(t *testing.T) {
	ctx := context.Background()
	resolver := domain.NewDefaultPricingResolver()

	tests := []struct {
		name             string
		model            string
		inputTokens      int64
		outputTokens     int64
		expectedCost     string
		expectedCurrency string
	}{
		{
			name:             "per-1k dollar rates",
			model:            "openai.gpt-4o",
			inputTokens:      1000,
			outputTokens:     1000,
			expectedCost:     "0.01250000",
			expectedCurrency: "USD",
		},
		{
			name:             "per-token rouble rates",
			model:            "yandexgpt.yandexgpt",
			inputTokens:      1000,
			outputTokens:     0,
			expectedCost:     "1.20000000",
			expectedCurrency: "RUB",
		},
		{
			name:             "per-token rouble rates, lite tier",
			model:            "yandexgpt.yandexgpt-lite",
			inputTokens:      500,
			outputTokens:     500,
			expectedCost:     "0.20000000",
			expectedCurrency: "RUB",
		},
		{
			name:             "per-1m dollar rates",
			model:            "databricks.databricks-meta-llama-3-1-70b-instruct",
			inputTokens:      1000,
			outputTokens:     1000,
			expectedCost:     "0.00400000",
			expectedCurrency: "USD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := domain.NewCostCalculator(ctx, tt.model, resolver, fakeEncoderProvider{})

			cost, currency, key := calc.Cost(tt.inputTokens, tt.outputTokens)

			require.Equal(t, tt.expectedCost, cost.StringFixed(domain.CostScale))
			require.Equal(t, tt.expectedCurrency, currency)
			require.Equal(t, tt.model, key)
		})
	}
}

func TestCostCalculator_CountTokens(t *testing.T) {
	ctx := context.Background()
	calc := domain.NewCostCalculator(ctx, "test.model", testResolver(t), fakeEncoderProvider{})

	require.Equal(t, 5, calc.CountTokens("hello"))
	require.Equal(t, 0, calc.CountTokens(""))
}

func TestCostCalculator_ResolvedModel(t *testing.T) {
	ctx := context.Background()
	resolver := testResolver(t)

	calc := domain.NewCostCalculator(ctx, "test.model-2024-05-13", resolver, fakeEncoderProvider{})
	require.Equal(t, "test.model", calc.ResolvedModel())

	unknown := domain.NewCostCalculator(ctx, "no-such-model", resolver, fakeEncoderProvider{})
	require.Equal(t, domain.UnknownModelKey, unknown.ResolvedModel())
}
