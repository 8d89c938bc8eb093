package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// CostCalculator converts token counts into a rounded monetary amount.
// One calculator is constructed per request/model pair: pricing is resolved
// and the token encoder selected once, at construction.
type CostCalculator struct {
	model       string
	resolvedKey string
	record      PricingRecord
	priced      bool
	encoder     TokenEncoder
}

// NewCostCalculator resolves pricing and selects a token encoder for the
// given model. An unknown model is not an error: the calculator prices
// everything at zero under the UnknownModelKey sentinel.
func NewCostCalculator(
	ctx context.Context,
	model string,
	resolver *PricingResolver,
	encoders EncoderProvider,
) *CostCalculator {
	resolvedKey, record, priced := resolver.Resolve(ctx, model)

	return &CostCalculator{
		model:       model,
		resolvedKey: resolvedKey,
		record:      record,
		priced:      priced,
		encoder:     encoders.EncoderFor(ctx, model),
	}
}

// Cost returns (total cost rounded half-up to 8 fractional digits, currency,
// resolved pricing key). When pricing is unresolved the cost is zero and the
// currency is empty.
func (c *CostCalculator) Cost(inputTokens, outputTokens int64) (decimal.Decimal, string, string) {
	if !c.priced {
		return decimal.Zero, "", c.resolvedKey
	}

	unit := c.record.UnitSize
	if unit <= 0 {
		unit = 1
	}

	inputCost := decimal.NewFromInt(inputTokens).Mul(c.record.InputCostPerUnit)
	outputCost := decimal.NewFromInt(outputTokens).Mul(c.record.OutputCostPerUnit)

	// decimal.Round rounds half away from zero; costs are never negative.
	total := inputCost.Add(outputCost).
		Div(decimal.NewFromInt(unit)).
		Round(CostScale)

	return total, c.record.Currency, c.resolvedKey
}

// CountTokens returns the token count of text under the selected encoding.
func (c *CostCalculator) CountTokens(text string) int {
	return c.encoder.Count(text)
}

// ResolvedModel returns the pricing key used for cost calculation, which may
// differ from the raw requested model name.
func (c *CostCalculator) ResolvedModel() string {
	return c.resolvedKey
}
