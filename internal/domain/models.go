package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostScale is the number of fractional digits kept on recorded costs.
const CostScale = 8

// UnknownModelKey is the sentinel pricing key recorded when no pricing
// entry matches the requested model. Costs resolve to zero.
const UnknownModelKey = "unknown"

// PricingRecord contains per-model cost rates. Immutable after table
// construction. Rates are per UnitSize tokens (UnitSize 0 means 1).
type PricingRecord struct {
	InputCostPerUnit  decimal.Decimal
	OutputCostPerUnit decimal.Decimal
	Currency          string
	UnitSize          int64
}

// UsageFact is one persisted record of tokens consumed and cost incurred
// for a single request. Append-only; never updated or deleted.
type UsageFact struct {
	UserEmail                  string          `db:"user_email"`
	Model                      string          `db:"model"`
	Task                       string          `db:"task"`
	Timestamp                  time.Time       `db:"timestamp"`
	InputTokens                int64           `db:"input_tokens"`
	OutputTokens               int64           `db:"output_tokens"`
	TotalCost                  decimal.Decimal `db:"total_cost"`
	CostCurrency               string          `db:"cost_currency"`
	ModelUsedByCostCalculation string          `db:"model_used_by_cost_calculation"`
}

// UsageSummaryRow is a derived per-user/per-model/per-day aggregate.
// Materialized per query, never persisted.
type UsageSummaryRow struct {
	UserEmail         string          `json:"user_email"`
	Model             string          `json:"model"`
	Currency          string          `json:"currency"`
	Date              string          `json:"date"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	TotalInputTokens  int64           `json:"total_input_tokens"`
	TotalOutputTokens int64           `json:"total_output_tokens"`
}

// SummaryFilter narrows a usage summary query. Zero values mean unfiltered.
// EndDate is inclusive of the entire calendar day.
type SummaryFilter struct {
	UserEmail string
	StartDate time.Time
	EndDate   time.Time
}

// StatusEvent is the wire shape accepted by host event channels.
type StatusEvent struct {
	Type string          `json:"type"`
	Data StatusEventData `json:"data"`
}

// StatusEventData carries the human-readable status payload.
type StatusEventData struct {
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// NewStatusEvent builds a status event in the host wire shape.
func NewStatusEvent(description string, done bool) StatusEvent {
	return StatusEvent{
		Type: "status",
		Data: StatusEventData{
			Description: description,
			Done:        done,
		},
	}
}
