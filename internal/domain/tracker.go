package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/davidbz/tokentoll/internal/observability"
)

// Status labels that mark a request as finished for the host UI.
const (
	StatusCompleted = "Completed"
	StatusStopped   = "Stopped"
)

// costFormat always renders two fractional digits with thousands grouping.
const costFormat = "#,###.##"

// ReportSnapshot carries the final token accounting of a request into
// FinalizeAndReport.
type ReportSnapshot struct {
	InputTokens     int64
	OutputTokens    int64
	ReasoningTokens int64
	StartTime       time.Time
	Status          string
	PersistUsage    bool
}

// CostTracker coordinates per-request usage tracking: token counting, cost
// calculation, status emission and persistence. Constructed once per request.
type CostTracker struct {
	model     string
	userEmail string
	task      string

	calc     *CostCalculator
	recorder UsageRecorder
	emitter  StatusEmitter
}

// NewCostTracker creates a tracker for a single request. The emitter and
// recorder may be nil; the corresponding side effect is then skipped.
func NewCostTracker(
	model string,
	userEmail string,
	task string,
	calc *CostCalculator,
	recorder UsageRecorder,
	emitter StatusEmitter,
) *CostTracker {
	return &CostTracker{
		model:     model,
		userEmail: userEmail,
		task:      task,
		calc:      calc,
		recorder:  recorder,
		emitter:   emitter,
	}
}

// CountTokens returns the token count of text under the request's encoding.
func (t *CostTracker) CountTokens(text string) int {
	return t.calc.CountTokens(text)
}

// FinalizeAndReport computes the request cost, then emits a status update
// and (when requested) records the usage fact. Both side effects run as
// independent background goroutines: the caller is never blocked on them
// and never sees their errors. The snapshot's context values survive the
// caller's cancellation.
func (t *CostTracker) FinalizeAndReport(ctx context.Context, snap ReportSnapshot) {
	totalCost, currency, resolvedKey := t.calc.Cost(snap.InputTokens, snap.OutputTokens)

	bgCtx := context.WithoutCancel(ctx)

	go t.emitStatus(bgCtx, snap, totalCost, currency)

	if snap.PersistUsage && t.recorder != nil {
		fact := &UsageFact{
			UserEmail:                  t.userEmail,
			Model:                      t.model,
			Task:                       t.task,
			Timestamp:                  time.Now(),
			InputTokens:                snap.InputTokens,
			OutputTokens:               snap.OutputTokens,
			TotalCost:                  totalCost,
			CostCurrency:               currency,
			ModelUsedByCostCalculation: resolvedKey,
		}
		go t.persist(bgCtx, fact)
	}
}

func (t *CostTracker) emitStatus(ctx context.Context, snap ReportSnapshot, totalCost decimal.Decimal, currency string) {
	logger := observability.FromContext(ctx)

	if t.emitter == nil {
		logger.Debug("no status emitter attached, skipping status update")
		return
	}

	description := formatStatusDescription(snap, totalCost, currency)
	done := statusDone(snap.Status)

	t.emitter.EmitStatus(ctx, description, done)

	logger.Debug("status update emitted",
		observability.String("description", description),
		observability.Bool("done", done))
}

func (t *CostTracker) persist(ctx context.Context, fact *UsageFact) {
	logger := observability.FromContext(ctx)

	if err := t.recorder.RecordUsage(ctx, fact); err != nil {
		// Fire-and-forget boundary: log and swallow, never retry.
		logger.Error("failed to persist usage fact",
			observability.Error(err))
		return
	}

	logger.Debug("usage fact persisted",
		observability.Int64("input_tokens", fact.InputTokens),
		observability.Int64("output_tokens", fact.OutputTokens),
		observability.String("pricing_key", fact.ModelUsedByCostCalculation))
}

// formatStatusDescription builds the pipe-separated status line, e.g.
// "1.42s | 1000 Input Tokens | 500 Generated Tokens | Cost $10.50 | Completed".
// The cost segment is omitted only when the status label signals a
// pre-completion "Requested" state; unpriced models show "Cost $0.00".
func formatStatusDescription(snap ReportSnapshot, totalCost decimal.Decimal, currency string) string {
	parts := make([]string, 0, 6)

	if !snap.StartTime.IsZero() {
		parts = append(parts, fmt.Sprintf("%.2fs", time.Since(snap.StartTime).Seconds()))
	}

	parts = append(parts,
		fmt.Sprintf("%d Input Tokens", snap.InputTokens),
		fmt.Sprintf("%d Generated Tokens", snap.OutputTokens))

	if snap.ReasoningTokens > 0 {
		parts = append(parts, fmt.Sprintf("including %d Reasoning Tokens", snap.ReasoningTokens))
	}

	if !strings.Contains(snap.Status, "Requested") {
		parts = append(parts, "Cost "+formatCost(totalCost, currency))
	}

	if snap.Status != "" {
		parts = append(parts, snap.Status)
	}

	return strings.Join(parts, " | ")
}

// formatCost renders a cost amount with its currency symbol: "$10.50" for
// USD-style currencies, "10.50₽" for RUB.
func formatCost(totalCost decimal.Decimal, currency string) string {
	amount, _ := totalCost.Float64()
	grouped := humanize.FormatFloat(costFormat, amount)

	if currency == currencyRUB {
		return grouped + "₽"
	}
	return "$" + grouped
}

// statusDone reports whether a status label marks the final frame of a
// request: Completed, Stopped, or an empty label.
func statusDone(status string) bool {
	switch status {
	case StatusCompleted, StatusStopped, "":
		return true
	default:
		return false
	}
}

// TrackerFactory builds per-request cost trackers from process-wide
// collaborators. One factory serves the whole plugin lifetime.
type TrackerFactory struct {
	resolver *PricingResolver
	encoders EncoderProvider
	recorder UsageRecorder
	fallback StatusEmitter
}

// NewTrackerFactory creates a tracker factory (DI constructor). The fallback
// emitter serves requests that arrive without a host event channel; it may
// be nil, in which case such requests skip status emission.
func NewTrackerFactory(
	resolver *PricingResolver,
	encoders EncoderProvider,
	recorder UsageRecorder,
	fallback StatusEmitter,
) *TrackerFactory {
	return &TrackerFactory{
		resolver: resolver,
		encoders: encoders,
		recorder: recorder,
		fallback: fallback,
	}
}

// ForRequest constructs the tracker for a single request. The emitter is the
// host's event channel for that request; nil selects the factory fallback.
func (f *TrackerFactory) ForRequest(
	ctx context.Context,
	model string,
	userEmail string,
	task string,
	emitter StatusEmitter,
) *CostTracker {
	if emitter == nil {
		emitter = f.fallback
	}
	calc := NewCostCalculator(ctx, model, f.resolver, f.encoders)
	return NewCostTracker(model, userEmail, task, calc, f.recorder, emitter)
}
