package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/shopspring/decimal"

	"github.com/davidbz/tokentoll/internal/config"
	"github.com/davidbz/tokentoll/internal/domain"
	"github.com/davidbz/tokentoll/internal/observability"
)

// PersistenceError wraps usage store failures. Callers on the tracking path
// treat it as fire-and-forget: logged, never retried, never surfaced to the
// end user.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("usage store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// UsageStore persists usage facts to a relational database. It implements
// domain.UsageRecorder and is portable across the dialects in dialect.go.
type UsageStore struct {
	db      *sqlx.DB
	dialect Dialect
}

// Open connects to the configured database and wraps it in a UsageStore.
func Open(cfg *config.DatabaseConfig) (*UsageStore, error) {
	db, err := sqlx.Connect(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to usage database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	return New(db)
}

// New wraps an existing connection. The dialect is looked up from the
// driver name.
func New(db *sqlx.DB) (*UsageStore, error) {
	dialect, err := dialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}

	return &UsageStore{db: db, dialect: dialect}, nil
}

// Close closes the database connection.
func (s *UsageStore) Close() error {
	return s.db.Close()
}

// Health checks database connectivity.
func (s *UsageStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// EnsureSchema idempotently creates the usage_costs table and its user
// email index. Safe to call on every process start; a failure here is fatal
// for the plugin and must be propagated.
func (s *UsageStore) EnsureSchema(ctx context.Context) error {
	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS usage_costs (
			id INTEGER PRIMARY KEY %s,
			user_email TEXT,
			model TEXT,
			task TEXT,
			timestamp TIMESTAMP NOT NULL,
			input_tokens INTEGER,
			output_tokens INTEGER,
			total_cost DECIMAL(20,8),
			cost_currency TEXT,
			model_used_by_cost_calculation TEXT
		)`, s.dialect.AutoIncrementClause)

	createIndex := `
		CREATE INDEX IF NOT EXISTS idx_user_email
		ON usage_costs(user_email)`

	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create usage_costs table: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, createIndex); err != nil {
		return fmt.Errorf("failed to create usage_costs index: %w", err)
	}

	return nil
}

// RecordUsage inserts one usage fact. The cost is stored with the full
// 8-digit scale.
func (s *UsageStore) RecordUsage(ctx context.Context, fact *domain.UsageFact) error {
	query := s.db.Rebind(`
		INSERT INTO usage_costs (
			user_email, model, task, timestamp, input_tokens, output_tokens,
			total_cost, cost_currency, model_used_by_cost_calculation
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		fact.UserEmail,
		fact.Model,
		fact.Task,
		fact.Timestamp,
		fact.InputTokens,
		fact.OutputTokens,
		fact.TotalCost.StringFixed(domain.CostScale),
		fact.CostCurrency,
		fact.ModelUsedByCostCalculation,
	)
	if err != nil {
		return &PersistenceError{Op: "insert", Err: err}
	}

	observability.FromContext(ctx).Debug("usage fact recorded",
		observability.String("user_email", fact.UserEmail),
		observability.String("model", fact.Model))

	return nil
}

type summaryRow struct {
	UserEmail         string `db:"user_email"`
	Model             string `db:"model"`
	Currency          string `db:"cost_currency"`
	Date              string `db:"date"`
	TotalCost         string `db:"total_cost"`
	TotalInputTokens  int64  `db:"total_input_tokens"`
	TotalOutputTokens int64  `db:"total_output_tokens"`
}

// QueryUsageSummary aggregates usage facts per user, model, currency and
// calendar day. EndDate filtering is inclusive of the entire end day
// (timestamp < endDate + 1 day). Ordering is deterministic: user, date,
// model, currency.
func (s *UsageStore) QueryUsageSummary(ctx context.Context, filter domain.SummaryFilter) ([]domain.UsageSummaryRow, error) {
	var conditions []string
	var args []interface{}

	if filter.UserEmail != "" {
		conditions = append(conditions, "user_email = ?")
		args = append(args, filter.UserEmail)
	}
	if !filter.StartDate.IsZero() {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		conditions = append(conditions, "timestamp < ?")
		args = append(args, filter.EndDate.AddDate(0, 0, 1))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT
			user_email,
			model,
			cost_currency,
			%[1]s AS date,
			SUM(total_cost) AS total_cost,
			SUM(input_tokens) AS total_input_tokens,
			SUM(output_tokens) AS total_output_tokens
		FROM usage_costs
		%[2]s
		GROUP BY user_email, model, cost_currency, %[1]s
		ORDER BY user_email, %[1]s, model, cost_currency`,
		s.dialect.DateExpr, whereClause)

	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, &PersistenceError{Op: "summary query", Err: err}
	}
	defer rows.Close()

	var summary []domain.UsageSummaryRow
	for rows.Next() {
		var row summaryRow
		if scanErr := rows.StructScan(&row); scanErr != nil {
			return nil, &PersistenceError{Op: "summary scan", Err: scanErr}
		}

		totalCost, parseErr := decimal.NewFromString(row.TotalCost)
		if parseErr != nil {
			return nil, &PersistenceError{Op: "summary cost parse", Err: parseErr}
		}

		summary = append(summary, domain.UsageSummaryRow{
			UserEmail:         row.UserEmail,
			Model:             row.Model,
			Currency:          row.Currency,
			Date:              row.Date,
			TotalCost:         totalCost,
			TotalInputTokens:  row.TotalInputTokens,
			TotalOutputTokens: row.TotalOutputTokens,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "summary iteration", Err: err}
	}

	return summary, nil
}
