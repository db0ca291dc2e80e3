// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/kanakku-money/kanakku/internal/model"
	"github.com/shopspring/decimal"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *string
	Limit      int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)

	// Budget operations
	SaveBudget(ctx context.Context, budget *model.Budget) error
	GetBudgets(ctx context.Context) ([]model.Budget, error)
	DeleteBudget(ctx context.Context, id int64) error

	// Recurring pattern operations
	SaveRecurringPatterns(ctx context.Context, patterns []model.RecurringPattern) error
	GetRecurringPatterns(ctx context.Context) ([]model.RecurringPattern, error)
	ConfirmRecurringPattern(ctx context.Context, merchantPattern string, amount decimal.Decimal) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// AlertStore is the flat boolean key/value store backing alert-sent flags.
// Implementations must serialize concurrent access; the alert service treats
// each budget check as one logical read-modify-write.
type AlertStore interface {
	Get(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string, value bool) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// BudgetAlert describes one newly fired threshold crossing, handed to the
// Notifier collaborator for presentation.
type BudgetAlert struct {
	Category   string
	Period     model.BudgetPeriod
	PeriodKey  string
	Threshold  int
	Spent      decimal.Decimal
	Limit      decimal.Decimal
	Percentage float64
}

// Notifier presents a fired budget alert to the user. The alert service only
// decides whether to invoke it and records that it did; presentation details
// live behind this interface.
type Notifier interface {
	Notify(ctx context.Context, alert BudgetAlert) error
}

// Clock supplies "now" so period-window logic is testable without
// mocking system time.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock backed by time.Now.
type RealClock struct{}

// Now returns the current wall-clock time.
func (RealClock) Now() time.Time { return time.Now() }

// FixedClock is a Clock pinned to a single instant, for tests and for
// replaying alert checks at a known point in time.
type FixedClock struct {
	Time time.Time
}

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time { return c.Time }
