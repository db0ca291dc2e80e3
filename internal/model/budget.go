package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod is the accounting window a budget applies to.
type BudgetPeriod string

// Budget periods.
const (
	PeriodMonthly BudgetPeriod = "MONTHLY"
	PeriodWeekly  BudgetPeriod = "WEEKLY"
)

// BudgetStatus describes how far spending has progressed against a limit.
type BudgetStatus string

// Budget statuses.
const (
	StatusUnderBudget BudgetStatus = "UNDER_BUDGET" // below 80%
	StatusApproaching BudgetStatus = "APPROACHING"  // 80% up to 100%
	StatusExceeded    BudgetStatus = "EXCEEDED"     // 100% and above
)

// Budget is a spending limit for a category (or overall) over a period.
type Budget struct {
	StartDate  time.Time
	CategoryID *string // nil means an overall budget across all categories
	Period     BudgetPeriod
	Amount     decimal.Decimal
	ID         int64
}

// CategoryKey returns the category identifier used in alert keys,
// "overall" for budgets with no category.
func (b *Budget) CategoryKey() string {
	if b.CategoryID == nil || *b.CategoryID == "" {
		return OverallCategory
	}
	return *b.CategoryID
}

// OverallCategory is the alert-key category for budgets spanning all categories.
const OverallCategory = "overall"

// BudgetProgress is the derived spend-vs-limit state for one budget.
// It is computed on demand and never persisted.
type BudgetProgress struct {
	Status     BudgetStatus
	Spent      decimal.Decimal
	Limit      decimal.Decimal
	Remaining  decimal.Decimal
	Percentage float64
}

// AlertSettings controls whether threshold alerts are evaluated at all
// and which thresholds are active.
type AlertSettings struct {
	Enabled            bool
	NotifyAt80Percent  bool
	NotifyAt100Percent bool
}

// DefaultAlertSettings enables both thresholds.
func DefaultAlertSettings() AlertSettings {
	return AlertSettings{Enabled: true, NotifyAt80Percent: true, NotifyAt100Percent: true}
}
