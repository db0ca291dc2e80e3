package budget

import (
	"github.com/kanakku-money/kanakku/internal/model"
	"github.com/shopspring/decimal"
)

// Threshold percentages with closed lower bounds: exactly 80.0 is
// APPROACHING, exactly 100.0 is EXCEEDED.
const (
	ThresholdApproaching = 80
	ThresholdExceeded    = 100
)

// Progress derives the spend-vs-limit state for one budget. A non-positive
// limit yields percentage 0, but any positive spend against such a budget is
// still reported as EXCEEDED.
func Progress(b model.Budget, spent decimal.Decimal) model.BudgetProgress {
	p := model.BudgetProgress{
		Spent:     spent,
		Limit:     b.Amount,
		Remaining: b.Amount.Sub(spent),
	}

	if b.Amount.IsPositive() {
		p.Percentage, _ = spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).Float64()
	}

	switch {
	case crossesThreshold(b.Amount, spent, ThresholdExceeded):
		p.Status = model.StatusExceeded
	case crossesThreshold(b.Amount, spent, ThresholdApproaching):
		p.Status = model.StatusApproaching
	default:
		p.Status = model.StatusUnderBudget
	}

	return p
}

// crossesThreshold reports whether spending has reached the given percentage
// of the limit. Comparisons are exact decimal arithmetic; a zero or negative
// limit with positive spend crosses every threshold.
func crossesThreshold(limit, spent decimal.Decimal, threshold int) bool {
	if !limit.IsPositive() {
		return spent.IsPositive()
	}
	// spent/limit*100 >= threshold  <=>  spent*100 >= threshold*limit
	return spent.Mul(decimal.NewFromInt(100)).GreaterThanOrEqual(limit.Mul(decimal.NewFromInt(int64(threshold))))
}
