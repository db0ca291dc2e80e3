package budget

import (
	"testing"

	"github.com/kanakku-money/kanakku/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		name       string
		limit      int64
		spent      int64
		wantStatus model.BudgetStatus
		wantPct    float64
	}{
		{"under budget", 10000, 5000, model.StatusUnderBudget, 50},
		{"just below approaching", 10000, 7999, model.StatusUnderBudget, 79.99},
		{"exactly 80 percent", 10000, 8000, model.StatusApproaching, 80},
		{"between thresholds", 10000, 9500, model.StatusApproaching, 95},
		{"exactly 100 percent", 10000, 10000, model.StatusExceeded, 100},
		{"over budget", 10000, 12000, model.StatusExceeded, 120},
		{"zero spend", 10000, 0, model.StatusUnderBudget, 0},
		{"zero limit with spend", 0, 100, model.StatusExceeded, 0},
		{"zero limit without spend", 0, 0, model.StatusUnderBudget, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := model.Budget{Amount: decimal.NewFromInt(tt.limit), Period: model.PeriodMonthly}

			p := Progress(b, decimal.NewFromInt(tt.spent))

			assert.Equal(t, tt.wantStatus, p.Status)
			assert.InDelta(t, tt.wantPct, p.Percentage, 0.001)
			assert.True(t, p.Remaining.Equal(decimal.NewFromInt(tt.limit-tt.spent)))
		})
	}
}
