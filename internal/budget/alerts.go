package budget

import (
	"context"
	"fmt"

	"github.com/kanakku-money/kanakku/internal/common"
	"github.com/kanakku-money/kanakku/internal/model"
	"github.com/kanakku-money/kanakku/internal/service"
	"github.com/shopspring/decimal"
)

// AlertService detects threshold crossings per budget per current period.
// An alert for a given (budget, threshold, period) fires at most once; the
// sent flag is cleared if spending drops back below the threshold within the
// same period, so the alert can fire again on a later climb.
type AlertService struct {
	store    service.AlertStore
	notifier service.Notifier
	clock    service.Clock
}

// NewAlertService wires the alert service to its collaborators. A nil clock
// falls back to wall-clock time; a nil notifier only records flags.
func NewAlertService(store service.AlertStore, notifier service.Notifier, clock service.Clock) *AlertService {
	if clock == nil {
		clock = service.RealClock{}
	}
	return &AlertService{store: store, notifier: notifier, clock: clock}
}

// thresholdDecision is the outcome of the read phase for one threshold.
// All store reads for a budget happen before any flag mutation, so a failing
// store abandons the budget without partial state.
type thresholdDecision struct {
	key     model.AlertKey
	crossed bool
	sent    bool
}

// CheckBudgetAlerts evaluates every budget against the supplied transactions
// and returns how many alerts newly fired. Disabled settings short-circuit
// with no side effects.
func (s *AlertService) CheckBudgetAlerts(ctx context.Context, budgets []model.Budget, transactions []model.Transaction, settings model.AlertSettings) (int, error) {
	if !settings.Enabled {
		return 0, nil
	}

	var thresholds []int
	if settings.NotifyAt80Percent {
		thresholds = append(thresholds, ThresholdApproaching)
	}
	if settings.NotifyAt100Percent {
		thresholds = append(thresholds, ThresholdExceeded)
	}

	now := s.clock.Now()
	fired := 0

	for i := range budgets {
		b := budgets[i]
		window := CurrentWindow(b.Period, now)
		periodKey := PeriodKey(b.Period, now)
		spent := sumDebits(transactions, window, b.CategoryID)

		// Read phase.
		decisions := make([]thresholdDecision, 0, len(thresholds))
		for _, threshold := range thresholds {
			key := model.AlertKey{
				Category:  b.CategoryKey(),
				Period:    b.Period,
				Threshold: threshold,
				PeriodKey: periodKey,
			}
			sent, err := s.store.Get(ctx, key.String())
			if err != nil {
				return fired, fmt.Errorf("failed to read alert flag %s: %w", key, err)
			}
			decisions = append(decisions, thresholdDecision{
				key:     key,
				crossed: crossesThreshold(b.Amount, spent, threshold),
				sent:    sent,
			})
		}

		// Mutate phase.
		for _, dec := range decisions {
			switch {
			case dec.crossed && !dec.sent:
				if err := s.store.Set(ctx, dec.key.String(), true); err != nil {
					return fired, fmt.Errorf("failed to record alert flag %s: %w", dec.key, err)
				}
				fired++
				s.notify(ctx, b, dec.key, spent)
			case !dec.crossed && dec.sent:
				// Spending dropped back below the threshold; clear the flag
				// so the alert can fire again within the same period.
				if err := s.store.Remove(ctx, dec.key.String()); err != nil {
					return fired, fmt.Errorf("failed to clear alert flag %s: %w", dec.key, err)
				}
			}
		}
	}

	return fired, nil
}

// notify invokes the presentation collaborator. Notification failures are
// non-critical: the flag is already recorded, so the check still succeeds.
func (s *AlertService) notify(ctx context.Context, b model.Budget, key model.AlertKey, spent decimal.Decimal) {
	if s.notifier == nil {
		return
	}

	progress := Progress(b, spent)
	err := s.notifier.Notify(ctx, service.BudgetAlert{
		Category:   key.Category,
		Period:     key.Period,
		PeriodKey:  key.PeriodKey,
		Threshold:  key.Threshold,
		Spent:      spent,
		Limit:      b.Amount,
		Percentage: progress.Percentage,
	})
	if err != nil {
		common.LogError(err, "budget alert notification failed", common.Fields{
			"category":  key.Category,
			"threshold": key.Threshold,
			"period":    key.PeriodKey,
		})
	}
}

// ClearAllAlerts removes every alert-sent flag regardless of period and
// returns how many were removed. Keys outside the alert namespace are
// untouched.
func (s *AlertService) ClearAllAlerts(ctx context.Context) (int, error) {
	keys, err := s.store.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list alert flags: %w", err)
	}

	cleared := 0
	for _, key := range keys {
		if !model.IsAlertKey(key) {
			continue
		}
		if err := s.store.Remove(ctx, key); err != nil {
			return cleared, fmt.Errorf("failed to remove alert flag %s: %w", key, err)
		}
		cleared++
	}
	return cleared, nil
}

// ClearOldAlerts removes alert-sent flags whose period identifier is not in
// currentPeriodKeys, garbage-collecting flags from finished periods.
func (s *AlertService) ClearOldAlerts(ctx context.Context, currentPeriodKeys []string) (int, error) {
	current := make(map[string]bool, len(currentPeriodKeys))
	for _, k := range currentPeriodKeys {
		current[k] = true
	}

	keys, err := s.store.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list alert flags: %w", err)
	}

	cleared := 0
	for _, raw := range keys {
		if !model.IsAlertKey(raw) {
			continue
		}
		key, err := model.ParseAlertKey(raw)
		if err != nil {
			common.LogError(err, "skipping unparseable alert flag", common.Fields{"key": raw})
			continue
		}
		if current[key.PeriodKey] {
			continue
		}
		if err := s.store.Remove(ctx, raw); err != nil {
			return cleared, fmt.Errorf("failed to remove stale alert flag %s: %w", raw, err)
		}
		cleared++
	}
	return cleared, nil
}

// sumDebits totals DEBIT amounts inside the window, restricted to the
// budget's category when one is set.
func sumDebits(transactions []model.Transaction, window Window, categoryID *string) decimal.Decimal {
	sum := decimal.Zero
	for i := range transactions {
		t := &transactions[i]
		if t.Type != model.TypeDebit {
			continue
		}
		if !window.Contains(t.Date) {
			continue
		}
		if categoryID != nil && *categoryID != "" && t.CategoryID != *categoryID {
			continue
		}
		sum = sum.Add(t.Amount)
	}
	return sum
}
