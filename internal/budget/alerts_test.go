package budget

import (
	"context"
	"testing"
	"time"

	"github.com/kanakku-money/kanakku/internal/common"
	"github.com/kanakku-money/kanakku/internal/model"
	"github.com/kanakku-money/kanakku/internal/service"
	"github.com/kanakku-money/kanakku/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures every alert handed to it.
type recordingNotifier struct {
	alerts []service.BudgetAlert
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, alert service.BudgetAlert) error {
	n.alerts = append(n.alerts, alert)
	return n.err
}

var checkTime = time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

func newTestService(notifier service.Notifier) (*AlertService, *storage.MemoryAlertStore) {
	store := storage.NewMemoryAlertStore()
	svc := NewAlertService(store, notifier, service.FixedClock{Time: checkTime})
	return svc, store
}

func monthlyBudget(limit int64) model.Budget {
	return model.Budget{Amount: decimal.NewFromInt(limit), Period: model.PeriodMonthly}
}

func debit(amount int64, date time.Time, category string) model.Transaction {
	return model.Transaction{
		ID:         "txn-" + date.Format("20060102") + "-" + category,
		Amount:     decimal.NewFromInt(amount),
		Type:       model.TypeDebit,
		CategoryID: category,
		Date:       date,
	}
}

func TestCheckBudgetAlerts_80PercentFiresOnce(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	svc, _ := newTestService(notifier)

	budgets := []model.Budget{monthlyBudget(10000)}
	txns := []model.Transaction{debit(8000, checkTime.AddDate(0, 0, -3), "")}
	settings := model.DefaultAlertSettings()

	fired, err := svc.CheckBudgetAlerts(ctx, budgets, txns, settings)
	require.NoError(t, err)
	assert.Equal(t, 1, fired, "exactly the 80%% threshold fires")
	require.Len(t, notifier.alerts, 1)
	assert.Equal(t, ThresholdApproaching, notifier.alerts[0].Threshold)
	assert.Equal(t, model.OverallCategory, notifier.alerts[0].Category)

	// Identical second check: nothing new.
	fired, err = svc.CheckBudgetAlerts(ctx, budgets, txns, settings)
	require.NoError(t, err)
	assert.Zero(t, fired, "already-sent alert must not re-fire")
	assert.Len(t, notifier.alerts, 1)
}

func TestCheckBudgetAlerts_BothThresholdsAt100Percent(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	svc, _ := newTestService(notifier)

	budgets := []model.Budget{monthlyBudget(10000)}
	txns := []model.Transaction{debit(10000, checkTime.AddDate(0, 0, -1), "")}

	fired, err := svc.CheckBudgetAlerts(ctx, budgets, txns, model.DefaultAlertSettings())
	require.NoError(t, err)
	assert.Equal(t, 2, fired)
	require.Len(t, notifier.alerts, 2)
	assert.Equal(t, ThresholdApproaching, notifier.alerts[0].Threshold, "thresholds fire in ascending order")
	assert.Equal(t, ThresholdExceeded, notifier.alerts[1].Threshold)
}

func TestCheckBudgetAlerts_ExactBoundaries(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		spent     int64
		wantFired int
	}{
		{"just below 80 percent", 7999, 0},
		{"exactly 80 percent", 8000, 1},
		{"just below 100 percent", 9999, 1},
		{"exactly 100 percent", 10000, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(&recordingNotifier{})
			budgets := []model.Budget{monthlyBudget(10000)}
			txns := []model.Transaction{debit(tt.spent, checkTime, "")}

			fired, err := svc.CheckBudgetAlerts(ctx, budgets, txns, model.DefaultAlertSettings())
			require.NoError(t, err)
			assert.Equal(t, tt.wantFired, fired)
		})
	}
}

func TestCheckBudgetAlerts_ZeroLimitEdgeCase(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	svc, _ := newTestService(notifier)

	budgets := []model.Budget{monthlyBudget(0)}
	txns := []model.Transaction{debit(100, checkTime, "")}

	fired, err := svc.CheckBudgetAlerts(ctx, budgets, txns, model.DefaultAlertSettings())
	require.NoError(t, err)
	assert.Equal(t, 2, fired, "any spend against a zero-limit budget crosses both thresholds")
}

func TestCheckBudgetAlerts_DisabledSettings(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	svc, store := newTestService(notifier)

	budgets := []model.Budget{monthlyBudget(100)}
	txns := []model.Transaction{debit(500, checkTime, "")}

	fired, err := svc.CheckBudgetAlerts(ctx, budgets, txns, model.AlertSettings{Enabled: false})
	require.NoError(t, err)
	assert.Zero(t, fired)
	assert.Empty(t, notifier.alerts)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys, "disabled settings must leave no side effects")
}

func TestCheckBudgetAlerts_DropBelowClearsFlag(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(&recordingNotifier{})

	budgets := []model.Budget{monthlyBudget(10000)}
	settings := model.DefaultAlertSettings()

	// Cross 80%, then the spend view drops below it (refund outside DEBIT sum).
	fired, err := svc.CheckBudgetAlerts(ctx, budgets, []model.Transaction{debit(8500, checkTime, "")}, settings)
	require.NoError(t, err)
	require.Equal(t, 1, fired)

	fired, err = svc.CheckBudgetAlerts(ctx, budgets, []model.Transaction{debit(7000, checkTime, "")}, settings)
	require.NoError(t, err)
	assert.Zero(t, fired)

	// Climb back over the threshold within the same period: fires again.
	fired, err = svc.CheckBudgetAlerts(ctx, budgets, []model.Transaction{debit(9000, checkTime, "")}, settings)
	require.NoError(t, err)
	assert.Equal(t, 1, fired)
}

func TestCheckBudgetAlerts_CategoryScoping(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	svc, _ := newTestService(notifier)

	food := "food"
	budgets := []model.Budget{{
		CategoryID: &food,
		Amount:     decimal.NewFromInt(1000),
		Period:     model.PeriodMonthly,
	}}
	txns := []model.Transaction{
		debit(900, checkTime, "food"),
		debit(5000, checkTime, "travel"), // other category must not count
	}

	fired, err := svc.CheckBudgetAlerts(ctx, budgets, txns, model.DefaultAlertSettings())
	require.NoError(t, err)
	assert.Equal(t, 1, fired, "only the 80%% threshold from food spend")
	require.Len(t, notifier.alerts, 1)
	assert.Equal(t, "food", notifier.alerts[0].Category)
}

func TestCheckBudgetAlerts_WindowExcludesOtherPeriods(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(&recordingNotifier{})

	budgets := []model.Budget{monthlyBudget(1000)}
	txns := []model.Transaction{
		debit(950, checkTime.AddDate(0, -1, 0), ""), // last month
		debit(950, checkTime.AddDate(0, 1, 0), ""),  // next month
		debit(100, checkTime, ""),                   // this month, well under
	}

	fired, err := svc.CheckBudgetAlerts(ctx, budgets, txns, model.DefaultAlertSettings())
	require.NoError(t, err)
	assert.Zero(t, fired)
}

func TestCheckBudgetAlerts_WeeklyWindowMondayAnchored(t *testing.T) {
	ctx := context.Background()
	// 2026-08-15 is a Saturday; its ISO week starts Monday 2026-08-10.
	svc, _ := newTestService(&recordingNotifier{})

	budgets := []model.Budget{{Amount: decimal.NewFromInt(1000), Period: model.PeriodWeekly}}
	txns := []model.Transaction{
		debit(600, time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC), ""), // Monday, in window
		debit(300, time.Date(2026, time.August, 14, 9, 0, 0, 0, time.UTC), ""), // Friday, in window
		debit(500, time.Date(2026, time.August, 9, 23, 0, 0, 0, time.UTC), ""), // Sunday before, out
	}

	fired, err := svc.CheckBudgetAlerts(ctx, budgets, txns, model.DefaultAlertSettings())
	require.NoError(t, err)
	assert.Equal(t, 1, fired, "600+300 = 90%% of the weekly limit")
}

func TestCheckBudgetAlerts_StoreFailurePropagates(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryAlertStore()
	store.Close()
	svc := NewAlertService(store, &recordingNotifier{}, service.FixedClock{Time: checkTime})

	budgets := []model.Budget{monthlyBudget(10000)}
	txns := []model.Transaction{debit(9000, checkTime, "")}

	fired, err := svc.CheckBudgetAlerts(ctx, budgets, txns, model.DefaultAlertSettings())
	assert.ErrorIs(t, err, common.ErrStoreClosed)
	assert.Zero(t, fired)
}

func TestCheckBudgetAlerts_NotifierFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{err: assert.AnError}
	svc, _ := newTestService(notifier)

	budgets := []model.Budget{monthlyBudget(10000)}
	txns := []model.Transaction{debit(8000, checkTime, "")}

	fired, err := svc.CheckBudgetAlerts(ctx, budgets, txns, model.DefaultAlertSettings())
	require.NoError(t, err, "notification failure is non-critical")
	assert.Equal(t, 1, fired)
}

func TestClearAllAlerts(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(&recordingNotifier{})

	budgets := []model.Budget{monthlyBudget(10000)}
	txns := []model.Transaction{debit(10000, checkTime, "")}
	settings := model.DefaultAlertSettings()

	fired, err := svc.CheckBudgetAlerts(ctx, budgets, txns, settings)
	require.NoError(t, err)
	require.Equal(t, 2, fired)

	// An unrelated preference key must survive the sweep.
	require.NoError(t, store.Set(ctx, "onboarding_complete", true))

	cleared, err := svc.ClearAllAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cleared)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"onboarding_complete"}, keys)

	// Still-crossed thresholds fire again after a full clear.
	fired, err = svc.CheckBudgetAlerts(ctx, budgets, txns, settings)
	require.NoError(t, err)
	assert.Equal(t, 2, fired)
}

func TestClearOldAlerts(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(&recordingNotifier{})

	stale := model.AlertKey{Category: "food", Period: model.PeriodMonthly, Threshold: 80, PeriodKey: "2026-07"}
	current := model.AlertKey{Category: "food", Period: model.PeriodMonthly, Threshold: 80, PeriodKey: "2026-08"}
	staleWeek := model.AlertKey{Category: model.OverallCategory, Period: model.PeriodWeekly, Threshold: 100, PeriodKey: "2026-W20"}

	require.NoError(t, store.Set(ctx, stale.String(), true))
	require.NoError(t, store.Set(ctx, current.String(), true))
	require.NoError(t, store.Set(ctx, staleWeek.String(), true))
	require.NoError(t, store.Set(ctx, "onboarding_complete", true))

	cleared, err := svc.ClearOldAlerts(ctx, CurrentPeriodKeys(checkTime))
	require.NoError(t, err)
	assert.Equal(t, 2, cleared)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{current.String(), "onboarding_complete"}, keys)
}
