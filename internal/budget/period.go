// Package budget evaluates spending against budget limits and manages
// idempotent threshold alerts across accounting periods.
package budget

import (
	"fmt"
	"time"

	"github.com/kanakku-money/kanakku/internal/model"
)

// Window is the half-open [Start, End) time range of one accounting period.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether an instant falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// CurrentWindow computes the period window containing now. Monthly budgets
// use the calendar month; weekly budgets use the Monday-anchored ISO week.
func CurrentWindow(period model.BudgetPeriod, now time.Time) Window {
	switch period {
	case model.PeriodWeekly:
		start := startOfISOWeek(now)
		return Window{Start: start, End: start.AddDate(0, 0, 7)}
	default:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Window{Start: start, End: start.AddDate(0, 1, 0)}
	}
}

// PeriodKey renders the identifier string for the period containing now:
// "2026-01" for months, "2026-W05" for ISO weeks.
func PeriodKey(period model.BudgetPeriod, now time.Time) string {
	if period == model.PeriodWeekly {
		year, week := now.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	}
	return now.Format("2006-01")
}

// CurrentPeriodKeys returns the period identifiers for all supported period
// kinds at the given instant, for garbage-collecting stale alert flags.
func CurrentPeriodKeys(now time.Time) []string {
	return []string{
		PeriodKey(model.PeriodMonthly, now),
		PeriodKey(model.PeriodWeekly, now),
	}
}

func startOfISOWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	// time.Weekday puts Sunday at 0; shift so Monday is the week start.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
