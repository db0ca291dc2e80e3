package model

import (
	"fmt"
	"strconv"
	"strings"
)

// AlertKeyPrefix namespaces alert-sent flags inside the preference store so
// maintenance operations never touch unrelated keys.
const AlertKeyPrefix = "budget_alert_sent_"

// AlertKey identifies one "alert already sent" flag: which budget category,
// which period kind, which threshold, and which concrete period instance.
// It is kept structured internally and serialized only at the store boundary.
type AlertKey struct {
	Category  string       // category ID or OverallCategory
	Period    BudgetPeriod // MONTHLY or WEEKLY
	PeriodKey string       // e.g. "2026-01" or "2026-W05"
	Threshold int          // 80 or 100
}

// String serializes the key for the flat key/value store.
func (k AlertKey) String() string {
	return fmt.Sprintf("%s%s_%s_%d_%s", AlertKeyPrefix, k.Category, k.Period, k.Threshold, k.PeriodKey)
}

// ParseAlertKey parses a store key back into its parts. Category IDs may
// themselves contain underscores, so the fixed fields are taken from the
// right and the remainder is the category.
func ParseAlertKey(s string) (AlertKey, error) {
	if !strings.HasPrefix(s, AlertKeyPrefix) {
		return AlertKey{}, fmt.Errorf("not an alert key: %q", s)
	}
	rest := strings.TrimPrefix(s, AlertKeyPrefix)

	parts := strings.Split(rest, "_")
	if len(parts) < 4 {
		return AlertKey{}, fmt.Errorf("malformed alert key: %q", s)
	}

	periodKey := parts[len(parts)-1]
	thresholdStr := parts[len(parts)-2]
	periodStr := parts[len(parts)-3]
	category := strings.Join(parts[:len(parts)-3], "_")

	threshold, err := strconv.Atoi(thresholdStr)
	if err != nil {
		return AlertKey{}, fmt.Errorf("malformed alert threshold in %q: %w", s, err)
	}

	period := BudgetPeriod(periodStr)
	if period != PeriodMonthly && period != PeriodWeekly {
		return AlertKey{}, fmt.Errorf("malformed alert period in %q", s)
	}
	if category == "" {
		return AlertKey{}, fmt.Errorf("malformed alert category in %q", s)
	}

	return AlertKey{
		Category:  category,
		Period:    period,
		Threshold: threshold,
		PeriodKey: periodKey,
	}, nil
}

// IsAlertKey reports whether a raw store key belongs to the alert namespace.
func IsAlertKey(s string) bool {
	return strings.HasPrefix(s, AlertKeyPrefix)
}
