package budget

import (
	"testing"
	"time"

	"github.com/kanakku-money/kanakku/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCurrentWindow_Monthly(t *testing.T) {
	now := time.Date(2026, time.February, 14, 18, 30, 0, 0, time.UTC)

	w := CurrentWindow(model.PeriodMonthly, now)

	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), w.End)
	assert.True(t, w.Contains(now))
	assert.False(t, w.Contains(w.End), "window end is exclusive")
}

func TestCurrentWindow_WeeklyStartsMonday(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "midweek",
			now:  time.Date(2026, time.August, 12, 9, 0, 0, 0, time.UTC), // Wednesday
			want: time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "monday maps to itself",
			now:  time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC),
			want: time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday belongs to the week started six days earlier",
			now:  time.Date(2026, time.August, 16, 23, 59, 0, 0, time.UTC),
			want: time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := CurrentWindow(model.PeriodWeekly, tt.now)
			assert.Equal(t, tt.want, w.Start)
			assert.Equal(t, tt.want.AddDate(0, 0, 7), w.End)
		})
	}
}

func TestPeriodKey(t *testing.T) {
	now := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC) // Friday, ISO week 1

	assert.Equal(t, "2026-01", PeriodKey(model.PeriodMonthly, now))
	assert.Equal(t, "2026-W01", PeriodKey(model.PeriodWeekly, now))

	// Jan 1 2027 falls in ISO week 53 of 2026.
	newYear := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-W53", PeriodKey(model.PeriodWeekly, newYear))
}

func TestCurrentPeriodKeys(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

	keys := CurrentPeriodKeys(now)

	assert.Contains(t, keys, "2026-08")
	assert.Contains(t, keys, PeriodKey(model.PeriodWeekly, now))
	assert.Len(t, keys, 2)
}
