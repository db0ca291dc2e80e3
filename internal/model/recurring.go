package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the cadence of a detected recurring series.
type Frequency string

// Recurring frequencies.
const (
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyBiWeekly  Frequency = "BI_WEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyAnnual    Frequency = "ANNUAL"
)

// RecurringType labels what kind of payment a recurring series looks like.
type RecurringType string

// Recurring transaction types.
const (
	RecurringSubscription RecurringType = "SUBSCRIPTION"
	RecurringEMI          RecurringType = "EMI"
	RecurringSalary       RecurringType = "SALARY"
	RecurringRent         RecurringType = "RENT"
	RecurringUtility      RecurringType = "UTILITY"
	RecurringOther        RecurringType = "OTHER"
)

// RecurringPattern is a validated recurring-transaction series.
type RecurringPattern struct {
	NextExpected    time.Time
	MerchantPattern string // Canonical merchant form (merchant.Normalize output)
	Frequency       Frequency
	Type            RecurringType
	TransactionIDs  []string // At least MinOccurrences supporting transactions
	Amount          decimal.Decimal
	AverageInterval int // Rounded mean days between occurrences
	IsUserConfirmed bool
}
