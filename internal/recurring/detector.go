// Package recurring detects recurring-transaction series from noisy
// merchant/amount/date histories.
package recurring

import (
	"math"
	"sort"
	"time"

	"github.com/kanakku-money/kanakku/internal/merchant"
	"github.com/kanakku-money/kanakku/internal/model"
	"github.com/shopspring/decimal"
)

// Config exposes the detection tolerances as parameters. The defaults are
// empirical; callers tuning them should keep AmountTolerance and
// IntervalTolerance as fractions of the reference value.
type Config struct {
	SmallDebitMax     decimal.Decimal // DEBIT at or below this hints SUBSCRIPTION
	SalaryMin         decimal.Decimal // CREDIT at or above this hints SALARY
	AmountTolerance   float64         // bucket width around the running reference amount
	IntervalTolerance float64         // allowed gap deviation from the mean, as a fraction
	MinOccurrences    int             // minimum transactions per pattern
}

// DefaultConfig returns the standard detection parameters.
func DefaultConfig() Config {
	return Config{
		AmountTolerance:   0.05,
		IntervalTolerance: 0.20,
		MinOccurrences:    3,
		SmallDebitMax:     decimal.NewFromInt(200),
		SalaryMin:         decimal.NewFromInt(10000),
	}
}

// Detector partitions a transaction history into candidate recurring series
// and emits validated patterns. It is stateless and safe for concurrent use.
type Detector struct {
	cfg Config
}

// NewDetector creates a detector, filling zero Config fields with defaults.
func NewDetector(cfg Config) *Detector {
	def := DefaultConfig()
	if cfg.AmountTolerance <= 0 {
		cfg.AmountTolerance = def.AmountTolerance
	}
	if cfg.IntervalTolerance <= 0 {
		cfg.IntervalTolerance = def.IntervalTolerance
	}
	if cfg.MinOccurrences <= 0 {
		cfg.MinOccurrences = def.MinOccurrences
	}
	if cfg.SmallDebitMax.IsZero() {
		cfg.SmallDebitMax = def.SmallDebitMax
	}
	if cfg.SalaryMin.IsZero() {
		cfg.SalaryMin = def.SalaryMin
	}
	return &Detector{cfg: cfg}
}

// Detect returns one RecurringPattern per validated (merchant, amount-bucket)
// group. Transactions without a merchant are ignored; groups with fewer than
// MinOccurrences members, inconsistent intervals, or gaps outside every
// frequency band yield no pattern.
func (d *Detector) Detect(transactions []model.Transaction) []model.RecurringPattern {
	byMerchant := make(map[string][]model.Transaction)
	for _, txn := range transactions {
		if !txn.HasMerchant() {
			continue
		}
		key := merchant.Normalize(txn.Merchant)
		byMerchant[key] = append(byMerchant[key], txn)
	}

	var patterns []model.RecurringPattern
	for key, group := range byMerchant {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Date.Before(group[j].Date)
		})

		for _, bucket := range d.bucketByAmount(group) {
			if p, ok := d.buildPattern(key, bucket); ok {
				patterns = append(patterns, p)
			}
		}
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].MerchantPattern != patterns[j].MerchantPattern {
			return patterns[i].MerchantPattern < patterns[j].MerchantPattern
		}
		return patterns[i].Amount.LessThan(patterns[j].Amount)
	})

	return patterns
}

// amountBucket accumulates transactions whose amounts stay within the
// tolerance band of the bucket's running mean. One merchant can therefore
// yield several independent patterns at different price points.
type amountBucket struct {
	sum  decimal.Decimal
	txns []model.Transaction
}

func (b *amountBucket) reference() decimal.Decimal {
	return b.sum.Div(decimal.NewFromInt(int64(len(b.txns))))
}

func (b *amountBucket) admits(amount decimal.Decimal, tolerance float64) bool {
	ref := b.reference()
	band := ref.Mul(decimal.NewFromFloat(tolerance))
	return amount.Sub(ref).Abs().LessThanOrEqual(band)
}

func (d *Detector) bucketByAmount(group []model.Transaction) []*amountBucket {
	var buckets []*amountBucket
	for _, txn := range group {
		placed := false
		for _, b := range buckets {
			if b.admits(txn.Amount, d.cfg.AmountTolerance) {
				b.txns = append(b.txns, txn)
				b.sum = b.sum.Add(txn.Amount)
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, &amountBucket{sum: txn.Amount, txns: []model.Transaction{txn}})
		}
	}
	return buckets
}

func (d *Detector) buildPattern(merchantKey string, bucket *amountBucket) (model.RecurringPattern, bool) {
	txns := bucket.txns
	if len(txns) < d.cfg.MinOccurrences {
		return model.RecurringPattern{}, false
	}

	gaps := dayGaps(txns)
	mean := meanGap(gaps)

	if !d.intervalsConsistent(gaps, mean) {
		return model.RecurringPattern{}, false
	}

	freq, ok := classifyFrequency(mean)
	if !ok {
		return model.RecurringPattern{}, false
	}

	amount := bucket.reference().Round(2)
	ids := make([]string, 0, len(txns))
	for _, txn := range txns {
		ids = append(ids, txn.ID)
	}

	last := txns[len(txns)-1]
	return model.RecurringPattern{
		MerchantPattern: merchantKey,
		Amount:          amount,
		Frequency:       freq,
		Type:            d.inferType(merchantKey, freq, amount, txns),
		TransactionIDs:  ids,
		AverageInterval: int(math.Round(mean)),
		NextExpected:    nextExpected(last.Date, freq),
		IsUserConfirmed: false,
	}, true
}

// dayGaps returns rounded whole-day gaps between consecutive transactions,
// which must already be sorted by date.
func dayGaps(txns []model.Transaction) []int {
	gaps := make([]int, 0, len(txns)-1)
	for i := 1; i < len(txns); i++ {
		hours := txns[i].Date.Sub(txns[i-1].Date).Hours()
		gaps = append(gaps, int(math.Round(hours/24)))
	}
	return gaps
}

func meanGap(gaps []int) float64 {
	sum := 0
	for _, g := range gaps {
		sum += g
	}
	return float64(sum) / float64(len(gaps))
}

// intervalsConsistent rejects groups where any gap strays too far from the
// mean. Monthly-scale groups get a floor of 3 days of absolute slack so that
// calendar-length variation (28 to 31 day months, month-end anchoring, leap
// February) never fails an otherwise regular series.
func (d *Detector) intervalsConsistent(gaps []int, mean float64) bool {
	allowed := mean * d.cfg.IntervalTolerance
	if monthlyScale(mean) && allowed < 3 {
		allowed = 3
	}
	for _, g := range gaps {
		if math.Abs(float64(g)-mean) > allowed {
			return false
		}
	}
	return true
}

func monthlyScale(mean float64) bool {
	return mean >= 27 && mean <= 32
}

// classifyFrequency maps a mean gap onto a frequency band. Gaps outside all
// bands produce no pattern.
func classifyFrequency(mean float64) (model.Frequency, bool) {
	switch {
	case mean >= 6 && mean <= 8:
		return model.FrequencyWeekly, true
	case mean >= 12.5 && mean <= 15.5:
		return model.FrequencyBiWeekly, true
	case monthlyScale(mean):
		return model.FrequencyMonthly, true
	case mean >= 85 && mean <= 95:
		return model.FrequencyQuarterly, true
	case mean >= 355 && mean <= 375:
		return model.FrequencyAnnual, true
	default:
		return "", false
	}
}

// Keyword sets for type inference, matched against normalized merchant names.
var (
	subscriptionKeywords = []string{
		"NETFLIX", "SPOTIFY", "PRIME", "HOTSTAR", "YOUTUBE", "AUDIBLE",
		"DISNEY", "SUBSCRIPTION", "MEMBERSHIP", "GYM",
	}
	emiKeywords     = []string{"EMI", "LOAN"}
	rentKeywords    = []string{"RENT"}
	utilityKeywords = []string{"ELECTRIC", "WATER", "GAS", "POWER", "BROADBAND", "INTERNET", "SEWAGE", "DTH"}
)

// inferType classifies a validated series, checked in priority order.
func (d *Detector) inferType(merchantKey string, freq model.Frequency, amount decimal.Decimal, txns []model.Transaction) model.RecurringType {
	credits := 0
	for _, txn := range txns {
		if txn.Type == model.TypeCredit {
			credits++
		}
	}
	mostlyCredit := credits*2 > len(txns)

	switch {
	case mostlyCredit && freq == model.FrequencyMonthly && amount.GreaterThanOrEqual(d.cfg.SalaryMin):
		return model.RecurringSalary
	case containsAny(merchantKey, emiKeywords):
		return model.RecurringEMI
	case containsAny(merchantKey, rentKeywords):
		return model.RecurringRent
	case containsAny(merchantKey, utilityKeywords):
		return model.RecurringUtility
	case containsAny(merchantKey, subscriptionKeywords):
		return model.RecurringSubscription
	case !mostlyCredit && amount.LessThanOrEqual(d.cfg.SmallDebitMax):
		return model.RecurringSubscription
	default:
		return model.RecurringOther
	}
}

func containsAny(merchantKey string, keywords []string) bool {
	for _, kw := range keywords {
		if merchant.Contains(merchantKey, kw) {
			return true
		}
	}
	return false
}

// nextExpected advances the last occurrence by one frequency period.
// Month-based advances preserve day-of-month semantics, including
// end-of-month anchoring: Jan 31 -> Feb 28/29 -> Mar 31, Apr 30 -> May 31.
func nextExpected(last time.Time, freq model.Frequency) time.Time {
	switch freq {
	case model.FrequencyWeekly:
		return last.AddDate(0, 0, 7)
	case model.FrequencyBiWeekly:
		return last.AddDate(0, 0, 14)
	case model.FrequencyMonthly:
		return addMonthsAnchored(last, 1)
	case model.FrequencyQuarterly:
		return addMonthsAnchored(last, 3)
	case model.FrequencyAnnual:
		return addMonthsAnchored(last, 12)
	default:
		return last
	}
}

// addMonthsAnchored adds calendar months without the normalization overflow
// of time.AddDate (Jan 31 + 1 month must not become Mar 3). A date on the
// last day of its month stays anchored to the last day of the target month.
func addMonthsAnchored(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, months, 0)

	targetLast := daysInMonth(target.Year(), target.Month())
	day := t.Day()
	if day == daysInMonth(t.Year(), t.Month()) || day > targetLast {
		day = targetLast
	}

	return time.Date(target.Year(), target.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
