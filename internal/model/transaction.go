// Package model defines the core domain types shared across the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the direction of money movement.
type TransactionType string

// Transaction types.
const (
	TypeDebit   TransactionType = "DEBIT"
	TypeCredit  TransactionType = "CREDIT"
	TypeUnknown TransactionType = "UNKNOWN"
)

// ParseTransactionType maps a raw string onto a TransactionType,
// defaulting to UNKNOWN for anything unrecognized.
func ParseTransactionType(s string) TransactionType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBIT":
		return TypeDebit
	case "CREDIT":
		return TypeCredit
	default:
		return TypeUnknown
	}
}

// Transaction represents a single parsed financial transaction.
// Instances are read-only to the core algorithms.
type Transaction struct {
	Date       time.Time
	ID         string
	Merchant   string // Raw merchant name as parsed; may be blank
	CategoryID string // Assigned category, empty if uncategorized
	Type       TransactionType
	Amount     decimal.Decimal // Non-negative; Type carries the direction
}

// HasMerchant reports whether the transaction carries a usable merchant name.
func (t *Transaction) HasMerchant() bool {
	return strings.TrimSpace(t.Merchant) != ""
}

// GenerateHash creates a stable hash for duplicate detection on import.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		t.Merchant,
		t.Type)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
