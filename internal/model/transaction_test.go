package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseTransactionType(t *testing.T) {
	assert.Equal(t, TypeDebit, ParseTransactionType("debit"))
	assert.Equal(t, TypeCredit, ParseTransactionType(" CREDIT "))
	assert.Equal(t, TypeUnknown, ParseTransactionType("transfer"))
	assert.Equal(t, TypeUnknown, ParseTransactionType(""))
}

func TestTransaction_HasMerchant(t *testing.T) {
	assert.True(t, (&Transaction{Merchant: "Netflix"}).HasMerchant())
	assert.False(t, (&Transaction{Merchant: "   "}).HasMerchant())
	assert.False(t, (&Transaction{}).HasMerchant())
}

func TestTransaction_GenerateHash(t *testing.T) {
	txn := Transaction{
		Date:     time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC),
		Merchant: "Netflix",
		Amount:   decimal.NewFromInt(649),
		Type:     TypeDebit,
	}

	same := txn
	assert.Equal(t, txn.GenerateHash(), same.GenerateHash())

	other := txn
	other.Amount = decimal.NewFromInt(650)
	assert.NotEqual(t, txn.GenerateHash(), other.GenerateHash())
}
