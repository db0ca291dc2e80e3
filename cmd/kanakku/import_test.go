package main

import (
	"strings"
	"testing"

	"github.com/kanakku-money/kanakku/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	input := `date,amount,type,merchant,category
2026-01-05,649,DEBIT,netflix.com,entertainment
2026-01-31,85000,CREDIT,Acme Corp Salary,income
2026-02-01,120.50,,Corner Cafe
`

	transactions, err := parseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, transactions, 3)

	assert.Equal(t, "netflix.com", transactions[0].Merchant)
	assert.Equal(t, model.TypeDebit, transactions[0].Type)
	assert.Equal(t, "entertainment", transactions[0].CategoryID)
	assert.True(t, transactions[0].Amount.Equal(decimal.NewFromInt(649)))

	assert.Equal(t, model.TypeCredit, transactions[1].Type)

	assert.Equal(t, model.TypeUnknown, transactions[2].Type)
	assert.Empty(t, transactions[2].CategoryID)
	assert.True(t, transactions[2].Amount.Equal(decimal.RequireFromString("120.50")))

	assert.NotEmpty(t, transactions[0].ID)
	assert.NotEqual(t, transactions[0].ID, transactions[1].ID)
}

func TestParseCSV_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad date", "05/01/2026,649,DEBIT,netflix.com\n"},
		{"bad amount", "2026-01-05,six hundred,DEBIT,netflix.com\n"},
		{"negative amount", "2026-01-05,-649,DEBIT,netflix.com\n"},
		{"too few columns", "2026-01-05,649\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCSV(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestGenerateSample(t *testing.T) {
	transactions := generateSample(6, 10)

	// 5 recurring series over 6 months plus the random purchases.
	assert.Len(t, transactions, 5*6+10)

	seen := make(map[string]bool)
	for _, txn := range transactions {
		assert.False(t, seen[txn.ID], "IDs must be unique")
		seen[txn.ID] = true
		assert.False(t, txn.Amount.IsNegative())
	}
}
