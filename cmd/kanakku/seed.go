package main

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/kanakku-money/kanakku/internal/cli"
	"github.com/kanakku-money/kanakku/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	var (
		months int
		count  int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate sample transactions for trying out the detector",
		Long: `Populate the database with generated data: a salary credit, a rent
payment, a couple of subscriptions, and random one-off purchases spread
over the requested number of months.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			transactions := generateSample(months, count)
			if err := store.SaveTransactions(ctx, transactions); err != nil {
				return fmt.Errorf("failed to save sample data: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("seeded %d transactions over %d months", len(transactions), months)))
			return nil
		},
	}

	cmd.Flags().IntVar(&months, "months", 6, "how many months of history to generate")
	cmd.Flags().IntVar(&count, "random", 40, "how many random one-off purchases to add")
	return cmd
}

// generateSample builds a few deterministic recurring series plus random
// noise purchases, all ending in the current month.
func generateSample(months, random int) []model.Transaction {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 9, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	recurring := []struct {
		merchant string
		category string
		amount   int64
		txnType  model.TransactionType
		day      int
	}{
		{merchant: "Acme Corp Salary", category: "income", amount: 85000, txnType: model.TypeCredit, day: 1},
		{merchant: "House Rent", category: "housing", amount: 22000, txnType: model.TypeDebit, day: 3},
		{merchant: "netflix.com", category: "entertainment", amount: 649, txnType: model.TypeDebit, day: 10},
		{merchant: "Spotify", category: "entertainment", amount: 119, txnType: model.TypeDebit, day: 14},
		{merchant: "State Electricity Board", category: "utilities", amount: 1850, txnType: model.TypeDebit, day: 20},
	}

	var transactions []model.Transaction
	for m := 0; m < months; m++ {
		monthStart := start.AddDate(0, m, 0)
		for _, r := range recurring {
			transactions = append(transactions, model.Transaction{
				ID:         uuid.NewString(),
				Date:       monthStart.AddDate(0, 0, r.day-1),
				Merchant:   r.merchant,
				CategoryID: r.category,
				Type:       r.txnType,
				Amount:     decimal.NewFromInt(r.amount),
			})
		}
	}

	categories := []string{"food", "travel", "shopping", "entertainment", ""}
	for i := 0; i < random; i++ {
		date := gofakeit.DateRange(start, now)
		transactions = append(transactions, model.Transaction{
			ID:         uuid.NewString(),
			Date:       date,
			Merchant:   gofakeit.Company(),
			CategoryID: categories[gofakeit.Number(0, len(categories)-1)],
			Type:       model.TypeDebit,
			Amount:     decimal.NewFromFloat(gofakeit.Price(50, 4000)).Round(2),
		})
	}

	return transactions
}
