package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kanakku-money/kanakku/internal/cli"
	"github.com/kanakku-money/kanakku/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from a CSV file",
		Long: `Import transactions from a CSV export.

Expected columns: date, amount, type, merchant, category.
Dates use 2006-01-02 format; type is DEBIT, CREDIT, or blank for unknown.
Duplicate rows (same date, amount, merchant, type) are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer func() { _ = file.Close() }()

			transactions, err := parseCSV(file)
			if err != nil {
				return err
			}
			if len(transactions) == 0 {
				fmt.Println(cli.FormatWarning("no transactions found in file"))
				return nil
			}

			bar := progressbar.NewOptions(len(transactions),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Importing transactions..."),
			)

			const batchSize = 100
			for start := 0; start < len(transactions); start += batchSize {
				end := start + batchSize
				if end > len(transactions) {
					end = len(transactions)
				}
				if err := store.SaveTransactions(ctx, transactions[start:end]); err != nil {
					return fmt.Errorf("failed to save transactions: %w", err)
				}
				_ = bar.Add(end - start)
			}
			fmt.Fprintln(os.Stderr)

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("imported %d transactions", len(transactions))))
			return nil
		},
	}
	return cmd
}

func parseCSV(r io.Reader) ([]model.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var transactions []model.Transaction
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line++

		// Skip a header row.
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "date") {
			continue
		}
		if len(record) < 4 {
			return nil, fmt.Errorf("line %d: expected at least 4 columns, got %d", line, len(record))
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid date %q: %w", line, record[0], err)
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q: %w", line, record[1], err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("line %d: amount must not be negative", line)
		}

		txn := model.Transaction{
			ID:       uuid.NewString(),
			Date:     date,
			Amount:   amount,
			Type:     model.ParseTransactionType(record[2]),
			Merchant: strings.TrimSpace(record[3]),
		}
		if len(record) > 4 {
			txn.CategoryID = strings.TrimSpace(record[4])
		}

		transactions = append(transactions, txn)
	}

	return transactions, nil
}
