package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kanakku-money/kanakku/internal/cli"
	"github.com/kanakku-money/kanakku/internal/model"
	"github.com/kanakku-money/kanakku/internal/recurring"
	"github.com/kanakku-money/kanakku/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Detect and manage recurring transactions",
	}

	cmd.AddCommand(recurringDetectCmd())
	cmd.AddCommand(recurringListCmd())
	cmd.AddCommand(recurringConfirmCmd())

	return cmd
}

func recurringDetectCmd() *cobra.Command {
	var (
		amountTolerance   float64
		intervalTolerance float64
		minOccurrences    int
	)

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Scan stored transactions for recurring patterns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			transactions, err := store.GetTransactions(ctx, service.TransactionFilter{})
			if err != nil {
				return fmt.Errorf("failed to load transactions: %w", err)
			}

			cfg := recurring.DefaultConfig()
			cfg.AmountTolerance = amountTolerance
			cfg.IntervalTolerance = intervalTolerance
			cfg.MinOccurrences = minOccurrences

			patterns := recurring.NewDetector(cfg).Detect(transactions)
			if len(patterns) == 0 {
				fmt.Println(cli.FormatWarning("no recurring patterns found"))
				return nil
			}

			if err := store.SaveRecurringPatterns(ctx, patterns); err != nil {
				return fmt.Errorf("failed to save patterns: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("detected %d recurring patterns", len(patterns))))
			printPatternTable(patterns)
			return nil
		},
	}

	cmd.Flags().Float64Var(&amountTolerance, "amount-tolerance", recurring.DefaultConfig().AmountTolerance, "amount similarity band as a fraction")
	cmd.Flags().Float64Var(&intervalTolerance, "interval-tolerance", recurring.DefaultConfig().IntervalTolerance, "interval deviation band as a fraction")
	cmd.Flags().IntVar(&minOccurrences, "min-occurrences", recurring.DefaultConfig().MinOccurrences, "minimum transactions per pattern")
	return cmd
}

func recurringListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored recurring patterns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			patterns, err := store.GetRecurringPatterns(ctx)
			if err != nil {
				return fmt.Errorf("failed to load patterns: %w", err)
			}
			if len(patterns) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No recurring patterns stored. Run 'kanakku recurring detect' first."))
				return nil
			}

			printPatternTable(patterns)
			return nil
		},
	}
}

func recurringConfirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <merchant> <amount>",
		Short: "Mark a detected pattern as confirmed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.ConfirmRecurringPattern(ctx, args[0], amount); err != nil {
				return fmt.Errorf("failed to confirm pattern: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("confirmed %s at %s", args[0], amount.StringFixed(2))))
			return nil
		},
	}
}

func printPatternTable(patterns []model.RecurringPattern) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.HeaderStyle.Render("Merchant"),
		cli.HeaderStyle.Render("Amount"),
		cli.HeaderStyle.Render("Frequency"),
		cli.HeaderStyle.Render("Type"),
		cli.HeaderStyle.Render("Count"),
		cli.HeaderStyle.Render("Next expected"),
		cli.HeaderStyle.Render("Confirmed"))

	for _, p := range patterns {
		confirmed := ""
		if p.IsUserConfirmed {
			confirmed = cli.SuccessIcon
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			p.MerchantPattern,
			p.Amount.StringFixed(2),
			p.Frequency,
			p.Type,
			len(p.TransactionIDs),
			p.NextExpected.Format("2006-01-02"),
			confirmed)
	}
}
