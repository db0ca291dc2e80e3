package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/kanakku-money/kanakku/internal/budget"
	"github.com/kanakku-money/kanakku/internal/cli"
	"github.com/kanakku-money/kanakku/internal/model"
	"github.com/kanakku-money/kanakku/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage spending budgets",
	}

	cmd.AddCommand(budgetsAddCmd())
	cmd.AddCommand(budgetsListCmd())
	cmd.AddCommand(budgetsDeleteCmd())

	return cmd
}

func budgetsAddCmd() *cobra.Command {
	var (
		category string
		amount   string
		period   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a budget",
		Long:  `Create a monthly or weekly budget. Omit --category for an overall budget.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			limit, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}
			if !limit.IsPositive() {
				return fmt.Errorf("budget amount must be positive")
			}

			var budgetPeriod model.BudgetPeriod
			switch period {
			case "monthly":
				budgetPeriod = model.PeriodMonthly
			case "weekly":
				budgetPeriod = model.PeriodWeekly
			default:
				return fmt.Errorf("invalid period %q (monthly or weekly)", period)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			b := model.Budget{
				Amount:    limit,
				Period:    budgetPeriod,
				StartDate: time.Now(),
			}
			if category != "" {
				b.CategoryID = &category
			}

			if err := store.SaveBudget(ctx, &b); err != nil {
				return fmt.Errorf("failed to save budget: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("created budget %d for %s (%s %s)",
				b.ID, b.CategoryKey(), limit.StringFixed(2), period)))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "category the budget applies to (empty = overall)")
	cmd.Flags().StringVar(&amount, "amount", "", "spending limit")
	cmd.Flags().StringVar(&period, "period", "monthly", "budget period (monthly, weekly)")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func budgetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budgets with current-period progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			budgets, err := store.GetBudgets(ctx)
			if err != nil {
				return fmt.Errorf("failed to load budgets: %w", err)
			}
			if len(budgets) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No budgets defined. Use 'kanakku budgets add' to create one."))
				return nil
			}

			now := time.Now()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Period"),
				cli.HeaderStyle.Render("Limit"),
				cli.HeaderStyle.Render("Spent"),
				cli.HeaderStyle.Render("Used"),
				cli.HeaderStyle.Render("Status"))

			for i := range budgets {
				b := budgets[i]
				window := budget.CurrentWindow(b.Period, now)

				filter := service.TransactionFilter{StartDate: &window.Start, EndDate: &window.End}
				if b.CategoryID != nil {
					filter.CategoryID = b.CategoryID
				}
				transactions, err := store.GetTransactions(ctx, filter)
				if err != nil {
					return fmt.Errorf("failed to load spend for budget %d: %w", b.ID, err)
				}

				spent := decimal.Zero
				for j := range transactions {
					if transactions[j].Type == model.TypeDebit {
						spent = spent.Add(transactions[j].Amount)
					}
				}

				progress := budget.Progress(b, spent)
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.1f%%\t%s\n",
					b.ID, b.CategoryKey(), b.Period,
					progress.Limit.StringFixed(2), progress.Spent.StringFixed(2),
					progress.Percentage, styleStatus(progress.Status))
			}
			return nil
		},
	}
}

func styleStatus(status model.BudgetStatus) string {
	switch status {
	case model.StatusExceeded:
		return cli.ErrorStyle.Render(string(status))
	case model.StatusApproaching:
		return cli.WarningStyle.Render(string(status))
	default:
		return cli.SuccessStyle.Render(string(status))
	}
}

func budgetsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid budget id %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteBudget(ctx, id); err != nil {
				return fmt.Errorf("failed to delete budget: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("deleted budget %d", id)))
			return nil
		},
	}
}
