package main

import (
	"fmt"
	"os"
	"time"

	"github.com/kanakku-money/kanakku/internal/budget"
	"github.com/kanakku-money/kanakku/internal/cli"
	"github.com/kanakku-money/kanakku/internal/service"
	"github.com/spf13/cobra"
)

func alertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Check and maintain budget threshold alerts",
	}

	cmd.AddCommand(alertsCheckCmd())
	cmd.AddCommand(alertsClearCmd())

	return cmd
}

func alertsCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Evaluate budgets and fire newly crossed threshold alerts",
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
			transactions, err := store.GetTransactions(ctx, service.TransactionFilter{})
			if err != nil {
				return fmt.Errorf("failed to load transactions: %w", err)
			}

			svc := budget.NewAlertService(
				store.AlertStore(),
				cli.NewConsoleNotifier(os.Stdout),
				service.RealClock{},
			)

			fired, err := svc.CheckBudgetAlerts(ctx, budgets, transactions, alertSettingsFromConfig())
			if err != nil {
				return fmt.Errorf("alert check failed: %w", err)
			}

			if fired == 0 {
				fmt.Println(cli.SubtleStyle.Render("No new alerts."))
			} else {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("%d new alert(s) fired", fired)))
			}
			return nil
		},
	}
}

func alertsClearCmd() *cobra.Command {
	var stale bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear alert-sent flags",
		Long: `Clear alert-sent flags so alerts can fire again.

By default every flag is removed. With --stale, only flags from finished
periods are removed and the current month and week are kept.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := budget.NewAlertService(store.AlertStore(), nil, service.RealClock{})

			var cleared int
			if stale {
				cleared, err = svc.ClearOldAlerts(ctx, budget.CurrentPeriodKeys(time.Now()))
			} else {
				cleared, err = svc.ClearAllAlerts(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to clear alerts: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("cleared %d alert flag(s)", cleared)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&stale, "stale", false, "only clear flags from finished periods")
	return cmd
}
