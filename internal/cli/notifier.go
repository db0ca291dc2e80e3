package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/kanakku-money/kanakku/internal/service"
)

// ConsoleNotifier presents budget alerts on the terminal. It stands in for
// the platform notification layer behind service.Notifier.
type ConsoleNotifier struct {
	writer io.Writer
}

// NewConsoleNotifier creates a notifier writing styled alerts to w.
func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{writer: w}
}

// Notify renders one threshold-crossing alert.
func (n *ConsoleNotifier) Notify(_ context.Context, alert service.BudgetAlert) error {
	style := WarningStyle
	label := "approaching budget"
	if alert.Threshold >= 100 {
		style = ErrorStyle
		label = "budget exceeded"
	}

	msg := fmt.Sprintf("%s %s: %s spent %s of %s (%.1f%%) in %s",
		AlertIcon, label, alert.Category,
		alert.Spent.StringFixed(2), alert.Limit.StringFixed(2),
		alert.Percentage, alert.PeriodKey)

	if _, err := fmt.Fprintln(n.writer, style.Render(msg)); err != nil {
		return fmt.Errorf("failed to write alert: %w", err)
	}

	slog.Debug("budget alert presented",
		"category", alert.Category,
		"threshold", alert.Threshold,
		"period", alert.PeriodKey)
	return nil
}
