package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/buildops/internal/cli/formatter"
	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/alexanderramin/buildops/internal/query"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// loadFinancialSummary fetches every invoice and expense side by side and
// totals them.
func loadFinancialSummary(ctx context.Context, q *query.Queries) (domain.FinancialSummary, error) {
	var (
		invoices []domain.Invoice
		expenses []domain.Expense
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if invoices, err = q.Invoices.List(ctx, domain.Filter{}); err != nil {
			return fmt.Errorf("loading invoices: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if expenses, err = q.Expenses.List(ctx, domain.Filter{}); err != nil {
			return fmt.Errorf("loading expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.FinancialSummary{}, err
	}
	return domain.SummarizeFinances(invoices, expenses), nil
}

func newSummaryCmd(app *App) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show invoiced, paid and overdue totals against expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			s, err := loadFinancialSummary(cmd.Context(), app.Queries)
			if err != nil {
				return err
			}
			if output != outputTable {
				return writeRecord(cmd.OutOrStdout(), output, s)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFinancialSummary(s))
			return nil
		},
	}
	outputFlag(cmd.Flags(), &output, outputTable)
	return cmd
}
