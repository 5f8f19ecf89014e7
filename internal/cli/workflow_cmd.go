package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/buildops/internal/cli/formatter"
	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/alexanderramin/buildops/internal/query"
	"github.com/spf13/cobra"
)

// exportLinks lists the remote export URLs for a record under the
// configured API origin.
func exportLinks(app *App, links ...[2]string) string {
	for i := range links {
		links[i][1] = app.Config.ExportURL(links[i][1])
	}
	return formatter.ExportLinks(links...)
}

func newEstimateCmd(app *App) *cobra.Command {
	return newEntityCmd(app.Queries.Estimates, entityOptions[domain.Estimate]{
		use: "estimate", short: "Manage estimates", render: formatter.FormatEstimates,
		detail: func(_ context.Context, e domain.Estimate) (string, error) {
			return formatter.FormatEstimateDetail(e) + "\n" + exportLinks(app,
				[2]string{"PDF", "estimates/" + e.ID + "/export/pdf"},
				[2]string{"Excel", "estimates/" + e.ID + "/export/excel"},
			), nil
		},
	})
}

func newPayrollCmd(app *App) *cobra.Command {
	cmd := newEntityCmd(app.Queries.Payrolls, entityOptions[domain.Payroll]{
		use: "payroll", short: "Manage payroll runs", render: formatter.FormatPayrolls,
		detail: func(_ context.Context, p domain.Payroll) (string, error) {
			return formatter.FormatPayrollDetail(p) + "\n" + exportLinks(app,
				[2]string{"PDF", "payrolls/" + p.ID + "/export/pdf"},
			), nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "process ID",
		Short: "Advance a payroll: Draft, then Processing, then Paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Queries.ProcessPayroll(cmd.Context(), args[0], query.Callbacks[domain.Payroll]{})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Payroll %s is now %s\n", p.ID, p.Status)
			return nil
		},
	})
	return cmd
}

func newReportCmd(app *App) *cobra.Command {
	cmd := newEntityCmd(app.Queries.Reports, entityOptions[domain.Report]{
		use: "report", short: "Manage reports", render: formatter.FormatReports,
	})
	var output string
	detail := &cobra.Command{
		Use:   "detail ID",
		Short: "Show a report with its chart data and variance table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			d, err := app.Queries.ReportDetail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output != outputTable {
				return writeRecord(cmd.OutOrStdout(), output, d)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReportDetail(d))
			fmt.Fprint(cmd.OutOrStdout(), "\n"+exportLinks(app,
				[2]string{"PDF", "reports/" + d.ID + "/pdf"},
				[2]string{"Excel", "reports/" + d.ID + "/excel"},
			))
			return nil
		},
	}
	outputFlag(detail.Flags(), &output, outputTable)
	cmd.AddCommand(detail)
	return cmd
}
