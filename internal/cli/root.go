package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/alexanderramin/buildops/internal/cli/formatter"
	"github.com/alexanderramin/buildops/internal/config"
	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/alexanderramin/buildops/internal/query"
	"github.com/alexanderramin/buildops/internal/selection"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// App holds everything the commands and the dashboard share.
type App struct {
	Queries   *query.Queries
	Selection *selection.Context
	History   *selection.History
	Config    config.Config
	Logger    *slog.Logger
	// Gatherer backs the /metrics endpoint of "serve".
	Gatherer prometheus.Gatherer

	// IsInteractive reports whether stdout is a terminal; running the bare
	// command on one opens the dashboard.
	IsInteractive bool

	// RunDashboard starts the TUI. Tests replace it to avoid a real terminal.
	RunDashboard func(ctx context.Context, app *App, in io.Reader, out io.Writer) error
}

// NewRootCmd creates the top-level "buildops" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "buildops",
		Short:         "Construction management back office",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.IsInteractive {
				return cmd.Help()
			}
			return runDashboard(cmd, app)
		},
	}

	root.AddCommand(
		newProjectCmd(app),
		newClientCmd(app),
		newEstimateCmd(app),
		newEntityCmd(app.Queries.Invoices, entityOptions[domain.Invoice]{
			use: "invoice", short: "Manage invoices", render: formatter.FormatInvoices,
		}),
		newEntityCmd(app.Queries.Expenses, entityOptions[domain.Expense]{
			use: "expense", short: "Manage expenses", render: formatter.FormatExpenses,
		}),
		newEntityCmd(app.Queries.Wages, entityOptions[domain.Wage]{
			use: "wage", short: "Manage wage entries", render: formatter.FormatWages,
		}),
		newPayrollCmd(app),
		newEntityCmd(app.Queries.Proposals, entityOptions[domain.Proposal]{
			use: "proposal", short: "Manage proposals", render: formatter.FormatProposals,
		}),
		newEntityCmd(app.Queries.PurchaseOrders, entityOptions[domain.PurchaseOrder]{
			use: "purchase-order", aliases: []string{"po"}, short: "Manage purchase orders",
			render: formatter.FormatPurchaseOrders,
		}),
		newReportCmd(app),
		newEntityCmd(app.Queries.Events, entityOptions[domain.Event]{
			use: "event", short: "Manage calendar events", render: formatter.FormatEvents,
		}),
		newEntityCmd(app.Queries.Team, entityOptions[domain.TeamMember]{
			use: "team", short: "Manage team members", render: formatter.FormatTeam,
		}),
		newBudgetCmd(app),
		newSummaryCmd(app),
		newSettingsCmd(app),
		newSelectCmd(app),
		newServeCmd(app),
		newDashboardCmd(app),
	)

	return root
}
