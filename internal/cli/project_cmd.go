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

// loadProjectDetail fetches the project's budget and estimates side by
// side. A project without a budget shows none.
func loadProjectDetail(ctx context.Context, q *query.Queries, p domain.Project) (formatter.ProjectDetailData, error) {
	data := formatter.ProjectDetailData{Project: p}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := q.Budgets.Get(ctx, p.ID)
		switch {
		case domain.IsNotFound(err):
			return nil
		case err != nil:
			return fmt.Errorf("loading budget for %s: %w", p.ID, err)
		}
		data.Budget = &b
		return nil
	})
	g.Go(func() error {
		f := domain.MustFilter(domain.KindEstimates, domain.Eq("projectId", p.ID))
		estimates, err := q.Estimates.List(ctx, f)
		if err != nil {
			return fmt.Errorf("loading estimates for %s: %w", p.ID, err)
		}
		data.Estimates = estimates
		return nil
	})
	return data, g.Wait()
}

func newProjectCmd(app *App) *cobra.Command {
	return newEntityCmd(app.Queries.Projects, entityOptions[domain.Project]{
		use:    "project",
		short:  "Manage projects",
		render: formatter.FormatProjectList,
		detail: func(ctx context.Context, p domain.Project) (string, error) {
			data, err := loadProjectDetail(ctx, app.Queries, p)
			if err != nil {
				return "", err
			}
			return formatter.FormatProjectDetail(data), nil
		},
	})
}

func newClientCmd(app *App) *cobra.Command {
	return newEntityCmd(app.Queries.Clients, entityOptions[domain.Client]{
		use:    "client",
		short:  "Manage clients",
		render: formatter.FormatClients,
		detail: func(ctx context.Context, c domain.Client) (string, error) {
			f := domain.MustFilter(domain.KindProjects, domain.Eq("client.id", c.ID))
			projects, err := app.Queries.Projects.List(ctx, f)
			if err != nil {
				return "", err
			}
			out := formatter.Header(c.Name) + "\n" + formatter.KeyValues(
				[2]string{"ID", c.ID},
				[2]string{"Company", c.Company},
				[2]string{"Contact", c.ContactPerson},
				[2]string{"Email", c.Email},
				[2]string{"Phone", c.Phone},
				[2]string{"Address", c.Address},
				[2]string{"Status", formatter.StatusPill(c.Status)},
				[2]string{"Projects", fmt.Sprint(c.ProjectCount)},
				[2]string{"Total", formatter.Money(c.TotalSpent)},
			)
			if len(projects) > 0 {
				out += "\n" + formatter.FormatProjectList(projects)
			}
			return out, nil
		},
	})
}

// newSelectCmd resolves a project through the selection context and prints
// where the dashboard would navigate.
func newSelectCmd(app *App) *cobra.Command {
	var clear bool
	cmd := &cobra.Command{
		Use:   "select [PROJECT-ID]",
		Short: "Select the active project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if clear || len(args) == 0 {
				app.Selection.ClearSelection()
				fmt.Fprintf(out, "Cleared selection (%s)\n", app.History.Path())
				return nil
			}
			if err := app.Selection.SelectProject(cmd.Context(), args[0]); err != nil {
				return err
			}
			p, _ := app.Selection.Active()
			fmt.Fprintf(out, "Selected %s %s (%s)\n", p.ID, p.Name, app.History.Path())
			return nil
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the active project")
	return cmd
}
