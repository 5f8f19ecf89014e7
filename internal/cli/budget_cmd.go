package cli

import (
	"fmt"

	"github.com/alexanderramin/buildops/internal/cli/formatter"
	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/alexanderramin/buildops/internal/query"
	"github.com/spf13/cobra"
)

func newBudgetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Inspect and edit project budgets",
	}
	cmd.AddCommand(
		newBudgetShowCmd(app),
		newBudgetSetTotalCmd(app),
		newBudgetAddCategoryCmd(app),
		newBudgetUpdateCategoryCmd(app),
		newBudgetRemoveCategoryCmd(app),
	)
	return cmd
}

func newBudgetShowCmd(app *App) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show PROJECT-ID",
		Short: "Show a project's budget and categories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			b, err := app.Queries.Budgets.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output != outputTable {
				return writeRecord(cmd.OutOrStdout(), output, b)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBudget(b))
			return nil
		},
	}
	outputFlag(cmd.Flags(), &output, outputTable)
	return cmd
}

func newBudgetSetTotalCmd(app *App) *cobra.Command {
	var total float64
	cmd := &cobra.Command{
		Use:   "set-total PROJECT-ID",
		Short: "Change a project's total budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.Queries.Budgets.Update(cmd.Context(), args[0],
				domain.BudgetPatch{TotalBudget: &total}, query.Callbacks[domain.Budget]{})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Budget %s total %s, remaining %s\n",
				b.ID, formatter.Money(b.TotalBudget), formatter.Money(b.RemainingBudget))
			return nil
		},
	}
	cmd.Flags().Float64Var(&total, "total", 0, "New total budget")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}

func newBudgetAddCategoryCmd(app *App) *cobra.Command {
	var (
		name              string
		allocation, spent float64
	)
	cmd := &cobra.Command{
		Use:   "add-category PROJECT-ID",
		Short: "Add a budget category; creates the budget if the project has none",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Queries.Budgets.AddCategory(cmd.Context(), args[0], domain.BudgetCategory{
				Name: name, Allocation: allocation, Spent: spent,
			}, query.Callbacks[domain.BudgetCategory]{})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added category %s %s (remaining %s)\n",
				c.ID, c.Name, formatter.Money(c.Remaining))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Category name")
	cmd.Flags().Float64Var(&allocation, "allocation", 0, "Allocated amount")
	cmd.Flags().Float64Var(&spent, "spent", 0, "Amount spent so far")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("allocation")
	return cmd
}

func newBudgetUpdateCategoryCmd(app *App) *cobra.Command {
	var (
		name              string
		allocation, spent float64
	)
	cmd := &cobra.Command{
		Use:   "update-category PROJECT-ID CATEGORY-ID",
		Short: "Change a budget category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.BudgetCategoryPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("allocation") {
				patch.Allocation = &allocation
			}
			if cmd.Flags().Changed("spent") {
				patch.Spent = &spent
			}
			if patch == (domain.BudgetCategoryPatch{}) {
				return domain.Invalid("category", "nothing to update; pass --name, --allocation or --spent")
			}
			c, err := app.Queries.Budgets.UpdateCategory(cmd.Context(), args[0], args[1], patch,
				query.Callbacks[domain.BudgetCategory]{})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated category %s %s (remaining %s)\n",
				c.ID, c.Name, formatter.Money(c.Remaining))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Category name")
	cmd.Flags().Float64Var(&allocation, "allocation", 0, "Allocated amount")
	cmd.Flags().Float64Var(&spent, "spent", 0, "Amount spent so far")
	return cmd
}

func newBudgetRemoveCategoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-category PROJECT-ID CATEGORY-ID",
		Short: "Remove a budget category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.Queries.Budgets.DeleteCategory(cmd.Context(), args[0], args[1], query.Callbacks[string]{})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed category %s from %s\n", args[1], args[0])
			return nil
		},
	}
}
