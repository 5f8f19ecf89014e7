package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/alexanderramin/buildops/internal/query"
	"github.com/alexanderramin/buildops/internal/repository"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// entityOptions describes how one kind is presented on the command line.
type entityOptions[T any] struct {
	use     string
	aliases []string
	short   string
	render  func([]T) string
	// detail renders "show"; the default prints the record as YAML.
	detail func(ctx context.Context, v T) (string, error)
	// readOnly omits create, update and delete.
	readOnly bool
}

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// writeRecord prints v as JSON or YAML using its JSON field names.
func writeRecord(w io.Writer, format string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if format == outputJSON {
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

func outputFlag(fs *pflag.FlagSet, target *string, def string) {
	fs.StringVarP(target, "output", "o", def, "Output format: table, json or yaml")
}

func checkOutput(format string) error {
	switch format {
	case outputTable, outputJSON, outputYAML:
		return nil
	}
	return domain.Invalid("output", "unknown format %q", format)
}

// newEntityCmd builds list/show/create/update/delete for one kind, all
// going through the query cache.
func newEntityCmd[T any, P repository.EntityPtr[T]](r *query.Resource[T, P], opts entityOptions[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:     opts.use,
		Aliases: opts.aliases,
		Short:   opts.short,
	}
	cmd.AddCommand(newListCmd(r, opts), newShowCmd(r, opts))
	if !opts.readOnly {
		cmd.AddCommand(newCreateCmd(r), newUpdateCmd(r), newDeleteCmd(r))
	}
	return cmd
}

func newListCmd[T any, P repository.EntityPtr[T]](r *query.Resource[T, P], opts entityOptions[T]) *cobra.Command {
	var output string
	fields := domain.FilterFields(r.Kind())
	values := make([]string, len(fields))

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + string(r.Kind()),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			var terms []domain.Term
			for i, f := range fields {
				if cmd.Flags().Changed(f.Name) {
					terms = append(terms, domain.Eq(f.Name, values[i]))
				}
			}
			filter, err := domain.NewFilter(r.Kind(), terms...)
			if err != nil {
				return err
			}
			items, err := r.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != outputTable {
				return writeRecord(out, output, items)
			}
			if len(items) == 0 {
				fmt.Fprintf(out, "No %s found.\n", r.Kind())
				return nil
			}
			fmt.Fprint(out, opts.render(items))
			return nil
		},
	}
	for i, f := range fields {
		cmd.Flags().StringVar(&values[i], f.Name, "", "Only records whose "+f.Name+" equals this value")
	}
	outputFlag(cmd.Flags(), &output, outputTable)
	return cmd
}

func newShowCmd[T any, P repository.EntityPtr[T]](r *query.Resource[T, P], opts entityOptions[T]) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one " + r.Kind().Singular(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			v, err := r.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if output != outputTable || opts.detail == nil {
				return writeRecord(out, output, v)
			}
			text, err := opts.detail(cmd.Context(), v)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, text)
			return nil
		},
	}
	outputFlag(cmd.Flags(), &output, outputTable)
	return cmd
}

func newCreateCmd[T any, P repository.EntityPtr[T]](r *query.Resource[T, P]) *cobra.Command {
	var payload payloadFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + r.Kind().Singular(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := payload.document(cmd.InOrStdin())
			if err != nil {
				return err
			}
			var draft T
			if err := decodeStrict(raw, &draft); err != nil {
				return err
			}
			created, err := r.Create(cmd.Context(), draft, query.Callbacks[T]{})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s\n", r.Kind().Singular(), P(&created).EntityID())
			return nil
		},
	}
	payload.register(cmd.Flags())
	return cmd
}

func newUpdateCmd[T any, P repository.EntityPtr[T]](r *query.Resource[T, P]) *cobra.Command {
	var payload payloadFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update fields of a " + r.Kind().Singular(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := payload.document(cmd.InOrStdin())
			if err != nil {
				return err
			}
			patch, err := jsonPatch[T](raw)
			if err != nil {
				return err
			}
			updated, err := r.Update(cmd.Context(), args[0], patch, query.Callbacks[T]{})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", r.Kind().Singular(), P(&updated).EntityID())
			return nil
		},
	}
	payload.register(cmd.Flags())
	return cmd
}

func newDeleteCmd[T any, P repository.EntityPtr[T]](r *query.Resource[T, P]) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a " + r.Kind().Singular(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.Delete(cmd.Context(), args[0], query.Callbacks[string]{}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", r.Kind().Singular(), args[0])
			return nil
		},
	}
}
