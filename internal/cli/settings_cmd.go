package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/buildops/internal/cli/formatter"
	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/alexanderramin/buildops/internal/query"
	"github.com/alexanderramin/buildops/internal/repository"
	"github.com/spf13/cobra"
)

// settingsSection adapts one typed settings resource to the command line.
type settingsSection struct {
	name   string
	get    func(ctx context.Context) (any, string, error)
	update func(ctx context.Context, raw []byte) (string, error)
}

func section[T any, P repository.SectionPtr[T]](name string, r *query.SettingResource[T, P], render func(T) string) settingsSection {
	return settingsSection{
		name: name,
		get: func(ctx context.Context) (any, string, error) {
			v, err := r.Get(ctx)
			if err != nil {
				return nil, "", err
			}
			return v, render(v), nil
		},
		update: func(ctx context.Context, raw []byte) (string, error) {
			patch, err := jsonPatch[T](raw)
			if err != nil {
				return "", err
			}
			v, err := r.Update(ctx, patch, query.Callbacks[T]{})
			if err != nil {
				return "", err
			}
			return render(v), nil
		},
	}
}

func settingsSections(q *query.Queries) []settingsSection {
	return []settingsSection{
		section(domain.SectionCompany, q.Settings.Company, formatter.FormatCompanySettings),
		section(domain.SectionPreferences, q.Settings.Preferences, formatter.FormatUserPreferences),
		section(domain.SectionSystem, q.Settings.System, formatter.FormatSystemSettings),
	}
}

func findSection(sections []settingsSection, name string) (settingsSection, error) {
	for _, s := range sections {
		if strings.EqualFold(s.name, name) {
			return s, nil
		}
	}
	return settingsSection{}, domain.Invalid("section", "unknown settings section %q (want one of %v)", name, domain.Sections())
}

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change company, preference and system settings",
	}
	cmd.AddCommand(newSettingsShowCmd(app), newSettingsSetCmd(app))
	return cmd
}

func newSettingsShowCmd(app *App) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show [SECTION]",
		Short: "Show one settings section, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			sections := settingsSections(app.Queries)
			if len(args) == 1 {
				s, err := findSection(sections, args[0])
				if err != nil {
					return err
				}
				sections = []settingsSection{s}
			}

			values := make(map[string]any, len(sections))
			texts := make([]string, 0, len(sections))
			for _, s := range sections {
				v, text, err := s.get(cmd.Context())
				if err != nil {
					return err
				}
				values[s.name] = v
				texts = append(texts, text)
			}

			out := cmd.OutOrStdout()
			if output != outputTable {
				if len(args) == 1 {
					return writeRecord(out, output, values[sections[0].name])
				}
				return writeRecord(out, output, values)
			}
			fmt.Fprint(out, strings.Join(texts, "\n"))
			return nil
		},
	}
	outputFlag(cmd.Flags(), &output, outputTable)
	return cmd
}

func newSettingsSetCmd(app *App) *cobra.Command {
	var payload payloadFlags
	cmd := &cobra.Command{
		Use:   "set SECTION",
		Short: "Update fields of one settings section",
		Example: "  buildops settings set preferences --set theme=dark --set notifications.sms=true\n" +
			"  buildops settings set system --set timeFormat=24h",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := findSection(settingsSections(app.Queries), args[0])
			if err != nil {
				return err
			}
			raw, err := payload.document(cmd.InOrStdin())
			if err != nil {
				return err
			}
			text, err := s.update(cmd.Context(), raw)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	payload.register(cmd.Flags())
	return cmd
}
