package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/liturgical-calendar/internal/cli/formatter"
	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
)

func newAdvisoriesCmd(app *App) *cobra.Command {
	var (
		flags    calendarFlags
		severity string
	)

	cmd := &cobra.Command{
		Use:   "advisories",
		Short: "List the placement decisions of a calendar",
		Long: `List the advisories a computation produced: transfers, suppressions,
reinstatements and the coincidences no rule resolves.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.params(cmd)
			if err != nil {
				return err
			}
			eng, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}
			res, err := eng.Compute(cmd.Context(), p)
			if err != nil {
				return err
			}

			advs := res.Advisories
			if severity != "" {
				advs = filterSeverity(advs, liturgy.Severity(severity))
			}
			fmt.Fprint(app.Out, formatter.FormatAdvisories(advs))
			return nil
		},
	}

	flags.bind(cmd, time.Now().Year())
	cmd.Flags().StringVarP(&severity, "severity", "s", "", "only show info, coincidence or adjudication advisories")

	return cmd
}

func filterSeverity(advs []liturgy.Advisory, sev liturgy.Severity) []liturgy.Advisory {
	var out []liturgy.Advisory
	for _, a := range advs {
		if a.Severity == sev {
			out = append(out, a)
		}
	}
	return out
}
