package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/liturgical-calendar/internal/cli/formatter"
)

func newComputeCmd(app *App) *cobra.Command {
	var (
		flags      calendarFlags
		format     string
		suppressed bool
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute a liturgical calendar",
		Example: `  litcal compute --year 2025
  litcal compute --nation US --year 2024 --type liturgical
  litcal compute --diocese roma --locale it --format json`,
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

			switch format {
			case "json":
				enc := json.NewEncoder(app.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			case "table":
				fmt.Fprint(app.Out, formatter.FormatCalendar(res))
				if suppressed {
					fmt.Fprintln(app.Out)
					fmt.Fprint(app.Out, formatter.FormatSuppressed(res.Suppressed))
				}
				return nil
			default:
				return fmt.Errorf("unknown format %q: use table or json", format)
			}
		},
	}

	flags.bind(cmd, time.Now().Year())
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table or json")
	cmd.Flags().BoolVar(&suppressed, "suppressed", false, "also list suppressed celebrations")

	return cmd
}
