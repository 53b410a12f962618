package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/liturgical-calendar/internal/cli/formatter"
)

func newScopesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "scopes",
		Short: "List the nations and dioceses that have a calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}
			cat, err := eng.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(app.Out, formatter.FormatScopes(cat))
			return nil
		},
	}
}
