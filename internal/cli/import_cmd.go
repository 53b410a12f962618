package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/liturgical-calendar/internal/cli/formatter"
	"github.com/zapponejosh/liturgical-calendar/internal/config"
	"github.com/zapponejosh/liturgical-calendar/internal/database"
	"github.com/zapponejosh/liturgical-calendar/internal/refdata"
)

func newImportCmd(app *App) *cobra.Command {
	var (
		dir     string
		history int
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import reference data into the SQLite database",
		Long: `Import copies the reference documents into the database given by --db
(or DATABASE_PATH). Documents come from --dir when set, laid out as
<kind>/<id>.json, and from the built-in data otherwise.

The set is validated before anything is written; documents the source no
longer has are removed. Running the import twice is a no-op.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if app.dbPath == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				app.dbPath = cfg.DatabasePath
			}

			var (
				src    refdata.Source = refdata.NewEmbedded()
				origin                = "embedded"
			)
			if dir != "" {
				if _, err := os.Stat(dir); err != nil {
					return fmt.Errorf("source directory: %w", err)
				}
				src = refdata.NewFS(os.DirFS(dir))
				origin = dir
			}

			db, err := app.openDB(ctx)
			if err != nil {
				return err
			}
			run, err := db.Import(ctx, src, origin)
			if err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "Imported %d documents from %s into %s (%d new, %d updated, %d unchanged, %d removed)\n",
				run.Total(), origin, app.dbPath, run.Inserted, run.Updated, run.Unchanged, run.Removed)

			if history > 0 {
				runs, err := db.RecentImports(ctx, history)
				if err != nil {
					return err
				}
				fmt.Fprintln(app.Out)
				fmt.Fprint(app.Out, formatImports(runs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory of reference documents (default: built-in data)")
	cmd.Flags().IntVar(&history, "history", 0, "also show the last N imports")

	return cmd
}

func formatImports(runs []database.ImportRun) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		when := ""
		if r.ImportedAt != nil {
			when = r.ImportedAt.Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			when,
			r.Origin,
			strconv.Itoa(r.Inserted),
			strconv.Itoa(r.Updated),
			strconv.Itoa(r.Unchanged),
			strconv.Itoa(r.Removed),
		})
	}
	return formatter.RenderTable([]string{"ID", "IMPORTED AT", "ORIGIN", "NEW", "UPDATED", "UNCHANGED", "REMOVED"}, rows)
}
