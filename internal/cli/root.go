// Package cli implements the litcal command line: computing calendars,
// printing key dates and advisories, and importing reference data.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/liturgical-calendar/internal/cli/formatter"
	"github.com/zapponejosh/liturgical-calendar/internal/database"
	"github.com/zapponejosh/liturgical-calendar/internal/engine"
	"github.com/zapponejosh/liturgical-calendar/internal/logger"
	"github.com/zapponejosh/liturgical-calendar/internal/refdata"
)

// App holds the output streams and lazily opened dependencies shared by
// the commands.
type App struct {
	Out   io.Writer
	Err   io.Writer
	Plain bool // disables ANSI styling

	dbPath   string
	logLevel string

	logger *slog.Logger
	db     *database.DB
	engine *engine.Engine
}

// NewRootCmd creates the top-level "litcal" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "litcal",
		Short:         "Roman Rite liturgical calendar",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.logger = logger.New(app.Err, app.logLevel, "text")
			formatter.SetPlain(app.Plain)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}
	root.SetOut(app.Out)
	root.SetErr(app.Err)

	root.PersistentFlags().StringVar(&app.dbPath, "db", "", "read reference data from this SQLite database instead of the embedded copy")
	root.PersistentFlags().StringVar(&app.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newComputeCmd(app),
		newAdvisoriesCmd(app),
		newDatesCmd(app),
		newScopesCmd(app),
		newImportCmd(app),
	)

	return root
}

// Engine returns the calendar engine, opening the reference data source on
// first use.
func (app *App) Engine(ctx context.Context) (*engine.Engine, error) {
	if app.engine != nil {
		return app.engine, nil
	}
	if app.logger == nil {
		app.logger = logger.Discard()
	}

	var src refdata.Source = refdata.NewEmbedded()
	if app.dbPath != "" {
		db, err := app.openDB(ctx)
		if err != nil {
			return nil, err
		}
		src = db
	}
	app.engine = engine.New(refdata.NewRepository(src), app.logger)
	return app.engine, nil
}

func (app *App) openDB(ctx context.Context) (*database.DB, error) {
	if app.db != nil {
		return app.db, nil
	}
	db, err := database.Open(database.DefaultConfig(app.dbPath), app.logger)
	if err != nil {
		return nil, err
	}
	if _, err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", app.dbPath, err)
	}
	app.db = db
	return db, nil
}

// Close releases the database, if one was opened.
func (app *App) Close() error {
	if app.db == nil {
		return nil
	}
	err := app.db.Close()
	app.db = nil
	app.engine = nil
	return err
}
