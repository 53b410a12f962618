// Command import loads the calendar reference documents into the SQLite
// database served by cmd/api when DATA_SOURCE=sqlite.
//
// Usage:
//
//	go run ./cmd/import --db data/calendar.db
//	go run ./cmd/import --dir ./refdata --history 5
//
// It is shorthand for "litcal import". The import is idempotent; documents
// that did not change are left untouched.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/zapponejosh/liturgical-calendar/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &cli.App{Out: os.Stdout, Err: os.Stderr, Plain: true}

	root := cli.NewRootCmd(app)
	root.SetArgs(append([]string{"import", "--log-level", "info"}, os.Args[1:]...))

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "import failed:", err)
		app.Close()
		os.Exit(1)
	}
}
