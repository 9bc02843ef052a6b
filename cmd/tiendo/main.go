package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/bl815v/Tiendo/cmd/tiendo/internal/commands"
	"github.com/bl815v/Tiendo/internal/launcher"
	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/joho/godotenv"
)

var (
	version = "dev"
	cli     struct {
		LogLevel  string           `help:"log level" default:"info" env:"LOG_LEVEL" enum:"debug,info,warn,error"`
		LogFormat string           `help:"log format" default:"json" env:"LOG_FORMAT" enum:"json,text"`
		Version   kong.VersionFlag `help:"print the version and exit"`

		Serve   commands.ServeCmd   `cmd:"" default:"1" help:"Run the storefront HTTP server"`
		Migrate commands.MigrateCmd `cmd:"" help:"Apply database migrations and exit"`
		Seed    commands.SeedCmd    `cmd:"" help:"Fill the database with fake catalogue data"`
		Launch  commands.LaunchCmd  `cmd:"" help:"Start the server and open it in the browser"`
	}
)

func main() {
	// a missing .env is fine, the environment may already be set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Name("tiendo"),
		kong.Description("Tiendo online storefront"),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	logger, err := logutil.New(cli.LogLevel, cli.LogFormat, os.Stderr)
	cmd.FatalIfErrorf(err)

	err = cmd.Run(&commands.Globals{Logger: logger, Version: version})
	if errors.Is(err, launcher.ErrStartTimeout) {
		fmt.Fprintln(os.Stderr, "Error: server did not start in time")
		stop()
		os.Exit(1)
	}
	cmd.FatalIfErrorf(err)
}
