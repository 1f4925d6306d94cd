package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/coordgraph/internal/app"
	"github.com/specialistvlad/coordgraph/internal/cli"
	"github.com/specialistvlad/coordgraph/internal/config"
	"github.com/specialistvlad/coordgraph/internal/hcl_adapter"
	"github.com/specialistvlad/coordgraph/internal/yaml_adapter"
)

// main is the entrypoint for the coordgraph application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, logW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Registering a module twice panics; report it like any other error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	loaders := []config.Loader{hcl_adapter.NewLoader(), yaml_adapter.NewLoader()}
	coordApp, err := app.NewApp(outW, logW, appConfig, loaders)
	if err != nil {
		return err
	}
	return coordApp.Run(context.Background())
}
