package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/coordgraph/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// pathList collects a repeatable flag.
type pathList []string

func (p *pathList) String() string { return strings.Join(*p, ",") }

func (p *pathList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("coordgraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
coordgraph - Compute coordinates of labeled data from a conversion graph.

Usage:
  coordgraph [options] -data DATA_FILE -coords NAME[,NAME...] [GRAPH_PATH...]

Arguments:
  GRAPH_PATH
    Path to a graph file (.hcl, .yaml, .yml) or a directory containing them.

Options:
`)
		flagSet.PrintDefaults()
	}

	var graphPaths pathList
	flagSet.Var(&graphPaths, "graph", "Path to a graph file or directory. Can be repeated.")
	flagSet.Var(&graphPaths, "g", "Path to a graph file or directory (shorthand).")
	dataFlag := flagSet.String("data", "", "Path to the YAML data file.")
	coordsFlag := flagSet.String("coords", "", "Comma-separated names of the coordinates to compute.")
	keepAliasesFlag := flagSet.Bool("keep-aliases", false, "Keep the inputs of rename rules as attributes.")
	keepDimsFlag := flagSet.Bool("keep-dims", false, "Do not rename dimensions to the coordinates computed from them.")
	parallelFlag := flagSet.Bool("parallel", false, "Transform the members of a dataset concurrently.")
	showFlag := flagSet.Bool("show", false, "Print the graph needed for the coordinates in DOT format and exit.")
	formatFlag := flagSet.String("format", app.FormatYAML, "Output format. Options: 'yaml' or 'spew'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	graphPaths = append(graphPaths, flagSet.Args()...)
	slog.Debug("Graph paths determined.", "paths", graphPaths)

	if len(graphPaths) == 0 && *dataFlag == "" && *coordsFlag == "" {
		slog.Debug("Nothing to do, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		GraphPaths:  graphPaths,
		DataPath:    *dataFlag,
		Coords:      splitNames(*coordsFlag),
		KeepAliases: *keepAliasesFlag,
		KeepDims:    *keepDimsFlag,
		Parallel:    *parallelFlag,
		Show:        *showFlag,
		Format:      strings.ToLower(*formatFlag),
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func splitNames(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
