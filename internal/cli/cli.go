package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/modshell/modshell/internal/config"
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

// Parse processes command-line arguments. It returns a validated host
// configuration, a boolean indicating if the program should exit cleanly,
// or an ExitError.
func Parse(args []string, output io.Writer) (*config.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("modshell", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Modshell - A manifest-driven shell for modular web applications.

Usage:
  modshell [options] [MANIFEST_PATH]

Arguments:
  MANIFEST_PATH
    Path to a single .hcl manifest file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	def := config.Default()
	configFlag := flagSet.String("config", "", "Path to a TOML configuration file.")
	manifestFlag := flagSet.String("manifest", "", "Path to the manifest file or directory.")
	mFlag := flagSet.String("m", "", "Path to the manifest file or directory (shorthand).")
	portFlag := flagSet.Int("port", def.ListenPort, "HTTP listen port. 0 picks a free port.")
	logFormatFlag := flagSet.String("log-format", def.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", def.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	logFileFlag := flagSet.String("log-file", "", "Path to a rotating log file. Empty logs to stderr only.")
	shutdownFlag := flagSet.Duration("shutdown-timeout", def.ShutdownTimeout, "Grace period for in-flight requests on shutdown.")
	flagsFlag := flagSet.String("flags", "", "Comma-separated module flags to set before serving.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	cfg := def
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg = loaded
	}

	// Flags given explicitly on the command line win over file values.
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.ListenPort = *portFlag
		case "log-format":
			cfg.LogFormat = strings.ToLower(*logFormatFlag)
		case "log-level":
			cfg.LogLevel = strings.ToLower(*logLevelFlag)
		case "log-file":
			cfg.LogFile = *logFileFlag
		case "shutdown-timeout":
			cfg.ShutdownTimeout = *shutdownFlag
		case "flags":
			cfg.Flags = splitFlagList(*flagsFlag)
		}
	})

	path := cfg.ManifestPath
	if *manifestFlag != "" {
		path = *manifestFlag
	} else if *mFlag != "" {
		path = *mFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Manifest path determined.", "path", path)

	if path == "" {
		slog.Debug("No manifest path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	cfg.ManifestPath = path

	validated, err := config.New(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", validated)
	return validated, false, nil
}

// splitFlagList turns "a, b,c" into ["a" "b" "c"].
func splitFlagList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
