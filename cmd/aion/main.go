// Aion runs a turn-based elemental battle defined in Lua.
// Usage: aion [--version] [--plain] [--config <file>] [--script <file>]
// [--encounter <id>] [--seed <n>] [--trace] [--log <file>] <battle_directory>
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nathoo/aion/cli"
	"github.com/nathoo/aion/config"
	"github.com/nathoo/aion/engine"
	"github.com/nathoo/aion/loader"
	"github.com/nathoo/aion/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errUsage is returned when the command line cannot be used.
var errUsage = errors.New("usage: aion [--version] [--plain] [--config <file>] [--script <file>] [--encounter <id>] [--seed <n>] [--trace] [--log <file>] <battle_directory>")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("aion", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showVersion := fs.Bool("version", false, "print the version and exit")
	plain := fs.Bool("plain", false, "line-oriented output without the full-screen UI")
	trace := fs.Bool("trace", false, "print combat events after each command")
	configPath := fs.String("config", "", "settings file (default: <battle_directory>/aion.yaml, or $AION_CONFIG)")
	scriptFile := fs.String("script", "", "read commands from a file instead of the terminal")
	encounter := fs.String("encounter", "", "encounter to fight (default: the battle's default encounter)")
	seed := fs.Int64("seed", 0, "random seed (overrides the settings file)")
	logFile := fs.String("log", "", "write logs to a file (the full-screen UI otherwise drops them)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "aion %s (commit %s, built %s)\n", version, commit, date)
		return nil
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	battleDir := fs.Arg(0)

	path := *configPath
	if path == "" {
		path = os.Getenv("AION_CONFIG")
	}
	if path == "" {
		path = filepath.Join(battleDir, "aion.yaml")
	}
	settings, err := config.LoadBattle(path)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	fullScreen := *scriptFile == "" && !*plain && isTerminal()
	logOut, closeLog, err := logOutput(*logFile, fullScreen, stderr)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: parseLogLevel(settings.LogLevel),
	})))

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			settings.Seed = *seed
		}
	})
	if settings.Seed == 0 {
		settings.Seed = time.Now().UnixNano()
	}
	slog.Info("battle starting", "dir", battleDir, "seed", settings.Seed, "settings", path)

	// Load and compile the Lua battle definitions.
	defs, err := loader.Load(battleDir)
	if err != nil {
		return fmt.Errorf("loading battle: %w", err)
	}

	eng, err := engine.New(defs, settings, *encounter)
	if err != nil {
		return fmt.Errorf("starting battle: %w", err)
	}

	header := fmt.Sprintf("%s v%s by %s\n\n", defs.Battle.Title, defs.Battle.Version, defs.Battle.Author)

	// Script mode: read the file, force plain output, echo commands.
	if *scriptFile != "" {
		f, err := os.Open(*scriptFile)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		fmt.Fprint(stdout, header)
		c := cli.New(eng, defs)
		c.In = f
		c.Out = stdout
		c.Plain = true
		c.EchoInput = true
		c.Trace = *trace
		c.Run()
		return nil
	}

	if !fullScreen {
		fmt.Fprint(stdout, header)
		c := cli.New(eng, defs)
		c.Out = stdout
		c.Plain = *plain
		c.Trace = *trace
		c.Run()
		return nil
	}

	return tui.Run(&cli.Session{Engine: eng, Defs: defs, SaveDir: cli.DefaultSaveDir(), Trace: *trace})
}

// logOutput picks where slog writes. Stderr would draw over the full-screen
// UI, so there logs go to the --log file or nowhere.
func logOutput(path string, fullScreen bool, stderr io.Writer) (io.Writer, func() error, error) {
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		return f, f.Close, nil
	}
	nop := func() error { return nil }
	if fullScreen {
		return io.Discard, nop, nil
	}
	return stderr, nop, nil
}

// parseLogLevel converts a settings log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
