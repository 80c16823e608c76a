package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"taskline/internal/config"
	"taskline/internal/interp"
	"taskline/internal/logging"
	"taskline/internal/storage"
	"taskline/internal/ui"
)

type options struct {
	configPath string
	dbPath     string
	logLevel   string
	tui        bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "taskline",
		Short:         "A line-oriented task list",
		Long:          "taskline reads one command per line (todo, deadline, event, list, done, delete, find, bye) and keeps the task list in SQLite.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, opts, stdin, stdout, stderr)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to config.toml (default: user config dir)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "path to the SQLite database")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "run the interactive terminal UI")
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts options, stdin io.Reader, stdout, stderr io.Writer) error {
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath = opts.dbPath
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if cmd.Flags().Changed("tui") {
		cfg.TUI = opts.tui
	}

	logger, closeLog, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	list, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	logger.Debug("loaded tasks", "db", cfg.DBPath, "count", list.Len())

	in := interp.New(list, store, logger)
	if cfg.TUI {
		return ui.Run(ctx, in, cfg)
	}
	return in.Run(ctx, stdin, stdout)
}

// newLogger writes to log_file when configured. Without one, records go to
// stderr in line mode and are dropped under the TUI, which owns the screen.
func newLogger(cfg config.Config, stderr io.Writer) (*log.Logger, func(), error) {
	opts := logging.Options{Level: cfg.LogLevel, Prefix: "taskline"}
	if cfg.LogFile != "" {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, nil, err
		}
		opts.ReportTimestamp = true
		return logging.New(f, opts), func() { f.Close() }, nil
	}
	if cfg.TUI {
		return logging.Discard(), func() {}, nil
	}
	return logging.New(stderr, opts), func() {}, nil
}
