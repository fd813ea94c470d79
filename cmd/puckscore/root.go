package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"puckscore/internal/config"
	"puckscore/internal/logger"
)

// Version is the application version.
const Version = "0.1.0"

var (
	// cfg and appLogger are set up before any subcommand runs
	cfg       *config.Config
	appLogger *logger.Logger

	logDir string
)

var rootCmd = &cobra.Command{
	Use:           "puckscore",
	Short:         "Score puck detections streamed from a vision board over serial",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-dir") {
			cfg.LogDirectory = logDir
		}

		appLogger, err = logger.NewLogger(cfg)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLogger != nil {
			appLogger.Close()
		}
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "directory for info/warning/error log files (default: $LOG_DIR, console only when empty)")
}

// outputFlags are shared by the commands that drive a session.
type outputFlags struct {
	headless bool
	httpAddr string
	history  string
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.headless, "headless", false, "do not open a window")
	cmd.Flags().StringVar(&o.httpAddr, "http", "", "serve the live viewer feed on this address (default: $HTTP_ADDR)")
	cmd.Flags().StringVar(&o.history, "history", "", "record rendered batches to this SQLite file (default: $HISTORY_DB)")
}

func (o *outputFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if o.headless {
		cfg.DisplayEnabled = false
	}
	if cmd.Flags().Changed("http") {
		cfg.HTTPAddr = o.httpAddr
	}
	if cmd.Flags().Changed("history") {
		cfg.HistoryDB = o.history
	}
}
