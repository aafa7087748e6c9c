package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iburimskiy/particle-field/internal/config"
)

var (
	// Global flags
	configPath string
	themeID    string
	seed       int64
	watch      bool
	verbose    bool
	logFile    string

	// Logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "particle-field",
	Short: "Ambient particle backgrounds for the desktop and the terminal",
	Long: `particle-field animates decorative particle themes: drifting dots, a linked
network, a pulsing neural grid, brush strokes and falling code.

Run without a subcommand to open the window. A soundtrack opened from the
window speeds the particles up with its loudness.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		if logFile != "" {
			cfg.OutputPaths = []string{logFile}
			cfg.ErrorOutputPaths = []string{logFile}
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runWindow,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "theme file (defaults to the built-in themes)")
	rootCmd.PersistentFlags().StringVarP(&themeID, "theme", "t", config.DefaultTheme, "theme id; unknown ids use the fallback theme")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	rootCmd.PersistentFlags().BoolVarP(&watch, "watch", "w", false, "reload the theme file when it changes")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(windowCmd, termCmd, snapshotCmd, themesCmd)
}

// watchThemes streams reloaded theme files while --watch is set. The
// returned stop function cancels the watcher and waits for it.
func watchThemes(ctx context.Context) (<-chan *config.ThemeSet, func()) {
	if !watch {
		return nil, func() {}
	}
	if configPath == "" {
		logger.Warn("--watch needs --config, built-in themes are not reloaded")
		return nil, func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	updates := make(chan *config.ThemeSet, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := config.Watch(ctx, configPath, logger, func(set *config.ThemeSet) {
			select {
			case updates <- set:
			case <-ctx.Done():
			}
		})
		if err != nil {
			logger.Error("theme watcher stopped", zap.Error(err))
		}
	}()
	return updates, func() {
		cancel()
		<-done
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
