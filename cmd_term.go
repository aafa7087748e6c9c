package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/term"
)

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Animate a theme in the terminal",
	Long: `Runs a theme on the terminal, one cell per 8x16 pixels.

Keys: Left/Right or n/p cycle themes, Esc, q or Ctrl-C quit.
Logs go nowhere unless --log-file is set, to keep the screen clean.`,
	Args: cobra.NoArgs,
	RunE: runTerm,
}

func runTerm(cmd *cobra.Command, args []string) error {
	themes, err := config.LoadThemes(configPath)
	if err != nil {
		return err
	}

	log := logger
	if logFile == "" {
		log = zap.NewNop()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reload, stop := watchThemes(ctx)
	defer stop()

	return term.Run(ctx, screen, term.Options{
		Themes: themes,
		Theme:  themeID,
		Seed:   seed,
		Reload: reload,
		Log:    log,
	})
}
