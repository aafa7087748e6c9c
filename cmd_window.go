package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-field/internal/app"
	"github.com/iburimskiy/particle-field/internal/audio"
	"github.com/iburimskiy/particle-field/internal/config"
)

var soundtrack string

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Open the animation window (default)",
	Long: `Opens a resizable window showing one theme.

Keys:
  M           theme menu
  Left/Right  previous / next theme
  O           open a soundtrack (wav, mp3, flac)
  Space       pause the soundtrack
  Esc, Q      quit`,
	Args: cobra.NoArgs,
	RunE: runWindow,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, windowCmd} {
		c.Flags().StringVar(&soundtrack, "soundtrack", "", "audio file to play on start")
	}
}

func runWindow(cmd *cobra.Command, args []string) error {
	themes, err := config.LoadThemes(configPath)
	if err != nil {
		return err
	}

	player := audio.NewPlayer(audio.Speaker(), logger)
	if soundtrack != "" {
		if err := player.Open(soundtrack); err != nil {
			return fmt.Errorf("failed to open soundtrack: %w", err)
		}
	}

	reload, stop := watchThemes(cmd.Context())
	defer stop()

	logger.Info("opening window", zap.String("theme", themeID), zap.Int64("seed", seed))
	return app.Run(app.New(app.Options{
		Themes: themes,
		Theme:  themeID,
		Seed:   seed,
		Player: player,
		Reload: reload,
		Log:    logger,
	}))
}
