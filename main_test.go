package main

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/iburimskiy/particle-field/internal/config"
)

func defaultThemes(t *testing.T) *config.ThemeSet {
	t.Helper()
	set, err := config.DefaultThemes()
	require.NoError(t, err)
	return set
}

func TestRenderSnapshotIsReproducible(t *testing.T) {
	set := defaultThemes(t)
	log := zaptest.NewLogger(t)

	first, err := renderSnapshot(set, "hero", 200, 120, 30, 9, log)
	require.NoError(t, err)
	second, err := renderSnapshot(set, "hero", 200, 120, 30, 9, log)
	require.NoError(t, err)

	assert.Equal(t, first.Pix, second.Pix)
	assert.Equal(t, 200, first.Bounds().Dx())
}

func TestRenderSnapshotBand(t *testing.T) {
	set := defaultThemes(t)
	img, err := renderSnapshot(set, "muiz-ul-islam", 300, 600, 40, 4, zaptest.NewLogger(t))
	require.NoError(t, err)

	bg := color.RGBA{R: 8, G: 20, B: 40, A: 255}
	assert.Equal(t, bg, img.RGBAAt(150, 550), "below the band is plain background")
	assert.Equal(t, uint8(255), img.RGBAAt(5, 5).A)
}

func TestRenderSnapshotFallsBack(t *testing.T) {
	set := defaultThemes(t)
	img, err := renderSnapshot(set, "nobody", 400, 300, 10, 1, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestRenderSnapshotRejectsBadInput(t *testing.T) {
	set := defaultThemes(t)
	_, err := renderSnapshot(set, "hero", 0, 100, 10, 1, nil)
	assert.Error(t, err)
	_, err = renderSnapshot(set, "hero", 100, 100, 0, 1, nil)
	assert.Error(t, err)
}

func TestPrintThemes(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, printThemes(cmd, defaultThemes(t)))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, out.String(), "Strategic Problem Solver (fallback)")
	assert.Regexp(t, `arooba-iqbal\s+grid\s+-\s+layers`, out.String())
	assert.Regexp(t, `amaz-ahmed\s+glyph\s+-\s+auto`, out.String())
}
