package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/particle-field/internal/field"
)

//go:embed themes.yaml
var defaultThemes []byte

// Span is a [min, max] pair in the theme file.
type Span [2]float64

func (s Span) rng() field.Range { return field.Range{Min: s[0], Max: s[1]} }

// LinkSpec configures mesh or grid edges.
type LinkSpec struct {
	Distance float64 `yaml:"distance"` // mesh edge threshold in pixels
	Opacity  float64 `yaml:"opacity"`  // opacity at distance 0, or the grid pulse swing
	Floor    float64 `yaml:"floor"`    // grid edge opacity floor
	Width    float64 `yaml:"width"`
}

// HaloSpec configures the ring drawn around grid nodes.
type HaloSpec struct {
	Gap   float64 `yaml:"gap"`
	Alpha float64 `yaml:"alpha"`
}

// Theme is one decorative background as written in the theme file.
type Theme struct {
	ID       string  `yaml:"id"`
	Title    string  `yaml:"title"`
	Kind     string  `yaml:"kind"`
	Boundary string  `yaml:"boundary"`
	Count    int     `yaml:"count"`
	Fade     float64 `yaml:"fade"`
	Height   float64 `yaml:"height"`  // fixed band height, 0 fills the viewport
	Opacity  float64 `yaml:"opacity"` // how strongly the host composites the surface

	Speed     Span     `yaml:"speed"`
	Radius    Span     `yaml:"radius"`
	Alpha     Span     `yaml:"alpha"`
	Length    Span     `yaml:"length"`
	Spin      Span     `yaml:"spin"`
	Palette   []string `yaml:"palette"`
	LineWidth float64  `yaml:"lineWidth"`
	Link      LinkSpec `yaml:"link"`

	Layers []int    `yaml:"layers"`
	Margin float64  `yaml:"margin"`
	Pulse  float64  `yaml:"pulse"`
	Halo   HaloSpec `yaml:"halo"`

	Charset       string  `yaml:"charset"`
	FontSize      float64 `yaml:"fontSize"`
	RespawnChance float64 `yaml:"respawnChance"`

	HueCycle  float64 `yaml:"hueCycle"`
	SpeedGain float64 `yaml:"speedGain"`

	kind     field.Kind
	boundary field.Boundary
	palette  []color.NRGBA
}

// ThemeSet is a parsed theme file.
type ThemeSet struct {
	Background string  `yaml:"background"`
	Fallback   string  `yaml:"fallback"`
	Themes     []Theme `yaml:"themes"`

	bg   color.NRGBA
	byID map[string]int
}

// LoadThemes reads a theme file; an empty path selects the built-in themes.
func LoadThemes(path string) (*ThemeSet, error) {
	if path == "" {
		return DefaultThemes()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file %s: %w", path, err)
	}
	set, err := ParseThemes(data)
	if err != nil {
		return nil, fmt.Errorf("theme file %s: %w", path, err)
	}
	return set, nil
}

// DefaultThemes returns the built-in themes.
func DefaultThemes() (*ThemeSet, error) {
	return ParseThemes(defaultThemes)
}

// ParseThemes decodes and validates theme YAML.
func ParseThemes(data []byte) (*ThemeSet, error) {
	var set ThemeSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse theme YAML: %w", err)
	}
	if err := set.validate(); err != nil {
		return nil, fmt.Errorf("invalid themes: %w", err)
	}
	return &set, nil
}

func (s *ThemeSet) validate() error {
	if len(s.Themes) == 0 {
		return fmt.Errorf("at least one theme is required")
	}

	bg, err := parseColor(s.Background)
	if err != nil {
		return fmt.Errorf("background: %w", err)
	}
	s.bg = bg

	s.byID = make(map[string]int, len(s.Themes))
	for i := range s.Themes {
		t := &s.Themes[i]
		if t.ID == "" {
			return fmt.Errorf("theme #%d: id is required", i)
		}
		if _, dup := s.byID[t.ID]; dup {
			return fmt.Errorf("theme %s: duplicate id", t.ID)
		}
		if err := t.validate(); err != nil {
			return fmt.Errorf("theme %s: %w", t.ID, err)
		}
		s.byID[t.ID] = i
	}

	if s.Fallback == "" {
		s.Fallback = s.Themes[0].ID
	}
	if _, ok := s.byID[s.Fallback]; !ok {
		return fmt.Errorf("fallback theme %q is not defined", s.Fallback)
	}
	return nil
}

func (t *Theme) validate() error {
	var err error
	if t.kind, err = field.ParseKind(t.Kind); err != nil {
		return err
	}
	if t.Boundary != "" {
		if t.boundary, err = field.ParseBoundary(t.Boundary); err != nil {
			return err
		}
	} else if t.kind != field.KindGrid && t.kind != field.KindGlyph {
		return fmt.Errorf("boundary is required for kind %s", t.Kind)
	}
	if t.boundary == field.BoundaryStatic && t.kind != field.KindGrid {
		return fmt.Errorf("boundary static would let kind %s drift off the surface", t.Kind)
	}

	if t.Fade <= 0 || t.Fade > 1 {
		return fmt.Errorf("fade must be in (0,1], got %v", t.Fade)
	}
	if t.Opacity < 0 || t.Opacity > 1 {
		return fmt.Errorf("opacity must be in [0,1], got %v", t.Opacity)
	}
	if t.Opacity == 0 {
		t.Opacity = 1
	}
	if t.Height < 0 {
		return fmt.Errorf("height cannot be negative, got %v", t.Height)
	}
	if t.Count < 0 {
		return fmt.Errorf("count cannot be negative, got %d", t.Count)
	}

	switch t.kind {
	case field.KindPoint, field.KindSegment:
		if t.Count == 0 {
			return fmt.Errorf("count is required for kind %s", t.Kind)
		}
	case field.KindGrid:
		if len(t.Layers) < 2 {
			return fmt.Errorf("grid needs at least 2 layers, got %d", len(t.Layers))
		}
	case field.KindGlyph:
		if t.Charset == "" || t.FontSize <= 0 {
			return fmt.Errorf("glyph themes need a charset and a positive fontSize")
		}
	}

	for _, span := range []Span{t.Speed, t.Radius, t.Alpha, t.Length, t.Spin} {
		if span[0] > span[1] {
			return fmt.Errorf("range [%v, %v] is reversed", span[0], span[1])
		}
	}

	if len(t.Palette) == 0 {
		return fmt.Errorf("palette needs at least one color")
	}
	t.palette = make([]color.NRGBA, 0, len(t.Palette))
	for _, hex := range t.Palette {
		c, err := parseColor(hex)
		if err != nil {
			return fmt.Errorf("palette: %w", err)
		}
		t.palette = append(t.palette, c)
	}
	return nil
}

func parseColor(hex string) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// Get returns the theme with the given id.
func (s *ThemeSet) Get(id string) (Theme, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Theme{}, false
	}
	return s.Themes[i], true
}

// Lookup returns the theme for id, or the fallback theme when id is unknown.
func (s *ThemeSet) Lookup(id string) Theme {
	if t, ok := s.Get(id); ok {
		return t
	}
	t, _ := s.Get(s.Fallback)
	return t
}

// IDs lists theme ids in file order.
func (s *ThemeSet) IDs() []string {
	ids := make([]string, len(s.Themes))
	for i, t := range s.Themes {
		ids[i] = t.ID
	}
	return ids
}

func (s *ThemeSet) BackgroundColor() color.NRGBA { return s.bg }

// SurfaceSize is the surface a theme occupies inside a viewW x viewH viewport.
func (t Theme) SurfaceSize(viewW, viewH float64) (w, h float64) {
	if t.Height > 0 {
		return viewW, t.Height
	}
	return viewW, viewH
}

// SurfaceConfig builds the animation parameters for theme t on a viewport
// of viewW x viewH. A zero seed lets the animator pick a time-based one.
func (s *ThemeSet) SurfaceConfig(t Theme, viewW, viewH float64, seed int64) field.SurfaceConfig {
	w, h := t.SurfaceSize(viewW, viewH)
	return field.SurfaceConfig{
		Width:      w,
		Height:     h,
		Background: s.bg,
		FadeAlpha:  t.Fade,

		Kind:     t.kind,
		Boundary: t.boundary,
		Count:    t.Count,
		Seed:     seed,

		Speed:   t.Speed.rng(),
		Radius:  t.Radius.rng(),
		Alpha:   t.Alpha.rng(),
		Length:  t.Length.rng(),
		Spin:    t.Spin.rng(),
		Palette: append([]color.NRGBA(nil), t.palette...),

		LineWidth: t.LineWidth,
		Link: field.Link{
			Distance: t.Link.Distance,
			Opacity:  t.Link.Opacity,
			Floor:    t.Link.Floor,
			Width:    t.Link.Width,
		},

		Layers:    append([]int(nil), t.Layers...),
		Margin:    t.Margin,
		PulseRate: t.Pulse,
		HaloGap:   t.Halo.Gap,
		HaloAlpha: t.Halo.Alpha,

		Charset:       t.Charset,
		FontSize:      t.FontSize,
		RespawnChance: t.RespawnChance,

		HueCycle:  t.HueCycle,
		SpeedGain: t.SpeedGain,
	}
}
