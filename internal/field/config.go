package field

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand"
)

// Kind selects what a primitive looks like and how it moves.
type Kind int

const (
	KindPoint Kind = iota
	KindSegment
	KindGlyph
	KindGrid
)

var kindNames = map[Kind]string{
	KindPoint:   "point",
	KindSegment: "segment",
	KindGlyph:   "glyph",
	KindGrid:    "grid",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a theme file name onto a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown primitive kind %q", s)
}

// Boundary is the rule applied when a primitive leaves the surface.
type Boundary int

const (
	BoundaryWrap Boundary = iota
	BoundaryReflect
	BoundaryRespawn
	BoundaryStatic
)

var boundaryNames = map[Boundary]string{
	BoundaryWrap:    "wrap",
	BoundaryReflect: "reflect",
	BoundaryRespawn: "respawn",
	BoundaryStatic:  "static",
}

func (b Boundary) String() string {
	if s, ok := boundaryNames[b]; ok {
		return s
	}
	return fmt.Sprintf("boundary(%d)", int(b))
}

// ParseBoundary maps a theme file name onto a Boundary.
func ParseBoundary(s string) (Boundary, error) {
	for b, name := range boundaryNames {
		if name == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown boundary policy %q", s)
}

// Range is a closed-open interval [Min, Max) sampled uniformly.
type Range struct {
	Min, Max float64
}

// Fixed returns a degenerate range that always yields v.
func Fixed(v float64) Range { return Range{Min: v, Max: v} }

func (r Range) sample(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Link configures the edges drawn between points (mesh) or grid layers.
// Mesh edges use Opacity*(1-d/Distance); grid edges use Floor+|sin|*Opacity.
type Link struct {
	Distance float64
	Opacity  float64
	Floor    float64
	Width    float64
}

// SurfaceConfig describes one animation: the surface it fills and the
// parameters its primitives are generated from.
type SurfaceConfig struct {
	Width, Height float64
	Background    color.NRGBA
	FadeAlpha     float64

	Kind     Kind
	Boundary Boundary
	Count    int
	Seed     int64

	Speed   Range // linear velocity per axis, or drift along the heading for segments
	Radius  Range // disc radius, or node radius swing for grids
	Alpha   Range
	Length  Range // segment length
	Spin    Range // angular speed for segments
	Palette []color.NRGBA

	LineWidth float64
	Link      Link

	// grid
	Layers    []int
	Margin    float64
	PulseRate float64
	HaloGap   float64
	HaloAlpha float64

	// glyph
	Charset       string
	FontSize      float64
	RespawnChance float64

	HueCycle  float64
	SpeedGain float64
}

var errNoPalette = errors.New("palette must contain at least one color")

// Resolve fills in counts that derive from other fields and reports
// whether the configuration can be animated.
func (c *SurfaceConfig) Resolve() error {
	if _, ok := kindNames[c.Kind]; !ok {
		return fmt.Errorf("unknown primitive kind %s", c.Kind)
	}
	if _, ok := boundaryNames[c.Boundary]; !ok {
		return fmt.Errorf("unknown boundary %s", c.Boundary)
	}
	if c.Boundary == BoundaryStatic && c.Kind != KindGrid {
		return fmt.Errorf("boundary static only suits the grid, not kind %s", c.Kind)
	}

	switch c.Kind {
	case KindGrid:
		n := 0
		for _, l := range c.Layers {
			if l <= 0 {
				return fmt.Errorf("grid layer size must be positive, got %d", l)
			}
			n += l
		}
		if len(c.Layers) < 2 {
			return fmt.Errorf("grid needs at least 2 layers, got %d", len(c.Layers))
		}
		c.Count = n
		c.Boundary = BoundaryStatic
	case KindGlyph:
		if c.FontSize <= 0 {
			return fmt.Errorf("glyph font size must be positive, got %v", c.FontSize)
		}
		if len([]rune(c.Charset)) == 0 {
			return errors.New("glyph charset is empty")
		}
		if c.Count == 0 {
			c.Count = int(math.Floor(c.Width / c.FontSize))
		}
	}

	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("surface must have positive size, got %vx%v", c.Width, c.Height)
	}
	if c.Count <= 0 {
		return fmt.Errorf("primitive count must be positive, got %d", c.Count)
	}
	if c.FadeAlpha <= 0 || c.FadeAlpha > 1 {
		return fmt.Errorf("fade alpha must be in (0,1], got %v", c.FadeAlpha)
	}
	if len(c.Palette) == 0 {
		return errNoPalette
	}
	return nil
}
