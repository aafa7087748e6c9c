package config

const (
	WindowWidth  = 1280
	WindowHeight = 720

	// Frames per second of the terminal ticker; ebiten drives the window at its own TPS.
	FrameRate = 60

	// Height of the decorative band behind profile headers
	BandHeight = 400

	// Terminal cell size in virtual pixels
	CellWidth  = 8
	CellHeight = 16

	// Soundtrack level
	VisualRingSize  = 8192
	LevelWindow     = 2048
	SmoothingFactor = 0.6

	// Button dimensions
	ButtonWidth  = 150
	ButtonHeight = 32
	ButtonX      = 20
	ButtonY      = 40

	// Theme menu
	MenuX          = 20
	MenuY          = 84
	MenuItemHeight = 24
	MenuWidth      = 260

	DefaultTheme = "hero"
)
