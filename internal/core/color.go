package core

// Color represents a foreground color for a screen glyph.
type Color uint8

// Palette used by the snake renderer.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorMagenta
	ColorGray
	ColorBrightWhite
)
