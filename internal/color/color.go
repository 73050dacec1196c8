// Package color provides basic color definitions for a chess game
package color

// Color represent a chess color
type Color string

// Possible color variations in a chess game
const (
	White Color = "w"
	Black Color = "b"
)

// None is the zero value, used when no side is active.
const None Color = ""

// Opp returns the opposite color for the given color.
func (c Color) Opp() Color {
	if c == White {
		return Black
	}

	return White
}

// Label returns the display name of the color.
func (c Color) Label() string {
	if c == White {
		return "White"
	}

	return "Black"
}
