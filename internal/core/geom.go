// Package core provides fundamental types and utilities for the snake arcade.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

// Cell is a discrete grid coordinate. It has no identity beyond its coordinates.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the cell shifted by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Grid is a fixed-size coordinate space with 0 <= x < Width and 0 <= y < Height.
type Grid struct {
	Width  int
	Height int
}

// NewGrid creates a grid with the given dimensions.
func NewGrid(width, height int) Grid {
	return Grid{Width: width, Height: height}
}

// Contains reports whether the cell lies inside the grid bounds.
func (g Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// Area returns the number of cells in the grid.
func (g Grid) Area() int {
	return g.Width * g.Height
}

// Valid reports whether both dimensions are positive.
func (g Grid) Valid() bool {
	return g.Width > 0 && g.Height > 0
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
