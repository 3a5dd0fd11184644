package snake

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// Heading is the direction an actor's head moves each tick.
type Heading int

const (
	HeadingNone Heading = iota
	HeadingUp
	HeadingDown
	HeadingLeft
	HeadingRight
)

// ParseHeading converts a config or wire name to a Heading.
func ParseHeading(s string) (Heading, error) {
	switch s {
	case "up":
		return HeadingUp, nil
	case "down":
		return HeadingDown, nil
	case "left":
		return HeadingLeft, nil
	case "right":
		return HeadingRight, nil
	default:
		return HeadingNone, fmt.Errorf("%w: unknown heading %q", ErrInvalidOptions, s)
	}
}

// HeadingFromAction maps a steering action to a heading.
func HeadingFromAction(a core.Action) (Heading, bool) {
	switch a {
	case core.ActionUp:
		return HeadingUp, true
	case core.ActionDown:
		return HeadingDown, true
	case core.ActionLeft:
		return HeadingLeft, true
	case core.ActionRight:
		return HeadingRight, true
	default:
		return HeadingNone, false
	}
}

// Valid reports whether h is one of the four directions.
func (h Heading) Valid() bool {
	return h >= HeadingUp && h <= HeadingRight
}

// Opposite returns the reverse direction.
func (h Heading) Opposite() Heading {
	switch h {
	case HeadingUp:
		return HeadingDown
	case HeadingDown:
		return HeadingUp
	case HeadingLeft:
		return HeadingRight
	case HeadingRight:
		return HeadingLeft
	default:
		return HeadingNone
	}
}

// Delta returns the cell offset for one step along h.
func (h Heading) Delta() (dx, dy int) {
	switch h {
	case HeadingUp:
		return 0, -1
	case HeadingDown:
		return 0, 1
	case HeadingLeft:
		return -1, 0
	case HeadingRight:
		return 1, 0
	default:
		return 0, 0
	}
}

func (h Heading) String() string {
	switch h {
	case HeadingUp:
		return "up"
	case HeadingDown:
		return "down"
	case HeadingLeft:
		return "left"
	case HeadingRight:
		return "right"
	default:
		return "none"
	}
}
