package core

import "testing"

func TestGridContains(t *testing.T) {
	g := NewGrid(30, 20)

	tests := []struct {
		name     string
		cell     Cell
		expected bool
	}{
		{"origin", Cell{0, 0}, true},
		{"center", Cell{15, 10}, true},
		{"bottom-right corner", Cell{29, 19}, true},
		{"right edge (exclusive)", Cell{30, 10}, false},
		{"bottom edge (exclusive)", Cell{10, 20}, false},
		{"negative x", Cell{-1, 5}, false},
		{"negative y", Cell{5, -1}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.Contains(tc.cell); got != tc.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tc.cell, got, tc.expected)
			}
		})
	}
}

func TestGridAreaAndValid(t *testing.T) {
	if a := NewGrid(30, 20).Area(); a != 600 {
		t.Errorf("Area() = %d, expected 600", a)
	}
	if !NewGrid(1, 1).Valid() {
		t.Error("1x1 grid should be valid")
	}
	if NewGrid(0, 10).Valid() {
		t.Error("0-width grid should be invalid")
	}
	if NewGrid(10, -1).Valid() {
		t.Error("negative-height grid should be invalid")
	}
}

func TestCellAdd(t *testing.T) {
	c := Cell{X: 15, Y: 10}
	if got := c.Add(1, 0); got != (Cell{16, 10}) {
		t.Errorf("Add(1, 0) = %v", got)
	}
	if got := c.Add(0, -1); got != (Cell{15, 9}) {
		t.Errorf("Add(0, -1) = %v", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}
