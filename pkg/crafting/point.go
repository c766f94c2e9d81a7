// Package crafting implements the dot-grid crafting engine: a resource pool,
// a square occupancy grid, an ordered recipe catalog, and the matcher that
// turns a pure shape on the grid into a crafted artifact.
//
// Everything in this package is synchronous. A Session is not safe for
// concurrent use; hosts that serve several goroutines must guard each
// session with their own lock.
package crafting

import "fmt"

// Point represents a grid coordinate (x, y) with origin at top-left.
// It is used both for absolute cells and for recipe-relative offsets,
// which may be negative.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Add returns the point translated by offset.
func (p Point) Add(offset Point) Point {
	return Point{X: p.X + offset.X, Y: p.Y + offset.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}
