// Package level defines authored level layouts: board dimensions, mine
// placement, initial lighting, forced encounter types, and optional
// exact-target counts. Levels are loaded from YAML and validated before the
// grid is built.
package level

import (
	"fmt"

	"github.com/cory-johannsen/lantern/internal/game/encounter"
	"github.com/cory-johannsen/lantern/internal/game/grid"
)

// Level is a validated level definition.
type Level struct {
	// ID is the stable level identifier.
	ID string
	// Name is the display name.
	Name string
	// Width and Height are the board dimensions.
	Width  int
	Height int
	// Mines are the encounter cell coordinates.
	Mines []grid.Point
	// Lit are the cells illuminated at level start.
	Lit []grid.Point
	// Forced maps mine coordinates to level-authored encounter types that
	// bypass weighted selection.
	Forced map[grid.Point]encounter.Type
	// Targets, when non-empty, selects exact-target assignment with these
	// per-type counts.
	Targets map[encounter.Type]int
	// ScriptDir is an optional directory of Lua level scripts.
	ScriptDir string
}

// Validate checks the level's invariants.
//
// Postcondition: Returns nil iff dimensions are positive, every coordinate
// is in bounds, mines are unique, every forced coordinate is a mine, and all
// targets are non-negative with recognised types.
func (l *Level) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("level: id must not be empty")
	}
	if l.Width < 1 || l.Height < 1 {
		return fmt.Errorf("level %s: dimensions must be positive, got %dx%d", l.ID, l.Width, l.Height)
	}

	mineSet := make(map[grid.Point]bool, len(l.Mines))
	for _, p := range l.Mines {
		if !l.inBounds(p) {
			return fmt.Errorf("level %s: mine (%d,%d) out of bounds", l.ID, p.X, p.Y)
		}
		if mineSet[p] {
			return fmt.Errorf("level %s: duplicate mine (%d,%d)", l.ID, p.X, p.Y)
		}
		mineSet[p] = true
	}

	for _, p := range l.Lit {
		if !l.inBounds(p) {
			return fmt.Errorf("level %s: lit cell (%d,%d) out of bounds", l.ID, p.X, p.Y)
		}
	}

	for p, t := range l.Forced {
		if !mineSet[p] {
			return fmt.Errorf("level %s: forced type at (%d,%d) is not a mine", l.ID, p.X, p.Y)
		}
		if !t.Valid() {
			return fmt.Errorf("level %s: forced type %q at (%d,%d) is not recognised", l.ID, t, p.X, p.Y)
		}
	}

	for t, n := range l.Targets {
		if !t.Valid() {
			return fmt.Errorf("level %s: target type %q is not recognised", l.ID, t)
		}
		if n < 0 {
			return fmt.Errorf("level %s: target for %s must be >= 0, got %d", l.ID, t, n)
		}
	}

	return nil
}

// BuildGrid creates the level's starting grid: mines placed, lit cells at
// full light, everything else dark.
//
// Precondition: l must have passed Validate().
func (l *Level) BuildGrid() *grid.Grid {
	g := grid.New(l.Width, l.Height)
	for _, p := range l.Mines {
		g.SetMine(p.X, p.Y, true)
		g.SetActive(p.X, p.Y, true)
	}
	for _, p := range l.Lit {
		g.SetLight(p.X, p.Y, 1)
	}
	return g
}

func (l *Level) inBounds(p grid.Point) bool {
	return p.X >= 0 && p.X < l.Width && p.Y >= 0 && p.Y < l.Height
}
