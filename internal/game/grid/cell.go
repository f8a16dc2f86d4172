// Package grid owns the per-cell board state for a level: mine placement,
// adjacency counts, reveal/flag state, and the authoritative light channel.
// It is the leaf dependency of the simulation core; the visibility engine and
// the encounter assignment engine only read from it.
package grid

// Cell is the state of a single board position.
//
// Invariant: AdjacentMines is in [0, 8]. Light is in [0, 1].
// Invariant: HasMine is never cleared once set during play; a resolved
// encounter's cell still reports as a mine for counting purposes.
type Cell struct {
	// HasMine marks the cell as mined (an encounter site).
	HasMine bool
	// AdjacentMines is the count of mined neighbors (8-directional).
	AdjacentMines int
	// Revealed marks the cell as uncovered by the player.
	Revealed bool
	// Flagged marks the cell as flagged by the player.
	Flagged bool
	// Light is the authoritative illumination value in [0, 1]. It is set by
	// gameplay logic; the visibility engine only reads it and derives a
	// separate brightness channel.
	Light float64
	// Active marks the cell as interactable (its encounter not yet resolved).
	Active bool
}

// Lit reports whether the cell counts as illuminated. Cells below the 0.5
// threshold are treated as unlit sources by the visibility engine.
func (c Cell) Lit() bool {
	return c.Light >= 0.5
}
