package grid

// Point is a board coordinate.
type Point struct {
	X int
	Y int
}

// Grid is a fixed-size board of cells with incrementally maintained aggregate
// counters. Aggregates are updated by the mutators, never recomputed.
//
// Invariant: MineCount == number of cells with HasMine.
// Invariant: FlagCount == number of cells with Flagged.
// Invariant: RevealedCount == number of cells with Revealed.
type Grid struct {
	width  int
	height int
	cells  []Cell

	mineCount     int
	flagCount     int
	revealedCount int
}

// New creates an empty width x height grid.
//
// Precondition: width > 0 and height > 0; panics otherwise. Grid dimensions
// come from validated level definitions, so a violation is a programming error.
func New(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic("grid: New called with non-positive dimensions")
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
}

// Width returns the board width.
func (g *Grid) Width() int { return g.width }

// Height returns the board height.
func (g *Grid) Height() int { return g.height }

// MineCount returns the number of mined cells.
func (g *Grid) MineCount() int { return g.mineCount }

// FlagCount returns the number of flagged cells.
func (g *Grid) FlagCount() int { return g.flagCount }

// RevealedCount returns the number of revealed cells.
func (g *Grid) RevealedCount() int { return g.revealedCount }

// InBounds reports whether (x, y) is a valid board coordinate.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Get returns the cell at (x, y). Out-of-range coordinates return a zero Cell
// and false; bounds violations are never fatal.
func (g *Grid) Get(x, y int) (Cell, bool) {
	if !g.InBounds(x, y) {
		return Cell{}, false
	}
	return g.cells[y*g.width+x], true
}

// SetMine sets or clears the mine flag at (x, y), updating the mine count and
// the adjacency counts of the 8 neighbors. Out-of-range coordinates are a
// no-op returning false.
func (g *Grid) SetMine(x, y int, mined bool) bool {
	if !g.InBounds(x, y) {
		return false
	}
	c := &g.cells[y*g.width+x]
	if c.HasMine == mined {
		return true
	}
	c.HasMine = mined

	delta := 1
	if !mined {
		delta = -1
	}
	g.mineCount += delta
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if g.InBounds(nx, ny) {
				g.cells[ny*g.width+nx].AdjacentMines += delta
			}
		}
	}
	return true
}

// Reveal marks the cell at (x, y) revealed. Already-revealed cells are a
// no-op; the revealed counter only moves on the transition.
func (g *Grid) Reveal(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	c := &g.cells[y*g.width+x]
	if !c.Revealed {
		c.Revealed = true
		g.revealedCount++
	}
	return true
}

// ToggleFlag flips the flag at (x, y) and returns its new value. The second
// return is false for out-of-range coordinates.
func (g *Grid) ToggleFlag(x, y int) (bool, bool) {
	if !g.InBounds(x, y) {
		return false, false
	}
	c := &g.cells[y*g.width+x]
	c.Flagged = !c.Flagged
	if c.Flagged {
		g.flagCount++
	} else {
		g.flagCount--
	}
	return c.Flagged, true
}

// SetLight sets the light value at (x, y), clamped to [0, 1].
func (g *Grid) SetLight(x, y int, light float64) bool {
	if !g.InBounds(x, y) {
		return false
	}
	if light < 0 {
		light = 0
	} else if light > 1 {
		light = 1
	}
	g.cells[y*g.width+x].Light = light
	return true
}

// SetActive sets the active (interactable) flag at (x, y).
func (g *Grid) SetActive(x, y int, active bool) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.cells[y*g.width+x].Active = active
	return true
}

// Mines returns the coordinates of every mined cell in row-major order.
func (g *Grid) Mines() []Point {
	mines := make([]Point, 0, g.mineCount)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y*g.width+x].HasMine {
				mines = append(mines, Point{X: x, Y: y})
			}
		}
	}
	return mines
}
