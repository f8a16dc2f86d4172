// Package visibility derives the per-cell brightness field from the grid's
// authoritative light channel. Brightness is a smooth distance-based gradient
// used for display falloff; it never feeds back into the light model.
package visibility

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/lantern/internal/game/grid"
)

// unvisited marks a cell not yet reached by the distance transform.
const unvisited = -1

// neighbors are the 8 king-move offsets; one hop costs exactly 1, giving the
// Chebyshev metric.
var neighbors = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Engine computes a normalized brightness field over a grid via a
// multi-source breadth-first distance transform. Unlit cells (light < 0.5)
// are sources at distance 0; the positions one step outside each grid edge
// act as virtual sources, seeding the boundary row/column at distance 1 so
// the field fades naturally at the board's outer edge.
//
// The full field is recomputed from scratch on every light change. That is an
// O(width*height) pass per change, acceptable at the board sizes this system
// targets; an incremental update seeded from changed cells is the known
// scaling path if boards ever grow past a few thousand cells.
type Engine struct {
	falloffRadius float64
	field         []float64
	width         int
	height        int
	forced        map[grid.Point]bool
	logger        *zap.Logger
}

// NewEngine creates an Engine with the given falloff radius.
//
// Precondition: falloffRadius > 0; logger must be non-nil.
func NewEngine(falloffRadius float64, logger *zap.Logger) *Engine {
	if falloffRadius <= 0 {
		panic("visibility: NewEngine called with falloffRadius <= 0")
	}
	return &Engine{
		falloffRadius: falloffRadius,
		forced:        make(map[grid.Point]bool),
		logger:        logger,
	}
}

// FalloffRadius returns the current normalization radius.
func (e *Engine) FalloffRadius() float64 { return e.falloffRadius }

// SetFalloffRadius updates the normalization radius. The field is stale until
// the next Recompute; vision rewards call this and then recompute.
//
// Precondition: r > 0; smaller values are ignored.
func (e *Engine) SetFalloffRadius(r float64) {
	if r > 0 {
		e.falloffRadius = r
	}
}

// Recompute rebuilds the brightness field from g's light values.
//
// Postcondition: every unlit cell has brightness 0 (unless force-brightened),
// every value is in [0, 1], and the distances of any two 8-adjacent cells
// differ by at most 1.
func (e *Engine) Recompute(g *grid.Grid) {
	w, h := g.Width(), g.Height()
	e.width, e.height = w, h

	dist := make([]int, w*h)
	for i := range dist {
		dist[i] = unvisited
	}

	// Seed: unlit cells are sources at distance 0.
	queue := make([]grid.Point, 0, w*h)
	sources := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c, _ := g.Get(x, y)
			if !c.Lit() {
				dist[y*w+x] = 0
				queue = append(queue, grid.Point{X: x, Y: y})
				sources++
			}
		}
	}

	// Virtual sources one step beyond each edge: every boundary cell not
	// already a source starts at distance 1. Enqueued after all distance-0
	// sources, preserving BFS order.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x != 0 && x != w-1 && y != 0 && y != h-1 {
				continue
			}
			if dist[y*w+x] == unvisited {
				dist[y*w+x] = 1
				queue = append(queue, grid.Point{X: x, Y: y})
			}
		}
	}

	for head := 0; head < len(queue); head++ {
		p := queue[head]
		d := dist[p.Y*w+p.X]
		for _, n := range neighbors {
			nx, ny := p.X+n[0], p.Y+n[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			if dist[ny*w+nx] == unvisited {
				dist[ny*w+nx] = d + 1
				queue = append(queue, grid.Point{X: nx, Y: ny})
			}
		}
	}

	e.field = make([]float64, w*h)
	for i, d := range dist {
		e.field[i] = clamp01(float64(d) / e.falloffRadius)
	}
	for p := range e.forced {
		if p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h {
			e.field[p.Y*w+p.X] = 1
		}
	}

	e.logger.Debug("visibility field recomputed",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("sources", sources),
	)
}

// Brightness returns the derived brightness at (x, y) in [0, 1]. Out-of-range
// coordinates and cells outside the last recomputed field return 0, false.
func (e *Engine) Brightness(x, y int) (float64, bool) {
	if x < 0 || x >= e.width || y < 0 || y >= e.height {
		return 0, false
	}
	if e.field == nil {
		return 0, false
	}
	return e.field[y*e.width+x], true
}

// ForceBright pins (x, y) to maximum brightness in the derived overlay
// without touching the underlying light model. The pin survives later
// recomputes; it keeps a resolved encounter's marker fully visible regardless
// of lighting changes.
func (e *Engine) ForceBright(x, y int) {
	e.forced[grid.Point{X: x, Y: y}] = true
	if e.field != nil && x >= 0 && x < e.width && y >= 0 && y < e.height {
		e.field[y*e.width+x] = 1
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
