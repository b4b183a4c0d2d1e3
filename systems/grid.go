package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cuefire/components"
)

// Neighbor holds a nearby entity with precomputed spatial data.
type Neighbor struct {
	E      ecs.Entity
	DX, DY float64
	DistSq float64
}

// Grid provides cell-based neighbor lookups over the combat corridor.
// Rebuilt from enemy positions each tick and queried per projectile.
type Grid struct {
	cellSize   float64
	cols, rows int
	minX, minY float64
	cells      [][]ecs.Entity
}

// NewGrid creates a grid covering [minX,maxX] x [minY,maxY].
func NewGrid(minX, maxX, minY, maxY, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int((maxX-minX)/cellSize) + 1
	rows := int((maxY-minY)/cellSize) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]ecs.Entity, cols*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 4)
	}

	return &Grid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		minX:     minX,
		minY:     minY,
		cells:    cells,
	}
}

// Clear removes all entities from the grid.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity to the grid at the given position.
func (g *Grid) Insert(e ecs.Entity, x, y float64) {
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], e)
}

// QueryRadiusInto finds entities within radius of (x, y) and appends them to
// dst. Returns the updated slice; reuse dst across calls to avoid
// allocations. Results follow insertion order within each cell, so the scan
// is deterministic for a deterministic insertion sequence.
func (g *Grid) QueryRadiusInto(dst []Neighbor, x, y, radius float64, posMap *ecs.Map1[components.Position]) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1

	centerCol, centerRow := g.cell(x, y)
	radiusSq := radius * radius

	for dr := -cellRadius; dr <= cellRadius; dr++ {
		row := centerRow + dr
		if row < 0 || row >= g.rows {
			continue
		}
		for dc := -cellRadius; dc <= cellRadius; dc++ {
			col := centerCol + dc
			if col < 0 || col >= g.cols {
				continue
			}

			for _, e := range g.cells[row*g.cols+col] {
				pos := posMap.Get(e)
				if pos == nil {
					continue
				}

				dx := pos.X - x
				dy := pos.Y - y
				distSq := dx*dx + dy*dy
				if distSq <= radiusSq {
					dst = append(dst, Neighbor{E: e, DX: dx, DY: dy, DistSq: distSq})
				}
			}
		}
	}

	return dst
}

// cell returns the clamped (col, row) for a world position.
func (g *Grid) cell(x, y float64) (col, row int) {
	col = int((x - g.minX) / g.cellSize)
	row = int((y - g.minY) / g.cellSize)

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

// cellIndex returns the flat index for a world position.
func (g *Grid) cellIndex(x, y float64) int {
	col, row := g.cell(x, y)
	return row*g.cols + col
}
