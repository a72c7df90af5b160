// Package systems provides the per-frame simulation stages.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
)

// CellRange is an inclusive block of grid cells, already clipped to the grid.
// An empty range has MinCol > MaxCol.
type CellRange struct {
	MinCol, MaxCol int
	MinRow, MaxRow int
}

// Empty reports whether the range covers no cells.
func (r CellRange) Empty() bool {
	return r.MinCol > r.MaxCol || r.MinRow > r.MaxRow
}

// SpatialGrid is a uniform grid over the world extent. Each cell tracks the
// food slots and body segments whose current position maps to it.
// Out-of-bounds positions are never stored and query as empty.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	food     [][]int32      // food slot indices per cell
	bodies   [][]ecs.Entity // body segments per cell
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	food := make([][]int32, cols*rows)
	bodies := make([][]ecs.Entity, cols*rows)
	for i := range food {
		food[i] = make([]int32, 0, 4)
		bodies[i] = make([]ecs.Entity, 0, 4)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		food:     food,
		bodies:   bodies,
	}
}

// Dims returns the number of columns and rows.
func (g *SpatialGrid) Dims() (cols, rows int) {
	return g.cols, g.rows
}

// CellSize returns the edge length of one cell in world units.
func (g *SpatialGrid) CellSize() float32 {
	return g.cellSize
}

// Clear removes everything from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.food {
		g.food[i] = g.food[i][:0]
		g.bodies[i] = g.bodies[i][:0]
	}
}

// CellOf returns the cell coordinates containing a world position.
// The result may lie outside the grid.
func (g *SpatialGrid) CellOf(x, y float32) (col, row int) {
	col = int(math.Floor(float64(x / g.cellSize)))
	row = int(math.Floor(float64(y / g.cellSize)))
	return col, row
}

// InBounds reports whether a cell lies inside the grid.
func (g *SpatialGrid) InBounds(col, row int) bool {
	return col >= 0 && col < g.cols && row >= 0 && row < g.rows
}

// cellIndex returns the flat index for a world position, or -1 outside the grid.
func (g *SpatialGrid) cellIndex(x, y float32) int {
	col, row := g.CellOf(x, y)
	if !g.InBounds(col, row) {
		return -1
	}
	return row*g.cols + col
}

// Neighborhood returns the cells within radius cells of the one containing
// (x, y), clipped to the grid. Radius 1 is the 3x3 block.
func (g *SpatialGrid) Neighborhood(x, y float32, radius int) CellRange {
	col, row := g.CellOf(x, y)
	r := CellRange{
		MinCol: max(col-radius, 0),
		MaxCol: min(col+radius, g.cols-1),
		MinRow: max(row-radius, 0),
		MaxRow: min(row+radius, g.rows-1),
	}
	return r
}

// InsertFood indexes a food slot at the given position.
func (g *SpatialGrid) InsertFood(slot int32, x, y float32) {
	idx := g.cellIndex(x, y)
	if idx < 0 {
		return
	}
	g.food[idx] = append(g.food[idx], slot)
}

// RemoveFood drops a food slot from the cell containing the given position.
// Returns false if the slot was not there.
func (g *SpatialGrid) RemoveFood(slot int32, x, y float32) bool {
	idx := g.cellIndex(x, y)
	if idx < 0 {
		return false
	}
	cell := g.food[idx]
	for i, s := range cell {
		if s == slot {
			last := len(cell) - 1
			cell[i] = cell[last]
			g.food[idx] = cell[:last]
			return true
		}
	}
	return false
}

// MoveFood re-indexes a food slot whose position changed.
func (g *SpatialGrid) MoveFood(slot int32, oldX, oldY, newX, newY float32) {
	oi, ni := g.cellIndex(oldX, oldY), g.cellIndex(newX, newY)
	if oi == ni {
		return
	}
	g.RemoveFood(slot, oldX, oldY)
	g.InsertFood(slot, newX, newY)
}

// FoodAt returns the food slots in a cell. The slice is owned by the grid
// and is only valid until the next mutation.
func (g *SpatialGrid) FoodAt(col, row int) []int32 {
	if !g.InBounds(col, row) {
		return nil
	}
	return g.food[row*g.cols+col]
}

// InsertBody indexes a body segment at the given position.
// Inserting a segment already present in the cell is a no-op.
func (g *SpatialGrid) InsertBody(e ecs.Entity, x, y float32) {
	idx := g.cellIndex(x, y)
	if idx < 0 {
		return
	}
	for _, b := range g.bodies[idx] {
		if b == e {
			return
		}
	}
	g.bodies[idx] = append(g.bodies[idx], e)
}

// RemoveBody drops a body segment from the cell containing the given position.
// Returns false if the segment was not there.
func (g *SpatialGrid) RemoveBody(e ecs.Entity, x, y float32) bool {
	idx := g.cellIndex(x, y)
	if idx < 0 {
		return false
	}
	cell := g.bodies[idx]
	for i, b := range cell {
		if b == e {
			last := len(cell) - 1
			cell[i] = cell[last]
			g.bodies[idx] = cell[:last]
			return true
		}
	}
	return false
}

// MigrateBody moves a segment's membership from the cell of its old position
// to the cell of its new one. Nothing happens if both map to the same cell.
func (g *SpatialGrid) MigrateBody(e ecs.Entity, oldX, oldY, newX, newY float32) {
	oi, ni := g.cellIndex(oldX, oldY), g.cellIndex(newX, newY)
	if oi == ni {
		return
	}
	g.RemoveBody(e, oldX, oldY)
	g.InsertBody(e, newX, newY)
}

// BodiesAt returns the body segments in a cell. The slice is owned by the
// grid and is only valid until the next mutation.
func (g *SpatialGrid) BodiesAt(col, row int) []ecs.Entity {
	if !g.InBounds(col, row) {
		return nil
	}
	return g.bodies[row*g.cols+col]
}

// AnyBody reports whether any cell in the range holds a body segment.
func (g *SpatialGrid) AnyBody(r CellRange) bool {
	for row := r.MinRow; row <= r.MaxRow; row++ {
		for col := r.MinCol; col <= r.MaxCol; col++ {
			if len(g.bodies[row*g.cols+col]) > 0 {
				return true
			}
		}
	}
	return false
}

// Counts returns the total number of indexed food slots and body segments.
func (g *SpatialGrid) Counts() (food, bodies int) {
	for i := range g.food {
		food += len(g.food[i])
		bodies += len(g.bodies[i])
	}
	return food, bodies
}
