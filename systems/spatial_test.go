package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
)

func TestSpatialGridDims(t *testing.T) {
	tests := []struct {
		name       string
		w, h, cell float32
		wantCols   int
		wantRows   int
	}{
		{"default arena", 8000, 8000, 250, 33, 33},
		{"non-square", 1000, 500, 100, 11, 6},
		{"uneven", 1010, 990, 100, 11, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewSpatialGrid(tt.w, tt.h, tt.cell)
			cols, rows := g.Dims()
			if cols != tt.wantCols || rows != tt.wantRows {
				t.Errorf("Dims() = %dx%d, want %dx%d", cols, rows, tt.wantCols, tt.wantRows)
			}
		})
	}
}

func TestSpatialGridCellOf(t *testing.T) {
	g := NewSpatialGrid(8000, 8000, 250)
	tests := []struct {
		x, y     float32
		col, row int
		inBounds bool
	}{
		{0, 0, 0, 0, true},
		{249.9, 250, 0, 1, true},
		{8000, 8000, 32, 32, true},
		{-0.5, 100, -1, 0, false},
		{-10000, -10000, -40, -40, false},
		{8300, 10, 33, 0, false},
	}
	for _, tt := range tests {
		col, row := g.CellOf(tt.x, tt.y)
		if col != tt.col || row != tt.row {
			t.Errorf("CellOf(%v, %v) = (%d, %d), want (%d, %d)", tt.x, tt.y, col, row, tt.col, tt.row)
		}
		if got := g.InBounds(col, row); got != tt.inBounds {
			t.Errorf("InBounds(%d, %d) = %v, want %v", col, row, got, tt.inBounds)
		}
	}
}

func TestSpatialGridNeighborhoodClipped(t *testing.T) {
	g := NewSpatialGrid(8000, 8000, 250)

	r := g.Neighborhood(10, 10, 1)
	if r.MinCol != 0 || r.MaxCol != 1 || r.MinRow != 0 || r.MaxRow != 1 {
		t.Errorf("corner neighborhood = %+v, want cols 0..1 rows 0..1", r)
	}

	r = g.Neighborhood(4000, 4000, 1)
	if r.MaxCol-r.MinCol != 2 || r.MaxRow-r.MinRow != 2 {
		t.Errorf("interior neighborhood = %+v, want 3x3", r)
	}

	// Far outside the world: nothing to scan.
	r = g.Neighborhood(-10000, -10000, 1)
	if !r.Empty() {
		t.Errorf("off-world neighborhood = %+v, want empty", r)
	}
	if g.AnyBody(r) {
		t.Error("AnyBody on an empty range should be false")
	}
}

func TestSpatialGridFood(t *testing.T) {
	g := NewSpatialGrid(1000, 1000, 100)

	g.InsertFood(1, 50, 50)
	g.InsertFood(2, 60, 60)
	g.InsertFood(3, 150, 50)

	if got := len(g.FoodAt(0, 0)); got != 2 {
		t.Fatalf("cell (0,0) holds %d items, want 2", got)
	}

	if !g.RemoveFood(1, 50, 50) {
		t.Error("RemoveFood(1) should report success")
	}
	if g.RemoveFood(1, 50, 50) {
		t.Error("second RemoveFood(1) should report failure")
	}
	if cell := g.FoodAt(0, 0); len(cell) != 1 || cell[0] != 2 {
		t.Errorf("cell (0,0) = %v, want [2]", cell)
	}

	g.MoveFood(2, 60, 60, 160, 60)
	if len(g.FoodAt(0, 0)) != 0 || len(g.FoodAt(1, 0)) != 2 {
		t.Errorf("MoveFood did not migrate: (0,0)=%v (1,0)=%v", g.FoodAt(0, 0), g.FoodAt(1, 0))
	}

	// Out-of-bounds inserts are dropped, out-of-bounds queries are empty.
	g.InsertFood(9, -5, 50)
	if food, _ := g.Counts(); food != 2 {
		t.Errorf("Counts() food = %d, want 2", food)
	}
	if g.FoodAt(-1, 0) != nil {
		t.Error("FoodAt outside the grid should be nil")
	}
}

func TestSpatialGridBodies(t *testing.T) {
	s := NewStore()
	g := NewSpatialGrid(1000, 1000, 100)

	a := s.NewSegment(Parked, 10, ecs.Entity{}, 0)
	b := s.NewSegment(Parked, 10, ecs.Entity{}, 1)

	// Parked segments are not indexed.
	g.InsertBody(a, Parked.X, Parked.Y)
	if _, bodies := g.Counts(); bodies != 0 {
		t.Fatalf("parked segment was indexed")
	}

	// Migrating from off-world is a plain insert.
	g.MigrateBody(a, Parked.X, Parked.Y, 150, 150)
	g.InsertBody(b, 160, 150)
	g.InsertBody(b, 160, 150)
	if got := len(g.BodiesAt(1, 1)); got != 2 {
		t.Fatalf("cell (1,1) holds %d bodies, want 2 (duplicate insert must be ignored)", got)
	}

	// Same-cell migration is a no-op.
	g.MigrateBody(a, 150, 150, 190, 190)
	if got := len(g.BodiesAt(1, 1)); got != 2 {
		t.Errorf("same-cell migrate changed cell size to %d", got)
	}

	g.MigrateBody(a, 190, 190, 450, 150)
	if got := len(g.BodiesAt(1, 1)); got != 1 {
		t.Errorf("cell (1,1) holds %d bodies after migrate, want 1", got)
	}
	if cell := g.BodiesAt(4, 1); len(cell) != 1 || cell[0] != a {
		t.Errorf("cell (4,1) = %v, want [a]", cell)
	}

	// Migrating off-world drops membership.
	g.MigrateBody(a, 450, 150, -20, 150)
	if _, bodies := g.Counts(); bodies != 1 {
		t.Errorf("Counts() bodies = %d after leaving the world, want 1", bodies)
	}

	if !g.AnyBody(g.Neighborhood(250, 250, 1)) {
		t.Error("AnyBody should see the segment in cell (1,1)")
	}
	if g.AnyBody(g.Neighborhood(800, 800, 1)) {
		t.Error("AnyBody should be false far from every segment")
	}

	g.Clear()
	if food, bodies := g.Counts(); food != 0 || bodies != 0 {
		t.Errorf("Clear left %d food, %d bodies", food, bodies)
	}
}
