package faceted

import (
	"math"

	"github.com/saluzi/airframe/pkg/topo"
)

// welder maps points onto canonical representatives on a spatial hash grid
// with cell size equal to the weld tolerance. The first point registered in
// a neighborhood becomes the representative for everything within tol.
type welder struct {
	tol   float64
	cells map[[3]int][]topo.Vec3
}

func newWelder(tol float64) *welder {
	return &welder{tol: tol, cells: make(map[[3]int][]topo.Vec3)}
}

func (w *welder) cell(p topo.Vec3) [3]int {
	return [3]int{
		int(math.Floor(p.X / w.tol)),
		int(math.Floor(p.Y / w.tol)),
		int(math.Floor(p.Z / w.tol)),
	}
}

// snap returns the canonical representative for p, registering p as a new
// representative when none lies within tol.
func (w *welder) snap(p topo.Vec3) topo.Vec3 {
	c := w.cell(p)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				key := [3]int{c[0] + dx, c[1] + dy, c[2] + dz}
				for _, q := range w.cells[key] {
					if p.DistanceTo(q) <= w.tol {
						return q
					}
				}
			}
		}
	}
	w.cells[c] = append(w.cells[c], p)
	return p
}
