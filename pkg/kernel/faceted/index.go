package faceted

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/saluzi/airframe/pkg/topo"
)

// faceEntry adapts a face to the R-tree's Spatial interface.
type faceEntry struct {
	face *topo.Face
	rect rtreego.Rect
}

func (e *faceEntry) Bounds() rtreego.Rect {
	return e.rect
}

func faceRect(f *topo.Face, inflate float64) (rtreego.Rect, bool) {
	min, max := f.Bounds()
	lengths := []float64{
		max.X - min.X + 2*inflate,
		max.Y - min.Y + 2*inflate,
		max.Z - min.Z + 2*inflate,
	}
	r, err := rtreego.NewRect(rtreego.Point{min.X - inflate, min.Y - inflate, min.Z - inflate}, lengths)
	if err != nil {
		return rtreego.Rect{}, false
	}
	return r, true
}

// shapeIndex accelerates point-to-shape distance queries. Faces go into an
// R-tree keyed by bounding box; edges and vertices are few enough to scan.
type shapeIndex struct {
	tree     *rtreego.Rtree
	faces    []*topo.Face
	edges    []topo.Edge
	vertices []topo.Vec3
}

func newShapeIndex(s *topo.Shape) *shapeIndex {
	idx := &shapeIndex{
		tree:     rtreego.NewTree(3, 8, 32),
		faces:    s.Faces(),
		edges:    s.Edges(),
		vertices: s.Vertices(),
	}
	for _, f := range idx.faces {
		if r, ok := faceRect(f, 1e-9); ok {
			idx.tree.Insert(&faceEntry{face: f, rect: r})
		}
	}
	return idx
}

// distanceTo returns the minimum distance from p to the indexed shape, or
// -1 when the shape has no geometry. A finite cutoff restricts the face
// search to the R-tree neighborhood of p; candidates beyond the cutoff are
// still measured exactly but a larger-than-cutoff result may be reported as
// the nearest scanned edge or vertex instead.
func (idx *shapeIndex) distanceTo(p topo.Vec3, cutoff float64) float64 {
	best := -1.0
	consider := func(d float64) {
		if best < 0 || d < best {
			best = d
		}
	}

	if math.IsInf(cutoff, 1) {
		for _, f := range idx.faces {
			consider(f.DistanceTo(p))
		}
	} else if len(idx.faces) > 0 {
		query := rtreego.Point{p.X, p.Y, p.Z}.ToRect(cutoff)
		for _, hit := range idx.tree.SearchIntersect(query) {
			consider(hit.(*faceEntry).face.DistanceTo(p))
		}
	}
	for _, e := range idx.edges {
		consider(e.DistanceTo(p))
	}
	for _, v := range idx.vertices {
		consider(p.DistanceTo(v))
	}
	return best
}
