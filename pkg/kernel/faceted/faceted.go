// Package faceted implements the kernel.Kernel interface on a faceted
// boundary representation. Faces are planar polygons; solids carry signed
// distance functions from github.com/deadsy/sdfx, which drive containment
// and proximity queries. Boolean and sewing results are faceted
// approximations: fuse collapses coincident faces rather than splitting
// intersecting ones, and section keeps whole facets by centroid
// classification.
package faceted

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/saluzi/airframe/pkg/kernel"
	"github.com/saluzi/airframe/pkg/topo"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Faceted)(nil)

// defaultTol is the geometric tolerance used when a caller passes none.
const defaultTol = 1e-7

// Faceted implements kernel.Kernel on the faceted BRep model.
type Faceted struct {
	tol float64
}

// New returns a Faceted kernel with the default geometric tolerance.
func New() *Faceted {
	return &Faceted{tol: defaultTol}
}

// NewWithTolerance returns a Faceted kernel with an explicit tolerance.
func NewWithTolerance(tol float64) *Faceted {
	if tol <= 0 {
		tol = defaultTol
	}
	return &Faceted{tol: tol}
}

func vec(p topo.Vec3) v3.Vec {
	return v3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// ToShape normalizes arbitrary input into a canonical shape handle.
func (k *Faceted) ToShape(v any) *topo.Shape {
	switch s := v.(type) {
	case nil:
		return nil
	case *topo.Shape:
		return s
	case *topo.Face:
		if s == nil {
			return nil
		}
		return topo.NewFaceShape(s)
	case []*topo.Face:
		if len(s) == 0 {
			return nil
		}
		return topo.FaceCompound(s)
	case sdf.SDF3:
		if s == nil {
			return nil
		}
		return topo.NewSolid(s, nil)
	default:
		return nil
	}
}

// volumes collects every SDF volume reachable from a shape.
func volumes(s *topo.Shape) []sdf.SDF3 {
	if s == nil {
		return nil
	}
	var out []sdf.SDF3
	if v, ok := s.Volume().(sdf.SDF3); ok && v != nil {
		out = append(out, v)
	}
	for _, c := range s.Children() {
		out = append(out, volumes(c)...)
	}
	return out
}

// signedDistance evaluates the minimum signed distance from p to the solid's
// volumes. ok is false when the shape carries no volume.
func signedDistance(solid *topo.Shape, p topo.Vec3) (float64, bool) {
	vols := volumes(solid)
	if len(vols) == 0 {
		return 0, false
	}
	best := math.Inf(1)
	for _, v := range vols {
		if d := v.Evaluate(vec(p)); d < best {
			best = d
		}
	}
	return best, true
}

// Fuse performs a boolean union of two shapes. Solid volumes are united
// through the SDF backend; facet geometry from both operands is combined
// with coincident faces collapsed into single instances.
func (k *Faceted) Fuse(a, b *topo.Shape) (*topo.Shape, error) {
	if a.IsNull() || b.IsNull() {
		return nil, fmt.Errorf("faceted: fuse with null operand")
	}

	va, vb := volumes(a), volumes(b)
	if len(va) > 0 && len(vb) > 0 {
		union := sdf.Union3D(append(va, vb...)...)
		shell := topo.NewShell(dedupFaces(append(a.Faces(), b.Faces()...))...)
		return topo.NewSolid(union, shell), nil
	}

	faces := dedupFaces(append(a.Faces(), b.Faces()...))
	if len(faces) == 0 {
		return nil, fmt.Errorf("faceted: fuse produced no faces")
	}
	return topo.NewShell(faces...), nil
}

// dedupFaces removes geometrically coincident duplicates, keeping the first
// instance of each.
func dedupFaces(faces []*topo.Face) []*topo.Face {
	seen := make(map[string]bool, len(faces))
	out := make([]*topo.Face, 0, len(faces))
	for _, f := range faces {
		if f == nil {
			continue
		}
		key := f.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}

// Sew stitches the given shapes: vertices within tol of one another are
// welded onto a single representative point, so adjoining faces end up
// sharing identical edge instances. The returned slice parallels the input.
func (k *Faceted) Sew(shapes []*topo.Shape, tol float64) ([]*topo.Shape, error) {
	if tol <= 0 {
		tol = k.tol
	}
	w := newWelder(tol)
	// First pass registers every point so welding is order-independent
	// within a tolerance cell.
	for _, s := range shapes {
		for _, f := range s.Faces() {
			for _, p := range f.Loop() {
				w.snap(p)
			}
		}
	}
	out := make([]*topo.Shape, len(shapes))
	for i, s := range shapes {
		out[i] = rebuild(s, w.snap)
	}
	return out, nil
}

// rebuild reconstructs a shape tree with every point passed through snap.
// Solid volumes are carried over unchanged.
func rebuild(s *topo.Shape, snap func(topo.Vec3) topo.Vec3) *topo.Shape {
	if s == nil {
		return nil
	}
	switch s.Kind() {
	case topo.KindVertex:
		return topo.NewVertex(snap(s.Point()))
	case topo.KindEdge:
		e := s.Segment()
		return topo.NewEdge(snap(e.P1), snap(e.P2))
	case topo.KindFace:
		faces := s.Faces()
		if len(faces) == 0 {
			return topo.NewFaceShape(nil)
		}
		return topo.NewFaceShape(snapFace(faces[0], snap))
	case topo.KindWire:
		children := make([]*topo.Shape, 0, len(s.Children()))
		for _, c := range s.Children() {
			children = append(children, rebuild(c, snap))
		}
		return topo.NewWire(children...)
	case topo.KindShell:
		faces := make([]*topo.Face, 0, len(s.Faces()))
		for _, f := range s.Faces() {
			faces = append(faces, snapFace(f, snap))
		}
		return topo.NewShell(faces...)
	case topo.KindSolid:
		var shell *topo.Shape
		if len(s.Children()) > 0 {
			shell = rebuild(s.Children()[0], snap)
		}
		return topo.NewSolid(s.Volume(), shell)
	case topo.KindCompSolid:
		children := make([]*topo.Shape, 0, len(s.Children()))
		for _, c := range s.Children() {
			children = append(children, rebuild(c, snap))
		}
		return topo.NewCompSolid(children...)
	default:
		children := make([]*topo.Shape, 0, len(s.Children()))
		for _, c := range s.Children() {
			children = append(children, rebuild(c, snap))
		}
		return topo.NewCompound(children...)
	}
}

func snapFace(f *topo.Face, snap func(topo.Vec3) topo.Vec3) *topo.Face {
	if f == nil {
		return nil
	}
	loop := make([]topo.Vec3, 0, len(f.Loop()))
	for _, p := range f.Loop() {
		loop = append(loop, snap(p))
	}
	return topo.NewFace(loop...)
}

// Unify merges faces and edges on the same geometric domain into minimal
// topology. Face unification merges coplanar neighbors sharing a boundary
// edge; edge unification drops collinear interior loop vertices. The
// B-spline concatenation flag relaxes the angular tolerance so tangent
// chains of curved boundaries collapse as well.
func (k *Faceted) Unify(s *topo.Shape, opts kernel.UnifyOptions) (*topo.Shape, error) {
	if s.IsNull() {
		return nil, fmt.Errorf("faceted: unify of null shape")
	}
	faces := dedupFaces(s.Faces())
	if opts.Faces {
		faces = mergeCoplanar(faces, k.tol)
	}
	if opts.Edges {
		angTol := 1e-9
		if opts.ConcatBSplines {
			angTol = 1e-3
		}
		out := make([]*topo.Face, 0, len(faces))
		for _, f := range faces {
			out = append(out, dropCollinear(f, angTol))
		}
		faces = out
	}
	if len(faces) == 0 {
		return s, nil
	}
	vols := volumes(s)
	if len(vols) > 0 {
		return topo.NewSolid(sdf.Union3D(vols...), topo.NewShell(faces...)), nil
	}
	return topo.NewShell(faces...), nil
}

// mergeCoplanar repeatedly merges face pairs that share one boundary edge
// and lie on the same plane, until no further merge applies.
func mergeCoplanar(faces []*topo.Face, tol float64) []*topo.Face {
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(faces) && !changed; i++ {
			for j := i + 1; j < len(faces) && !changed; j++ {
				if merged := mergeFacePair(faces[i], faces[j], tol); merged != nil {
					next := make([]*topo.Face, 0, len(faces)-1)
					for x, f := range faces {
						if x != i && x != j {
							next = append(next, f)
						}
					}
					faces = append(next, merged)
					changed = true
				}
			}
		}
	}
	return faces
}

// mergeFacePair splices two coplanar faces sharing exactly one edge into a
// single face, or returns nil when they cannot merge.
func mergeFacePair(a, b *topo.Face, tol float64) *topo.Face {
	na, nb := a.Normal(), b.Normal()
	if math.Abs(math.Abs(na.Dot(nb))-1) > 1e-9 {
		return nil
	}
	if a.Plane().DistanceTo(b.Centroid()) > tol+1e-9 {
		return nil
	}

	shared := make(map[string]topo.Edge)
	for _, e := range a.Edges() {
		shared[e.Key()] = e
	}
	var common []topo.Edge
	for _, e := range b.Edges() {
		if _, ok := shared[e.Key()]; ok {
			common = append(common, e)
		}
	}
	if len(common) != 1 {
		return nil
	}

	loop := spliceLoops(a.Loop(), b.Loop(), common[0])
	if loop == nil {
		return nil
	}
	return topo.NewFace(loop...)
}

// spliceLoops joins two boundary loops along a shared edge, walking loop a
// up to the edge, detouring around loop b, then finishing loop a.
func spliceLoops(a, b []topo.Vec3, e topo.Edge) []topo.Vec3 {
	ai := loopEdgeIndex(a, e)
	bi := loopEdgeIndex(b, e)
	if ai < 0 || bi < 0 {
		return nil
	}
	// Orient b so its traversal runs opposite to a across the shared edge.
	same := samePoint(a[ai], b[bi])
	var detour []topo.Vec3
	n := len(b)
	if same {
		// Walk b backwards from bi to bi+1.
		for k := 0; k < n-2; k++ {
			detour = append(detour, b[((bi-1-k)%n+n)%n])
		}
	} else {
		for k := 0; k < n-2; k++ {
			detour = append(detour, b[(bi+2+k)%n])
		}
	}
	out := make([]topo.Vec3, 0, len(a)+len(detour))
	out = append(out, a[:ai+1]...)
	out = append(out, detour...)
	out = append(out, a[ai+1:]...)
	return out
}

// loopEdgeIndex returns the index i such that (loop[i], loop[i+1]) matches
// the edge in either direction, or -1.
func loopEdgeIndex(loop []topo.Vec3, e topo.Edge) int {
	key := e.Key()
	n := len(loop)
	for i := 0; i < n; i++ {
		if (topo.Edge{P1: loop[i], P2: loop[(i+1)%n]}).Key() == key {
			return i
		}
	}
	return -1
}

func samePoint(a, b topo.Vec3) bool {
	return a.DistanceTo(b) < 1e-9
}

// dropCollinear removes interior loop vertices that lie on the straight
// line through their neighbors, within the angular tolerance.
func dropCollinear(f *topo.Face, angTol float64) *topo.Face {
	if f == nil {
		return nil
	}
	loop := f.Loop()
	out := make([]topo.Vec3, 0, len(loop))
	n := len(loop)
	for i := 0; i < n; i++ {
		prev := loop[((i-1)%n+n)%n]
		cur := loop[i]
		next := loop[(i+1)%n]
		d1 := cur.Sub(prev).Normalized()
		d2 := next.Sub(cur).Normalized()
		if d1.Cross(d2).Length() <= angTol {
			continue
		}
		out = append(out, cur)
	}
	if len(out) < 3 {
		return f
	}
	if len(out) == len(loop) {
		return f
	}
	return topo.NewFace(out...)
}

// Section trims a surface shape against a bounding solid, keeping the faces
// whose centroids the solid encloses. Returns nil when the solid carries no
// volume or the intersection is empty.
func (k *Faceted) Section(surface, solid *topo.Shape) *topo.Shape {
	if surface.IsNull() || solid.IsNull() {
		return nil
	}
	var kept []*topo.Face
	for _, f := range surface.Faces() {
		d, ok := signedDistance(solid, f.Centroid())
		if !ok {
			return nil
		}
		if d <= k.tol {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return topo.NewShell(kept...)
}

// FacesEnclosed returns the faces of s fully enclosed by the solid: every
// loop vertex and the centroid must lie inside.
func (k *Faceted) FacesEnclosed(s, solid *topo.Shape) []*topo.Face {
	if s.IsNull() || solid.IsNull() {
		return nil
	}
	var out []*topo.Face
	for _, f := range s.Faces() {
		inside := true
		pts := append([]topo.Vec3{f.Centroid()}, f.Loop()...)
		for _, p := range pts {
			d, ok := signedDistance(solid, p)
			if !ok || d > k.tol {
				inside = false
				break
			}
		}
		if inside {
			out = append(out, f)
		}
	}
	return out
}

// FacesNear returns the faces of s whose centroids lie within tol of the
// reference shape.
func (k *Faceted) FacesNear(s, ref *topo.Shape, tol float64) []*topo.Face {
	if s.IsNull() || ref.IsNull() {
		return nil
	}
	if tol <= 0 {
		tol = k.tol
	}
	idx := newShapeIndex(ref)
	var out []*topo.Face
	for _, f := range s.Faces() {
		if idx.distanceTo(f.Centroid(), tol) <= tol {
			out = append(out, f)
		}
	}
	return out
}

// Distance returns the minimum distance between two shapes, sampling each
// shape's facet points against the other. Returns -1 when neither side has
// measurable geometry.
func (k *Faceted) Distance(a, b *topo.Shape) float64 {
	if a.IsNull() || b.IsNull() {
		return -1
	}
	da := sampleDistance(a, b)
	db := sampleDistance(b, a)
	switch {
	case da < 0 && db < 0:
		return -1
	case da < 0:
		return db
	case db < 0:
		return da
	case da < db:
		return da
	default:
		return db
	}
}

// sampleDistance measures the minimum distance from a's sample points to b.
func sampleDistance(a, b *topo.Shape) float64 {
	pts := samplePoints(a)
	if len(pts) == 0 {
		return -1
	}
	idx := newShapeIndex(b)
	best := -1.0
	for _, p := range pts {
		d := idx.distanceTo(p, math.Inf(1))
		if d < 0 {
			continue
		}
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

// samplePoints gathers representative points of a shape: face centroids and
// loop vertices, edge midpoints and endpoints, lone vertices.
func samplePoints(s *topo.Shape) []topo.Vec3 {
	var pts []topo.Vec3
	for _, f := range s.Faces() {
		pts = append(pts, f.Centroid())
		pts = append(pts, f.Loop()...)
	}
	for _, e := range s.Edges() {
		pts = append(pts, e.P1, e.P2, e.Midpoint())
	}
	pts = append(pts, s.Vertices()...)
	return pts
}
