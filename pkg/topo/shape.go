// Package topo defines the boundary-representation topology model shared by
// the geometry kernel and the structural part entities. Shapes are opaque
// handles with a topological kind; faceted geometry (planar polygon faces,
// straight edges) hangs off the leaf kinds. Backend-specific solid volumes
// are carried as opaque payloads so the model stays kernel-agnostic.
package topo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Kind classifies a shape by its topological type.
type Kind int

const (
	KindVertex Kind = iota
	KindEdge
	KindWire
	KindFace
	KindShell
	KindSolid
	KindCompSolid
	KindCompound
)

func (k Kind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindEdge:
		return "edge"
	case KindWire:
		return "wire"
	case KindFace:
		return "face"
	case KindShell:
		return "shell"
	case KindSolid:
		return "solid"
	case KindCompSolid:
		return "compsolid"
	case KindCompound:
		return "compound"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// keyCoord renders a coordinate on a fixed grid so geometrically coincident
// points produce identical keys.
func keyCoord(v Vec3) string {
	return fmt.Sprintf("%.6f,%.6f,%.6f", v.X, v.Y, v.Z)
}

// ---------------------------------------------------------------------------
// Edge
// ---------------------------------------------------------------------------

// Edge is a straight boundary segment between two points.
type Edge struct {
	P1, P2 Vec3
}

// Key returns an orientation-independent identity key for the edge.
// Two edges with coincident endpoints share a key regardless of direction.
func (e Edge) Key() string {
	a, b := keyCoord(e.P1), keyCoord(e.P2)
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// Length returns the edge length.
func (e Edge) Length() float64 {
	return e.P1.DistanceTo(e.P2)
}

// Midpoint returns the edge midpoint.
func (e Edge) Midpoint() Vec3 {
	return e.P1.Add(e.P2).Scale(0.5)
}

// DistanceTo returns the distance from a point to the edge segment.
func (e Edge) DistanceTo(p Vec3) float64 {
	return segmentDistance(p, e.P1, e.P2)
}

// ---------------------------------------------------------------------------
// Face
// ---------------------------------------------------------------------------

// Face is a planar polygon bounded by an ordered loop of vertices.
type Face struct {
	id   string
	loop []Vec3
}

// NewFace creates a face from an ordered boundary loop.
// Returns nil if fewer than three points are given.
func NewFace(loop ...Vec3) *Face {
	if len(loop) < 3 {
		return nil
	}
	pts := make([]Vec3, len(loop))
	copy(pts, loop)
	return &Face{id: uuid.NewString(), loop: pts}
}

// ID returns the face's stable identifier.
func (f *Face) ID() string {
	return f.id
}

// Loop returns the boundary vertices in order.
func (f *Face) Loop() []Vec3 {
	return f.loop
}

// NEdges returns the number of boundary edges.
func (f *Face) NEdges() int {
	return len(f.loop)
}

// Edges returns the boundary edges in loop order.
func (f *Face) Edges() []Edge {
	n := len(f.loop)
	edges := make([]Edge, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, Edge{f.loop[i], f.loop[(i+1)%n]})
	}
	return edges
}

// Normal returns the unit face normal computed with Newell's method,
// which tolerates slightly non-planar loops.
func (f *Face) Normal() Vec3 {
	var n Vec3
	for i := 0; i < len(f.loop); i++ {
		a := f.loop[i]
		b := f.loop[(i+1)%len(f.loop)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n.Normalized()
}

// Area returns the polygon area.
func (f *Face) Area() float64 {
	var sum Vec3
	for i := 1; i < len(f.loop)-1; i++ {
		sum = sum.Add(f.loop[i].Sub(f.loop[0]).Cross(f.loop[i+1].Sub(f.loop[0])))
	}
	return sum.Length() / 2
}

// Centroid returns the mean of the boundary vertices.
func (f *Face) Centroid() Vec3 {
	var c Vec3
	for _, p := range f.loop {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(f.loop)))
}

// Plane returns the supporting plane of the face.
func (f *Face) Plane() Plane {
	return Plane{Origin: f.Centroid(), Normal: f.Normal()}
}

// Key returns a geometric identity key: two faces with coincident boundary
// loops share a key regardless of loop orientation or start vertex.
func (f *Face) Key() string {
	keys := make([]string, len(f.loop))
	for i, p := range f.loop {
		keys[i] = keyCoord(p)
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

// DistanceTo returns the distance from a point to the face. The distance is
// the plane distance when the projection falls inside the polygon, otherwise
// the distance to the nearest boundary edge.
func (f *Face) DistanceTo(p Vec3) float64 {
	pl := f.Plane()
	proj := p.Sub(pl.Normal.Scale(pl.Normal.Dot(p.Sub(pl.Origin))))
	if f.contains(proj) {
		return pl.DistanceTo(p)
	}
	best := -1.0
	for _, e := range f.Edges() {
		if d := e.DistanceTo(p); best < 0 || d < best {
			best = d
		}
	}
	return best
}

// contains reports whether a point on the face plane lies inside the polygon.
// Convex test: the point must be on the inner side of every boundary edge.
func (f *Face) contains(p Vec3) bool {
	n := f.Normal()
	for i := 0; i < len(f.loop); i++ {
		a := f.loop[i]
		b := f.loop[(i+1)%len(f.loop)]
		if b.Sub(a).Cross(p.Sub(a)).Dot(n) < -1e-9 {
			return false
		}
	}
	return true
}

// Bounds returns the axis-aligned bounding box of the face.
func (f *Face) Bounds() (min, max Vec3) {
	min, max = f.loop[0], f.loop[0]
	for _, p := range f.loop[1:] {
		min = Vec3{minf(min.X, p.X), minf(min.Y, p.Y), minf(min.Z, p.Z)}
		max = Vec3{maxf(max.X, p.X), maxf(max.Y, p.Y), maxf(max.Z, p.Z)}
	}
	return min, max
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// ---------------------------------------------------------------------------
// Shape
// ---------------------------------------------------------------------------

// Shape is an opaque topological handle. Leaf kinds (vertex, edge, face)
// carry geometry directly; container kinds hold ordered children. Solids and
// compsolids may additionally carry an opaque volume payload owned by the
// geometry kernel backend.
type Shape struct {
	id       string
	kind     Kind
	point    Vec3
	edge     Edge
	face     *Face
	children []*Shape
	volume   any
}

// NewVertex creates a vertex shape at the given point.
func NewVertex(p Vec3) *Shape {
	return &Shape{id: uuid.NewString(), kind: KindVertex, point: p}
}

// NewEdge creates an edge shape between two points.
func NewEdge(p1, p2 Vec3) *Shape {
	return &Shape{id: uuid.NewString(), kind: KindEdge, edge: Edge{p1, p2}}
}

// NewWire creates a wire from ordered edge shapes.
func NewWire(edges ...*Shape) *Shape {
	return &Shape{id: uuid.NewString(), kind: KindWire, children: edges}
}

// NewFaceShape wraps a face into a shape handle.
func NewFaceShape(f *Face) *Shape {
	return &Shape{id: uuid.NewString(), kind: KindFace, face: f}
}

// NewShell creates a shell from a set of faces. Nil faces are dropped.
func NewShell(faces ...*Face) *Shape {
	s := &Shape{id: uuid.NewString(), kind: KindShell}
	for _, f := range faces {
		if f != nil {
			s.children = append(s.children, NewFaceShape(f))
		}
	}
	return s
}

// NewSolid creates a solid with an opaque kernel volume and an optional
// boundary shell.
func NewSolid(volume any, shell *Shape) *Shape {
	s := &Shape{id: uuid.NewString(), kind: KindSolid, volume: volume}
	if shell != nil {
		s.children = append(s.children, shell)
	}
	return s
}

// NewCompSolid creates a compsolid from solid shapes.
func NewCompSolid(solids ...*Shape) *Shape {
	return &Shape{id: uuid.NewString(), kind: KindCompSolid, children: solids}
}

// NewCompound creates a compound of arbitrary shapes. Nil children are
// dropped.
func NewCompound(shapes ...*Shape) *Shape {
	s := &Shape{id: uuid.NewString(), kind: KindCompound}
	for _, c := range shapes {
		if c != nil {
			s.children = append(s.children, c)
		}
	}
	return s
}

// ID returns the shape's stable identifier.
func (s *Shape) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Kind returns the topological kind.
func (s *Shape) Kind() Kind {
	if s == nil {
		return KindCompound
	}
	return s.kind
}

// IsNull reports whether the handle is nil or carries no geometry.
func (s *Shape) IsNull() bool {
	if s == nil {
		return true
	}
	switch s.kind {
	case KindVertex, KindEdge:
		return false
	case KindFace:
		return s.face == nil
	case KindSolid, KindCompSolid:
		return s.volume == nil && len(s.children) == 0
	default:
		return len(s.children) == 0
	}
}

// Point returns the vertex point. Valid for vertex shapes only.
func (s *Shape) Point() Vec3 {
	return s.point
}

// Segment returns the edge geometry. Valid for edge shapes only.
func (s *Shape) Segment() Edge {
	return s.edge
}

// Children returns the direct child shapes.
func (s *Shape) Children() []*Shape {
	if s == nil {
		return nil
	}
	return s.children
}

// Volume returns the opaque kernel volume carried by this shape node, or
// nil. Container kinds do not delegate; callers traverse Children for
// nested solids.
func (s *Shape) Volume() any {
	if s == nil {
		return nil
	}
	return s.volume
}

// Faces collects every face reachable from the shape.
func (s *Shape) Faces() []*Face {
	if s == nil {
		return nil
	}
	var faces []*Face
	s.walk(func(sh *Shape) {
		if sh.kind == KindFace && sh.face != nil {
			faces = append(faces, sh.face)
		}
	})
	return faces
}

// Edges collects every edge reachable from the shape, deduplicated by
// geometric identity. Face boundary edges and free edge shapes both count.
func (s *Shape) Edges() []Edge {
	if s == nil {
		return nil
	}
	seen := make(map[string]bool)
	var edges []Edge
	add := func(e Edge) {
		k := e.Key()
		if !seen[k] {
			seen[k] = true
			edges = append(edges, e)
		}
	}
	s.walk(func(sh *Shape) {
		switch sh.kind {
		case KindEdge:
			add(sh.edge)
		case KindFace:
			if sh.face != nil {
				for _, e := range sh.face.Edges() {
					add(e)
				}
			}
		}
	})
	return edges
}

// Vertices collects every distinct vertex point reachable from the shape.
func (s *Shape) Vertices() []Vec3 {
	seen := make(map[string]bool)
	var pts []Vec3
	add := func(p Vec3) {
		k := keyCoord(p)
		if !seen[k] {
			seen[k] = true
			pts = append(pts, p)
		}
	}
	for _, e := range s.Edges() {
		add(e.P1)
		add(e.P2)
	}
	s.walk(func(sh *Shape) {
		if sh.kind == KindVertex {
			add(sh.point)
		}
	})
	return pts
}

func (s *Shape) walk(fn func(*Shape)) {
	if s == nil {
		return
	}
	fn(s)
	for _, c := range s.children {
		c.walk(fn)
	}
}

// Bounds returns the axis-aligned bounding box of the shape's facet
// geometry. ok is false when the shape carries no point data (e.g. a solid
// with only an implicit volume).
func (s *Shape) Bounds() (min, max Vec3, ok bool) {
	first := true
	grow := func(p Vec3) {
		if first {
			min, max = p, p
			first = false
			return
		}
		min = Vec3{minf(min.X, p.X), minf(min.Y, p.Y), minf(min.Z, p.Z)}
		max = Vec3{maxf(max.X, p.X), maxf(max.Y, p.Y), maxf(max.Z, p.Z)}
	}
	s.walk(func(sh *Shape) {
		switch sh.kind {
		case KindVertex:
			grow(sh.point)
		case KindEdge:
			grow(sh.edge.P1)
			grow(sh.edge.P2)
		case KindFace:
			if sh.face != nil {
				for _, p := range sh.face.loop {
					grow(p)
				}
			}
		}
	})
	return min, max, !first
}

// ---------------------------------------------------------------------------
// Derived queries
// ---------------------------------------------------------------------------

// LargestFace returns the face with the greatest area, or nil for an empty
// input.
func LargestFace(faces []*Face) *Face {
	var best *Face
	bestArea := -1.0
	for _, f := range faces {
		if f == nil {
			continue
		}
		if a := f.Area(); a > bestArea {
			best, bestArea = f, a
		}
	}
	return best
}

// SurfaceOfFace returns the supporting surface of a face.
func SurfaceOfFace(f *Face) (Plane, bool) {
	if f == nil {
		return Plane{}, false
	}
	return f.Plane(), true
}

// FaceCompound builds a compound shape over a face set.
func FaceCompound(faces []*Face) *Shape {
	shapes := make([]*Shape, 0, len(faces))
	for _, f := range faces {
		if f != nil {
			shapes = append(shapes, NewFaceShape(f))
		}
	}
	return NewCompound(shapes...)
}

// CompoundKey returns a stable key over a face set, independent of order.
// The mesh association index uses it to bind sub-meshes to part face
// compounds across recomputes.
func CompoundKey(faces []*Face) string {
	ids := make([]string, 0, len(faces))
	for _, f := range faces {
		if f != nil {
			ids = append(ids, f.id)
		}
	}
	sort.Strings(ids)
	return strings.Join(ids, "+")
}
