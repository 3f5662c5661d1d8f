package structure

import (
	"fmt"
	"sort"

	"github.com/saluzi/airframe/pkg/fem"
	"github.com/saluzi/airframe/pkg/kernel"
	"github.com/saluzi/airframe/pkg/topo"
)

// SurfacePart is a structural part derived from a reference surface: spars,
// ribs, skins. It accumulates formed shapes trimmed against bounding solids
// until Build consolidates them into the part shape.
type SurfacePart struct {
	Part

	surfaceShape *topo.Shape
	formed       map[string]*topo.Shape
	formedOrder  []*topo.Shape
	sref         *topo.Plane
}

// NewSurfacePart creates a surface part from a reference surface shape. The
// input is normalized through the kernel; a null or faceless surface shape
// yields a part with no reference surface.
func NewSurfacePart(krn kernel.Kernel, gen *fem.Gen, label string, surfaceShape any) *SurfacePart {
	p := &SurfacePart{
		Part:         newPart(krn, gen, label),
		surfaceShape: krn.ToShape(surfaceShape),
		formed:       make(map[string]*topo.Shape),
	}
	p.setSref()
	return p
}

// setSref derives the reference surface from the largest face of the
// surface shape. Left nil when the surface shape is null or has no faces.
func (p *SurfacePart) setSref() {
	if p.surfaceShape.IsNull() {
		return
	}
	face := topo.LargestFace(p.surfaceShape.Faces())
	if face == nil {
		return
	}
	if pl, ok := topo.SurfaceOfFace(face); ok {
		p.sref = &pl
	}
}

// SurfaceShape returns the owned forming template.
func (p *SurfacePart) SurfaceShape() *topo.Shape {
	return p.surfaceShape
}

// Sref returns the derived reference surface, or nil.
func (p *SurfacePart) Sref() *topo.Plane {
	return p.sref
}

// FShapes returns the accumulated formed shapes in forming order.
func (p *SurfacePart) FShapes() []*topo.Shape {
	return p.formedOrder
}

// Faces returns the faces of the current shape, recomputed per call.
func (p *SurfacePart) Faces() []*topo.Face {
	return p.shape.Faces()
}

// Edges returns the edges of the current shape, recomputed per call.
func (p *SurfacePart) Edges() []topo.Edge {
	return p.shape.Edges()
}

// NFaces returns the number of faces of the current shape.
func (p *SurfacePart) NFaces() int {
	return len(p.Faces())
}

// Stiffeners returns the subparts of stiffener kind, in registration order.
func (p *SurfacePart) Stiffeners() []*Stiffener {
	var out []*Stiffener
	for _, sub := range p.Subparts() {
		if s, ok := sub.(*Stiffener); ok {
			out = append(out, s)
		}
	}
	return out
}

// resolveShape normalizes a fuse/sew/merge operand into a shape handle.
func (p *SurfacePart) resolveShape(v any) *topo.Shape {
	switch o := v.(type) {
	case ShapeOwner:
		return o.Shape()
	default:
		return p.krn.ToShape(v)
	}
}

// filterOperands drops null and empty operand shapes before an operation.
func (p *SurfacePart) filterOperands(others []any) []*topo.Shape {
	var out []*topo.Shape
	for _, o := range others {
		if s := p.resolveShape(o); !s.IsNull() {
			out = append(out, s)
		}
	}
	return out
}

// Form trims the surface template against each bounding body. A successful
// intersection accumulates the trimmed shape and records true; a null or
// failed intersection records false without mutating state. Nil bodies are
// skipped and do not appear in the returned status.
func (p *SurfacePart) Form(bodies ...*Body) map[*Body]bool {
	status := make(map[*Body]bool, len(bodies))
	for _, body := range bodies {
		if body == nil {
			continue
		}
		shape := p.krn.Section(p.surfaceShape, body.Shape())
		if shape.IsNull() {
			status[body] = false
			p.log.Debug("form produced no intersection", "body", body.Label())
			continue
		}
		if _, seen := p.formed[shape.ID()]; !seen {
			p.formed[shape.ID()] = shape
			p.formedOrder = append(p.formedOrder, shape)
		}
		status[body] = true
	}
	return status
}

// FormStrict is Form with the soft-fail contract escalated: a nil body or
// the first body yielding no intersection aborts with an error.
func (p *SurfacePart) FormStrict(bodies ...*Body) error {
	for _, body := range bodies {
		if body == nil {
			return fmt.Errorf("part %s: form against nil body", p.label)
		}
		shape := p.krn.Section(p.surfaceShape, body.Shape())
		if shape.IsNull() {
			return fmt.Errorf("part %s: form against body %s produced no intersection", p.label, body.Label())
		}
		if _, seen := p.formed[shape.ID()]; !seen {
			p.formed[shape.ID()] = shape
			p.formedOrder = append(p.formedOrder, shape)
		}
	}
	return nil
}

// Build consolidates the accumulated formed shapes into the part's shape.
// With unify set, a post-pass merges coincident geometric domains.
func (p *SurfacePart) Build(unify bool) *topo.Shape {
	if len(p.formedOrder) == 0 {
		return p.shape
	}
	shape := p.formedOrder[0]
	for _, next := range p.formedOrder[1:] {
		fused, err := p.krn.Fuse(shape, next)
		if err != nil {
			p.log.Warn("build fuse failed", "error", err)
			continue
		}
		shape = fused
	}
	p.SetShape(shape)
	if unify {
		p.Unify(true, true, false)
	}
	return p.shape
}

// Fuse performs a boolean union of this part's shape with the given parts
// or shapes. Null operands are filtered out; with no valid operand left, or
// with this part's shape still null, it returns false without mutating.
func (p *SurfacePart) Fuse(others ...any) bool {
	operands := p.filterOperands(others)
	if len(operands) == 0 || p.shape.IsNull() {
		return false
	}
	result := p.shape
	for _, o := range operands {
		fused, err := p.krn.Fuse(result, o)
		if err != nil {
			p.log.Warn("fuse failed", "error", err)
			return false
		}
		result = fused
	}
	p.SetShape(result)
	return true
}

// Sew stitches this part with the given parts so coincident vertices and
// edges become shared instances. No boolean union is performed. Parts whose
// shapes can be written back are updated in place.
func (p *SurfacePart) Sew(others ...any) bool {
	var operands []*topo.Shape
	var owners []any
	for _, o := range others {
		if s := p.resolveShape(o); !s.IsNull() {
			operands = append(operands, s)
			owners = append(owners, o)
		}
	}
	if len(operands) == 0 || p.shape.IsNull() {
		return false
	}
	shapes := append([]*topo.Shape{p.shape}, operands...)
	sewn, err := p.krn.Sew(shapes, defaultTol)
	if err != nil || len(sewn) != len(shapes) {
		p.log.Warn("sew failed", "error", err)
		return false
	}
	p.SetShape(sewn[0])
	for i, o := range owners {
		if setter, ok := o.(interface{ SetShape(*topo.Shape) }); ok {
			setter.SetShape(sewn[i+1])
		}
	}
	return true
}

// Merge combines one other part or shape into this part's shape in place,
// with an optional unify pass afterward. Returns the resulting shape.
func (p *SurfacePart) Merge(other any, unify bool) *topo.Shape {
	s := p.resolveShape(other)
	if s.IsNull() {
		return p.shape
	}
	if p.shape.IsNull() {
		p.SetShape(s)
	} else {
		fused, err := p.krn.Fuse(p.shape, s)
		if err != nil {
			p.log.Warn("merge fuse failed", "error", err)
			return p.shape
		}
		p.SetShape(fused)
	}
	if unify {
		p.Unify(true, true, false)
	}
	return p.shape
}

// Unify merges faces and edges of the part shape lying on the same
// geometric domain into minimal topology. Returns the resulting shape.
func (p *SurfacePart) Unify(edges, faces, concatBSplines bool) *topo.Shape {
	if p.shape.IsNull() {
		return p.shape
	}
	unified, err := p.krn.Unify(p.shape, kernel.UnifyOptions{
		Edges:          edges,
		Faces:          faces,
		ConcatBSplines: concatBSplines,
	})
	if err != nil {
		p.log.Warn("unify failed", "error", err)
		return p.shape
	}
	p.SetShape(unified)
	return p.shape
}

// Discard removes faces of this part's shape that coincide with the given
// shape. A SOLID or COMPSOLID reference routes to the containment policy;
// anything else routes to the distance policy with the given tolerance.
// Returns false for a null reference shape.
func (p *SurfacePart) Discard(ref any, tol float64) bool {
	shape := p.krn.ToShape(ref)
	if shape.IsNull() || p.shape.IsNull() {
		return false
	}
	if tol <= 0 {
		tol = defaultTol
	}

	var doomed []*topo.Face
	switch shape.Kind() {
	case topo.KindSolid, topo.KindCompSolid:
		doomed = p.krn.FacesEnclosed(p.shape, shape)
	default:
		doomed = p.krn.FacesNear(p.shape, shape, tol)
	}
	if len(doomed) == 0 {
		return true
	}

	drop := make(map[string]bool, len(doomed))
	for _, f := range doomed {
		drop[f.ID()] = true
	}
	var kept []*topo.Face
	for _, f := range p.Faces() {
		if !drop[f.ID()] {
			kept = append(kept, f)
		}
	}
	p.SetShape(topo.NewShell(kept...))
	p.log.Debug("faces discarded", "removed", len(doomed), "kept", len(kept))
	return true
}

// SharedEdges returns the edges shared between this part and the other,
// sorted by geometric key. The query is symmetric.
func (p *SurfacePart) SharedEdges(other ShapeOwner) []topo.Edge {
	if other == nil {
		return nil
	}
	mine := make(map[string]topo.Edge)
	for _, e := range p.shape.Edges() {
		mine[e.Key()] = e
	}
	var shared []topo.Edge
	for _, e := range other.Shape().Edges() {
		if _, ok := mine[e.Key()]; ok {
			shared = append(shared, e)
		}
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i].Key() < shared[j].Key() })
	return shared
}

// SharedNodes returns the mesh nodes shared between this part and the
// other, sorted by id. The query is symmetric. Empty before any mesh has
// been computed.
func (p *SurfacePart) SharedNodes(other MeshAssociable) []*fem.Node {
	if other == nil {
		return nil
	}
	mine := make(map[int]*fem.Node)
	for _, n := range p.Nodes() {
		mine[n.ID()] = n
	}
	var shared []*fem.Node
	for _, n := range other.Nodes() {
		if _, ok := mine[n.ID()]; ok {
			shared = append(shared, n)
		}
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i].ID() < shared[j].ID() })
	return shared
}

// MeshBinding binds this part's face compound to the given hypotheses for
// the next mesh compute.
func (p *SurfacePart) MeshBinding(hyps ...fem.Hypothesis) fem.MeshBinding {
	return fem.MeshBinding{Shape: topo.FaceCompound(p.Faces()), Hypotheses: hyps}
}

// Elements resolves the mesh elements generated for this part: the active
// mesh's sub-mesh bound to the part's face compound, with raw handles
// deduplicated into a set. Empty when no mesh has been computed, the
// sub-mesh is absent, or it is empty. Read-only and side-effect free.
func (p *SurfacePart) Elements() []*fem.Elm2D {
	mesh := p.gen.ActiveMesh()
	if mesh == nil {
		return nil
	}
	sm := mesh.SubMesh(topo.CompoundKey(p.Faces()))
	if sm.IsEmpty() {
		return nil
	}
	seen := make(map[int]bool)
	var out []*fem.Elm2D
	for _, e := range sm.Elements() {
		if e == nil || seen[e.ID()] {
			continue
		}
		seen[e.ID()] = true
		out = append(out, e)
	}
	return out
}

// Nodes flattens the part's element nodes into a deduplicated set.
func (p *SurfacePart) Nodes() []*fem.Node {
	seen := make(map[int]bool)
	var out []*fem.Node
	for _, e := range p.Elements() {
		for _, n := range e.Nodes() {
			if seen[n.ID()] {
				continue
			}
			seen[n.ID()] = true
			out = append(out, n)
		}
	}
	return out
}

// AddStiffener builds a stiffener against this part's geometry and
// registers it under its label in the subpart mapping. Returns nil without
// registering anything when construction fails or the label is taken.
func (p *SurfacePart) AddStiffener(label string, spec StiffenerSpec) *Stiffener {
	s := buildStiffener(p, label, spec)
	if s == nil {
		return nil
	}
	if err := p.AddSubpart(s); err != nil {
		p.log.Warn("stiffener not registered", "label", label, "error", err)
		return nil
	}
	return s
}

// GetStiffener returns the registered stiffener with the given label, or
// nil.
func (p *SurfacePart) GetStiffener(label string) *Stiffener {
	s, _ := p.GetSubpart(label).(*Stiffener)
	return s
}

// Capability checks.
var (
	_ ShapeOwner     = (*SurfacePart)(nil)
	_ Formable       = (*SurfacePart)(nil)
	_ Fusable        = (*SurfacePart)(nil)
	_ MeshAssociable = (*SurfacePart)(nil)
)
