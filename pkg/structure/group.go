package structure

import (
	"fmt"
	"log/slog"

	"github.com/saluzi/airframe/pkg/topo"
)

// Group is a named collection of parts, typically one structural region
// such as a wing box. Labels are unique within a group.
type Group struct {
	label string
	parts map[string]ShapeOwner
	order []string
}

// NewGroup creates an empty part group.
func NewGroup(label string) *Group {
	return &Group{label: label, parts: make(map[string]ShapeOwner)}
}

// Label returns the group label.
func (g *Group) Label() string {
	return g.label
}

// Add registers a part under its label. Duplicate labels are rejected.
func (g *Group) Add(p ShapeOwner) error {
	if p == nil {
		return fmt.Errorf("group %s: nil part", g.label)
	}
	if _, exists := g.parts[p.Label()]; exists {
		return fmt.Errorf("group %s: part label %q already registered", g.label, p.Label())
	}
	g.parts[p.Label()] = p
	g.order = append(g.order, p.Label())
	return nil
}

// Get returns the part with the given label, or nil.
func (g *Group) Get(label string) ShapeOwner {
	return g.parts[label]
}

// Parts returns the group's parts in registration order.
func (g *Group) Parts() []ShapeOwner {
	out := make([]ShapeOwner, 0, len(g.order))
	for _, label := range g.order {
		out = append(out, g.parts[label])
	}
	return out
}

// SurfaceParts returns the group's surface parts in registration order.
func (g *Group) SurfaceParts() []*SurfacePart {
	var out []*SurfacePart
	for _, p := range g.Parts() {
		if sp, ok := p.(*SurfacePart); ok {
			out = append(out, sp)
		}
	}
	return out
}

// Compound returns the group's parts assembled into one compound shape.
func (g *Group) Compound() *topo.Shape {
	var shapes []*topo.Shape
	for _, p := range g.Parts() {
		if s := p.Shape(); !s.IsNull() {
			shapes = append(shapes, s)
		}
	}
	return topo.NewCompound(shapes...)
}

// FuseParts fuses every pair of parts whose shapes touch within tol,
// joining the internal structure into one consistent assembly. Returns the
// number of successful pairwise fuses. Parts with null shapes are skipped.
func FuseParts(parts []*SurfacePart, tol float64) int {
	if tol <= 0 {
		tol = defaultTol
	}
	log := slog.Default().With("component", "structure")
	fused := 0
	for i := 0; i < len(parts); i++ {
		for j := i + 1; j < len(parts); j++ {
			a, b := parts[i], parts[j]
			if a.Shape().IsNull() || b.Shape().IsNull() {
				continue
			}
			d := a.krn.Distance(a.Shape(), b.Shape())
			if d < 0 || d > tol {
				continue
			}
			if a.Fuse(b) {
				fused++
			} else {
				log.Warn("pairwise fuse failed", "a", a.Label(), "b", b.Label())
			}
		}
	}
	return fused
}

// DiscardByRef discards, for each part, the faces lying farther than tol
// from the part's reference curve. This removes the extraneous trimmed
// regions left over after forming. Parts without a reference curve are
// skipped. Returns the number of parts modified.
func DiscardByRef(parts []*SurfacePart, tol float64) int {
	if tol <= 0 {
		tol = defaultTol
	}
	modified := 0
	for _, p := range parts {
		cref := p.Cref()
		if cref == nil || p.Shape().IsNull() {
			continue
		}
		ref := topo.NewEdge(cref.P1, cref.P2)
		near := p.krn.FacesNear(p.Shape(), ref, tol)
		keep := make(map[string]bool, len(near))
		for _, f := range near {
			keep[f.ID()] = true
		}
		var kept []*topo.Face
		removed := 0
		for _, f := range p.Faces() {
			if keep[f.ID()] {
				kept = append(kept, f)
			} else {
				removed++
			}
		}
		if removed == 0 || len(kept) == 0 {
			continue
		}
		p.SetShape(topo.NewShell(kept...))
		modified++
	}
	return modified
}
