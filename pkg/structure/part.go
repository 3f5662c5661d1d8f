// Package structure defines the structural part entities and the assembly
// operators that reconcile them into one consistent, non-overlapping
// assembly: forming trimmed shapes against bounding solids, fusing, sewing
// and merging neighbors, discarding extraneous faces, and associating
// generated mesh elements back to the owning part.
//
// Geometric soft failures (null shapes, empty intersections, failed
// booleans) degrade to false returns or empty collections so an assembly
// script can keep building after one regional failure; callers inspect the
// returned status values.
package structure

import (
	"fmt"
	"log/slog"

	"github.com/saluzi/airframe/pkg/fem"
	"github.com/saluzi/airframe/pkg/kernel"
	"github.com/saluzi/airframe/pkg/topo"
)

// defaultTol is the geometric tolerance used when an operator receives
// none.
const defaultTol = 1e-7

// ShapeOwner is the minimal capability of anything holding a labeled shape.
type ShapeOwner interface {
	Label() string
	Shape() *topo.Shape
}

// Formable parts trim their surface template against bounding solids.
type Formable interface {
	Form(bodies ...*Body) map[*Body]bool
}

// Fusable parts support boolean union with sibling parts or raw shapes.
type Fusable interface {
	Fuse(others ...any) bool
}

// MeshAssociable parts resolve their generated mesh elements on demand.
type MeshAssociable interface {
	Elements() []*fem.Elm2D
	Nodes() []*fem.Node
}

// Part is the base structural-part entity: a labeled, owned shape plus an
// ordered subpart mapping and a lazily derived reference curve. Assembly
// operators mutate the shape in place; the reference curve cache is
// invalidated on every mutation.
type Part struct {
	krn   kernel.Kernel
	gen   *fem.Gen
	label string
	shape *topo.Shape

	subparts map[string]ShapeOwner
	order    []string

	cref      *topo.Line
	crefValid bool

	log *slog.Logger
}

func newPart(krn kernel.Kernel, gen *fem.Gen, label string) Part {
	return Part{
		krn:      krn,
		gen:      gen,
		label:    label,
		subparts: make(map[string]ShapeOwner),
		log:      slog.Default().With("component", "structure", "part", label),
	}
}

// Label returns the part label, unique within its parent scope.
func (p *Part) Label() string {
	return p.label
}

// Shape returns the part's current shape. May be null before Build.
func (p *Part) Shape() *topo.Shape {
	return p.shape
}

// SetShape replaces the part's shape and invalidates derived geometry.
func (p *Part) SetShape(s *topo.Shape) {
	p.shape = s
	p.cref = nil
	p.crefValid = false
}

// AddSubpart registers a subpart under its label. Labels are unique among
// direct siblings; an existing label is never silently overwritten.
func (p *Part) AddSubpart(sub ShapeOwner) error {
	if sub == nil {
		return fmt.Errorf("part %s: nil subpart", p.label)
	}
	label := sub.Label()
	if _, exists := p.subparts[label]; exists {
		return fmt.Errorf("part %s: subpart label %q already registered", p.label, label)
	}
	p.subparts[label] = sub
	p.order = append(p.order, label)
	return nil
}

// GetSubpart returns the subpart with the given label, or nil.
func (p *Part) GetSubpart(label string) ShapeOwner {
	return p.subparts[label]
}

// Subparts returns the subparts in registration order.
func (p *Part) Subparts() []ShapeOwner {
	out := make([]ShapeOwner, 0, len(p.order))
	for _, label := range p.order {
		out = append(out, p.subparts[label])
	}
	return out
}

// Cref returns the part's derived reference curve: the longest edge of the
// current shape. Computed lazily, cached until the shape mutates. Nil for a
// null or edgeless shape.
func (p *Part) Cref() *topo.Line {
	if p.crefValid {
		return p.cref
	}
	p.crefValid = true
	p.cref = nil
	if p.shape.IsNull() {
		return nil
	}
	var best topo.Edge
	bestLen := -1.0
	for _, e := range p.shape.Edges() {
		if l := e.Length(); l > bestLen {
			best, bestLen = e, l
		}
	}
	if bestLen < 0 {
		return nil
	}
	p.cref = &topo.Line{P1: best.P1, P2: best.P2}
	return p.cref
}
