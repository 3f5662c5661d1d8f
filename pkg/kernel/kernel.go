// Package kernel defines the abstract geometry kernel interface.
// Implementations provide shape normalization, boolean fuse, sewing,
// unification and distance queries behind this interface. The kernel
// abstraction allows swapping backends without changing the structural
// entities built on top of it.
package kernel

import "github.com/saluzi/airframe/pkg/topo"

// UnifyOptions selects which domains a unify pass merges.
type UnifyOptions struct {
	Edges          bool // merge collinear adjacent edges
	Faces          bool // merge coplanar adjacent faces
	ConcatBSplines bool // concatenate chained curved boundaries with matching tangents
}

// DefaultUnifyOptions merges both edges and faces, matching the common
// post-build cleanup pass.
func DefaultUnifyOptions() UnifyOptions {
	return UnifyOptions{Edges: true, Faces: true}
}

// Kernel is the abstract geometry kernel interface consumed by the
// structural part operators.
type Kernel interface {
	// ToShape normalizes an arbitrary input into a canonical shape handle.
	// Accepts *topo.Shape (returned unchanged), *topo.Face and face slices.
	// Returns nil for nil or unrecognized input.
	ToShape(v any) *topo.Shape

	// Fuse performs a boolean union of two shapes.
	Fuse(a, b *topo.Shape) (*topo.Shape, error)

	// Sew stitches adjoining shapes so that coincident vertices and edges
	// within tol become single instances. No boolean is performed. The
	// returned shapes parallel the inputs.
	Sew(shapes []*topo.Shape, tol float64) ([]*topo.Shape, error)

	// Unify merges faces and edges lying on the same geometric domain into
	// minimal topology.
	Unify(s *topo.Shape, opts UnifyOptions) (*topo.Shape, error)

	// Section trims a surface shape against a bounding solid, keeping the
	// portion enclosed by the solid. Returns nil when the intersection is
	// empty or either operand is null.
	Section(surface, solid *topo.Shape) *topo.Shape

	// FacesEnclosed returns the faces of s enclosed by the given solid.
	FacesEnclosed(s, solid *topo.Shape) []*topo.Face

	// FacesNear returns the faces of s within tol of the reference shape.
	FacesNear(s, ref *topo.Shape, tol float64) []*topo.Face

	// Distance returns the minimum distance between two shapes, or a
	// negative value when it cannot be measured.
	Distance(a, b *topo.Shape) float64
}
