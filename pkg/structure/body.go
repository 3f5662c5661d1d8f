package structure

import "github.com/saluzi/airframe/pkg/topo"

// Body wraps a bounding solid used to form surface parts: a wing or
// fuselage volume. Bodies are consumed by Form and never mutated by it.
type Body struct {
	label string
	shape *topo.Shape
}

// NewBody wraps a solid shape as a bounding body.
func NewBody(label string, solid *topo.Shape) *Body {
	return &Body{label: label, shape: solid}
}

// Label returns the body label.
func (b *Body) Label() string {
	return b.label
}

// Shape returns the bounding solid.
func (b *Body) Shape() *topo.Shape {
	return b.shape
}

// Skin returns the body's outer shell as a surface shape, suitable as the
// forming template of a skin part. Null body yields nil.
func (b *Body) Skin() *topo.Shape {
	if b == nil || b.shape.IsNull() {
		return nil
	}
	faces := b.shape.Faces()
	if len(faces) == 0 {
		return nil
	}
	return topo.NewShell(faces...)
}

var _ ShapeOwner = (*Body)(nil)
