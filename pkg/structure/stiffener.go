package structure

// StiffenerSpec describes a stiffener to build against a surface part: a
// web template shape and the attachment tolerance within which the web must
// run along the parent's geometry.
type StiffenerSpec struct {
	// Shape is the stiffener web template. Accepts anything the kernel can
	// normalize.
	Shape any
	// Tol is the attachment tolerance. Zero selects the default.
	Tol float64
}

// Stiffener is a surface part attached along a parent surface part.
type Stiffener struct {
	SurfacePart
}

// buildStiffener trims the spec's web template to the portion running along
// the parent's geometry. Returns nil when the template is null or nothing
// of it lies within the attachment tolerance.
func buildStiffener(parent *SurfacePart, label string, spec StiffenerSpec) *Stiffener {
	web := parent.krn.ToShape(spec.Shape)
	if web.IsNull() {
		return nil
	}
	against := parent.Shape()
	if against.IsNull() {
		against = parent.SurfaceShape()
	}
	if against.IsNull() {
		return nil
	}
	tol := spec.Tol
	if tol <= 0 {
		tol = defaultTol
	}
	attached := parent.krn.FacesNear(web, against, tol)
	if len(attached) == 0 {
		return nil
	}

	s := &Stiffener{
		SurfacePart: *NewSurfacePart(parent.krn, parent.gen, label, web),
	}
	s.SetShape(parent.krn.ToShape(attached))
	return s
}
