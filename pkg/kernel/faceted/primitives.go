package faceted

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/saluzi/airframe/pkg/topo"
)

// Box creates a solid box with its minimum corner at origin. The solid
// carries both the SDF volume and a six-face boundary shell.
func Box(origin topo.Vec3, dx, dy, dz float64) *topo.Shape {
	s, err := sdf.Box3D(v3.Vec{X: dx, Y: dy, Z: dz}, 0)
	if err != nil {
		panic(fmt.Sprintf("faceted.Box: %v", err))
	}
	// sdf.Box3D centers the box; shift to min-corner origin.
	m := sdf.Translate3d(v3.Vec{
		X: origin.X + dx/2,
		Y: origin.Y + dy/2,
		Z: origin.Z + dz/2,
	})
	vol := sdf.Transform3D(s, m)

	o := origin
	c := func(i, j, k float64) topo.Vec3 {
		return topo.Vec3{X: o.X + i*dx, Y: o.Y + j*dy, Z: o.Z + k*dz}
	}
	shell := topo.NewShell(
		topo.NewFace(c(0, 0, 0), c(0, 1, 0), c(1, 1, 0), c(1, 0, 0)), // bottom
		topo.NewFace(c(0, 0, 1), c(1, 0, 1), c(1, 1, 1), c(0, 1, 1)), // top
		topo.NewFace(c(0, 0, 0), c(1, 0, 0), c(1, 0, 1), c(0, 0, 1)), // front
		topo.NewFace(c(0, 1, 0), c(0, 1, 1), c(1, 1, 1), c(1, 1, 0)), // back
		topo.NewFace(c(0, 0, 0), c(0, 0, 1), c(0, 1, 1), c(0, 1, 0)), // left
		topo.NewFace(c(1, 0, 0), c(1, 1, 0), c(1, 1, 1), c(1, 0, 1)), // right
	)
	return topo.NewSolid(vol, shell)
}

// Cylinder creates a solid cylinder centered on the z axis through origin,
// spanning [origin.Z, origin.Z+height]. The boundary shell approximates the
// side wall with the given number of quad segments.
func Cylinder(origin topo.Vec3, height, radius float64, segments int) *topo.Shape {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("faceted.Cylinder: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{X: origin.X, Y: origin.Y, Z: origin.Z + height/2})
	vol := sdf.Transform3D(s, m)

	if segments < 3 {
		segments = 24
	}
	ring := func(z float64) []topo.Vec3 {
		pts := make([]topo.Vec3, segments)
		for i := 0; i < segments; i++ {
			a := 2 * math.Pi * float64(i) / float64(segments)
			pts[i] = topo.Vec3{
				X: origin.X + radius*math.Cos(a),
				Y: origin.Y + radius*math.Sin(a),
				Z: z,
			}
		}
		return pts
	}
	bottom := ring(origin.Z)
	top := ring(origin.Z + height)
	faces := make([]*topo.Face, 0, segments+2)
	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		faces = append(faces, topo.NewFace(bottom[i], bottom[j], top[j], top[i]))
	}
	faces = append(faces, topo.NewFace(bottom...), topo.NewFace(top...))
	return topo.NewSolid(vol, topo.NewShell(faces...))
}

// Sheet creates a planar quad-faceted surface shell spanning the
// parallelogram origin + s*du + t*dv for s, t in [0, 1], subdivided into
// nu by nv quad faces. Sheets serve as forming templates for surface parts.
func Sheet(origin, du, dv topo.Vec3, nu, nv int) *topo.Shape {
	if nu < 1 {
		nu = 1
	}
	if nv < 1 {
		nv = 1
	}
	at := func(i, j int) topo.Vec3 {
		s := float64(i) / float64(nu)
		t := float64(j) / float64(nv)
		return origin.Add(du.Scale(s)).Add(dv.Scale(t))
	}
	faces := make([]*topo.Face, 0, nu*nv)
	for i := 0; i < nu; i++ {
		for j := 0; j < nv; j++ {
			faces = append(faces, topo.NewFace(at(i, j), at(i+1, j), at(i+1, j+1), at(i, j+1)))
		}
	}
	return topo.NewShell(faces...)
}
