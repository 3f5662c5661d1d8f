package topo

import "math"

// Vec3 is a point or direction in 3-D space.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns the component-wise sum v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the component-wise difference v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product v · o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean norm of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalized returns v scaled to unit length. The zero vector is
// returned unchanged.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// DistanceTo returns the distance between two points.
func (v Vec3) DistanceTo(o Vec3) float64 {
	return o.Sub(v).Length()
}

// Plane is an infinite plane given by a point on it and a unit normal.
type Plane struct {
	Origin Vec3
	Normal Vec3
}

// DistanceTo returns the unsigned distance from p to the plane.
func (pl Plane) DistanceTo(p Vec3) float64 {
	return math.Abs(pl.Normal.Dot(p.Sub(pl.Origin)))
}

// Line is a straight segment between two points, used as a derived
// reference curve.
type Line struct {
	P1, P2 Vec3
}

// Length returns the segment length.
func (l Line) Length() float64 {
	return l.P1.DistanceTo(l.P2)
}

// Eval returns the point at parameter t in [0, 1].
func (l Line) Eval(t float64) Vec3 {
	return l.P1.Add(l.P2.Sub(l.P1).Scale(t))
}

// segmentDistance returns the distance from point p to segment [a, b].
func segmentDistance(p, a, b Vec3) float64 {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom == 0 {
		return p.DistanceTo(a)
	}
	t := p.Sub(a).Dot(ab) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.DistanceTo(a.Add(ab.Scale(t)))
}
