package fem

import (
	"math"

	"github.com/saluzi/airframe/pkg/topo"
)

// ceilDiv returns the number of segments of at most size needed to cover
// length, never less than one.
func ceilDiv(length, size float64) int {
	if size <= 0 || length <= 0 {
		return 1
	}
	n := int(math.Ceil(length/size - 1e-9))
	if n < 1 {
		return 1
	}
	return n
}

// segmentsForEdge resolves the segment count for one boundary edge from the
// bound 1-D hypotheses; the strictest requirement wins. Edges are straight,
// so deflection-based sizing never subdivides.
func segmentsForEdge(e topo.Edge, hyps []Hypothesis) int {
	n := 1
	l := e.Length()
	bump := func(v int) {
		if v > n {
			n = v
		}
	}
	for _, h := range hyps {
		switch h := h.(type) {
		case *MaxLength1D:
			bump(ceilDiv(l, h.MaxLength))
		case *LocalLength1D:
			bump(ceilDiv(l, h.LocalLength))
		case *NumberOfSegments1D:
			bump(h.Segments)
		case *Adaptive1D:
			want := ceilDiv(l, h.MaxSize)
			if h.MinSize > 0 {
				if most := ceilDiv(l, h.MinSize); want > most {
					want = most
				}
			}
			bump(want)
		case *NetgenHypothesis:
			bump(h.Params.SegmentsPerEdge)
			bump(ceilDiv(l, h.Params.MaxSize))
		case *NetgenSimple2D:
			if !h.LengthFromEdges {
				bump(ceilDiv(l, h.LocalLength))
			}
		}
	}
	return n
}

// quadsAllowed reports whether the bound hypotheses permit quad elements.
func quadsAllowed(hyps []Hypothesis) bool {
	for _, h := range hyps {
		switch h := h.(type) {
		case *NetgenSimple2D:
			if h.AllowQuads {
				return true
			}
		case *NetgenHypothesis:
			if h.Params.AllowQuads {
				return true
			}
		case *Quadrangle2D:
			return true
		}
	}
	return false
}

// areaCap returns the maximum element area, or 0 for unconstrained.
func areaCap(hyps []Hypothesis) float64 {
	for _, h := range hyps {
		if s, ok := h.(*NetgenSimple2D); ok && s.MaxArea > 0 {
			return s.MaxArea
		}
	}
	return 0
}

// meshFace discretizes one face into the sub-mesh. Four-edge faces become
// an n-by-n quad grid when quads are allowed; everything else is a centroid
// fan of triangles over the subdivided boundary.
func meshFace(m *Mesh, sm *SubMesh, f *topo.Face, hyps []Hypothesis) {
	if f == nil {
		return
	}
	n := 1
	for _, e := range f.Edges() {
		if s := segmentsForEdge(e, hyps); s > n {
			n = s
		}
	}

	quad := quadsAllowed(hyps) && f.NEdges() == 4
	if maxArea := areaCap(hyps); maxArea > 0 {
		for n < 64 {
			var elems float64
			if quad {
				elems = float64(n * n)
			} else {
				elems = float64(n * f.NEdges())
			}
			if f.Area()/elems <= maxArea {
				break
			}
			n++
		}
	}

	if quad {
		meshQuadGrid(m, sm, f, n)
		return
	}
	meshFan(m, sm, f, n)
}

// meshQuadGrid lays an n-by-n bilinear grid of quad elements over a
// four-sided face.
func meshQuadGrid(m *Mesh, sm *SubMesh, f *topo.Face, n int) {
	loop := f.Loop()
	at := func(u, v float64) topo.Vec3 {
		// Bilinear interpolation over the four corners.
		a := loop[0].Scale((1 - u) * (1 - v))
		b := loop[1].Scale(u * (1 - v))
		c := loop[2].Scale(u * v)
		d := loop[3].Scale((1 - u) * v)
		return a.Add(b).Add(c).Add(d)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			u0 := float64(i) / float64(n)
			u1 := float64(i+1) / float64(n)
			v0 := float64(j) / float64(n)
			v1 := float64(j+1) / float64(n)
			m.addElement(sm, at(u0, v0), at(u1, v0), at(u1, v1), at(u0, v1))
		}
	}
}

// meshFan triangulates a face as a fan from its centroid over the boundary
// subdivided into n segments per edge.
func meshFan(m *Mesh, sm *SubMesh, f *topo.Face, n int) {
	c := f.Centroid()
	var ring []topo.Vec3
	for _, e := range f.Edges() {
		for k := 0; k < n; k++ {
			t := float64(k) / float64(n)
			ring = append(ring, e.P1.Add(e.P2.Sub(e.P1).Scale(t)))
		}
	}
	for i := 0; i < len(ring); i++ {
		m.addElement(sm, c, ring[i], ring[(i+1)%len(ring)])
	}
}
