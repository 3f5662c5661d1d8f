// Package fem manages meshing hypotheses and the mesh-generation context.
// A hypothesis is a named, reusable configuration of meshing parameters
// bound at construction to the shared Gen context; the label-keyed Registry
// hands out strictly increasing ids across all kinds. Computed meshes are
// indexed by stable face-compound keys so structural parts can resolve
// their own elements without owning them.
package fem

import "github.com/saluzi/airframe/pkg/topo"

// Hypothesis is a named meshing-parameter configuration bound to the shared
// mesh-generation context.
type Hypothesis interface {
	// Label returns the registry-unique label.
	Label() string
	// ID returns the creation-ordered id, strictly increasing across all
	// hypothesis kinds.
	ID() int
	// Dimension returns the mesh dimension the hypothesis controls.
	Dimension() int
	// Gen returns the mesh-generation context the hypothesis is bound to.
	Gen() *Gen
}

// binding carries the (id, dimension, context) triple every hypothesis
// receives at construction.
type binding struct {
	label string
	id    int
	dim   int
	gen   *Gen
}

func (b binding) Label() string  { return b.label }
func (b binding) ID() int        { return b.id }
func (b binding) Dimension() int { return b.dim }
func (b binding) Gen() *Gen      { return b.gen }

// ---------------------------------------------------------------------------
// 1-D hypotheses
// ---------------------------------------------------------------------------

// Regular1D is the default edge-discretization algorithm.
type Regular1D struct {
	binding
}

// MaxLength1D caps the length of any generated segment.
type MaxLength1D struct {
	binding
	MaxLength float64
}

// LocalLength1D targets a fixed segment length.
type LocalLength1D struct {
	binding
	LocalLength float64
}

// NumberOfSegments1D forces a fixed segment count per edge.
type NumberOfSegments1D struct {
	binding
	Segments int
}

// Adaptive1D sizes segments adaptively between bounds, honoring a chordal
// deflection limit on curved edges.
type Adaptive1D struct {
	binding
	MinSize    float64
	MaxSize    float64
	Deflection float64
}

// Deflection1D sizes segments from a chordal deflection limit alone.
type Deflection1D struct {
	binding
	Deflection float64
}

// ---------------------------------------------------------------------------
// Netgen hypotheses
// ---------------------------------------------------------------------------

// NetgenParams are the tunable parameters of the general unstructured
// free-mesh controller.
type NetgenParams struct {
	MaxSize           float64
	MinSize           float64
	AllowQuads        bool
	SecondOrder       bool
	Optimize          bool
	Fineness          int
	GrowthRate        float64
	SegmentsPerEdge   int
	SegmentsPerRadius int
	SurfaceCurvature  bool
	FuseEdges         bool
}

// DefaultNetgenParams mirrors the engine's stock defaults.
func DefaultNetgenParams() NetgenParams {
	return NetgenParams{
		MaxSize:           1000,
		MinSize:           0,
		Optimize:          true,
		Fineness:          2,
		GrowthRate:        0.3,
		SegmentsPerEdge:   1,
		SegmentsPerRadius: 2,
	}
}

// NetgenHypothesis is the general unstructured free-mesh controller.
type NetgenHypothesis struct {
	binding
	Params NetgenParams
}

// NetgenSimple2D is the simplified 2-D sizing hypothesis. LengthFromEdges
// derives element size from boundary edge sizes instead of LocalLength;
// MaxArea applies only when positive.
type NetgenSimple2D struct {
	binding
	LocalLength     float64
	AllowQuads      bool
	LengthFromEdges bool
	MaxArea         float64
}

// NetgenAlgo2D selects the Netgen 2-D algorithm. No tunable parameters.
type NetgenAlgo2D struct {
	binding
}

// NetgenAlgoOnly2D selects the Netgen 2-D-only algorithm. No tunable
// parameters.
type NetgenAlgoOnly2D struct {
	binding
}

// ---------------------------------------------------------------------------
// Quadrangle hypotheses
// ---------------------------------------------------------------------------

// QuadType selects the quad-layout policy.
type QuadType int

// QuadStandard is the standard quad-layout policy. QuadrangleParams2D is
// fixed to it.
const QuadStandard QuadType = iota

// QuadrangleParams2D parameterizes quad-dominant recombination.
type QuadrangleParams2D struct {
	binding
	QuadType QuadType
}

// Quadrangle2D is the quad-meshing algorithm.
type Quadrangle2D struct {
	binding
}

// IsApplicable reports whether the algorithm can mesh the shape. A face is
// quad-applicable when its boundary has exactly four edges. With checkAll
// every face must be applicable; otherwise one suffices. A shape with no
// faces is never applicable.
func (q *Quadrangle2D) IsApplicable(s *topo.Shape, checkAll bool) bool {
	faces := s.Faces()
	if len(faces) == 0 {
		return false
	}
	for _, f := range faces {
		ok := f.NEdges() == 4
		if checkAll && !ok {
			return false
		}
		if !checkAll && ok {
			return true
		}
	}
	return checkAll
}
