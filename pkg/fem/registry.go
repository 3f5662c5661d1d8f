package fem

import (
	"errors"
	"fmt"
	"log/slog"
)

// Registry lookup and creation failures.
var (
	// ErrNotFound is returned when a label resolves to no hypothesis.
	ErrNotFound = errors.New("hypothesis not found")
	// ErrDuplicateLabel is returned when a label is already registered.
	// Re-registration is rejected rather than overwritten.
	ErrDuplicateLabel = errors.New("hypothesis label already registered")
)

// Registry owns all hypotheses of one mesh-generation context, keyed by
// globally unique label. Ids increase strictly with each creation
// regardless of kind, starting at 0. The registry is single-writer state
// for a serial construction phase; it has no concurrency control.
type Registry struct {
	gen     *Gen
	byLabel map[string]Hypothesis
	nextID  int
	log     *slog.Logger
}

// NewRegistry creates an empty registry bound to the given context.
func NewRegistry(gen *Gen) *Registry {
	return &Registry{
		gen:     gen,
		byLabel: make(map[string]Hypothesis),
		log:     slog.Default().With("component", "fem.registry"),
	}
}

// Gen returns the bound mesh-generation context.
func (r *Registry) Gen() *Gen {
	return r.gen
}

// Count returns the number of registered hypotheses.
func (r *Registry) Count() int {
	return len(r.byLabel)
}

// Get resolves a hypothesis from either a Hypothesis value (returned
// unchanged) or a string label. A missing label returns ErrNotFound.
func (r *Registry) Get(v any) (Hypothesis, error) {
	switch h := v.(type) {
	case Hypothesis:
		return h, nil
	case string:
		found, ok := r.byLabel[h]
		if !ok {
			return nil, fmt.Errorf("label %q: %w", h, ErrNotFound)
		}
		return found, nil
	default:
		return nil, fmt.Errorf("cannot resolve %T: %w", v, ErrNotFound)
	}
}

// bind allocates the next id and registers the label. The id advances only
// on success so ids stay contiguous under rejected duplicates.
func (r *Registry) bind(label string, dim int) (binding, error) {
	if _, exists := r.byLabel[label]; exists {
		return binding{}, fmt.Errorf("label %q: %w", label, ErrDuplicateLabel)
	}
	b := binding{label: label, id: r.nextID, dim: dim, gen: r.gen}
	r.nextID++
	return b, nil
}

func (r *Registry) register(h Hypothesis) {
	r.byLabel[h.Label()] = h
	r.log.Debug("hypothesis registered", "label", h.Label(), "id", h.ID(), "kind", fmt.Sprintf("%T", h))
}

// Regular1D creates the default edge-discretization algorithm.
func (r *Registry) Regular1D(label string) (*Regular1D, error) {
	b, err := r.bind(label, 1)
	if err != nil {
		return nil, err
	}
	h := &Regular1D{binding: b}
	r.register(h)
	return h, nil
}

// MaxLength1D creates a maximum segment length hypothesis.
func (r *Registry) MaxLength1D(label string, maxLength float64) (*MaxLength1D, error) {
	b, err := r.bind(label, 1)
	if err != nil {
		return nil, err
	}
	h := &MaxLength1D{binding: b, MaxLength: maxLength}
	r.register(h)
	return h, nil
}

// LocalLength1D creates a fixed target segment length hypothesis.
func (r *Registry) LocalLength1D(label string, localLength float64) (*LocalLength1D, error) {
	b, err := r.bind(label, 1)
	if err != nil {
		return nil, err
	}
	h := &LocalLength1D{binding: b, LocalLength: localLength}
	r.register(h)
	return h, nil
}

// NumberOfSegments1D creates a fixed segment count hypothesis.
func (r *Registry) NumberOfSegments1D(label string, segments int) (*NumberOfSegments1D, error) {
	b, err := r.bind(label, 1)
	if err != nil {
		return nil, err
	}
	h := &NumberOfSegments1D{binding: b, Segments: segments}
	r.register(h)
	return h, nil
}

// Adaptive1D creates a curvature-adaptive 1-D sizing hypothesis.
func (r *Registry) Adaptive1D(label string, minSize, maxSize, deflection float64) (*Adaptive1D, error) {
	b, err := r.bind(label, 1)
	if err != nil {
		return nil, err
	}
	h := &Adaptive1D{binding: b, MinSize: minSize, MaxSize: maxSize, Deflection: deflection}
	r.register(h)
	return h, nil
}

// Deflection1D creates a chordal-deflection sizing hypothesis.
func (r *Registry) Deflection1D(label string, deflection float64) (*Deflection1D, error) {
	b, err := r.bind(label, 1)
	if err != nil {
		return nil, err
	}
	h := &Deflection1D{binding: b, Deflection: deflection}
	r.register(h)
	return h, nil
}

// NetgenHypothesis creates the general unstructured free-mesh controller.
func (r *Registry) NetgenHypothesis(label string, params NetgenParams) (*NetgenHypothesis, error) {
	b, err := r.bind(label, 2)
	if err != nil {
		return nil, err
	}
	h := &NetgenHypothesis{binding: b, Params: params}
	r.register(h)
	return h, nil
}

// NetgenSimple2D creates the simplified 2-D sizing hypothesis.
func (r *Registry) NetgenSimple2D(label string, localLength float64, allowQuads, lengthFromEdges bool, maxArea float64) (*NetgenSimple2D, error) {
	b, err := r.bind(label, 2)
	if err != nil {
		return nil, err
	}
	h := &NetgenSimple2D{
		binding:         b,
		LocalLength:     localLength,
		AllowQuads:      allowQuads,
		LengthFromEdges: lengthFromEdges,
		MaxArea:         maxArea,
	}
	r.register(h)
	return h, nil
}

// NetgenAlgo2D creates the Netgen 2-D algorithm selector.
func (r *Registry) NetgenAlgo2D(label string) (*NetgenAlgo2D, error) {
	b, err := r.bind(label, 2)
	if err != nil {
		return nil, err
	}
	h := &NetgenAlgo2D{binding: b}
	r.register(h)
	return h, nil
}

// NetgenAlgoOnly2D creates the Netgen 2-D-only algorithm selector.
func (r *Registry) NetgenAlgoOnly2D(label string) (*NetgenAlgoOnly2D, error) {
	b, err := r.bind(label, 2)
	if err != nil {
		return nil, err
	}
	h := &NetgenAlgoOnly2D{binding: b}
	r.register(h)
	return h, nil
}

// QuadrangleParams2D creates quad-dominant recombination parameters fixed
// to the standard layout policy.
func (r *Registry) QuadrangleParams2D(label string) (*QuadrangleParams2D, error) {
	b, err := r.bind(label, 2)
	if err != nil {
		return nil, err
	}
	h := &QuadrangleParams2D{binding: b, QuadType: QuadStandard}
	r.register(h)
	return h, nil
}

// Quadrangle2D creates the quad-meshing algorithm.
func (r *Registry) Quadrangle2D(label string) (*Quadrangle2D, error) {
	b, err := r.bind(label, 2)
	if err != nil {
		return nil, err
	}
	h := &Quadrangle2D{binding: b}
	r.register(h)
	return h, nil
}
