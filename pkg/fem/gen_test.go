package fem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saluzi/airframe/pkg/topo"
)

func TestHypothesisBoundContext(t *testing.T) {
	gen := NewGen()
	reg := NewRegistry(gen)
	seg, err := reg.NumberOfSegments1D("seg", 2)
	require.NoError(t, err)

	assert.Same(t, gen, seg.Gen())
	assert.Same(t, gen, reg.Gen())
}

func TestComputeRejectsForeignHypothesis(t *testing.T) {
	mine := NewGen()
	other := NewGen()
	reg := NewRegistry(other)
	seg, err := reg.NumberOfSegments1D("seg", 2)
	require.NoError(t, err)

	f := topo.NewFace(topo.Vec3{}, topo.Vec3{X: 1}, topo.Vec3{X: 1, Z: 1}, topo.Vec3{Z: 1})
	shell := topo.NewShell(f)
	bindings := []MeshBinding{{Shape: shell, Hypotheses: []Hypothesis{seg}}}

	_, err = mine.Compute(shell, bindings)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `"seg"`)
	assert.Nil(t, mine.ActiveMesh())

	// The owning context accepts the same binding.
	m, err := other.Compute(shell, bindings)
	require.NoError(t, err)
	assert.Positive(t, m.NElements())
}
