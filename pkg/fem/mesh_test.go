package fem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saluzi/airframe/pkg/topo"
)

func quadFace(x0 float64) *topo.Face {
	return topo.NewFace(
		topo.Vec3{X: x0},
		topo.Vec3{X: x0 + 1},
		topo.Vec3{X: x0 + 1, Z: 1},
		topo.Vec3{X: x0, Z: 1},
	)
}

func triFace() *topo.Face {
	return topo.NewFace(topo.Vec3{}, topo.Vec3{X: 1}, topo.Vec3{X: 1, Z: 1})
}

func TestQuadrangleIsApplicable(t *testing.T) {
	r := NewRegistry(NewGen())
	q, err := r.Quadrangle2D("q")
	require.NoError(t, err)

	quads := topo.NewShell(quadFace(0), quadFace(1))
	mixed := topo.NewShell(quadFace(0), triFace())
	tris := topo.NewShell(triFace())

	assert.True(t, q.IsApplicable(quads, true))
	assert.True(t, q.IsApplicable(quads, false))
	assert.False(t, q.IsApplicable(mixed, true))
	assert.True(t, q.IsApplicable(mixed, false))
	assert.False(t, q.IsApplicable(tris, true))
	assert.False(t, q.IsApplicable(tris, false))

	assert.False(t, q.IsApplicable(topo.NewShell(), true))
	assert.False(t, q.IsApplicable(topo.NewShell(), false))
}

func TestComputeFanMesh(t *testing.T) {
	gen := NewGen()
	r := NewRegistry(gen)
	seg, err := r.NumberOfSegments1D("seg", 2)
	require.NoError(t, err)

	shell := topo.NewShell(quadFace(0))
	mesh, err := gen.Compute(shell, []MeshBinding{
		{Shape: shell, Hypotheses: []Hypothesis{seg}},
	})
	require.NoError(t, err)
	require.Same(t, mesh, gen.ActiveMesh())

	sm := mesh.SubMesh(topo.CompoundKey(shell.Faces()))
	require.False(t, sm.IsEmpty())
	// 4 edges at 2 segments each: an 8-triangle centroid fan.
	assert.Len(t, sm.Elements(), 8)
	for _, e := range sm.Elements() {
		assert.Equal(t, 3, e.NNodes())
	}
}

func TestComputeQuadMesh(t *testing.T) {
	gen := NewGen()
	r := NewRegistry(gen)
	seg, err := r.NumberOfSegments1D("seg", 2)
	require.NoError(t, err)
	quad, err := r.Quadrangle2D("quad")
	require.NoError(t, err)

	shell := topo.NewShell(quadFace(0))
	mesh, err := gen.Compute(shell, []MeshBinding{
		{Shape: shell, Hypotheses: []Hypothesis{seg, quad}},
	})
	require.NoError(t, err)

	sm := mesh.SubMesh(topo.CompoundKey(shell.Faces()))
	require.False(t, sm.IsEmpty())
	// 2x2 quad grid.
	assert.Len(t, sm.Elements(), 4)
	for _, e := range sm.Elements() {
		assert.Equal(t, 4, e.NNodes())
	}
	// 3x3 grid of shared nodes.
	assert.Equal(t, 9, mesh.NNodes())
}

func TestComputeMaxAreaRefines(t *testing.T) {
	gen := NewGen()
	r := NewRegistry(gen)
	coarse, err := r.NetgenSimple2D("coarse", 10, false, true, 0)
	require.NoError(t, err)
	fine, err := r.NetgenSimple2D("fine", 10, false, true, 0.05)
	require.NoError(t, err)

	shell := topo.NewShell(quadFace(0))
	mesh, err := gen.Compute(shell, []MeshBinding{
		{Shape: shell, Hypotheses: []Hypothesis{coarse}},
	})
	require.NoError(t, err)
	nCoarse := len(mesh.SubMesh(topo.CompoundKey(shell.Faces())).Elements())

	mesh, err = gen.Compute(shell, []MeshBinding{
		{Shape: shell, Hypotheses: []Hypothesis{fine}},
	})
	require.NoError(t, err)
	nFine := len(mesh.SubMesh(topo.CompoundKey(shell.Faces())).Elements())

	assert.Greater(t, nFine, nCoarse)
}

func TestComputeLocalLengthDrivesSegments(t *testing.T) {
	gen := NewGen()
	r := NewRegistry(gen)
	ll, err := r.LocalLength1D("ll", 0.25)
	require.NoError(t, err)

	shell := topo.NewShell(quadFace(0))
	mesh, err := gen.Compute(shell, []MeshBinding{
		{Shape: shell, Hypotheses: []Hypothesis{ll}},
	})
	require.NoError(t, err)

	// Unit edges at 0.25 target length: 4 segments per edge, 16 fan
	// triangles.
	sm := mesh.SubMesh(topo.CompoundKey(shell.Faces()))
	assert.Len(t, sm.Elements(), 16)
}

func TestComputeSharesNodesAcrossSubMeshes(t *testing.T) {
	gen := NewGen()
	s1 := topo.NewShell(quadFace(0))
	s2 := topo.NewShell(quadFace(1))
	assembly := topo.NewCompound(s1, s2)

	mesh, err := gen.Compute(assembly, []MeshBinding{
		{Shape: s1},
		{Shape: s2},
	})
	require.NoError(t, err)

	// Each quad fans into 4 triangles over 5 points; the two shared
	// boundary corners are deduplicated mesh-wide.
	assert.Equal(t, 8, mesh.NElements())
	assert.Equal(t, 8, mesh.NNodes())
}

func TestComputeNullAssembly(t *testing.T) {
	gen := NewGen()
	_, err := gen.Compute(nil, nil)
	assert.Error(t, err)
	assert.Nil(t, gen.ActiveMesh())
}

func TestSubMeshAbsent(t *testing.T) {
	gen := NewGen()
	shell := topo.NewShell(quadFace(0))
	mesh, err := gen.Compute(shell, nil)
	require.NoError(t, err)

	var sm *SubMesh
	assert.True(t, sm.IsEmpty())
	assert.Nil(t, mesh.SubMesh("nope"))
}
