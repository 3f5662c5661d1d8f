package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saluzi/airframe/pkg/topo"
)

func TestGroupRegistration(t *testing.T) {
	g := NewGroup("wingbox")
	assert.Equal(t, "wingbox", g.Label())

	spar := newTestPart(t, "spar", sheetAt(0, 1))
	rib := newTestPart(t, "rib", sheetAt(1, 1))
	body := NewBody("wing", nil)

	require.NoError(t, g.Add(spar))
	require.NoError(t, g.Add(rib))
	require.NoError(t, g.Add(body))
	assert.Error(t, g.Add(newTestPart(t, "spar", nil)))
	assert.Error(t, g.Add(nil))

	assert.Same(t, spar, g.Get("spar").(*SurfacePart))
	assert.Nil(t, g.Get("missing"))
	assert.Len(t, g.Parts(), 3)

	// Surface parts only, registration order preserved.
	sps := g.SurfaceParts()
	require.Len(t, sps, 2)
	assert.Equal(t, "spar", sps[0].Label())
	assert.Equal(t, "rib", sps[1].Label())
}

func TestGroupCompound(t *testing.T) {
	g := NewGroup("wingbox")
	spar := newTestPart(t, "spar", sheetAt(0, 1))
	spar.SetShape(spar.SurfaceShape())
	empty := newTestPart(t, "unbuilt", sheetAt(1, 1))
	require.NoError(t, g.Add(spar))
	require.NoError(t, g.Add(empty))

	c := g.Compound()
	require.False(t, c.IsNull())
	// Null shapes are left out of the compound.
	assert.Len(t, c.Children(), 1)
}

func TestFusePartsJoinsTouchingPairs(t *testing.T) {
	p1 := newTestPart(t, "p1", sheetAt(0, 1))
	p1.SetShape(p1.SurfaceShape())
	p2 := newTestPart(t, "p2", sheetAt(1, 1))
	p2.SetShape(p2.SurfaceShape())
	far := newTestPart(t, "far", sheetAt(10, 1))
	far.SetShape(far.SurfaceShape())

	fused := FuseParts([]*SurfacePart{p1, p2, far}, 0)
	assert.Equal(t, 1, fused)
	assert.Equal(t, 2, p1.NFaces())
	assert.Equal(t, 1, far.NFaces())
}

func TestFusePartsSkipsNullShapes(t *testing.T) {
	built := newTestPart(t, "built", sheetAt(0, 1))
	built.SetShape(built.SurfaceShape())
	unbuilt := newTestPart(t, "unbuilt", sheetAt(1, 1))

	assert.Zero(t, FuseParts([]*SurfacePart{built, unbuilt}, 0))
	assert.Equal(t, 1, built.NFaces())
}

func TestDiscardByRef(t *testing.T) {
	// Main face along the reference curve plus an extraneous trimmed region.
	main := topo.NewFace(topo.Vec3{}, topo.Vec3{X: 4}, topo.Vec3{X: 4, Z: 1}, topo.Vec3{Z: 1})
	extra := topo.NewFace(topo.Vec3{Z: 2}, topo.Vec3{X: 1, Z: 2}, topo.Vec3{X: 1, Z: 3}, topo.Vec3{Z: 3})
	p := newTestPart(t, "spar", nil)
	p.SetShape(topo.NewShell(main, extra))

	cref := p.Cref()
	require.NotNil(t, cref)
	assert.InDelta(t, 4.0, cref.Length(), 1e-9)

	modified := DiscardByRef([]*SurfacePart{p}, 0.6)
	assert.Equal(t, 1, modified)
	require.Equal(t, 1, p.NFaces())
	assert.InDelta(t, 0.5, p.Faces()[0].Centroid().Z, 1e-9)
}

func TestDiscardByRefNoChange(t *testing.T) {
	whole := newTestPart(t, "rib", sheetAt(0, 1))
	whole.SetShape(whole.SurfaceShape())
	unbuilt := newTestPart(t, "unbuilt", sheetAt(1, 1))

	// Every face lies within tolerance of the reference curve: untouched.
	assert.Zero(t, DiscardByRef([]*SurfacePart{whole, unbuilt}, 1.0))
	assert.Equal(t, 1, whole.NFaces())
}
