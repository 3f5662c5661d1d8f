package faceted

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saluzi/airframe/pkg/kernel"
	"github.com/saluzi/airframe/pkg/topo"
)

// planeSheet returns a 2x1 sheet in the xz plane at y=0, faceted into two
// unit quads spanning x in [0,2], z in [0,1].
func planeSheet() *topo.Shape {
	return Sheet(topo.Vec3{}, topo.Vec3{X: 2}, topo.Vec3{Z: 1}, 2, 1)
}

func TestToShape(t *testing.T) {
	k := New()

	assert.Nil(t, k.ToShape(nil))
	assert.Nil(t, k.ToShape(42))

	s := planeSheet()
	assert.Same(t, s, k.ToShape(s))

	f := topo.NewFace(topo.Vec3{}, topo.Vec3{X: 1}, topo.Vec3{X: 1, Z: 1})
	fs := k.ToShape(f)
	require.NotNil(t, fs)
	assert.Equal(t, topo.KindFace, fs.Kind())

	faces := k.ToShape([]*topo.Face{f})
	require.NotNil(t, faces)
	assert.Equal(t, topo.KindCompound, faces.Kind())
	assert.Nil(t, k.ToShape([]*topo.Face{}))
}

func TestBoxClassifiesAsSolid(t *testing.T) {
	b := Box(topo.Vec3{}, 1, 1, 1)
	assert.Equal(t, topo.KindSolid, b.Kind())
	assert.False(t, b.IsNull())
	assert.Len(t, b.Faces(), 6)
}

func TestSectionTrimsSheetAgainstBox(t *testing.T) {
	k := New()
	sheet := planeSheet()
	// Box encloses only the first quad (x in [0,1]).
	box := Box(topo.Vec3{Y: -0.5}, 1, 1, 1)

	trimmed := k.Section(sheet, box)
	require.NotNil(t, trimmed)
	assert.Len(t, trimmed.Faces(), 1)

	far := Box(topo.Vec3{X: 10, Y: 10, Z: 10}, 1, 1, 1)
	assert.Nil(t, k.Section(sheet, far))

	assert.Nil(t, k.Section(nil, box))
	assert.Nil(t, k.Section(sheet, nil))
}

func TestFuseCollapsesCoincidentFaces(t *testing.T) {
	k := New()
	a := planeSheet()
	b := planeSheet() // geometrically identical, distinct instances

	fused, err := k.Fuse(a, b)
	require.NoError(t, err)
	assert.Len(t, fused.Faces(), 2)
}

func TestFuseRejectsNullOperand(t *testing.T) {
	k := New()
	_, err := k.Fuse(planeSheet(), nil)
	assert.Error(t, err)
	_, err = k.Fuse(nil, planeSheet())
	assert.Error(t, err)
}

func TestFuseSolidsUnitesVolumes(t *testing.T) {
	k := New()
	a := Box(topo.Vec3{}, 1, 1, 1)
	b := Box(topo.Vec3{X: 0.5}, 1, 1, 1)

	fused, err := k.Fuse(a, b)
	require.NoError(t, err)
	assert.Equal(t, topo.KindSolid, fused.Kind())

	// A point interior to the second box is inside the union.
	d, ok := signedDistance(fused, topo.Vec3{X: 1.25, Y: 0.5, Z: 0.5})
	require.True(t, ok)
	assert.Less(t, d, 0.0)
}

func TestSewWeldsNearbyBoundaries(t *testing.T) {
	k := New()
	s1 := Sheet(topo.Vec3{}, topo.Vec3{X: 1}, topo.Vec3{Z: 1}, 1, 1)
	// Second sheet offset so its left boundary misses x=1 by 5e-4.
	s2 := Sheet(topo.Vec3{X: 1.0005}, topo.Vec3{X: 1}, topo.Vec3{Z: 1}, 1, 1)

	sharedKeys := func(a, b *topo.Shape) int {
		keys := make(map[string]bool)
		for _, e := range a.Edges() {
			keys[e.Key()] = true
		}
		n := 0
		for _, e := range b.Edges() {
			if keys[e.Key()] {
				n++
			}
		}
		return n
	}
	assert.Zero(t, sharedKeys(s1, s2))

	sewn, err := k.Sew([]*topo.Shape{s1, s2}, 1e-3)
	require.NoError(t, err)
	require.Len(t, sewn, 2)
	assert.Equal(t, 1, sharedKeys(sewn[0], sewn[1]))
}

func TestUnifyMergesCoplanarNeighbors(t *testing.T) {
	k := New()
	sheet := planeSheet()
	require.Len(t, sheet.Faces(), 2)

	unified, err := k.Unify(sheet, kernel.DefaultUnifyOptions())
	require.NoError(t, err)
	faces := unified.Faces()
	require.Len(t, faces, 1)
	assert.Equal(t, 4, faces[0].NEdges())
	assert.InDelta(t, 2.0, faces[0].Area(), 1e-9)
}

func TestUnifyLeavesNonCoplanarAlone(t *testing.T) {
	k := New()
	flat := topo.NewFace(topo.Vec3{}, topo.Vec3{X: 1}, topo.Vec3{X: 1, Z: 1}, topo.Vec3{Z: 1})
	tilted := topo.NewFace(topo.Vec3{X: 1}, topo.Vec3{X: 2, Y: 1}, topo.Vec3{X: 2, Y: 1, Z: 1}, topo.Vec3{X: 1, Z: 1})
	shell := topo.NewShell(flat, tilted)

	unified, err := k.Unify(shell, kernel.DefaultUnifyOptions())
	require.NoError(t, err)
	assert.Len(t, unified.Faces(), 2)
}

func TestFacesEnclosed(t *testing.T) {
	k := New()
	sheet := planeSheet()
	box := Box(topo.Vec3{Y: -0.5}, 1, 1, 1)

	enclosed := k.FacesEnclosed(sheet, box)
	require.Len(t, enclosed, 1)
	c := enclosed[0].Centroid()
	assert.InDelta(t, 0.5, c.X, 1e-9)
}

func TestFacesNear(t *testing.T) {
	k := New()
	sheet := planeSheet()
	// Reference face parallel to the first quad, offset by 0.05 in y.
	ref := topo.NewFaceShape(topo.NewFace(
		topo.Vec3{Y: 0.05},
		topo.Vec3{X: 1, Y: 0.05},
		topo.Vec3{X: 1, Y: 0.05, Z: 1},
		topo.Vec3{Y: 0.05, Z: 1},
	))

	near := k.FacesNear(sheet, ref, 0.1)
	require.Len(t, near, 1)
	assert.InDelta(t, 0.5, near[0].Centroid().X, 1e-9)

	assert.Empty(t, k.FacesNear(sheet, ref, 0.0000001))
}

func TestDistance(t *testing.T) {
	k := New()
	a := Sheet(topo.Vec3{}, topo.Vec3{X: 1}, topo.Vec3{Z: 1}, 1, 1)
	b := Sheet(topo.Vec3{X: 3}, topo.Vec3{X: 1}, topo.Vec3{Z: 1}, 1, 1)

	assert.InDelta(t, 2.0, k.Distance(a, b), 1e-9)
	assert.InDelta(t, 2.0, k.Distance(b, a), 1e-9)
	assert.Less(t, k.Distance(nil, a), 0.0)

	touching := Sheet(topo.Vec3{X: 1}, topo.Vec3{X: 1}, topo.Vec3{Z: 1}, 1, 1)
	assert.InDelta(t, 0.0, k.Distance(a, touching), 1e-9)
}

func TestCylinderVolume(t *testing.T) {
	c := Cylinder(topo.Vec3{}, 2, 0.5, 16)
	assert.Equal(t, topo.KindSolid, c.Kind())

	d, ok := signedDistance(c, topo.Vec3{Z: 1})
	require.True(t, ok)
	assert.Less(t, d, 0.0)

	d, _ = signedDistance(c, topo.Vec3{X: 2, Z: 1})
	assert.Greater(t, d, 0.0)
}
