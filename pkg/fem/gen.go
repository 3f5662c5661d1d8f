package fem

import (
	"fmt"
	"log/slog"

	"github.com/saluzi/airframe/pkg/topo"
)

// Gen is the mesh-generation context. One instance is shared by a registry
// and every part of one assembly; it owns the active mesh produced by the
// latest Compute. Gen is injected explicitly so independent assemblies can
// coexist in one process.
type Gen struct {
	mesh *Mesh
	log  *slog.Logger
}

// NewGen creates a fresh mesh-generation context with no active mesh.
func NewGen() *Gen {
	return &Gen{log: slog.Default().With("component", "fem.gen")}
}

// ActiveMesh returns the mesh of the latest Compute, or nil before any
// compute has run.
func (g *Gen) ActiveMesh() *Mesh {
	if g == nil {
		return nil
	}
	return g.mesh
}

// MeshBinding binds a sub-shape (a part's face compound) to the hypotheses
// controlling its discretization.
type MeshBinding struct {
	Shape      *topo.Shape
	Hypotheses []Hypothesis
}

// Compute tessellates the assembly: each binding's face compound is meshed
// per its hypotheses into its own sub-mesh, indexed by stable compound key.
// The previous active mesh is replaced wholesale. Bindings with null shapes
// produce empty sub-meshes rather than errors. Every hypothesis must be
// bound to this context; a foreign hypothesis fails the whole compute and
// leaves the active mesh untouched. Compute is blocking and runs to
// completion.
func (g *Gen) Compute(assembly *topo.Shape, bindings []MeshBinding) (*Mesh, error) {
	if assembly.IsNull() {
		return nil, fmt.Errorf("fem: compute on null assembly")
	}
	for _, b := range bindings {
		for _, h := range b.Hypotheses {
			if h.Gen() != g {
				return nil, fmt.Errorf("fem: hypothesis %q bound to a different context", h.Label())
			}
		}
	}
	m := newMesh()
	for _, b := range bindings {
		faces := b.Shape.Faces()
		key := topo.CompoundKey(faces)
		sm := m.submesh(key)
		for _, f := range faces {
			meshFace(m, sm, f, b.Hypotheses)
		}
		g.log.Debug("sub-mesh computed", "key_faces", len(faces), "elements", len(sm.elements))
	}
	g.mesh = m
	g.log.Info("mesh computed", "submeshes", len(m.submeshes), "elements", m.NElements(), "nodes", m.NNodes())
	return m, nil
}
