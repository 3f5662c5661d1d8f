package fem

import (
	"fmt"

	"github.com/saluzi/airframe/pkg/topo"
)

// Node is one mesh node. Nodes are deduplicated mesh-wide by position, so
// adjoining sub-meshes share node instances along sewn boundaries.
type Node struct {
	id int
	p  topo.Vec3
}

// ID returns the mesh-wide node id.
func (n *Node) ID() int {
	return n.id
}

// Point returns the node position.
func (n *Node) Point() topo.Vec3 {
	return n.p
}

// Elm2D is a typed view over one 2-D element (triangle or quadrangle).
type Elm2D struct {
	id    int
	nodes []*Node
}

// ID returns the mesh-wide element id.
func (e *Elm2D) ID() int {
	return e.id
}

// Nodes returns the element's corner nodes in order.
func (e *Elm2D) Nodes() []*Node {
	return e.nodes
}

// NNodes returns the element's node count.
func (e *Elm2D) NNodes() int {
	return len(e.nodes)
}

// SubMesh is the portion of a mesh bound to one sub-shape (a part's face
// compound).
type SubMesh struct {
	elements []*Elm2D
}

// IsEmpty reports whether the sub-mesh holds no elements.
func (sm *SubMesh) IsEmpty() bool {
	return sm == nil || len(sm.elements) == 0
}

// Elements returns the raw element handles. The slice is the engine's
// iteration order and may contain repeated handles; callers deduplicate.
func (sm *SubMesh) Elements() []*Elm2D {
	if sm == nil {
		return nil
	}
	return sm.elements
}

// Mesh is one generated mesh: sub-meshes keyed by stable face-compound key
// plus the mesh-wide node table. The index is rebuilt wholesale on every
// compute; nothing holds element references across computes.
type Mesh struct {
	submeshes map[string]*SubMesh
	nodes     map[string]*Node
	nextNode  int
	nextElm   int
}

func newMesh() *Mesh {
	return &Mesh{
		submeshes: make(map[string]*SubMesh),
		nodes:     make(map[string]*Node),
	}
}

// SubMesh returns the sub-mesh bound to the given face-compound key, or nil
// if none exists.
func (m *Mesh) SubMesh(key string) *SubMesh {
	if m == nil {
		return nil
	}
	return m.submeshes[key]
}

// NNodes returns the mesh-wide node count.
func (m *Mesh) NNodes() int {
	return len(m.nodes)
}

// NElements returns the mesh-wide element count.
func (m *Mesh) NElements() int {
	return m.nextElm
}

// node returns the mesh-wide node at p, creating it on first use.
func (m *Mesh) node(p topo.Vec3) *Node {
	key := fmt.Sprintf("%.6f,%.6f,%.6f", p.X, p.Y, p.Z)
	if n, ok := m.nodes[key]; ok {
		return n
	}
	n := &Node{id: m.nextNode, p: p}
	m.nextNode++
	m.nodes[key] = n
	return n
}

// addElement appends a new element over the given points to a sub-mesh.
func (m *Mesh) addElement(sm *SubMesh, pts ...topo.Vec3) *Elm2D {
	nodes := make([]*Node, 0, len(pts))
	for _, p := range pts {
		nodes = append(nodes, m.node(p))
	}
	e := &Elm2D{id: m.nextElm, nodes: nodes}
	m.nextElm++
	sm.elements = append(sm.elements, e)
	return e
}

func (m *Mesh) submesh(key string) *SubMesh {
	if sm, ok := m.submeshes[key]; ok {
		return sm
	}
	sm := &SubMesh{}
	m.submeshes[key] = sm
	return sm
}
