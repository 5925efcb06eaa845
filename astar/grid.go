package astar

// NodeID indexes a Node inside the GridIndex that owns it.
type NodeID int32

// NoParent marks a node without a predecessor.
const NoParent NodeID = -1

type nodeState uint8

const (
	nodeUnseen nodeState = iota
	nodeOpen
	nodeClosed
)

// Node holds the per-cell bookkeeping of a single search.
type Node struct {
	Coord  Coord
	GCost  int
	HCost  int
	Parent NodeID

	state     nodeState
	seq       uint32
	heapIndex int
}

// FCost is the search priority: accumulated cost plus the heuristic estimate.
func (n *Node) FCost() int {
	return n.GCost + n.HCost
}

// before reports whether n is expanded ahead of o.
func (n *Node) before(o *Node) bool {
	if nf, of := n.FCost(), o.FCost(); nf != of {
		return nf < of
	}
	if n.HCost != o.HCost {
		return n.HCost < o.HCost
	}
	return n.seq < o.seq
}

// GridIndex is a fixed-size arena of nodes covering [0,width)x[0,height).
type GridIndex struct {
	width  int
	height int
	nodes  []Node
	used   bool
}

// NewGridIndex allocates a node for every cell of a width x height window.
// Non-positive dimensions produce an empty grid that rejects every coordinate.
func NewGridIndex(width, height int) *GridIndex {
	if width <= 0 || height <= 0 {
		return &GridIndex{}
	}
	g := &GridIndex{
		width:  width,
		height: height,
		nodes:  make([]Node, width*height),
	}
	g.Reset()
	return g
}

// Width returns the number of columns.
func (g *GridIndex) Width() int { return g.width }

// Height returns the number of rows.
func (g *GridIndex) Height() int { return g.height }

// InBounds reports whether c lies inside the window.
func (g *GridIndex) InBounds(c Coord) bool {
	return g != nil && c.X >= 0 && c.Y >= 0 && c.X < g.width && c.Y < g.height
}

// ID returns the arena index of c.
func (g *GridIndex) ID(c Coord) (NodeID, bool) {
	if !g.InBounds(c) {
		return NoParent, false
	}
	return NodeID(c.Y*g.width + c.X), true
}

// Node returns the node stored at id, or nil for an invalid id.
func (g *GridIndex) Node(id NodeID) *Node {
	if g == nil || id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return &g.nodes[id]
}

// At returns the node for c, or nil when c is outside the window.
func (g *GridIndex) At(c Coord) *Node {
	id, ok := g.ID(c)
	if !ok {
		return nil
	}
	return &g.nodes[id]
}

// Parent returns the predecessor of n, or nil at the root of the chain.
func (g *GridIndex) Parent(n *Node) *Node {
	if n == nil || n.Parent == NoParent {
		return nil
	}
	return g.Node(n.Parent)
}

// Reset clears all search state so the grid can host another search.
func (g *GridIndex) Reset() {
	if g == nil {
		return
	}
	for i := range g.nodes {
		g.nodes[i] = Node{
			Coord:     Coord{X: i % g.width, Y: i / g.width},
			Parent:    NoParent,
			heapIndex: -1,
		}
	}
	g.used = false
}
