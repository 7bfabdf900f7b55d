package routegraph

import (
	"strconv"

	"github.com/vfpgacad/backend/bfs"
	"github.com/vfpgacad/backend/core"
	"github.com/vfpgacad/backend/fabric"
)

// CostScale converts the floating-point Pathfinder cost (base cost,
// history cost and pres_fac are all real-valued, per the congestion
// formula) into the int64 edge weights core.Graph and dijkstra require.
// Costs are multiplied by CostScale and rounded before being handed to
// dijkstra, so the resulting distances are in CostScale units (the router
// uses only the paths, not the distances); relative ordering between paths — all
// dijkstra.Dijkstra is asked to preserve — is unaffected by a fixed
// positive scale factor.
const CostScale = 1000

// Graph is a fixed-shape W*H arena of routing nodes, one per fabric
// tile, addressed by id = y*Width + x. It is the Router's persistent
// congestion-state store; shortest-path queries are answered by
// deriving a disposable *core.Graph snapshot from it (see ToCoreGraph),
// never by walking this arena directly with pointer-chasing.
type Graph struct {
	Width, Height int
	nodes         []Node
}

// New builds a Graph whose shape matches fab: one node per tile, NSEW
// neighbours wired within bounds, every node starting at Capacity
// DefaultCapacity, BaseCost DefaultBaseCost, zero occupancy and zero
// history cost. A one-time bfs reachability check guards against a
// construction bug; a rectangular NSEW grid is always connected, so this
// should never fail in practice.
func New(fab *fabric.Fabric) (*Graph, error) {
	if fab == nil {
		return nil, ErrNilFabric
	}
	if fab.Size() == 0 {
		return nil, ErrEmptyFabric
	}

	g := &Graph{Width: fab.Width, Height: fab.Height, nodes: make([]Node, fab.Size())}
	for _, c := range fab.AllCoords() {
		id := g.idOf(c)
		g.nodes[id] = Node{
			ID:       id,
			Coord:    c,
			Capacity: DefaultCapacity,
			BaseCost: DefaultBaseCost,
		}
	}
	for i := range g.nodes {
		g.nodes[i].Neighbors = g.neighborIDs(g.nodes[i].Coord)
	}

	if err := g.checkConnected(); err != nil {
		return nil, err
	}
	return g, nil
}

// idOf maps a coordinate to its arena index, id = y*Width + x.
func (g *Graph) idOf(c fabric.Coord) int {
	return c.Y*g.Width + c.X
}

// NodeID returns the node id for coordinate c, or ErrNodeNotFound if out
// of bounds.
func (g *Graph) NodeID(c fabric.Coord) (int, error) {
	if c.X < 0 || c.X >= g.Width || c.Y < 0 || c.Y >= g.Height {
		return 0, ErrNodeNotFound
	}
	return g.idOf(c), nil
}

// Node returns a copy of the node at id, or ErrNodeNotFound if id is out
// of range.
func (g *Graph) Node(id int) (Node, error) {
	if id < 0 || id >= len(g.nodes) {
		return Node{}, ErrNodeNotFound
	}
	return g.nodes[id], nil
}

// NumNodes returns the total node count, Width*Height.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

func (g *Graph) neighborIDs(c fabric.Coord) []int {
	offsets := [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	ids := make([]int, 0, 4)
	for _, d := range offsets {
		nx, ny := c.X+d[0], c.Y+d[1]
		if nx < 0 || nx >= g.Width || ny < 0 || ny >= g.Height {
			continue
		}
		ids = append(ids, g.idOf(fabric.Coord{X: nx, Y: ny}))
	}
	return ids
}

// checkConnected runs a single bfs pass from node 0 and fails if any
// node was left unreached.
func (g *Graph) checkConnected() error {
	cg := g.adjacencyOnlyGraph()
	result, err := bfs.BFS(cg, "0")
	if err != nil {
		return err
	}
	if len(result.Order) != len(g.nodes) {
		return ErrDisconnected
	}
	return nil
}

// adjacencyOnlyGraph builds an unweighted *core.Graph of pure adjacency,
// used only by checkConnected; it carries no congestion pricing.
func (g *Graph) adjacencyOnlyGraph() *core.Graph {
	cg := core.NewGraph()
	for i := range g.nodes {
		_ = cg.AddVertex(strconv.Itoa(i))
	}
	for i := range g.nodes {
		for _, nb := range g.nodes[i].Neighbors {
			if nb > i {
				_, _ = cg.AddEdge(strconv.Itoa(i), strconv.Itoa(nb), 0)
			}
		}
	}
	return cg
}

// EntryCost computes node v's Pathfinder entry cost at the given
// presence-congestion factor:
//
//	cost(v) = (base_cost(v) + hist_congestion_cost(v)) *
//	          (1 + max(0, occupancy(v)+1-capacity(v)) * pres_fac)
//
// The "+1" models the cost of adding one more net's path through v,
// i.e. the cost a router sees when deciding whether to route through v,
// not the cost of v's already-committed occupants.
func (g *Graph) EntryCost(v int, presFac float64) float64 {
	n := g.nodes[v]
	overflow := n.Occupancy + 1 - n.Capacity
	if overflow < 0 {
		overflow = 0
	}
	return (n.BaseCost + n.HistCongestionCost) * (1 + float64(overflow)*presFac)
}

// IncrementOccupancy records that one more net now routes through v.
func (g *Graph) IncrementOccupancy(v int) {
	g.nodes[v].Occupancy++
}

// DecrementOccupancy records that one fewer net routes through v (used
// during rip-up); it never drops occupancy below zero.
func (g *Graph) DecrementOccupancy(v int) {
	if g.nodes[v].Occupancy > 0 {
		g.nodes[v].Occupancy--
	}
}

// Congested reports whether v currently holds more nets than its
// capacity allows.
func (g *Graph) Congested(v int) bool {
	return g.nodes[v].Occupancy > g.nodes[v].Capacity
}

// AddHistCongestion adds delta (which must be >= 0) to v's history cost.
// History cost is monotone non-decreasing across the router's whole run;
// callers are responsible for only ever passing a non-negative delta.
func (g *Graph) AddHistCongestion(v int, delta float64) {
	if delta <= 0 {
		return
	}
	g.nodes[v].HistCongestionCost += delta
}

// ToCoreGraph derives a disposable, directed, weighted *core.Graph
// snapshot of the current congestion state at the given pres_fac. Edge
// weights are asymmetric: entering u from v costs EntryCost(u), not
// EntryCost(v), so every adjacency is materialised as two opposing
// directed edges rather than one undirected edge. dijkstra.Dijkstra
// treats vertex ids as opaque strings, so ids are rendered with
// strconv.Itoa.
func (g *Graph) ToCoreGraph(presFac float64) *core.Graph {
	cg := core.NewGraph(core.WithDirected(true), core.WithWeighted())
	for i := range g.nodes {
		_ = cg.AddVertex(strconv.Itoa(i))
	}
	for i := range g.nodes {
		for _, nb := range g.nodes[i].Neighbors {
			w := int64(g.EntryCost(nb, presFac)*CostScale + 0.5)
			_, _ = cg.AddEdge(strconv.Itoa(i), strconv.Itoa(nb), w)
		}
	}
	return cg
}

// OccupancyMatrix snapshots every node's current occupancy into a
// row-major Width*Height Grid, Grid.At(x,y) mirroring fabric coordinates.
func (g *Graph) OccupancyMatrix() *Grid {
	out := NewGrid(g.Width, g.Height)
	for i := range g.nodes {
		out.Set(g.nodes[i].Coord.X, g.nodes[i].Coord.Y, float64(g.nodes[i].Occupancy))
	}
	return out
}

// HistCostMatrix snapshots every node's current history-congestion cost
// into a row-major Width*Height Grid.
func (g *Graph) HistCostMatrix() *Grid {
	out := NewGrid(g.Width, g.Height)
	for i := range g.nodes {
		out.Set(g.nodes[i].Coord.X, g.nodes[i].Coord.Y, g.nodes[i].HistCongestionCost)
	}
	return out
}
