package router

import (
	"sort"
	"strconv"

	"github.com/vfpgacad/backend/block"
	"github.com/vfpgacad/backend/core"
	"github.com/vfpgacad/backend/dijkstra"
	"github.com/vfpgacad/backend/fabric"
	"github.com/vfpgacad/backend/netindex"
	"github.com/vfpgacad/backend/placer"
	"github.com/vfpgacad/backend/routegraph"
)

// routeNet is one net's routing state across Pathfinder iterations:
// its fixed source/sink node ids (derived once from the placement) and
// its mutable current path, which rip-up clears and route rebuilds.
type routeNet struct {
	Name      string
	Source    int
	Sinks     []int
	SinkNames []string
	Path      []int
}

// Route runs Pathfinder negotiated-congestion routing for every net that
// has both a driver and at least one sink placed on fab, given blocks'
// connectivity and their placement. It returns the final routed tree per
// net once no routing-graph node is over capacity, or ErrUnrouted if
// MaxIterations elapse without converging.
func Route(fab *fabric.Fabric, blocks []block.LogicBlock, placement placer.Placement, opts ...Option) (Result, error) {
	if fab == nil {
		return Result{}, ErrNilFabric
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	rg, err := routegraph.New(fab)
	if err != nil {
		return Result{}, err
	}

	idx := netindex.Build(blocks)
	nets, err := extractNets(idx, rg, placement)
	if err != nil {
		return Result{}, err
	}

	presFac := InitialPresFac
	var unreachable []string

	for iter := 0; iter < MaxIterations; iter++ {
		unreachable = unreachable[:0]

		ripUp(rg, nets)
		for _, n := range nets {
			unreachable = append(unreachable, routeNetOnce(rg, n, presFac, o.Topology)...)
		}

		if !updateHistoryAndCheckCongestion(rg) {
			return buildResult(nets, iter+1, unreachable), nil
		}
		if iter < MaxIterations-1 {
			presFac *= PresFacGrowth
		}
	}

	return Result{}, ErrUnrouted
}

// extractNets derives each net's source and sink routing-graph node ids
// from the block placement. Nets with no internal driver, no sinks, or
// whose driver/sinks are absent from placement are skipped: they have
// nothing for the router to connect.
func extractNets(idx *netindex.Index, rg *routegraph.Graph, placement placer.Placement) ([]*routeNet, error) {
	nets := make([]*routeNet, 0, idx.Len())
	for _, name := range idx.Names {
		n := idx.Net(name)
		if n.Driver == nil || len(n.Sinks) == 0 {
			continue
		}
		srcCoord, ok := placement[n.Driver.ID]
		if !ok {
			continue
		}
		srcID, err := rg.NodeID(srcCoord)
		if err != nil {
			return nil, err
		}

		sinkIDs := make([]int, 0, len(n.Sinks))
		sinkNames := make([]string, 0, len(n.Sinks))
		for _, s := range n.Sinks {
			c, ok := placement[s.ID]
			if !ok {
				continue
			}
			id, err := rg.NodeID(c)
			if err != nil {
				return nil, err
			}
			sinkIDs = append(sinkIDs, id)
			sinkNames = append(sinkNames, s.Name)
		}
		if len(sinkIDs) == 0 {
			continue
		}

		nets = append(nets, &routeNet{Name: name, Source: srcID, Sinks: sinkIDs, SinkNames: sinkNames})
	}
	return nets, nil
}

// ripUp decrements occupancy for every node each net currently occupies
// and clears its path, undoing the previous iteration's routing so the
// next iteration starts from a clean congestion count.
func ripUp(rg *routegraph.Graph, nets []*routeNet) {
	for _, n := range nets {
		for _, id := range n.Path {
			rg.DecrementOccupancy(id)
		}
		n.Path = nil
	}
}

// routeNetOnce computes n's new routed tree: a single-source Dijkstra
// over a congestion-priced snapshot of rg at presFac, followed by
// per-sink backtrace and union. It increments occupancy for every node
// in the resulting tree and returns "net:sink" diagnostics for any sink
// the source could not reach.
func routeNetOnce(rg *routegraph.Graph, n *routeNet, presFac float64, topology Topology) []string {
	cg := rg.ToCoreGraph(presFac)

	var union map[int]struct{}
	var unreachable []string
	if topology == SteinerMST && len(n.Sinks) > 1 {
		union, unreachable = routeSteiner(rg, cg, n)
	} else {
		union, unreachable = routeStar(rg, cg, n)
	}

	n.Path = make([]int, 0, len(union))
	for id := range union {
		n.Path = append(n.Path, id)
	}
	sort.Ints(n.Path)

	for _, id := range n.Path {
		rg.IncrementOccupancy(id)
	}

	return unreachable
}

// routeStar routes every sink independently from n.Source over a single
// shared Dijkstra shortest-path tree.
func routeStar(rg *routegraph.Graph, cg *core.Graph, n *routeNet) (map[int]struct{}, []string) {
	srcKey := strconv.Itoa(n.Source)
	dist, prev, err := dijkstra.Dijkstra(cg, dijkstra.Source(srcKey), dijkstra.WithReturnPath())
	if err != nil {
		unreachable := make([]string, len(n.SinkNames))
		for i, sinkName := range n.SinkNames {
			unreachable[i] = n.Name + ":" + sinkName
		}
		return map[int]struct{}{n.Source: {}}, unreachable
	}

	union := map[int]struct{}{n.Source: {}}
	var unreachable []string
	for i, sinkID := range n.Sinks {
		if sinkID == n.Source {
			continue
		}
		if _, reached := dist[strconv.Itoa(sinkID)]; !reached {
			unreachable = append(unreachable, n.Name+":"+n.SinkNames[i])
			continue
		}
		for _, id := range backtrackPath(prev, n.Source, sinkID, rg.NumNodes()) {
			union[id] = struct{}{}
		}
	}
	return union, unreachable
}

// backtrackPath walks prev from sinkID back to sourceID, guarded by
// maxSteps so a malformed predecessor map (never expected from
// dijkstra.Dijkstra) cannot loop forever.
func backtrackPath(prev map[string]string, sourceID, sinkID, maxSteps int) []int {
	path := []int{sinkID}
	cur := strconv.Itoa(sinkID)
	srcKey := strconv.Itoa(sourceID)
	for steps := 0; cur != srcKey && steps < maxSteps; steps++ {
		p, ok := prev[cur]
		if !ok {
			break
		}
		id, err := strconv.Atoi(p)
		if err != nil {
			break
		}
		path = append(path, id)
		cur = p
	}
	return path
}

// updateHistoryAndCheckCongestion scans every routing-graph node once,
// adding HistFac*(occupancy-capacity) to history cost wherever occupancy
// exceeds capacity, and reports whether any node was congested.
func updateHistoryAndCheckCongestion(rg *routegraph.Graph) bool {
	congested := false
	for id := 0; id < rg.NumNodes(); id++ {
		if !rg.Congested(id) {
			continue
		}
		congested = true
		n, err := rg.Node(id)
		if err != nil {
			continue
		}
		rg.AddHistCongestion(id, float64(n.Occupancy-n.Capacity)*HistFac)
	}
	return congested
}

func buildResult(nets []*routeNet, iterations int, unreachable []string) Result {
	routes := make(map[string]NetRoute, len(nets))
	for _, n := range nets {
		routes[n.Name] = NetRoute{Nodes: append([]int(nil), n.Path...)}
	}
	return Result{
		Routes:           routes,
		Iterations:       iterations,
		UnreachableSinks: append([]string(nil), unreachable...),
	}
}
