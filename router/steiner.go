package router

import (
	"strconv"

	"github.com/vfpgacad/backend/core"
	"github.com/vfpgacad/backend/dijkstra"
	"github.com/vfpgacad/backend/prim_kruskal"
	"github.com/vfpgacad/backend/routegraph"
)

// routeSteiner wires n's source and sinks along a minimum spanning tree
// over Manhattan distance (prim_kruskal.Kruskal), then fills in each
// MST edge's actual path with Dijkstra over the congestion-priced
// snapshot cg. This tends to shorten total wirelength versus routing
// every sink independently from the source, at the cost of one extra
// MST computation per net per iteration.
func routeSteiner(rg *routegraph.Graph, cg *core.Graph, n *routeNet) (map[int]struct{}, []string) {
	terminalName := map[int]string{n.Source: ""}
	terminals := []int{n.Source}
	for i, id := range n.Sinks {
		if _, seen := terminalName[id]; seen {
			continue
		}
		terminalName[id] = n.SinkNames[i]
		terminals = append(terminals, id)
	}

	union := map[int]struct{}{n.Source: {}}
	if len(terminals) < 2 {
		return union, nil
	}

	mstGraph := core.NewGraph(core.WithWeighted())
	for _, id := range terminals {
		_ = mstGraph.AddVertex(strconv.Itoa(id))
	}
	for i := 0; i < len(terminals); i++ {
		ni, err := rg.Node(terminals[i])
		if err != nil {
			continue
		}
		for j := i + 1; j < len(terminals); j++ {
			nj, err := rg.Node(terminals[j])
			if err != nil {
				continue
			}
			w := int64(ni.Coord.Manhattan(nj.Coord))
			_, _ = mstGraph.AddEdge(strconv.Itoa(terminals[i]), strconv.Itoa(terminals[j]), w)
		}
	}

	mst, _, err := prim_kruskal.Kruskal(mstGraph)
	if err != nil {
		// Fall back to a star from the source: every terminal graph of
		// >=2 distinct coordinates is complete, so this should not
		// happen in practice.
		return routeStarTerminals(rg, cg, n, terminals, terminalName)
	}

	var unreachable []string
	for _, e := range mst {
		fromID, errF := strconv.Atoi(e.From)
		toID, errT := strconv.Atoi(e.To)
		if errF != nil || errT != nil {
			continue
		}

		dist, prev, err := dijkstra.Dijkstra(cg, dijkstra.Source(e.From), dijkstra.WithReturnPath())
		if err != nil {
			continue
		}
		if _, reached := dist[e.To]; !reached {
			if name, ok := terminalName[toID]; ok && name != "" {
				unreachable = append(unreachable, n.Name+":"+name)
			}
			continue
		}
		for _, id := range backtrackPath(prev, fromID, toID, rg.NumNodes()) {
			union[id] = struct{}{}
		}
	}

	return union, unreachable
}

// routeStarTerminals is routeSteiner's fallback: route every terminal
// (other than the source) independently from the source, same as
// StarTopology but restricted to the deduplicated terminal set.
func routeStarTerminals(rg *routegraph.Graph, cg *core.Graph, n *routeNet, terminals []int, terminalName map[int]string) (map[int]struct{}, []string) {
	union := map[int]struct{}{n.Source: {}}
	dist, prev, err := dijkstra.Dijkstra(cg, dijkstra.Source(strconv.Itoa(n.Source)), dijkstra.WithReturnPath())
	if err != nil {
		var unreachable []string
		for _, id := range terminals {
			if id == n.Source {
				continue
			}
			unreachable = append(unreachable, n.Name+":"+terminalName[id])
		}
		return union, unreachable
	}

	var unreachable []string
	for _, id := range terminals {
		if id == n.Source {
			continue
		}
		if _, reached := dist[strconv.Itoa(id)]; !reached {
			unreachable = append(unreachable, n.Name+":"+terminalName[id])
			continue
		}
		for _, nodeID := range backtrackPath(prev, n.Source, id, rg.NumNodes()) {
			union[nodeID] = struct{}{}
		}
	}
	return union, unreachable
}
