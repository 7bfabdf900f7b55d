package timing

import (
	"fmt"

	"github.com/vfpgacad/backend/block"
	"github.com/vfpgacad/backend/core"
	"github.com/vfpgacad/backend/dfs"
	"github.com/vfpgacad/backend/fabric"
	"github.com/vfpgacad/backend/netindex"
	"github.com/vfpgacad/backend/placer"
	"github.com/vfpgacad/backend/router"
)

// timingNet is one net's coords as timing needs them: just the source
// and sink tile coordinates, since the delay model's routing term is a
// direct Manhattan-distance estimate rather than a function of the
// router's actual hop-by-hop path.
type timingNet struct {
	Source fabric.Coord
	Sinks  []fabric.Coord
}

// Analyze computes worst-case arrival times over every net that
// router.Route successfully routed, and returns the critical path and
// Fmax. Nets that did not converge (absent from routed.Routes) are
// excluded, since an unrouted net has no physical delay to model.
func Analyze(fab *fabric.Fabric, blocks []block.LogicBlock, placement placer.Placement, routed router.Result, opts ...Option) (Result, error) {
	if fab == nil {
		return Result{}, ErrNilFabric
	}
	if fab.Size() == 0 {
		return Result{}, ErrEmptyFabric
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	idx := netindex.Build(blocks)
	nets := extractTimingNets(idx, placement, routed)

	keyToCoord := make(map[string]fabric.Coord, fab.Size())
	arrival := make(map[string]float64, fab.Size())
	for _, c := range fab.AllCoords() {
		k := coordKey(c)
		keyToCoord[k] = c
		tile, _ := fab.TileAt(c)
		arrival[k] = sourceArrivalPS(tile.Type)
	}
	pred := make(map[string]string)

	maxPasses := fab.Width * fab.Height
	for pass := 0; pass < maxPasses; pass++ {
		changed := false
		for _, n := range nets {
			s := coordKey(n.Source)
			arrivalAtSource := arrival[s]
			for _, sink := range n.Sinks {
				sk := coordKey(sink)
				routeDelay := RoutePerHopPS * float64(n.Source.Manhattan(sink))
				sinkTile, err := fab.TileAt(sink)
				if err != nil {
					continue
				}
				logic := logicDelayAtSinkPS(sinkTile.Type, o.LUTDelayPS)
				candidate := arrivalAtSource + routeDelay + logic
				if candidate > arrival[sk] {
					arrival[sk] = candidate
					pred[sk] = s
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	worstKey, worst := worstArrival(fab, arrival, pred)
	delayNS := (worst + SetupPS) / 1000
	fmaxMHz := 0.0
	if delayNS > 0 {
		fmaxMHz = 1000 / delayNS
	}

	chain := backtrace(worstKey, pred, keyToCoord)

	return Result{
		FmaxMHz:             fmaxMHz,
		CriticalPathDelayNS: delayNS,
		CriticalPathNodes:   chain,
		CombinationalLoops:  detectCombinationalLoops(nets, keyToCoord),
	}, nil
}

// extractTimingNets derives source/sink coords for every net present in
// routed.Routes, mirroring router.extractNets' driver/sink-placement
// filtering but keeping coordinates rather than routing-graph node ids.
func extractTimingNets(idx *netindex.Index, placement placer.Placement, routed router.Result) []timingNet {
	nets := make([]timingNet, 0, len(routed.Routes))
	for _, name := range idx.Names {
		if _, ok := routed.Routes[name]; !ok {
			continue
		}
		n := idx.Net(name)
		if n.Driver == nil || len(n.Sinks) == 0 {
			continue
		}
		src, ok := placement[n.Driver.ID]
		if !ok {
			continue
		}
		sinks := make([]fabric.Coord, 0, len(n.Sinks))
		for _, s := range n.Sinks {
			c, ok := placement[s.ID]
			if !ok {
				continue
			}
			sinks = append(sinks, c)
		}
		if len(sinks) == 0 {
			continue
		}
		nets = append(nets, timingNet{Source: src, Sinks: sinks})
	}
	return nets
}

// worstArrival returns, among the sink coords that propagation reached
// (those with a predecessor), the key with the largest arrival time,
// breaking ties by fabric row-major order for determinism. It returns
// ("", 0) when no sink was reached.
func worstArrival(fab *fabric.Fabric, arrival map[string]float64, pred map[string]string) (string, float64) {
	worstKey := ""
	worst := 0.0
	for _, c := range fab.AllCoords() {
		k := coordKey(c)
		if _, reached := pred[k]; !reached {
			continue
		}
		if v := arrival[k]; worstKey == "" || v > worst {
			worst = v
			worstKey = k
		}
	}
	return worstKey, worst
}

// backtrace walks pred from worstKey back to a coord with no
// predecessor, guarding against a revisited key so a stray cycle in the
// predecessor map (never expected given the propagation's early exit)
// cannot loop forever. The result is reversed to source-first order.
func backtrace(worstKey string, pred map[string]string, keyToCoord map[string]fabric.Coord) []fabric.Coord {
	if worstKey == "" {
		return nil
	}
	keys := []string{worstKey}
	visited := map[string]bool{worstKey: true}
	for cur := worstKey; ; {
		p, ok := pred[cur]
		if !ok || visited[p] {
			break
		}
		keys = append(keys, p)
		visited[p] = true
		cur = p
	}

	chain := make([]fabric.Coord, len(keys))
	for i, k := range keys {
		chain[len(keys)-1-i] = keyToCoord[k]
	}
	return chain
}

// detectCombinationalLoops runs dfs.DetectCycles over the net
// source->sink dependency graph as a diagnostic. Cycles do not block
// Analyze (the propagation above tolerates them via its early-exit),
// but a caller may want to flag them as a design smell.
func detectCombinationalLoops(nets []timingNet, keyToCoord map[string]fabric.Coord) [][]fabric.Coord {
	g := core.NewGraph(core.WithDirected(true))
	for k := range keyToCoord {
		_ = g.AddVertex(k)
	}
	for _, n := range nets {
		s := coordKey(n.Source)
		for _, sink := range n.Sinks {
			if sink == n.Source {
				continue
			}
			_, _ = g.AddEdge(s, coordKey(sink), 0)
		}
	}

	hasCycles, cycles, err := dfs.DetectCycles(g)
	if err != nil || !hasCycles {
		return nil
	}

	out := make([][]fabric.Coord, len(cycles))
	for i, cycle := range cycles {
		chain := make([]fabric.Coord, len(cycle))
		for j, k := range cycle {
			chain[j] = keyToCoord[k]
		}
		out[i] = chain
	}
	return out
}

func coordKey(c fabric.Coord) string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}
