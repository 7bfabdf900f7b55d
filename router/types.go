// Package router implements Pathfinder negotiated-congestion routing: an
// iterative process that lets nets share routing nodes during early
// iterations and converges to a legal (non-overlapping, capacity-
// respecting) routing by progressively raising the cost of contested
// nodes.
package router

import "errors"

// Pathfinder schedule constants.
const (
	// MaxIterations bounds the negotiation loop. A design that still has
	// congestion after this many iterations is declared unroutable.
	MaxIterations = 50

	// InitialPresFac is pres_fac's value in the first iteration.
	InitialPresFac = 0.5

	// PresFacGrowth multiplies pres_fac after every iteration that ends
	// congested (and is not the last).
	PresFacGrowth = 1.5

	// HistFac scales how much overflow at a node adds to that node's
	// permanent history cost once per congested iteration.
	HistFac = 1.0
)

// Topology selects how a net with more than one sink is wired once a
// source can reach every sink.
type Topology int

const (
	// StarTopology routes every sink independently from the net's
	// source; this is the default and the only mode required by the
	// congestion-negotiation algorithm itself.
	StarTopology Topology = iota

	// SteinerMST builds a minimum spanning tree over {source}∪sinks
	// under Manhattan distance, then routes along the MST's edges
	// instead of always starting from the source. This tends to
	// produce shorter total wirelength on nets with many sinks, at the
	// cost of one extra MST computation per net per iteration.
	SteinerMST
)

// Options configures one Route call.
type Options struct {
	// Topology selects the per-net wiring pattern (default StarTopology).
	Topology Topology
}

// Option mutates Options.
type Option func(*Options)

// WithTopology overrides the default per-net wiring pattern.
func WithTopology(t Topology) Option {
	return func(o *Options) { o.Topology = t }
}

// DefaultOptions returns StarTopology, the reference algorithm's mode.
func DefaultOptions() Options {
	return Options{Topology: StarTopology}
}

// Sentinel errors for Route.
var (
	// ErrNilFabric is returned when Route is given a nil fabric.
	ErrNilFabric = errors.New("router: fabric is nil")

	// ErrUnrouted is returned when MaxIterations elapse with at least one
	// node still over capacity.
	ErrUnrouted = errors.New("router: design did not converge within MaxIterations")
)

// NetRoute is one net's final routed tree: the deduplicated set of
// routing-graph node ids its path occupies, sorted in ascending id order
// (multiple sinks share prefixes once their paths merge).
type NetRoute struct {
	Nodes []int
}

// Result reports the outcome of a Route call.
type Result struct {
	// Routes maps net name to its final NetRoute. Only nets with both a
	// driver and at least one sink are present.
	Routes map[string]NetRoute

	// Iterations is how many Pathfinder iterations ran before converging.
	Iterations int

	// UnreachableSinks lists "net:sink-block-name" entries for sinks that
	// had no path from their net's source in the final iteration that
	// attempted them. Routing continues past an unreachable sink; this is
	// diagnostic, not a routing failure by itself.
	UnreachableSinks []string
}
