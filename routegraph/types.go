// Package routegraph is the Router's private view of the fabric: one node
// per tile, addressed by a dense integer id rather than a string-keyed
// pointer graph. Congestion state (occupancy, historical cost) lives
// directly on the node arena and is mutated in place by the Router across
// Pathfinder iterations; a *core.Graph view with congestion-priced edges
// is derived from this arena fresh for every shortest-path call rather
// than kept as the system of record.
package routegraph

import (
	"errors"

	"github.com/vfpgacad/backend/fabric"
)

// DefaultCapacity is the per-node sharing capacity used by New. The
// reference flow gives every routing node room for exactly one net.
const DefaultCapacity = 1

// DefaultBaseCost is the fixed, congestion-independent component of a
// node's entry cost.
const DefaultBaseCost = 1.0

// Sentinel errors for routing-graph construction and lookups.
var (
	// ErrNilFabric is returned when New is given a nil fabric.
	ErrNilFabric = errors.New("routegraph: fabric is nil")

	// ErrEmptyFabric is returned when the fabric has zero tiles.
	ErrEmptyFabric = errors.New("routegraph: fabric has no tiles")

	// ErrNodeNotFound is returned when a node id or coordinate is out of range.
	ErrNodeNotFound = errors.New("routegraph: node not found")

	// ErrDisconnected is returned by New's one-time connectivity check when
	// some node cannot reach the others through NSEW neighbours. A
	// rectangular NSEW grid is always fully connected, so this indicates a
	// construction bug, not a reachable-at-runtime condition.
	ErrDisconnected = errors.New("routegraph: routing graph is not fully connected")
)

// Node is one routing-graph vertex: the fixed tile it sits on, its NSEW
// neighbour ids, and the mutable congestion state the Pathfinder router
// reads and updates every iteration. Neighbours are stored as ids, not
// pointers, per the arena-and-index rule: the Graph owns a single []Node
// slice and every cross-reference is an index into it.
type Node struct {
	ID        int
	Coord     fabric.Coord
	Neighbors []int

	// Capacity is how many nets may share this node before it is
	// considered congested. Fixed at construction.
	Capacity int

	// BaseCost is the node's congestion-independent entry cost. Fixed at
	// construction.
	BaseCost float64

	// Occupancy is the number of nets currently routed through this node
	// in the current iteration. Reset to 0 by rip-up, incremented by route.
	Occupancy int

	// HistCongestionCost accumulates every iteration this node was found
	// congested; it never decreases (§4.3's monotone history law).
	HistCongestionCost float64
}
