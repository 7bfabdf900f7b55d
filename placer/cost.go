package placer

import (
	"math"

	"github.com/vfpgacad/backend/fabric"
	"github.com/vfpgacad/backend/netindex"
)

// hpwl computes the half-perimeter wirelength of a single net's pin
// coordinates. Nets with fewer than 2 pins contribute 0 and are not
// expected to reach here (callers filter). HPWL is permutation-invariant
// in the pin list: only the bounding box matters.
func hpwl(coords []fabric.Coord) int {
	minX, maxX := math.MaxInt, math.MinInt
	minY, maxY := math.MaxInt, math.MinInt
	for _, c := range coords {
		if c.X < minX {
			minX = c.X
		}
		if c.X > maxX {
			maxX = c.X
		}
		if c.Y < minY {
			minY = c.Y
		}
		if c.Y > maxY {
			maxY = c.Y
		}
	}
	return (maxX - minX) + (maxY - minY)
}

// totalCost sums HPWL across every net with >=2 pins. Pins belonging to
// nets with no internal driver (primary inputs) are still counted as
// sink pins of that net; a net with only primary-input-less sinks (one
// sink, no driver) contributes 0 since it has a single pin. This mirrors
// the reference implementation's current (documented, unresolved)
// treatment of primary I/O: nets never get a "virtual" pin for an
// off-fabric driver or load.
func totalCost(idx *netindex.Index, placement Placement) float64 {
	total := 0
	for _, name := range idx.Names {
		n := idx.Net(name)
		pins := make([]fabric.Coord, 0, len(n.Sinks)+1)
		if n.Driver != nil {
			if c, ok := placement[n.Driver.ID]; ok {
				pins = append(pins, c)
			}
		}
		for _, sink := range n.Sinks {
			if c, ok := placement[sink.ID]; ok {
				pins = append(pins, c)
			}
		}
		if len(pins) > 1 {
			total += hpwl(pins)
		}
	}
	return float64(total)
}
