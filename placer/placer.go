package placer

import (
	"math"
	"math/rand"

	"github.com/vfpgacad/backend/block"
	"github.com/vfpgacad/backend/fabric"
	"github.com/vfpgacad/backend/netindex"
)

// Place assigns every block in blocks to a type-compatible, exclusive
// tile of fab, minimising total HPWL over the blocks' nets, via
// simulated annealing. It fails before doing any annealing work if the
// fabric does not have enough tiles of some required type.
func Place(fab *fabric.Fabric, blocks []block.LogicBlock, opts ...Option) (Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if fab == nil || fab.Size() == 0 {
		return Result{}, ErrEmptyFabric
	}

	rng := rngFromSeed(o.Seed)

	partitions, err := checkCapacityAndPartition(fab, blocks)
	if err != nil {
		return Result{}, err
	}
	for t := range partitions {
		shuffleCoordsInPlace(partitions[t], rng)
	}

	if len(blocks) == 0 {
		return Result{Placement: Placement{}, FinalCost: 0}, nil
	}

	placement, occupant := initialAssignment(blocks, partitions)

	idx := netindex.Build(blocks)
	cost := totalCost(idx, placement)

	n := len(blocks)
	temp := 100.0 * math.Sqrt(float64(n))
	movesPerTemp := o.MovesPerTempFactor * n

	for temp > o.FinalTemp {
		for i := 0; i < movesPerTemp; i++ {
			cost = annealStep(rng, blocks, partitions, placement, occupant, idx, cost, temp)
		}
		temp *= o.CoolingAlpha
	}

	return Result{Placement: placement, FinalCost: cost}, nil
}

// checkCapacityAndPartition partitions fab's tiles by type and verifies
// every block's required type has enough tiles, failing fast (§4.1)
// before any annealing work.
func checkCapacityAndPartition(fab *fabric.Fabric, blocks []block.LogicBlock) (map[fabric.TileType][]fabric.Coord, error) {
	need := make(map[fabric.TileType]int)
	for _, b := range blocks {
		need[b.Type]++
	}

	partitions := make(map[fabric.TileType][]fabric.Coord, len(need))
	for t := range need {
		coords := fab.TilesOfType(t)
		if need[t] > len(coords) {
			return nil, insufficientTilesError(t, need[t], len(coords))
		}
		partitions[t] = coords
	}

	return partitions, nil
}

// initialAssignment walks blocks in order, consuming the next
// pre-shuffled tile from each block's type partition. This yields a
// type-legal, exclusive starting placement (§4.1). It also builds the
// inverse coord->blockID map used for O(1) occupancy checks during
// annealing (a pure efficiency choice; the original recomputes
// occupancy by scanning the whole placement on every move).
func initialAssignment(blocks []block.LogicBlock, partitions map[fabric.TileType][]fabric.Coord) (Placement, map[fabric.Coord]int) {
	cursor := make(map[fabric.TileType]int, len(partitions))
	placement := make(Placement, len(blocks))
	occupant := make(map[fabric.Coord]int, len(blocks))

	for _, b := range blocks {
		c := partitions[b.Type][cursor[b.Type]]
		cursor[b.Type]++
		placement[b.ID] = c
		occupant[c] = b.ID
	}

	return placement, occupant
}

// annealStep proposes one move, evaluates it under the Metropolis
// criterion at temperature temp, and returns the (possibly updated)
// total cost. On rejection, placement and occupant are reverted
// atomically.
func annealStep(
	rng *rand.Rand,
	blocks []block.LogicBlock,
	partitions map[fabric.TileType][]fabric.Coord,
	placement Placement,
	occupant map[fabric.Coord]int,
	idx *netindex.Index,
	cost float64,
	temp float64,
) float64 {
	if len(blocks) == 0 {
		return cost
	}

	b := blocks[rng.Intn(len(blocks))]
	partition := partitions[b.Type]
	target := partition[rng.Intn(len(partition))]
	current := placement[b.ID]

	if target == current {
		return cost
	}

	otherID, swapping := occupant[target]

	// Apply the move.
	placement[b.ID] = target
	occupant[target] = b.ID
	if swapping {
		placement[otherID] = current
		occupant[current] = otherID
	} else {
		delete(occupant, current)
	}

	newCost := totalCost(idx, placement)
	delta := newCost - cost

	accept := delta < 0
	if !accept {
		accept = rng.Float64() < math.Exp(-delta/temp)
	}

	if accept {
		return newCost
	}

	// Revert atomically.
	placement[b.ID] = current
	occupant[current] = b.ID
	if swapping {
		placement[otherID] = target
		occupant[target] = otherID
	} else {
		delete(occupant, target)
	}

	return cost
}
