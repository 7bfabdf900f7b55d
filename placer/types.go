// Package placer implements simulated-annealing placement: assigning
// packed logic blocks to type-compatible fabric tiles while minimising
// cumulative half-perimeter wirelength (HPWL).
//
// Design goals, matching the project's other stages:
//   - Determinism: identical seed + inputs produce an identical placement.
//   - Fail fast: resource exhaustion is detected before any annealing work.
//   - No partial results: Place either returns a fully legal placement or
//     an error; it never returns a partially-assigned map.
package placer

import (
	"errors"
	"fmt"

	"github.com/vfpgacad/backend/fabric"
)

// ErrInsufficientTiles indicates the design needs more tiles of a given
// type than the fabric provides. Raised before any annealing work.
var ErrInsufficientTiles = errors.New("placer: insufficient tiles of required type")

// ErrEmptyFabric indicates a zero-tile fabric was supplied.
var ErrEmptyFabric = errors.New("placer: fabric has no tiles")

func insufficientTilesError(t fabric.TileType, need, have int) error {
	return fmt.Errorf("%w: %s needs %d, fabric has %d", ErrInsufficientTiles, t, need, have)
}

// Placement maps block id to the tile coordinate it occupies. Every
// block has exactly one coordinate; the tile at that coordinate matches
// the block's TileType; no two blocks share a coordinate.
type Placement map[int]fabric.Coord

// Default annealing-schedule constants (§4.1 of the design). T0 scales
// with sqrt(block count); the schedule is otherwise fixed.
const (
	DefaultFinalTemp    = 0.01
	DefaultCoolingAlpha = 0.95
	DefaultMovesPerTemp = 10 // multiplied by block count
)

// Options configures one Place call.
type Options struct {
	// Seed drives the internal PRNG. Seed==0 maps to a fixed non-zero
	// default seed (see rngFromSeed); it is never time-based.
	Seed int64

	// FinalTemp is the annealing stop temperature.
	FinalTemp float64

	// CoolingAlpha is the per-outer-step multiplicative cooling rate.
	CoolingAlpha float64

	// MovesPerTempFactor multiplies block count to get inner moves per
	// temperature step.
	MovesPerTempFactor int
}

// Option mutates Options.
type Option func(*Options)

// WithSeed sets the PRNG seed.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithFinalTemp overrides the annealing stop temperature.
func WithFinalTemp(t float64) Option {
	return func(o *Options) { o.FinalTemp = t }
}

// WithCoolingAlpha overrides the per-step cooling rate.
func WithCoolingAlpha(alpha float64) Option {
	return func(o *Options) { o.CoolingAlpha = alpha }
}

// WithMovesPerTempFactor overrides the per-temperature move count factor.
func WithMovesPerTempFactor(factor int) Option {
	return func(o *Options) { o.MovesPerTempFactor = factor }
}

// DefaultOptions returns the annealing schedule used by the reference
// implementation: alpha=0.95, final temp 0.01, 10*N moves per step, and
// a fixed default seed.
func DefaultOptions() Options {
	return Options{
		Seed:               0,
		FinalTemp:          DefaultFinalTemp,
		CoolingAlpha:        DefaultCoolingAlpha,
		MovesPerTempFactor: DefaultMovesPerTemp,
	}
}

// Result reports the outcome of a successful Place call, for
// observability (tests and CLI reporting).
type Result struct {
	Placement Placement
	FinalCost float64
}
