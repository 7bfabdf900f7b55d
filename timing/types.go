// Package timing implements static timing analysis over a placed and
// routed design: a Bellman-Ford-style longest-path propagation that
// finds the worst-case combinational-plus-routing delay between any
// registered source and any sink, and reports the achievable clock
// frequency (Fmax) and the critical path itself.
package timing

import (
	"errors"

	"github.com/vfpgacad/backend/fabric"
)

// Delay constants, all in picoseconds. CLK_Q/READ/MUL/SETUP and the
// per-hop routing delay are fixed by the reference delay model; only
// the 4-LUT delay is left open there, so it is a configurable Options
// field here with DefaultLUTDelayPS as its default.
const (
	// CLKQPS is a CLB register's clock-to-output delay.
	CLKQPS = 100
	// BRAMReadPS is a BRAM tile's read latency.
	BRAMReadPS = 1000
	// DSPMulPS is a DSP tile's multiply latency.
	DSPMulPS = 1500
	// SetupPS is a capture register's setup time, added once at the
	// very end of the critical path.
	SetupPS = 50
	// RoutePerHopPS is the routing delay contributed by each unit of
	// Manhattan distance between a net's source and a sink.
	RoutePerHopPS = 50

	// DefaultLUTDelayPS is this module's fixed value for the 4-LUT
	// propagation delay, whose value the reference delay model declares
	// but does not pin down.
	DefaultLUTDelayPS = 200
)

// ErrNilFabric is returned when Analyze is given a nil fabric.
var ErrNilFabric = errors.New("timing: fabric is nil")

// ErrEmptyFabric is returned when Analyze is given a zero-tile fabric.
var ErrEmptyFabric = errors.New("timing: fabric has no tiles")

// Options configures one Analyze call.
type Options struct {
	// LUTDelayPS is the 4-LUT combinational delay used at CLB sinks.
	LUTDelayPS float64
}

// Option mutates Options.
type Option func(*Options)

// WithLUTDelayPS overrides the 4-LUT delay constant.
func WithLUTDelayPS(ps float64) Option {
	return func(o *Options) { o.LUTDelayPS = ps }
}

// DefaultOptions returns LUTDelayPS = DefaultLUTDelayPS.
func DefaultOptions() Options {
	return Options{LUTDelayPS: DefaultLUTDelayPS}
}

// Result reports the outcome of one Analyze call.
type Result struct {
	// FmaxMHz is the achievable clock frequency, 0 if CriticalPathDelayNS is 0.
	FmaxMHz float64

	// CriticalPathDelayNS is (worst arrival + SETUP) / 1000.
	CriticalPathDelayNS float64

	// CriticalPathNodes is the source-first chain of coords forming the
	// critical path.
	CriticalPathNodes []fabric.Coord

	// CombinationalLoops lists any cycles dfs.DetectCycles found in the
	// net source/sink dependency graph. Analyze still produces a result
	// in their presence (the propagation's early-exit defangs them, per
	// the delay model's own rationale); this is diagnostic only.
	CombinationalLoops [][]fabric.Coord
}

func sourceArrivalPS(t fabric.TileType) float64 {
	switch t {
	case fabric.CLB:
		return CLKQPS
	case fabric.BRAM:
		return BRAMReadPS
	case fabric.DSP:
		return DSPMulPS
	default:
		return 0
	}
}

func logicDelayAtSinkPS(t fabric.TileType, lutDelay float64) float64 {
	switch t {
	case fabric.CLB:
		return lutDelay
	case fabric.DSP:
		return DSPMulPS
	default:
		return 0
	}
}
