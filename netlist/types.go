// Package netlist turns a synthesis JSON dump (the wire format used by
// Yosys's write_json backend) into packed block.LogicBlock values the
// Placer, Router, and Timing analyzer consume. Parsing is deliberately
// minimal: no LUT-mask decoding, no four-valued logic algebra, no
// cycle-accurate simulation — just enough structure to resolve cell
// types and net connectivity.
package netlist

import "errors"

// ErrMalformed wraps every parse failure: a missing "modules" object,
// an empty module set, or invalid JSON.
var ErrMalformed = errors.New("netlist malformed")

// Bit is one entry of a cell connection's bit list: either an integer
// wire id (mapped to net name "net_<i>") or a string constant, which
// this module ignores (no four-valued constant-folding is in scope).
type Bit struct {
	Net     string
	IsConst bool
}

// Cell is one netlist cell: its declared type and its port
// connections, each a list of Bits in declaration order.
type Cell struct {
	Name        string
	Type        string
	Connections map[string][]Bit
}

// Module is the first module encountered in a parsed netlist document.
type Module struct {
	Name  string
	Cells map[string]Cell
}
