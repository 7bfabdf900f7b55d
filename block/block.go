// Package block defines the packed logic-block model: the unit the
// Placer and Router consume. Blocks are produced by an external packer
// (see package netlist for a reference implementation of that boundary)
// and are read-only to every stage in this module.
package block

import "github.com/vfpgacad/backend/fabric"

// LogicBlock is a packed design element: a unique id, a human name, a
// required tile type, an ordered list of input nets (entries may be
// empty for unconnected inputs), an optional output net, and an
// optional clock net.
type LogicBlock struct {
	ID   int
	Name string
	Type fabric.TileType

	// InputNets lists the net name driving each input pin, in pin-index
	// order. An empty string marks an unconnected input.
	InputNets []string

	// OutputNet is the net this block drives, or "" if it drives nothing
	// (e.g. a primary output sink with no fan-out of its own).
	OutputNet string

	// ClockNet is the net clocking this block's registers, or "" if the
	// block has none.
	ClockNet string
}

// New builds a LogicBlock with no connections yet; callers append to
// InputNets and set OutputNet/ClockNet directly.
func New(id int, name string, t fabric.TileType) LogicBlock {
	return LogicBlock{ID: id, Name: name, Type: t}
}
