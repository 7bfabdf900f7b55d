package netlist

import (
	"sort"

	"github.com/vfpgacad/backend/block"
	"github.com/vfpgacad/backend/fabric"
)

// Pack classifies every cell in mod by its declared type and turns it
// into a block.LogicBlock, in a deterministic (name-sorted) order so
// block ids are stable across runs for the same input.
//
// Cell-type classification: $lut and DFF map to CLB, $mem and BRAM map
// to BRAM, $mul and DSP map to DSP; any other declared type also packs
// as CLB, the fabric's general-purpose tile.
//
// Port convention: the wire format carries no explicit per-cell port
// direction, so DFF cells use D (input), Q (output), C (clock) — the
// convention the reference packer itself hard-codes — and every other
// recognised cell type uses the common synthesis-cell convention of Y
// as the single output pin, with every other connection an input pin
// (connections are visited in sorted port-name order for determinism).
func Pack(mod *Module) []block.LogicBlock {
	names := make([]string, 0, len(mod.Cells))
	for name := range mod.Cells {
		names = append(names, name)
	}
	sort.Strings(names)

	blocks := make([]block.LogicBlock, 0, len(names))
	for i, name := range names {
		cell := mod.Cells[name]
		b := block.New(i, name, classify(cell.Type))
		if cell.Type == "DFF" {
			b.InputNets, b.OutputNet, b.ClockNet = dffPorts(cell)
		} else {
			b.InputNets, b.OutputNet = genericPorts(cell)
		}
		blocks = append(blocks, b)
	}
	return blocks
}

func classify(cellType string) fabric.TileType {
	switch cellType {
	case "$mem", "BRAM":
		return fabric.BRAM
	case "$mul", "DSP":
		return fabric.DSP
	default: // "$lut", "DFF", and anything unrecognised
		return fabric.CLB
	}
}

func dffPorts(cell Cell) (inputs []string, output, clock string) {
	if bits, ok := cell.Connections["D"]; ok && len(bits) > 0 {
		inputs = append(inputs, bits[0].Net)
	}
	if bits, ok := cell.Connections["Q"]; ok && len(bits) > 0 {
		output = bits[0].Net
	}
	if bits, ok := cell.Connections["C"]; ok && len(bits) > 0 {
		clock = bits[0].Net
	}
	return inputs, output, clock
}

func genericPorts(cell Cell) (inputs []string, output string) {
	if bits, ok := cell.Connections["Y"]; ok && len(bits) > 0 {
		output = bits[0].Net
	}

	ports := make([]string, 0, len(cell.Connections))
	for port := range cell.Connections {
		if port == "Y" {
			continue
		}
		ports = append(ports, port)
	}
	sort.Strings(ports)

	for _, port := range ports {
		bits := cell.Connections[port]
		if len(bits) > 0 {
			inputs = append(inputs, bits[0].Net)
		}
	}
	return inputs, output
}
