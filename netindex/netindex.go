// Package netindex builds the net-name -> (driver, sinks) view shared by
// the Placer (for HPWL cost) and the Router (for net extraction). It is
// computed once per stage and used read-only thereafter: walk blocks,
// emit (output_net, block) into a driver map and (input_net, block) into
// a sinks multimap, skipping empty names.
package netindex

import "github.com/vfpgacad/backend/block"

// Net is one net's connectivity: the driving block (Driver, nil if the
// net has no internal driver — e.g. a primary input) and its ordered
// sink blocks, in the declaration order of the sinks' blocks.
type Net struct {
	Name   string
	Driver *block.LogicBlock
	Sinks  []*block.LogicBlock
}

// Index maps net name to its Net view, plus Names holding the net names
// in first-seen (deterministic) order so callers can iterate
// reproducibly instead of ranging a map.
type Index struct {
	byName map[string]*Net
	Names  []string
}

// Build walks blocks once and returns an Index. Blocks are addressed by
// pointer into the backing slice, so blocks must not be mutated or
// reallocated while the Index is in use.
func Build(blocks []block.LogicBlock) *Index {
	idx := &Index{byName: make(map[string]*Net)}

	get := func(name string) *Net {
		n, ok := idx.byName[name]
		if !ok {
			n = &Net{Name: name}
			idx.byName[name] = n
			idx.Names = append(idx.Names, name)
		}
		return n
	}

	for i := range blocks {
		b := &blocks[i]
		if b.OutputNet != "" {
			get(b.OutputNet).Driver = b
		}
		for _, in := range b.InputNets {
			if in == "" {
				continue
			}
			n := get(in)
			n.Sinks = append(n.Sinks, b)
		}
	}

	return idx
}

// Net returns the Net view for name, or nil if no block touches it.
func (idx *Index) Net(name string) *Net {
	return idx.byName[name]
}

// Len returns the number of distinct net names seen.
func (idx *Index) Len() int {
	return len(idx.Names)
}
