// Package backend implements the back-end compilation flow for a virtual
// FPGA CAD toolchain: placement, routing, and static timing analysis over
// a heterogeneous 2D tile fabric.
//
// Given a technology-mapped netlist (packed logic blocks) and a fabric
// description, the flow produces:
//
//   - a legal placement of blocks onto type-compatible tiles, minimising
//     total half-perimeter wirelength (package placer),
//   - a congestion-free routing of every net through the inter-tile
//     switch grid using the Pathfinder negotiated-congestion algorithm
//     (packages routegraph and router),
//   - a static timing estimate recovering the critical path and Fmax
//     (package timing).
//
// Subpackages:
//
//	fabric/      — typed 2D tile grid
//	block/       — packed logic-block model
//	netindex/    — net name -> (driver, sinks) index shared by placer and router
//	placer/      — simulated-annealing placement
//	routegraph/  — per-tile routing graph with congestion state
//	router/      — Pathfinder iterative router
//	timing/      — longest-path static timing analysis
//	netlist/     — JSON netlist ingestion and packing (reference external interface)
//	cmd/vfpgacad — CLI driving the full flow
//
// Packing, interactive rendering, bitstream serialisation, and
// cycle-accurate logic simulation are out of scope for this module; see
// SPEC_FULL.md for the full boundary.
package backend
