// Command vfpgacad drives the full back-end flow for a netlist: parse,
// pack, place, route, and time, printing a short report at each stage.
//
// Usage:
//
//	vfpgacad -netlist design.json -width 16 -height 16 -seed 1
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/vfpgacad/backend/fabric"
	"github.com/vfpgacad/backend/netlist"
	"github.com/vfpgacad/backend/placer"
	"github.com/vfpgacad/backend/router"
	"github.com/vfpgacad/backend/timing"
)

func main() {
	netlistPath := flag.String("netlist", "", "path to a synthesis JSON netlist (required)")
	width := flag.Int("width", 16, "fabric width in tiles")
	height := flag.Int("height", 16, "fabric height in tiles")
	seed := flag.Int64("seed", 1, "placer RNG seed")
	topology := flag.String("topology", "star", "router net topology: star or steiner")
	flag.Parse()

	if *netlistPath == "" {
		fmt.Fprintln(os.Stderr, "vfpgacad: -netlist is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*netlistPath, *width, *height, *seed, *topology); err != nil {
		log.Fatalf("vfpgacad: %v", err)
	}
}

func run(netlistPath string, width, height int, seed int64, topologyFlag string) error {
	data, err := os.ReadFile(netlistPath)
	if err != nil {
		return fmt.Errorf("read netlist: %w", err)
	}

	mod, err := netlist.Parse(data)
	if err != nil {
		return fmt.Errorf("parse netlist: %w", err)
	}
	blocks := netlist.Pack(mod)
	log.Printf("parsed module %q: %d blocks packed", mod.Name, len(blocks))

	fab, err := fabric.New(width, height)
	if err != nil {
		return fmt.Errorf("build fabric: %w", err)
	}

	placement, err := placer.Place(fab, blocks, placer.WithSeed(seed))
	if err != nil {
		return fmt.Errorf("place: %w", err)
	}
	log.Printf("placement converged: final cost %.2f", placement.FinalCost)

	var routeOpts []router.Option
	switch topologyFlag {
	case "star":
		routeOpts = append(routeOpts, router.WithTopology(router.StarTopology))
	case "steiner":
		routeOpts = append(routeOpts, router.WithTopology(router.SteinerMST))
	default:
		return fmt.Errorf("unknown -topology %q (want star or steiner)", topologyFlag)
	}
	routed, err := router.Route(fab, blocks, placement.Placement, routeOpts...)
	if err != nil {
		return fmt.Errorf("route: %w", err)
	}
	log.Printf("routing converged after %d iterations: %d nets routed, %d unreachable sinks",
		routed.Iterations, len(routed.Routes), len(routed.UnreachableSinks))
	for _, sink := range routed.UnreachableSinks {
		fmt.Fprintf(os.Stderr, "vfpgacad: warning: unreachable sink %q\n", sink)
	}

	timingResult, err := timing.Analyze(fab, blocks, placement.Placement, routed)
	if err != nil {
		return fmt.Errorf("time: %w", err)
	}
	for _, loop := range timingResult.CombinationalLoops {
		fmt.Fprintf(os.Stderr, "vfpgacad: warning: combinational loop through %v\n", loop)
	}

	fmt.Printf("critical path: %d tiles\n", len(timingResult.CriticalPathNodes))
	for _, c := range timingResult.CriticalPathNodes {
		fmt.Printf("  (%d,%d)\n", c.X, c.Y)
	}
	fmt.Printf("critical path delay: %.3f ns\n", timingResult.CriticalPathDelayNS)
	fmt.Printf("fmax: %.2f MHz\n", timingResult.FmaxMHz)

	return nil
}
