package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rufaco/rufacod/internal/config"
	"github.com/rufaco/rufacod/internal/scheduler"
	"github.com/rufaco/rufacod/pkg/hwmon"
	log "github.com/rufaco/rufacod/pkg/rlog"
)

// Exit codes: 0 on clean stop via signal, 1 on configuration error, 2 on
// a sysfs/hwmon discovery error encountered at startup.
const (
	exitOK             = 0
	exitConfigError    = 1
	exitDiscoveryError = 2
)

// measureDiffRPM is the RPM spread, in raw RPM units, MeasureFan/MeasurePWM
// require a 5-sample window to settle within. Not exposed as a flag in
// spec.md; fixed at a value loose enough for typical fan noise.
const measureDiffRPM = 50.0

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to config.yaml (overrides the default search path)")
	measureDelay := flag.Int("measure-delay", 1000, "milliseconds to wait between calibration RPM samples")
	verbose := flag.Bool("v", false, "raise log verbosity")
	flag.BoolVar(verbose, "verbose", *verbose, "raise log verbosity")
	dryRun := flag.Bool("dry-run", false, "build and validate the graph, print its topology, and exit")
	flag.Parse()

	logger := log.New(*verbose)

	path := *configPath
	if path == "" {
		located, err := config.Locate()
		if err != nil {
			logger.Error("no configuration file found", "error", err)
			return exitConfigError
		}
		path = located
	}

	cfg, err := config.Load(path)
	if err != nil {
		logger.Error("failed to load configuration", "path", path, "error", err)
		return exitConfigError
	}

	graph, err := config.Build(path, cfg)
	if err != nil {
		logger.Error("failed to build curve graph", "path", path, "error", err)
		for _, discoveryErr := range []error{
			hwmon.ErrDeviceNotFound, hwmon.ErrFileNotFound, hwmon.ErrPermissionDenied,
			hwmon.ErrReadFailure, hwmon.ErrWriteFailure, hwmon.ErrInvalidValue, hwmon.ErrOperationTimeout,
		} {
			if errors.Is(err, discoveryErr) {
				return exitDiscoveryError
			}
		}
		return exitConfigError
	}

	if *dryRun {
		printTopology(graph)
		return exitOK
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := scheduler.New(graph, logger)

	if err := hub.Calibrate(ctx, time.Duration(*measureDelay)*time.Millisecond, measureDiffRPM); err != nil {
		logger.Error("calibration failed", "error", err)
		return exitDiscoveryError
	}

	logger.Info("rufacod running", "fans", len(graph.Fans), "curves", len(graph.Curves), "sources", len(graph.Sources))
	hub.Run(ctx)
	logger.Info("rufacod stopped")

	return exitOK
}

func printTopology(g *config.Graph) {
	fmt.Printf("sources (%d):\n", len(g.Sources))
	for id := range g.Sources {
		fmt.Printf("  %s\n", id)
	}
	fmt.Printf("curves (%d):\n", len(g.Curves))
	for id := range g.Curves {
		fmt.Printf("  %s\n", id)
	}
	fmt.Printf("fans (%d):\n", len(g.Fans))
	for _, f := range g.Fans {
		fmt.Printf("  %s\n", f.ID())
	}
}
