// Command bitchess is a UCI chess engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/hailam/bitchess/internal/bench"
	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/engine"
	"github.com/hailam/bitchess/internal/storage"
	"github.com/hailam/bitchess/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	hashMB     = flag.Int("hash", 0, "transposition table size in MB (0 keeps the saved setting)")
	dataDir    = flag.String("datadir", "", "settings database directory (default: per-user data directory)")
	ephemeral  = flag.Bool("ephemeral", false, "keep settings in memory only")
	verbosity  = flag.Int("v", 0, "log verbosity on stderr")
	debug      = flag.Bool("debug", false, "enable board consistency checks")
	perftDepth = flag.Int("perft", 0, "run perft to this depth on -fen and exit")
	fen        = flag.String("fen", board.StartFEN, "position for -perft")
)

func main() {
	flag.Parse()

	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("bitchess")

	if err := run(logger); err != nil {
		logger.Error(err, "fatal")
		os.Exit(1)
	}
}

func run(logger logr.Logger) error {
	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		logger.Info("CPU profiling enabled", "path", profilePath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *perftDepth > 0 {
		return runPerft(ctx, *fen, *perftDepth)
	}

	settings := storage.DefaultSettings()
	var uciOpts []uci.Option

	st, err := storage.Open(storage.Options{Dir: *dataDir, InMemory: *ephemeral, Logger: logger.WithName("storage")})
	if err != nil {
		logger.Error(err, "settings store unavailable, using defaults")
	} else {
		defer st.Close()
		if settings, err = st.LoadSettings(); err != nil {
			logger.Error(err, "loading settings")
		}
		if first, err := st.IsFirstRun(); err == nil && first {
			logger.V(1).Info("first run, saving default settings")
			if err := st.SaveSettings(settings); err != nil {
				logger.Error(err, "saving default settings")
			}
			if err := st.MarkFirstRunComplete(); err != nil {
				logger.Error(err, "marking first run")
			}
		}
		uciOpts = append(uciOpts, uci.WithStore(st))
	}

	if *hashMB > 0 {
		settings.HashMB = *hashMB
		settings.Normalize()
	}
	if *debug {
		settings.Debug = true
	}
	board.DebugChecks = settings.Debug

	eng := engine.NewEngine(settings.HashMB, engine.WithLogger(logger.WithName("engine")))

	uciOpts = append(uciOpts, uci.WithLogger(logger.WithName("uci")))
	protocol := uci.New(eng, settings, uciOpts...)
	return protocol.Run(ctx)
}

func runPerft(ctx context.Context, fen string, depth int) error {
	b, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}
	report, err := bench.Run(ctx, b, depth, bench.Options{Parallel: true})
	if err != nil {
		return err
	}
	if err := report.WriteDivide(os.Stdout); err != nil {
		return err
	}
	fmt.Printf("\nNodes searched: %d\n%s\n", report.Stats.Nodes, report.Summary())
	return nil
}
