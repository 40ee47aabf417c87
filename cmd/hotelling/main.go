// Command hotelling enumerates the Nash equilibria of the N-player
// Hotelling game on [0,1].
//
// Usage:
//
//	hotelling --N 4 --max-sols 10 --verbose
//	hotelling --N 2 --sweep 6 --solver native --verify
//
// Each equilibrium is printed as "Solution k: [p0, p1, ...]" with exact
// rational positions, followed by the elapsed time and a closing notice.
//
// Exit status: 0 when the search was exhausted or capped, 2 for a bad
// configuration, 3 when the solver was inconclusive, 1 otherwise.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/gitrdm/hotelling/internal/parallel"
	"github.com/gitrdm/hotelling/pkg/enumerate"
	"github.com/gitrdm/hotelling/pkg/hotelling"
	"github.com/gitrdm/hotelling/pkg/solver"
)

const (
	exitOK           = 0
	exitFailure      = 1
	exitConfig       = 2
	exitInconclusive = 3
)

// commit is stamped at build time with -ldflags "-X main.commit=...".
var commit string

type options struct {
	players    int
	maxSols    int
	verbose    bool
	backend    string
	timeout    time.Duration
	z3Path     string
	resolution int
	approx     bool
	verify     bool
	sweep      int
	logLevel   string
	version    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitConfig
	}
	if opts.version {
		info := hotelling.GetVersionInfo(commit)
		fmt.Fprintf(stdout, "hotelling %s (%s)\n", info.Version, info.GoVersion)
		return exitOK
	}

	level, err := zerolog.ParseLevel(opts.logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "invalid --log-level %q: %v\n", opts.logLevel, err)
		return exitConfig
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	if opts.sweep == 0 {
		return searchOne(ctx, opts, opts.players, stdout, logger)
	}
	return sweep(ctx, opts, stdout, stderr, logger)
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("hotelling", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&o.players, "N", 2, "number of players (at least 2)")
	fs.IntVar(&o.maxSols, "max-sols", 100, "stop after this many equilibria")
	fs.BoolVar(&o.verbose, "verbose", false, "trace every stability constraint as it is built")
	fs.StringVar(&o.backend, "solver", string(solver.BackendNative), "solver backend: native, sampled or z3")
	fs.DurationVar(&o.timeout, "timeout", 0, "time limit per solver check (0 = none)")
	fs.StringVar(&o.z3Path, "z3", "z3", "z3 executable for --solver z3")
	fs.IntVar(&o.resolution, "resolution", 16, "sampling grid for --solver sampled")
	fs.BoolVar(&o.approx, "approx", false, "also print decimal positions")
	fs.BoolVar(&o.verify, "verify", false, "re-verify every equilibrium exactly")
	fs.IntVar(&o.sweep, "sweep", 0, "search every player count from N up to this value")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	fs.BoolVar(&o.version, "version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	switch solver.Backend(o.backend) {
	case solver.BackendNative, solver.BackendSampled, solver.BackendZ3:
	default:
		return o, fmt.Errorf("%w: unknown solver %q", hotelling.ErrInvalidConfiguration, o.backend)
	}
	if o.resolution < 1 {
		return o, fmt.Errorf("%w: --resolution must be positive", hotelling.ErrInvalidConfiguration)
	}
	if o.sweep != 0 && o.sweep < o.players {
		return o, fmt.Errorf("%w: --sweep %d is below --N %d", hotelling.ErrInvalidConfiguration, o.sweep, o.players)
	}
	cfg := hotelling.Config{Players: o.players, MaxSolutions: o.maxSols}
	if err := cfg.Validate(); err != nil {
		return o, err
	}
	return o, nil
}

// searchOne runs the whole search for one player count and writes its
// report to stdout.
func searchOne(ctx context.Context, o options, players int, stdout io.Writer, logger zerolog.Logger) int {
	log := logger.With().Int("players", players).Logger()
	s, err := solver.New(solver.DefaultConfig(
		solver.WithBackend(solver.Backend(o.backend)),
		solver.WithTimeout(o.timeout),
		solver.WithZ3Path(o.z3Path),
		solver.WithResolution(o.resolution),
		solver.WithLogger(log),
	))
	if err != nil {
		fmt.Fprintln(stdout, err)
		return exitConfig
	}

	cfg := hotelling.DefaultConfig()
	cfg.Players = players
	cfg.MaxSolutions = o.maxSols
	cfg.Verbose = o.verbose
	cfg.Trace = stdout
	cfg.Logger = log

	notice := color.New(color.FgYellow)
	failure := color.New(color.FgRed, color.Bold)

	res, err := hotelling.Search(ctx, cfg, s, func(k int, p hotelling.Profile) {
		line := fmt.Sprintf("Solution %d: %s", k, p)
		if o.approx {
			line += " ≈ " + p.Decimal(6)
		}
		fmt.Fprintln(stdout, line)
		if o.verify {
			if verr := hotelling.Verify(p); verr != nil {
				failure.Fprintf(stdout, "\tnot an equilibrium: %v\n", verr)
			} else {
				fmt.Fprintln(stdout, "\tverified")
			}
		}
	})
	log.Debug().Str("stats", res.Stats.String()).Msg("solver statistics")

	switch {
	case errors.Is(err, hotelling.ErrInvalidConfiguration):
		fmt.Fprintln(stdout, err)
		return exitConfig
	case errors.Is(err, hotelling.ErrInconclusive):
		fmt.Fprintf(stdout, "Took: %.2fs\n", res.Elapsed.Seconds())
		failure.Fprintf(stdout, "Solver inconclusive after %d solution(s); more equilibria may exist.\n", len(res.Solutions))
		log.Warn().Err(err).Msg("search inconclusive")
		return exitInconclusive
	case err != nil:
		failure.Fprintf(stdout, "Search failed: %v\n", err)
		log.Error().Err(err).Msg("search failed")
		return exitFailure
	}

	switch res.State {
	case enumerate.Capped:
		notice.Fprintln(stdout, "EARLY EXITING")
		fmt.Fprintf(stdout, "Took: %.2fs\n", res.Elapsed.Seconds())
	case enumerate.Exhausted:
		fmt.Fprintf(stdout, "Took: %.2fs\n", res.Elapsed.Seconds())
		if len(res.Solutions) == 0 {
			notice.Fprintln(stdout, "No equilibrium found.")
		} else {
			notice.Fprintf(stdout, "No further equilibrium exists (found %d).\n", len(res.Solutions))
		}
	}
	return exitOK
}

// sweep runs one independent search per player count on a worker pool
// and prints the reports in player order.
func sweep(ctx context.Context, o options, stdout, stderr io.Writer, logger zerolog.Logger) int {
	counts := o.sweep - o.players + 1
	pool := parallel.NewWorkerPool(0)
	defer pool.Shutdown()
	logger.Info().Int("from", o.players).Int("to", o.sweep).Int("workers", pool.Workers()).Msg("sweep started")

	type report struct {
		out  bytes.Buffer
		code int
	}
	outcomes := parallel.Map(ctx, pool, counts, func(ctx context.Context, i int) (*report, error) {
		r := &report{}
		r.code = searchOne(ctx, o, o.players+i, &r.out, logger)
		return r, nil
	})

	worst := exitOK
	header := color.New(color.Bold)
	for i, oc := range outcomes {
		header.Fprintf(stdout, "== N=%d ==\n", o.players+i)
		if oc.Err != nil {
			fmt.Fprintln(stderr, oc.Err)
			worst = worse(worst, exitFailure)
			continue
		}
		_, _ = io.Copy(stdout, &oc.Value.out)
		worst = worse(worst, oc.Value.code)
	}
	return worst
}

// severity orders exit codes for a sweep: a failure outranks a
// configuration error, which outranks an inconclusive search.
var severity = map[int]int{
	exitOK:           0,
	exitInconclusive: 1,
	exitConfig:       2,
	exitFailure:      3,
}

func worse(a, b int) int {
	if severity[b] > severity[a] {
		return b
	}
	return a
}
