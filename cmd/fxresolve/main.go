package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/jfxcore/compiler/internal/pipeline"
)

const usage = `Usage: fxresolve <command> [flags] [args]

Commands:
  resolve  <units.yaml>...   resolve the references of every unit
  classes  [package]         list the classes of the universe
  index    -o <file>         write a SQLite index of the universe
  repl                       resolve references interactively

Common flags:
  -manifest <file>   class manifest (default: nearest fxresolve.yaml)
  -db <file>         prebuilt class index, instead of a manifest
  -v                 verbose output
`

// commonFlags are accepted by every subcommand.
type commonFlags struct {
	manifest string
	db       string
	verbose  bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.manifest, "manifest", "", "class manifest")
	fs.StringVar(&c.db, "db", "", "prebuilt class index")
	fs.BoolVar(&c.verbose, "v", false, "verbose output")
}

func (c *commonFlags) logger() *slog.Logger {
	if !c.verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// logf prints a user-facing progress line when -v is set.
func (c *commonFlags) logf(format string, args ...any) {
	if c.verbose {
		fmt.Fprintf(os.Stderr, "[fxresolve] "+format+"\n", args...)
	}
}

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var code int
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "resolve":
		code = cmdResolve(ctx, args)
	case "classes":
		code = cmdClasses(ctx, args)
	case "index":
		code = cmdIndex(ctx, args)
	case "repl":
		code = cmdRepl(ctx, args)
	case "help", "-help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		code = 2
	}
	os.Exit(code)
}

func cmdResolve(ctx context.Context, args []string) int {
	var common commonFlags
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	common.register(fs)
	dump := fs.Bool("dump", false, "dump resolved structures")
	jobs := fs.Int("j", 0, "units resolved at once (default 8)")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "resolve: no units file given")
		return 2
	}

	var units []pipeline.Unit
	for _, path := range fs.Args() {
		f, err := pipeline.LoadUnits(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			return 1
		}
		units = append(units, f.Units...)
	}

	pool, closePool, err := openPool(ctx, &common)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	defer closePool()

	opts := []pipeline.BatchOption{pipeline.WithLogger(common.logger())}
	if *jobs > 0 {
		opts = append(opts, pipeline.WithParallelism(*jobs))
	}
	results, err := pipeline.RunUnits(ctx, pool, units, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}

	out := newPrinter(os.Stdout)
	failed := false
	for _, pctx := range results {
		if pctx == nil {
			continue
		}
		out.unit(pctx)
		if pctx.HasErrors() {
			failed = true
		}
		stats := pctx.Cache.Stats()
		common.logf("%s: %d cache entries, %d hits, %d misses", pctx.Unit.Name, stats.Entries, stats.Hits, stats.Misses)
		if *dump {
			dumpConfig.Dump(pctx.Results)
		}
	}
	if failed {
		return 1
	}
	return 0
}

// dumpConfig keeps dumps readable: resolved types link back into the class
// pool, which would otherwise be printed in full.
var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                5,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func cmdClasses(ctx context.Context, args []string) int {
	var common commonFlags
	fs := flag.NewFlagSet("classes", flag.ExitOnError)
	common.register(fs)
	_ = fs.Parse(args)

	pool, closePool, err := openPool(ctx, &common)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	defer closePool()

	names, err := classNames(ctx, pool, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	fmt.Println(strings.Join(names, "\n"))
	return 0
}

func cmdIndex(ctx context.Context, args []string) int {
	var common commonFlags
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	common.register(fs)
	out := fs.String("o", "", "index file to write")
	_ = fs.Parse(args)

	if *out == "" {
		fmt.Fprintln(os.Stderr, "index: -o is required")
		return 2
	}
	if common.db != "" {
		fmt.Fprintln(os.Stderr, "index: -db cannot be indexed again; give a manifest")
		return 2
	}
	if err := writeIndex(ctx, &common, *out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}
