package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/peterh/liner"

	"github.com/jfxcore/compiler/internal/classpath"
	"github.com/jfxcore/compiler/internal/pipeline"
	"github.com/jfxcore/compiler/internal/resolver"
)

const historyFile = ".fxresolve_history"

const replHelp = `Enter a type, or one of:
  property <owner> <path>    e.g. property Label GridPane.rowIndex
  field <owner> <name>
  method <owner> <name>
  new <type> [arg...]        explicit type arguments
  :import <name>             add an import (a.b.C or a.b.*)
  :imports                   list imports
  :stats                     cache statistics
  :quit
`

// session resolves REPL lines as one growing compilation unit. The cache
// lives as long as the session.
type session struct {
	pool    classpath.Pool
	imports []string
	cache   *resolver.Cache
	out     *printer
	common  *commonFlags
}

func cmdRepl(ctx context.Context, args []string) int {
	var common commonFlags
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	common.register(fs)
	_ = fs.Parse(args)

	pool, closePool, err := openPool(ctx, &common)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	defer closePool()

	s := &session{
		pool:   pool,
		cache:  resolver.NewCache(),
		out:    newPrinter(os.Stdout),
		common: &common,
	}

	for _, imp := range fs.Args() {
		s.addImport(imp)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Print(replHelp)
	for {
		line, err := ln.Prompt("fx> ")
		if errors.Is(err, liner.ErrPromptAborted) {
			return 0
		}
		if err != nil {
			fmt.Println()
			return 0
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)
		if strings.HasPrefix(line, ":") {
			if quit := s.command(line); quit {
				return 0
			}
			continue
		}
		s.resolve(line)
	}
}

func (s *session) command(line string) (quit bool) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case ":quit", ":q":
		return true
	case ":import":
		if arg == "" {
			fmt.Fprintln(s.out.w, "usage: :import <name>")
			return false
		}
		s.addImport(arg)
	case ":imports":
		for _, imp := range s.imports {
			fmt.Fprintln(s.out.w, imp)
		}
	case ":stats":
		st := s.cache.Stats()
		fmt.Fprintf(s.out.w, "%d entries, %d hits, %d misses\n", st.Entries, st.Hits, st.Misses)
	case ":help":
		fmt.Fprint(s.out.w, replHelp)
	default:
		fmt.Fprintf(s.out.w, "unknown command %s. Type :help for help.\n", cmd)
	}
	return false
}

func (s *session) resolve(line string) {
	ref, err := pipeline.ParseReference(line)
	if err != nil {
		fmt.Fprintln(s.out.w, s.out.paint(ansiRed, err.Error()))
		return
	}
	ctx := pipeline.NewPipelineContext(s.pool, pipeline.Unit{
		Name:       "<repl>",
		Imports:    s.imports,
		References: []pipeline.Reference{ref},
	})
	ctx.Cache = s.cache
	ctx.Logger = s.common.logger()
	ctx = pipeline.New(&pipeline.ReferenceProcessor{}).Run(ctx)
	for _, res := range ctx.Results {
		s.out.result(res)
	}
}

// addImport keeps imp only if it resolves.
func (s *session) addImport(imp string) {
	ctx := pipeline.NewPipelineContext(s.pool, pipeline.Unit{
		Name:    "<repl>",
		Imports: append(slices.Clone(s.imports), imp),
	})
	ctx.Cache = s.cache
	ctx = pipeline.New(&pipeline.ImportsProcessor{}).Run(ctx)
	if ctx.HasErrors() {
		for _, err := range ctx.Errors {
			fmt.Fprintln(s.out.w, s.out.paint(ansiRed, err.Error()))
		}
		return
	}
	s.imports = ctx.Imports
}
