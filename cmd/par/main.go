// cmd/par is a thin host around the core's checker and runtime, analogous to
// funvibe-funxy's cmd/funxy: it owns no session-type semantics of its own,
// only argument dispatch, diagnostic formatting, and wiring.
package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/par/internal/builtin"
	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/check"
	"github.com/funvibe/par/internal/diagnostics"
	"github.com/funvibe/par/internal/runtime"
	"github.com/funvibe/par/internal/types"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "-help", "--help", "help":
		usage()
	case "run":
		if err := runDemo(); err != nil {
			fmt.Fprintln(os.Stderr, colorize(31, "error: "+err.Error()))
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s run\n", os.Args[0])
}

// runDemo installs the built-in library, checks the hand-built demo program
// against it, and runs it to completion, printing the readback result.
func runDemo() error {
	lib, err := builtin.Install()
	if err != nil {
		return fmt.Errorf("installing built-ins: %w", err)
	}

	defs := types.NewDefs(lib.TypeDefs)
	if errs := types.Validate(defs); len(errs) > 0 {
		return firstOf(errs)
	}

	entry, entryType, body := demoProgram()

	declared := make(map[string]types.Type, len(lib.Declared)+1)
	for ident, t := range lib.Declared {
		declared[ident] = t
	}
	declared[entry] = entryType

	definitions := map[string]calculus.Expression{entry: body}

	c := check.NewChecker(defs, declared, definitions)
	for ident := range lib.Externals {
		c.Externals[ident] = true
	}

	if errs := c.CheckAll(); len(errs) > 0 {
		return firstOf(errs)
	}

	globals := map[string]calculus.Expression{entry: body}
	rb, err := runtime.Run(context.Background(), globals, lib.Externals, entry)
	if err != nil {
		return fmt.Errorf("running %s: %w", entry, err)
	}
	fmt.Println(colorize(32, runtime.String(rb)))
	return nil
}

func firstOf(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return &diagnostics.MultipleError{Errors: errs}
}

var (
	colorOnce  sync.Once
	colorLevel int
)

// detectColorLevel follows the NO_COLOR convention (https://no-color.org/)
// and a terminal check, mirroring funvibe-funxy's own
// evaluator/builtins_term.go (minus the 256-color/truecolor tiers this CLI
// has no use for -- everything here is a single success/failure color).
func detectColorLevel() int {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return 0
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return 0
	}
	if os.Getenv("TERM") == "dumb" {
		return 0
	}
	return 1
}

func getColorLevel() int {
	colorOnce.Do(func() { colorLevel = detectColorLevel() })
	return colorLevel
}

func colorize(code int, s string) string {
	if getColorLevel() == 0 {
		return s
	}
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", code, s)
}
