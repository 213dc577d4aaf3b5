package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/valuestore/intern"
	"github.com/wippyai/valuestore/layout"
	"github.com/wippyai/valuestore/value"
	"github.com/wippyai/valuestore/witlayout"
)

func main() {
	var (
		typeExpr    = flag.String("type", "", "Type expression, e.g. 'record{id: u32, tags: list<string>}'")
		capacity    = flag.Int("cap", value.DefaultOptions().InitialArrayCapacity, "Initial array capacity")
		plain       = flag.Bool("plain", false, "Disable styled output")
		verbose     = flag.Bool("v", false, "Log layout and value events to stderr")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *typeExpr == "" {
		fmt.Fprintln(os.Stderr, "Usage: layout -type <expr> [-plain] [-cap n] [-v]")
		fmt.Fprintln(os.Stderr, "       layout -type <expr> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		intern.SetLogger(logger.Named("intern"))
		layout.SetLogger(logger.Named("layout"))
		value.SetLogger(logger.Named("value"))
	}

	opts := value.DefaultOptions()
	opts.InitialArrayCapacity = *capacity

	if err := run(*typeExpr, opts, *interactive, !*plain && term.IsTerminal(int(os.Stdout.Fd()))); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(expr string, opts value.Options, interactive, styled bool) error {
	t, err := parseType(expr)
	if err != nil {
		return err
	}

	conv := witlayout.NewConverter(layout.NewBuilder(opts.Interner))
	defer conv.Release()
	l, err := conv.Convert(t)
	if err != nil {
		return fmt.Errorf("convert %s: %w", describe(t), err)
	}

	if interactive {
		return runInteractive(describe(t), l, opts)
	}

	fmt.Printf("Type: %s\n", describe(t))
	fmt.Printf("Layout: %s\n", l)
	fmt.Printf("Size: %d  Align: %d\n\n", layout.SizeOf(l), layout.AlignOf(l))
	fmt.Println(renderTable(l, styled))

	def, err := defaultValue(l, opts)
	if err != nil {
		return fmt.Errorf("default value: %w", err)
	}
	fmt.Printf("\nDefault: %s\n", def)
	return nil
}
