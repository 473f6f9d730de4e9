package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/philipparndt/stl2vrml/internal/config"
	"github.com/philipparndt/stl2vrml/internal/convert"
	"github.com/philipparndt/stl2vrml/pkg/fault"
	"github.com/philipparndt/stl2vrml/pkg/openscad"
	"github.com/philipparndt/stl2vrml/pkg/watcher"
	"github.com/spf13/cobra"
)

// console prints status lines to stdout and progress dots to stderr
type console struct {
	quiet  bool
	out    io.Writer
	errOut io.Writer
}

func (c console) printf(format string, args ...any) {
	if !c.quiet {
		fmt.Fprintf(c.out, "stl2vrml:  "+format+"\n", args...)
	}
}

func (c console) progress(int) {
	if !c.quiet {
		fmt.Fprint(c.errOut, ".")
	}
}

func (c console) endProgress(facets int) {
	if !c.quiet && facets >= convert.ProgressInterval {
		fmt.Fprintln(c.errOut)
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := config.FromFlags(cmd.Flags())
	if err != nil {
		return err
	}
	ui := console{quiet: cfg.Quiet, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
	input, output := args[0], args[1]

	err = convertOnce(ui, cfg, input, output)
	if !cfg.Watch {
		return err
	}
	if err != nil {
		fmt.Fprintf(ui.errOut, "Error: %v\n", err)
	}
	return watch(cmd.Context(), ui, cfg, input, output)
}

func convertOnce(ui console, cfg config.Config, input, output string) error {
	ui.printf("Converting %s to %s", input, output)

	var facets int
	result, err := convert.ConvertFile(input, output, convert.Options{
		Generator:   cfg.Generator,
		BatchSize:   cfg.BatchSize,
		KeepPartial: cfg.KeepPartial,
		OpenSCAD:    cfg.OpenSCAD,
		Progress: func(n int) {
			facets = n
			ui.progress(n)
		},
	})
	ui.endProgress(facets)
	if err != nil {
		if fault.KindOf(err) == fault.KindFormat {
			return fmt.Errorf("%s is not a valid STL model: %w", input, err)
		}
		return err
	}

	ui.printf("Read %d facets (%s STL), wrote %d face sets.", result.Facets, result.Format, result.Blocks)
	if result.Facets == 0 {
		ui.printf("Warning: model has no facets, using default viewpoint.")
	}
	ui.printf("Done.")
	return nil
}

// watch converts again on every change of the input until interrupted
func watch(ctx context.Context, ui console, cfg config.Config, input, output string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	files := []string{input}
	if openscad.IsSource(input) {
		deps, err := openscad.NewRenderer(".", cfg.OpenSCAD).ResolveDependencies(input)
		if err != nil {
			return fmt.Errorf("failed to resolve dependencies: %w", err)
		}
		files = deps
	}

	// conversions must not overlap
	var mu sync.Mutex
	w, err := watcher.New(cfg.Debounce,
		func(path string) {
			mu.Lock()
			defer mu.Unlock()
			ui.printf("%s changed", path)
			if err := convertOnce(ui, cfg, input, output); err != nil {
				fmt.Fprintf(ui.errOut, "Error: %v\n", err)
			}
		},
		func(err error) {
			fmt.Fprintf(ui.errOut, "Watcher error: %v\n", err)
		})
	if err != nil {
		return err
	}
	if err := w.Add(files...); err != nil {
		w.Close()
		return err
	}

	ui.printf("Watching %d file(s) for changes, press Ctrl+C to stop.", w.Files())
	return w.Run(ctx)
}
