// Command psim loads a machine image and executes it, either through
// the cycle-accurate 5-stage pipeline or the single-cycle reference
// interpreter.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/pipesim/emu"
	"github.com/sarchlab/pipesim/loader"
	"github.com/sarchlab/pipesim/timing/pipeline"
)

func main() {
	var trace bool
	var maxCycles uint64
	var mode string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "psim <image>",
		Short: "Run a machine image on the single-cycle or pipelined simulator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], mode, trace, verbose, maxCycles)
		},
	}
	rootCmd.Flags().BoolVar(&trace, "trace", false, "print the full per-cycle state trace")
	rootCmd.Flags().Uint64Var(&maxCycles, "max-cycles", 1_000_000, "abort after this many cycles without a HALT")
	rootCmd.Flags().StringVar(&mode, "mode", "pipeline", "execution mode: pipeline or single")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print a summary of the loaded image")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(imagePath, mode string, trace, verbose bool, maxCycles uint64) error {
	var log *os.File
	if verbose {
		log = os.Stdout
	}

	var img *loader.Image
	var err error
	if log != nil {
		img, err = loader.LoadVerbose(imagePath, log)
	} else {
		img, err = loader.Load(imagePath)
	}
	if err != nil {
		return err
	}

	switch mode {
	case "single":
		return runSingle(img, trace, maxCycles)
	case "pipeline":
		return runPipeline(img, trace, maxCycles)
	default:
		return fmt.Errorf("unknown mode %q: want single or pipeline", mode)
	}
}

func runSingle(img *loader.Image, trace bool, maxCycles uint64) error {
	instrMem := emu.NewMemory(len(img.Words))
	instrMem.LoadWords(img.Words)
	dataMem := emu.NewMemory(len(img.Words))
	dataMem.LoadWords(img.Words)

	e := emu.NewEmulator(instrMem, dataMem)
	if trace {
		e.WithTrace(os.Stdout)
	}
	cycles, err := e.Run(maxCycles)
	if err != nil {
		return err
	}
	fmt.Printf("machine halted\ntotal of %d cycles executed\n", cycles)
	return nil
}

func runPipeline(img *loader.Image, trace bool, maxCycles uint64) error {
	instrMem := emu.NewMemory(len(img.Words))
	instrMem.LoadWords(img.Words)
	dataMem := emu.NewMemory(len(img.Words))
	dataMem.LoadWords(img.Words)
	regs := &emu.RegFile{}

	p := pipeline.New(regs, instrMem, dataMem)
	if trace {
		p.Tracer = pipeline.NewWriterTracer(os.Stdout)
	}

	if err := p.Run(maxCycles); err != nil {
		return err
	}
	if !trace {
		fmt.Printf("machine halted\ntotal of %d cycles executed\n", p.Cycles)
	}
	return nil
}
