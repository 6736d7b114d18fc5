// Command pas assembles tab-separated source into the machine image
// format psim loads.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sarchlab/pipesim/assembler"
)

func main() {
	var inputPath string
	var outputPath string

	rootCmd := &cobra.Command{
		Use:   "pas",
		Short: "Assemble source into a machine image",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(inputPath, outputPath)
		},
	}
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "input assembly source path (required)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output machine image path (required)")
	_ = rootCmd.MarkFlagRequired("input")
	_ = rootCmd.MarkFlagRequired("output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(inputPath, outputPath string) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening %q: %w", inputPath, err)
	}
	defer func() { _ = in.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".pas-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary output: %w", err)
	}
	tmpPath := tmp.Name()

	if err := assembler.Assemble(in, tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temporary output: %w", err)
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing %q: %w", outputPath, err)
	}
	return nil
}
