package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hytalekt/stubgen/pipeline"
)

func newGenerateCmd() *cobra.Command {
	var (
		outDir     string
		patchDir   string
		jobs       int
		decompiler string
		decompArgs []string
	)

	cmd := &cobra.Command{
		Use:   "generate <archive>",
		Short: "Generate a stub source tree from a class archive",
		Long: `Generate compilable API stubs for every class in a jar or a directory of
.class files.

With --decompiler, each class is decompiled by the given external command,
sanitized and stubbed; classes the decompiler cannot handle are reconstructed
from class-file metadata instead. Without it, every class is reconstructed
from metadata.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Archive:  args[0],
				OutDir:   outDir,
				PatchDir: patchDir,
				Jobs:     jobs,
			}
			if decompiler != "" {
				opts.Decompiler = &pipeline.ExecDecompiler{
					Command: decompiler,
					Args:    decompArgs,
					Archive: args[0],
				}
			}
			sum, err := pipeline.Generate(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}
			fmt.Printf("%d classes: %d decompiled, %d reconstructed (%d fallback), %d patched\n",
				sum.Classes, sum.Decompiled, sum.Emitted, sum.Fallback, sum.Patched)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "stubs", "output directory")
	cmd.Flags().StringVar(&patchDir, "patches", "", "directory of hand-written sources overlaid on the output")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "parallel workers (default: number of CPUs)")
	cmd.Flags().StringVar(&decompiler, "decompiler", "", "external decompiler command")
	cmd.Flags().StringArrayVar(&decompArgs, "decompiler-arg", nil,
		"argument passed to the decompiler; {archive} and {class} are substituted (repeatable)")

	return cmd
}
