package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hytalekt/stubgen/archive"
	"github.com/hytalekt/stubgen/pipeline"
	"github.com/hytalekt/stubgen/signature"
)

func newStubCmd() *cobra.Command {
	var (
		archivePath string
		overwrite   bool
	)

	cmd := &cobra.Command{
		Use:   "stub <file>",
		Short: "Stub a single decompiled .java file",
		Long: `Sanitize, parse and stub one decompiled source file, printing the result
to stdout.

With --archive, constructor delegation calls are resolved against the
archive's signature index; without it, unknown delegations are kept as-is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			index := signature.NewIndex()
			if archivePath != "" {
				a, err := archive.Load(archivePath)
				if err != nil {
					return fmt.Errorf("load archive: %w", err)
				}
				index = a.Index()
			}

			output, err := pipeline.ProcessSource(index, string(source))
			if err != nil {
				return fmt.Errorf("stub: %w", err)
			}
			if overwrite {
				return os.WriteFile(args[0], []byte(output), 0644)
			}
			fmt.Print(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&archivePath, "archive", "a", "", "class archive for delegation resolution")
	cmd.Flags().BoolVarP(&overwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
