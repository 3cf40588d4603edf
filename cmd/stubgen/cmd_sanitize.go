package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hytalekt/stubgen/sanitize"
)

func newSanitizeCmd() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "sanitize [file]",
		Short: "Repair decompiler output without changing its structure",
		Long: `Rewrite the decompiler constructs that do not parse as plain Java:
assertion-flag initializers, interface static blocks, switch bootstrap
expressions and case-null labels.

If no file is provided, reads from stdin and writes to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source []byte
			var err error
			var filename string

			if len(args) == 0 {
				if overwrite {
					return fmt.Errorf("-w requires a file argument")
				}
				source, err = io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				filename = args[0]
				if ext := filepath.Ext(filename); ext != ".java" {
					return fmt.Errorf("expected .java file, got %s", ext)
				}
				source, err = os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			output := sanitize.Clean(string(source))
			if overwrite {
				return os.WriteFile(filename, []byte(output), 0644)
			}
			_, err = io.WriteString(os.Stdout, output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&overwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
