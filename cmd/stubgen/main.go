package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	var verbose int

	rootCmd := &cobra.Command{
		Use:   "stubgen",
		Short: "Generate API-preserving Java stub sources from class archives",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbose, nil)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newSanitizeCmd())
	rootCmd.AddCommand(newStubCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newEnhanceCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
