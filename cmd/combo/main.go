package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "combo",
		Short: "A parser combinator toolchain",
	}

	rootCmd.PersistentFlags().Bool("verbose", false, "log loaded grammar productions at info level (dump command)")

	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newFmtCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
