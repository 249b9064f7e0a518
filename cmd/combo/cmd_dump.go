package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/combo/combofmt"
	"github.com/dhamidi/combo/compile"
)

func newDumpCmd() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "dump <grammar.ebnf>",
		Short: "Load an EBNF grammar, compile it, and print its stage graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				commonlog.Configure(1, nil)
			}
			logger := commonlog.GetLogger("combo.dump")

			grammar, err := combofmt.LoadEBNF(args[0])
			if err != nil {
				return err
			}
			if verbose {
				combofmt.DumpGrammar(grammar, logger)
			}

			r, err := combofmt.BuildRegistry(grammar, start)
			if err != nil {
				return fmt.Errorf("build registry: %w", err)
			}

			prog := r.Metadata(start)
			if prog == nil {
				return fmt.Errorf("no exported metadata for %q (rebuild with export-metadata)", start)
			}
			_, err = compile.Compile(prog, compile.WithDebug(os.Stdout))
			return err
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start production to dump")
	cmd.MarkFlagRequired("start")

	return cmd
}
