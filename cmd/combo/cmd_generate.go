package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/combo/combofmt"
	"github.com/dhamidi/combo/generate"
)

func newGenerateCmd() *cobra.Command {
	var start string
	var seed1, seed2 uint64

	cmd := &cobra.Command{
		Use:   "generate <grammar.ebnf>",
		Short: "Emit a random string a start production would accept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := combofmt.LoadEBNF(args[0])
			if err != nil {
				return err
			}
			r, err := combofmt.BuildRegistry(grammar, start)
			if err != nil {
				return fmt.Errorf("build registry: %w", err)
			}

			prog := r.Metadata(start)
			if prog == nil {
				return fmt.Errorf("no exported metadata for %q", start)
			}

			out, err := generate.Generate(prog,
				generate.WithSeed(seed1, seed2),
				generate.WithLookup(r.MetadataLookup()),
				generate.WithLinked(r.MetadataLinked()),
			)
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}
			fmt.Printf("%s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start production to generate from")
	cmd.Flags().Uint64Var(&seed1, "seed1", 1, "first half of the PCG seed")
	cmd.Flags().Uint64Var(&seed2, "seed2", 2, "second half of the PCG seed")
	cmd.MarkFlagRequired("start")

	return cmd
}
