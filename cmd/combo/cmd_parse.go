package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/combo/combofmt"
)

func newParseCmd() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "parse <grammar.ebnf> <input>",
		Short: "Parse an input file against a start production from an EBNF grammar",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := combofmt.LoadEBNF(args[0])
			if err != nil {
				return err
			}
			r, err := combofmt.BuildRegistry(grammar, start)
			if err != nil {
				return fmt.Errorf("build registry: %w", err)
			}

			input, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			res, err := r.Parse(start, input)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			fmt.Printf("tokens: %v\n", res.Tokens)
			fmt.Printf("consumed: %d of %d bytes\n", res.ConsumedBytes, len(input))
			if len(res.Rest) > 0 {
				fmt.Printf("rest: %q\n", res.Rest)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start production to parse")
	cmd.MarkFlagRequired("start")

	return cmd
}
