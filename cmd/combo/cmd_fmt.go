package main

import (
	"fmt"
	"reflect"

	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/combo/combofmt"
)

// newFmtCmd parses and verifies an EBNF grammar file without compiling it,
// for catching grammar authoring mistakes before combo dump/parse/generate
// see them.
func newFmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "EBNF grammar tools",
	}
	cmd.AddCommand(newFmtCheckCmd())
	return cmd
}

func newFmtCheckCmd() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "check <grammar.ebnf>",
		Short: "Parse and verify an EBNF grammar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := combofmt.LoadEBNF(args[0])
			if err != nil {
				printEbnfErrors(err)
				return err
			}
			if start != "" {
				if err := ebnf.Verify(grammar, start); err != nil {
					printEbnfErrors(err)
					return err
				}
			}
			fmt.Printf("%d productions ok\n", len(grammar))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start production for verification (if empty, only checks syntax)")

	return cmd
}

func printEbnfErrors(err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Println(v.Index(i).Interface())
		}
		return
	}
	fmt.Println(err)
}
