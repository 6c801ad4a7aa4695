package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cabo/abnc/abnf"
	"github.com/cabo/abnc/peg"
)

func newParseCmd() *cobra.Command {
	var start string
	var tree bool
	var debug bool
	var ignore []string

	cmd := &cobra.Command{
		Use:           "parse <grammar.abnf> <input>",
		Short:         "Parse input against a compiled ABNF grammar",
		Long:          "Parse input (a file, or - for stdin) against a rule of the compiled grammar.\nPrints the final index reached, and optionally the parse tree.",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read grammar: %w", err)
			}
			input, err := readInput(args[1])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			g, err := abnf.Compile(string(data))
			if err != nil {
				return err
			}

			p := peg.NewParser(g)
			p.Debug = debug
			end, err := p.Parse(abnf.NormalizeName(start), string(input))
			if err != nil {
				return err
			}
			if end == peg.NoMatch {
				return fmt.Errorf("no match (examined up to index %d)", p.MaxIndex())
			}

			fmt.Printf("matched [0,%d) of %d\n", end, len(input))
			if tree {
				ast := p.AST(peg.ASTOptions{Ignore: ignore})
				if ast != nil {
					fmt.Print(ast)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "rule to parse with (required)")
	cmd.Flags().BoolVar(&tree, "tree", false, "print the parse tree")
	cmd.Flags().BoolVar(&debug, "debug", false, "trace successful matches")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "rules to omit from the tree")
	cmd.MarkFlagRequired("start")

	return cmd
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}
