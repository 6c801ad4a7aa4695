package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cabo/abnc/abnf"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "check <grammar.abnf>",
		Short:         "Compile an ABNF grammar file and report problems",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read grammar: %w", err)
			}

			g, err := abnf.Compile(string(data))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}
			if err := g.Validate(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}

			fmt.Printf("%s: %d rules\n", args[0], g.Len())
			return nil
		},
	}
}
