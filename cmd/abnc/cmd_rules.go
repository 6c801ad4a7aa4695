package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cabo/abnc/abnf"
)

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "rules <grammar.abnf>",
		Short:         "List the rules of a compiled ABNF grammar",
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
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Rule", "Definition"})
			table.SetAutoWrapText(false)
			for _, name := range g.Names() {
				table.Append([]string{name, g.Get(name).Body.String()})
			}
			table.Render()
			return nil
		},
	}
}
