package main

import (
	"fmt"

	"github.com/spf13/cobra"

	presentation "github.com/seedworks/arbor/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph [faq|tutor]",
	Short: "Print a flow graph as Mermaid",
	Long:  `Prints the compiled graph of a flow in Mermaid flowchart syntax, ready to paste into documentation.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApplication(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		compiled, err := app.engine.Graph(args[0])
		if err != nil {
			return err
		}

		fmt.Println(presentation.GenerateMermaid(compiled, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
