package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seedworks/arbor"
	"github.com/seedworks/arbor/internal/presentation/tui"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [faq|tutor]",
	Short: "Run a flow interactively",
	Long:  `Starts an interactive session with one of the bundled flows.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flowName := "faq"
		if len(args) > 0 {
			flowName = args[0]
		}

		app, err := newApplication(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		runner := arbor.NewRunner(os.Stdin, os.Stdout)
		plain, _ := cmd.Flags().GetBool("plain")
		if !plain {
			runner.Renderer = tui.NewRenderer()
		}

		ctx := cmd.Context()
		switch flowName {
		case "faq":
			return runner.RunFAQ(ctx, app.engine, app.faq)
		case "tutor":
			return runner.RunTutor(ctx, app.engine, app.tutor)
		default:
			return fmt.Errorf("unknown flow %q (expected faq or tutor)", flowName)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("plain", false, "Disable markdown rendering of responses")
}
