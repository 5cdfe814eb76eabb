package main

import (
	"github.com/spf13/cobra"
)

func newComposeCmd(g *globalFlags) *cobra.Command {
	var promptID string

	cmd := &cobra.Command{
		Use:   "compose [prompt text]",
		Short: "Compose an execution plan for a single hero prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := g.buildApp()
			if err != nil {
				return err
			}
			comp := app.Compose(cmd.Context(), args[0], promptID)
			if _, err := app.Writer().Write("composition", comp.PromptID, comp); err != nil {
				return err
			}
			return printJSON(comp)
		},
	}

	cmd.Flags().StringVar(&promptID, "prompt-id", "", "prompt identifier stamped into the composition")

	return cmd
}
