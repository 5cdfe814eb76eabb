package main

import (
	"github.com/spf13/cobra"
)

func newStabilityCmd(g *globalFlags) *cobra.Command {
	var (
		promptsPath string
		trials      int
	)

	cmd := &cobra.Command{
		Use:   "stability",
		Short: "Run the prompt suite repeatedly and measure plan variance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompts, err := loadPrompts(promptsPath)
			if err != nil {
				return err
			}
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if trials > 0 {
				cfg.Trials = trials
			}
			app, err := g.buildAppFrom(cfg)
			if err != nil {
				return err
			}
			report := app.Stability(cmd.Context(), prompts)
			return printJSON(report)
		},
	}

	cmd.Flags().StringVarP(&promptsPath, "prompts", "p", "", "JSON prompt suite (defaults to the built-in hero prompts)")
	cmd.Flags().IntVarP(&trials, "trials", "t", 0, "trial count override")

	return cmd
}
