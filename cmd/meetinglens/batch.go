package main

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/meetinglens/suite"
)

func newBatchCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run a component over a full input suite",
	}
	cmd.AddCommand(newBatchComposeCmd(g))
	cmd.AddCommand(newBatchClassifyCmd(g))
	return cmd
}

func newBatchComposeCmd(g *globalFlags) *cobra.Command {
	var promptsPath string

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose execution plans for every prompt in the suite",
		Long: `Compose execution plans for every prompt in the suite.

Per-item failures are recorded in the batch and do not abort the run; the
command exits non-zero only when setup fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompts, err := loadPrompts(promptsPath)
			if err != nil {
				return err
			}
			app, _, err := g.buildApp()
			if err != nil {
				return err
			}
			batch := app.ComposeBatch(cmd.Context(), prompts)
			return printJSON(batch.Metadata)
		},
	}

	cmd.Flags().StringVarP(&promptsPath, "prompts", "p", "", "JSON prompt suite (defaults to the built-in hero prompts)")

	return cmd
}

func newBatchClassifyCmd(g *globalFlags) *cobra.Command {
	var eventsPath string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify every event in the suite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := loadEvents(eventsPath)
			if err != nil {
				return err
			}
			app, _, err := g.buildApp()
			if err != nil {
				return err
			}
			batch := app.ClassifyBatch(cmd.Context(), events)
			return printJSON(batch.Metadata)
		},
	}

	cmd.Flags().StringVarP(&eventsPath, "events", "e", "", "JSON event suite (defaults to the built-in demo events)")

	return cmd
}

func loadPrompts(path string) ([]suite.HeroPrompt, error) {
	if path == "" {
		return suite.DefaultHeroPrompts(), nil
	}
	return suite.LoadHeroPrompts(path)
}

func loadEvents(path string) ([]suite.MeetingEvent, error) {
	if path == "" {
		return suite.DefaultEvents(), nil
	}
	return suite.LoadEvents(path)
}
