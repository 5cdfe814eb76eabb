package main

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/meetinglens/classifier"
)

func newClassifyCmd(g *globalFlags) *cobra.Command {
	var (
		description string
		attendees   []string
		duration    int
	)

	cmd := &cobra.Command{
		Use:   "classify [subject]",
		Short: "Classify a single calendar event by meeting type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := g.buildApp()
			if err != nil {
				return err
			}
			cl := app.Classify(cmd.Context(), classifier.Event{
				Subject:         args[0],
				Description:     description,
				Attendees:       attendees,
				DurationMinutes: duration,
			})
			if _, err := app.Writer().Write("classification", args[0], cl); err != nil {
				return err
			}
			return printJSON(cl)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "event body, HTML allowed")
	cmd.Flags().StringSliceVarP(&attendees, "attendees", "a", nil, "attendee names (repeatable)")
	cmd.Flags().IntVar(&duration, "duration", 0, "duration in minutes")

	return cmd
}
