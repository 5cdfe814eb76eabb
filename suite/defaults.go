package suite

import "fmt"

// DefaultHeroPrompts is the built-in composer demo suite.
func DefaultHeroPrompts() []HeroPrompt {
	return []HeroPrompt{
		{
			ID:         "prioritize-invitations",
			PromptText: "Show me my pending invitations and which ones I should prioritize based on my priorities for this week: customer meetings and product strategy.",
		},
		{
			ID:         "bump-meetings",
			PromptText: "Bump all my meetings that can move to later in the week, I need to focus today and tomorrow.",
		},
		{
			ID:         "one-on-one-briefing",
			PromptText: "Before my 1:1 with Jordan, pull together a briefing on their open tasks, recent updates, and any blockers.",
		},
		{
			ID:         "weekly-digest",
			PromptText: "Give me a summary of my calendar for next week and flag anything unusual.",
		},
		{
			ID:         "meeting-patterns",
			PromptText: "Visualize how my meeting load has changed over the last quarter and show me the patterns in a dashboard.",
		},
		{
			ID:         "schedule-customer-call",
			PromptText: "Find a 45 minute slot next week for a call with the Acme team, avoiding my focus blocks.",
		},
	}
}

// DefaultEvents is the built-in classifier demo suite.
func DefaultEvents() []MeetingEvent {
	return []MeetingEvent{
		{
			ID:              "one-on-one",
			Subject:         "1:1 with Sarah",
			Attendees:       []string{"me", "sarah"},
			DurationMinutes: 30,
		},
		{
			ID:              "all-hands",
			Subject:         "All-Hands Q4",
			Attendees:       broadcastAttendees(150),
			DurationMinutes: 60,
		},
		{
			ID:              "daily-standup",
			Subject:         "Daily Standup",
			Description:     "Quick status sync for the platform team.",
			Attendees:       []string{"me", "ana", "ben", "chris", "dana"},
			DurationMinutes: 15,
		},
		{
			ID:              "design-review",
			Subject:         "Storage layer design review",
			Description:     "<p>Walk through the proposed storage layer changes and sign off.</p>",
			Attendees:       []string{"me", "ana", "ben", "chris"},
			DurationMinutes: 60,
		},
		{
			ID:              "customer-demo",
			Subject:         "Acme Corp product demo",
			Description:     "Demo of the new reporting features for the Acme customer team.",
			Attendees:       []string{"me", "sales-lead", "acme-1", "acme-2"},
			DurationMinutes: 45,
		},
		{
			ID:              "quarterly-planning",
			Subject:         "Q3 roadmap planning",
			Description:     "Prioritize the roadmap candidates for next quarter.",
			Attendees:       []string{"me", "pm-1", "pm-2", "eng-lead", "design-lead"},
			DurationMinutes: 120,
		},
	}
}

func broadcastAttendees(n int) []string {
	attendees := make([]string, n)
	for i := range attendees {
		attendees[i] = fmt.Sprintf("employee-%03d", i+1)
	}
	return attendees
}
