// Package suite defines the fixed input suites fed to the batch and
// stability runners: hero prompts for the composer and calendar events for
// the classifier. Suites load from JSON files or come from the built-in demo
// sets, so batch runs work without external data.
package suite

import (
	"encoding/json"
	"fmt"
	"os"
)

// HeroPrompt is one composer input.
type HeroPrompt struct {
	ID         string `json:"id"`
	PromptText string `json:"prompt_text"`
}

// MeetingEvent is one classifier input.
type MeetingEvent struct {
	ID              string   `json:"id"`
	Subject         string   `json:"subject"`
	Description     string   `json:"description,omitempty"`
	Attendees       []string `json:"attendees,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
}

// LoadHeroPrompts reads a JSON file containing either a bare prompt array or
// an object with a "prompts" key.
func LoadHeroPrompts(path string) ([]HeroPrompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt suite: %w", err)
	}
	var prompts []HeroPrompt
	if err := json.Unmarshal(data, &prompts); err == nil {
		return validatePrompts(prompts)
	}
	var wrapped struct {
		Prompts []HeroPrompt `json:"prompts"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parse prompt suite %s: %w", path, err)
	}
	return validatePrompts(wrapped.Prompts)
}

// LoadEvents reads a JSON file containing either a bare event array or an
// object with an "events" key.
func LoadEvents(path string) ([]MeetingEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event suite: %w", err)
	}
	var events []MeetingEvent
	if err := json.Unmarshal(data, &events); err == nil {
		return validateEvents(events)
	}
	var wrapped struct {
		Events []MeetingEvent `json:"events"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parse event suite %s: %w", path, err)
	}
	return validateEvents(wrapped.Events)
}

func validatePrompts(prompts []HeroPrompt) ([]HeroPrompt, error) {
	if len(prompts) == 0 {
		return nil, fmt.Errorf("prompt suite is empty")
	}
	for i, p := range prompts {
		if p.ID == "" {
			return nil, fmt.Errorf("prompt %d has no id", i)
		}
		if p.PromptText == "" {
			return nil, fmt.Errorf("prompt %q has no prompt_text", p.ID)
		}
	}
	return prompts, nil
}

func validateEvents(events []MeetingEvent) ([]MeetingEvent, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("event suite is empty")
	}
	for i, e := range events {
		if e.ID == "" {
			return nil, fmt.Errorf("event %d has no id", i)
		}
	}
	return events, nil
}
