package classifier

import (
	"fmt"
	"strings"

	"github.com/hupe1980/meetinglens/internal/util"
)

// maxDescriptionChars bounds how much (HTML-stripped) description text is
// carried into the prompt.
const maxDescriptionChars = 500

// sizeHint buckets an attendee count into an advisory label.
func sizeHint(attendees int) string {
	switch {
	case attendees == 2:
		return "one_on_one"
	case attendees > 50:
		return "large_broadcast"
	case attendees > 20:
		return "large"
	case attendees > 10:
		return "medium"
	default:
		return "small"
	}
}

// durationHint buckets a meeting length in minutes into an advisory label.
func durationHint(minutes int) string {
	switch {
	case minutes <= 15:
		return "very_short"
	case minutes <= 30:
		return "short"
	case minutes >= 240:
		return "very_long"
	case minutes >= 120:
		return "long"
	default:
		return "normal"
	}
}

// meetingContext renders the classifier user message: the event fields plus
// the advisory size and duration hints. The description is HTML-stripped,
// whitespace-normalized and truncated.
func meetingContext(e Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", strings.TrimSpace(e.Subject))

	if desc := cleanDescription(e.Description); desc != "" {
		fmt.Fprintf(&b, "Description: %s\n", desc)
	}
	if n := len(e.Attendees); n > 0 {
		fmt.Fprintf(&b, "Attendee count: %d (size hint: %s)\n", n, sizeHint(n))
	}
	if e.DurationMinutes > 0 {
		fmt.Fprintf(&b, "Duration: %d minutes (duration hint: %s)\n", e.DurationMinutes, durationHint(e.DurationMinutes))
	}
	b.WriteString("\nClassify this meeting as JSON.")
	return b.String()
}

func cleanDescription(desc string) string {
	cleaned := util.NormalizeWhitespace(util.StripHTML(desc))
	return util.Truncate(cleaned, maxDescriptionChars)
}
