package card

import (
	"time"

	"github.com/dustin/go-humanize/english"
)

// CompletionMessage describes how long a card took, to minute precision.
func CompletionMessage(elapsed time.Duration) string {
	if elapsed < time.Minute {
		return "Completed in less than a minute"
	}

	days := int(elapsed / (24 * time.Hour))
	hours := int(elapsed % (24 * time.Hour) / time.Hour)
	minutes := int(elapsed % time.Hour / time.Minute)

	var parts []string
	if days > 0 {
		parts = append(parts, english.Plural(days, "day", ""))
	}
	if hours > 0 {
		parts = append(parts, english.Plural(hours, "hour", ""))
	}
	if minutes > 0 {
		parts = append(parts, english.Plural(minutes, "minute", ""))
	}
	return "Completed in " + english.WordSeries(parts, "and")
}

// applyCompletion stamps or clears the completion fields for a transition
// from prev to c.Status.
func applyCompletion(c *Card, prev Status, now time.Time) {
	if c.Status != StatusDone {
		c.CompletedAt = nil
		c.CompletionMessage = nil
		return
	}
	if prev == StatusDone {
		return
	}

	at := now.UTC()
	from := c.CreatedAt
	if c.Start != nil {
		from = *c.Start
	}
	msg := CompletionMessage(at.Sub(from))
	c.CompletedAt = &at
	c.CompletionMessage = &msg
}
