// Package timeparse resolves loose natural-language time phrases
// ("tomorrow at 6pm", "tonight", "18:30") into absolute timestamps.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var clockRe = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s?(am|pm)?`)

// Resolve turns a time phrase into an absolute timestamp relative to now.
// It never fails: with no usable information the result defaults to 09:00
// of the current day, and a result that would land in the past is pushed
// forward one day so it reads as "next occurrence".
func Resolve(phrase string, now time.Time) time.Time {
	text := strings.ToLower(strings.TrimSpace(phrase))

	day := now
	hour, minute := 9, 0

	if strings.Contains(text, "tomorrow") {
		day = day.AddDate(0, 0, 1)
	} else if strings.Contains(text, "tonight") {
		hour, minute = 20, 0
	}
	// "today" keeps the current day, nothing to do.

	if m := clockRe.FindStringSubmatch(text); m != nil {
		h, _ := strconv.Atoi(m[1])
		min := 0
		if m[2] != "" {
			min, _ = strconv.Atoi(m[2])
		}
		switch m[3] {
		case "pm":
			if h < 12 {
				h += 12
			}
		case "am":
			if h == 12 {
				h = 0
			}
		}
		hour, minute = h, min
	}

	resolved := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())

	// An apparently-past time means the next occurrence of it.
	if resolved.Before(now) {
		resolved = resolved.AddDate(0, 0, 1)
	}

	return resolved
}
