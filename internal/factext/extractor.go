// Package factext pattern-matches user utterances into typed personal
// facts: reminders, problems, notes, free-form attributes, and names.
package factext

import (
	"regexp"
	"strings"
	"time"

	"mira/internal/models"
	"mira/internal/timeparse"
)

// Rules are ordered by priority; the first match wins.
var (
	reminderRe = regexp.MustCompile(`(?i)remind me (?:to|about) (.+)$`)
	problemRe  = regexp.MustCompile(`(?i)(?:i have|i'm facing|i got) (?:a |an )?problem(?: with)? (.+)`)
	noteRe     = regexp.MustCompile(`(?i)remember that (.+)`)
	rememberMy = regexp.MustCompile(`(?is)remember\s+my\s+(.+?)\s+is\s+(.+)$`)
	myIsRe     = regexp.MustCompile(`(?is)my\s+(.+?)\s+is\s+(.+)$`)
	nameRe     = regexp.MustCompile(`(?i)(?:i am|i'm|my name is)\s+([a-z ]{2,40})$`)
)

// Time-phrase markers that divide a reminder task from its schedule, tried
// in textual order ("remind me to call mom tomorrow at 6pm" splits at
// "tomorrow", so the whole "tomorrow at 6pm" resolves as one phrase).
var timeMarkers = []string{" at ", " on ", " tomorrow", " tonight", " today"}

// Extract applies the pattern rules in priority order and returns the first
// matching fact, or nil when the utterance carries none. Persistence policy
// (discarding past reminders, defaulting problem flags) belongs to the
// caller, not here.
func Extract(utterance string, now time.Time) *models.Fact {
	t := strings.TrimSpace(utterance)

	if m := reminderRe.FindStringSubmatch(t); m != nil {
		task, phrase := splitReminder(m[1])
		fact := &models.Fact{Key: models.FactKeyReminder, Value: task}
		if phrase != "" {
			at := timeparse.Resolve(phrase, now)
			fact.RemindAt = &at
		}
		return fact
	}

	if m := problemRe.FindStringSubmatch(t); m != nil {
		return &models.Fact{Key: models.FactKeyProblem, Value: strings.TrimSpace(m[1])}
	}

	if m := noteRe.FindStringSubmatch(t); m != nil {
		return &models.Fact{Key: models.FactKeyNote, Value: strings.TrimSpace(m[1])}
	}

	m := rememberMy.FindStringSubmatch(t)
	if m == nil {
		m = myIsRe.FindStringSubmatch(t)
	}
	if m != nil {
		key := strings.ToLower(strings.TrimSpace(m[1]))
		return &models.Fact{Key: key, Value: strings.TrimSpace(m[2])}
	}

	if m := nameRe.FindStringSubmatch(t); m != nil {
		return &models.Fact{Key: models.FactKeyName, Value: strings.TrimSpace(m[1])}
	}

	return nil
}

// splitReminder separates the task text from a trailing time phrase. The
// earliest time marker wins; "at"/"on" prefixes are stripped from the
// phrase so "at 6pm" resolves as "6pm".
func splitReminder(rest string) (task, phrase string) {
	rest = strings.TrimSpace(rest)
	lower := strings.ToLower(rest)

	idx := -1
	for _, marker := range timeMarkers {
		if i := strings.Index(lower, marker); i >= 0 && (idx == -1 || i < idx) {
			idx = i
		}
	}
	if idx <= 0 {
		return rest, ""
	}

	task = strings.TrimSpace(rest[:idx])
	phrase = strings.TrimSpace(lower[idx:])
	phrase = strings.TrimPrefix(phrase, "at ")
	phrase = strings.TrimPrefix(phrase, "on ")
	if task == "" {
		return rest, ""
	}
	return task, strings.TrimSpace(phrase)
}
