// Package mood provides a heuristic keyword classifier over user
// utterances. It is intentionally cheap — it runs on every turn before
// any model call.
package mood

import (
	"regexp"
	"strings"

	"mira/internal/models"
)

// Keyword sets per mood. Crisis is checked first and always wins: crisis
// phrasing must never be masked by a co-occurring happy/sad keyword.
var (
	crisisRe   = regexp.MustCompile(`(suicide|kill myself|end my life|i want to die)`)
	sadRe      = regexp.MustCompile(`(sad|down|upset|lonely|cry)`)
	stressedRe = regexp.MustCompile(`(stressed|anxious|overwhelmed|panic)`)
	angryRe    = regexp.MustCompile(`(angry|frustrated|furious|irritated|rage)`)
	happyRe    = regexp.MustCompile(`(happy|excited|joyful|great|awesome)`)
)

// Classify returns the detected mood for an utterance. Priority order:
// crisis > sad > stressed > angry > happy > neutral.
func Classify(text string) models.Mood {
	t := strings.ToLower(text)

	switch {
	case crisisRe.MatchString(t):
		return models.MoodCrisis
	case sadRe.MatchString(t):
		return models.MoodSad
	case stressedRe.MatchString(t):
		return models.MoodStressed
	case angryRe.MatchString(t):
		return models.MoodAngry
	case happyRe.MatchString(t):
		return models.MoodHappy
	default:
		return models.MoodNeutral
	}
}
