package mood

import (
	"testing"

	"mira/internal/models"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want models.Mood
	}{
		{"neutral", "open youtube please", models.MoodNeutral},
		{"happy", "I'm so excited about the trip", models.MoodHappy},
		{"sad", "feeling pretty down today", models.MoodSad},
		{"stressed", "I'm overwhelmed with work", models.MoodStressed},
		{"angry", "this makes me furious", models.MoodAngry},
		{"crisis", "i want to die", models.MoodCrisis},
		{"empty", "", models.MoodNeutral},
		{"sad beats angry by priority", "sad and frustrated at the same time", models.MoodSad},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.text); got != tc.want {
				t.Errorf("Classify(%q) = %s, want %s", tc.text, got, tc.want)
			}
		})
	}
}

// Crisis keywords must short-circuit regardless of co-occurring moods.
func TestClassifyCrisisAlwaysWins(t *testing.T) {
	utterances := []string{
		"I am feeling really down and want to end my life",
		"I was so happy yesterday but now I think about suicide",
		"great awesome but i want to die",
	}
	for _, u := range utterances {
		if got := Classify(u); got != models.MoodCrisis {
			t.Errorf("Classify(%q) = %s, want crisis", u, got)
		}
	}
}
