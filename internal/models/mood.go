package models

// Mood is the heuristic emotional classification of an utterance. It is
// derived per turn and consumed transiently to steer dispatch and tone;
// it is never persisted.
type Mood string

const (
	MoodNeutral  Mood = "neutral"
	MoodHappy    Mood = "happy"
	MoodSad      Mood = "sad"
	MoodStressed Mood = "stressed"
	MoodAngry    Mood = "angry"
	MoodCrisis   Mood = "crisis"
)
