package models

// IntentRecord is the structured output of parsing a transcript.
// Invariant: if Wake is false, Intent/Target/Query are empty — only the
// corrected transcript survives. Produced once per turn, immutable after.
type IntentRecord struct {
	Wake                bool   `json:"wake"`
	Intent              string `json:"intent"`
	Target              string `json:"target"`
	Query               string `json:"query"`
	CorrectedTranscript string `json:"corrected_transcript"`
}

// Recognized intent verbs. Anything else falls through to the
// conversational path or the generic "didn't understand" reply.
const (
	IntentGreet        = "greet"
	IntentIntroduce    = "introduce"
	IntentSearch       = "search"
	IntentPlay         = "play"
	IntentOpen         = "open"
	IntentMoodBoost    = "mood_boost"
	IntentOpenSoftware = "open_software"
	IntentChat         = "chat"
	IntentUnknown      = "unknown"
)
