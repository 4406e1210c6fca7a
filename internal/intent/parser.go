// Package intent turns corrected transcripts into structured intent
// records by delegating to a language model, with a local wake-word
// fallback for when the model misses.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"mira/internal/models"
)

// Generator is the minimal language-model interface the parser needs.
// Fakes are injected in tests; live model output is never asserted on.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// wakeWords are checked locally against the lower-cased transcript as a
// fallback in case the model misses the wake word.
var wakeWords = []string{"mira", "meera", "myra", "mirra", "miraah", "mirah", "sweetheart", "babe", "baby"}

const parserPrompt = `You are a command parser for the AI assistant Mira.

1. First, correct all typos in the transcript. For example, "yutu" -> "YouTube", "vcode" -> "VSCode", etc.
2. Then parse the corrected transcript into JSON with exactly these fields:
{
  "wake": true | false,
  "intent": "string",
  "target": "string|null",
  "query": "string|null",
  "corrected_transcript": "string"
}

Rules:
- "wake" must be true if the transcript mentions Mira or variants (even with minor typos) like "mira", "meera", "mirra", "myra", "mirah", "mierra" or affectionate terms like "baby", "babe", "sweetheart".
- If wake is false, set other fields to null.
- "intent" is a short verb like "open", "search", "play", "chat", etc.
- "target" is the app, site, or entity.
- "query" is the rest of the user request.
- Do not explain. JSON only.

Examples:
Transcript: "hey mira open yutu"
{
  "wake": true,
  "intent": "open",
  "target": "youtube",
  "query": null,
  "corrected_transcript": "hey mira open YouTube"
}

Transcript: "what is the weather today"
{
  "wake": false,
  "intent": null,
  "target": null,
  "query": null,
  "corrected_transcript": "what is the weather today"
}`

// Parser parses transcripts into intent records via a language model.
type Parser struct {
	generator Generator
}

// NewParser creates a parser backed by the given generator.
func NewParser(generator Generator) *Parser {
	return &Parser{generator: generator}
}

// Parse sends the transcript to the model and extracts the single JSON
// object from its response. Malformed output yields (nil, nil): parse
// failure is a recoverable "no intent" result, never fatal.
func (p *Parser) Parse(ctx context.Context, transcript string) (*models.IntentRecord, error) {
	prompt := fmt.Sprintf("%s\nUser: %q", parserPrompt, transcript)

	raw, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("⚠️ [INTENT] Model call failed: %v", err)
		return nil, nil
	}

	record := extractRecord(raw)
	if record == nil {
		log.Printf("⚠️ [INTENT] Unparseable model output (%d bytes)", len(raw))
	}
	return record, nil
}

// extractRecord pulls the first {...last } substring out of raw model
// output and unmarshals it. Returns nil if either bracket is absent or the
// JSON does not parse.
func extractRecord(raw string) *models.IntentRecord {
	i := strings.Index(raw, "{")
	j := strings.LastIndex(raw, "}")
	if i == -1 || j == -1 || j < i {
		return nil
	}

	var record models.IntentRecord
	if err := json.Unmarshal([]byte(raw[i:j+1]), &record); err != nil {
		return nil
	}
	return &record
}

// ContainsWakeWord reports whether the transcript contains one of the
// fixed name variants or affectionate terms, via substring containment on
// the lower-cased text.
func ContainsWakeWord(transcript string) bool {
	t := strings.ToLower(transcript)
	for _, w := range wakeWords {
		if strings.Contains(t, w) {
			return true
		}
	}
	return false
}
