package dispatch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"mira/internal/factext"
	"mira/internal/intent"
	"mira/internal/models"
	"mira/internal/services"
)

// crisisReply is the fixed support script. It is always spoken verbatim and
// never routed through the language model.
var crisisReply = strings.Join([]string{
	"I'm really sorry you're feeling this way. You matter, and you’re not alone.",
	"If you’re in immediate danger, please contact local emergency services right now.",
	"Talking to someone you trust can help — a close friend or family member.",
	"If you can, consider reaching out to a professional counselor or a local helpline in your area.",
}, " ")

const fallbackReply = "Sorry, I couldn’t think of a good reply right now, but I’m here with you."

const personaHeader = `You are Mira — warm, wise, and helpful. Be empathetic and encouraging.
- If user is sad/stressed/angry, comfort briefly and, when helpful, include a short, relevant story or lesson from Mahabharata, Ramayana, Bhagavad Gita, Bible, Quran, or real life achievers. Keep it respectful and non-preachy.
- If user asks factual questions, answer clearly and simply.
- Use 2-6 sentences. Speak naturally, no markdown, no numbered lists.
- If asked to remember personal info, acknowledge and remember.
- If you are not sure about a fact, be honest and suggest how to verify.
Persona details:
`

// Responder handles the conversational path: remember, then reply.
type Responder struct {
	model intent.Generator
	chat  *services.ChatService
	facts *services.FactService

	memoryLimit int
	factsLimit  int
	now         func() time.Time
}

// NewResponder creates a conversational responder.
func NewResponder(model intent.Generator, chat *services.ChatService, facts *services.FactService, memoryLimit, factsLimit int) *Responder {
	return &Responder{
		model:       model,
		chat:        chat,
		facts:       facts,
		memoryLimit: memoryLimit,
		factsLimit:  factsLimit,
		now:         time.Now,
	}
}

// Respond extracts and persists any fact in the input, then produces a
// reply. Crisis mood gets the fixed support script without a model call.
func (r *Responder) Respond(ctx context.Context, input string, mood models.Mood) (*Result, error) {
	r.rememberFacts(input)

	if mood == models.MoodCrisis {
		return &Result{Utterance: crisisReply}, nil
	}

	reply, err := r.generateReply(ctx, input, mood)
	if err != nil {
		log.Printf("❌ [CHAT] Reply generation failed: %v", err)
		return &Result{Utterance: fallbackReply}, nil
	}

	return &Result{Utterance: reply}, nil
}

// rememberFacts persists whatever fact the utterance carries. Reminders
// whose time already passed are dropped here so they never fire.
func (r *Responder) rememberFacts(input string) {
	fact := factext.Extract(input, r.now())
	if fact == nil {
		return
	}

	req := &models.CreateFactRequest{
		Key:      fact.Key,
		Value:    fact.Value,
		RemindAt: fact.RemindAt,
	}

	if _, err := r.facts.CreateFact(req, r.now()); err != nil {
		log.Printf("⏭️ [MEMORY] Skipping fact (%s): %v", fact.Key, err)
	}
}

func (r *Responder) generateReply(ctx context.Context, input string, mood models.Mood) (string, error) {
	history, err := r.chat.ListRecent(r.memoryLimit)
	if err != nil {
		return "", fmt.Errorf("failed to load history: %w", err)
	}

	facts, err := r.facts.ListFacts(r.factsLimit)
	if err != nil {
		return "", fmt.Errorf("failed to load facts: %w", err)
	}

	prompt := buildPrompt(input, mood, history, facts)

	answer, err := r.model.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("model returned an empty reply")
	}
	return answer, nil
}

func buildPrompt(input string, mood models.Mood, history []models.ChatMessage, facts []models.Fact) string {
	var sb strings.Builder
	sb.WriteString(personaHeader)

	if len(facts) > 0 {
		parts := make([]string, 0, len(facts))
		for _, f := range facts {
			parts = append(parts, f.Key+": "+f.Value)
		}
		sb.WriteString("Known facts: " + strings.Join(parts, "; ") + "\n")
	} else {
		sb.WriteString("No stored personal facts yet.\n")
	}

	sb.WriteString("\nConversation so far:\n")
	for _, m := range history {
		if m.Role == models.RoleUser {
			sb.WriteString("User: " + m.Content + "\n")
		} else {
			sb.WriteString("Mira: " + m.Content + "\n")
		}
	}

	fmt.Fprintf(&sb, "\nUser mood (heuristic): %s\nUser: %q\nMira:\n", mood, input)
	return sb.String()
}
