package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"mira/internal/models"
	"mira/internal/services"
	"mira/internal/turn"
)

// Announcer speaks a line through the turn pipeline, holding it busy for the
// duration of playback.
type Announcer interface {
	Announce(ctx context.Context, text string) error
}

// SessionGreeter runs the session-start flow: a greeting, a follow-up on the
// first open problem, then any reminders already due. Everything is spoken
// in that strict order.
type SessionGreeter struct {
	announcer Announcer
	facts     *services.FactService
	now       func() time.Time
}

// NewSessionGreeter creates a session greeter.
func NewSessionGreeter(announcer Announcer, facts *services.FactService) *SessionGreeter {
	return &SessionGreeter{
		announcer: announcer,
		facts:     facts,
		now:       time.Now,
	}
}

// Run performs the startup sequence.
func (g *SessionGreeter) Run(ctx context.Context) error {
	log.Println("👋 [SESSION] Running session greeting")

	if err := g.announcer.Announce(ctx, "Hello sir, welcome back!"); err != nil {
		return fmt.Errorf("greeting failed: %w", err)
	}

	if err := g.followUpProblem(ctx); err != nil {
		log.Printf("⚠️ [SESSION] Problem follow-up skipped: %v", err)
	}

	if err := g.announceDueReminders(ctx); err != nil {
		log.Printf("⚠️ [SESSION] Reminder announcement skipped: %v", err)
	}

	return nil
}

// followUpProblem asks about the oldest unresolved problem once, then marks
// it so it is never asked about again.
func (g *SessionGreeter) followUpProblem(ctx context.Context) error {
	problem, err := g.facts.FirstOpenProblem()
	if err != nil {
		return err
	}
	if problem == nil {
		return nil
	}

	line := fmt.Sprintf("Last time you mentioned a problem with %s. How is it going now?", problem.Value)
	if err := g.announcer.Announce(ctx, line); err != nil {
		return err
	}

	reminded := true
	_, err = g.facts.UpdateFact(problem.ID, &models.FactPatch{Reminded: &reminded})
	return err
}

// announceDueReminders speaks every reminder that came due while the session
// was away, marking each so it only fires once.
func (g *SessionGreeter) announceDueReminders(ctx context.Context) error {
	due, err := g.facts.ListDueReminders(g.now())
	if err != nil {
		return err
	}

	for _, reminder := range due {
		line := fmt.Sprintf("Sir, you asked me to remind you to %s.", reminder.Value)
		if err := g.announcer.Announce(ctx, line); err != nil {
			return err
		}

		reminded := true
		if _, err := g.facts.UpdateFact(reminder.ID, &models.FactPatch{Reminded: &reminded}); err != nil {
			return err
		}
	}

	return nil
}

var _ Announcer = (*turn.Controller)(nil)
