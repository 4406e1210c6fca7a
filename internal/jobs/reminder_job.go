package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"mira/internal/models"
	"mira/internal/services"
	"mira/internal/turn"
)

// ReminderJob periodically re-checks for reminders coming due during the
// session and announces them through the turn pipeline.
type ReminderJob struct {
	announcer Announcer
	facts     *services.FactService
	interval  time.Duration
	scheduler gocron.Scheduler
	now       func() time.Time
}

// NewReminderJob creates the reminder job with its own scheduler.
func NewReminderJob(announcer Announcer, facts *services.FactService, interval time.Duration) (*ReminderJob, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder scheduler: %w", err)
	}

	return &ReminderJob{
		announcer: announcer,
		facts:     facts,
		interval:  interval,
		scheduler: scheduler,
		now:       time.Now,
	}, nil
}

// Start begins the periodic check.
func (j *ReminderJob) Start() error {
	_, err := j.scheduler.NewJob(
		gocron.DurationJob(j.interval),
		gocron.NewTask(func() {
			if err := j.Tick(context.Background()); err != nil {
				log.Printf("⚠️ [REMINDER] Check failed: %v", err)
			}
		}),
		gocron.WithName("reminder_check"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}

	j.scheduler.Start()
	log.Printf("⏰ [REMINDER] Checking due reminders every %v", j.interval)
	return nil
}

// Stop shuts the scheduler down.
func (j *ReminderJob) Stop() {
	if err := j.scheduler.Shutdown(); err != nil {
		log.Printf("⚠️ [REMINDER] Scheduler shutdown: %v", err)
	}
}

// Tick announces newly due reminders. A busy pipeline is left alone; the
// reminder stays unmarked and is retried on the next tick.
func (j *ReminderJob) Tick(ctx context.Context) error {
	due, err := j.facts.ListDueReminders(j.now())
	if err != nil {
		return err
	}

	for _, reminder := range due {
		line := fmt.Sprintf("Sir, you asked me to remind you to %s.", reminder.Value)
		if err := j.announcer.Announce(ctx, line); err != nil {
			if errors.Is(err, turn.ErrBusy) {
				log.Printf("⏭️ [REMINDER] Pipeline busy, retrying next tick")
				return nil
			}
			return err
		}

		reminded := true
		if _, err := j.facts.UpdateFact(reminder.ID, &models.FactPatch{Reminded: &reminded}); err != nil {
			return err
		}
		log.Printf("🔔 [REMINDER] Announced reminder #%d: %s", reminder.ID, reminder.Value)
	}

	return nil
}
