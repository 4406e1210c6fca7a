package jobs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mira/internal/database"
	"mira/internal/models"
	"mira/internal/services"
	"mira/internal/turn"
)

type recorderAnnouncer struct {
	lines []string
	err   error
}

func (r *recorderAnnouncer) Announce(ctx context.Context, text string) error {
	if r.err != nil {
		return r.err
	}
	r.lines = append(r.lines, text)
	return nil
}

func newFactService(t *testing.T) *services.FactService {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return services.NewFactService(db)
}

func timePtr(t time.Time) *time.Time { return &t }

func TestSessionGreeterOrder(t *testing.T) {
	facts := newFactService(t)
	base := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	if _, err := facts.CreateFact(&models.CreateFactRequest{
		Key:   models.FactKeyProblem,
		Value: "my knee",
	}, base); err != nil {
		t.Fatalf("CreateFact failed: %v", err)
	}
	if _, err := facts.CreateFact(&models.CreateFactRequest{
		Key:      models.FactKeyReminder,
		Value:    "take medicine",
		RemindAt: timePtr(base.Add(time.Hour)),
	}, base); err != nil {
		t.Fatalf("CreateFact failed: %v", err)
	}

	rec := &recorderAnnouncer{}
	greeter := NewSessionGreeter(rec, facts)
	greeter.now = func() time.Time { return base.Add(2 * time.Hour) }

	if err := greeter.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{
		"Hello sir, welcome back!",
		"Last time you mentioned a problem with my knee. How is it going now?",
		"Sir, you asked me to remind you to take medicine.",
	}
	if len(rec.lines) != len(want) {
		t.Fatalf("Expected %d announcements, got %v", len(want), rec.lines)
	}
	for i := range want {
		if rec.lines[i] != want[i] {
			t.Errorf("Announcement %d: expected %q, got %q", i, want[i], rec.lines[i])
		}
	}
}

func TestSessionGreeterMarksFollowUps(t *testing.T) {
	facts := newFactService(t)
	base := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	if _, err := facts.CreateFact(&models.CreateFactRequest{
		Key:   models.FactKeyProblem,
		Value: "my car",
	}, base); err != nil {
		t.Fatalf("CreateFact failed: %v", err)
	}

	greeter := NewSessionGreeter(&recorderAnnouncer{}, facts)
	greeter.now = func() time.Time { return base }

	if err := greeter.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Second session must not ask about the same problem again
	rec := &recorderAnnouncer{}
	second := NewSessionGreeter(rec, facts)
	second.now = func() time.Time { return base }

	if err := second.Run(context.Background()); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if len(rec.lines) != 1 {
		t.Errorf("Expected only the greeting on second session, got %v", rec.lines)
	}
}

func TestReminderTick(t *testing.T) {
	facts := newFactService(t)
	base := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	if _, err := facts.CreateFact(&models.CreateFactRequest{
		Key:      models.FactKeyReminder,
		Value:    "call mom",
		RemindAt: timePtr(base.Add(time.Hour)),
	}, base); err != nil {
		t.Fatalf("CreateFact failed: %v", err)
	}

	rec := &recorderAnnouncer{}
	job, err := NewReminderJob(rec, facts, time.Minute)
	if err != nil {
		t.Fatalf("NewReminderJob failed: %v", err)
	}

	// Not yet due
	job.now = func() time.Time { return base.Add(30 * time.Minute) }
	if err := job.Tick(context.Background()); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if len(rec.lines) != 0 {
		t.Errorf("Expected no announcements before due time, got %v", rec.lines)
	}

	// Due now: announced once, then marked
	job.now = func() time.Time { return base.Add(2 * time.Hour) }
	if err := job.Tick(context.Background()); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if len(rec.lines) != 1 || rec.lines[0] != "Sir, you asked me to remind you to call mom." {
		t.Fatalf("Unexpected announcements: %v", rec.lines)
	}

	if err := job.Tick(context.Background()); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if len(rec.lines) != 1 {
		t.Errorf("Expected reminder to fire once, got %v", rec.lines)
	}
}

func TestReminderTickBusyPipeline(t *testing.T) {
	facts := newFactService(t)
	base := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	if _, err := facts.CreateFact(&models.CreateFactRequest{
		Key:      models.FactKeyReminder,
		Value:    "stretch",
		RemindAt: timePtr(base.Add(time.Hour)),
	}, base); err != nil {
		t.Fatalf("CreateFact failed: %v", err)
	}

	busy := &recorderAnnouncer{err: turn.ErrBusy}
	job, err := NewReminderJob(busy, facts, time.Minute)
	if err != nil {
		t.Fatalf("NewReminderJob failed: %v", err)
	}
	job.now = func() time.Time { return base.Add(2 * time.Hour) }

	if err := job.Tick(context.Background()); err != nil {
		t.Fatalf("Tick should swallow busy pipeline: %v", err)
	}

	// The reminder stays pending for the next tick
	due, err := facts.ListDueReminders(base.Add(2 * time.Hour))
	if err != nil {
		t.Fatalf("ListDueReminders failed: %v", err)
	}
	if len(due) != 1 {
		t.Errorf("Expected reminder still pending, got %d", len(due))
	}

	rec := &recorderAnnouncer{}
	job.announcer = rec
	if err := job.Tick(context.Background()); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if len(rec.lines) != 1 {
		t.Errorf("Expected announcement on retry, got %v", rec.lines)
	}
}
