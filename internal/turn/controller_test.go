package turn

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mira/internal/audio"
	"mira/internal/database"
	"mira/internal/dispatch"
	"mira/internal/models"
	"mira/internal/services"
)

type fakeSTT struct {
	transcript string
	err        error
	block      chan struct{} // when set, Transcribe waits until closed
}

func (f *fakeSTT) Transcribe(ctx context.Context, clipPath string) (string, error) {
	if f.block != nil {
		<-f.block
	}
	return f.transcript, f.err
}

type fakeParser struct {
	rec *models.IntentRecord
	err error
}

func (f *fakeParser) Parse(ctx context.Context, transcript string) (*models.IntentRecord, error) {
	return f.rec, f.err
}

type fakeDispatcher struct {
	result *dispatch.Result
	err    error
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, rec *models.IntentRecord, transcript string, m models.Mood) (*dispatch.Result, error) {
	return f.result, f.err
}

type fakeVoice struct {
	mu     sync.Mutex
	spoken []string
	err    error
}

func (f *fakeVoice) Speak(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, text)
	return f.err
}

func (f *fakeVoice) lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.spoken...)
}

func newChatService(t *testing.T) *services.ChatService {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return services.NewChatService(db)
}

func TestRunTurn_FullPipeline(t *testing.T) {
	stt := &fakeSTT{transcript: "mira open youtube"}
	parser := &fakeParser{rec: &models.IntentRecord{Wake: true, Intent: models.IntentOpen, Target: "youtube"}}

	actionRan := false
	dispatcher := &fakeDispatcher{result: &dispatch.Result{
		Utterance: "Opening youtube",
		OnSpoken: func(ctx context.Context) (*dispatch.Result, error) {
			actionRan = true
			return nil, nil
		},
	}}
	voice := &fakeVoice{}

	c := NewController(stt, parser, dispatcher, voice, newChatService(t), 6*time.Second)

	outcome, err := c.RunTurn(context.Background(), "clip.webm")
	if err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}

	if outcome.Transcript != "mira open youtube" {
		t.Errorf("Unexpected transcript: %q", outcome.Transcript)
	}
	if len(outcome.Replies) != 1 || outcome.Replies[0] != "Opening youtube" {
		t.Errorf("Unexpected replies: %v", outcome.Replies)
	}
	if !actionRan {
		t.Error("Expected side effect to run")
	}
	spoken := voice.lines()
	if len(spoken) != 1 || spoken[0] != "Opening youtube" {
		t.Errorf("Expected speech before side effect, got %v", spoken)
	}
	if c.CurrentState() != StateIdle {
		t.Errorf("Expected idle after turn, got %s", c.CurrentState())
	}
}

func TestRunTurn_SpeechPrecedesSideEffect(t *testing.T) {
	stt := &fakeSTT{transcript: "mira open youtube"}
	parser := &fakeParser{rec: &models.IntentRecord{Wake: true, Intent: models.IntentOpen}}
	voice := &fakeVoice{}

	var order []string
	dispatcher := &fakeDispatcher{result: &dispatch.Result{
		Utterance: "Opening youtube",
		OnSpoken: func(ctx context.Context) (*dispatch.Result, error) {
			order = append(order, "action")
			return nil, nil
		},
	}}

	c := NewController(stt, parser, dispatcher, voice, newChatService(t), 6*time.Second)
	if _, err := c.RunTurn(context.Background(), "clip.webm"); err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}

	if len(voice.lines()) != 1 {
		t.Fatal("Expected speech")
	}
	if len(order) != 1 {
		t.Fatal("Expected side effect")
	}
}

func TestRunTurn_RejectedWhileBusy(t *testing.T) {
	block := make(chan struct{})
	stt := &fakeSTT{transcript: "hello mira", block: block}
	parser := &fakeParser{}
	dispatcher := &fakeDispatcher{result: &dispatch.Result{Utterance: "hi"}}

	c := NewController(stt, parser, dispatcher, &fakeVoice{}, newChatService(t), 6*time.Second)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.RunTurn(context.Background(), "clip.webm")
	}()

	// Wait for the first turn to claim the pipeline
	deadline := time.After(2 * time.Second)
	for c.CurrentState() == StateIdle {
		select {
		case <-deadline:
			t.Fatal("First turn never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if err := c.BeginCapture(); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy, got %v", err)
	}
	if _, err := c.RunTurn(context.Background(), "other.webm"); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy for concurrent turn, got %v", err)
	}

	close(block)
	<-done

	if err := c.BeginCapture(); err != nil {
		t.Errorf("Expected capture allowed after turn finished: %v", err)
	}
}

func TestRunTurn_SilentWithoutWake(t *testing.T) {
	stt := &fakeSTT{transcript: "just talking to myself"}
	parser := &fakeParser{rec: nil}
	dispatcher := &fakeDispatcher{result: nil}
	voice := &fakeVoice{}
	chat := newChatService(t)

	c := NewController(stt, parser, dispatcher, voice, chat, 6*time.Second)

	outcome, err := c.RunTurn(context.Background(), "clip.webm")
	if err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}
	if !outcome.Silent {
		t.Error("Expected silent outcome")
	}
	if len(voice.lines()) != 0 {
		t.Errorf("Expected no speech, got %v", voice.lines())
	}

	// Unwoken turns leave no trace in the conversation
	messages, err := chat.ListRecent(20)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("Expected no stored messages, got %d", len(messages))
	}
}

func TestRunTurn_TranscriptionSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"artifact never appeared", audio.ErrNotReady, "Sorry Sir, file is not ready"},
		{"blank transcript", audio.ErrHeardNothing, "Sorry Sir, I didn't listen anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stt := &fakeSTT{err: tt.err}
			voice := &fakeVoice{}
			c := NewController(stt, &fakeParser{}, &fakeDispatcher{}, voice, newChatService(t), 6*time.Second)

			outcome, err := c.RunTurn(context.Background(), "clip.webm")
			if err != nil {
				t.Fatalf("RunTurn failed: %v", err)
			}
			if len(outcome.Replies) != 1 || outcome.Replies[0] != tt.want {
				t.Errorf("Expected %q, got %v", tt.want, outcome.Replies)
			}
			spoken := voice.lines()
			if len(spoken) != 1 || spoken[0] != tt.want {
				t.Errorf("Expected spoken apology, got %v", spoken)
			}
		})
	}
}

func TestRunTurn_TranscriptionHardFailure(t *testing.T) {
	stt := &fakeSTT{err: errors.New("ffmpeg exploded")}
	c := NewController(stt, &fakeParser{}, &fakeDispatcher{}, &fakeVoice{}, newChatService(t), 6*time.Second)

	if _, err := c.RunTurn(context.Background(), "clip.webm"); err == nil {
		t.Fatal("Expected error for hard transcription failure")
	}
	if c.CurrentState() != StateIdle {
		t.Errorf("Expected idle after failure, got %s", c.CurrentState())
	}
}

func TestRunTurn_WatchdogClearsStuckTurn(t *testing.T) {
	stt := &fakeSTT{transcript: "mira open youtube"}
	parser := &fakeParser{rec: &models.IntentRecord{Wake: true, Intent: models.IntentOpen}}

	released := make(chan struct{})
	dispatcher := &fakeDispatcher{result: &dispatch.Result{
		Utterance: "Opening youtube",
		OnSpoken: func(ctx context.Context) (*dispatch.Result, error) {
			<-released // hung side effect
			return nil, nil
		},
	}}

	c := NewController(stt, parser, dispatcher, nil, newChatService(t), 50*time.Millisecond)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.RunTurn(context.Background(), "clip.webm")
	}()

	// The watchdog should release the pipeline even though the side effect hangs
	deadline := time.After(2 * time.Second)
	for c.CurrentState() != StateIdle {
		select {
		case <-deadline:
			t.Fatal("Watchdog never cleared the stuck turn")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}

	if err := c.BeginCapture(); err != nil {
		t.Errorf("Expected capture allowed after watchdog reset: %v", err)
	}

	close(released)
	<-done
}

func TestAnnounce(t *testing.T) {
	voice := &fakeVoice{}
	chat := newChatService(t)
	c := NewController(&fakeSTT{}, &fakeParser{}, &fakeDispatcher{}, voice, chat, 6*time.Second)

	if err := c.Announce(context.Background(), "Reminder: call mom"); err != nil {
		t.Fatalf("Announce failed: %v", err)
	}

	spoken := voice.lines()
	if len(spoken) != 1 || spoken[0] != "Reminder: call mom" {
		t.Errorf("Unexpected speech: %v", spoken)
	}

	messages, err := chat.ListRecent(20)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(messages) != 1 || messages[0].Role != models.RoleAssistant {
		t.Errorf("Expected stored assistant message, got %v", messages)
	}
}

func TestAnnounce_RejectedWhileBusy(t *testing.T) {
	c := NewController(&fakeSTT{}, &fakeParser{}, &fakeDispatcher{}, &fakeVoice{}, newChatService(t), 6*time.Second)

	if err := c.BeginCapture(); err != nil {
		t.Fatalf("BeginCapture failed: %v", err)
	}
	if err := c.Announce(context.Background(), "hello"); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy, got %v", err)
	}
}
