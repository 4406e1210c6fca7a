package turn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mira/internal/audio"
	"mira/internal/dispatch"
	"mira/internal/intent"
	"mira/internal/models"
	"mira/internal/mood"
	"mira/internal/services"
)

// State is the single explicit phase of the pipeline. Exactly one turn owns
// the pipeline at a time; all busyness questions derive from this value.
type State int

const (
	StateIdle State = iota
	StateCapturing
	StateTranscribing
	StateParsing
	StateDispatching
	StateSpeaking
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateTranscribing:
		return "transcribing"
	case StateParsing:
		return "parsing"
	case StateDispatching:
		return "dispatching"
	case StateSpeaking:
		return "speaking"
	default:
		return "unknown"
	}
}

// ErrBusy is returned when a turn is requested while another one owns the
// pipeline.
var ErrBusy = errors.New("a turn is already in progress")

// Transcriber converts a recorded clip into text.
type Transcriber interface {
	Transcribe(ctx context.Context, clipPath string) (string, error)
}

// Parser extracts an intent record from a transcript.
type Parser interface {
	Parse(ctx context.Context, transcript string) (*models.IntentRecord, error)
}

// Dispatcher executes a parsed intent.
type Dispatcher interface {
	Dispatch(ctx context.Context, rec *models.IntentRecord, transcript string, m models.Mood) (*dispatch.Result, error)
}

// Voice speaks text out loud. Speech failures are non-fatal: the turn
// carries on so the side effect still runs.
type Voice interface {
	Speak(ctx context.Context, text string) error
}

// Outcome summarizes a completed turn.
type Outcome struct {
	Transcript string   `json:"transcript"`
	Replies    []string `json:"replies"`
	Silent     bool     `json:"silent"`
}

// Controller owns the turn pipeline and enforces single-turn concurrency.
type Controller struct {
	stt        Transcriber
	parser     Parser
	dispatcher Dispatcher
	voice      Voice
	chat       *services.ChatService
	logger     *logrus.Logger

	watchdogTimeout time.Duration

	mu       sync.Mutex
	state    State
	turnID   string
	watchdog *time.Timer
}

// NewController creates a turn controller.
func NewController(stt Transcriber, parser Parser, dispatcher Dispatcher, voice Voice, chat *services.ChatService, watchdogTimeout time.Duration) *Controller {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	return &Controller{
		stt:             stt,
		parser:          parser,
		dispatcher:      dispatcher,
		voice:           voice,
		chat:            chat,
		logger:          logger,
		watchdogTimeout: watchdogTimeout,
		state:           StateIdle,
	}
}

// CurrentState returns the pipeline state.
func (c *Controller) CurrentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether any turn owns the pipeline.
func (c *Controller) Busy() bool {
	return c.CurrentState() != StateIdle
}

// Speaking reports whether the pipeline is in its playback phase.
func (c *Controller) Speaking() bool {
	return c.CurrentState() == StateSpeaking
}

// BeginCapture claims the pipeline for an incoming recording. Rejected while
// another turn is running or speech is playing.
func (c *Controller) BeginCapture() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return fmt.Errorf("%w: state %s", ErrBusy, c.state)
	}
	c.state = StateCapturing
	c.turnID = uuid.New().String()
	return nil
}

// transition moves to next if the current state is one of from.
func (c *Controller) transition(next State, from ...State) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range from {
		if c.state == s {
			c.state = next
			return nil
		}
	}
	return fmt.Errorf("%w: cannot enter %s from %s", ErrBusy, next, c.state)
}

// finishTurn releases the pipeline if id still owns it. A stale finish from
// a watchdog-cleared turn must not clobber a newer turn's state.
func (c *Controller) finishTurn(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.turnID != id {
		return
	}
	if c.watchdog != nil {
		c.watchdog.Stop()
		c.watchdog = nil
	}
	c.state = StateIdle
	c.turnID = ""
}

// armWatchdog force-clears the turn if it is still running and not speaking
// after the timeout. Safety valve against a hung side effect.
func (c *Controller) armWatchdog(id string, log *logrus.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.watchdog = time.AfterFunc(c.watchdogTimeout, func() {
		c.mu.Lock()
		stuck := c.turnID == id && c.state != StateIdle && c.state != StateSpeaking
		c.mu.Unlock()

		if stuck {
			log.Warn("watchdog cleared a stuck turn")
			if m := services.GetMetrics(); m != nil {
				m.RecordWatchdogReset()
			}
			c.finishTurn(id)
		}
	})
}

// RunTurn drives one complete turn for a recorded clip: transcribe, parse,
// dispatch, speak. The clip may come from a capture this controller began or
// straight from an upload.
func (c *Controller) RunTurn(ctx context.Context, clipPath string) (*Outcome, error) {
	c.mu.Lock()
	if c.state != StateIdle && c.state != StateCapturing {
		state := c.state
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: state %s", ErrBusy, state)
	}
	c.state = StateTranscribing
	if c.turnID == "" {
		c.turnID = uuid.New().String()
	}
	id := c.turnID
	c.mu.Unlock()

	defer c.finishTurn(id)
	log := c.logger.WithFields(logrus.Fields{"turn_id": id})

	started := time.Now()

	transcript, err := c.stt.Transcribe(ctx, clipPath)
	if err != nil {
		return c.transcriptionFailure(ctx, log, err)
	}
	if m := services.GetMetrics(); m != nil {
		m.RecordTranscription()
	}
	log.WithFields(logrus.Fields{"stage": "transcribe", "transcript": transcript}).Info("clip transcribed")

	if err := c.transition(StateParsing, StateTranscribing); err != nil {
		return nil, err
	}

	rec, err := c.parser.Parse(ctx, transcript)
	if err != nil {
		// Parse errors are recoverable: the turn falls back to conversation
		log.WithFields(logrus.Fields{"stage": "parse"}).WithError(err).Warn("intent parse failed")
		rec = nil
	}

	woken := (rec != nil && rec.Wake) || intent.ContainsWakeWord(transcript)
	if woken {
		if _, err := c.chat.AppendMessage(models.RoleUser, transcript); err != nil {
			log.WithFields(logrus.Fields{"stage": "persist"}).WithError(err).Warn("failed to store user message")
		}
	}

	if err := c.transition(StateDispatching, StateParsing); err != nil {
		return nil, err
	}
	c.armWatchdog(id, log)

	detected := mood.Classify(transcript)
	result, err := c.dispatcher.Dispatch(ctx, rec, transcript, detected)
	if err != nil {
		if m := services.GetMetrics(); m != nil {
			m.RecordTurnError("dispatch")
		}
		return nil, fmt.Errorf("dispatch failed: %w", err)
	}

	outcome := &Outcome{Transcript: transcript}
	if result == nil {
		// Not addressed to the assistant
		outcome.Silent = true
		log.WithFields(logrus.Fields{"stage": "dispatch"}).Info("turn ended silently")
		return outcome, nil
	}

	// Walk the result chain: each step is spoken before its side effect runs
	for result != nil {
		outcome.Replies = append(outcome.Replies, result.Utterance)
		if _, err := c.chat.AppendMessage(models.RoleAssistant, result.Utterance); err != nil {
			log.WithFields(logrus.Fields{"stage": "persist"}).WithError(err).Warn("failed to store reply")
		}
		c.speak(ctx, log, result.Utterance)

		if result.OnSpoken == nil {
			break
		}
		next, err := result.OnSpoken(ctx)
		if err != nil {
			log.WithFields(logrus.Fields{"stage": "action"}).WithError(err).Warn("side effect failed")
			break
		}
		result = next
	}

	if m := services.GetMetrics(); m != nil {
		m.RecordTurn()
		m.RecordTurnLatency(time.Since(started).Seconds())
	}
	log.WithFields(logrus.Fields{"stage": "finish", "duration": time.Since(started).String()}).Info("turn complete")

	return outcome, nil
}

// transcriptionFailure maps the STT sentinels to polite spoken replies.
func (c *Controller) transcriptionFailure(ctx context.Context, log *logrus.Entry, err error) (*Outcome, error) {
	var msg string
	switch {
	case errors.Is(err, audio.ErrNotReady):
		msg = "Sorry Sir, file is not ready"
	case errors.Is(err, audio.ErrHeardNothing):
		msg = "Sorry Sir, I didn't listen anything"
	default:
		if m := services.GetMetrics(); m != nil {
			m.RecordTurnError("transcribe")
		}
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	log.WithFields(logrus.Fields{"stage": "transcribe"}).WithError(err).Info("nothing usable in clip")
	c.speak(ctx, log, msg)
	return &Outcome{Replies: []string{msg}}, nil
}

// speak plays text through the voice, holding the Speaking state so the
// watchdog leaves playback alone.
func (c *Controller) speak(ctx context.Context, log *logrus.Entry, text string) {
	if c.voice == nil || strings.TrimSpace(text) == "" {
		return
	}

	c.mu.Lock()
	prev := c.state
	c.state = StateSpeaking
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.state == StateSpeaking {
			c.state = prev
		}
		c.mu.Unlock()
	}()

	if err := c.voice.Speak(ctx, text); err != nil {
		log.WithFields(logrus.Fields{"stage": "speak"}).WithError(err).Warn("could not speak")
	}
}

// Announce speaks outside a recorded turn (session greeting, due
// reminders). It claims the pipeline as a pseudo-turn so recordings are
// rejected during playback; the watchdog never runs for announcements.
func (c *Controller) Announce(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.state != StateIdle {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: state %s", ErrBusy, state)
	}
	c.state = StateSpeaking
	c.turnID = uuid.New().String()
	id := c.turnID
	c.mu.Unlock()

	defer c.finishTurn(id)

	if _, err := c.chat.AppendMessage(models.RoleAssistant, text); err != nil {
		c.logger.WithError(err).Warn("failed to store announcement")
	}
	if c.voice != nil {
		if err := c.voice.Speak(ctx, text); err != nil {
			return fmt.Errorf("announcement speech failed: %w", err)
		}
	}
	return nil
}
