package audio

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Voice turns text into audible speech: Cartesia synthesis, then local
// playback through ffplay. With no speaker configured it degrades to a
// logged no-op so the pipeline still runs on machines without credentials.
type Voice struct {
	speaker *Speaker
	workDir string

	runCommand func(ctx context.Context, name string, args ...string) error
}

// NewVoice creates a voice that stages synthesized audio in workDir.
// speaker may be nil.
func NewVoice(speaker *Speaker, workDir string) *Voice {
	return &Voice{
		speaker:    speaker,
		workDir:    workDir,
		runCommand: runCommand,
	}
}

// Speak synthesizes and plays the text, blocking until playback ends.
func (v *Voice) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if v.speaker == nil {
		log.Printf("🔇 [VOICE] No speech provider configured, skipping: %q", text)
		return nil
	}

	mp3, err := v.speaker.Synthesize(text)
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	path := filepath.Join(v.workDir, fmt.Sprintf("speech_%d.mp3", time.Now().UnixNano()))
	if err := os.WriteFile(path, mp3, 0o644); err != nil {
		return fmt.Errorf("failed to stage audio: %w", err)
	}
	defer os.Remove(path)

	if err := v.runCommand(ctx, "ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", path); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}
