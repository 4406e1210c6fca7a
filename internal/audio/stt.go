package audio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Sentinel results of a transcription attempt. Both map to polite spoken
// responses upstream, never to raw errors.
var (
	// ErrNotReady means the transcript artifact never materialized within
	// the retry budget.
	ErrNotReady = errors.New("transcript not ready")
	// ErrHeardNothing means the artifact exists but contains no speech.
	ErrHeardNothing = errors.New("heard nothing")
)

const (
	artifactRetries = 5
	artifactDelay   = 300 * time.Millisecond
)

// Transcriber converts captured audio clips to text by driving the local
// whisper CLI. The model writes its transcript to a file whose name varies
// between tool versions, so the result is located by trying a fixed list
// of candidate paths in order.
type Transcriber struct {
	workDir string
	model   string

	// runCommand is swapped out in tests.
	runCommand func(ctx context.Context, name string, args ...string) error
}

// NewTranscriber creates a transcriber that stages clips and artifacts in
// workDir.
func NewTranscriber(workDir, model string) *Transcriber {
	if model == "" {
		model = "medium"
	}
	return &Transcriber{
		workDir:    workDir,
		model:      model,
		runCommand: runCommand,
	}
}

// Transcribe converts the clip to 16 kHz mono WAV, runs whisper over it,
// and polls for the transcript artifact. Temporary files are deleted
// unconditionally once read, whether or not downstream processing
// succeeds; deletion is best-effort.
func (t *Transcriber) Transcribe(ctx context.Context, clipPath string) (string, error) {
	wavPath := strings.TrimSuffix(clipPath, filepath.Ext(clipPath)) + ".wav"

	defer t.cleanup(clipPath, wavPath)

	log.Printf("🎵 [STT] Converting %s to 16kHz mono WAV", filepath.Base(clipPath))
	if err := t.runCommand(ctx, "ffmpeg", "-i", clipPath, "-ar", "16000", "-ac", "1", "-c:a", "pcm_s16le", wavPath); err != nil {
		return "", fmt.Errorf("audio conversion failed: %w", err)
	}

	log.Printf("📝 [STT] Running whisper (model: %s)", t.model)
	if err := t.runCommand(ctx, "whisper", wavPath, "--model", t.model, "--output_dir", t.workDir, "--output_format", "txt"); err != nil {
		return "", fmt.Errorf("whisper failed: %w", err)
	}

	artifactPath, err := t.awaitArtifact(ctx, wavPath)
	if err != nil {
		return "", err
	}
	defer t.cleanup(artifactPath)

	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return "", fmt.Errorf("failed to read transcript: %w", err)
	}

	transcript := strings.TrimSpace(string(data))
	if transcript == "" {
		return "", ErrHeardNothing
	}

	log.Printf("✅ [STT] Transcribed %d chars", len(transcript))
	return transcript, nil
}

// artifactCandidates enumerates the possible transcript locations in the
// fixed order they are tried. Whisper names its output either
// "<name>.wav.txt" or "<name>.txt" depending on version.
func (t *Transcriber) artifactCandidates(wavPath string) []string {
	base := filepath.Base(wavPath)
	return []string{
		filepath.Join(t.workDir, base+".txt"),
		filepath.Join(t.workDir, strings.TrimSuffix(base, ".wav")+".txt"),
	}
}

// awaitArtifact polls each candidate location with bounded retry and a
// fixed delay between attempts.
func (t *Transcriber) awaitArtifact(ctx context.Context, wavPath string) (string, error) {
	for _, candidate := range t.artifactCandidates(wavPath) {
		for attempt := 0; attempt < artifactRetries; attempt++ {
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(artifactDelay):
			}
		}
	}
	return "", ErrNotReady
}

// cleanup removes temp files; a missing file is not an error.
func (t *Transcriber) cleanup(paths ...string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Printf("⚠️ [STT] Could not remove %s: %v", p, err)
		}
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Run()
}
