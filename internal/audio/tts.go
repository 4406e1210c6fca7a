// Package audio holds the speech adapters: whisper-based transcription and
// Cartesia text-to-speech.
package audio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
	"unicode/utf8"
)

// maxSpeechChars caps the text sent to the TTS provider per request.
const maxSpeechChars = 500

const (
	cartesiaURL     = "https://api.cartesia.ai/tts/bytes"
	cartesiaVersion = "2025-04-16"
	defaultVoiceID  = "32b3f3c5-7171-46aa-abe7-b598964aa793"
	ttsModel        = "sonic-2"
)

// Speaker synthesizes speech audio from text using the Cartesia API.
type Speaker struct {
	apiKey     string
	voiceID    string
	baseURL    string
	httpClient *http.Client
}

// NewSpeaker creates a Cartesia-backed speaker. An empty voiceID selects
// the default voice.
func NewSpeaker(apiKey, voiceID string) *Speaker {
	if voiceID == "" {
		voiceID = defaultVoiceID
	}
	return &Speaker{
		apiKey:  apiKey,
		voiceID: voiceID,
		baseURL: cartesiaURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Synthesize returns MP3 bytes for the given text, truncated to the
// provider limit. Provider failures come back as errors the caller must
// surface as a non-fatal "could not speak" condition.
func (s *Speaker) Synthesize(text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text")
	}
	if len(text) > maxSpeechChars {
		text = truncateRunes(text, maxSpeechChars)
	}

	payload := map[string]any{
		"model_id":   ttsModel,
		"transcript": text,
		"voice":      map[string]any{"mode": "id", "id": s.voiceID},
		"output_format": map[string]any{
			"container":   "mp3",
			"bit_rate":    128000,
			"sample_rate": 44100,
		},
		"language": "en",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TTS request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create TTS request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Cartesia-Version", cartesiaVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read TTS response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ [TTS] Cartesia error: %d - %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("TTS provider error: %d", resp.StatusCode)
	}

	return respBody, nil
}

// truncateRunes cuts text to at most max bytes without splitting a rune.
func truncateRunes(text string, max int) string {
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
