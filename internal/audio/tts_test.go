package audio

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateRunes(t *testing.T) {
	testCases := []struct {
		name string
		text string
		max  int
		want string
	}{
		{"ascii", "hello world", 5, "hello"},
		{"boundary at rune start", "héllo", 3, "hé"},
		{"cut inside multibyte rune", "ab☂cd", 4, "ab"},
		{"exact fit", "abc", 3, "abc"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := truncateRunes(tc.text, tc.max)
			if got != tc.want {
				t.Errorf("truncateRunes(%q, %d) = %q, want %q", tc.text, tc.max, got, tc.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncateRunes(%q, %d) produced invalid UTF-8", tc.text, tc.max)
			}
		})
	}
}

func TestSynthesizeCapsTranscriptOnRuneBoundary(t *testing.T) {
	var transcript string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Transcript string `json:"transcript"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		transcript = payload.Transcript
		w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	s := NewSpeaker("test-key", "")
	s.baseURL = server.URL

	// A three-byte rune straddles the byte cap
	text := strings.Repeat("a", maxSpeechChars-1) + "☂ and more"
	if _, err := s.Synthesize(text); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if len(transcript) > maxSpeechChars {
		t.Errorf("Transcript is %d bytes, cap is %d", len(transcript), maxSpeechChars)
	}
	if !utf8.ValidString(transcript) {
		t.Error("Transcript contains a split rune")
	}
	if want := strings.Repeat("a", maxSpeechChars-1); transcript != want {
		t.Errorf("Expected truncation before the straddling rune, got %d bytes", len(transcript))
	}
}
