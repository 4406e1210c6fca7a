package intent

import (
	"context"
	"errors"
	"testing"
)

type fakeGenerator struct {
	response string
	err      error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f.response, f.err
}

func TestParseExtractsJSONObject(t *testing.T) {
	gen := &fakeGenerator{response: "Sure, here is the JSON:\n{\"wake\": true, \"intent\": \"open\", \"target\": \"youtube\", \"query\": null, \"corrected_transcript\": \"hey mira open YouTube\"}\nDone."}
	p := NewParser(gen)

	rec, err := p.Parse(context.Background(), "hey mira open yutu")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a record")
	}
	if !rec.Wake || rec.Intent != "open" || rec.Target != "youtube" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.CorrectedTranscript != "hey mira open YouTube" {
		t.Errorf("corrected transcript = %q", rec.CorrectedTranscript)
	}
}

func TestParseMalformedOutputIsNotFatal(t *testing.T) {
	testCases := []struct {
		name     string
		response string
	}{
		{"no brackets", "I could not parse that."},
		{"only opening bracket", "{\"wake\": true"},
		{"invalid json", "{wake: yes}"},
		{"closing before opening", "} nothing {"},
		{"empty", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewParser(&fakeGenerator{response: tc.response})
			rec, err := p.Parse(context.Background(), "anything")
			if err != nil {
				t.Fatalf("Parse must not fail on malformed output, got %v", err)
			}
			if rec != nil {
				t.Errorf("expected nil record, got %+v", rec)
			}
		})
	}
}

func TestParseModelErrorIsRecoverable(t *testing.T) {
	p := NewParser(&fakeGenerator{err: errors.New("quota exceeded")})
	rec, err := p.Parse(context.Background(), "hello mira")
	if err != nil {
		t.Fatalf("model errors must be swallowed, got %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil record, got %+v", rec)
	}
}

func TestContainsWakeWord(t *testing.T) {
	testCases := []struct {
		transcript string
		want       bool
	}{
		{"hey Mira what's up", true},
		{"MEERA open youtube", true},
		{"hello sweetheart", true},
		{"what's the weather today", false},
		{"", false},
	}
	for _, tc := range testCases {
		if got := ContainsWakeWord(tc.transcript); got != tc.want {
			t.Errorf("ContainsWakeWord(%q) = %v, want %v", tc.transcript, got, tc.want)
		}
	}
}
