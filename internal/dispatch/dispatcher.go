package dispatch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"mira/internal/intent"
	"mira/internal/launcher"
	"mira/internal/models"
	"mira/internal/services"
)

// shortcuts maps well-known site names straight to their URL, skipping the
// search round trip.
var shortcuts = map[string]string{
	"youtube":  "https://www.youtube.com",
	"google":   "https://www.google.com",
	"chrome":   "https://www.google.com",
	"gmail":    "https://mail.google.com",
	"amazon":   "https://www.amazon.in",
	"flipkart": "https://www.flipkart.com",
	"twitter":  "https://x.com",
	"github":   "https://github.com",
}

// Navigator opens a URL in the user's environment. The desktop shell
// provides the real one; tests inject a recorder.
type Navigator interface {
	OpenURL(url string) error
}

// Searcher returns the top result link for a query, or empty.
type Searcher interface {
	TopResult(ctx context.Context, query string) string
}

// Launcher starts a native application by spoken name.
type Launcher interface {
	Launch(name string) launcher.Result
}

// Result is one step of a turn's response. Utterance is spoken (and logged
// as an assistant message) first; OnSpoken then runs the side effect and may
// return a follow-up step.
type Result struct {
	Utterance string
	OnSpoken  func(ctx context.Context) (*Result, error)
}

// Dispatcher routes a parsed intent to its handler.
type Dispatcher struct {
	search    Searcher
	launcher  Launcher
	nav       Navigator
	responder *Responder

	mu      sync.Mutex
	greeted bool
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(search Searcher, launch Launcher, nav Navigator, responder *Responder) *Dispatcher {
	return &Dispatcher{
		search:    search,
		launcher:  launch,
		nav:       nav,
		responder: responder,
	}
}

// Dispatch executes the intent carried by rec. A nil rec falls back to
// conversation when the wake word is present. A nil result with nil error
// means the turn ends silently (not addressed to the assistant).
func (d *Dispatcher) Dispatch(ctx context.Context, rec *models.IntentRecord, transcript string, mood models.Mood) (*Result, error) {
	if rec == nil {
		if !intent.ContainsWakeWord(transcript) {
			return nil, nil
		}
		return d.responder.Respond(ctx, transcript, mood)
	}

	target := strings.ToLower(strings.TrimSpace(rec.Target))
	query := strings.TrimSpace(rec.Query)

	// The model sometimes misses the wake word; check the raw transcript too
	if !rec.Wake && !intent.ContainsWakeWord(transcript) {
		return nil, nil
	}

	if m := services.GetMetrics(); m != nil {
		m.RecordDispatch(rec.Intent)
	}

	switch rec.Intent {
	case models.IntentGreet:
		return d.greet(), nil

	case models.IntentIntroduce:
		return &Result{
			Utterance: "Hello, my name is Mira. I am an AI assistant created by Aditya. I’m here to help you with your tasks — whether that’s running applications on your PC, opening websites, playing songs or videos, or simply being your chat partner. You can talk to me about anything — from solving problems to just having a friendly conversation.",
		}, nil

	case models.IntentSearch:
		return d.searchWeb(target, query), nil

	case models.IntentPlay:
		return d.play(query), nil

	case models.IntentOpen:
		return d.open(target, query), nil

	case models.IntentMoodBoost:
		return d.moodBoost(target, query), nil

	case models.IntentOpenSoftware:
		return d.openSoftware(target, query), nil

	case models.IntentChat, models.IntentUnknown:
		input := transcript
		if input == "" {
			input = query
		}
		return d.responder.Respond(ctx, input, mood)

	default:
		return &Result{Utterance: "Sorry, I didn’t understand that."}, nil
	}
}

// greet introduces once per session; later greets fall through to the
// generic reply, matching the single self-introduction behavior.
func (d *Dispatcher) greet() *Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.greeted {
		return &Result{Utterance: "Sorry, I didn’t understand that."}
	}
	d.greeted = true
	return &Result{Utterance: "Hello sir, I’m listening!"}
}

func (d *Dispatcher) searchWeb(target, query string) *Result {
	return &Result{
		Utterance: fmt.Sprintf("Searching %s", query),
		OnSpoken: func(ctx context.Context) (*Result, error) {
			if target == "youtube" {
				return nil, d.nav.OpenURL(youtubeResultsURL(query))
			}
			if link := d.search.TopResult(ctx, query); link != "" {
				return nil, d.nav.OpenURL(link)
			}
			return nil, d.nav.OpenURL(googleSearchURL(query))
		},
	}
}

func (d *Dispatcher) play(query string) *Result {
	return &Result{
		Utterance: fmt.Sprintf("Playing %s on YouTube", query),
		OnSpoken: func(ctx context.Context) (*Result, error) {
			// Best guess at a direct watch link, else the results page
			if link := d.search.TopResult(ctx, "site:youtube.com "+query); link != "" {
				return nil, d.nav.OpenURL(link)
			}
			return nil, d.nav.OpenURL(youtubeResultsURL(query))
		},
	}
}

func (d *Dispatcher) open(target, query string) *Result {
	label := query
	if label == "" {
		label = target
	}
	return &Result{
		Utterance: fmt.Sprintf("Opening %s", label),
		OnSpoken: func(ctx context.Context) (*Result, error) {
			if target != "" {
				if dest, ok := shortcuts[target]; ok {
					return nil, d.nav.OpenURL(dest)
				}
			}
			term := query
			if term == "" {
				term = target
			}
			if link := d.search.TopResult(ctx, term); link != "" {
				return nil, d.nav.OpenURL(link)
			}
			return nil, d.nav.OpenURL(googleSearchURL(term))
		},
	}
}

func (d *Dispatcher) moodBoost(target, query string) *Result {
	mood := target
	if mood == "" {
		mood = query
	}
	if mood == "" {
		mood = "happy"
	}

	return &Result{
		Utterance: fmt.Sprintf("Sure Sir, I’ll try to help you feel %s. Let’s play something for you.", mood),
		OnSpoken: func(ctx context.Context) (*Result, error) {
			var ytQuery string
			switch mood {
			case "happy":
				ytQuery = "happy upbeat music playlist"
			case "sad":
				ytQuery = "uplifting songs for when you're sad"
			case "angry":
				ytQuery = "calming relaxing music for anger"
			case "stressed":
				ytQuery = "meditation relaxing music stress relief"
			case "chill", "relax":
				ytQuery = "lofi chill relax beats playlist"
			default:
				ytQuery = mood + " music playlist"
			}

			if err := d.nav.OpenURL(youtubeResultsURL(ytQuery)); err != nil {
				return nil, err
			}

			// A helpful tip link as a side option
			tips := d.search.TopResult(ctx, "quick tips to feel "+mood)
			if tips == "" {
				tips = d.search.TopResult(ctx, "how to feel "+mood)
			}
			if tips != "" {
				return nil, d.nav.OpenURL(tips)
			}
			return nil, nil
		},
	}
}

func (d *Dispatcher) openSoftware(target, query string) *Result {
	name := target
	if name == "" {
		name = query
	}

	return &Result{
		Utterance: fmt.Sprintf("Attempting to open %s...", name),
		OnSpoken: func(ctx context.Context) (*Result, error) {
			res := d.launcher.Launch(name)
			if res.Success {
				return &Result{Utterance: fmt.Sprintf("Opened %s.", name)}, nil
			}

			return &Result{
				Utterance: fmt.Sprintf("Could not open %s. Searching Google instead.", name),
				OnSpoken: func(ctx context.Context) (*Result, error) {
					if link := d.search.TopResult(ctx, name); link != "" {
						return nil, d.nav.OpenURL(link)
					}
					return nil, d.nav.OpenURL(googleSearchURL(name))
				},
			}, nil
		},
	}
}

func youtubeResultsURL(query string) string {
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
}

func googleSearchURL(query string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(query)
}
