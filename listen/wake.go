package listen

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
	"unicode"

	"jarvis/config"
)

const (
	DefaultWakeWord = "jarvis"
	errorBackoff    = 500 * time.Millisecond
)

// Transcriber returns the next recognized utterance. An empty string means
// the speaker fell silent.
type Transcriber interface {
	Transcribe(ctx context.Context) (string, error)
}

// WakeWordSource ignores utterances until one contains the wake word, then
// collects speech until the next silence and returns it as the task.
type WakeWordSource struct {
	t        Transcriber
	wakeWord string
}

func NewWakeWordSource(t Transcriber, wakeWord string) *WakeWordSource {
	wakeWord = strings.ToLower(strings.TrimSpace(wakeWord))
	if wakeWord == "" {
		wakeWord = DefaultWakeWord
	}
	return &WakeWordSource{t: t, wakeWord: wakeWord}
}

func (w *WakeWordSource) Next(ctx context.Context) (string, error) {
	var collected []string
	awake := false

	for {
		text, err := w.t.Transcribe(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				if len(collected) > 0 {
					return strings.Join(collected, " "), nil
				}
				return "", io.EOF
			}
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Listen] Transcriber error: %v", err)
			}
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(errorBackoff):
			}
			continue
		}

		text = strings.TrimSpace(text)
		if !awake {
			rest, found := StripWakeWord(text, w.wakeWord)
			if !found {
				continue
			}
			awake = true
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Listen] Wake word heard")
			}
			if rest != "" {
				collected = append(collected, rest)
			}
			continue
		}

		if text != "" {
			collected = append(collected, text)
			continue
		}

		// Silence after waking ends the task.
		if len(collected) > 0 {
			task := strings.Join(collected, " ")
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Listen] Captured task %q", task)
			}
			return task, nil
		}
		awake = false
	}
}

// StripWakeWord reports whether text contains wakeWord as a whole word
// (case-insensitive, ignoring surrounding punctuation) and returns the text
// with every occurrence removed.
func StripWakeWord(text, wakeWord string) (string, bool) {
	wakeWord = strings.ToLower(wakeWord)
	found := false
	var kept []string
	for _, word := range strings.Fields(text) {
		bare := strings.TrimFunc(word, func(r rune) bool {
			return unicode.IsPunct(r)
		})
		if strings.ToLower(bare) == wakeWord {
			found = true
			continue
		}
		kept = append(kept, word)
	}
	if !found {
		return "", false
	}
	return strings.Join(kept, " "), true
}
