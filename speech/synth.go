package speech

import "context"

// Synthesizer turns text into audible speech. Speak blocks until playback
// ends and must return promptly once ctx is cancelled.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}

// Nop is used when speech is disabled.
type Nop struct{}

func (Nop) Speak(context.Context, string) error { return nil }
