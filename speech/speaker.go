package speech

import (
	"context"
	"strings"
	"sync"
	"time"

	"jarvis/config"
)

const (
	// MaxChars caps how much of a reply is read aloud.
	MaxChars     = 500
	DefaultGrace = 500 * time.Millisecond
)

type session struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Speaker keeps at most one utterance active. A new Speak cancels the
// current one and waits up to the grace period for it to wind down.
type Speaker struct {
	synth Synthesizer
	grace time.Duration

	mu      sync.Mutex
	current *session
}

func NewSpeaker(synth Synthesizer, grace time.Duration) *Speaker {
	if synth == nil {
		synth = Nop{}
	}
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Speaker{synth: synth, grace: grace}
}

// Speak starts reading text in the background and returns immediately.
func (s *Speaker) Speak(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	text = Truncate(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()

	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{cancel: cancel, done: make(chan struct{})}
	s.current = sess

	go s.run(ctx, sess, text)
}

func (s *Speaker) run(ctx context.Context, sess *session, text string) {
	defer close(sess.done)
	defer sess.cancel()
	defer func() {
		if r := recover(); r != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Speech] Synthesizer panicked: %v", r)
		}
	}()

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Speech] Speaking %d chars", len(text))
	}
	if err := s.synth.Speak(ctx, text); err != nil && ctx.Err() == nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Speech] Failed to speak: %v", err)
		}
	}
}

// Stop cancels the active utterance, if any.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// cancelLocked cancels the current session and waits up to the grace period
// for it to finish. A session that ignores cancellation is abandoned.
func (s *Speaker) cancelLocked() {
	sess := s.current
	if sess == nil {
		return
	}
	s.current = nil
	sess.cancel()

	select {
	case <-sess.done:
	case <-time.After(s.grace):
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Speech] Previous utterance still running after %s, abandoning it", s.grace)
		}
	}
}

// Wait blocks until the active utterance finishes or timeout passes. It
// reports whether the speaker is idle.
func (s *Speaker) Wait(timeout time.Duration) bool {
	s.mu.Lock()
	sess := s.current
	s.mu.Unlock()
	if sess == nil {
		return true
	}

	select {
	case <-sess.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Truncate shortens text to MaxChars runes, marking the cut with "...".
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxChars {
		return text
	}
	return string(runes[:MaxChars]) + "..."
}

