package speech

import (
	"context"
	"sync"
	"time"
)

// Mock implements Synthesizer for tests. SpeakFunc defaults to returning nil
// immediately.
type Mock struct {
	SpeakFunc func(ctx context.Context, text string) error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records one Speak invocation.
type MockCall struct {
	Text string
	Time time.Time
}

func (m *Mock) Speak(ctx context.Context, text string) error {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Text: text, Time: time.Now()})
	m.mu.Unlock()

	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx, text)
	}
	return nil
}

func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// Texts returns the spoken texts in call order.
func (m *Mock) Texts() []string {
	calls := m.Calls()
	texts := make([]string, len(calls))
	for i, c := range calls {
		texts[i] = c.Text
	}
	return texts
}

var _ Synthesizer = (*Mock)(nil)
