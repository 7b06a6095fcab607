package listen

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

type scriptedTranscriber struct {
	utterances []string
	errs       map[int]error
	calls      int
}

func (s *scriptedTranscriber) Transcribe(ctx context.Context) (string, error) {
	i := s.calls
	s.calls++
	if err, ok := s.errs[i]; ok {
		return "", err
	}
	if i >= len(s.utterances) {
		return "", io.EOF
	}
	return s.utterances[i], nil
}

func TestStripWakeWord(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		want      string
		wantFound bool
	}{
		{"leading", "jarvis turn on the fan", "turn on the fan", true},
		{"capitalized with comma", "Jarvis, what time is it", "what time is it", true},
		{"alone", "JARVIS", "", true},
		{"inside another word", "jarvisville is nice", "", false},
		{"absent", "turn on the fan", "", false},
		{"repeated", "jarvis jarvis stop", "stop", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := StripWakeWord(tt.text, "jarvis")
			if got != tt.want || found != tt.wantFound {
				t.Errorf("StripWakeWord(%q) = %q, %v, want %q, %v", tt.text, got, found, tt.want, tt.wantFound)
			}
		})
	}
}

func TestWakeWordSource(t *testing.T) {
	tests := []struct {
		name       string
		utterances []string
		want       string
		wantErr    error
	}{
		{
			name:       "task in wake utterance",
			utterances: []string{"jarvis turn on the fan", ""},
			want:       "turn on the fan",
		},
		{
			name:       "ignores chatter before waking",
			utterances: []string{"what a day", "", "jarvis", "set a timer", "for five minutes", ""},
			want:       "set a timer for five minutes",
		},
		{
			name:       "wake word alone then silence goes back to sleep",
			utterances: []string{"jarvis", "", "the oven is hot", "jarvis lower the fan", ""},
			want:       "lower the fan",
		},
		{
			name:       "end of stream flushes collected speech",
			utterances: []string{"jarvis read the notes"},
			want:       "read the notes",
		},
		{
			name:       "end of stream",
			utterances: []string{"nothing to see"},
			wantErr:    io.EOF,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewWakeWordSource(&scriptedTranscriber{utterances: tt.utterances}, "")
			got, err := src.Next(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Next() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Next() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWakeWordSourceSwallowsErrors(t *testing.T) {
	tr := &scriptedTranscriber{
		utterances: []string{"", "jarvis what time is it", ""},
		errs:       map[int]error{0: errors.New("microphone unplugged")},
	}
	got, err := NewWakeWordSource(tr, "Jarvis").Next(context.Background())
	if err != nil || got != "what time is it" {
		t.Errorf("Next() = %q, %v", got, err)
	}
}

func TestWakeWordSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tr := &scriptedTranscriber{errs: map[int]error{0: context.Canceled}}
	if _, err := NewWakeWordSource(tr, "").Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Next() error = %v, want context.Canceled", err)
	}
}

func TestConsoleSource(t *testing.T) {
	src := NewConsoleSource(strings.NewReader("turn on the fan\n\n   \nwhat time is it\n"))
	ctx := context.Background()

	for _, want := range []string{"turn on the fan", "what time is it"} {
		got, err := src.Next(ctx)
		if err != nil || got != want {
			t.Fatalf("Next() = %q, %v, want %q", got, err, want)
		}
	}
	if _, err := src.Next(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}

func TestConsoleSourceCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	src := NewConsoleSource(r)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := src.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Next() error = %v, want deadline exceeded", err)
	}
}

func TestLineTranscriber(t *testing.T) {
	input := strings.Join([]string{
		`{"partial": "jar"}`,
		`{"text": "jarvis turn on the fan"}`,
		`{"text": ""}`,
		`plain words`,
		``,
	}, "\n") + "\n"
	tr := NewLineTranscriber(strings.NewReader(input))
	ctx := context.Background()

	want := []string{"", "jarvis turn on the fan", "", "plain words", ""}
	for i, w := range want {
		got, err := tr.Transcribe(ctx)
		if err != nil || got != w {
			t.Fatalf("utterance %d = %q, %v, want %q", i, got, err, w)
		}
	}
	if _, err := tr.Transcribe(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("Transcribe() error = %v, want io.EOF", err)
	}
}
