package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"jarvis/storage"
	"jarvis/tools"
)

type quietAnnouncer struct{}

func (quietAnnouncer) Speak(string) {}

type noRuns struct{}

func (noRuns) Search(context.Context, string, int) ([]storage.Run, error) { return nil, nil }

func TestNewRegistry(t *testing.T) {
	extra := tools.Tool{
		Name: "notes__append",
		Func: func(context.Context, tools.Call) (string, error) { return "ok", nil },
	}
	registry, err := newRegistry(tools.NewFan("", nil), quietAnnouncer{}, noRuns{}, []tools.Tool{extra})
	if err != nil {
		t.Fatalf("newRegistry() error = %v", err)
	}

	for _, name := range []string{
		"set_fan_state", "web_search", "timer", "run_terminal_command",
		"read_file", "recall_history", "time_now", "notes__append",
	} {
		if _, ok := registry.Get(name); !ok {
			t.Errorf("registry is missing %s (have %v)", name, registry.Names())
		}
	}
}

func TestNewRegistryRejectsClash(t *testing.T) {
	clash := tools.Tool{
		Name: "web_search",
		Func: func(context.Context, tools.Call) (string, error) { return "", nil },
	}
	if _, err := newRegistry(tools.NewFan("", nil), quietAnnouncer{}, noRuns{}, []tools.Tool{clash}); err == nil {
		t.Error("expected a duplicate tool error")
	}
}

func TestFormatRunLine(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	run := storage.Run{
		ID:        "5f0c",
		Task:      "turn   on\nthe fan " + strings.Repeat("please ", 20),
		Status:    storage.StatusAnswered,
		StartedAt: now.Add(-2 * time.Hour),
	}
	got := formatRunLine(run, now)
	for _, want := range []string{"5f0c", "2 hours ago", "answered", "turn on the fan please", "..."} {
		if !strings.Contains(got, want) {
			t.Errorf("formatRunLine() = %q, want it to contain %q", got, want)
		}
	}
}
