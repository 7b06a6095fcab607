package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"jarvis/action"
	"jarvis/listen"
	"jarvis/tools"
)

func TestIsAffirmative(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y", true},
		{"Y\n", true},
		{" yes ", true},
		{"n", false},
		{"", false},
		{"sure", false},
		{"yy", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := IsAffirmative(tt.in); got != tt.want {
				t.Errorf("IsAffirmative(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLineConfirmer(t *testing.T) {
	src := listen.NewConsoleSource(strings.NewReader("y\nno\n"))
	var out bytes.Buffer
	c := NewLineConfirmer(src, &out)
	ctx := context.Background()

	if ok, err := c.Confirm(ctx, "continue?"); !ok || err != nil {
		t.Errorf("first Confirm() = %v, %v", ok, err)
	}
	if ok, err := c.Confirm(ctx, "continue?"); ok || err != nil {
		t.Errorf("second Confirm() = %v, %v", ok, err)
	}
	if ok, err := c.Confirm(ctx, "continue?"); ok || err == nil {
		t.Errorf("Confirm() at EOF = %v, %v, want an error", ok, err)
	}
	if !strings.Contains(stripANSI(out.String()), "continue? (Y/N)") {
		t.Errorf("prompt output = %q", out.String())
	}
}

func TestConfirmModelKeys(t *testing.T) {
	tests := []struct {
		key      tea.KeyMsg
		accepted bool
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Y")}, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, false},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			next, cmd := confirmModel{}.Update(tt.key)
			m := next.(confirmModel)
			if !m.answered || m.accepted != tt.accepted || cmd == nil {
				t.Errorf("after %q: answered=%v accepted=%v", tt.key.String(), m.answered, m.accepted)
			}
		})
	}

	next, _ := confirmModel{}.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if next.(confirmModel).answered {
		t.Error("unrelated key answered the modal")
	}
}

func TestRenderConfirmationModal(t *testing.T) {
	out := stripANSI(RenderConfirmationModal(ConfirmationState{
		Title:   "Agent is running a potentially harmful command, continue?",
		Message: `run_terminal_command("rm -rf build")`,
	}, 0, 0))
	for _, want := range []string{"potentially harmful", `run_terminal_command("rm -rf build")`, "y Yes", "n No"} {
		if !strings.Contains(out, want) {
			t.Errorf("modal missing %q:\n%s", want, out)
		}
	}
}

func TestPrinter(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	defer func() { writeClipboard = orig }()

	var out bytes.Buffer
	p := NewPrinter(&out, PrinterOptions{Width: 40, CopyAnswer: true})

	act, err := action.Parse(`run_terminal_command("ls")`)
	if err != nil {
		t.Fatal(err)
	}
	p.Action(act, true)
	p.Observation(tools.ErrorPrefix+"boom", tools.Failed)
	p.Observation("secret output", tools.Executed)
	p.Observation(tools.CanceledMessage, tools.Denied)
	p.Feedback(strings.Repeat("x", 100))
	p.FinalAnswer("The fan is on.")
	p.Error(errors.New("model call failed"))

	got := stripANSI(out.String())
	for _, want := range []string{
		"Action: run_terminal_command(ls) [needs confirmation]",
		"Observation: executed with error",
		"Tool executed with error: boom",
		"Observation: executed successfully",
		"Operation canceled by user.",
		"...",
		"Jarvis: The fan is on.",
		"Error: model call failed",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "secret output") {
		t.Error("successful observation printed without ShowObservations")
	}
	if copied != "The fan is on." {
		t.Errorf("clipboard = %q", copied)
	}
}

func TestClip(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, PrinterOptions{Width: 12})
	got := stripANSI(p.clip("1\n2\n3\n4\n5\n6\n7\n8\nthis line is far too long"))
	if !strings.Contains(got, "... 3 more lines") {
		t.Errorf("clip() = %q", got)
	}
	if strings.Contains(got, "7") {
		t.Errorf("clip() kept too many lines: %q", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	got := stripANSI(RenderMarkdown("Read [the docs](https://go.dev/doc/) and **relax**.", 60))
	if !strings.Contains(got, "https://go.dev/doc/") || strings.Contains(got, "[the docs]") {
		t.Errorf("RenderMarkdown() = %q", got)
	}
	if !strings.Contains(got, "relax") {
		t.Errorf("RenderMarkdown() lost text: %q", got)
	}
}

func TestPromptModel(t *testing.T) {
	m := newPromptModel()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if next.(promptModel).submitted {
		t.Error("empty input submitted")
	}

	for _, r := range "fan on" {
		next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pm := next.(promptModel)
	if !pm.submitted || pm.input.Value() != "fan on" || cmd == nil {
		t.Errorf("submitted=%v value=%q", pm.submitted, pm.input.Value())
	}
}
