package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-runewidth"

	"jarvis/action"
	"jarvis/config"
	"jarvis/tools"
)

var writeClipboard = clipboard.WriteAll

type PrinterOptions struct {
	// Width wraps rendered answers and cuts long observation lines.
	Width int
	// Markdown renders final answers as terminal markdown.
	Markdown bool
	// CopyAnswer puts every final answer on the clipboard.
	CopyAnswer bool
	// ShowObservations prints tool output, not only its outcome.
	ShowObservations bool
}

// Printer writes the operator log of a run. It implements agent.Observer.
type Printer struct {
	out  io.Writer
	opts PrinterOptions
	mu   sync.Mutex
}

func NewPrinter(out io.Writer, opts PrinterOptions) *Printer {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	return &Printer{out: out, opts: opts}
}

func (p *Printer) println(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, s)
}

func (p *Printer) Task(task string) {
	p.println("\n" + TaskStyle.Render("Task: ") + task)
}

func (p *Printer) Requesting() {
	p.println(DimStyle.Render("Requesting model, please wait..."))
}

func (p *Printer) Action(act *action.Action, highRisk bool) {
	line := ActionStyle.Render("Action: ") + act.String()
	if highRisk {
		line += " " + RiskStyle.Render("[needs confirmation]")
	}
	p.println(line)
}

func (p *Printer) Observation(text string, outcome tools.Outcome) {
	var status string
	switch outcome {
	case tools.Executed:
		status = "executed successfully"
	case tools.Denied:
		p.println(ErrorStyle.Render("Operation canceled by user."))
		return
	default:
		status = ErrorStyle.Render("executed with error")
	}
	p.println(DimStyle.Render("Observation: ") + status)
	if p.opts.ShowObservations || outcome != tools.Executed {
		p.println(p.clip(text))
	}
}

func (p *Printer) Feedback(text string) {
	p.println(DimStyle.Render("Observation: ") + p.clip(text))
}

func (p *Printer) FinalAnswer(answer string) {
	body := strings.TrimSpace(answer)
	if p.opts.Markdown {
		body = RenderMarkdown(body, p.opts.Width)
	}
	p.println("\n" + AnswerStyle.Bold(true).Render("Jarvis: ") + body)

	if p.opts.CopyAnswer {
		if err := writeClipboard(answer); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Failed to copy answer: %v", err)
		}
	}
}

func (p *Printer) Error(err error) {
	p.println(ErrorStyle.Render("Error: ") + err.Error())
}

func (p *Printer) Info(msg string) {
	p.println(DimStyle.Render(msg))
}

// clip keeps the first few lines of text and cuts each to the display width.
func (p *Printer) clip(text string) string {
	const maxLines = 6
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	more := 0
	if len(lines) > maxLines {
		more = len(lines) - maxLines
		lines = lines[:maxLines]
	}
	for i, line := range lines {
		lines[i] = "  " + runewidth.Truncate(line, p.opts.Width-2, "...")
	}
	if more > 0 {
		lines = append(lines, DimStyle.Render(fmt.Sprintf("  ... %d more lines", more)))
	}
	return strings.Join(lines, "\n")
}
