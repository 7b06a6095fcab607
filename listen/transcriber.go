package listen

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// LineTranscriber reads utterances from a line stream, one per line. Lines
// may be plain text or recognizer JSON such as {"text": "turn on the fan"}.
// A blank line or {"text": ""} is silence.
type LineTranscriber struct {
	r     io.Reader
	once  sync.Once
	lines chan string
	err   error
}

func NewLineTranscriber(r io.Reader) *LineTranscriber {
	return &LineTranscriber{r: r, lines: make(chan string)}
}

func (l *LineTranscriber) start() {
	go func() {
		defer close(l.lines)
		scanner := bufio.NewScanner(l.r)
		for scanner.Scan() {
			l.lines <- scanner.Text()
		}
		l.err = scanner.Err()
	}()
}

func (l *LineTranscriber) Transcribe(ctx context.Context) (string, error) {
	l.once.Do(l.start)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-l.lines:
		if !ok {
			if l.err != nil {
				return "", l.err
			}
			return "", io.EOF
		}
		return parseUtterance(line), nil
	}
}

type recognizerResult struct {
	Text    *string `json:"text"`
	Partial *string `json:"partial"`
}

func parseUtterance(line string) string {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "{") {
		return line
	}
	var res recognizerResult
	if err := json.Unmarshal([]byte(line), &res); err != nil {
		return line
	}
	if res.Text != nil {
		return strings.TrimSpace(*res.Text)
	}
	// Partial hypotheses are not utterances.
	return ""
}

// CommandTranscriber runs an external recognizer and reads its stdout.
type CommandTranscriber struct {
	*LineTranscriber
	cmd *exec.Cmd
}

func StartCommandTranscriber(ctx context.Context, command []string) (*CommandTranscriber, error) {
	if len(command) == 0 || command[0] == "" {
		return nil, fmt.Errorf("no transcriber command configured")
	}
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to attach transcriber output: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start transcriber %q: %w", command[0], err)
	}
	return &CommandTranscriber{LineTranscriber: NewLineTranscriber(stdout), cmd: cmd}, nil
}

func (c *CommandTranscriber) Close() error {
	if c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
	}
	return c.cmd.Wait()
}
