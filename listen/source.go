// Package listen produces task text for the agent, either from a wake-word
// gated speech transcriber or from lines typed at the console.
package listen

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// Source yields one task per call. It returns io.EOF when no more tasks
// will arrive and ctx.Err() when cancelled.
type Source interface {
	Next(ctx context.Context) (string, error)
}

// ConsoleSource reads one task per non-blank line.
type ConsoleSource struct {
	r     io.Reader
	once  sync.Once
	lines chan string
	err   error
}

func NewConsoleSource(r io.Reader) *ConsoleSource {
	return &ConsoleSource{r: r, lines: make(chan string)}
}

func (c *ConsoleSource) start() {
	go func() {
		defer close(c.lines)
		scanner := bufio.NewScanner(c.r)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			c.lines <- scanner.Text()
		}
		c.err = scanner.Err()
	}()
}

// ReadLine returns the next raw line, blank or not. Confirmation prompts
// share the console through it.
func (c *ConsoleSource) ReadLine(ctx context.Context) (string, error) {
	c.once.Do(c.start)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			if c.err != nil {
				return "", c.err
			}
			return "", io.EOF
		}
		return line, nil
	}
}

func (c *ConsoleSource) Next(ctx context.Context) (string, error) {
	for {
		line, err := c.ReadLine(ctx)
		if err != nil {
			return "", err
		}
		if task := strings.TrimSpace(line); task != "" {
			return task, nil
		}
	}
}
