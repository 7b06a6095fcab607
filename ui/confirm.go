package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// LineReader yields console lines; listen.ConsoleSource is one.
type LineReader interface {
	ReadLine(ctx context.Context) (string, error)
}

// LineConfirmer asks on a plain line-oriented terminal. Anything but y or
// yes is a denial.
type LineConfirmer struct {
	in  LineReader
	out io.Writer
}

func NewLineConfirmer(in LineReader, out io.Writer) *LineConfirmer {
	return &LineConfirmer{in: in, out: out}
}

func (c *LineConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	fmt.Fprintf(c.out, "\n%s (Y/N) ", RiskStyle.Render(prompt))
	line, err := c.in.ReadLine(ctx)
	if err != nil {
		return false, err
	}
	return IsAffirmative(line), nil
}

func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
