package ui

import (
	"regexp"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
	ansiRegex       = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

// RenderMarkdown renders an answer for the terminal. Links are reduced to
// their plain URL so terminals can detect them.
func RenderMarkdown(content string, width int) string {
	if width < 20 {
		width = 20
	}
	content = mdLinkRegex.ReplaceAllString(content, "$2")

	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width-4, 0)
	rendered := string(gomarkdown.Render(p.Parse([]byte(content)), r))

	rendered = fixInlineCode(rendered)
	rendered = colorURLs(rendered)
	return strings.TrimRight(rendered, "\n")
}

// fixInlineCode swaps the renderer's blue-background inline code for red text.
func fixInlineCode(s string) string {
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func colorURLs(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		// Code block lines carry a ┃ gutter.
		if !strings.Contains(line, "┃") {
			lines[i] = urlRegex.ReplaceAllString(line, "\x1b[31m$1\x1b[0m")
		}
	}
	return strings.Join(lines, "\n")
}

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
