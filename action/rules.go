package action

import (
	"regexp"
	"strings"
)

// Rule is a pure text-to-text repair applied before the grammar parse.
// Every rule leaves already well-formed input unchanged.
type Rule struct {
	Name  string
	Apply func(string) string
}

// Rules are the repairs Rewrite applies, in order.
var Rules = []Rule{
	{Name: "quote_dot", Apply: QuoteDot},
	{Name: "quote_barewords", Apply: QuoteBarewords},
	{Name: "normalize_slashes", Apply: NormalizeSlashes},
}

// Rewrite runs every rule in Rules over text.
func Rewrite(text string) string {
	for _, r := range Rules {
		text = r.Apply(text)
	}
	return text
}

var (
	fenceOpen  = regexp.MustCompile("^```(?:\\w+)?\n")
	fenceClose = regexp.MustCompile("\n```$")

	signatureRE = regexp.MustCompile(`^\s*\w+\s*\([^)]*\)\s*->\s*[\w\[\], .]+$`)

	dotValueRE  = regexp.MustCompile(`=\s*\.($|[,)])`)
	barewordRE  = regexp.MustCompile(`=\s*([A-Za-z0-9_.\-/\\]+)($|[,)])`)
	numberRE    = regexp.MustCompile(`^-?(\d[\d_]*(\.\d*)?|\.\d+)([eE][-+]?\d+)?$`)
	prefixedRE  = regexp.MustCompile(`^-?0([xX][0-9a-fA-F_]+|[oO][0-7_]+|[bB][01_]+)$`)
	pyConstants = map[string]bool{"True": true, "False": true, "None": true}
)

// StripFence removes a surrounding Markdown code fence such as ```python ... ```.
func StripFence(text string) string {
	text = fenceOpen.ReplaceAllString(text, "")
	return fenceClose.ReplaceAllString(text, "")
}

// LooksLikeSignature reports whether text is a function signature such as
// "read_file(path: str) -> str" rather than a call.
func LooksLikeSignature(text string) bool {
	return signatureRE.MatchString(text)
}

// QuoteDot turns a bare "." value into ".": list_files(path=.) → list_files(path=".").
// Text inside string literals is left alone.
func QuoteDot(text string) string {
	matches := dotValueRE.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	spans := quotedSpans(text)
	var b strings.Builder
	last := 0
	for _, m := range matches {
		if inSpan(spans, m[0]) {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(`="."`)
		b.WriteString(text[m[2]:m[3]])
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// QuoteBarewords wraps unquoted word or path values after "=" in double
// quotes. Numbers and True/False/None are left alone so they keep their type,
// and so is anything inside a string literal.
func QuoteBarewords(text string) string {
	matches := barewordRE.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	spans := quotedSpans(text)
	var b strings.Builder
	last := 0
	for _, m := range matches {
		tokStart, tokEnd := m[2], m[3]
		tok := text[tokStart:tokEnd]
		if inSpan(spans, m[0]) || isNumberToken(tok) || pyConstants[tok] {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(`="`)
		b.WriteString(tok)
		b.WriteString(`"`)
		b.WriteString(text[m[4]:m[5]])
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func isNumberToken(tok string) bool {
	return numberRE.MatchString(tok) || prefixedRE.MatchString(tok)
}

// NormalizeSlashes rewrites backslashes to forward slashes inside quoted
// strings on a single line, unless the string holds an escape the model most
// likely meant (\n, \r, \t, \' or \"). A doubled backslash counts as one.
func NormalizeSlashes(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	i := 0
	for i < len(text) {
		q := text[i]
		if q != '"' && q != '\'' {
			b.WriteByte(q)
			i++
			continue
		}

		end := closingQuote(text, i)
		if end < 0 {
			b.WriteByte(q)
			i++
			continue
		}

		b.WriteByte(q)
		b.WriteString(fixPath(text[i+1 : end]))
		b.WriteByte(q)
		i = end + 1
	}
	return b.String()
}

// quotedSpans returns the [open, close] byte offsets of every complete
// string literal in text, scanning left to right like NormalizeSlashes.
func quotedSpans(text string) [][2]int {
	var spans [][2]int
	for i := 0; i < len(text); i++ {
		if text[i] != '"' && text[i] != '\'' {
			continue
		}
		if end := closingQuote(text, i); end >= 0 {
			spans = append(spans, [2]int{i, end})
			i = end
		}
	}
	return spans
}

func inSpan(spans [][2]int, pos int) bool {
	for _, s := range spans {
		if pos > s[0] && pos < s[1] {
			return true
		}
	}
	return false
}

// closingQuote finds the first unescaped quote matching text[open] on the
// same line, or -1.
func closingQuote(text string, open int) int {
	q := text[open]
	for j := open + 1; j < len(text); j++ {
		switch text[j] {
		case '\n':
			return -1
		case q:
			if text[j-1] != '\\' {
				return j
			}
		}
	}
	return -1
}

var keptEscapes = []string{`\n`, `\r`, `\t`, `\'`, `\"`}

func fixPath(inner string) string {
	if !strings.Contains(inner, `\`) {
		return inner
	}
	for _, seq := range keptEscapes {
		if strings.Contains(inner, seq) {
			return inner
		}
	}
	inner = strings.ReplaceAll(inner, `\\`, `\`)
	return strings.ReplaceAll(inner, `\`, "/")
}
