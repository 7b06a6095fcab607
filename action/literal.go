package action

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// decodeString decodes one Python string literal, prefix and quotes included.
// ok is false for f-strings and bytes, which are passed on as source text.
func decodeString(lit string) (s string, ok bool) {
	i := 0
	for i < len(lit) && lit[i] != '"' && lit[i] != '\'' {
		i++
	}
	prefix := strings.ToLower(lit[:i])
	body := lit[i:]
	if strings.ContainsAny(prefix, "fb") {
		return "", false
	}

	var quote string
	switch {
	case strings.HasPrefix(body, `"""`) || strings.HasPrefix(body, `'''`):
		quote = body[:3]
	case len(body) >= 2:
		quote = body[:1]
	default:
		return "", false
	}
	if len(body) < 2*len(quote) || !strings.HasSuffix(body, quote) {
		return "", false
	}
	inner := body[len(quote) : len(body)-len(quote)]

	if strings.Contains(prefix, "r") {
		return inner, true
	}
	return unescape(inner), true
}

// unescape applies Python's escape rules. Unknown escapes keep their backslash.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}

		i++
		switch e := s[i]; e {
		case '\n':
			// line continuation
		case '\\', '\'', '"':
			b.WriteByte(e)
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			n, _ := strconv.ParseUint(s[i:j], 8, 32)
			b.WriteRune(rune(n))
			i = j - 1
		case 'x', 'u', 'U':
			width := 2
			if e == 'u' {
				width = 4
			} else if e == 'U' {
				width = 8
			}
			if i+width < len(s) {
				if n, err := strconv.ParseUint(s[i+1:i+1+width], 16, 32); err == nil && utf8.ValidRune(rune(n)) {
					b.WriteRune(rune(n))
					i += width
					continue
				}
			}
			b.WriteByte('\\')
			b.WriteByte(e)
		default:
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}
	return b.String()
}

// decodeInt parses a Python integer literal (underscores, 0x/0o/0b prefixes).
func decodeInt(text string) (int64, bool) {
	clean := strings.ReplaceAll(text, "_", "")
	base := 10
	if len(clean) > 2 && clean[0] == '0' {
		switch clean[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			clean = clean[2:]
		}
	}
	n, err := strconv.ParseInt(clean, base, 64)
	return n, err == nil
}

func decodeFloat(text string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	return f, err == nil
}
