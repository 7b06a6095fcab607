package action

import "strings"

// Parse turns the content of an <action> tag into an Action. The returned
// error is always a *ParseError.
func Parse(text string) (*Action, error) {
	received := text
	text = StripFence(strings.TrimSpace(text))
	text = strings.TrimSpace(text)

	if text == "" {
		return nil, newParseError(KindSyntax, received, "invalid syntax in action: empty expression")
	}
	if LooksLikeSignature(text) {
		return nil, newParseError(KindSignature, received, "got a function signature, not a call")
	}

	return parseCall(Rewrite(text), received)
}
