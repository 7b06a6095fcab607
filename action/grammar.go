package action

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Python keywords that models like to use as argument names (from=, in=).
// They are case-flipped in the copy handed to the grammar; the copy has the
// same length, so every byte offset still points into the original text.
var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

func maskKeywordNames(text string) string {
	buf := []byte(text)
	masked := false

	for i := 0; i < len(buf); {
		if !isIdentStart(buf[i]) || (i > 0 && isIdentChar(buf[i-1])) {
			i++
			continue
		}
		j := i + 1
		for j < len(buf) && isIdentChar(buf[j]) {
			j++
		}
		if pythonKeywords[text[i:j]] && precededByArgStart(buf, i) && followedByAssign(buf, j) {
			buf[i] ^= 0x20
			masked = true
		}
		i = j
	}

	if !masked {
		return text
	}
	return string(buf)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func precededByArgStart(buf []byte, i int) bool {
	for k := i - 1; k >= 0; k-- {
		switch buf[k] {
		case ' ', '\t', '\n', '\r':
			continue
		case '(', ',':
			return true
		default:
			return false
		}
	}
	return false
}

func followedByAssign(buf []byte, j int) bool {
	for k := j; k < len(buf); k++ {
		switch buf[k] {
		case ' ', '\t', '\n', '\r':
			continue
		case '=':
			return k+1 >= len(buf) || buf[k+1] != '='
		default:
			return false
		}
	}
	return false
}

// parseCall parses text as a single Python call expression. received is the
// unrepaired text carried by any ParseError.
func parseCall(text, received string) (*Action, error) {
	src := []byte(maskKeywordNames(text))

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, newParseError(KindSyntax, received, "invalid syntax in action: %v", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, newParseError(KindSyntax, received, "invalid syntax in action: %s", describeError(root, text))
	}

	stmts := namedChildren(root)
	if len(stmts) == 0 {
		return nil, newParseError(KindSyntax, received, "invalid syntax in action: empty expression")
	}
	if len(stmts) > 1 || stmts[0].Type() != "expression_statement" {
		return nil, newParseError(KindSyntax, received, "invalid syntax in action: expected a single expression")
	}

	exprs := namedChildren(stmts[0])
	if len(exprs) != 1 {
		return nil, newParseError(KindSyntax, received, "invalid syntax in action: expected a single expression")
	}
	expr := unwrapParens(exprs[0])

	if expr.Type() != "call" {
		return nil, newParseError(KindNotCall, received, "not a function call: %q", text)
	}

	fn := expr.ChildByFieldName("function")
	if fn == nil || fn.Type() != "identifier" {
		what := "missing"
		if fn != nil {
			what = fmt.Sprintf("%s %q", fn.Type(), nodeText(fn, text))
		}
		return nil, newParseError(KindCallee, received, "unsupported function expression: %s", what)
	}

	act := &Action{Tool: nodeText(fn, text)}

	argList := expr.ChildByFieldName("arguments")
	if argList == nil {
		return act, nil
	}
	if argList.Type() == "generator_expression" {
		act.Args = append(act.Args, Arg{Value: nodeText(argList, text), Raw: true})
		return act, nil
	}

	seenKeyword := false
	names := make(map[string]bool)
	for _, child := range namedChildren(argList) {
		switch child.Type() {
		case "keyword_argument":
			nameNode := child.ChildByFieldName("name")
			valueNode := child.ChildByFieldName("value")
			if nameNode == nil || valueNode == nil {
				return nil, newParseError(KindSyntax, received, "invalid syntax in action: malformed keyword argument")
			}
			name := nodeText(nameNode, text)
			if names[name] {
				return nil, newParseError(KindSyntax, received, "invalid syntax in action: keyword argument repeated: %s", name)
			}
			names[name] = true
			seenKeyword = true

			arg := argValue(valueNode, text)
			arg.Name = name
			act.Args = append(act.Args, arg)

		case "list_splat", "dictionary_splat":
			act.Args = append(act.Args, Arg{Value: nodeText(child, text), Raw: true})

		default:
			if seenKeyword {
				return nil, newParseError(KindSyntax, received, "invalid syntax in action: positional argument follows keyword argument")
			}
			act.Args = append(act.Args, argValue(child, text))
		}
	}

	return act, nil
}

// namedChildren skips comments, which the grammar reports as named nodes.
func namedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

func unwrapParens(n *sitter.Node) *sitter.Node {
	for n.Type() == "parenthesized_expression" {
		inner := namedChildren(n)
		if len(inner) != 1 {
			return n
		}
		n = inner[0]
	}
	return n
}

func nodeText(n *sitter.Node, text string) string {
	return strings.TrimSpace(text[n.StartByte():n.EndByte()])
}

// argValue decodes literal expressions and keeps everything else verbatim.
func argValue(n *sitter.Node, text string) Arg {
	if v, ok := literal(unwrapParens(n), text); ok {
		return Arg{Value: v}
	}
	return Arg{Value: nodeText(n, text), Raw: true}
}

func literal(n *sitter.Node, text string) (any, bool) {
	src := nodeText(n, text)
	switch n.Type() {
	case "string":
		return decodeString(src)
	case "concatenated_string":
		var b strings.Builder
		for _, part := range namedChildren(n) {
			s, ok := decodeString(nodeText(part, text))
			if !ok {
				return nil, false
			}
			b.WriteString(s)
		}
		return b.String(), true
	case "integer":
		return decodeInt(src)
	case "float":
		return decodeFloat(src)
	case "true":
		return true, true
	case "false":
		return false, true
	case "none":
		return nil, true
	case "unary_operator":
		op := n.ChildByFieldName("operator")
		operand := n.ChildByFieldName("argument")
		if op == nil || operand == nil {
			return nil, false
		}
		sign := nodeText(op, text)
		if sign != "-" && sign != "+" {
			return nil, false
		}
		v, ok := literal(operand, text)
		if !ok {
			return nil, false
		}
		switch num := v.(type) {
		case int64:
			if sign == "-" {
				num = -num
			}
			return num, true
		case float64:
			if sign == "-" {
				num = -num
			}
			return num, true
		}
	}
	return nil, false
}

// describeError points at the first ERROR or MISSING node.
func describeError(root *sitter.Node, text string) string {
	bad := firstErrorNode(root)
	if bad == nil {
		return "unparsable expression"
	}
	pos := bad.StartPoint()
	if bad.IsMissing() {
		return fmt.Sprintf("missing %q at line %d, column %d", bad.Type(), pos.Row+1, pos.Column+1)
	}
	snippet := nodeText(bad, text)
	if len(snippet) > 20 {
		snippet = snippet[:20] + "..."
	}
	return fmt.Sprintf("unexpected %q at line %d, column %d", snippet, pos.Row+1, pos.Column+1)
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.IsMissing() || n.Type() == "ERROR" {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}
		if bad := firstErrorNode(child); bad != nil {
			return bad
		}
	}
	return nil
}
