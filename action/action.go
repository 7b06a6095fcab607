// Package action turns the text between <action> tags into a tool name and
// an argument list.
//
// Parsing is two stages. A fixed list of textual repair rules runs first
// (fence stripping, bareword quoting, backslash normalization), then the
// result is parsed with the tree-sitter Python grammar and must be exactly
// one call of a plain identifier. Argument values are never evaluated:
// literals are decoded, anything else is kept as its source text.
package action

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Arg is one call argument. Name is empty for positional arguments.
// Value is string, int64, float64, bool or nil for literals; for any other
// expression Raw is set and Value holds the verbatim source text.
type Arg struct {
	Name  string
	Value any
	Raw   bool
}

type Action struct {
	Tool string
	Args []Arg
}

// Positional reports whether the argument was passed without a name.
func (a Arg) Positional() bool {
	return a.Name == ""
}

// String renders a positional argument as its natural text and a keyword
// argument as name=value with string values double-quoted.
func (a Arg) String() string {
	if a.Positional() {
		return formatValue(a.Value, a.Raw, false)
	}
	return a.Name + "=" + formatValue(a.Value, a.Raw, true)
}

// Strings renders every argument in call order.
func (act *Action) Strings() []string {
	out := make([]string, len(act.Args))
	for i, arg := range act.Args {
		out[i] = arg.String()
	}
	return out
}

func (act *Action) String() string {
	return fmt.Sprintf("%s(%s)", act.Tool, strings.Join(act.Strings(), ", "))
}

func formatValue(v any, raw, quote bool) string {
	if raw {
		s, _ := v.(string)
		return s
	}
	switch val := v.(type) {
	case string:
		if quote {
			return strconv.Quote(val)
		}
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return formatFloat(val)
	case bool:
		if val {
			return "True"
		}
		return "False"
	case nil:
		return "None"
	default:
		return fmt.Sprint(val)
	}
}

// formatFloat keeps a trailing ".0" on integral values so 2.0 is not shown as 2.
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e16 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
