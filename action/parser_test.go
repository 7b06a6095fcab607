package action

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantTool string
		wantArgs []string
	}{
		{"mixed arguments", `tool(a, "b", c=1)`, "tool", []string{"a", "b", "c=1"}},
		{"no arguments", `list_files()`, "list_files", []string{}},
		{"comma in string", `web_search("golang, generics")`, "web_search", []string{"golang, generics"}},
		{"single quotes", `read_file('notes.txt')`, "read_file", []string{"notes.txt"}},
		{"keyword string", `timer(30, message="Tea, now")`, "timer", []string{"30", `message="Tea, now"`}},
		{"bareword repair", `move_file(from=report.txt, to=archive\2024)`, "move_file", []string{`from="report.txt"`, `to="archive/2024"`}},
		{"dot repair", `list_files(path=.)`, "list_files", []string{`path="."`}},
		{"windows path", `read_file("C:\Users\me\docs.txt")`, "read_file", []string{"C:/Users/me/docs.txt"}},
		{"fenced", "```python\nfan_power('on')\n```", "fan_power", []string{"on"}},
		{"surrounding space", "  \n clock()  \n", "clock", []string{}},
		{"numbers and constants", `f(1.0, -3, True, None)`, "f", []string{"1.0", "-3", "True", "None"}},
		{"expression kept verbatim", `f(x + 1, [1, 2])`, "f", []string{"x + 1", "[1, 2]"}},
		{"implicit concatenation", `f("ab" "cd")`, "f", []string{"abcd"}},
		{"trailing comment", `f(1)  # one`, "f", []string{"1"}},
		{"python keyword name", `move_file(from="a", in="b")`, "move_file", []string{`from="a"`, `in="b"`}},
		{"splat kept", `f(*items)`, "f", []string{"*items"}},
		{"equals inside keyword string", `write_file(path="notes.txt", content="a=b, c")`, "write_file", []string{`path="notes.txt"`, `content="a=b, c"`}},
		{"equals inside positional string", `write_file("app.env", "MODE=prod, DEBUG")`, "write_file", []string{"app.env", "MODE=prod, DEBUG"}},
		{"paren inside string", `run_terminal_command("grep key=value) file")`, "run_terminal_command", []string{"grep key=value) file"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.in, err)
			}
			if act.Tool != tt.wantTool {
				t.Errorf("Tool = %q, want %q", act.Tool, tt.wantTool)
			}
			if got := act.Strings(); !reflect.DeepEqual(got, tt.wantArgs) {
				t.Errorf("Args = %q, want %q", got, tt.wantArgs)
			}
		})
	}
}

func TestParseLiteralTypes(t *testing.T) {
	act, err := Parse(`f("s", 7, 2.5, False, None, 0x10, "a\nb", ident)`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []Arg{
		{Value: "s"},
		{Value: int64(7)},
		{Value: 2.5},
		{Value: false},
		{Value: nil},
		{Value: int64(16)},
		{Value: "a\nb"},
		{Value: "ident", Raw: true},
	}
	if !reflect.DeepEqual(act.Args, want) {
		t.Errorf("Args = %#v, want %#v", act.Args, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind ErrorKind
	}{
		{"empty", "", KindSyntax},
		{"unbalanced", `read_file("a.txt"`, KindSyntax},
		{"prose", "I will now read the file", KindSyntax},
		{"two statements", `a(); b()`, KindSyntax},
		{"positional after keyword", `f(a=1, 2)`, KindSyntax},
		{"repeated keyword", `f(a=1, a=2)`, KindSyntax},
		{"signature", "read_file(path: str) -> str", KindSignature},
		{"signature with defaults", "timer(seconds: int, message: str = 'Time is up') -> str", KindSignature},
		{"name only", "list_files", KindNotCall},
		{"arithmetic", "1 + 2", KindNotCall},
		{"string", `"hello"`, KindNotCall},
		{"attribute callee", `os.system("ls")`, KindCallee},
		{"call callee", `factory()("x")`, KindCallee},
		{"subscript callee", `tools[0]()`, KindCallee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want %v error", tt.in, tt.kind)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error %T is not *ParseError", err)
			}
			if perr.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v (cause %q)", perr.Kind, tt.kind, perr.Cause)
			}
			if perr.Text != tt.in {
				t.Errorf("Text = %q, want the received text %q", perr.Text, tt.in)
			}
			if perr.Cause == "" {
				t.Error("Cause is empty")
			}
		})
	}
}

func TestMaskKeywordNames(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`move_file(from="a", to="b")`, `move_file(From="a", to="b")`},
		{`f(x, in = 1)`, `f(x, In = 1)`},
		{`f(from)`, `f(from)`},
		{`f(a=in)`, `f(a=in)`},
		{`f(is==1)`, `f(is==1)`},
		{`f(frommer=1)`, `f(frommer=1)`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := maskKeywordNames(tt.in)
			if got != tt.want {
				t.Errorf("maskKeywordNames(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if len(got) != len(tt.in) {
				t.Errorf("length changed: %d -> %d", len(tt.in), len(got))
			}
		})
	}
}

func TestActionString(t *testing.T) {
	act := &Action{Tool: "timer", Args: []Arg{
		{Value: int64(5)},
		{Name: "message", Value: `say "hi"`},
		{Name: "ratio", Value: 2.0},
	}}
	want := `timer(5, message="say \"hi\"", ratio=2.0)`
	if got := act.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
