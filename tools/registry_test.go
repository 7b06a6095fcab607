package tools

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func nop(context.Context, Call) (string, error) { return "", nil }

func TestNewRegistryRejects(t *testing.T) {
	tests := []struct {
		name  string
		tools []Tool
		want  error
	}{
		{"empty name", []Tool{{Func: nop}}, ErrToolNameEmpty},
		{"nil func", []Tool{{Name: "x"}}, ErrToolFuncNil},
		{"duplicate", []Tool{{Name: "x", Func: nop}, {Name: "x", Func: nop}}, ErrToolAlreadyRegistered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.tools...)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewRegistry() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegistryOrderAndLookup(t *testing.T) {
	reg := mustRegistry(t,
		Tool{Name: "b", Func: nop},
		Tool{Name: "a", Func: nop},
		Tool{Name: "c", Func: nop},
	)
	if got := reg.Names(); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Errorf("Names() = %v, want registration order", got)
	}
	names := reg.Names()
	names[0] = "mutated"
	if _, ok := reg.Get("b"); !ok {
		t.Error("Names() exposed internal state")
	}
	if _, ok := reg.Get("missing"); ok {
		t.Error("Get(missing) found a tool")
	}
	if reg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", reg.Len())
	}
}

func TestCatalogue(t *testing.T) {
	reg := mustRegistry(t,
		Tool{Name: "time_now", Doc: "Return the current local date and time.", Func: nop},
		Tool{
			Name: "timer",
			Params: []Param{
				{Name: "seconds"},
				{Name: "message", Default: "Time is up", HasDefault: true},
			},
			Doc:  "Start a background timer.",
			Func: nop,
		},
		Tool{
			Name:   "fs__search",
			Params: []Param{{Name: "pattern", Description: "glob to match"}, {Name: "deep", Default: nil, HasDefault: true}},
			Doc:    "Search files.",
			Func:   nop,
		},
	)

	want := strings.Join([]string{
		"- time_now(): Return the current local date and time.",
		`- timer(seconds, message="Time is up"): Start a background timer.`,
		"- fs__search(pattern, deep=None): Search files. Parameters: pattern: glob to match.",
	}, "\n")
	if got := reg.Catalogue(); got != want {
		t.Errorf("Catalogue() =\n%s\nwant\n%s", got, want)
	}
}

func TestSignatureDefaults(t *testing.T) {
	tool := Tool{Params: []Param{
		{Name: "n", Default: int64(4), HasDefault: true},
		{Name: "flag", Default: true, HasDefault: true},
		{Name: "path", Default: ".", HasDefault: true},
	}}
	if got, want := tool.Signature(), `(n=4, flag=True, path=".")`; got != want {
		t.Errorf("Signature() = %q, want %q", got, want)
	}
}

func TestSuggest(t *testing.T) {
	reg := mustRegistry(t,
		Tool{Name: "run_terminal_command", Func: nop},
		Tool{Name: "read_file", Func: nop},
	)
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"run_command", "run_terminal_command", true},
		{"readfile", "read_file", true},
		{"zzz", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := reg.Suggest(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Suggest(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
