// Package tools holds the tool registry, the dispatcher that binds parsed
// actions to tool functions, and the built-in tools Jarvis ships with.
package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Func is the body of a tool. The returned text becomes the observation.
type Func func(ctx context.Context, call Call) (string, error)

// Param describes one declared tool parameter.
type Param struct {
	Name        string
	Default     any
	HasDefault  bool
	Description string
}

type Tool struct {
	Name   string
	Params []Param
	Doc    string

	// HighRisk tools need an explicit confirmation before they run.
	HighRisk bool

	// KeywordOnly tools reject positional arguments (imported MCP tools).
	KeywordOnly bool

	Func Func
}

// Signature renders the parameter list the way the model is expected to
// call the tool: (seconds, message="Time is up").
func (t Tool) Signature() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		if p.HasDefault {
			parts[i] = p.Name + "=" + formatDefault(p.Default)
		} else {
			parts[i] = p.Name
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t Tool) paramIndex(name string) int {
	for i, p := range t.Params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func formatDefault(v any) string {
	switch d := v.(type) {
	case nil:
		return "None"
	case string:
		return strconv.Quote(d)
	case bool:
		if d {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(d)
	}
}

// Registry is the immutable name → tool mapping built at startup.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry registers every tool in order. Duplicate or empty names and
// tools without a body are rejected.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if t.Name == "" {
			return nil, ErrToolNameEmpty
		}
		if t.Func == nil {
			return nil, fmt.Errorf("%w: %s", ErrToolFuncNil, t.Name)
		}
		if _, exists := r.tools[t.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, t.Name)
		}
		r.tools[t.Name] = t
		r.order = append(r.order, t.Name)
	}
	return r, nil
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int {
	return len(r.order)
}

// Catalogue renders one "- name(sig): doc" line per tool for the system prompt.
func (r *Registry) Catalogue() string {
	lines := make([]string, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		line := fmt.Sprintf("- %s%s: %s", t.Name, t.Signature(), strings.TrimSpace(t.Doc))
		if hints := paramHints(t.Params); hints != "" {
			line += " " + hints
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func paramHints(params []Param) string {
	var hints []string
	for _, p := range params {
		if p.Description != "" {
			hints = append(hints, fmt.Sprintf("%s: %s", p.Name, p.Description))
		}
	}
	if len(hints) == 0 {
		return ""
	}
	return "Parameters: " + strings.Join(hints, "; ") + "."
}

// Suggest returns the registered name that best fuzzy-matches name.
func (r *Registry) Suggest(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	matches := fuzzy.Find(name, r.order)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Str, true
}
