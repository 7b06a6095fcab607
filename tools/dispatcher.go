package tools

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"jarvis/action"
	"jarvis/config"
)

const (
	// ErrorPrefix starts every observation for a tool that failed.
	ErrorPrefix = "Tool executed with error: "

	// CanceledMessage is the observation, and the run result, when the
	// operator declines a high-risk tool.
	CanceledMessage = "Operation canceled by user"

	defaultMaxObservationChars = 8000
)

type Outcome int

const (
	Executed Outcome = iota
	Failed
	Unknown
	Denied
)

func (o Outcome) String() string {
	switch o {
	case Executed:
		return "executed"
	case Failed:
		return "failed"
	case Unknown:
		return "unknown"
	case Denied:
		return "denied"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Confirmer asks the operator a yes/no question. An error counts as "no".
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

type DispatcherOptions struct {
	// ProjectDir is created on first dispatch and handed to every tool.
	ProjectDir string

	// HighRisk names tools gated behind Confirmer in addition to tools
	// flagged Tool.HighRisk.
	HighRisk []string

	// MaxObservationChars truncates long tool output. Zero means 8000.
	MaxObservationChars int

	// Confirmer is required for high-risk tools; without one they are denied.
	Confirmer Confirmer
}

type Dispatcher struct {
	registry  *Registry
	dir       string
	highRisk  map[string]bool
	maxChars  int
	confirmer Confirmer
}

func NewDispatcher(registry *Registry, opts DispatcherOptions) *Dispatcher {
	d := &Dispatcher{
		registry:  registry,
		dir:       opts.ProjectDir,
		highRisk:  make(map[string]bool, len(opts.HighRisk)),
		maxChars:  opts.MaxObservationChars,
		confirmer: opts.Confirmer,
	}
	if d.maxChars <= 0 {
		d.maxChars = defaultMaxObservationChars
	}
	for _, name := range opts.HighRisk {
		d.highRisk[name] = true
	}
	return d
}

func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// IsHighRisk reports whether running name requires confirmation.
func (d *Dispatcher) IsHighRisk(name string) bool {
	if d.highRisk[name] {
		return true
	}
	t, ok := d.registry.Get(name)
	return ok && t.HighRisk
}

// Dispatch runs act and returns the observation for the model. Tool faults
// never escape; they come back as an ErrorPrefix observation.
func (d *Dispatcher) Dispatch(ctx context.Context, act *action.Action) (string, Outcome) {
	tool, ok := d.registry.Get(act.Tool)
	if !ok {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Dispatch] Unknown tool requested: %s", act.Tool)
		}
		return d.UnknownToolMessage(act.Tool), Unknown
	}

	args, err := bind(tool, act.Args)
	if err != nil {
		return ErrorPrefix + err.Error(), Failed
	}

	if d.IsHighRisk(tool.Name) {
		if !d.confirm(ctx, act) {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Dispatch] Operator denied %s", act.Tool)
			}
			return CanceledMessage, Denied
		}
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return ErrorPrefix + fmt.Sprintf("failed to create project directory: %v", err), Failed
	}

	out, err := run(ctx, tool, Call{Dir: d.dir, Args: args})
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Dispatch] %s failed: %v", act.Tool, err)
		}
		return ErrorPrefix + err.Error(), Failed
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Dispatch] %s executed (%d bytes)", act.Tool, len(out))
	}
	return truncate(out, d.maxChars), Executed
}

// UnknownToolMessage lists every registered tool, plus a suggestion when
// one matches.
func (d *Dispatcher) UnknownToolMessage(name string) string {
	msg := fmt.Sprintf("Unknown tool: %s. Available tools: %s", name, strings.Join(d.registry.Names(), ", "))
	if s, ok := d.registry.Suggest(name); ok {
		msg += fmt.Sprintf(". Did you mean: %s?", s)
	}
	return msg
}

func (d *Dispatcher) confirm(ctx context.Context, act *action.Action) bool {
	if d.confirmer == nil {
		return false
	}
	prompt := fmt.Sprintf("Agent is running a potentially harmful command, continue?\n\n%s", act.String())
	ok, err := d.confirmer.Confirm(ctx, prompt)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Dispatch] Confirmation failed: %v", err)
		}
		return false
	}
	return ok
}

func run(ctx context.Context, tool Tool, call Call) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return tool.Func(ctx, call)
}

// bind maps positional arguments onto declared parameters in order and
// keyword arguments by name, then fills defaults.
func bind(tool Tool, args []action.Arg) (map[string]any, error) {
	positional := 0
	for _, a := range args {
		if a.Positional() {
			positional++
		}
	}

	bound := make(map[string]any, len(tool.Params))
	next := 0
	for _, a := range args {
		if a.Positional() {
			if s, ok := a.Value.(string); ok && a.Raw && strings.HasPrefix(s, "*") {
				return nil, fmt.Errorf("%s() does not support argument unpacking: %s", tool.Name, s)
			}
			if tool.KeywordOnly {
				return nil, fmt.Errorf("%s() takes keyword arguments only", tool.Name)
			}
			if next >= len(tool.Params) {
				return nil, fmt.Errorf("%s() takes %d positional arguments but %d were given", tool.Name, len(tool.Params), positional)
			}
			bound[tool.Params[next].Name] = a.Value
			next++
			continue
		}

		if tool.paramIndex(a.Name) < 0 {
			return nil, fmt.Errorf("%s() got an unexpected keyword argument '%s'", tool.Name, a.Name)
		}
		if _, dup := bound[a.Name]; dup {
			return nil, fmt.Errorf("%s() got multiple values for argument '%s'", tool.Name, a.Name)
		}
		bound[a.Name] = a.Value
	}

	var missing []string
	for _, p := range tool.Params {
		if _, ok := bound[p.Name]; ok {
			continue
		}
		if p.HasDefault {
			bound[p.Name] = p.Default
			continue
		}
		missing = append(missing, "'"+p.Name+"'")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s() %w: %s", tool.Name, ErrMissingArg, strings.Join(missing, ", "))
	}
	return bound, nil
}

func truncate(s string, max int) string {
	n := utf8.RuneCountInString(s)
	if n <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + fmt.Sprintf("\n... [output truncated, %d more characters]", n-max)
}
