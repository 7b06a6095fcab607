// Package agent drives the ReAct conversation: model call, tag extraction,
// action parsing, dispatch and observation feedback until a final answer.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"jarvis/action"
	"jarvis/config"
	"jarvis/model"
	"jarvis/storage"
	"jarvis/tools"
)

const (
	DefaultMaxTokens = 3000

	noActionObservation = "Model did not return an <action>...</action> or <final_answer>...</final_answer>. " +
		"Please respond with a single tool call like run_terminal_command('...') or a <final_answer>."
)

// Announcer speaks final answers. It must not block.
type Announcer interface {
	Speak(text string)
}

// Recorder persists runs. Failures are logged and never affect the run.
type Recorder interface {
	Begin(ctx context.Context, task, modelName string) (string, error)
	Finish(ctx context.Context, id string, status storage.RunStatus, answer string, runErr error, messages []model.Message) error
}

type Options struct {
	Provider   model.Provider
	Dispatcher *tools.Dispatcher
	MaxTokens  int
	ProjectDir string

	Status    StatusProvider
	Announcer Announcer
	Recorder  Recorder
	Observer  Observer

	Now func() time.Time
}

type Agent struct {
	provider   model.Provider
	dispatcher *tools.Dispatcher
	maxTokens  int
	projectDir string

	status    StatusProvider
	announcer Announcer
	recorder  Recorder
	observer  Observer
	now       func() time.Time
}

func New(opts Options) (*Agent, error) {
	if opts.Provider == nil {
		return nil, errors.New("agent requires a model provider")
	}
	if opts.Dispatcher == nil {
		return nil, errors.New("agent requires a tool dispatcher")
	}
	a := &Agent{
		provider:   opts.Provider,
		dispatcher: opts.Dispatcher,
		maxTokens:  opts.MaxTokens,
		projectDir: opts.ProjectDir,
		status:     opts.Status,
		announcer:  opts.Announcer,
		recorder:   opts.Recorder,
		observer:   opts.Observer,
		now:        opts.Now,
	}
	if a.maxTokens <= 0 {
		a.maxTokens = DefaultMaxTokens
	}
	if a.observer == nil {
		a.observer = nopObserver{}
	}
	if a.now == nil {
		a.now = defaultNow
	}
	return a, nil
}

// Run works on task until the model gives a final answer, the operator
// denies a high-risk tool (tools.CanceledMessage is returned, not an error),
// the model endpoint fails or ctx is cancelled.
func (a *Agent) Run(ctx context.Context, task string) (string, error) {
	prompt, err := a.renderSystemPrompt(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to render system prompt: %w", err)
	}

	transcript := []model.Message{
		model.UserMessage(prompt),
		model.UserMessage(task),
	}

	runID := a.beginRecord(ctx, task)
	answer, status, err := a.loop(ctx, &transcript)
	a.finishRecord(runID, status, answer, err, transcript)

	if err != nil {
		return "", err
	}
	if status == storage.StatusAnswered {
		a.announce(answer)
	}
	return answer, nil
}

func (a *Agent) loop(ctx context.Context, transcript *[]model.Message) (string, storage.RunStatus, error) {
	appendTurn := func(content, observation string) {
		*transcript = append(*transcript,
			model.AssistantMessage(content),
			model.UserMessage(observation),
		)
	}

	for turn := 1; ; turn++ {
		if err := ctx.Err(); err != nil {
			return "", storage.StatusFailed, err
		}

		a.observer.Requesting()
		content, err := a.provider.Complete(ctx, *transcript, a.maxTokens)
		if err != nil {
			return "", storage.StatusFailed, fmt.Errorf("model call failed: %w", err)
		}
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Agent] Turn %d: %d chars from %s", turn, len(content), a.provider.GetModel())
		}

		if answer, ok := extractFinalAnswer(content); ok {
			*transcript = append(*transcript, model.AssistantMessage(content))
			a.observer.FinalAnswer(answer)
			return answer, storage.StatusAnswered, nil
		}

		rawAction, ok := extractAction(content)
		if !ok {
			observation := "<observation>" + noActionObservation + "</observation>"
			a.observer.Feedback(noActionObservation)
			appendTurn(content, observation)
			continue
		}

		act, err := action.Parse(rawAction)
		if err != nil {
			observation := parseErrorObservation(err, rawAction)
			a.observer.Feedback(observation)
			appendTurn(content, observation)
			continue
		}

		a.observer.Action(act, a.dispatcher.IsHighRisk(act.Tool))
		observation, outcome := a.dispatcher.Dispatch(ctx, act)
		a.observer.Observation(observation, outcome)

		if outcome == tools.Denied {
			*transcript = append(*transcript, model.AssistantMessage(content))
			return tools.CanceledMessage, storage.StatusCancelled, nil
		}
		appendTurn(content, observation)
	}
}

func parseErrorObservation(err error, raw string) string {
	return fmt.Sprintf("Action parse error: %v. Return a plain function call expression like "+
		"run_terminal_command('...'), not a signature or prose. You returned: %s", err, strconv.Quote(raw))
}

func (a *Agent) announce(answer string) {
	if a.announcer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Agent] Announcer panicked: %v", r)
		}
	}()
	a.announcer.Speak(answer)
}

func (a *Agent) beginRecord(ctx context.Context, task string) string {
	if a.recorder == nil {
		return ""
	}
	id, err := a.recorder.Begin(ctx, task, a.provider.GetModel())
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Agent] Failed to record run start: %v", err)
		}
		return ""
	}
	return id
}

func (a *Agent) finishRecord(id string, status storage.RunStatus, answer string, runErr error, transcript []model.Message) {
	if a.recorder == nil || id == "" {
		return
	}
	// The run context may already be cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.recorder.Finish(ctx, id, status, answer, runErr, transcript); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Agent] Failed to record run %s: %v", id, err)
	}
}
