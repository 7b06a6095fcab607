package agent

import (
	"jarvis/action"
	"jarvis/tools"
)

// Observer sees each step of a run. The console printer implements it.
type Observer interface {
	Requesting()
	Action(act *action.Action, highRisk bool)
	Observation(text string, outcome tools.Outcome)
	Feedback(text string)
	FinalAnswer(answer string)
}

type nopObserver struct{}

func (nopObserver) Requesting() {}
func (nopObserver) Action(*action.Action, bool) {}
func (nopObserver) Observation(string, tools.Outcome) {}
func (nopObserver) Feedback(string) {}
func (nopObserver) FinalAnswer(string) {}
