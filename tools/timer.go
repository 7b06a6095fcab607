package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jarvis/config"
)

// Announcer speaks text out loud. speech.Speaker satisfies it.
type Announcer interface {
	Speak(text string)
}

const defaultTimerMessage = "Time is up"

type timerStatus struct {
	Status  string  `json:"status"`
	Seconds float64 `json:"seconds"`
	Message string  `json:"message"`
	TimerID string  `json:"timer_id"`
}

// TimerTool starts background timers that announce their message when
// they fire. Timers outlive the run that started them.
func TimerTool(announcer Announcer) Tool {
	return Tool{
		Name: "timer",
		Params: []Param{
			{Name: "seconds"},
			{Name: "message", Default: defaultTimerMessage, HasDefault: true},
		},
		Doc:  "Start a background timer that waits `seconds` then speaks `message`.",
		Func: timerFunc(announcer),
	}
}

func timerFunc(announcer Announcer) Func {
	return func(_ context.Context, call Call) (string, error) {
		seconds, err := call.Float("seconds")
		if err != nil {
			return "", err
		}
		if seconds < 0 {
			return "", fmt.Errorf("seconds must not be negative, got %v", seconds)
		}
		message := call.String("message")
		if message == "" {
			message = defaultTimerMessage
		}

		id := "timer-" + uuid.NewString()[:8]
		time.AfterFunc(time.Duration(seconds*float64(time.Second)), func() {
			defer func() {
				if r := recover(); r != nil && config.DebugLog != nil {
					config.DebugLog.Printf("[Timer] %s panicked: %v", id, r)
				}
			}()
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Timer] %s fired: %s", id, message)
			}
			if announcer != nil {
				announcer.Speak(message)
			}
		})

		out, err := json.Marshal(timerStatus{Status: "started", Seconds: seconds, Message: message, TimerID: id})
		if err != nil {
			return "", fmt.Errorf("failed to encode timer status: %w", err)
		}
		return string(out), nil
	}
}
