package tools

import (
	"context"
	"time"
)

// TimeLayout is the layout used for times shown to the model.
const TimeLayout = "2006-01-02 15:04:05"

func ClockTool(now func() time.Time) Tool {
	if now == nil {
		now = time.Now
	}
	return Tool{
		Name: "time_now",
		Doc:  "Return the current local date and time.",
		Func: func(context.Context, Call) (string, error) {
			return now().Format(TimeLayout), nil
		},
	}
}
