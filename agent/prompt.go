package agent

import (
	"context"
	"strings"
	"text/template"
	"time"
)

const systemPromptTemplate = `You are Jarvis, an expert home assistant developed by Xander Liu that can use these tools
{{.Tools}}

Use only one tool at a time.
To use a tool, respond with:
<action>tool(arg1, arg2)</action>

If you don't need to use a tool or finished the task, respond with:
<final_answer>Your final answer here</final_answer>

ENVIRONMENT INFO
Current time is {{.Time}}
The fan is {{.Fan}}
{{- if .ProjectDir}}
Files are read and written relative to {{.ProjectDir}}
{{- end}}
`

var systemPrompt = template.Must(template.New("system").Parse(systemPromptTemplate))

// StatusProvider reports the fan state shown in the prompt.
type StatusProvider interface {
	Status(ctx context.Context) string
}

type promptData struct {
	Tools      string
	Time       string
	Fan        string
	ProjectDir string
}

func (a *Agent) renderSystemPrompt(ctx context.Context) (string, error) {
	data := promptData{
		Tools:      a.dispatcher.Registry().Catalogue(),
		Time:       a.now().Format("2006-01-02 15:04:05"),
		Fan:        "UNKNOWN",
		ProjectDir: a.projectDir,
	}
	if a.status != nil {
		data.Fan = a.status.Status(ctx)
	}

	var b strings.Builder
	if err := systemPrompt.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func defaultNow() time.Time { return time.Now() }
