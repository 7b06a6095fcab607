package tools

import (
	"context"
	"fmt"
	"strings"

	"jarvis/storage"
)

// RunSearcher finds past runs. *storage.RunStore satisfies it.
type RunSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]storage.Run, error)
}

const defaultHistoryLimit = 5

func HistoryTool(runs RunSearcher) Tool {
	return Tool{
		Name: "recall_history",
		Params: []Param{
			{Name: "query"},
			{Name: "limit", Default: int64(defaultHistoryLimit), HasDefault: true},
		},
		Doc:  "Search earlier tasks and their answers. Use this when the user refers to something asked before.",
		Func: recallHistory(runs),
	}
}

func recallHistory(runs RunSearcher) Func {
	return func(ctx context.Context, call Call) (string, error) {
		query := strings.TrimSpace(call.String("query"))
		if query == "" {
			return "Error: A search query must be provided.", nil
		}
		limit, err := call.Int("limit")
		if err != nil {
			return "", err
		}

		found, err := runs.Search(ctx, query, limit)
		if err != nil {
			return "", fmt.Errorf("history search failed: %w", err)
		}
		if len(found) == 0 {
			return fmt.Sprintf("No earlier tasks found for '%s'.", query), nil
		}

		blocks := make([]string, len(found))
		for i, run := range found {
			answer := run.Answer
			if answer == "" {
				answer = "(" + string(run.Status) + ")"
			}
			blocks[i] = fmt.Sprintf("Task %d (%s):\nAsked: %s\nAnswer: %s",
				i+1, run.StartedAt.Local().Format(TimeLayout), run.Task, answer)
		}
		return strings.Join(blocks, "\n\n"), nil
	}
}
