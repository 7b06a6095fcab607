package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"jarvis/config"
)

const (
	defaultCommandTimeout = 60 * time.Second
	maxCommandTimeout     = 10 * time.Minute
)

// ShellTool runs a command through the platform shell inside the project
// directory. It is always high risk.
func ShellTool() Tool {
	return Tool{
		Name: "run_terminal_command",
		Params: []Param{
			{Name: "command"},
			{Name: "timeout_seconds", Default: int64(defaultCommandTimeout / time.Second), HasDefault: true},
		},
		Doc:      "Run a shell command in the project directory and return its output.",
		HighRisk: true,
		Func:     runTerminalCommand,
	}
}

func runTerminalCommand(ctx context.Context, call Call) (string, error) {
	command := strings.TrimSpace(call.String("command"))
	if command == "" {
		return "", fmt.Errorf("command is required")
	}

	secs, err := call.Int("timeout_seconds")
	if err != nil {
		return "", err
	}
	timeout := time.Duration(secs) * time.Second
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	if timeout > maxCommandTimeout {
		timeout = maxCommandTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(execCtx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(execCtx, "sh", "-c", command)
	}
	cmd.Dir = call.Dir
	// Background children of the shell may hold the output pipes open.
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Shell] Running %q in %s (timeout %s)", command, call.Dir, timeout)
	}
	err = cmd.Run()

	output := stdout.String()
	if stderr.Len() > 0 {
		if output != "" {
			output += "\n--- stderr ---\n"
		}
		output += stderr.String()
	}

	if err != nil {
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("command timed out after %s\nOutput:\n%s", timeout, output)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("command exited with status %d\nOutput:\n%s", exitErr.ExitCode(), output)
		}
		return "", fmt.Errorf("command failed: %w", err)
	}

	if output == "" {
		return "Command completed with no output.", nil
	}
	return output, nil
}
