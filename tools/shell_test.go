package tools

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestRunTerminalCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell syntax")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		command string
		timeout int64
		want    string
		wantErr string
	}{
		{"runs in project dir", "ls", 60, "marker.txt\n", ""},
		{"stderr appended", "echo out; echo err >&2", 60, "out\n\n--- stderr ---\nerr\n", ""},
		{"no output", "true", 60, "Command completed with no output.", ""},
		{"exit status", "echo nope; exit 3", 60, "", "exited with status 3"},
		{"timeout", "sleep 5", 1, "", "timed out"},
		{"empty", "  ", 60, "", "command is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runTerminalCommand(context.Background(), Call{
				Dir:  dir,
				Args: map[string]any{"command": tt.command, "timeout_seconds": tt.timeout},
			})
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShellToolIsHighRisk(t *testing.T) {
	if !ShellTool().HighRisk {
		t.Error("run_terminal_command must be high risk")
	}
}
