package tools

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileTool(t *testing.T, name string) Tool {
	t.Helper()
	for _, tool := range FileTools() {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("no file tool %q", name)
	return Tool{}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	call := Call{Dir: dir}

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"relative", "notes.txt", filepath.Join(dir, "notes.txt"), false},
		{"dot", ".", dir, false},
		{"nested", "a/b/../c.txt", filepath.Join(dir, "a", "c.txt"), false},
		{"absolute inside", filepath.Join(dir, "x"), filepath.Join(dir, "x"), false},
		{"parent escape", "../secret", "", true},
		{"absolute outside", "/etc/passwd", "", true},
		{"sneaky prefix", "../" + filepath.Base(dir) + "-other/x", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call.Resolve(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrOutsideProject) {
					t.Errorf("Resolve(%q) error = %v, want ErrOutsideProject", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestCallCoercion(t *testing.T) {
	call := Call{Args: map[string]any{
		"i":     int64(3),
		"f":     2.0,
		"frac":  2.5,
		"s":     " 7 ",
		"bad":   "seven",
		"flag":  true,
		"sflag": "false",
		"nil":   nil,
	}}

	if n, err := call.Int("i"); err != nil || n != 3 {
		t.Errorf("Int(i) = %d, %v", n, err)
	}
	if n, err := call.Int("f"); err != nil || n != 2 {
		t.Errorf("Int(f) = %d, %v", n, err)
	}
	if _, err := call.Int("frac"); !errors.Is(err, ErrInvalidArgType) {
		t.Errorf("Int(frac) error = %v", err)
	}
	if n, err := call.Int("s"); err != nil || n != 7 {
		t.Errorf("Int(s) = %d, %v", n, err)
	}
	if _, err := call.Int("bad"); !errors.Is(err, ErrInvalidArgType) {
		t.Errorf("Int(bad) error = %v", err)
	}
	if _, err := call.Int("nil"); !errors.Is(err, ErrMissingArg) {
		t.Errorf("Int(nil) error = %v", err)
	}
	if f, err := call.Float("i"); err != nil || f != 3 {
		t.Errorf("Float(i) = %v, %v", f, err)
	}
	if b, err := call.Bool("flag"); err != nil || !b {
		t.Errorf("Bool(flag) = %v, %v", b, err)
	}
	if b, err := call.Bool("sflag"); err != nil || b {
		t.Errorf("Bool(sflag) = %v, %v", b, err)
	}
	if got := call.String("f"); got != "2" {
		t.Errorf("String(f) = %q, want 2", got)
	}
	if call.Has("nil") || !call.Has("s") {
		t.Error("Has() wrong")
	}
}

func TestFileTools(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	call := func(args map[string]any) Call { return Call{Dir: dir, Args: args} }

	write := fileTool(t, "write_file")
	out, err := write.Func(ctx, call(map[string]any{"path": "docs/report.txt", "content": "quarterly"}))
	if err != nil {
		t.Fatalf("write_file error = %v", err)
	}
	if out != "Wrote 9 bytes to docs/report.txt." {
		t.Errorf("write_file = %q", out)
	}

	read := fileTool(t, "read_file")
	out, err = read.Func(ctx, call(map[string]any{"path": "docs/report.txt"}))
	if err != nil || out != "quarterly" {
		t.Errorf("read_file = %q, %v", out, err)
	}

	list := fileTool(t, "list_files")
	out, err = list.Func(ctx, call(map[string]any{"path": "."}))
	if err != nil || out != "docs/" {
		t.Errorf("list_files = %q, %v", out, err)
	}

	if err := os.MkdirAll(filepath.Join(dir, "archive", "2024"), 0755); err != nil {
		t.Fatal(err)
	}
	move := fileTool(t, "move_file")
	out, err = move.Func(ctx, call(map[string]any{"from": "docs/report.txt", "to": "archive/2024"}))
	if err != nil {
		t.Fatalf("move_file error = %v", err)
	}
	if out != "Moved docs/report.txt to archive/2024/report.txt." {
		t.Errorf("move_file = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "archive", "2024", "report.txt")); err != nil {
		t.Errorf("moved file missing: %v", err)
	}

	out, err = list.Func(ctx, call(map[string]any{"path": "docs"}))
	if err != nil || out != "docs is empty." {
		t.Errorf("list_files(docs) = %q, %v", out, err)
	}
}

func TestFileToolErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		tool    string
		args    map[string]any
		wantErr string
	}{
		{"read_file", map[string]any{"path": "../outside.txt"}, "outside the project directory"},
		{"read_file", map[string]any{"path": "missing.txt"}, "failed to read file"},
		{"read_file", map[string]any{"path": "."}, "is a directory"},
		{"write_file", map[string]any{"path": "/tmp/escape.txt", "content": "x"}, "outside the project directory"},
		{"move_file", map[string]any{"from": "nope.txt", "to": "b.txt"}, "failed to move file"},
		{"list_files", map[string]any{"path": "missing"}, "failed to list directory"},
	}
	for _, tt := range tests {
		t.Run(tt.tool+" "+tt.wantErr, func(t *testing.T) {
			_, err := fileTool(t, tt.tool).Func(ctx, Call{Dir: dir, Args: tt.args})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
