package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const maxReadBytes = 1 << 20

// FileTools are the file operations available to the model. Every path is
// resolved against the project directory and may not leave it.
func FileTools() []Tool {
	return []Tool{
		{
			Name:   "read_file",
			Params: []Param{{Name: "path"}},
			Doc:    "Read a text file from the project directory and return its contents.",
			Func:   readFile,
		},
		{
			Name:   "write_file",
			Params: []Param{{Name: "path"}, {Name: "content"}},
			Doc:    "Write content to a file in the project directory, creating parent directories and replacing any existing file.",
			Func:   writeFile,
		},
		{
			Name:   "list_files",
			Params: []Param{{Name: "path", Default: ".", HasDefault: true}},
			Doc:    "List the entries of a directory in the project directory. Directories end with a slash.",
			Func:   listFiles,
		},
		{
			Name:   "move_file",
			Params: []Param{{Name: "from"}, {Name: "to"}},
			Doc:    "Move or rename a file. If `to` is an existing directory the file is moved into it.",
			Func:   moveFile,
		},
	}
}

func readFile(_ context.Context, call Call) (string, error) {
	path, err := call.Resolve(call.String("path"))
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory, use list_files", call.String("path"))
	}
	if info.Size() > maxReadBytes {
		return "", fmt.Errorf("file is too large to read (%d bytes)", info.Size())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(content) == 0 {
		return "(empty file)", nil
	}
	return string(content), nil
}

func writeFile(_ context.Context, call Call) (string, error) {
	path, err := call.Resolve(call.String("path"))
	if err != nil {
		return "", err
	}
	content := call.String("content")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directories: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return fmt.Sprintf("Wrote %d bytes to %s.", len(content), relative(call.Dir, path)), nil
}

func listFiles(_ context.Context, call Call) (string, error) {
	arg := call.String("path")
	if arg == "" {
		arg = "."
	}
	path, err := call.Resolve(arg)
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("failed to list directory: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Sprintf("%s is empty.", relative(call.Dir, path)), nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "\n"), nil
}

func moveFile(_ context.Context, call Call) (string, error) {
	src, err := call.Resolve(call.String("from"))
	if err != nil {
		return "", err
	}
	dst, err := call.Resolve(call.String("to"))
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("failed to move file: %w", err)
	}
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("failed to create directories: %w", err)
	}
	if err := os.Rename(src, dst); err != nil {
		return "", fmt.Errorf("failed to move file: %w", err)
	}
	return fmt.Sprintf("Moved %s to %s.", relative(call.Dir, src), relative(call.Dir, dst)), nil
}

func relative(base, path string) string {
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
