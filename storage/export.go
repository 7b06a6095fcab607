package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// GenerateExportPath returns ~/jarvis_run_<id prefix>_<timestamp>.json.
func GenerateExportPath(runID string) string {
	home, _ := os.UserHomeDir()
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	name := fmt.Sprintf("jarvis_run_%s_%s.json", short, time.Now().Format("20060102_150405"))
	return filepath.Join(home, name)
}

// ExportRun writes the run with its transcript as indented JSON.
func ExportRun(run *Run, exportPath string) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(exportPath), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
