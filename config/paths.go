package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const appName = "jarvis"

// GetConfigDir is $XDG_CONFIG_HOME/jarvis, or ~/.config/jarvis.
func GetConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	return filepath.Join(GetHomeDir(), ".config", appName)
}

// GetCacheDir holds synthesized audio. It is $XDG_CACHE_HOME/jarvis or
// ~/.cache/jarvis, and %LOCALAPPDATA%\jarvis on Windows.
func GetCacheDir() string {
	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, appName)
		}
		return filepath.Join(GetHomeDir(), "AppData", "Local", appName)
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	return filepath.Join(GetHomeDir(), ".cache", appName)
}

func GetSettingsFilePath() string {
	return filepath.Join(GetConfigDir(), "settings.toml")
}

// GetHomeDir falls back to the filesystem root when no home is set, so a
// service account still gets usable paths.
func GetHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return "/"
}

// ExpandPath expands a leading ~ and $VARS, then cleans the result.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return ""
	case path == "~":
		return GetHomeDir()
	case strings.HasPrefix(path, "~/"), strings.HasPrefix(path, `~\`):
		path = filepath.Join(GetHomeDir(), path[2:])
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// EnsureDir creates path with user-only access.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0700)
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDataDirPermissions tightens the data directory to 0700; it holds
// credentials and transcripts.
func EnsureDataDirPermissions(dataDir string) error {
	info, err := os.Stat(dataDir)
	if os.IsNotExist(err) {
		return EnsureDir(dataDir)
	}
	if err != nil {
		return err
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0700 {
		return os.Chmod(dataDir, 0700)
	}
	return nil
}
