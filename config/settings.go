package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// UserConfigPath is <data_dir>/config.toml.
func UserConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config.toml")
}

// LoadSystemConfig reads settings.toml, writing the commented template on
// first run.
func LoadSystemConfig() (*SystemConfig, error) {
	cfg := DefaultSystemConfig()
	if err := EnsureDir(GetConfigDir()); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := decodeOrCreate(GetSettingsFilePath(), GenerateSystemConfigTemplate(), cfg); err != nil {
		return nil, fmt.Errorf("system config: %w", err)
	}
	return cfg, nil
}

// LoadUserConfig reads <data_dir>/config.toml over the defaults. Keys the
// config does not know are returned so the caller can warn about typos.
func LoadUserConfig(dataDir string) (*UserConfig, []string, error) {
	cfg := DefaultUserConfig()
	if err := EnsureDir(dataDir); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	unknown, err := decodeOrCreate(UserConfigPath(dataDir), GenerateUserConfigTemplate(), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("user config: %w", err)
	}
	return cfg, unknown, nil
}

// decodeOrCreate decodes path into dst. A missing file is created from
// template and dst keeps its defaults.
func decodeOrCreate(path, template string, dst any) ([]string, error) {
	meta, err := toml.DecodeFile(path, dst)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(path, []byte(template), 0600); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	var unknown []string
	for _, key := range meta.Undecoded() {
		unknown = append(unknown, key.String())
	}
	sort.Strings(unknown)
	return unknown, nil
}
