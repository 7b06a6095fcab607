package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type ModelConfig struct {
	Provider              string `toml:"provider"`
	BaseURL               string `toml:"base_url"`
	Name                  string `toml:"name"`
	MaxTokens             int    `toml:"max_tokens"`
	ConnectTimeoutSeconds int    `toml:"connect_timeout_seconds"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

type AgentConfig struct {
	ProjectDirectory    string   `toml:"project_directory"`
	HighRiskTools       []string `toml:"high_risk_tools"`
	MaxObservationChars int      `toml:"max_observation_chars"`
}

type SpeechConfig struct {
	Enabled bool     `toml:"enabled"`
	Voice   string   `toml:"voice"`
	Model   string   `toml:"model"`
	Player  []string `toml:"player"`
	GraceMS int      `toml:"grace_ms"`
}

type ListenerConfig struct {
	WakeWord string `toml:"wake_word"`
	// Command is an external speech recognizer printing one utterance per
	// line. Empty means tasks are typed at the console.
	Command []string `toml:"command,omitempty"`
}

type FanConfig struct {
	Host string `toml:"host"`
}

type UIConfig struct {
	CopyAnswer bool `toml:"copy_answer"`
}

type CredentialsConfig struct {
	Method     SecurityMethod `toml:"method"`
	SSHKeyPath string         `toml:"ssh_key_path,omitempty"`
}

// MCPServerConfig describes one MCP server whose tools are exposed to the
// agent. Local servers set Command; remote servers set URL.
type MCPServerConfig struct {
	Name    string            `toml:"name"`
	Command string            `toml:"command,omitempty"`
	Args    []string          `toml:"args,omitempty"`
	Env     map[string]string `toml:"env,omitempty"`

	URL       string            `toml:"url,omitempty"`
	Transport string            `toml:"transport,omitempty"` // "sse" (default) or "streamable-http"
	Headers   map[string]string `toml:"headers,omitempty"`

	// HighRisk tools of this server ask for confirmation before running.
	HighRisk bool `toml:"high_risk,omitempty"`
}

type UserConfig struct {
	Model       ModelConfig       `toml:"model"`
	Agent       AgentConfig       `toml:"agent"`
	Speech      SpeechConfig      `toml:"speech"`
	Listener    ListenerConfig    `toml:"listener"`
	Fan         FanConfig         `toml:"fan"`
	UI          UIConfig          `toml:"ui"`
	Credentials CredentialsConfig `toml:"credentials"`
	MCPServers  []MCPServerConfig `toml:"mcp_servers"`
}

type Config struct {
	DataDirectory string
	UserConfig

	// APIKey comes from JARVIS_API_KEY or the credential store, never from config.toml.
	APIKey string

	// Warnings are non-fatal problems found while loading.
	Warnings []string
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) ProjectDir() string {
	return ExpandPath(c.Agent.ProjectDirectory)
}

func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Model.ConnectTimeoutSeconds) * time.Second
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Model.RequestTimeoutSeconds) * time.Second
}

func (c *Config) SpeechGrace() time.Duration {
	return time.Duration(c.Speech.GraceMS) * time.Millisecond
}

func (c *Config) applyEnvOverrides() {
	if provider := os.Getenv("JARVIS_PROVIDER"); provider != "" {
		c.Model.Provider = provider
	}
	if model := os.Getenv("JARVIS_MODEL"); model != "" {
		c.Model.Name = model
	}
	if key := os.Getenv("JARVIS_API_KEY"); key != "" {
		c.APIKey = key
	}
	if dir := os.Getenv("JARVIS_PROJECT_DIR"); dir != "" {
		c.Agent.ProjectDirectory = dir
	}
}

// fillDefaults replaces zero values left by a sparse config.toml.
func (c *Config) fillDefaults() {
	def := DefaultUserConfig()
	if c.Model.Provider == "" {
		c.Model.Provider = def.Model.Provider
	}
	if c.Model.Name == "" {
		c.Model.Name = def.Model.Name
	}
	if c.Model.MaxTokens <= 0 {
		c.Model.MaxTokens = def.Model.MaxTokens
	}
	if c.Model.ConnectTimeoutSeconds <= 0 {
		c.Model.ConnectTimeoutSeconds = def.Model.ConnectTimeoutSeconds
	}
	if c.Model.RequestTimeoutSeconds <= 0 {
		c.Model.RequestTimeoutSeconds = def.Model.RequestTimeoutSeconds
	}
	if c.Agent.ProjectDirectory == "" {
		c.Agent.ProjectDirectory = def.Agent.ProjectDirectory
	}
	if c.Agent.HighRiskTools == nil {
		c.Agent.HighRiskTools = def.Agent.HighRiskTools
	}
	if c.Agent.MaxObservationChars <= 0 {
		c.Agent.MaxObservationChars = def.Agent.MaxObservationChars
	}
	if c.Speech.Voice == "" {
		c.Speech.Voice = def.Speech.Voice
	}
	if c.Speech.Model == "" {
		c.Speech.Model = def.Speech.Model
	}
	if len(c.Speech.Player) == 0 {
		c.Speech.Player = def.Speech.Player
	}
	if c.Speech.GraceMS <= 0 {
		c.Speech.GraceMS = def.Speech.GraceMS
	}
	if c.Listener.WakeWord == "" {
		c.Listener.WakeWord = def.Listener.WakeWord
	}
	if c.Credentials.Method == "" {
		c.Credentials.Method = def.Credentials.Method
	}
}

func CheckDebug() bool {
	debug := strings.ToLower(os.Getenv("JARVIS_DEBUG"))
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600, transcripts end up in here
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (JARVIS_DEBUG=%s) ===", os.Getenv("JARVIS_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Load reads settings.toml and <data_dir>/config.toml, creating commented
// defaults on first run, then applies JARVIS_* environment overrides.
func Load() (*Config, error) {
	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}

	cfg := &Config{DataDirectory: systemCfg.DataDirectory}
	if dataDir := os.Getenv("JARVIS_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, unknown, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.UserConfig = *userCfg
	for _, key := range unknown {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown key %q in %s", key, UserConfigPath(dataDir)))
	}
	cfg.fillDefaults()
	cfg.applyEnvOverrides()

	return cfg, nil
}

// ResolveAPIKey returns the key for the configured provider. The environment
// wins; otherwise the credential store in the data directory is consulted.
func (c *Config) ResolveAPIKey() (string, error) {
	if c.APIKey != "" {
		return c.APIKey, nil
	}

	key, err := c.storedKey(c.Model.Provider)
	if err != nil {
		return "", err
	}
	c.APIKey = key
	return c.APIKey, nil
}

// ResolveSpeechKey returns the OpenAI key used for text-to-speech:
// OPENAI_API_KEY, then the "openai" credential, then the model key when the
// model provider is itself openai.
func (c *Config) ResolveSpeechKey() (string, error) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key, nil
	}
	if c.Model.Provider == "openai" && c.APIKey != "" {
		return c.APIKey, nil
	}
	return c.storedKey("openai")
}

func (c *Config) storedKey(name string) (string, error) {
	keyPath := ExpandPath(c.Credentials.SSHKeyPath)
	store := NewCredentialStore(c.Credentials.Method, keyPath)
	store.SetPassphrase(os.Getenv("JARVIS_SSH_PASSPHRASE"))
	if err := store.Load(c.DataDir()); err != nil {
		return "", fmt.Errorf("failed to load credentials: %w", err)
	}
	return store.Get(name), nil
}
