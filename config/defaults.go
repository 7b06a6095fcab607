package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/jarvis",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Model: ModelConfig{
			Provider:              "openrouter",
			BaseURL:               "",
			Name:                  "google/gemma-3n-e2b-it:free",
			MaxTokens:             3000,
			ConnectTimeoutSeconds: 60,
			RequestTimeoutSeconds: 180,
		},
		Agent: AgentConfig{
			ProjectDirectory:    "~/jarvis_projects",
			HighRiskTools:       []string{"run_terminal_command"},
			MaxObservationChars: 8000,
		},
		Speech: SpeechConfig{
			Enabled: false,
			Voice:   "onyx",
			Model:   "tts-1",
			Player:  []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
			GraceMS: 500,
		},
		Listener: ListenerConfig{
			WakeWord: "jarvis",
		},
		Fan: FanConfig{
			Host: "",
		},
		UI: UIConfig{
			CopyAnswer: false,
		},
		Credentials: CredentialsConfig{
			Method: SecurityPlainText,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# Jarvis System Configuration
# Location: ~/.config/jarvis/settings.toml
# This file uses TOML format: https://toml.io

# Directory where run history, credentials and user config are stored
data_directory = "~/.local/share/jarvis"
`
}

func GenerateUserConfigTemplate() string {
	return `# Jarvis User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[model]
# One of: openrouter, openai, anthropic, ollama
provider = "openrouter"

# Leave empty for the provider's default endpoint
base_url = ""

# Model identifier sent with every request
name = "google/gemma-3n-e2b-it:free"

# Maximum output tokens per model call
max_tokens = 3000

connect_timeout_seconds = 60
request_timeout_seconds = 180

[agent]
# Every tool runs relative to this directory (created if missing)
project_directory = "~/jarvis_projects"

# Tools that need an explicit yes before they run
high_risk_tools = ["run_terminal_command"]

# Tool output longer than this is truncated before it reaches the model
max_observation_chars = 8000

[speech]
# Speak final answers through OpenAI text-to-speech
enabled = false
voice = "onyx"
model = "tts-1"

# Command used to play the synthesized mp3; the file path is appended
player = ["ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"]

# How long a new answer waits for the previous one to stop talking
grace_ms = 500

[listener]
# Transcripts are ignored unless they contain this word
wake_word = "jarvis"

# Speech recognizer printing one utterance per line (plain text or {"text": "..."}).
# Leave unset to type tasks at the console.
# command = ["python3", "-m", "vosk_stream", "--model", "vosk-model-small-en-us-0.15"]

[fan]
# ESP8266 fan controller, e.g. "http://192.168.1.50"
host = ""

[ui]
# Copy every final answer to the clipboard
copy_answer = false

[credentials]
# plaintext (credentials.toml) or ssh_key (credentials.enc)
method = "plaintext"
# ssh_key_path = "~/.ssh/id_ed25519"

# MCP servers whose tools are offered to the model
# [[mcp_servers]]
# name = "fs"
# command = "npx"
# args = ["-y", "@modelcontextprotocol/server-filesystem", "/tmp"]
#
# [[mcp_servers]]
# name = "calendar"
# url = "https://mcp.example.com/sse"
# transport = "sse"
# headers = { Authorization = "Bearer ..." }
# high_risk = true
`
}
