package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"jarvis/agent"
	"jarvis/config"
	"jarvis/listen"
	"jarvis/mcp"
	"jarvis/model"
	"jarvis/provider"
	"jarvis/speech"
	"jarvis/storage"
	"jarvis/tools"
	"jarvis/ui"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

var (
	modelName  string
	noSpeech   bool
	projectDir string
	showOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "jarvis",
	Short: "Jarvis - a voice-driven ReAct assistant",
	Long: `Jarvis takes a spoken or typed task, reasons about it with a language model,
runs tools (shell, files, web search, timers, the fan, MCP servers) and speaks
the final answer.

Run without arguments to start listening.`,
	Version:       Version + " (" + License + ")",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAssistant(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&modelName, "model", "m", "", "Model identifier (overrides config)")
	rootCmd.PersistentFlags().StringVar(&projectDir, "project-dir", "", "Directory the tools work in (overrides config)")
	rootCmd.Flags().BoolVar(&noSpeech, "no-speech", false, "Print answers without speaking them")
	rootCmd.Flags().BoolVar(&showOutput, "show-output", false, "Print tool output, not only its outcome")

	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(keyCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig reads the config and starts debug logging. Every command goes
// through it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	for _, w := range cfg.Warnings {
		fmt.Fprintln(os.Stderr, "Warning:", w)
	}
	if projectDir != "" {
		cfg.Agent.ProjectDirectory = projectDir
	}
	config.InitDebugLog(cfg.DataDir())
	return cfg, nil
}

func newProvider(cfg *config.Config) (model.Provider, error) {
	ptype := provider.MapProviderIDToType(cfg.Model.Provider)
	var key string
	if provider.RequiresAPIKey(ptype) {
		k, err := cfg.ResolveAPIKey()
		if err != nil {
			return nil, err
		}
		if k == "" {
			return nil, fmt.Errorf("no API key for %s: set JARVIS_API_KEY or run \"jarvis key set %s\"", cfg.Model.Provider, cfg.Model.Provider)
		}
		key = k
	}

	p, err := provider.NewProvider(provider.Config{
		Type:       ptype,
		BaseURL:    cfg.Model.BaseURL,
		Model:      cfg.Model.Name,
		APIKey:     key,
		HTTPClient: provider.NewHTTPClient(cfg.ConnectTimeout(), cfg.RequestTimeout()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", cfg.Model.Provider, err)
	}
	if modelName != "" {
		p.SetModel(modelName)
	}
	return p, nil
}

func runAssistant(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lock := storage.NewInstanceLock(cfg.DataDir())
	locked, pid, err := lock.Check()
	if err != nil {
		return fmt.Errorf("failed to check instance lock: %w", err)
	}
	if locked {
		return fmt.Errorf("another Jarvis is already running (PID %d); only one may use the microphone and speaker", pid)
	}
	if err := lock.Acquire(); err != nil {
		return fmt.Errorf("failed to lock instance: %w", err)
	}
	defer func() {
		if err := lock.Release(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to release instance lock: %v", err)
		}
	}()

	store, err := storage.NewRunStore(cfg.DataDir())
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer store.Close()

	llm, err := newProvider(cfg)
	if err != nil {
		return err
	}
	pingCtx, cancelPing := context.WithTimeout(ctx, 10*time.Second)
	if err := llm.Ping(pingCtx); err != nil {
		// The endpoint may come up later; every run reports its own failure.
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}
	cancelPing()

	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	printer := ui.NewPrinter(os.Stdout, ui.PrinterOptions{
		Width:            terminalWidth(),
		Markdown:         interactive,
		CopyAnswer:       cfg.UI.CopyAnswer,
		ShowObservations: showOutput,
	})

	speaker := speech.NewSpeaker(newSynthesizer(cfg, printer), cfg.SpeechGrace())
	defer func() {
		// Let the last answer finish unless the operator interrupted us.
		if ctx.Err() != nil {
			speaker.Stop()
			return
		}
		speaker.Wait(speech.MaxPlayback)
	}()

	pm := mcp.NewProcessManager()
	defer pm.Shutdown()
	if len(cfg.MCPServers) > 0 {
		if err := pm.StartAll(ctx, cfg.MCPServers); err != nil {
			printer.Error(fmt.Errorf("some MCP servers failed to start: %w", err))
		}
	}

	fan := tools.NewFan(cfg.Fan.Host, &http.Client{Timeout: 10 * time.Second})
	registry, err := newRegistry(fan, speaker, store, pm.Tools())
	if err != nil {
		return err
	}

	console := listen.NewConsoleSource(os.Stdin)
	source, closeSource, err := newSource(ctx, cfg, console, interactive)
	if err != nil {
		return err
	}
	defer closeSource()

	var confirmer tools.Confirmer = ui.NewLineConfirmer(console, os.Stdout)
	if interactive {
		confirmer = ui.ModalConfirmer{}
	}

	dispatcher := tools.NewDispatcher(registry, tools.DispatcherOptions{
		ProjectDir:          cfg.ProjectDir(),
		HighRisk:            cfg.Agent.HighRiskTools,
		MaxObservationChars: cfg.Agent.MaxObservationChars,
		Confirmer:           confirmer,
	})

	jarvis, err := agent.New(agent.Options{
		Provider:   llm,
		Dispatcher: dispatcher,
		MaxTokens:  cfg.Model.MaxTokens,
		ProjectDir: cfg.ProjectDir(),
		Status:     fan,
		Announcer:  speaker,
		Recorder:   store,
		Observer:   printer,
	})
	if err != nil {
		return err
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("Jarvis %s started: provider=%s model=%s tools=%d", Version, cfg.Model.Provider, llm.GetModel(), registry.Len())
	}
	printer.Info(fmt.Sprintf("Jarvis %s ready (%s, %s). %d tools loaded.", Version, cfg.Model.Provider, llm.GetModel(), registry.Len()))
	if len(cfg.Listener.Command) > 0 {
		printer.Info(fmt.Sprintf("Say %q followed by your task.", cfg.Listener.WakeWord))
	}

	for {
		task, err := source.Next(ctx)
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read task: %w", err)
		}

		speaker.Stop()
		printer.Task(task)
		if _, err := jarvis.Run(ctx, task); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			printer.Error(err)
		}
	}
}

// newSynthesizer returns speech.Nop whenever speech is off or cannot work.
func newSynthesizer(cfg *config.Config, printer *ui.Printer) speech.Synthesizer {
	if noSpeech || !cfg.Speech.Enabled {
		return speech.Nop{}
	}
	key, err := cfg.ResolveSpeechKey()
	if err != nil || key == "" {
		printer.Info("Speech disabled: no OpenAI API key (set OPENAI_API_KEY).")
		return speech.Nop{}
	}
	player, err := speech.NewCommandPlayer(cfg.Speech.Player)
	if err != nil {
		printer.Info(fmt.Sprintf("Speech disabled: %v", err))
		return speech.Nop{}
	}
	return speech.NewOpenAITTS(key, cfg.Speech.Model, cfg.Speech.Voice, nil, player)
}

// newSource picks where tasks come from: the speech recognizer when one is
// configured, an inline prompt on a terminal, plain lines otherwise.
func newSource(ctx context.Context, cfg *config.Config, console *listen.ConsoleSource, interactive bool) (listen.Source, func(), error) {
	if len(cfg.Listener.Command) > 0 {
		t, err := listen.StartCommandTranscriber(ctx, cfg.Listener.Command)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := t.Close(); err != nil && config.DebugLog != nil {
				config.DebugLog.Printf("[Listen] Transcriber exited: %v", err)
			}
		}
		return listen.NewWakeWordSource(t, cfg.Listener.WakeWord), closeFn, nil
	}
	if interactive {
		return ui.PromptSource{}, func() {}, nil
	}
	return console, func() {}, nil
}

func newRegistry(fan *tools.Fan, speaker tools.Announcer, runs tools.RunSearcher, extra []tools.Tool) (*tools.Registry, error) {
	all := fan.Tools()
	all = append(all,
		tools.NewSearcher("", nil).Tool(),
		tools.TimerTool(speaker),
		tools.ShellTool(),
	)
	all = append(all, tools.FileTools()...)
	all = append(all,
		tools.HistoryTool(runs),
		tools.ClockTool(time.Now),
	)
	all = append(all, extra...)

	registry, err := tools.NewRegistry(all...)
	if err != nil {
		return nil, fmt.Errorf("failed to build tool registry: %w", err)
	}
	return registry, nil
}

func terminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
