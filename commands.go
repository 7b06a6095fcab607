package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/x/term"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"jarvis/config"
	"jarvis/storage"
	"jarvis/ui"
)

var historyLimit int

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models the configured provider offers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		llm, err := newProvider(cfg)
		if err != nil {
			return err
		}
		models, err := llm.ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, m := range models {
			line := m.Name
			if m.Name == llm.GetModel() {
				line = ui.AnswerStyle.Render(line + " (current)")
			}
			if m.Size > 0 {
				line += ui.DimStyle.Render("  " + humanize.Bytes(uint64(m.Size)))
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "Show recent tasks, or search them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := storage.NewRunStore(cfg.DataDir())
		if err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
		defer store.Close()

		var runs []storage.Run
		if len(args) == 1 {
			runs, err = store.Search(cmd.Context(), args[0], historyLimit)
		} else {
			runs, err = store.List(cmd.Context(), historyLimit)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No tasks recorded yet.")
			return nil
		}
		for _, run := range runs {
			fmt.Fprintln(out, formatRunLine(run, time.Now()))
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <run-id> [path]",
	Short: "Write one run and its transcript as JSON",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := storage.NewRunStore(cfg.DataDir())
		if err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
		defer store.Close()

		run, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("no run with id %q (see jarvis history)", args[0])
		}
		path := storage.GenerateExportPath(run.ID)
		if len(args) == 2 {
			path = args[1]
		}
		if err := storage.ExportRun(run, path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported run %s to %s\n", run.ID, path)
		return nil
	},
}

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage API keys in the credential store",
}

var keySetCmd = &cobra.Command{
	Use:   "set <provider>",
	Short: "Store the API key for a provider (openrouter, openai, anthropic)",
	Long: `Store the API key for a provider. The key is read from the terminal without
echo, or from the first line of stdin when piped. The "openai" key is also used
for speech.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := openCredentials()
		if err != nil {
			return err
		}
		key, err := readSecret(cmd, fmt.Sprintf("API key for %s: ", args[0]))
		if err != nil {
			return err
		}
		if key == "" {
			return fmt.Errorf("empty key, nothing stored")
		}
		store.Set(args[0], key)
		if err := store.Save(cfg.DataDir()); err != nil {
			return fmt.Errorf("failed to save credentials: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %s key (%s).\n", args[0], cfg.Credentials.Method)
		return nil
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete <provider>",
	Short: "Remove the stored API key for a provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := openCredentials()
		if err != nil {
			return err
		}
		if store.Get(args[0]) == "" {
			return fmt.Errorf("no key stored for %s", args[0])
		}
		store.Delete(args[0])
		if err := store.Save(cfg.DataDir()); err != nil {
			return fmt.Errorf("failed to save credentials: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s key.\n", args[0])
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to show")

	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyDeleteCmd)
}

func openCredentials() (*config.Config, *config.CredentialStore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store := config.NewCredentialStore(cfg.Credentials.Method, config.ExpandPath(cfg.Credentials.SSHKeyPath))
	store.SetPassphrase(os.Getenv("JARVIS_SSH_PASSPHRASE"))
	if err := store.Load(cfg.DataDir()); err != nil {
		return nil, nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	return cfg, store, nil
}

func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	if in, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(in.Fd()) {
		fmt.Fprint(cmd.OutOrStdout(), prompt)
		b, err := term.ReadPassword(in.Fd())
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("failed to read key: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read key: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// formatRunLine renders "<id>  <age>  <status>  <task>" for the history list.
func formatRunLine(run storage.Run, now time.Time) string {
	task := strings.Join(strings.Fields(run.Task), " ")
	if utf8.RuneCountInString(task) > 60 {
		task = string([]rune(task)[:57]) + "..."
	}
	age := humanize.RelTime(run.StartedAt, now, "ago", "from now")
	return fmt.Sprintf("%s  %-14s  %-9s  %s", run.ID, age, run.Status, task)
}
