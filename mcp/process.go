// Package mcp starts MCP servers and imports their tools into the registry.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"

	"jarvis/config"
)

const protocolVersion = "2025-06-18"

// Caller is the part of an MCP client a server's tools need.
type Caller interface {
	CallTool(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error)
}

type Server struct {
	Name     string
	HighRisk bool
	Tools    []mcptypes.Tool

	client  *client.Client
	process *exec.Cmd
}

type ProcessManager struct {
	servers map[string]*Server
	order   []string
	mu      sync.RWMutex
}

func NewProcessManager() *ProcessManager {
	return &ProcessManager{servers: make(map[string]*Server)}
}

// Start connects to one server, runs the initialize handshake and lists its
// tools.
func (pm *ProcessManager) Start(ctx context.Context, cfg config.MCPServerConfig) error {
	if cfg.Name == "" {
		return errors.New("mcp server needs a name")
	}

	pm.mu.RLock()
	_, running := pm.servers[cfg.Name]
	pm.mu.RUnlock()
	if running {
		return fmt.Errorf("mcp server %s already running", cfg.Name)
	}

	var (
		mcpClient *client.Client
		cmd       *exec.Cmd
		err       error
	)
	switch {
	case cfg.URL != "":
		mcpClient, err = createRemoteClient(ctx, cfg)
	case cfg.Command != "":
		mcpClient, cmd, err = createLocalClient(cfg)
	default:
		err = errors.New("either command or url is required")
	}
	if err != nil {
		return fmt.Errorf("failed to start mcp server %s: %w", cfg.Name, err)
	}

	initReq := mcptypes.InitializeRequest{
		Params: mcptypes.InitializeParams{
			ProtocolVersion: protocolVersion,
			Capabilities:    mcptypes.ClientCapabilities{},
			ClientInfo: mcptypes.Implementation{
				Name:    "Jarvis",
				Version: "1.0.0",
			},
		},
	}
	if _, err := mcpClient.Initialize(ctx, initReq); err != nil {
		closeClient(cfg.Name, mcpClient, cmd)
		return fmt.Errorf("failed to initialize mcp server %s: %w", cfg.Name, err)
	}

	toolsResult, err := mcpClient.ListTools(ctx, mcptypes.ListToolsRequest{})
	if err != nil {
		closeClient(cfg.Name, mcpClient, cmd)
		return fmt.Errorf("failed to list tools for %s: %w", cfg.Name, err)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[MCP] Started '%s' with %d tools", cfg.Name, len(toolsResult.Tools))
	}

	pm.mu.Lock()
	pm.servers[cfg.Name] = &Server{
		Name:     cfg.Name,
		HighRisk: cfg.HighRisk,
		Tools:    toolsResult.Tools,
		client:   mcpClient,
		process:  cmd,
	}
	pm.order = append(pm.order, cfg.Name)
	pm.mu.Unlock()
	return nil
}

// StartAll starts every configured server. Servers that fail are logged and
// skipped; their errors are returned together.
func (pm *ProcessManager) StartAll(ctx context.Context, servers []config.MCPServerConfig) error {
	var errs []error
	for _, cfg := range servers {
		if err := pm.Start(ctx, cfg); err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[MCP] %v", err)
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (pm *ProcessManager) Servers() []*Server {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	out := make([]*Server, 0, len(pm.order))
	for _, name := range pm.order {
		out = append(out, pm.servers[name])
	}
	return out
}

func (pm *ProcessManager) Stop(name string) error {
	pm.mu.Lock()
	srv, ok := pm.servers[name]
	if ok {
		delete(pm.servers, name)
		for i, n := range pm.order {
			if n == name {
				pm.order = append(pm.order[:i], pm.order[i+1:]...)
				break
			}
		}
	}
	pm.mu.Unlock()
	if !ok {
		return fmt.Errorf("mcp server %s not found", name)
	}

	closeClient(name, srv.client, srv.process)
	return nil
}

// Shutdown stops all servers in parallel.
func (pm *ProcessManager) Shutdown() {
	pm.mu.RLock()
	names := append([]string(nil), pm.order...)
	pm.mu.RUnlock()

	var g errgroup.Group
	for _, name := range names {
		g.Go(func() error { return pm.Stop(name) })
	}
	if err := g.Wait(); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[MCP] Shutdown: %v", err)
	}
}

// closeClient gives the client a second to close, then kills a local process.
func closeClient(name string, c *client.Client, cmd *exec.Cmd) {
	closed := false
	if c != nil {
		done := make(chan error, 1)
		go func() { done <- c.Close() }()
		select {
		case err := <-done:
			closed = err == nil
			if err != nil && config.DebugLog != nil {
				config.DebugLog.Printf("[MCP] Error closing '%s': %v", name, err)
			}
		case <-time.After(time.Second):
			if config.DebugLog != nil {
				config.DebugLog.Printf("[MCP] Close timeout for '%s'", name)
			}
		}
	}

	if !closed && cmd != nil && cmd.Process != nil {
		if err := cmd.Process.Kill(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[MCP] Error killing '%s' (PID %d): %v", name, cmd.Process.Pid, err)
		}
	}
}

func createRemoteClient(ctx context.Context, cfg config.MCPServerConfig) (*client.Client, error) {
	var (
		mcpClient *client.Client
		err       error
	)
	switch cfg.Transport {
	case "", "sse":
		var opts []transport.ClientOption
		if len(cfg.Headers) > 0 {
			opts = append(opts, transport.WithHeaders(cfg.Headers))
		}
		mcpClient, err = client.NewSSEMCPClient(cfg.URL, opts...)
	case "streamable-http":
		var opts []transport.StreamableHTTPCOption
		if len(cfg.Headers) > 0 {
			opts = append(opts, transport.WithHTTPHeaders(cfg.Headers))
		}
		mcpClient, err = client.NewStreamableHttpClient(cfg.URL, opts...)
	default:
		return nil, fmt.Errorf("unknown transport type: %s", cfg.Transport)
	}
	if err != nil {
		return nil, err
	}

	// Remote transports must be started before Initialize.
	if err := mcpClient.GetTransport().Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start %s transport: %w", cfg.Transport, err)
	}
	if config.DebugLog != nil {
		config.DebugLog.Printf("[MCP] Connected to '%s' at %s", cfg.Name, cfg.URL)
	}
	return mcpClient, nil
}

func createLocalClient(cfg config.MCPServerConfig) (*client.Client, *exec.Cmd, error) {
	var captured *exec.Cmd
	cmdFunc := func(ctx context.Context, command string, env []string, args []string) (*exec.Cmd, error) {
		cmd := exec.CommandContext(ctx, command, args...)
		cmd.Env = env
		captured = cmd
		return cmd, nil
	}

	mcpClient, err := client.NewStdioMCPClientWithOptions(
		config.ExpandPath(cfg.Command),
		configToEnv(cfg.Env),
		cfg.Args,
		transport.WithCommandFunc(cmdFunc),
	)
	if err != nil {
		return nil, nil, err
	}

	if captured != nil && captured.Process != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[MCP] Started '%s' with PID %d", cfg.Name, captured.Process.Pid)
	}
	return mcpClient, captured, nil
}

// configToEnv keeps the current environment (PATH in particular) and adds
// the server's variables on top.
func configToEnv(envMap map[string]string) []string {
	env := os.Environ()
	for k, v := range envMap {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env
}
