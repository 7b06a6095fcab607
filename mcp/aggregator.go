package mcp

import (
	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"jarvis/tools"
)

// Tools converts every tool of every running server for the registry.
func (pm *ProcessManager) Tools() []tools.Tool {
	var all []tools.Tool
	for _, srv := range pm.Servers() {
		all = append(all, ServerTools(srv.Name, srv.HighRisk, srv.Tools, srv.client)...)
	}
	return all
}

// ServerTools converts the tools listed by one server.
func ServerTools(server string, highRisk bool, listed []mcptypes.Tool, caller Caller) []tools.Tool {
	out := make([]tools.Tool, 0, len(listed))
	for _, t := range listed {
		out = append(out, ConvertTool(server, highRisk, t, caller))
	}
	return out
}
