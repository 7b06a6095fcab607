package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"jarvis/tools"
)

// ToolName joins server and tool names into an identifier the action
// grammar accepts, e.g. fs__read_text_file.
func ToolName(server, tool string) string {
	return identifier(server) + "__" + identifier(tool)
}

func identifier(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// ConvertTool wraps one MCP tool as a keyword-only registry tool. Required
// schema properties come first, in schema order; optional ones follow,
// sorted, with a None default so unset values are not sent.
func ConvertTool(server string, highRisk bool, t mcptypes.Tool, caller Caller) tools.Tool {
	schema := t.InputSchema
	return tools.Tool{
		Name:        ToolName(server, t.Name),
		Params:      convertInputSchemaToParams(schema),
		Doc:         strings.TrimSpace(t.Description),
		HighRisk:    highRisk,
		KeywordOnly: true,
		Func: func(ctx context.Context, call tools.Call) (string, error) {
			args, err := coerceArgs(schema, call)
			if err != nil {
				return "", err
			}
			res, err := caller.CallTool(ctx, mcptypes.CallToolRequest{
				Params: mcptypes.CallToolParams{Name: t.Name, Arguments: args},
			})
			if err != nil {
				return "", fmt.Errorf("mcp call %s failed: %w", t.Name, err)
			}
			return ResultText(res)
		},
	}
}

func convertInputSchemaToParams(schema mcptypes.ToolInputSchema) []tools.Param {
	required := make(map[string]bool, len(schema.Required))
	params := make([]tools.Param, 0, len(schema.Properties))
	for _, name := range schema.Required {
		if _, ok := schema.Properties[name]; !ok || required[name] {
			continue
		}
		required[name] = true
		params = append(params, tools.Param{Name: name, Description: propertyDescription(schema.Properties[name])})
	}

	optional := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		if !required[name] {
			optional = append(optional, name)
		}
	}
	sort.Strings(optional)
	for _, name := range optional {
		params = append(params, tools.Param{
			Name:        name,
			HasDefault:  true,
			Description: propertyDescription(schema.Properties[name]),
		})
	}
	return params
}

func propertyMap(prop any) map[string]any {
	if m, ok := prop.(map[string]any); ok {
		return m
	}
	data, err := json.Marshal(prop)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

func propertyDescription(prop any) string {
	desc, _ := propertyMap(prop)["description"].(string)
	return strings.TrimSpace(desc)
}

func propertyType(prop any) string {
	switch t := propertyMap(prop)["type"].(type) {
	case string:
		return t
	case []any:
		// ["string", "null"] style unions: first non-null type wins.
		for _, v := range t {
			if s, ok := v.(string); ok && s != "null" {
				return s
			}
		}
	}
	return ""
}

// coerceArgs drops unset optional arguments and converts literal values to
// the JSON type the schema declares.
func coerceArgs(schema mcptypes.ToolInputSchema, call tools.Call) (map[string]any, error) {
	args := make(map[string]any, len(call.Args))
	for name, value := range call.Args {
		if value == nil {
			continue
		}
		var err error
		switch propertyType(schema.Properties[name]) {
		case "integer":
			args[name], err = call.Int(name)
		case "number":
			args[name], err = call.Float(name)
		case "boolean":
			args[name], err = call.Bool(name)
		case "string":
			args[name] = call.String(name)
		case "array", "object":
			args[name], err = decodeJSONArg(name, value)
		default:
			args[name] = value
		}
		if err != nil {
			return nil, err
		}
	}
	return args, nil
}

// decodeJSONArg accepts a list or dict literal written as text.
func decodeJSONArg(name string, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	var out any
	if err := json.Unmarshal([]byte(strings.ReplaceAll(s, "'", "\"")), &out); err != nil {
		return nil, fmt.Errorf("%w: %s must be JSON, got %q", tools.ErrInvalidArgType, name, s)
	}
	return out, nil
}

// ResultText flattens a tool result into observation text. Results flagged
// as errors become Go errors.
func ResultText(res *mcptypes.CallToolResult) (string, error) {
	if res == nil {
		return "", fmt.Errorf("mcp server returned no result")
	}

	parts := make([]string, 0, len(res.Content))
	for _, c := range res.Content {
		switch v := c.(type) {
		case mcptypes.TextContent:
			parts = append(parts, v.Text)
		case mcptypes.ImageContent:
			parts = append(parts, fmt.Sprintf("[image %s]", v.MIMEType))
		default:
			parts = append(parts, fmt.Sprintf("[%T]", c))
		}
	}
	text := strings.Join(parts, "\n")

	if res.IsError {
		if text == "" {
			text = "tool reported an error"
		}
		return "", fmt.Errorf("%s", text)
	}
	if text == "" {
		return "Tool returned no content.", nil
	}
	return text, nil
}
