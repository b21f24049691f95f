package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/procboard/internal/domain/card"
)

// ToolDefinition describes a tool and its JSON input schema.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func enumProp(description string, values ...string) map[string]any {
	return map[string]any{"type": "string", "description": description, "enum": values}
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

var statusValues = []string{"pending", "in_progress", "done"}

func assigneeValues() []string {
	values := []string{""}
	for _, a := range card.Assignees() {
		values = append(values, string(a))
	}
	return values
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	processProp := stringProp("Process name")
	cardBody := map[string]any{
		"type":        "object",
		"description": "Card attributes. Unknown attributes are stored as-is.",
		"properties": map[string]any{
			"list_id":     stringProp("Id of the list holding the card"),
			"title":       stringProp("Card title"),
			"assignee":    enumProp("Responsible area", assigneeValues()...),
			"description": stringProp("Card description"),
			"status":      enumProp("Card status", statusValues...),
			"start":       stringProp("Start instant (ISO 8601; no zone means UTC)"),
			"due":         stringProp("Due instant (ISO 8601; no zone means UTC)"),
		},
		"additionalProperties": true,
	}

	return []ToolDefinition{
		// Processes
		{
			Name:        "create_process",
			Description: "Register a new process. Its namespaces are created lazily on first write.",
			InputSchema: objectSchema(map[string]any{
				"name":        stringProp("Unique process name (case-insensitive)"),
				"description": stringProp("Process description"),
				"start":       stringProp("Start instant (ISO 8601; no zone means UTC)"),
				"end":         stringProp("End instant (ISO 8601; no zone means UTC)"),
				"status":      enumProp("Process status (default pending)", statusValues...),
			}, "name", "start", "end"),
		},
		{
			Name:        "list_processes",
			Description: "List process summaries ordered by creation time",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "get_process",
			Description: "Get a process by name",
			InputSchema: objectSchema(map[string]any{"process": processProp}, "process"),
		},
		{
			Name:        "update_process",
			Description: "Update process fields. A new name renames every namespace the process owns; the response reports each kind.",
			InputSchema: objectSchema(map[string]any{
				"process":     processProp,
				"name":        stringProp("New process name"),
				"description": stringProp("Process description"),
				"start":       stringProp("Start instant"),
				"end":         stringProp("End instant"),
				"status":      enumProp("Process status", statusValues...),
			}, "process"),
		},
		{
			Name:        "retry_rename",
			Description: "Re-run namespace renames after a partially failed rename. Safe to repeat.",
			InputSchema: objectSchema(map[string]any{
				"old_name": stringProp("Name before the rename"),
				"new_name": stringProp("Name the registry now holds"),
			}, "old_name", "new_name"),
		},
		{
			Name:        "delete_process",
			Description: "Delete a process and drop its lists, cards and charts",
			InputSchema: objectSchema(map[string]any{"process": processProp}, "process"),
		},

		// Lists
		{
			Name:        "list_lists",
			Description: "List the lists of a process",
			InputSchema: objectSchema(map[string]any{"process": processProp}, "process"),
		},
		{
			Name:        "create_list",
			Description: "Create a list in a process",
			InputSchema: objectSchema(map[string]any{
				"process": processProp,
				"title":   stringProp("List title"),
			}, "process", "title"),
		},
		{
			Name:        "update_list",
			Description: "Rename a list",
			InputSchema: objectSchema(map[string]any{
				"process": processProp,
				"id":      stringProp("List id"),
				"title":   stringProp("List title"),
			}, "process", "id", "title"),
		},
		{
			Name:        "delete_list",
			Description: "Delete a list and every card it holds",
			InputSchema: objectSchema(map[string]any{
				"process": processProp,
				"id":      stringProp("List id"),
			}, "process", "id"),
		},

		// Cards
		{
			Name:        "list_cards",
			Description: "List the cards of a process, optionally for one list",
			InputSchema: objectSchema(map[string]any{
				"process": processProp,
				"list_id": stringProp("Only cards of this list"),
			}, "process"),
		},
		{
			Name:        "get_card",
			Description: "Get a card by id",
			InputSchema: objectSchema(map[string]any{
				"process": processProp,
				"id":      stringProp("Card id"),
			}, "process", "id"),
		},
		{
			Name:        "create_card",
			Description: "Create a card. title and list_id are required; status done stamps completion.",
			InputSchema: objectSchema(map[string]any{
				"process": processProp,
				"card":    cardBody,
			}, "process", "card"),
		},
		{
			Name:        "update_card",
			Description: "Update card attributes. Entering done stamps completion; leaving done clears it.",
			InputSchema: objectSchema(map[string]any{
				"process": processProp,
				"id":      stringProp("Card id"),
				"card":    cardBody,
			}, "process", "id", "card"),
		},
		{
			Name:        "delete_card",
			Description: "Delete a card",
			InputSchema: objectSchema(map[string]any{
				"process": processProp,
				"id":      stringProp("Card id"),
			}, "process", "id"),
		},

		// Charts
		{
			Name:        "list_charts",
			Description: "List the charts of a process",
			InputSchema: objectSchema(map[string]any{"process": processProp}, "process"),
		},
		{
			Name:        "create_chart",
			Description: "Create a chart definition",
			InputSchema: objectSchema(map[string]any{
				"process":    processProp,
				"chart_type": stringProp("Chart type"),
				"filter":     stringProp("Filter expression"),
				"period":     stringProp("Period"),
			}, "process"),
		},
		{
			Name:        "update_chart",
			Description: "Update a chart definition",
			InputSchema: objectSchema(map[string]any{
				"process":    processProp,
				"id":         stringProp("Chart id"),
				"chart_type": stringProp("Chart type"),
				"filter":     stringProp("Filter expression"),
				"period":     stringProp("Period"),
			}, "process", "id"),
		},
		{
			Name:        "delete_chart",
			Description: "Delete a chart definition",
			InputSchema: objectSchema(map[string]any{
				"process": processProp,
				"id":      stringProp("Chart id"),
			}, "process", "id"),
		},
	}
}

func registerTools(server *sdkmcp.Server, handler *Handler, logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := handler.Handle(ctx, name, args)
			if err != nil {
				logger.Warn("tool failed", "tool", name, "error", err)
				return toolError(err), nil
			}
			return toolResult(result)
		})
	}
}

func toolResult(v any) (*sdkmcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}

func toolError(err error) *sdkmcp.CallToolResult {
	apiErr := MapError(err)
	if apiErr == nil {
		apiErr = internalError(err)
	}
	data, _ := json.Marshal(apiErr)
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}
