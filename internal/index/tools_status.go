package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListArgument defines parameters for the list tool. There are none; the
// tool enumerates every index under the tenant root.
type ListArgument struct{}

// StatsArgument defines parameters for the stats tool.
type StatsArgument struct {
	Index string `json:"index" jsonschema_description:"Name of the index to describe"`
}

// StatusHandler handles the index admin MCP tools.
type StatusHandler struct {
	service *Service
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(service *Service) *StatusHandler {
	return &StatusHandler{service: service}
}

// HandleList enumerates the indexes with their document counts.
func (h *StatusHandler) HandleList(ctx context.Context, req *mcp.CallToolRequest, args ListArgument) (*mcp.CallToolResult, any, error) {
	names, err := h.service.Registry().ListIndexes()
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to list indexes: %s", err)), nil, nil
	}

	if len(names) == 0 {
		return textResult("No indexes exist."), nil, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d indexes:\n\n", len(names)))
	for _, name := range names {
		numDocs, err := h.service.Store().NumDocs(name)
		if err != nil {
			sb.WriteString(fmt.Sprintf("- %s (unreadable: %s)\n", name, err))
			continue
		}
		sb.WriteString(fmt.Sprintf("- %s (%d documents)\n", name, numDocs))
	}

	return textResult(sb.String()), nil, nil
}

// HandleStats describes a single index. An absent index is reported as
// absent, not as an error.
func (h *StatusHandler) HandleStats(ctx context.Context, req *mcp.CallToolRequest, args StatsArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Index) == "" {
		return errorResult("Index name cannot be empty"), nil, nil
	}

	stats, err := h.service.Stats(args.Index)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to read stats for %q: %s", args.Index, err)), nil, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Index: %s\n", stats.Name))
	sb.WriteString(fmt.Sprintf("Exists: %t\n", stats.Exists))
	if stats.Exists {
		sb.WriteString(fmt.Sprintf("Documents: %d\n", stats.NumDocs))
		sb.WriteString(fmt.Sprintf("Fields: %s\n", strings.Join(stats.Fields, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Last indexed (UTC): %s\n", stats.LastIndexedUtc.Format("2006-01-02T15:04:05Z07:00")))

	return textResult(sb.String()), nil, nil
}

// GetListToolDefinition returns the list tool definition.
func (h *StatusHandler) GetListToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_indexes",
		Description: "List all full-text indexes under the tenant root with their document counts",
	}
}

// GetStatsToolDefinition returns the stats tool definition.
func (h *StatusHandler) GetStatsToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "index_stats",
		Description: "Describe a named full-text index: existence, document count, fields and last-indexed time",
	}
}

// RegisterStatusTools registers the admin tools with an MCP server.
func RegisterStatusTools(server *mcp.Server, service *Service) {
	handler := NewStatusHandler(service)
	mcp.AddTool(server, handler.GetListToolDefinition(), handler.HandleList)
	mcp.AddTool(server, handler.GetStatsToolDefinition(), handler.HandleStats)
}
