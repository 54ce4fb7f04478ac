package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/indexhouse/mcp-ftindex-server/internal/domain"
)

// SearchArgument defines search parameters.
type SearchArgument struct {
	Index string `json:"index" jsonschema_description:"Name of the index to search"`
	Query string `json:"query" jsonschema_description:"Search text, analyzed the same way as indexed content"`
	Field string `json:"field,omitempty" jsonschema_description:"Restrict matching to a single field name"`
	Limit int    `json:"limit,omitempty" jsonschema_description:"Maximum number of results (defaults to the server cap)"`
}

// SearchHandler handles the search MCP tool.
type SearchHandler struct {
	service *Service
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service *Service) *SearchHandler {
	return &SearchHandler{service: service}
}

// Handle executes the search and returns formatted results.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Index) == "" {
		return errorResult("Index name cannot be empty"), nil, nil
	}
	if strings.TrimSpace(args.Query) == "" {
		return errorResult("Query cannot be empty"), nil, nil
	}

	store := h.service.Store()
	if !store.Exists(args.Index) {
		return errorResult(fmt.Sprintf("Index %q does not exist", args.Index)), nil, nil
	}

	builder, err := store.CreateSearchBuilder(args.Index)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to open index %q: %s", args.Index, err)), nil, nil
	}
	defer func() { _ = builder.Close() }()

	searchQuery, err := h.buildQuery(builder, args)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to build query: %s", err)), nil, nil
	}

	limit := args.Limit
	if limit <= 0 || limit > h.service.MaxResults() {
		limit = h.service.MaxResults()
	}

	hits, total, err := builder.Run(searchQuery, limit)
	if err != nil {
		return errorResult(fmt.Sprintf("Search failed: %s", err)), nil, nil
	}

	return formatSearchResults(args.Query, hits, total), nil, nil
}

// buildQuery constructs a query from search arguments. With no field given
// the query is a disjunction over every indexed field except the deletion
// key, so any field can match.
func (h *SearchHandler) buildQuery(builder *SearchBuilder, args SearchArgument) (query.Query, error) {
	if args.Field != "" {
		return builder.Match(args.Field, args.Query), nil
	}

	// Field enumeration goes through the builder's own handle; opening the
	// index a second time would contend with it.
	fields, err := builder.Fields()
	if err != nil {
		return nil, err
	}

	var perField []query.Query
	for _, field := range fields {
		if field == domain.IDFieldName {
			continue
		}
		perField = append(perField, builder.Match(field, args.Query))
	}
	if len(perField) == 0 {
		return builder.Match(domain.IDFieldName, args.Query), nil
	}
	return builder.Any(perField...), nil
}

// formatSearchResults renders hits for the MCP response.
func formatSearchResults(queryStr string, hits []SearchHit, total uint64) *mcp.CallToolResult {
	if total == 0 {
		return textResult(fmt.Sprintf("No results found for query: %s", queryStr))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d results for '%s':\n\n", total, queryStr))

	for i, hit := range hits {
		sb.WriteString(fmt.Sprintf("### %d. document %d\n", i+1, hit.DocumentID))
		sb.WriteString(fmt.Sprintf("**Score**: %.4f\n", hit.Score))
		for name, value := range hit.Fields {
			if name == domain.IDFieldName {
				continue
			}
			sb.WriteString(fmt.Sprintf("- %s: %v\n", name, value))
		}
		sb.WriteString("\n")
	}

	if total > uint64(len(hits)) {
		sb.WriteString(fmt.Sprintf("... and %d more results\n", total-uint64(len(hits))))
	}

	return textResult(sb.String())
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}

// GetToolDefinition returns the MCP tool definition.
func (h *SearchHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_index",
		Description: "Search a named full-text index using the same analyzer applied at indexing time",
	}
}

// RegisterSearchTool registers the search tool with an MCP server.
func RegisterSearchTool(server *mcp.Server, service *Service) {
	handler := NewSearchHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
