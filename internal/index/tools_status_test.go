package index

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/indexhouse/mcp-ftindex-server/internal/domain"
)

func TestStatusHandler_List_Empty(t *testing.T) {
	svc := newTestService(t, 20)
	handler := NewStatusHandler(svc)
	ctx := context.Background()

	result, _, err := handler.HandleList(ctx, &mcp.CallToolRequest{}, ListArgument{})
	if err != nil {
		t.Fatalf("HandleList returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error: %s", resultText(result))
	}
	if !strings.Contains(resultText(result), "No indexes") {
		t.Errorf("Expected empty listing message, got: %s", resultText(result))
	}
}

func TestStatusHandler_List_WithCounts(t *testing.T) {
	svc := newTestService(t, 20)
	setupSearchIndex(t, svc)
	if err := svc.Store().CreateIndex("empty"); err != nil {
		t.Fatalf("CreateIndex failed: %v", err)
	}

	handler := NewStatusHandler(svc)
	ctx := context.Background()

	result, _, err := handler.HandleList(ctx, &mcp.CallToolRequest{}, ListArgument{})
	if err != nil {
		t.Fatalf("HandleList returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error: %s", resultText(result))
	}

	text := resultText(result)
	if !strings.Contains(text, "products (2 documents)") {
		t.Errorf("Expected products with 2 documents, got: %s", text)
	}
	if !strings.Contains(text, "empty (0 documents)") {
		t.Errorf("Expected empty with 0 documents, got: %s", text)
	}
}

func TestStatusHandler_Stats_EmptyName(t *testing.T) {
	svc := newTestService(t, 20)
	handler := NewStatusHandler(svc)
	ctx := context.Background()

	result, _, err := handler.HandleStats(ctx, &mcp.CallToolRequest{}, StatsArgument{Index: ""})
	if err != nil {
		t.Fatalf("HandleStats returned error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result for empty index name")
	}
}

func TestStatusHandler_Stats_AbsentIndex(t *testing.T) {
	svc := newTestService(t, 20)
	handler := NewStatusHandler(svc)
	ctx := context.Background()

	result, _, err := handler.HandleStats(ctx, &mcp.CallToolRequest{}, StatsArgument{Index: "missing"})
	if err != nil {
		t.Fatalf("HandleStats returned error: %v", err)
	}

	// An absent index is described, not rejected
	if result.IsError {
		t.Fatalf("Expected success, got error: %s", resultText(result))
	}
	if !strings.Contains(resultText(result), "Exists: false") {
		t.Errorf("Expected 'Exists: false', got: %s", resultText(result))
	}
}

func TestStatusHandler_Stats_PopulatedIndex(t *testing.T) {
	svc := newTestService(t, 20)
	store := svc.Store()

	if err := store.CreateIndex("products"); err != nil {
		t.Fatalf("CreateIndex failed: %v", err)
	}
	if err := store.Store("products", []domain.IndexDocument{
		{DocumentID: 1, Fields: []domain.Field{domain.NewTextField("title", "red bicycle")}},
	}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	handler := NewStatusHandler(svc)
	ctx := context.Background()

	result, _, err := handler.HandleStats(ctx, &mcp.CallToolRequest{}, StatsArgument{Index: "products"})
	if err != nil {
		t.Fatalf("HandleStats returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error: %s", resultText(result))
	}

	text := resultText(result)
	if !strings.Contains(text, "Exists: true") {
		t.Errorf("Expected 'Exists: true', got: %s", text)
	}
	if !strings.Contains(text, "Documents: 1") {
		t.Errorf("Expected 'Documents: 1', got: %s", text)
	}
	if !strings.Contains(text, "title") {
		t.Errorf("Expected fields to include 'title', got: %s", text)
	}
}

func TestStatusHandler_ToolDefinitions(t *testing.T) {
	svc := newTestService(t, 20)
	handler := NewStatusHandler(svc)

	listTool := handler.GetListToolDefinition()
	if listTool.Name != "list_indexes" {
		t.Errorf("List tool name = %q, want 'list_indexes'", listTool.Name)
	}

	statsTool := handler.GetStatsToolDefinition()
	if statsTool.Name != "index_stats" {
		t.Errorf("Stats tool name = %q, want 'index_stats'", statsTool.Name)
	}
}
