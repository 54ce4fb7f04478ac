package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/indexhouse/mcp-ftindex-server/internal/index"
)

// ServerConfig contains configuration for creating an MCP server
type ServerConfig struct {
	Name     string
	Version  string
	IndexSvc *index.Service
}

// CreateServer creates and configures the MCP server
func CreateServer(cfg ServerConfig) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	if cfg.IndexSvc != nil {
		index.RegisterSearchTool(s, cfg.IndexSvc)
		index.RegisterStatusTools(s, cfg.IndexSvc)
	}

	return s
}
