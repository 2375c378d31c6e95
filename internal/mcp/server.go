// ABOUTME: MCP server setup for the macros store.
// ABOUTME: Wraps MCP server with storage Repository and sync engine access.
package mcp

import (
	"context"

	"github.com/harperreed/macros/internal/storage"
	"github.com/harperreed/macros/internal/sync"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Syncer runs sync passes on demand. *sync.Engine satisfies it.
type Syncer interface {
	Run(ctx context.Context) (sync.Summary, error)
	Status(ctx context.Context) (sync.Status, error)
}

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	syncer    Syncer
}

// NewServer creates a new MCP server with the given storage and syncer.
func NewServer(repo storage.Repository, syncer Syncer) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "macros",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		syncer:    syncer,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
