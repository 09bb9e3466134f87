// ABOUTME: MCP server setup for the nutrition ledger.
// ABOUTME: Wraps the MCP server with a ledger, the food catalog, and the acting user.
package mcp

import (
	"context"

	"github.com/harperreed/nutrition/internal/catalog"
	"github.com/harperreed/nutrition/internal/ledger"
	"github.com/harperreed/nutrition/internal/logger"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with ledger access.
type Server struct {
	mcpServer *mcp.Server
	ledger    *ledger.Ledger
	catalog   *catalog.Catalog
	userID    int64
	log       *logger.Logger
}

// NewServer creates a new MCP server acting as userID.
func NewServer(l *ledger.Ledger, cat *catalog.Catalog, userID int64, log *logger.Logger) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "nutrition",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		ledger:    l,
		catalog:   cat,
		userID:    userID,
		log:       logger.OrNop(log),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("serving mcp over stdio", "user", s.userID)
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
