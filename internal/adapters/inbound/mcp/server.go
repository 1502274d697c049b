package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/a11ykraft/a11ykraft/internal/application"
	"github.com/a11ykraft/a11ykraft/internal/domain"
)

// Version is reported to MCP clients.
var Version = "0.1.0"

// Deps are the services the MCP tools call. BaseDir confines file paths
// passed by clients; relative paths are resolved against it.
type Deps struct {
	Service      *application.AuditService
	Orchestrator *application.Orchestrator
	FixGenerator domain.FixGenerator
	BaseDir      string
}

// NewA11yKraftMCPServer creates an MCP server with all a11ykraft tools and
// resources registered.
func NewA11yKraftMCPServer(d Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"a11ykraft",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, d)
	registerResources(s, d)

	return s
}
