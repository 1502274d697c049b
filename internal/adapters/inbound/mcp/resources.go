package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a11ykraft/a11ykraft/internal/domain"
)

// registerResources registers all a11ykraft MCP resources on the given server.
func registerResources(s *server.MCPServer, d Deps) {
	// 1. a11ykraft://rules - success criteria catalog
	s.AddResource(
		mcplib.NewResource(
			"a11ykraft://rules",
			"Rule Catalog",
			mcplib.WithResourceDescription("Success criteria issues are classified against, with their conformance levels"),
			mcplib.WithMIMEType("application/json"),
		),
		jsonResource("a11ykraft://rules", func() any {
			return map[string]any{"catalog": domain.RuleCatalogVersion, "rules": domain.RuleCatalog()}
		}),
	)

	// 2. a11ykraft://analyzers - registry in priority order
	s.AddResource(
		mcplib.NewResource(
			"a11ykraft://analyzers",
			"Analyzers",
			mcplib.WithResourceDescription("Registered analyzers in execution order"),
			mcplib.WithMIMEType("application/json"),
		),
		jsonResource("a11ykraft://analyzers", func() any { return d.Orchestrator.Analyzers() }),
	)

	// 3. a11ykraft://stats - execution log summary
	s.AddResource(
		mcplib.NewResource(
			"a11ykraft://stats",
			"Execution Stats",
			mcplib.WithResourceDescription("Runs, success rate and most used analyzers since the server started"),
			mcplib.WithMIMEType("application/json"),
		),
		jsonResource("a11ykraft://stats", func() any { return d.Orchestrator.Stats() }),
	)
}

func jsonResource(uri string, value func() any) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := json.MarshalIndent(value(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling %s: %w", uri, err)
		}
		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
