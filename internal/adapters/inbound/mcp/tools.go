package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a11ykraft/a11ykraft/internal/adapters/outbound/export"
	"github.com/a11ykraft/a11ykraft/internal/application"
	"github.com/a11ykraft/a11ykraft/internal/domain"
)

// registerTools registers all a11ykraft MCP tools on the given server.
func registerTools(s *server.MCPServer, d Deps) {
	// 1. a11ykraft_audit
	s.AddTool(
		mcplib.NewTool("a11ykraft_audit",
			mcplib.WithDescription("Audits a document file (PDF, DOCX, ODT or text) for accessibility and returns the report"),
			mcplib.WithString("path",
				mcplib.Required(),
				mcplib.Description("Path of the document, relative to the server's base directory"),
			),
			mcplib.WithString("level", mcplib.Description("Target conformance level: A, AA or AAA (default AA)")),
			mcplib.WithString("language", mcplib.Description("Declared document language, e.g. en-US")),
			mcplib.WithString("analyzers", mcplib.Description("Comma-separated analyzer names; defaults to the recommended set")),
			mcplib.WithString("format", mcplib.Description("Report format: json (default), markdown, html or csv")),
		),
		handleAudit(d),
	)

	// 2. a11ykraft_recommend
	s.AddTool(
		mcplib.NewTool("a11ykraft_recommend",
			mcplib.WithDescription("Returns the analyzers recommended for a document file and the estimated audit complexity"),
			mcplib.WithString("path",
				mcplib.Required(),
				mcplib.Description("Path of the document, relative to the server's base directory"),
			),
			mcplib.WithString("level", mcplib.Description("Target conformance level: A, AA or AAA")),
		),
		handleRecommend(d),
	)

	// 3. a11ykraft_analyze_text
	s.AddTool(
		mcplib.NewTool("a11ykraft_analyze_text",
			mcplib.WithDescription("Audits already extracted document text and returns the report as JSON"),
			mcplib.WithString("text",
				mcplib.Required(),
				mcplib.Description("Plain text of the document"),
			),
			mcplib.WithString("filename", mcplib.Description("Original file name, used to judge the title")),
			mcplib.WithString("level", mcplib.Description("Target conformance level: A, AA or AAA")),
			mcplib.WithString("language", mcplib.Description("Declared document language")),
			mcplib.WithString("analyzers", mcplib.Description("Comma-separated analyzer names")),
		),
		handleAnalyzeText(d),
	)

	// 4. a11ykraft_list_analyzers
	s.AddTool(
		mcplib.NewTool("a11ykraft_list_analyzers",
			mcplib.WithDescription("Lists the registered analyzers in execution order with the success criteria each can raise"),
		),
		handleListAnalyzers(d),
	)
}

func handleAudit(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		abs, err := resolvePath(d.BaseDir, path)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		format := export.FormatJSON
		if f := stringArg(request, "format"); f != "" {
			if format, err = export.ParseFormat(f); err != nil {
				return errorResult(err.Error()), nil
			}
		}

		req := auditRequest(request)
		req.Path = abs
		req.FixGenerator = d.FixGenerator
		out, err := d.Service.Audit(ctx, req)
		if err != nil {
			return errorResult(fmt.Sprintf("audit failed: %v", err)), nil
		}

		data, err := export.Export(out.Report, format)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return textResult(string(data)), nil
	}
}

func handleRecommend(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		abs, err := resolvePath(d.BaseDir, path)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		req := auditRequest(request)
		req.Path = abs
		rec, err := d.Service.Recommend(ctx, req)
		if err != nil {
			return errorResult(fmt.Sprintf("recommend failed: %v", err)), nil
		}
		return jsonResult(rec)
	}
}

func handleAnalyzeText(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		filename := stringArg(request, "filename")
		if filename == "" {
			filename = "document.txt"
		}

		req := auditRequest(request)
		req.FixGenerator = d.FixGenerator
		out, err := d.Service.AuditDocument(ctx, domain.ExtractedDocument{Filename: filename, Text: text}, req)
		if err != nil {
			return errorResult(fmt.Sprintf("audit failed: %v", err)), nil
		}
		return jsonResult(out.Report)
	}
}

func handleListAnalyzers(d Deps) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(d.Orchestrator.Analyzers())
	}
}

func auditRequest(request mcplib.CallToolRequest) application.AuditRequest {
	return application.AuditRequest{
		Level:     stringArg(request, "level"),
		Language:  stringArg(request, "language"),
		Analyzers: splitList(stringArg(request, "analyzers")),
	}
}

func stringArg(request mcplib.CallToolRequest, name string) string {
	v, _ := request.GetArguments()[name].(string)
	return strings.TrimSpace(v)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// resolvePath joins p to base and rejects paths that leave base.
func resolvePath(base, p string) (string, error) {
	if base == "" {
		base = "."
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("resolving base directory: %w", err)
	}
	target := p
	if !filepath.IsAbs(target) {
		target = filepath.Join(absBase, target)
	}
	target = filepath.Clean(target)
	rel, err := filepath.Rel(absBase, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside %s", p, absBase)
	}
	return target, nil
}

// jsonResult marshals v as indented JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
