// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the manuscript archive via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/codex/internal/api"
	"github.com/starford/codex/internal/apperr"
	"github.com/starford/codex/internal/archive"
)

// Server wraps the MCP server with archive tools.
type Server struct {
	mcp *server.MCPServer
	svc *archive.Service
}

// New creates a new MCP server with all archive tools registered.
func New(svc *archive.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Codex",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_manuscripts",
		mcp.WithDescription("List every manuscript in the archive with its metadata, sorted by title."),
	), s.listManuscripts)

	s.mcp.AddTool(mcp.NewTool("search_manuscripts",
		mcp.WithDescription("Case-insensitive substring search over title, subtitle, description and author. "+
			"See the "+MetadataFieldsURI+" resource for field definitions."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text; empty returns all manuscripts")),
	), s.searchManuscripts)

	s.mcp.AddTool(mcp.NewTool("get_manuscript",
		mcp.WithDescription("Return the metadata of one manuscript."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Manuscript slug (filename without extension)")),
	), s.getManuscript)

	s.mcp.AddTool(mcp.NewTool("get_manuscript_source",
		mcp.WithDescription("Return the raw TEI XML of one manuscript."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Manuscript slug (filename without extension)")),
	), s.getManuscriptSource)

	s.mcp.AddTool(mcp.NewTool("render_manuscript",
		mcp.WithDescription("Render one manuscript to HTML through the archive stylesheet."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Manuscript slug (filename without extension)")),
	), s.renderManuscript)

	s.mcp.AddResource(
		mcp.NewResource(MetadataFieldsURI, "Manuscript Metadata Fields",
			mcp.WithResourceDescription("Metadata fields returned by the manuscript tools and their TEI sources."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readMetadataFieldsResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listManuscripts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(api.ListItems(s.svc.Listing()))
}

func (s *Server) searchManuscripts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(api.ListItems(s.svc.Search(query)))
}

func (s *Server) getManuscript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entry, ok := s.svc.Manuscript(slug)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("manuscript not found: %s", slug)), nil
	}
	return jsonResult(api.ManuscriptDetail{Slug: entry.Slug, Metadata: entry.Metadata})
}

func (s *Server) getManuscriptSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.svc.Source(slug)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("manuscript not found: %s", slug)), nil
	case err != nil:
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) renderManuscript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	_, html, err := s.svc.Render(slug)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("manuscript not found: %s", slug)), nil
	case err != nil:
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(html), nil
}

func (s *Server) readMetadataFieldsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      MetadataFieldsURI,
			MIMEType: "text/markdown",
			Text:     MetadataFields,
		},
	}, nil
}
