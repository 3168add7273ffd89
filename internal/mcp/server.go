package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docsmith/docsmith/internal/search"
)

//go:embed instructions.md
var instructions string

// Server exposes a generated site's search index over MCP stdio.
type Server struct {
	mcpServer *server.MCPServer
	index     *search.Index
	opts      search.Options
}

// NewServer loads the search payload from a generated site directory and
// builds the index once; the server only reads it afterwards.
func NewServer(siteDir string, opts search.Options) (*Server, error) {
	records, err := search.ReadPayload(siteDir)
	if err != nil {
		return nil, fmt.Errorf("loading search payload: %w", err)
	}

	s := &Server{index: search.Build(records), opts: opts}

	mcpServer := server.NewMCPServer(
		"docsmith",
		"0.1.0",
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.mcpServer = mcpServer
	return s, nil
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("search_docs",
			mcp.WithDescription("Search every documented symbol (modules, types, constructors, constants, functions) in the generated reference. Results carry a location resolvable as a docref:// resource."),
			mcp.WithString("query",
				mcp.Description("Symbol name or documentation text to search for"),
				mcp.Required(),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results (default from config)"),
			),
		),
		s.handleSearchDocs,
	)

	mcpServer.AddTool(
		mcp.NewTool("list_modules",
			mcp.WithDescription("List all modules in the generated reference with their documentation previews."),
		),
		s.handleListModules,
	)
}

func (s *Server) registerResources(mcpServer *server.MCPServer) {
	mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"docref://{location}",
			"Documented symbol",
			mcp.WithTemplateDescription("Read a documented symbol by its page location. Search results return these locations."),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		s.handleReadResource,
	)
}

func (s *Server) handleSearchDocs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query, _ := args["query"].(string)
	if query == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	opts := s.opts
	if limit, ok := args["limit"].(float64); ok && limit > 0 {
		opts.MaxResults = int(limit)
	}

	res := s.index.Query(query, 0, opts)

	resultJSON, _ := json.MarshalIndent(res.Matches, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleListModules(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var modules []search.Record
	for _, r := range s.index.Records() {
		if r.Kind == search.KindModule {
			modules = append(modules, r)
		}
	}

	resultJSON, _ := json.MarshalIndent(modules, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	location := strings.TrimPrefix(req.Params.URI, "docref://")

	var found *search.Record
	for i, r := range s.index.Records() {
		if r.Location == location {
			found = &s.index.Records()[i]
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("no symbol at location: %s", location)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", found.Title)
	fmt.Fprintf(&b, "- kind: %s\n", found.Kind)
	if found.Module != "" {
		fmt.Fprintf(&b, "- module: %s\n", found.Module)
	}
	fmt.Fprintf(&b, "- location: %s\n", found.Location)
	if found.Preview != "" {
		b.WriteString("\n" + found.Preview + "\n")
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     b.String(),
		},
	}, nil
}

// Run serves MCP over stdio until the client disconnects.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) Shutdown(_ context.Context) error {
	return nil
}
