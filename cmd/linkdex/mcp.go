package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lthms/linkdex/internal/catalog"
)

type lookupArgs struct {
	URL string `json:"url" jsonschema:"The URL to look up in the catalog"`
}

type similarArgs struct {
	URL       string   `json:"url" jsonschema:"The URL to compare against the catalog"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"Minimum similarity score between 0 and 1 (default 0.8); 0 matches everything"`
}

type statsArgs struct{}

// MCPCmd serves the catalog over the Model Context Protocol on stdio.
type MCPCmd struct{}

func (cmd *MCPCmd) Run(cfg *Config) error {
	srv := &mcpServer{cfg: cfg}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "linkdex-catalog",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "catalog_lookup",
		Description: "Check whether a URL is already in the link catalog. Returns the stored entry or a not-found message.",
	}, srv.handleLookup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "catalog_similar",
		Description: "Find cataloged URLs similar to a given one, ranked by similarity score.",
	}, srv.handleSimilar)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "catalog_stats",
		Description: "Return aggregate statistics about the link catalog as JSON.",
	}, srv.handleStats)

	slog.Debug("starting MCP server")
	return server.Run(context.Background(), &mcp.StdioTransport{})
}

type mcpServer struct {
	cfg *Config
}

func (s *mcpServer) handleLookup(ctx context.Context, req *mcp.CallToolRequest, args lookupArgs) (*mcp.CallToolResult, any, error) {
	slog.Debug("catalog_lookup called", "url", args.URL)

	ix := catalog.OpenIndex(s.cfg.Catalog.Index)
	entry, ok := ix.Lookup(args.URL)
	if !ok {
		return textResult(fmt.Sprintf("%s is not cataloged", args.URL)), nil, nil
	}

	out, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode entry: %w", err)
	}
	return textResult(string(out)), nil, nil
}

func (s *mcpServer) handleSimilar(ctx context.Context, req *mcp.CallToolRequest, args similarArgs) (*mcp.CallToolResult, any, error) {
	threshold := s.cfg.SimilarityThreshold()
	if args.Threshold != nil && *args.Threshold >= 0 && *args.Threshold <= 1 {
		threshold = *args.Threshold
	}
	slog.Debug("catalog_similar called", "url", args.URL, "threshold", threshold)

	ix := catalog.OpenIndex(s.cfg.Catalog.Index)
	matches := ix.Similar(args.URL, threshold)
	if len(matches) == 0 {
		return textResult("no similar URLs found"), nil, nil
	}

	out, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode matches: %w", err)
	}
	return textResult(string(out)), nil, nil
}

func (s *mcpServer) handleStats(ctx context.Context, req *mcp.CallToolRequest, args statsArgs) (*mcp.CallToolResult, any, error) {
	slog.Debug("catalog_stats called")

	ix := catalog.OpenIndex(s.cfg.Catalog.Index)
	out, err := json.MarshalIndent(ix.Stats(), "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode stats: %w", err)
	}
	return textResult(string(out)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
