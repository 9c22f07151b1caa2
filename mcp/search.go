package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"searchgate/core/types"
)

// ToolCaller is the part of Client the search provider needs
type ToolCaller interface {
	CallTool(ctx context.Context, serverName, toolName string, arguments map[string]any) (string, error)
}

// SearchProvider runs searches through a tool on an MCP server.
// The tool receives {"query": ..., "max_results": ...}.
type SearchProvider struct {
	caller ToolCaller
	server string
	tool   string
}

// NewSearchProvider creates a provider calling tool on server
func NewSearchProvider(caller ToolCaller, server, tool string) *SearchProvider {
	return &SearchProvider{caller: caller, server: server, tool: tool}
}

// Name identifies the provider in logs and audit entries
func (p *SearchProvider) Name() string {
	return fmt.Sprintf("mcp:%s/%s", p.server, p.tool)
}

// Search calls the tool and decodes its output
func (p *SearchProvider) Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error) {
	out, err := p.caller.CallTool(ctx, p.server, p.tool, map[string]any{
		"query":       query,
		"max_results": maxResults,
	})
	if err != nil {
		return nil, err
	}

	results := parseToolOutput(p.tool, out)
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// parseToolOutput accepts a JSON array of results, an object with a "results"
// array, or plain text, which becomes a single result.
func parseToolOutput(tool, out string) []types.SearchResult {
	out = strings.TrimSpace(out)
	if out == "" {
		return nil
	}

	var list []types.SearchResult
	if err := json.Unmarshal([]byte(out), &list); err == nil {
		return list
	}

	var wrapped struct {
		Results []types.SearchResult `json:"results"`
	}
	if err := json.Unmarshal([]byte(out), &wrapped); err == nil && wrapped.Results != nil {
		return wrapped.Results
	}

	return []types.SearchResult{{
		Title:   "Result from " + tool,
		Snippet: out,
	}}
}
