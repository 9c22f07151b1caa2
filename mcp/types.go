package mcp

// MCPTool represents a tool exposed by an MCP server
type MCPTool struct {
	ServerName  string
	Name        string
	Description string
}
