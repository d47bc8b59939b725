// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/qualitydesk/qualens/internal/contract"
)

// NewMCPServer initializes and configures the Qualens MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Qualens Catalog Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: list_products ---
	s.AddTool(mcp.NewTool("list_products",
		mcp.WithDescription("Build the quality catalog from supplier incident data and list the ranked products."),
		mcp.WithString("source_path", mcp.Description("Path to the incident CSV file (defaults to the configured source).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
		mcp.WithBoolean("critical_only", mcp.Description("Only return products flagged as critical.")),
	), h.handleListProducts)

	// --- 2. Tool: get_product ---
	s.AddTool(mcp.NewTool("get_product",
		mcp.WithDescription("Look up a single product by product ID or SKU code, including evidence items and root cause narrative."),
		mcp.WithString("product_id", mcp.Description("The product ID or SKU code to look up."), mcp.Required()),
		mcp.WithString("source_path", mcp.Description("Path to the incident CSV file.")),
	), h.handleGetProduct)

	// --- 3. Tool: get_kpis ---
	s.AddTool(mcp.NewTool("get_kpis",
		mcp.WithDescription("Compute fleet-wide quality KPIs across the whole catalog."),
		mcp.WithString("source_path", mcp.Description("Path to the incident CSV file.")),
	), h.handleGetKPIs)

	return s
}

// StartMCPServer starts the Qualens MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
