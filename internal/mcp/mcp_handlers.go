package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/qualitydesk/qualens/core"
	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/qualitydesk/qualens/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

func (h *toolHandler) handleListProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("source_path", ""); p != "" {
		cfg.SourcePath = p
	}

	provider := core.NewCatalogProvider(cfg, h.mgr)
	products := provider.Products()

	if request.GetBool("critical_only", false) {
		filtered := make([]schema.ProductRecord, 0, len(products))
		for _, p := range products {
			if p.IsCritical {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	if l := request.GetInt("limit", 0); l > 0 && l < len(products) {
		products = products[:l]
	}

	jsonData, _ := json.MarshalIndent(products, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetProduct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	productID := request.GetString("product_id", "")
	if productID == "" {
		return mcp.NewToolResultError("product_id is required"), nil
	}

	cfg := h.baseCfg.Clone()
	if p := request.GetString("source_path", ""); p != "" {
		cfg.SourcePath = p
	}

	provider := core.NewCatalogProvider(cfg, h.mgr)
	product, ok := provider.Product(productID)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("product %q not found in catalog", productID)), nil
	}

	jsonData, _ := json.MarshalIndent(product, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetKPIs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("source_path", ""); p != "" {
		cfg.SourcePath = p
	}

	provider := core.NewCatalogProvider(cfg, h.mgr)
	kpis := provider.KPIs()

	jsonData, _ := json.MarshalIndent(kpis, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
