package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualitydesk/qualens/internal/contract"
	mcp_internal "github.com/qualitydesk/qualens/internal/mcp"
	"github.com/qualitydesk/qualens/schema"
)

// incidentRow builds a full 26-column source row for handler tests.
func incidentRow(productID, skuCode, comment, totalIncidents, deduction string) string {
	fields := make([]string, 26)
	fields[0] = "PO-0000001"
	fields[1] = skuCode
	fields[2] = productID
	fields[3] = "2024-06-15"
	fields[4] = "Incident"
	fields[5] = "Incident"
	fields[6] = comment
	fields[7] = "1"
	fields[8] = "img-1"
	fields[9] = "damage"
	fields[10] = "https://secure.img1-fg.wfcdn.com/im/a.jpg"
	fields[11] = "Parcel"
	fields[13] = totalIncidents
	fields[21] = deduction
	fields[22] = "USD"
	return strings.Join(fields, ",")
}

// writeIncidentSource writes a small two-product source file and returns its path.
func writeIncidentSource(t *testing.T) string {
	t.Helper()
	content := strings.Join([]string{
		"header line is skipped positionally",
		incidentRow("W005553866", "SKU-000001", "Cracked leg on arrival", "6", "142.50"),
		incidentRow("W001234567", "SKU-000002", "Minor scuff", "1", "10.00"),
	}, "\n")

	path := filepath.Join(t.TempDir(), "incidents.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestMCPServerToolsRegistered(t *testing.T) {
	baseCfg := &contract.Config{Output: schema.JSONOut, Precision: 1}
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	for _, name := range []string{"list_products", "get_product", "get_kpis"} {
		assert.NotNil(t, s.GetTool(name), "Tool %s should exist", name)
	}
}

func TestMCPServerGetProductMissingID(t *testing.T) {
	baseCfg := &contract.Config{SourcePath: writeIncidentSource(t)}
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	tool := s.GetTool("get_product")
	require.NotNil(t, tool)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "get_product",
			Arguments: map[string]any{"product_id": ""},
		},
	}

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	assert.True(t, res.IsError, "The response should indicate an error state")
	assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "product_id is required")
}

func TestMCPServerGetProductNotFound(t *testing.T) {
	baseCfg := &contract.Config{SourcePath: writeIncidentSource(t)}
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	tool := s.GetTool("get_product")
	require.NotNil(t, tool)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "get_product",
			Arguments: map[string]any{"product_id": "W999999999"},
		},
	}

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "W999999999")
}

func TestMCPServerGetProduct(t *testing.T) {
	baseCfg := &contract.Config{SourcePath: writeIncidentSource(t)}
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	tool := s.GetTool("get_product")
	require.NotNil(t, tool)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "get_product",
			Arguments: map[string]any{"product_id": "W005553866"},
		},
	}

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)

	var product schema.ProductRecord
	text := res.Content[0].(mcp.TextContent).Text
	require.NoError(t, json.Unmarshal([]byte(text), &product))
	assert.Equal(t, "W005553866", product.ProductID)
	assert.True(t, product.IsCritical)
}

func TestMCPServerListProducts(t *testing.T) {
	baseCfg := &contract.Config{SourcePath: writeIncidentSource(t)}
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	tool := s.GetTool("list_products")
	require.NotNil(t, tool)

	t.Run("full catalog", func(t *testing.T) {
		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "list_products",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(context.Background(), req)
		require.NoError(t, err)
		require.False(t, res.IsError)

		var products []schema.ProductRecord
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &products))
		require.Len(t, products, 2)
		assert.Equal(t, "W005553866", products[0].ProductID, "Critical products rank first")
	})

	t.Run("critical only", func(t *testing.T) {
		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "list_products",
				Arguments: map[string]any{
					"critical_only": true,
				},
			},
		}

		res, err := tool.Handler(context.Background(), req)
		require.NoError(t, err)
		require.False(t, res.IsError)

		var products []schema.ProductRecord
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &products))
		require.Len(t, products, 1)
		assert.True(t, products[0].IsCritical)
	})

	t.Run("limit", func(t *testing.T) {
		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "list_products",
				Arguments: map[string]any{
					"limit": 1.0,
				},
			},
		}

		res, err := tool.Handler(context.Background(), req)
		require.NoError(t, err)
		require.False(t, res.IsError)

		var products []schema.ProductRecord
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &products))
		assert.Len(t, products, 1)
	})
}

func TestMCPServerGetKPIs(t *testing.T) {
	baseCfg := &contract.Config{SourcePath: writeIncidentSource(t)}
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	tool := s.GetTool("get_kpis")
	require.NotNil(t, tool)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "get_kpis",
			Arguments: map[string]any{},
		},
	}

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)

	var kpis schema.FleetKPIs
	text := res.Content[0].(mcp.TextContent).Text
	require.NoError(t, json.Unmarshal([]byte(text), &kpis))
	assert.Equal(t, 1, kpis.CriticalProducts)
	assert.Equal(t, 2, kpis.PhotosAnalyzed)
}
