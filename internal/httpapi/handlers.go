package httpapi

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/qualitydesk/qualens/schema"
)

// CatalogHandler exposes catalog reads as HTTP endpoints.
type CatalogHandler struct {
	reader contract.CatalogReader
}

// NewCatalogHandler creates a catalog handler backed by the given reader.
func NewCatalogHandler(reader contract.CatalogReader) *CatalogHandler {
	return &CatalogHandler{reader: reader}
}

// productListData is the payload for the product list endpoint.
type productListData struct {
	Products []schema.ProductRecord `json:"products"`
	Total    int                    `json:"total"`
	Critical int                    `json:"critical"`
}

// ListProducts handles GET /api/v1/products.
// Supports ?limit=N to cap the result count and ?critical=true to filter
// down to flagged products only.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products := h.reader.Products()
	total := len(products)

	critical := 0
	for _, p := range products {
		if p.IsCritical {
			critical++
		}
	}

	if c.Query("critical") == "true" {
		filtered := make([]schema.ProductRecord, 0, critical)
		for _, p := range products {
			if p.IsCritical {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			BadRequest(c, fmt.Sprintf("invalid limit %q", limitStr))
			return
		}
		if limit < len(products) {
			products = products[:limit]
		}
	}

	Success(c, productListData{
		Products: products,
		Total:    total,
		Critical: critical,
	})
}

// GetProduct handles GET /api/v1/products/:id. The id matches either the
// product ID or the SKU code.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	productID := c.Param("id")
	if productID == "" {
		BadRequest(c, "product id required")
		return
	}

	product, ok := h.reader.Product(productID)
	if !ok {
		NotFound(c, fmt.Sprintf("product %q not found", productID))
		return
	}

	Success(c, product)
}

// kpiData is the payload for the KPI endpoint.
type kpiData struct {
	KPIs    schema.FleetKPIs `json:"kpis"`
	Source  string           `json:"source"`
	BuiltAt string           `json:"built_at"`
}

// GetKPIs handles GET /api/v1/kpis.
func (h *CatalogHandler) GetKPIs(c *gin.Context) {
	snap := h.reader.Snapshot()

	Success(c, kpiData{
		KPIs:    snap.KPIs,
		Source:  snap.SourcePath,
		BuiltAt: snap.BuiltAt.Format(time.RFC3339),
	})
}

// Health handles GET /health.
func (h *CatalogHandler) Health(c *gin.Context) {
	snap := h.reader.Snapshot()
	c.JSON(200, gin.H{
		"status":   "ok",
		"service":  "qualens",
		"products": len(snap.Products),
	})
}
