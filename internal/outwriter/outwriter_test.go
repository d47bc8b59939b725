package outwriter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/qualitydesk/qualens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutWriter(t *testing.T) {
	ow := NewOutWriter()
	require.NotNil(t, ow)
}

func TestOutWriterWriteProductsJSONFile(t *testing.T) {
	products := []schema.ProductRecord{sampleProduct("W800", true, 8.4)}
	snap := sampleCatalogSnapshot(products)
	path := filepath.Join(t.TempDir(), "products.json")
	cfg := &contract.Config{
		Precision:  1,
		Output:     schema.JSONOut,
		OutputFile: path,
	}

	ow := NewOutWriter()
	err := ow.WriteProducts(products, snap, cfg, 5*time.Millisecond)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var result []map[string]any
	require.NoError(t, json.Unmarshal(content, &result))
	require.Len(t, result, 1)
	assert.Equal(t, "W800", result[0]["productID"])
	assert.Equal(t, "Critical", result[0]["label"])
}

func TestOutWriterWriteKPIsJSONFile(t *testing.T) {
	products := []schema.ProductRecord{sampleProduct("W801", false, 3.2)}
	snap := sampleCatalogSnapshot(products)
	path := filepath.Join(t.TempDir(), "kpis.json")
	cfg := &contract.Config{
		Precision:  1,
		Output:     schema.JSONOut,
		OutputFile: path,
	}

	ow := NewOutWriter()
	err := ow.WriteKPIs(snap.KPIs, snap, cfg, 5*time.Millisecond)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var kpis schema.FleetKPIs
	require.NoError(t, json.Unmarshal(content, &kpis))
	assert.Equal(t, snap.KPIs, kpis)
}

func TestOutWriterWriteProductDetailCSVFile(t *testing.T) {
	product := sampleProduct("W802", false, 4.4)
	path := filepath.Join(t.TempDir(), "evidence.csv")
	cfg := &contract.Config{
		Precision:  1,
		Output:     schema.CSVOut,
		OutputFile: path,
	}

	ow := NewOutWriter()
	err := ow.WriteProductDetail(product, cfg, 5*time.Millisecond)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "evidence_id")
	assert.Contains(t, string(content), "W802-ev-1")
}
