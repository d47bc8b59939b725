package outwriter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteProductDetailText(t *testing.T) {
	product := sampleProduct("W700", true, 11.3)
	cfg := &contract.Config{Precision: 1, Width: 120}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeProductDetailText(product, cfg, fmtFloat, 8*time.Millisecond, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Product:")
	assert.Contains(t, out, "W700")
	assert.Contains(t, out, "Acme Woodworks")
	assert.Contains(t, out, "Critical")
	assert.Contains(t, out, "11.3%")
	assert.Contains(t, out, "$1,500.50")
	assert.Contains(t, out, "Customer Reported, Returns")
	assert.Contains(t, out, product.Insight)

	// Evidence table with both rows
	assert.Contains(t, out, "2024-07-01")
	assert.Contains(t, out, "Leg joint cracked on arrival")
	assert.Contains(t, out, "2 evidence item(s). Lookup completed in")
}

func TestWriteProductDetailTextNoEvidence(t *testing.T) {
	product := sampleProduct("W701", false, 2.4)
	product.Evidence = nil
	cfg := &contract.Config{Precision: 1, Width: 120}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeProductDetailText(product, cfg, fmtFloat, time.Millisecond, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "No evidence items with valid images.")
	assert.NotContains(t, out, "Lookup completed in")
}

func TestWriteEvidenceCSV(t *testing.T) {
	product := sampleProduct("W702", false, 4.0)

	var buf bytes.Buffer
	err := writeEvidenceCSV(&buf, product)
	require.NoError(t, err)

	reader := csv.NewReader(&buf)
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 evidence rows

	assert.Equal(t, "evidence_id", records[0][0])
	assert.Equal(t, "product_id", records[0][1])

	assert.Equal(t, "W702-ev-1", records[1][0])
	assert.Equal(t, "W702", records[1][1])
	assert.Equal(t, "High", records[1][3])
	assert.Equal(t, "Structural Issue", records[1][5])

	assert.Equal(t, "W702-ev-2", records[2][0])
	assert.Equal(t, "Scratch", records[2][5])
}

func TestWriteEvidenceCSVEmpty(t *testing.T) {
	product := sampleProduct("W703", false, 1.0)
	product.Evidence = nil

	var buf bytes.Buffer
	err := writeEvidenceCSV(&buf, product)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
}
