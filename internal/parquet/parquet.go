// Package parquet provides data structures and functions for exporting
// catalog data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/qualitydesk/qualens/schema"
)

// IngestRun represents a single catalog ingest run with metadata.
// This struct maps to the qualens_ingest_runs database table.
type IngestRun struct {
	// RunID is the unique identifier for this ingest run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the ingest began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the ingest completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the ingest run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// SourcePath is the source file the catalog was built from
	SourcePath string `parquet:"source_path,snappy"`

	// RowsParsed is the number of rows accepted from the source
	RowsParsed int32 `parquet:"rows_parsed,snappy"`

	// RowsDropped is the number of rows rejected during parsing
	RowsDropped int32 `parquet:"rows_dropped,snappy"`

	// TotalProducts is the catalog size produced by this run
	TotalProducts int32 `parquet:"total_products,snappy"`

	// CriticalProducts is the number of critical products in the catalog
	CriticalProducts int32 `parquet:"critical_products,snappy"`
}

// ProductMetrics represents the derived metrics for a single product in an
// ingest run. This struct maps to the qualens_product_metrics database table.
type ProductMetrics struct {
	// RunID references the parent ingest run
	RunID int64 `parquet:"run_id,snappy"`

	// ProductID is the supplier product identifier
	ProductID string `parquet:"product_id,snappy"`

	// IngestTime is when this product was processed
	IngestTime time.Time `parquet:"ingest_time,snappy"`

	// IncidentCount is the per-product incident total
	IncidentCount float64 `parquet:"incident_count,snappy"`

	// DeductionTotal is the summed deduction across contributing rows
	DeductionTotal float64 `parquet:"deduction_total,snappy"`

	// IncidentRate is the capped incident-rate percentage
	IncidentRate float64 `parquet:"incident_rate,snappy"`

	// FinancialExposure is the displayed exposure estimate
	FinancialExposure float64 `parquet:"financial_exposure,snappy"`

	// EvidenceCount is the number of evidence items with valid images
	EvidenceCount int32 `parquet:"evidence_count,snappy"`

	// IsCritical marks products over the criticality threshold
	IsCritical bool `parquet:"is_critical,snappy"`
}

// CatalogProduct is the flattened Parquet projection of one catalog entry,
// used by the products --output parquet path. List-valued fields are joined
// with "|" so rows stay flat for BI tools.
type CatalogProduct struct {
	ProductID         string  `parquet:"product_id,snappy"`
	SKUCode           string  `parquet:"sku_code,snappy"`
	Name              string  `parquet:"name,snappy"`
	Manufacturer      string  `parquet:"manufacturer,snappy"`
	IsCritical        bool    `parquet:"is_critical,snappy"`
	PhotoVolume       int32   `parquet:"photo_volume,snappy"`
	FinancialExposure float64 `parquet:"financial_exposure,snappy"`
	IncidentRate      float64 `parquet:"incident_rate,snappy"`
	ProgramsFlagged   string  `parquet:"programs_flagged,snappy"`
	DefectTypes       string  `parquet:"defect_types,snappy"`
	Insight           string  `parquet:"insight,snappy"`
	RootCause         string  `parquet:"root_cause,snappy"`
	EvidenceCount     int32   `parquet:"evidence_count,snappy"`
	Thumbnail         string  `parquet:"thumbnail,snappy"`
}

// WriteIngestRunsParquet writes a slice of IngestRun structs to a Parquet file.
func WriteIngestRunsParquet(data []IngestRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the IngestRun struct tags
	writer := parquet.NewGenericWriter[IngestRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteProductMetricsParquet writes a slice of ProductMetrics structs to a Parquet file.
func WriteProductMetricsParquet(data []ProductMetrics, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the ProductMetrics struct tags
	writer := parquet.NewGenericWriter[ProductMetrics](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteCatalogProductsParquet writes a slice of CatalogProduct structs to a Parquet file.
func WriteCatalogProductsParquet(data []CatalogProduct, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[CatalogProduct](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// MockFetchIngestRuns generates sample IngestRun data for demonstration.
func MockFetchIngestRuns() []IngestRun {
	now := time.Now()
	startTime1 := now.Add(-2 * time.Hour)
	endTime1 := startTime1.Add(850 * time.Millisecond)
	durationMs1 := int32(endTime1.Sub(startTime1).Milliseconds())

	startTime2 := now.Add(-24 * time.Hour)
	endTime2 := startTime2.Add(1200 * time.Millisecond)
	durationMs2 := int32(endTime2.Sub(startTime2).Milliseconds())

	startTime3 := now.Add(-10 * time.Minute)
	// Note: endTime3 and durationMs3 are nil to demonstrate nullable fields

	return []IngestRun{
		{
			RunID:            1,
			StartTime:        startTime1,
			EndTime:          &endTime1,
			RunDurationMs:    &durationMs1,
			SourcePath:       "incidents.csv",
			RowsParsed:       150,
			RowsDropped:      3,
			TotalProducts:    42,
			CriticalProducts: 7,
		},
		{
			RunID:            2,
			StartTime:        startTime2,
			EndTime:          &endTime2,
			RunDurationMs:    &durationMs2,
			SourcePath:       "q3-incidents.csv",
			RowsParsed:       980,
			RowsDropped:      12,
			TotalProducts:    210,
			CriticalProducts: 31,
		},
		{
			RunID:         3,
			StartTime:     startTime3,
			EndTime:       nil, // Still running - nullable field
			RunDurationMs: nil, // Not yet calculated - nullable field
			SourcePath:    "incidents.csv",
		},
	}
}

// MockFetchProductMetrics generates sample ProductMetrics data for demonstration.
func MockFetchProductMetrics() []ProductMetrics {
	now := time.Now()

	return []ProductMetrics{
		{
			RunID:             1,
			ProductID:         "W005553866",
			IngestTime:        now.Add(-2 * time.Hour),
			IncidentCount:     6,
			DeductionTotal:    142.5,
			IncidentRate:      7.2,
			FinancialExposure: 9000,
			EvidenceCount:     4,
			IsCritical:        true,
		},
		{
			RunID:             1,
			ProductID:         "W001234567",
			IngestTime:        now.Add(-2 * time.Hour),
			IncidentCount:     1,
			DeductionTotal:    10,
			IncidentRate:      1.2,
			FinancialExposure: 1000,
			EvidenceCount:     1,
			IsCritical:        false,
		},
		{
			RunID:             2,
			ProductID:         "W009876543",
			IngestTime:        now.Add(-24 * time.Hour),
			IncidentCount:     9,
			DeductionTotal:    310,
			IncidentRate:      10.8,
			FinancialExposure: 20250,
			EvidenceCount:     8,
			IsCritical:        true,
		},
	}
}

// ConvertIngestRunRecords converts schema.IngestRunRecord to IngestRun for Parquet export.
func ConvertIngestRunRecords(records []schema.IngestRunRecord) []IngestRun {
	result := make([]IngestRun, len(records))
	for i, record := range records {
		result[i] = IngestRun{
			RunID:            record.RunID,
			StartTime:        record.StartTime,
			EndTime:          record.EndTime,
			RunDurationMs:    record.RunDurationMs,
			SourcePath:       record.SourcePath,
			RowsParsed:       record.RowsParsed,
			RowsDropped:      record.RowsDropped,
			TotalProducts:    record.TotalProducts,
			CriticalProducts: record.CriticalProducts,
		}
	}
	return result
}

// ConvertProductMetricsRecords converts schema.ProductMetricsRecord to ProductMetrics for Parquet export.
func ConvertProductMetricsRecords(records []schema.ProductMetricsRecord) []ProductMetrics {
	result := make([]ProductMetrics, len(records))
	for i, record := range records {
		result[i] = ProductMetrics{
			RunID:             record.RunID,
			ProductID:         record.ProductID,
			IngestTime:        record.IngestTime,
			IncidentCount:     record.IncidentCount,
			DeductionTotal:    record.DeductionTotal,
			IncidentRate:      record.IncidentRate,
			FinancialExposure: record.FinancialExposure,
			EvidenceCount:     record.EvidenceCount,
			IsCritical:        record.IsCritical,
		}
	}
	return result
}

// ConvertProductRecords flattens catalog entries into CatalogProduct rows.
func ConvertProductRecords(products []schema.ProductRecord) []CatalogProduct {
	result := make([]CatalogProduct, len(products))
	for i, p := range products {
		programs := make([]string, len(p.ProgramsFlagged))
		for j, prog := range p.ProgramsFlagged {
			programs[j] = string(prog)
		}
		result[i] = CatalogProduct{
			ProductID:         p.ProductID,
			SKUCode:           p.SKUCode,
			Name:              p.Name,
			Manufacturer:      p.Manufacturer,
			IsCritical:        p.IsCritical,
			PhotoVolume:       int32(p.PhotoVolume),
			FinancialExposure: p.FinancialExposure,
			IncidentRate:      p.IncidentRate,
			ProgramsFlagged:   strings.Join(programs, "|"),
			DefectTypes:       strings.Join(p.DefectTypes, "|"),
			Insight:           p.Insight,
			RootCause:         p.RootCause,
			EvidenceCount:     int32(len(p.Evidence)),
			Thumbnail:         p.Thumbnail,
		}
	}
	return result
}
