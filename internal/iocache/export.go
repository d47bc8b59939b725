package iocache

import (
	"errors"
	"fmt"

	"github.com/qualitydesk/qualens/internal/parquet"
)

// ExecuteIngestExport performs the actual export of ingest data to Parquet files.
func ExecuteIngestExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the ingest store
	store := Manager.GetIngestStore()

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get ingest status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no ingest data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total ingest runs: %d\n", status.TotalRuns)
	fmt.Printf("Total product records: %d\n", status.TableSizes[productMetricsTable])

	// Retrieve all ingest runs
	ingestRuns, err := store.GetAllIngestRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve ingest runs: %w", err)
	}

	// Retrieve all product metrics
	productMetrics, err := store.GetAllProductMetrics()
	if err != nil {
		return fmt.Errorf("failed to retrieve product metrics: %w", err)
	}

	// Convert to Parquet format
	parquetIngestRuns := parquet.ConvertIngestRunRecords(ingestRuns)
	parquetProductMetrics := parquet.ConvertProductMetricsRecords(productMetrics)

	// Write ingest runs to Parquet
	ingestRunsFile := outputFile + ".ingest_runs.parquet"
	if err := parquet.WriteIngestRunsParquet(parquetIngestRuns, ingestRunsFile); err != nil {
		return fmt.Errorf("failed to write ingest runs: %w", err)
	}
	fmt.Printf("Exported %d ingest runs to: %s\n", len(parquetIngestRuns), ingestRunsFile)

	// Write product metrics to Parquet
	productMetricsFile := outputFile + ".product_metrics.parquet"
	if err := parquet.WriteProductMetricsParquet(parquetProductMetrics, productMetricsFile); err != nil {
		return fmt.Errorf("failed to write product metrics: %w", err)
	}
	fmt.Printf("Exported %d product metric records to: %s\n", len(parquetProductMetrics), productMetricsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
