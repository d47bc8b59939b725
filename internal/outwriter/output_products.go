package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/qualitydesk/qualens/internal/parquet"
	"github.com/qualitydesk/qualens/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintProducts outputs the product catalog, dispatching based on the output format configured.
func PrintProducts(products []schema.ProductRecord, snap *schema.CatalogSnapshot, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeProductJSONResults(products, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeProductCSVResults(products, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeProductParquetResults(products, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeProductTable(products, snap, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeProductJSONResults handles opening the file and calling the JSON writer.
func writeProductJSONResults(products []schema.ProductRecord, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForProducts(w, products)
	}, "Wrote JSON")
}

// writeProductCSVResults handles opening the file and calling the CSV writer.
func writeProductCSVResults(products []schema.ProductRecord, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForProducts(csvWriter, products, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writeProductParquetResults flattens the catalog and writes it to the
// configured output file. Parquet always targets a file, never stdout.
func writeProductParquetResults(products []schema.ProductRecord, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("parquet output requires --output-file")
	}
	rows := parquet.ConvertProductRecords(products)
	if err := parquet.WriteCatalogProductsParquet(rows, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	return nil
}

// writeProductTable generates and writes the human-readable table.
func writeProductTable(products []schema.ProductRecord, snap *schema.CatalogSnapshot, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Product", "Name", "Label", "Rate%", "Insight"}
	if cfg.Detail {
		headers = append(headers, "Photos", "Exposure", "Programs", "Evidence")
	}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	maxText := getMaxTableTextWidth(cfg)
	var data [][]string
	for i, p := range products {
		label := contract.GetPlainLabel(p.IsCritical, p.IncidentRate)
		if cfg.UseColors {
			label = contract.GetColorLabel(p.IsCritical, p.IncidentRate)
		}
		row := []string{
			strconv.Itoa(i + 1), // Rank
			p.ProductID,
			contract.TruncateText(p.Name, maxText),
			label,
			fmtFloat(p.IncidentRate),
			contract.TruncateText(p.Insight, maxText),
		}
		if cfg.Detail {
			row = append(
				row,
				fmt.Sprintf(intFmt, p.PhotoVolume),            // Photos
				contract.FormatUSD(p.FinancialExposure),       // Exposure
				fmt.Sprintf(intFmt, len(p.ProgramsFlagged)),   // Programs
				fmt.Sprintf(intFmt, len(p.Evidence)),          // Evidence
			)
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	// Compute summary stats
	criticalCount := 0
	for _, p := range products {
		if p.IsCritical {
			criticalCount++
		}
	}
	if _, err := fmt.Fprintf(writer, "Showing %d of %d products (%d critical)\n", len(products), len(snap.Products), criticalCount); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Catalog built from %s in %v (%d rows parsed, %d dropped)\n", snap.SourcePath, duration, snap.RowsParsed, snap.RowsDropped); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForProducts writes the catalog in CSV format.
func writeCSVResultsForProducts(w *csv.Writer, products []schema.ProductRecord, fmtFloat func(float64) string, intFmt string) error {
	// CSV header
	header := []string{
		"rank",
		"product_id",
		"sku_code",
		"name",
		"label",
		"critical",
		"incident_rate",
		"photo_volume",
		"financial_exposure",
		"programs",
		"defect_types",
		"evidence_count",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, p := range products {
		rec := []string{
			strconv.Itoa(i + 1), // Rank
			p.ProductID,
			p.SKUCode,
			p.Name,
			contract.GetPlainLabel(p.IsCritical, p.IncidentRate),
			formatBool(p.IsCritical),
			fmtFloat(p.IncidentRate),
			fmt.Sprintf(intFmt, p.PhotoVolume),
			fmtFloat(p.FinancialExposure),
			formatPrograms(p.ProgramsFlagged),
			joinPipe(p.DefectTypes),
			fmt.Sprintf(intFmt, len(p.Evidence)),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForProducts writes the catalog in JSON format.
func writeJSONResultsForProducts(w io.Writer, products []schema.ProductRecord) error {
	// 1. Prepare the data structure for JSON with rank and label added
	type JSONProductResult struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.ProductRecord
	}

	output := make([]JSONProductResult, len(products))
	for i, p := range products {
		output[i] = JSONProductResult{
			Rank:          i + 1,
			Label:         contract.GetPlainLabel(p.IsCritical, p.IncidentRate),
			ProductRecord: p,
		}
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}
