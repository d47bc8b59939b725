package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/qualitydesk/qualens/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintKPIs outputs the fleet KPI rollup, dispatching based on the output format configured.
func PrintKPIs(kpis schema.FleetKPIs, snap *schema.CatalogSnapshot, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, kpis)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeKPIsCSV(w, kpis, fmtFloat, intFmt)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeKPIsTable(kpis, snap, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
}

// kpiRows builds the metric/value pairs shared by table and CSV output.
func kpiRows(kpis schema.FleetKPIs, fmtFloat func(float64) string, intFmt string) [][]string {
	return [][]string{
		{"Critical products", fmt.Sprintf(intFmt, kpis.CriticalProducts)},
		{"Photos analyzed", fmt.Sprintf(intFmt, kpis.PhotosAnalyzed)},
		{"Total exposure", contract.FormatUSD(kpis.TotalExposure)},
		{"Suppliers affected", fmt.Sprintf(intFmt, kpis.SuppliersAffected)},
		{"Avg incident rate", fmtFloat(kpis.AvgIncidentRate) + "%"},
		{"Total evidence", fmt.Sprintf(intFmt, kpis.TotalEvidence)},
	}
}

// writeKPIsTable renders the human-readable KPI table.
func writeKPIsTable(kpis schema.FleetKPIs, snap *schema.CatalogSnapshot, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Metric", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	if err := table.Bulk(kpiRows(kpis, fmtFloat, intFmt)); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Fleet of %d products from %s\n", len(snap.Products), snap.SourcePath); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Rollup completed in %v\n", duration)
	return err
}

// writeKPIsCSV writes the KPI rollup in CSV format.
func writeKPIsCSV(w io.Writer, kpis schema.FleetKPIs, fmtFloat func(float64) string, intFmt string) error {
	return writeCSVWithHeader(w, []string{"metric", "value"}, func(csvWriter *csv.Writer) error {
		for _, row := range kpiRows(kpis, fmtFloat, intFmt) {
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
