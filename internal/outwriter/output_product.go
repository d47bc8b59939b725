package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/qualitydesk/qualens/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintProductDetail outputs one product's detail view, dispatching based on
// the output format configured.
func PrintProductDetail(product schema.ProductRecord, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, product)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEvidenceCSV(w, product)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeProductDetailText(product, cfg, fmtFloat, duration, w)
		}, "Wrote detail")
	}
}

// writeProductDetailText renders the human-readable detail view: a summary
// block followed by the evidence table.
func writeProductDetailText(product schema.ProductRecord, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	// 1. Summary block with dynamic label padding
	label := contract.GetPlainLabel(product.IsCritical, product.IncidentRate)
	if cfg.UseColors {
		label = contract.GetColorLabel(product.IsCritical, product.IncidentRate)
	}

	labels := []string{"Product:", "Name:", "Manufacturer:", "Label:", "Incident rate:", "Exposure:", "Programs:", "Defect types:", "Root cause:"}
	values := []any{
		product.ProductID,
		product.Name,
		product.Manufacturer,
		label,
		fmtFloat(product.IncidentRate) + "%",
		contract.FormatUSD(product.FinancialExposure),
		formatPrograms(product.ProgramsFlagged),
		joinPipe(product.DefectTypes),
		product.RootCause,
	}

	maxLabelLen := 0
	for _, l := range labels {
		if len(l) > maxLabelLen {
			maxLabelLen = len(l)
		}
	}
	for i, l := range labels {
		if _, err := fmt.Fprintf(writer, "  %-*s %v\n", maxLabelLen+1, l, values[i]); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "\n%s\n\n", product.Insight); err != nil {
		return err
	}

	// 2. Evidence table
	if len(product.Evidence) == 0 {
		_, err := fmt.Fprintln(writer, "No evidence items with valid images.")
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"#", "Date", "Severity", "Program", "Defect", "Note"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	maxText := getMaxTableTextWidth(cfg)
	var data [][]string
	for i, ev := range product.Evidence {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			ev.Date,
			string(ev.Severity),
			string(ev.Program),
			ev.DefectType,
			contract.TruncateText(ev.Note, maxText),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(writer, "%d evidence item(s). Lookup completed in %v\n", len(product.Evidence), duration)
	return err
}

// writeEvidenceCSV writes the product's evidence list in CSV format.
func writeEvidenceCSV(w io.Writer, product schema.ProductRecord) error {
	header := []string{
		"evidence_id",
		"product_id",
		"date",
		"severity",
		"program",
		"defect_type",
		"image_url",
		"note",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, ev := range product.Evidence {
			rec := []string{
				ev.ID,
				product.ProductID,
				ev.Date,
				string(ev.Severity),
				string(ev.Program),
				ev.DefectType,
				ev.ImageURL,
				ev.Note,
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
