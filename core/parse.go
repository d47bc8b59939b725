package core

import (
	"os"
	"strconv"
	"strings"

	"github.com/qualitydesk/qualens/schema"
)

// minColumnCount is the number of positional columns a source row must carry
// to be usable. Shorter rows are dropped silently: malformed rows must never
// abort ingestion of the rest of the file.
const minColumnCount = 25

// SplitRow splits one line of the source export into its fields. A double
// quote toggles quoted mode, during which commas are literal content.
//
// The format has no doubled-quote escaping, so a literal quote inside a
// quoted field cannot be represented. Existing source files depend on this
// exact behavior, so the limitation is kept rather than fixed.
func SplitRow(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	fields = append(fields, current.String())

	return fields
}

// parseCounter normalizes a numeric counter field. Blank, whitespace-only
// and the "N/A" sentinel become zero, as does anything that fails to parse.
// A parse failure is a tolerance case, not an error.
func parseCounter(value string) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == "N/A" {
		return 0
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0
	}
	return parsed
}

// fieldAt returns the trimmed field at index i, or fallback when the row is
// too short. Trailing columns may be absent; absence must not panic.
func fieldAt(fields []string, i int, fallback string) string {
	if i >= len(fields) {
		return fallback
	}
	trimmed := strings.TrimSpace(fields[i])
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

// normalizeRow converts a split row into a typed RawRecord.
func normalizeRow(fields []string) schema.RawRecord {
	return schema.RawRecord{
		PONumber:         fieldAt(fields, 0, ""),
		SKUCode:          fieldAt(fields, 1, ""),
		ProductID:        fieldAt(fields, 2, ""),
		DeliveryDate:     fieldAt(fields, 3, ""),
		IncidentType:     fieldAt(fields, 4, ""),
		IncidentOrReturn: fieldAt(fields, 5, ""),
		Comment:          fieldAt(fields, 6, ""),
		Photos:           fieldAt(fields, 7, ""),
		ImageID:          fieldAt(fields, 8, ""),
		ImageContext:     fieldAt(fields, 9, ""),
		ImageURL:         fieldAt(fields, 10, ""),
		ParcelType:       fieldAt(fields, 11, ""),

		BuyerRemorseCount: parseCounter(fieldAt(fields, 12, "")),
		TotalIncidents:    parseCounter(fieldAt(fields, 13, "")),
		LostCount:         parseCounter(fieldAt(fields, 14, "")),
		DamageCount:       parseCounter(fieldAt(fields, 15, "")),
		DefectCount:       parseCounter(fieldAt(fields, 16, "")),
		MisinfoCount:      parseCounter(fieldAt(fields, 17, "")),
		MisShippedCount:   parseCounter(fieldAt(fields, 18, "")),
		MissingPartsCount: parseCounter(fieldAt(fields, 19, "")),
		OtherCount:        parseCounter(fieldAt(fields, 20, "")),

		Deduction:         parseCounter(fieldAt(fields, 21, "0")),
		DeductionCurrency: fieldAt(fields, 22, "USD"),

		ImprovementPlan:        fieldAt(fields, 23, ""),
		ImprovementPlanStart:   fieldAt(fields, 24, ""),
		ImprovementPlanComment: fieldAt(fields, 25, ""),
	}
}

// ParseSource turns the raw file content into normalized records. The first
// non-blank line is a header and is always skipped, never parsed for field
// names: the column layout is positional. Returns the records plus the
// number of data lines dropped for being too short or unattributable.
func ParseSource(content []byte) ([]schema.RawRecord, int) {
	lines := strings.Split(string(content), "\n")

	var records []schema.RawRecord
	dropped := 0
	seenHeader := false

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !seenHeader {
			seenHeader = true
			continue
		}

		fields := SplitRow(line)
		if len(fields) < minColumnCount {
			dropped++
			continue
		}

		record := normalizeRow(fields)

		// A record with no product identifier cannot be attributed to any
		// product and would corrupt aggregation.
		if record.ProductID == "" {
			dropped++
			continue
		}

		records = append(records, record)
	}

	return records, dropped
}

// ReadSource reads the raw bytes of the source file. Callers own the
// degradation policy for read failures.
func ReadSource(path string) ([]byte, error) {
	return os.ReadFile(path)
}
