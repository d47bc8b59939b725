package outwriter

import (
	"time"

	"github.com/qualitydesk/qualens/schema"
)

// sampleProduct builds one catalog entry with evidence for output tests.
func sampleProduct(id string, critical bool, rate float64) schema.ProductRecord {
	return schema.ProductRecord{
		ID:                "prod-" + id,
		ProductID:         id,
		SKU:               "sku-" + id,
		SKUCode:           "SKU-" + id,
		Name:              "Oak Dining Table " + id,
		Manufacturer:      "Acme Woodworks",
		Thumbnail:         "https://img.wfcdn.com/" + id + ".jpg",
		IsCritical:        critical,
		PhotoVolume:       12,
		FinancialExposure: 1500.50,
		ProgramsFlagged:   []schema.Program{schema.CustomerReported, schema.Returns},
		IncidentRate:      rate,
		Insight:           "Recurring structural issue flagged across deliveries",
		RootCause:         "Recurring quality issue identified",
		DefectTypes:       []string{"Structural Issue", "Scratch"},
		Evidence: []schema.EvidenceItem{
			{
				ID:         id + "-ev-1",
				ImageURL:   "https://img.wfcdn.com/" + id + "-1.jpg",
				Severity:   schema.HighSeverity,
				Program:    schema.CustomerReported,
				Date:       "2024-07-01",
				DefectType: "Structural Issue",
				Note:       "Leg joint cracked on arrival",
			},
			{
				ID:         id + "-ev-2",
				ImageURL:   "https://img.wfcdn.com/" + id + "-2.jpg",
				Severity:   schema.MediumSeverity,
				Program:    schema.Returns,
				Date:       "2024-07-08",
				DefectType: "Scratch",
				Note:       "Surface scratch along the table edge",
			},
		},
	}
}

// sampleCatalogSnapshot wraps products in a snapshot with row counts set.
func sampleCatalogSnapshot(products []schema.ProductRecord) *schema.CatalogSnapshot {
	critical := 0
	for _, p := range products {
		if p.IsCritical {
			critical++
		}
	}
	return &schema.CatalogSnapshot{
		Products: products,
		KPIs: schema.FleetKPIs{
			CriticalProducts: critical,
			PhotosAnalyzed:   12 * len(products),
			TotalExposure:    1500.50 * float64(len(products)),
			AvgIncidentRate:  5.0,
			TotalEvidence:    2 * len(products),
		},
		SourcePath:  "incidents.csv",
		BuiltAt:     time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
		RowsParsed:  len(products) + 1,
		RowsDropped: 1,
	}
}
