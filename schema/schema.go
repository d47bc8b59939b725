// Package schema has models, constants and status types for all parts of qualens.
package schema

import "time"

// RawRecord is one line of the source export mapped to named fields.
// Numeric counters are already normalized (blank/"N/A"/garbage become zero).
type RawRecord struct {
	PONumber         string // Purchase order number
	SKUCode          string // External SKU code assigned by the retailer
	ProductID        string // Supplier product identifier; rows without one are discarded
	DeliveryDate     string // Delivery date string in YYYY-MM-DD form
	IncidentType     string // Incident type flag
	IncidentOrReturn string // Incident vs. return flag
	Comment          string // Free-text incident comment
	Photos           string // Photo flag
	ImageID          string // Evidence image identifier
	ImageContext     string // Image-for-incident-or-return flag
	ImageURL         string // Evidence image URL
	ParcelType       string // Parcel type tag

	BuyerRemorseCount float64 // Buyer's-remorse return counter
	TotalIncidents    float64 // Per-product incident total, repeated on every row
	LostCount         float64 // Lost-shipment counter
	DamageCount       float64 // Damage counter
	DefectCount       float64 // Defect counter
	MisinfoCount      float64 // Misinformation counter
	MisShippedCount   float64 // Mis-shipped counter
	MissingPartsCount float64 // Missing-parts counter
	OtherCount        float64 // Other-incident counter

	Deduction         float64 // Monetary deduction amount for this row
	DeductionCurrency string  // Currency code, defaults to USD

	ImprovementPlan        string // Improvement plan flag
	ImprovementPlanStart   string // Improvement plan start date
	ImprovementPlanComment string // Improvement plan comment
}

// ProductAggregate collapses all rows sharing one product identifier.
//
// TotalDeductions is additive across rows (a product may span multiple
// purchase orders). TotalIncidents is NOT additive: the source bakes the
// per-product total into every row, so the aggregate takes the maximum
// observed value rather than a sum.
type ProductAggregate struct {
	ProductID         string
	SKUCode           string
	Rows              []RawRecord
	FirstDeliveryDate string
	TotalIncidents    float64
	TotalDeductions   float64
	DeductionCurrency string
}

// EvidenceItem is one displayable incident record with an associated image.
// Items are derived once per catalog build and immutable thereafter.
type EvidenceItem struct {
	ID         string   `json:"id"`
	ImageURL   string   `json:"imageUrl"`
	Severity   Severity `json:"severity"`
	Program    Program  `json:"program"`
	Date       string   `json:"date"`
	DefectType string   `json:"defectType"`
	Note       string   `json:"note"`
}

// ProductRecord is the externally visible catalog entry for one product.
type ProductRecord struct {
	ID                string         `json:"id"`
	SKU               string         `json:"sku"`
	Name              string         `json:"name"`
	Manufacturer      string         `json:"manufacturer"`
	Thumbnail         string         `json:"thumbnail"`
	IsCritical        bool           `json:"isCritical"`
	PhotoVolume       int            `json:"photoVolume"`
	FinancialExposure float64        `json:"financialExposure"`
	ProgramsFlagged   []Program      `json:"programsFlagged"`
	IncidentRate      float64        `json:"incidentRate"`
	Insight           string         `json:"insight"`
	RootCause         string         `json:"rootCause"`
	DefectTypes       []string       `json:"defectTypes"`
	Evidence          []EvidenceItem `json:"evidence"`
	PONumber          string         `json:"poNumber,omitempty"`
	SKUCode           string         `json:"skuCode"`
	ProductID         string         `json:"productID"`

	// Raw aggregate figures carried for metrics persistence; not part of
	// the serialized catalog surface.
	IncidentCount  float64 `json:"-"`
	DeductionTotal float64 `json:"-"`
}

// InsightSummary is the synthesizer output for one product aggregate.
// DisplayIncidents and DisplayImpact carry the presentation-boosted figures;
// downstream KPI rollups sum the boosted impact, not the raw deduction.
type InsightSummary struct {
	RootCause        string
	DefectTypes      []string
	Insight          string
	IsCritical       bool
	DisplayIncidents int
	DisplayImpact    float64
}

// FleetKPIs holds catalog-wide rollups.
type FleetKPIs struct {
	CriticalProducts  int     `json:"criticalProducts"`
	PhotosAnalyzed    int     `json:"photosAnalyzed"`
	TotalExposure     float64 `json:"totalExposure"`
	SuppliersAffected int     `json:"suppliersAffected"`
	AvgIncidentRate   float64 `json:"avgIncidentRate"`
	TotalEvidence     int     `json:"totalEvidence"`
}

// CatalogSnapshot is the full sorted catalog plus fleet KPIs. It is built
// once from a static source file and never mutated afterwards.
type CatalogSnapshot struct {
	Products    []ProductRecord `json:"products"`
	KPIs        FleetKPIs       `json:"kpis"`
	SourcePath  string          `json:"sourcePath"`
	BuiltAt     time.Time       `json:"builtAt"`
	RowsParsed  int             `json:"rowsParsed"`
	RowsDropped int             `json:"rowsDropped"`
}

// CacheStatus holds status information about the snapshot cache store.
type CacheStatus struct {
	Backend         DatabaseBackend
	Connected       bool
	TotalEntries    int64
	LastEntryTime   time.Time
	OldestEntryTime time.Time
	TableSizeBytes  int64
}

// IngestStatus holds status information about the ingest-run store.
type IngestStatus struct {
	Backend       DatabaseBackend
	Connected     bool
	TotalRuns     int64
	LastRunID     int64
	LastRunTime   time.Time
	OldestRunTime time.Time
	TotalProducts int64
	TableSizes    map[string]int64
}

// IngestRunRecord represents a row from the qualens_ingest_runs table.
type IngestRunRecord struct {
	RunID            int64
	StartTime        time.Time
	EndTime          *time.Time
	RunDurationMs    *int32
	SourcePath       string
	RowsParsed       int32
	RowsDropped      int32
	TotalProducts    int32
	CriticalProducts int32
}

// ProductMetricsRecord represents a row from the qualens_product_metrics table.
type ProductMetricsRecord struct {
	RunID             int64
	ProductID         string
	IngestTime        time.Time
	IncidentCount     float64
	DeductionTotal    float64
	IncidentRate      float64
	FinancialExposure float64
	EvidenceCount     int32
	IsCritical        bool
}

// CheckResult captures the outcome of a quality gate run.
type CheckResult struct {
	Passed           bool
	CriticalProducts []ProductRecord
	CriticalCount    int
	TotalExposure    float64
	MaxCritical      int
	MaxExposure      float64
}
