package schema

// Custom string types for type safety.
type (
	// Severity represents an evidence severity level.
	Severity string

	// Program represents the inspection or reporting channel through which
	// an incident was attributed.
	Program string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string
)

// All severity levels, ordered Critical > High > Medium > Low.
const (
	CriticalSeverity Severity = "Critical"
	HighSeverity     Severity = "High"
	MediumSeverity   Severity = "Medium"
	LowSeverity      Severity = "Low"
)

// All inspection programs. The set is closed: program assignment indexes
// into AllPrograms, so any UI depending on exact members must be updated
// in lockstep with this list.
const (
	CustomerReported       Program = "Customer Reported"
	AsiaInspection         Program = "Asia Inspection"
	Deluxing               Program = "Deluxing"
	XRayQC                 Program = "X-Ray QC"
	Returns                Program = "Returns"
	QC                     Program = "QC"
	PreShipmentInspection  Program = "Pre-Shipment Inspection"
	InboundQC              Program = "Inbound QC"
	WarehouseAudit         Program = "Warehouse Audit"
	SupplierAudit          Program = "Supplier Audit"
	RandomSampling         Program = "Random Sampling"
	BatchTesting           Program = "Batch Testing"
)

// AllPrograms lists every program in assignment order. Index positions are
// load-bearing: the deterministic program hash selects entries by index, so
// reordering this slice changes derived output.
var AllPrograms = []Program{
	CustomerReported,
	AsiaInspection,
	Deluxing,
	XRayQC,
	Returns,
	QC,
	PreShipmentInspection,
	InboundQC,
	WarehouseAudit,
	SupplierAudit,
	RandomSampling,
	BatchTesting,
}

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// SeverityRank returns a sortable rank for a severity (higher is worse).
func SeverityRank(s Severity) int {
	switch s {
	case CriticalSeverity:
		return 3
	case HighSeverity:
		return 2
	case MediumSeverity:
		return 1
	default:
		return 0
	}
}
