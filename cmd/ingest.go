package cmd

import (
	"fmt"

	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/qualitydesk/qualens/internal/iocache"
	"github.com/qualitydesk/qualens/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ingestSetup loads minimal configuration needed for ingest operations.
// This is used by commands that need ingest access without full shared setup.
func ingestSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get ingest-related config values
	backendStr := viper.GetString("ingest-backend")
	connStr := viper.GetString("ingest-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")

	// Initialize stores with the loaded config (no snapshot caching for ingest commands)
	if err := iocache.InitCaching(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize ingest store: %w", err)
	}

	cfg.IngestBackend = backend
	cfg.IngestDBConnect = connStr
	cfg.OutputFile = outputFile

	return nil
}

// ingestSetupWrapper wraps ingestSetup to provide PreRunE for ingest commands.
func ingestSetupWrapper(_ *cobra.Command, _ []string) error {
	return ingestSetup()
}

// ingestMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func ingestMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get ingest-related config values
	backendStr := viper.GetString("ingest-backend")
	connStr := viper.GetString("ingest-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetIngestDBFilePath()
	}

	cfg.IngestBackend = backend
	cfg.IngestDBConnect = connStr

	return nil
}

// ingestMigrateSetupWrapper wraps ingestMigrateSetup to provide PreRunE for migrate command.
func ingestMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return ingestMigrateSetup()
}

// ingestCmd focused on ingest data management.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Manage historical ingest tracking and exports",
	Long: `Manage historical ingest data used for trend tracking and reporting.

When enabled, Qualens tracks every catalog build, storing:
- Run metadata (timestamp, source path, duration)
- Row counts (parsed and dropped) per build
- Per-product metrics (incident rates, exposure, criticality)

This enables longitudinal analysis, trend detection, and data export for BI tools.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show ingest tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  qualens ingest status

  # Export for analysis in pandas/DuckDB
  qualens ingest export --output-file ingest-data.parquet`,
}

// ingestClearCmd clears the ingest data.
var ingestClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all historical ingest tracking data",
	Long: `Delete all stored ingest runs and product metrics history.

This removes:
- All ingest run metadata
- Historical per-product metrics

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  qualens ingest export --output-file backup.parquet
  qualens ingest clear`,
	PreRunE: ingestSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearIngest(cfg.IngestBackend, contract.GetIngestDBFilePath(), cfg.IngestDBConnect); err != nil {
			contract.LogFatal("Failed to clear ingest data", err)
		}
		fmt.Println("Ingest data cleared successfully.")
	},
}

// ingestStatusCmd shows ingest status.
var ingestStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display ingest tracking statistics and connection details",
	Long: `Show detailed information about historical ingest tracking.

Displays:
- Backend type and connection status
- Total number of ingest runs stored
- Last and oldest run timestamps
- Total products recorded across all runs
- Database table sizes

Examples:
  # Check ingest tracking status
  qualens ingest status`,
	PreRunE: ingestSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetIngestStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get ingest status", err)
		}
		iocache.PrintIngestStatus(status)
	},
}

// ingestExportCmd exports ingest data to Parquet files.
var ingestExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export historical data to Parquet for BI tools and analytics",
	Long: `Export all stored ingest data to Parquet format for use with analytics tools.

Exports two datasets:
- Ingest runs - metadata about each catalog build
- Product metrics - per-product quality figures per build

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter

Examples:
  # Export all data
  qualens ingest export --output-file qualens-data.parquet

  # Use with DuckDB for analysis
  qualens ingest export --output-file data.parquet
  duckdb -c "SELECT * FROM read_parquet('data.parquet.ingest_runs.parquet') LIMIT 10"`,
	PreRunE: ingestSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteIngestExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export ingest data", err)
		}
	},
}

// ingestMigrateCmd runs database migrations for the ingest store.
var ingestMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the ingest tracking store.

Migrations allow:
- Upgrading to new schema versions when Qualens is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  qualens ingest migrate

  # Migrate to specific version
  qualens ingest migrate --target-version 1

  # Rollback to initial state
  qualens ingest migrate --target-version 0`,
	PreRunE: ingestMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateIngest(cfg.IngestBackend, cfg.IngestDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
