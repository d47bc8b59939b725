//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestQualensWithMySQL tests the qualens CLI with a MySQL backend.
func TestQualensWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "qualens",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/qualens?parseTime=true", host, port.Port())

	// Set environment variables
	_ = os.Setenv("QUALENS_CACHE_BACKEND", "mysql")
	_ = os.Setenv("QUALENS_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("QUALENS_INGEST_BACKEND", "mysql")
	_ = os.Setenv("QUALENS_INGEST_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("QUALENS_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("QUALENS_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("QUALENS_INGEST_BACKEND") }()
	defer func() { _ = os.Unsetenv("QUALENS_INGEST_DB_CONNECT") }()

	runCatalogRoundtrip(t)
}

// TestQualensWithPostgres tests the qualens CLI with a PostgreSQL backend.
func TestQualensWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	// Set environment variables
	_ = os.Setenv("QUALENS_CACHE_BACKEND", "postgresql")
	_ = os.Setenv("QUALENS_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("QUALENS_INGEST_BACKEND", "postgresql")
	_ = os.Setenv("QUALENS_INGEST_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("QUALENS_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("QUALENS_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("QUALENS_INGEST_BACKEND") }()
	defer func() { _ = os.Unsetenv("QUALENS_INGEST_DB_CONNECT") }()

	runCatalogRoundtrip(t)
}

// runCatalogRoundtrip exercises the full CLI against whichever backend the
// environment points at.
func runCatalogRoundtrip(t *testing.T) {
	fixture := writeIncidentFixture(t, t.TempDir())

	// Run qualens cache clear
	err := runQualensCommand(t, "cache", "clear")
	require.NoError(t, err)

	// Run qualens ingest clear
	err = runQualensCommand(t, "ingest", "clear")
	require.NoError(t, err)

	// Build the catalog twice: first run populates the cache and ingest
	// tables, second run should hit the snapshot cache.
	err = runQualensCommand(t, "products", fixture, "--limit", "5")
	require.NoError(t, err)

	err = runQualensCommand(t, "products", fixture, "--limit", "5")
	require.NoError(t, err)

	// Run qualens cache status
	err = runQualensCommand(t, "cache", "status")
	require.NoError(t, err)

	// Run qualens ingest status
	err = runQualensCommand(t, "ingest", "status")
	require.NoError(t, err)
}

func runQualensCommand(t *testing.T, args ...string) error {
	qualensPath := getQualensBinary()
	cmd := exec.Command(qualensPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
