//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var (
	// sharedQualensPath holds the path to a shared qualens binary built once for all tests.
	sharedQualensPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getQualensBinary returns the path to the qualens binary, building it once if needed.
func getQualensBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "qualens-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		qualensPath := filepath.Join(tempDir, "qualens")
		buildCmd := exec.Command("go", "build", "-o", qualensPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build qualens: %v", err))
		}

		sharedQualensPath = qualensPath
	})

	return sharedQualensPath
}

// writeIncidentFixture writes a small incident CSV into dir and returns its path.
func writeIncidentFixture(t *testing.T, dir string) string {
	t.Helper()

	header := strings.Join([]string{
		"PO Number", "SKU Code", "Product ID", "Delivery Date", "Incident Type",
		"Incident or Return", "Comment", "Photos", "Image ID", "Image Context",
		"Image URL", "Parcel Type", "Buyer Remorse", "Total Incidents", "Lost",
		"Damage", "Defect", "Misinfo", "Mis-shipped", "Missing Parts", "Other",
		"Deduction", "Deduction Currency", "Improvement Plan",
		"Improvement Plan Start", "Improvement Plan Comment",
	}, ",")

	rows := []string{
		header,
		"PO-0000001,SKU-000001,W005553866,2024-06-15,Incident,Incident,Cracked leg and scratched surface,1,img-1,damage,https://secure.img1-fg.wfcdn.com/im/a.jpg,Parcel,0,4,0,1,1,0,0,0,0,85.50,USD,,,",
		"PO-0000002,SKU-000001,W005553866,2024-06-20,Incident,Incident,Missing hardware bag,1,img-2,defect,https://secure.img1-fg.wfcdn.com/im/b.jpg,Parcel,0,4,0,0,1,0,0,1,0,40.00,USD,,,",
		"PO-0000003,SKU-000002,W001234567,2024-07-01,Incident,Incident,Minor scuff on corner,1,img-3,damage,https://secure.img1-fg.wfcdn.com/im/c.jpg,Parcel,0,1,0,1,0,0,0,0,0,10.00,USD,,,",
	}

	path := filepath.Join(dir, "incidents.csv")
	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}
