package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/qualitydesk/qualens/schema"
)

// checkViolationsToShow caps how many offending products the failure output lists.
const checkViolationsToShow = 5

// ExecuteCatalogCheck runs the check command for CI/CD gating. It builds
// the catalog, compares it against the configured thresholds, and exits
// non-zero when the gate fails.
func ExecuteCatalogCheck(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()

	provider := NewCatalogProvider(cfg, mgr)
	snap := provider.Snapshot()

	result := EvaluateCheck(snap, cfg)
	printCheckResult(result, time.Since(start))

	if !result.Passed {
		fmt.Printf("%d critical product(s) over threshold\n", len(result.CriticalProducts))
		os.Exit(1)
	}
	return nil
}

// EvaluateCheck applies the gate thresholds to a built snapshot. The gate
// fails when the critical-product count exceeds MaxCritical, or when
// MaxExposure is set and the summed exposure exceeds it.
func EvaluateCheck(snap *schema.CatalogSnapshot, cfg *contract.Config) *schema.CheckResult {
	result := &schema.CheckResult{
		MaxCritical:   cfg.MaxCritical,
		MaxExposure:   cfg.MaxExposure,
		CriticalCount: snap.KPIs.CriticalProducts,
		TotalExposure: snap.KPIs.TotalExposure,
	}

	for _, product := range snap.Products {
		if product.IsCritical {
			result.CriticalProducts = append(result.CriticalProducts, product)
		}
	}

	result.Passed = result.CriticalCount <= cfg.MaxCritical
	if cfg.MaxExposure > 0 && result.TotalExposure > cfg.MaxExposure {
		result.Passed = false
	}
	return result
}

// printCheckResult prints the check result in a concise format suitable for CI/CD.
func printCheckResult(result *schema.CheckResult, duration time.Duration) {
	printCheckHeader(result, duration)

	if result.Passed {
		printCheckSuccess(result)
	} else {
		printCheckFailure(result)
	}
}

// printCheckHeader prints the common header information for check results.
func printCheckHeader(result *schema.CheckResult, duration time.Duration) {
	fmt.Println("Quality Gate Results:")

	maxExposure := "unlimited"
	if result.MaxExposure > 0 {
		maxExposure = contract.FormatUSD(result.MaxExposure)
	}

	// Define labels and values for dynamic padding
	labels := []string{"Max critical:", "Max exposure:"}
	values := []any{result.MaxCritical, maxExposure}

	// Find the longest label for consistent padding
	maxLabelLen := 0
	for _, label := range labels {
		if len(label) > maxLabelLen {
			maxLabelLen = len(label)
		}
	}

	// Print each label-value pair with consistent padding
	for i, label := range labels {
		fmt.Printf("  %-*s %v\n", maxLabelLen+1, label, values[i])
	}
	fmt.Println()

	fmt.Printf("Checked catalog in %v\n\n", duration)
}

// printCheckSuccess prints the success case output.
func printCheckSuccess(result *schema.CheckResult) {
	fmt.Printf("✅ Catalog passed the quality gate\n\n")
	fmt.Printf("Observed: critical=%d (max %d), exposure=%s\n",
		result.CriticalCount, result.MaxCritical, contract.FormatUSD(result.TotalExposure))
}

// printCheckFailure prints the failure case output.
func printCheckFailure(result *schema.CheckResult) {
	fmt.Printf("❌ Quality gate failed: %d critical product(s), %s total exposure\n\n",
		result.CriticalCount, contract.FormatUSD(result.TotalExposure))

	// Show top violations, with "+X more" if needed
	shown := 0
	for _, product := range result.CriticalProducts {
		if shown >= checkViolationsToShow {
			remaining := len(result.CriticalProducts) - shown
			if remaining > 0 {
				fmt.Printf("  ... and %d more\n", remaining)
			}
			break
		}
		fmt.Printf("  - %s (rate: %.1f%%, exposure: %s)\n",
			product.ID, product.IncidentRate, contract.FormatUSD(product.FinancialExposure))
		shown++
	}
	fmt.Println()
}
