// Package main provides a performance benchmarking tool for the qualens CLI.
// It generates synthetic incident CSVs of different sizes, measures execution
// times across command types with and without snapshot caching, and produces
// CSV output for performance analysis and documentation.
//
// Prerequisites:
// - qualens binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory to write generated CSV fixtures into
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Fixture     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	FixtureRows map[string]int
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		FixtureRows: map[string]int{
			"small":  100,
			"medium": 5000,
			"large":  100000,
		},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fixtures, err := generateFixtures(config)
	if err != nil {
		fmt.Printf("Failed to generate fixtures: %v\n", err)
		os.Exit(1)
	}

	// Clear the cache using qualens cache clear
	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("qualens", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config, fixtures)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the qualens binary exists.
func checkPrerequisites() error {
	if _, err := exec.LookPath("qualens"); err != nil {
		return fmt.Errorf("qualens binary not found in PATH")
	}
	return nil
}

// generateFixtures writes synthetic incident CSVs of the configured sizes.
func generateFixtures(config BenchmarkConfig) (map[string]string, error) {
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return nil, err
	}

	comments := []string{
		"Item arrived with a cracked leg and scratched surface",
		"Customer reported missing hardware and loose screws",
		"Packaging damaged in transit, broken glass panel",
		"Fabric torn near the seam, strong chemical odor",
		"", // blank comments exercise the note templates
	}

	header := []string{
		"PO Number", "SKU Code", "Product ID", "Delivery Date", "Incident Type",
		"Incident or Return", "Comment", "Photos", "Image ID", "Image Context",
		"Image URL", "Parcel Type", "Buyer Remorse", "Total Incidents", "Lost",
		"Damage", "Defect", "Misinfo", "Mis-shipped", "Missing Parts", "Other",
		"Deduction", "Deduction Currency", "Improvement Plan",
		"Improvement Plan Start", "Improvement Plan Comment",
	}

	fixtures := make(map[string]string)
	for name, rows := range config.FixtureRows {
		path := filepath.Join(config.WorkDir, fmt.Sprintf("incidents_%s.csv", name))
		file, err := os.Create(path)
		if err != nil {
			return nil, err
		}

		writer := csv.NewWriter(file)
		_ = writer.Write(header)
		for i := range rows {
			productID := fmt.Sprintf("W%09d", i%(rows/10+1))
			_ = writer.Write([]string{
				fmt.Sprintf("PO-%07d", i),
				fmt.Sprintf("SKU-%06d", i),
				productID,
				"2024-06-15",
				"Incident",
				"Incident",
				comments[i%len(comments)],
				"1",
				fmt.Sprintf("img-%d", i),
				"damage",
				"https://secure.img1-fg.wfcdn.com/im/photo.jpg",
				"Parcel",
				"0",
				fmt.Sprintf("%d", i%5),
				"0", "1", "1", "0", "0", "0", "0",
				fmt.Sprintf("%.2f", float64(i%40)*2.5),
				"USD",
				"", "", "",
			})
		}
		writer.Flush()
		if err := file.Close(); err != nil {
			return nil, err
		}

		fixtures[name] = path
	}

	return fixtures, nil
}

// runBenchmarks executes all benchmark tests across generated fixtures.
func runBenchmarks(config BenchmarkConfig, fixtures map[string]string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d fixtures, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(fixtures), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for name, path := range fixtures {
		fmt.Printf("Benchmarking %s (%s)\n", name, path)

		for _, command := range []string{"products", "kpis"} {
			result := runBenchmarkSuite(config, name, path, command)
			results = append(results, result)
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, fixture, sourcePath, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, fixture)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, sourcePath, command, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Fixture:     fixture,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a qualens command multiple times with the specified
// cache backend and returns the cold time plus warm times.
func runBenchmark(config BenchmarkConfig, sourcePath, command, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{command, sourcePath, "--cache-backend", cacheBackend}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("qualens", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)

	if command == "kpis" {
		return strings.Contains(outputStr, "Rollup completed in")
	}
	return strings.Contains(outputStr, "Catalog built from")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/qualens_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"fixture", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Fixture, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "products", "Products Catalog:")
	printCommandSummary(results, "kpis", "KPI Rollups:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type.
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Fixture, result.NoCacheTime, result.ColdTime, result.WarmTime)
		}
	}
}
