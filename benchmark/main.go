// Package main provides a performance benchmarking tool for the anomalyplot CLI.
// It generates synthetic datasets of increasing size, renders each one in several
// output formats, treats the first successful run as cold and averages the rest as warm,
// and writes the timings to CSV.
//
// Prerequisites:
// - anomalyplot binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic datasets and rendered outputs are written
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-history average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset       string
	Output        string
	NoHistoryTime string
	ColdTime      string
	WarmTime      string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir       string
	Timeout       time.Duration
	NoHistoryRuns int
	HistoryRuns   int
	Sizes         []int
	AnomalyEvery  int
	Outputs       []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:       os.Args[1],
		Timeout:       2 * time.Minute,
		NoHistoryRuns: 3,
		HistoryRuns:   4,
		Sizes:         []int{100, 1000, 10000, 50000},
		AnomalyEvery:  50,
		Outputs:       []string{"svg", "png", "json", "html"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	historyDB := filepath.Join(config.WorkDir, "benchmark_history.db")
	_ = os.Remove(historyDB)

	results := runBenchmarks(config, historyDB)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results, config.Outputs)
}

// checkPrerequisites verifies that the anomalyplot binary exists and the work dir is usable.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("anomalyplot"); err != nil {
		return fmt.Errorf("anomalyplot binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// runBenchmarks renders every dataset size in every output format.
func runBenchmarks(config BenchmarkConfig, historyDB string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %d outputs, %v timeout, no-history: %d runs, history: %d runs\n",
		len(config.Sizes), len(config.Outputs), config.Timeout, config.NoHistoryRuns, config.HistoryRuns)

	for _, size := range config.Sizes {
		name := fmt.Sprintf("points_%d", size)
		path := filepath.Join(config.WorkDir, name+".json")
		if err := writeSyntheticDataset(path, size, config.AnomalyEvery); err != nil {
			fmt.Printf("Skipping %s: %v\n", name, err)
			continue
		}
		fmt.Printf("Benchmarking %s\n", name)

		for _, output := range config.Outputs {
			results = append(results, runBenchmarkSuite(config, name, path, output, historyDB))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-history and history benchmarks for one dataset and output.
func runBenchmarkSuite(config BenchmarkConfig, name, path, output, historyDB string) BenchmarkResult {
	fmt.Printf("Rendering %s as %s\n", name, output)
	outFile := filepath.Join(config.WorkDir, name+"."+output)

	runPhase := func(backendArgs []string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		args := append([]string{"render", path, "--output", output, "--output-file", outFile}, backendArgs...)
		cold, times := runBenchmark(config, args, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	_, noHistoryAvg := runPhase([]string{"--history-backend", "none"}, config.NoHistoryRuns, "No-history")
	coldTime, warmAvg := runPhase([]string{"--history-backend", "sqlite", "--history-db-connect", historyDB}, config.HistoryRuns, "History")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-history average: %s, Cold time: %s, Warm average: %s\n", noHistoryAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:       name,
		Output:        output,
		NoHistoryTime: noHistoryAvg,
		ColdTime:      coldTimeStr,
		WarmTime:      warmAvg,
	}
}

// runBenchmark executes an anomalyplot command multiple times and returns cold time and warm times.
func runBenchmark(config BenchmarkConfig, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("anomalyplot", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates the output file was written.
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Dataset:") && strings.Contains(outputStr, " to ")
}

// writeSyntheticDataset writes a sine-wave series with a step anomaly every anomalyEvery points.
func writeSyntheticDataset(path string, size, anomalyEvery int) error {
	points := make([][2]float64, size)
	lookup := make([]float64, size)
	var anomalyPoints [][2]float64
	var anomalies []map[string]float64

	level := 100.0
	for i := range size {
		if i > 0 && i%anomalyEvery == 0 {
			change := 0.15
			if (i/anomalyEvery)%2 == 0 {
				change = -0.12
			}
			level *= 1 + change
			anomalies = append(anomalies, map[string]float64{"x_value": float64(i), "relative_change": change})
		}
		y := level + 2*math.Sin(float64(i)/7)
		points[i] = [2]float64{float64(i), y}
		lookup[i] = float64(10000 + i*3)
		if len(anomalies) > 0 && anomalies[len(anomalies)-1]["x_value"] == float64(i) {
			anomalyPoints = append(anomalyPoints, points[i])
		}
	}

	dataset := map[string]any{
		"title": "synthetic " + strconv.Itoa(size),
		"data": []any{
			points,
			map[string]any{"label": "anomalies", "points": true, "data": anomalyPoints},
		},
		"lookup":    lookup,
		"anomalies": anomalies,
		"revision":  lookup[size/2],
	}

	raw, err := json.Marshal(dataset)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/anomalyplot_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"dataset", "output", "no_history_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Output, result.NoHistoryTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results, grouped by output format.
func printSummary(results []BenchmarkResult, outputs []string) {
	fmt.Printf("Benchmark complete\n")
	for _, output := range outputs {
		fmt.Printf("%s output:\n", strings.ToUpper(output))
		for _, result := range results {
			if result.Output == output {
				fmt.Printf("  %-14s: No-history: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoHistoryTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
