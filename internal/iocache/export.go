package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/internal/parquet"
)

// ExecuteHistoryExport writes the global history store to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	return exportHistory(Manager.GetHistoryStore(), outputFile)
}

// exportHistory writes runs and labels next to outputFile, one Parquet file each.
func exportHistory(store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no render history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total render runs: %d\n", status.TotalRuns)
	fmt.Printf("Total label records: %d\n", status.TableSizes[renderLabelsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve render runs: %w", err)
	}
	labels, err := store.GetAllLabels()
	if err != nil {
		return fmt.Errorf("failed to retrieve render labels: %w", err)
	}

	runsFile := outputFile + ".render_runs.parquet"
	if err := parquet.WriteRenderRunsParquet(parquet.ConvertRenderRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write render runs: %w", err)
	}
	fmt.Printf("Exported %d render runs to: %s\n", len(runs), runsFile)

	labelsFile := outputFile + ".render_labels.parquet"
	if err := parquet.WriteRenderLabelsParquet(parquet.ConvertRenderLabelRecords(labels), labelsFile); err != nil {
		return fmt.Errorf("failed to write render labels: %w", err)
	}
	fmt.Printf("Exported %d label records to: %s\n", len(labels), labelsFile)

	return nil
}
