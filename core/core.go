// Package core has core logic for annotating anomaly charts.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/internal/dataset"
	"github.com/huangsam/anomalyplot/internal/outwriter"
	"github.com/huangsam/anomalyplot/internal/plotter"
	"github.com/huangsam/anomalyplot/schema"
)

// ContainerID is the id given to the rendering surface.
const ContainerID = "placeholder"

// ExecuteRender loads the configured dataset, annotates it and writes the result.
// It serves as the main entry point for the 'render' command.
func ExecuteRender(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	start := time.Now()
	ds, err := LoadDataset(cfg)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	outwriter.LogRenderHeader(cfg, ds)

	result, err := AnnotateDataset(ctx, cfg, ds, mgr)
	if err != nil {
		return err
	}

	return outwriter.PrintAnnotation(result, cfg, time.Since(start))
}

// AnnotateDataset builds the annotation for a loaded dataset and records the
// run in the render history when mgr provides a store.
func AnnotateDataset(ctx context.Context, cfg *contract.Config, ds *schema.Dataset, mgr contract.HistoryManager) (*schema.AnnotationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// --- 0. Begin History Tracking (if configured) ---
	var runID int64
	var err error
	store := historyStore(mgr)
	if store != nil {
		runID, err = store.BeginRender(time.Now(), cfg.DatasetPath, cfg.Params())
		if err != nil {
			contract.LogWarn("History tracking initialization failed", err)
		}
	}

	// --- 1. Annotation ---
	result, err := BuildAnnotation(cfg, ds)
	if err != nil {
		// Failed renders still close their run
		if store != nil && runID > 0 {
			if endErr := store.EndRender(runID, time.Now(), 0); endErr != nil {
				contract.LogWarn("Failed to close render run", endErr)
			}
		}
		return nil, err
	}

	// --- 2. End History Tracking ---
	if store != nil && runID > 0 {
		recordRender(store, runID, result.Container.Labels)
	}

	return result, nil
}

// LoadDataset reads and validates the configured dataset. Invariant violations
// are warnings unless the config is strict.
func LoadDataset(cfg *contract.Config) (*schema.Dataset, error) {
	ds, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		return nil, err
	}
	if err := dataset.Validate(ds); err != nil {
		if cfg.Strict {
			return nil, fmt.Errorf("invalid dataset: %w", err)
		}
		contract.LogWarn("Dataset validation", err)
	}
	return ds, nil
}

// BuildAnnotation renders and labels a dataset using the chart settings in cfg.
// A revision set in cfg takes precedence over the dataset's own.
func BuildAnnotation(cfg *contract.Config, ds *schema.Dataset) (*schema.AnnotationResult, error) {
	effective := *ds
	if cfg.Revision != nil {
		effective.Revision = cfg.Revision
	}

	title := cfg.Title
	if title == "" {
		title = ds.Title
	}

	format := plotter.SVG
	if cfg.Output == schema.PNGOut {
		format = plotter.PNG
	}

	container := schema.NewContainer(ContainerID, cfg.Width, cfg.Height)
	chartCfg, err := Initialize(&effective, container, Deps{
		Renderer:   plotter.NewRenderer(format),
		Measurer:   plotter.NewMonospaceMeasurer(),
		ClampUpper: cfg.ClampUpper,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Title:      title,
	})
	if err != nil {
		return nil, err
	}

	result := &schema.AnnotationResult{
		Title:     title,
		Config:    chartCfg,
		Container: container,
	}
	if rev, ok := effective.TargetRevision(); ok {
		result.Revision = &rev
	}
	if chartCfg.Grid != nil && len(chartCfg.Grid.Markings) > 0 {
		idx := int(chartCfg.Grid.Markings[0].XAxis.From)
		result.MarkerIndex = &idx
	}
	return result, nil
}
