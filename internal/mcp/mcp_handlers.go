package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/huangsam/anomalyplot/core"
	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
}

// anomalySummary describes one anomaly for describe_anomalies.
type anomalySummary struct {
	Index          int     `json:"index"`
	XValue         int     `json:"x_value"`
	Revision       string  `json:"revision"`
	RelativeChange float64 `json:"relative_change"`
	Percent        string  `json:"percent"`
	Severity       string  `json:"severity"`
}

// closestRevision is the closest_revision result.
type closestRevision struct {
	Index    int     `json:"index"`
	Revision float64 `json:"revision"`
	Distance float64 `json:"distance"`
}

// datasetConfig clones the base config for the dataset named in the request.
func (h *toolHandler) datasetConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	path := request.GetString("dataset_path", "")
	if path == "" {
		return nil, fmt.Errorf("dataset_path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid dataset_path: %w", err)
	}
	cfg := h.baseCfg.Clone()
	cfg.DatasetPath = abs
	cfg.Output = schema.JSONOut
	cfg.OutputFile = ""
	return cfg, nil
}

func (h *toolHandler) handleAnnotateChart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.datasetConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if rev := request.GetFloat("revision", 0); rev != 0 {
		cfg.Revision = &rev
	}
	cfg.ClampUpper = request.GetBool("clamp_upper", cfg.ClampUpper)

	ds, err := core.LoadDataset(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading dataset failed: %v", err)), nil
	}
	result, err := core.AnnotateDataset(ctx, cfg, ds, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("annotation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleClosestRevision(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.datasetConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()
	if _, ok := args["revision"]; !ok {
		return mcp.NewToolResultError("revision is required"), nil
	}
	target := request.GetFloat("revision", 0)

	ds, err := core.LoadDataset(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading dataset failed: %v", err)), nil
	}
	idx := core.IndexOfClosest(ds.Lookup, target)
	if idx < 0 {
		return mcp.NewToolResultError("dataset has an empty revision lookup"), nil
	}

	res := closestRevision{Index: idx, Revision: ds.Lookup[idx], Distance: ds.Lookup[idx] - target}
	jsonData, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleDescribeAnomalies(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.datasetConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ds, err := core.LoadDataset(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading dataset failed: %v", err)), nil
	}

	summaries := make([]anomalySummary, len(ds.Anomalies))
	for i, a := range ds.Anomalies {
		content := core.AnomalyDescription(ds.Lookup, a)
		summaries[i] = anomalySummary{
			Index:          i,
			XValue:         a.XValue,
			Revision:       content.Revision,
			RelativeChange: a.RelativeChange,
			Percent:        content.Percent,
			Severity:       schema.GetChangeLabel(a.RelativeChange),
		}
	}

	jsonData, _ := json.MarshalIndent(summaries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
