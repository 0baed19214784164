package outwriter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/schema"
)

// LogRenderHeader prints a concise, 2-line header for a render to stderr.
func LogRenderHeader(cfg *contract.Config, ds *schema.Dataset) {
	writeRenderHeader(os.Stderr, cfg, ds)
}

func writeRenderHeader(w io.Writer, cfg *contract.Config, ds *schema.Dataset) {
	name := filepath.Base(cfg.DatasetPath)
	if name == "" || name == "." {
		name = "dataset"
	}

	// Line 1: The dataset summary (name and output)
	_, _ = fmt.Fprintf(w, "📈 Dataset: %s (Output: %s)\n", name, cfg.Output)

	// Line 2: The revision being marked, if any
	rev := ds.Revision
	if cfg.Revision != nil {
		rev = cfg.Revision
	}
	if rev == nil || *rev == 0 {
		_, _ = fmt.Fprintf(w, "📍 Revision: none (%d revisions, %d anomalies)\n", len(ds.Lookup), len(ds.Anomalies))
		return
	}
	_, _ = fmt.Fprintf(w, "📍 Revision: %s (%d revisions, %d anomalies)\n", schema.FormatRevision(*rev), len(ds.Lookup), len(ds.Anomalies))
}
