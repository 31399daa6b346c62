package bench

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gettalong/pdfbench/extract"
)

// Comparison is the outcome of rendering one request with every library.
type Comparison struct {
	Reports []*Report
	Diff    string
	Stats   extract.DiffStats
}

// OutputFor derives the per-library output path: out.pdf -> out.<lib>.pdf.
func OutputFor(output string, lib Library) string {
	ext := filepath.Ext(output)
	base := strings.TrimSuffix(output, ext)
	if ext == "" {
		ext = ".pdf"
	}
	return fmt.Sprintf("%s.%s%s", base, lib, ext)
}

// Compare renders req with canvas and then fpdf, one after the other so the
// timings do not disturb each other, then extracts both text layers in
// parallel and diffs them line by line (canvas on the left).
func Compare(ctx context.Context, req Request, logger *slog.Logger) (*Comparison, error) {
	cmp := &Comparison{}
	for _, lib := range Libraries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r := req
		r.Library = lib
		r.Output = OutputFor(req.Output, lib)
		if req.DebugLayout != "" {
			r.DebugLayout = OutputFor(req.DebugLayout, lib)
		}
		report, err := Run(r, logger)
		if err != nil {
			return nil, err
		}
		cmp.Reports = append(cmp.Reports, report)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	texts := make([][]string, len(cmp.Reports))
	var eg errgroup.Group
	for i, report := range cmp.Reports {
		eg.Go(func() error {
			pages, err := extract.File(report.Output)
			if err != nil {
				return fmt.Errorf("extract %s: %w", report.Library, err)
			}
			texts[i] = extract.Lines(pages)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	cmp.Diff, cmp.Stats = extract.Diff(texts[0], texts[1])
	return cmp, nil
}
