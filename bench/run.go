package bench

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/gettalong/pdfbench/layout"
)

// Report describes one finished render.
type Report struct {
	Scenario Scenario      `json:"scenario"`
	Library  Library       `json:"library"`
	Output   string        `json:"output"`
	Pages    int           `json:"pages"`
	Bytes    int           `json:"bytes"`
	Layout   time.Duration `json:"layout"`
	Render   time.Duration `json:"render"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Run executes req end to end. The output file is only written after the
// document rendered successfully.
func Run(req Request, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	backend, err := NewBackend(req.Library, req.Compress, req.Deterministic)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := plan(req, backend)
	if err != nil {
		return nil, err
	}
	layoutDone := time.Now()
	logger.Debug("layout planned", "scenario", req.Scenario, "lib", backend.Name(), "pages", len(res.Pages))

	if err := layout.WriteDebugJSON(res, req.DebugLayout); err != nil {
		return nil, fmt.Errorf("writing layout debug JSON: %w", err)
	}

	data, err := backend.Render(res)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: render: %w", req.Scenario, req.Library, err)
	}
	renderDone := time.Now()

	if err := writeOutput(req.Output, data); err != nil {
		return nil, err
	}

	report := &Report{
		Scenario: req.Scenario,
		Library:  Library(backend.Name()),
		Output:   req.Output,
		Pages:    len(res.Pages),
		Bytes:    len(data),
		Layout:   layoutDone.Sub(start),
		Render:   renderDone.Sub(layoutDone),
		Elapsed:  time.Since(start),
	}
	logger.Info("render finished",
		"scenario", report.Scenario,
		"lib", report.Library,
		"output", report.Output,
		"pages", report.Pages,
		"bytes", report.Bytes,
		"elapsed", report.Elapsed,
	)
	return report, nil
}

// plan reads the scenario input and lays it out with the backend's metrics.
func plan(req Request, ts layout.Typesetter) (*layout.Result, error) {
	cfg := req.config()
	opts := layout.BuildOptions{Typesetter: ts, Meta: cfg.Meta.DocumentMeta()}
	if opts.Meta.Subject == "" {
		opts.Meta.Subject = string(req.Scenario)
	}

	switch req.Scenario {
	case LineWrapping:
		text, err := readText(req.Input)
		if err != nil {
			return nil, err
		}
		params, err := cfg.LineWrapping.Params(req.Width, req.font())
		if err != nil {
			return nil, fmt.Errorf("line_wrapping: %w", err)
		}
		return layout.BuildLineWrapping(text, params, opts)
	case RawText:
		text, err := readText(req.Input)
		if err != nil {
			return nil, err
		}
		params, err := cfg.RawText.Params(req.font())
		if err != nil {
			return nil, fmt.Errorf("raw_text: %w", err)
		}
		if err := measureFont(ts, params); err != nil {
			return nil, err
		}
		return layout.BuildRawText(layout.SplitLines(text), params, opts)
	case Table:
		if _, err := os.Stat(req.Image); err != nil {
			return nil, fmt.Errorf("table: image: %w", err)
		}
		params, err := cfg.Table.Params(req.Image, req.font())
		if err != nil {
			return nil, fmt.Errorf("table: %w", err)
		}
		return layout.BuildTable(req.Rows, params, opts)
	default:
		return nil, fmt.Errorf("unknown scenario %q", req.Scenario)
	}
}

// measureFont loads the font once up front so an unusable font fails the
// run before any page is produced, even when nothing needs wrapping.
func measureFont(ts layout.Typesetter, p layout.TextParams) error {
	if _, err := ts.LayoutLines("", p.Geometry.ContentWidth(), p.Font, p.FontSize, p.Leading); err != nil {
		return fmt.Errorf("font: %w", err)
	}
	return nil
}

// readText loads an input file as NFC-normalized UTF-8.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return norm.NFC.String(string(data)), nil
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
