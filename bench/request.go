// Package bench drives one benchmark scenario against one PDF library:
// it resolves the request into layout parameters, lets the chosen backend
// lay out and render the document, and writes the result exactly once.
package bench

import (
	"fmt"
	"strings"

	"github.com/gettalong/pdfbench/config"
	"github.com/gettalong/pdfbench/layout"
)

// Scenario names a benchmark workload.
type Scenario string

const (
	LineWrapping Scenario = "line_wrapping"
	RawText      Scenario = "raw_text"
	Table        Scenario = "table"
)

// Scenarios lists every known scenario.
var Scenarios = []Scenario{LineWrapping, RawText, Table}

// ParseScenario accepts the scenario name as used on the command line.
func ParseScenario(s string) (Scenario, error) {
	for _, sc := range Scenarios {
		if strings.EqualFold(s, string(sc)) {
			return sc, nil
		}
	}
	return "", fmt.Errorf("unknown scenario %q", s)
}

// Library names a PDF backend.
type Library string

const (
	Canvas Library = "canvas"
	FPDF   Library = "fpdf"
)

// Libraries lists every backend in the order compare runs them.
var Libraries = []Library{Canvas, FPDF}

// ParseLibrary accepts the --lib flag value.
func ParseLibrary(s string) (Library, error) {
	for _, lib := range Libraries {
		if strings.EqualFold(s, string(lib)) {
			return lib, nil
		}
	}
	return "", fmt.Errorf("unknown library %q (want canvas or fpdf)", s)
}

// Request is one render invocation. It is built once from the command line
// and not modified afterwards.
type Request struct {
	Scenario Scenario
	Library  Library

	// Input is the text file for line_wrapping and raw_text.
	Input string
	// Width is the content width in points for line_wrapping.
	Width float64
	// Rows and Image drive the table scenario.
	Rows  int
	Image string

	Output string
	// Font is an optional TrueType/OpenType file registered under the name "font".
	Font string

	Deterministic bool
	Compress      bool
	// DebugLayout writes the planned layout as JSON when set.
	DebugLayout string

	Config *config.Config
}

// Validate checks the arguments that do not need the filesystem.
func (r Request) Validate() error {
	switch r.Scenario {
	case LineWrapping:
		if r.Input == "" {
			return fmt.Errorf("line_wrapping: input file is required")
		}
		if r.Width <= 0 {
			return fmt.Errorf("line_wrapping: width must be positive, got %g", r.Width)
		}
	case RawText:
		if r.Input == "" {
			return fmt.Errorf("raw_text: input file is required")
		}
	case Table:
		if r.Rows < 0 {
			return fmt.Errorf("table: rows must not be negative, got %d", r.Rows)
		}
		if r.Image == "" {
			return fmt.Errorf("table: image file is required")
		}
	default:
		return fmt.Errorf("unknown scenario %q", r.Scenario)
	}
	if _, err := ParseLibrary(string(r.Library)); err != nil {
		return err
	}
	if r.Output == "" {
		return fmt.Errorf("%s: output file is required", r.Scenario)
	}
	return nil
}

func (r Request) config() *config.Config {
	if r.Config == nil {
		return config.Default()
	}
	return r.Config
}

// font returns the user font resource, or the zero value for the scenario default.
func (r Request) font() layout.FontResource {
	if r.Font == "" {
		return layout.FontResource{}
	}
	return layout.FontResource{Name: "font", Src: r.Font}
}
