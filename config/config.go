// Package config holds the per-scenario layout parameters. Defaults live in
// code and can be overridden by a TOML or YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gettalong/pdfbench/binding"
	"github.com/gettalong/pdfbench/layout"
)

// Config is the root of the configuration file.
type Config struct {
	Meta         Meta               `toml:"meta" yaml:"meta"`
	LineWrapping LineWrappingConfig `toml:"line_wrapping" yaml:"line_wrapping"`
	RawText      TextConfig         `toml:"raw_text" yaml:"raw_text"`
	Table        TableConfig        `toml:"table" yaml:"table"`
}

// Meta is written into the document info dictionary.
type Meta struct {
	Title    string   `toml:"title" yaml:"title"`
	Author   string   `toml:"author" yaml:"author"`
	Subject  string   `toml:"subject" yaml:"subject"`
	Creator  string   `toml:"creator" yaml:"creator"`
	Keywords []string `toml:"keywords" yaml:"keywords"`
}

// LineWrappingConfig configures the line_wrapping scenario. The page width is
// given on the command line; Gutter is added on both sides of it.
type LineWrappingConfig struct {
	PageHeight string `toml:"page_height" yaml:"page_height"`
	Gutter     string `toml:"gutter" yaml:"gutter"`
	Font       string `toml:"font" yaml:"font"`
	FontSize   string `toml:"font_size" yaml:"font_size"`
	LineHeight string `toml:"line_height" yaml:"line_height"`
}

// TextConfig configures the raw_text scenario.
type TextConfig struct {
	Page       string `toml:"page" yaml:"page"`
	Font       string `toml:"font" yaml:"font"`
	FontSize   string `toml:"font_size" yaml:"font_size"`
	LineHeight string `toml:"line_height" yaml:"line_height"`
}

// TableConfig configures the table scenario.
type TableConfig struct {
	Page        string   `toml:"page" yaml:"page"`
	Font        string   `toml:"font" yaml:"font"`
	FontSize    string   `toml:"font_size" yaml:"font_size"`
	Columns     []string `toml:"columns" yaml:"columns"`
	Aligns      []string `toml:"aligns" yaml:"aligns"`
	RowHeight   string   `toml:"row_height" yaml:"row_height"`
	Padding     []string `toml:"padding" yaml:"padding"`
	Border      string   `toml:"border" yaml:"border"`
	ImageWidth  string   `toml:"image_width" yaml:"image_width"`
	ImageHeight string   `toml:"image_height" yaml:"image_height"`
	Label       string   `toml:"label" yaml:"label"`
}

// Default returns the parameters the benchmark scripts were tuned with.
func Default() *Config {
	return &Config{
		Meta: Meta{Creator: "pdfbench"},
		LineWrapping: LineWrappingConfig{
			PageHeight: "1000pt",
			Gutter:     "3pt", // 页面宽度 = width + 6pt
			Font:       "serif",
			FontSize:   "10pt",
			LineHeight: "11.16pt",
		},
		RawText: TextConfig{
			Page:       "A4 margin 108pt 72pt",
			Font:       "serif",
			FontSize:   "12pt",
			LineHeight: "14pt",
		},
		Table: TableConfig{
			Page:        "A4 margin 72pt",
			Font:        "sans",
			FontSize:    "10pt",
			Columns:     []string{"200pt", "100pt", "100pt"},
			Aligns:      []string{"left", "center", "right"},
			RowHeight:   "51.5pt",
			Padding:     []string{"6pt", "5pt", "6pt", "6pt"},
			Border:      "1pt",
			ImageWidth:  "53.3pt",
			ImageHeight: "40pt",
			Label:       "Line ${index}",
		},
	}
}

// Load reads path on top of the defaults. The format follows the extension:
// .toml, or .yaml/.yml.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 - path comes from the --config flag
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing TOML from %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML from %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", filepath.Ext(path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}
	return cfg, nil
}

// Validate resolves every scenario once so errors surface before rendering.
func (c *Config) Validate() error {
	if _, err := c.LineWrapping.Params(100, layout.FontResource{}); err != nil {
		return fmt.Errorf("line_wrapping: %w", err)
	}
	if _, err := c.RawText.Params(layout.FontResource{}); err != nil {
		return fmt.Errorf("raw_text: %w", err)
	}
	if _, err := c.Table.Params("", layout.FontResource{}); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	for _, p := range binding.Placeholders(c.Table.Label) {
		if p != "index" {
			return fmt.Errorf("table: label placeholder ${%s} is not supported, only ${index}", p)
		}
	}
	return nil
}

// DocumentMeta converts Meta for the layout result.
func (m Meta) DocumentMeta() layout.DocumentMeta {
	return layout.DocumentMeta{
		Title:    m.Title,
		Author:   m.Author,
		Subject:  m.Subject,
		Creator:  m.Creator,
		Keywords: m.Keywords,
	}
}

// Params resolves the line_wrapping geometry for a content width in points.
func (c LineWrappingConfig) Params(width float64, font layout.FontResource) (layout.TextParams, error) {
	if width <= 0 {
		return layout.TextParams{}, fmt.Errorf("width must be positive, got %g", width)
	}
	height, err := points(c.PageHeight, "page_height")
	if err != nil {
		return layout.TextParams{}, err
	}
	gutter, err := points(c.Gutter, "gutter")
	if err != nil {
		return layout.TextParams{}, err
	}
	size, leading, err := fontMetrics(c.FontSize, c.LineHeight)
	if err != nil {
		return layout.TextParams{}, err
	}
	g := layout.Geometry{
		Width:  width + 2*gutter,
		Height: height,
		Margin: layout.Margin{Left: gutter, Right: gutter},
	}
	if err := g.Validate(); err != nil {
		return layout.TextParams{}, err
	}
	return layout.TextParams{Geometry: g, Font: withBuiltin(font, c.Font), FontSize: size, Leading: leading}, nil
}

// Params resolves the raw_text parameters.
func (c TextConfig) Params(font layout.FontResource) (layout.TextParams, error) {
	g, err := layout.ParseGeometry(c.Page)
	if err != nil {
		return layout.TextParams{}, err
	}
	size, leading, err := fontMetrics(c.FontSize, c.LineHeight)
	if err != nil {
		return layout.TextParams{}, err
	}
	return layout.TextParams{Geometry: g, Font: withBuiltin(font, c.Font), FontSize: size, Leading: leading}, nil
}

// Params resolves the table parameters for the given image.
func (c TableConfig) Params(image string, font layout.FontResource) (layout.TableParams, error) {
	g, err := layout.ParseGeometry(c.Page)
	if err != nil {
		return layout.TableParams{}, err
	}
	size, err := points(c.FontSize, "font_size")
	if err != nil {
		return layout.TableParams{}, err
	}
	if size <= 0 {
		return layout.TableParams{}, fmt.Errorf("font_size must be positive")
	}
	if len(c.Columns) != 3 {
		return layout.TableParams{}, fmt.Errorf("columns needs 3 widths, got %d", len(c.Columns))
	}
	cols := make([]float64, len(c.Columns))
	for i, v := range c.Columns {
		if cols[i], err = points(v, "columns"); err != nil {
			return layout.TableParams{}, err
		}
	}
	pad, err := padding(c.Padding)
	if err != nil {
		return layout.TableParams{}, err
	}
	rowHeight, err := points(c.RowHeight, "row_height")
	if err != nil {
		return layout.TableParams{}, err
	}
	border, err := points(c.Border, "border")
	if err != nil {
		return layout.TableParams{}, err
	}
	imgW, err := points(c.ImageWidth, "image_width")
	if err != nil {
		return layout.TableParams{}, err
	}
	imgH, err := points(c.ImageHeight, "image_height")
	if err != nil {
		return layout.TableParams{}, err
	}
	return layout.TableParams{
		Geometry:      g,
		Font:          withBuiltin(font, c.Font),
		FontSize:      size,
		ColumnWidths:  cols,
		Aligns:        c.Aligns,
		RowHeight:     rowHeight,
		Padding:       pad,
		BorderWidth:   border,
		ImagePath:     image,
		ImageWidth:    imgW,
		ImageHeight:   imgH,
		LabelTemplate: c.Label,
	}, nil
}

func points(v, field string) (float64, error) {
	l, err := layout.ParseLength(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return l.ToPT(), nil
}

func fontMetrics(fontSize, lineHeight string) (float64, float64, error) {
	size, err := layout.ParseLength(fontSize)
	if err != nil {
		return 0, 0, fmt.Errorf("font_size: %w", err)
	}
	if size.ToPT() <= 0 {
		return 0, 0, fmt.Errorf("font_size must be positive")
	}
	lh, err := layout.ParseLineHeight(lineHeight)
	if err != nil {
		return 0, 0, fmt.Errorf("line_height: %w", err)
	}
	leading := lh.Resolve(size, layout.UnitPT)
	if leading <= 0 {
		return 0, 0, fmt.Errorf("line_height must be positive")
	}
	return size.ToPT(), leading, nil
}

// padding 与 margin 相同，采用 CSS 的 1–4 值语义。
func padding(values []string) (layout.Padding, error) {
	vals := make([]float64, len(values))
	for i, v := range values {
		p, err := points(v, "padding")
		if err != nil {
			return layout.Padding{}, err
		}
		vals[i] = p
	}
	switch len(vals) {
	case 0:
		return layout.Padding{}, nil
	case 1:
		return layout.Padding{Top: vals[0], Right: vals[0], Bottom: vals[0], Left: vals[0]}, nil
	case 2:
		return layout.Padding{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}, nil
	case 3:
		return layout.Padding{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}, nil
	case 4:
		return layout.Padding{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
	default:
		return layout.Padding{}, fmt.Errorf("padding takes at most 4 values, got %d", len(vals))
	}
}

// withBuiltin fills in the scenario's built-in font when no file was given.
func withBuiltin(font layout.FontResource, builtin string) layout.FontResource {
	if font.Custom() {
		if font.Name == "" {
			font.Name = "font"
		}
		return font
	}
	return layout.FontResource{Name: builtin, Builtin: builtin}
}
