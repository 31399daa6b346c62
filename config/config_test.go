package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gettalong/pdfbench/layout"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultResolvesBenchmarkParameters(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	raw, err := cfg.RawText.Params(layout.FontResource{})
	require.NoError(t, err)
	assert.InDelta(t, 595.28, raw.Geometry.Width, 1e-9)
	assert.Equal(t, layout.Margin{Top: 108, Right: 72, Bottom: 108, Left: 72}, raw.Geometry.Margin)
	assert.Equal(t, 12.0, raw.FontSize)
	assert.Equal(t, 14.0, raw.Leading)
	assert.Equal(t, "serif", raw.Font.Builtin)

	wrap, err := cfg.LineWrapping.Params(600, layout.FontResource{})
	require.NoError(t, err)
	assert.Equal(t, 606.0, wrap.Geometry.Width)
	assert.Equal(t, 600.0, wrap.Geometry.ContentWidth())
	assert.Equal(t, 1000.0, wrap.Geometry.Height)
	assert.InDelta(t, 11.16, wrap.Leading, 1e-9)

	table, err := cfg.Table.Params("img.png", layout.FontResource{})
	require.NoError(t, err)
	assert.Equal(t, []float64{200, 100, 100}, table.ColumnWidths)
	assert.Equal(t, layout.Padding{Top: 6, Right: 5, Bottom: 6, Left: 6}, table.Padding)
	assert.Equal(t, 51.5, table.RowHeight)
	assert.Equal(t, "sans", table.Font.Name)
	assert.Equal(t, "img.png", table.ImagePath)
}

func TestCustomFontIsNamedFont(t *testing.T) {
	p, err := Default().RawText.Params(layout.FontResource{Src: "my.ttf"})
	require.NoError(t, err)
	assert.Equal(t, layout.FontResource{Name: "font", Src: "my.ttf"}, p.Font)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "bench.toml", `
[meta]
title = "run"

[raw_text]
font_size = "11pt"
line_height = "1.5x"

[table]
label = "Row ${index:%03d}"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "run", cfg.Meta.Title)
	assert.Equal(t, "pdfbench", cfg.Meta.Creator)

	raw, err := cfg.RawText.Params(layout.FontResource{})
	require.NoError(t, err)
	assert.Equal(t, 11.0, raw.FontSize)
	assert.InDelta(t, 16.5, raw.Leading, 1e-9)
	assert.Equal(t, "A4 margin 108pt 72pt", cfg.RawText.Page)
	assert.Equal(t, "Row ${index:%03d}", cfg.Table.Label)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "bench.yaml", `
line_wrapping:
  gutter: 0pt
table:
  page: Letter margin 1in
  columns: [3in, 1in, 1in]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	wrap, err := cfg.LineWrapping.Params(500, layout.FontResource{})
	require.NoError(t, err)
	assert.Equal(t, 500.0, wrap.Geometry.Width)

	table, err := cfg.Table.Params("", layout.FontResource{})
	require.NoError(t, err)
	assert.Equal(t, 612.0, table.Geometry.Width)
	assert.Equal(t, []float64{216, 72, 72}, table.ColumnWidths)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bench.json", `{}`))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(writeFile(t, "bad.toml", "[raw_text]\npage = \"B9\"\n"))
	assert.ErrorContains(t, err, "raw_text")

	_, err = Load(writeFile(t, "bad.yaml", "table:\n  label: \"${name}\"\n"))
	assert.ErrorContains(t, err, "${name}")

	_, err = Load(writeFile(t, "cols.yaml", "table:\n  columns: [100pt]\n"))
	assert.ErrorContains(t, err, "columns")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLineWrappingRejectsNonPositiveWidth(t *testing.T) {
	_, err := Default().LineWrapping.Params(0, layout.FontResource{})
	assert.Error(t, err)
}
