package dsl

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// 页面几何描述语法，例如：
//
//	A4 portrait margin 72pt
//	A4 margin 108pt 72pt
//	606x1000pt margin 0 3pt
var (
	geometryLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "Dimensions", Pattern: `\d+(?:\.\d+)?(?:pt|mm|cm|in)?[xX×]\d+(?:\.\d+)?(?:pt|mm|cm|in)?`},
		{Name: "Number", Pattern: `\d+(?:\.\d+)?(?:pt|mm|cm|in)?`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[,;]`},
	})

	geometryParser = participle.MustBuild[Geometry](
		participle.Lexer(geometryLexer),
		participle.Elide("Whitespace", "Comment", "Punct"),
		participle.CaseInsensitive("Ident"),
	)
)

// Geometry is the root AST node of a page geometry spec.
type Geometry struct {
	Pos         lexer.Position `parser:"" json:"-"`
	Size        Size           `parser:"@@"`
	Orientation string         `parser:"@( 'portrait' | 'landscape' )?"`
	Margin      []string       `parser:"( 'margin' @Number+ )?"`
}

// Size is either a named paper preset (A4, Letter...) or explicit dimensions.
type Size struct {
	Dimensions *Dimensions `parser:"  @Dimensions"`
	Preset     string      `parser:"| @Ident"`
}

// Dimensions holds the raw width/height tokens of `WxH`, each with an optional unit.
type Dimensions struct {
	Width  string
	Height string
}

// Capture implements participle.Capture.
func (d *Dimensions) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("dimensions capture requires value")
	}
	raw := strings.ReplaceAll(values[0], "×", "x")
	raw = strings.ReplaceAll(raw, "X", "x")
	w, h, ok := strings.Cut(raw, "x")
	if !ok || w == "" || h == "" {
		return fmt.Errorf("invalid dimensions %q", values[0])
	}
	// 宽度未写单位时沿用高度的单位，例如 606x1000pt
	if unit := unitSuffix(h); unit != "" && unitSuffix(w) == "" {
		w += unit
	}
	d.Width, d.Height = w, h
	return nil
}

// Landscape reports whether the spec asks for landscape orientation.
func (g *Geometry) Landscape() bool {
	return strings.EqualFold(g.Orientation, "landscape")
}

// ParseString parses a geometry spec from a string.
func ParseString(input string) (*Geometry, error) {
	return geometryParser.ParseString("", input)
}

func unitSuffix(v string) string {
	for _, suffix := range []string{"pt", "mm", "cm", "in"} {
		if strings.HasSuffix(v, suffix) {
			return suffix
		}
	}
	return ""
}
