package dsl

import (
	"strings"
	"testing"
)

func TestParsePreset(t *testing.T) {
	g, err := ParseString("A4 landscape margin 72pt 36pt # comment")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if g.Size.Preset != "A4" || g.Size.Dimensions != nil {
		t.Fatalf("unexpected size: %+v", g.Size)
	}
	if !g.Landscape() {
		t.Fatalf("expected landscape")
	}
	if strings.Join(g.Margin, ",") != "72pt,36pt" {
		t.Fatalf("unexpected margin: %v", g.Margin)
	}
}

func TestParseDimensions(t *testing.T) {
	g, err := ParseString("606x1000pt\nMARGIN 0")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	d := g.Size.Dimensions
	if d == nil || d.Width != "606pt" || d.Height != "1000pt" {
		t.Fatalf("unexpected dimensions: %+v", d)
	}
	if g.Landscape() || g.Orientation != "" {
		t.Fatalf("orientation should be empty, got %q", g.Orientation)
	}
	if len(g.Margin) != 1 || g.Margin[0] != "0" {
		t.Fatalf("unexpected margin: %v", g.Margin)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "margin 10", "A4 margin"} {
		if _, err := ParseString(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}
