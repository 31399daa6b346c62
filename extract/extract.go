// Package extract reads the text layer back out of generated PDFs so the two
// backends can be compared on content rather than bytes.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Glyphs whose baselines differ by less than this many points share a line.
const lineTolerance = 1.0

// Page is the text of one PDF page, top to bottom.
type Page struct {
	Number int      `json:"number"`
	Lines  []string `json:"lines"`
}

// File extracts every page of the PDF at path.
func File(path string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return Bytes(data)
}

// Bytes extracts every page of an in-memory PDF.
func Bytes(data []byte) ([]Page, error) {
	return Reader(bytes.NewReader(data), int64(len(data)))
}

// Reader extracts every page from r.
func Reader(r io.ReaderAt, size int64) ([]Page, error) {
	pr, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return pages(pr)
}

func pages(r *pdf.Reader) ([]Page, error) {
	var out []Page
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := pageContent(p)
		if err != nil {
			return nil, fmt.Errorf("read pdf page %d: %w", i, err)
		}
		out = append(out, Page{Number: i, Lines: groupLines(content.Text)})
	}
	return out, nil
}

// pageContent guards against the reader panicking on malformed content streams.
func pageContent(p pdf.Page) (content pdf.Content, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed content stream: %v", rec)
		}
	}()
	return p.Content(), nil
}

type line struct {
	y      float64
	glyphs []pdf.Text
}

// groupLines buckets glyphs by baseline. PDF y grows upwards, so lines are
// emitted by descending y. Within a line glyphs stay in content-stream order
// unless every glyph carries a width; without widths the reader cannot
// apply kerning offsets and x is not monotonic.
func groupLines(texts []pdf.Text) []string {
	var lines []*line
	for _, t := range texts {
		t.S = strings.ReplaceAll(t.S, "\uFFFD", "")
		if t.S == "" {
			continue
		}
		var target *line
		for _, ln := range lines {
			if math.Abs(ln.y-t.Y) < lineTolerance {
				target = ln
				break
			}
		}
		if target == nil {
			target = &line{y: t.Y}
			lines = append(lines, target)
		}
		target.glyphs = append(target.glyphs, t)
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		if measured(ln.glyphs) {
			sort.SliceStable(ln.glyphs, func(i, j int) bool { return ln.glyphs[i].X < ln.glyphs[j].X })
		}
		var b strings.Builder
		for i, g := range ln.glyphs {
			if i > 0 && needsSpace(ln.glyphs[i-1], g) {
				b.WriteByte(' ')
			}
			b.WriteString(g.S)
		}
		out = append(out, strings.TrimSpace(b.String()))
	}
	return out
}

func measured(glyphs []pdf.Text) bool {
	for _, g := range glyphs {
		if g.W <= 0 {
			return false
		}
	}
	return true
}

// needsSpace reports a word gap that the producer encoded as positioning
// instead of a space glyph.
func needsSpace(prev, cur pdf.Text) bool {
	if strings.TrimSpace(prev.S) == "" || strings.TrimSpace(cur.S) == "" {
		return false
	}
	size := math.Max(prev.FontSize, 1)
	// 无宽度信息时只能识别跨文本段的大幅跳跃（例如表格的相邻单元格）
	if prev.W <= 0 || cur.W <= 0 {
		return cur.X-prev.X > size
	}
	return cur.X-(prev.X+prev.W) > 0.2*size
}

// Lines flattens pages into a single list of lines.
func Lines(pages []Page) []string {
	var out []string
	for _, p := range pages {
		out = append(out, p.Lines...)
	}
	return out
}

// Words returns the whitespace-separated words of every page in reading order.
func Words(pages []Page) []string {
	var out []string
	for _, l := range Lines(pages) {
		out = append(out, strings.Fields(l)...)
	}
	return out
}

// Text renders pages as plain text with a form feed between pages.
func Text(pages []Page) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strings.Join(p.Lines, "\n")
	}
	return strings.Join(parts, "\n\f\n")
}

// Print writes pages in the `extract` command format.
func Print(w io.Writer, pages []Page) error {
	for _, p := range pages {
		if _, err := fmt.Fprintf(w, "--- page %d ---\n", p.Number); err != nil {
			return err
		}
		for _, l := range p.Lines {
			if _, err := fmt.Fprintln(w, l); err != nil {
				return err
			}
		}
	}
	return nil
}
