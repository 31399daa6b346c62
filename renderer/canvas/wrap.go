package canvasrenderer

import (
	"math"
	"strings"
	"unicode"

	"github.com/gettalong/pdfbench/layout"
)

// 宽度比较容差（mm），避免 pt↔mm 往返误差导致等宽行被拆开。
const widthEpsilon = 1e-9

// measureFunc 返回字符串的排版宽度，单位与 wrapText 的 width 一致。
type measureFunc func(string) float64

// wrapText 按段落（\n）贪心断行：在空白处断开，超宽单词在词内拆分，
// 行首空白丢弃，行尾空白不计入宽度。width <= 0 表示不限宽。
// 结果至少包含一行；文本末尾的单个换行不产生空行。
func wrapText(content string, width float64, measure measureFunc) []layout.TextLine {
	if width <= 0 {
		width = math.Inf(1)
	}
	paragraphs := strings.Split(strings.ReplaceAll(content, "\r", ""), "\n")
	if n := len(paragraphs); n > 1 && paragraphs[n-1] == "" {
		paragraphs = paragraphs[:n-1]
	}
	var lines []layout.TextLine
	for _, p := range paragraphs {
		lines = append(lines, wrapParagraph(p, width, measure)...)
	}
	return lines
}

type lineBuilder struct {
	limit   float64
	measure measureFunc
	buf     strings.Builder
	width   float64
	lines   []layout.TextLine
}

func (b *lineBuilder) fits(w float64) bool { return b.width+w <= b.limit+widthEpsilon }

func (b *lineBuilder) write(s string, w float64) {
	b.buf.WriteString(s)
	b.width += w
}

func (b *lineBuilder) flush() {
	s := strings.TrimRightFunc(b.buf.String(), unicode.IsSpace)
	b.lines = append(b.lines, layout.TextLine{Content: s, Width: b.measure(s)})
	b.buf.Reset()
	b.width = 0
}

func wrapParagraph(text string, limit float64, measure measureFunc) []layout.TextLine {
	b := &lineBuilder{limit: limit, measure: measure}
	for _, tok := range splitTokens(text) {
		w := measure(tok)
		if strings.TrimSpace(tok) == "" {
			// 行首空白丢弃；空白放不下时直接断行
			switch {
			case b.buf.Len() == 0:
			case b.fits(w):
				b.write(tok, w)
			default:
				b.flush()
			}
			continue
		}
		if b.buf.Len() > 0 && !b.fits(w) {
			b.flush()
		}
		if w <= limit+widthEpsilon {
			b.write(tok, w)
			continue
		}
		for _, chunk := range splitByWidth(tok, limit, measure) {
			cw := measure(chunk)
			if b.buf.Len() > 0 && !b.fits(cw) {
				b.flush()
			}
			b.write(chunk, cw)
		}
	}
	if b.buf.Len() > 0 || len(b.lines) == 0 {
		b.flush()
	}
	return b.lines
}

// splitTokens 把文本切成交替的空白段与非空白段。
func splitTokens(s string) []string {
	var tokens []string
	start := 0
	prevSpace := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if i > 0 && space != prevSpace {
			tokens = append(tokens, s[start:i])
			start = i
		}
		prevSpace = space
	}
	if start < len(s) {
		tokens = append(tokens, s[start:])
	}
	return tokens
}

// splitByWidth 将超宽单词按字符拆成不超过 limit 的片段，每段至少一个字符。
func splitByWidth(word string, limit float64, measure measureFunc) []string {
	var parts []string
	var chunk []rune
	for _, r := range word {
		if len(chunk) > 0 && measure(string(append(chunk, r))) > limit+widthEpsilon {
			parts = append(parts, string(chunk))
			chunk = chunk[:0]
		}
		chunk = append(chunk, r)
	}
	if len(chunk) > 0 {
		parts = append(parts, string(chunk))
	}
	return parts
}
