package layout

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/ecodeclub/ekit/slice"

	"github.com/gettalong/pdfbench/binding"
)

// 浮点比较容差，避免 733.89 这类边界因累加误差提前换页。
const epsilon = 1e-6

// BuildLineWrapping 将文本按换行拆成段落，每段交给 Typesetter 折行后自上而下排布，
// 放不下时自动换页。
func BuildLineWrapping(text string, p TextParams, opts BuildOptions) (*Result, error) {
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	if err := checkText(p); err != nil {
		return nil, err
	}

	pc := newPageCollector(p.Geometry)
	width := p.Geometry.ContentWidth()
	cursor := p.Geometry.ContentTop()
	for _, para := range SplitParagraphs(text) {
		lines, err := opts.Typesetter.LayoutLines(para, width, p.Font, p.FontSize, p.Leading)
		if err != nil {
			return nil, fmt.Errorf("段落排版失败: %w", err)
		}
		for _, ln := range lines {
			if cursor+p.Leading > p.Geometry.ContentBottom()+epsilon && pc.hasContent() {
				pc.newPage()
				cursor = p.Geometry.ContentTop()
			}
			box := pc.textBox(p, cursor+p.FontSize, "left")
			box.Lines = append(box.Lines, ln)
			cursor += p.Leading
		}
	}
	return pc.result(p.Font, opts.Meta), nil
}

// BuildRawText 不折行：每个输入行对应一个输出行，行距固定；
// 当基线越过 ContentBottom 时换页。
func BuildRawText(lines []string, p TextParams, opts BuildOptions) (*Result, error) {
	if err := checkText(p); err != nil {
		return nil, err
	}

	pc := newPageCollector(p.Geometry)
	counts := PaginateLines(len(lines), p.Geometry.ContentTop(), p.Geometry.ContentBottom(), p.Leading)
	next := 0
	for i, n := range counts {
		if i > 0 {
			pc.newPage()
		}
		box := pc.textBox(p, p.Geometry.ContentTop(), "left")
		for _, line := range lines[next : next+n] {
			content := strings.TrimRightFunc(line, unicode.IsSpace)
			box.Lines = append(box.Lines, TextLine{Content: content})
		}
		next += n
	}
	return pc.result(p.Font, opts.Meta), nil
}

// PaginateLines 返回每页放置的行数。第一行基线位于 top，之后每行下移 leading；
// 放置某行前若基线已超过 bottom，则另起一页。至少返回一页。
func PaginateLines(count int, top, bottom, leading float64) []int {
	if count <= 0 {
		return []int{0}
	}
	var pages []int
	y := top
	n := 0
	for i := 0; i < count; i++ {
		if y > bottom+epsilon && n > 0 {
			pages = append(pages, n)
			n = 0
			y = top
		}
		n++
		y += leading
	}
	return append(pages, n)
}

// TableRowData 为一行合成数据：标签、图片、序号。
type TableRowData struct {
	Index int
	Label string
	Image string
	Value string
}

// TableData 生成 rows 行合成数据，标签由模板插值得到（${index}）。
func TableData(rows int, labelTemplate, image string) []TableRowData {
	indexes := make([]int, rows)
	return slice.Map(indexes, func(idx int, _ int) TableRowData {
		return TableRowData{
			Index: idx,
			Label: binding.Interpolate(labelTemplate, map[string]any{"index": idx}),
			Image: image,
			Value: strconv.Itoa(idx),
		}
	})
}

// BuildTable 以固定列宽与固定行高排布表格，放不下的行移到下一页。
func BuildTable(rows int, p TableParams, opts BuildOptions) (*Result, error) {
	if rows < 0 {
		return nil, fmt.Errorf("行数不能为负数：%d", rows)
	}
	if len(p.ColumnWidths) != 3 {
		return nil, fmt.Errorf("表格需要 3 列宽度，实际 %d 列", len(p.ColumnWidths))
	}
	if p.RowHeight <= 0 {
		return nil, fmt.Errorf("行高必须为正数：%g", p.RowHeight)
	}
	if p.FontSize <= 0 {
		return nil, fmt.Errorf("字号必须为正数：%g", p.FontSize)
	}
	if err := p.Geometry.Validate(); err != nil {
		return nil, err
	}

	pc := newPageCollector(p.Geometry)
	g := p.Geometry
	var table *TableBox
	cursor := g.ContentTop()
	for _, data := range TableData(rows, p.LabelTemplate, p.ImagePath) {
		if table != nil && cursor+p.RowHeight > g.ContentBottom()+epsilon {
			pc.newPage()
			table = nil
			cursor = g.ContentTop()
		}
		if table == nil {
			table = pc.table(TableBox{
				X:            g.Margin.Left,
				Y:            cursor,
				ColumnWidths: p.ColumnWidths,
				BorderWidth:  p.BorderWidth,
			})
		}
		table.Rows = append(table.Rows, buildTableRow(data, table.X, cursor, p))
		cursor += p.RowHeight
	}
	return pc.result(p.Font, opts.Meta), nil
}

func buildTableRow(data TableRowData, x, y float64, p TableParams) TableRow {
	row := TableRow{Index: data.Index, Y: y, Height: p.RowHeight}
	for col, width := range p.ColumnWidths {
		align := "left"
		if col < len(p.Aligns) {
			align = normalizeAlign(p.Aligns[col])
		}
		var cell TableCell
		if col == 1 {
			img := &ImageBox{
				Path:   data.Image,
				Y:      y + p.Padding.Top,
				Width:  p.ImageWidth,
				Height: p.ImageHeight,
			}
			img.X = x + p.Padding.Left + alignOffset(width-p.Padding.Left-p.Padding.Right, p.ImageWidth, align)
			cell.Image = img
		} else {
			content := data.Label
			if col == 2 {
				content = data.Value
			}
			cell.Text = &TextBox{
				X:          x + p.Padding.Left,
				Y:          y + p.Padding.Top + p.FontSize,
				Width:      width - p.Padding.Left - p.Padding.Right,
				LineHeight: p.FontSize,
				Font:       p.Font.Name,
				FontSize:   p.FontSize,
				Align:      align,
				Lines:      []TextLine{{Content: content}},
			}
		}
		row.Cells = append(row.Cells, cell)
		x += width
	}
	return row
}

// SplitLines 按换行拆分文本；以换行结尾的文件不产生额外的空行，\r 被去除。
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// SplitParagraphs 是 line_wrapping 的基准调优：先按换行拆分，段落之间不跨行折行。
func SplitParagraphs(text string) []string {
	lines := SplitLines(text)
	for i, ln := range lines {
		lines[i] = strings.TrimSpace(ln)
	}
	return lines
}

func checkText(p TextParams) error {
	if p.FontSize <= 0 {
		return fmt.Errorf("字号必须为正数：%g", p.FontSize)
	}
	if p.Leading <= 0 {
		return fmt.Errorf("行距必须为正数：%g", p.Leading)
	}
	return p.Geometry.Validate()
}

func normalizeAlign(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "center", "centre", "middle":
		return "center"
	case "right", "end":
		return "right"
	default:
		return "left"
	}
}

func alignOffset(container, width float64, align string) float64 {
	if container <= width {
		return 0
	}
	switch align {
	case "center":
		return (container - width) / 2
	case "right":
		return container - width
	default:
		return 0
	}
}

type pageAccumulator struct {
	texts  []TextBox
	tables []TableBox
}

type pageCollector struct {
	geometry Geometry
	accs     []*pageAccumulator
}

func newPageCollector(g Geometry) *pageCollector {
	pc := &pageCollector{geometry: g}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	pc.accs = append(pc.accs, acc)
	return acc
}

func (pc *pageCollector) curr() *pageAccumulator {
	return pc.accs[len(pc.accs)-1]
}

func (pc *pageCollector) hasContent() bool {
	acc := pc.curr()
	return len(acc.texts) > 0 || len(acc.tables) > 0
}

// textBox 返回当前页的文本框，不存在时按给定基线创建。
func (pc *pageCollector) textBox(p TextParams, baseline float64, align string) *TextBox {
	acc := pc.curr()
	if len(acc.texts) == 0 {
		acc.texts = append(acc.texts, TextBox{
			X:          p.Geometry.Margin.Left,
			Y:          baseline,
			Width:      p.Geometry.ContentWidth(),
			LineHeight: p.Leading,
			Font:       p.Font.Name,
			FontSize:   p.FontSize,
			Align:      align,
		})
	}
	return &acc.texts[len(acc.texts)-1]
}

func (pc *pageCollector) table(t TableBox) *TableBox {
	acc := pc.curr()
	acc.tables = append(acc.tables, t)
	return &acc.tables[len(acc.tables)-1]
}

func (pc *pageCollector) result(font FontResource, meta DocumentMeta) *Result {
	pages := make([]Page, len(pc.accs))
	for i, acc := range pc.accs {
		pages[i] = Page{
			Width:  pc.geometry.Width,
			Height: pc.geometry.Height,
			Margin: pc.geometry.Margin,
			Texts:  acc.texts,
			Tables: acc.tables,
		}
	}
	return &Result{
		Pages:     pages,
		Resources: ResourceSet{Fonts: map[string]FontResource{font.Name: font}},
		Meta:      meta,
	}
}
