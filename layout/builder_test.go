package layout

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stubTypesetter 是一个最小实现：每个字符宽 fontSize/2，按空格贪心折行。
type stubTypesetter struct {
	calls int
}

func (s *stubTypesetter) LayoutLines(content string, width float64, font FontResource, fontSize, lineHeight float64) ([]TextLine, error) {
	s.calls++
	charW := fontSize / 2
	words := strings.Fields(content)
	if len(words) == 0 {
		return []TextLine{{Content: ""}}, nil
	}
	var lines []TextLine
	cur := ""
	for _, w := range words {
		cand := w
		if cur != "" {
			cand = cur + " " + w
		}
		if float64(len(cand))*charW > width && cur != "" {
			lines = append(lines, TextLine{Content: cur, Width: float64(len(cur)) * charW})
			cur = w
			continue
		}
		cur = cand
	}
	lines = append(lines, TextLine{Content: cur, Width: float64(len(cur)) * charW})
	return lines, nil
}

func rawTextParams() TextParams {
	return TextParams{
		Geometry: Geometry{Width: 595.28, Height: 841.89, Margin: Margin{Top: 108, Right: 72, Bottom: 108, Left: 72}},
		Font:     FontResource{Name: "serif", Builtin: "serif"},
		FontSize: 12,
		Leading:  14,
	}
}

func TestPaginateLines(t *testing.T) {
	cases := []struct {
		count int
		want  []int
	}{
		{0, []int{0}},
		{1, []int{1}},
		{45, []int{45}},
		{46, []int{45, 1}},
		{100, []int{45, 45, 10}},
	}
	for _, c := range cases {
		got := PaginateLines(c.count, 108, 733.89, 14)
		if len(got) != len(c.want) {
			t.Fatalf("PaginateLines(%d) = %v, want %v", c.count, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("PaginateLines(%d) = %v, want %v", c.count, got, c.want)
			}
		}
	}
}

func TestBuildRawText(t *testing.T) {
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = "line   "
	}
	lines[3] = ""
	res, err := BuildRawText(lines, rawTextParams(), BuildOptions{})
	if err != nil {
		t.Fatalf("BuildRawText error: %v", err)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("期望 2 页，实际 %d 页", len(res.Pages))
	}
	first := res.Pages[0].Texts[0]
	if len(first.Lines) != 45 || len(res.Pages[1].Texts[0].Lines) != 5 {
		t.Fatalf("每页行数不符: %d / %d", len(first.Lines), len(res.Pages[1].Texts[0].Lines))
	}
	if first.X != 72 || first.Y != 108 {
		t.Fatalf("首行位置应为 (72,108)，实际 (%g,%g)", first.X, first.Y)
	}
	if got := first.Baseline(44); math.Abs(got-724) > 1e-9 {
		t.Fatalf("第 45 行基线应为 724，实际 %g", got)
	}
	if first.Lines[0].Content != "line" {
		t.Fatalf("行尾空白应被去除，实际 %q", first.Lines[0].Content)
	}
	if first.Lines[3].Content != "" {
		t.Fatalf("空行应保留为空内容，实际 %q", first.Lines[3].Content)
	}
}

func TestBuildRawTextEmptyInput(t *testing.T) {
	res, err := BuildRawText(nil, rawTextParams(), BuildOptions{})
	if err != nil {
		t.Fatalf("BuildRawText error: %v", err)
	}
	if len(res.Pages) != 1 {
		t.Fatalf("空输入应生成 1 页，实际 %d", len(res.Pages))
	}
}

func TestBuildLineWrapping(t *testing.T) {
	ts := &stubTypesetter{}
	p := TextParams{
		Geometry: Geometry{Width: 106, Height: 60, Margin: Margin{Left: 3, Right: 3}},
		Font:     FontResource{Name: "serif", Builtin: "serif"},
		FontSize: 10,
		Leading:  11.16,
	}
	// 宽 100pt、每字符 5pt => 每行最多 20 个字符；高 60pt => 每页 5 行
	text := "  aaaa bbbb cccc dddd eeee ffff  \n\nshort\n"
	res, err := BuildLineWrapping(text, p, BuildOptions{Typesetter: ts})
	if err != nil {
		t.Fatalf("BuildLineWrapping error: %v", err)
	}
	if ts.calls != 3 {
		t.Fatalf("应按 3 个段落调用 Typesetter，实际 %d 次", ts.calls)
	}
	var all []string
	for _, pg := range res.Pages {
		for _, tb := range pg.Texts {
			for _, ln := range tb.Lines {
				all = append(all, ln.Content)
			}
		}
	}
	want := []string{"aaaa bbbb cccc dddd", "eeee ffff", "", "short"}
	if strings.Join(all, "|") != strings.Join(want, "|") {
		t.Fatalf("折行结果不符: %q", all)
	}
	box := res.Pages[0].Texts[0]
	if box.X != 3 || box.Y != 10 || box.Width != 100 {
		t.Fatalf("文本框位置不符: %+v", box)
	}
}

func TestBuildLineWrappingPaging(t *testing.T) {
	p := TextParams{
		Geometry: Geometry{Width: 106, Height: 60, Margin: Margin{Left: 3, Right: 3}},
		Font:     FontResource{Name: "serif"},
		FontSize: 10,
		Leading:  11.16,
	}
	text := strings.Repeat("x\n", 12)
	res, err := BuildLineWrapping(text, p, BuildOptions{Typesetter: &stubTypesetter{}})
	if err != nil {
		t.Fatalf("BuildLineWrapping error: %v", err)
	}
	if len(res.Pages) != 3 {
		t.Fatalf("12 行每页 5 行应得 3 页，实际 %d", len(res.Pages))
	}
	if n := len(res.Pages[2].Texts[0].Lines); n != 2 {
		t.Fatalf("末页应有 2 行，实际 %d", n)
	}
}

func TestBuildLineWrappingRequiresTypesetter(t *testing.T) {
	if _, err := BuildLineWrapping("x", rawTextParams(), BuildOptions{}); err == nil {
		t.Fatalf("缺少 Typesetter 时应返回错误")
	}
}

func tableParams() TableParams {
	return TableParams{
		Geometry:      Geometry{Width: 595.28, Height: 841.89, Margin: Margin{Top: 72, Right: 72, Bottom: 72, Left: 72}},
		Font:          FontResource{Name: "sans", Builtin: "sans"},
		FontSize:      10,
		ColumnWidths:  []float64{200, 100, 100},
		Aligns:        []string{"left", "center", "right"},
		RowHeight:     51.5,
		Padding:       Padding{Top: 6, Right: 5, Bottom: 6, Left: 6},
		BorderWidth:   1,
		ImagePath:     "img.png",
		ImageWidth:    53.3,
		ImageHeight:   40,
		LabelTemplate: "Line ${index}",
	}
}

func TestBuildTable(t *testing.T) {
	res, err := BuildTable(30, tableParams(), BuildOptions{})
	if err != nil {
		t.Fatalf("BuildTable error: %v", err)
	}
	if len(res.Pages) != 3 {
		t.Fatalf("30 行每页 13 行应得 3 页，实际 %d", len(res.Pages))
	}
	tbl := res.Pages[0].Tables[0]
	if len(tbl.Rows) != 13 || len(tbl.ColumnWidths) != 3 {
		t.Fatalf("首页表格不符: rows=%d columns=%v", len(tbl.Rows), tbl.ColumnWidths)
	}
	row := res.Pages[1].Tables[0].Rows[0]
	if row.Index != 13 || row.Y != 72 {
		t.Fatalf("第二页首行应为 13 且位于顶部，实际 index=%d y=%g", row.Index, row.Y)
	}
	label := row.Cells[0].Text
	if label == nil || label.Lines[0].Content != "Line 13" {
		t.Fatalf("标签单元格不符: %+v", label)
	}
	if label.X != 78 || label.Y != 88 {
		t.Fatalf("标签位置应为 (78,88)，实际 (%g,%g)", label.X, label.Y)
	}
	img := row.Cells[1].Image
	if img == nil || img.Path != "img.png" {
		t.Fatalf("第二列应为图片: %+v", row.Cells[1])
	}
	// 列起点 272，内容宽 89，居中 => 272 + 6 + (89-53.3)/2
	if math.Abs(img.X-(278+(89-53.3)/2)) > 1e-9 || img.Y != 78 {
		t.Fatalf("图片位置不符: (%g,%g)", img.X, img.Y)
	}
	idx := row.Cells[2].Text
	if idx.Lines[0].Content != "13" || idx.Align != "right" {
		t.Fatalf("序号单元格不符: %+v", idx)
	}
	if last := res.Pages[2].Tables[0].Rows; len(last) != 4 || last[3].Index != 29 {
		t.Fatalf("末页行不符: %d", len(last))
	}
}

func TestBuildTableZeroRows(t *testing.T) {
	res, err := BuildTable(0, tableParams(), BuildOptions{})
	if err != nil {
		t.Fatalf("BuildTable error: %v", err)
	}
	if len(res.Pages) != 1 || len(res.Pages[0].Tables) != 0 {
		t.Fatalf("0 行应得 1 个空白页: %+v", res.Pages)
	}
}

func TestBuildTableErrors(t *testing.T) {
	if _, err := BuildTable(-1, tableParams(), BuildOptions{}); err == nil {
		t.Fatalf("负数行应报错")
	}
	p := tableParams()
	p.ColumnWidths = []float64{100}
	if _, err := BuildTable(1, p, BuildOptions{}); err == nil {
		t.Fatalf("列数不为 3 应报错")
	}
}

func TestSplitLines(t *testing.T) {
	if got := SplitLines("a\r\nb\n\nc\n"); strings.Join(got, "|") != "a|b||c" {
		t.Fatalf("SplitLines 结果不符: %q", got)
	}
	if got := SplitLines(""); len(got) != 0 {
		t.Fatalf("空文本应返回空切片: %q", got)
	}
	if got := SplitParagraphs("  x  \n\ty"); strings.Join(got, "|") != "x|y" {
		t.Fatalf("SplitParagraphs 结果不符: %q", got)
	}
}

func TestWriteDebugJSON(t *testing.T) {
	res, err := BuildRawText([]string{"hello"}, rawTextParams(), BuildOptions{})
	if err != nil {
		t.Fatalf("BuildRawText error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "nested", "layout.json")
	if err := WriteDebugJSON(res, path); err != nil {
		t.Fatalf("WriteDebugJSON error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取调试文件失败: %v", err)
	}
	var back Result
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("调试 JSON 无法解析: %v", err)
	}
	if back.Pages[0].Texts[0].Lines[0].Content != "hello" {
		t.Fatalf("调试 JSON 内容不符")
	}
	if err := WriteDebugJSON(nil, path); err != nil {
		t.Fatalf("nil 结果应直接返回: %v", err)
	}
}
