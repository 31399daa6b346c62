package layout

// 该文件定义布局结果与资源描述，供布局计算、渲染与调试 JSON 共用。
// 所有坐标以页面左上角为原点，单位为 pt。

// Result 保存布局后的页面与资源信息。
type Result struct {
	Pages     []Page       `json:"pages"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
}

// ResourceSet 记录文档引用的字体。
type ResourceSet struct {
	Fonts map[string]FontResource `json:"fonts"`
}

// FontResource 描述字体资源：Src 为字体文件路径，为空时使用 Builtin 指定的内置字体。
type FontResource struct {
	Name    string `json:"name"`
	Src     string `json:"src,omitempty"`
	Builtin string `json:"builtin,omitempty"` // serif / sans / mono
}

// Custom 表示字体来自用户提供的文件。
func (f FontResource) Custom() bool { return f.Src != "" }

// Page 记录页面尺寸、边距与最终可以直接渲染的元素。
type Page struct {
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Margin Margin     `json:"margin"`
	Texts  []TextBox  `json:"texts"`
	Tables []TableBox `json:"tables,omitempty"`
}

// Margin 以 pt 为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// TextBox 表示一组等行距排列的文本行。
// Y 为第一行的基线位置，第 i 行基线位于 Y + i*LineHeight。
type TextBox struct {
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	LineHeight float64    `json:"lineHeight"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"`
	Align      string     `json:"align,omitempty"` // left（默认）/center/right
	Lines      []TextLine `json:"lines"`
}

// Baseline 返回第 i 行的基线 y 坐标。
func (tb TextBox) Baseline(i int) float64 { return tb.Y + float64(i)*tb.LineHeight }

// TextLine 表示排版后的一行文本内容及其宽度。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
}

// ImageBox 用于描述图片位置与尺寸（左上角坐标）。
type ImageBox struct {
	Path   string  `json:"path"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TableBox 保存固定列宽表格在单页内的部分。
type TableBox struct {
	X            float64    `json:"x"`
	Y            float64    `json:"y"`
	ColumnWidths []float64  `json:"columnWidths"`
	BorderWidth  float64    `json:"borderWidth"`
	Rows         []TableRow `json:"rows"`
}

// TableRow 记录每一行的位置、高度与单元格。
type TableRow struct {
	Index  int         `json:"index"`
	Y      float64     `json:"y"`
	Height float64     `json:"height"`
	Cells  []TableCell `json:"cells"`
}

// TableCell 为文本或图片单元格，二者择一。
type TableCell struct {
	Text  *TextBox  `json:"text,omitempty"`
	Image *ImageBox `json:"image,omitempty"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
