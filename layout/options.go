package layout

// BuildOptions 配置布局阶段所需的依赖，例如排版后端。
type BuildOptions struct {
	Typesetter Typesetter
	Meta       DocumentMeta
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// 约定：width/fontSize/lineHeight 均为 pt；空文本返回一行空内容。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize, lineHeight float64) ([]TextLine, error)
}

// TextParams 描述纯文本类场景（line_wrapping / raw_text）的版式参数。
type TextParams struct {
	Geometry Geometry
	Font     FontResource
	FontSize float64
	Leading  float64
}

// Padding 为单元格内边距（pt）。
type Padding struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// TableParams 描述 table 场景的版式参数。
type TableParams struct {
	Geometry      Geometry
	Font          FontResource
	FontSize      float64
	ColumnWidths  []float64 // 依次为 标签 / 图片 / 序号 三列
	Aligns        []string
	RowHeight     float64
	Padding       Padding
	BorderWidth   float64
	ImagePath     string
	ImageWidth    float64
	ImageHeight   float64
	LabelTemplate string // 例如 "Line ${index}"
}
