package layout

import (
	"fmt"
	"strings"

	"github.com/gettalong/pdfbench/dsl"
)

// Geometry 描述页面尺寸与边距（pt）。
type Geometry struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
}

// ContentWidth 返回左右边距之间的可用宽度。
func (g Geometry) ContentWidth() float64 { return g.Width - g.Margin.Left - g.Margin.Right }

// ContentTop 返回内容区域顶部。
func (g Geometry) ContentTop() float64 { return g.Margin.Top }

// ContentBottom 返回内容区域底部 = 页面高度 - 下边距。
func (g Geometry) ContentBottom() float64 { return g.Height - g.Margin.Bottom }

// Validate 检查尺寸与边距是否留有可用空间。
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("页面尺寸必须为正数：%gx%g", g.Width, g.Height)
	}
	if g.ContentWidth() <= 0 {
		return fmt.Errorf("左右边距过大，可用宽度为 %g", g.ContentWidth())
	}
	if g.ContentBottom() <= g.ContentTop() {
		return fmt.Errorf("上下边距过大，可用高度为 %g", g.ContentBottom()-g.ContentTop())
	}
	return nil
}

// 纸张预设（pt），与 fpdf 的内置尺寸一致。
var pagePresets = map[string][2]float64{
	"A3":     {841.89, 1190.55},
	"A4":     {595.28, 841.89},
	"A5":     {420.94, 595.28},
	"LETTER": {612, 792},
	"LEGAL":  {612, 1008},
}

// ParseGeometry 解析诸如 "A4 margin 72pt" 的页面描述。
func ParseGeometry(spec string) (Geometry, error) {
	g, err := dsl.ParseString(spec)
	if err != nil {
		return Geometry{}, fmt.Errorf("解析页面描述 %q 失败: %w", spec, err)
	}
	return ResolveGeometry(g)
}

// ResolveGeometry 将语法树转换为具体尺寸。
func ResolveGeometry(spec *dsl.Geometry) (Geometry, error) {
	if spec == nil {
		return Geometry{}, fmt.Errorf("页面描述为空")
	}
	width, height, err := resolvePageSize(spec.Size)
	if err != nil {
		return Geometry{}, err
	}
	// 仅在显式声明方向时调整宽高
	if spec.Orientation != "" && spec.Landscape() != (width > height) {
		width, height = height, width
	}
	margin, err := resolveMargin(spec.Margin)
	if err != nil {
		return Geometry{}, err
	}
	g := Geometry{Width: width, Height: height, Margin: margin}
	if err := g.Validate(); err != nil {
		return Geometry{}, err
	}
	return g, nil
}

func resolvePageSize(size dsl.Size) (float64, float64, error) {
	if size.Dimensions != nil {
		w, err := ParseLength(size.Dimensions.Width)
		if err != nil {
			return 0, 0, err
		}
		h, err := ParseLength(size.Dimensions.Height)
		if err != nil {
			return 0, 0, err
		}
		return w.ToPT(), h.ToPT(), nil
	}
	base, ok := pagePresets[strings.ToUpper(size.Preset)]
	if !ok {
		return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", size.Preset)
	}
	return base[0], base[1], nil
}

// resolveMargin 采用 CSS 语义：
// 1 个值：四边相同；2 个值：上下、左右；3 个值：上、左右、下；4 个值：上 右 下 左。
func resolveMargin(values []string) (Margin, error) {
	vals := make([]float64, 0, len(values))
	for _, v := range values {
		l, err := ParseLength(v)
		if err != nil {
			return Margin{}, err
		}
		vals = append(vals, l.ToPT())
	}
	switch len(vals) {
	case 0:
		return Margin{}, nil
	case 1:
		v := vals[0]
		return Margin{Top: v, Right: v, Bottom: v, Left: v}, nil
	case 2:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}, nil
	case 3:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}, nil
	case 4:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
	default:
		return Margin{}, fmt.Errorf("margin 最多接受 4 个值，实际 %d 个", len(vals))
	}
}
