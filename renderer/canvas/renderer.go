package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/gettalong/pdfbench/fonts"
	"github.com/gettalong/pdfbench/layout"
	"github.com/gettalong/pdfbench/renderer"
)

// Renderer draws layout results via github.com/tdewolff/canvas.
// Layout coordinates are in points; canvas works in millimeters, so every
// value crosses toMm at the drawing boundary.
type Renderer struct {
	opts Options

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily

	imageMu sync.Mutex
	images  map[string]image.Image
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	// Compress enables stream compression in the PDF writer.
	Compress bool
}

// NewRenderer creates a renderer with the given options.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{
		opts:         opts,
		fontFamilies: map[string]*canvas.FontFamily{},
		images:       map[string]image.Image{},
	}
}

// Name identifies the backend in reports.
func (r *Renderer) Name() string { return "canvas" }

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	opts := pdf.DefaultOptions
	opts.Compress = r.opts.Compress
	first := result.Pages[0]
	writer := pdf.New(&buf, toMm(first.Width), toMm(first.Height), &opts)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(toMm(page.Width), toMm(page.Height))
		}
		c := canvas.New(toMm(page.Width), toMm(page.Height))
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page, result.Resources); err != nil {
			return nil, fmt.Errorf("渲染第 %d 页失败: %w", i+1, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// LayoutLines 实现 layout.Typesetter 接口，使用贪心换行算法。
// 入参与返回的宽度均为 pt；字体度量由 canvas 以 mm 给出，在此做换算。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, fontSize)
	if err != nil {
		return nil, err
	}
	lines := wrapText(content, toMm(width), face.TextWidth)
	for i := range lines {
		lines[i].Width = toPt(lines[i].Width)
	}
	return lines, nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, resources layout.ResourceSet) error {
	for _, textBox := range page.Texts {
		fontRes := resolveFontResource(textBox.Font, resources.Fonts)
		if err := r.drawTextBox(ctx, textBox, fontRes); err != nil {
			return err
		}
	}
	return r.drawTables(ctx, page.Tables, resources.Fonts)
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox, fontRes layout.FontResource) error {
	face, err := r.fontFace(fontRes, tb.FontSize)
	if err != nil {
		return err
	}

	// 处理水平对齐：left（默认）/center/right。
	var textAlign canvas.TextAlign
	var anchorX float64
	switch strings.ToLower(tb.Align) {
	case "center":
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case "right", "end":
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	for i, line := range tb.Lines {
		if line.Content == "" {
			continue
		}
		textLine := canvas.NewTextLine(face, line.Content, textAlign)
		ctx.DrawText(toMm(anchorX), toMm(tb.Baseline(i)), textLine)
	}
	return nil
}

func (r *Renderer) drawImage(ctx *canvas.Context, img layout.ImageBox) error {
	if img.Path == "" {
		return nil
	}
	data, err := r.loadImage(img.Path)
	if err != nil {
		return err
	}
	width := toMm(img.Width)
	if width <= 0 {
		width = toMm(float64(data.Bounds().Dx()))
	}
	dpmm := float64(data.Bounds().Dx()) / width
	if dpmm <= 0 {
		dpmm = 1
	}
	ctx.DrawImage(toMm(img.X), toMm(img.Y), data, canvas.DPMM(dpmm))
	return nil
}

// loadImage 按路径缓存解码结果，同一图片在整份文档中只解码一次。
func (r *Renderer) loadImage(path string) (image.Image, error) {
	r.imageMu.Lock()
	defer r.imageMu.Unlock()
	if img, ok := r.images[path]; ok {
		return img, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", path, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", path, err)
	}
	r.images[path] = img
	return img, nil
}

func (r *Renderer) drawTables(ctx *canvas.Context, tables []layout.TableBox, fonts map[string]layout.FontResource) error {
	for _, table := range tables {
		if len(table.ColumnWidths) == 0 {
			continue
		}
		for _, row := range table.Rows {
			x := table.X
			for idx, cell := range row.Cells {
				colIdx := min(idx, len(table.ColumnWidths)-1)
				colWidth := table.ColumnWidths[colIdx]
				if table.BorderWidth > 0 {
					ctx.SetFillColor(canvas.White)
					ctx.SetStrokeColor(canvas.Black)
					ctx.SetStrokeWidth(toMm(table.BorderWidth))
					ctx.DrawPath(toMm(x), toMm(row.Y), canvas.Rectangle(toMm(colWidth), toMm(row.Height)))
				}
				if cell.Text != nil {
					fontRes := resolveFontResource(cell.Text.Font, fonts)
					if err := r.drawTextBox(ctx, *cell.Text, fontRes); err != nil {
						return err
					}
				}
				if cell.Image != nil {
					if err := r.drawImage(ctx, *cell.Image); err != nil {
						return err
					}
				}
				x += colWidth
			}
		}
	}
	return nil
}

func (r *Renderer) fontFace(font layout.FontResource, sizePt float64) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, canvas.Black, canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[key]; ok {
		return family, nil
	}
	data, err := r.loadFontBytes(font)
	if err != nil {
		return nil, err
	}
	familyName := font.Name
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", fontLabel(font), err)
	}
	r.fontFamilies[key] = family
	return family, nil
}

func (r *Renderer) loadFontBytes(font layout.FontResource) ([]byte, error) {
	if font.Custom() {
		return fonts.LoadFile(font.Src)
	}
	builtin := font.Builtin
	if builtin == "" {
		builtin = fonts.Serif
	}
	return fonts.Load(builtin)
}

func resolveFontResource(name string, fonts map[string]layout.FontResource) layout.FontResource {
	if font, ok := fonts[name]; ok {
		return font
	}
	for _, font := range fonts {
		return font
	}
	return layout.FontResource{Name: name}
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Builtin)
}

func fontLabel(font layout.FontResource) string {
	if font.Src != "" {
		return font.Src
	}
	return font.Builtin
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
