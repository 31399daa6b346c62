package fpdfrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode"

	"codeberg.org/go-pdf/fpdf"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/font/sfnt"
	_ "golang.org/x/image/webp"

	"github.com/gettalong/pdfbench/fonts"
	"github.com/gettalong/pdfbench/layout"
	"github.com/gettalong/pdfbench/renderer"
)

// customFamily 是用户字体在 fpdf 中注册的族名。
const customFamily = "font"

// 内置字体在 fpdf 中对应的核心字体（cp1252 编码）。
var coreFonts = map[string]string{
	fonts.Serif: "Times",
	fonts.Sans:  "Helvetica",
	fonts.Mono:  "Courier",
}

// Options configures the fpdf renderer.
type Options struct {
	// Compress enables stream compression.
	Compress bool
	// Deterministic pins creation and modification dates and sorts the catalog,
	// so identical inputs produce identical bytes.
	Deterministic bool
}

// Renderer draws layout results via codeberg.org/go-pdf/fpdf.
// The same document is used for measuring and drawing, so an instance
// serves exactly one render.
type Renderer struct {
	opts Options

	doc       *fpdf.Fpdf
	translate func(string) string
	family    string
	loaded    map[string]string // FontResource.Name -> fpdf family
	images    map[string]string // path -> registered image name
	fontSize  float64
	rendered  bool
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// NewRenderer creates a renderer with the given options.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{
		opts:   opts,
		loaded: map[string]string{},
		images: map[string]string{},
	}
}

// Name identifies the backend in reports.
func (r *Renderer) Name() string { return "fpdf" }

func (r *Renderer) document() *fpdf.Fpdf {
	if r.doc != nil {
		return r.doc
	}
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetCompression(r.opts.Compress)
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCellMargin(0)
	if r.opts.Deterministic {
		epoch := time.Unix(0, 0).UTC()
		doc.SetCreationDate(epoch)
		doc.SetModificationDate(epoch)
		doc.SetCatalogSort(true)
	}
	r.translate = doc.UnicodeTranslatorFromDescriptor("")
	r.doc = doc
	return doc
}

// useFont 选中字体；用户字体以 UTF-8 方式注册，内置字体映射到核心字体。
func (r *Renderer) useFont(font layout.FontResource, size float64) error {
	doc := r.document()
	family, ok := r.loaded[font.Name]
	if !ok {
		if font.Custom() {
			data, err := fonts.LoadFile(font.Src)
			if err != nil {
				return err
			}
			if err := checkTrueType(data); err != nil {
				return fmt.Errorf("加载字体 %s 失败: %w", font.Src, err)
			}
			family = customFamily
			if len(r.loaded) > 0 {
				family = fmt.Sprintf("%s%d", customFamily, len(r.loaded))
			}
			doc.AddUTF8FontFromBytes(family, "", data)
			if doc.Err() {
				return fmt.Errorf("加载字体 %s 失败: %w", font.Src, doc.Error())
			}
		} else {
			family, ok = coreFonts[strings.ToLower(font.Builtin)]
			if !ok {
				family = coreFonts[fonts.Serif]
			}
		}
		r.loaded[font.Name] = family
	}
	if family != r.family || size != r.fontSize {
		doc.SetFont(family, "", size)
		r.family, r.fontSize = family, size
	}
	return doc.Error()
}

// checkTrueType 预先校验字体：fpdf 解析失败时只打印日志而不设置错误。
func checkTrueType(data []byte) error {
	if _, err := sfnt.Parse(data); err != nil {
		return err
	}
	if bytes.HasPrefix(data, []byte("OTTO")) {
		return errors.New("fpdf 不支持 CFF 轮廓的 OpenType 字体，请使用 TrueType 字体")
	}
	return nil
}

func (r *Renderer) utf8() bool {
	return r.family != "" && strings.HasPrefix(r.family, customFamily)
}

// encode 将 UTF-8 文本转换为当前字体可接受的编码。
func (r *Renderer) encode(s string) string {
	if r.utf8() {
		return s
	}
	return r.translate(s)
}

// LayoutLines 实现 layout.Typesetter 接口，折行交给 fpdf 的 SplitText。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64) ([]layout.TextLine, error) {
	if err := r.useFont(font, fontSize); err != nil {
		return nil, err
	}
	doc := r.document()
	var lines []layout.TextLine
	for _, part := range doc.SplitText(content, width) {
		part = strings.TrimRightFunc(part, unicode.IsSpace)
		lines = append(lines, layout.TextLine{
			Content: part,
			Width:   doc.GetStringWidth(r.encode(part)),
		})
	}
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: ""}}
	}
	return lines, doc.Error()
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	if r.rendered {
		return nil, fmt.Errorf("fpdf 渲染器只能使用一次")
	}
	r.rendered = true

	doc := r.document()
	r.applyMeta(doc, result.Meta)
	for i, page := range result.Pages {
		doc.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})
		if err := r.drawPage(page, result.Resources); err != nil {
			return nil, fmt.Errorf("渲染第 %d 页失败: %w", i+1, err)
		}
		if doc.Err() {
			return nil, fmt.Errorf("渲染第 %d 页失败: %w", i+1, doc.Error())
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(doc *fpdf.Fpdf, meta layout.DocumentMeta) {
	doc.SetTitle(meta.Title, true)
	doc.SetSubject(meta.Subject, true)
	doc.SetAuthor(meta.Author, true)
	doc.SetCreator(meta.Creator, true)
	doc.SetKeywords(strings.Join(meta.Keywords, ", "), true)
}

func (r *Renderer) drawPage(page layout.Page, resources layout.ResourceSet) error {
	for _, tb := range page.Texts {
		if err := r.drawTextBox(tb, resolveFontResource(tb.Font, resources.Fonts)); err != nil {
			return err
		}
	}
	for _, table := range page.Tables {
		if err := r.drawTable(table, resources.Fonts); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(tb layout.TextBox, font layout.FontResource) error {
	if err := r.useFont(font, tb.FontSize); err != nil {
		return err
	}
	doc := r.document()
	for i, line := range tb.Lines {
		if line.Content == "" {
			continue
		}
		text := r.encode(line.Content)
		x := tb.X
		switch strings.ToLower(tb.Align) {
		case "center":
			x += (tb.Width - doc.GetStringWidth(text)) / 2
		case "right", "end":
			x += tb.Width - doc.GetStringWidth(text)
		}
		doc.Text(x, tb.Baseline(i), text)
	}
	return nil
}

func (r *Renderer) drawTable(table layout.TableBox, fonts map[string]layout.FontResource) error {
	if len(table.ColumnWidths) == 0 {
		return nil
	}
	doc := r.document()
	if table.BorderWidth > 0 {
		doc.SetLineWidth(table.BorderWidth)
		doc.SetDrawColor(0, 0, 0)
	}
	for _, row := range table.Rows {
		x := table.X
		for idx, cell := range row.Cells {
			colWidth := table.ColumnWidths[min(idx, len(table.ColumnWidths)-1)]
			if table.BorderWidth > 0 {
				doc.Rect(x, row.Y, colWidth, row.Height, "D")
			}
			if cell.Text != nil {
				if err := r.drawTextBox(*cell.Text, resolveFontResource(cell.Text.Font, fonts)); err != nil {
					return err
				}
			}
			if cell.Image != nil {
				if err := r.drawImage(*cell.Image); err != nil {
					return err
				}
			}
			x += colWidth
		}
	}
	return nil
}

func (r *Renderer) drawImage(img layout.ImageBox) error {
	if img.Path == "" {
		return nil
	}
	name, err := r.registerImage(img.Path)
	if err != nil {
		return err
	}
	// 已注册的图片按名称取用，类型在注册时确定
	r.document().ImageOptions(name, img.X, img.Y, img.Width, img.Height, false, fpdf.ImageOptions{}, 0, "")
	return nil
}

// registerImage 每个路径只注册一次；fpdf 不支持的格式先转码为 PNG。
func (r *Renderer) registerImage(path string) (string, error) {
	if name, ok := r.images[path]; ok {
		return name, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("读取图片 %s 失败: %w", path, err)
	}
	imageType := ""
	switch http.DetectContentType(data) {
	case "image/png":
		imageType = "PNG"
	case "image/jpeg":
		imageType = "JPG"
	case "image/gif":
		imageType = "GIF"
	default:
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("解码图片 %s 失败: %w", path, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, decoded); err != nil {
			return "", fmt.Errorf("转码图片 %s 失败: %w", path, err)
		}
		data, imageType = buf.Bytes(), "PNG"
	}
	name := fmt.Sprintf("img%d", len(r.images))
	doc := r.document()
	doc.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	if doc.Err() {
		return "", fmt.Errorf("注册图片 %s 失败: %w", path, doc.Error())
	}
	r.images[path] = name
	return name, nil
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
