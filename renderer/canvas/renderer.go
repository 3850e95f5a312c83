package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/textwrap/fonts"
	"github.com/ByLCY/textwrap/layout"
	"github.com/ByLCY/textwrap/renderer"
)

// Format 是输出文件格式。
type Format string

const (
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// FormatFromPath 按扩展名推断输出格式，未知扩展名按 PDF 处理。
func FormatFromPath(path string) Format {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "svg":
		return FormatSVG
	case "png":
		return FormatPNG
	default:
		return FormatPDF
	}
}

// Renderer 基于 github.com/tdewolff/canvas 测量并绘制文本盒。
// 它同时是 layout.Measurer：排版与绘制使用同一套字形度量。
// 字体缓存由 fontMu 保护，同一个 Renderer 可以同时服务多个场景。
type Renderer struct {
	baseDir    string
	format     Format
	dpi        float64
	background string

	// injected resources
	fontBlobs map[string][]byte // by unique name
	fontErrs  map[string]error  // Path 资源读取失败的原因，按 name

	fontMu   sync.Mutex
	slots    map[string][]fontSlot            // 已注册字体，按 family 名
	families map[familyKey]*canvas.FontFamily // 每个 (family, bold, italic) 一个只含常规槽位的 FontFamily
	faces    map[faceKey]*canvas.FontFace     // 测量用字体面
}

var (
	_ renderer.Renderer    = (*Renderer)(nil)
	_ layout.Measurer      = (*Renderer)(nil)
	_ layout.FontRegistrar = (*Renderer)(nil)
)

type fontSlot struct {
	bold, italic bool
	data         []byte
}

type familyKey struct {
	family       string
	bold, italic bool
}

type faceKey struct {
	familyKey
	sizePt float64
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir    string
	Fonts      map[string]Resource // built-in fonts accessible via built-in:<name>
	Format     Format              // 缺省 PDF
	DPI        float64             // PNG 分辨率，缺省 96（1 px = 1 像素）
	Background string              // 画布底色，空表示透明
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based PDF renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:    opts.BaseDir,
		format:     opts.Format,
		dpi:        opts.DPI,
		background: opts.Background,
		fontBlobs:  map[string][]byte{},
		fontErrs:   map[string]error{},
		slots:      map[string][]fontSlot{},
		families:   map[familyKey]*canvas.FontFamily{},
		faces:      map[faceKey]*canvas.FontFace{},
	}
	if r.format == "" {
		r.format = FormatPDF
	}
	if r.dpi <= 0 {
		r.dpi = 96
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			switch {
			case err != nil:
				r.fontErrs[name] = err
			case len(data) > 0:
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

func tracer() tracing.Trace {
	return tracing.Select("textwrap")
}

// RegisterFont 实现 layout.FontRegistrar：读取字体数据并挂到 font.Family 名下。
// 同一 family 可以注册多个字重/斜体槽位。
func (r *Renderer) RegisterFont(font layout.FontResource, baseDir string) error {
	data, err := r.loadFontBytes(font, baseDir)
	if err != nil {
		return err
	}
	family := font.Family
	if family == "" {
		family = font.Name
	}
	styled := layout.FontConfig{Weight: font.Style, Style: font.Style}
	slot := fontSlot{bold: styled.IsBold(), italic: styled.IsItalic(), data: data}

	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	r.slots[family] = append(r.slots[family], slot)
	// 新注册的字体可能替换此前的回退选择。
	for k := range r.families {
		if k.family == family {
			delete(r.families, k)
		}
	}
	for k := range r.faces {
		if k.family == family {
			delete(r.faces, k)
		}
	}
	return nil
}

// Measure 实现 layout.Measurer，返回 px 宽度。字体加载失败时退回等宽估算。
func (r *Renderer) Measure(text string, font layout.FontConfig) float64 {
	if text == "" {
		return 0
	}
	face, err := r.measureFace(font)
	if err != nil {
		tracer().Errorf("measure %q with %s: %v", text, font.Family, err)
		return layout.FixedMeasurer{}.Measure(text, font)
	}
	return face.TextWidth(text) * layout.MmToPx
}

func (r *Renderer) measureFace(font layout.FontConfig) (*canvas.FontFace, error) {
	key := faceKey{
		familyKey: familyKey{family: font.Family, bold: font.IsBold(), italic: font.IsItalic()},
		sizePt:    font.Size * layout.PxToPt,
	}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if face, ok := r.faces[key]; ok {
		return face, nil
	}
	family, err := r.familyLocked(key.familyKey)
	if err != nil {
		return nil, err
	}
	face := family.Face(key.sizePt, canvas.Black, canvas.FontRegular, canvas.FontNormal)
	r.faces[key] = face
	return face, nil
}

// paintFace 创建带颜色的字体面；绘制时颜色因盒而异，不进缓存。
func (r *Renderer) paintFace(font layout.FontConfig, col color.Color) (*canvas.FontFace, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	family, err := r.familyLocked(familyKey{family: font.Family, bold: font.IsBold(), italic: font.IsItalic()})
	if err != nil {
		return nil, err
	}
	return family.Face(font.Size*layout.PxToPt, col, canvas.FontRegular, canvas.FontNormal), nil
}

// familyLocked 选择字体数据：已注册的同名 family 中槽位完全匹配者优先，
// 其次是该 family 的任一槽位，最后按族名归类到内置字体。调用方须持有 fontMu。
func (r *Renderer) familyLocked(key familyKey) (*canvas.FontFamily, error) {
	if family, ok := r.families[key]; ok {
		return family, nil
	}
	data := pickSlot(r.slots[key.family], key.bold, key.italic)
	if data == nil {
		data = fonts.Builtin(key.family, key.bold, key.italic)
		tracer().Debugf("font %q (bold=%v italic=%v) not registered, using built-in", key.family, key.bold, key.italic)
	}
	family := canvas.NewFontFamily(key.family)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", key.family, err)
	}
	r.families[key] = family
	return family, nil
}

func pickSlot(slots []fontSlot, bold, italic bool) []byte {
	for _, s := range slots {
		if s.bold == bold && s.italic == italic {
			return s.data
		}
	}
	if len(slots) > 0 {
		return slots[0].data
	}
	return nil
}

func (r *Renderer) loadFontBytes(font layout.FontResource, baseDir string) ([]byte, error) {
	if font.Src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	src := font.Src
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		if err, ok := r.fontErrs[name]; ok {
			return nil, fmt.Errorf("读取内置字体 %s 失败: %w", name, err)
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	// Path based
	if baseDir == "" {
		baseDir = r.baseDir
	}
	path := src
	if baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体文件 %s 失败: %w", src, err)
	}
	return data, nil
}

// Render 将场景绘制为 Options.Format 指定的格式。
func (r *Renderer) Render(scene *layout.Scene) ([]byte, error) {
	if scene == nil {
		return nil, fmt.Errorf("场景为空")
	}
	width, height := scene.Width*layout.PxToMm, scene.Height*layout.PxToMm
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	if r.background != "" {
		bg, _ := renderer.ParseColor(r.background)
		ctx.SetFillColor(toCanvasColor(bg))
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.DrawPath(0, 0, canvas.Rectangle(width, height))
	}
	for _, tb := range scene.Boxes() {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return nil, fmt.Errorf("绘制文本盒 %s 失败: %w", tb.ID, err)
		}
	}

	var buf bytes.Buffer
	switch r.format {
	case FormatSVG:
		writer := svg.New(&buf, width, height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	case FormatPNG:
		img := rasterizer.Draw(c, canvas.DPI(r.dpi), canvas.DefaultColorSpace)
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("编码 PNG 失败: %w", err)
		}
	default:
		writer := pdf.New(&buf, width, height, nil)
		writer.SetInfo(scene.Name, "", "", "", "textwrap")
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// drawTextBox 逐行绘制：第 i 行基线在 Top + Size + i*Size*LineHeight，
// 横向锚点按对齐方式取 Left、Left+width/2 或 Left+width。
func (r *Renderer) drawTextBox(ctx *canvas.Context, tb *layout.TextBox) error {
	look := tb.Appearance()
	if !look.Visible || tb.LineCount() == 0 {
		return nil
	}
	fill, _ := renderer.ParseColor(look.Fill)
	font := tb.Font()
	face, err := r.paintFace(font, toCanvasColor(renderer.WithOpacity(fill, look.Opacity)))
	if err != nil {
		return err
	}

	var textAlign canvas.TextAlign
	switch tb.Align() {
	case layout.AlignCenter:
		textAlign = canvas.Center
	case layout.AlignRight:
		textAlign = canvas.Right
	default:
		textAlign = canvas.Left
	}
	anchorX := tb.Left() + tb.Align().Offset(tb.Width())

	for i, line := range tb.Lines() {
		if line == "" {
			continue
		}
		baseline := tb.Baseline(i) * layout.PxToMm
		if font.CharSpacing == 0 {
			ctx.DrawText(anchorX*layout.PxToMm, baseline, canvas.NewTextLine(face, line, textAlign))
			continue
		}
		// 有字间距时逐字推进：每个字符前进自身宽度加 CharSpacing。
		lineWidth := tb.MeasureLine(line)
		x := anchorX - tb.Align().Offset(lineWidth)
		for _, ch := range line {
			s := string(ch)
			ctx.DrawText(x*layout.PxToMm, baseline, canvas.NewTextLine(face, s, canvas.Left))
			x += face.TextWidth(s)*layout.MmToPx + font.CharSpacing
		}
	}
	return nil
}

func toCanvasColor(c color.RGBA) color.RGBA {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, float64(c.A)/255.0)
}
